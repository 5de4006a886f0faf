package project

import "github.com/treykane/cli-timeline/internal/model"

// Sample returns the project opened when no project file is configured.
func Sample() Project {
	assets := []model.Asset{
		sampleAsset("char-detective", model.AssetCharacter, "characters", "Detective Vale", "A tired detective in a rain-soaked trench coat."),
		sampleAsset("char-courier", model.AssetCharacter, "characters", "Courier", "A young courier on a battered bike."),
		sampleAsset("env-alley", model.AssetEnvironment, "environments", "Neon Alley", "A narrow alley lit by flickering neon signs."),
		sampleAsset("env-rooftop", model.AssetEnvironment, "environments", "Rooftop", "A windy rooftop above the city at dawn."),
		sampleAsset("prop-lamp", model.AssetProp, "props", "Desk Lamp", "A green banker's lamp."),
		sampleAsset("cam-dolly", model.AssetCameraPreset, "cameras", "Slow Dolly In", "Slow push in at eye level."),
		sampleAsset("cam-crane", model.AssetCameraPreset, "cameras", "Crane Down", "Crane shot descending to street level."),
		sampleAsset("tpl-chase", model.AssetTemplate, "templates", "Chase Sequence", "Three quick cuts of pursuit."),
		sampleAsset("style-noir", model.AssetVisualStyle, "styles", "Noir", "High contrast black and white, hard shadows."),
		sampleAsset("style-pastel", model.AssetVisualStyle, "styles", "Pastel", "Soft pastel palette with gentle bloom."),
	}

	shots := []model.Shot{
		sampleShot("shot-1", "Opening alley", 0, 96, model.TrackMedia, "Establishing shot of a **neon alley** in the rain."),
		sampleShot("shot-2", "Detective enters", 96, 144, model.TrackMedia, "Detective Vale steps into frame, *slow dolly in*."),
		sampleShot("shot-3", "Rain ambience", 0, 240, model.TrackAudio, "Steady rain with distant traffic."),
		sampleShot("shot-4", "Noir grade", 48, 192, model.TrackEffects, "Apply the noir style."),
		sampleShot("shot-5", "Title card", 12, 60, model.TrackText, "CHAPTER ONE"),
	}

	return Project{
		Name:     "Untitled timeline",
		FPS:      24,
		Duration: 24 * 60 * 5,
		Zoom:     2,
		Tracks:   model.DefaultTracks(),
		Shots:    shots,
		Assets:   assets,
		Markers: []model.Marker{
			{ID: "marker-1", Frame: 96, Label: "Entrance", Color: "#ffb347"},
			{ID: "marker-2", Frame: 240, Label: "Cut", Color: "#ff6961"},
		},
	}
}

func sampleAsset(id string, t model.AssetType, category, name, description string) model.Asset {
	return model.Asset{
		ID:           id,
		Type:         t,
		Name:         name,
		ThumbnailURL: "thumbnails/" + id + ".png",
		CategoryID:   category,
		Metadata:     model.AssetMetadata{Description: description},
	}
}

func sampleShot(id, name string, start, duration int, t model.TrackType, prompt string) model.Shot {
	return model.Shot{
		ID:        id,
		Name:      name,
		StartTime: start,
		Duration:  duration,
		Layers: []model.Layer{{
			ID:       id + "-layer",
			Type:     t,
			Duration: duration,
			Opacity:  1,
		}},
		Prompt:           prompt,
		Parameters:       model.DefaultGenerationParameters(),
		GenerationStatus: model.StatusComplete,
	}
}
