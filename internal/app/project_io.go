package app

import (
	"path/filepath"

	"github.com/treykane/cli-timeline/internal/project"
)

// saveProject writes the current document to the project file.
func (m *Model) saveProject() {
	if m.projectPath == "" {
		m.status = "No project file; start with --project to save"
		return
	}
	p := project.FromState(m.store.GetState())
	if err := project.Save(p, m.projectPath); err != nil {
		m.setStatusError("Save failed", err, "path", m.projectPath)
		return
	}
	m.status = "Saved " + filepath.Base(m.projectPath)
}
