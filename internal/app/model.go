package app

import (
	"math"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/cli-timeline/internal/config"
	"github.com/treykane/cli-timeline/internal/drop"
	"github.com/treykane/cli-timeline/internal/gesture"
	"github.com/treykane/cli-timeline/internal/layout"
	"github.com/treykane/cli-timeline/internal/model"
	"github.com/treykane/cli-timeline/internal/playhead"
	"github.com/treykane/cli-timeline/internal/project"
	"github.com/treykane/cli-timeline/internal/render"
	"github.com/treykane/cli-timeline/internal/storage"
	"github.com/treykane/cli-timeline/internal/store"
	"github.com/treykane/cli-timeline/internal/tracks"
)

// focusArea selects which panel receives cursor keys.
type focusArea int

const (
	focusTimeline focusArea = iota
	focusAssets
)

type overlayMode int

const (
	overlayNone overlayMode = iota
	overlayHelp
	overlayGoTo
)

// Options configure a Model.
type Options struct {
	Config      config.Config
	Storage     storage.Storage
	Project     project.Project
	ProjectPath string
	// Now overrides the scheduler clock in tests.
	Now func() time.Time
}

// Model holds the Bubble Tea state for the entire UI.
type Model struct {
	cfg          config.Config
	cellW, cellH int
	projectPath  string

	// Shared state and ports
	store     *store.Store
	storage   storage.Storage
	bus       *gesture.Bus
	scheduler *teaScheduler
	feedback  *gesture.FeedbackState
	view      *panelView

	// Engines
	layout   *layout.Engine
	tracks   *tracks.Manager
	playhead *playhead.Engine
	drop     *drop.Target

	// Keybindings
	keyForAction map[string][]string
	keyToAction  map[string]string
	help         help.Model

	// UI widgets and modes
	gotoInput textinput.Model
	focus     focusArea
	overlay   overlayMode
	status    string

	// Layout sizing
	width  int
	height int

	// Timeline view state, in px
	scrollX float64
	scrollY float64

	selectedTrack string
	assetCursor   int
	assetOffset   int

	// Pointer state
	hoverHandle   model.PanelID
	hoverTrack    string
	pressed       pressKind
	assetDrag     *drop.Payload
	assetDragData []byte
	dragTarget    string

	// Render bookkeeping
	index       *render.Index
	indexShots  []model.Shot
	lastStats   render.Stats
	unsubscribe func()
	playSeq     int
	closed      bool

	promptCache   map[promptKey]string
	promptPending promptKey
}

// New prepares the initial UI model and restores persisted layout and track
// settings.
func New(opts Options) *Model {
	cfg := opts.Config
	proj := opts.Project
	if proj.FPS == 0 {
		proj.FPS = cfg.FPS
	}
	if proj.Duration == 0 {
		proj.Duration = cfg.DurationFrames
	}
	if proj.Zoom == 0 {
		proj.Zoom = cfg.ZoomLevel
	}

	m := &Model{
		cfg:         cfg,
		cellW:       max(cfg.CellWidthPx, 1),
		cellH:       max(cfg.CellHeightPx, 1),
		projectPath: opts.ProjectPath,
		storage:     opts.Storage,
		status:      "Ready",
		promptCache: map[promptKey]string{},
	}
	m.store = store.New(store.Options{})
	m.store.Dispatch(proj.Action())
	m.bus = gesture.NewBus()
	m.scheduler = newTeaScheduler(opts.Now)
	m.feedback = &gesture.FeedbackState{}
	m.view = newPanelView(m)

	m.layout = layout.New(layout.Options{
		Store:     m.store,
		Storage:   m.storage,
		View:      m.view,
		Feedback:  m.feedback,
		Bus:       m.bus,
		Scheduler: m.scheduler,
		Container: m.container,
	})
	m.tracks = tracks.New(tracks.Options{
		Store:     m.store,
		Storage:   m.storage,
		Bus:       m.bus,
		Scheduler: m.scheduler,
		Feedback:  m.feedback,
		OnHover:   m.onTrackHover,
	})
	m.playhead = playhead.New(playhead.Options{
		Store:         m.store,
		Bus:           m.bus,
		Feedback:      m.feedback,
		Scheduler:     m.scheduler,
		SnapToGrid:    cfg.SnapToGrid,
		Origin:        m.frameOrigin,
		OnSeek:        m.followPlayhead,
		OnMarkerClick: m.onMarkerClick,
	})
	m.drop = &drop.Target{Store: m.store}

	m.loadKeybindings(cfg)
	m.help = help.New()
	m.help.ShowAll = true

	m.gotoInput = textinput.New()
	m.gotoInput.Placeholder = "MM:SS:FF"
	m.gotoInput.CharLimit = InputCharLimit
	applyInputTheme(&m.gotoInput)

	m.layout.Mount()
	m.tracks.Mount()
	m.unsubscribe = m.store.Subscribe(m.onStateChange)
	m.onStateChange(m.store.GetState())
	return m
}

// Run starts the interactive editor and blocks until it exits.
func Run(opts Options) error {
	applyColorProfile(opts.Config.ColorProfile)
	m := New(opts)
	defer m.shutdown()
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}

// Init has nothing to start: timers are queued by the engines on demand.
func (m *Model) Init() tea.Cmd {
	return m.scheduler.drain()
}

// Update is the Bubble Tea update loop: handle events and emit commands.
// Ticks queued by the scheduler while handling msg are sent along, and the
// prompt of a newly selected shot starts rendering.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	return next, tea.Batch(cmd, m.scheduler.drain(), m.requestPromptRender())
}

func (m *Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case timerMsg:
		m.scheduler.fire(msg.id)
		return m, nil
	case playTickMsg:
		return m.handlePlayTick(msg)
	case promptRenderedMsg:
		return m.handlePromptRendered(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// State exposes the current store snapshot.
func (m *Model) State() store.State {
	return m.store.GetState()
}

// onStateChange keeps view bookkeeping in step with the store.
func (m *Model) onStateChange(s store.State) {
	if !sameShots(s.Shots(), m.indexShots) {
		m.indexShots = s.Shots()
		m.index = render.NewIndex(m.indexShots)
	}
	if _, _, ok := s.Track(m.selectedTrack); !ok {
		m.selectedTrack = ""
		if tracks := s.Tracks(); len(tracks) > 0 {
			m.selectedTrack = tracks[0].ID
		}
	}
}

func sameShots(a, b []model.Shot) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

// shutdown ends live gestures and flushes pending saves before exit.
func (m *Model) shutdown() {
	if m.closed {
		return
	}
	m.closed = true
	m.layout.Unmount()
	m.tracks.Unmount()
	m.playhead.Unmount()
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	if err := storage.Close(m.storage); err != nil {
		appLog.Warn("close storage", "error", err)
	}
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.shutdown()
	return m, tea.Quit
}

// frameOrigin is the screen px of frame 0.
func (m *Model) frameOrigin() float64 {
	return float64(TrackHeaderCols*m.cellW) - m.scrollX
}

func (m *Model) laneWidthPx() float64 {
	return float64(max(0, m.width-TrackHeaderCols) * m.cellW)
}

// followPlayhead scrolls so frame stays inside the lanes.
func (m *Model) followPlayhead(frame int) {
	lane := m.laneWidthPx()
	if lane <= 0 {
		return
	}
	x := float64(frame) * m.store.GetState().ZoomLevel()
	switch {
	case x < m.scrollX:
		m.scrollX = math.Max(0, x-lane*0.2)
	case x >= m.scrollX+lane:
		m.scrollX = x - lane*0.8
	}
	m.scrollX = m.snapScroll(m.scrollX)
}

// snapScroll rounds a horizontal scroll offset to whole cells.
func (m *Model) snapScroll(x float64) float64 {
	cw := float64(m.cellW)
	return math.Max(0, math.Round(x/cw)*cw)
}

// onTrackHover follows the pointer over track headers.
func (m *Model) onTrackHover(id string) {
	m.hoverTrack = id
}

func (m *Model) onMarkerClick(marker model.Marker) {
	m.status = "Marker: " + marker.Label
}

// handleWindowResize updates layout dimensions after terminal resize.
func (m *Model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = max(0, msg.Width-4)
	m.clampScroll()
	return m, nil
}

// clampScroll keeps the vertical scroll inside the track stack.
func (m *Model) clampScroll() {
	d := m.calculateLayout()
	win := m.renderInput(d).Window()
	maxY := math.Max(0, float64(win.TotalHeight-d.TracksHeight()*m.cellH))
	m.scrollY = math.Min(math.Max(0, m.scrollY), maxY)
	m.scrollX = math.Max(0, m.scrollX)
}
