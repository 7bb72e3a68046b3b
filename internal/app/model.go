package app

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jwulff/waveline/internal/config"
	"github.com/jwulff/waveline/internal/db"
	"github.com/jwulff/waveline/internal/frame"
	"github.com/jwulff/waveline/internal/interaction"
	"github.com/jwulff/waveline/internal/logging"
	"github.com/jwulff/waveline/internal/player"
	"github.com/jwulff/waveline/internal/segment"
	"github.com/jwulff/waveline/internal/timeaxis"
	"github.com/jwulff/waveline/internal/waveform"
)

// scrollIdleDelay is how long after the last wheel event scrolling is
// considered finished.
const scrollIdleDelay = 150 * time.Millisecond

// Options configures the editor model.
type Options struct {
	Config *config.Config
	Logger zerolog.Logger

	// Store is nil when no project database could be opened.
	Store     *db.Store
	ProjectID string

	// PlayerSocket empty disables the player connection.
	PlayerSocket string
}

// Model is the bubbletea model for the timeline editor.
type Model struct {
	cfg *config.Config
	log zerolog.Logger

	// Player connection
	socketPath       string
	client           *player.Client // for commands (seek, play, pause, status)
	evClient         *player.Client // for event subscription
	connected        bool
	connError        string
	reconnecting     bool
	reconnectAttempt int
	playing          bool

	// Project
	store     *db.Store
	projectID string
	project   *db.Project
	doc       *Document

	// Waveform
	buffer     waveform.Buffer
	generating bool
	progress   float64
	renderer   *waveform.Renderer
	raster     waveform.Raster

	// Timeline
	view       timeaxis.Viewport
	zoomer     *timeaxis.Zoomer
	scrollIdle *frame.Debouncer
	ctrl       *interaction.Controller
	playhead   float64 // seconds

	dialog *splitDialog

	// UI state
	width  int
	height int

	// Errors
	errorMessage   string
	errorTransient bool

	statusText string
}

// New creates a model from opts. A nil Config uses the defaults.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	ctrl := interaction.New(cfg.InteractionOptions(), opts.Logger)
	ctrl.SetSnapEnabled(cfg.Snap.Enabled)

	return Model{
		cfg:        cfg,
		log:        logging.WithComponent(opts.Logger, "editor"),
		socketPath: opts.PlayerSocket,
		store:      opts.Store,
		projectID:  opts.ProjectID,
		doc:        NewDocument(segment.Snapshot{}),
		renderer:   waveform.NewRenderer(cfg.RendererOptions(), logging.WithComponent(opts.Logger, "waveform")),
		view:       timeaxis.Viewport{Axis: cfg.Axis(1)},
		zoomer:     &timeaxis.Zoomer{},
		scrollIdle: frame.NewDebouncer(scrollIdleDelay),
		ctrl:       ctrl,
		statusText: "Loading project...",
	}
}

// Init loads the project and connects to the player.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{loadProjectCmd(m.store, m.projectID)}
	if m.socketPath != "" {
		cmds = append(cmds, connectCmd(m.socketPath))
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, cmd

	case tea.MouseMsg:
		cmd := m.handleMouse(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.Width = float64(msg.Width) * m.cfg.Layout.PxPerColumn
		m.view = m.view.ScrollTo(m.view.ScrollLeft)
		cmd := m.sync()
		return m, cmd

	case ProjectLoadedMsg:
		d := msg.Doc
		m.project = &d.Project
		m.projectID = d.Project.ID
		m.doc = NewDocument(d.Snapshot)
		m.view.Duration = d.Snapshot.Duration()
		m.setWaveform(d.Waveform)
		m.ctrl.Selection().Clear()
		m.statusText = fmt.Sprintf("%d segments", d.Snapshot.Len())
		m.log.Info().Str("project", d.Project.ID).Int("segments", d.Snapshot.Len()).Msg("project loaded")
		cmd := m.sync()
		return m, cmd

	case ProjectLoadErrorMsg:
		m.errorMessage = msg.Err.Error()
		m.errorTransient = false
		if errors.Is(msg.Err, db.ErrProjectNotFound) {
			m.statusText = "No project"
		}
		m.log.Error().Err(msg.Err).Msg("load project")
		return m, nil

	case WaveformLoadedMsg:
		m.setWaveform(msg.Waveform)
		cmd := m.sync()
		return m, cmd

	case PlayerConnectedMsg:
		m.client = msg.Client
		m.evClient = msg.EvClient
		m.connected = true
		m.connError = ""
		m.reconnecting = false
		m.reconnectAttempt = 0
		return m, tea.Batch(
			subscribeCmd(m.evClient),
			statusCmd(m.client),
		)

	case PlayerConnectErrorMsg:
		m.connected = false
		m.connError = msg.Err.Error()
		m.reconnecting = true
		return m, reconnectCmd(m.reconnectAttempt)

	case StatusResponseMsg:
		r := msg.Response
		if r.Playing != nil {
			m.playing = *r.Playing
		}
		if r.Time != nil {
			m.playhead = *r.Time
		}
		return m, nil

	case CommandErrorMsg:
		cmd := m.transientError(msg.Err.Error())
		return m, cmd

	case PlayerEventMsg:
		cmd := m.handleEvent(msg.Event)
		// Continue reading events on event client
		return m, tea.Batch(cmd, readEventCmd(m.evClient))

	case PlayerEventErrorMsg:
		m.connected = false
		m.connError = msg.Err.Error()
		m.reconnecting = true
		m.closePlayer()
		return m, reconnectCmd(m.reconnectAttempt)

	case ReconnectTickMsg:
		m.reconnectAttempt++
		return m, connectCmd(m.socketPath)

	case FrameMsg:
		cmd := m.dispatch(m.ctrl.Frame(msg.Token))
		return m, cmd

	case ZoomFrameMsg:
		v, ok := m.zoomer.Apply(msg.Token, m.view, m.playhead)
		if !ok {
			return m, nil
		}
		m.view = v
		tok := m.renderer.ZoomChanged()
		cmd := tea.Batch(settleCmd(m.renderer.Delay(), tok), m.sync())
		return m, cmd

	case SettleMsg:
		if m.renderer.Settle(msg.Token) {
			m.render()
		}
		return m, nil

	case ScrollIdleMsg:
		if m.scrollIdle.Fire(msg.Token) {
			m.view.Scrolling = false
			cmd := m.sync()
			return m, cmd
		}
		return m, nil

	case ClearTransientErrorMsg:
		if m.errorTransient {
			m.errorMessage = ""
			m.errorTransient = false
		}
		return m, nil
	}

	return m, nil
}

// handleEvent processes a player event and returns any resulting command.
func (m *Model) handleEvent(ev player.Event) tea.Cmd {
	switch ev.Event {
	case player.EventPosition:
		if ev.Time != nil {
			m.playhead = *ev.Time
		}
		if ev.Playing != nil {
			m.playing = *ev.Playing
		}

	case player.EventWaveformProgress:
		if ev.Generating != nil {
			m.generating = *ev.Generating
		}
		if ev.Progress != nil {
			m.progress = *ev.Progress
		}
		m.render()

	case player.EventWaveformReady:
		m.generating = false
		return loadWaveformCmd(m.store, m.projectID)

	case player.EventError:
		return m.transientError(ev.Message)
	}
	return nil
}

func (m *Model) setWaveform(w *db.Waveform) {
	m.buffer = w.Buffer()
	m.generating = w != nil && w.Generating
	m.progress = 0
	if w != nil {
		m.progress = w.Progress
	}
	m.renderer.Invalidate()
}

// sync pushes the current document, viewport and waveform to the
// controller and the renderer.
func (m *Model) sync() tea.Cmd {
	m.render()
	return m.dispatch(m.ctrl.SetFrame(interaction.Frame{
		Snapshot: m.doc.Snapshot(),
		Viewport: m.view,
		Buffer:   m.buffer,
	}))
}

func (m *Model) render() {
	m.raster, _ = m.renderer.Render(waveform.Input{
		Buffer:     m.buffer,
		Viewport:   m.view,
		Generating: m.generating,
		Progress:   int(m.progress),
	})
}

func (m *Model) transientError(text string) tea.Cmd {
	m.errorMessage = text
	m.errorTransient = true
	return clearTransientErrorCmd()
}

func (m *Model) closePlayer() {
	if m.client != nil {
		m.client.Close()
		m.client = nil
	}
	if m.evClient != nil {
		m.evClient.Close()
		m.evClient = nil
	}
}
