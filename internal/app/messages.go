package app

import (
	"github.com/jwulff/waveline/internal/db"
	"github.com/jwulff/waveline/internal/frame"
	"github.com/jwulff/waveline/internal/player"
)

// PlayerConnectedMsg is sent when both player connections are established.
type PlayerConnectedMsg struct {
	Client   *player.Client // for commands (seek, play, pause, status)
	EvClient *player.Client // for event subscription
}

// PlayerConnectErrorMsg is sent when the player connection fails.
type PlayerConnectErrorMsg struct {
	Err error
}

// PlayerEventMsg wraps a streamed event from the player.
type PlayerEventMsg struct {
	Event player.Event
}

// PlayerEventErrorMsg is sent when the event stream encounters an error.
type PlayerEventErrorMsg struct {
	Err error
}

// StatusResponseMsg carries the response to a status or transport command.
type StatusResponseMsg struct {
	Response player.Response
}

// CommandErrorMsg reports a failed player command without dropping the
// connection.
type CommandErrorMsg struct {
	Err error
}

// ProjectLoadedMsg carries a project read from SQLite.
type ProjectLoadedMsg struct {
	Doc *db.Document
}

// ProjectLoadErrorMsg is sent when the project cannot be read.
type ProjectLoadErrorMsg struct {
	Err error
}

// WaveformLoadedMsg carries a regenerated waveform for the open project.
type WaveformLoadedMsg struct {
	Waveform *db.Waveform
}

// FrameMsg delivers a coalesced pointer move.
type FrameMsg struct {
	Token frame.Token
}

// ZoomFrameMsg delivers a coalesced zoom request.
type ZoomFrameMsg struct {
	Token frame.Token
}

// SettleMsg fires once zoom input has been quiet for the settle delay.
type SettleMsg struct {
	Token frame.Token
}

// ScrollIdleMsg fires once scrolling has stopped.
type ScrollIdleMsg struct {
	Token frame.Token
}

// ClearTransientErrorMsg clears a transient error after a timeout.
type ClearTransientErrorMsg struct{}

// ReconnectTickMsg triggers a reconnection attempt.
type ReconnectTickMsg struct{}
