// Package player provides the client and protocol types for talking to the
// external audio player over a Unix socket using NDJSON.
package player

// Command names understood by the player.
const (
	CmdStatus    = "status"
	CmdSeek      = "seek"
	CmdPlay      = "play"
	CmdPause     = "pause"
	CmdSubscribe = "subscribe"
)

// Event names streamed by the player.
const (
	EventPosition         = "position"
	EventWaveformProgress = "waveform_progress"
	EventWaveformReady    = "waveform_ready"
	EventError            = "error"
)

// Command is sent from the editor to the player.
type Command struct {
	Cmd    string   `json:"cmd"`
	Time   *float64 `json:"time,omitempty"` // seconds
	Events []string `json:"events,omitempty"`
}

// Response is returned by the player after processing a command.
type Response struct {
	OK        bool     `json:"ok"`
	Error     string   `json:"error,omitempty"`
	Time      *float64 `json:"time,omitempty"`
	Duration  *float64 `json:"duration,omitempty"`
	Playing   *bool    `json:"playing,omitempty"`
	MediaPath string   `json:"mediaPath,omitempty"`
}

// Event is streamed from the player to subscribed clients.
type Event struct {
	Event      string   `json:"event"`
	Time       *float64 `json:"time,omitempty"`
	Playing    *bool    `json:"playing,omitempty"`
	Generating *bool    `json:"generating,omitempty"`
	Progress   *float64 `json:"progress,omitempty"` // 0..100
	Message    string   `json:"message,omitempty"`
}

// Float64Ptr returns a pointer to v. Convenience for building commands.
func Float64Ptr(v float64) *float64 { return &v }
