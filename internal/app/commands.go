package app

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwulff/waveline/internal/db"
	"github.com/jwulff/waveline/internal/frame"
	"github.com/jwulff/waveline/internal/player"
)

var errNoStore = errors.New("no project database")

// connectCmd opens two player connections: one for commands, one for the
// event subscription.
func connectCmd(sockPath string) tea.Cmd {
	return func() tea.Msg {
		client, err := player.Connect(sockPath)
		if err != nil {
			return PlayerConnectErrorMsg{Err: err}
		}
		evClient, err := player.Connect(sockPath)
		if err != nil {
			client.Close()
			return PlayerConnectErrorMsg{Err: err}
		}
		return PlayerConnectedMsg{Client: client, EvClient: evClient}
	}
}

// subscribeCmd subscribes and then blocks for the first event.
func subscribeCmd(evClient *player.Client) tea.Cmd {
	return func() tea.Msg {
		if err := evClient.Subscribe(); err != nil {
			return PlayerEventErrorMsg{Err: err}
		}
		return readEventCmd(evClient)()
	}
}

// readEventCmd blocks for the next player event.
func readEventCmd(evClient *player.Client) tea.Cmd {
	return func() tea.Msg {
		ev, err := evClient.ReadEvent()
		if err != nil {
			return PlayerEventErrorMsg{Err: err}
		}
		return PlayerEventMsg{Event: ev}
	}
}

func statusCmd(client *player.Client) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Status()
		if err != nil {
			return CommandErrorMsg{Err: err}
		}
		return StatusResponseMsg{Response: resp}
	}
}

// seekCmd forwards a seek to the player. Without a connection the seek
// only moves the local playhead.
func seekCmd(client *player.Client, t float64) tea.Cmd {
	if client == nil {
		return nil
	}
	return func() tea.Msg {
		if err := client.Seek(t); err != nil {
			return CommandErrorMsg{Err: err}
		}
		return nil
	}
}

func playPauseCmd(client *player.Client, playing bool) tea.Cmd {
	cmd := player.CmdPlay
	if playing {
		cmd = player.CmdPause
	}
	return func() tea.Msg {
		resp, err := client.SendCommand(player.Command{Cmd: cmd})
		if err != nil {
			return CommandErrorMsg{Err: err}
		}
		return StatusResponseMsg{Response: resp}
	}
}

// loadProjectCmd reads the project, or the newest one when id is empty.
func loadProjectCmd(store *db.Store, id string) tea.Cmd {
	return func() tea.Msg {
		if store == nil {
			return ProjectLoadErrorMsg{Err: errNoStore}
		}
		if id == "" {
			p, err := store.LatestProject()
			if err != nil {
				return ProjectLoadErrorMsg{Err: err}
			}
			if p == nil {
				return ProjectLoadErrorMsg{Err: db.ErrProjectNotFound}
			}
			id = p.ID
		}
		doc, err := store.Load(id)
		if err != nil {
			return ProjectLoadErrorMsg{Err: err}
		}
		return ProjectLoadedMsg{Doc: doc}
	}
}

// loadWaveformCmd re-reads only the waveform after the player finishes
// generating it.
func loadWaveformCmd(store *db.Store, id string) tea.Cmd {
	return func() tea.Msg {
		if store == nil {
			return nil
		}
		w, err := store.Waveform(id)
		if err != nil {
			return CommandErrorMsg{Err: fmt.Errorf("reload waveform: %w", err)}
		}
		return WaveformLoadedMsg{Waveform: w}
	}
}

func frameCmd(d time.Duration, tok frame.Token) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return FrameMsg{Token: tok} })
}

func zoomFrameCmd(d time.Duration, tok frame.Token) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return ZoomFrameMsg{Token: tok} })
}

func settleCmd(d time.Duration, tok frame.Token) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return SettleMsg{Token: tok} })
}

func scrollIdleCmd(d time.Duration, tok frame.Token) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return ScrollIdleMsg{Token: tok} })
}

// clearTransientErrorCmd clears a transient error after 5 seconds.
func clearTransientErrorCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{}
	})
}

// reconnectCmd schedules a reconnection attempt with exponential backoff.
func reconnectCmd(attempt int) tea.Cmd {
	delay := time.Duration(1<<min(attempt, 4)) * time.Second // 1s, 2s, 4s, 8s, 16s cap
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ReconnectTickMsg{}
	})
}
