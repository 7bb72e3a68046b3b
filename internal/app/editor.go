package app

import (
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwulff/waveline/internal/events"
	"github.com/jwulff/waveline/internal/interaction"
	"github.com/jwulff/waveline/internal/selection"
	"github.com/jwulff/waveline/internal/timeaxis"
	"github.com/jwulff/waveline/internal/waveform"
)

// Screen rows above the track area: header, status bar, ruler, then the
// waveform lane.
const (
	headerRows = 3
	waveRows   = 3
	rulerRow   = headerRows - 1
	tracksTop  = headerRows + waveRows
)

// dispatch applies engine events to the document and the player. The
// document is the only thing that mutates segments; when it changes the
// controller gets a fresh frame.
func (m *Model) dispatch(evs []events.Event) tea.Cmd {
	var cmds []tea.Cmd
	changed := false
	for _, ev := range evs {
		switch ev := ev.(type) {
		case events.Seek:
			m.playhead = ev.Time
			cmds = append(cmds, seekCmd(m.client, ev.Time))

		case events.DragStart:
			m.doc.Begin()

		case events.DragEnd:
			m.doc.End()

		case events.UpdateSegment:
			if m.doc.Update(ev) {
				changed = true
			}

		case events.UpdateSegments:
			if m.doc.UpdateBatch(ev.Batch) {
				changed = true
			}

		case events.SelectSegments:
			m.log.Debug().Ints("ids", ev.IDs).Msg("selection")

		case events.SplitSegment:
			if m.doc.Split(ev.ID, ev.AtMs) {
				changed = true
			} else {
				cmds = append(cmds, m.transientError("Cannot split here"))
			}

		case events.DeleteSelected:
			if m.doc.Delete(ev.IDs) > 0 {
				m.ctrl.Selection().Clear()
				changed = true
			}

		case events.RequestMerge:
			if id, ok := m.doc.Merge(m.ctrl.Selection().IDs()); ok {
				m.ctrl.Selection().Set(id)
				changed = true
			}

		case events.RequestAlignToWaveform:
			if m.alignSelected() {
				changed = true
			}

		case events.RequestToggleSnap:
			m.ctrl.SetSnapEnabled(!m.ctrl.SnapEnabled())
		}
	}
	if changed {
		cmds = append(cmds, m.sync())
	}
	return tea.Batch(cmds...)
}

// alignSelected moves each selected segment onto the voice region the
// analyzer finds around it, as one undo step. Segments the analyzer
// declines keep their bounds.
func (m *Model) alignSelected() bool {
	if m.buffer.Empty() {
		return false
	}
	snap := m.doc.Snapshot()
	var batch []events.UpdateSegment
	for _, id := range m.ctrl.Selection().Ordered(snap) {
		seg, ok := snap.Find(id)
		if !ok {
			continue
		}
		r, ok := waveform.FindVoiceRegion(m.buffer,
			float64(seg.StartMs)/1000, float64(seg.EndMs)/1000, waveform.DefaultSearchWindow)
		if !ok {
			continue
		}
		batch = append(batch, events.UpdateSegment{
			ID:      id,
			StartMs: int64(math.Round(r.Start * 1000)),
			EndMs:   int64(math.Round(r.End * 1000)),
		})
	}
	return m.doc.UpdateBatch(batch)
}

// handleKey processes key presses.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.dialog != nil {
		return m.handleDialogKey(msg)
	}

	switch msg.String() {
	case KeyQuit, KeyCtrlC:
		m.closePlayer()
		return tea.Quit

	case KeyPlayPause:
		if m.client == nil {
			return nil
		}
		return playPauseCmd(m.client, m.playing)

	case KeyZoomIn, KeyZoomInAlt:
		return m.zoom(m.cfg.Timeline.ZoomStep)

	case KeyZoomOut:
		return m.zoom(1 / m.cfg.Timeline.ZoomStep)

	case KeyScrollLeft, KeyScrollH:
		return m.scroll(-m.view.Width / 8)

	case KeyScrollRight, KeyScrollL:
		return m.scroll(m.view.Width / 8)

	case KeyDelete, KeyBackspace:
		return m.dispatch(m.ctrl.Key(interaction.CmdDelete))

	case KeyMerge:
		return m.dispatch(m.ctrl.Key(interaction.CmdMerge))

	case KeyAlign:
		return m.dispatch(m.ctrl.Key(interaction.CmdAlign))

	case KeyToggleSnap:
		return m.dispatch(m.ctrl.Key(interaction.CmdToggleSnap))

	case KeyScissor:
		return m.dispatch(m.ctrl.SetScissor(!m.ctrl.Scissor()))

	case KeyEscape:
		if m.ctrl.Scissor() {
			return m.dispatch(m.ctrl.SetScissor(false))
		}
		return m.dispatch(m.ctrl.Key(interaction.CmdCancel))

	case KeySplitDialog:
		return m.openDialog()

	case KeyUndo, KeyRedo:
		cmd := m.dispatch(m.ctrl.Cancel())
		var ok bool
		if msg.String() == KeyUndo {
			ok = m.doc.Undo()
		} else {
			ok = m.doc.Redo()
		}
		if !ok {
			return cmd
		}
		return tea.Batch(cmd, m.sync())
	}

	return nil
}

// zoom queues a zoom by factor relative to the current level. Zoom anchors
// on the playhead unless the user is mid-scroll.
func (m *Model) zoom(factor float64) tea.Cmd {
	tok, schedule := m.zoomer.Request(m.view.Axis.Zoom()*factor, timeaxis.AnchorPlayhead)
	if !schedule {
		return nil
	}
	return zoomFrameCmd(m.cfg.FrameInterval(), tok)
}

func (m *Model) scroll(dx float64) tea.Cmd {
	m.view = m.view.ScrollBy(dx)
	m.view.Scrolling = true
	tok := m.scrollIdle.Touch()
	return tea.Batch(scrollIdleCmd(m.scrollIdle.Delay(), tok), m.sync())
}

// pointer maps a terminal cell to timeline pixels: x includes the scroll
// offset, y is relative to the top of the track area. Both land on the
// centre of the cell.
func (m Model) pointer(msg tea.MouseMsg) interaction.Pointer {
	pxc, pxr := m.cfg.Layout.PxPerColumn, m.cfg.Layout.PxPerRow
	return interaction.Pointer{
		X: m.view.ScrollLeft + float64(msg.X)*pxc + pxc/2,
		Y: float64(msg.Y-tracksTop)*pxr + pxr/2,
		Mods: interaction.Mods{
			Mods: selection.Mods{
				Toggle:     msg.Ctrl,
				Range:      msg.Shift,
				Accumulate: msg.Shift || msg.Ctrl,
			},
			NoSnap: msg.Alt,
		},
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.dialog != nil {
		return nil
	}
	p := m.pointer(msg)

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		if msg.Ctrl {
			if msg.Button == tea.MouseButtonWheelUp {
				return m.zoom(m.cfg.Timeline.ZoomStep)
			}
			return m.zoom(1 / m.cfg.Timeline.ZoomStep)
		}
		step := m.cfg.Layout.PxPerColumn * 4
		if msg.Button == tea.MouseButtonWheelUp {
			step = -step
		}
		return m.scroll(step)

	case tea.MouseButtonWheelLeft, tea.MouseButtonWheelRight:
		step := m.cfg.Layout.PxPerColumn * 4
		if msg.Button == tea.MouseButtonWheelLeft {
			step = -step
		}
		return m.scroll(step)
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if msg.Y >= rulerRow && msg.Y < tracksTop {
			t := m.view.Axis.PixelToTime(p.X)
			return m.dispatch([]events.Event{events.Seek{Time: min(max(t, 0), m.view.Duration)}})
		}
		if msg.Y < tracksTop {
			return nil
		}
		return m.dispatch(m.ctrl.PointerDown(p))

	case tea.MouseActionMotion:
		tok, schedule := m.ctrl.PointerMove(p)
		if !schedule {
			return nil
		}
		return frameCmd(m.cfg.FrameInterval(), tok)

	case tea.MouseActionRelease:
		return m.dispatch(m.ctrl.PointerUp(p))
	}
	return nil
}
