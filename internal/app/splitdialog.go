package app

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwulff/waveline/internal/split"
)

// splitDialog is the open split planner: the plan plus which part has
// focus and where the text cursor sits in it.
type splitDialog struct {
	plan   *split.Plan
	part   int
	cursor int // rune offset into the focused part's text
}

func (d *splitDialog) text() []rune {
	return []rune(d.plan.Parts()[d.part].Text)
}

// edit types into the focused part at the cursor. Keys bound to dialog
// commands never reach it.
func (d *splitDialog) edit(msg tea.KeyMsg) error {
	text := d.text()
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		ins := msg.Runes
		if msg.Type == tea.KeySpace {
			ins = []rune{' '}
		}
		text = slices.Insert(text, d.cursor, ins...)
		d.cursor += len(ins)
	case tea.KeyBackspace:
		if d.cursor == 0 {
			return nil
		}
		text = slices.Delete(text, d.cursor-1, d.cursor)
		d.cursor--
	default:
		return nil
	}
	return d.plan.SetText(d.part, string(text))
}

func (d *splitDialog) focus(part int) {
	d.part = min(max(part, 0), d.plan.Count()-1)
	d.cursor = min(d.cursor, len(d.text()))
}

// openDialog plans a split of the single selected segment. In scissor
// mode the hovered cut point seeds the plan; otherwise the segment is
// halved.
func (m *Model) openDialog() tea.Cmd {
	ids := m.ctrl.Selection().IDs()
	if len(ids) != 1 {
		return m.transientError("Select one segment to split")
	}
	seg, ok := m.doc.Snapshot().Find(ids[0])
	if !ok {
		return nil
	}

	var (
		plan *split.Plan
		err  error
	)
	if h, ok := m.ctrl.Hover(); ok && h.ID == seg.ID && h.Valid {
		plan, err = split.NewAt(seg, h.AtMs)
	} else {
		plan, err = split.New(seg, split.MinParts)
	}
	if err != nil {
		return m.transientError(err.Error())
	}
	cmd := m.dispatch(m.ctrl.SetScissor(false))
	m.dialog = &splitDialog{plan: plan}
	return cmd
}

// handleDialogKey edits the open plan. Refused edits leave the plan as it
// was and flash the reason.
func (m *Model) handleDialogKey(msg tea.KeyMsg) tea.Cmd {
	d := m.dialog
	var err error

	switch msg.String() {
	case KeyEscape, KeyCtrlC:
		m.dialog = nil
		return nil

	case KeyApply:
		m.dialog = nil
		if !m.doc.ApplyPlan(d.plan) {
			return m.transientError("Segment changed; split discarded")
		}
		m.ctrl.Selection().Set(d.plan.Source.ID)
		return m.sync()

	case KeyZoomIn, KeyZoomInAlt:
		err = d.plan.Increase()

	case KeyZoomOut:
		err = d.plan.Decrease()
		d.focus(d.part)

	case KeyNextPart:
		d.focus((d.part + 1) % d.plan.Count())

	case KeyPrevPart:
		d.focus((d.part + d.plan.Count() - 1) % d.plan.Count())

	case KeyScrollLeft:
		d.cursor = max(d.cursor-1, 0)

	case KeyScrollRight:
		d.cursor = min(d.cursor+1, len(d.text()))

	case KeyNudgeLeft, KeyNudgeRight:
		err = m.nudgeSplit(msg.String() == KeyNudgeRight)

	case KeySplitCursor:
		if err = d.plan.SplitAtChar(d.part, d.cursor); err == nil {
			d.part++
			d.cursor = 0
		}

	default:
		err = d.edit(msg)
	}

	if err != nil {
		return m.transientError(err.Error())
	}
	return nil
}

// nudgeSplit moves the boundary after the focused part (or before it, for
// the last part) by one terminal column.
func (m *Model) nudgeSplit(right bool) error {
	d := m.dialog
	i := d.part
	if i == d.plan.Count()-1 {
		i--
	}
	step := m.view.Axis.PixelToMs(m.cfg.Layout.PxPerColumn)
	if !right {
		step = -step
	}
	_, err := d.plan.MoveSplit(i, d.plan.Splits()[i]+step)
	return err
}
