package app

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jwulff/waveline/internal/interaction"
	"github.com/jwulff/waveline/internal/segment"
	"github.com/jwulff/waveline/internal/ui"
)

// waveLevels are the block characters for one waveform cell, quietest first.
var waveLevels = []rune(" ░▒▓█")

// rulerSteps are the candidate tick spacings in seconds.
var rulerSteps = []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15, 30, 60, 120, 300, 600}

// cell is one styled terminal cell.
type cell struct {
	r     rune
	style *lipgloss.Style
}

// row is one line of cells, rendered by grouping runs of equal style.
type row []cell

func newRow(width int, style *lipgloss.Style) row {
	r := make(row, width)
	for i := range r {
		r[i] = cell{r: ' ', style: style}
	}
	return r
}

func (r row) set(col int, ch rune, style *lipgloss.Style) {
	if col >= 0 && col < len(r) {
		r[col] = cell{r: ch, style: style}
	}
}

func (r row) write(col int, s string, style *lipgloss.Style) {
	for _, ch := range s {
		r.set(col, ch, style)
		col++
	}
}

func (r row) String() string {
	var b strings.Builder
	for i := 0; i < len(r); {
		j := i
		var run strings.Builder
		for j < len(r) && r[j].style == r[i].style {
			run.WriteRune(r[j].r)
			j++
		}
		if r[i].style == nil {
			b.WriteString(run.String())
		} else {
			b.WriteString(r[i].style.Render(run.String()))
		}
		i = j
	}
	return b.String()
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderStatusBar())
	sections = append(sections, m.renderRuler().String())
	for _, r := range m.renderWaveform() {
		sections = append(sections, r.String())
	}
	for _, r := range m.renderTracks() {
		sections = append(sections, r.String())
	}

	if m.dialog != nil {
		sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
		sections = append(sections, m.renderDialog()...)
	}

	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	if m.errorMessage != "" {
		sections = append(sections, m.renderErrorBar())
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("WAVELINE")
	if m.project == nil {
		return title
	}
	info := ui.DimStyle.Render(" · " + m.project.Name)
	if m.project.MediaPath != "" {
		info += ui.DimStyle.Render(" [" + m.project.MediaPath + "]")
	}
	return title + info
}

func (m Model) renderStatusBar() string {
	var dot string
	switch {
	case !m.connected:
		dot = ui.IdleDotStyle.Render("○ NO PLAYER")
	case m.playing:
		dot = ui.PlayingDotStyle.Render("▶ PLAY")
	default:
		dot = ui.IdleDotStyle.Render("■ PAUSED")
	}

	parts := []string{
		dot,
		ui.TimestampStyle.Render(formatTime(m.playhead) + " / " + formatTime(m.view.Duration)),
		ui.DimStyle.Render(fmt.Sprintf("zoom %.2fx", m.view.Axis.Zoom())),
	}
	if m.ctrl.SnapEnabled() {
		parts = append(parts, ui.SnapOnStyle.Render("SNAP"))
	} else {
		parts = append(parts, ui.DimStyle.Render("snap off"))
	}
	if m.ctrl.Scissor() {
		parts = append(parts, ui.ModeBadgeStyle.Render(" SCISSOR "))
	}
	if st := m.ctrl.State(); st != interaction.Idle {
		parts = append(parts, ui.SelectedStyle.Render(st.String()))
	}
	if n := m.ctrl.Selection().Len(); n > 0 {
		parts = append(parts, ui.SelectedStyle.Render(fmt.Sprintf("%d selected", n)))
	}
	if m.generating {
		parts = append(parts, ui.SpinnerStyle.Render(fmt.Sprintf("⟳ waveform %.0f%%", m.progress)))
	}
	if m.statusText != "" {
		parts = append(parts, ui.StatusStyle.Render(m.statusText))
	}
	return strings.Join(parts, "  ")
}

// colOf returns the terminal column showing timeline pixel x.
func (m Model) colOf(x float64) int {
	return int(math.Floor((x - m.view.ScrollLeft) / m.cfg.Layout.PxPerColumn))
}

// colX returns the timeline pixel at the centre of column col.
func (m Model) colX(col int) float64 {
	pxc := m.cfg.Layout.PxPerColumn
	return m.view.ScrollLeft + float64(col)*pxc + pxc/2
}

func (m Model) playheadCol() int {
	return m.colOf(m.view.Axis.TimeToPixel(m.playhead))
}

func (m Model) renderRuler() row {
	r := newRow(m.width, &ui.RulerStyle)
	pps := m.view.Axis.PixelsPerSecond()
	minGap := 10 * m.cfg.Layout.PxPerColumn

	step := rulerSteps[len(rulerSteps)-1]
	for _, s := range rulerSteps {
		if s*pps >= minGap {
			step = s
			break
		}
	}

	start, end := m.view.VisibleRange(0)
	for t := math.Floor(start/step) * step; t <= end; t += step {
		col := m.colOf(m.view.Axis.TimeToPixel(t))
		if col < 0 {
			continue
		}
		r.set(col, '|', &ui.RulerStyle)
		r.write(col+1, formatTick(t, step), &ui.RulerStyle)
	}
	r.set(m.playheadCol(), '▼', &ui.PlayheadStyle)
	return r
}

func (m Model) renderWaveform() []row {
	rows := make([]row, waveRows)
	for i := range rows {
		rows[i] = newRow(m.width, &ui.WaveStyle)
	}

	switch {
	case m.generating:
		rows[waveRows/2].write(1, fmt.Sprintf("generating waveform %.0f%%", m.progress), &ui.SpinnerStyle)
		return rows
	case m.raster.Empty():
		rows[waveRows/2].write(1, "no waveform", &ui.DimStyle)
		return rows
	}

	var peak float64
	for _, v := range m.raster.Peaks {
		peak = max(peak, v)
	}
	if peak <= 0 {
		return rows
	}

	// While a zoom settles the old raster is stretched to the new scale.
	stretch := 1.0
	if m.renderer.Suspended() {
		stretch = m.renderer.Stretch(m.view.Axis)
	}
	levels := float64(len(waveLevels) - 1)
	for col := 0; col < m.width; col++ {
		amp := m.raster.At(m.colX(col)/stretch) / peak
		filled := amp * waveRows
		for i := range rows {
			fromBottom := float64(waveRows - 1 - i)
			v := min(max(filled-fromBottom, 0), 1)
			rows[i].set(col, waveLevels[int(math.Round(v*levels))], &ui.WaveStyle)
		}
	}

	if col := m.playheadCol(); col >= 0 {
		for i := range rows {
			rows[i].set(col, '│', &ui.PlayheadStyle)
		}
	}
	return rows
}

func (m Model) renderTracks() []row {
	snap := m.doc.Snapshot()
	layout := m.cfg.SegmentLayout()
	pxr := m.cfg.Layout.PxPerRow
	pxc := m.cfg.Layout.PxPerColumn

	bottom := layout.TrackTop(segment.TrackCount(snap))
	rows := make([]row, int(math.Ceil(bottom/pxr)))
	placed := m.ctrl.Visible()
	sel := m.ctrl.Selection()
	box, boxing := sel.Box()

	for ri := range rows {
		rows[ri] = newRow(m.width, nil)
		y := float64(ri)*pxr + pxr/2
		for col := 0; col < m.width; col++ {
			x := m.colX(col)
			hit := -1
			for i := len(placed) - 1; i >= 0; i-- {
				if placed[i].Rect.Contains(x, y) {
					hit = i
					break
				}
			}
			if hit < 0 {
				if boxing && box.Rect().Contains(x, y) {
					rows[ri].set(col, '·', &ui.BoxStyle)
				}
				continue
			}

			p := placed[hit]
			style := &ui.SegmentStyle
			if sel.Contains(p.ID) {
				style = &ui.SegmentSelectedStyle
			}
			ch := ' '
			firstRow := int(math.Ceil((p.Rect.Top - pxr/2) / pxr))
			firstCol := int(math.Ceil((p.Rect.Left - m.view.ScrollLeft - pxc/2) / pxc))
			if text := []rune(p.Text); ri == firstRow && col-firstCol >= 0 && col-firstCol < len(text) {
				ch = text[col-firstCol]
			}
			rows[ri].set(col, ch, style)
		}
	}

	for _, r := range rows {
		r.set(m.playheadCol(), '│', &ui.PlayheadStyle)
	}
	if pt, ok := m.ctrl.SnapState(); ok {
		for _, r := range rows {
			r.set(m.colOf(pt.PixelX), '┆', &ui.SnapGuideStyle)
		}
	}
	if h, ok := m.ctrl.Hover(); ok {
		ch := '✂'
		style := &ui.CutGuideStyle
		if !h.Valid {
			ch, style = '×', &ui.ErrorStyle
		}
		for _, r := range rows {
			r.set(m.colOf(h.PixelX), ch, style)
		}
	}
	return rows
}

func (m Model) renderDialog() []string {
	d := m.dialog
	src := d.plan.Source
	lines := []string{ui.PanelTitleStyle.Render(fmt.Sprintf(
		"Split segment %d into %d parts  %s-%s",
		src.ID, d.plan.Count(), formatMs(src.StartMs), formatMs(src.EndMs)))}

	for i, p := range d.plan.Parts() {
		span := fmt.Sprintf("%d  %s-%s  ", i+1, formatMs(p.StartMs), formatMs(p.EndMs))
		if i != d.part {
			lines = append(lines, ui.DimStyle.Render("  "+span+p.Text))
			continue
		}
		text := []rune(p.Text)
		cur := min(d.cursor, len(text))
		lines = append(lines, ui.SelectedStyle.Render("> "+span)+
			string(text[:cur])+ui.FooterKeyStyle.Render("|")+string(text[cur:]))
	}
	return lines
}

func (m Model) renderErrorBar() string {
	return ui.ErrorStyle.Render("Error: ") + ui.ErrorTextStyle.Render(m.errorMessage)
}

func footerKey(key, desc string) string {
	return ui.FooterKeyStyle.Render(key) + ui.FooterDescStyle.Render(" "+desc)
}

func (m Model) renderFooter() string {
	var parts []string

	if m.dialog != nil {
		parts = append(parts,
			footerKey("+/-", "Parts"),
			footerKey("Tab", "Part"),
			footerKey("←→", "Cursor"),
			footerKey(".", "Split at cursor"),
			footerKey("[ ]", "Nudge"),
			footerKey("Enter", "Apply"),
			footerKey("Esc", "Cancel"),
		)
		return strings.Join(parts, "  ")
	}

	if m.connected {
		parts = append(parts, footerKey("Space", "Play"))
	}
	parts = append(parts,
		footerKey("+/-", "Zoom"),
		footerKey("h/l", "Scroll"),
		footerKey("s", "Snap"),
		footerKey("c", "Scissor"),
		footerKey("p", "Split"),
		footerKey("m", "Merge"),
		footerKey("w", "Align"),
		footerKey("Del", "Delete"),
		footerKey("u", "Undo"),
		footerKey("q", "Quit"),
	)
	return strings.Join(parts, "  ")
}

// formatTime renders seconds as mm:ss.mmm.
func formatTime(sec float64) string {
	return formatMs(int64(math.Round(sec * 1000)))
}

func formatMs(ms int64) string {
	ms = max(ms, 0)
	return fmt.Sprintf("%02d:%02d.%03d", ms/60000, ms/1000%60, ms%1000)
}

// formatTick labels a ruler tick, with tenths only when the step needs them.
func formatTick(t, step float64) string {
	t = math.Round(t*10) / 10
	whole := int(t)
	label := fmt.Sprintf("%d:%02d", whole/60, whole%60)
	if step < 1 {
		label += fmt.Sprintf(".%d", int(math.Round((t-math.Floor(t))*10))%10)
	}
	return label
}
