package app

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jwulff/waveline/internal/config"
	"github.com/jwulff/waveline/internal/db"
	"github.com/jwulff/waveline/internal/interaction"
	"github.com/jwulff/waveline/internal/player"
	"github.com/jwulff/waveline/internal/segment"
)

// At the default config one column is 4px and the axis runs at 100px/s, so
// column c covers 40ms starting at c*40ms; its centre is c*40+20ms.
// Segment A [1000,3000] spans columns 25-74 on the first track row (7).
func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.Default()
	m := New(Options{Config: &cfg, Logger: zerolog.Nop()})
	m = update(t, m, tea.WindowSizeMsg{Width: 250, Height: 40})
	return update(t, m, ProjectLoadedMsg{Doc: &db.Document{
		Project: db.Project{ID: "p1", Name: "Interview", DurationMs: 10000},
		Snapshot: segment.NewSnapshot([]segment.Segment{
			{ID: 1, StartMs: 1000, EndMs: 3000, Text: "hello there"},
			{ID: 2, StartMs: 4000, EndMs: 6000, Text: "general"},
		}, 10000),
	}})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runTick runs a single tick command and feeds its message back in.
func runTick(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a scheduled frame")
	}
	return update(t, m, cmd())
}

func segmentByID(t *testing.T, m Model, id int) segment.Segment {
	t.Helper()
	seg, ok := m.doc.Snapshot().Find(id)
	if !ok {
		t.Fatalf("segment %d missing", id)
	}
	return seg
}

func TestNewModel(t *testing.T) {
	m := New(Options{Logger: zerolog.Nop()})
	if m.connected {
		t.Error("new model should not be connected")
	}
	if m.doc.Len() != 0 {
		t.Error("new model should have an empty document")
	}
	if !m.ctrl.SnapEnabled() {
		t.Error("snapping should start enabled")
	}
	if z := m.view.Axis.Zoom(); z != 1 {
		t.Errorf("zoom = %v, want 1", z)
	}
}

func TestProjectLoaded(t *testing.T) {
	m := newTestModel(t)
	if m.project == nil || m.project.ID != "p1" {
		t.Fatalf("project = %+v", m.project)
	}
	if m.view.Duration != 10 {
		t.Errorf("duration = %v, want 10", m.view.Duration)
	}
	if m.view.Width != 1000 {
		t.Errorf("viewport width = %v, want 1000", m.view.Width)
	}
	if got := m.ctrl.Visible(); len(got) != 2 {
		t.Errorf("visible = %d segments, want 2", len(got))
	}
}

func TestProjectLoadError(t *testing.T) {
	m := New(Options{Logger: zerolog.Nop()})
	m = update(t, m, ProjectLoadErrorMsg{Err: db.ErrProjectNotFound})
	if m.errorMessage == "" {
		t.Error("load error should be shown")
	}
	if m.statusText != "No project" {
		t.Errorf("statusText = %q", m.statusText)
	}
}

func TestDragMovesSegmentAndUndoes(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, press(50, 7))
	if m.ctrl.State() != interaction.DraggingMove {
		t.Fatalf("state = %v, want dragging-move", m.ctrl.State())
	}
	if !m.ctrl.Selection().Contains(1) {
		t.Error("pressed segment should be selected")
	}

	next, cmd := m.Update(motion(62, 7))
	m = runTick(t, next.(Model), cmd)
	m = update(t, m, release(62, 7))

	got := segmentByID(t, m, 1)
	if got.StartMs != 1480 || got.EndMs != 3480 {
		t.Errorf("after drag = [%d,%d], want [1480,3480]", got.StartMs, got.EndMs)
	}
	if m.ctrl.State() != interaction.Idle {
		t.Errorf("state after release = %v", m.ctrl.State())
	}

	m = update(t, m, keyMsg(KeyUndo))
	got = segmentByID(t, m, 1)
	if got.StartMs != 1000 || got.EndMs != 3000 {
		t.Errorf("after undo = [%d,%d], want [1000,3000]", got.StartMs, got.EndMs)
	}
	if m.doc.CanUndo() {
		t.Error("drag should be a single undo step")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if got := segmentByID(t, m, 1); got.StartMs != 1480 {
		t.Errorf("after redo start = %d, want 1480", got.StartMs)
	}
}

func TestMotionIsCoalesced(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, press(50, 7))

	next, first := m.Update(motion(55, 7))
	m = next.(Model)
	next, second := m.Update(motion(62, 7))
	m = next.(Model)
	if first == nil {
		t.Fatal("first move should schedule a frame")
	}
	if second != nil {
		t.Error("second move in the same frame should not schedule another")
	}

	m = runTick(t, m, first)
	if got := segmentByID(t, m, 1); got.StartMs != 1480 {
		t.Errorf("start = %d, want latest position 1480", got.StartMs)
	}
}

func TestRulerClickSeeks(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, press(70, rulerRow))
	if m.playhead != 2.82 {
		t.Errorf("playhead = %v, want 2.82", m.playhead)
	}
	if m.ctrl.Selection().Len() != 0 {
		t.Error("ruler click should not select")
	}
}

func TestScissorSplits(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, keyMsg(KeyScissor))
	if !m.ctrl.Scissor() {
		t.Fatal("scissor mode should be on")
	}

	m = update(t, m, press(50, 7))
	if m.doc.Len() != 3 {
		t.Fatalf("segments = %d, want 3", m.doc.Len())
	}
	left := segmentByID(t, m, 1)
	right := segmentByID(t, m, 3)
	if left.EndMs != 2020 || right.StartMs != 2020 || right.EndMs != 3000 {
		t.Errorf("split = [%d,%d] [%d,%d], want cut at 2020", left.StartMs, left.EndMs, right.StartMs, right.EndMs)
	}
	if left.Text+right.Text != "hello there" {
		t.Errorf("text = %q + %q", left.Text, right.Text)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.ctrl.Scissor() {
		t.Error("esc should leave scissor mode")
	}
}

func TestDeleteSelected(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, press(50, 7))
	m = update(t, m, release(50, 7))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDelete})
	if m.doc.Len() != 1 {
		t.Fatalf("segments = %d, want 1", m.doc.Len())
	}
	if m.ctrl.Selection().Len() != 0 {
		t.Error("selection should be cleared after delete")
	}
}

func TestMergeSelected(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, press(50, 7))
	m = update(t, m, release(50, 7))
	ctrlClick := press(120, 7)
	ctrlClick.Ctrl = true
	m = update(t, m, ctrlClick)
	m = update(t, m, release(120, 7))

	if n := m.ctrl.Selection().Len(); n != 2 {
		t.Fatalf("selected = %d, want 2", n)
	}
	m = update(t, m, keyMsg(KeyMerge))
	if m.doc.Len() != 1 {
		t.Fatalf("segments = %d, want 1", m.doc.Len())
	}
	got := segmentByID(t, m, 1)
	if got.StartMs != 1000 || got.EndMs != 6000 || got.Text != "hello there general" {
		t.Errorf("merged = %+v", got)
	}
}

func TestToggleSnapKey(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, keyMsg(KeyToggleSnap))
	if m.ctrl.SnapEnabled() {
		t.Error("snap should be off")
	}
	m = update(t, m, keyMsg(KeyToggleSnap))
	if !m.ctrl.SnapEnabled() {
		t.Error("snap should be back on")
	}
}

func TestAlignWithoutWaveformIsNoop(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, press(50, 7))
	m = update(t, m, release(50, 7))
	m = update(t, m, keyMsg(KeyAlign))
	if m.doc.CanUndo() {
		t.Error("align without a waveform should not edit")
	}
}

func TestZoomKey(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(keyMsg(KeyZoomIn))
	m = runTick(t, next.(Model), cmd)
	if z := m.view.Axis.Zoom(); z != 1.25 {
		t.Errorf("zoom = %v, want 1.25", z)
	}
	if m.view.Width != 1000 {
		t.Errorf("width changed to %v", m.view.Width)
	}

	for range 10 {
		next, cmd := m.Update(keyMsg(KeyZoomIn))
		m = runTick(t, next.(Model), cmd)
	}
	if z := m.view.Axis.Zoom(); z != 2 {
		t.Errorf("zoom = %v, want clamp at 2", z)
	}
}

func TestSplitDialog(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, keyMsg(KeySplitDialog))
	if m.dialog != nil {
		t.Fatal("dialog should need a selection")
	}

	m = update(t, m, press(50, 7))
	m = update(t, m, release(50, 7))
	m = update(t, m, keyMsg(KeySplitDialog))
	if m.dialog == nil {
		t.Fatal("dialog should open")
	}
	if n := m.dialog.plan.Count(); n != 2 {
		t.Fatalf("parts = %d, want 2", n)
	}

	m = update(t, m, keyMsg(KeyZoomIn))
	if n := m.dialog.plan.Count(); n != 3 {
		t.Fatalf("parts = %d, want 3", n)
	}
	if !strings.Contains(m.View(), "Split segment 1 into 3 parts") {
		t.Error("view should show the split panel")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.dialog != nil {
		t.Error("enter should close the dialog")
	}
	if m.doc.Len() != 4 {
		t.Errorf("segments = %d, want 4", m.doc.Len())
	}
	if got := segmentByID(t, m, 1); got.StartMs != 1000 || got.EndMs != 2000 {
		t.Errorf("first part = [%d,%d], want [1000,2000]", got.StartMs, got.EndMs)
	}
}

func TestSplitDialogTextSurvivesNudge(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, press(50, 7))
	m = update(t, m, release(50, 7))
	m = update(t, m, keyMsg(KeySplitDialog))

	m = update(t, m, keyMsg("X"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m = update(t, m, keyMsg(KeyNudgeRight))
	if got := m.dialog.plan.Parts()[0].Text; got != "X hello " {
		t.Errorf("part 0 = %q, want %q", got, "X hello ")
	}
	if got := m.dialog.plan.Splits()[0]; got != 2040 {
		t.Errorf("split = %d, want 2040", got)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := segmentByID(t, m, 1); got.Text != "Xhello " || got.EndMs != 2040 {
		t.Errorf("first part = %q ending %d, want %q ending 2040", got.Text, got.EndMs, "Xhello ")
	}
}

func TestSplitDialogEscDiscards(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, press(50, 7))
	m = update(t, m, release(50, 7))
	m = update(t, m, keyMsg(KeySplitDialog))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.dialog != nil {
		t.Error("esc should close the dialog")
	}
	if m.doc.Len() != 2 {
		t.Errorf("segments = %d, want 2", m.doc.Len())
	}
}

func TestPlayerConnectError(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, PlayerConnectErrorMsg{Err: errors.New("connection refused")})
	if m.connected {
		t.Error("should not be connected after error")
	}
	if !m.reconnecting {
		t.Error("should be reconnecting after connect error")
	}
}

func TestPlayerEvents(t *testing.T) {
	m := newTestModel(t)

	playing := true
	m = update(t, m, PlayerEventMsg{Event: player.Event{
		Event: player.EventPosition, Time: player.Float64Ptr(4.5), Playing: &playing,
	}})
	if m.playhead != 4.5 || !m.playing {
		t.Errorf("playhead = %v playing = %v", m.playhead, m.playing)
	}

	generating := true
	m = update(t, m, PlayerEventMsg{Event: player.Event{
		Event: player.EventWaveformProgress, Generating: &generating, Progress: player.Float64Ptr(45),
	}})
	if !m.generating || m.progress != 45 {
		t.Errorf("generating = %v progress = %v", m.generating, m.progress)
	}
	if !strings.Contains(m.View(), "generating waveform 45%") {
		t.Error("view should show waveform progress")
	}

	m = update(t, m, PlayerEventMsg{Event: player.Event{Event: player.EventError, Message: "decode failed"}})
	if m.errorMessage != "decode failed" || !m.errorTransient {
		t.Errorf("error = %q transient = %v", m.errorMessage, m.errorTransient)
	}
	m = update(t, m, ClearTransientErrorMsg{})
	if m.errorMessage != "" {
		t.Error("transient error should clear")
	}
}

func TestWaveformLoaded(t *testing.T) {
	m := newTestModel(t)
	peaks := make([]float32, 200)
	for i := range peaks {
		peaks[i] = 0.5
	}
	m = update(t, m, WaveformLoadedMsg{Waveform: &db.Waveform{ProjectID: "p1", Duration: 10, Peaks: peaks}})
	if m.buffer.Empty() {
		t.Fatal("buffer should be loaded")
	}
	if m.raster.Empty() {
		t.Error("raster should be rendered")
	}
	if strings.Contains(m.View(), "no waveform") {
		t.Error("view should draw the waveform")
	}
}

func TestViewRendersWithSize(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	for _, want := range []string{"WAVELINE", "Interview", "hello there", "SNAP", "Quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewWithoutSize(t *testing.T) {
	m := New(Options{Logger: zerolog.Nop()})
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q", got)
	}
}

func TestFormatMs(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "00:00.000"},
		{1480, "00:01.480"},
		{61005, "01:01.005"},
		{-5, "00:00.000"},
	}
	for _, tt := range tests {
		if got := formatMs(tt.ms); got != tt.want {
			t.Errorf("formatMs(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}
