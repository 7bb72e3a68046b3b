package app

// Key binding constants used in handleKey.
const (
	KeyQuit        = "q"
	KeyCtrlC       = "ctrl+c"
	KeyPlayPause   = " "
	KeyZoomIn      = "+"
	KeyZoomInAlt   = "="
	KeyZoomOut     = "-"
	KeyScrollLeft  = "left"
	KeyScrollRight = "right"
	KeyScrollH     = "h"
	KeyScrollL     = "l"
	KeyDelete      = "delete"
	KeyBackspace   = "backspace"
	KeyMerge       = "m"
	KeyAlign       = "w"
	KeyToggleSnap  = "s"
	KeyScissor     = "c"
	KeySplitDialog = "p"
	KeyUndo        = "u"
	KeyRedo        = "ctrl+r"
	KeyEscape      = "esc"

	// Split dialog.
	KeyApply       = "enter"
	KeyNextPart    = "tab"
	KeyPrevPart    = "shift+tab"
	KeyNudgeLeft   = "["
	KeyNudgeRight  = "]"
	KeySplitCursor = "."
)
