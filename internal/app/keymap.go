package app

// Key binding constants used in handleKey.
const (
	KeyQuit       = "q"
	KeyCtrlC      = "ctrl+c"
	KeyHome       = "f1"
	KeyHistory    = "f2"
	KeySwitchView = "ctrl+t"
	KeyTab        = "tab"
	KeyShiftTab   = "shift+tab"
	KeyEnter      = "enter"
	KeyUpload     = "ctrl+u"
	KeyClear      = "ctrl+x"
	KeyUp         = "up"
	KeyDown       = "down"
	KeyJ          = "j"
	KeyK          = "k"
	KeyLeft       = "left"
	KeyRight      = "right"
	KeyH          = "h"
	KeyL          = "l"
	KeyReload     = "r"
)
