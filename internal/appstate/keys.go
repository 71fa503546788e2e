package appstate

import (
	"unicode"

	"golang.org/x/mobile/event/key"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// Action names shared by keys and toolbar buttons.
const (
	actSample     = "sample"
	actPaste      = "paste"
	actReset      = "reset"
	actBackground = "background"
	actSave       = "save"
	actCopy       = "copy"
	actQuit       = "quit"
	actZoomIn     = "zoomin"
	actZoomOut    = "zoomout"
	actRotateCCW  = "rotateccw"
	actRotateCW   = "rotatecw"
	actLeft       = "left"
	actRight      = "right"
	actUp         = "up"
	actDown       = "down"
)

var keyboardAction = map[KeyShortcut]string{
	{Rune: 'o'}:                            actSample,
	{Rune: 'v', Modifiers: key.ModControl}: actPaste,
	{Rune: 'r'}:                            actReset,
	{Rune: 'b'}:                            actBackground,
	{Rune: 's', Modifiers: key.ModControl}: actSave,
	{Rune: 'c', Modifiers: key.ModControl}: actCopy,
	{Rune: 'q'}:                            actQuit,
	{Rune: '+'}:                            actZoomIn,
	{Rune: '='}:                            actZoomIn,
	{Rune: '-'}:                            actZoomOut,
	{Rune: '_'}:                            actZoomOut,
	{Rune: '['}:                            actRotateCCW,
	{Rune: ']'}:                            actRotateCW,
	{Code: key.CodeLeftArrow}:              actLeft,
	{Code: key.CodeRightArrow}:             actRight,
	{Code: key.CodeUpArrow}:                actUp,
	{Code: key.CodeDownArrow}:              actDown,
	{Code: key.CodeKeypadPlusSign}:         actZoomIn,
	{Code: key.CodeKeypadHyphenMinus}:      actZoomOut,
	{Code: key.CodeEscape}:                 actQuit,
}

// actionFor resolves a key event to an action name. Shift is ignored so
// '+' works on layouts where it needs shift. Releases never match.
func actionFor(e key.Event) string {
	if e.Direction == key.DirRelease {
		return ""
	}
	mods := e.Modifiers & key.ModControl
	if e.Rune > 0 {
		r := unicode.ToLower(e.Rune)
		// Some drivers report Ctrl+letter as the control character.
		if mods != 0 && r < ' ' {
			r += 'a' - 1
		}
		if act, ok := keyboardAction[KeyShortcut{Rune: r, Modifiers: mods}]; ok {
			return act
		}
	}
	return keyboardAction[KeyShortcut{Code: e.Code, Modifiers: mods}]
}
