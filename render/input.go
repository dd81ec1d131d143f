package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/polarchain/engine"
	"github.com/lixenwraith/polarchain/parameter"
)

// Command is a UI-level outcome of an input event
type Command uint8

const (
	CommandNone Command = iota
	CommandQuit
	CommandResize
	CommandFollow
)

// Input translates tcell events into simulation events in world coordinates
type Input struct {
	vp      *Viewport
	pressed bool
}

// NewInput creates a translator bound to vp
func NewInput(vp *Viewport) *Input {
	return &Input{vp: vp}
}

// Translate maps ev to a UI command and, when ok, a simulation event
func (in *Input) Translate(ev tcell.Event) (cmd Command, out engine.Event, ok bool) {
	switch e := ev.(type) {
	case *tcell.EventResize:
		return CommandResize, out, false

	case *tcell.EventKey:
		switch e.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return CommandQuit, out, false
		case tcell.KeyRune:
			switch e.Rune() {
			case 'q':
				return CommandQuit, out, false
			case parameter.KeySide:
				return CommandNone, engine.Trigger("side"), true
			case parameter.KeyFollow:
				return CommandFollow, out, false
			}
		}

	case *tcell.EventMouse:
		col, row := e.Position()
		p := in.vp.ToWorld(col, row)
		down := e.Buttons()&tcell.Button1 != 0
		switch {
		case down && !in.pressed:
			in.pressed = true
			return CommandNone, engine.Event{Kind: engine.EventMouseDown, Point: p}, true
		case down:
			return CommandNone, engine.Event{Kind: engine.EventMouseMove, Point: p}, true
		case in.pressed:
			in.pressed = false
			return CommandNone, engine.Event{Kind: engine.EventMouseUp, Point: p}, true
		}
	}
	return CommandNone, out, false
}
