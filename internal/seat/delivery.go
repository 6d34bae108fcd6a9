package seat

import "gioui.org/f32"

// Surface is a client surface the seat can route input to. The seat holds
// surfaces weakly: it never keeps one alive and forgets it as soon as its
// destroy observer fires. Pass a nil interface, not a typed nil pointer, to
// mean "no surface".
type Surface interface {
	ID() string
	Client() string
	OnDestroy(fn func()) (cancel func())
}

// DataSource is the offering side of a drag-and-drop session.
type DataSource interface {
	Client() string
	OnDestroy(fn func()) (cancel func())
}

// ButtonState is the state carried by a button event.
type ButtonState uint32

const (
	ButtonReleased ButtonState = iota
	ButtonPressed
)

// KeyState is the state carried by a key event.
type KeyState uint32

const (
	KeyReleased KeyState = iota
	KeyPressed
)

// Orientation is a scroll axis.
type Orientation uint32

const (
	Vertical Orientation = iota
	Horizontal
)

func (b ButtonState) String() string {
	if b == ButtonPressed {
		return "pressed"
	}
	return "released"
}

func (k KeyState) String() string {
	if k == KeyPressed {
		return "pressed"
	}
	return "released"
}

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// The delivery interfaces below are implemented by the per-client protocol
// objects. Calls are fire-and-forget: marshalling failures stay on the
// delivery side.

// PointerDelivery receives pointer events for one client.
type PointerDelivery interface {
	Enter(serial uint32, surface Surface, local f32.Point)
	Leave(serial uint32, surface Surface)
	Motion(time uint32, local f32.Point)
	Button(serial, time, button uint32, state ButtonState)
	Axis(time uint32, orientation Orientation, delta float64)
}

// KeyboardDelivery receives keyboard events for one client.
type KeyboardDelivery interface {
	Enter(serial uint32, surface Surface, keys []uint32)
	Leave(serial uint32, surface Surface)
	Key(serial, time, key uint32, state KeyState)
	Modifiers(serial, depressed, latched, locked, group uint32)
	Keymap(fd int, size uint32)
	RepeatInfo(rate, delay int32)
}

// TouchDelivery receives touch events for one client.
type TouchDelivery interface {
	Down(serial, time uint32, surface Surface, id int32, local f32.Point)
	Up(serial, time uint32, id int32)
	Motion(time uint32, id int32, local f32.Point)
	Frame()
	Cancel()
}

// DataDevice receives drag-and-drop events for one client.
type DataDevice interface {
	DragEnter(serial uint32, surface Surface, local f32.Point, source DataSource)
	DragLeave()
	DragMotion(time uint32, local f32.Point)
	Drop()
}
