// Package seat implements the input-routing core of a display-server seat.
//
// A Seat tracks which surface holds pointer, keyboard and touch focus,
// maps global coordinates into the focused surface, stamps state-changing
// events with serials and routes drag-and-drop between target surfaces.
// Delivery of the resulting events is left to the per-client objects bound
// through AddPointer, AddKeyboard, AddTouch and AddDataDevice.
//
// A Seat is not safe for concurrent use. All calls are expected on the
// display's event loop, in input arrival order.
package seat

import (
	"gioui.org/f32"

	"github.com/bnema/wlseat/internal/logger"
)

// Capabilities is the device bitmask advertised to clients.
type Capabilities uint32

const (
	CapPointer Capabilities = 1 << iota
	CapKeyboard
	CapTouch
)

// Hooks are optional callbacks fired synchronously after the seat state
// they describe has changed.
type Hooks struct {
	NameChanged            func(name string)
	CapabilitiesChanged    func(caps Capabilities)
	TimestampChanged       func(time uint32)
	PointerPosChanged      func(pos f32.Point)
	FocusedPointerChanged  func(s Surface)
	FocusedKeyboardChanged func(s Surface)
	FocusedTouchChanged    func(s Surface)
	PointerCreated         func(client string, p PointerDelivery)
	KeyboardCreated        func(client string, k KeyboardDelivery)
	TouchCreated           func(client string, t TouchDelivery)
	DragStarted            func()
	DragEnded              func()
	DragSurfaceChanged     func(s Surface)
}

// Options configure a new Seat.
type Options struct {
	Name        string
	HasPointer  bool
	HasKeyboard bool
	HasTouch    bool

	// RepeatRate and RepeatDelay seed the key repeat info.
	RepeatRate  int32
	RepeatDelay int32

	// Serials is the serial source; a private allocator is used when nil.
	Serials Serials

	Hooks Hooks
}

// Seat aggregates the pointer, keyboard and touch state of one logical seat.
type Seat struct {
	name        string
	hasPointer  bool
	hasKeyboard bool
	hasTouch    bool
	timestamp   uint32

	serials Serials
	grabs   *GrabTracker
	hooks   Hooks

	pointers    *bindings[PointerDelivery]
	keyboards   *bindings[KeyboardDelivery]
	touches     *bindings[TouchDelivery]
	dataDevices *bindings[DataDevice]

	pointer  pointerState
	keyboard keyboardState
	touch    touchState
	drag     dragState
}

// New creates a seat.
func New(opts Options) *Seat {
	serials := opts.Serials
	if serials == nil {
		serials = NewSerialAllocator(0)
	}

	s := &Seat{
		name:        opts.Name,
		hasPointer:  opts.HasPointer,
		hasKeyboard: opts.HasKeyboard,
		hasTouch:    opts.HasTouch,
		serials:     serials,
		grabs:       NewGrabTracker(serials),
		hooks:       opts.Hooks,
		pointers:    newBindings[PointerDelivery](),
		keyboards:   newBindings[KeyboardDelivery](),
		touches:     newBindings[TouchDelivery](),
		dataDevices: newBindings[DataDevice](),
	}
	s.initPointer()
	s.initKeyboard(opts.RepeatRate, opts.RepeatDelay)
	s.initTouch()
	return s
}

// Name returns the seat name.
func (s *Seat) Name() string { return s.name }

// SetName renames the seat.
func (s *Seat) SetName(name string) {
	if s.name == name {
		return
	}
	s.name = name
	if s.hooks.NameChanged != nil {
		s.hooks.NameChanged(name)
	}
}

// HasPointer reports whether the seat advertises a pointer.
func (s *Seat) HasPointer() bool { return s.hasPointer }

// HasKeyboard reports whether the seat advertises a keyboard.
func (s *Seat) HasKeyboard() bool { return s.hasKeyboard }

// HasTouch reports whether the seat advertises touch.
func (s *Seat) HasTouch() bool { return s.hasTouch }

// The capability setters must be used before the seat is advertised;
// clients that already bound the seat are not expected to cope with a
// device class changing meaning under them.

// SetHasPointer adds or removes the pointer capability.
func (s *Seat) SetHasPointer(has bool) { s.setCapability(&s.hasPointer, has) }

// SetHasKeyboard adds or removes the keyboard capability.
func (s *Seat) SetHasKeyboard(has bool) { s.setCapability(&s.hasKeyboard, has) }

// SetHasTouch adds or removes the touch capability.
func (s *Seat) SetHasTouch(has bool) { s.setCapability(&s.hasTouch, has) }

func (s *Seat) setCapability(flag *bool, has bool) {
	if *flag == has {
		return
	}
	*flag = has
	if s.hooks.CapabilitiesChanged != nil {
		s.hooks.CapabilitiesChanged(s.Capabilities())
	}
}

// Capabilities returns the advertised device bitmask.
func (s *Seat) Capabilities() Capabilities {
	var caps Capabilities
	if s.hasPointer {
		caps |= CapPointer
	}
	if s.hasKeyboard {
		caps |= CapKeyboard
	}
	if s.hasTouch {
		caps |= CapTouch
	}
	return caps
}

// SetTimestamp sets the time stamped onto subsequently forwarded events.
func (s *Seat) SetTimestamp(time uint32) {
	if s.timestamp == time {
		return
	}
	s.timestamp = time
	if s.hooks.TimestampChanged != nil {
		s.hooks.TimestampChanged(time)
	}
}

// Timestamp returns the current event time.
func (s *Seat) Timestamp() uint32 { return s.timestamp }

// Grabs exposes the button and touch press state.
func (s *Seat) Grabs() *GrabTracker { return s.grabs }

// IsGrabValid reports whether serial still authorises an implicit grab
// from any device.
func (s *Seat) IsGrabValid(serial uint32) bool { return s.grabs.IsGrabValid(serial) }

// AddPointer binds a pointer delivery object for client. If client owns
// the focused pointer surface the new object receives enter right away.
func (s *Seat) AddPointer(client string, p PointerDelivery) {
	s.pointers.add(client, p)
	if s.hooks.PointerCreated != nil {
		s.hooks.PointerCreated(client, p)
	}
	if f := s.pointer.focus.surface; f != nil && f.Client() == client && !s.IsDragPointer() {
		p.Enter(s.serials.Next(), f, s.pointer.focus.toLocal(s.pointer.pos))
	}
}

// RemovePointer unbinds p.
func (s *Seat) RemovePointer(p PointerDelivery) { s.pointers.remove(p) }

// AddKeyboard binds a keyboard delivery object for client. It receives the
// current keymap and repeat info, then enter if client holds keyboard focus.
func (s *Seat) AddKeyboard(client string, k KeyboardDelivery) {
	s.keyboards.add(client, k)
	if s.hooks.KeyboardCreated != nil {
		s.hooks.KeyboardCreated(client, k)
	}
	if s.keyboard.keymap.fd >= 0 {
		k.Keymap(s.keyboard.keymap.fd, s.keyboard.keymap.size)
	}
	k.RepeatInfo(s.keyboard.repeatRate, s.keyboard.repeatDelay)
	if f := s.keyboard.focus.surface; f != nil && f.Client() == client {
		s.keyboardEnter([]KeyboardDelivery{k}, f)
	}
}

// RemoveKeyboard unbinds k.
func (s *Seat) RemoveKeyboard(k KeyboardDelivery) { s.keyboards.remove(k) }

// AddTouch binds a touch delivery object for client.
func (s *Seat) AddTouch(client string, t TouchDelivery) {
	s.touches.add(client, t)
	if s.hooks.TouchCreated != nil {
		s.hooks.TouchCreated(client, t)
	}
}

// RemoveTouch unbinds t.
func (s *Seat) RemoveTouch(t TouchDelivery) { s.touches.remove(t) }

// AddDataDevice binds a drag-and-drop data device for client.
func (s *Seat) AddDataDevice(client string, d DataDevice) { s.dataDevices.add(client, d) }

// RemoveDataDevice unbinds d.
func (s *Seat) RemoveDataDevice(d DataDevice) { s.dataDevices.remove(d) }

// Close tears the seat down: a running drag is cancelled, every surface
// observer is dropped without delivering leave and the keymap descriptor
// is closed.
func (s *Seat) Close() error {
	if s.drag.active {
		_ = s.CancelDrag()
	}
	s.pointer.focus.release()
	s.keyboard.focus.release()
	s.touch.focus.release()
	logger.Debugf("Seat %q closed", s.name)
	return s.keyboard.keymap.release()
}
