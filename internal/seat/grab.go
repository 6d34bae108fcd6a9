package seat

import (
	"sort"

	"gioui.org/f32"
)

// ButtonGrab is the press state of a single pointer button.
type ButtonGrab struct {
	Button  uint32
	Pressed bool
	Serial  uint32
}

// TouchPoint is a single active contact of a touch sequence.
type TouchPoint struct {
	ID             int32
	DownSerial     uint32
	GlobalPosition f32.Point
}

// GrabTracker records which buttons and touch points are held and the
// serial each one was pressed with. A serial authorises an implicit grab
// only while the press it was issued for is still held.
type GrabTracker struct {
	serials     Serials
	buttons     map[uint32]*ButtonGrab
	touchPoints map[int32]*TouchPoint
	nextTouchID int32
}

// NewGrabTracker creates a tracker drawing serials from serials.
func NewGrabTracker(serials Serials) *GrabTracker {
	return &GrabTracker{
		serials:     serials,
		buttons:     make(map[uint32]*ButtonGrab),
		touchPoints: make(map[int32]*TouchPoint),
	}
}

// RecordPress marks button as pressed under a fresh serial and returns it.
// Pressing an already pressed button re-stamps it.
func (g *GrabTracker) RecordPress(button uint32) uint32 {
	serial := g.serials.Next()
	g.buttons[button] = &ButtonGrab{Button: button, Pressed: true, Serial: serial}
	return serial
}

// RecordRelease marks button as released and returns a fresh serial. The
// press serial is kept for SerialFor until the next press.
func (g *GrabTracker) RecordRelease(button uint32) uint32 {
	serial := g.serials.Next()
	if b, ok := g.buttons[button]; ok {
		b.Pressed = false
	}
	return serial
}

// IsPressed reports whether button is currently held.
func (g *GrabTracker) IsPressed(button uint32) bool {
	b, ok := g.buttons[button]
	return ok && b.Pressed
}

// SerialFor returns the serial of the last press of button, or 0.
func (g *GrabTracker) SerialFor(button uint32) uint32 {
	if b, ok := g.buttons[button]; ok {
		return b.Serial
	}
	return 0
}

// ButtonForSerial returns the held button that was pressed with serial.
func (g *GrabTracker) ButtonForSerial(serial uint32) (uint32, bool) {
	for _, b := range g.buttons {
		if b.Pressed && b.Serial == serial {
			return b.Button, true
		}
	}
	return 0, false
}

// IsPointerGrabValid reports whether serial belongs to a held button.
func (g *GrabTracker) IsPointerGrabValid(serial uint32) bool {
	_, ok := g.ButtonForSerial(serial)
	return ok
}

// IsTouchGrabValid reports whether touch point id is active and went down
// with serial.
func (g *GrabTracker) IsTouchGrabValid(id int32, serial uint32) bool {
	p, ok := g.touchPoints[id]
	return ok && p.DownSerial == serial
}

// IsGrabValid reports whether serial belongs to any held button or active
// touch point.
func (g *GrabTracker) IsGrabValid(serial uint32) bool {
	if g.IsPointerGrabValid(serial) {
		return true
	}
	for _, p := range g.touchPoints {
		if p.DownSerial == serial {
			return true
		}
	}
	return false
}

// TouchDown starts a touch point at global and returns its id and down serial.
func (g *GrabTracker) TouchDown(global f32.Point) (int32, uint32) {
	id := g.nextTouchID
	g.nextTouchID++
	serial := g.serials.Next()
	g.touchPoints[id] = &TouchPoint{ID: id, DownSerial: serial, GlobalPosition: global}
	return id, serial
}

// TouchUp retires touch point id and returns the up serial. ok is false
// and no serial is consumed when id is not active.
func (g *GrabTracker) TouchUp(id int32) (serial uint32, ok bool) {
	if _, ok := g.touchPoints[id]; !ok {
		return 0, false
	}
	serial = g.serials.Next()
	g.retire(id)
	return serial, true
}

// TouchMove updates the position of an active touch point.
func (g *GrabTracker) TouchMove(id int32, global f32.Point) bool {
	p, ok := g.touchPoints[id]
	if !ok {
		return false
	}
	p.GlobalPosition = global
	return true
}

// CancelTouch retires every active touch point and returns their ids in
// ascending order.
func (g *GrabTracker) CancelTouch() []int32 {
	ids := g.TouchIDs()
	for _, id := range ids {
		g.retire(id)
	}
	return ids
}

// TouchPoint returns a copy of the active touch point id.
func (g *GrabTracker) TouchPoint(id int32) (TouchPoint, bool) {
	p, ok := g.touchPoints[id]
	if !ok {
		return TouchPoint{}, false
	}
	return *p, true
}

// TouchIDs returns the ids of all active touch points in ascending order.
func (g *GrabTracker) TouchIDs() []int32 {
	ids := make([]int32, 0, len(g.touchPoints))
	for id := range g.touchPoints {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// IsTouchSequence reports whether at least one touch point is active.
func (g *GrabTracker) IsTouchSequence() bool {
	return len(g.touchPoints) > 0
}

func (g *GrabTracker) retire(id int32) {
	delete(g.touchPoints, id)
	// Ids restart once the sequence is over; none can collide with a live point.
	if len(g.touchPoints) == 0 {
		g.nextTouchID = 0
	}
}
