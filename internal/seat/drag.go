package seat

import (
	"fmt"

	"gioui.org/f32"
	"github.com/google/uuid"

	"github.com/bnema/wlseat/internal/logger"
)

// DragDevice is the device class driving a drag.
type DragDevice int

const (
	DragPointer DragDevice = iota
	DragTouch
)

func (d DragDevice) String() string {
	if d == DragTouch {
		return "touch"
	}
	return "pointer"
}

// DragOrigin names the device, and for touch the touch point, whose
// implicit grab a drag is tied to.
type DragOrigin struct {
	Device  DragDevice
	TouchID int32
}

// PointerOrigin is the origin of a pointer-driven drag.
func PointerOrigin() DragOrigin { return DragOrigin{Device: DragPointer} }

// TouchOrigin is the origin of a drag driven by touch point id.
func TouchOrigin(id int32) DragOrigin { return DragOrigin{Device: DragTouch, TouchID: id} }

func (o DragOrigin) String() string {
	if o.Device == DragTouch {
		return fmt.Sprintf("touch(%d)", o.TouchID)
	}
	return "pointer"
}

// DragSession is a snapshot of the running drag. Client owns the surface
// the originating device was focused on when the drag started, and is
// empty when that device had no focus.
type DragSession struct {
	ID        uuid.UUID
	Origin    DragOrigin
	Client    string
	Serial    uint32
	Source    DataSource
	Target    Surface
	Transform f32.Affine2D
}

type dragState struct {
	active    bool
	id        uuid.UUID
	origin    DragOrigin
	client    string
	serial    uint32
	source    DataSource
	target    Surface
	transform f32.Affine2D

	unwatchSource func()
	unwatchTarget func()
}

// StartDrag starts a drag tied to the implicit grab that serial was issued
// for on origin. It fails with ErrInvalidGrab once that button was released
// or that touch point lifted, and with ErrDragActive while another drag
// runs. A rejected call changes nothing. source may be nil for a drag
// internal to one client.
func (s *Seat) StartDrag(serial uint32, source DataSource, origin DragOrigin) error {
	if s.drag.active {
		return ErrDragActive
	}

	var valid bool
	switch origin.Device {
	case DragPointer:
		valid = s.grabs.IsPointerGrabValid(serial)
	case DragTouch:
		valid = s.grabs.IsTouchGrabValid(origin.TouchID, serial)
	}
	if !valid {
		logger.Debugf("Rejected %s drag with stale serial %d", origin, serial)
		return fmt.Errorf("start %s drag with serial %d: %w", origin, serial, ErrInvalidGrab)
	}

	s.drag = dragState{
		active: true,
		id:     uuid.New(),
		origin: origin,
		client: s.originClient(origin),
		serial: serial,
		source: source,
	}
	if source != nil {
		s.drag.unwatchSource = source.OnDestroy(s.dragSourceDestroyed)
	}
	logger.Debugf("Drag %s started from %s", s.drag.id, origin)
	if s.hooks.DragStarted != nil {
		s.hooks.DragStarted()
	}
	return nil
}

// SetDragTarget makes surface the drop target. The previous target gets
// leave before surface gets enter at global mapped through m. A nil
// surface means no drop target. Setting the current target again only
// replaces the transform.
func (s *Seat) SetDragTarget(surface Surface, global f32.Point, m f32.Affine2D) error {
	if !s.drag.active {
		return ErrNoDrag
	}
	if surface != nil && surface == s.drag.target {
		s.drag.transform = m
		return nil
	}
	if surface == nil && s.drag.target == nil {
		s.drag.transform = m
		return nil
	}

	if prev := s.drag.target; prev != nil {
		s.unwatchDragTarget()
		for _, d := range s.dataDevices.forSurface(prev) {
			d.DragLeave()
		}
	}

	s.drag.target = surface
	s.drag.transform = m
	if surface != nil {
		s.drag.unwatchTarget = surface.OnDestroy(s.dragTargetDestroyed)
		serial := s.serials.Next()
		local := ToLocal(m, global)
		for _, d := range s.dataDevices.forSurface(surface) {
			d.DragEnter(serial, surface, local, s.drag.source)
		}
	}
	logger.Debugf("Drag %s target is now %s", s.drag.id, surfaceName(surface))
	s.dragSurfaceChanged()
	return nil
}

// RetargetDrag is SetDragTarget at the current position of the device
// driving the drag.
func (s *Seat) RetargetDrag(surface Surface, m f32.Affine2D) error {
	if !s.drag.active {
		return ErrNoDrag
	}
	return s.SetDragTarget(surface, s.dragPosition(), m)
}

func (s *Seat) dragPosition() f32.Point {
	if s.drag.origin.Device == DragTouch {
		if p, ok := s.grabs.TouchPoint(s.drag.origin.TouchID); ok {
			return p.GlobalPosition
		}
	}
	return s.pointer.pos
}

// DropDrag ends the drag by dropping onto the current target.
func (s *Seat) DropDrag() error {
	if !s.drag.active {
		return ErrNoDrag
	}
	for _, d := range s.dataDevices.forSurface(s.drag.target) {
		d.Drop()
	}
	logger.Debugf("Drag %s dropped on %s", s.drag.id, surfaceName(s.drag.target))
	s.endDrag()
	return nil
}

// CancelDrag ends the drag without a drop; the current target gets leave.
func (s *Seat) CancelDrag() error {
	if !s.drag.active {
		return ErrNoDrag
	}
	for _, d := range s.dataDevices.forSurface(s.drag.target) {
		d.DragLeave()
	}
	logger.Debugf("Drag %s cancelled", s.drag.id)
	s.endDrag()
	return nil
}

func (s *Seat) endDrag() {
	s.unwatchDragTarget()
	if s.drag.unwatchSource != nil {
		s.drag.unwatchSource()
	}
	s.drag = dragState{}
	if s.hooks.DragEnded != nil {
		s.hooks.DragEnded()
	}
}

func (s *Seat) dragMotion(global f32.Point) {
	if s.drag.target == nil {
		return
	}
	local := ToLocal(s.drag.transform, global)
	for _, d := range s.dataDevices.forSurface(s.drag.target) {
		d.DragMotion(s.timestamp, local)
	}
}

func (s *Seat) unwatchDragTarget() {
	if s.drag.unwatchTarget != nil {
		s.drag.unwatchTarget()
		s.drag.unwatchTarget = nil
	}
}

func (s *Seat) dragTargetDestroyed() {
	s.drag.unwatchTarget = nil
	s.drag.target = nil
	logger.Debugf("Drag %s target destroyed", s.drag.id)
	s.dragSurfaceChanged()
}

func (s *Seat) dragSourceDestroyed() {
	s.drag.unwatchSource = nil
	logger.Debugf("Drag %s source destroyed", s.drag.id)
	_ = s.CancelDrag()
}

func (s *Seat) dragSurfaceChanged() {
	if s.hooks.DragSurfaceChanged != nil {
		s.hooks.DragSurfaceChanged(s.drag.target)
	}
}

func (s *Seat) isDragTouchPoint(id int32) bool {
	return s.IsDragTouch() && s.drag.origin.TouchID == id
}

// IsDrag reports whether a drag is running.
func (s *Seat) IsDrag() bool { return s.drag.active }

// IsDragPointer reports whether the pointer drives the running drag.
func (s *Seat) IsDragPointer() bool { return s.drag.active && s.drag.origin.Device == DragPointer }

// IsDragTouch reports whether a touch point drives the running drag.
func (s *Seat) IsDragTouch() bool { return s.drag.active && s.drag.origin.Device == DragTouch }

// DragSurface returns the current drop target, or nil.
func (s *Seat) DragSurface() Surface { return s.drag.target }

// DragSurfaceTransformation returns the transform for drag motion events.
func (s *Seat) DragSurfaceTransformation() f32.Affine2D { return s.drag.transform }

// DragSource returns the data source of the running drag, or nil.
func (s *Seat) DragSource() DataSource { return s.drag.source }

func (s *Seat) originClient(origin DragOrigin) string {
	focus := s.pointer.focus.surface
	if origin.Device == DragTouch {
		focus = s.touch.focus.surface
	}
	if focus == nil {
		return ""
	}
	return focus.Client()
}

// DragPointer returns the pointer objects of the client whose pointer
// started the drag. It is nil for touch drags and when no drag runs.
func (s *Seat) DragPointer() []PointerDelivery {
	if !s.IsDragPointer() || s.drag.client == "" {
		return nil
	}
	return s.pointers.byClient[s.drag.client]
}

// DragSession returns a snapshot of the running drag.
func (s *Seat) DragSession() (DragSession, bool) {
	if !s.drag.active {
		return DragSession{}, false
	}
	return DragSession{
		ID:        s.drag.id,
		Origin:    s.drag.origin,
		Client:    s.drag.client,
		Serial:    s.drag.serial,
		Source:    s.drag.source,
		Target:    s.drag.target,
		Transform: s.drag.transform,
	}, true
}
