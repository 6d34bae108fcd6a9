package seat

import (
	"gioui.org/f32"

	"github.com/bnema/wlseat/internal/logger"
)

type pointerState struct {
	pos   f32.Point
	focus *focusTracker[PointerDelivery]
}

func (s *Seat) initPointer() {
	s.pointer.focus = &focusTracker[PointerDelivery]{
		bindings: s.pointers,
		enter: func(ps []PointerDelivery, surface Surface) {
			serial := s.serials.Next()
			local := s.pointer.focus.toLocal(s.pointer.pos)
			for _, p := range ps {
				p.Enter(serial, surface, local)
			}
		},
		leave: func(ps []PointerDelivery, surface Surface) {
			serial := s.serials.Next()
			for _, p := range ps {
				p.Leave(serial, surface)
			}
		},
		cleared: func() {
			logger.Debug("Focused pointer surface destroyed")
			s.focusedPointerChanged()
		},
	}
}

// SetPointerPos updates the global pointer position and sends motion to
// the focused surface, or to the drag target while the pointer drives a drag.
func (s *Seat) SetPointerPos(pos f32.Point) {
	if s.pointer.pos == pos {
		return
	}
	s.pointer.pos = pos
	if s.hooks.PointerPosChanged != nil {
		s.hooks.PointerPosChanged(pos)
	}

	if s.IsDragPointer() {
		s.dragMotion(pos)
		return
	}
	if s.pointer.focus.surface == nil {
		return
	}
	local := s.pointer.focus.toLocal(pos)
	for _, p := range s.pointer.focus.deliveries() {
		p.Motion(s.timestamp, local)
	}
}

// PointerPos returns the global pointer position.
func (s *Seat) PointerPos() f32.Point { return s.pointer.pos }

// SetFocusedPointerSurface focuses surface, placed at surfacePos in global
// coordinates. A nil surface removes pointer focus. Focus changes are
// ignored while the pointer drives a drag.
func (s *Seat) SetFocusedPointerSurface(surface Surface, surfacePos f32.Point) {
	s.setFocusedPointer(surface, surfacePos, nil)
}

// SetFocusedPointerSurfaceTransform focuses surface using an explicit
// global-to-local transform.
func (s *Seat) SetFocusedPointerSurfaceTransform(surface Surface, m f32.Affine2D) {
	s.setFocusedPointer(surface, f32.Point{}, &m)
}

func (s *Seat) setFocusedPointer(surface Surface, pos f32.Point, m *f32.Affine2D) {
	if s.IsDragPointer() {
		logger.Debug("Ignoring pointer focus change during pointer drag")
		return
	}
	if s.pointer.focus.set(surface, pos, m) {
		logger.Debugf("Pointer focus moved to %s", surfaceName(surface))
		s.focusedPointerChanged()
	}
}

func (s *Seat) focusedPointerChanged() {
	if s.hooks.FocusedPointerChanged != nil {
		s.hooks.FocusedPointerChanged(s.pointer.focus.surface)
	}
}

// FocusedPointerSurface returns the surface with pointer focus, or nil.
func (s *Seat) FocusedPointerSurface() Surface { return s.pointer.focus.surface }

// FocusedPointers returns the pointer objects of the focused client.
func (s *Seat) FocusedPointers() []PointerDelivery { return s.pointer.focus.deliveries() }

// SetFocusedPointerSurfacePosition moves the focused surface in global
// space. The default transform is regenerated unless one was set explicitly.
func (s *Seat) SetFocusedPointerSurfacePosition(pos f32.Point) {
	s.pointer.focus.setPosition(pos)
}

// FocusedPointerSurfacePosition returns the focused surface's global position.
func (s *Seat) FocusedPointerSurfacePosition() f32.Point { return s.pointer.focus.position }

// SetFocusedPointerSurfaceTransformation overrides the global-to-local
// transform until focus changes.
func (s *Seat) SetFocusedPointerSurfaceTransformation(m f32.Affine2D) {
	s.pointer.focus.setTransform(m)
}

// FocusedPointerSurfaceTransformation returns the transform in effect.
func (s *Seat) FocusedPointerSurfaceTransformation() f32.Affine2D {
	return s.pointer.focus.transform
}

// PointerButtonPressed marks button as pressed and forwards it to the
// focused surface. Presses are swallowed while the pointer drives a drag.
func (s *Seat) PointerButtonPressed(button uint32) {
	serial := s.grabs.RecordPress(button)
	if s.IsDragPointer() {
		return
	}
	for _, p := range s.pointer.focus.deliveries() {
		p.Button(serial, s.timestamp, button, ButtonPressed)
	}
}

// PointerButtonReleased marks button as released. Releasing the button
// that started a pointer drag drops it instead of forwarding the release.
func (s *Seat) PointerButtonReleased(button uint32) {
	dragButton := s.IsDragPointer() && s.grabs.IsPressed(button) &&
		s.grabs.SerialFor(button) == s.drag.serial
	serial := s.grabs.RecordRelease(button)
	if dragButton {
		_ = s.DropDrag()
		return
	}
	for _, p := range s.pointer.focus.deliveries() {
		p.Button(serial, s.timestamp, button, ButtonReleased)
	}
}

// IsPointerButtonPressed reports whether button is held.
func (s *Seat) IsPointerButtonPressed(button uint32) bool { return s.grabs.IsPressed(button) }

// PointerButtonSerial returns the serial of the last press of button.
func (s *Seat) PointerButtonSerial(button uint32) uint32 { return s.grabs.SerialFor(button) }

// HasImplicitPointerGrab reports whether a held button was pressed with serial.
func (s *Seat) HasImplicitPointerGrab(serial uint32) bool {
	return s.grabs.IsPointerGrabValid(serial)
}

// PointerAxis forwards a scroll event to the focused surface.
func (s *Seat) PointerAxis(orientation Orientation, delta float64) {
	for _, p := range s.pointer.focus.deliveries() {
		p.Axis(s.timestamp, orientation, delta)
	}
}

func surfaceName(s Surface) string {
	if s == nil {
		return "<none>"
	}
	return s.Client() + "/" + s.ID()
}
