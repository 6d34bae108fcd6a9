package seat

import (
	"gioui.org/f32"

	"github.com/bnema/wlseat/internal/logger"
)

// Touch focus carries no enter or leave on the wire; the tracker only
// follows the surface and its transform.
type touchState struct {
	focus *focusTracker[TouchDelivery]
}

func (s *Seat) initTouch() {
	s.touch.focus = &focusTracker[TouchDelivery]{
		bindings: s.touches,
		cleared: func() {
			logger.Debug("Focused touch surface destroyed")
			s.focusedTouchChanged()
		},
	}
}

// SetFocusedTouchSurface focuses surface, placed at surfacePos. Focus
// cannot change while a touch sequence is in progress: the surface that
// got the first touch down keeps the implicit grab.
func (s *Seat) SetFocusedTouchSurface(surface Surface, surfacePos f32.Point) {
	if s.IsTouchSequence() && surface != s.touch.focus.surface {
		logger.Debug("Ignoring touch focus change during touch sequence")
		return
	}
	if s.touch.focus.set(surface, surfacePos, nil) {
		logger.Debugf("Touch focus moved to %s", surfaceName(surface))
		s.focusedTouchChanged()
	}
}

func (s *Seat) focusedTouchChanged() {
	if s.hooks.FocusedTouchChanged != nil {
		s.hooks.FocusedTouchChanged(s.touch.focus.surface)
	}
}

// FocusedTouchSurface returns the surface with touch focus, or nil.
func (s *Seat) FocusedTouchSurface() Surface { return s.touch.focus.surface }

// FocusedTouches returns the touch objects of the focused client.
func (s *Seat) FocusedTouches() []TouchDelivery { return s.touch.focus.deliveries() }

// SetFocusedTouchSurfacePosition moves the focused touch surface.
func (s *Seat) SetFocusedTouchSurfacePosition(pos f32.Point) {
	s.touch.focus.setPosition(pos)
}

// FocusedTouchSurfacePosition returns the focused touch surface position.
func (s *Seat) FocusedTouchSurfacePosition() f32.Point { return s.touch.focus.position }

// TouchDown starts a touch point at global and returns its id. The id is
// allocated even when no surface has touch focus.
func (s *Seat) TouchDown(global f32.Point) int32 {
	id, serial := s.grabs.TouchDown(global)
	local := s.touch.focus.toLocal(global)
	for _, t := range s.touch.focus.deliveries() {
		t.Down(serial, s.timestamp, s.touch.focus.surface, id, local)
	}
	return id
}

// TouchUp lifts touch point id. Lifting the point that started a touch
// drag drops the drag instead of forwarding the up event. Unknown ids are
// ignored.
func (s *Seat) TouchUp(id int32) {
	dragPoint := s.isDragTouchPoint(id)
	serial, ok := s.grabs.TouchUp(id)
	if !ok {
		logger.Debugf("Ignoring touch up for unknown point %d", id)
		return
	}
	if dragPoint {
		_ = s.DropDrag()
		return
	}
	for _, t := range s.touch.focus.deliveries() {
		t.Up(serial, s.timestamp, id)
	}
}

// TouchMove moves active touch point id to global. Motion of the point
// driving a drag goes to the drag target.
func (s *Seat) TouchMove(id int32, global f32.Point) {
	if !s.grabs.TouchMove(id, global) {
		return
	}
	if s.isDragTouchPoint(id) {
		s.dragMotion(global)
		return
	}
	local := s.touch.focus.toLocal(global)
	for _, t := range s.touch.focus.deliveries() {
		t.Motion(s.timestamp, id, local)
	}
}

// TouchFrame ends a batch of touch events sharing one timestamp.
func (s *Seat) TouchFrame() {
	for _, t := range s.touch.focus.deliveries() {
		t.Frame()
	}
}

// CancelTouchSequence retires every touch point and tells the focused
// surface the whole sequence is void. A drag started by touch is cancelled.
func (s *Seat) CancelTouchSequence() {
	ids := s.grabs.CancelTouch()
	for _, t := range s.touch.focus.deliveries() {
		t.Cancel()
	}
	if s.IsDragTouch() {
		_ = s.CancelDrag()
	}
	logger.Debugf("Touch sequence cancelled, %d points retired", len(ids))
}

// IsTouchSequence reports whether any touch point is down.
func (s *Seat) IsTouchSequence() bool { return s.grabs.IsTouchSequence() }
