package seat

import (
	"testing"

	"gioui.org/f32"
	"github.com/stretchr/testify/assert"

	"github.com/bnema/wlseat/internal/resource"
)

func TestPointerFocus(t *testing.T) {
	t.Run("motion is delivered in surface coordinates", func(t *testing.T) {
		f := newFixture()

		f.seat.SetFocusedPointerSurface(f.alice, pt(100, 200))
		f.seat.SetPointerPos(pt(350, 210))

		assert.Equal(t, []string{
			"p:alice enter a serial=1 (-100,-200)",
			"p:alice motion t=0 (250,10)",
		}, f.log.events)
	})

	t.Run("leave is sent before enter on focus change", func(t *testing.T) {
		f := newFixture()
		f.seat.SetPointerPos(pt(10, 10))

		f.seat.SetFocusedPointerSurface(f.alice, pt(0, 0))
		f.seat.SetFocusedPointerSurface(f.bob, pt(5, 5))
		f.seat.SetFocusedPointerSurface(nil, f32.Point{})

		assert.Equal(t, []string{
			"p:alice enter a serial=1 (10,10)",
			"p:alice leave a serial=2",
			"p:bob enter b serial=3 (5,5)",
			"p:bob leave b serial=4",
		}, f.log.events)
		assert.Nil(t, f.seat.FocusedPointerSurface())
	})

	t.Run("refocusing the same surface sends nothing", func(t *testing.T) {
		f := newFixture()
		f.seat.SetFocusedPointerSurface(f.alice, pt(0, 0))
		f.log.reset()

		f.seat.SetFocusedPointerSurface(f.alice, pt(50, 50))
		f.seat.SetPointerPos(pt(60, 60))

		assert.Equal(t, []string{"p:alice motion t=0 (10,10)"}, f.log.events)
		assert.Equal(t, pt(50, 50), f.seat.FocusedPointerSurfacePosition())
	})

	t.Run("override persists across position updates", func(t *testing.T) {
		f := newFixture()
		f.seat.SetFocusedPointerSurface(f.alice, pt(0, 0))
		scale := f32.Affine2D{}.Scale(f32.Point{}, pt(2, 2))
		f.seat.SetFocusedPointerSurfaceTransformation(scale)

		f.seat.SetFocusedPointerSurfacePosition(pt(100, 100))
		assert.Equal(t, scale, f.seat.FocusedPointerSurfaceTransformation())

		f.seat.SetFocusedPointerSurface(f.alice, pt(30, 30))
		assert.Equal(t, scale, f.seat.FocusedPointerSurfaceTransformation(), "same-surface focus keeps the override")

		f.log.reset()
		f.seat.SetPointerPos(pt(5, 6))
		assert.Equal(t, []string{"p:alice motion t=0 (10,12)"}, f.log.events)
	})

	t.Run("override is dropped when focus changes", func(t *testing.T) {
		f := newFixture()
		f.seat.SetFocusedPointerSurface(f.alice, pt(0, 0))
		f.seat.SetFocusedPointerSurfaceTransformation(f32.Affine2D{}.Scale(f32.Point{}, pt(2, 2)))

		f.seat.SetFocusedPointerSurface(f.bob, pt(10, 0))
		f.seat.SetFocusedPointerSurfacePosition(pt(20, 0))

		assert.Equal(t, DefaultTransform(pt(20, 0)), f.seat.FocusedPointerSurfaceTransformation())
	})

	t.Run("focus with explicit transform", func(t *testing.T) {
		f := newFixture()
		f.seat.SetPointerPos(pt(4, 4))

		f.seat.SetFocusedPointerSurfaceTransform(f.alice, f32.Affine2D{}.Scale(f32.Point{}, pt(0.5, 0.5)))

		assert.Equal(t, []string{"p:alice enter a serial=1 (2,2)"}, f.log.events)
	})

	t.Run("destroyed surface clears focus without leave", func(t *testing.T) {
		f := newFixture()
		var changes []Surface
		f.seat.hooks.FocusedPointerChanged = func(s Surface) { changes = append(changes, s) }
		f.seat.SetFocusedPointerSurface(f.alice, pt(0, 0))
		f.log.reset()

		f.alice.Destroy()
		f.seat.SetPointerPos(pt(1, 1))
		f.seat.SetFocusedPointerSurface(f.bob, pt(0, 0))

		assert.Equal(t, []string{"p:bob enter b serial=2 (1,1)"}, f.log.events)
		assert.Equal(t, []Surface{f.alice, nil, f.bob}, changes)
	})

	t.Run("late bound pointer of the focused client gets enter", func(t *testing.T) {
		f := newFixture()
		f.seat.SetFocusedPointerSurface(f.alice, pt(0, 0))
		f.log.reset()

		f.seat.AddPointer("alice", &recPointer{name: "p2:alice", log: f.log})
		f.seat.AddPointer("bob", &recPointer{name: "p2:bob", log: f.log})

		assert.Equal(t, []string{"p2:alice enter a serial=2 (0,0)"}, f.log.events)
	})

	t.Run("no focus means no delivery", func(t *testing.T) {
		f := newFixture()
		f.seat.SetPointerPos(pt(3, 3))
		f.seat.PointerButtonPressed(272)
		f.seat.PointerAxis(Vertical, 10)

		assert.Empty(t, f.log.events)
		assert.True(t, f.seat.IsPointerButtonPressed(272))
	})
}

func TestPointerButtons(t *testing.T) {
	f := newFixture()
	f.seat.SetFocusedPointerSurface(f.alice, pt(0, 0))
	f.log.reset()

	f.seat.SetTimestamp(42)
	f.seat.PointerButtonPressed(272)
	assert.True(t, f.seat.HasImplicitPointerGrab(2))
	assert.Equal(t, uint32(2), f.seat.PointerButtonSerial(272))

	f.seat.PointerButtonReleased(272)
	assert.False(t, f.seat.HasImplicitPointerGrab(2))
	assert.False(t, f.seat.IsPointerButtonPressed(272))

	f.seat.PointerAxis(Horizontal, -3.5)

	assert.Equal(t, []string{
		"p:alice button 272 pressed serial=2",
		"p:alice button 272 released serial=3",
		"p:alice axis horizontal -3.5",
	}, f.log.events)
}

func TestPointerRemovedDeliveryGetsNothing(t *testing.T) {
	log := &eventLog{}
	s := New(Options{HasPointer: true})
	p := &recPointer{name: "p:alice", log: log}
	s.AddPointer("alice", p)
	s.RemovePointer(p)

	s.SetFocusedPointerSurface(resource.NewSurface("a", "alice"), pt(0, 0))
	s.SetPointerPos(pt(1, 1))

	assert.Empty(t, log.events)
}
