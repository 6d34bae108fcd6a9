package seat

import (
	"strings"
	"testing"

	"gioui.org/f32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilities(t *testing.T) {
	var reported []Capabilities
	s := New(Options{
		Name:       "seat0",
		HasPointer: true,
		Hooks: Hooks{
			CapabilitiesChanged: func(c Capabilities) { reported = append(reported, c) },
		},
	})

	assert.Equal(t, CapPointer, s.Capabilities())

	s.SetHasKeyboard(true)
	s.SetHasKeyboard(true)
	s.SetHasTouch(true)
	s.SetHasPointer(false)

	assert.Equal(t, []Capabilities{
		CapPointer | CapKeyboard,
		CapPointer | CapKeyboard | CapTouch,
		CapKeyboard | CapTouch,
	}, reported)
	assert.False(t, s.HasPointer())
	assert.True(t, s.HasKeyboard())
	assert.True(t, s.HasTouch())
}

func TestNameAndTimestamp(t *testing.T) {
	var names []string
	var times []uint32
	s := New(Options{Name: "seat0", Hooks: Hooks{
		NameChanged:      func(n string) { names = append(names, n) },
		TimestampChanged: func(ts uint32) { times = append(times, ts) },
	}})

	s.SetName("seat0")
	s.SetName("seat1")
	s.SetTimestamp(100)
	s.SetTimestamp(100)
	s.SetTimestamp(120)

	assert.Equal(t, "seat1", s.Name())
	assert.Equal(t, []string{"seat1"}, names)
	assert.Equal(t, []uint32{100, 120}, times)
	assert.Equal(t, uint32(120), s.Timestamp())
}

func TestTimestampIsStampedOnEvents(t *testing.T) {
	f := newFixture()
	f.seat.SetFocusedPointerSurface(f.alice, pt(0, 0))
	f.log.reset()

	f.seat.SetTimestamp(7)
	f.seat.SetPointerPos(pt(1, 1))
	f.seat.SetTimestamp(9)
	f.seat.SetPointerPos(pt(2, 2))

	assert.Equal(t, []string{
		"p:alice motion t=7 (1,1)",
		"p:alice motion t=9 (2,2)",
	}, f.log.events)
}

func TestSharedSerials(t *testing.T) {
	serials := NewSerialAllocator(500)
	s := New(Options{Serials: serials})

	s.PointerButtonPressed(272)

	assert.Equal(t, uint32(501), s.PointerButtonSerial(272))
	assert.Equal(t, uint32(502), serials.Next())
}

func TestHooksForDeliveryCreation(t *testing.T) {
	var created []string
	s := New(Options{Hooks: Hooks{
		PointerCreated:  func(c string, _ PointerDelivery) { created = append(created, "pointer:"+c) },
		KeyboardCreated: func(c string, _ KeyboardDelivery) { created = append(created, "keyboard:"+c) },
		TouchCreated:    func(c string, _ TouchDelivery) { created = append(created, "touch:"+c) },
	}})
	log := &eventLog{}

	s.AddPointer("alice", &recPointer{name: "p", log: log})
	s.AddKeyboard("alice", &recKeyboard{name: "k", log: log})
	s.AddTouch("bob", &recTouch{name: "t", log: log})

	assert.Equal(t, []string{"pointer:alice", "keyboard:alice", "touch:bob"}, created)
}

func TestClose(t *testing.T) {
	t.Run("drops surface observers without leave", func(t *testing.T) {
		f := newFixture()
		changed := 0
		f.seat.hooks.FocusedPointerChanged = func(Surface) { changed++ }
		f.seat.SetFocusedPointerSurface(f.alice, pt(0, 0))
		f.seat.SetFocusedKeyboardSurface(f.alice)
		f.seat.SetFocusedTouchSurface(f.alice, pt(0, 0))
		f.log.reset()

		require.NoError(t, f.seat.Close())
		f.alice.Destroy()

		assert.Empty(t, f.log.events)
		assert.Equal(t, 1, changed, "no notification after close")
		assert.Nil(t, f.seat.FocusedPointerSurface())
	})

	t.Run("cancels a running drag", func(t *testing.T) {
		f := newFixture()
		f.seat.PointerButtonPressed(272)
		require.NoError(t, f.seat.StartDrag(1, nil, PointerOrigin()))
		require.NoError(t, f.seat.SetDragTarget(f.bob, pt(0, 0), f32.Affine2D{}))
		f.log.reset()

		require.NoError(t, f.seat.Close())

		assert.Equal(t, []string{"d:bob drag-leave"}, f.log.events)
		assert.False(t, f.seat.IsDrag())
	})
}

// The enter/leave pairing must hold for any focus sequence: a surface that
// got enter gets exactly one leave before anyone else gets enter.
func TestFocusPairing(t *testing.T) {
	f := newFixture()

	sequence := []Surface{f.alice, f.alice, f.bob, nil, nil, f.bob, f.alice, nil}
	for _, s := range sequence {
		f.seat.SetFocusedPointerSurface(s, pt(0, 0))
	}

	entered := ""
	enters := 0
	for _, ev := range f.log.events {
		fields := strings.Fields(ev)
		require.GreaterOrEqual(t, len(fields), 3)
		kind, surface := fields[1], fields[2]
		switch kind {
		case "enter":
			assert.Empty(t, entered, "%q without leave of %q", ev, entered)
			entered = surface
			enters++
		case "leave":
			assert.Equal(t, entered, surface, "%q for a surface that was not entered", ev)
			entered = ""
		}
	}
	assert.Empty(t, entered)
	assert.Equal(t, 4, enters)
}
