package seat

import "gioui.org/f32"

// bindings holds the delivery objects each client bound for one device
// class, in bind order.
type bindings[D comparable] struct {
	byClient map[string][]D
	order    []string
}

func newBindings[D comparable]() *bindings[D] {
	return &bindings[D]{byClient: make(map[string][]D)}
}

func (b *bindings[D]) add(client string, d D) {
	if _, ok := b.byClient[client]; !ok {
		b.order = append(b.order, client)
	}
	b.byClient[client] = append(b.byClient[client], d)
}

func (b *bindings[D]) remove(d D) (string, bool) {
	for client, ds := range b.byClient {
		for i, cur := range ds {
			if cur != d {
				continue
			}
			ds = append(ds[:i:i], ds[i+1:]...)
			if len(ds) == 0 {
				delete(b.byClient, client)
				b.dropClient(client)
			} else {
				b.byClient[client] = ds
			}
			return client, true
		}
	}
	return "", false
}

func (b *bindings[D]) dropClient(client string) {
	for i, c := range b.order {
		if c == client {
			b.order = append(b.order[:i], b.order[i+1:]...)
			return
		}
	}
}

// forSurface returns the delivery objects of the client owning s.
func (b *bindings[D]) forSurface(s Surface) []D {
	if s == nil {
		return nil
	}
	return b.byClient[s.Client()]
}

// all returns every bound delivery object, clients in bind order.
func (b *bindings[D]) all() []D {
	var out []D
	for _, client := range b.order {
		out = append(out, b.byClient[client]...)
	}
	return out
}

// focusTracker follows the surface one device class is focused on and the
// transform from global into that surface's coordinates. The enter and
// leave hooks do the device-specific delivery; either may be nil.
type focusTracker[D comparable] struct {
	bindings *bindings[D]

	surface   Surface
	position  f32.Point
	transform f32.Affine2D
	override  bool
	unwatch   func()

	enter   func(ds []D, s Surface)
	leave   func(ds []D, s Surface)
	cleared func()
}

// set moves focus to s. When s is already focused only the position and
// transform are updated and nothing is delivered. An active override
// survives a same-surface call that carries no new override. It reports
// whether focus changed.
func (f *focusTracker[D]) set(s Surface, position f32.Point, override *f32.Affine2D) bool {
	if s != nil && s == f.surface {
		f.position = position
		switch {
		case override != nil:
			f.transform = *override
			f.override = true
		case !f.override:
			f.transform = DefaultTransform(position)
		}
		return false
	}
	if s == nil && f.surface == nil {
		return false
	}

	if prev := f.surface; prev != nil {
		f.stopWatching()
		if f.leave != nil {
			f.leave(f.bindings.forSurface(prev), prev)
		}
	}

	f.surface = s
	f.position = position
	if override != nil {
		f.transform = *override
		f.override = true
	} else {
		f.transform = DefaultTransform(position)
		f.override = false
	}

	if s != nil {
		f.unwatch = s.OnDestroy(f.destroyed)
		if f.enter != nil {
			f.enter(f.bindings.forSurface(s), s)
		}
	}
	return true
}

func (f *focusTracker[D]) setPosition(position f32.Point) {
	f.position = position
	if !f.override {
		f.transform = DefaultTransform(position)
	}
}

func (f *focusTracker[D]) setTransform(m f32.Affine2D) {
	f.transform = m
	f.override = true
}

func (f *focusTracker[D]) toLocal(global f32.Point) f32.Point {
	return ToLocal(f.transform, global)
}

// deliveries returns the delivery objects of the focused client.
func (f *focusTracker[D]) deliveries() []D {
	return f.bindings.forSurface(f.surface)
}

// destroyed drops a surface that went away. Its client can no longer be
// addressed, so no leave is sent.
func (f *focusTracker[D]) destroyed() {
	f.unwatch = nil
	f.surface = nil
	f.override = false
	f.transform = f32.Affine2D{}
	if f.cleared != nil {
		f.cleared()
	}
}

func (f *focusTracker[D]) stopWatching() {
	if f.unwatch != nil {
		f.unwatch()
		f.unwatch = nil
	}
}

// release forgets the focused surface without delivering anything.
func (f *focusTracker[D]) release() {
	f.stopWatching()
	f.surface = nil
	f.override = false
	f.transform = f32.Affine2D{}
}
