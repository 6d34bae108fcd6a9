// Package resource provides the protocol objects the seat refers to but
// never owns: surfaces and drag-and-drop data sources. Each object notifies
// registered observers exactly once when it is destroyed, which is how
// holders of a reference learn to drop it.
package resource

import "sort"

// notifier fans a single destroy event out to registered observers.
type notifier struct {
	observers map[uint64]func()
	nextID    uint64
	destroyed bool
}

func (n *notifier) onDestroy(fn func()) func() {
	if n.destroyed {
		// Already gone: there is nothing to observe.
		return func() {}
	}
	if n.observers == nil {
		n.observers = make(map[uint64]func())
	}
	id := n.nextID
	n.nextID++
	n.observers[id] = fn
	return func() {
		delete(n.observers, id)
	}
}

func (n *notifier) destroy() {
	if n.destroyed {
		return
	}
	n.destroyed = true

	// Observers run in registration order.
	ids := make([]uint64, 0, len(n.observers))
	for id := range n.observers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	observers := n.observers
	n.observers = nil
	for _, id := range ids {
		observers[id]()
	}
}

// Surface is a client surface that can receive input focus.
type Surface struct {
	id     string
	client string
	n      notifier
}

// NewSurface creates a surface owned by client.
func NewSurface(id, client string) *Surface {
	return &Surface{id: id, client: client}
}

// ID returns the surface identifier.
func (s *Surface) ID() string { return s.id }

// Client returns the identifier of the owning client.
func (s *Surface) Client() string { return s.client }

// OnDestroy registers fn to run when the surface is destroyed. The returned
// function unregisters it.
func (s *Surface) OnDestroy(fn func()) (cancel func()) {
	return s.n.onDestroy(fn)
}

// Destroy destroys the surface and notifies observers. Calling it again is a no-op.
func (s *Surface) Destroy() { s.n.destroy() }

// IsDestroyed reports whether Destroy has been called.
func (s *Surface) IsDestroyed() bool { return s.n.destroyed }

// DataSource is the offering side of a drag-and-drop operation.
type DataSource struct {
	client    string
	mimeTypes []string
	n         notifier
}

// NewDataSource creates a data source owned by client offering mimeTypes.
func NewDataSource(client string, mimeTypes ...string) *DataSource {
	return &DataSource{client: client, mimeTypes: mimeTypes}
}

// Client returns the identifier of the owning client.
func (d *DataSource) Client() string { return d.client }

// MimeTypes returns the offered mime types.
func (d *DataSource) MimeTypes() []string { return d.mimeTypes }

// OnDestroy registers fn to run when the source is destroyed.
func (d *DataSource) OnDestroy(fn func()) (cancel func()) {
	return d.n.onDestroy(fn)
}

// Destroy destroys the source and notifies observers.
func (d *DataSource) Destroy() { d.n.destroy() }

// IsDestroyed reports whether Destroy has been called.
func (d *DataSource) IsDestroyed() bool { return d.n.destroyed }
