package seat

// Serials issues event serials. The display usually shares one allocator
// between all of its globals so serials stay ordered across them.
type Serials interface {
	Next() uint32
}

// SerialAllocator is a monotonically increasing serial counter. Overflow
// wraps; serials are only ever compared for equality against the value
// stored for a given press or touch point.
type SerialAllocator struct {
	last uint32
}

// NewSerialAllocator returns an allocator whose first serial is start+1.
func NewSerialAllocator(start uint32) *SerialAllocator {
	return &SerialAllocator{last: start}
}

// Next returns a fresh serial.
func (a *SerialAllocator) Next() uint32 {
	a.last++
	return a.last
}

// Last returns the most recently issued serial.
func (a *SerialAllocator) Last() uint32 {
	return a.last
}
