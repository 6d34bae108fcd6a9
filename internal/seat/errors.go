package seat

import "errors"

var (
	// ErrInvalidGrab is returned when a serial no longer matches a held
	// button or active touch point of the stated device.
	ErrInvalidGrab = errors.New("serial does not match an active implicit grab")

	// ErrDragActive is returned when starting a drag while one is running.
	ErrDragActive = errors.New("drag already in progress")

	// ErrNoDrag is returned by drag operations when no drag is running.
	ErrNoDrag = errors.New("no drag in progress")
)
