package seat

import (
	"bytes"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/bnema/wlseat/internal/logger"
)

// xkbKeymapPrefix opens every keymap in the xkb text format.
var xkbKeymapPrefix = []byte("xkb_keymap")

// keymap owns the descriptor the keymap was handed over with.
type keymap struct {
	fd    int
	size  uint32
	valid bool
}

// release closes the descriptor. It is safe to call repeatedly.
func (k *keymap) release() error {
	if k.fd < 0 {
		return nil
	}
	fd := k.fd
	k.fd = -1
	k.size = 0
	k.valid = false
	if err := unix.Close(fd); err != nil {
		return fmt.Errorf("failed to close keymap fd %d: %w", fd, err)
	}
	return nil
}

// keymapProbeLen bounds how much of a keymap is read to recognise it.
const keymapProbeLen = 4096

// probeKeymap checks that fd is a regular file at least size bytes long
// whose text starts with an xkb keymap. Only the head of the file is read.
func probeKeymap(fd int, size uint32) error {
	if size == 0 {
		return fmt.Errorf("empty keymap")
	}
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return fmt.Errorf("failed to stat keymap: %w", err)
	}
	if st.Mode&unix.S_IFMT != unix.S_IFREG {
		return fmt.Errorf("keymap fd is not a regular file")
	}
	if int64(size) > st.Size {
		return fmt.Errorf("keymap size %d exceeds file size %d", size, st.Size)
	}

	buf := make([]byte, min(int(size), keymapProbeLen))
	n, err := unix.Pread(fd, buf, 0)
	if err != nil {
		return fmt.Errorf("failed to read keymap: %w", err)
	}
	if !bytes.HasPrefix(bytes.TrimLeft(buf[:n], " \t\r\n"), xkbKeymapPrefix) {
		return fmt.Errorf("keymap is not in xkb text format")
	}
	return nil
}

type modifiers struct {
	depressed uint32
	latched   uint32
	locked    uint32
	group     uint32
	serial    uint32
}

type keyboardState struct {
	focus       *focusTracker[KeyboardDelivery]
	keymap      keymap
	mods        modifiers
	keys        []uint32
	repeatRate  int32
	repeatDelay int32
}

func (s *Seat) initKeyboard(rate, delay int32) {
	s.keyboard.keymap.fd = -1
	s.keyboard.repeatRate = rate
	s.keyboard.repeatDelay = delay
	s.keyboard.focus = &focusTracker[KeyboardDelivery]{
		bindings: s.keyboards,
		enter:    s.keyboardEnter,
		leave: func(ks []KeyboardDelivery, surface Surface) {
			serial := s.serials.Next()
			for _, k := range ks {
				k.Leave(serial, surface)
			}
		},
		cleared: func() {
			logger.Debug("Focused keyboard surface destroyed")
			s.focusedKeyboardChanged()
		},
	}
}

// keyboardEnter sends enter with the held keys followed by the current
// modifier state under the same serial.
func (s *Seat) keyboardEnter(ks []KeyboardDelivery, surface Surface) {
	serial := s.serials.Next()
	m := s.keyboard.mods
	for _, k := range ks {
		k.Enter(serial, surface, s.PressedKeys())
		k.Modifiers(serial, m.depressed, m.latched, m.locked, m.group)
	}
}

// SetKeymap installs the keymap held in fd and takes ownership of fd. The
// previous descriptor is closed. A keymap that is not in xkb text format
// is recorded as invalid and still forwarded to every bound keyboard.
func (s *Seat) SetKeymap(fd int, size uint32) {
	if fd != s.keyboard.keymap.fd {
		if err := s.keyboard.keymap.release(); err != nil {
			logger.Warnf("Releasing previous keymap: %v", err)
		}
	}
	s.keyboard.keymap = keymap{fd: fd, size: size, valid: true}
	if err := probeKeymap(fd, size); err != nil {
		logger.Warnf("Keymap fd %d marked invalid: %v", fd, err)
		s.keyboard.keymap.valid = false
	}
	for _, k := range s.keyboards.all() {
		k.Keymap(fd, size)
	}
}

// KeymapFileDescriptor returns the owned keymap descriptor, or -1.
func (s *Seat) KeymapFileDescriptor() int { return s.keyboard.keymap.fd }

// KeymapSize returns the size of the keymap in bytes.
func (s *Seat) KeymapSize() uint32 { return s.keyboard.keymap.size }

// IsKeymapXkbCompatible reports whether the keymap passed validation.
func (s *Seat) IsKeymapXkbCompatible() bool { return s.keyboard.keymap.valid }

// KeyPressed records key as held and forwards it to the focused surface.
func (s *Seat) KeyPressed(key uint32) {
	if !s.isKeyPressed(key) {
		s.keyboard.keys = append(s.keyboard.keys, key)
	}
	s.sendKey(key, KeyPressed)
}

// KeyReleased records key as released and forwards it to the focused surface.
func (s *Seat) KeyReleased(key uint32) {
	for i, k := range s.keyboard.keys {
		if k == key {
			s.keyboard.keys = append(s.keyboard.keys[:i], s.keyboard.keys[i+1:]...)
			break
		}
	}
	s.sendKey(key, KeyReleased)
}

func (s *Seat) sendKey(key uint32, state KeyState) {
	serial := s.serials.Next()
	for _, k := range s.keyboard.focus.deliveries() {
		k.Key(serial, s.timestamp, key, state)
	}
}

func (s *Seat) isKeyPressed(key uint32) bool {
	for _, k := range s.keyboard.keys {
		if k == key {
			return true
		}
	}
	return false
}

// PressedKeys returns the held keys in press order.
func (s *Seat) PressedKeys() []uint32 {
	keys := make([]uint32, len(s.keyboard.keys))
	copy(keys, s.keyboard.keys)
	return keys
}

// UpdateKeyboardModifiers stores the modifier state under a new serial and
// forwards it to the focused surface.
func (s *Seat) UpdateKeyboardModifiers(depressed, latched, locked, group uint32) {
	serial := s.serials.Next()
	s.keyboard.mods = modifiers{
		depressed: depressed,
		latched:   latched,
		locked:    locked,
		group:     group,
		serial:    serial,
	}
	for _, k := range s.keyboard.focus.deliveries() {
		k.Modifiers(serial, depressed, latched, locked, group)
	}
}

// DepressedModifiers returns the physically held modifiers.
func (s *Seat) DepressedModifiers() uint32  { return s.keyboard.mods.depressed }
func (s *Seat) LatchedModifiers() uint32    { return s.keyboard.mods.latched }
func (s *Seat) LockedModifiers() uint32     { return s.keyboard.mods.locked }
func (s *Seat) GroupModifiers() uint32      { return s.keyboard.mods.group }
func (s *Seat) LastModifiersSerial() uint32 { return s.keyboard.mods.serial }

// SetKeyRepeatInfo sets the repeat rate in characters per second and the
// delay in milliseconds, and forwards both to every bound keyboard. A rate
// of 0 disables repeat.
func (s *Seat) SetKeyRepeatInfo(rate, delay int32) {
	s.keyboard.repeatRate = rate
	s.keyboard.repeatDelay = delay
	for _, k := range s.keyboards.all() {
		k.RepeatInfo(rate, delay)
	}
}

// KeyRepeatRate returns the repeat rate in characters per second.
func (s *Seat) KeyRepeatRate() int32  { return s.keyboard.repeatRate }
func (s *Seat) KeyRepeatDelay() int32 { return s.keyboard.repeatDelay }

// SetFocusedKeyboardSurface moves keyboard focus to surface, or removes it
// when surface is nil.
func (s *Seat) SetFocusedKeyboardSurface(surface Surface) {
	if s.keyboard.focus.set(surface, s.keyboard.focus.position, nil) {
		logger.Debugf("Keyboard focus moved to %s", surfaceName(surface))
		s.focusedKeyboardChanged()
	}
}

func (s *Seat) focusedKeyboardChanged() {
	if s.hooks.FocusedKeyboardChanged != nil {
		s.hooks.FocusedKeyboardChanged(s.keyboard.focus.surface)
	}
}

// FocusedKeyboardSurface returns the surface with keyboard focus, or nil.
func (s *Seat) FocusedKeyboardSurface() Surface { return s.keyboard.focus.surface }

// FocusedKeyboards returns the keyboard objects of the focused client.
func (s *Seat) FocusedKeyboards() []KeyboardDelivery { return s.keyboard.focus.deliveries() }
