package replay

import (
	"errors"
	"fmt"
	"os"

	"gioui.org/f32"
	"golang.org/x/sys/unix"

	"github.com/bnema/wlseat/internal/config"
	"github.com/bnema/wlseat/internal/logger"
	"github.com/bnema/wlseat/internal/resource"
	"github.com/bnema/wlseat/internal/seat"
)

// Runner replays one script against a fresh seat.
type Runner struct {
	script   *Script
	keymap   string
	seat     *seat.Seat
	rec      *Recorder
	surfaces map[string]*resource.Surface
	sources  map[string]*resource.DataSource
}

// NewRunner builds the seat described by cfg and the script's overrides
// and binds a recording delivery object for every client device.
func NewRunner(script *Script, cfg *config.Config) *Runner {
	opts := seat.Options{
		Name:        cfg.Seat.Name,
		HasPointer:  cfg.Seat.HasPointer,
		HasKeyboard: cfg.Seat.HasKeyboard,
		HasTouch:    cfg.Seat.HasTouch,
		RepeatRate:  cfg.Keyboard.RepeatRate,
		RepeatDelay: cfg.Keyboard.RepeatDelay,
	}
	o := script.Seat
	if o.Name != "" {
		opts.Name = o.Name
	}
	if o.HasPointer != nil {
		opts.HasPointer = *o.HasPointer
	}
	if o.HasKeyboard != nil {
		opts.HasKeyboard = *o.HasKeyboard
	}
	if o.HasTouch != nil {
		opts.HasTouch = *o.HasTouch
	}

	r := &Runner{
		script:   script,
		keymap:   cfg.Keyboard.KeymapPath,
		rec:      &Recorder{},
		surfaces: make(map[string]*resource.Surface),
		sources:  make(map[string]*resource.DataSource),
	}
	opts.Hooks = seat.Hooks{
		DragStarted: func() { r.rec.add("", deviceSeat, "drag-started") },
		DragEnded:   func() { r.rec.add("", deviceSeat, "drag-ended") },
		DragSurfaceChanged: func(s seat.Surface) {
			r.rec.add("", deviceSeat, "drag-surface %s", surfaceID(s))
		},
	}
	r.seat = seat.New(opts)

	for _, sf := range script.Surfaces {
		r.surfaces[sf.ID] = resource.NewSurface(sf.ID, sf.Client)
	}
	for _, src := range script.Sources {
		r.sources[src.ID] = resource.NewDataSource(src.Client, src.MimeTypes...)
	}
	for _, c := range script.Clients {
		r.bind(c)
	}
	return r
}

func (r *Runner) bind(c Client) {
	devices := c.Devices
	if len(devices) == 0 {
		devices = []string{devicePointer, deviceKeyboard, deviceTouch, deviceDataDevice}
	}
	for _, d := range devices {
		switch d {
		case devicePointer:
			r.seat.AddPointer(c.Name, &pointer{client: c.Name, rec: r.rec})
		case deviceKeyboard:
			r.seat.AddKeyboard(c.Name, &keyboard{client: c.Name, rec: r.rec})
		case deviceTouch:
			r.seat.AddTouch(c.Name, &touch{client: c.Name, rec: r.rec})
		case deviceDataDevice:
			r.seat.AddDataDevice(c.Name, &dataDevice{client: c.Name, rec: r.rec})
		}
	}
}

// Seat returns the seat being driven.
func (r *Runner) Seat() *seat.Seat { return r.seat }

// Run plays every event in order. A step whose outcome does not match its
// expect_error field stops the run. The configured keymap, if any, is
// installed first. The seat is closed when Run returns.
func (r *Runner) Run() ([]Record, error) {
	defer func() {
		if err := r.seat.Close(); err != nil {
			logger.Warnf("Closing seat: %v", err)
		}
	}()

	if r.keymap != "" {
		fd, size, err := openKeymap(r.keymap)
		if err != nil {
			return nil, err
		}
		r.seat.SetKeymap(fd, size)
	}

	for i, ev := range r.script.Events {
		r.rec.step = i
		err := handlers[ev.Op](r, ev)
		switch {
		case ev.Expect != "" && err == nil:
			return r.rec.Records(), fmt.Errorf("event %d (%s): expected error %q", i, ev.Op, ev.Expect)
		case ev.Expect != "":
			if !matchesExpectation(err, ev.Expect) {
				return r.rec.Records(), fmt.Errorf("event %d (%s): got %v, expected %q", i, ev.Op, err, ev.Expect)
			}
			r.rec.add("", deviceSeat, "rejected: %v", err)
		case err != nil:
			return r.rec.Records(), fmt.Errorf("event %d (%s): %w", i, ev.Op, err)
		}
	}
	return r.rec.Records(), nil
}

var expectations = map[string]error{
	"invalid_grab": seat.ErrInvalidGrab,
	"drag_active":  seat.ErrDragActive,
	"no_drag":      seat.ErrNoDrag,
}

func matchesExpectation(err error, name string) bool {
	target, ok := expectations[name]
	return ok && errors.Is(err, target)
}

func (r *Runner) surface(id string) seat.Surface {
	if id == "" {
		return nil
	}
	return r.surfaces[id]
}

func (r *Runner) source(id string) seat.DataSource {
	if id == "" {
		return nil
	}
	return r.sources[id]
}

func pos(ev Event) f32.Point  { return f32.Point{X: ev.X, Y: ev.Y} }
func spos(ev Event) f32.Point { return f32.Point{X: ev.SX, Y: ev.SY} }

// transform is the default transform for the surface position, scaled
// when the event carries a scale factor.
func transform(ev Event) f32.Affine2D {
	m := seat.DefaultTransform(spos(ev))
	if ev.Scale != nil {
		m = m.Scale(f32.Point{}, f32.Point{X: *ev.Scale, Y: *ev.Scale})
	}
	return m
}

type handler func(r *Runner, ev Event) error

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"timestamp": func(r *Runner, ev Event) error {
			r.rec.time = ev.Time
			r.seat.SetTimestamp(ev.Time)
			return nil
		},
		"name": func(r *Runner, ev Event) error {
			r.seat.SetName(ev.Name)
			return nil
		},
		"focus_pointer": func(r *Runner, ev Event) error {
			if ev.Scale != nil {
				r.seat.SetFocusedPointerSurfaceTransform(r.surface(ev.Surface), transform(ev))
				return nil
			}
			r.seat.SetFocusedPointerSurface(r.surface(ev.Surface), spos(ev))
			return nil
		},
		"pointer_surface_position": func(r *Runner, ev Event) error {
			r.seat.SetFocusedPointerSurfacePosition(spos(ev))
			return nil
		},
		"pointer_transform": func(r *Runner, ev Event) error {
			r.seat.SetFocusedPointerSurfaceTransformation(transform(ev))
			return nil
		},
		"pointer_move": func(r *Runner, ev Event) error {
			r.seat.SetPointerPos(pos(ev))
			return nil
		},
		"button_press": func(r *Runner, ev Event) error {
			r.seat.PointerButtonPressed(ev.Button)
			return nil
		},
		"button_release": func(r *Runner, ev Event) error {
			r.seat.PointerButtonReleased(ev.Button)
			return nil
		},
		"axis": func(r *Runner, ev Event) error {
			o := seat.Vertical
			switch ev.Axis {
			case "", "vertical":
			case "horizontal":
				o = seat.Horizontal
			default:
				return fmt.Errorf("unknown axis %q", ev.Axis)
			}
			r.seat.PointerAxis(o, ev.Delta)
			return nil
		},
		"focus_keyboard": func(r *Runner, ev Event) error {
			r.seat.SetFocusedKeyboardSurface(r.surface(ev.Surface))
			return nil
		},
		"key_press": func(r *Runner, ev Event) error {
			r.seat.KeyPressed(ev.Key)
			return nil
		},
		"key_release": func(r *Runner, ev Event) error {
			r.seat.KeyReleased(ev.Key)
			return nil
		},
		"modifiers": func(r *Runner, ev Event) error {
			if len(ev.Mods) != 4 {
				return fmt.Errorf("modifiers needs [depressed, latched, locked, group], got %v", ev.Mods)
			}
			r.seat.UpdateKeyboardModifiers(ev.Mods[0], ev.Mods[1], ev.Mods[2], ev.Mods[3])
			return nil
		},
		"repeat_info": func(r *Runner, ev Event) error {
			r.seat.SetKeyRepeatInfo(ev.Rate, ev.Delay)
			return nil
		},
		"keymap": func(r *Runner, ev Event) error {
			fd, size, err := openKeymap(ev.Path)
			if err != nil {
				return err
			}
			r.seat.SetKeymap(fd, size)
			return nil
		},
		"focus_touch": func(r *Runner, ev Event) error {
			r.seat.SetFocusedTouchSurface(r.surface(ev.Surface), spos(ev))
			return nil
		},
		"touch_surface_position": func(r *Runner, ev Event) error {
			r.seat.SetFocusedTouchSurfacePosition(spos(ev))
			return nil
		},
		"touch_down": func(r *Runner, ev Event) error {
			id := r.seat.TouchDown(pos(ev))
			logger.Debugf("Touch point %d down", id)
			return nil
		},
		"touch_up": func(r *Runner, ev Event) error {
			r.seat.TouchUp(ev.Touch)
			return nil
		},
		"touch_move": func(r *Runner, ev Event) error {
			r.seat.TouchMove(ev.Touch, pos(ev))
			return nil
		},
		"touch_frame": func(r *Runner, ev Event) error {
			r.seat.TouchFrame()
			return nil
		},
		"touch_cancel": func(r *Runner, ev Event) error {
			r.seat.CancelTouchSequence()
			return nil
		},
		"start_drag": func(r *Runner, ev Event) error {
			return r.startDrag(ev)
		},
		"drag_target": func(r *Runner, ev Event) error {
			return r.seat.SetDragTarget(r.surface(ev.Surface), pos(ev), transform(ev))
		},
		"retarget_drag": func(r *Runner, ev Event) error {
			return r.seat.RetargetDrag(r.surface(ev.Surface), transform(ev))
		},
		"drop": func(r *Runner, ev Event) error {
			return r.seat.DropDrag()
		},
		"cancel_drag": func(r *Runner, ev Event) error {
			return r.seat.CancelDrag()
		},
		"destroy_surface": func(r *Runner, ev Event) error {
			r.surfaces[ev.Surface].Destroy()
			return nil
		},
		"destroy_source": func(r *Runner, ev Event) error {
			r.sources[ev.Source].Destroy()
			return nil
		},
	}
}

// startDrag resolves the serial from the event, or from the press that
// started the grab when the event leaves it out.
func (r *Runner) startDrag(ev Event) error {
	var origin seat.DragOrigin
	switch ev.Origin {
	case "", "pointer":
		origin = seat.PointerOrigin()
	case "touch":
		origin = seat.TouchOrigin(ev.Touch)
	default:
		return fmt.Errorf("unknown drag origin %q", ev.Origin)
	}

	serial := ev.Serial
	if serial == 0 {
		switch origin.Device {
		case seat.DragPointer:
			serial = r.seat.PointerButtonSerial(ev.Button)
		case seat.DragTouch:
			if p, ok := r.seat.Grabs().TouchPoint(ev.Touch); ok {
				serial = p.DownSerial
			}
		}
	}
	return r.seat.StartDrag(serial, r.source(ev.Source), origin)
}

// openKeymap opens path and hands back a descriptor the seat will own.
func openKeymap(path string) (int, uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return -1, 0, fmt.Errorf("failed to open keymap: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return -1, 0, fmt.Errorf("failed to stat keymap: %w", err)
	}
	fd, err := unix.Dup(int(f.Fd()))
	if err != nil {
		return -1, 0, fmt.Errorf("failed to duplicate keymap fd: %w", err)
	}
	unix.CloseOnExec(fd)
	return fd, uint32(info.Size()), nil
}
