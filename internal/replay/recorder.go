package replay

import (
	"fmt"

	"gioui.org/f32"

	"github.com/bnema/wlseat/internal/logger"
	"github.com/bnema/wlseat/internal/seat"
)

const (
	devicePointer    = "pointer"
	deviceKeyboard   = "keyboard"
	deviceTouch      = "touch"
	deviceDataDevice = "data_device"
	deviceSeat       = "seat"
)

// Record is one delivered event.
type Record struct {
	Step   int
	Time   uint32
	Client string
	Device string
	Event  string
}

func (r Record) String() string {
	return fmt.Sprintf("[%d] t=%d %s/%s %s", r.Step, r.Time, r.Client, r.Device, r.Event)
}

// Recorder collects records from every recording delivery object in
// delivery order.
type Recorder struct {
	step    int
	time    uint32
	records []Record
}

func (r *Recorder) add(client, device, format string, args ...interface{}) {
	rec := Record{
		Step:   r.step,
		Time:   r.time,
		Client: client,
		Device: device,
		Event:  fmt.Sprintf(format, args...),
	}
	logger.Debug("delivered", "client", client, "device", device, "event", rec.Event)
	r.records = append(r.records, rec)
}

// Records returns everything recorded so far.
func (r *Recorder) Records() []Record {
	return r.records
}

func point(p f32.Point) string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

func surfaceID(s seat.Surface) string {
	if s == nil {
		return "<none>"
	}
	return s.ID()
}

type pointer struct {
	client string
	rec    *Recorder
}

func (p *pointer) Enter(serial uint32, s seat.Surface, local f32.Point) {
	p.rec.add(p.client, devicePointer, "enter %s %s serial=%d", s.ID(), point(local), serial)
}

func (p *pointer) Leave(serial uint32, s seat.Surface) {
	p.rec.add(p.client, devicePointer, "leave %s serial=%d", s.ID(), serial)
}

func (p *pointer) Motion(time uint32, local f32.Point) {
	p.rec.add(p.client, devicePointer, "motion %s", point(local))
}

func (p *pointer) Button(serial, time, button uint32, state seat.ButtonState) {
	p.rec.add(p.client, devicePointer, "button %d %s serial=%d", button, state, serial)
}

func (p *pointer) Axis(time uint32, o seat.Orientation, delta float64) {
	p.rec.add(p.client, devicePointer, "axis %s %g", o, delta)
}

type keyboard struct {
	client string
	rec    *Recorder
}

func (k *keyboard) Enter(serial uint32, s seat.Surface, keys []uint32) {
	k.rec.add(k.client, deviceKeyboard, "enter %s keys=%v serial=%d", s.ID(), keys, serial)
}

func (k *keyboard) Leave(serial uint32, s seat.Surface) {
	k.rec.add(k.client, deviceKeyboard, "leave %s serial=%d", s.ID(), serial)
}

func (k *keyboard) Key(serial, time, key uint32, state seat.KeyState) {
	k.rec.add(k.client, deviceKeyboard, "key %d %s serial=%d", key, state, serial)
}

func (k *keyboard) Modifiers(serial, depressed, latched, locked, group uint32) {
	k.rec.add(k.client, deviceKeyboard, "modifiers %d %d %d %d serial=%d", depressed, latched, locked, group, serial)
}

func (k *keyboard) Keymap(fd int, size uint32) {
	k.rec.add(k.client, deviceKeyboard, "keymap size=%d", size)
}

func (k *keyboard) RepeatInfo(rate, delay int32) {
	k.rec.add(k.client, deviceKeyboard, "repeat rate=%d delay=%d", rate, delay)
}

type touch struct {
	client string
	rec    *Recorder
}

func (t *touch) Down(serial, time uint32, s seat.Surface, id int32, local f32.Point) {
	t.rec.add(t.client, deviceTouch, "down %d %s %s serial=%d", id, surfaceID(s), point(local), serial)
}

func (t *touch) Up(serial, time uint32, id int32) {
	t.rec.add(t.client, deviceTouch, "up %d serial=%d", id, serial)
}

func (t *touch) Motion(time uint32, id int32, local f32.Point) {
	t.rec.add(t.client, deviceTouch, "motion %d %s", id, point(local))
}

func (t *touch) Frame()  { t.rec.add(t.client, deviceTouch, "frame") }
func (t *touch) Cancel() { t.rec.add(t.client, deviceTouch, "cancel") }

type dataDevice struct {
	client string
	rec    *Recorder
}

func (d *dataDevice) DragEnter(serial uint32, s seat.Surface, local f32.Point, source seat.DataSource) {
	d.rec.add(d.client, deviceDataDevice, "drag-enter %s %s serial=%d", s.ID(), point(local), serial)
}

func (d *dataDevice) DragLeave() {
	d.rec.add(d.client, deviceDataDevice, "drag-leave")
}

func (d *dataDevice) DragMotion(time uint32, local f32.Point) {
	d.rec.add(d.client, deviceDataDevice, "drag-motion %s", point(local))
}

func (d *dataDevice) Drop() {
	d.rec.add(d.client, deviceDataDevice, "drop")
}
