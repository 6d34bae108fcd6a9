package seat

import (
	"fmt"

	"gioui.org/f32"

	"github.com/bnema/wlseat/internal/resource"
)

// eventLog collects delivered events from every recorder in one ordered list.
type eventLog struct {
	events []string
}

func (l *eventLog) add(format string, args ...interface{}) {
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

func (l *eventLog) reset() { l.events = nil }

func pt(x, y float32) f32.Point { return f32.Point{X: x, Y: y} }

func fmtPt(p f32.Point) string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

type recPointer struct {
	name string
	log  *eventLog
}

func (p *recPointer) Enter(serial uint32, s Surface, local f32.Point) {
	p.log.add("%s enter %s serial=%d %s", p.name, s.ID(), serial, fmtPt(local))
}

func (p *recPointer) Leave(serial uint32, s Surface) {
	p.log.add("%s leave %s serial=%d", p.name, s.ID(), serial)
}

func (p *recPointer) Motion(time uint32, local f32.Point) {
	p.log.add("%s motion t=%d %s", p.name, time, fmtPt(local))
}

func (p *recPointer) Button(serial, time, button uint32, state ButtonState) {
	p.log.add("%s button %d %s serial=%d", p.name, button, state, serial)
}

func (p *recPointer) Axis(time uint32, o Orientation, delta float64) {
	p.log.add("%s axis %s %g", p.name, o, delta)
}

type recKeyboard struct {
	name string
	log  *eventLog
}

func (k *recKeyboard) Enter(serial uint32, s Surface, keys []uint32) {
	k.log.add("%s enter %s serial=%d keys=%v", k.name, s.ID(), serial, keys)
}

func (k *recKeyboard) Leave(serial uint32, s Surface) {
	k.log.add("%s leave %s serial=%d", k.name, s.ID(), serial)
}

func (k *recKeyboard) Key(serial, time, key uint32, state KeyState) {
	k.log.add("%s key %d %s serial=%d", k.name, key, state, serial)
}

func (k *recKeyboard) Modifiers(serial, depressed, latched, locked, group uint32) {
	k.log.add("%s modifiers serial=%d %d %d %d %d", k.name, serial, depressed, latched, locked, group)
}

func (k *recKeyboard) Keymap(fd int, size uint32) {
	k.log.add("%s keymap size=%d", k.name, size)
}

func (k *recKeyboard) RepeatInfo(rate, delay int32) {
	k.log.add("%s repeat %d %d", k.name, rate, delay)
}

type recTouch struct {
	name string
	log  *eventLog
}

func (t *recTouch) Down(serial, time uint32, s Surface, id int32, local f32.Point) {
	t.log.add("%s down %d serial=%d %s", t.name, id, serial, fmtPt(local))
}

func (t *recTouch) Up(serial, time uint32, id int32) {
	t.log.add("%s up %d serial=%d", t.name, id, serial)
}

func (t *recTouch) Motion(time uint32, id int32, local f32.Point) {
	t.log.add("%s motion %d %s", t.name, id, fmtPt(local))
}

func (t *recTouch) Frame()  { t.log.add("%s frame", t.name) }
func (t *recTouch) Cancel() { t.log.add("%s cancel", t.name) }

type recDataDevice struct {
	name string
	log  *eventLog
}

func (d *recDataDevice) DragEnter(serial uint32, s Surface, local f32.Point, source DataSource) {
	d.log.add("%s drag-enter %s %s", d.name, s.ID(), fmtPt(local))
}

func (d *recDataDevice) DragLeave() { d.log.add("%s drag-leave", d.name) }

func (d *recDataDevice) DragMotion(time uint32, local f32.Point) {
	d.log.add("%s drag-motion %s", d.name, fmtPt(local))
}

func (d *recDataDevice) Drop() { d.log.add("%s drop", d.name) }

// fixture is a seat with every device class bound for clients alice and bob.
type fixture struct {
	seat  *Seat
	log   *eventLog
	alice *resource.Surface
	bob   *resource.Surface
}

func newFixture() *fixture {
	log := &eventLog{}
	s := New(Options{Name: "seat0", HasPointer: true, HasKeyboard: true, HasTouch: true})
	for _, client := range []string{"alice", "bob"} {
		s.AddPointer(client, &recPointer{name: "p:" + client, log: log})
		s.AddKeyboard(client, &recKeyboard{name: "k:" + client, log: log})
		s.AddTouch(client, &recTouch{name: "t:" + client, log: log})
		s.AddDataDevice(client, &recDataDevice{name: "d:" + client, log: log})
	}
	log.reset()
	return &fixture{
		seat:  s,
		log:   log,
		alice: resource.NewSurface("a", "alice"),
		bob:   resource.NewSurface("b", "bob"),
	}
}
