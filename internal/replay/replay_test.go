package replay

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wlseat/internal/config"
)

func defaults() *config.Config {
	c := config.DefaultConfig
	return &c
}

func lines(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, fmt.Sprintf("%s/%s %s", r.Client, r.Device, r.Event))
	}
	return out
}

func run(t *testing.T, path string) []Record {
	t.Helper()
	script, err := Load(path)
	require.NoError(t, err)
	records, err := NewRunner(script, defaults()).Run()
	require.NoError(t, err)
	return records
}

func TestPointerDragScript(t *testing.T) {
	records := run(t, "testdata/pointer_drag.yaml")

	got := lines(records)
	require.Len(t, got, 10)
	assert.Equal(t, []string{
		"alice/pointer enter a (-100,-200) serial=1",
		"alice/pointer motion (250,10)",
		"alice/pointer button 272 pressed serial=2",
		"/seat drag-started",
		"bob/data_device drag-enter b (50,10) serial=3",
		"/seat drag-surface b",
		"bob/data_device drag-motion (60,20)",
		"bob/data_device drop",
		"/seat drag-ended",
	}, got[:9])
	assert.True(t, strings.HasPrefix(got[9], "/seat rejected: "), got[9])

	t.Run("records carry step and timestamp", func(t *testing.T) {
		assert.Equal(t, 1, records[0].Step)
		assert.Equal(t, uint32(10), records[0].Time)
		assert.Equal(t, 8, records[9].Step)
	})
}

func TestTouchCancelScript(t *testing.T) {
	got := lines(run(t, "testdata/touch_cancel.yaml"))

	assert.Equal(t, []string{
		"alice/touch down 0 a (5,5) serial=1",
		"alice/touch down 1 a (10,10) serial=2",
		"alice/touch frame",
		"alice/touch cancel",
		"alice/touch down 0 a (20,20) serial=3",
		"alice/touch up 0 serial=4",
	}, got)
}

func TestKeyboardScript(t *testing.T) {
	info, err := os.Stat("testdata/us.xkb")
	require.NoError(t, err)

	got := lines(run(t, "testdata/keyboard.yaml"))

	assert.Equal(t, []string{
		"alice/keyboard repeat rate=25 delay=600",
		fmt.Sprintf("alice/keyboard keymap size=%d", info.Size()),
		"alice/keyboard enter a keys=[30] serial=3",
		"alice/keyboard modifiers 1 0 0 0 serial=3",
		"alice/keyboard key 30 pressed serial=4",
		"alice/keyboard key 30 released serial=5",
		"alice/keyboard repeat rate=30 delay=200",
	}, got)
}

func TestConfiguredKeymapIsInstalled(t *testing.T) {
	script, err := Parse(strings.NewReader(`
clients:
  - name: alice
    devices: [keyboard]
`))
	require.NoError(t, err)

	cfg := defaults()
	cfg.Keyboard.KeymapPath = "testdata/us.xkb"
	runner := NewRunner(script, cfg)

	records, err := runner.Run()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Contains(t, records[1].Event, "keymap size=")
}

func TestScriptSeatOverrides(t *testing.T) {
	script, err := Parse(strings.NewReader(`
seat:
  name: seat9
  has_pointer: false
  has_touch: true
`))
	require.NoError(t, err)

	runner := NewRunner(script, defaults())
	s := runner.Seat()
	assert.Equal(t, "seat9", s.Name())
	assert.False(t, s.HasPointer())
	assert.True(t, s.HasKeyboard(), "unset override keeps the configured value")
	assert.True(t, s.HasTouch())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{
			name:   "unknown op",
			script: "events:\n  - {op: teleport}\n",
			want:   `unknown op "teleport"`,
		},
		{
			name:   "unknown field",
			script: "events:\n  - {op: drop, colour: red}\n",
			want:   "failed to decode script",
		},
		{
			name:   "unknown surface",
			script: "events:\n  - {op: focus_keyboard, surface: nope}\n",
			want:   `unknown surface "nope"`,
		},
		{
			name:   "surface of unknown client",
			script: "surfaces:\n  - {id: a, client: ghost}\n",
			want:   `unknown client "ghost"`,
		},
		{
			name:   "unknown device",
			script: "clients:\n  - {name: alice, devices: [tablet]}\n",
			want:   `unknown device "tablet"`,
		},
		{
			name:   "duplicate surface",
			script: "clients: [{name: a}]\nsurfaces:\n  - {id: s, client: a}\n  - {id: s, client: a}\n",
			want:   "duplicate surface s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.script))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestRunStopsOnUnexpectedOutcome(t *testing.T) {
	t.Run("error where none was expected", func(t *testing.T) {
		script, err := Parse(strings.NewReader("events:\n  - {op: drop}\n"))
		require.NoError(t, err)

		_, err = NewRunner(script, defaults()).Run()
		assert.ErrorContains(t, err, "event 0 (drop)")
	})

	t.Run("expected error did not happen", func(t *testing.T) {
		script, err := Parse(strings.NewReader(`
clients: [{name: alice}]
events:
  - {op: button_press, button: 272}
  - {op: start_drag, button: 272, expect_error: invalid_grab}
`))
		require.NoError(t, err)

		_, err = NewRunner(script, defaults()).Run()
		assert.ErrorContains(t, err, `expected error "invalid_grab"`)
	})

	t.Run("wrong error kind", func(t *testing.T) {
		script, err := Parse(strings.NewReader(`
events:
  - {op: cancel_drag, expect_error: drag_active}
`))
		require.NoError(t, err)

		_, err = NewRunner(script, defaults()).Run()
		assert.ErrorContains(t, err, `expected "drag_active"`)
	})
}

func TestDestroyedSurfaceDropsFocusWithoutLeave(t *testing.T) {
	script, err := Parse(strings.NewReader(`
clients: [{name: alice, devices: [pointer]}]
surfaces: [{id: a, client: alice}]
events:
  - {op: focus_pointer, surface: a}
  - {op: destroy_surface, surface: a}
  - {op: pointer_move, x: 5, y: 5}
`))
	require.NoError(t, err)

	runner := NewRunner(script, defaults())
	records, err := runner.Run()
	require.NoError(t, err)

	assert.Equal(t, []string{"alice/pointer enter a (0,0) serial=1"}, lines(records))
}

func TestClientWithoutDevicesBindsAll(t *testing.T) {
	script, err := Parse(strings.NewReader(`
clients: [{name: alice}, {name: bob, devices: [pointer]}]
`))
	require.NoError(t, err)

	records, err := NewRunner(script, defaults()).Run()
	require.NoError(t, err)

	assert.Equal(t, []string{"alice/keyboard repeat rate=25 delay=600"}, lines(records),
		"only the keyboard announces itself on bind")
}
