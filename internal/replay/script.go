// Package replay drives a seat from a YAML input script and records every
// event the seat delivers to clients. It is the harness behind the replay
// command and the end-to-end tests.
package replay

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Script is a replayable input session.
type Script struct {
	Seat     SeatOverrides `yaml:"seat"`
	Clients  []Client      `yaml:"clients"`
	Surfaces []SurfaceDef  `yaml:"surfaces"`
	Sources  []SourceDef   `yaml:"sources"`
	Events   []Event       `yaml:"events"`
}

// SeatOverrides replace configured seat settings when set.
type SeatOverrides struct {
	Name        string `yaml:"name"`
	HasPointer  *bool  `yaml:"has_pointer"`
	HasKeyboard *bool  `yaml:"has_keyboard"`
	HasTouch    *bool  `yaml:"has_touch"`
}

// Client binds delivery objects for the listed device classes. An empty
// list binds all of them.
type Client struct {
	Name    string   `yaml:"name"`
	Devices []string `yaml:"devices"`
}

// SurfaceDef declares a surface owned by a client.
type SurfaceDef struct {
	ID     string `yaml:"id"`
	Client string `yaml:"client"`
}

// SourceDef declares a drag-and-drop data source.
type SourceDef struct {
	ID        string   `yaml:"id"`
	Client    string   `yaml:"client"`
	MimeTypes []string `yaml:"mime_types"`
}

// Event is one script step. Which fields matter depends on Op.
type Event struct {
	Op      string   `yaml:"op"`
	Time    uint32   `yaml:"time"`
	Surface string   `yaml:"surface"`
	Source  string   `yaml:"source"`
	X       float32  `yaml:"x"`
	Y       float32  `yaml:"y"`
	SX      float32  `yaml:"sx"`
	SY      float32  `yaml:"sy"`
	Scale   *float32 `yaml:"scale"`
	Button  uint32   `yaml:"button"`
	Key     uint32   `yaml:"key"`
	Touch   int32    `yaml:"touch"`
	Serial  uint32   `yaml:"serial"`
	Origin  string   `yaml:"origin"`
	Delta   float64  `yaml:"delta"`
	Axis    string   `yaml:"axis"`
	Mods    []uint32 `yaml:"mods"`
	Rate    int32    `yaml:"rate"`
	Delay   int32    `yaml:"delay"`
	Path    string   `yaml:"path"`
	Name    string   `yaml:"name"`
	Expect  string   `yaml:"expect_error"`
}

// Parse decodes a script and checks its references.
func Parse(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode script: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func (s *Script) validate() error {
	clients := make(map[string]bool, len(s.Clients))
	for _, c := range s.Clients {
		if c.Name == "" {
			return fmt.Errorf("client without a name")
		}
		for _, d := range c.Devices {
			switch d {
			case devicePointer, deviceKeyboard, deviceTouch, deviceDataDevice:
			default:
				return fmt.Errorf("client %s: unknown device %q", c.Name, d)
			}
		}
		clients[c.Name] = true
	}

	surfaces := make(map[string]bool, len(s.Surfaces))
	for _, sf := range s.Surfaces {
		if !clients[sf.Client] {
			return fmt.Errorf("surface %s: unknown client %q", sf.ID, sf.Client)
		}
		if surfaces[sf.ID] {
			return fmt.Errorf("duplicate surface %s", sf.ID)
		}
		surfaces[sf.ID] = true
	}

	sources := make(map[string]bool, len(s.Sources))
	for _, src := range s.Sources {
		if !clients[src.Client] {
			return fmt.Errorf("source %s: unknown client %q", src.ID, src.Client)
		}
		sources[src.ID] = true
	}

	for i, ev := range s.Events {
		if _, ok := handlers[ev.Op]; !ok {
			return fmt.Errorf("event %d: unknown op %q", i, ev.Op)
		}
		if ev.Surface != "" && !surfaces[ev.Surface] {
			return fmt.Errorf("event %d (%s): unknown surface %q", i, ev.Op, ev.Surface)
		}
		if ev.Source != "" && !sources[ev.Source] {
			return fmt.Errorf("event %d (%s): unknown source %q", i, ev.Op, ev.Source)
		}
	}
	return nil
}
