// Package scenario replays scripted pointer sessions against a page and
// checks the outcome, so drag behavior can be verified without a window.
//
// A scenario file is YAML:
//
//	name: move a card
//	page: demo
//	steps:
//	  - down: [30, 30]
//	  - move: [40, 30]
//	  - move: [420, 60]
//	  - up: [420, 60]
//	checks:
//	  - name: card landed
//	    expect: document.getElementById("done").children.length === 1
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chrisuehlinger/dropzone/config"
)

// ErrInvalid is wrapped by every scenario validation failure.
var ErrInvalid = errors.New("scenario: invalid")

// DemoPage names the built-in demo page.
const DemoPage = "demo"

// Scenario is one scripted session.
type Scenario struct {
	Name string `yaml:"name"`
	// Page is a path relative to the scenario file, or DemoPage.
	Page string `yaml:"page"`
	// HTML is an inline page used when Page is empty.
	HTML     string    `yaml:"html"`
	Viewport []float64 `yaml:"viewport"`
	// Setup runs after the page's own scripts.
	Setup  string  `yaml:"setup"`
	Steps  []Step  `yaml:"steps"`
	Checks []Check `yaml:"checks"`

	dir string
}

// Step is one input action. Exactly one field is set.
type Step struct {
	Down  []float64        `yaml:"down"`
	Move  []float64        `yaml:"move"`
	Up    []float64        `yaml:"up"`
	Wheel []float64        `yaml:"wheel"`
	Wait  *config.Duration `yaml:"wait"`
	Key   string           `yaml:"key"`
	Blur  bool             `yaml:"blur"`
	Eval  string           `yaml:"eval"`
}

// Check is a script expression that must be truthy once the steps ran.
type Check struct {
	Name   string `yaml:"name"`
	Expect string `yaml:"expect"`
}

// Load reads and validates the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", path, err)
	}
	s.dir = filepath.Dir(path)
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate reports the first malformed field.
func (s *Scenario) Validate() error {
	if s.Page == "" && strings.TrimSpace(s.HTML) == "" {
		return fmt.Errorf("%w: one of page or html is required", ErrInvalid)
	}
	if n := len(s.Viewport); n != 0 && n != 2 {
		return fmt.Errorf("%w: viewport needs 2 numbers, got %d", ErrInvalid, n)
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("%w: step %d: %w", ErrInvalid, i+1, err)
		}
	}
	for i, c := range s.Checks {
		if strings.TrimSpace(c.Expect) == "" {
			return fmt.Errorf("%w: check %d has no expect", ErrInvalid, i+1)
		}
	}
	return nil
}

func (st Step) validate() error {
	set := 0
	for _, p := range [][]float64{st.Down, st.Move, st.Up} {
		if p == nil {
			continue
		}
		set++
		if len(p) != 2 {
			return fmt.Errorf("pointer steps need [x, y], got %v", p)
		}
	}
	if st.Wheel != nil {
		set++
		if len(st.Wheel) != 4 {
			return fmt.Errorf("wheel needs [x, y, dx, dy], got %v", st.Wheel)
		}
	}
	if st.Wait != nil {
		set++
		if *st.Wait < 0 {
			return fmt.Errorf("negative wait %v", st.Wait.Std())
		}
	}
	if st.Key != "" {
		set++
		if st.Key != "escape" {
			return fmt.Errorf("unknown key %q", st.Key)
		}
	}
	if st.Blur {
		set++
	}
	if st.Eval != "" {
		set++
	}
	if set != 1 {
		return fmt.Errorf("want exactly one action, got %d", set)
	}
	return nil
}
