package scenario

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/dropzone/config"
	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/events"
	"github.com/chrisuehlinger/dropzone/js"
	"github.com/chrisuehlinger/dropzone/page"
	"github.com/chrisuehlinger/dropzone/sched"
)

// frame is the simulated time between host ticks during a wait step.
const frame = 16 * time.Millisecond

// SuiteResult is the outcome of one scenario.
type SuiteResult struct {
	File   string
	Name   string
	Status string // OK or ERROR
	Tests  []TestResult
	// ScriptErrors lists errors the page's scripts raised.
	ScriptErrors []string
	Duration     time.Duration
	Error        string
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithConfig sets the engine defaults pages are opened with.
func WithConfig(cfg config.Config) Option {
	return func(r *Runner) { r.cfg = cfg }
}

// Runner replays scenarios on a simulated clock.
type Runner struct {
	Results []SuiteResult

	cfg config.Config
	log *zap.Logger
}

// NewRunner creates a runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Results: make([]SuiteResult, 0),
		cfg:     config.Default(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunFile loads and runs the scenario at path.
func (r *Runner) RunFile(path string) SuiteResult {
	s, err := Load(path)
	if err != nil {
		return SuiteResult{File: path, Status: "ERROR", Error: err.Error()}
	}
	res := r.Run(s)
	res.File = path
	return res
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

// Run replays s and evaluates its checks and the page's test() calls.
func (r *Runner) Run(s *Scenario) SuiteResult {
	start := time.Now()
	result := SuiteResult{Name: s.Name, Status: "OK"}
	log := r.log.With(zap.String("scenario", s.Name))

	clock := &fakeClock{t: time.Unix(0, 0)}
	var harness *Harness
	opts := []page.Option{
		page.WithLogger(log),
		page.WithConfig(r.cfg),
		page.WithLoop(sched.NewLoopWithClock(clock.now)),
		page.WithRuntimeSetup(func(rt *js.Runtime) {
			harness = NewHarness(rt)
			harness.Setup()
		}),
	}
	if len(s.Viewport) == 2 {
		opts = append(opts, page.WithViewport(s.Viewport[0], s.Viewport[1]))
	}
	if s.Setup != "" {
		opts = append(opts, page.WithScript("setup", s.Setup))
	}

	p, err := r.open(s, opts)
	if err != nil {
		result.Status = "ERROR"
		result.Error = err.Error()
		result.Duration = time.Since(start)
		return result
	}
	defer p.Close()

	for i, st := range s.Steps {
		if err := r.step(p, clock, st); err != nil {
			result.Status = "ERROR"
			result.Error = fmt.Sprintf("step %d: %v", i+1, err)
			harness.SkipPending(result.Error)
			break
		}
	}
	if result.Status == "OK" {
		harness.RunPending()
		for _, c := range s.Checks {
			harness.Check(c.Name, c.Expect)
		}
	}
	result.Tests = harness.Results()
	for _, err := range p.ScriptErrors() {
		result.ScriptErrors = append(result.ScriptErrors, err.Error())
	}

	passed, failed, skipped := harness.Summary()
	log.Info("scenario finished",
		zap.String("status", result.Status),
		zap.Int("passed", passed), zap.Int("failed", failed), zap.Int("skipped", skipped))
	result.Duration = time.Since(start)
	return result
}

func (r *Runner) open(s *Scenario, opts []page.Option) (*page.Page, error) {
	switch {
	case s.Page == DemoPage:
		return page.OpenDemo(opts...)
	case s.Page != "":
		return page.OpenFile(filepath.Join(s.dir, s.Page), opts...)
	default:
		return page.Open(s.Name, strings.NewReader(s.HTML), opts...)
	}
}

func (r *Runner) step(p *page.Page, clock *fakeClock, st Step) error {
	pointer := func(typ events.Type, at []float64) {
		p.Pointer(dom.NewPointerEvent(typ, at[0], at[1]))
	}
	switch {
	case st.Down != nil:
		pointer(dom.EventMouseDown, st.Down)
	case st.Move != nil:
		pointer(dom.EventMouseMove, st.Move)
	case st.Up != nil:
		pointer(dom.EventMouseUp, st.Up)
	case st.Wheel != nil:
		p.Wheel(st.Wheel[0], st.Wheel[1], st.Wheel[2], st.Wheel[3])
	case st.Wait != nil:
		end := clock.t.Add(st.Wait.Std())
		for clock.t.Before(end) {
			next := clock.t.Add(frame)
			if next.After(end) {
				next = end
			}
			clock.t = next
			p.Tick()
		}
		return nil
	case st.Key == "escape":
		p.CancelDrag()
	case st.Blur:
		p.Blur()
	case st.Eval != "":
		if _, err := p.Runtime.VM().RunString(st.Eval); err != nil {
			return err
		}
	}
	p.Tick()
	return nil
}

// Summary counts outcomes across every recorded result.
func (r *Runner) Summary() (passed, failed, skipped int) {
	for _, res := range r.Results {
		p, f, s := summarize(res.Tests)
		passed += p
		failed += f
		skipped += s
		if res.Status != "OK" && len(res.Tests) == 0 {
			failed++
		}
	}
	return
}

// JSONResult is the exported form of a SuiteResult.
type JSONResult struct {
	File         string        `json:"file,omitempty"`
	Name         string        `json:"name"`
	Status       string        `json:"status"`
	Message      string        `json:"message,omitempty"`
	Duration     int64         `json:"duration"`
	ScriptErrors []string      `json:"script_errors,omitempty"`
	Subtests     []JSONSubtest `json:"subtests"`
}

// JSONSubtest is the exported form of a TestResult.
type JSONSubtest struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ExportJSON renders every recorded result as indented JSON.
func (r *Runner) ExportJSON() ([]byte, error) {
	out := make([]JSONResult, 0, len(r.Results))
	for _, res := range r.Results {
		jr := JSONResult{
			File:         res.File,
			Name:         res.Name,
			Status:       res.Status,
			Message:      res.Error,
			Duration:     res.Duration.Milliseconds(),
			ScriptErrors: res.ScriptErrors,
			Subtests:     make([]JSONSubtest, 0, len(res.Tests)),
		}
		for _, t := range res.Tests {
			jr.Subtests = append(jr.Subtests, JSONSubtest{
				Name:    t.Name,
				Status:  t.Status.String(),
				Message: t.Message,
			})
		}
		out = append(out, jr)
	}
	return json.MarshalIndent(out, "", "  ")
}
