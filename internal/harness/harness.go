package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/starweeb/internal/engine"
	"github.com/roach88/starweeb/internal/store"
	"github.com/roach88/starweeb/internal/testutil"
)

// StartMillis is the first timestamp handed out by the scenario clock.
const StartMillis int64 = 1_700_000_000_000

// Harness executes one scenario against a fresh engine.
type Harness struct {
	store   *store.Memory
	engine  *engine.Engine
	users   map[string]string // username -> user id
	records map[string]string // step ref -> record id
	logger  *slog.Logger
}

func newHarness() *Harness {
	mem := store.NewMemory()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Harness{
		store: mem,
		engine: engine.New(mem,
			engine.WithClock(testutil.NewStepClock(StartMillis, 1)),
			engine.WithIDs(testutil.NewSequenceGenerator("id")),
			engine.WithLogger(quiet),
		),
		users:   make(map[string]string),
		records: make(map[string]string),
		logger:  quiet,
	}
}

// Run executes a scenario and returns the result.
//
// A failed expectation or assertion marks the result as failed. Run itself
// returns an error only when a setup step fails or a step hits an error that
// is not an engine rule violation.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	h := newHarness()
	result := NewResult()

	for i, step := range scenario.Setup {
		ev, err := h.execute(ctx, step)
		if err != nil {
			return nil, fmt.Errorf("setup step %d (%s): %w", i, step.Op, err)
		}
		result.addTrace(ev)
		if ev.Outcome != OutcomeOK {
			return nil, fmt.Errorf("setup step %d (%s): unexpected outcome %s", i, step.Op, ev.Outcome)
		}
	}

	for i, step := range scenario.Flow {
		ev, err := h.execute(ctx, step)
		if err != nil {
			return nil, fmt.Errorf("flow step %d (%s): %w", i, step.Op, err)
		}
		result.addTrace(ev)
		if msg := checkExpect(step, ev); msg != "" {
			result.AddError(fmt.Sprintf("flow[%d] %s: %s", i, step.Op, msg))
		}
	}

	for _, msg := range h.evaluateAssertions(ctx, result.Trace, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// execute runs one step. Engine rule violations become the event outcome;
// anything else is returned as an error.
func (h *Harness) execute(ctx context.Context, step Step) (TraceEvent, error) {
	ev := TraceEvent{Op: step.Op, As: step.As, Args: step.Args, Outcome: OutcomeOK}

	fn, ok := ops[step.Op]
	if !ok {
		return ev, fmt.Errorf("unknown op %q", step.Op)
	}
	res, err := fn(ctx, h, step)
	if err != nil {
		code := engine.ErrorCode(err)
		if code == "" {
			return ev, err
		}
		ev.Outcome = string(code)
		return ev, nil
	}
	ev.Result = res

	h.logger.Debug("step executed", "op", step.Op, "as", step.As)
	return ev, nil
}

func checkExpect(step Step, ev TraceEvent) string {
	want := OutcomeOK
	if step.Expect != nil && step.Expect.Error != "" {
		want = step.Expect.Error
	}
	if ev.Outcome != want {
		return fmt.Sprintf("expected outcome %s, got %s", want, ev.Outcome)
	}
	if step.Expect == nil {
		return ""
	}
	for k, v := range step.Expect.Result {
		got, ok := ev.Result[k]
		if !ok {
			return fmt.Sprintf("result field %q missing", k)
		}
		if !sameValue(got, v) {
			return fmt.Sprintf("result field %q: expected %v, got %v", k, v, got)
		}
	}
	return ""
}

// sameValue compares scalars by their printed form, so YAML ints match
// JSON float64 and typed strings match plain ones.
func sameValue(a, b any) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func (h *Harness) session(username string) engine.Session {
	if username == "" {
		return engine.Session{}
	}
	return engine.Session{UserID: h.userID(username)}
}

// userID resolves a username registered by the scenario. Unknown names are
// passed through unchanged so scenarios can target missing users.
func (h *Harness) userID(username string) string {
	if id, ok := h.users[username]; ok {
		return id
	}
	return username
}

func (h *Harness) record(ref string) string {
	if id, ok := h.records[ref]; ok {
		return id
	}
	return ref
}
