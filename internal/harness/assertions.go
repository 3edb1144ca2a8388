package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/starweeb/internal/audit"
	"github.com/roach88/starweeb/internal/model"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s as=%q %v -> %s\n", ev.Seq, ev.Op, ev.As, ev.Args, ev.Outcome)
		}
	}
	return buf.String()
}

// evaluateAssertions runs every assertion and returns failure messages.
func (h *Harness) evaluateAssertions(ctx context.Context, trace []TraceEvent, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceCount:
			err = assertTraceCount(trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(trace, a)
		case AssertMatchCount:
			err = h.assertMatchCount(ctx, a)
		case AssertNotificationCount:
			err = h.assertNotificationCount(ctx, a)
		case AssertUserField:
			err = h.assertUserField(ctx, a)
		case AssertCollectionCount:
			err = h.assertCollectionCount(ctx, a)
		case AssertAuditClean:
			err = h.assertAuditClean(ctx)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range trace {
		if ev.Op == a.Op && (a.Outcome == "" || ev.Outcome == a.Outcome) {
			count++
		}
	}
	if count != a.Count {
		what := a.Op
		if a.Outcome != "" {
			what += " with outcome " + a.Outcome
		}
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, what),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertTraceOrder checks the first occurrence of each op. Other steps may
// run in between.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	positions := make(map[string]int)
	for _, ev := range trace {
		if _, seen := positions[ev.Op]; !seen {
			positions[ev.Op] = ev.Seq
		}
	}

	for _, op := range a.Ops {
		if _, ok := positions[op]; !ok {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all ops present: %v", a.Ops),
				Actual:   fmt.Sprintf("missing op: %s", op),
				Trace:    trace,
			}
		}
	}
	for i := 1; i < len(a.Ops); i++ {
		prev, curr := a.Ops[i-1], a.Ops[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("ops in order: %v", a.Ops),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

func (h *Harness) assertMatchCount(ctx context.Context, a Assertion) error {
	matches, err := h.engine.Repositories().Matches.List(ctx)
	if err != nil {
		return err
	}
	count := len(matches)
	what := "matches"
	if len(a.Users) == 2 {
		pair := model.CanonicalPair(h.userID(a.Users[0]), h.userID(a.Users[1]))
		count = 0
		for _, m := range matches {
			if m.UserIDs == pair {
				count++
			}
		}
		what = fmt.Sprintf("matches between %s and %s", a.Users[0], a.Users[1])
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertMatchCount,
			Expected: fmt.Sprintf("%d %s", a.Count, what),
			Actual:   fmt.Sprintf("%d", count),
		}
	}
	return nil
}

func (h *Harness) assertNotificationCount(ctx context.Context, a Assertion) error {
	notes, err := h.engine.NotificationsFor(ctx, h.userID(a.User))
	if err != nil {
		return err
	}
	count := 0
	for _, n := range notes {
		if a.NotificationType == "" || string(n.Type) == a.NotificationType {
			count++
		}
	}
	if count != a.Count {
		what := "notifications"
		if a.NotificationType != "" {
			what = a.NotificationType + " notifications"
		}
		return &AssertionError{
			Type:     AssertNotificationCount,
			Expected: fmt.Sprintf("%d %s for %s", a.Count, what, a.User),
			Actual:   fmt.Sprintf("%d", count),
		}
	}
	return nil
}

func (h *Harness) assertUserField(ctx context.Context, a Assertion) error {
	u, ok, err := h.engine.User(ctx, h.userID(a.User))
	if err != nil {
		return err
	}
	if !ok {
		return &AssertionError{Type: AssertUserField, Expected: "user " + a.User, Actual: "not found"}
	}

	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}

	got, present := fields[a.Field]
	if !present {
		got = ""
	}
	want := a.Equals
	if want == nil {
		want = ""
	}
	if !sameValue(got, want) {
		return &AssertionError{
			Type:     AssertUserField,
			Expected: fmt.Sprintf("%s.%s = %v", a.User, a.Field, want),
			Actual:   fmt.Sprintf("%v", got),
		}
	}
	return nil
}

func (h *Harness) assertCollectionCount(ctx context.Context, a Assertion) error {
	key := "starweeb_" + a.Collection
	raw, ok, err := h.store.Get(ctx, key)
	if err != nil {
		return err
	}
	count := 0
	if ok {
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		count = len(items)
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertCollectionCount,
			Expected: fmt.Sprintf("%d records in %s", a.Count, a.Collection),
			Actual:   fmt.Sprintf("%d", count),
		}
	}
	return nil
}

func (h *Harness) assertAuditClean(ctx context.Context) error {
	rep, err := audit.Check(ctx, h.store)
	if err != nil {
		return err
	}
	if !rep.OK() {
		return &AssertionError{
			Type:     AssertAuditClean,
			Expected: "no audit errors",
			Actual:   fmt.Sprintf("codes %v", rep.Codes()),
		}
	}
	return nil
}
