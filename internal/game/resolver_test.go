package game

import (
	"testing"
	"time"

	"github.com/vovakirdan/bombmaster/internal/config"
	"github.com/vovakirdan/bombmaster/internal/core"
	"github.com/vovakirdan/bombmaster/internal/encoder"
	"github.com/vovakirdan/bombmaster/internal/motion"
)

const (
	armed = 2 * time.Second
	limit = 10 * time.Second
)

func newTestResolver() *Resolver {
	return NewResolver(config.Default().Scoring, time.Second)
}

func edge(d encoder.Direction) Inputs {
	return Inputs{Edge: encoder.Edge{Direction: d}, HasEdge: true}
}

func TestResolverTwoEdgesSucceed(t *testing.T) {
	r := newTestResolver()
	r.Begin(core.TargetRight, false)

	out := r.Evaluate(edge(encoder.Right), armed, armed, limit)
	if out.Kind != OutcomePending {
		t.Fatalf("Expected pending after one edge, got %v", out.Kind)
	}
	if r.Progress() != 0.5 {
		t.Errorf("Expected progress 0.5, got %v", r.Progress())
	}

	out = r.Evaluate(edge(encoder.Right), armed, armed, limit)
	if out.Kind != OutcomeSuccess {
		t.Fatalf("Expected success after two edges, got %v", out.Kind)
	}
	if out.ScoreDelta != 10 {
		t.Errorf("Expected score delta 10, got %d", out.ScoreDelta)
	}
}

func TestResolverIgnoresWrongDirection(t *testing.T) {
	r := newTestResolver()
	r.Begin(core.TargetLeft, false)

	for i := 0; i < 5; i++ {
		if out := r.Evaluate(edge(encoder.Right), armed, armed, limit); out.Kind != OutcomePending {
			t.Fatalf("Wrong-direction edge %d resolved to %v", i, out.Kind)
		}
	}
	if r.Progress() != 0 {
		t.Errorf("Expected no progress, got %v", r.Progress())
	}
	r.Evaluate(edge(encoder.Left), armed, armed, limit)
	if out := r.Evaluate(edge(encoder.Left), armed, armed, limit); out.Kind != OutcomeSuccess {
		t.Errorf("Expected success after two matching edges, got %v", out.Kind)
	}
}

func TestResolverReactionDelayDiscardsInput(t *testing.T) {
	r := newTestResolver()
	r.Begin(core.TargetLeft, false)

	for i := 0; i < 4; i++ {
		r.Evaluate(edge(encoder.Left), 500*time.Millisecond, armed, limit)
	}
	if r.Progress() != 0 {
		t.Errorf("Edges during the reaction delay counted: progress %v", r.Progress())
	}
	if out := r.Evaluate(edge(encoder.Left), time.Second, armed, limit); out.Kind != OutcomePending {
		t.Errorf("Expected pending after first armed edge, got %v", out.Kind)
	}
}

func TestResolverDeadlineFirst(t *testing.T) {
	r := newTestResolver()
	r.Begin(core.TargetRight, false)
	r.Evaluate(edge(encoder.Right), armed, armed, limit)

	// A completing edge on the deadline tick still times out.
	out := r.Evaluate(edge(encoder.Right), armed, limit, limit)
	if out.Kind != OutcomeTimeout {
		t.Errorf("Expected timeout, got %v", out.Kind)
	}

	// Timeout is reported during the reaction delay too.
	r.Begin(core.TargetPress, false)
	if out := r.Evaluate(Inputs{}, 0, limit+time.Millisecond, limit); out.Kind != OutcomeTimeout {
		t.Errorf("Expected timeout during reaction delay, got %v", out.Kind)
	}
}

func TestResolverPressTransition(t *testing.T) {
	r := newTestResolver()
	r.Begin(core.TargetPress, false)

	// Pressed during the reaction delay and still held afterwards.
	r.Evaluate(Inputs{Pressed: true}, 500*time.Millisecond, armed, limit)
	if out := r.Evaluate(Inputs{Pressed: true}, armed, armed, limit); out.Kind != OutcomePending {
		t.Errorf("Press held over from the reaction delay counted: %v", out.Kind)
	}

	r.Evaluate(Inputs{Pressed: false}, armed, armed, limit)
	if out := r.Evaluate(Inputs{Pressed: true}, armed, armed, limit); out.Kind != OutcomeSuccess {
		t.Errorf("Expected success on press, got %v", out.Kind)
	}
}

func TestResolverPressHeldAtBegin(t *testing.T) {
	r := newTestResolver()
	r.Begin(core.TargetPress, true)
	if out := r.Evaluate(Inputs{Pressed: true}, armed, armed, limit); out.Kind != OutcomePending {
		t.Errorf("Button held at move start counted: %v", out.Kind)
	}
}

func TestResolverShake(t *testing.T) {
	r := newTestResolver()
	r.Begin(core.TargetShake, false)

	out := r.Evaluate(Inputs{Shake: motion.ShakeStarted, ShakeProgress: 0}, armed, armed, limit)
	if out.Kind != OutcomePending {
		t.Fatalf("Expected pending on trigger, got %v", out.Kind)
	}
	r.Evaluate(Inputs{ShakeProgress: 0.4}, armed, armed, limit)
	if r.Progress() != 0.4 {
		t.Errorf("Expected progress 0.4, got %v", r.Progress())
	}
	if out := r.Evaluate(Inputs{Shake: motion.ShakeConfirmed, ShakeProgress: 0}, armed, armed, limit); out.Kind != OutcomeSuccess {
		t.Errorf("Expected success on confirmation, got %v", out.Kind)
	}
	if r.Progress() != 1 {
		t.Errorf("Expected progress 1 after success, got %v", r.Progress())
	}
}
