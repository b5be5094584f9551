package computer

import (
	"github.com/rs/zerolog"

	"darkterminal/pkg/obs"
)

// ConsequenceEngine decides which failure fires after a denied login and hands it
// to the world
type ConsequenceEngine struct {
	rand   Rand
	sink   EffectSink
	logger zerolog.Logger
}

// NewConsequenceEngine creates an engine drawing from rnd and firing into sink
func NewConsequenceEngine(rnd Rand, sink EffectSink, logger zerolog.Logger) *ConsequenceEngine {
	return &ConsequenceEngine{
		rand:   rnd,
		sink:   sink,
		logger: logger.With().Str("component", "consequences").Logger(),
	}
}

// Apply fires a specific failure, bypassing selection
func (e *ConsequenceEngine) Apply(c *Computer, actor Actor, kind FailureKind) FailureKind {
	e.fire(c, actor, kind)
	return kind
}

// ApplyRandom fires one failure chosen uniformly from the terminal's list.
// It reports false, firing nothing, when the list is empty.
func (e *ConsequenceEngine) ApplyRandom(c *Computer, actor Actor) (FailureKind, bool) {
	if len(c.failures) == 0 {
		return 0, false
	}
	idx := int(e.rand.Float64() * float64(len(c.failures)))
	if idx >= len(c.failures) {
		idx = len(c.failures) - 1
	}
	if idx < 0 {
		idx = 0
	}
	kind := c.failures[idx].Kind
	e.fire(c, actor, kind)
	return kind, true
}

// ApplyFirst fires the first configured failure, for callers that need a
// deterministic choice. It reports false when the list is empty.
func (e *ConsequenceEngine) ApplyFirst(c *Computer, actor Actor) (FailureKind, bool) {
	if len(c.failures) == 0 {
		return 0, false
	}
	kind := c.failures[0].Kind
	e.fire(c, actor, kind)
	return kind, true
}

func (e *ConsequenceEngine) fire(c *Computer, actor Actor, kind FailureKind) {
	e.logger.Info().
		Str("terminal", c.Name).
		Str("failure", kind.String()).
		Msg("Firing terminal failure")
	obs.FailureFired(kind.String())
	if e.sink != nil {
		e.sink.ApplyFailure(kind, effectContext(c, actor))
	}
}
