package computer

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"darkterminal/pkg/engine/world"
)

// seqRand returns its values in order and fails the test on an unexpected draw.
type seqRand struct {
	t      *testing.T
	values []float64
	draws  int
}

func newSeqRand(t *testing.T, values ...float64) *seqRand {
	t.Helper()
	return &seqRand{t: t, values: values}
}

func (r *seqRand) Float64() float64 {
	if len(r.values) == 0 {
		r.t.Fatalf("unexpected random draw #%d", r.draws+1)
		return 0
	}
	v := r.values[0]
	r.values = r.values[1:]
	r.draws++
	return v
}

type skilledActor struct {
	skill     int
	practiced int
}

func (a *skilledActor) SkillLevel(skill string) int {
	if skill == SkillComputer {
		return a.skill
	}
	return 0
}

func (a *skilledActor) Practice(skill string, amount int) {
	a.practiced += amount
}

type recordingSink struct {
	actions  []ActionKind
	failures []FailureKind
	contexts []EffectContext
}

func (s *recordingSink) ApplyAction(action ActionKind, ctx EffectContext) {
	s.actions = append(s.actions, action)
	s.contexts = append(s.contexts, ctx)
}

func (s *recordingSink) ApplyFailure(kind FailureKind, ctx EffectContext) {
	s.failures = append(s.failures, kind)
	s.contexts = append(s.contexts, ctx)
}

// scriptedConsole replays choices and yes/no answers. Once a script runs dry it
// quits and answers no.
type scriptedConsole struct {
	choices []Choice
	answers []bool

	printed   []string
	errors    []string
	prompts   []string
	menus     [][]Option
	gibberish int
	shutdowns int
}

func (c *scriptedConsole) Reset()                 {}
func (c *scriptedConsole) Print(line string)      { c.printed = append(c.printed, line) }
func (c *scriptedConsole) PrintError(line string) { c.errors = append(c.errors, line) }
func (c *scriptedConsole) PrintGibberish()        { c.gibberish++ }
func (c *scriptedConsole) AwaitAny(prompt string) {}
func (c *scriptedConsole) Shutdown()              { c.shutdowns++ }

func (c *scriptedConsole) RenderMenu(header string, options []Option) {
	c.menus = append(c.menus, options)
}

func (c *scriptedConsole) AwaitChoice() Choice {
	if len(c.choices) == 0 {
		return Choice{Quit: true}
	}
	ch := c.choices[0]
	c.choices = c.choices[1:]
	return ch
}

func (c *scriptedConsole) AwaitYesNo(prompt string) bool {
	c.prompts = append(c.prompts, prompt)
	if len(c.answers) == 0 {
		return false
	}
	a := c.answers[0]
	c.answers = c.answers[1:]
	return a
}

func pick(name string) Choice {
	return Choice{Name: name}
}

// rig bundles a controller with its fakes.
type rig struct {
	clock   *world.Clock
	rand    *seqRand
	sink    *recordingSink
	console *scriptedConsole
	access  *AccessControl
	ctl     *Controller
}

func newRig(t *testing.T, values ...float64) *rig {
	t.Helper()
	r := &rig{
		clock:   world.NewClock(1000),
		rand:    newSeqRand(t, values...),
		sink:    &recordingSink{},
		console: &scriptedConsole{},
	}
	engine := NewConsequenceEngine(r.rand, r.sink, zerolog.Nop())
	r.access = NewAccessControl(r.clock, r.rand, engine)
	dispatcher, err := NewDispatcher(DefaultHandlers(r.sink))
	require.NoError(t, err)
	r.ctl, err = NewController(r.access, dispatcher, r.console, zerolog.Nop())
	require.NoError(t, err)
	return r
}

func newComputer(t *testing.T, name string, security int) *Computer {
	t.Helper()
	c, err := New(name, security)
	require.NoError(t, err)
	return c
}
