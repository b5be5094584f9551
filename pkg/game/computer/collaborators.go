package computer

import "darkterminal/pkg/engine/world"

// SkillComputer is the actor skill consulted for hacking
const SkillComputer = "computer"

// Clock supplies the current world time
type Clock interface {
	Now() world.Time
}

// Rand supplies uniform values in [0, 1). *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Actor is whoever is using the terminal
type Actor interface {
	SkillLevel(skill string) int
}

// Practicer is implemented by actors that learn from hacking attempts
type Practicer interface {
	Practice(skill string, amount int)
}

// Choice is the result of waiting for a menu selection
type Choice struct {
	Quit bool
	Name string // Option name when Quit is false
}

// Console is the rendering and input layer a session talks to. Calls block until
// the player responds and never touch terminal state.
type Console interface {
	// Reset blanks the screen at the start of a menu pass
	Reset()
	// Print writes a normal line
	Print(line string)
	// PrintError writes an error line
	PrintError(line string)
	// PrintGibberish writes a line of code-looking noise
	PrintGibberish()
	// RenderMenu draws the header and the numbered option list
	RenderMenu(header string, options []Option)
	// AwaitChoice blocks for a selection or quit
	AwaitChoice() Choice
	// AwaitYesNo blocks for a yes/no answer
	AwaitYesNo(prompt string) bool
	// AwaitAny blocks until any key
	AwaitAny(prompt string)
	// Shutdown releases display buffers at the end of a session
	Shutdown()
}

// EffectContext tells the world which terminal produced an effect
type EffectContext struct {
	Terminal    string
	MissionLink int
	HasMission  bool
	Actor       Actor
}

// EffectSink performs the game-world side of actions and failures. Calls are
// fire-and-forget; the sink handles its own errors.
type EffectSink interface {
	ApplyAction(action ActionKind, ctx EffectContext)
	ApplyFailure(kind FailureKind, ctx EffectContext)
}

func effectContext(c *Computer, actor Actor) EffectContext {
	id, ok := c.MissionLink()
	return EffectContext{
		Terminal:    c.Name,
		MissionLink: id,
		HasMission:  ok,
		Actor:       actor,
	}
}
