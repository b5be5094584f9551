package computer

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_SuccessfulHackGrantsClearance(t *testing.T) {
	r := newRig(t, 0.1)
	c := newComputer(t, "Lab Terminal", 3)
	require.NoError(t, c.AddOption(Option{Name: "Open Doors", Action: ActionOpen, Security: 2}))
	require.NoError(t, c.AddOption(Option{Name: "Read Notes", Action: ActionResearch, Security: UseBaseSecurity}))
	r.console.answers = []bool{true}
	r.console.choices = []Choice{pick("Open Doors"), pick("Read Notes")}

	s, err := r.ctl.Begin(c, &skilledActor{skill: 5})
	require.NoError(t, err)

	require.True(t, s.Step())
	assert.Equal(t, StateAuthenticating, s.State())
	require.True(t, s.Step())
	assert.Equal(t, StatePresenting, s.State())
	assert.Equal(t, 3, s.Clearance())

	for s.Step() {
	}

	assert.Equal(t, StateTerminated, s.State())
	assert.Equal(t, []ActionKind{ActionOpen, ActionResearch}, r.sink.actions)
	assert.Equal(t, 1, r.rand.draws, "options within clearance need no further rolls")
	assert.Equal(t, 1, r.console.shutdowns)
	assert.Contains(t, r.console.printed, "Login successful.")
}

func TestSession_FailedHackLocksOutNextUse(t *testing.T) {
	r := newRig(t, 0.9, 0.0)
	c := newComputer(t, "Vault", 5)
	require.NoError(t, c.AddFailure(FailureAlarm))
	actor := &skilledActor{skill: 1}
	start := r.clock.Now()

	r.console.answers = []bool{true}
	require.NoError(t, r.ctl.Use(c, actor))

	assert.Equal(t, start.Add(DefaultCooldown), c.NextAttempt())
	assert.Equal(t, []FailureKind{FailureAlarm}, r.sink.failures)
	assert.Contains(t, r.console.errors, FailureTypes[FailureAlarm].Message)
	assert.Empty(t, r.console.menus, "failed login ends the session before the menu")

	r.clock.Advance(time.Second)
	r.console.answers = []bool{true}
	require.NoError(t, r.ctl.Use(c, actor))

	assert.Equal(t, 2, r.rand.draws, "lockout must not roll")
	assert.Equal(t, start.Add(DefaultCooldown), c.NextAttempt())
	assert.Len(t, r.sink.failures, 1)
	assert.Contains(t, r.console.errors, "Access is temporarily blocked for security purposes.")
	assert.Equal(t, 2, r.console.shutdowns)
}

func TestSession_DeclineBypassTerminates(t *testing.T) {
	r := newRig(t)
	c := newComputer(t, "Vault", 2)

	require.NoError(t, r.ctl.Use(c, &skilledActor{}))

	assert.Equal(t, []string{"Bypass security?"}, r.console.prompts)
	assert.Contains(t, r.console.errors, DefaultAccessDeniedMessage)
	assert.Empty(t, r.console.menus)
	assert.Equal(t, 1, r.console.shutdowns)
}

func TestSession_DeniedWithoutFailuresShowsAccessDenied(t *testing.T) {
	r := newRig(t, 0.99)
	c := newComputer(t, "Vault", 2)
	c.SetAccessDeniedMessage("Secubots are on their way.")
	r.console.answers = []bool{true}

	require.NoError(t, r.ctl.Use(c, &skilledActor{}))

	assert.Equal(t, []string{"Secubots are on their way.", "Secubots are on their way."}, r.console.errors)
	assert.Empty(t, r.sink.failures)
	assert.True(t, c.LockedOut(r.clock.Now()))
}

func TestSession_QuitAtMenu(t *testing.T) {
	r := newRig(t)
	c := newComputer(t, "Jon's Computer", 0)
	require.NoError(t, c.AddOption(Option{Name: "Open Doors", Action: ActionOpen}))

	require.NoError(t, r.ctl.Use(c, &skilledActor{}))

	assert.Len(t, r.console.menus, 1)
	assert.Empty(t, r.console.prompts, "security 0 has no login gate")
	assert.Empty(t, r.sink.actions)
	assert.Equal(t, 1, r.console.shutdowns)
}

func TestSession_InvalidSelectionRepresentsMenu(t *testing.T) {
	r := newRig(t)
	c := newComputer(t, "Jon's Computer", 0)
	require.NoError(t, c.AddOption(Option{Name: "Open Doors", Action: ActionOpen}))
	r.console.choices = []Choice{pick("Self Destruct"), pick("Open Doors")}

	require.NoError(t, r.ctl.Use(c, &skilledActor{}))

	assert.Contains(t, r.console.errors, "Invalid selection.")
	assert.Len(t, r.console.menus, 3)
	assert.Equal(t, []ActionKind{ActionOpen}, r.sink.actions)
}

func TestSession_GatedOptionHackAndOneShot(t *testing.T) {
	r := newRig(t, 0.2)
	c := newComputer(t, "Silo Control", 0)
	require.NoError(t, c.AddOption(Option{Name: "Launch Missile", Action: ActionMissileLaunch, Security: 4}))
	require.NoError(t, c.AddOption(Option{Name: "Open Doors", Action: ActionOpen}))
	r.console.choices = []Choice{pick("Launch Missile")}
	r.console.answers = []bool{true}

	require.NoError(t, r.ctl.Use(c, &skilledActor{skill: 6}))

	assert.Equal(t, []string{"Hack into system?"}, r.console.prompts)
	assert.Equal(t, []ActionKind{ActionMissileLaunch}, r.sink.actions)
	_, err := c.SelectOption("Launch Missile")
	assert.True(t, errors.Is(err, ErrOptionNotFound), "one-shot option is consumed")
	assert.Len(t, c.Options(), 1)
	assert.Len(t, r.console.menus, 1, "launch ends the session")
}

func TestSession_DeclineOptionHackReturnsToMenu(t *testing.T) {
	r := newRig(t)
	c := newComputer(t, "Lab", 0)
	require.NoError(t, c.AddOption(Option{Name: "Release Mutagen", Action: ActionReleaseMutagen, Security: 3}))
	r.console.choices = []Choice{pick("Release Mutagen")}
	r.console.answers = []bool{false}

	require.NoError(t, r.ctl.Use(c, &skilledActor{}))

	assert.Empty(t, r.sink.actions)
	assert.Len(t, r.console.menus, 2)
	assert.Contains(t, r.console.errors, "Password required.")
}

func TestSession_NonTerminatingFailureReturnsToMenu(t *testing.T) {
	r := newRig(t, 0.99, 0.0)
	c := newComputer(t, "Lab", 0)
	require.NoError(t, c.AddOption(Option{Name: "Release Mutagen", Action: ActionReleaseMutagen, Security: 3}))
	require.NoError(t, c.AddOption(Option{Name: "Open Doors", Action: ActionOpen}))
	require.NoError(t, c.AddFailure(FailureGarbled))
	r.console.choices = []Choice{pick("Release Mutagen"), pick("Open Doors")}
	r.console.answers = []bool{true}

	require.NoError(t, r.ctl.Use(c, &skilledActor{}))

	assert.Equal(t, []FailureKind{FailureGarbled}, r.sink.failures)
	assert.Equal(t, 3, r.console.gibberish)
	assert.Equal(t, []ActionKind{ActionOpen}, r.sink.actions, "session continued after garbled failure")
	assert.True(t, c.LockedOut(r.clock.Now()))
}

func TestSession_GarbledAtLoginGateEndsSession(t *testing.T) {
	r := newRig(t, 0.99, 0.0)
	c := newComputer(t, "Lab Terminal", 3)
	require.NoError(t, c.AddOption(Option{Name: "Reset Lockout", Action: ActionResetLockout, Security: 0}))
	require.NoError(t, c.AddFailure(FailureGarbled))
	r.console.answers = []bool{true}
	r.console.choices = []Choice{pick("Reset Lockout")}

	require.NoError(t, r.ctl.Use(c, &skilledActor{}))

	assert.Empty(t, r.console.menus, "a failed login never shows the menu")
	assert.Empty(t, r.sink.actions)
	assert.Equal(t, []FailureKind{FailureGarbled}, r.sink.failures)
	assert.Equal(t, 3, r.console.gibberish)
	assert.Contains(t, r.console.errors, FailureGarbled.Info().Message)
	assert.True(t, c.LockedOut(r.clock.Now()), "lockout survives the failed login")
	assert.Equal(t, 1, r.console.shutdowns)
}

func TestSession_EndingActionTerminates(t *testing.T) {
	r := newRig(t)
	c := newComputer(t, "Lab", 0)
	require.NoError(t, c.AddOption(Option{Name: "Shut Down", Action: ActionShutdown}))
	require.NoError(t, c.AddOption(Option{Name: "Open Doors", Action: ActionOpen}))
	r.console.choices = []Choice{pick("Shut Down"), pick("Open Doors")}

	require.NoError(t, r.ctl.Use(c, &skilledActor{}))

	assert.Equal(t, []ActionKind{ActionShutdown}, r.sink.actions)
	assert.Len(t, c.Options(), 2, "shutdown is not one-shot")
}

func TestSession_OneSessionPerTerminal(t *testing.T) {
	r := newRig(t)
	c := newComputer(t, "Lab", 0)

	s, err := r.ctl.Begin(c, &skilledActor{})
	require.NoError(t, err)

	err = r.ctl.Use(c, &skilledActor{})
	assert.True(t, errors.Is(err, ErrSessionActive))

	for s.Step() {
	}
	assert.False(t, s.Step(), "terminated sessions stay terminated")
	assert.NoError(t, r.ctl.Use(c, &skilledActor{}))
}

func TestNewController_RequiresCollaborators(t *testing.T) {
	r := newRig(t)
	d, err := NewDispatcher(DefaultHandlers(nil))
	require.NoError(t, err)

	_, err = NewController(nil, d, r.console, zerolog.Nop())
	assert.True(t, errors.Is(err, ErrMissingDependency))
	_, err = NewController(r.access, nil, r.console, zerolog.Nop())
	assert.True(t, errors.Is(err, ErrMissingDependency))
	_, err = NewController(r.access, d, nil, zerolog.Nop())
	assert.True(t, errors.Is(err, ErrMissingDependency))
}
