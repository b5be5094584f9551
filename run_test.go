package main

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darkterminal/pkg/engine/world"
	"darkterminal/pkg/game/catalog"
	"darkterminal/pkg/game/computer"
	"darkterminal/pkg/game/renderer"
	"darkterminal/pkg/game/renderer/tui"
	"darkterminal/pkg/game/state"
)

// highRoll fails every hack and picks the last configured failure.
type highRoll struct{}

func (highRoll) Float64() float64 { return 0.99 }

func newTestLoop(t *testing.T, terminalName, in string, rnd computer.Rand) (*sessionLoop, *computer.Computer, *bytes.Buffer) {
	t.Helper()
	cat, err := catalog.LoadFromFile("terminals.yaml")
	require.NoError(t, err)
	def, err := cat.Find(terminalName)
	require.NoError(t, err)
	c, err := def.Build(zerolog.Nop())
	require.NoError(t, err)

	out := &bytes.Buffer{}
	console := tui.New(strings.NewReader(in), out, tui.Options{Width: 80, Palette: renderer.PlainPalette()})
	game := state.NewGame(state.NewPlayer("Player", nil), world.Time(1000))

	loop, err := newSessionLoop(cat.Settings, game, rnd, console)
	require.NoError(t, err)
	loop.elapsed = func() time.Duration { return 90 * time.Second }
	return loop, c, out
}

func TestSessionLoop_ReportsMessagesAndAdvancesClock(t *testing.T) {
	loop, c, out := newTestLoop(t, "Jon's Computer", "1\nq\ny\nq\nn\n", rand.New(rand.NewSource(1)))

	require.NoError(t, loop.run(c))

	assert.Equal(t, 1, strings.Count(out.String(), "[Jon's Computer] Emergency message displayed."))
	assert.Empty(t, loop.game.Messages)
	assert.Equal(t, world.Time(1090), loop.game.Clock.Now(), "clock advanced once, between the two sessions")
	assert.Equal(t, 2, strings.Count(out.String(), "Use the terminal again? (y/n)"))
}

func TestSessionLoop_FailedLoginStaysLockedOut(t *testing.T) {
	// Bypass, garbled failure, then the second visit hits the lockout.
	loop, c, out := newTestLoop(t, "Lab Terminal", "y\n\ny\ny\n\nn\n", highRoll{})

	require.NoError(t, loop.run(c))

	assert.Contains(t, out.String(), "[Lab Terminal] Display corrupted. Resynchronising...")
	assert.Contains(t, out.String(), "Access is temporarily blocked for security purposes.")
	assert.NotContains(t, out.String(), "- Reset Lockout", "a failed login never shows the menu")
	assert.True(t, c.LockedOut(loop.game.Clock.Now()))
	assert.Equal(t, world.Time(1000).Add(45*time.Minute), c.NextAttempt())
}
