package catalog

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darkterminal/pkg/game/computer"
)

func TestLoadFromFile(t *testing.T) {
	cat, err := LoadFromFile("testdata/terminals.yaml")
	require.NoError(t, err)

	assert.Equal(t, 45*time.Minute, cat.Settings.Cooldown)
	assert.Equal(t, computer.SkillComputer, cat.Settings.SkillName())
	assert.Len(t, cat.Settings.AccessOptions(), 3)
	assert.Equal(t, []string{"Jon's Computer", "Lab Terminal", "Missile Silo"}, cat.Names())

	computers, err := cat.BuildAll(zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, computers, 3)

	lab := computers[1]
	assert.Equal(t, 3, lab.Security())
	assert.Equal(t, "WARNING: unauthorised access. Secubots will be dispatched.", lab.AccessDeniedMessage())
	id, ok := lab.MissionLink()
	assert.True(t, ok)
	assert.Equal(t, 12, id)

	opt, err := lab.SelectOption("Open Doors")
	require.NoError(t, err)
	assert.Equal(t, computer.UseBaseSecurity, opt.Security)
	assert.Equal(t, 3, lab.RequiredSecurity(opt))

	opt, err = lab.SelectOption("Reset Lockout")
	require.NoError(t, err)
	assert.Equal(t, computer.ActionResetLockout, opt.Action)
	assert.Equal(t, 0, opt.Security)

	assert.Equal(t, []computer.Failure{
		{Kind: computer.FailureAlarm},
		{Kind: computer.FailureSecubots},
		{Kind: computer.FailureGarbled},
	}, lab.Failures())

	_, ok = computers[0].MissionLink()
	assert.False(t, ok)
}

func TestLoadFromBytes_Empty(t *testing.T) {
	cat, err := LoadFromBytes(nil)
	require.NoError(t, err)
	assert.Empty(t, cat.Terminals)
	assert.Empty(t, cat.Settings.AccessOptions())
}

func TestLoadFromBytes_Rejects(t *testing.T) {
	tests := map[string]struct {
		yaml string
		err  error
	}{
		"bad yaml":          {"terminals: [", ErrInvalidCatalog},
		"unknown key":       {"terminals:\n  - name: A\n    colour: red\n", ErrInvalidCatalog},
		"missing name":      {"terminals:\n  - security: 1\n", ErrInvalidCatalog},
		"negative security": {"terminals:\n  - name: A\n    security: -1\n", ErrInvalidCatalog},
		"bad option level":  {"terminals:\n  - name: A\n    options:\n      - {name: O, action: open, security: -2}\n", ErrInvalidCatalog},
		"low policy base":   {"settings:\n  policy_base: 0.5\n", ErrInvalidCatalog},
		"bad cooldown":      {"settings:\n  cooldown: soon\n", ErrInvalidCatalog},
		"duplicate":         {"terminals:\n  - name: A\n  - name: A\n", ErrDuplicateTerminal},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cat, err := LoadFromBytes([]byte(tt.yaml))
			assert.Nil(t, cat)
			assert.True(t, errors.Is(err, tt.err), "got %v", err)
		})
	}
}

func TestBuild_UnknownTokens(t *testing.T) {
	cat, err := LoadFromBytes([]byte("terminals:\n  - name: A\n    options:\n      - {name: O, action: teleport}\n"))
	require.NoError(t, err)
	_, err = cat.BuildAll(zerolog.Nop())
	assert.True(t, errors.Is(err, computer.ErrUnknownAction), "got %v", err)

	cat, err = LoadFromBytes([]byte("terminals:\n  - name: A\n    failures: [explode]\n"))
	require.NoError(t, err)
	_, err = cat.BuildAll(zerolog.Nop())
	assert.True(t, errors.Is(err, computer.ErrUnknownFailure), "got %v", err)
}

func TestBuild_DuplicateOptionNamesAllowed(t *testing.T) {
	cat, err := LoadFromBytes([]byte("terminals:\n  - name: A\n    options:\n      - {name: O, action: open}\n      - {name: O, action: lock}\n"))
	require.NoError(t, err)

	c, err := cat.Terminals[0].Build(zerolog.Nop())
	require.NoError(t, err)

	opt, err := c.SelectOption("O")
	require.NoError(t, err)
	assert.Equal(t, computer.ActionOpen, opt.Action)
}

func TestFind(t *testing.T) {
	cat, err := LoadFromFile("testdata/terminals.yaml")
	require.NoError(t, err)

	term, err := cat.Find("Missile Silo")
	require.NoError(t, err)
	assert.Equal(t, 6, term.Security)

	_, err = cat.Find("Nope")
	assert.True(t, errors.Is(err, ErrTerminalNotFound))
}
