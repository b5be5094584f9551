// Package effects applies terminal actions and failures to the game world.
package effects

import (
	"fmt"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog"

	"darkterminal/pkg/game/computer"
	"darkterminal/pkg/game/state"
)

// flagEffect describes how an action changes the world flags
type flagEffect struct {
	Set     string
	Clear   string
	Toggle  string
	Mission bool // Advances the terminal's linked mission
}

// translate avoids go vet's non-constant format string check on catalog messages
var translate = gotext.Get

var actionEffects = map[computer.ActionKind]flagEffect{
	computer.ActionOpen:             {Set: "doors_open", Clear: "doors_locked"},
	computer.ActionLock:             {Set: "doors_locked", Clear: "doors_open"},
	computer.ActionUnlock:           {Clear: "doors_locked"},
	computer.ActionToll:             {Set: "bells_ringing"},
	computer.ActionSample:           {Set: "blood_sample"},
	computer.ActionReleaseMutagen:   {Set: "mutagen_released"},
	computer.ActionTerminate:        {Set: "specimens_terminated"},
	computer.ActionPortal:           {Toggle: "portal"},
	computer.ActionCascade:          {Set: "cascade"},
	computer.ActionResearch:         {Mission: true},
	computer.ActionMaps:             {Set: "has_maps"},
	computer.ActionMissileLaunch:    {Set: "missile_launched"},
	computer.ActionMissileDisarm:    {Set: "missile_disarmed", Mission: true},
	computer.ActionElevatorOn:       {Set: "elevator_on"},
	computer.ActionDownloadSoftware: {Set: "software", Mission: true},
	computer.ActionBloodAnalysis:    {Mission: true},
	computer.ActionDataAnalysis:     {Mission: true},
	computer.ActionShutters:         {Toggle: "shutters"},
	computer.ActionIrradiator:       {Set: "irradiated"},
}

// hostilesPerFailure is how many hostiles a failure brings
var hostilesPerFailure = map[computer.FailureKind]int{
	computer.FailureManhacks: 3,
	computer.FailureSecubots: 1,
}

var failureFlags = map[computer.FailureKind]string{
	computer.FailurePumpExplode: "pump_exploded",
	computer.FailurePumpLeak:    "pump_leaking",
	computer.FailureAmigara:     "amigara",
	computer.FailureDestroyData: "data_wiped",
}

// World is a computer.EffectSink backed by the game state
type World struct {
	game   *state.Game
	logger zerolog.Logger

	actions  map[computer.ActionKind]int
	failures map[computer.FailureKind]int
}

var _ computer.EffectSink = (*World)(nil)

// New creates a sink that changes g
func New(g *state.Game, logger zerolog.Logger) *World {
	return &World{
		game:     g,
		logger:   logger.With().Str("component", "effects").Logger(),
		actions:  make(map[computer.ActionKind]int),
		failures: make(map[computer.FailureKind]int),
	}
}

func (w *World) message(ctx computer.EffectContext, msg string) {
	w.game.AddMessage(fmt.Sprintf("[%s] %s", ctx.Terminal, translate(msg)))
}

// ApplyAction changes the world for a completed action
func (w *World) ApplyAction(action computer.ActionKind, ctx computer.EffectContext) {
	w.actions[action]++

	eff := actionEffects[action]
	if eff.Clear != "" {
		w.game.ClearFlag(eff.Clear)
	}
	if eff.Set != "" {
		w.game.SetFlag(eff.Set)
	}
	if eff.Toggle != "" {
		w.game.ToggleFlag(eff.Toggle)
	}
	if eff.Mission && ctx.HasMission {
		w.game.CompletedMissions.Put(ctx.MissionLink)
	}

	w.message(ctx, action.Info().Message)
	w.logger.Info().
		Str("terminal", ctx.Terminal).
		Str("action", action.String()).
		Bool("mission", eff.Mission && ctx.HasMission).
		Msg("Applied terminal action")
}

// ApplyFailure changes the world for a fired failure
func (w *World) ApplyFailure(kind computer.FailureKind, ctx computer.EffectContext) {
	w.failures[kind]++

	switch kind {
	case computer.FailureAlarm:
		w.game.Alarms++
	case computer.FailureManhacks, computer.FailureSecubots:
		w.game.Hostiles += hostilesPerFailure[kind]
	case computer.FailureDamage:
		w.game.Injuries++
	case computer.FailureDestroyBlood:
		w.game.ClearFlag("blood_sample")
	case computer.FailureDestroyData:
		if ctx.HasMission {
			w.game.CompletedMissions.Remove(ctx.MissionLink)
		}
	}
	if flag, ok := failureFlags[kind]; ok {
		w.game.SetFlag(flag)
	}

	w.message(ctx, kind.Info().Message)
	w.logger.Warn().
		Str("terminal", ctx.Terminal).
		Str("failure", kind.String()).
		Msg("Applied terminal failure")
}

// Actions returns how often an action has been applied
func (w *World) Actions(action computer.ActionKind) int {
	return w.actions[action]
}

// Failures returns how often a failure has been applied
func (w *World) Failures(kind computer.FailureKind) int {
	return w.failures[kind]
}
