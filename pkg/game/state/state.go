package state

import (
	"github.com/zyedidia/generic/mapset"

	"darkterminal/pkg/engine/world"
)

// SkillCap is the highest level a skill can reach through practice
const SkillCap = 10

// practicePerLevel is the experience needed to raise a skill by one level
const practicePerLevel = 100

// Player is the actor using terminals
type Player struct {
	Name string

	skills   map[string]int
	exercise map[string]int
}

// NewPlayer creates a player with the given starting skill levels
func NewPlayer(name string, skills map[string]int) *Player {
	p := &Player{
		Name:     name,
		skills:   make(map[string]int, len(skills)),
		exercise: make(map[string]int),
	}
	for k, v := range skills {
		p.skills[k] = v
	}
	return p
}

// SkillLevel returns the current level of a skill, 0 if untrained
func (p *Player) SkillLevel(skill string) int {
	return p.skills[skill]
}

// SetSkillLevel overrides a skill level
func (p *Player) SetSkillLevel(skill string, level int) {
	p.skills[skill] = level
}

// Practice adds experience to a skill. Every practicePerLevel points raise
// the level by one until SkillCap.
func (p *Player) Practice(skill string, amount int) {
	if amount <= 0 || p.skills[skill] >= SkillCap {
		return
	}
	p.exercise[skill] += amount
	for p.exercise[skill] >= practicePerLevel && p.skills[skill] < SkillCap {
		p.exercise[skill] -= practicePerLevel
		p.skills[skill]++
	}
}

// Exercise returns the accumulated experience towards the next level
func (p *Player) Exercise(skill string) int {
	return p.exercise[skill]
}

// Game represents the world state around the terminals
type Game struct {
	Player *Player
	Clock  *world.Clock

	Messages []string

	// Alarms, Hostiles and Injuries count world reactions to failed hacks
	Alarms   int
	Hostiles int
	Injuries int

	// CompletedMissions holds missions advanced by terminal actions
	CompletedMissions mapset.Set[int]

	// Flags records one-off world changes such as "doors_open" or "portal"
	Flags mapset.Set[string]
}

// NewGame creates a new game instance
func NewGame(player *Player, start world.Time) *Game {
	return &Game{
		Player:            player,
		Clock:             world.NewClock(start),
		Messages:          make([]string, 0),
		CompletedMissions: mapset.New[int](),
		Flags:             mapset.New[string](),
	}
}

// AddMessage adds a message to the game's message log
func (g *Game) AddMessage(msg string) {
	const maxMessages = 5
	g.Messages = append(g.Messages, msg)

	// Keep only the last maxMessages
	if len(g.Messages) > maxMessages {
		g.Messages = g.Messages[len(g.Messages)-maxMessages:]
	}
}

// ClearMessages clears all messages
func (g *Game) ClearMessages() {
	g.Messages = make([]string, 0)
}

// SetFlag records a world change
func (g *Game) SetFlag(flag string) {
	g.Flags.Put(flag)
}

// ClearFlag undoes a world change
func (g *Game) ClearFlag(flag string) {
	g.Flags.Remove(flag)
}

// ToggleFlag flips a world change and reports the new value
func (g *Game) ToggleFlag(flag string) bool {
	if g.Flags.Has(flag) {
		g.Flags.Remove(flag)
		return false
	}
	g.Flags.Put(flag)
	return true
}

// HasFlag reports whether a world change happened
func (g *Game) HasFlag(flag string) bool {
	return g.Flags.Has(flag)
}
