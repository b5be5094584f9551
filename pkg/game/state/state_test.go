package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayer_PracticeRaisesLevel(t *testing.T) {
	p := NewPlayer("Avery", map[string]int{"computer": 2})

	p.Practice("computer", 60)
	assert.Equal(t, 2, p.SkillLevel("computer"))
	assert.Equal(t, 60, p.Exercise("computer"))

	p.Practice("computer", 150)
	assert.Equal(t, 4, p.SkillLevel("computer"))
	assert.Equal(t, 10, p.Exercise("computer"))

	p.Practice("computer", -5)
	assert.Equal(t, 10, p.Exercise("computer"), "negative practice is ignored")
}

func TestPlayer_PracticeStopsAtCap(t *testing.T) {
	p := NewPlayer("Avery", map[string]int{"computer": SkillCap - 1})

	p.Practice("computer", 1000)

	assert.Equal(t, SkillCap, p.SkillLevel("computer"))
	p.Practice("computer", 100)
	assert.Equal(t, SkillCap, p.SkillLevel("computer"))
}

func TestPlayer_UnknownSkillIsZero(t *testing.T) {
	skills := map[string]int{"computer": 3}
	p := NewPlayer("Avery", skills)
	skills["computer"] = 9

	assert.Equal(t, 0, p.SkillLevel("electronics"))
	assert.Equal(t, 3, p.SkillLevel("computer"), "starting skills are copied")
}

func TestGame_MessagesKeepLastFive(t *testing.T) {
	g := NewGame(NewPlayer("Avery", nil), 0)

	for _, m := range []string{"a", "b", "c", "d", "e", "f"} {
		g.AddMessage(m)
	}

	assert.Equal(t, []string{"b", "c", "d", "e", "f"}, g.Messages)
	g.ClearMessages()
	assert.Empty(t, g.Messages)
}

func TestGame_Flags(t *testing.T) {
	g := NewGame(NewPlayer("Avery", nil), 100)

	g.SetFlag("portal")

	assert.True(t, g.HasFlag("portal"))
	assert.False(t, g.HasFlag("cascade"))
	assert.EqualValues(t, 100, g.Clock.Now())
}
