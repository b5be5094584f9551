package input

import (
	"sort"
	"strconv"
	"strings"
)

// Device represents a physical input source.
type Device int

const (
	DeviceUnknown Device = iota
	DeviceKeyboard
	DeviceTerminal
)

// Action represents a high‑level intent at a terminal prompt.
type Action int

const (
	ActionNone Action = iota

	ActionQuit   // Leave the terminal
	ActionYes    // Confirm a yes/no prompt
	ActionNo     // Decline a yes/no prompt
	ActionSelect // Pick a menu entry by number or name
)

// Intent is the 4th‑layer, high‑level description of what the player wants to do.
// For ActionSelect, Index is the 1-based menu number when one was typed (0 otherwise)
// and Text is the raw entry.
type Intent struct {
	Action Action
	Index  int
	Text   string
}

// RawInput is the 1st‑layer event emitted directly from an input device.
type RawInput struct {
	Device Device
	Code   string
}

// DebouncedInput is the 2nd‑layer representation after debouncing/deduplication.
// Terminal lines arrive one at a time, so this only normalises whitespace.
type DebouncedInput struct {
	Device Device
	Code   string
}

// NewDebouncedInput converts a raw event to a debounced event.
func NewDebouncedInput(raw RawInput) DebouncedInput {
	return DebouncedInput{
		Device: raw.Device,
		Code:   strings.TrimSpace(raw.Code),
	}
}

// bindings maps lower-cased codes to actions (3rd-layer bindings).
// Multiple codes may point to the same Action.
var bindings = map[string]Action{
	"q":      ActionQuit,
	"quit":   ActionQuit,
	"escape": ActionQuit,
	"exit":   ActionQuit,

	"y":   ActionYes,
	"yes": ActionYes,

	"n":  ActionNo,
	"no": ActionNo,
}

// MapToIntent is the 3rd+4th layer: it applies the bindings to a debounced input
// and returns a high‑level Intent. Anything unbound is a menu selection.
func MapToIntent(ev DebouncedInput) Intent {
	if ev.Code == "" {
		return Intent{Action: ActionNone}
	}
	if act, ok := bindings[strings.ToLower(ev.Code)]; ok {
		return Intent{Action: act, Text: ev.Code}
	}
	if n, err := strconv.Atoi(ev.Code); err == nil && n > 0 {
		return Intent{Action: ActionSelect, Index: n, Text: ev.Code}
	}
	return Intent{Action: ActionSelect, Text: ev.Code}
}

// ActionName returns a human-friendly name for an action.
func ActionName(a Action) string {
	switch a {
	case ActionQuit:
		return "Quit"
	case ActionYes:
		return "Yes"
	case ActionNo:
		return "No"
	case ActionSelect:
		return "Select"
	default:
		return "None"
	}
}

// GetBindingsByAction returns the current bindings grouped by action.
func GetBindingsByAction() map[Action][]string {
	result := make(map[Action][]string)
	for code, act := range bindings {
		result[act] = append(result[act], code)
	}
	// Stable ordering for help text.
	for act, codes := range result {
		sort.Strings(codes)
		result[act] = codes
	}
	return result
}

// ShortestBinding returns the shortest code bound to a, for prompts and help
// lines. Ties go to the alphabetically first code; unbound actions return "".
func ShortestBinding(a Action) string {
	best := ""
	for _, code := range GetBindingsByAction()[a] {
		if best == "" || len(code) < len(best) {
			best = code
		}
	}
	return best
}
