// Package tui is the line-based terminal console for computer sessions.
package tui

import (
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/leonelquinteros/gotext"

	"darkterminal/pkg/engine/input"
	"darkterminal/pkg/engine/terminal"
	"darkterminal/pkg/game/computer"
	"darkterminal/pkg/game/renderer"
)

const (
	clearScreen = "\033[H\033[2J"
	gibberish   = "abcdefghijklmnopqrstuvwxyz0123456789{}[]();=<>+-*/&|!#$%_"
)

// dynamicGet is used for runtime translation key lookups.
// We use a function variable to avoid go vet's non-constant format string check.
var dynamicGet = gotext.Get

// Options configures a TUIRenderer
type Options struct {
	Width       int  // Wrap width; 0 uses the terminal width
	ClearScreen bool // Emit a clear sequence on Reset
	Seed        int64
	Palette     renderer.Palette
}

// TUIRenderer is the terminal-based console implementation
type TUIRenderer struct {
	in      *input.LineReader
	out     io.Writer
	rnd     *rand.Rand
	width   int
	clear   bool
	palette renderer.Palette

	// menu holds the option names of the last rendered menu, in display order
	menu []string
}

var _ renderer.Renderer = (*TUIRenderer)(nil)

// New creates a new TUI renderer reading from in and writing to out
func New(in io.Reader, out io.Writer, opts Options) *TUIRenderer {
	width := opts.Width
	if width <= 0 {
		width = terminal.GetWidth()
	}
	palette := opts.Palette
	if palette == nil {
		palette = renderer.DefaultPalette()
	}
	return &TUIRenderer{
		in:      input.NewLineReader(in),
		out:     out,
		rnd:     rand.New(rand.NewSource(opts.Seed)),
		width:   width,
		clear:   opts.ClearScreen,
		palette: palette,
	}
}

// StyleText applies a style to text
func (t *TUIRenderer) StyleText(text string, style renderer.TextStyle) string {
	return t.palette.Style(text, style)
}

// FormatText formats a message with markup
func (t *TUIRenderer) FormatText(msg string, args ...any) string {
	return t.palette.FormatString(msg, args...)
}

func (t *TUIRenderer) writeLines(text string, style renderer.TextStyle) {
	for _, line := range terminal.Wrap(text, t.width) {
		fmt.Fprintln(t.out, t.StyleText(line, style))
	}
}

// Reset clears the screen when enabled
func (t *TUIRenderer) Reset() {
	if t.clear {
		fmt.Fprint(t.out, clearScreen)
	}
}

// Print writes a normal line
func (t *TUIRenderer) Print(line string) {
	t.writeLines(line, renderer.StyleNormal)
}

// PrintError writes an error line
func (t *TUIRenderer) PrintError(line string) {
	t.writeLines(line, renderer.StyleDenied)
}

// PrintGibberish writes a line of random code-looking characters
func (t *TUIRenderer) PrintGibberish() {
	n := t.width / 2
	if n < 10 {
		n = 10
	}
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 && t.rnd.Intn(6) == 0 {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteByte(gibberish[t.rnd.Intn(len(gibberish))])
	}
	fmt.Fprintln(t.out, t.StyleText(sb.String(), renderer.StyleGibberish))
}

// RenderMenu draws the header and the numbered option list
func (t *TUIRenderer) RenderMenu(header string, options []computer.Option) {
	t.writeLines(header, renderer.StyleHeader)
	fmt.Fprintln(t.out)

	t.menu = t.menu[:0]
	for i, opt := range options {
		t.menu = append(t.menu, opt.Name)
		fmt.Fprintf(t.out, "%s - %s\n", t.FormatText("KEY{%d}", i+1), t.StyleText(opt.Name, renderer.StyleOption))
	}

	quit := input.ShortestBinding(input.ActionQuit)
	label := dynamicGet(input.ActionName(input.ActionQuit))
	fmt.Fprintf(t.out, "%s - %s\n", t.FormatText("KEY{%s}", quit), t.StyleText(label, renderer.StyleOption))
}

func (t *TUIRenderer) prompt(text string) {
	if text != "" {
		fmt.Fprint(t.out, t.StyleText(text, renderer.StylePrompt), " ")
	}
	fmt.Fprint(t.out, "> ")
}

// AwaitChoice blocks for a selection or quit. Numbers refer to the last
// rendered menu; anything else is passed on as an option name. Yes/no answers
// mean nothing at the menu and are ignored.
func (t *TUIRenderer) AwaitChoice() computer.Choice {
	for {
		t.prompt("")
		intent, err := t.in.ReadIntent()
		if err != nil {
			return computer.Choice{Quit: true}
		}

		switch intent.Action {
		case input.ActionQuit:
			return computer.Choice{Quit: true}
		case input.ActionNone, input.ActionYes, input.ActionNo:
			continue
		case input.ActionSelect:
			if intent.Index > 0 && intent.Index <= len(t.menu) {
				return computer.Choice{Name: t.menu[intent.Index-1]}
			}
		}
		return computer.Choice{Name: intent.Text}
	}
}

// AwaitYesNo blocks for a yes/no answer. End of input counts as no.
func (t *TUIRenderer) AwaitYesNo(prompt string) bool {
	for {
		t.prompt(fmt.Sprintf("%s (%s/%s)", prompt,
			input.ShortestBinding(input.ActionYes), input.ShortestBinding(input.ActionNo)))
		intent, err := t.in.ReadIntent()
		if err != nil {
			return false
		}

		switch intent.Action {
		case input.ActionYes:
			return true
		case input.ActionNo, input.ActionQuit:
			return false
		}
		t.PrintError(t.FormatText("GT{Please answer y or n.}"))
	}
}

// AwaitAny blocks until a line is entered
func (t *TUIRenderer) AwaitAny(prompt string) {
	t.prompt(prompt)
	_, _ = t.in.ReadLine()
}

// Shutdown forgets the menu and clears the screen when enabled
func (t *TUIRenderer) Shutdown() {
	t.menu = nil
	if t.clear {
		fmt.Fprint(t.out, clearScreen)
	}
	fmt.Fprintln(t.out)
}
