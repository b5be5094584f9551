package renderer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gookit/color"
	"github.com/leonelquinteros/gotext"
)

// dynamicGet is used for runtime translation key lookups.
// We use a function variable to avoid go vet's non-constant format string check,
// since we intentionally look up translation keys dynamically from markup.
var dynamicGet = gotext.Get

var regexpStringFunctions = regexp.MustCompile(`([a-zA-Z_]*){([a-z A-Z0-9_,:.'?!-]+)}`)

// Palette holds one color style per TextStyle
type Palette map[TextStyle]color.Style

// DefaultPalette returns the terminal colors
func DefaultPalette() Palette {
	return Palette{
		StyleNormal:    color.Style{color.FgGreen},
		StyleHeader:    color.Style{color.FgLightGreen, color.OpBold},
		StyleOption:    color.Style{color.FgGreen},
		StyleOptionKey: color.Style{color.FgLightGreen, color.OpBold},
		StyleDenied:    color.Style{color.FgRed, color.OpBold},
		StyleSubtle:    color.Style{color.FgGray},
		StyleGibberish: color.Style{color.FgGray, color.OpBold},
		StylePrompt:    color.Style{color.FgYellow},
	}
}

// PlainPalette returns a palette that emits no escape codes
func PlainPalette() Palette {
	return Palette{}
}

// Style applies a style to text. Unknown styles render plain.
func (p Palette) Style(text string, style TextStyle) string {
	s, ok := p[style]
	if !ok || len(s) == 0 {
		return text
	}
	return s.Sprint(text)
}

// FormatString formats a string with special markup:
//
//	GT{msgid}     translated text
//	DENIED{text}  error styling
//	KEY{text}     menu key styling
//	SUBTLE{text}  dimmed text
func (p Palette) FormatString(msg string, a ...any) string {
	ret := msg
	if len(a) > 0 {
		ret = fmt.Sprintf(msg, a...)
	}

	matches := regexpStringFunctions.FindAllStringSubmatch(ret, -1)

	for _, match := range matches {
		function := match[1]
		operand := match[2]

		var val string

		switch function {
		case "GT":
			val = dynamicGet(operand)
		case "DENIED":
			val = p.Style(operand, StyleDenied)
		case "KEY":
			val = p.Style(operand, StyleOptionKey)
		case "SUBTLE":
			val = p.Style(operand, StyleSubtle)
		default:
			val = fmt.Sprintf("ERROR, function not found: %v -> %v", function, operand)
		}

		ret = strings.Replace(ret, match[0], val, -1)
	}

	return ret
}
