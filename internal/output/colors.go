package output

import (
	"github.com/fatih/color"
)

// ColorScheme holds the colors for each part of a printed exchange.
type ColorScheme struct {
	Method      *color.Color
	URL         *color.Color
	StatusOK    *color.Color
	StatusWarn  *color.Color
	StatusError *color.Color
	HeaderKey   *color.Color
	HeaderValue *color.Color
	Success     *color.Color
	Error       *color.Color
	Highlight   *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Method:      color.New(color.FgBlue, color.Bold),
		URL:         color.New(color.FgCyan),
		StatusOK:    color.New(color.FgGreen, color.Bold),
		StatusWarn:  color.New(color.FgYellow, color.Bold),
		StatusError: color.New(color.FgRed, color.Bold),
		HeaderKey:   color.New(color.FgYellow),
		HeaderValue: color.New(color.FgWhite),
		Success:     color.New(color.FgGreen),
		Error:       color.New(color.FgRed),
		Highlight:   color.New(color.FgMagenta, color.Bold),
	}
}

// NoColorScheme returns the default scheme with every color disabled.
func NoColorScheme() *ColorScheme {
	return DefaultColorScheme().force(false)
}

// SchemeFor returns a scheme whose colors are forced off when noColor is
// set and forced on otherwise, regardless of the global color.NoColor.
func SchemeFor(noColor bool) *ColorScheme {
	return DefaultColorScheme().force(!noColor)
}

func (s *ColorScheme) force(enabled bool) *ColorScheme {
	for _, c := range []*color.Color{
		s.Method, s.URL, s.StatusOK, s.StatusWarn, s.StatusError,
		s.HeaderKey, s.HeaderValue, s.Success, s.Error, s.Highlight,
	} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// StatusColor picks the status color for a response code: 2xx is OK, 3xx a
// warning, anything else an error.
func (s *ColorScheme) StatusColor(code int) *color.Color {
	switch code / 100 {
	case 2:
		return s.StatusOK
	case 3:
		return s.StatusWarn
	default:
		return s.StatusError
	}
}

func icon(symbol string, attr color.Attribute, noColor bool) string {
	if noColor {
		return symbol
	}
	return color.New(attr).Sprint(symbol)
}

// SuccessIcon returns a check mark, green unless noColor is set.
func SuccessIcon(noColor bool) string { return icon("✓", color.FgGreen, noColor) }

// ErrorIcon returns a cross, red unless noColor is set.
func ErrorIcon(noColor bool) string { return icon("✗", color.FgRed, noColor) }

// InfoIcon returns an info sign, blue unless noColor is set.
func InfoIcon(noColor bool) string { return icon("ℹ", color.FgBlue, noColor) }
