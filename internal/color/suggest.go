package color

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	// MaxSuggestions caps the number of candidates FindCompliantSuggestions returns.
	MaxSuggestions = 5

	scaleSteps   = 20
	scaleFactor  = 0.05
	radialAngle  = 60
	radialStep   = 8
	radialLength = 20
)

// Suggestion is a foreground colour that reaches the target ratio against a
// fixed background.
type Suggestion struct {
	Color Color   `json:"color"`
	Hex   string  `json:"hex"`
	Ratio float64 `json:"ratio"`
	// Distance is the CIEDE2000 difference from the original foreground.
	// It is informational and does not affect ordering.
	Distance float64 `json:"distance"`
}

// FindCompliantSuggestions searches for up to five foreground variants whose
// contrast against bg is at least target (4.5 when target <= 0).
//
// The search runs three passes in order: darken fg in 5% steps, blend fg
// toward white in 5% steps, then walk outward in six directions through RGB
// space. The first passing candidate of each darken/lighten pass and of each
// direction is kept, skipping hex duplicates. Results keep search order.
// This is a heuristic: it does not find the perceptually nearest compliant
// colour.
func FindCompliantSuggestions(fg, bg Color, target float64) []Suggestion {
	if target <= 0 {
		target = AANormalMin
	}
	bgLum := bg.Luminance()
	origin := toColorful(fg)

	suggestions := make([]Suggestion, 0, MaxSuggestions)
	accept := func(r, g, b float64) (Suggestion, bool) {
		ratio := ContrastRatio(RelativeLuminance(r, g, b), bgLum)
		if ratio < target {
			return Suggestion{}, false
		}
		c := Color{R: uint8(clampChannel(r)), G: uint8(clampChannel(g)), B: uint8(clampChannel(b))}
		return Suggestion{
			Color:    c,
			Hex:      c.Hex(),
			Ratio:    ratio,
			Distance: origin.DistanceCIEDE2000(toColorful(c)),
		}, true
	}

	fr, fgG, fb := float64(fg.R), float64(fg.G), float64(fg.B)

	// Darken.
	for i := 1; i <= scaleSteps; i++ {
		factor := 1 - float64(i)*scaleFactor
		if s, ok := accept(roundHalfUp(fr*factor), roundHalfUp(fgG*factor), roundHalfUp(fb*factor)); ok {
			suggestions = append(suggestions, s)
			break
		}
	}

	// Lighten toward white.
	for i := 1; i <= scaleSteps; i++ {
		factor := float64(i) * scaleFactor
		if s, ok := accept(
			roundHalfUp(fr+(255-fr)*factor),
			roundHalfUp(fgG+(255-fgG)*factor),
			roundHalfUp(fb+(255-fb)*factor),
		); ok {
			suggestions = append(suggestions, s)
			break
		}
	}

	// Radial walk. The blue axis uses cos(angle + 2 rad) to decorrelate it
	// from red.
	for angle := 0; angle < 360; angle += radialAngle {
		if len(suggestions) >= MaxSuggestions {
			break
		}
		rad := float64(angle) * math.Pi / 180
		for step := 1; step <= radialLength; step++ {
			shift := float64(step * radialStep)
			r := clampChannel(roundHalfUp(fr + math.Cos(rad)*shift))
			g := clampChannel(roundHalfUp(fgG + math.Sin(rad)*shift))
			b := clampChannel(roundHalfUp(fb + math.Cos(rad+2)*shift))
			s, ok := accept(r, g, b)
			if !ok {
				continue
			}
			if !containsHex(suggestions, s.Hex) {
				suggestions = append(suggestions, s)
			}
			break
		}
	}

	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	return suggestions
}

func containsHex(suggestions []Suggestion, hex string) bool {
	for _, s := range suggestions {
		if s.Hex == hex {
			return true
		}
	}
	return false
}

func toColorful(c Color) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
