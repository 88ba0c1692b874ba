// Package color implements WCAG colour science: parsing CSS colour strings,
// relative luminance, contrast ratio and a search for compliant foreground
// variants. Every function is pure and safe for concurrent use.
package color

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// WCAG contrast thresholds.
const (
	// AANormalMin is the minimum ratio for normal-size text at level AA.
	AANormalMin = 4.5
	// AALargeMin is the minimum ratio for large text at level AA.
	AALargeMin = 3.0
	// AAANormalMin is the minimum ratio for normal-size text at level AAA.
	AAANormalMin = 7.0
	// AAALargeMin is the minimum ratio for large text at level AAA.
	AAALargeMin = 4.5
)

// Color is an sRGB colour with 8-bit channels.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

var (
	hexPattern = regexp.MustCompile(`^#?([0-9a-f]{3,8})$`)
	rgbPattern = regexp.MustCompile(`^rgb\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*\)$`)
)

// Parse converts a colour specification into a Color. It accepts, after
// trimming and lowercasing, a named CSS colour, a hex string of 3, 6 or 8
// digits with or without a leading '#', or rgb(r, g, b) with channels up to
// 255. The alpha digits of the 8-digit form are ignored.
// The second return value is false when spec is not recognized.
func Parse(spec string) (Color, bool) {
	s := strings.ToLower(strings.TrimSpace(spec))
	if s == "" {
		return Color{}, false
	}

	if c, ok := namedColors[s]; ok {
		return c, true
	}

	if m := hexPattern.FindStringSubmatch(s); m != nil {
		hex := m[1]
		switch len(hex) {
		case 3:
			return Color{
				R: hexByte(hex[0:1] + hex[0:1]),
				G: hexByte(hex[1:2] + hex[1:2]),
				B: hexByte(hex[2:3] + hex[2:3]),
			}, true
		case 6, 8:
			return Color{
				R: hexByte(hex[0:2]),
				G: hexByte(hex[2:4]),
				B: hexByte(hex[4:6]),
			}, true
		}
	}

	if m := rgbPattern.FindStringSubmatch(s); m != nil {
		r, _ := strconv.Atoi(m[1])
		g, _ := strconv.Atoi(m[2])
		b, _ := strconv.Atoi(m[3])
		if r <= 255 && g <= 255 && b <= 255 {
			return Color{R: uint8(r), G: uint8(g), B: uint8(b)}, true
		}
	}

	return Color{}, false
}

// hexByte decodes two hex digits already validated by hexPattern.
func hexByte(s string) uint8 {
	v, _ := strconv.ParseUint(s, 16, 8)
	return uint8(v)
}

// srgbToLinear converts one 0-255 channel to linear light.
func srgbToLinear(v float64) float64 {
	v /= 255
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// RelativeLuminance returns the WCAG relative luminance of an sRGB triple.
// Channels are clamped to [0, 255] first.
func RelativeLuminance(r, g, b float64) float64 {
	return 0.2126*srgbToLinear(clampChannel(r)) +
		0.7152*srgbToLinear(clampChannel(g)) +
		0.0722*srgbToLinear(clampChannel(b))
}

// Luminance returns the relative luminance of c.
func (c Color) Luminance() float64 {
	return RelativeLuminance(float64(c.R), float64(c.G), float64(c.B))
}

// ContrastRatio returns (L1 + 0.05) / (L2 + 0.05) where L1 is the lighter of
// the two luminances. The result is symmetric and lies in [1, 21].
func ContrastRatio(lum1, lum2 float64) float64 {
	lighter := math.Max(lum1, lum2)
	darker := math.Min(lum1, lum2)
	return (lighter + 0.05) / (darker + 0.05)
}

// Contrast returns the contrast ratio between two colours.
func Contrast(a, b Color) float64 {
	return ContrastRatio(a.Luminance(), b.Luminance())
}

// Hex formats a triple as "#rrggbb". Channels are clamped and rounded.
func Hex(r, g, b float64) string {
	return fmt.Sprintf("#%02x%02x%02x",
		int(roundHalfUp(clampChannel(r))),
		int(roundHalfUp(clampChannel(g))),
		int(roundHalfUp(clampChannel(b))))
}

// Hex returns c as "#rrggbb".
func (c Color) Hex() string {
	return Hex(float64(c.R), float64(c.G), float64(c.B))
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

// Compliance holds the four WCAG pass/fail verdicts for one contrast ratio.
type Compliance struct {
	AANormal  bool `json:"aaNormal"`
	AALarge   bool `json:"aaLarge"`
	AAANormal bool `json:"aaaNormal"`
	AAALarge  bool `json:"aaaLarge"`
}

// CheckCompliance evaluates ratio against every WCAG text threshold.
func CheckCompliance(ratio float64) Compliance {
	return Compliance{
		AANormal:  ratio >= AANormalMin,
		AALarge:   ratio >= AALargeMin,
		AAANormal: ratio >= AAANormalMin,
		AAALarge:  ratio >= AAALargeMin,
	}
}

// Passed returns how many of the four checks pass.
func (c Compliance) Passed() int {
	n := 0
	for _, ok := range []bool{c.AANormal, c.AALarge, c.AAANormal, c.AAALarge} {
		if ok {
			n++
		}
	}
	return n
}

func clampChannel(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(255, v))
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
