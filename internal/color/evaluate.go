package color

// Evaluation is the full contrast report for a foreground/background pair.
// Foreground, Background, Ratio and Compliance are nil when either input
// fails to parse.
type Evaluation struct {
	Foreground  *Color       `json:"fg"`
	Background  *Color       `json:"bg"`
	Ratio       *float64     `json:"ratio"`
	Compliance  *Compliance  `json:"compliance"`
	Suggestions []Suggestion `json:"suggestions"`
}

// OK reports whether both colours parsed.
func (e Evaluation) OK() bool {
	return e.Ratio != nil
}

// Evaluate parses both specifications and, when both are valid, computes the
// ratio, the compliance verdicts and, for pairs below AA normal text,
// suggested foreground replacements.
func Evaluate(fgSpec, bgSpec string) Evaluation {
	eval := Evaluation{Suggestions: []Suggestion{}}

	fg, fgOK := Parse(fgSpec)
	bg, bgOK := Parse(bgSpec)
	if !fgOK || !bgOK {
		return eval
	}

	ratio := Contrast(fg, bg)
	compliance := CheckCompliance(ratio)

	eval.Foreground = &fg
	eval.Background = &bg
	eval.Ratio = &ratio
	eval.Compliance = &compliance

	if ratio < AANormalMin {
		eval.Suggestions = FindCompliantSuggestions(fg, bg, AANormalMin)
	}
	return eval
}
