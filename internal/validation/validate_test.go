package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateHTML_ImageOnly(t *testing.T) {
	issues := ValidateHTML(`<img src="x.jpg">`)

	var altErrors, mainInfos int
	for _, i := range issues {
		if i.Rule == "image-alt" && i.Severity == SeverityError {
			altErrors++
			assert.Equal(t, `<img src="x.jpg">`, i.Element)
		}
		if i.Rule == "landmark-main" && i.Severity == SeverityInfo {
			mainInfos++
		}
	}
	assert.Equal(t, 1, altErrors)
	assert.Equal(t, 1, mainInfos)
	assert.GreaterOrEqual(t, len(issues), 2)
}

func TestValidateHTML_HeadingSkipOnly(t *testing.T) {
	src := `<html lang="en"><head><title>T</title></head><body><main><h1>A</h1><h3>B</h3></main></body></html>`

	issues := ValidateHTML(src)
	require.Len(t, issues, 1)
	assert.Equal(t, Issue{
		Severity: SeverityWarning,
		Message:  "Heading level skipped (h1 to h3)",
		Element:  "<h3>",
		Rule:     "heading-order",
	}, issues[0])
}

func TestValidateHTML_CleanDocument(t *testing.T) {
	src := `<html lang="en"><head><title>Home</title></head><body>
<main>
  <h1>Title</h1><h2>Sub</h2>
  <img src="a.png" alt="">
  <label>Name <input type="text"></label>
  <a href="/x">Read more</a>
</main></body></html>`

	issues := ValidateHTML(src)
	assert.NotNil(t, issues)
	assert.Empty(t, issues)
	assert.Equal(t, Counts{}, Summarize(issues))
}

func TestValidateHTML_Sample(t *testing.T) {
	issues := ValidateHTML(SampleHTML)

	var rules []string
	for _, i := range issues {
		rules = append(rules, i.Rule)
	}
	assert.Equal(t, []string{
		"image-alt",
		"form-label",
		"heading-order",
		"html-lang",
		"link-name",
		"click-keyboard",
		"document-title",
		"table-caption",
		"media-autoplay",
		"landmark-main",
		"link-new-window",
	}, rules)
	assert.Equal(t, Counts{Errors: 3, Warnings: 5, Infos: 3}, Summarize(issues))
}

func TestValidate_Deterministic(t *testing.T) {
	root, err := Parse(SampleHTML)
	require.NoError(t, err)

	first := Validate(root)
	second := Validate(root)
	assert.Equal(t, first, second)
}

func TestValidateParallel_MatchesSequential(t *testing.T) {
	root, err := Parse(SampleHTML)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		assert.Equal(t, Validate(root), ValidateParallel(root))
	}
}

func TestValidate_NilRoot(t *testing.T) {
	assert.Empty(t, Validate(nil))
	assert.NotNil(t, Validate(nil))
	assert.Empty(t, ValidateParallel(nil))
}

func TestValidateHTML_EmptyInput(t *testing.T) {
	issues := ValidateHTML("")
	counts := Summarize(issues)

	// The parser still synthesizes html/head/body.
	assert.Equal(t, 0, counts.Errors)
	assert.Equal(t, 2, counts.Warnings) // lang, title
	assert.Equal(t, 1, counts.Infos)    // main
}

func TestSummarize(t *testing.T) {
	issues := []Issue{
		{Severity: SeverityError},
		{Severity: SeverityError},
		{Severity: SeverityWarning},
		{Severity: SeverityInfo},
		{Severity: "bogus"},
	}
	c := Summarize(issues)
	assert.Equal(t, Counts{Errors: 2, Warnings: 1, Infos: 1}, c)
	assert.Equal(t, 4, c.Total())
	assert.Equal(t, Counts{}, Summarize(nil))
}

func TestNewReport(t *testing.T) {
	r := NewReport(nil)
	assert.NotNil(t, r.Issues)
	assert.Equal(t, 0, r.Summary.Total())

	r = NewReport(ValidateHTML(SampleHTML))
	assert.Equal(t, 11, r.Summary.Total())
}

func TestError(t *testing.T) {
	err := &Error{Message: "boom"}
	assert.Equal(t, "validation error: boom", err.Error())
	assert.Nil(t, err.Unwrap())

	wrapped := &Error{Message: "fetch", Cause: assert.AnError}
	assert.ErrorIs(t, wrapped, assert.AnError)
	assert.Contains(t, wrapped.Error(), assert.AnError.Error())
}
