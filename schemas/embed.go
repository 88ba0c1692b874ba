// Package schemas holds the JSON Schemas for the toolkit's structured
// outputs: LLM analyses, validation reports and contrast evaluations.
package schemas

import "embed"

// FS contains every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
