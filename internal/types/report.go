package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ReportKind identifies what a stored report contains.
type ReportKind string

const (
	ReportValidation ReportKind = "validation"
	ReportAnalysis   ReportKind = "analysis"
	ReportContrast   ReportKind = "contrast"
)

// Valid reports whether k is a known kind.
func (k ReportKind) Valid() bool {
	switch k {
	case ReportValidation, ReportAnalysis, ReportContrast:
		return true
	}
	return false
}

// Report is a persisted result. Payload holds the kind-specific JSON.
type Report struct {
	ID        uuid.UUID       `json:"id"`
	Kind      ReportKind      `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}
