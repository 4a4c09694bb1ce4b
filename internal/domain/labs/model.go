package labs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LabReport is a persisted lab extraction. Parameters is the opaque JSONB
// object written at ingestion time: name -> {value, unit, referenceRange}.
type LabReport struct {
	ID               uuid.UUID       `json:"id"`
	UserID           string          `json:"userId"`
	Title            string          `json:"title"`
	ReportDate       *string         `json:"reportDate,omitempty"`
	Hospital         *string         `json:"hospital,omitempty"`
	Doctor           *string         `json:"doctor,omitempty"`
	Parameters       json.RawMessage `json:"parameters,omitempty"`
	SourceDocumentID string          `json:"docId"`
	ExtractedDate    time.Time       `json:"extractedDate"`
}

// Parameter is one decoded entry from a report's parameters object.
type Parameter struct {
	Value          interface{} `json:"value"`
	Unit           string      `json:"unit"`
	ReferenceRange *string     `json:"referenceRange,omitempty"`
}

// ReportSummary is the list-view shape: full parameter payloads are
// replaced by a count.
type ReportSummary struct {
	ID             uuid.UUID `json:"id"`
	DocID          string    `json:"docId"`
	Title          string    `json:"title"`
	ReportDate     *string   `json:"reportDate,omitempty"`
	Hospital       *string   `json:"hospital,omitempty"`
	Doctor         *string   `json:"doctor,omitempty"`
	ParameterCount int       `json:"parameterCount"`
}

// TimeseriesPoint is one dated numeric observation of a parameter.
type TimeseriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
	DocID string  `json:"docId"`
}

func (r *LabReport) decodeParameters() map[string]Parameter {
	if len(r.Parameters) == 0 {
		return nil
	}
	var params map[string]Parameter
	if err := json.Unmarshal(r.Parameters, &params); err != nil {
		return nil
	}
	return params
}

// Summary converts a report to its list-view shape.
func (r *LabReport) Summary() *ReportSummary {
	return &ReportSummary{
		ID:             r.ID,
		DocID:          r.SourceDocumentID,
		Title:          r.Title,
		ReportDate:     r.ReportDate,
		Hospital:       r.Hospital,
		Doctor:         r.Doctor,
		ParameterCount: len(r.decodeParameters()),
	}
}
