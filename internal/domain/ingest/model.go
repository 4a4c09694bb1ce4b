package ingest

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document types accepted by the upload pipeline. Types outside this set
// are rejected at validation; of the accepted set, all three currently
// have a structured-extraction agent.
const (
	DocTypePlanDocument = "plan_document"
	DocTypeLabReport    = "lab_report"
	DocTypeEOB          = "eob"
)

var validDocTypes = map[string]bool{
	DocTypePlanDocument: true,
	DocTypeLabReport:    true,
	DocTypeEOB:          true,
}

// UploadRequest is the parsed multipart upload. It is built once per HTTP
// call and discarded after the response is sent.
type UploadRequest struct {
	FileContent []byte
	FileName    string
	FileType    string
	UserID      string
	DocType     string
	DocID       string
}

func (r *UploadRequest) Validate() error {
	if len(r.FileContent) == 0 {
		return fmt.Errorf("file is required")
	}
	if r.UserID == "" {
		return fmt.Errorf("userId is required")
	}
	if r.DocType == "" {
		return fmt.Errorf("docType is required")
	}
	if r.DocID == "" {
		return fmt.Errorf("docId is required")
	}
	if !validDocTypes[r.DocType] {
		return fmt.Errorf("invalid docType: %s (must be one of plan_document, lab_report, eob)", r.DocType)
	}
	if !r.isPDF() {
		return fmt.Errorf("file must be a PDF")
	}
	return nil
}

func (r *UploadRequest) isPDF() bool {
	if r.FileType == "application/pdf" {
		return true
	}
	return strings.HasSuffix(strings.ToLower(r.FileName), ".pdf")
}

// ExtractionOutcome reports one type-specific extraction branch. Success
// refers to the extraction itself; SQLStored is set separately so a client
// can tell "extraction failed" apart from "extracted but not stored".
type ExtractionOutcome struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	SQLStored *bool       `json:"sqlStored,omitempty"`
	SQLError  string      `json:"sqlError,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// UploadResponse is the 200 body. Exactly one of the extraction keys is
// present, matching the request's docType; Warning is set when that branch
// degraded without failing the upload.
type UploadResponse struct {
	Success    bool     `json:"success"`
	DocID      string   `json:"docId"`
	Message    string   `json:"message"`
	ChunkCount int      `json:"chunkCount"`
	VectorIDs  []string `json:"vectorIds"`

	Benefits *ExtractionOutcome `json:"benefitsExtraction,omitempty"`
	Lab      *ExtractionOutcome `json:"labExtraction,omitempty"`
	EOB      *ExtractionOutcome `json:"eobExtraction,omitempty"`

	Warning string `json:"warning,omitempty"`
}

// PipelineError is a fatal stage failure (text extraction or vector
// upload). The handler maps it to a 500 with the stage diagnostic.
type PipelineError struct {
	Stage   string
	Message string
	Details string
	Output  string
}

func (e *PipelineError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s: %s", e.Stage, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

// BenefitsRecord maps 1:1 to an insurance_benefits row. Nested structures
// from the extraction (deductibles, copays, service lists) stay opaque
// JSONB rather than being decomposed into columns.
type BenefitsRecord struct {
	ID                uuid.UUID `json:"id"`
	PlanName          string    `json:"planName"`
	PlanType          *string   `json:"planType,omitempty"`
	InsuranceProvider *string   `json:"insuranceProvider,omitempty"`
	PolicyNumber      *string   `json:"policyNumber,omitempty"`
	GroupNumber       *string   `json:"groupNumber,omitempty"`
	EffectiveDate     *string   `json:"effectiveDate,omitempty"`
	ExpirationDate    *string   `json:"expirationDate,omitempty"`

	Deductibles             json.RawMessage `json:"deductibles,omitempty"`
	Copays                  json.RawMessage `json:"copays,omitempty"`
	Coinsurance             json.RawMessage `json:"coinsurance,omitempty"`
	CoverageLimits          json.RawMessage `json:"coverageLimits,omitempty"`
	Services                json.RawMessage `json:"services,omitempty"`
	PreauthRequiredServices json.RawMessage `json:"preauthRequiredServices,omitempty"`
	Exclusions              json.RawMessage `json:"exclusions,omitempty"`
	SpecialPrograms         json.RawMessage `json:"specialPrograms,omitempty"`

	OutOfPocketMaxIndividual float64 `json:"outOfPocketMaxIndividual"`
	OutOfPocketMaxFamily     float64 `json:"outOfPocketMaxFamily"`
	InNetworkProviders       *string `json:"inNetworkProviders,omitempty"`
	OutOfNetworkCoverage     bool    `json:"outOfNetworkCoverage"`
	NetworkNotes             *string `json:"networkNotes,omitempty"`
	PreauthNotes             *string `json:"preauthNotes,omitempty"`
	ExclusionNotes           *string `json:"exclusionNotes,omitempty"`
	AdditionalBenefits       *string `json:"additionalBenefits,omitempty"`
	Notes                    *string `json:"notes,omitempty"`

	SourceDocumentID string    `json:"sourceDocumentId"`
	UserID           string    `json:"userId"`
	ExtractedDate    time.Time `json:"extractedDate"`
}

// LabReportRecord maps 1:1 to a lab_reports row. Parameters is an opaque
// JSONB object of name -> {value, unit, referenceRange}.
type LabReportRecord struct {
	ID         uuid.UUID       `json:"id"`
	UserID     string          `json:"userId"`
	Title      string          `json:"title"`
	ReportDate *string         `json:"reportDate,omitempty"`
	Hospital   *string         `json:"hospital,omitempty"`
	Doctor     *string         `json:"doctor,omitempty"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
	RawExtract *string         `json:"rawExtract,omitempty"`

	SourceDocumentID string    `json:"sourceDocumentId"`
	ExtractedDate    time.Time `json:"extractedDate"`
}

// EOBRecord maps 1:1 to an eob_records row. Monetary fields default to
// zero rather than null so downstream arithmetic never sees nil.
type EOBRecord struct {
	ID            uuid.UUID `json:"id"`
	UserID        string    `json:"userId"`
	ClaimNumber   string    `json:"claimNumber"`
	MemberName    string    `json:"memberName"`
	MemberAddress *string   `json:"memberAddress,omitempty"`
	MemberID      *string   `json:"memberId,omitempty"`
	GroupNumber   *string   `json:"groupNumber,omitempty"`
	ClaimDate     *string   `json:"claimDate,omitempty"`
	ProviderName  string    `json:"providerName"`
	ProviderNPI   *string   `json:"providerNpi,omitempty"`

	TotalBilled           float64 `json:"totalBilled"`
	TotalBenefitsApproved float64 `json:"totalBenefitsApproved"`
	AmountYouOwe          float64 `json:"amountYouOwe"`

	Services          json.RawMessage `json:"services,omitempty"`
	CoverageBreakdown json.RawMessage `json:"coverageBreakdown,omitempty"`
	Alerts            json.RawMessage `json:"alerts,omitempty"`
	Discrepancies     json.RawMessage `json:"discrepancies,omitempty"`

	InsuranceProvider *string `json:"insuranceProvider,omitempty"`
	PlanName          *string `json:"planName,omitempty"`
	PolicyNumber      *string `json:"policyNumber,omitempty"`

	SourceDocumentID string    `json:"sourceDocumentId"`
	ExtractedDate    time.Time `json:"extractedDate"`
}
