package ingest

import (
	"context"
	"encoding/base64"
	"fmt"
)

// agentResult pairs a branch outcome with the warning folded into the
// top-level response when the branch degraded.
type agentResult struct {
	outcome *ExtractionOutcome
	warning string
}

type agentOutput struct {
	Success  bool                   `json:"success"`
	Benefits map[string]interface{} `json:"benefits"`
	EOBData  map[string]interface{} `json:"eob_data"`
	LabData  map[string]interface{} `json:"labData"`
	Error    string                 `json:"error"`
}

type cotAgentInput struct {
	UserID     string `json:"userId"`
	DocumentID string `json:"documentId"`
	DocType    string `json:"docType"`
	Method     string `json:"method"`
}

type labAgentInput struct {
	UserID      string `json:"userId"`
	DocumentID  string `json:"documentId"`
	FileContent string `json:"fileContent"`
	FileName    string `json:"fileName"`
	FileType    string `json:"fileType"`
}

// runBenefitsAgent extracts structured benefits from an ingested plan
// document and upserts them. Never fails the request: extraction and
// persistence problems degrade to a warning.
func (s *Service) runBenefitsAgent(ctx context.Context, req *UploadRequest) agentResult {
	in := cotAgentInput{
		UserID:     req.UserID,
		DocumentID: req.DocID,
		DocType:    DocTypePlanDocument,
		Method:     "cot",
	}
	var out agentOutput
	if err := s.runner.Run(ctx, scriptExtractBenefits, in, &out); err != nil {
		return agentFailed("benefits", err.Error())
	}
	if !out.Success || len(out.Benefits) == 0 {
		return agentFailed("benefits", orDefault(out.Error, "no benefits data returned"))
	}

	rec := mapBenefitsRecord(out.Benefits, req)
	if _, err := s.repo.UpsertInsuranceBenefits(ctx, rec); err != nil {
		return agentStoreFailed("benefits", out.Benefits, err)
	}
	return agentStored(out.Benefits)
}

// runLabAgent re-reads the raw file bytes: the lab agent does its own
// vision-based extraction rather than reusing the generic text pass.
func (s *Service) runLabAgent(ctx context.Context, req *UploadRequest) agentResult {
	in := labAgentInput{
		UserID:      req.UserID,
		DocumentID:  req.DocID,
		FileContent: base64.StdEncoding.EncodeToString(req.FileContent),
		FileName:    req.FileName,
		FileType:    req.FileType,
	}
	var out agentOutput
	if err := s.runner.Run(ctx, scriptExtractLab, in, &out); err != nil {
		return agentFailed("lab", err.Error())
	}
	if !out.Success || len(out.LabData) == 0 {
		return agentFailed("lab", orDefault(out.Error, "no lab data returned"))
	}

	rec := mapLabReportRecord(out.LabData, req)
	if _, err := s.repo.UpsertLabReport(ctx, rec); err != nil {
		return agentStoreFailed("lab", out.LabData, err)
	}
	return agentStored(out.LabData)
}

func (s *Service) runEOBAgent(ctx context.Context, req *UploadRequest) agentResult {
	in := cotAgentInput{
		UserID:     req.UserID,
		DocumentID: req.DocID,
		DocType:    DocTypeEOB,
		Method:     "cot",
	}
	var out agentOutput
	if err := s.runner.Run(ctx, scriptExtractEOB, in, &out); err != nil {
		return agentFailed("EOB", err.Error())
	}
	if !out.Success || len(out.EOBData) == 0 {
		return agentFailed("EOB", orDefault(out.Error, "no EOB data returned"))
	}

	rec := mapEOBRecord(out.EOBData, req)
	if s.cases == nil {
		if _, err := s.repo.UpsertEOBRecord(ctx, rec); err != nil {
			return agentStoreFailed("EOB", out.EOBData, err)
		}
		return agentStored(out.EOBData)
	}

	// The claim and its derived case are written in one transaction so a
	// reader never observes a case without its EOB row.
	err := s.repo.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.UpsertEOBRecord(txCtx, rec); err != nil {
			return err
		}
		return s.cases.UpsertEOBCase(txCtx, rec)
	})
	if err != nil {
		// Case derivation is best effort and must not lose the claim
		// itself: store the EOB row alone and keep the case failure out
		// of the response.
		if _, uerr := s.repo.UpsertEOBRecord(ctx, rec); uerr != nil {
			return agentStoreFailed("EOB", out.EOBData, uerr)
		}
		s.logger.Warn().Err(err).
			Str("claim_number", rec.ClaimNumber).
			Str("user_id", rec.UserID).
			Msg("failed to derive case from EOB")
	}
	return agentStored(out.EOBData)
}

func agentFailed(label, reason string) agentResult {
	return agentResult{
		outcome: &ExtractionOutcome{Success: false, Error: reason},
		warning: fmt.Sprintf("%s extraction failed: %s", label, reason),
	}
}

func agentStoreFailed(label string, data interface{}, err error) agentResult {
	stored := false
	return agentResult{
		outcome: &ExtractionOutcome{
			Success:   true,
			Data:      data,
			SQLStored: &stored,
			SQLError:  err.Error(),
		},
		warning: fmt.Sprintf("%s data extracted but could not be stored: %s", label, err.Error()),
	}
}

func agentStored(data interface{}) agentResult {
	stored := true
	return agentResult{
		outcome: &ExtractionOutcome{Success: true, Data: data, SQLStored: &stored},
	}
}

func orDefault(s, def string) string {
	if s != "" {
		return s
	}
	return def
}
