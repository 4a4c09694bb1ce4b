package ingest

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/carepilot/carepilot/internal/platform/pyexec"
)

// Script names under SCRIPTS_DIR. The Go side owns only the invocation
// protocol; the scripts own PDF parsing, embedding, and LLM extraction.
const (
	scriptExtractText     = "extract_text.py"
	scriptUploadDocument  = "upload_document.py"
	scriptExtractBenefits = "extract_benefits.py"
	scriptExtractEOB      = "extract_eob.py"
	scriptExtractLab      = "extract_lab_agent.py"
)

type textExtractInput struct {
	FileContent string `json:"fileContent"`
	FileName    string `json:"fileName"`
	FileType    string `json:"fileType"`
}

type textExtractOutput struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Error   string `json:"error"`
}

// extractText runs the generic PDF text extraction. An empty result with a
// successful exit is still a failure: later stages cannot work with no text.
func (s *Service) extractText(ctx context.Context, req *UploadRequest) (string, error) {
	in := textExtractInput{
		FileContent: base64.StdEncoding.EncodeToString(req.FileContent),
		FileName:    req.FileName,
		FileType:    req.FileType,
	}
	var out textExtractOutput
	if err := s.runner.Run(ctx, scriptExtractText, in, &out); err != nil {
		return "", stageError("text_extraction", "Failed to extract text from PDF", err)
	}
	if !out.Success {
		return "", &PipelineError{
			Stage:   "text_extraction",
			Message: "Failed to extract text from PDF",
			Details: out.Error,
		}
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", &PipelineError{
			Stage:   "text_extraction",
			Message: "No text could be extracted from the PDF",
			Details: "the document may be scanned or image-based",
		}
	}
	return out.Text, nil
}

type vectorUploadInput struct {
	UserID       string `json:"userId"`
	DocID        string `json:"docId"`
	DocType      string `json:"docType"`
	Text         string `json:"text"`
	FileName     string `json:"fileName"`
	FileSize     int    `json:"fileSize"`
	ChunkSize    int    `json:"chunkSize"`
	ChunkOverlap int    `json:"chunkOverlap"`
}

type vectorUploadOutput struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	ChunkCount int      `json:"chunkCount"`
	VectorIDs  []string `json:"vectorIds"`
	Error      string   `json:"error"`
}

// uploadVectors chunks and embeds the extracted text into the vector store.
func (s *Service) uploadVectors(ctx context.Context, req *UploadRequest, text string) (*vectorUploadOutput, error) {
	in := vectorUploadInput{
		UserID:       req.UserID,
		DocID:        req.DocID,
		DocType:      req.DocType,
		Text:         text,
		FileName:     req.FileName,
		FileSize:     len(req.FileContent),
		ChunkSize:    s.chunkSize,
		ChunkOverlap: s.chunkOverlap,
	}
	var out vectorUploadOutput
	if err := s.runner.Run(ctx, scriptUploadDocument, in, &out); err != nil {
		return nil, stageError("vector_upload", "Failed to upload document to vector store", err)
	}
	if !out.Success {
		return nil, &PipelineError{
			Stage:   "vector_upload",
			Message: "Failed to upload document to vector store",
			Details: out.Error,
		}
	}
	return &out, nil
}

// stageError wraps a runner failure for a fatal pipeline stage, carrying the
// script's raw output for the 500 response body when available.
func stageError(stage, message string, err error) *PipelineError {
	pe := &PipelineError{Stage: stage, Message: message, Details: err.Error()}
	var scriptErr *pyexec.ScriptError
	if errors.As(err, &scriptErr) {
		pe.Details = fmt.Sprintf("script exited with code %d", scriptErr.ExitCode)
		pe.Output = scriptErr.Stdout
		if pe.Output == "" {
			pe.Output = scriptErr.Stderr
		}
	}
	return pe
}
