package ingest

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/carepilot/carepilot/internal/platform/pyexec"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
)

// Service orchestrates the upload pipeline:
// validate -> extract text -> upload vectors -> type-specific branch.
// The first three stages are fail-fast; the branch is best-effort and
// degrades to a warning in the response.
type Service struct {
	runner       pyexec.Runner
	repo         Repository
	cases        CaseSink
	chunkSize    int
	chunkOverlap int
	logger       zerolog.Logger
}

func NewService(runner pyexec.Runner, repo Repository, cases CaseSink, chunkSize, chunkOverlap int, logger zerolog.Logger) *Service {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = defaultChunkOverlap
	}
	return &Service{
		runner:       runner,
		repo:         repo,
		cases:        cases,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		logger:       logger,
	}
}

// ProcessUpload runs the full pipeline for one validated request. Fatal
// stage failures return a *PipelineError; once the vector upload has
// succeeded the request always completes with a response.
func (s *Service) ProcessUpload(ctx context.Context, req *UploadRequest) (*UploadResponse, error) {
	log := s.logger.With().
		Str("doc_id", req.DocID).
		Str("doc_type", req.DocType).
		Str("user_id", req.UserID).
		Logger()

	text, err := s.extractText(ctx, req)
	if err != nil {
		log.Error().Err(err).Msg("text extraction failed")
		return nil, err
	}
	log.Info().Int("text_length", len(text)).Msg("text extracted")

	upload, err := s.uploadVectors(ctx, req, text)
	if err != nil {
		log.Error().Err(err).Msg("vector upload failed")
		return nil, err
	}
	log.Info().Int("chunk_count", upload.ChunkCount).Msg("vectors uploaded")

	resp := &UploadResponse{
		Success:    true,
		DocID:      req.DocID,
		Message:    upload.Message,
		ChunkCount: upload.ChunkCount,
		VectorIDs:  upload.VectorIDs,
	}
	if resp.Message == "" {
		resp.Message = "Document uploaded successfully"
	}

	switch req.DocType {
	case DocTypePlanDocument:
		res := s.runBenefitsAgent(ctx, req)
		resp.Benefits = res.outcome
		resp.Warning = res.warning
	case DocTypeLabReport:
		res := s.runLabAgent(ctx, req)
		resp.Lab = res.outcome
		resp.Warning = res.warning
	case DocTypeEOB:
		res := s.runEOBAgent(ctx, req)
		resp.EOB = res.outcome
		resp.Warning = res.warning
	}

	if resp.Warning != "" {
		log.Warn().Str("warning", resp.Warning).Msg("upload completed with degraded extraction")
	} else {
		log.Info().Msg("upload completed")
	}
	return resp, nil
}
