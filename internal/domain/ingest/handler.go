package ingest

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carepilot/carepilot/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("patient", "provider"))
	g.POST("/upload", h.Upload)
}

// errorBody is the wire shape for 400/500 responses. Details carries the
// stage diagnostic; Output carries raw script output when available.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Output  string `json:"output,omitempty"`
}

func (h *Handler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "file is required"})
	}
	f, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "could not read uploaded file"})
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "could not read uploaded file"})
	}

	req := &UploadRequest{
		FileContent: content,
		FileName:    fileHeader.Filename,
		FileType:    fileHeader.Header.Get("Content-Type"),
		UserID:      c.FormValue("userId"),
		DocType:     c.FormValue("docType"),
		DocID:       c.FormValue("docId"),
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	}

	resp, err := h.svc.ProcessUpload(c.Request().Context(), req)
	if err != nil {
		var pe *PipelineError
		if errors.As(err, &pe) {
			return c.JSON(http.StatusInternalServerError, errorBody{
				Error:   pe.Message,
				Details: pe.Details,
				Output:  pe.Output,
			})
		}
		return c.JSON(http.StatusInternalServerError, errorBody{
			Error:   "failed to process upload",
			Details: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, resp)
}
