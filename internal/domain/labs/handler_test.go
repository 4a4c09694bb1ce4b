package labs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newHandlerWithReports(reports ...*LabReport) *Handler {
	return NewHandler(NewService(&mockRepo{reports: reports}))
}

func get(t *testing.T, h func(echo.Context) error, target string, pathParams ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for i := 0; i+1 < len(pathParams); i += 2 {
		c.SetParamNames(pathParams[i])
		c.SetParamValues(pathParams[i+1])
	}
	err := h(c)
	if err != nil {
		he, ok := err.(*echo.HTTPError)
		if !ok {
			t.Fatalf("handler error: %v", err)
		}
		rec.Code = he.Code
	}
	return rec
}

func TestListReportsHandler(t *testing.T) {
	h := newHandlerWithReports(
		report("user-1", "doc-1", "2024-01-05", map[string]Parameter{
			"Hemoglobin": {Value: "13.5"},
		}),
	)
	rec := get(t, h.ListReports, "/api/v1/labs/reports?userId=user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Data  []*ReportSummary `json:"data"`
		Total int              `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 1 || len(body.Data) != 1 {
		t.Fatalf("body = %+v", body)
	}
	if body.Data[0].ParameterCount != 1 {
		t.Errorf("parameter count = %d", body.Data[0].ParameterCount)
	}
}

func TestListReportsHandler_MissingUserID(t *testing.T) {
	h := newHandlerWithReports()
	rec := get(t, h.ListReports, "/api/v1/labs/reports")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGetReportHandler(t *testing.T) {
	h := newHandlerWithReports(
		report("user-1", "doc-1", "2024-01-05", map[string]Parameter{
			"Hemoglobin": {Value: "13.5"},
		}),
	)
	rec := get(t, h.GetReport, "/api/v1/labs/reports/doc-1?userId=user-1", "docId", "doc-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var rep LabReport
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.SourceDocumentID != "doc-1" {
		t.Errorf("docId = %q", rep.SourceDocumentID)
	}
}

func TestGetReportHandler_NotFound(t *testing.T) {
	h := newHandlerWithReports()
	rec := get(t, h.GetReport, "/api/v1/labs/reports/doc-9?userId=user-1", "docId", "doc-9")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestTimeseriesHandler_MissingParameter(t *testing.T) {
	h := newHandlerWithReports()
	rec := get(t, h.Timeseries, "/api/v1/labs/timeseries?userId=user-1")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestTimeseriesHandler(t *testing.T) {
	h := newHandlerWithReports(
		report("user-1", "doc-1", "2024-01-05", map[string]Parameter{
			"Hemoglobin": {Value: "13.5", Unit: "g/dL"},
		}),
	)
	rec := get(t, h.Timeseries, "/api/v1/labs/timeseries?userId=user-1&parameter=Hemoglobin")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Parameter  string            `json:"parameter"`
		Timeseries []TimeseriesPoint `json:"timeseries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Parameter != "Hemoglobin" || len(body.Timeseries) != 1 {
		t.Fatalf("body = %+v", body)
	}
}
