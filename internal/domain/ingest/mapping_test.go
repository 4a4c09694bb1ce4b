package ingest

import (
	"strings"
	"testing"
)

func TestTitleFromFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"cbc_panel_2024.pdf", "Cbc Panel 2024"},
		{"lab-report.pdf", "Lab Report"},
		{"results.pdf", "Results"},
		{"", "Lab Report"},
		{".pdf", "Lab Report"},
	}
	for _, tc := range cases {
		if got := titleFromFilename(tc.in); got != tc.want {
			t.Errorf("titleFromFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGetFloat(t *testing.T) {
	m := map[string]interface{}{
		"number":  123.45,
		"string":  "1,500.75",
		"garbage": "n/a",
		"null":    nil,
	}
	if v := getFloat(m, "number"); v != 123.45 {
		t.Errorf("number = %v", v)
	}
	if v := getFloat(m, "string"); v != 1500.75 {
		t.Errorf("string = %v", v)
	}
	if v := getFloat(m, "garbage"); v != 0 {
		t.Errorf("garbage = %v", v)
	}
	if v := getFloat(m, "null"); v != 0 {
		t.Errorf("null = %v", v)
	}
	if v := getFloat(m, "missing"); v != 0 {
		t.Errorf("missing = %v", v)
	}
}

func TestMapEOBRecord_Defaults(t *testing.T) {
	req := testRequest(DocTypeEOB)
	rec := mapEOBRecord(map[string]interface{}{}, req)

	if rec.ClaimNumber != "doc-1" {
		t.Errorf("claim number should fall back to docId, got %q", rec.ClaimNumber)
	}
	if rec.MemberName != "Unknown" || rec.ProviderName != "Unknown" {
		t.Errorf("names = %q / %q", rec.MemberName, rec.ProviderName)
	}
	if rec.TotalBilled != 0 || rec.TotalBenefitsApproved != 0 || rec.AmountYouOwe != 0 {
		t.Error("monetary fields must default to zero")
	}
	if rec.UserID != "user-1" || rec.SourceDocumentID != "doc-1" {
		t.Errorf("ownership fields = %q / %q", rec.UserID, rec.SourceDocumentID)
	}
}

func TestMapEOBRecord_NestedStructuresStayJSON(t *testing.T) {
	req := testRequest(DocTypeEOB)
	rec := mapEOBRecord(map[string]interface{}{
		"claim_number": "CLM-7",
		"services": []interface{}{
			map[string]interface{}{"service_description": "Office visit", "amount_billed": 200},
		},
		"coverage_breakdown": map[string]interface{}{"total_billed": 200},
	}, req)

	if rec.Services == nil {
		t.Fatal("services should be serialized")
	}
	if rec.CoverageBreakdown == nil {
		t.Fatal("coverage breakdown should be serialized")
	}
}

func TestMapBenefitsRecord_JSONBFields(t *testing.T) {
	req := testRequest(DocTypePlanDocument)
	rec := mapBenefitsRecord(map[string]interface{}{
		"plan_name": "Gold PPO",
		"deductibles": []interface{}{
			map[string]interface{}{"amount": 500, "type": "individual"},
		},
		"out_of_pocket_max_individual": 4000,
		"out_of_network_coverage":      true,
	}, req)

	if rec.PlanName != "Gold PPO" {
		t.Errorf("plan name = %q", rec.PlanName)
	}
	if rec.Deductibles == nil {
		t.Error("deductibles should be serialized")
	}
	if rec.Copays != nil {
		t.Error("absent nested fields should stay nil")
	}
	if rec.OutOfPocketMaxIndividual != 4000 {
		t.Errorf("oop max = %v", rec.OutOfPocketMaxIndividual)
	}
	if !rec.OutOfNetworkCoverage {
		t.Error("out of network coverage should be true")
	}
}

func TestMapLabReportRecord_TitlePreferred(t *testing.T) {
	req := testRequest(DocTypeLabReport)
	rec := mapLabReportRecord(map[string]interface{}{
		"title": "CBC Panel",
		"date":  "2024-03-01",
	}, req)
	if rec.Title != "CBC Panel" {
		t.Errorf("title = %q", rec.Title)
	}
	if deref(rec.ReportDate) != "2024-03-01" {
		t.Errorf("report date = %q", deref(rec.ReportDate))
	}
}

func TestUploadRequestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*UploadRequest)
		wantErr string
	}{
		{"valid", func(r *UploadRequest) {}, ""},
		{"missing file", func(r *UploadRequest) { r.FileContent = nil }, "file is required"},
		{"missing userId", func(r *UploadRequest) { r.UserID = "" }, "userId is required"},
		{"missing docType", func(r *UploadRequest) { r.DocType = "" }, "docType is required"},
		{"missing docId", func(r *UploadRequest) { r.DocID = "" }, "docId is required"},
		{"invalid docType", func(r *UploadRequest) { r.DocType = "receipt" }, "invalid docType"},
		{"non-pdf", func(r *UploadRequest) {
			r.FileType = "image/png"
			r.FileName = "scan.png"
		}, "must be a PDF"},
		{"pdf by extension only", func(r *UploadRequest) {
			r.FileType = "application/octet-stream"
		}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testRequest(DocTypeEOB)
			tc.mutate(req)
			err := req.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tc.wantErr)
			}
		})
	}
}
