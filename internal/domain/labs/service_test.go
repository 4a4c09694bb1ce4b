package labs

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	reports []*LabReport
	err     error
}

func (m *mockRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]*LabReport, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	var matched []*LabReport
	for _, r := range m.reports {
		if r.UserID == userID {
			matched = append(matched, r)
		}
	}
	total := len(matched)
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (m *mockRepo) ListAllByUser(_ context.Context, userID string) ([]*LabReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	var matched []*LabReport
	for _, r := range m.reports {
		if r.UserID == userID {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

func (m *mockRepo) GetByDocID(_ context.Context, userID, docID string) (*LabReport, error) {
	for _, r := range m.reports {
		if r.UserID == userID && r.SourceDocumentID == docID {
			return r, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func report(userID, docID, date string, params map[string]Parameter) *LabReport {
	raw, _ := json.Marshal(params)
	var datePtr *string
	if date != "" {
		datePtr = &date
	}
	return &LabReport{
		ID:               uuid.New(),
		UserID:           userID,
		Title:            "CBC Panel",
		ReportDate:       datePtr,
		Parameters:       raw,
		SourceDocumentID: docID,
	}
}

func TestListReports_SummarizesParameters(t *testing.T) {
	repo := &mockRepo{reports: []*LabReport{
		report("user-1", "doc-1", "2024-01-05", map[string]Parameter{
			"Hemoglobin": {Value: "13.5", Unit: "g/dL"},
			"WBC":        {Value: "6.2", Unit: "K/uL"},
		}),
	}}
	svc := NewService(repo)

	items, total, err := svc.ListReports(context.Background(), "user-1", 20, 0)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("total = %d, items = %d", total, len(items))
	}
	if items[0].ParameterCount != 2 {
		t.Errorf("parameter count = %d", items[0].ParameterCount)
	}
	if items[0].DocID != "doc-1" {
		t.Errorf("docId = %q", items[0].DocID)
	}
}

func TestListParameters_DistinctSorted(t *testing.T) {
	repo := &mockRepo{reports: []*LabReport{
		report("user-1", "doc-1", "2024-01-05", map[string]Parameter{
			"Hemoglobin": {Value: "13.5"},
			"WBC":        {Value: "6.2"},
		}),
		report("user-1", "doc-2", "2024-02-10", map[string]Parameter{
			"Hemoglobin": {Value: "12.9"},
			"Glucose":    {Value: "98"},
		}),
		report("user-2", "doc-3", "2024-02-11", map[string]Parameter{
			"Creatinine": {Value: "1.0"},
		}),
	}}
	svc := NewService(repo)

	params, err := svc.ListParameters(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListParameters: %v", err)
	}
	want := []string{"Glucose", "Hemoglobin", "WBC"}
	if len(params) != len(want) {
		t.Fatalf("params = %v", params)
	}
	for i, p := range want {
		if params[i] != p {
			t.Errorf("params[%d] = %q, want %q", i, params[i], p)
		}
	}
}

func TestTimeseries_SortedByDate(t *testing.T) {
	repo := &mockRepo{reports: []*LabReport{
		report("user-1", "doc-2", "2024-06-01", map[string]Parameter{
			"Hemoglobin": {Value: "12.9", Unit: "g/dL"},
		}),
		report("user-1", "doc-1", "2024-01-05", map[string]Parameter{
			"Hemoglobin": {Value: "13.5", Unit: "g/dL"},
		}),
	}}
	svc := NewService(repo)

	points, err := svc.Timeseries(context.Background(), "user-1", "Hemoglobin")
	if err != nil {
		t.Fatalf("Timeseries: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("points = %v", points)
	}
	if points[0].Date != "2024-01-05" || points[1].Date != "2024-06-01" {
		t.Errorf("points out of order: %v", points)
	}
	if points[0].Value != 13.5 {
		t.Errorf("value = %v", points[0].Value)
	}
	if points[0].Unit != "g/dL" {
		t.Errorf("unit = %q", points[0].Unit)
	}
	if points[0].DocID != "doc-1" {
		t.Errorf("docId = %q", points[0].DocID)
	}
}

func TestTimeseries_SkipsNonNumericAndUndated(t *testing.T) {
	repo := &mockRepo{reports: []*LabReport{
		report("user-1", "doc-1", "2024-01-05", map[string]Parameter{
			"Hemoglobin": {Value: "see note"},
		}),
		report("user-1", "doc-2", "", map[string]Parameter{
			"Hemoglobin": {Value: "13.1"},
		}),
		report("user-1", "doc-3", "2024-03-01", map[string]Parameter{
			"Hemoglobin": {Value: "12.7"},
		}),
	}}
	svc := NewService(repo)

	points, err := svc.Timeseries(context.Background(), "user-1", "Hemoglobin")
	if err != nil {
		t.Fatalf("Timeseries: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("points = %v", points)
	}
	if points[0].DocID != "doc-3" {
		t.Errorf("docId = %q", points[0].DocID)
	}
}

func TestExtractNumericValue(t *testing.T) {
	cases := []struct {
		in   interface{}
		want float64
		ok   bool
	}{
		{13.5, 13.5, true},
		{"13.5", 13.5, true},
		{"<5", 5, true},
		{"1,200", 1200, true},
		{"11.0 gm%", 11, true},
		{"negative", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, tc := range cases {
		got, ok := extractNumericValue(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("extractNumericValue(%v) = %v,%v want %v,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestExtractUnit(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"11.0 gm%", "gm%"},
		{"98 mg/dL", "mg/dL"},
		{"13.5", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := extractUnit(tc.in); got != tc.want {
			t.Errorf("extractUnit(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
