package labs

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Service aggregates persisted lab reports for the dashboard: report
// lists, distinct parameter names, and per-parameter time series.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListReports(ctx context.Context, userID string, limit, offset int) ([]*ReportSummary, int, error) {
	reports, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	summaries := make([]*ReportSummary, 0, len(reports))
	for _, rep := range reports {
		summaries = append(summaries, rep.Summary())
	}
	return summaries, total, nil
}

func (s *Service) GetReport(ctx context.Context, userID, docID string) (*LabReport, error) {
	return s.repo.GetByDocID(ctx, userID, docID)
}

// ListParameters returns the distinct parameter names across all of the
// user's reports, sorted.
func (s *Service) ListParameters(ctx context.Context, userID string) ([]string, error) {
	reports, err := s.repo.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, rep := range reports {
		for name := range rep.decodeParameters() {
			name = strings.TrimSpace(name)
			if name != "" {
				seen[name] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Timeseries builds the dated numeric observations of one parameter
// across the user's reports, sorted by date. Reports without a date and
// values that are not numeric are skipped.
func (s *Service) Timeseries(ctx context.Context, userID, parameter string) ([]TimeseriesPoint, error) {
	reports, err := s.repo.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	points := make([]TimeseriesPoint, 0)
	for _, rep := range reports {
		if rep.ReportDate == nil || *rep.ReportDate == "" {
			continue
		}
		param, ok := rep.decodeParameters()[parameter]
		if !ok {
			continue
		}
		value, ok := extractNumericValue(param.Value)
		if !ok {
			continue
		}
		unit := param.Unit
		if unit == "" {
			if raw, isStr := param.Value.(string); isStr {
				unit = extractUnit(raw)
			}
		}
		points = append(points, TimeseriesPoint{
			Date:  *rep.ReportDate,
			Value: value,
			Unit:  unit,
			DocID: rep.SourceDocumentID,
		})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points, nil
}

var (
	numberRe = regexp.MustCompile(`(\d+\.?\d*)`)
	unitRe   = regexp.MustCompile(`\d+\.?\d*\s*([a-zA-Z%/]+)`)
)

// extractNumericValue pulls the first number out of a value that may be a
// JSON number or a string with comparators, commas, or a trailing unit
// ("<5", "1,200", "11.0 gm%").
func extractNumericValue(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		m := numberRe.FindString(strings.ReplaceAll(val, ",", ""))
		if m == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// extractUnit pulls a trailing unit from a combined value string, e.g.
// "11.0 gm%" yields "gm%".
func extractUnit(raw string) string {
	m := unitRe.FindStringSubmatch(strings.ReplaceAll(raw, ",", ""))
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
