package ingest

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// Field mapping from the extraction payloads (snake_case JSON objects)
// into the typed records. Missing optional fields get documented defaults;
// nested structures are re-marshaled as opaque JSONB text.

func mapBenefitsRecord(payload map[string]interface{}, req *UploadRequest) *BenefitsRecord {
	planName := getString(payload, "plan_name")
	if planName == "" {
		planName = fmt.Sprintf("Unknown Plan - %s", req.DocID)
	}
	return &BenefitsRecord{
		PlanName:          planName,
		PlanType:          getStringPtr(payload, "plan_type"),
		InsuranceProvider: getStringPtr(payload, "insurance_provider"),
		PolicyNumber:      getStringPtr(payload, "policy_number"),
		GroupNumber:       getStringPtr(payload, "group_number"),
		EffectiveDate:     getStringPtr(payload, "effective_date"),
		ExpirationDate:    getStringPtr(payload, "expiration_date"),

		Deductibles:             marshalField(payload, "deductibles"),
		Copays:                  marshalField(payload, "copays"),
		Coinsurance:             marshalField(payload, "coinsurance"),
		CoverageLimits:          marshalField(payload, "coverage_limits"),
		Services:                marshalField(payload, "services"),
		PreauthRequiredServices: marshalField(payload, "preauth_required_services"),
		Exclusions:              marshalField(payload, "exclusions"),
		SpecialPrograms:         marshalField(payload, "special_programs"),

		OutOfPocketMaxIndividual: getFloat(payload, "out_of_pocket_max_individual"),
		OutOfPocketMaxFamily:     getFloat(payload, "out_of_pocket_max_family"),
		InNetworkProviders:       getStringPtr(payload, "in_network_providers"),
		OutOfNetworkCoverage:     getBool(payload, "out_of_network_coverage"),
		NetworkNotes:             getStringPtr(payload, "network_notes"),
		PreauthNotes:             getStringPtr(payload, "preauth_notes"),
		ExclusionNotes:           getStringPtr(payload, "exclusion_notes"),
		AdditionalBenefits:       getStringPtr(payload, "additional_benefits"),
		Notes:                    getStringPtr(payload, "notes"),

		SourceDocumentID: req.DocID,
		UserID:           req.UserID,
		ExtractedDate:    time.Now().UTC(),
	}
}

func mapLabReportRecord(payload map[string]interface{}, req *UploadRequest) *LabReportRecord {
	title := getString(payload, "title")
	if title == "" {
		title = titleFromFilename(req.FileName)
	}
	return &LabReportRecord{
		UserID:           req.UserID,
		Title:            title,
		ReportDate:       getStringPtr(payload, "date"),
		Hospital:         getStringPtr(payload, "hospital"),
		Doctor:           getStringPtr(payload, "doctor"),
		Parameters:       marshalField(payload, "parameters"),
		RawExtract:       getStringPtr(payload, "rawExtract"),
		SourceDocumentID: req.DocID,
		ExtractedDate:    time.Now().UTC(),
	}
}

func mapEOBRecord(payload map[string]interface{}, req *UploadRequest) *EOBRecord {
	claimNumber := getString(payload, "claim_number")
	if claimNumber == "" {
		claimNumber = req.DocID
	}
	return &EOBRecord{
		UserID:        req.UserID,
		ClaimNumber:   claimNumber,
		MemberName:    getStringOr(payload, "member_name", "Unknown"),
		MemberAddress: getStringPtr(payload, "member_address"),
		MemberID:      getStringPtr(payload, "member_id"),
		GroupNumber:   getStringPtr(payload, "group_number"),
		ClaimDate:     getStringPtr(payload, "claim_date"),
		ProviderName:  getStringOr(payload, "provider_name", "Unknown"),
		ProviderNPI:   getStringPtr(payload, "provider_npi"),

		TotalBilled:           getFloat(payload, "total_billed"),
		TotalBenefitsApproved: getFloat(payload, "total_benefits_approved"),
		AmountYouOwe:          getFloat(payload, "amount_you_owe"),

		Services:          marshalField(payload, "services"),
		CoverageBreakdown: marshalField(payload, "coverage_breakdown"),
		Alerts:            marshalField(payload, "alerts"),
		Discrepancies:     marshalField(payload, "discrepancies"),

		InsuranceProvider: getStringPtr(payload, "insurance_provider"),
		PlanName:          getStringPtr(payload, "plan_name"),
		PolicyNumber:      getStringPtr(payload, "policy_number"),

		SourceDocumentID: req.DocID,
		ExtractedDate:    time.Now().UTC(),
	}
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func getStringOr(m map[string]interface{}, key, def string) string {
	if s := getString(m, key); s != "" {
		return s
	}
	return def
}

func getStringPtr(m map[string]interface{}, key string) *string {
	if s := getString(m, key); s != "" {
		return &s
	}
	return nil
}

// getFloat tolerates numbers arriving as JSON numbers or numeric strings;
// anything else collapses to zero so monetary fields stay non-null.
func getFloat(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.ReplaceAll(v, ",", ""), "%f", &f); err == nil {
			return f
		}
	}
	return 0
}

func getBool(m map[string]interface{}, key string) bool {
	v, _ := m[key].(bool)
	return v
}

// marshalField re-serializes a nested payload value as raw JSON for a
// JSONB column. Absent or unmarshalable values map to nil (SQL NULL).
func marshalField(m map[string]interface{}, key string) json.RawMessage {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

// titleFromFilename derives a report title: "cbc_panel_2024.pdf" becomes
// "Cbc Panel 2024".
func titleFromFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	words := strings.Fields(base)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	if len(words) == 0 {
		return "Lab Report"
	}
	return strings.Join(words, " ")
}
