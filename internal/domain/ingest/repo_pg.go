package ingest

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carepilot/carepilot/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.WithTx(ctx, r.pool, fn)
}

func (r *repoPG) UpsertInsuranceBenefits(ctx context.Context, rec *BenefitsRecord) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	var id uuid.UUID
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO insurance_benefits (id, plan_name, plan_type, insurance_provider,
			policy_number, group_number, effective_date, expiration_date,
			deductibles, copays, coinsurance, coverage_limits, services,
			preauth_required_services, exclusions, special_programs,
			out_of_pocket_max_individual, out_of_pocket_max_family,
			in_network_providers, out_of_network_coverage, network_notes,
			preauth_notes, exclusion_notes, additional_benefits, notes,
			source_document_id, user_id, extracted_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,
			$19,$20,$21,$22,$23,$24,$25,$26,$27,$28)
		ON CONFLICT (plan_name, policy_number, user_id) DO UPDATE SET
			plan_type = EXCLUDED.plan_type,
			insurance_provider = EXCLUDED.insurance_provider,
			group_number = EXCLUDED.group_number,
			effective_date = EXCLUDED.effective_date,
			expiration_date = EXCLUDED.expiration_date,
			deductibles = EXCLUDED.deductibles,
			copays = EXCLUDED.copays,
			coinsurance = EXCLUDED.coinsurance,
			coverage_limits = EXCLUDED.coverage_limits,
			services = EXCLUDED.services,
			preauth_required_services = EXCLUDED.preauth_required_services,
			exclusions = EXCLUDED.exclusions,
			special_programs = EXCLUDED.special_programs,
			out_of_pocket_max_individual = EXCLUDED.out_of_pocket_max_individual,
			out_of_pocket_max_family = EXCLUDED.out_of_pocket_max_family,
			in_network_providers = EXCLUDED.in_network_providers,
			out_of_network_coverage = EXCLUDED.out_of_network_coverage,
			network_notes = EXCLUDED.network_notes,
			preauth_notes = EXCLUDED.preauth_notes,
			exclusion_notes = EXCLUDED.exclusion_notes,
			additional_benefits = EXCLUDED.additional_benefits,
			notes = EXCLUDED.notes,
			source_document_id = EXCLUDED.source_document_id,
			extracted_date = EXCLUDED.extracted_date,
			updated_at = NOW()
		RETURNING id`,
		rec.ID, rec.PlanName, rec.PlanType, rec.InsuranceProvider,
		rec.PolicyNumber, rec.GroupNumber, rec.EffectiveDate, rec.ExpirationDate,
		rec.Deductibles, rec.Copays, rec.Coinsurance, rec.CoverageLimits, rec.Services,
		rec.PreauthRequiredServices, rec.Exclusions, rec.SpecialPrograms,
		rec.OutOfPocketMaxIndividual, rec.OutOfPocketMaxFamily,
		rec.InNetworkProviders, rec.OutOfNetworkCoverage, rec.NetworkNotes,
		rec.PreauthNotes, rec.ExclusionNotes, rec.AdditionalBenefits, rec.Notes,
		rec.SourceDocumentID, rec.UserID, rec.ExtractedDate).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}
	rec.ID = id
	return id, nil
}

func (r *repoPG) UpsertLabReport(ctx context.Context, rec *LabReportRecord) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	var id uuid.UUID
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO lab_reports (id, user_id, title, report_date, hospital, doctor,
			parameters, raw_extract, source_document_id, extracted_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (user_id, source_document_id) DO UPDATE SET
			title = EXCLUDED.title,
			report_date = EXCLUDED.report_date,
			hospital = EXCLUDED.hospital,
			doctor = EXCLUDED.doctor,
			parameters = EXCLUDED.parameters,
			raw_extract = EXCLUDED.raw_extract,
			extracted_date = EXCLUDED.extracted_date,
			updated_at = NOW()
		RETURNING id`,
		rec.ID, rec.UserID, rec.Title, rec.ReportDate, rec.Hospital, rec.Doctor,
		rec.Parameters, rec.RawExtract, rec.SourceDocumentID, rec.ExtractedDate).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}
	rec.ID = id
	return id, nil
}

func (r *repoPG) UpsertEOBRecord(ctx context.Context, rec *EOBRecord) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	var id uuid.UUID
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO eob_records (id, user_id, claim_number, member_name, member_address,
			member_id, group_number, claim_date, provider_name, provider_npi,
			total_billed, total_benefits_approved, amount_you_owe,
			services, coverage_breakdown, alerts, discrepancies,
			insurance_provider, plan_name, policy_number,
			source_document_id, extracted_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,
			$19,$20,$21,$22)
		ON CONFLICT (claim_number, user_id) DO UPDATE SET
			member_name = EXCLUDED.member_name,
			member_address = EXCLUDED.member_address,
			member_id = EXCLUDED.member_id,
			group_number = EXCLUDED.group_number,
			claim_date = EXCLUDED.claim_date,
			provider_name = EXCLUDED.provider_name,
			provider_npi = EXCLUDED.provider_npi,
			total_billed = EXCLUDED.total_billed,
			total_benefits_approved = EXCLUDED.total_benefits_approved,
			amount_you_owe = EXCLUDED.amount_you_owe,
			services = EXCLUDED.services,
			coverage_breakdown = EXCLUDED.coverage_breakdown,
			alerts = EXCLUDED.alerts,
			discrepancies = EXCLUDED.discrepancies,
			insurance_provider = EXCLUDED.insurance_provider,
			plan_name = EXCLUDED.plan_name,
			policy_number = EXCLUDED.policy_number,
			source_document_id = EXCLUDED.source_document_id,
			extracted_date = EXCLUDED.extracted_date,
			updated_at = NOW()
		RETURNING id`,
		rec.ID, rec.UserID, rec.ClaimNumber, rec.MemberName, rec.MemberAddress,
		rec.MemberID, rec.GroupNumber, rec.ClaimDate, rec.ProviderName, rec.ProviderNPI,
		rec.TotalBilled, rec.TotalBenefitsApproved, rec.AmountYouOwe,
		rec.Services, rec.CoverageBreakdown, rec.Alerts, rec.Discrepancies,
		rec.InsuranceProvider, rec.PlanName, rec.PolicyNumber,
		rec.SourceDocumentID, rec.ExtractedDate).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}
	rec.ID = id
	return id, nil
}
