package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"complaintflow/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ComplaintRepo struct {
	db *DB
}

func NewComplaintRepo(db *DB) *ComplaintRepo {
	return &ComplaintRepo{db: db}
}

// UpsertCompany inserts the company if absent and returns its id either way.
// The no-op update on conflict keeps RETURNING populated for existing rows.
func (r *ComplaintRepo) UpsertCompany(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.Pool.QueryRow(ctx, `
INSERT INTO companies (name) VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert company: %w", err)
	}
	return id, nil
}

func (r *ComplaintRepo) UpsertProduct(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.Pool.QueryRow(ctx, `
INSERT INTO products (name) VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert product: %w", err)
	}
	return id, nil
}

// UpsertComplaint writes the complaint row keyed by its external id,
// generating a synthetic one when the source record supplies none. A conflict
// overwrites every mutable field, last write wins. Returns the surrogate row
// id and the external id actually used.
func (r *ComplaintRepo) UpsertComplaint(ctx context.Context, in models.ComplaintInput, companyID, productID int64, summary string) (int64, string, error) {
	externalID := in.ComplaintID
	if strings.TrimSpace(externalID) == "" {
		externalID = newComplaintRef()
	}
	received := in.DateReceived
	if received.IsZero() {
		received = time.Now()
	}

	var id int64
	err := r.db.Pool.QueryRow(ctx, `
INSERT INTO complaints (
    complaint_id, date_received, product_id, sub_product, issue, sub_issue,
    company_id, state, zip_code, submitted_via, company_response, timely,
    consumer_disputed, complaint_text, summary
) VALUES ($1, $2, $3, NULLIF($4,''), NULLIF($5,''), NULLIF($6,''), $7, NULLIF($8,''), NULLIF($9,''), $10, $11, $12, $13, $14, $15)
ON CONFLICT (complaint_id)
DO UPDATE SET
  date_received = EXCLUDED.date_received,
  product_id = EXCLUDED.product_id,
  sub_product = EXCLUDED.sub_product,
  issue = EXCLUDED.issue,
  sub_issue = EXCLUDED.sub_issue,
  company_id = EXCLUDED.company_id,
  state = EXCLUDED.state,
  zip_code = EXCLUDED.zip_code,
  submitted_via = EXCLUDED.submitted_via,
  company_response = EXCLUDED.company_response,
  timely = EXCLUDED.timely,
  consumer_disputed = EXCLUDED.consumer_disputed,
  complaint_text = EXCLUDED.complaint_text,
  summary = EXCLUDED.summary
RETURNING id`,
		externalID, received, productID, in.SubProduct, in.Issue, in.SubIssue,
		companyID, truncateState(in.State), in.ZipCode,
		orDefault(in.SubmittedVia, "Web"), orDefault(in.CompanyResponse, "Pending"),
		orDefault(in.Timely, "Yes"), orDefault(in.ConsumerDisputed, "N/A"),
		in.Narrative, summary,
	).Scan(&id)
	if err != nil {
		return 0, "", fmt.Errorf("upsert complaint %s: %w", externalID, err)
	}
	return id, externalID, nil
}

// GetComplaintByID fetches the full row with company and product names
// joined. A missing row reports found=false rather than an error so callers
// can tolerate index/store drift.
func (r *ComplaintRepo) GetComplaintByID(ctx context.Context, id int64) (models.Complaint, bool, error) {
	var c models.Complaint
	err := r.db.Pool.QueryRow(ctx, `
SELECT c.id, c.complaint_id, c.date_received,
       COALESCE(c.product_id, 0), COALESCE(p.name, ''),
       COALESCE(c.sub_product, ''), COALESCE(c.issue, ''), COALESCE(c.sub_issue, ''),
       COALESCE(c.company_id, 0), COALESCE(co.name, ''),
       COALESCE(c.state, ''), COALESCE(c.zip_code, ''), COALESCE(c.submitted_via, ''),
       COALESCE(c.company_response, ''), COALESCE(c.timely, ''), COALESCE(c.consumer_disputed, ''),
       COALESCE(c.complaint_text, ''), COALESCE(c.summary, '')
FROM complaints c
LEFT JOIN products p ON p.id = c.product_id
LEFT JOIN companies co ON co.id = c.company_id
WHERE c.id = $1`, id).
		Scan(&c.ID, &c.ComplaintID, &c.DateReceived,
			&c.ProductID, &c.Product,
			&c.SubProduct, &c.Issue, &c.SubIssue,
			&c.CompanyID, &c.Company,
			&c.State, &c.ZipCode, &c.SubmittedVia,
			&c.CompanyResponse, &c.Timely, &c.ConsumerDisputed,
			&c.ComplaintText, &c.Summary)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Complaint{}, false, nil
	}
	if err != nil {
		return models.Complaint{}, false, fmt.Errorf("get complaint %d: %w", id, err)
	}
	return c, true, nil
}

func newComplaintRef() string {
	return fmt.Sprintf("COMP-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// State codes are stored as two characters; longer input is truncated rather
// than rejected. Truncation counts runes so multi-byte input stays valid UTF-8.
func truncateState(s string) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > 2 {
		return string(r[:2])
	}
	return s
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
