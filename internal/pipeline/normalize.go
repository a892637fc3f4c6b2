package pipeline

import (
	"strings"
	"time"

	"complaintflow/internal/models"
)

// Both inbound record variants normalize into one models.ComplaintInput
// before entering the pipeline, replacing the runtime shape-check the
// original used to tell them apart.

func FromAPIRecord(r models.APIRecord) models.ComplaintInput {
	return models.ComplaintInput{
		ComplaintID:      r.ComplaintID,
		Company:          r.Company,
		Product:          r.Product,
		SubProduct:       r.SubProduct,
		Issue:            r.Issue,
		SubIssue:         r.SubIssue,
		State:            r.State,
		ZipCode:          r.ZipCode,
		SubmittedVia:     r.SubmittedVia,
		CompanyResponse:  r.CompanyResponse,
		Timely:           r.Timely,
		ConsumerDisputed: r.ConsumerDisputed,
		Narrative:        sanitizeText(r.Narrative),
	}
}

func FromExportRecord(r models.ExportRecord) models.ComplaintInput {
	s := r.Source
	externalID := s.ComplaintID
	if externalID == "" {
		externalID = r.ID
	}
	in := models.ComplaintInput{
		ComplaintID:      externalID,
		Company:          s.Company,
		Product:          s.Product,
		SubProduct:       s.SubProduct,
		Issue:            s.Issue,
		SubIssue:         s.SubIssue,
		State:            s.State,
		ZipCode:          s.ZipCode,
		SubmittedVia:     s.SubmittedVia,
		CompanyResponse:  s.CompanyResponse,
		Timely:           s.Timely,
		ConsumerDisputed: s.ConsumerDisputed,
		Narrative:        sanitizeText(s.Narrative),
	}
	if t, err := time.Parse(time.RFC3339, s.DateReceived); err == nil {
		in.DateReceived = t
	}
	return in
}

// sanitizeText strips bytes Postgres text columns reject (NUL in particular,
// which search-export dumps occasionally carry) and non-printing controls
// other than common whitespace.
func sanitizeText(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\x00", "")
	r := make([]rune, 0, len(s))
	for _, ch := range s {
		if ch == '\n' || ch == '\r' || ch == '\t' {
			r = append(r, ch)
			continue
		}
		if ch < 0x20 {
			continue
		}
		r = append(r, ch)
	}
	return strings.TrimSpace(string(r))
}

// MissingFields lists the required fields absent from the record, in the
// order the API reports them.
func MissingFields(in models.ComplaintInput) []string {
	var missing []string
	if in.Company == "" {
		missing = append(missing, "company")
	}
	if in.Product == "" {
		missing = append(missing, "product")
	}
	if in.Narrative == "" {
		missing = append(missing, "complaint_what_happened")
	}
	return missing
}
