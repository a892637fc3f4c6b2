package models

import "time"

// ComplaintInput is the normalized record every inbound variant produces
// before it enters the ingestion pipeline.
type ComplaintInput struct {
	ComplaintID      string    `json:"complaint_id,omitempty"`
	Company          string    `json:"company"`
	Product          string    `json:"product"`
	SubProduct       string    `json:"sub_product,omitempty"`
	Issue            string    `json:"issue,omitempty"`
	SubIssue         string    `json:"sub_issue,omitempty"`
	State            string    `json:"state,omitempty"`
	ZipCode          string    `json:"zip_code,omitempty"`
	SubmittedVia     string    `json:"submitted_via,omitempty"`
	CompanyResponse  string    `json:"company_response,omitempty"`
	Timely           string    `json:"timely,omitempty"`
	ConsumerDisputed string    `json:"consumer_disputed,omitempty"`
	Narrative        string    `json:"complaint_what_happened"`
	DateReceived     time.Time `json:"date_received,omitempty"`
}

// APIRecord is the flat payload of POST /api/complaints.
type APIRecord struct {
	ComplaintID      string `json:"complaint_id,omitempty"`
	Company          string `json:"company"`
	Product          string `json:"product"`
	SubProduct       string `json:"sub_product,omitempty"`
	Issue            string `json:"issue,omitempty"`
	SubIssue         string `json:"sub_issue,omitempty"`
	State            string `json:"state,omitempty"`
	ZipCode          string `json:"zip_code,omitempty"`
	SubmittedVia     string `json:"submitted_via,omitempty"`
	CompanyResponse  string `json:"company_response,omitempty"`
	Timely           string `json:"timely,omitempty"`
	ConsumerDisputed string `json:"consumer_disputed,omitempty"`
	Narrative        string `json:"complaint_what_happened"`
}

// ExportRecord is one document of a search-index export dump, the shape the
// batch runner consumes. Fields live under _source.
type ExportRecord struct {
	ID     string       `json:"_id"`
	Source ExportSource `json:"_source"`
}

type ExportSource struct {
	ComplaintID      string `json:"complaint_id"`
	Company          string `json:"company"`
	Product          string `json:"product"`
	SubProduct       string `json:"sub_product"`
	Issue            string `json:"issue"`
	SubIssue         string `json:"sub_issue"`
	State            string `json:"state"`
	ZipCode          string `json:"zip_code"`
	SubmittedVia     string `json:"submitted_via"`
	CompanyResponse  string `json:"company_response"`
	Timely           string `json:"timely"`
	ConsumerDisputed string `json:"consumer_disputed"`
	Narrative        string `json:"complaint_what_happened"`
	DateReceived     string `json:"date_received"`
}

// Complaint is the persisted relational row, with company and product names
// joined in for presentation.
type Complaint struct {
	ID               int64     `json:"id"`
	ComplaintID      string    `json:"complaint_id"`
	DateReceived     time.Time `json:"date_received"`
	ProductID        int64     `json:"product_id"`
	Product          string    `json:"product,omitempty"`
	SubProduct       string    `json:"sub_product,omitempty"`
	Issue            string    `json:"issue,omitempty"`
	SubIssue         string    `json:"sub_issue,omitempty"`
	CompanyID        int64     `json:"company_id"`
	Company          string    `json:"company,omitempty"`
	State            string    `json:"state,omitempty"`
	ZipCode          string    `json:"zip_code,omitempty"`
	SubmittedVia     string    `json:"submitted_via,omitempty"`
	CompanyResponse  string    `json:"company_response,omitempty"`
	Timely           string    `json:"timely,omitempty"`
	ConsumerDisputed string    `json:"consumer_disputed,omitempty"`
	ComplaintText    string    `json:"complaint_text"`
	Summary          string    `json:"summary,omitempty"`
}

// IndexMetadata is the payload stored alongside each vector so matches can be
// rendered without a relational join.
type IndexMetadata struct {
	Text     string `json:"text"`
	Summary  string `json:"summary"`
	Category string `json:"category"`
	Product  string `json:"product"`
	Company  string `json:"company"`
}

// SimilarComplaint is one similarity match. Detail is nil when the relational
// row behind the index entry no longer exists.
type SimilarComplaint struct {
	ID       string        `json:"id"`
	Score    float64       `json:"score"`
	Metadata IndexMetadata `json:"metadata"`
	Detail   *Complaint    `json:"details,omitempty"`
}
