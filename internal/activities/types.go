package activities

import "complaintflow/internal/models"

type ClassifyComplaintInput struct {
	ComplaintID string `json:"complaint_id"`
	Narrative   string `json:"narrative"`
}

type ClassifyComplaintOutput struct {
	Classification string `json:"classification"`
}

type ResolveCompanyInput struct {
	Name string `json:"name"`
}

type ResolveCompanyOutput struct {
	CompanyID int64 `json:"company_id"`
}

type ResolveProductInput struct {
	Name string `json:"name"`
}

type ResolveProductOutput struct {
	ProductID int64 `json:"product_id"`
}

type SummarizeComplaintInput struct {
	ComplaintID string `json:"complaint_id"`
	Narrative   string `json:"narrative"`
}

type SummarizeComplaintOutput struct {
	Summary string `json:"summary"`
}

type PersistComplaintInput struct {
	Record    models.ComplaintInput `json:"record"`
	CompanyID int64                 `json:"company_id"`
	ProductID int64                 `json:"product_id"`
	Summary   string                `json:"summary"`
}

type PersistComplaintOutput struct {
	RowID       int64  `json:"row_id"`
	ComplaintID string `json:"complaint_id"`
}

type CategorizeComplaintInput struct {
	ComplaintID string `json:"complaint_id"`
	Issue       string `json:"issue"`
}

type CategorizeComplaintOutput struct {
	Category string `json:"category"`
}

type LinkCategoryInput struct {
	RowID    int64  `json:"row_id"`
	Category string `json:"category"`
}

type LinkCategoryOutput struct {
	CategoryID int64 `json:"category_id"`
}

type EmbedComplaintInput struct {
	ComplaintID string `json:"complaint_id"`
	Narrative   string `json:"narrative"`
}

type EmbedComplaintOutput struct {
	Vector []float32 `json:"vector"`
}

type IndexUpsertInput struct {
	RowID    int64                `json:"row_id"`
	Vector   []float32            `json:"vector"`
	Metadata models.IndexMetadata `json:"metadata"`
}
