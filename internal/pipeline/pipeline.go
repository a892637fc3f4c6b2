// Package pipeline orchestrates complaint ingestion and similarity lookup:
// validate, resolve company and product, summarize, persist, categorize,
// link, embed, index. Stages run strictly in order; no stage is retried and
// a failure aborts only the complaint that owns it.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"complaintflow/internal/models"
	"complaintflow/internal/providers"
	"complaintflow/internal/vectorindex"
)

type RelationalStore interface {
	UpsertCompany(ctx context.Context, name string) (int64, error)
	UpsertProduct(ctx context.Context, name string) (int64, error)
	UpsertComplaint(ctx context.Context, in models.ComplaintInput, companyID, productID int64, summary string) (int64, string, error)
	GetComplaintByID(ctx context.Context, id int64) (models.Complaint, bool, error)
}

type CategoryStore interface {
	UpsertCategory(ctx context.Context, name string) (int64, error)
	LinkCategory(ctx context.Context, complaintID, categoryID int64) error
}

type TextEnricher interface {
	Classify(ctx context.Context, narrative string) (string, error)
	Categorize(ctx context.Context, issue string) (string, error)
	Summarize(ctx context.Context, narrative string) (string, error)
}

type VectorIndex interface {
	Upsert(ctx context.Context, id string, vector []float32, metadata models.IndexMetadata) error
	Query(ctx context.Context, vector []float32, topK int) ([]vectorindex.Match, error)
}

type Pipeline struct {
	store      RelationalStore
	categories CategoryStore
	enricher   TextEnricher
	embedder   providers.EmbeddingProvider
	index      VectorIndex
	embedDim   int
	log        *slog.Logger
}

func New(store RelationalStore, categories CategoryStore, enricher TextEnricher, embedder providers.EmbeddingProvider, index VectorIndex, embedDim int, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		store:      store,
		categories: categories,
		enricher:   enricher,
		embedder:   embedder,
		index:      index,
		embedDim:   embedDim,
		log:        log,
	}
}

type IngestResult struct {
	RowID       int64  `json:"row_id"`
	ComplaintID string `json:"complaint_id"`
	Summary     string `json:"summary"`
	Category    string `json:"category"`
}

// Ingest runs the full stage sequence for one complaint. The relational
// write and the index write are deliberately not transactional: an index
// failure leaves the row persisted and queryable by id, just not
// similarity-searchable yet.
func (p *Pipeline) Ingest(ctx context.Context, in models.ComplaintInput) (IngestResult, error) {
	if missing := MissingFields(in); len(missing) > 0 {
		return IngestResult{}, &ValidationError{ComplaintID: in.ComplaintID, Missing: missing}
	}

	companyID, err := p.store.UpsertCompany(ctx, in.Company)
	if err != nil {
		return IngestResult{}, &PersistenceError{ComplaintID: in.ComplaintID, Stage: "resolve-company", Err: err}
	}
	productID, err := p.store.UpsertProduct(ctx, in.Product)
	if err != nil {
		return IngestResult{}, &PersistenceError{ComplaintID: in.ComplaintID, Stage: "resolve-product", Err: err}
	}

	summary, err := p.enricher.Summarize(ctx, in.Narrative)
	if err != nil {
		return IngestResult{}, &ExternalServiceError{ComplaintID: in.ComplaintID, Stage: "summarize", Err: err}
	}

	rowID, externalID, err := p.store.UpsertComplaint(ctx, in, companyID, productID, summary)
	if err != nil {
		return IngestResult{}, &PersistenceError{ComplaintID: in.ComplaintID, Stage: "persist-complaint", Err: err}
	}

	category, err := p.enricher.Categorize(ctx, in.Issue)
	if err != nil {
		return IngestResult{}, &ExternalServiceError{ComplaintID: externalID, Stage: "categorize", Err: err}
	}
	categoryID, err := p.categories.UpsertCategory(ctx, category)
	if err != nil {
		return IngestResult{}, &PersistenceError{ComplaintID: externalID, Stage: "persist-category", Err: err}
	}
	if err := p.categories.LinkCategory(ctx, rowID, categoryID); err != nil {
		return IngestResult{}, &PersistenceError{ComplaintID: externalID, Stage: "persist-category-link", Err: err}
	}

	vec, err := p.embedNarrative(ctx, in.Narrative)
	if err != nil {
		return IngestResult{}, &ExternalServiceError{ComplaintID: externalID, Stage: "embed", Err: err}
	}
	metadata := models.IndexMetadata{
		Text:     in.Narrative,
		Summary:  summary,
		Category: category,
		Product:  in.Product,
		Company:  in.Company,
	}
	if err := p.index.Upsert(ctx, strconv.FormatInt(rowID, 10), vec, metadata); err != nil {
		return IngestResult{}, &ExternalServiceError{ComplaintID: externalID, Stage: "index-upsert", Err: err}
	}

	p.log.Info("complaint ingested", "complaint_id", externalID, "row_id", rowID, "category", category)
	return IngestResult{RowID: rowID, ComplaintID: externalID, Summary: summary, Category: category}, nil
}

type BatchItemResult struct {
	Index          int    `json:"index"`
	ComplaintID    string `json:"complaint_id"`
	RowID          int64  `json:"row_id,omitempty"`
	Classification string `json:"classification,omitempty"`
	Category       string `json:"category,omitempty"`
	Status         string `json:"status"`
	Error          string `json:"error,omitempty"`
}

// IngestBatch processes records strictly in input order. A failed item is
// reported and the batch moves on; one bad record never halts the rest.
// Batch items are additionally classified, and the answer is reported
// without being persisted.
func (p *Pipeline) IngestBatch(ctx context.Context, records []models.ComplaintInput) []BatchItemResult {
	results := make([]BatchItemResult, 0, len(records))
	for idx, in := range records {
		item := BatchItemResult{Index: idx, ComplaintID: in.ComplaintID, Status: "done"}

		classification, err := p.enricher.Classify(ctx, in.Narrative)
		if err != nil {
			p.log.Warn("classification failed", "complaint_id", in.ComplaintID, "provider_error", providers.ClassifyError(err), "error", err)
		} else {
			item.Classification = classification
		}

		res, err := p.Ingest(ctx, in)
		if err != nil {
			item.Status = "failed"
			item.Error = err.Error()
			p.log.Error("batch item failed", failureAttrs(err, "index", idx, "complaint_id", in.ComplaintID)...)
			results = append(results, item)
			continue
		}
		item.ComplaintID = res.ComplaintID
		item.RowID = res.RowID
		item.Category = res.Category
		results = append(results, item)
	}
	return results
}

func (p *Pipeline) embedNarrative(ctx context.Context, text string) ([]float32, error) {
	vectors, _, err := p.embedder.Embed(ctx, providers.EmbedRequest{
		Operation: "complaint_embed",
		Inputs:    []string{text},
		Dimension: p.embedDim,
	})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, errEmptyEmbedding
	}
	return vectors[0], nil
}

// failureAttrs builds log attributes for a failed stage, bucketing provider
// failures for log context. Buckets are never acted on; no stage is retried.
func failureAttrs(err error, attrs ...any) []any {
	attrs = append(attrs, "error", err)
	var xerr *ExternalServiceError
	if errors.As(err, &xerr) {
		attrs = append(attrs, "provider_error", providers.ClassifyError(xerr.Err))
	}
	return attrs
}
