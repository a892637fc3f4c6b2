package activities

import (
	"context"
	"fmt"
	"strconv"

	"complaintflow/internal/config"
	"complaintflow/internal/enrich"
	"complaintflow/internal/providers"
	"complaintflow/internal/storage"
	"complaintflow/internal/vectorindex"
)

type Activities struct {
	cfg        config.Config
	complaints *storage.ComplaintRepo
	categories *storage.CategoryRepo
	enricher   *enrich.Enricher
	embedder   providers.EmbeddingProvider
	index      *vectorindex.Index
}

func New(cfg config.Config, db *storage.DB) (*Activities, error) {
	llm, err := providers.NewLLM(cfg.LLMProvider, cfg.EmbedDim)
	if err != nil {
		return nil, err
	}
	embedder, err := providers.NewEmbedder(cfg.EmbedProvider, cfg.EmbedDim)
	if err != nil {
		return nil, err
	}
	return &Activities{
		cfg:        cfg,
		complaints: storage.NewComplaintRepo(db),
		categories: storage.NewCategoryRepo(db),
		enricher:   enrich.New(llm, cfg.SummaryMaxTokens),
		embedder:   embedder,
		index: vectorindex.New(vectorindex.Config{
			URL:        cfg.QdrantURL,
			APIKey:     cfg.QdrantAPIKey,
			Collection: cfg.QdrantCollection,
		}),
	}, nil
}

func (a *Activities) ClassifyComplaintActivity(ctx context.Context, in ClassifyComplaintInput) (ClassifyComplaintOutput, error) {
	answer, err := a.enricher.Classify(ctx, in.Narrative)
	if err != nil {
		return ClassifyComplaintOutput{}, fmt.Errorf("classify complaint %s: %w", in.ComplaintID, err)
	}
	return ClassifyComplaintOutput{Classification: answer}, nil
}

func (a *Activities) ResolveCompanyActivity(ctx context.Context, in ResolveCompanyInput) (ResolveCompanyOutput, error) {
	id, err := a.complaints.UpsertCompany(ctx, in.Name)
	if err != nil {
		return ResolveCompanyOutput{}, err
	}
	return ResolveCompanyOutput{CompanyID: id}, nil
}

func (a *Activities) ResolveProductActivity(ctx context.Context, in ResolveProductInput) (ResolveProductOutput, error) {
	id, err := a.complaints.UpsertProduct(ctx, in.Name)
	if err != nil {
		return ResolveProductOutput{}, err
	}
	return ResolveProductOutput{ProductID: id}, nil
}

func (a *Activities) SummarizeComplaintActivity(ctx context.Context, in SummarizeComplaintInput) (SummarizeComplaintOutput, error) {
	summary, err := a.enricher.Summarize(ctx, in.Narrative)
	if err != nil {
		return SummarizeComplaintOutput{}, fmt.Errorf("summarize complaint %s: %w", in.ComplaintID, err)
	}
	return SummarizeComplaintOutput{Summary: summary}, nil
}

func (a *Activities) PersistComplaintActivity(ctx context.Context, in PersistComplaintInput) (PersistComplaintOutput, error) {
	rowID, externalID, err := a.complaints.UpsertComplaint(ctx, in.Record, in.CompanyID, in.ProductID, in.Summary)
	if err != nil {
		return PersistComplaintOutput{}, err
	}
	return PersistComplaintOutput{RowID: rowID, ComplaintID: externalID}, nil
}

func (a *Activities) CategorizeComplaintActivity(ctx context.Context, in CategorizeComplaintInput) (CategorizeComplaintOutput, error) {
	category, err := a.enricher.Categorize(ctx, in.Issue)
	if err != nil {
		return CategorizeComplaintOutput{}, fmt.Errorf("categorize complaint %s: %w", in.ComplaintID, err)
	}
	return CategorizeComplaintOutput{Category: category}, nil
}

func (a *Activities) LinkCategoryActivity(ctx context.Context, in LinkCategoryInput) (LinkCategoryOutput, error) {
	categoryID, err := a.categories.UpsertCategory(ctx, in.Category)
	if err != nil {
		return LinkCategoryOutput{}, err
	}
	if err := a.categories.LinkCategory(ctx, in.RowID, categoryID); err != nil {
		return LinkCategoryOutput{}, err
	}
	return LinkCategoryOutput{CategoryID: categoryID}, nil
}

func (a *Activities) EmbedComplaintActivity(ctx context.Context, in EmbedComplaintInput) (EmbedComplaintOutput, error) {
	vectors, _, err := a.embedder.Embed(ctx, providers.EmbedRequest{
		Operation: "complaint_embed",
		Inputs:    []string{in.Narrative},
		Dimension: a.cfg.EmbedDim,
	})
	if err != nil {
		return EmbedComplaintOutput{}, fmt.Errorf("embed complaint %s: %w", in.ComplaintID, err)
	}
	if len(vectors) == 0 {
		return EmbedComplaintOutput{}, fmt.Errorf("embed complaint %s: provider returned no vectors", in.ComplaintID)
	}
	return EmbedComplaintOutput{Vector: vectors[0]}, nil
}

func (a *Activities) IndexUpsertActivity(ctx context.Context, in IndexUpsertInput) error {
	return a.index.Upsert(ctx, strconv.FormatInt(in.RowID, 10), in.Vector, in.Metadata)
}
