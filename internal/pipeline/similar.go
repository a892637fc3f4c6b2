package pipeline

import (
	"context"
	"errors"
	"strconv"

	"complaintflow/internal/models"
)

var errEmptyEmbedding = errors.New("embedding provider returned no vectors")

// FindSimilar embeds the query text, asks the index for the nearest
// complaints, drops excludeID, and merges in the relational detail. A match
// whose row has since vanished keeps its index metadata with no detail.
func (p *Pipeline) FindSimilar(ctx context.Context, text string, topK int, excludeID string) ([]models.SimilarComplaint, error) {
	vec, err := p.embedNarrative(ctx, text)
	if err != nil {
		return nil, &ExternalServiceError{Stage: "embed-query", Err: err}
	}
	matches, err := p.index.Query(ctx, vec, topK)
	if err != nil {
		return nil, &ExternalServiceError{Stage: "index-query", Err: err}
	}

	out := make([]models.SimilarComplaint, 0, len(matches))
	for _, m := range matches {
		if excludeID != "" && m.ID == excludeID {
			continue
		}
		result := models.SimilarComplaint{ID: m.ID, Score: m.Score, Metadata: m.Metadata}
		if rowID, err := strconv.ParseInt(m.ID, 10, 64); err == nil {
			detail, found, err := p.store.GetComplaintByID(ctx, rowID)
			if err != nil {
				return nil, &PersistenceError{Stage: "detail-fetch", Err: err}
			}
			if found {
				result.Detail = &detail
			}
		}
		out = append(out, result)
	}
	return out, nil
}
