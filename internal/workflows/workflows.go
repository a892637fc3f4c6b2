package workflows

import (
	"fmt"
	"strings"
	"time"

	"complaintflow/internal/activities"
	"complaintflow/internal/models"
	"complaintflow/internal/pipeline"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	QueryGetComplaintStatus = "GetComplaintStatus"
	QueryGetBatchProgress   = "GetBatchProgress"
)

// noRetry pins every activity to a single attempt: pipeline stages are never
// retried automatically, and a stage failure aborts only the complaint that
// owns it.
func noRetry(timeout time.Duration) workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: timeout,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	}
}

// BatchIngestWorkflow drives a search-export batch through per-complaint
// child workflows, strictly in input order unless MaxConcurrent raises the
// window. One failed record never halts the rest.
func BatchIngestWorkflow(ctx workflow.Context, input BatchIngestInput) (BatchIngestProgress, error) {
	progress := BatchIngestProgress{
		Total:         len(input.Records),
		PerItem:       map[string]string{},
		ChildWorkflow: map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetBatchProgress, func() (BatchIngestProgress, error) {
		return progress, nil
	}); err != nil {
		return progress, err
	}

	window := input.MaxConcurrent
	if window <= 0 {
		window = 1
	}
	info := workflow.GetInfo(ctx)

	for i := 0; i < len(input.Records); i += window {
		end := i + window
		if end > len(input.Records) {
			end = len(input.Records)
		}
		futures := make([]workflow.ChildWorkflowFuture, 0, end-i)
		keys := make([]string, 0, end-i)
		for idx, record := range input.Records[i:end] {
			key := itemKey(i+idx, record.ComplaintID)
			progress.PerItem[key] = "processing"
			workflowID := fmt.Sprintf("complaint-%s-%s", sanitizeID(info.WorkflowExecution.RunID), sanitizeID(key))
			childCtx := workflow.WithChildOptions(ctx, workflow.ChildWorkflowOptions{WorkflowID: workflowID})
			futures = append(futures, workflow.ExecuteChildWorkflow(childCtx, ComplaintIngestWorkflow, ComplaintIngestInput{Record: record}))
			keys = append(keys, key)
			progress.ChildWorkflow[key] = workflowID
		}

		for idx, f := range futures {
			var status ComplaintIngestStatus
			err := f.Get(ctx, &status)
			key := keys[idx]
			switch {
			case err != nil:
				progress.Failed++
				progress.PerItem[key] = "failed"
			case status.Status == "failed":
				progress.Failed++
				progress.PerItem[key] = "failed"
			default:
				progress.Done++
				progress.PerItem[key] = "done"
			}
		}
	}
	return progress, nil
}

// ComplaintIngestWorkflow runs the stage sequence for a single complaint:
// validate, classify, resolve company and product, summarize, persist,
// categorize, link, embed, index.
func ComplaintIngestWorkflow(ctx workflow.Context, input ComplaintIngestInput) (ComplaintIngestStatus, error) {
	status := ComplaintIngestStatus{
		ComplaintID: input.Record.ComplaintID,
		CurrentStep: "validate",
		Status:      "processing",
		Steps:       map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetComplaintStatus, func() (ComplaintIngestStatus, error) {
		return status, nil
	}); err != nil {
		return status, err
	}

	ctx = workflow.WithActivityOptions(ctx, noRetry(2*time.Minute))
	record := input.Record

	status.Steps["validate"] = "processing"
	if missing := pipeline.MissingFields(record); len(missing) > 0 {
		status.Status = "failed"
		status.FailReason = "missing required fields: " + strings.Join(missing, ", ")
		status.Steps["validate"] = "failed"
		return status, nil
	}
	status.Steps["validate"] = "done"

	// Classification is reported, not persisted; its failure does not fail
	// the complaint.
	status.CurrentStep = "classify"
	var classifyOut activities.ClassifyComplaintOutput
	if err := workflow.ExecuteActivity(ctx, "ClassifyComplaintActivity", activities.ClassifyComplaintInput{ComplaintID: record.ComplaintID, Narrative: record.Narrative}).Get(ctx, &classifyOut); err == nil {
		status.Classification = classifyOut.Classification
		status.Steps["classify"] = "done"
	} else {
		status.Steps["classify"] = "failed"
	}

	status.CurrentStep = "resolve-company"
	status.Steps[status.CurrentStep] = "processing"
	var companyOut activities.ResolveCompanyOutput
	if err := workflow.ExecuteActivity(ctx, "ResolveCompanyActivity", activities.ResolveCompanyInput{Name: record.Company}).Get(ctx, &companyOut); err != nil {
		return failStatus(&status, err), nil
	}
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "resolve-product"
	status.Steps[status.CurrentStep] = "processing"
	var productOut activities.ResolveProductOutput
	if err := workflow.ExecuteActivity(ctx, "ResolveProductActivity", activities.ResolveProductInput{Name: record.Product}).Get(ctx, &productOut); err != nil {
		return failStatus(&status, err), nil
	}
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "summarize"
	status.Steps[status.CurrentStep] = "processing"
	var summaryOut activities.SummarizeComplaintOutput
	if err := workflow.ExecuteActivity(ctx, "SummarizeComplaintActivity", activities.SummarizeComplaintInput{ComplaintID: record.ComplaintID, Narrative: record.Narrative}).Get(ctx, &summaryOut); err != nil {
		return failStatus(&status, err), nil
	}
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "persist-complaint"
	status.Steps[status.CurrentStep] = "processing"
	var persistOut activities.PersistComplaintOutput
	if err := workflow.ExecuteActivity(ctx, "PersistComplaintActivity", activities.PersistComplaintInput{
		Record:    record,
		CompanyID: companyOut.CompanyID,
		ProductID: productOut.ProductID,
		Summary:   summaryOut.Summary,
	}).Get(ctx, &persistOut); err != nil {
		return failStatus(&status, err), nil
	}
	status.RowID = persistOut.RowID
	status.ComplaintID = persistOut.ComplaintID
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "categorize"
	status.Steps[status.CurrentStep] = "processing"
	var categoryOut activities.CategorizeComplaintOutput
	if err := workflow.ExecuteActivity(ctx, "CategorizeComplaintActivity", activities.CategorizeComplaintInput{ComplaintID: status.ComplaintID, Issue: record.Issue}).Get(ctx, &categoryOut); err != nil {
		return failStatus(&status, err), nil
	}
	status.Category = categoryOut.Category
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "persist-category-link"
	status.Steps[status.CurrentStep] = "processing"
	if err := workflow.ExecuteActivity(ctx, "LinkCategoryActivity", activities.LinkCategoryInput{RowID: persistOut.RowID, Category: categoryOut.Category}).Get(ctx, nil); err != nil {
		return failStatus(&status, err), nil
	}
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "embed"
	status.Steps[status.CurrentStep] = "processing"
	var embedOut activities.EmbedComplaintOutput
	if err := workflow.ExecuteActivity(ctx, "EmbedComplaintActivity", activities.EmbedComplaintInput{ComplaintID: status.ComplaintID, Narrative: record.Narrative}).Get(ctx, &embedOut); err != nil {
		return failStatus(&status, err), nil
	}
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "index-upsert"
	status.Steps[status.CurrentStep] = "processing"
	if err := workflow.ExecuteActivity(ctx, "IndexUpsertActivity", activities.IndexUpsertInput{
		RowID:    persistOut.RowID,
		Vector:   embedOut.Vector,
		Metadata: indexMetadata(record, summaryOut.Summary, categoryOut.Category),
	}).Get(ctx, nil); err != nil {
		// The relational row stays behind: the dual write is best effort.
		return failStatus(&status, err), nil
	}
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "done"
	status.Status = "done"
	return status, nil
}

func failStatus(status *ComplaintIngestStatus, err error) ComplaintIngestStatus {
	status.Status = "failed"
	status.FailReason = err.Error()
	status.Steps[status.CurrentStep] = "failed"
	return *status
}

func itemKey(idx int, complaintID string) string {
	if complaintID != "" {
		return complaintID
	}
	return fmt.Sprintf("item-%d", idx)
}

func sanitizeID(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, ".", "-")
	s = strings.ReplaceAll(s, "/", "-")
	return s
}

func indexMetadata(record models.ComplaintInput, summary, category string) models.IndexMetadata {
	return models.IndexMetadata{
		Text:     record.Narrative,
		Summary:  summary,
		Category: category,
		Product:  record.Product,
		Company:  record.Company,
	}
}
