package workflows

import (
	"context"
	"errors"
	"testing"

	"complaintflow/internal/activities"
	"complaintflow/internal/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
)

func registerActivityName[T any](env *testsuite.TestWorkflowEnvironment, name string, fn T) {
	env.RegisterActivityWithOptions(fn, activity.RegisterOptions{Name: name})
}

func registerAllStages(env *testsuite.TestWorkflowEnvironment) {
	registerActivityName(env, "ClassifyComplaintActivity", func(context.Context, activities.ClassifyComplaintInput) (activities.ClassifyComplaintOutput, error) {
		return activities.ClassifyComplaintOutput{}, nil
	})
	registerActivityName(env, "ResolveCompanyActivity", func(context.Context, activities.ResolveCompanyInput) (activities.ResolveCompanyOutput, error) {
		return activities.ResolveCompanyOutput{}, nil
	})
	registerActivityName(env, "ResolveProductActivity", func(context.Context, activities.ResolveProductInput) (activities.ResolveProductOutput, error) {
		return activities.ResolveProductOutput{}, nil
	})
	registerActivityName(env, "SummarizeComplaintActivity", func(context.Context, activities.SummarizeComplaintInput) (activities.SummarizeComplaintOutput, error) {
		return activities.SummarizeComplaintOutput{}, nil
	})
	registerActivityName(env, "PersistComplaintActivity", func(context.Context, activities.PersistComplaintInput) (activities.PersistComplaintOutput, error) {
		return activities.PersistComplaintOutput{}, nil
	})
	registerActivityName(env, "CategorizeComplaintActivity", func(context.Context, activities.CategorizeComplaintInput) (activities.CategorizeComplaintOutput, error) {
		return activities.CategorizeComplaintOutput{}, nil
	})
	registerActivityName(env, "LinkCategoryActivity", func(context.Context, activities.LinkCategoryInput) (activities.LinkCategoryOutput, error) {
		return activities.LinkCategoryOutput{}, nil
	})
	registerActivityName(env, "EmbedComplaintActivity", func(context.Context, activities.EmbedComplaintInput) (activities.EmbedComplaintOutput, error) {
		return activities.EmbedComplaintOutput{}, nil
	})
	registerActivityName(env, "IndexUpsertActivity", func(context.Context, activities.IndexUpsertInput) error { return nil })
}

func sampleRecord() models.ComplaintInput {
	return models.ComplaintInput{
		ComplaintID: "COMP-1",
		Company:     "Acme Bank",
		Product:     "Credit card",
		Issue:       "Billing dispute",
		Narrative:   "I was charged twice for the same purchase.",
	}
}

func TestComplaintIngestWorkflowSuccess(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(ComplaintIngestWorkflow)
	registerAllStages(env)

	env.OnActivity("ClassifyComplaintActivity", mock.Anything, mock.Anything).Return(activities.ClassifyComplaintOutput{Classification: "Yes"}, nil)
	env.OnActivity("ResolveCompanyActivity", mock.Anything, activities.ResolveCompanyInput{Name: "Acme Bank"}).Return(activities.ResolveCompanyOutput{CompanyID: 7}, nil)
	env.OnActivity("ResolveProductActivity", mock.Anything, activities.ResolveProductInput{Name: "Credit card"}).Return(activities.ResolveProductOutput{ProductID: 3}, nil)
	env.OnActivity("SummarizeComplaintActivity", mock.Anything, mock.Anything).Return(activities.SummarizeComplaintOutput{Summary: "Duplicate charge on a card purchase."}, nil)
	env.OnActivity("PersistComplaintActivity", mock.Anything, mock.Anything).Return(activities.PersistComplaintOutput{RowID: 42, ComplaintID: "COMP-1"}, nil)
	env.OnActivity("CategorizeComplaintActivity", mock.Anything, mock.Anything).Return(activities.CategorizeComplaintOutput{Category: "Billing dispute"}, nil)
	env.OnActivity("LinkCategoryActivity", mock.Anything, activities.LinkCategoryInput{RowID: 42, Category: "Billing dispute"}).Return(activities.LinkCategoryOutput{CategoryID: 5}, nil)
	env.OnActivity("EmbedComplaintActivity", mock.Anything, mock.Anything).Return(activities.EmbedComplaintOutput{Vector: []float32{0.1, 0.2}}, nil)
	env.OnActivity("IndexUpsertActivity", mock.Anything, mock.MatchedBy(func(in activities.IndexUpsertInput) bool {
		return in.RowID == 42 && in.Metadata.Summary == "Duplicate charge on a card purchase." && in.Metadata.Category == "Billing dispute"
	})).Return(nil)

	env.ExecuteWorkflow(ComplaintIngestWorkflow, ComplaintIngestInput{Record: sampleRecord()})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var status ComplaintIngestStatus
	require.NoError(t, env.GetWorkflowResult(&status))
	require.Equal(t, "done", status.Status)
	require.Equal(t, int64(42), status.RowID)
	require.Equal(t, "Yes", status.Classification)
	require.Equal(t, "Billing dispute", status.Category)
	require.Equal(t, "done", status.Steps["index-upsert"])
}

func TestComplaintIngestWorkflowMissingFields(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(ComplaintIngestWorkflow)
	registerAllStages(env)

	env.ExecuteWorkflow(ComplaintIngestWorkflow, ComplaintIngestInput{Record: models.ComplaintInput{Company: "Acme Bank"}})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var status ComplaintIngestStatus
	require.NoError(t, env.GetWorkflowResult(&status))
	require.Equal(t, "failed", status.Status)
	require.Contains(t, status.FailReason, "product")
	require.Contains(t, status.FailReason, "complaint_what_happened")
}

func TestComplaintIngestWorkflowSummarizeFailureStopsPersist(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(ComplaintIngestWorkflow)
	registerAllStages(env)

	env.OnActivity("ClassifyComplaintActivity", mock.Anything, mock.Anything).Return(activities.ClassifyComplaintOutput{Classification: "Yes"}, nil)
	env.OnActivity("ResolveCompanyActivity", mock.Anything, mock.Anything).Return(activities.ResolveCompanyOutput{CompanyID: 7}, nil)
	env.OnActivity("ResolveProductActivity", mock.Anything, mock.Anything).Return(activities.ResolveProductOutput{ProductID: 3}, nil)
	env.OnActivity("SummarizeComplaintActivity", mock.Anything, mock.Anything).Return(activities.SummarizeComplaintOutput{}, errors.New("llm generate: quota exceeded"))

	env.ExecuteWorkflow(ComplaintIngestWorkflow, ComplaintIngestInput{Record: sampleRecord()})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var status ComplaintIngestStatus
	require.NoError(t, env.GetWorkflowResult(&status))
	require.Equal(t, "failed", status.Status)
	require.Contains(t, status.FailReason, "quota exceeded")
	require.Equal(t, "failed", status.Steps["summarize"])
	env.AssertNotCalled(t, "PersistComplaintActivity", mock.Anything, mock.Anything)
}

func TestBatchIngestWorkflowIsolatesFailures(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(BatchIngestWorkflow)
	env.RegisterWorkflow(ComplaintIngestWorkflow)
	registerAllStages(env)

	env.OnActivity("ClassifyComplaintActivity", mock.Anything, mock.Anything).Return(activities.ClassifyComplaintOutput{Classification: "Yes"}, nil)
	env.OnActivity("ResolveCompanyActivity", mock.Anything, mock.Anything).Return(activities.ResolveCompanyOutput{CompanyID: 7}, nil)
	env.OnActivity("ResolveProductActivity", mock.Anything, mock.Anything).Return(activities.ResolveProductOutput{ProductID: 3}, nil)
	env.OnActivity("SummarizeComplaintActivity", mock.Anything, mock.Anything).Return(activities.SummarizeComplaintOutput{Summary: "s"}, nil)
	env.OnActivity("PersistComplaintActivity", mock.Anything, mock.Anything).Return(activities.PersistComplaintOutput{RowID: 1, ComplaintID: "COMP-A"}, nil)
	env.OnActivity("CategorizeComplaintActivity", mock.Anything, mock.Anything).Return(activities.CategorizeComplaintOutput{Category: "c"}, nil)
	env.OnActivity("LinkCategoryActivity", mock.Anything, mock.Anything).Return(activities.LinkCategoryOutput{CategoryID: 1}, nil)
	env.OnActivity("EmbedComplaintActivity", mock.Anything, mock.Anything).Return(activities.EmbedComplaintOutput{Vector: []float32{0.1}}, nil)
	env.OnActivity("IndexUpsertActivity", mock.Anything, mock.Anything).Return(nil)

	good := sampleRecord()
	good.ComplaintID = "COMP-A"
	bad := models.ComplaintInput{ComplaintID: "COMP-B", Company: "Acme Bank"}

	env.ExecuteWorkflow(BatchIngestWorkflow, BatchIngestInput{Records: []models.ComplaintInput{good, bad}})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var progress BatchIngestProgress
	require.NoError(t, env.GetWorkflowResult(&progress))
	require.Equal(t, 2, progress.Total)
	require.Equal(t, 1, progress.Failed)
	require.Equal(t, "done", progress.PerItem["COMP-A"])
	require.Equal(t, "failed", progress.PerItem["COMP-B"])
}
