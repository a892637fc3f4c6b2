package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.ClassifyComplaintActivity)
	w.RegisterActivity(a.ResolveCompanyActivity)
	w.RegisterActivity(a.ResolveProductActivity)
	w.RegisterActivity(a.SummarizeComplaintActivity)
	w.RegisterActivity(a.PersistComplaintActivity)
	w.RegisterActivity(a.CategorizeComplaintActivity)
	w.RegisterActivity(a.LinkCategoryActivity)
	w.RegisterActivity(a.EmbedComplaintActivity)
	w.RegisterActivity(a.IndexUpsertActivity)
}
