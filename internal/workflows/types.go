package workflows

import "complaintflow/internal/models"

type ComplaintIngestInput struct {
	Record models.ComplaintInput `json:"record"`
}

type ComplaintIngestStatus struct {
	ComplaintID    string            `json:"complaint_id"`
	RowID          int64             `json:"row_id,omitempty"`
	Classification string            `json:"classification,omitempty"`
	Category       string            `json:"category,omitempty"`
	CurrentStep    string            `json:"current_step"`
	Status         string            `json:"status"`
	FailReason     string            `json:"fail_reason,omitempty"`
	Steps          map[string]string `json:"steps"`
}

type BatchIngestInput struct {
	Records       []models.ComplaintInput `json:"records"`
	MaxConcurrent int                     `json:"max_concurrent"`
}

type BatchIngestProgress struct {
	Total         int               `json:"total"`
	Done          int               `json:"done"`
	Failed        int               `json:"failed"`
	PerItem       map[string]string `json:"per_item_status"`
	ChildWorkflow map[string]string `json:"child_workflow_ids,omitempty"`
}
