package model

import (
	"fmt"
	"strings"

	"surgical-viz-client/internal/domain"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status is absorbing: once a job is completed
// or failed it never transitions again.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// JobRequest identifies one visualization to generate. Immutable once submitted.
type JobRequest struct {
	ImageID     string `json:"image_id"`
	ProcedureID string `json:"procedure_id"`
	PatientID   string `json:"patient_id"`
}

func (r JobRequest) Validate() error {
	if strings.TrimSpace(r.ImageID) == "" {
		return fmt.Errorf("image_id: %w", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(r.ProcedureID) == "" {
		return fmt.Errorf("procedure_id: %w", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(r.PatientID) == "" {
		return fmt.Errorf("patient_id: %w", domain.ErrInvalidArgument)
	}
	return nil
}

// VisualizationJob is the backend's current representation of one job.
// Visualization is set when Status is completed; ErrorDetail when failed.
type VisualizationJob struct {
	ID            string         `json:"id"`
	Status        JobStatus      `json:"status"`
	Progress      float64        `json:"progress,omitempty"` // in [0,1] while pending/processing
	Visualization *Visualization `json:"visualization,omitempty"`
	ErrorDetail   string         `json:"error,omitempty"`
}
