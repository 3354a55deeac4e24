package model

import "time"

// Visualization is the artifact produced by a completed job. Immutable; its
// ID is unique across the result cache.
type Visualization struct {
	ID          string            `json:"id"`
	ImageURL    string            `json:"image_url"`
	Confidence  float64           `json:"confidence"`
	ProcedureID string            `json:"procedure_id"`
	CreatedAt   time.Time         `json:"created_at"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}
