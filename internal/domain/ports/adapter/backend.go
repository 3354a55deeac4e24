package adapter

import (
	"context"

	"surgical-viz-client/internal/domain/model"
)

// BackendClient is the port for the visualization backend. Implementations are
// stateless and side-effect free beyond network I/O. Failures reaching the
// endpoint are reported as *domain.TransportError; a job the server processed
// and rejected comes back as a VisualizationJob with JobStatusFailed instead.
type BackendClient interface {
	// Submit sends one job request and returns the job's initial representation,
	// which may already be terminal.
	Submit(ctx context.Context, req model.JobRequest) (*model.VisualizationJob, error)

	// FetchStatus returns the current representation of a submitted job.
	FetchStatus(ctx context.Context, jobID string) (*model.VisualizationJob, error)

	// Fetch is the direct read path, independent of the poll lifecycle.
	// Returns domain.ErrNotFound when the job does not exist.
	Fetch(ctx context.Context, jobID string) (*model.VisualizationJob, error)
}
