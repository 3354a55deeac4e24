package repository

import (
	"context"

	"surgical-viz-client/internal/domain/model"
)

// ResultCache holds the most recent visualization and an ordered history.
// The polling orchestrator is the only writer for terminal outcomes; UI
// components are read-only observers. The cache itself does not dedup by id;
// the orchestrator appends at most once per finalized job.
type ResultCache interface {
	SetCurrent(ctx context.Context, v *model.Visualization) error
	Append(ctx context.Context, v *model.Visualization) error

	// Current returns the most recent visualization, or nil when none exists.
	Current(ctx context.Context) (*model.Visualization, error)
	// History returns visualizations in append order, oldest first.
	History(ctx context.Context) ([]*model.Visualization, error)
	Clear(ctx context.Context) error
}
