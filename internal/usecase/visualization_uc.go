// File: internal/usecase/visualization_uc.go
package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"surgical-viz-client/internal/domain/model"
	"surgical-viz-client/internal/domain/ports/adapter"
	"surgical-viz-client/internal/domain/ports/repository"
	"surgical-viz-client/internal/infra/metrics"
)

// DefaultPollInterval is the fixed cadence between status checks while a job
// is non-terminal. Configurable, not negotiated with the server.
const DefaultPollInterval = 2 * time.Second

// Compile-time check
var _ VisualizationUseCase = (*visualizationUC)(nil)

// Snapshot is the externally observable orchestrator state. Callers never see
// errors from Submit; they watch Generating/LastError instead.
type Snapshot struct {
	Generating  bool    `json:"generating"`
	Progress    float64 `json:"progress"`
	ActiveJobID string  `json:"active_job_id,omitempty"`
	LastError   string  `json:"last_error,omitempty"`
}

// VisualizationUseCase drives one visualization job from submission to
// terminal resolution: exactly one cache write and exactly one notification
// per logical job, supersede-on-resubmit, cooperative cancellation.
type VisualizationUseCase interface {
	// Submit starts one job. Non-blocking; never returns an error. Invalid
	// input and transport failures on the submit call are finalized into the
	// observable state plus exactly one failure notification. Submitting while
	// a poll session is active abandons the old session first: it produces no
	// cache write and no notification.
	Submit(ctx context.Context, req model.JobRequest)

	// Cancel abandons the active poll session, if any. No notification is
	// emitted; an in-flight status response is discarded on arrival.
	Cancel()

	Snapshot() Snapshot

	// GetVisualization fetches one job's current representation directly,
	// bypassing the poll lifecycle. Read failures surface as one error
	// notification and a nil return; they never touch an active session.
	GetVisualization(ctx context.Context, id string) *model.VisualizationJob
}

// pollSession tracks one job currently being polled. Its stop channel ends
// the ticker loop; the generation token makes late responses detectable.
type pollSession struct {
	gen      uint64
	handle   string
	interval time.Duration
	stop     chan struct{}
	last     model.JobStatus
}

type visualizationUC struct {
	client adapter.BackendClient
	cache  repository.ResultCache
	sink   adapter.NotificationSink
	log    *zerolog.Logger

	interval time.Duration

	mu         sync.Mutex
	gen        uint64       // liveness token; bumped on every Submit and Cancel
	session    *pollSession // nil while no poll session is active
	generating bool
	progress   float64
	activeJob  string
	lastErr    string
	startedAt  time.Time
}

func NewVisualizationUseCase(
	client adapter.BackendClient,
	cache repository.ResultCache,
	sink adapter.NotificationSink,
	interval time.Duration,
	logger *zerolog.Logger,
) *visualizationUC {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	l := logger.With().Str("component", "VisualizationUC").Logger()
	return &visualizationUC{
		client:   client,
		cache:    cache,
		sink:     sink,
		interval: interval,
		log:      &l,
	}
}

func (u *visualizationUC) Submit(ctx context.Context, req model.JobRequest) {
	// The job must outlive the caller (an HTTP request, a UI action); only the
	// liveness token cancels it.
	ctx = context.WithoutCancel(ctx)

	u.mu.Lock()
	gen := u.begin()
	u.mu.Unlock()

	if err := req.Validate(); err != nil {
		u.finalizeFailure(ctx, gen, err.Error())
		return
	}
	go u.run(ctx, gen, req)
}

// begin supersedes any live session and arms a new generation.
// Caller must hold u.mu.
func (u *visualizationUC) begin() uint64 {
	u.gen++
	if u.session != nil {
		close(u.session.stop)
		u.session = nil
	}
	u.generating = true
	u.progress = 0
	u.lastErr = ""
	u.activeJob = ""
	u.startedAt = time.Now()
	return u.gen
}

func (u *visualizationUC) run(ctx context.Context, gen uint64, req model.JobRequest) {
	job, err := u.client.Submit(ctx, req)
	if err != nil {
		// A transport failure on the initial submit is fatal: no poll session.
		metrics.IncSubmit("error")
		u.log.Error().Err(err).Str("image_id", req.ImageID).Msg("submit failed")
		u.finalizeFailure(ctx, gen, err.Error())
		return
	}
	metrics.IncSubmit("accepted")

	if job.Status.Terminal() {
		// Immediately terminal: finalize without ever creating a poll session.
		u.finalizeTerminal(ctx, gen, job)
		return
	}

	sess := &pollSession{
		gen:      gen,
		handle:   job.ID,
		interval: u.interval,
		stop:     make(chan struct{}),
		last:     job.Status,
	}

	u.mu.Lock()
	if gen != u.gen {
		// Superseded while the submit call was in flight; abandon the handle.
		u.mu.Unlock()
		return
	}
	u.session = sess
	u.activeJob = job.ID
	if job.Progress > 0 {
		u.progress = job.Progress
	}
	u.mu.Unlock()

	u.log.Info().Str("job_id", job.ID).Str("status", string(job.Status)).Msg("polling started")
	u.poll(ctx, sess)
}

// poll drives one session until a terminal status or abandonment. A transport
// failure on a tick is skipped; the next tick retries. The loop stops
// unconditionally once the session's stop channel is closed, and any response
// already in flight at that point is discarded on arrival.
func (u *visualizationUC) poll(ctx context.Context, sess *pollSession) {
	t := time.NewTicker(sess.interval)
	defer t.Stop()

	for {
		select {
		case <-sess.stop:
			return
		case <-t.C:
		}

		metrics.IncPollTick()
		job, err := u.client.FetchStatus(ctx, sess.handle)
		if !u.alive(sess) {
			// Cancelled or superseded while the fetch was in flight; this
			// response no longer owns any state.
			return
		}
		if err != nil {
			metrics.IncPollError()
			u.log.Warn().Err(err).Str("job_id", sess.handle).Msg("status check failed, retrying next tick")
			continue
		}

		switch job.Status {
		case model.JobStatusPending, model.JobStatusProcessing:
			u.observeProgress(sess, job)
		default:
			u.log.Info().
				Str("job_id", sess.handle).
				Str("from", string(sess.last)).
				Str("to", string(job.Status)).
				Msg("job reached terminal status")
			u.endSession(sess)
			u.finalizeTerminal(ctx, sess.gen, job)
			return
		}
	}
}

func (u *visualizationUC) alive(sess *pollSession) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.session == sess && sess.gen == u.gen
}

func (u *visualizationUC) observeProgress(sess *pollSession, job *model.VisualizationJob) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.session != sess {
		return
	}
	sess.last = job.Status
	if job.Progress > 0 {
		u.progress = job.Progress
	}
}

func (u *visualizationUC) endSession(sess *pollSession) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.session == sess {
		u.session = nil
	}
}

func (u *visualizationUC) finalizeTerminal(ctx context.Context, gen uint64, job *model.VisualizationJob) {
	switch {
	case job.Status == model.JobStatusCompleted && job.Visualization != nil:
		u.finalizeSuccess(ctx, gen, job.Visualization)
	case job.Status == model.JobStatusCompleted:
		u.finalizeFailure(ctx, gen, "completed job carried no visualization")
	default:
		u.finalizeFailure(ctx, gen, job.ErrorDetail)
	}
}

// finalizeSuccess and finalizeFailure are idempotent per generation: the first
// call flips generating off; later calls for the same or an older generation
// are discarded without touching the cache or the sink.
func (u *visualizationUC) finalizeSuccess(ctx context.Context, gen uint64, viz *model.Visualization) {
	u.mu.Lock()
	if gen != u.gen || !u.generating {
		u.mu.Unlock()
		return
	}
	u.generating = false
	u.progress = 1
	u.lastErr = ""
	u.activeJob = ""
	if u.session != nil && u.session.gen == gen {
		close(u.session.stop)
		u.session = nil
	}
	elapsed := time.Since(u.startedAt)
	u.mu.Unlock()

	if err := u.cache.SetCurrent(ctx, viz); err != nil {
		u.log.Error().Err(err).Str("visualization_id", viz.ID).Msg("cache set current failed")
	}
	if err := u.cache.Append(ctx, viz); err != nil {
		u.log.Error().Err(err).Str("visualization_id", viz.ID).Msg("cache append failed")
	}
	metrics.IncJobFinalized("completed")
	metrics.ObserveJobDuration(elapsed, true)
	u.log.Info().Str("visualization_id", viz.ID).Dur("duration", elapsed).Msg("visualization ready")
	u.sink.Notify(ctx, model.NotificationSuccess, "Visualization ready")
}

func (u *visualizationUC) finalizeFailure(ctx context.Context, gen uint64, detail string) {
	if detail == "" {
		detail = "visualization job failed"
	}

	u.mu.Lock()
	if gen != u.gen || !u.generating {
		u.mu.Unlock()
		return
	}
	u.generating = false
	u.lastErr = detail
	u.activeJob = ""
	if u.session != nil && u.session.gen == gen {
		close(u.session.stop)
		u.session = nil
	}
	elapsed := time.Since(u.startedAt)
	u.mu.Unlock()

	metrics.IncJobFinalized("failed")
	metrics.ObserveJobDuration(elapsed, false)
	u.log.Warn().Str("detail", detail).Msg("visualization job failed")
	u.sink.Notify(ctx, model.NotificationError, detail)
}

func (u *visualizationUC) Cancel() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.gen++
	if u.session != nil {
		close(u.session.stop)
		u.session = nil
	}
	u.generating = false
	u.activeJob = ""
}

func (u *visualizationUC) Snapshot() Snapshot {
	u.mu.Lock()
	defer u.mu.Unlock()
	return Snapshot{
		Generating:  u.generating,
		Progress:    u.progress,
		ActiveJobID: u.activeJob,
		LastError:   u.lastErr,
	}
}

func (u *visualizationUC) GetVisualization(ctx context.Context, id string) *model.VisualizationJob {
	job, err := u.client.Fetch(ctx, id)
	if err != nil {
		u.log.Warn().Err(err).Str("job_id", id).Msg("visualization read failed")
		u.sink.Notify(ctx, model.NotificationError, "Could not load visualization")
		return nil
	}
	return job
}
