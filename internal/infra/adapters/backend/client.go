package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"surgical-viz-client/internal/domain"
	"surgical-viz-client/internal/domain/model"
	"surgical-viz-client/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.BackendClient = (*Client)(nil)

// Client implements adapter.BackendClient against the visualization backend's
// HTTP API. Submit: POST /api/v1/visualizations. Status: GET
// /api/v1/visualizations/jobs/{id}. Read: GET /api/v1/visualizations/{id}.
// Authorization: Bearer <token>.
type Client struct {
	base   string
	token  string
	client *http.Client
	log    *zerolog.Logger
}

func NewClient(base, token string, timeout time.Duration, logger *zerolog.Logger) (*Client, error) {
	if base == "" {
		return nil, errors.New("backend base url empty")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	l := logger.With().Str("component", "BackendClient").Logger()
	c := &Client{
		base:   strings.TrimRight(base, "/"),
		token:  token,
		client: &http.Client{Timeout: timeout},
		log:    &l,
	}
	if token != "" {
		if exp, err := tokenExpiry(token); err == nil && !exp.IsZero() && time.Now().After(exp) {
			c.log.Warn().Time("expired_at", exp).Msg("backend token is expired; requests will be rejected")
		}
	}
	return c, nil
}

func (c *Client) Submit(ctx context.Context, req model.JobRequest) (*model.VisualizationJob, error) {
	body := struct {
		ImageID     string `json:"image_id"`
		ProcedureID string `json:"procedure_id"`
		PatientID   string `json:"patient_id"`
	}{req.ImageID, req.ProcedureID, req.PatientID}
	return c.do(ctx, http.MethodPost, "/api/v1/visualizations", body)
}

func (c *Client) FetchStatus(ctx context.Context, jobID string) (*model.VisualizationJob, error) {
	return c.do(ctx, http.MethodGet, "/api/v1/visualizations/jobs/"+url.PathEscape(jobID), nil)
}

func (c *Client) Fetch(ctx context.Context, jobID string) (*model.VisualizationJob, error) {
	job, err := c.do(ctx, http.MethodGet, "/api/v1/visualizations/"+url.PathEscape(jobID), nil)
	if err != nil {
		var te *domain.TransportError
		if errors.As(err, &te) && te.StatusCode == http.StatusNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// wire shapes

type jobPayload struct {
	ID            string      `json:"id"`
	Status        string      `json:"status"`
	Progress      *float64    `json:"progress,omitempty"`
	Visualization *vizPayload `json:"visualization,omitempty"`
	Error         string      `json:"error,omitempty"`
}

type vizPayload struct {
	ID          string            `json:"id"`
	ImageURL    string            `json:"image_url"`
	Confidence  float64           `json:"confidence"`
	ProcedureID string            `json:"procedure_id"`
	CreatedAt   time.Time         `json:"created_at"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

func (p *jobPayload) toModel() *model.VisualizationJob {
	job := &model.VisualizationJob{
		ID:          p.ID,
		Status:      model.JobStatus(strings.ToLower(p.Status)),
		ErrorDetail: p.Error,
	}
	if p.Progress != nil {
		job.Progress = *p.Progress
	}
	if p.Visualization != nil {
		job.Visualization = &model.Visualization{
			ID:          p.Visualization.ID,
			ImageURL:    p.Visualization.ImageURL,
			Confidence:  p.Visualization.Confidence,
			ProcedureID: p.Visualization.ProcedureID,
			CreatedAt:   p.Visualization.CreatedAt,
			Metadata:    p.Visualization.Metadata,
		}
	}
	return job
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*model.VisualizationJob, error) {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return nil, &domain.TransportError{Message: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &domain.TransportError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(snippet)),
		}
	}

	var p jobPayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, &domain.TransportError{
			StatusCode: resp.StatusCode,
			Message:    "malformed response: " + err.Error(),
		}
	}
	return p.toModel(), nil
}
