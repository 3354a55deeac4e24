//go:build !integration

package web_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"surgical-viz-client/internal/domain/model"
	"surgical-viz-client/internal/infra/cache"
	"surgical-viz-client/internal/infra/notify"
	"surgical-viz-client/internal/infra/web"
	"surgical-viz-client/internal/usecase"
)

// ---- Fake orchestrator ----

type fakeUC struct {
	mu        sync.Mutex
	submits   []model.JobRequest
	cancels   int
	snapshot  usecase.Snapshot
	getResult *model.VisualizationJob
}

var _ usecase.VisualizationUseCase = (*fakeUC)(nil)

func (f *fakeUC) Submit(ctx context.Context, req model.JobRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits = append(f.submits, req)
}

func (f *fakeUC) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancels++
}

func (f *fakeUC) Snapshot() usecase.Snapshot { return f.snapshot }

func (f *fakeUC) GetVisualization(ctx context.Context, id string) *model.VisualizationJob {
	if f.getResult != nil && f.getResult.ID == id {
		return f.getResult
	}
	return nil
}

func newLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func newTestServer(t *testing.T, uc *fakeUC) (*httptest.Server, *cache.Memory, *notify.Feed) {
	t.Helper()
	mem := cache.NewMemory(10)
	feed := notify.NewFeed(10, newLogger())
	srv := httptest.NewServer(web.NewServer(uc, mem, feed, newLogger(), true).Router())
	t.Cleanup(srv.Close)
	return srv, mem, feed
}

func TestSubmitEndpoint(t *testing.T) {
	uc := &fakeUC{}
	srv, _, _ := newTestServer(t, uc)

	resp, err := http.Post(srv.URL+"/api/v1/jobs", "application/json",
		strings.NewReader(`{"image_id":"img1","procedure_id":"proc1","patient_id":"pat1"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if len(uc.submits) != 1 || uc.submits[0].ImageID != "img1" {
		t.Fatalf("submits: %+v", uc.submits)
	}
}

func TestSubmitEndpoint_MalformedBody(t *testing.T) {
	uc := &fakeUC{}
	srv, _, _ := newTestServer(t, uc)

	resp, err := http.Post(srv.URL+"/api/v1/jobs", "application/json", strings.NewReader(`{`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: %d", resp.StatusCode)
	}
}

func TestActiveAndCancel(t *testing.T) {
	uc := &fakeUC{snapshot: usecase.Snapshot{Generating: true, Progress: 0.5, ActiveJobID: "job1"}}
	srv, _, _ := newTestServer(t, uc)

	resp, err := http.Get(srv.URL + "/api/v1/jobs/active")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var snap usecase.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !snap.Generating || snap.Progress != 0.5 || snap.ActiveJobID != "job1" {
		t.Fatalf("snapshot: %+v", snap)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/jobs/active", nil)
	dresp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	dresp.Body.Close()
	if dresp.StatusCode != http.StatusNoContent {
		t.Fatalf("cancel status: %d", dresp.StatusCode)
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.cancels != 1 {
		t.Fatalf("cancels: %d", uc.cancels)
	}
}

func TestCurrentAndHistory(t *testing.T) {
	uc := &fakeUC{}
	srv, mem, _ := newTestServer(t, uc)

	resp, _ := http.Get(srv.URL + "/api/v1/visualizations/current")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("empty cache status: %d", resp.StatusCode)
	}

	v := &model.Visualization{ID: "v1", ImageURL: "https://cdn/v1.png"}
	_ = mem.SetCurrent(context.Background(), v)
	_ = mem.Append(context.Background(), v)

	resp, err := http.Get(srv.URL + "/api/v1/visualizations/current")
	if err != nil {
		t.Fatalf("get current: %v", err)
	}
	defer resp.Body.Close()
	var got model.Visualization
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "v1" {
		t.Fatalf("current: %+v", got)
	}

	hresp, err := http.Get(srv.URL + "/api/v1/visualizations")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	defer hresp.Body.Close()
	var hist []model.Visualization
	if err := json.NewDecoder(hresp.Body).Decode(&hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(hist) != 1 || hist[0].ID != "v1" {
		t.Fatalf("history: %+v", hist)
	}
}

func TestGetVisualizationEndpoint(t *testing.T) {
	uc := &fakeUC{getResult: &model.VisualizationJob{
		ID:            "job1",
		Status:        model.JobStatusCompleted,
		Visualization: &model.Visualization{ID: "v1"},
	}}
	srv, _, _ := newTestServer(t, uc)

	resp, err := http.Get(srv.URL + "/api/v1/visualizations/job1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var job model.VisualizationJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if job.ID != "job1" || job.Visualization == nil {
		t.Fatalf("job: %+v", job)
	}

	missing, _ := http.Get(srv.URL + "/api/v1/visualizations/other")
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("missing status: %d", missing.StatusCode)
	}
}

func TestNotificationsEndpoint(t *testing.T) {
	uc := &fakeUC{}
	srv, _, feed := newTestServer(t, uc)

	feed.Notify(context.Background(), model.NotificationSuccess, "Visualization ready")

	resp, err := http.Get(srv.URL + "/api/v1/notifications")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var items []model.Notification
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].Kind != model.NotificationSuccess {
		t.Fatalf("items: %+v", items)
	}
}
