package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	apperrors "github.com/aura-invites/backend/pkg/errors"
	"github.com/aura-invites/backend/pkg/queue"
)

var errTest = errors.New("boom")

type fakeJobs struct {
	mu      sync.Mutex
	jobs    []*queue.Job
	retried []*queue.Job
}

func (f *fakeJobs) Dequeue(ctx context.Context) (*queue.Job, error) {
	f.mu.Lock()
	if len(f.jobs) > 0 {
		j := f.jobs[0]
		f.jobs = f.jobs[1:]
		f.mu.Unlock()
		return j, nil
	}
	f.mu.Unlock()
	select {
	case <-ctx.Done():
	case <-time.After(time.Millisecond):
	}
	return nil, nil
}

func (f *fakeJobs) Retry(_ context.Context, job *queue.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retried = append(f.retried, job)
	return nil
}

func (f *fakeJobs) state() (left, retried int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.jobs), len(f.retried)
}

type fakeRemover struct {
	mu      sync.Mutex
	removed []string
	err     error
}

func (f *fakeRemover) Remove(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, url)
	return nil
}

func (f *fakeRemover) list() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.removed...)
}

func cleanupJob(t *testing.T, id, url string) *queue.Job {
	t.Helper()
	raw, err := json.Marshal(queue.AssetCleanupPayload{URL: url})
	require.NoError(t, err)
	return &queue.Job{ID: id, Type: queue.JobTypeAssetCleanup, Payload: raw}
}

func TestProcessRemovesAsset(t *testing.T) {
	t.Parallel()

	blobs := &fakeRemover{}
	p := NewAssetCleanupProcessor(&fakeJobs{}, blobs, nil)
	require.NoError(t, p.Process(context.Background(), cleanupJob(t, "1", "https://cdn/images/a.jpg")))
	require.Equal(t, []string{"https://cdn/images/a.jpg"}, blobs.list())
}

func TestProcessErrors(t *testing.T) {
	t.Parallel()

	p := NewAssetCleanupProcessor(&fakeJobs{}, &fakeRemover{}, nil)
	require.Error(t, p.Process(context.Background(), &queue.Job{Type: "recording_upload"}))
	require.Error(t, p.Process(context.Background(), &queue.Job{Type: queue.JobTypeAssetCleanup, Payload: []byte("{")}))

	foreign := NewAssetCleanupProcessor(&fakeJobs{}, &fakeRemover{err: apperrors.NewValidationError("url", "is not a stored asset")}, nil)
	require.NoError(t, foreign.Process(context.Background(), cleanupJob(t, "2", "https://elsewhere/x.png")))

	down := NewAssetCleanupProcessor(&fakeJobs{}, &fakeRemover{err: apperrors.NewPersistenceError("delete asset", errTest)}, nil)
	require.ErrorIs(t, down.Process(context.Background(), cleanupJob(t, "3", "https://cdn/a.png")), errTest)
}

func TestRunRetriesFailedJobs(t *testing.T) {
	t.Parallel()

	jobs := &fakeJobs{jobs: []*queue.Job{cleanupJob(t, "1", "https://cdn/a.png")}}
	p := NewAssetCleanupProcessor(jobs, &fakeRemover{err: errTest}, nil)
	p.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		_, retried := jobs.state()
		return retried == 1
	}, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestRunDrainsQueue(t *testing.T) {
	t.Parallel()

	jobs := &fakeJobs{jobs: []*queue.Job{
		cleanupJob(t, "1", "https://cdn/a.png"),
		cleanupJob(t, "2", "https://cdn/b.mp3"),
	}}
	blobs := &fakeRemover{}
	p := NewAssetCleanupProcessor(jobs, blobs, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	require.Eventually(t, func() bool { return len(blobs.list()) == 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	_, retried := jobs.state()
	require.Zero(t, retried)
}

type memViews struct {
	mu     sync.Mutex
	counts map[uuid.UUID]int64
}

func (m *memViews) add(id uuid.UUID, n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[id] += n
}

func (m *memViews) Drain(context.Context) (map[uuid.UUID]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.counts
	m.counts = map[uuid.UUID]int64{}
	return out, nil
}

func (m *memViews) Restore(_ context.Context, id uuid.UUID, n int64) error {
	m.add(id, n)
	return nil
}

func (m *memViews) get(id uuid.UUID) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[id]
}

type memSink struct {
	mu      sync.Mutex
	views   map[uuid.UUID]int64
	failing map[uuid.UUID]error
}

func (s *memSink) AddViews(_ context.Context, id uuid.UUID, n int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failing[id]; err != nil {
		return err
	}
	s.views[id] += n
	return nil
}

func (s *memSink) get(id uuid.UUID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.views[id]
}

func TestFlushMovesCounts(t *testing.T) {
	t.Parallel()

	stored, failing, gone := uuid.New(), uuid.New(), uuid.New()
	buf := &memViews{counts: map[uuid.UUID]int64{stored: 3, failing: 2}}
	sink := &memSink{
		views: map[uuid.UUID]int64{},
		failing: map[uuid.UUID]error{
			failing: errTest,
			gone:    apperrors.NewNotFoundError("invitation", gone.String()),
		},
	}
	buf.add(gone, 4)
	f := NewViewFlusher(buf, sink, time.Hour, nil)

	require.Equal(t, int64(3), f.Flush(context.Background()))
	require.Equal(t, int64(3), sink.get(stored))
	require.Equal(t, int64(2), buf.get(failing), "failed counts are restored")
	require.Zero(t, buf.get(gone))
	require.Zero(t, buf.get(stored))
}

func TestStopFlushesOnce(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	buf := &memViews{counts: map[uuid.UUID]int64{}}
	sink := &memSink{views: map[uuid.UUID]int64{}}
	f := NewViewFlusher(buf, sink, time.Hour, nil)
	f.Start()
	f.Start()
	buf.add(id, 5)
	f.Stop()
	f.Stop()
	require.Equal(t, int64(5), sink.get(id))
}
