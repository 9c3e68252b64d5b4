package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"lexiai-backend/repository"
	"lexiai-backend/store"
)

// fakeInvoker returns canned results, or an error, and records requests.
// When gate is set, Invoke blocks until the channel is closed.
type fakeInvoker struct {
	result   map[string]any
	text     string
	err      error
	gate     chan struct{}
	prompts  []string
	requests []InvokeRequest
}

func (f *fakeInvoker) Invoke(ctx context.Context, req InvokeRequest) (map[string]any, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.prompts = append(f.prompts, req.Prompt)
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeInvoker) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// fakeExtractor maps filenames to extracted content
type fakeExtractor struct {
	content map[string]string
	err     error
}

func (f *fakeExtractor) Extract(ctx context.Context, fileURL, filename string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.content[filename], nil
}

// fakeStorage accepts every upload unless failing is set
type fakeStorage struct {
	failing bool
}

func (f *fakeStorage) Upload(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error) {
	if f.failing {
		return "", fmt.Errorf("connection reset")
	}
	return "/files/" + fileID.String() + "/" + filename, nil
}

func (f *fakeStorage) Download(ctx context.Context, fileURL string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (f *fakeStorage) Delete(ctx context.Context, fileURL string) error {
	return nil
}

func newTestRepos(t *testing.T) (*repository.CaseRepository, *repository.DocumentRepository, *repository.MessageRepository) {
	t.Helper()
	blobs, err := store.NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)
	s := store.New(blobs)
	return repository.NewCaseRepository(s), repository.NewDocumentRepository(s), repository.NewMessageRepository(s)
}

// waitForJob polls until the job leaves the processing states
func waitForJob(t *testing.T, svc *IntakeService, jobID string) *IntakeJob {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := svc.GetJob(jobID)
		require.NoError(t, err)
		if job.Status == JobStatusComplete || job.Status == JobStatusError {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("intake job did not finish")
	return nil
}
