package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexiai-backend/models"
	"lexiai-backend/repository"
)

func newTestIntake(t *testing.T, llm Invoker, extractor Extractor, files *fakeStorage) (*IntakeService, *intakeFixture) {
	t.Helper()
	cases, documents, _ := newTestRepos(t)
	svc := NewIntakeService(
		IntakeWithCaseRepository(cases),
		IntakeWithDocumentRepository(documents),
		IntakeWithFileStorage(files),
		IntakeWithExtractor(extractor),
		IntakeWithInvoker(llm),
	)
	return svc, &intakeFixture{cases: cases, documents: documents}
}

type intakeFixture struct {
	cases     *repository.CaseRepository
	documents *repository.DocumentRepository
}

func TestStartIntakeRejectsEmptyDescription(t *testing.T) {
	svc, _ := newTestIntake(t, &fakeInvoker{}, &fakeExtractor{}, &fakeStorage{})
	_, err := svc.StartIntake("   ", nil)
	assert.ErrorIs(t, err, ErrEmptyDescription)
}

func TestIntakeWithoutFilesCreatesActiveCase(t *testing.T) {
	llm := &fakeInvoker{result: map[string]any{
		"title":     "Landlord deposit dispute",
		"case_type": "contract_dispute",
		"status":    "closed", // must be ignored in favor of active
	}}
	svc, fx := newTestIntake(t, llm, &fakeExtractor{}, &fakeStorage{})

	job, err := svc.StartIntake("My landlord refuses to return my deposit.", nil)
	require.NoError(t, err)
	job = waitForJob(t, svc, job.ID)

	require.Equal(t, JobStatusComplete, job.Status)
	require.NotEmpty(t, job.CaseID)

	cases, err := fx.cases.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, job.CaseID, cases[0].ID)
	assert.Equal(t, models.CaseStatusActive, cases[0].Status)
	assert.Equal(t, "Landlord deposit dispute", cases[0].Title)

	// no upload or document stages without files
	for _, stage := range job.Stages {
		assert.NotEqual(t, "Uploading documents...", stage.Title)
		assert.NotEqual(t, "Saving case documents...", stage.Title)
	}
}

func TestIntakeExcludesInvalidFilesButProceeds(t *testing.T) {
	llm := &fakeInvoker{result: map[string]any{
		"title":     "Deposit dispute",
		"case_type": "contract_dispute",
	}}
	svc, fx := newTestIntake(t, llm, &fakeExtractor{content: map[string]string{"lease.pdf": "lease text"}}, &fakeStorage{})

	files := []IntakeFile{
		{Name: "lease.pdf", Size: 1024, Data: []byte("pdf")},
		{Name: "huge.pdf", Size: 11 * 1024 * 1024, Data: nil},
		{Name: "malware.exe", Size: 10, Data: []byte("x")},
	}
	job, err := svc.StartIntake("Deposit dispute with documents.", files)
	require.NoError(t, err)

	assert.Contains(t, job.FileErrors, "huge.pdf: File size (11.0MB) exceeds 10MB limit")
	assert.Contains(t, job.FileErrors, "malware.exe: File type not supported. Please use PDF, DOCX, TXT, or image files")

	job = waitForJob(t, svc, job.ID)
	require.Equal(t, JobStatusComplete, job.Status)

	docs, err := fx.documents.Filter(context.Background(), map[string]any{"case_id": job.CaseID}, "")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "lease", docs[0].Title)
	assert.Equal(t, "pdf", docs[0].FileType)
	assert.Equal(t, "lease text", docs[0].ExtractedContent)
	assert.Equal(t, models.CategoryOther, docs[0].DocumentCategory)
}

func TestIntakeUploadFailureLeavesNoCase(t *testing.T) {
	llm := &fakeInvoker{result: map[string]any{"title": "x", "case_type": "other"}}
	svc, fx := newTestIntake(t, llm, &fakeExtractor{}, &fakeStorage{failing: true})

	job, err := svc.StartIntake("Dispute.", []IntakeFile{{Name: "lease.pdf", Size: 10, Data: []byte("p")}})
	require.NoError(t, err)
	job = waitForJob(t, svc, job.ID)

	require.Equal(t, JobStatusError, job.Status)
	assert.Equal(t, "Failed to upload documents. Please try again with smaller files or check your internet connection.", job.Error)
	assert.Empty(t, job.CaseID)

	require.Equal(t, "Uploading documents...", job.Stages[0].Title)
	assert.Equal(t, StageError, job.Stages[0].Status)
	assert.Equal(t, "Failed to upload one or more files", job.Stages[0].Error)

	cases, err := fx.cases.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, cases)
}

func TestIntakeExtractionFailureUsesPlaceholder(t *testing.T) {
	llm := &fakeInvoker{result: map[string]any{"title": "Dispute", "case_type": "other"}}
	svc, fx := newTestIntake(t, llm, &fakeExtractor{err: fmt.Errorf("model overloaded")}, &fakeStorage{})

	job, err := svc.StartIntake("Dispute.", []IntakeFile{{Name: "scan.jpg", Size: 10, Data: []byte("j")}})
	require.NoError(t, err)
	job = waitForJob(t, svc, job.ID)
	require.Equal(t, JobStatusComplete, job.Status)

	docs, err := fx.documents.Filter(context.Background(), map[string]any{"case_id": job.CaseID}, "")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "[Content extraction failed for scan.jpg]", docs[0].ExtractedContent)
}

func TestIntakeAbortsWhenAIResponseIncomplete(t *testing.T) {
	llm := &fakeInvoker{result: map[string]any{"description": "no title here"}}
	svc, fx := newTestIntake(t, llm, &fakeExtractor{}, &fakeStorage{})

	job, err := svc.StartIntake("Something vague.", nil)
	require.NoError(t, err)
	job = waitForJob(t, svc, job.ID)

	require.Equal(t, JobStatusError, job.Status)
	assert.Equal(t, "Analysis failed: AI response is incomplete or invalid. Missing title or case_type. Please simplify your description or try again.", job.Error)

	cases, err := fx.cases.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, cases)
}

func TestIntakeAppliesFallbacks(t *testing.T) {
	llm := &fakeInvoker{result: map[string]any{
		"title":     "Noise complaint",
		"case_type": "not_a_real_type",
		"priority":  "extreme",
	}}
	svc, fx := newTestIntake(t, llm, &fakeExtractor{}, &fakeStorage{})

	job, err := svc.StartIntake("Neighbor plays drums at 3am.", nil)
	require.NoError(t, err)
	job = waitForJob(t, svc, job.ID)
	require.Equal(t, JobStatusComplete, job.Status)

	cases, err := fx.cases.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, models.CaseTypeOther, cases[0].CaseType)
	assert.Equal(t, models.PriorityMedium, cases[0].Priority)
	assert.Equal(t, "Neighbor plays drums at 3am.", cases[0].Description)
}

func TestIntakeRetryRunsFromScratch(t *testing.T) {
	llm := &fakeInvoker{err: fmt.Errorf("quota exceeded")}
	svc, fx := newTestIntake(t, llm, &fakeExtractor{}, &fakeStorage{})

	job, err := svc.StartIntake("Dispute.", nil)
	require.NoError(t, err)
	job = waitForJob(t, svc, job.ID)
	require.Equal(t, JobStatusError, job.Status)

	llm.err = nil
	llm.result = map[string]any{"title": "Dispute", "case_type": "other"}

	job, err = svc.Retry(job.ID)
	require.NoError(t, err)
	job = waitForJob(t, svc, job.ID)

	require.Equal(t, JobStatusComplete, job.Status)
	assert.NotEmpty(t, job.CaseID)
	assert.Empty(t, job.Error)

	cases, err := fx.cases.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, cases, 1)
}

func TestRetryWhileProcessingDoesNotStartSecondRun(t *testing.T) {
	gate := make(chan struct{})
	llm := &fakeInvoker{
		result: map[string]any{"title": "Dispute", "case_type": "other"},
		gate:   gate,
	}
	svc, fx := newTestIntake(t, llm, &fakeExtractor{}, &fakeStorage{})

	job, err := svc.StartIntake("Dispute.", nil)
	require.NoError(t, err)

	// wait until the run is blocked inside the AI stage
	deadline := time.Now().Add(5 * time.Second)
	for {
		snap, err := svc.GetJob(job.ID)
		require.NoError(t, err)
		if len(snap.Stages) > 0 {
			break
		}
		require.True(t, time.Now().Before(deadline), "intake run never started")
		time.Sleep(5 * time.Millisecond)
	}

	retried, err := svc.Retry(job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusProcessing, retried.Status)

	close(gate)
	job = waitForJob(t, svc, job.ID)
	require.Equal(t, JobStatusComplete, job.Status)

	// a single run: one case, no interleaved stage list
	cases, err := fx.cases.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, cases, 1)
	require.Len(t, job.Stages, 3)
	for _, stage := range job.Stages {
		assert.Equal(t, StageComplete, stage.Status)
	}
}

func TestRetryUnknownJob(t *testing.T) {
	svc, _ := newTestIntake(t, &fakeInvoker{}, &fakeExtractor{}, &fakeStorage{})
	_, err := svc.Retry("nope")
	assert.ErrorIs(t, err, ErrJobNotFound)
}
