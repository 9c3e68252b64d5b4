package service

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lexiai-backend/models"
	"lexiai-backend/repository"
	"lexiai-backend/storage"
)

// Stage and job statuses
const (
	StageProcessing = "processing"
	StageComplete   = "complete"
	StageError      = "error"

	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusComplete   = "complete"
	JobStatusError      = "error"
)

// MaxFileSize is the per-file upload limit (10 MiB)
const MaxFileSize = 10 * 1024 * 1024

// allowedExtensions are the file types accepted for intake uploads
var allowedExtensions = map[string]bool{
	"pdf":  true,
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"docx": true,
	"txt":  true,
}

// IntakeStage represents one step of the case-creation pipeline
type IntakeStage struct {
	Title  string `json:"title"`
	Status string `json:"status"` // "processing", "complete", "error"
	Error  string `json:"error,omitempty"`
}

// IntakeFile is one file attached to an intake run
type IntakeFile struct {
	Name string
	Size int64
	Data []byte
}

// IntakeJob tracks one case-creation run: its ordered stages, per-file
// validation errors, and the id of the created case once the run completes.
type IntakeJob struct {
	ID         string        `json:"id"`
	Status     string        `json:"status"`
	Stages     []IntakeStage `json:"stages"`
	FileErrors []string      `json:"file_errors,omitempty"`
	CaseID     string        `json:"case_id,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// intakeInput holds the raw inputs of a run so retry can re-execute it
// from the first stage.
type intakeInput struct {
	description string
	files       []IntakeFile
}

// IntakeService runs the case-creation workflow: upload, extract,
// AI-structure, persist, link documents. Jobs are kept in memory; intake
// progress is session state, not an entity.
type IntakeService struct {
	cases     *repository.CaseRepository
	documents *repository.DocumentRepository
	files     storage.Storage
	extractor Extractor
	llm       Invoker
	log       *zap.SugaredLogger

	mu     sync.Mutex
	jobs   map[string]*IntakeJob
	inputs map[string]*intakeInput
}

// IntakeOption is a functional option for IntakeService
type IntakeOption func(*IntakeService)

// IntakeWithCaseRepository sets the case repository
func IntakeWithCaseRepository(repo *repository.CaseRepository) IntakeOption {
	return func(s *IntakeService) { s.cases = repo }
}

// IntakeWithDocumentRepository sets the document repository
func IntakeWithDocumentRepository(repo *repository.DocumentRepository) IntakeOption {
	return func(s *IntakeService) { s.documents = repo }
}

// IntakeWithFileStorage sets the file storage collaborator
func IntakeWithFileStorage(files storage.Storage) IntakeOption {
	return func(s *IntakeService) { s.files = files }
}

// IntakeWithExtractor sets the content extraction collaborator
func IntakeWithExtractor(extractor Extractor) IntakeOption {
	return func(s *IntakeService) { s.extractor = extractor }
}

// IntakeWithInvoker sets the LLM collaborator
func IntakeWithInvoker(llm Invoker) IntakeOption {
	return func(s *IntakeService) { s.llm = llm }
}

// IntakeWithLogger sets the logger
func IntakeWithLogger(log *zap.SugaredLogger) IntakeOption {
	return func(s *IntakeService) { s.log = log }
}

// NewIntakeService creates a new intake service
func NewIntakeService(opts ...IntakeOption) *IntakeService {
	s := &IntakeService{
		jobs:   make(map[string]*IntakeJob),
		inputs: make(map[string]*intakeInput),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = zap.NewNop().Sugar()
	}
	return s
}

// ValidateFile checks a single file against the size and type limits and
// returns a user-facing message per violation.
func ValidateFile(name string, size int64) []string {
	var errs []string
	if size > MaxFileSize {
		errs = append(errs, fmt.Sprintf("%s: File size (%.1fMB) exceeds 10MB limit", name, float64(size)/1024/1024))
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if !allowedExtensions[ext] {
		errs = append(errs, fmt.Sprintf("%s: File type not supported. Please use PDF, DOCX, TXT, or image files", name))
	}
	return errs
}

// StartIntake validates the inputs, registers a job, and begins processing
// in the background. Files failing validation are excluded from the run
// and reported per file; they never abort it.
func (s *IntakeService) StartIntake(description string, files []IntakeFile) (*IntakeJob, error) {
	if s.cases == nil || s.documents == nil {
		return nil, fmt.Errorf("intake service repositories not set")
	}
	if strings.TrimSpace(description) == "" {
		return nil, ErrEmptyDescription
	}

	var fileErrors []string
	valid := make([]IntakeFile, 0, len(files))
	for _, f := range files {
		if errs := ValidateFile(f.Name, f.Size); len(errs) > 0 {
			fileErrors = append(fileErrors, errs...)
			continue
		}
		valid = append(valid, f)
	}

	job := &IntakeJob{
		ID:         uuid.NewString(),
		Status:     JobStatusPending,
		FileErrors: fileErrors,
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.inputs[job.ID] = &intakeInput{description: description, files: valid}
	s.mu.Unlock()

	go s.process(context.Background(), job.ID)
	return s.snapshot(job.ID), nil
}

// GetJob returns a snapshot of a job's current state
func (s *IntakeService) GetJob(jobID string) (*IntakeJob, error) {
	job := s.snapshot(jobID)
	if job == nil {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// Retry resets all stage state of a failed job and re-runs it from the
// first stage with the same inputs. A job that is still running, or that
// already completed, is returned as is; only an errored run can restart.
func (s *IntakeService) Retry(jobID string) (*IntakeJob, error) {
	s.mu.Lock()
	job, ok := s.jobs[jobID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrJobNotFound
	}
	if job.Status != JobStatusError {
		s.mu.Unlock()
		return s.snapshot(jobID), nil
	}
	job.Status = JobStatusPending
	job.Stages = nil
	job.Error = ""
	job.CaseID = ""
	s.mu.Unlock()

	go s.process(context.Background(), jobID)
	return s.snapshot(jobID), nil
}

// process executes the pipeline stages strictly in order. An aborting
// stage leaves no case record behind for the run.
func (s *IntakeService) process(ctx context.Context, jobID string) {
	s.mu.Lock()
	input, ok := s.inputs[jobID]
	if !ok {
		s.mu.Unlock()
		return
	}
	job := s.jobs[jobID]
	job.Status = JobStatusProcessing
	job.Stages = nil
	files := input.files
	description := input.description
	s.mu.Unlock()

	var fileURLs []string
	var contents []string

	if len(files) > 0 {
		// Stage: upload all files concurrently; any failure aborts the run
		stage := s.addStage(jobID, "Uploading documents...")
		urls := make([]string, len(files))
		g, gctx := errgroup.WithContext(ctx)
		for i, f := range files {
			i, f := i, f
			g.Go(func() error {
				url, err := s.files.Upload(gctx, uuid.New(), f.Name, bytes.NewReader(f.Data))
				if err != nil {
					return fmt.Errorf("%s: %w", f.Name, err)
				}
				urls[i] = url
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			s.log.Warnw("intake upload failed", "job", jobID, "error", err)
			s.failStage(jobID, stage, "Failed to upload one or more files",
				"Failed to upload documents. Please try again with smaller files or check your internet connection.")
			return
		}
		fileURLs = urls
		s.completeStage(jobID, stage)

		// Stage: extract content per file; failures are isolated and
		// replaced with a placeholder marker.
		stage = s.addStage(jobID, "Analyzing document contents...")
		contents = make([]string, len(files))
		var wg sync.WaitGroup
		for i, f := range files {
			i, f := i, f
			wg.Add(1)
			go func() {
				defer wg.Done()
				content, err := s.extractor.Extract(ctx, fileURLs[i], f.Name)
				if err != nil || content == "" {
					if err != nil {
						s.log.Warnw("extraction failed", "job", jobID, "file", f.Name, "error", err)
					}
					content = fmt.Sprintf("[Content extraction failed for %s]", f.Name)
				}
				contents[i] = content
			}()
		}
		wg.Wait()
		s.completeStage(jobID, stage)
	}

	// Stage: AI-structure the case from the description and document text
	stage := s.addStage(jobID, "AI is structuring your case...")
	result, err := s.structureCase(ctx, description, files, contents)
	if err != nil {
		s.log.Warnw("intake structuring failed", "job", jobID, "error", err)
		s.failStage(jobID, stage, err.Error(),
			fmt.Sprintf("Analysis failed: %s. Please simplify your description or try again.", err))
		return
	}
	s.completeStage(jobID, stage)

	// Stage: persist the case, with fallback defaults beyond the AI check
	stage = s.addStage(jobID, "Creating the legal case...")
	newCase, err := s.persistCase(ctx, description, result)
	if err != nil || newCase.ID == "" {
		if err == nil {
			err = fmt.Errorf("case was not created successfully, returned invalid ID")
		}
		s.log.Errorw("intake case persist failed", "job", jobID, "error", err)
		s.failStage(jobID, stage, err.Error(),
			fmt.Sprintf("Analysis failed: %s. Please simplify your description or try again.", err))
		return
	}
	s.completeStage(jobID, stage)

	// Stage: link documents to the new case, best-effort per file
	if len(files) > 0 {
		stage = s.addStage(jobID, "Saving case documents...")
		var wg sync.WaitGroup
		for i, f := range files {
			i, f := i, f
			wg.Add(1)
			go func() {
				defer wg.Done()
				ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Name), "."))
				_, err := s.documents.Create(ctx, &models.Document{
					CaseID:           newCase.ID,
					Title:            strings.TrimSuffix(f.Name, filepath.Ext(f.Name)),
					FileURL:          fileURLs[i],
					FileType:         ext,
					ExtractedContent: contents[i],
					DocumentCategory: models.CategoryOther,
				})
				if err != nil {
					s.log.Warnw("document persist failed", "job", jobID, "case", newCase.ID, "file", f.Name, "error", err)
				}
			}()
		}
		wg.Wait()
		s.completeStage(jobID, stage)
	}

	stage = s.addStage(jobID, "Redirecting to your new case...")
	s.completeStage(jobID, stage)

	s.mu.Lock()
	job.Status = JobStatusComplete
	job.CaseID = newCase.ID
	s.mu.Unlock()
}

// structureCase asks the LLM for a case object constrained to the case
// schema (minus status) and checks the required fields are present.
func (s *IntakeService) structureCase(ctx context.Context, description string, files []IntakeFile, contents []string) (map[string]any, error) {
	schema := s.cases.Schema().WithoutProperty("status")

	var documentsContext string
	if len(contents) > 0 {
		blocks := make([]string, len(contents))
		for i, content := range contents {
			blocks[i] = fmt.Sprintf("Document %d (%s):\n%s", i+1, files[i].Name, content)
		}
		documentsContext = fmt.Sprintf("Content from Uploaded Documents:\n---\n%s\n---\n\n", strings.Join(blocks, "\n\n---\n\n"))
	}

	fromDocuments := ""
	if len(contents) > 0 {
		fromDocuments = " and the content of the provided documents"
	}
	prompt := fmt.Sprintf("You are an expert legal AI assistant specializing in case intake and analysis. "+
		"Based on the user's description%s, analyze the information and structure it into a new legal case.\n\n"+
		"User's Description:\n---\n%s\n---\n\n%s"+
		"Your task is to analyze all this information and generate a structured JSON object for the new legal case.",
		fromDocuments, description, documentsContext)

	result, err := s.llm.Invoke(ctx, InvokeRequest{Prompt: prompt, ResponseSchema: schema})
	if err != nil {
		return nil, err
	}

	title, _ := result["title"].(string)
	caseType, _ := result["case_type"].(string)
	if title == "" || caseType == "" {
		return nil, ErrIncompleteAIResponse
	}
	return result, nil
}

// persistCase creates the case record, forcing status to active and
// falling back to safe defaults for anything the AI omitted.
func (s *IntakeService) persistCase(ctx context.Context, description string, result map[string]any) (*models.Case, error) {
	str := func(key string) string {
		v, _ := result[key].(string)
		return v
	}

	c := models.Case{
		Title:        str("title"),
		CaseType:     models.CaseType(str("case_type")),
		Description:  str("description"),
		Jurisdiction: str("jurisdiction"),
		Priority:     models.CasePriority(str("priority")),
		Deadline:     str("deadline"),
		Status:       models.CaseStatusActive,
	}
	if c.Title == "" {
		c.Title = "Untitled Legal Case"
	}
	if !oneOf(string(c.CaseType), models.CaseTypes) {
		c.CaseType = models.CaseTypeOther
	}
	if !oneOf(string(c.Priority), models.CasePriorities) {
		c.Priority = ""
	}
	if c.Description == "" {
		c.Description = description
	}

	return s.cases.Create(ctx, &c)
}

func oneOf(value string, allowed []string) bool {
	for _, v := range allowed {
		if v == value {
			return true
		}
	}
	return false
}

// snapshot returns a copy of a job safe to hand to callers
func (s *IntakeService) snapshot(jobID string) *IntakeJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil
	}
	out := *job
	out.Stages = append([]IntakeStage(nil), job.Stages...)
	out.FileErrors = append([]string(nil), job.FileErrors...)
	return &out
}

func (s *IntakeService) addStage(jobID, title string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := s.jobs[jobID]
	job.Stages = append(job.Stages, IntakeStage{Title: title, Status: StageProcessing})
	return len(job.Stages) - 1
}

func (s *IntakeService) completeStage(jobID string, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[jobID].Stages[index].Status = StageComplete
}

// failStage marks a stage and the whole job as failed; the run aborts
func (s *IntakeService) failStage(jobID string, index int, stageErr, jobErr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := s.jobs[jobID]
	job.Stages[index].Status = StageError
	job.Stages[index].Error = stageErr
	job.Status = JobStatusError
	job.Error = jobErr
}
