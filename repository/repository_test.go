package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexiai-backend/models"
	"lexiai-backend/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	blobs, err := store.NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)
	return store.New(blobs)
}

func TestCaseCreateAppliesDefaults(t *testing.T) {
	repo := NewCaseRepository(newTestStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.Case{
		Title:    "Smith v. Jones",
		CaseType: models.CaseTypeContractDispute,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.CreatedDate)
	assert.Equal(t, models.CaseStatusActive, created.Status)
	assert.Equal(t, models.PriorityMedium, created.Priority)
}

func TestCaseCreateRequiresTitleAndType(t *testing.T) {
	repo := NewCaseRepository(newTestStore(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.Case{CaseType: models.CaseTypeOther})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = repo.Create(ctx, &models.Case{Title: "t"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = repo.Create(ctx, &models.Case{Title: "t", CaseType: "made_up"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCaseUpdatePatchOverwritesOnlyPatchedFields(t *testing.T) {
	repo := NewCaseRepository(newTestStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.Case{
		Title:        "t",
		CaseType:     models.CaseTypeEmployment,
		Jurisdiction: "Texas",
	})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, map[string]any{"priority": "urgent"})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityUrgent, updated.Priority)
	assert.Equal(t, "t", updated.Title)
	assert.Equal(t, "Texas", updated.Jurisdiction)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedDate, updated.CreatedDate)
}

func TestCaseUpdateRejectsInvalidEnumPatch(t *testing.T) {
	repo := NewCaseRepository(newTestStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.Case{Title: "t", CaseType: models.CaseTypeOther})
	require.NoError(t, err)

	_, err = repo.Update(ctx, created.ID, map[string]any{"status": "bogus"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCaseUpdateMissingIDReturnsNotFound(t *testing.T) {
	repo := NewCaseRepository(newTestStore(t))

	_, err := repo.Update(context.Background(), "missing", map[string]any{"priority": "high"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCaseSchemaDescriptor(t *testing.T) {
	repo := NewCaseRepository(newTestStore(t))

	schema := repo.Schema()
	assert.Equal(t, []string{"title", "case_type"}, schema.Required)
	assert.Len(t, schema.Properties["case_type"].Enum, 10)
	assert.Equal(t, "active", schema.Properties["status"].Default)
}

func TestDocumentCreateRequiresCaseIDAndDefaultsCategory(t *testing.T) {
	repo := NewDocumentRepository(newTestStore(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.Document{Title: "d"})
	assert.ErrorIs(t, err, ErrValidation)

	created, err := repo.Create(ctx, &models.Document{CaseID: "c1", Title: "d"})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryOther, created.DocumentCategory)
}

func TestDocumentFilterByCase(t *testing.T) {
	repo := NewDocumentRepository(newTestStore(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.Document{CaseID: "c1", Title: "a"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Document{CaseID: "c2", Title: "b"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Document{CaseID: "c1", Title: "c"})
	require.NoError(t, err)

	docs, err := repo.Filter(ctx, map[string]any{"case_id": "c1"}, "-created_date")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "c", docs[0].Title)
	assert.Equal(t, "a", docs[1].Title)
}

func TestMessageCreateValidatesSender(t *testing.T) {
	repo := NewMessageRepository(newTestStore(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.Message{CaseID: "c1", Message: "hi", Sender: "bot"})
	assert.ErrorIs(t, err, ErrValidation)

	created, err := repo.Create(ctx, &models.Message{CaseID: "c1", Message: "hi", Sender: models.SenderUser})
	require.NoError(t, err)
	assert.Equal(t, "text", created.MessageType)
}

func TestMessageTranscriptOrder(t *testing.T) {
	repo := NewMessageRepository(newTestStore(t))
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		_, err := repo.Create(ctx, &models.Message{CaseID: "c1", Message: text, Sender: models.SenderUser})
		require.NoError(t, err)
	}

	msgs, err := repo.Filter(ctx, map[string]any{"case_id": "c1"}, "created_date")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Message)
	assert.Equal(t, "third", msgs[2].Message)
}
