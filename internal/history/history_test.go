package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpen_CreatesDatabase(t *testing.T) {
	store := testStore(t)

	runs, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRecord_AssignsIDAndTimestamp(t *testing.T) {
	store := testStore(t)

	err := store.Record(context.Background(), Run{
		Company: "Acme",
		Role:    "Engineer",
		Folder:  "/jobs/acme/engineer",
		CVOK:    true,
	})
	require.NoError(t, err)

	runs, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.NotEqual(t, uuid.Nil, runs[0].ID)
	assert.False(t, runs[0].CreatedAt.IsZero())
	assert.True(t, runs[0].CVOK)
	assert.Nil(t, runs[0].CoverOK, "no cover letter requested")
}

func TestRecord_RoundTripsAllFields(t *testing.T) {
	store := testStore(t)
	coverOK := false
	id := uuid.New()
	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	err := store.Record(context.Background(), Run{
		ID:        id,
		Company:   "Acme",
		Role:      "Engineer",
		Folder:    "/jobs/acme/engineer",
		CVOK:      true,
		CoverOK:   &coverOK,
		PDFPath:   "/jobs/acme/engineer/cv.pdf",
		Message:   "cover letter template missing",
		CreatedAt: created,
	})
	require.NoError(t, err)

	runs, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	r := runs[0]
	assert.Equal(t, id, r.ID)
	assert.Equal(t, "Acme", r.Company)
	assert.Equal(t, "Engineer", r.Role)
	assert.Equal(t, "/jobs/acme/engineer/cv.pdf", r.PDFPath)
	assert.Equal(t, "cover letter template missing", r.Message)
	require.NotNil(t, r.CoverOK)
	assert.False(t, *r.CoverOK)
	assert.True(t, created.Equal(r.CreatedAt))
}

func TestList_NewestFirst(t *testing.T) {
	store := testStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, company := range []string{"First", "Second", "Third"} {
		require.NoError(t, store.Record(context.Background(), Run{
			Company:   company,
			Role:      "Engineer",
			Folder:    "/jobs/x",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	runs, err := store.List(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, runs, 3)
	assert.Equal(t, "Third", runs[0].Company)
	assert.Equal(t, "First", runs[2].Company)
}

func TestList_RespectsLimit(t *testing.T) {
	store := testStore(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(context.Background(), Run{
			Company: "Acme", Role: "Engineer", Folder: "/jobs/x",
			CreatedAt: time.Date(2026, 1, 1, i, 0, 0, 0, time.UTC),
		}))
	}

	runs, err := store.List(context.Background(), 2)
	require.NoError(t, err)

	assert.Len(t, runs, 2)
}

func TestOpen_ReopenSeesExistingRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(context.Background(), Run{
		Company: "Acme", Role: "Engineer", Folder: "/jobs/x",
	}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	runs, err := reopened.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
