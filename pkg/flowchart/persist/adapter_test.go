package persist

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/flowchart/pkg/flowchart"
	"github.com/randalmurphal/flowchart/pkg/flowchart/export"
)

// testDocument builds a small labeled document with the given title.
func testDocument(title string) *flowchart.Document {
	doc := flowchart.NewDocument()
	doc.Metadata.Title = title
	doc.Metadata.LastModified = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return doc
}

// runAdapterTests exercises the Adapter contract against any
// implementation.
func runAdapterTests(t *testing.T, newAdapter func(t *testing.T) Adapter) {
	t.Run("LoadMissing", func(t *testing.T) {
		a := newAdapter(t)
		defer a.Close()

		_, err := a.Load(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("SaveLoadRoundTrip", func(t *testing.T) {
		a := newAdapter(t)
		defer a.Close()

		doc := testDocument("Onboarding")
		require.NoError(t, a.Save(context.Background(), "p1", doc))

		got, err := a.Load(context.Background(), "p1")
		require.NoError(t, err)
		assert.Equal(t, doc, got)
	})

	t.Run("SaveOverwrites", func(t *testing.T) {
		a := newAdapter(t)
		defer a.Close()

		require.NoError(t, a.Save(context.Background(), "p1", testDocument("v1")))
		require.NoError(t, a.Save(context.Background(), "p1", testDocument("v2")))

		got, err := a.Load(context.Background(), "p1")
		require.NoError(t, err)
		assert.Equal(t, "v2", got.Metadata.Title)

		infos, err := a.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, infos, 1)
	})

	t.Run("Delete", func(t *testing.T) {
		a := newAdapter(t)
		defer a.Close()

		require.NoError(t, a.Save(context.Background(), "p1", testDocument("t")))
		require.NoError(t, a.Delete(context.Background(), "p1"))

		_, err := a.Load(context.Background(), "p1")
		assert.ErrorIs(t, err, ErrNotFound)

		// Deleting an absent project is not an error.
		assert.NoError(t, a.Delete(context.Background(), "p1"))
	})

	t.Run("List", func(t *testing.T) {
		a := newAdapter(t)
		defer a.Close()

		infos, err := a.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, infos)

		require.NoError(t, a.Save(context.Background(), "p1", testDocument("First")))
		require.NoError(t, a.Save(context.Background(), "p2", testDocument("Second")))

		infos, err = a.List(context.Background())
		require.NoError(t, err)
		require.Len(t, infos, 2)
		for _, info := range infos {
			assert.NotEmpty(t, info.Title)
			assert.Positive(t, info.Size)
			assert.False(t, info.SavedAt.IsZero())
		}
	})

	t.Run("Closed", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.Save(context.Background(), "p1", testDocument("t")))
		require.NoError(t, a.Close())

		_, err := a.Load(context.Background(), "p1")
		assert.ErrorIs(t, err, ErrAdapterClosed)
		assert.ErrorIs(t, a.Save(context.Background(), "p1", testDocument("t")), ErrAdapterClosed)
		assert.ErrorIs(t, a.Delete(context.Background(), "p1"), ErrAdapterClosed)
		_, err = a.List(context.Background())
		assert.ErrorIs(t, err, ErrAdapterClosed)
	})
}

// TestMemoryAdapter runs the adapter contract against the in-memory
// implementation.
func TestMemoryAdapter(t *testing.T) {
	runAdapterTests(t, func(t *testing.T) Adapter {
		return NewMemoryAdapter()
	})
}

// TestSQLiteAdapter runs the adapter contract against SQLite backed by
// a temp file.
func TestSQLiteAdapter(t *testing.T) {
	runAdapterTests(t, func(t *testing.T) Adapter {
		a, err := NewSQLiteAdapter(filepath.Join(t.TempDir(), "flowcharts.db"))
		require.NoError(t, err)
		return a
	})
}

// TestSQLiteAdapter_Reopen verifies documents survive closing and
// reopening the database file.
func TestSQLiteAdapter_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowcharts.db")

	a, err := NewSQLiteAdapter(path)
	require.NoError(t, err)
	doc := testDocument("Durable")
	require.NoError(t, a.Save(context.Background(), "p1", doc))
	require.NoError(t, a.Close())

	b, err := NewSQLiteAdapter(path)
	require.NoError(t, err)
	defer b.Close()

	got, err := b.Load(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

// TestPersistError_Unwrap verifies the wrapper chains to the
// underlying error and renders the operation and project.
func TestPersistError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := &PersistError{Op: "save", ProjectID: "p1", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "persist save p1: disk full", err.Error())

	listErr := &PersistError{Op: "list", Err: cause}
	assert.Equal(t, "persist list: disk full", listErr.Error())
}

// TestSQLiteAdapter_CorruptBlob verifies a document that no longer
// decodes surfaces as a PersistError wrapping the codec failure.
func TestSQLiteAdapter_CorruptBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowcharts.db")

	a, err := NewSQLiteAdapter(path)
	require.NoError(t, err)
	require.NoError(t, a.Save(context.Background(), "p1", testDocument("Broken")))
	require.NoError(t, a.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE flowcharts SET document = ? WHERE project_id = ?`, []byte("{"), "p1")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	b, err := NewSQLiteAdapter(path)
	require.NoError(t, err)
	defer b.Close()

	_, err = b.Load(context.Background(), "p1")
	var perr *PersistError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "load", perr.Op)
	assert.Equal(t, "p1", perr.ProjectID)
	assert.ErrorIs(t, err, export.ErrInvalidEnvelope)
}

// TestMemoryAdapter_Len covers the test-only length helper.
func TestMemoryAdapter_Len(t *testing.T) {
	a := NewMemoryAdapter()
	assert.Zero(t, a.Len())
	require.NoError(t, a.Save(context.Background(), "p1", testDocument("t")))
	assert.Equal(t, 1, a.Len())
}
