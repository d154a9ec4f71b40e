package storage_test

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	_ "modernc.org/sqlite"

	"histfacts/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func startSQLite(t *testing.T) (*storage.Manager, storage.FactRepo) {
	t.Helper()
	m := storage.NewManager()
	require.NoError(t, m.Start(openSQLite(t)))
	require.NoError(t, m.Build(context.Background()))

	repo, err := m.Facts()
	require.NoError(t, err)
	return m, repo
}

func sampleRecords() []storage.FactRecord {
	return []storage.FactRecord{
		{ID: 7, Text: "Cleopatra and the iPhone", ImageURL: "https://example.org/c.jpg", Tags: []string{"ancient", "egypt"}, Period: "ancient", Year: -30},
		{ID: 2, Text: "Caligula's horse", Tags: []string{"rome"}, Period: "ancient", Year: 39},
		{ID: 5, Text: "No tags here", Period: "medieval", Year: 1066, IsExplicit: true},
	}
}

func TestManager(t *testing.T) {
	t.Run("UnknownConnection", func(t *testing.T) {
		m := storage.NewManager()
		err := m.Start(struct{}{})
		assert.ErrorIs(t, err, storage.ErrNoAdapter)
		assert.Empty(t, m.Dialect())
	})

	t.Run("NotStarted", func(t *testing.T) {
		m := storage.NewManager()
		assert.ErrorIs(t, m.Start(nil), storage.ErrNotStarted)
		assert.ErrorIs(t, m.Build(context.Background()), storage.ErrNotStarted)

		_, err := m.Facts()
		assert.ErrorIs(t, err, storage.ErrNotStarted)
	})

	t.Run("SQLiteDialect", func(t *testing.T) {
		m, _ := startSQLite(t)
		assert.Equal(t, storage.DialectSQLite, m.Dialect())
		assert.Equal(t, storage.DialectSQLite, m.Driver().Dialect())
	})

	t.Run("BuildIsIdempotent", func(t *testing.T) {
		m, _ := startSQLite(t)
		require.NoError(t, m.Build(context.Background()))
		require.NoError(t, m.Build(context.Background()))
	})
}

func TestSQLFactRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("ReplaceAllAndList", func(t *testing.T) {
		_, repo := startSQLite(t)
		require.NoError(t, repo.ReplaceAll(ctx, sampleRecords()))

		got, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, []int{7, 2, 5}, []int{got[0].ID, got[1].ID, got[2].ID})
		assert.Equal(t, []string{"ancient", "egypt"}, got[0].Tags)
		assert.Equal(t, -30, got[0].Year)
		assert.Equal(t, "https://example.org/c.jpg", got[0].ImageURL)
		assert.Empty(t, got[2].Tags)
		assert.True(t, got[2].IsExplicit)
		assert.False(t, got[1].IsExplicit)
		for i, rec := range got {
			assert.Equal(t, i, rec.Position)
			assert.NotEmpty(t, rec.UUID)
			assert.False(t, rec.DateCreated.IsZero())
		}
	})

	t.Run("ReplaceAllDropsPreviousDataset", func(t *testing.T) {
		_, repo := startSQLite(t)
		require.NoError(t, repo.ReplaceAll(ctx, sampleRecords()))
		require.NoError(t, repo.ReplaceAll(ctx, sampleRecords()[:1]))

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})

	t.Run("UpsertUpdatesInPlace", func(t *testing.T) {
		_, repo := startSQLite(t)
		require.NoError(t, repo.ReplaceAll(ctx, sampleRecords()))

		before, err := repo.List(ctx)
		require.NoError(t, err)

		updated := sampleRecords()[1]
		updated.Text = "Incitatus"
		updated.Tags = []string{"horses"}
		require.NoError(t, repo.Upsert(ctx, updated))

		after, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, after, 3)
		assert.Equal(t, "Incitatus", after[1].Text)
		assert.Equal(t, []string{"horses"}, after[1].Tags)
		assert.Equal(t, before[1].UUID, after[1].UUID)
	})

	t.Run("UpsertKeepsInsertionOrder", func(t *testing.T) {
		_, repo := startSQLite(t)
		assertUpsertKeepsOrder(t, repo)
	})

	t.Run("UpsertIntoEmptyRepo", func(t *testing.T) {
		_, repo := startSQLite(t)
		require.NoError(t, repo.Upsert(ctx, storage.FactRecord{ID: 3, Text: "three"}))
		require.NoError(t, repo.Upsert(ctx, storage.FactRecord{ID: 1, Text: "one"}))

		got, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{3, 1}, recordIDs(got))
		assert.Equal(t, []int{0, 1}, []int{got[0].Position, got[1].Position})
	})

	t.Run("DeleteAll", func(t *testing.T) {
		_, repo := startSQLite(t)
		require.NoError(t, repo.ReplaceAll(ctx, sampleRecords()))
		require.NoError(t, repo.DeleteAll(ctx))

		got, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func recordIDs(recs []storage.FactRecord) []int {
	out := make([]int, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

// assertUpsertKeepsOrder checks that Upsert appends new facts and edits
// existing ones in place, whatever Position the caller passes.
func assertUpsertKeepsOrder(t *testing.T, repo storage.FactRepo) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.ReplaceAll(ctx, sampleRecords()))

	require.NoError(t, repo.Upsert(ctx, storage.FactRecord{ID: 9, Text: "nine"}))
	got, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 2, 5, 9}, recordIDs(got))

	edited := sampleRecords()[2]
	edited.Position = 0
	edited.Text = "edited"
	require.NoError(t, repo.Upsert(ctx, edited))
	got, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 2, 5, 9}, recordIDs(got))
	assert.Equal(t, "edited", got[2].Text)
}
