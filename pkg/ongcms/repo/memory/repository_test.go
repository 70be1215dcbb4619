package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vereda-ong/vereda-api/pkg/ongcms"
	"github.com/vereda-ong/vereda-api/pkg/ongcms/repo/memory"
)

func TestInsertAndFindByID(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	doc, err := store.Insert(ctx, "projects", ongcms.Document{"title": "First"})
	require.NoError(t, err)

	assert.NotEmpty(t, doc["id"])
	assert.IsType(t, time.Time{}, doc["createdAt"])
	assert.IsType(t, time.Time{}, doc["updatedAt"])

	found, err := store.FindByID(ctx, "projects", doc["id"].(string))
	require.NoError(t, err)
	assert.Equal(t, "First", found["title"])

	_, err = store.FindByID(ctx, "projects", "missing")
	assert.True(t, errors.Is(err, ongcms.ErrEntityNotFound))
}

func TestInsertDoesNotMutateInput(t *testing.T) {
	store := memory.New()

	input := ongcms.Document{"title": "Untouched"}
	_, err := store.Insert(context.Background(), "projects", input)
	require.NoError(t, err)

	assert.NotContains(t, input, "id")
	assert.NotContains(t, input, "createdAt")
}

func TestUpdateByID(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	doc, err := store.Insert(ctx, "projects", ongcms.Document{"title": "Before", "keep": "me"})
	require.NoError(t, err)
	id := doc["id"].(string)

	updated, err := store.UpdateByID(ctx, "projects", id, ongcms.Document{"title": "After"})
	require.NoError(t, err)

	assert.Equal(t, "After", updated["title"])
	assert.Equal(t, "me", updated["keep"])
	assert.Equal(t, doc["createdAt"], updated["createdAt"])

	_, err = store.UpdateByID(ctx, "projects", "missing", ongcms.Document{})
	assert.True(t, errors.Is(err, ongcms.ErrEntityNotFound))
}

func TestDeleteByID(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	doc, err := store.Insert(ctx, "projects", ongcms.Document{"title": "Doomed"})
	require.NoError(t, err)
	id := doc["id"].(string)

	require.NoError(t, store.DeleteByID(ctx, "projects", id))
	assert.True(t, errors.Is(store.DeleteByID(ctx, "projects", id), ongcms.ErrEntityNotFound))

	_, err = store.FindByID(ctx, "projects", id)
	assert.True(t, errors.Is(err, ongcms.ErrEntityNotFound))
}

func seedTransparency(t *testing.T, store ongcms.DocumentStore) {
	t.Helper()
	ctx := context.Background()
	docs := []ongcms.Document{
		{
			"title":       "Budget 2023",
			"category":    "finance",
			"isPublic":    true,
			"tags":        []any{"budget", "planning"},
			"publishedAt": time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"title":       "Budget 2024",
			"category":    "finance",
			"isPublic":    true,
			"tags":        []any{"budget"},
			"publishedAt": time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"title":       "Internal audit",
			"category":    "audits",
			"isPublic":    false,
			"publishedAt": time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, doc := range docs {
		_, err := store.Insert(ctx, "transparency", doc)
		require.NoError(t, err)
	}
}

func TestFindFiltering(t *testing.T) {
	store := memory.New()
	seedTransparency(t, store)
	ctx := context.Background()

	t.Run("equals", func(t *testing.T) {
		docs, err := store.Find(ctx, "transparency", ongcms.ListQuery{
			Equals: map[string]any{"category": "finance"},
		})
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("equals on bool", func(t *testing.T) {
		docs, err := store.Find(ctx, "transparency", ongcms.ListQuery{
			Equals: map[string]any{"isPublic": true},
		})
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("text match is case-insensitive", func(t *testing.T) {
		docs, err := store.Find(ctx, "transparency", ongcms.ListQuery{
			Match: []ongcms.TextMatch{{Fields: []string{"title"}, Term: "BUDGET"}},
		})
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("text match scans array fields", func(t *testing.T) {
		docs, err := store.Find(ctx, "transparency", ongcms.ListQuery{
			Match: []ongcms.TextMatch{{Fields: []string{"title", "tags"}, Term: "planning"}},
		})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "Budget 2023", docs[0]["title"])
	})

	t.Run("time window", func(t *testing.T) {
		docs, err := store.Find(ctx, "transparency", ongcms.ListQuery{
			TimeFields: []string{"publishedAt"},
			After:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Before:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("conditions combine with and", func(t *testing.T) {
		docs, err := store.Find(ctx, "transparency", ongcms.ListQuery{
			Equals: map[string]any{"category": "finance"},
			Match:  []ongcms.TextMatch{{Fields: []string{"title"}, Term: "2024"}},
		})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "Budget 2024", docs[0]["title"])
	})
}

func TestFindSortAndPaging(t *testing.T) {
	store := memory.New()
	seedTransparency(t, store)
	ctx := context.Background()

	t.Run("sort descending", func(t *testing.T) {
		docs, err := store.Find(ctx, "transparency", ongcms.ListQuery{
			Sort: []ongcms.SortField{{Field: "publishedAt", Desc: true}},
		})
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, "Internal audit", docs[0]["title"])
		assert.Equal(t, "Budget 2023", docs[2]["title"])
	})

	t.Run("sort by title", func(t *testing.T) {
		docs, err := store.Find(ctx, "transparency", ongcms.ListQuery{
			Sort: []ongcms.SortField{{Field: "title"}},
		})
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, "Budget 2023", docs[0]["title"])
	})

	t.Run("skip and limit", func(t *testing.T) {
		docs, err := store.Find(ctx, "transparency", ongcms.ListQuery{
			Sort:  []ongcms.SortField{{Field: "title"}},
			Skip:  1,
			Limit: 1,
		})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "Budget 2024", docs[0]["title"])
	})

	t.Run("skip past the end", func(t *testing.T) {
		docs, err := store.Find(ctx, "transparency", ongcms.ListQuery{Skip: 10})
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("count ignores paging", func(t *testing.T) {
		total, err := store.Count(ctx, "transparency", ongcms.ListQuery{
			Equals: map[string]any{"category": "finance"},
			Skip:   1,
			Limit:  1,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})
}

func TestFindReturnsInsertionOrderByDefault(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	for _, title := range []string{"c", "a", "b"} {
		_, err := store.Insert(ctx, "notes", ongcms.Document{"title": title})
		require.NoError(t, err)
	}

	docs, err := store.Find(ctx, "notes", ongcms.ListQuery{})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "c", docs[0]["title"])
	assert.Equal(t, "b", docs[2]["title"])
}
