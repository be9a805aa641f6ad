// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/planfinder/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func reportWith(records ...types.ResultRecord) types.Report {
	return types.Report{
		Query:        "strategic plan site:.edu",
		DomainSuffix: ".edu",
		Records:      records,
		Diagnostics:  []types.Diagnostic{{Level: types.LevelInfo, Message: "ignored"}},
	}
}

func TestSaveAndReadBack(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	rep := reportWith(
		types.ResultRecord{URL: "https://foo.edu/plan", Enrollment: "15,000", PlanText: "2025-2030 strategic plan", YearsReferenced: "2025-2030"},
		types.ResultRecord{URL: "https://bar.edu/plan", PlanText: "no years"},
	)

	id, err := store.Save(ctx, rep)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	run, err := store.Run(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, run.ID)
	assert.Equal(t, 2, run.RecordCount)
	assert.Equal(t, ".edu", run.DomainSuffix)
	assert.False(t, run.StartedAt.IsZero())

	got, err := store.Report(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, rep.Records, got.Records)
	assert.Equal(t, rep.Query, got.Query)
	assert.Empty(t, got.Diagnostics)
}

func TestSaveEmptyReport(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	id, err := store.Save(ctx, reportWith())
	require.NoError(t, err)

	records, err := store.Records(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRunsNewestFirstWithLimit(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := store.Save(ctx, reportWith())
		require.NoError(t, err)
		ids = append(ids, id)
	}

	all, err := store.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID)
	assert.Equal(t, ids[0], all[2].ID)

	limited, err := store.Runs(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestRunNotFound(t *testing.T) {
	store := testStore(t)

	_, err := store.Run(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = store.Report(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	id, err := store.Save(ctx, reportWith(types.ResultRecord{URL: "https://foo.edu"}))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
}
