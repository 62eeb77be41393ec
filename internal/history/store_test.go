package history

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/sourceplane/imagewizard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewRecord(t *testing.T) {
	state := &model.WizardState{Details: model.Details{BlueprintName: "web"}}
	rec, err := NewRecord("export.json", model.FormatJSON, model.Success(state, false))
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, rec.Status)
	assert.Equal(t, "web", rec.BlueprintName)

	var decoded model.WizardState
	require.NoError(t, json.Unmarshal(rec.State, &decoded))
	assert.Equal(t, "web", decoded.Details.BlueprintName)

	rec, err = NewRecord("bad.txt", model.FormatUnknown, model.Failure(model.ReasonUnrecognizedFormat, "nope"))
	require.NoError(t, err)
	assert.Equal(t, StatusFailure, rec.Status)
	assert.Equal(t, model.ReasonUnrecognizedFormat, rec.Reason)
	assert.Equal(t, "nope", rec.Error)
	assert.Nil(t, rec.State)
}

func TestStoreAddAndGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	rec, err := NewRecord("blueprint.toml", model.FormatTOML,
		model.Success(&model.WizardState{Details: model.Details{BlueprintName: "legacy"}}, true))
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, rec))
	assert.NotEmpty(t, rec.ID)

	got, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "blueprint.toml", got.Filename)
	assert.Equal(t, model.FormatTOML, got.Format)
	assert.Equal(t, StatusSuccess, got.Status)
	assert.True(t, got.IsOnPrem)
	assert.Equal(t, "legacy", got.BlueprintName)
	assert.JSONEq(t, string(rec.State), string(got.State))
	assert.WithinDuration(t, rec.CreatedAt, got.CreatedAt, time.Millisecond)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreListNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for _, name := range []string{"a.json", "b.json", "c.json"} {
		rec, err := NewRecord(name, model.FormatJSON, model.Failure(model.ReasonInvalidFormat, "broken"))
		require.NoError(t, err)
		require.NoError(t, store.Add(ctx, rec))
	}

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c.json", all[0].Filename)
	assert.Equal(t, "a.json", all[2].Filename)
	assert.Equal(t, model.ReasonInvalidFormat, all[0].Reason)

	limited, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestStoreListSubSecondOrder(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(500 * time.Millisecond), base.Add(time.Second)}
	names := []string{"older.json", "newer.json", "newest.json"}

	for i, name := range names {
		at := times[i]
		store.now = func() time.Time { return at }
		rec, err := NewRecord(name, model.FormatJSON, model.Failure(model.ReasonInvalidFormat, "broken"))
		require.NoError(t, err)
		require.NoError(t, store.Add(ctx, rec))
	}

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"newest.json", "newer.json", "older.json"},
		[]string{all[0].Filename, all[1].Filename, all[2].Filename})
	assert.True(t, all[1].CreatedAt.Equal(times[1]))

	limited, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "newest.json", limited[0].Filename)
}
