package corpus

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/framework-learner/penrose/internal/errors"
	"github.com/framework-learner/penrose/pkg/domain"
	"github.com/framework-learner/penrose/pkg/subgen"
)

func testBatch(t *testing.T) *subgen.Batch {
	t.Helper()
	opts := subgen.Defaults()
	opts.Seed = 7
	opts.Programs = 2
	opts.MinLength, opts.MaxLength = 2, 2
	opts.Policy = subgen.PolicyGenerated

	batch, err := subgen.Generate(domain.New().AddType("Real"), opts)
	require.NoError(t, err)
	return batch
}

func TestNewRecord(t *testing.T) {
	batch := testBatch(t)
	rec := NewRecord("reals.dsl", batch, nil)

	assert.Equal(t, "reals.dsl", rec.Domain)
	assert.Equal(t, uint64(7), rec.Seed)
	assert.Equal(t, "generated", rec.Policy)
	assert.Equal(t, "concrete", rec.TypeOption)
	assert.Equal(t, batch.Sources(), rec.Programs)
	assert.Equal(t, "Real r\nReal r1\nReal r2\nReal r3\n", rec.Programs[0])
	assert.Empty(t, rec.Error)

	partial := NewRecord("reals.dsl", batch, errors.New("program 2: boom"))
	assert.Equal(t, "program 2: boom", partial.Error)
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "corpus.db"), zap.NewNop().Sugar())
	require.NoError(t, err)
	defer store.Close()

	saved, err := store.Save(NewRecord("reals.dsl", testBatch(t), nil))
	require.NoError(t, err)
	_, err = uuid.Parse(saved.ID)
	require.NoError(t, err)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := store.Get(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Programs, got.Programs)
	assert.Equal(t, saved.Stats, got.Stats)
	assert.True(t, saved.CreatedAt.Equal(got.CreatedAt))
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.db")

	store, err := Open(path, zap.NewNop().Sugar())
	require.NoError(t, err)
	saved, err := store.Save(Record{Domain: "a.dsl", Programs: []string{"Set s\n"}})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(path, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Get(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Set s\n"}, got.Programs)
}

func TestStoreListOrder(t *testing.T) {
	store, err := NewStore(NewMemoryBackend(), zap.NewNop().Sugar())
	require.NoError(t, err)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(-tick) * time.Minute)
	}

	first, err := store.Save(Record{Domain: "first"})
	require.NoError(t, err)
	second, err := store.Save(Record{Domain: "second"})
	require.NoError(t, err)

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	// second was stamped earlier by the fake clock.
	assert.Equal(t, second.ID, records[0].ID)
	assert.Equal(t, first.ID, records[1].ID)
}

func TestStoreGetErrors(t *testing.T) {
	store, err := NewStore(NewMemoryBackend(), zap.NewNop().Sugar())
	require.NoError(t, err)

	_, err = store.Get("not-a-uuid")
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))

	_, err = store.Get(uuid.NewString())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStoreKeepsGivenID(t *testing.T) {
	store, err := NewStore(NewMemoryBackend(), zap.NewNop().Sugar())
	require.NoError(t, err)

	id := uuid.NewString()
	saved, err := store.Save(Record{ID: id})
	require.NoError(t, err)
	assert.Equal(t, id, saved.ID)

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, id, records[0].ID)
}
