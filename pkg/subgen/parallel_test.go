package subgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framework-learner/penrose/internal/errors"
	"github.com/framework-learner/penrose/pkg/domain"
)

func TestDeriveSeeds(t *testing.T) {
	a := deriveSeeds(99, 8)
	b := deriveSeeds(99, 8)
	assert.Equal(t, a, b)
	assert.Len(t, a, 8)

	seen := map[uint64]bool{}
	for _, s := range a {
		seen[s] = true
	}
	assert.Len(t, seen, 8)
	assert.NotEqual(t, a, deriveSeeds(100, 8))
}

func TestGenerateParallelIsDeterministic(t *testing.T) {
	opts := Defaults()
	opts.Seed = 77
	opts.Programs = 16
	opts.Parallel = true

	var runs [][]string
	for _, workers := range []int{1, 3, 0} {
		opts.Workers = workers
		batch, err := Generate(setsDomain(), opts)
		require.NoError(t, err)
		require.Equal(t, 16, batch.Len())
		runs = append(runs, batch.Sources())
	}
	assert.Equal(t, runs[0], runs[1])
	assert.Equal(t, runs[0], runs[2])
}

func TestGenerateParallelMatchesDerivedSeeds(t *testing.T) {
	opts := Defaults()
	opts.Seed = 5
	opts.Programs = 3
	opts.Parallel = true

	batch, err := Generate(setsDomain(), opts)
	require.NoError(t, err)

	for i, seed := range deriveSeeds(opts.Seed, opts.Programs) {
		single := opts
		single.Seed = seed
		single.Programs = 1
		single.Parallel = false
		want, err := Generate(setsDomain(), single)
		require.NoError(t, err)
		assert.Equal(t, want.Sources()[0], batch.Sources()[i], "program %d", i)
		assert.Equal(t, want.Stats[0], batch.Stats[i], "program %d", i)
	}
}

func TestGenerateParallelFailureDiscardsBatch(t *testing.T) {
	d := domain.New().
		AddType("A").
		AddPredicate(domain.UnaryPredicate{Name: "P", ArgTypes: []string{"Ghost"}})
	opts := Options{Seed: 1, Programs: 50, MinLength: 3, MaxLength: 5, Policy: PolicyGenerated, Parallel: true, Workers: 4}

	batch, err := Generate(d, opts)
	require.Error(t, err)
	assert.Nil(t, batch)
	assert.True(t, errors.Is(err, ErrEmptyChoice))
}
