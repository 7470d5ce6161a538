package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/framework-learner/penrose/internal/corpus"
	"github.com/framework-learner/penrose/internal/errors"
	"github.com/framework-learner/penrose/internal/output"
)

const setsSchema = `-- Set theory
type Set
type Point
type Shape

Set <: Shape
Point <: Shape

predicate IsSubset(Set s1, Set s2)
predicate PointIn(Set s, Point p)
predicate Not(Prop p)
`

// run executes the command tree in a scratch working directory and returns
// stdout and stderr.
func run(t *testing.T, now func() time.Time, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd(now)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func setup(t *testing.T) (dir, schema string) {
	t.Helper()
	dir = t.TempDir()
	t.Chdir(dir)
	schema = filepath.Join(dir, "sets.dsl")
	require.NoError(t, os.WriteFile(schema, []byte(setsSchema), 0o644))
	return dir, schema
}

func TestGenerateToStdout(t *testing.T) {
	_, schema := setup(t)

	stdout, _, err := run(t, time.Now,
		"--domain", schema, "--seed", "42", "-n", "2",
		"--min-length", "3", "--max-length", "3", "--policy", "mixed")
	require.NoError(t, err)

	want := "Set s\nPoint p\nSet s1\nSet s2\nPoint p1\nPointIn(s1, p)\nNot()\n" +
		"\n" +
		"Set s\nSet s1\nSet s2\nSet s3\nSet s4\nSet s5\nIsSubset(s2, s1)\n"
	assert.Equal(t, want, stdout)
}

func TestGenerateOnlyTypes(t *testing.T) {
	dir, _ := setup(t)
	schema := filepath.Join(dir, "reals.yaml")
	require.NoError(t, os.WriteFile(schema, []byte("types: [Real]\n"), 0o644))

	stdout, _, err := run(t, time.Now,
		"-d", schema, "-s", "7", "--min-length", "2", "--max-length", "2", "--policy", "generated")
	require.NoError(t, err)
	assert.Equal(t, "Real r\nReal r1\nReal r2\nReal r3\n", stdout)
}

func TestGenerateDrawsSeedFromClock(t *testing.T) {
	_, schema := setup(t)
	now := func() time.Time { return time.Unix(0, 42) }

	drawn, _, err := run(t, now,
		"--domain", schema, "-n", "2", "--min-length", "3", "--max-length", "3")
	require.NoError(t, err)
	explicit, _, err := run(t, time.Now,
		"--domain", schema, "--seed", "42", "-n", "2", "--min-length", "3", "--max-length", "3")
	require.NoError(t, err)
	assert.Equal(t, explicit, drawn)
}

func TestGenerateToDirectory(t *testing.T) {
	dir, schema := setup(t)
	out := filepath.Join(dir, "out")

	stdout, stderr, err := run(t, time.Now,
		"--domain", schema, "--seed", "42", "-n", "3", "--output", out, "--prefix", "case")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "wrote 3 programs")

	for _, name := range []string{"case-0.sub", "case-1.sub", "case-2.sub"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}
	m, err := output.ReadManifest(out)
	require.NoError(t, err)
	assert.Equal(t, "42", m.Seed)
	assert.Equal(t, schema, m.Domain)
	assert.Len(t, m.Files, 3)
}

func TestGenerateFromConfigFile(t *testing.T) {
	dir, schema := setup(t)
	cfg := filepath.Join(dir, "run.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(
		"domain = \""+filepath.ToSlash(schema)+"\"\nseed = 42\nprograms = 2\nmin_length = 3\nmax_length = 3\n"), 0o644))

	fromFile, _, err := run(t, time.Now, "--config", cfg)
	require.NoError(t, err)
	fromFlags, _, err := run(t, time.Now,
		"--domain", schema, "--seed", "42", "-n", "2", "--min-length", "3", "--max-length", "3")
	require.NoError(t, err)
	assert.Equal(t, fromFlags, fromFile)

	// Flags override the file.
	one, _, err := run(t, time.Now, "--config", cfg, "-n", "1")
	require.NoError(t, err)
	assert.Equal(t, "Set s\nPoint p\nSet s1\nSet s2\nPoint p1\nPointIn(s1, p)\nNot()\n", one)
}

func TestGenerateErrors(t *testing.T) {
	_, schema := setup(t)

	tests := []struct {
		name     string
		args     []string
		wantErr  string
		wantHint bool
	}{
		{"missing domain", nil, "no domain schema given", true},
		{"missing file", []string{"--domain", "nope.dsl"}, "nope.dsl", false},
		{"inverted range", []string{"--domain", schema, "--min-length", "5", "--max-length", "2"}, "exceeds max_length", true},
		{"bad policy", []string{"--domain", schema, "--policy", "random"}, "unknown argument policy", true},
		{"extra args", []string{"--domain", schema, "extra"}, "extra", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, time.Now, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			if tt.wantHint {
				assert.NotEmpty(t, errors.GetAllHints(err))
			}
		})
	}
}

func TestCorpusCommands(t *testing.T) {
	dir, schema := setup(t)
	db := filepath.Join(dir, "corpus.db")

	generated, _, err := run(t, time.Now,
		"--domain", schema, "--seed", "42", "-n", "2", "--corpus", db)
	require.NoError(t, err)

	store, err := corpus.Open(db, zap.NewNop().Sugar())
	require.NoError(t, err)
	records, err := store.List()
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.Len(t, records, 1)
	id := records[0].ID

	listed, _, err := run(t, time.Now, "corpus", "list", "--corpus", db)
	require.NoError(t, err)
	assert.Contains(t, listed, id)
	assert.Contains(t, listed, "42")
	assert.Contains(t, listed, "ok")

	shown, _, err := run(t, time.Now, "corpus", "show", id, "--corpus", db)
	require.NoError(t, err)
	assert.Contains(t, shown, "-- batch "+id)
	assert.Contains(t, shown, "-- seed 42")
	for _, src := range records[0].Programs {
		assert.Contains(t, shown, src)
		assert.Contains(t, generated, src)
	}
}

func TestCorpusRequiresPath(t *testing.T) {
	setup(t)

	_, _, err := run(t, time.Now, "corpus", "list")
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestCorpusListEmpty(t *testing.T) {
	dir, _ := setup(t)

	listed, _, err := run(t, time.Now, "corpus", "list", "--corpus", filepath.Join(dir, "empty.db"))
	require.NoError(t, err)
	assert.Contains(t, listed, "no batches recorded")
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, time.Now, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "subgen dev")

	stdout, _, err = run(t, time.Now, "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"go_version"`)
}
