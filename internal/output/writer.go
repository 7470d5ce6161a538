// Package output renders generated batches to stdout or to a directory of
// program files with a TOML manifest.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/framework-learner/penrose/internal/errors"
	"github.com/framework-learner/penrose/internal/logger"
	"github.com/framework-learner/penrose/pkg/subgen"
	"github.com/framework-learner/penrose/pkg/substance"
)

// ManifestName is the manifest file written next to the programs.
const ManifestName = "manifest.toml"

// Manifest describes a written batch. Seed is a decimal string: TOML
// integers cannot hold every uint64.
type Manifest struct {
	Domain     string `toml:"domain"`
	BatchID    string `toml:"batch_id,omitempty"`
	Seed       string `toml:"seed"`
	Policy     string `toml:"policy"`
	TypeOption string `toml:"type_option"`
	MinLength  int    `toml:"min_length"`
	MaxLength  int    `toml:"max_length"`
	Parallel   bool   `toml:"parallel"`
	Error      string `toml:"error,omitempty"`

	Files []FileEntry `toml:"files"`
}

type FileEntry struct {
	Name       string `toml:"name"`
	Bytes      int    `toml:"bytes"`
	Prelude    int    `toml:"prelude"`
	Body       int    `toml:"body"`
	Fallback   int    `toml:"fallback"`
	Predicates int    `toml:"predicates"`
}

// Writer writes program i of a batch to <Dir>/<Prefix>-<i>.<Extension>.
type Writer struct {
	Dir       string
	Prefix    string
	Extension string

	log *zap.SugaredLogger
}

func NewWriter(dir, prefix, extension string, log *zap.SugaredLogger) *Writer {
	return &Writer{Dir: dir, Prefix: prefix, Extension: extension, log: log}
}

// FileName returns the base name of program i.
func (w *Writer) FileName(i int) string {
	name := fmt.Sprintf("%s-%d", w.Prefix, i)
	if w.Extension == "" {
		return name
	}
	return name + "." + w.Extension
}

// Info carries the batch metadata that is not part of subgen.Batch.
type Info struct {
	Domain  string
	BatchID string
	// Err is the generation error of a partial batch.
	Err error
}

// Write writes every program of b and then the manifest. Only the programs
// present in b are written, so a partial batch yields files 0..len-1.
func (w *Writer) Write(b *subgen.Batch, info Info) (*Manifest, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %s", w.Dir)
	}

	m := &Manifest{
		Domain:     info.Domain,
		BatchID:    info.BatchID,
		Seed:       strconv.FormatUint(b.Seed, 10),
		Policy:     b.Options.Policy.String(),
		TypeOption: b.Options.TypeOption.String(),
		MinLength:  b.Options.MinLength,
		MaxLength:  b.Options.MaxLength,
		Parallel:   b.Options.Parallel,
		Files:      make([]FileEntry, 0, b.Len()),
	}
	if info.Err != nil {
		m.Error = info.Err.Error()
	}

	for i, prog := range b.Programs {
		name := w.FileName(i)
		src := prog.String()
		path := filepath.Join(w.Dir, name)
		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			return nil, errors.Wrapf(err, "failed to write %s", path)
		}
		st := b.Stats[i]
		m.Files = append(m.Files, FileEntry{
			Name:       name,
			Bytes:      len(src),
			Prelude:    st.Prelude,
			Body:       st.Body,
			Fallback:   st.Fallback,
			Predicates: st.Predicates,
		})
		w.log.Debugw("wrote program", logger.FieldFile, path, logger.FieldSize, len(src))
	}

	data, err := toml.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode manifest")
	}
	path := filepath.Join(w.Dir, ManifestName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", path)
	}

	w.log.Infow("wrote batch",
		logger.FieldDir, w.Dir,
		logger.FieldCount, len(m.Files))
	return m, nil
}

// ReadManifest reads the manifest of a batch written to dir.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}
	return &m, nil
}

// Print writes the programs to out separated by blank lines.
func Print(out io.Writer, programs []substance.Program) error {
	for i, prog := range programs {
		if i > 0 {
			if _, err := io.WriteString(out, "\n"); err != nil {
				return err
			}
		}
		if err := substance.Fprint(out, prog); err != nil {
			return errors.Wrapf(err, "program %d", i)
		}
	}
	return nil
}
