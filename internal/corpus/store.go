// Package corpus records generated batches so that a run can be inspected
// or reproduced later.
package corpus

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/framework-learner/penrose/internal/errors"
	"github.com/framework-learner/penrose/internal/logger"
	"github.com/framework-learner/penrose/pkg/subgen"
)

var (
	ErrBucketNotFound = errors.New("bucket not found")
	ErrNotFound       = errors.New("batch not found")
)

var batchesBucket = []byte("batches")

// Record is one stored batch. Programs holds the rendered sources in batch
// order.
type Record struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Domain    string    `json:"domain"`

	Seed       uint64 `json:"seed"`
	Policy     string `json:"policy"`
	TypeOption string `json:"type_option"`
	MinLength  int    `json:"min_length"`
	MaxLength  int    `json:"max_length"`
	Parallel   bool   `json:"parallel,omitempty"`

	Programs []string       `json:"programs"`
	Stats    []subgen.Stats `json:"stats"`

	// Error is set when the batch stopped early; Programs then holds the
	// programs generated before the failure.
	Error string `json:"error,omitempty"`
}

// NewRecord captures batch b, generated from the domain at domainPath. A
// non-nil genErr marks the record as partial.
func NewRecord(domainPath string, b *subgen.Batch, genErr error) Record {
	rec := Record{
		Domain:     domainPath,
		Seed:       b.Seed,
		Policy:     b.Options.Policy.String(),
		TypeOption: b.Options.TypeOption.String(),
		MinLength:  b.Options.MinLength,
		MaxLength:  b.Options.MaxLength,
		Parallel:   b.Options.Parallel,
		Programs:   b.Sources(),
		Stats:      append([]subgen.Stats(nil), b.Stats...),
	}
	if genErr != nil {
		rec.Error = genErr.Error()
	}
	return rec
}

// Store persists Records as JSON keyed by id.
type Store struct {
	backend Backend
	log     *zap.SugaredLogger
	now     func() time.Time
}

// Open opens (creating if needed) the bbolt corpus at path.
func Open(path string, log *zap.SugaredLogger) (*Store, error) {
	backend, err := NewBboltBackend(path)
	if err != nil {
		return nil, err
	}
	store, err := NewStore(backend, log)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return store, nil
}

func NewStore(backend Backend, log *zap.SugaredLogger) (*Store, error) {
	if err := backend.EnsureBucket(batchesBucket); err != nil {
		return nil, errors.Wrap(err, "failed to create batches bucket")
	}
	return &Store{backend: backend, log: log, now: time.Now}, nil
}

// Save assigns rec an id and a creation time when it has none, stores it
// and returns the stored record.
func (s *Store) Save(rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return Record{}, errors.Wrap(err, "failed to encode batch record")
	}
	if err := s.backend.Put(batchesBucket, []byte(rec.ID), data); err != nil {
		return Record{}, errors.Wrapf(err, "failed to store batch %s", rec.ID)
	}

	s.log.Infow("recorded batch",
		logger.FieldBatchID, rec.ID,
		logger.FieldSeed, rec.Seed,
		logger.FieldCount, len(rec.Programs),
		logger.FieldSize, len(data))
	return rec, nil
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Record{}, errors.WithHint(
			errors.Wrapf(err, "invalid batch id %q", id),
			"batch ids are listed by `subgen corpus list`")
	}

	data, err := s.backend.Get(batchesBucket, []byte(id))
	if err != nil {
		return Record{}, errors.Wrapf(err, "failed to read batch %s", id)
	}
	if data == nil {
		return Record{}, errors.Wrapf(ErrNotFound, "%s", id)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, errors.Wrapf(err, "failed to decode batch %s", id)
	}
	return rec, nil
}

// List returns every record, oldest first.
func (s *Store) List() ([]Record, error) {
	var out []Record
	err := s.backend.ForEach(batchesBucket, func(k, v []byte) error {
		var rec Record
		if err := json.Unmarshal(v, &rec); err != nil {
			return errors.Wrapf(err, "failed to decode batch %s", k)
		}
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) Close() error {
	return s.backend.Close()
}
