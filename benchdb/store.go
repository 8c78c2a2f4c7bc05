package benchdb

import (
	"encoding/binary"
	"encoding/json"
	"sort"
	"time"

	"github.com/Aurorachain/go-opbench/common"
	"github.com/golang/snappy"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
)

var (
	ErrInvalidRunID = errors.New("invalid run id")
	ErrUnknownRun   = errors.New("unknown run")
	ErrNotFound     = errors.New("not found")
)

var (
	runPrefix     = []byte("m") // runPrefix + runID -> Run
	resultPrefix  = []byte("r") // resultPrefix + runID + index -> Record
	programPrefix = []byte("p") // programPrefix + runID + index -> snappy(init code)
)

// Run describes one benchmark session.
type Run struct {
	ID       string        `json:"id"`
	Started  time.Time     `json:"started"`
	Wall     time.Duration `json:"wall"` // wall-clock time spent talking to the engine
	Engine   string        `json:"engine"`
	Endpoint string        `json:"endpoint"`
	Rounds   int           `json:"rounds"`
	Programs int           `json:"programs"`
}

// Record is the measurement of a single benchmarked program.
type Record struct {
	Index       uint32         `json:"index"`
	Op          string         `json:"op"`
	Mode        string         `json:"mode"`
	Round       int            `json:"round"`
	Contract    common.Address `json:"contract"`
	Block       uint64         `json:"block"`
	GasUsed     uint64         `json:"gasUsed"`
	MineTime    uint64         `json:"mineTime"` // nanoseconds
	RuntimeSize int            `json:"runtimeSize"`
}

// Ratio returns the mining time per unit of gas in nanoseconds.
func (r *Record) Ratio() float64 {
	if r.GasUsed == 0 {
		return 0
	}
	return float64(r.MineTime) / float64(r.GasUsed)
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.NewRandom().String()
}

func parseRunID(id string) (uuid.UUID, error) {
	u := uuid.Parse(id)
	if u == nil {
		return nil, errors.Wrapf(ErrInvalidRunID, "%q", id)
	}
	return u, nil
}

func runKey(id uuid.UUID) []byte {
	return append(append([]byte{}, runPrefix...), id...)
}

func indexedKey(prefix []byte, id uuid.UUID, index uint32) []byte {
	key := make([]byte, len(prefix)+len(id)+4)
	n := copy(key, prefix)
	n += copy(key[n:], id)
	binary.BigEndian.PutUint32(key[n:], index)
	return key
}

// ResultStore persists benchmark runs and their measurements.
type ResultStore struct {
	db *Database
}

// NewResultStore opens the store at path. An empty path keeps everything
// in memory.
func NewResultStore(path string, cache, handles int) (*ResultStore, error) {
	var (
		db  *Database
		err error
	)
	if path == "" {
		db, err = NewMemory()
	} else {
		db, err = New(path, cache, handles)
	}
	if err != nil {
		return nil, err
	}
	return &ResultStore{db: db}, nil
}

func (s *ResultStore) Close() error {
	return s.db.Close()
}

// PutRun stores run metadata, assigning a new ID if the run has none.
func (s *ResultStore) PutRun(run *Run) error {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	id, err := parseRunID(run.ID)
	if err != nil {
		return err
	}
	blob, err := json.Marshal(run)
	if err != nil {
		return err
	}
	return s.db.Put(runKey(id), blob)
}

// Run retrieves the metadata of a single run.
func (s *ResultStore) Run(runID string) (*Run, error) {
	id, err := parseRunID(runID)
	if err != nil {
		return nil, err
	}
	blob, err := s.db.Get(runKey(id))
	if err == leveldb.ErrNotFound {
		return nil, errors.Wrapf(ErrUnknownRun, "%s", runID)
	}
	if err != nil {
		return nil, err
	}
	run := new(Run)
	if err := json.Unmarshal(blob, run); err != nil {
		return nil, errors.Wrapf(err, "run %s", runID)
	}
	return run, nil
}

// PutResult stores a measurement together with the creation code of the
// measured program. The run must have been stored first.
func (s *ResultStore) PutResult(runID string, rec *Record, initCode []byte) error {
	id, err := parseRunID(runID)
	if err != nil {
		return err
	}
	if ok, err := s.db.Has(runKey(id)); err != nil {
		return err
	} else if !ok {
		return errors.Wrapf(ErrUnknownRun, "%s", runID)
	}
	blob, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	batch := s.db.NewBatch()
	batch.Put(indexedKey(resultPrefix, id, rec.Index), blob)
	if initCode != nil {
		batch.Put(indexedKey(programPrefix, id, rec.Index), snappy.Encode(nil, initCode))
	}
	return batch.Write()
}

// Runs returns all stored runs, most recent first.
func (s *ResultStore) Runs() ([]*Run, error) {
	it := s.db.NewIteratorWithPrefix(runPrefix)
	defer it.Release()

	var runs []*Run
	for it.Next() {
		run := new(Run)
		if err := json.Unmarshal(it.Value(), run); err != nil {
			return nil, errors.Wrapf(err, "run key %x", it.Key())
		}
		runs = append(runs, run)
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Started.After(runs[j].Started)
	})
	return runs, nil
}

// Results returns the measurements of a run in index order.
func (s *ResultStore) Results(runID string) ([]*Record, error) {
	id, err := parseRunID(runID)
	if err != nil {
		return nil, err
	}
	prefix := append(append([]byte{}, resultPrefix...), id...)
	it := s.db.NewIteratorWithPrefix(prefix)
	defer it.Release()

	var recs []*Record
	for it.Next() {
		rec := new(Record)
		if err := json.Unmarshal(it.Value(), rec); err != nil {
			return nil, errors.Wrapf(err, "result key %x", it.Key())
		}
		recs = append(recs, rec)
	}
	return recs, it.Error()
}

// Program returns the creation code stored for a measurement.
func (s *ResultStore) Program(runID string, index uint32) ([]byte, error) {
	id, err := parseRunID(runID)
	if err != nil {
		return nil, err
	}
	blob, err := s.db.Get(indexedKey(programPrefix, id, index))
	if err == leveldb.ErrNotFound {
		return nil, errors.Wrapf(ErrNotFound, "program %s/%d", runID, index)
	}
	if err != nil {
		return nil, err
	}
	return snappy.Decode(nil, blob)
}
