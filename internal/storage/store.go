// Package storage keeps estimator runs on disk, one directory per run.
package storage

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/san-kum/grfm/internal/grfm"
	"github.com/san-kum/grfm/internal/pipeline"
	"github.com/san-kum/grfm/internal/trial"
)

const (
	metadataFile = "metadata.json"
	outputsFile  = "outputs.csv"
	lockFile     = ".lock"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return errors.Wrap(os.MkdirAll(s.baseDir, 0755), "could not create run directory")
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID              string             `json:"id"`
	Trial           string             `json:"trial"`
	Method          string             `json:"method"`
	Model           string             `json:"model"`
	Mass            float64            `json:"mass"`
	Height          float64            `json:"height"`
	DirectionWindow int                `json:"direction_window"`
	Timestamp       time.Time          `json:"timestamp"`
	Frames          int                `json:"frames"`
	ReadyAt         float64            `json:"ready_at"`
	Skipped         int                `json:"skipped"`
	Metrics         map[string]float64 `json:"metrics"`
}

func runID(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, name)
	if name == "" {
		name = "run"
	}
	return name + "_" + uuid.NewString()[:8]
}

// lock takes the store-wide lock, retrying briefly while another process
// holds it.
func (s *Store) lock() (*flock.Flock, error) {
	fileLock := flock.New(filepath.Join(s.baseDir, lockFile))
	for retries := 0; ; retries++ {
		locked, err := fileLock.TryLock()
		if err != nil {
			return nil, errors.Wrap(err, "could not try locking run directory")
		}
		if locked {
			return fileLock, nil
		}
		if retries > 500 {
			return nil, errors.New("could not obtain run directory lock")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

// Save writes a run and returns its id. meta supplies the run settings; the
// trial name, counts and metrics are taken from result.
func (s *Store) Save(meta RunMetadata, result *pipeline.Result) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	meta.ID = runID(result.Trial)
	meta.Trial = result.Trial
	meta.Timestamp = time.Now().UTC()
	meta.Frames = len(result.Outputs)
	meta.ReadyAt = result.ReadyAt
	meta.Skipped = len(result.Skipped)
	meta.Metrics = result.Metrics

	tmpDir, err := os.MkdirTemp(s.baseDir, ".tmp_run_")
	if err != nil {
		return "", errors.Wrap(err, "could not create temp run directory")
	}
	defer os.RemoveAll(tmpDir)

	if err := writeJSON(filepath.Join(tmpDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeOutputs(filepath.Join(tmpDir, outputsFile), result.Outputs); err != nil {
		return "", err
	}

	fileLock, err := s.lock()
	if err != nil {
		return "", err
	}
	defer func() {
		if err := fileLock.Unlock(); err != nil {
			slog.Error("could not unlock run directory", "error", err)
		}
	}()

	if err := os.Rename(tmpDir, filepath.Join(s.baseDir, meta.ID)); err != nil {
		return "", errors.Wrap(err, "could not move run to persistent location")
	}
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "could not create metadata file")
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "could not write metadata")
	}
	return errors.Wrap(f.Sync(), "could not fsync metadata")
}

func writeOutputs(path string, outputs []grfm.Output) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "could not create outputs file")
	}
	defer f.Close()

	if err := trial.WriteOutputs(f, outputs); err != nil {
		return errors.Wrap(err, "could not write outputs")
	}
	return errors.Wrap(f.Sync(), "could not fsync outputs")
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, errors.Wrap(err, "could not read run directory")
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			slog.Debug("skipping run directory", "dir", entry.Name(), "error", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(id string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrRunNotFound, "run %s", id)
		}
		return nil, errors.Wrap(err, "could not read run metadata")
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "could not decode metadata of run %s", id)
	}
	return &meta, nil
}

func (s *Store) LoadOutputs(id string) ([]grfm.Output, error) {
	f, err := os.Open(filepath.Join(s.baseDir, id, outputsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrRunNotFound, "run %s", id)
		}
		return nil, errors.Wrap(err, "could not open run outputs")
	}
	defer f.Close()

	outputs, err := trial.ReadOutputs(f)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read outputs of run %s", id)
	}
	return outputs, nil
}

// Latest returns the id of the most recent run.
func (s *Store) Latest() (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", ErrRunNotFound
	}
	return runs[len(runs)-1].ID, nil
}

// Delete removes a run.
func (s *Store) Delete(id string) error {
	if _, err := s.Load(id); err != nil {
		return err
	}

	fileLock, err := s.lock()
	if err != nil {
		return err
	}
	defer fileLock.Unlock()

	return errors.Wrap(os.RemoveAll(filepath.Join(s.baseDir, id)), "could not remove run")
}
