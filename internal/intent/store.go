package intent

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	runsDir     = "runs"
	currentFile = "CURRENT"
	lockFile    = "train.lock"
	tmpPrefix   = ".tmp-"
)

// RunInfo summarizes a saved run.
type RunInfo struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Labels       []string  `json:"labels"`
	Encoder      string    `json:"encoder"`
	BestEvalLoss float64   `json:"best_eval_loss"`
	EvalAccuracy float64   `json:"eval_accuracy"`
	Stopped      bool      `json:"stopped"`
	Current      bool      `json:"current"`
}

// Store is a directory of immutable training runs with a promoted current run.
//
//	<root>/runs/<id>/manifest.json
//	<root>/runs/<id>/head.json
//	<root>/CURRENT      id of the promoted run
//	<root>/train.lock   held by the single active writer
//
// Runs are published by renaming a fully written temporary directory, and
// CURRENT is replaced by rename, so readers never observe partial state.
type Store struct {
	root string
}

// OpenStore opens or creates the store rooted at root.
func OpenStore(root string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, runsDir), 0o755); err != nil {
		return nil, fmt.Errorf("create artifact store: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the store directory.
func (s *Store) Root() string {
	return s.root
}

// CurrentPath returns the path of the CURRENT pointer file.
func (s *Store) CurrentPath() string {
	return filepath.Join(s.root, currentFile)
}

// Path returns the directory of run id.
func (s *Store) Path(id string) string {
	return filepath.Join(s.root, runsDir, id)
}

// Lock acquires the single-writer lock. Returns ErrLocked if another writer holds it.
func (s *Store) Lock() (func() error, error) {
	path := filepath.Join(s.root, lockFile)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			holder, _ := os.ReadFile(path)
			return nil, fmt.Errorf("%w (pid %s)", ErrLocked, strings.TrimSpace(string(holder)))
		}
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	fmt.Fprintln(f, os.Getpid())
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return func() error {
		return os.Remove(path)
	}, nil
}

// Save writes result as a new run and returns its id. The run is not promoted.
func (s *Store) Save(result *Result) (string, error) {
	id := newRunID(result.FinishedAt)
	tmp := filepath.Join(s.root, runsDir, tmpPrefix+id)

	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}

	if _, err := writeArtifact(tmp, id, result); err != nil {
		os.RemoveAll(tmp)
		return "", err
	}

	if err := os.Rename(tmp, s.Path(id)); err != nil {
		os.RemoveAll(tmp)
		return "", fmt.Errorf("publish run: %w", err)
	}

	return id, nil
}

// Promote makes run id the current artifact. Stopped runs cannot be promoted.
func (s *Store) Promote(id string) error {
	m, err := ReadManifest(s.Path(id))
	if err != nil {
		if !s.exists(id) {
			return fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return err
	}
	if m.Stopped {
		return fmt.Errorf("%w: %s was stopped before completion", ErrNotPromotable, id)
	}
	if _, _, _, err := readArtifact(s.Path(id)); err != nil {
		return fmt.Errorf("%w: %w", ErrNotPromotable, err)
	}

	tmp := filepath.Join(s.root, tmpPrefix+currentFile)
	if err := os.WriteFile(tmp, []byte(id+"\n"), 0o644); err != nil {
		return fmt.Errorf("write current: %w", err)
	}
	if err := os.Rename(tmp, s.CurrentPath()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("promote run: %w", err)
	}
	return nil
}

// Current returns the id and directory of the promoted run.
// Returns ErrNoArtifact when nothing has been promoted.
func (s *Store) Current() (string, string, error) {
	data, err := os.ReadFile(s.CurrentPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", "", ErrNoArtifact
		}
		return "", "", fmt.Errorf("read current: %w", err)
	}

	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", "", ErrNoArtifact
	}
	return id, s.Path(id), nil
}

// Resolve maps ref to an artifact directory. ref may be a run id in the store
// or a path to any artifact directory.
func (s *Store) Resolve(ref string) (string, error) {
	if s.exists(ref) {
		return s.Path(ref), nil
	}
	if info, err := os.Stat(filepath.Join(ref, ManifestFile)); err == nil && !info.IsDir() {
		return ref, nil
	}
	return "", fmt.Errorf("%w: %s", ErrRunNotFound, ref)
}

// Runs lists saved runs, newest first.
func (s *Store) Runs() ([]RunInfo, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, runsDir))
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	current, _, _ := s.Current()

	runs := make([]RunInfo, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), tmpPrefix) {
			continue
		}

		m, err := ReadManifest(s.Path(e.Name()))
		if err != nil {
			continue
		}

		runs = append(runs, RunInfo{
			ID:           m.ID,
			CreatedAt:    m.CreatedAt,
			Labels:       m.Labels,
			Encoder:      m.Encoder.String(),
			BestEvalLoss: m.Metrics.BestEvalLoss,
			EvalAccuracy: m.Metrics.EvalAccuracy,
			Stopped:      m.Stopped,
			Current:      m.ID == current,
		})
	}

	slices.SortFunc(runs, func(a, b RunInfo) int {
		return strings.Compare(b.ID, a.ID)
	})
	return runs, nil
}

func (s *Store) exists(id string) bool {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return false
	}
	info, err := os.Stat(s.Path(id))
	return err == nil && info.IsDir()
}

func newRunID(t time.Time) string {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return t.UTC().Format("20060102T150405Z") + "-" + suffix
}
