package intent_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/companion/internal/intent"
	"github.com/JaimeStill/companion/pkg/embedding"
	"github.com/JaimeStill/companion/pkg/lifecycle"
	"github.com/JaimeStill/companion/pkg/storage"
)

func openStore(t *testing.T) *intent.Store {
	t.Helper()
	s, err := intent.OpenStore(filepath.Join(t.TempDir(), "artifacts"))
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	return s
}

func TestStoreSavePromoteLoad(t *testing.T) {
	enc := embedding.NewHash(0)
	s := openStore(t)

	if _, _, err := s.Current(); !errors.Is(err, intent.ErrNoArtifact) {
		t.Fatalf("Current() on empty store: got %v, want ErrNoArtifact", err)
	}

	id, err := s.Save(trainResult(t, enc))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	runs, err := s.Runs()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != id || runs[0].Current {
		t.Fatalf("runs: got %+v", runs)
	}

	if err := s.Promote(id); err != nil {
		t.Fatalf("Promote() error = %v", err)
	}

	current, path, err := s.Current()
	if err != nil {
		t.Fatal(err)
	}
	if current != id {
		t.Errorf("current: got %s, want %s", current, id)
	}

	c, err := intent.LoadClassifier(path, enc)
	if err != nil {
		t.Fatalf("LoadClassifier() error = %v", err)
	}
	if c.ID() != id {
		t.Errorf("classifier id: got %s, want %s", c.ID(), id)
	}
	if got := c.Labels().Labels(); !slices.Equal(got, []string{"farewell", "greeting"}) {
		t.Errorf("labels: got %v", got)
	}

	runs, _ = s.Runs()
	if !runs[0].Current {
		t.Error("promoted run should be flagged current")
	}

	if resolved, err := s.Resolve(id); err != nil || resolved != s.Path(id) {
		t.Errorf("Resolve(id): got %s, %v", resolved, err)
	}
	if resolved, err := s.Resolve(path); err != nil || resolved != path {
		t.Errorf("Resolve(path): got %s, %v", resolved, err)
	}
	if _, err := s.Resolve("missing"); !errors.Is(err, intent.ErrRunNotFound) {
		t.Errorf("Resolve(missing): got %v, want ErrRunNotFound", err)
	}
}

func TestStoreRejectsStoppedAndUnknownRuns(t *testing.T) {
	s := openStore(t)

	result := trainResult(t, embedding.NewHash(0))
	result.Stopped = true

	id, err := s.Save(result)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := s.Promote(id); !errors.Is(err, intent.ErrNotPromotable) {
		t.Errorf("Promote(stopped): got %v, want ErrNotPromotable", err)
	}
	if err := s.Promote("20990101T000000Z-deadbeef"); !errors.Is(err, intent.ErrRunNotFound) {
		t.Errorf("Promote(unknown): got %v, want ErrRunNotFound", err)
	}
	if _, _, err := s.Current(); !errors.Is(err, intent.ErrNoArtifact) {
		t.Errorf("nothing should be promoted: %v", err)
	}
}

func TestStoreLock(t *testing.T) {
	s := openStore(t)

	unlock, err := s.Lock()
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}

	if _, err := s.Lock(); !errors.Is(err, intent.ErrLocked) {
		t.Errorf("second Lock(): got %v, want ErrLocked", err)
	}

	if err := unlock(); err != nil {
		t.Fatalf("unlock error = %v", err)
	}

	unlock, err = s.Lock()
	if err != nil {
		t.Fatalf("Lock() after unlock error = %v", err)
	}
	unlock()
}

func TestLoadClassifierRejectsCorruptArtifacts(t *testing.T) {
	enc := embedding.NewHash(0)
	s := openStore(t)

	id, err := s.Save(trainResult(t, enc))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := intent.LoadClassifier(s.Path(id), embedding.NewHash(256)); !errors.Is(err, intent.ErrArtifactLoad) {
		t.Errorf("dimension mismatch: got %v, want ErrArtifactLoad", err)
	}
	if _, err := intent.LoadClassifier(s.Path(id), &vectorEncoder{}); !errors.Is(err, intent.ErrArtifactLoad) {
		t.Errorf("encoder mismatch: got %v, want ErrArtifactLoad", err)
	}

	headPath := filepath.Join(s.Path(id), intent.HeadFile)
	data, err := os.ReadFile(headPath)
	if err != nil {
		t.Fatal(err)
	}
	tampered := bytes.Replace(data, []byte("0"), []byte("1"), 1)
	if err := os.WriteFile(headPath, tampered, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := intent.LoadClassifier(s.Path(id), enc); !errors.Is(err, intent.ErrArtifactLoad) {
		t.Errorf("checksum mismatch: got %v, want ErrArtifactLoad", err)
	}
	if err := s.Promote(id); !errors.Is(err, intent.ErrNotPromotable) {
		t.Errorf("Promote(corrupt): got %v, want ErrNotPromotable", err)
	}
}

func TestBundleRoundTrip(t *testing.T) {
	enc := embedding.NewHash(0)
	s := openStore(t)

	id, err := s.Save(trainResult(t, enc))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := intent.Bundle(&buf, s.Path(id)); err != nil {
		t.Fatalf("Bundle() error = %v", err)
	}

	dir := t.TempDir()
	if err := intent.Unbundle(&buf, dir); err != nil {
		t.Fatalf("Unbundle() error = %v", err)
	}

	c, err := intent.LoadClassifier(dir, enc)
	if err != nil {
		t.Fatalf("LoadClassifier(unbundled) error = %v", err)
	}
	if c.ID() != id {
		t.Errorf("id: got %s, want %s", c.ID(), id)
	}

	if err := intent.Unbundle(strings.NewReader("not zstd"), t.TempDir()); !errors.Is(err, intent.ErrArtifactLoad) {
		t.Errorf("garbage bundle: got %v, want ErrArtifactLoad", err)
	}
}

func TestBundleKey(t *testing.T) {
	key := intent.BundleKey("20260101T000000Z-abcd1234")
	if key != "artifacts/20260101T000000Z-abcd1234.tar.zst" {
		t.Errorf("key: got %s", key)
	}

	id, ok := intent.BundleID(key)
	if !ok || id != "20260101T000000Z-abcd1234" {
		t.Errorf("BundleID: got %s, %v", id, ok)
	}
	if _, ok := intent.BundleID("uploads/file.pdf"); ok {
		t.Error("non-bundle key should not parse")
	}
}

type memBlobs struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemBlobs() *memBlobs {
	return &memBlobs{blobs: make(map[string][]byte)}
}

func (m *memBlobs) Start(*lifecycle.Coordinator) error { return nil }

func (m *memBlobs) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = data
	return nil
}

func (m *memBlobs) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memBlobs) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blobs[key]; !ok {
		return storage.ErrNotFound
	}
	delete(m.blobs, key)
	return nil
}

func (m *memBlobs) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[key]
	return ok, nil
}

func (m *memBlobs) List(ctx context.Context, prefix string) ([]storage.BlobInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []storage.BlobInfo
	for _, key := range slices.Sorted(maps.Keys(m.blobs)) {
		if strings.HasPrefix(key, prefix) {
			out = append(out, storage.BlobInfo{Key: key, Size: int64(len(m.blobs[key])), LastModified: time.Now()})
		}
	}
	return out, nil
}

func TestPublishFetch(t *testing.T) {
	ctx := context.Background()
	enc := embedding.NewHash(0)
	blobs := newMemBlobs()

	src := openStore(t)
	id, err := src.Save(trainResult(t, enc))
	if err != nil {
		t.Fatal(err)
	}

	key, err := src.Publish(ctx, blobs, id)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if key != intent.BundleKey(id) {
		t.Errorf("key: got %s, want %s", key, intent.BundleKey(id))
	}

	dst := openStore(t)
	if err := dst.Fetch(ctx, blobs, id); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if err := dst.Promote(id); err != nil {
		t.Fatalf("Promote(fetched) error = %v", err)
	}
	if _, err := intent.LoadClassifier(dst.Path(id), enc); err != nil {
		t.Errorf("LoadClassifier(fetched) error = %v", err)
	}

	if err := dst.Fetch(ctx, blobs, "20990101T000000Z-missing0"); !errors.Is(err, intent.ErrRunNotFound) {
		t.Errorf("Fetch(missing): got %v, want ErrRunNotFound", err)
	}
	if err := dst.Fetch(ctx, blobs, "../escape"); !errors.Is(err, intent.ErrRunNotFound) {
		t.Errorf("Fetch(traversal): got %v, want ErrRunNotFound", err)
	}
	if _, err := src.Publish(ctx, blobs, "missing"); !errors.Is(err, intent.ErrRunNotFound) {
		t.Errorf("Publish(missing): got %v, want ErrRunNotFound", err)
	}
}
