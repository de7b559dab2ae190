package intent

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/JaimeStill/companion/pkg/storage"
)

const (
	bundlePrefix      = "artifacts/"
	bundleExt         = ".tar.zst"
	bundleContentType = "application/zstd"
	maxBundleFile     = 64 << 20
)

// BundleKey returns the blob key a run is published under.
func BundleKey(id string) string {
	return bundlePrefix + id + bundleExt
}

// BundleID extracts the run id from a bundle key, reporting false for keys
// that are not bundles.
func BundleID(key string) (string, bool) {
	if !strings.HasPrefix(key, bundlePrefix) || !strings.HasSuffix(key, bundleExt) {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(key, bundlePrefix), bundleExt), true
}

// Bundle writes the artifact files in dir to w as a zstd-compressed tar stream.
func Bundle(w io.Writer, dir string) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	tw := tar.NewWriter(zw)

	for _, name := range []string{ManifestFile, HeadFile} {
		if err := addFile(tw, dir, name); err != nil {
			zw.Close()
			return err
		}
	}

	if err := tw.Close(); err != nil {
		zw.Close()
		return fmt.Errorf("close tar: %w", err)
	}
	return zw.Close()
}

func addFile(tw *tar.Writer, dir, name string) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("bundle %s: %w", name, err)
	}

	hdr := &tar.Header{
		Name: name,
		Mode: 0o644,
		Size: int64(len(data)),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("bundle %s: %w", name, err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("bundle %s: %w", name, err)
	}
	return nil
}

// Unbundle extracts a bundle produced by Bundle into dir.
// Only the known artifact files are accepted.
func Unbundle(r io.Reader, dir string) error {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrArtifactLoad, err)
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: read bundle: %w", ErrArtifactLoad, err)
		}

		if hdr.Name != ManifestFile && hdr.Name != HeadFile {
			return fmt.Errorf("%w: unexpected bundle entry %q", ErrArtifactLoad, hdr.Name)
		}
		if hdr.Size > maxBundleFile {
			return fmt.Errorf("%w: bundle entry %q too large", ErrArtifactLoad, hdr.Name)
		}

		data, err := io.ReadAll(io.LimitReader(tr, maxBundleFile))
		if err != nil {
			return fmt.Errorf("%w: read %s: %w", ErrArtifactLoad, hdr.Name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, hdr.Name), data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", hdr.Name, err)
		}
	}
}

// Publish uploads run id from the store to blob storage and returns its key.
func (s *Store) Publish(ctx context.Context, blobs storage.System, id string) (string, error) {
	if !s.exists(id) {
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(Bundle(pw, s.Path(id)))
	}()

	key := BundleKey(id)
	if err := blobs.Upload(ctx, key, pr, bundleContentType); err != nil {
		pr.CloseWithError(err)
		return "", err
	}
	return key, nil
}

// Fetch downloads run id from blob storage into the store. The run is
// verified before it becomes visible and is not promoted.
func (s *Store) Fetch(ctx context.Context, blobs storage.System, id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if s.exists(id) {
		return nil
	}

	body, err := blobs.Download(ctx, BundleKey(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return err
	}
	defer body.Close()

	tmp := filepath.Join(s.root, runsDir, tmpPrefix+id)
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return fmt.Errorf("create run dir: %w", err)
	}

	if err := Unbundle(body, tmp); err != nil {
		os.RemoveAll(tmp)
		return err
	}

	m, _, _, err := readArtifact(tmp)
	if err != nil {
		os.RemoveAll(tmp)
		return err
	}
	if m.ID != id {
		os.RemoveAll(tmp)
		return fmt.Errorf("%w: bundle holds run %s, want %s", ErrArtifactLoad, m.ID, id)
	}

	if err := os.Rename(tmp, s.Path(id)); err != nil {
		os.RemoveAll(tmp)
		return fmt.Errorf("install run: %w", err)
	}
	return nil
}
