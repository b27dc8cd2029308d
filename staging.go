package epublocate

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// maxDecompressSize is the maximum allowed decompressed size for a single ZIP
// entry. This guards against zip bomb attacks. Defaults to 256 MB.
const maxDecompressSize int64 = 256 * 1024 * 1024

// staging is a temporary directory holding the extracted archive entries.
// It is the only scoped resource in the pipeline; Close must run on every
// exit path, including fatal errors and not-found outcomes.
type staging struct {
	dir string
}

// extractArchive extracts the ePub ZIP archive into a fresh temporary
// directory and returns a staging handle over it. On any failure the
// partially populated directory is removed before returning.
func extractArchive(archivePath string) (*staging, error) {
	zrc, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("epublocate: open archive %s (%v): %w", archivePath, err, ErrStaging)
	}
	defer zrc.Close()

	dir, err := os.MkdirTemp("", "epublocate-*")
	if err != nil {
		return nil, fmt.Errorf("epublocate: create staging directory (%v): %w", err, ErrStaging)
	}

	s := &staging{dir: dir}
	for _, f := range zrc.File {
		if err := extractEntry(dir, f); err != nil {
			s.Close()
			return nil, fmt.Errorf("epublocate: extract %s (%v): %w", f.Name, err, ErrStaging)
		}
	}
	return s, nil
}

// extractEntry writes a single ZIP entry below root. Entry paths are
// validated against traversal and the decompressed size is enforced while
// copying, so a forged size header cannot bypass the limit.
func extractEntry(root string, f *zip.File) error {
	if !isSafePath(f.Name) {
		return fmt.Errorf("unsafe entry path %q", f.Name)
	}

	dest := filepath.Join(root, filepath.FromSlash(f.Name))
	if f.FileInfo().IsDir() {
		return os.MkdirAll(dest, 0o755)
	}

	if f.UncompressedSize64 > uint64(maxDecompressSize) {
		return fmt.Errorf("entry too large: %d bytes (max %d)", f.UncompressedSize64, maxDecompressSize)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	n, err := io.Copy(out, io.LimitReader(rc, maxDecompressSize+1))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if n > maxDecompressSize {
		return fmt.Errorf("entry decompressed size exceeds limit (%d bytes)", maxDecompressSize)
	}
	return nil
}

// Close removes the staging directory recursively. It is idempotent.
func (s *staging) Close() error {
	if s == nil || s.dir == "" {
		return nil
	}
	dir := s.dir
	s.dir = ""
	return os.RemoveAll(dir)
}

// path resolves an archive-relative (forward-slash) path below the staging root.
func (s *staging) path(rel string) string {
	return filepath.Join(s.dir, filepath.FromSlash(rel))
}

// isSafePath checks whether p is a safe ZIP-internal path that does not
// escape the staging root via path traversal (e.g., "../../../etc/passwd").
func isSafePath(p string) bool {
	cleaned := path.Clean(p)
	if strings.HasPrefix(cleaned, "/") {
		return false
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return false
	}
	return true
}

// stripBOM removes a leading UTF-8 BOM (0xEF 0xBB 0xBF) from data, if present.
func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
