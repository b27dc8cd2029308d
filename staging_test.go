package epublocate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractArchive_Normal(t *testing.T) {
	fp := buildEPUBFile(t, testEPUBFiles())

	s, err := extractArchive(fp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	for _, rel := range []string{"mimetype", "META-INF/container.xml", "OEBPS/content.opf", "OEBPS/ch1.xhtml"} {
		if _, err := os.Stat(s.path(rel)); err != nil {
			t.Errorf("staged entry %s: %v", rel, err)
		}
	}
}

func TestExtractArchive_NotAnArchive(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "bogus.epub")
	if err := os.WriteFile(fp, []byte("not a zip"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := extractArchive(fp)
	if !errors.Is(err, ErrStaging) {
		t.Errorf("error = %v, want wrapped ErrStaging", err)
	}
}

func TestExtractArchive_MissingFile(t *testing.T) {
	_, err := extractArchive(filepath.Join(t.TempDir(), "absent.epub"))
	if !errors.Is(err, ErrStaging) {
		t.Errorf("error = %v, want wrapped ErrStaging", err)
	}
}

func TestExtractArchive_TraversalEntry(t *testing.T) {
	fp := buildEPUBFile(t, map[string]string{
		"../escape.txt": "outside",
	})

	_, err := extractArchive(fp)
	if !errors.Is(err, ErrStaging) {
		t.Errorf("error = %v, want wrapped ErrStaging", err)
	}
}

func TestStagingClose_RemovesDirAndIsIdempotent(t *testing.T) {
	fp := buildEPUBFile(t, testEPUBFiles())

	s, err := extractArchive(fp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dir := s.dir

	if err := s.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("staging dir still present after Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestIsSafePath(t *testing.T) {
	safe := []string{"mimetype", "OEBPS/content.opf", "a/b/../c"}
	for _, p := range safe {
		if !isSafePath(p) {
			t.Errorf("isSafePath(%q) = false, want true", p)
		}
	}
	unsafe := []string{"/etc/passwd", "..", "../x", "a/../../x"}
	for _, p := range unsafe {
		if isSafePath(p) {
			t.Errorf("isSafePath(%q) = true, want false", p)
		}
	}
}

func TestStripBOM(t *testing.T) {
	if got := stripBOM([]byte("\xEF\xBB\xBF<a/>")); string(got) != "<a/>" {
		t.Errorf("stripBOM with BOM = %q", got)
	}
	if got := stripBOM([]byte("<a/>")); string(got) != "<a/>" {
		t.Errorf("stripBOM without BOM = %q", got)
	}
}
