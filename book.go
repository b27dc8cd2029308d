package epublocate

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// expectedMimetype is the required content of the "mimetype" file in a valid ePub.
const expectedMimetype = "application/epub+zip"

// Book is a staged ePub publication ready for locate operations.
// Use Open to create a Book instance and Close to release its staging
// directory.
//
// A Book is not safe for concurrent use by multiple goroutines.
type Book struct {
	staging    *staging
	opfPath    string // absolute path of the package descriptor in staging
	opfDir     string
	manifest   map[string]string // item id → href, last declaration wins
	spine      []string          // ordered idrefs; duplicates preserved
	spineHrefs []string          // index-aligned with spine
	spineFiles []string          // index-aligned with spine, absolute staged paths
	spinePos   SpinePosition
	metadata   Metadata
	warnings   []string
}

// Open extracts the ePub archive at the given path into a staging directory
// and resolves its container, package descriptor and reading order. The
// caller must call Close when done; on error the staging directory has
// already been released.
func Open(path string) (*Book, error) {
	st, err := extractArchive(path)
	if err != nil {
		return nil, err
	}

	b, err := initBook(st)
	if err != nil {
		st.Close()
		return nil, err
	}
	return b, nil
}

// initBook performs common initialisation: mimetype validation, container
// resolution, descriptor parsing and spine resolution.
func initBook(st *staging) (*Book, error) {
	b := &Book{staging: st}

	// Validate mimetype. Deviations are recorded as warnings.
	b.validateMimetype()

	// Resolve the container to find the package descriptor.
	opfRel, err := resolveContainer(st.dir)
	if err != nil {
		return nil, err
	}
	if !isSafePath(opfRel) {
		return nil, fmt.Errorf("epublocate: rootfile path %q escapes the archive: %w", opfRel, ErrMalformedContainer)
	}
	b.opfPath = st.path(opfRel)
	b.opfDir = filepath.Dir(b.opfPath)

	// Read and parse the package descriptor.
	opfData, err := os.ReadFile(b.opfPath)
	if err != nil {
		return nil, fmt.Errorf("epublocate: read package descriptor %s: %w", opfRel, err)
	}

	pkg, err := parseOPF(opfData)
	if err != nil {
		return nil, err
	}
	b.manifest, err = buildManifest(pkg.Manifest.Items)
	if err != nil {
		return nil, err
	}
	b.spine, err = buildSpine(pkg.Spine.ItemRefs)
	if err != nil {
		return nil, err
	}
	b.spinePos, err = spinePosition(opfData)
	if err != nil {
		return nil, err
	}
	b.metadata = extractMetadata(pkg)

	// Map the spine to absolute staged file paths.
	if err := b.resolveSpineFiles(); err != nil {
		return nil, err
	}

	return b, nil
}

// resolveSpineFiles maps each spine idref to its manifest href and joins it
// to the descriptor's directory. An idref absent from the manifest is fatal:
// skipping it would silently lose a page of the reading order.
func (b *Book) resolveSpineFiles() error {
	hrefs := make([]string, 0, len(b.spine))
	files := make([]string, 0, len(b.spine))
	opfRel, err := filepath.Rel(b.staging.dir, b.opfDir)
	if err != nil {
		opfRel = "."
	}
	for _, id := range b.spine {
		href, ok := b.manifest[id]
		if !ok {
			return fmt.Errorf("epublocate: spine references unknown manifest id %q: %w", id, ErrUnresolvedSpineItem)
		}
		if !isSafePath(path.Join(filepath.ToSlash(opfRel), href)) {
			return fmt.Errorf("epublocate: manifest href %q escapes the archive: %w", href, ErrMalformedPackage)
		}
		hrefs = append(hrefs, href)
		files = append(files, filepath.Join(b.opfDir, filepath.FromSlash(href)))
	}
	b.spineHrefs = hrefs
	b.spineFiles = files
	return nil
}

// validateMimetype checks that the staged "mimetype" file exists and contains
// "application/epub+zip". Deviations are recorded as warnings, not errors.
func (b *Book) validateMimetype() {
	data, err := os.ReadFile(b.staging.path("mimetype"))
	if err != nil {
		b.warnings = append(b.warnings, "mimetype entry missing")
		return
	}
	if string(data) != expectedMimetype {
		b.warnings = append(b.warnings, fmt.Sprintf("unexpected mimetype: %q", string(data)))
	}
}

// Close releases the staging directory. Close is idempotent.
func (b *Book) Close() error {
	return b.staging.Close()
}

// OPFPath returns the absolute staged path of the package descriptor.
func (b *Book) OPFPath() string {
	return b.opfPath
}

// Spine returns the ordered spine idrefs.
func (b *Book) Spine() []string {
	return append([]string(nil), b.spine...)
}

// SpineFiles returns the reading-order document paths, index-aligned with Spine.
// The paths are only valid until Close.
func (b *Book) SpineFiles() []string {
	return append([]string(nil), b.spineFiles...)
}

// ManifestHref returns the href recorded in the manifest for the given item
// id. Resolution is deterministic: the same id always yields the same href.
func (b *Book) ManifestHref(id string) (string, bool) {
	href, ok := b.manifest[id]
	return href, ok
}

// SpinePosition returns the <spine> element's position among the package's
// direct children.
func (b *Book) SpinePosition() SpinePosition {
	return b.spinePos
}

// Metadata returns the extracted metadata from the package descriptor.
func (b *Book) Metadata() Metadata {
	return copyMetadata(b.metadata)
}

// Warnings returns the list of non-fatal warnings accumulated during parsing.
func (b *Book) Warnings() []string {
	return append([]string(nil), b.warnings...)
}
