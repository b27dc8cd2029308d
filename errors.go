package epublocate

import "errors"

// Sentinel errors returned by the epublocate package.
var (
	// ErrStaging indicates the archive could not be extracted into the
	// staging directory (unreadable, corrupt, or unsafe zip content).
	ErrStaging = errors.New("epublocate: cannot stage archive")

	// ErrMissingContainer indicates META-INF/container.xml is absent
	// from the archive.
	ErrMissingContainer = errors.New("epublocate: container descriptor not found")

	// ErrMalformedContainer indicates container.xml exists but declares
	// no usable rootfile with a full-path attribute.
	ErrMalformedContainer = errors.New("epublocate: malformed container descriptor")

	// ErrMalformedPackage indicates the package descriptor has no root
	// <package> element, or a manifest item lacks id/href, or a spine
	// itemref lacks idref.
	ErrMalformedPackage = errors.New("epublocate: malformed package descriptor")

	// ErrUnresolvedSpineItem indicates the spine references a manifest id
	// that does not exist. Reading order integrity cannot be guaranteed,
	// so this is fatal rather than skipped.
	ErrUnresolvedSpineItem = errors.New("epublocate: spine item not in manifest")

	// ErrDocumentUnreadable indicates a spine document could not be read
	// or parsed. The scan aborts rather than skipping the file, since a
	// skipped file could hide the true first match.
	ErrDocumentUnreadable = errors.New("epublocate: spine document unreadable")

	// ErrEmptyQuery indicates Locate was called with an empty query.
	// An empty substring occurs in every text node, so the call is rejected.
	ErrEmptyQuery = errors.New("epublocate: query is empty")
)
