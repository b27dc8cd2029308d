package epublocate

import (
	"fmt"
	"strconv"
	"strings"
)

// Metadata holds the Dublin Core metadata extracted from the package descriptor.
type Metadata struct {
	// Version is the ePub specification version (e.g., "2.0", "3.0").
	Version string `json:"version"`

	// Titles contains all dc:title values. The first entry is the primary title.
	Titles []string `json:"titles,omitempty"`

	// Authors contains all dc:creator entries.
	Authors []Author `json:"authors,omitempty"`

	// Language contains all dc:language values (BCP 47 tags, e.g., "en", "zh-CN").
	Language []string `json:"language,omitempty"`

	// Identifiers contains all dc:identifier entries (ISBN, UUID, URI, etc.).
	Identifiers []Identifier `json:"identifiers,omitempty"`
}

// Author represents a dc:creator entry with optional file-as and role attributes.
type Author struct {
	// Name is the display name of the author (dc:creator text content).
	Name string `json:"name"`

	// FileAs is the opf:file-as attribute value (e.g., "Dickens, Charles").
	FileAs string `json:"file_as,omitempty"`

	// Role is the opf:role attribute value (e.g., "aut", "edt", "trl").
	Role string `json:"role,omitempty"`
}

// Identifier represents a dc:identifier entry.
type Identifier struct {
	// Value is the identifier text content (e.g., ISBN, UUID, URI).
	Value string `json:"value"`

	// Scheme is the opf:scheme attribute value (e.g., "ISBN", "UUID").
	Scheme string `json:"scheme,omitempty"`
}

// SpinePosition reports where the <spine> element sits among the <package>
// element's direct children, in true document order.
type SpinePosition struct {
	// Ordinal is the 1-based position of <spine> among the package's direct
	// children, or -1 when the package has no spine child.
	Ordinal int `json:"ordinal"`

	// Total is the count of the package's direct child elements.
	Total int `json:"total"`
}

// PathStep is one ancestor in an element path: a tag name together with its
// 1-based rank among preceding siblings of the same tag.
type PathStep struct {
	Tag     string `json:"tag"`
	Ordinal int    `json:"ordinal"`
}

// String renders the step as "tag[ordinal]".
func (s PathStep) String() string {
	return fmt.Sprintf("%s[%d]", s.Tag, s.Ordinal)
}

// Match is the structural address of a located query: which spine document
// contains it, where that document sits in the reading order, the ancestor
// chain down to the text node's parent, and the character offsets of the
// match within that node's raw text. All fields are derived and immutable.
type Match struct {
	// SpineIndex is the 1-based ordinal of the matched document in the spine.
	SpineIndex int `json:"spine_index"`

	// SpineTotal is the number of spine entries.
	SpineTotal int `json:"spine_total"`

	// MatchedFile is the absolute path of the matched document in the
	// staging directory. It is only valid until the Book is closed.
	MatchedFile string `json:"matched_file"`

	// Href is the matched document's manifest href, relative to the
	// package descriptor's directory.
	Href string `json:"href"`

	// ElementPath is the ancestor chain from the document root down to the
	// matched text node's immediate parent.
	ElementPath []PathStep `json:"element_path"`

	// IndexPath is the same ancestor chain as sibling ordinals only,
	// excluding every step named like the document's outermost element.
	IndexPath []int `json:"index_path"`

	// MatchStart and MatchEnd are character (rune) offsets of the query
	// within the matched text node's raw text: [MatchStart, MatchEnd).
	MatchStart int `json:"match_start"`
	MatchEnd   int `json:"match_end"`
}

// ElementPathString renders the element path as "html[1]/body[1]/p[2]".
func (m *Match) ElementPathString() string {
	parts := make([]string, len(m.ElementPath))
	for i, s := range m.ElementPath {
		parts[i] = s.String()
	}
	return strings.Join(parts, "/")
}

// IndexPathString renders the index path as "1/2/1".
func (m *Match) IndexPathString() string {
	parts := make([]string, len(m.IndexPath))
	for i, n := range m.IndexPath {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "/")
}
