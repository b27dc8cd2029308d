// Package epublocate locates a literal text query inside an ePub publication
// and reports its structural address: the spine document containing it, that
// document's position in the reading order, the ancestor-element path to the
// matched text node, a sibling-index path usable for re-navigation, and the
// character offsets of the match within the node's raw text.
//
// # Locating a query
//
// Use [Locate] for a one-shot lookup:
//
//	m, found, err := epublocate.Locate("book.epub", "whale")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if found {
//	    fmt.Println(m.ElementPathString(), m.MatchStart, m.MatchEnd)
//	}
//
// Or [Open] a [Book] to run the locate pass alongside inspection of the
// spine, manifest and metadata:
//
//	book, err := epublocate.Open("book.epub")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer book.Close()
//	m, found, err := book.Locate("whale")
//
// Open extracts the archive into a temporary staging directory; Close
// removes it. Only the first match in reading order is ever reported, and
// matching is confined to a single text node's raw content: a query split
// across adjacent text nodes by inline markup is not found.
//
// # Error Handling
//
// The package defines sentinel errors for the fatal failure classes:
//   - [ErrStaging] – the archive cannot be extracted
//   - [ErrMissingContainer] / [ErrMalformedContainer] – container descriptor problems
//   - [ErrMalformedPackage] – package descriptor problems
//   - [ErrUnresolvedSpineItem] – the spine references an unknown manifest id
//   - [ErrDocumentUnreadable] – a spine document cannot be read or parsed
//   - [ErrEmptyQuery] – Locate called with an empty query
//
// A query that simply does not occur is not an error: Locate reports
// found == false with a nil error.
package epublocate
