package epublocate

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// Locate scans the spine documents strictly in reading order and returns the
// structural address of the first text node whose raw content contains query.
// Within a document, text nodes are visited depth-first in pre-order, i.e. as
// they appear in the source markup.
//
// found is false when no spine document contains the query; this is a normal
// outcome, not an error. An unreadable or unparsable spine document aborts
// the scan with ErrDocumentUnreadable rather than being skipped, since a
// skipped document could hide the true first match.
func (b *Book) Locate(query string) (m *Match, found bool, err error) {
	if query == "" {
		return nil, false, ErrEmptyQuery
	}

	for i, file := range b.spineFiles {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, false, fmt.Errorf("epublocate: read %s (%v): %w", file, err, ErrDocumentUnreadable)
		}
		root, err := parseHTMLTree(data)
		if err != nil {
			return nil, false, fmt.Errorf("epublocate: parse %s (%v): %w", file, err, ErrDocumentUnreadable)
		}

		node := firstTextMatch(root, query)
		if node == nil {
			continue
		}

		m := buildMatch(node, root.tag, query)
		m.SpineIndex = i + 1
		m.SpineTotal = len(b.spineFiles)
		m.MatchedFile = file
		m.Href = b.spineHrefs[i]
		return m, true, nil
	}

	return nil, false, nil
}

// Locate opens the archive at archivePath, runs a single locate pass for
// query, and releases the staging directory on all paths. It is a pure
// function of its inputs; re-running it yields the same address.
func Locate(archivePath, query string) (*Match, bool, error) {
	b, err := Open(archivePath)
	if err != nil {
		return nil, false, err
	}
	defer b.Close()
	return b.Locate(query)
}

// buildMatch computes the ancestor paths and character offsets for a matched
// text node. Offsets are rune-based; rootTag names the document's outermost
// element, whose steps are excluded from the numeric index path.
func buildMatch(node *treeNode, rootTag, query string) *Match {
	byteStart := strings.Index(node.text, query)
	start := utf8.RuneCountInString(node.text[:byteStart])
	m := &Match{
		MatchStart: start,
		MatchEnd:   start + utf8.RuneCountInString(query),
	}

	// Walk upward from the text node's parent, then reverse so the paths
	// read root → leaf.
	for el := node.parent; el != nil; el = el.parent {
		ord := siblingOrdinal(el)
		m.ElementPath = append(m.ElementPath, PathStep{Tag: el.tag, Ordinal: ord})
		if el.tag != rootTag {
			m.IndexPath = append(m.IndexPath, ord)
		}
	}
	reverseSteps(m.ElementPath)
	reverseInts(m.IndexPath)
	return m
}

func reverseSteps(s []PathStep) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
