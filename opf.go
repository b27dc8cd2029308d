package epublocate

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// opfPackage represents the root <package> element of a package descriptor.
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Version  string      `xml:"version,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

// opfMetadata holds the Dublin Core elements consulted for reporting.
type opfMetadata struct {
	Titles      []opfDCElement `xml:"http://purl.org/dc/elements/1.1/ title"`
	Creators    []opfDCElement `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Languages   []opfDCElement `xml:"http://purl.org/dc/elements/1.1/ language"`
	Identifiers []opfDCElement `xml:"http://purl.org/dc/elements/1.1/ identifier"`
}

// opfDCElement holds a Dublin Core element with the ePub 2 OPF attributes.
type opfDCElement struct {
	Value  string `xml:",chardata"`
	ID     string `xml:"id,attr"`
	FileAs string `xml:"file-as,attr"`
	Role   string `xml:"role,attr"`
	Scheme string `xml:"scheme,attr"`
}

// opfManifest wraps the <manifest> element.
type opfManifest struct {
	Items []opfManifestItem `xml:"item"`
}

// opfManifestItem represents a single <item> in the manifest.
type opfManifestItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

// opfSpine wraps the <spine> element.
type opfSpine struct {
	Toc      string            `xml:"toc,attr"`
	ItemRefs []opfSpineItemRef `xml:"itemref"`
}

// opfSpineItemRef represents a single <itemref> in the spine.
type opfSpineItemRef struct {
	IDRef string `xml:"idref,attr"`
}

// parseOPF parses the package descriptor and returns the raw package structure.
// A document whose root element is not <package> is rejected.
func parseOPF(data []byte) (*opfPackage, error) {
	var pkg opfPackage
	if err := xml.Unmarshal(stripBOM(data), &pkg); err != nil {
		return nil, fmt.Errorf("epublocate: parse package descriptor (%v): %w", err, ErrMalformedPackage)
	}

	if pkg.Version == "" {
		// Default to 2.0 if the version attribute is missing.
		pkg.Version = "2.0"
	}

	return &pkg, nil
}

// buildManifest creates the id → href lookup from the parsed manifest.
// Duplicate ids are not an error: the last declaration wins, matching
// common descriptor semantics.
func buildManifest(items []opfManifestItem) (map[string]string, error) {
	manifest := make(map[string]string, len(items))
	for _, item := range items {
		id := strings.TrimSpace(item.ID)
		href := strings.TrimSpace(item.Href)
		if id == "" || href == "" {
			return nil, fmt.Errorf("epublocate: manifest item with id=%q href=%q: %w", item.ID, item.Href, ErrMalformedPackage)
		}
		manifest[id] = href
	}
	return manifest, nil
}

// buildSpine creates the ordered idref list from the parsed spine.
// Duplicate idrefs are preserved; the order is the publication's reading order.
func buildSpine(refs []opfSpineItemRef) ([]string, error) {
	spine := make([]string, 0, len(refs))
	for _, ref := range refs {
		idref := strings.TrimSpace(ref.IDRef)
		if idref == "" {
			return nil, fmt.Errorf("epublocate: spine itemref without idref: %w", ErrMalformedPackage)
		}
		spine = append(spine, idref)
	}
	return spine, nil
}

// spinePosition reports the 1-based ordinal of the <spine> element among the
// <package> element's direct children, together with the total child count.
// A missing spine child yields ordinal -1 with the true total; only a missing
// or foreign root element is an error.
func spinePosition(data []byte) (SpinePosition, error) {
	root, err := parseXMLTree(stripBOM(data))
	if err != nil {
		return SpinePosition{}, fmt.Errorf("epublocate: parse package descriptor (%v): %w", err, ErrMalformedPackage)
	}
	if root.tag != "package" {
		return SpinePosition{}, fmt.Errorf("epublocate: root element is <%s>, want <package>: %w", root.tag, ErrMalformedPackage)
	}

	pos := SpinePosition{Ordinal: -1}
	for _, child := range root.children {
		if child.isText() {
			continue
		}
		pos.Total++
		if pos.Ordinal == -1 && child.tag == "spine" {
			pos.Ordinal = pos.Total
		}
	}
	return pos, nil
}
