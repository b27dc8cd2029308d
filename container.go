package epublocate

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// containerXML models the META-INF/container.xml file used to locate the
// package descriptor.
type containerXML struct {
	XMLName   xml.Name   `xml:"container"`
	RootFiles []rootFile `xml:"rootfiles>rootfile"`
}

// rootFile represents a single <rootfile> element inside container.xml.
type rootFile struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

// containerPath is the well-known location of container.xml in an ePub archive.
const containerPath = "META-INF/container.xml"

// packageMediaType is the media-type that marks a rootfile as the package descriptor.
const packageMediaType = "application/oebps-package+xml"

// resolveContainer reads the container descriptor under the staging root and
// returns the package descriptor path it declares, relative to the root.
//
// A rootfile with the OEBPS package media-type is preferred; otherwise the
// first rootfile with a non-empty full-path is used.
func resolveContainer(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(containerPath)))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("epublocate: %s: %w", containerPath, ErrMissingContainer)
	}
	if err != nil {
		return "", fmt.Errorf("epublocate: read %s: %w", containerPath, err)
	}

	var c containerXML
	if err := xml.Unmarshal(stripBOM(data), &c); err != nil {
		return "", fmt.Errorf("epublocate: parse %s (%v): %w", containerPath, err, ErrMalformedContainer)
	}

	var fallbackPath string
	for _, rf := range c.RootFiles {
		fullPath := strings.TrimSpace(rf.FullPath)
		if fullPath == "" {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(rf.MediaType), packageMediaType) {
			return fullPath, nil
		}
		if fallbackPath == "" {
			fallbackPath = fullPath
		}
	}

	if fallbackPath == "" {
		return "", fmt.Errorf("epublocate: %s has no rootfile with a full-path: %w", containerPath, ErrMalformedContainer)
	}

	return fallbackPath, nil
}
