// G-code document model
//
// A sliced G-code file is handled as an ordered list of layer chunks,
// each chunk a newline-joined block of command lines. Chunk 0 is the
// slicer header, chunk 1 the startup section, printing layers follow
// from chunk 2. The coordinate compensator relies on this indexing to
// leave the first two chunks untouched.
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package gcode

import "strings"

// Document is an ordered sequence of layer chunks.
type Document []string

const (
	layerMarker      = ";LAYER:"
	layerCountMarker = ";LAYER_COUNT:"

	// processedMarker flags a document that has already been through a
	// post-processing pass and must not be sheared a second time.
	processedMarker = ";POSTPROCESSED"
)

// ParseDocument splits raw G-code text into layer chunks. A new chunk
// starts at every ";LAYER:" line; the slicer header is closed after the
// ";LAYER_COUNT:" line so that header and startup section occupy
// chunks 0 and 1.
func ParseDocument(text string) Document {
	var doc Document
	var chunk []string

	flush := func() {
		if len(chunk) > 0 {
			doc = append(doc, strings.Join(chunk, "\n"))
			chunk = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, layerMarker) {
			flush()
		}
		chunk = append(chunk, line)
		if strings.HasPrefix(line, layerCountMarker) {
			flush()
		}
	}
	flush()
	return doc
}

// String reassembles the document into G-code text.
func (d Document) String() string {
	return strings.Join(d, "\n")
}

// IsPostProcessed reports whether the document carries the
// post-processed marker in its header chunk.
func (d Document) IsPostProcessed() bool {
	if len(d) == 0 {
		return false
	}
	return strings.Contains(d[0], processedMarker)
}
