package chunker

import "strings"

// recursiveSplitter splits text on a prioritised separator list.
//
// At each level it splits on the coarsest separator present, merges
// adjacent pieces into overlap-aware windows up to the size limit, and
// only recurses into finer separators for pieces that still exceed the
// limit. Separators are kept attached to the end of the preceding
// piece, so the concatenation of all pieces reconstructs the input
// exactly and no characters are ever dropped.
//
// A piece that exceeds the size limit but contains no remaining
// separator is emitted as its own oversized segment rather than being
// truncated.
type recursiveSplitter struct {
	size       int
	overlap    int
	separators []string
}

func (r *recursiveSplitter) split(text string) []string {
	return r.splitText(text, r.separators)
}

func (r *recursiveSplitter) splitText(text string, separators []string) []string {
	sep := ""
	var remaining []string
	for i, s := range separators {
		if s == "" {
			break
		}
		if strings.Contains(text, s) {
			sep = s
			remaining = separators[i+1:]
			break
		}
	}

	if sep == "" {
		// No separator left that occurs in this text. The piece is
		// atomic: emit it whole even when it exceeds the size limit.
		return []string{text}
	}

	pieces := splitKeepSeparator(text, sep)

	var segments []string
	var mergeable []string

	for _, piece := range pieces {
		if len(piece) <= r.size {
			mergeable = append(mergeable, piece)
			continue
		}

		// Flush accumulated small pieces before descending.
		if len(mergeable) > 0 {
			segments = append(segments, r.mergePieces(mergeable)...)
			mergeable = nil
		}
		segments = append(segments, r.splitText(piece, remaining)...)
	}

	if len(mergeable) > 0 {
		segments = append(segments, r.mergePieces(mergeable)...)
	}

	return segments
}

// mergePieces packs adjacent pieces into windows of at most size
// characters. When a window is emitted, pieces are retained from its
// tail until at most overlap characters remain, so consecutive windows
// share roughly overlap characters of boundary content (within one
// piece of slack).
func (r *recursiveSplitter) mergePieces(pieces []string) []string {
	var out []string
	var window []string
	total := 0

	for _, piece := range pieces {
		if total+len(piece) > r.size && total > 0 {
			out = append(out, strings.Join(window, ""))

			// Slide the window forward, keeping at most overlap
			// characters of trailing context.
			for total > r.overlap || (total+len(piece) > r.size && total > 0) {
				total -= len(window[0])
				window = window[1:]
			}
		}
		window = append(window, piece)
		total += len(piece)
	}

	if len(window) > 0 {
		out = append(out, strings.Join(window, ""))
	}

	return out
}

// splitKeepSeparator splits text on sep with the separator attached to
// the end of the preceding piece.
func splitKeepSeparator(text, sep string) []string {
	parts := strings.Split(text, sep)

	pieces := make([]string, 0, len(parts))
	for i, p := range parts {
		if i < len(parts)-1 {
			p += sep
		}
		if p != "" {
			pieces = append(pieces, p)
		}
	}

	return pieces
}
