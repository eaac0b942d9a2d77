package chunker

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// tokenEncoding is the BPE encoding used for token-based chunking.
const tokenEncoding = "cl100k_base"

// tokenSplitter measures size and overlap in tokens instead of
// characters, emitting contiguous token windows. No separator priority
// is applied at this level.
type tokenSplitter struct {
	size    int
	overlap int
	enc     *tiktoken.Tiktoken
}

func newTokenSplitter(size, overlap int) (*tokenSplitter, error) {
	enc, err := tiktoken.GetEncoding(tokenEncoding)
	if err != nil {
		return nil, fmt.Errorf("loading %s encoding: %w", tokenEncoding, err)
	}
	return &tokenSplitter{size: size, overlap: overlap, enc: enc}, nil
}

func (t *tokenSplitter) split(text string) []string {
	tokens := t.enc.Encode(text, nil, nil)
	if len(tokens) == 0 {
		return nil
	}

	step := t.size - t.overlap
	if step <= 0 {
		step = t.size
	}

	var segments []string
	for start := 0; start < len(tokens); start += step {
		end := start + t.size
		if end > len(tokens) {
			end = len(tokens)
		}
		segments = append(segments, t.enc.Decode(tokens[start:end]))
		if end == len(tokens) {
			break
		}
	}

	return segments
}
