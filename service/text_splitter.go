package services

import "strings"

// DefaultChunkSize is the target chunk size in characters.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the overlap between consecutive chunks.
const DefaultChunkOverlap = 200

// defaultSeparators is the boundary hierarchy: paragraphs first, then
// lines, then words, then raw character windows as a last resort.
var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// TextChunk is a contiguous span of the source text. Start and End
// are byte offsets, half-open.
type TextChunk struct {
	Text  string
	Start int
	End   int
}

// RecursiveSplitter breaks text into overlapping chunks along the
// layered separator hierarchy, recursing into any piece still larger
// than the target size. Separators stay attached to the piece before
// them, so chunk spans cover the input without gaps.
type RecursiveSplitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

func NewRecursiveSplitter(chunkSize, chunkOverlap int) *RecursiveSplitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	// Ensure overlap doesn't exceed chunk size
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 4
	}
	return &RecursiveSplitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   defaultSeparators,
	}
}

// span is a half-open range of the source text.
type span struct {
	start, end int
}

// Split breaks text into chunks of at most chunkSize characters with
// chunkOverlap characters shared between consecutive chunks.
func (s *RecursiveSplitter) Split(text string) []TextChunk {
	if text == "" {
		return nil
	}
	pieces := s.splitRange(text, span{0, len(text)}, s.separators)
	return s.merge(text, pieces)
}

// splitRange breaks a range into atomic pieces no larger than
// chunkSize, preferring the highest-level separator present.
func (s *RecursiveSplitter) splitRange(text string, sp span, separators []string) []span {
	if sp.end-sp.start <= s.chunkSize {
		return []span{sp}
	}
	for i, sep := range separators {
		if sep == "" {
			break
		}
		parts := splitOnSeparator(text, sp, sep)
		if len(parts) <= 1 {
			continue
		}
		var out []span
		for _, part := range parts {
			if part.end-part.start > s.chunkSize {
				out = append(out, s.splitRange(text, part, separators[i+1:])...)
			} else {
				out = append(out, part)
			}
		}
		return out
	}
	return s.charWindows(sp)
}

// splitOnSeparator cuts a range at each separator occurrence, keeping
// the separator at the end of the preceding piece.
func splitOnSeparator(text string, sp span, sep string) []span {
	var parts []span
	start := sp.start
	for start < sp.end {
		idx := strings.Index(text[start:sp.end], sep)
		if idx < 0 {
			parts = append(parts, span{start, sp.end})
			break
		}
		end := start + idx + len(sep)
		parts = append(parts, span{start, end})
		start = end
	}
	return parts
}

// charWindows is the last-resort split: fixed character windows. The
// window is the overlap-adjusted stride so merge can still overlap
// consecutive chunks.
func (s *RecursiveSplitter) charWindows(sp span) []span {
	stride := s.chunkSize - s.chunkOverlap
	if stride <= 0 {
		stride = s.chunkSize
	}
	var out []span
	for start := sp.start; start < sp.end; start += stride {
		end := start + stride
		if end > sp.end {
			end = sp.end
		}
		out = append(out, span{start, end})
	}
	return out
}

// merge greedily packs consecutive pieces into chunks of at most
// chunkSize, then starts the next chunk chunkOverlap characters
// before the previous one ended.
func (s *RecursiveSplitter) merge(text string, pieces []span) []TextChunk {
	var chunks []TextChunk
	start := pieces[0].start
	i := 0
	for i < len(pieces) {
		if pieces[i].end-start > s.chunkSize {
			// The overlap pulled start too far back for this piece;
			// shrink the overlap so the chunk stays within size.
			start = pieces[i].end - s.chunkSize
		}
		end := start
		for i < len(pieces) && pieces[i].end-start <= s.chunkSize {
			end = pieces[i].end
			i++
		}
		chunks = append(chunks, TextChunk{Text: text[start:end], Start: start, End: end})
		if i >= len(pieces) {
			break
		}
		start = end - s.chunkOverlap
		if last := chunks[len(chunks)-1].Start; start <= last {
			// Guarantee forward progress.
			start = last + 1
		}
	}
	return chunks
}
