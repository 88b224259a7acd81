package ingestion_engine

import (
	"fmt"
	"unicode"
)

// Split points in priority order. A chunk ends right after the last
// occurrence of the first separator found in its search window; when none
// is found the chunk is cut at exactly chunkSize characters.
var defaultSeparators = []string{"\n\n", "\n", ". ", " "}

// Chunk is a contiguous window of the source text. Start and End are rune
// offsets into the source; Overlap is the number of leading runes shared
// with the previous chunk.
type Chunk struct {
	Index   int
	Content string
	Start   int
	End     int
	Overlap int
}

// TextSplitter cuts text into overlapping windows measured in characters.
type TextSplitter struct {
	chunkSize    int
	chunkOverlap int
	separators   [][]rune
}

func NewTextSplitter(chunkSize, chunkOverlap int) (*TextSplitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", chunkSize, chunkOverlap)
	}
	seps := make([][]rune, len(defaultSeparators))
	for i, s := range defaultSeparators {
		seps[i] = []rune(s)
	}
	return &TextSplitter{chunkSize: chunkSize, chunkOverlap: chunkOverlap, separators: seps}, nil
}

// Split returns the ordered chunks of text. Every chunk is at most chunkSize
// characters long, consecutive chunks share at most chunkOverlap characters,
// and Reconstruct(Split(text)) == text.
func (s *TextSplitter) Split(text string) []Chunk {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	var (
		chunks  []Chunk
		start   int
		prevEnd int
	)
	for {
		end := n
		if n-start > s.chunkSize {
			end = s.boundary(runes, start)
		}
		overlap := 0
		if len(chunks) > 0 {
			overlap = prevEnd - start
		}
		chunks = append(chunks, Chunk{
			Index:   len(chunks),
			Content: string(runes[start:end]),
			Start:   start,
			End:     end,
			Overlap: overlap,
		})
		if end >= n {
			return chunks
		}
		prevEnd = end
		start = s.nextStart(runes, start, end)
	}
}

// boundary picks the end of the chunk beginning at start. The search window
// starts past start+chunkOverlap so the next chunk always moves forward.
func (s *TextSplitter) boundary(runes []rune, start int) int {
	limit := start + s.chunkSize
	lo := start + s.chunkOverlap + 1
	if half := start + s.chunkSize/2; half > lo {
		lo = half
	}
	if lo >= limit {
		return limit
	}
	for _, sep := range s.separators {
		if i := lastIndex(runes[lo:limit], sep); i >= 0 {
			return lo + i + len(sep)
		}
	}
	return limit
}

// nextStart backs off chunkOverlap characters from end, then moves forward
// to the first word start so the overlap does not open mid-word.
func (s *TextSplitter) nextStart(runes []rune, start, end int) int {
	next := end - s.chunkOverlap
	if next <= start {
		next = start + 1
	}
	for i := next; i < end; i++ {
		if unicode.IsSpace(runes[i-1]) && !unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return next
}

func lastIndex(haystack, sep []rune) int {
outer:
	for i := len(haystack) - len(sep); i >= 0; i-- {
		for j := range sep {
			if haystack[i+j] != sep[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}

// Reconstruct concatenates chunks with their overlaps removed.
func Reconstruct(chunks []Chunk) string {
	var out []rune
	for _, c := range chunks {
		r := []rune(c.Content)
		if c.Overlap > len(r) {
			continue
		}
		out = append(out, r[c.Overlap:]...)
	}
	return string(out)
}
