package tsdata

import (
	"bytes"
	"cmp"
	"slices"

	"github.com/m-mizutani/goerr/v2"
)

// Edit replaces content[Start:End] with Text. Start == End is an insertion.
// Offsets always refer to the content the edit was computed from.
type Edit struct {
	Start int
	End   int
	Text  string
}

// Apply applies non-overlapping edits to content and returns the new content.
// content itself is not modified.
func Apply(content []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return bytes.Clone(content), nil
	}

	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b Edit) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.End, b.End)
	})

	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(content) {
			return nil, goerr.Wrap(ErrEditOutOfRange, "invalid edit range",
				goerr.V("start", e.Start), goerr.V("end", e.End), goerr.V("size", len(content)))
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if e.Start < prev.End || e.Start == prev.Start {
			return nil, goerr.Wrap(ErrOverlappingEdit, "edits touch the same range",
				goerr.V("prev_start", prev.Start), goerr.V("prev_end", prev.End),
				goerr.V("start", e.Start), goerr.V("end", e.End))
		}
	}

	var buf bytes.Buffer
	buf.Grow(len(content))
	pos := 0
	for _, e := range sorted {
		buf.Write(content[pos:e.Start])
		buf.WriteString(e.Text)
		pos = e.End
	}
	buf.Write(content[pos:])

	return buf.Bytes(), nil
}

func lineStart(content []byte, off int) int {
	if i := bytes.LastIndexByte(content[:off], '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

// lineEnd returns the offset of the newline ending the line at off, or len(content)
func lineEnd(content []byte, off int) int {
	if i := bytes.IndexByte(content[off:], '\n'); i >= 0 {
		return off + i
	}
	return len(content)
}

// lineIndent returns the leading whitespace of the line containing off
func lineIndent(content []byte, off int) string {
	start := lineStart(content, off)
	end := start
	for end < len(content) && (content[end] == ' ' || content[end] == '\t') {
		end++
	}
	return string(content[start:end])
}

// startsLine reports whether only whitespace precedes off on its line
func startsLine(content []byte, off int) bool {
	return len(bytes.TrimSpace(content[lineStart(content, off):off])) == 0
}
