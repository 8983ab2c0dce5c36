package feed

import (
	"strings"

	"github.com/duskline/replfeed/internal/lang"
)

// Fragment is one statement-sized piece of a recombined chunk. Lines is the
// number of physical lines the fragment delivers; zero means the group it
// came from was already sitting in the console buffer in full. Text can be
// empty while Lines is positive: a blank line inside an open string or
// bracket construct is content and must still reach the console.
type Fragment struct {
	Text  string
	Lines int
}

// Recombine merges chunk with the console's current unexecuted buffer and
// re-splits the result into independently submittable fragments.
//
// The merged text is dedented, grouped into top-level statements by the
// splitter, and each group is stripped of the leading physical lines already
// sitting in the buffer. Fragments come back in statement order, rejoined
// with newline. Trailing blank lines are normalized away only on groups the
// splitter judges complete; an incomplete group may end inside an open
// string, where blank lines and line-end whitespace are content and are
// kept verbatim.
//
// The running skip count starts at the number of line breaks in buffer and
// is decremented by each group's full line count, clamped at zero. Within a
// group the skip is additionally clamped to the group's own line count so an
// oversized count can never slice past the group.
func Recombine(buffer, chunk string, sp lang.Splitter, newline string) []Fragment {
	if chunk != "" && !strings.HasSuffix(chunk, "\n") && !strings.HasSuffix(chunk, "\r") {
		// Chunks are always terminated by a line break before merging.
		chunk += newline
	}

	merged := buffer + chunk
	oldLineCount := lang.CountBreaks(buffer)

	dedented := sp.Dedent(merged)
	groups := sp.Join(dedented)

	// Walk the dedented text's own lines by group line counts instead of
	// re-splitting each group's text: a group ending in a blank line would
	// lose it in that round trip.
	all := lang.SplitLines(dedented)

	fragments := make([]Fragment, 0, len(groups))
	pos := 0
	for _, g := range groups {
		end := pos + g.Lines
		if end > len(all) {
			end = len(all)
		}
		lines := all[pos:end]
		pos = end

		skip := oldLineCount
		if skip > len(lines) {
			skip = len(lines)
		}
		remaining := lines[skip:]

		if sp.Complete(g.Text) {
			for len(remaining) > 0 && lang.IsBlank(remaining[len(remaining)-1]) {
				remaining = remaining[:len(remaining)-1]
			}
		}

		fragments = append(fragments, Fragment{
			Text:  strings.Join(remaining, newline),
			Lines: len(remaining),
		})

		oldLineCount -= g.Lines
		if oldLineCount < 0 {
			oldLineCount = 0
		}
	}
	return fragments
}
