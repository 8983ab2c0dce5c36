package lang

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// continuationKeywords begin clauses that attach to the preceding compound
// statement even at column zero.
var continuationKeywords = map[string]bool{
	"elif":    true,
	"else":    true,
	"except":  true,
	"finally": true,
}

// pythonSplitter implements Splitter for Python source. Grouping decisions
// come from the lexical line scanner; completeness is decided by the
// tree-sitter grammar.
type pythonSplitter struct {
	version Version
	grammar *tree_sitter.Language
}

// Dedent strips the common leading whitespace shared by every logical start
// line, flattening statements that were authored inside an indented block to
// column zero. Lines that continue an open bracket, string, or backslash
// construct are left untouched, so string contents never change and the
// physical line count is preserved.
func (p *pythonSplitter) Dedent(text string) string {
	lines := SplitLines(text)
	if len(lines) == 0 {
		return text
	}

	sc := &pyScanner{}
	infos := make([]lineInfo, len(lines))
	for i, line := range lines {
		infos[i] = sc.scanLine(line)
	}

	common := ""
	first := true
	for _, info := range infos {
		if info.blank || info.continuedBefore {
			continue
		}
		if first {
			common = info.indent
			first = false
			continue
		}
		common = commonPrefix(common, info.indent)
		if common == "" {
			return text
		}
	}
	if first || common == "" {
		return text
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if !infos[i].blank && !infos[i].continuedBefore {
			out[i] = line[len(common):]
		} else {
			out[i] = line
		}
	}
	return strings.Join(out, "\n") + trailingBreak(text)
}

// Join groups physical lines into top-level statement groups. A non-blank
// line at column zero opens a new group unless it continues an open bracket,
// string, or backslash construct, or begins a continuation clause (else,
// elif, except, finally). Candidate groups that the grammar rejects as
// incomplete are merged forward, so only the trailing group may be
// incomplete.
func (p *pythonSplitter) Join(text string) []Group {
	lines := SplitLines(text)
	if len(lines) == 0 {
		return []Group{{Text: "", Lines: 0}}
	}

	sc := &pyScanner{}
	infos := make([]lineInfo, len(lines))
	for i, line := range lines {
		infos[i] = sc.scanLine(line)
	}

	// Candidate boundaries from the lexical pass.
	var starts []int
	for i, info := range infos {
		if i == 0 {
			starts = append(starts, 0)
			continue
		}
		if info.blank || info.continuedBefore || info.indent != "" {
			continue
		}
		if continuationKeywords[info.keyword] {
			continue
		}
		starts = append(starts, i)
	}

	groups := make([]Group, 0, len(starts))
	for gi, start := range starts {
		end := len(lines)
		if gi+1 < len(starts) {
			end = starts[gi+1]
		}
		groups = append(groups, Group{
			Text:  strings.Join(lines[start:end], "\n"),
			Lines: end - start,
		})
	}

	// Merge incomplete groups forward: a compound header whose body arrives
	// in a later group, or a bare decorator, must stay with what follows.
	merged := make([]Group, 0, len(groups))
	for _, g := range groups {
		if n := len(merged); n > 0 && !p.Complete(merged[n-1].Text) {
			merged[n-1] = Group{
				Text:  merged[n-1].Text + "\n" + g.Text,
				Lines: merged[n-1].Lines + g.Lines,
			}
			continue
		}
		merged = append(merged, g)
	}
	return merged
}

// Complete reports whether text parses as a full Python program with no
// error or missing nodes. Blank input counts as complete. For versions
// before 3.10 a match statement is rejected, since the grammar accepts
// syntax those interpreters do not.
func (p *pythonSplitter) Complete(text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}
	tree := parse(p.grammar, []byte(text))
	if tree == nil {
		return false
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return false
	}
	if !p.version.AtLeast(3, 10) && hasKind(root, "match_statement") {
		return false
	}
	return true
}

// hasKind reports whether any node in the subtree has the given kind.
func hasKind(node *tree_sitter.Node, kind string) bool {
	if node.Kind() == kind {
		return true
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && hasKind(child, kind) {
			return true
		}
	}
	return false
}

// commonPrefix returns the longest shared leading substring of a and b.
func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// trailingBreak returns the line terminator ending text, or "".
func trailingBreak(text string) string {
	switch {
	case strings.HasSuffix(text, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(text, "\n"):
		return "\n"
	case strings.HasSuffix(text, "\r"):
		return "\r"
	}
	return ""
}
