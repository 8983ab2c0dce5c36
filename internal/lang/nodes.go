package lang

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// nodeSplitter implements Splitter for brace-delimited languages (Go,
// TypeScript, Rust). Indentation carries no meaning, so Dedent is the
// identity and grouping follows the start rows of the parse root's
// top-level children.
type nodeSplitter struct {
	grammar *tree_sitter.Language
}

func (n *nodeSplitter) Dedent(text string) string {
	return text
}

// Join splits text at the start row of each top-level syntax node. Lines
// before the first node (comments, blanks) stay with the first group, and
// trailing unparsed input stays with the last.
func (n *nodeSplitter) Join(text string) []Group {
	lines := SplitLines(text)
	if len(lines) == 0 {
		return []Group{{Text: "", Lines: 0}}
	}

	tree := parse(n.grammar, []byte(text))
	if tree == nil {
		return []Group{{Text: strings.Join(lines, "\n"), Lines: len(lines)}}
	}
	defer tree.Close()

	root := tree.RootNode()
	starts := []int{0}
	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		if child == nil {
			continue
		}
		row := int(child.StartPosition().Row)
		if row > starts[len(starts)-1] && row < len(lines) {
			starts = append(starts, row)
		}
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
	return groups
}

// Complete reports whether text parses without error or missing nodes.
func (n *nodeSplitter) Complete(text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}
	tree := parse(n.grammar, []byte(text))
	if tree == nil {
		return false
	}
	defer tree.Close()
	return !tree.RootNode().HasError()
}
