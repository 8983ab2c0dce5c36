package lang

import (
	"fmt"
	"strconv"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Language identifies a console language with a bundled tree-sitter grammar.
type Language string

const (
	LangPython     Language = "python"
	LangGo         Language = "go"
	LangTypeScript Language = "typescript"
	LangRust       Language = "rust"
)

// grammars maps each supported language to its tree-sitter grammar.
var grammars = map[Language]*tree_sitter.Language{
	LangPython:     tree_sitter.NewLanguage(tree_sitter_python.Language()),
	LangGo:         tree_sitter.NewLanguage(tree_sitter_go.Language()),
	LangTypeScript: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
	LangRust:       tree_sitter.NewLanguage(tree_sitter_rust.Language()),
}

// SupportedLanguages returns the languages a splitter can be built for.
func SupportedLanguages() []Language {
	langs := make([]Language, 0, len(grammars))
	for l := range grammars {
		langs = append(langs, l)
	}
	return langs
}

// Version is a language version, e.g. Python 3.11.
type Version struct {
	Major int
	Minor int
}

// ParseVersion parses a "major.minor" or "major" version string.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, fmt.Errorf("empty version string")
	}
	parts := strings.SplitN(s, ".", 3)
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	v := Version{Major: major}
	if len(parts) > 1 {
		minor, err := strconv.Atoi(parts[1])
		if err != nil {
			return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
		}
		v.Minor = minor
	}
	return v, nil
}

// AtLeast reports whether v is at least major.minor.
func (v Version) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// VersionResolver yields the language version in effect at the caret.
// The second return value is false when no analysis context is available,
// in which case the caller drops the pending chunk.
type VersionResolver interface {
	Resolve() (Version, bool)
}

// StaticResolver always resolves to a fixed version.
type StaticResolver struct {
	V Version
}

func (r StaticResolver) Resolve() (Version, bool) { return r.V, true }

// ResolverFunc adapts a function to the VersionResolver interface.
type ResolverFunc func() (Version, bool)

func (f ResolverFunc) Resolve() (Version, bool) { return f() }

// Group is one top-level statement group produced by a Splitter's Join pass.
// Text holds the group's physical lines joined with "\n" and carries no
// trailing terminator; Lines is the physical line count.
type Group struct {
	Text  string
	Lines int
}

// Splitter is the language-sensitive line and indentation model. A Splitter
// is stateless and safe for sequential reuse; individual calls create their
// own tree-sitter parser, mirroring the parser-per-call lifecycle used
// elsewhere in the codebase.
type Splitter interface {
	// Dedent re-computes minimal indentation so that isolated statements are
	// flattened to column zero where safe, without changing the number of
	// physical lines in the text.
	Dedent(text string) string

	// Join groups physical lines into the minimal sequence of top-level
	// statement groups. Join is total: any input, however malformed, yields
	// at least one group, with incomplete trailing input forming the final
	// group.
	Join(text string) []Group

	// Complete reports whether text is an independently executable program.
	Complete(text string) bool
}

// NewSplitter builds the Splitter for a language and version. It returns
// false when the combination is unsupported: unknown languages, and Python
// versions before 3 (the bundled grammar targets Python 3).
func NewSplitter(lg Language, v Version) (Splitter, bool) {
	grammar, ok := grammars[lg]
	if !ok {
		return nil, false
	}
	if lg == LangPython {
		if v.Major < 3 {
			return nil, false
		}
		return &pythonSplitter{version: v, grammar: grammar}, true
	}
	return &nodeSplitter{grammar: grammar}, true
}

// parse runs the grammar over source and returns the syntax tree. Callers
// must Close the returned tree. A nil tree means the parse failed outright.
func parse(grammar *tree_sitter.Language, source []byte) *tree_sitter.Tree {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(grammar); err != nil {
		return nil
	}
	return parser.Parse(source, nil)
}
