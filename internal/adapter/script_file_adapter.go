package adapter

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"k6lint.dev/pkg/k6lint/internal/jsast"
	m "k6lint.dev/pkg/k6lint/internal/model"
)

// DefaultMaxScriptSize bounds the size of a single script that will be parsed.
const DefaultMaxScriptSize = 10 * 1024 * 1024

// Parse errors.
var (
	ErrParseFailure       = errors.New("parse failure")
	ErrUnsupportedScript  = errors.New("unsupported script language")
	ErrScriptTooLarge     = errors.New("script too large")
	ErrInvalidScriptBytes = errors.New("script is not valid UTF-8")
)

// ScriptFileAdapter turns script source into the arena tree the analyzer
// consumes. Every failure to produce a complete tree wraps ErrParseFailure.
type ScriptFileAdapter interface {
	Parse(ctx context.Context, path m.Path, lang m.Language, src []byte) (*jsast.Tree, error)
}

// ScriptParserOption configures a TreeSitterScriptAdapter.
type ScriptParserOption func(*TreeSitterScriptAdapter)

// WithMaxScriptSize overrides DefaultMaxScriptSize.
func WithMaxScriptSize(size int) ScriptParserOption {
	return func(a *TreeSitterScriptAdapter) {
		a.maxSize = size
	}
}

// TreeSitterScriptAdapter parses JavaScript and TypeScript with tree-sitter.
// It is safe for concurrent use: every Parse call owns its own parser.
type TreeSitterScriptAdapter struct {
	maxSize int
}

// NewTreeSitterScriptAdapter constructs a TreeSitterScriptAdapter.
func NewTreeSitterScriptAdapter(opts ...ScriptParserOption) *TreeSitterScriptAdapter {
	a := &TreeSitterScriptAdapter{maxSize: DefaultMaxScriptSize}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

func grammarFor(lang m.Language) (*sitter.Language, error) {
	switch lang {
	case m.LanguageJavaScript:
		return javascript.GetLanguage(), nil
	case m.LanguageTypeScript:
		return typescript.GetLanguage(), nil
	case m.LanguageTSX:
		return tsx.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScript, lang)
	}
}

// Parse builds the arena tree for src. A tree containing syntax errors is
// rejected as a whole.
func (a *TreeSitterScriptAdapter) Parse(ctx context.Context, path m.Path, lang m.Language, src []byte) (*jsast.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(src) > a.maxSize {
		return nil, fmt.Errorf("%w: %w (%d bytes)", ErrParseFailure, ErrScriptTooLarge, len(src))
	}

	if !utf8.Valid(src) {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, ErrInvalidScriptBytes)
	}

	grammar, err := grammarFor(lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: tree-sitter: %w", ErrParseFailure, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		pos := firstErrorPosition(root)
		return nil, fmt.Errorf("%w: syntax error at %s", ErrParseFailure, pos)
	}

	return convert(string(path), src, root)
}

func toPosition(p sitter.Point) jsast.Position {
	return jsast.Position{Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

func firstErrorPosition(n *sitter.Node) jsast.Position {
	if n.IsError() || n.IsMissing() {
		return toPosition(n.StartPoint())
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child != nil && child.HasError() {
			return firstErrorPosition(child)
		}
	}

	return toPosition(n.StartPoint())
}

type pending struct {
	node   *sitter.Node
	parent jsast.NodeID
	field  string
}

// convert copies the concrete tree into the arena. Comments are dropped;
// anonymous children are kept as tokens on their parent.
func convert(path string, src []byte, root *sitter.Node) (*jsast.Tree, error) {
	b := jsast.NewBuilder(path, src)
	stack := []pending{{node: root, parent: jsast.NoNode}}

	// Depth-first with an explicit stack keeps children in source order.
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := item.node
		id, err := b.Add(item.parent, item.field, jsast.Node{
			Kind:      jsast.KindOf(n.Type()),
			Type:      n.Type(),
			Start:     toPosition(n.StartPoint()),
			End:       toPosition(n.EndPoint()),
			StartByte: n.StartByte(),
			EndByte:   n.EndByte(),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
		}

		count := int(n.ChildCount())
		named := make([]pending, 0, count)

		for i := 0; i < count; i++ {
			child := n.Child(i)
			if child == nil {
				continue
			}

			if !child.IsNamed() {
				b.AddToken(id, n.FieldNameForChild(i), child.Type())
				continue
			}

			if child.Type() == "comment" {
				continue
			}

			named = append(named, pending{node: child, parent: id, field: n.FieldNameForChild(i)})
		}

		for i := len(named) - 1; i >= 0; i-- {
			stack = append(stack, named[i])
		}
	}

	return b.Build(), nil
}
