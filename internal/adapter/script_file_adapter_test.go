package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"k6lint.dev/pkg/k6lint/internal/jsast"
	m "k6lint.dev/pkg/k6lint/internal/model"
)

func findKind(tree *jsast.Tree, kind jsast.Kind) []jsast.NodeID {
	var found []jsast.NodeID

	jsast.Inspect(tree, tree.Root(), func(id jsast.NodeID) bool {
		if tree.Kind(id) == kind {
			found = append(found, id)
		}

		return true
	})

	return found
}

func TestTreeSitterScriptAdapter_Parse(t *testing.T) {
	src := []byte(`import http from 'k6/http';
// fetch the home page
export default function () {
  http.get('https://test.k6.io');
}
`)

	a := NewTreeSitterScriptAdapter()

	tree, err := a.Parse(context.Background(), "script.js", m.LanguageJavaScript, src)
	require.NoError(t, err)

	root := tree.Root()
	require.Equal(t, jsast.KindProgram, tree.Kind(root))
	require.Len(t, tree.Children(root), 2, "comments are dropped")

	exports := findKind(tree, jsast.KindExportStatement)
	require.Len(t, exports, 1)
	assert.True(t, tree.HasToken(exports[0], "default"))

	calls := findKind(tree, jsast.KindCallExpression)
	require.Len(t, calls, 1)
	assert.Equal(t, jsast.Position{Line: 4, Column: 3}, tree.Pos(calls[0]))

	path, ok := tree.MemberPath(tree.Callee(calls[0]))
	require.True(t, ok)
	assert.Equal(t, "http.get", path)

	url, ok := tree.StringValue(tree.Argument(calls[0], 0))
	require.True(t, ok)
	assert.Equal(t, "https://test.k6.io", url)

	fn := tree.Field(exports[0], "value")
	if fn == jsast.NoNode {
		fn = tree.Field(exports[0], "declaration")
	}

	assert.True(t, tree.Kind(fn).IsFunction())
}

func TestTreeSitterScriptAdapter_Operators(t *testing.T) {
	src := []byte("const a = 2 ** 8;\nlet b = 1;\nb **= 2;\n")

	tree, err := NewTreeSitterScriptAdapter().Parse(context.Background(), "math.js", m.LanguageJavaScript, src)
	require.NoError(t, err)

	binaries := findKind(tree, jsast.KindBinaryExpression)
	require.Len(t, binaries, 1)
	assert.Equal(t, "**", tree.Node(binaries[0]).Operator)

	augmented := findKind(tree, jsast.KindAugmentedAssignmentExpression)
	require.Len(t, augmented, 1)
	assert.Equal(t, "**=", tree.Node(augmented[0]).Operator)
}

func TestTreeSitterScriptAdapter_TypeScript(t *testing.T) {
	src := []byte(`import http from 'k6/http';
export const options = { vus: 1 } as const;
export default function (): void {
  const res: unknown = http.get('https://test.k6.io');
}
`)

	tree, err := NewTreeSitterScriptAdapter().Parse(context.Background(), "script.ts", m.LanguageTypeScript, src)
	require.NoError(t, err)

	assert.Len(t, findKind(tree, jsast.KindCallExpression), 1)
	assert.Len(t, findKind(tree, jsast.KindTypeAssertion), 1)
}

func TestTreeSitterScriptAdapter_ParseFailure(t *testing.T) {
	a := NewTreeSitterScriptAdapter()

	tests := []struct {
		name string
		lang m.Language
		src  []byte
	}{
		{"syntax error", m.LanguageJavaScript, []byte("export default function ( {\n")},
		{"invalid utf8", m.LanguageJavaScript, []byte{0xff, 0xfe, 0xfd}},
		{"unknown language", m.Language("coffee"), []byte("x = 1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Parse(context.Background(), "broken.js", tt.lang, tt.src)
			require.ErrorIs(t, err, ErrParseFailure)
		})
	}
}

func TestTreeSitterScriptAdapter_MaxSize(t *testing.T) {
	a := NewTreeSitterScriptAdapter(WithMaxScriptSize(4))

	_, err := a.Parse(context.Background(), "big.js", m.LanguageJavaScript, []byte("let x = 1;"))
	require.ErrorIs(t, err, ErrParseFailure)
	require.ErrorIs(t, err, ErrScriptTooLarge)
}

func TestTreeSitterScriptAdapter_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTreeSitterScriptAdapter().Parse(ctx, "x.js", m.LanguageJavaScript, []byte("let x = 1;"))
	require.ErrorIs(t, err, context.Canceled)
}
