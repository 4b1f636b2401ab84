package jsast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildCall builds the tree for: http.get('x\n');
func buildCall(t *testing.T) (*Tree, map[string]NodeID) {
	t.Helper()

	src := []byte(`http.get('x\n');`)
	b := NewBuilder("test.js", src)
	ids := map[string]NodeID{}

	add := func(name string, parent NodeID, field string, kind Kind, start, end uint32) {
		id, err := b.Add(parent, field, Node{
			Kind:      kind,
			Type:      kind.String(),
			Start:     Position{Line: 1, Column: int(start) + 1},
			StartByte: start,
			EndByte:   end,
		})
		require.NoError(t, err)

		ids[name] = id
	}

	add("program", NoNode, "", KindProgram, 0, 16)
	add("stmt", ids["program"], "", KindExpressionStatement, 0, 16)
	add("call", ids["stmt"], "", KindCallExpression, 0, 15)
	add("member", ids["call"], "function", KindMemberExpression, 0, 8)
	add("object", ids["member"], "object", KindIdentifier, 0, 4)
	add("property", ids["member"], "property", KindPropertyIdentifier, 5, 8)
	add("args", ids["call"], "arguments", KindArguments, 8, 15)
	add("string", ids["args"], "", KindString, 9, 14)

	return b.Build(), ids
}

func TestTree_Navigation(t *testing.T) {
	tree, ids := buildCall(t)

	assert.Equal(t, ids["program"], tree.Root())
	assert.Equal(t, 8, tree.Len())
	assert.Equal(t, ids["call"], tree.Parent(ids["member"]))
	assert.Equal(t, NoNode, tree.Parent(tree.Root()))
	assert.Equal(t, ids["member"], tree.Field(ids["call"], "function"))
	assert.Equal(t, NoNode, tree.Field(ids["call"], "constructor"))
	assert.Equal(t, "property", tree.FieldOf(ids["property"]))
	assert.Equal(t, ids["member"], tree.Callee(ids["call"]))
	assert.Equal(t, []NodeID{ids["string"]}, tree.Arguments(ids["call"]))
	assert.Equal(t, NoNode, tree.Argument(ids["call"], 1))
	assert.True(t, tree.Is(ids["call"], KindCallExpression))
	assert.False(t, tree.Is(NoNode, KindCallExpression))
}

func TestTree_Text(t *testing.T) {
	tree, ids := buildCall(t)

	assert.Equal(t, "http.get", tree.Text(ids["member"]))

	path, ok := tree.MemberPath(ids["member"])
	require.True(t, ok)
	assert.Equal(t, "http.get", path)

	object, property, ok := tree.MemberParts(ids["member"])
	require.True(t, ok)
	assert.Equal(t, "http", object)
	assert.Equal(t, "get", property)

	value, ok := tree.StringValue(ids["string"])
	require.True(t, ok)
	assert.Equal(t, "x\n", value)

	_, ok = tree.StringValue(ids["member"])
	assert.False(t, ok)
}

func TestTree_Ancestors(t *testing.T) {
	tree, ids := buildCall(t)

	var kinds []Kind

	tree.Ancestors(ids["object"], func(id NodeID) bool {
		kinds = append(kinds, tree.Kind(id))
		return tree.Kind(id) != KindExpressionStatement
	})

	assert.Equal(t, []Kind{KindMemberExpression, KindCallExpression, KindExpressionStatement}, kinds)
}

type recorder struct {
	events []string
	skip   Kind
}

func (r *recorder) Enter(t *Tree, id NodeID) bool {
	r.events = append(r.events, "+"+t.Kind(id).String())
	return t.Kind(id) != r.skip
}

func (r *recorder) Exit(t *Tree, id NodeID) {
	r.events = append(r.events, "-"+t.Kind(id).String())
}

func TestWalk_EnterExitOrder(t *testing.T) {
	tree, ids := buildCall(t)

	r := &recorder{skip: KindMemberExpression}
	Walk(tree, ids["call"], r)

	assert.Equal(t, []string{
		"+call_expression",
		"+member_expression",
		"-member_expression",
		"+arguments",
		"+string",
		"-string",
		"-arguments",
		"-call_expression",
	}, r.events)
}

func TestInspect_PreOrder(t *testing.T) {
	tree, _ := buildCall(t)

	var seen []Kind

	Inspect(tree, tree.Root(), func(id NodeID) bool {
		seen = append(seen, tree.Kind(id))
		return true
	})

	require.Len(t, seen, tree.Len())
	assert.Equal(t, KindProgram, seen[0])
	assert.Equal(t, KindString, seen[len(seen)-1])
}

func TestBuilder_UnknownParent(t *testing.T) {
	b := NewBuilder("x.js", nil)

	_, err := b.Add(3, "", Node{Kind: KindProgram})
	require.ErrorIs(t, err, ErrUnknownNode)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		grammar string
		want    Kind
	}{
		{"call_expression", KindCallExpression},
		{"function", KindFunctionExpression},
		{"function_expression", KindFunctionExpression},
		{"generator_function_declaration", KindFunctionDeclaration},
		{"as_expression", KindTypeAssertion},
		{"jsx_element", KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.grammar, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.grammar))
		})
	}

	assert.True(t, KindArrowFunction.IsFunction())
	assert.True(t, KindDoStatement.IsLoop())
	assert.False(t, KindIfStatement.IsLoop())
	assert.Equal(t, "unknown", Kind(250).String())
}

func TestUnescape(t *testing.T) {
	assert.Equal(t, "plain", unescape("plain"))
	assert.Equal(t, `a'b"c\`, unescape(`a\'b\"c\\`))
	assert.Equal(t, "tab\there", unescape(`tab\there`))
}
