// Package jsast holds the arena syntax tree the analyzer works on.
//
// Nodes are addressed by NodeID and owned top-down by the Tree; parent links
// live in a separate index table so that upward walks stay cheap without any
// reference cycles.
package jsast

// Kind is the closed set of node kinds the analyzer distinguishes.
// Grammar node types that have no dedicated kind are mapped to KindOther and
// are still traversed.
type Kind uint8

// Node kinds.
const (
	KindOther Kind = iota
	KindProgram
	KindImportStatement
	KindImportClause
	KindNamespaceImport
	KindNamedImports
	KindImportSpecifier
	KindExportStatement
	KindExportClause
	KindExportSpecifier
	KindFunctionDeclaration
	KindFunctionExpression
	KindArrowFunction
	KindMethodDefinition
	KindClassDeclaration
	KindLexicalDeclaration
	KindVariableDeclaration
	KindVariableDeclarator
	KindExpressionStatement
	KindStatementBlock
	KindReturnStatement
	KindIfStatement
	KindForStatement
	KindForInStatement
	KindWhileStatement
	KindDoStatement
	KindCallExpression
	KindNewExpression
	KindArguments
	KindMemberExpression
	KindSubscriptExpression
	KindAssignmentExpression
	KindAugmentedAssignmentExpression
	KindBinaryExpression
	KindUnaryExpression
	KindAwaitExpression
	KindParenthesizedExpression
	KindTypeAssertion
	KindObject
	KindPair
	KindShorthandProperty
	KindSpreadElement
	KindArray
	KindString
	KindStringFragment
	KindEscapeSequence
	KindTemplateString
	KindTemplateSubstitution
	KindNumber
	KindIdentifier
	KindPropertyIdentifier
	KindThis
	KindImport
	KindTrue
	KindFalse
	KindNull
	KindUndefined
	KindError
)

var kindNames = [...]string{
	KindOther:                         "other",
	KindProgram:                       "program",
	KindImportStatement:               "import_statement",
	KindImportClause:                  "import_clause",
	KindNamespaceImport:               "namespace_import",
	KindNamedImports:                  "named_imports",
	KindImportSpecifier:               "import_specifier",
	KindExportStatement:               "export_statement",
	KindExportClause:                  "export_clause",
	KindExportSpecifier:               "export_specifier",
	KindFunctionDeclaration:           "function_declaration",
	KindFunctionExpression:            "function_expression",
	KindArrowFunction:                 "arrow_function",
	KindMethodDefinition:              "method_definition",
	KindClassDeclaration:              "class_declaration",
	KindLexicalDeclaration:            "lexical_declaration",
	KindVariableDeclaration:           "variable_declaration",
	KindVariableDeclarator:            "variable_declarator",
	KindExpressionStatement:           "expression_statement",
	KindStatementBlock:                "statement_block",
	KindReturnStatement:               "return_statement",
	KindIfStatement:                   "if_statement",
	KindForStatement:                  "for_statement",
	KindForInStatement:                "for_in_statement",
	KindWhileStatement:                "while_statement",
	KindDoStatement:                   "do_statement",
	KindCallExpression:                "call_expression",
	KindNewExpression:                 "new_expression",
	KindArguments:                     "arguments",
	KindMemberExpression:              "member_expression",
	KindSubscriptExpression:           "subscript_expression",
	KindAssignmentExpression:          "assignment_expression",
	KindAugmentedAssignmentExpression: "augmented_assignment_expression",
	KindBinaryExpression:              "binary_expression",
	KindUnaryExpression:               "unary_expression",
	KindAwaitExpression:               "await_expression",
	KindParenthesizedExpression:       "parenthesized_expression",
	KindTypeAssertion:                 "type_assertion",
	KindObject:                        "object",
	KindPair:                          "pair",
	KindShorthandProperty:             "shorthand_property_identifier",
	KindSpreadElement:                 "spread_element",
	KindArray:                         "array",
	KindString:                        "string",
	KindStringFragment:                "string_fragment",
	KindEscapeSequence:                "escape_sequence",
	KindTemplateString:                "template_string",
	KindTemplateSubstitution:          "template_substitution",
	KindNumber:                        "number",
	KindIdentifier:                    "identifier",
	KindPropertyIdentifier:            "property_identifier",
	KindThis:                          "this",
	KindImport:                        "import",
	KindTrue:                          "true",
	KindFalse:                         "false",
	KindNull:                          "null",
	KindUndefined:                     "undefined",
	KindError:                         "ERROR",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "unknown"
}

// grammarKinds maps tree-sitter node types of the JavaScript and TypeScript
// grammars onto kinds. Several grammar types collapse onto one kind when the
// analyzer treats them identically.
var grammarKinds = map[string]Kind{
	"program":                         KindProgram,
	"import_statement":                KindImportStatement,
	"import_clause":                   KindImportClause,
	"namespace_import":                KindNamespaceImport,
	"named_imports":                   KindNamedImports,
	"import_specifier":                KindImportSpecifier,
	"export_statement":                KindExportStatement,
	"export_clause":                   KindExportClause,
	"export_specifier":                KindExportSpecifier,
	"function_declaration":            KindFunctionDeclaration,
	"generator_function_declaration":  KindFunctionDeclaration,
	"function":                        KindFunctionExpression,
	"function_expression":             KindFunctionExpression,
	"generator_function":              KindFunctionExpression,
	"arrow_function":                  KindArrowFunction,
	"method_definition":               KindMethodDefinition,
	"class_declaration":               KindClassDeclaration,
	"lexical_declaration":             KindLexicalDeclaration,
	"variable_declaration":            KindVariableDeclaration,
	"variable_declarator":             KindVariableDeclarator,
	"expression_statement":            KindExpressionStatement,
	"statement_block":                 KindStatementBlock,
	"return_statement":                KindReturnStatement,
	"if_statement":                    KindIfStatement,
	"for_statement":                   KindForStatement,
	"for_in_statement":                KindForInStatement,
	"while_statement":                 KindWhileStatement,
	"do_statement":                    KindDoStatement,
	"call_expression":                 KindCallExpression,
	"new_expression":                  KindNewExpression,
	"arguments":                       KindArguments,
	"member_expression":               KindMemberExpression,
	"subscript_expression":            KindSubscriptExpression,
	"assignment_expression":           KindAssignmentExpression,
	"augmented_assignment_expression": KindAugmentedAssignmentExpression,
	"binary_expression":               KindBinaryExpression,
	"unary_expression":                KindUnaryExpression,
	"await_expression":                KindAwaitExpression,
	"parenthesized_expression":        KindParenthesizedExpression,
	"as_expression":                   KindTypeAssertion,
	"satisfies_expression":            KindTypeAssertion,
	"non_null_expression":             KindTypeAssertion,
	"object":                          KindObject,
	"pair":                            KindPair,
	"shorthand_property_identifier":   KindShorthandProperty,
	"spread_element":                  KindSpreadElement,
	"array":                           KindArray,
	"string":                          KindString,
	"string_fragment":                 KindStringFragment,
	"escape_sequence":                 KindEscapeSequence,
	"template_string":                 KindTemplateString,
	"template_substitution":           KindTemplateSubstitution,
	"number":                          KindNumber,
	"identifier":                      KindIdentifier,
	"property_identifier":             KindPropertyIdentifier,
	"this":                            KindThis,
	"import":                          KindImport,
	"true":                            KindTrue,
	"false":                           KindFalse,
	"null":                            KindNull,
	"undefined":                       KindUndefined,
	"ERROR":                           KindError,
}

// KindOf returns the kind for a grammar node type.
func KindOf(grammarType string) Kind {
	if k, ok := grammarKinds[grammarType]; ok {
		return k
	}

	return KindOther
}

// IsFunction reports whether k introduces a function body.
func (k Kind) IsFunction() bool {
	switch k {
	case KindFunctionDeclaration, KindFunctionExpression, KindArrowFunction, KindMethodDefinition:
		return true
	default:
		return false
	}
}

// IsLoop reports whether k is a repetition construct.
func (k Kind) IsLoop() bool {
	switch k {
	case KindForStatement, KindForInStatement, KindWhileStatement, KindDoStatement:
		return true
	default:
		return false
	}
}

// IsTransparent reports whether k only wraps a single expression without
// changing which value flows through it.
func (k Kind) IsTransparent() bool {
	switch k {
	case KindParenthesizedExpression, KindAwaitExpression, KindTypeAssertion:
		return true
	default:
		return false
	}
}
