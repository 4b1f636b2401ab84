// Package extract locates the structural elements of a load-test script:
// the exported options, the functions each iteration runs, the lifecycle
// hooks and the init region that runs once per process.
package extract

import (
	"errors"

	"k6lint.dev/pkg/k6lint/internal/jsast"
	m "k6lint.dev/pkg/k6lint/internal/model"
)

// ErrNotFound is returned by extraction APIs whose caller needs a construct
// the script does not have.
var ErrNotFound = errors.New("structural element not found")

// FileIndex is the read-only per-file view every detector works from. It is
// built once, before any detector runs, and discarded with the file.
type FileIndex struct {
	Tree      *jsast.Tree
	Settings  m.RuleSettings
	Aliases   Aliases
	Config    ConfigEntity
	HasConfig bool
	// Options is nil when the file exports no options object literal.
	Options    *Options
	InitRegion []jsast.NodeID
	Functions  *FunctionIndex
	// Default is nil when the file has no default-exported function.
	Default   *FunctionRecord
	Targets   []FunctionRecord
	Lifecycle Lifecycle
}

// BuildIndex runs every extraction over t.
func BuildIndex(t *jsast.Tree, settings m.RuleSettings) *FileIndex {
	ix := &FileIndex{
		Tree:       t,
		Settings:   settings,
		Aliases:    ScanImports(t, settings),
		InitRegion: ExtractInitRegion(t),
		Functions:  IndexFunctions(t),
		Lifecycle:  ExtractLifecycleFunctions(t),
	}

	ix.Config, ix.HasConfig = LocateConfig(t)
	if ix.HasConfig {
		if opts, err := optionsFromEntity(t, ix.Config); err == nil {
			ix.Options = opts
		}
	}

	if def, ok := findDefaultFunction(t, ix.Functions); ok {
		ix.Default = &def
	}

	ix.Targets = ResolveTargetFunctions(ix.Options, ix.Functions, ix.Default)

	return ix
}

// ExtractInitRegion returns the top-level statements that run once per
// process: everything except imports and exports. Exported variable
// declarations contribute their declaration, since their initializers run
// in the init region too.
func ExtractInitRegion(t *jsast.Tree) []jsast.NodeID {
	var region []jsast.NodeID

	for _, stmt := range t.Children(t.Root()) {
		switch t.Kind(stmt) {
		case jsast.KindImportStatement:
		case jsast.KindExportStatement:
			decl := t.Field(stmt, "declaration")
			switch t.Kind(decl) {
			case jsast.KindLexicalDeclaration, jsast.KindVariableDeclaration:
				region = append(region, decl)
			default:
			}
		default:
			region = append(region, stmt)
		}
	}

	return region
}
