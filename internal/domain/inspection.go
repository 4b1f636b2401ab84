package domain

import (
	"maps"
	"slices"
	"strings"

	"k6lint.dev/pkg/k6lint/internal/domain/extract"
	"k6lint.dev/pkg/k6lint/internal/jsast"
	m "k6lint.dev/pkg/k6lint/internal/model"
)

// Inspection is the structural view of one script as the detectors see it.
type Inspection struct {
	Path       string                   `yaml:"path"`
	Options    *OptionsInspection       `yaml:"options"`
	Default    *extract.FunctionRecord  `yaml:"default"`
	Targets    []extract.FunctionRecord `yaml:"targets"`
	Lifecycle  extract.Lifecycle        `yaml:"lifecycle"`
	Functions  []string                 `yaml:"functions"`
	Imports    ImportsInspection        `yaml:"imports"`
	InitRegion []InitStatement          `yaml:"initRegion"`
}

// OptionsInspection describes the located options entity.
type OptionsInspection struct {
	Strategy   extract.Strategy    `yaml:"strategy"`
	Position   jsast.Position      `yaml:"position"`
	Object     bool                `yaml:"object"`
	Scenarios  []extract.Scenario  `yaml:"scenarios,omitempty"`
	Thresholds []extract.Threshold `yaml:"thresholds,omitempty"`
}

// ImportsInspection lists the local names calls are classified by.
type ImportsInspection struct {
	Validation []string `yaml:"validation,omitempty"`
	Network    []string `yaml:"network,omitempty"`
	Factories  []string `yaml:"factories,omitempty"`
}

// InitStatement is one top-level statement of the init region.
type InitStatement struct {
	Kind     string         `yaml:"kind"`
	Position jsast.Position `yaml:"position"`
	Text     string         `yaml:"text"`
}

// InspectTree extracts the structure of tree.
func InspectTree(tree *jsast.Tree, settings m.RuleSettings) Inspection {
	ix := extract.BuildIndex(tree, settings)

	in := Inspection{
		Path:       tree.Path,
		Default:    ix.Default,
		Targets:    ix.Targets,
		Lifecycle:  ix.Lifecycle,
		Functions:  ix.Functions.Names(),
		InitRegion: make([]InitStatement, 0, len(ix.InitRegion)),
		Imports: ImportsInspection{
			Validation: slices.Sorted(maps.Keys(ix.Aliases.ValidationFunctions)),
			Factories:  slices.Sorted(maps.Keys(ix.Aliases.SharedDataFactories)),
		},
	}

	network := slices.Collect(maps.Keys(ix.Aliases.NetworkNamespaces))
	for name := range ix.Aliases.NetworkFunctions {
		network = append(network, name)
	}

	slices.Sort(network)
	in.Imports.Network = slices.Compact(network)

	if ix.HasConfig {
		in.Options = &OptionsInspection{
			Strategy: ix.Config.Strategy,
			Position: tree.Pos(ix.Config.Anchor),
			Object:   ix.Config.IsObject(tree),
		}

		if ix.Options != nil {
			in.Options.Scenarios = ix.Options.Scenarios
			in.Options.Thresholds = ix.Options.Thresholds
		}
	}

	for _, stmt := range ix.InitRegion {
		in.InitRegion = append(in.InitRegion, InitStatement{
			Kind:     tree.Node(stmt).Type,
			Position: tree.Pos(stmt),
			Text:     firstLine(tree.Text(stmt)),
		})
	}

	return in
}

func firstLine(s string) string {
	line, _, cut := strings.Cut(s, "\n")
	if cut {
		return strings.TrimSpace(line) + " ..."
	}

	return strings.TrimSpace(line)
}
