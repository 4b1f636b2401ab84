package detectors

import (
	"cmp"
	"slices"
	"strconv"

	"k6lint.dev/pkg/k6lint/internal/domain/extract"
	"k6lint.dev/pkg/k6lint/internal/jsast"
	m "k6lint.dev/pkg/k6lint/internal/model"
)

const (
	globalScope  = "global"
	batchMethod  = "batch"
	tagsProperty = "tags"
	nameTag      = "name"
)

// methods whose URL is the second argument.
var urlSecond = map[string]bool{
	"request":      true,
	"asyncRequest": true,
}

// TagUniqueness reports requests that cannot be told apart in metrics:
// untagged requests sharing a scope (or repeated in a loop) and tags that
// name more than one endpoint.
type TagUniqueness struct{}

// Name implements Detector.
func (TagUniqueness) Name() string { return "tag-uniqueness" }

// Description implements Detector.
func (TagUniqueness) Description() string {
	return "Requests without a unique name tag, and tags shared by distinct endpoints"
}

// Kinds implements Detector.
func (TagUniqueness) Kinds() []m.FindingKind {
	return []m.FindingKind{m.MissingTag, m.DuplicateTag}
}

// callSite is one request: a network call, or one entry of a batch call.
type callSite struct {
	node   jsast.NodeID
	label  string
	tag    string
	tagged bool
	// tagSeq orders sites by when their tag was first seen.
	tagSeq int
	scope  string
	inLoop bool
}

type tagScan struct {
	t       *jsast.Tree
	aliases extract.Aliases
	sites   []*callSite
	byNode  map[jsast.NodeID]*callSite
	// bound maps a variable to the call whose result it last received.
	bound   map[string]jsast.NodeID
	tagSeq  int
	batches map[jsast.NodeID]jsast.NodeID
}

// Detect implements Detector.
func (TagUniqueness) Detect(ix *extract.FileIndex) []m.Finding {
	t := ix.Tree
	s := &tagScan{
		t:       t,
		aliases: ix.Aliases,
		byNode:  make(map[jsast.NodeID]*callSite),
		bound:   make(map[string]jsast.NodeID),
		batches: make(map[jsast.NodeID]jsast.NodeID),
	}

	jsast.Inspect(t, t.Root(), func(id jsast.NodeID) bool {
		if !t.Is(id, jsast.KindCallExpression) {
			return true
		}

		if method, ok := s.aliases.NetworkMethod(t, id); ok {
			s.addNetworkCall(id, method)
			return true
		}

		if s.aliases.IsValidationCall(t, id) {
			s.addValidationCall(id)
		}

		return true
	})

	findings := s.missingTags()

	return append(findings, s.duplicateTags()...)
}

func (s *tagScan) addNetworkCall(call jsast.NodeID, method string) {
	t := s.t
	s.bind(call)

	if method == batchMethod {
		entries := t.Unwrap(t.Argument(call, 0))
		switch t.Kind(entries) {
		case jsast.KindArray, jsast.KindObject:
			s.batches[call] = entries
			for _, el := range t.Children(entries) {
				entry := el
				if t.Is(el, jsast.KindPair) {
					entry = t.PropertyValue(el)
				}

				label, tag, ok := batchEntry(t, t.Unwrap(entry))
				s.addSite(entry, call, label, tag, ok)
			}

			return
		default:
		}
	}

	urlIndex := 0
	if urlSecond[method] {
		urlIndex = 1
	}

	label := s.label(call, urlIndex)
	tag, ok := tagFromArgs(t, t.Arguments(call), urlIndex+1)
	s.addSite(call, call, label, tag, ok)
}

// bind records `const res = http.get(...)` and `res = http.get(...)`.
func (s *tagScan) bind(call jsast.NodeID) {
	t := s.t
	consumer, child := t.Consumer(call)

	switch t.Kind(consumer) {
	case jsast.KindVariableDeclarator:
		name := t.Field(consumer, "name")
		if t.Field(consumer, "value") == child && t.Is(name, jsast.KindIdentifier) {
			s.bound[t.Text(name)] = call
		}
	case jsast.KindAssignmentExpression:
		left := t.Field(consumer, "left")
		if t.Field(consumer, "right") == child && t.Is(left, jsast.KindIdentifier) {
			s.bound[t.Text(left)] = call
		}
	default:
	}
}

func (s *tagScan) label(call jsast.NodeID, urlIndex int) string {
	t := s.t

	url := t.Argument(call, urlIndex)
	if url == jsast.NoNode {
		return t.Text(t.Callee(call))
	}

	if v, ok := t.StringValue(url); ok {
		return v
	}

	return t.Text(url)
}

func (s *tagScan) addSite(node, call jsast.NodeID, label, tag string, tagged bool) {
	if _, seen := s.byNode[node]; seen {
		return
	}

	site := &callSite{
		node:   node,
		label:  label,
		scope:  scopeOf(s.t, call),
		inLoop: inLoop(s.t, call),
	}

	if tagged {
		s.setTag(site, tag)
	}

	s.sites = append(s.sites, site)
	s.byNode[node] = site
}

func (s *tagScan) setTag(site *callSite, tag string) {
	s.tagSeq++
	site.tag = tag
	site.tagged = true
	site.tagSeq = s.tagSeq
}

// addValidationCall resolves the checked response back to its request and
// lends the check's tag to an untagged request.
func (s *tagScan) addValidationCall(call jsast.NodeID) {
	t := s.t

	site := s.resolve(t.Unwrap(t.Argument(call, 0)))
	if site == nil || site.tagged {
		return
	}

	if tag, ok := tagOf(t, t.Unwrap(t.Argument(call, 2))); ok {
		s.setTag(site, tag)
	}
}

func (s *tagScan) resolve(arg jsast.NodeID) *callSite {
	t := s.t

	switch t.Kind(arg) {
	case jsast.KindIdentifier:
		if call, ok := s.bound[t.Text(arg)]; ok {
			return s.byNode[call]
		}
	case jsast.KindSubscriptExpression:
		entries, ok := s.batchOf(t.Unwrap(t.Field(arg, "object")))
		if !ok {
			return nil
		}

		index := t.Unwrap(t.Field(arg, "index"))
		if key, ok := t.StringValue(index); ok {
			return s.byNode[t.Property(entries, key)]
		}

		if t.Is(index, jsast.KindNumber) && t.Is(entries, jsast.KindArray) {
			i, err := strconv.Atoi(t.Text(index))
			if err != nil {
				return nil
			}

			return s.byNode[t.Child(entries, i)]
		}
	case jsast.KindMemberExpression:
		entries, ok := s.batchOf(t.Unwrap(t.Field(arg, "object")))
		if !ok {
			return nil
		}

		if key, ok := t.Name(t.Field(arg, "property")); ok {
			return s.byNode[t.Property(entries, key)]
		}
	default:
	}

	return nil
}

// batchOf returns the entries literal of the batch call bound to id.
func (s *tagScan) batchOf(id jsast.NodeID) (jsast.NodeID, bool) {
	name, ok := s.t.Name(id)
	if !ok {
		return jsast.NoNode, false
	}

	call, ok := s.bound[name]
	if !ok {
		return jsast.NoNode, false
	}

	entries, ok := s.batches[call]

	return entries, ok
}

// missingTags reports untagged sites of every scope with more than one of
// them, and lone untagged sites repeated by a loop.
func (s *tagScan) missingTags() []m.Finding {
	perScope := make(map[string]int)

	for _, site := range s.sites {
		if !site.tagged {
			perScope[site.scope]++
		}
	}

	var findings []m.Finding

	for _, site := range s.sites {
		if site.tagged {
			continue
		}

		if n := perScope[site.scope]; n > 1 || (n == 1 && site.inLoop) {
			findings = append(findings, newFinding(s.t, m.MissingTag, site.node, m.FindingData{Endpoint: site.label}))
		}
	}

	return findings
}

// duplicateTags reports each distinct label of a tag shared by two or more
// labels, once, at the first site carrying that pair.
func (s *tagScan) duplicateTags() []m.Finding {
	tagged := make([]*callSite, 0, len(s.sites))

	for _, site := range s.sites {
		if site.tagged {
			tagged = append(tagged, site)
		}
	}

	// tags are reported in the order they were first seen
	slices.SortStableFunc(tagged, func(a, b *callSite) int {
		return cmp.Compare(a.tagSeq, b.tagSeq)
	})

	var tags []string

	firstSite := make(map[[2]string]*callSite)
	labels := make(map[string][]string)

	for _, site := range tagged {
		key := [2]string{site.tag, site.label}
		if _, seen := firstSite[key]; seen {
			continue
		}

		if _, seen := labels[site.tag]; !seen {
			tags = append(tags, site.tag)
		}

		firstSite[key] = site
		labels[site.tag] = append(labels[site.tag], site.label)
	}

	var findings []m.Finding

	for _, tag := range tags {
		if len(labels[tag]) < 2 {
			continue
		}

		for _, label := range labels[tag] {
			site := firstSite[[2]string{tag, label}]
			findings = append(findings, newFinding(s.t, m.DuplicateTag, site.node, m.FindingData{
				TagName:  tag,
				Endpoint: label,
			}))
		}
	}

	return findings
}

// batchEntry reads the label and tag of one batch entry: an array
// [method, url, body, params], an object {method, url, params} or a bare url.
func batchEntry(t *jsast.Tree, entry jsast.NodeID) (string, string, bool) {
	switch t.Kind(entry) {
	case jsast.KindArray:
		elements := t.Children(entry)
		label := t.Text(entry)

		if len(elements) > 1 {
			label = literalOrText(t, elements[1])
		}

		tag, ok := tagFromArgs(t, elements, 2)

		return label, tag, ok
	case jsast.KindObject:
		label := t.Text(entry)
		if url := t.Property(entry, "url"); url != jsast.NoNode {
			label = literalOrText(t, url)
		}

		tag, ok := tagOf(t, t.Unwrap(t.Property(entry, "params")))

		return label, tag, ok
	default:
		return literalOrText(t, entry), "", false
	}
}

func literalOrText(t *jsast.Tree, id jsast.NodeID) string {
	if v, ok := t.StringValue(id); ok {
		return v
	}

	return t.Text(id)
}

// tagFromArgs returns the tag of the first argument from index from on that
// carries one.
func tagFromArgs(t *jsast.Tree, args []jsast.NodeID, from int) (string, bool) {
	for i := from; i < len(args); i++ {
		if tag, ok := tagOf(t, extract.ResolveValue(t, args[i])); ok {
			return tag, true
		}
	}

	return "", false
}

// tagOf reads params.tags: its name entry when it is a string, otherwise its
// first string-valued entry.
func tagOf(t *jsast.Tree, params jsast.NodeID) (string, bool) {
	tags := extract.ResolveValue(t, t.Property(params, tagsProperty))
	if !t.Is(tags, jsast.KindObject) {
		return "", false
	}

	if name, ok := t.StringValue(t.Property(tags, nameTag)); ok {
		return name, true
	}

	for _, member := range t.Children(tags) {
		if v, ok := t.StringValue(t.PropertyValue(member)); ok {
			return v, true
		}
	}

	return "", false
}

// scopeOf names the scope a request is grouped under: the nearest named
// function, the default export, or the file.
func scopeOf(t *jsast.Tree, id jsast.NodeID) string {
	scope := globalScope

	t.Ancestors(id, func(p jsast.NodeID) bool {
		switch t.Kind(p) {
		case jsast.KindFunctionDeclaration:
			if name := t.Field(p, "name"); name != jsast.NoNode {
				scope = t.Text(name)
				return false
			}
		case jsast.KindFunctionExpression, jsast.KindArrowFunction:
			if name, ok := boundName(t, p); ok {
				scope = name
				return false
			}
		case jsast.KindExportStatement:
			if t.HasToken(p, "default") {
				scope = extract.DefaultFunctionName
				return false
			}
		default:
		}

		return true
	})

	return scope
}

// boundName returns the variable a function expression is assigned to.
func boundName(t *jsast.Tree, fn jsast.NodeID) (string, bool) {
	consumer, _ := t.Consumer(fn)
	if !t.Is(consumer, jsast.KindVariableDeclarator) {
		return "", false
	}

	name := t.Field(consumer, "name")
	if !t.Is(name, jsast.KindIdentifier) {
		return "", false
	}

	return t.Text(name), true
}

func inLoop(t *jsast.Tree, id jsast.NodeID) bool {
	found := false

	t.Ancestors(id, func(p jsast.NodeID) bool {
		found = t.Kind(p).IsLoop()
		return !found
	})

	return found
}
