package parser

import (
	"sort"
	"strings"
)

// FeatureRegistry holds the enabled/disabled state of every Java++ grammar
// extension. Names are organised as a dotted namespace (e.g. "statements.print")
// so that a namespace prefix ("literals.*") or the bare wildcard ("*") can
// flip every name it covers in one call.
//
// The recognised set is fixed; Set on an unrecognised name returns an error
// rather than silently doing nothing, matching the parser's general policy
// of surfacing unknown directives as syntax errors at the call site.
type FeatureRegistry struct {
	states map[string]bool
}

// featureNames is the full recognised set, alongside its default state.
// Only trailing_other_comma defaults off, mirroring the reference parser's
// own constructor (every other flag defaults on).
var featureDefaults = map[string]bool{
	"statements.print":                true,
	"expressions.class_creator":       true,
	"literals.collections":            true,
	"literals.optional":               true,
	"trailing_commas.argument":        true,
	"trailing_commas.other":           false,
	"syntax.argument_annotations":     true,
	"syntax.multiple_import_sections": true,
	"syntax.default_arguments":        true,
	"syntax.default_modifiers":        true,
	"syntax.empty_class_body":         true,
	"expressions.vardecl":             true,
	"expressions.elvisoperator":       true,
	"expressions.equalityoperator":    true,
	"auto_imports.types":              true,
	"auto_imports.statics":            true,
}

// NewFeatureRegistry returns a registry with every recognised feature set to
// its default state.
func NewFeatureRegistry() *FeatureRegistry {
	r := &FeatureRegistry{states: make(map[string]bool, len(featureDefaults))}
	for name, enabled := range featureDefaults {
		r.states[name] = enabled
	}
	return r
}

// Enabled reports whether the named feature is on. Consulting an unrecognised
// name is a programming error in the grammar itself (every decision point
// names a real feature), so it simply reports false rather than panicking.
func (r *FeatureRegistry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.states[name]
}

// Set enables or disables one feature name, a "namespace.*" wildcard covering
// every recognised name under that namespace, or the bare "*" wildcard
// covering every recognised name. It returns false if name is neither a
// recognised feature nor a wildcard over a recognised namespace.
func (r *FeatureRegistry) Set(name string, enabled bool) bool {
	if name == "*" {
		for k := range r.states {
			r.states[k] = enabled
		}
		return true
	}

	if strings.HasSuffix(name, ".*") {
		prefix := strings.TrimSuffix(name, "*")
		matched := false
		for k := range r.states {
			if strings.HasPrefix(k, prefix) {
				r.states[k] = enabled
				matched = true
			}
		}
		return matched
	}

	if _, ok := r.states[name]; !ok {
		return false
	}
	r.states[name] = enabled
	return true
}

// FeatureNames returns every recognised feature name, sorted.
func FeatureNames() []string {
	names := make([]string, 0, len(featureDefaults))
	for name := range featureDefaults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
