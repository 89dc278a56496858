// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lp2c

package lp2c

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gobwas/glob"
	"github.com/woozymasta/pathrules"
)

// SelectMode is the kind of entry selection.
type SelectMode string

// Selection modes. Exactly one applies per Selection.
const (
	// SelectModeAll selects every entry in decode order.
	SelectModeAll SelectMode = "all"
	// SelectModeNames selects the first entry with exactly matching path for each requested name.
	SelectModeNames SelectMode = "names"
	// SelectModeGlob selects every entry whose path matches one shell-style pattern.
	SelectModeGlob SelectMode = "glob"
	// SelectModeRules selects entries included by ordered gitignore-style rules.
	SelectModeRules SelectMode = "rules"
)

// GlobCase controls case sensitivity of glob matching.
type GlobCase string

// Glob case policies.
const (
	// GlobCaseHost follows the host path convention: insensitive on Windows, sensitive elsewhere.
	GlobCaseHost GlobCase = ""
	// GlobCaseSensitive always compares case.
	GlobCaseSensitive GlobCase = "sensitive"
	// GlobCaseInsensitive always folds case.
	GlobCaseInsensitive GlobCase = "insensitive"
)

// Selection describes which entries to list or extract.
type Selection struct {
	// Mode is the selection kind; empty means SelectModeAll.
	Mode SelectMode `json:"mode,omitempty" yaml:"mode,omitempty"`
	// Names are exact logical paths for SelectModeNames.
	Names []string `json:"names,omitempty" yaml:"names,omitempty"`
	// Pattern is the glob for SelectModeGlob. "*" also matches "/".
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	// GlobCase controls case folding for SelectModeGlob.
	GlobCase GlobCase `json:"glob_case,omitempty" yaml:"glob_case,omitempty"`
	// Rules are ordered include/exclude rules for SelectModeRules.
	Rules []pathrules.Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
	// RulesOptions control rule matching; zero value means case-sensitive with default exclude.
	RulesOptions pathrules.MatcherOptions `json:"rules_options,omitzero" yaml:"rules_options,omitzero"`
}

// SelectAll returns a selection of every entry.
func SelectAll() Selection {
	return Selection{Mode: SelectModeAll}
}

// SelectNames returns a selection of exact logical paths.
func SelectNames(names ...string) Selection {
	return Selection{Mode: SelectModeNames, Names: names}
}

// SelectGlob returns a selection of entries matching pattern.
func SelectGlob(pattern string) Selection {
	return Selection{Mode: SelectModeGlob, Pattern: pattern}
}

// SelectRules returns a selection of entries included by rules.
func SelectRules(rules []pathrules.Rule, opts pathrules.MatcherOptions) Selection {
	return Selection{Mode: SelectModeRules, Rules: rules, RulesOptions: opts}
}

// selectionPlan is a resolved selection.
type selectionPlan struct {
	// entries are selected entries in output order.
	entries []EntryInfo
	// missing are requested names without a match.
	missing []string
}

// Select resolves selection against decoded entries without reading payload.
// Unknown names do not stop resolution: found entries are returned together with
// an error joining one ErrEntryNotFound per missing name.
func (r *Reader) Select(sel Selection) ([]EntryInfo, error) {
	if r == nil {
		return nil, ErrNilReader
	}

	plan, err := r.resolve(sel)
	if err != nil {
		return nil, err
	}

	res := ExtractResult{Missing: plan.missing}
	return plan.entries, res.Err()
}

// resolve turns a selection into an ordered entry list.
func (r *Reader) resolve(sel Selection) (selectionPlan, error) {
	switch sel.Mode {
	case "", SelectModeAll:
		return selectionPlan{entries: r.Entries()}, nil
	case SelectModeNames:
		return r.resolveNames(sel.Names)
	case SelectModeGlob:
		entries, err := r.resolveGlob(sel.Pattern, sel.GlobCase)
		return selectionPlan{entries: entries}, err
	case SelectModeRules:
		entries, err := r.resolveRules(sel.Rules, sel.RulesOptions)
		return selectionPlan{entries: entries}, err
	default:
		return selectionPlan{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidSelection, sel.Mode)
	}
}

// resolveNames keeps request order; each name takes its first match in decode order.
func (r *Reader) resolveNames(names []string) (selectionPlan, error) {
	if len(names) == 0 {
		return selectionPlan{}, fmt.Errorf("%w: no names given", ErrInvalidSelection)
	}

	plan := selectionPlan{entries: make([]EntryInfo, 0, len(names))}
	for _, name := range names {
		entry, ok := r.Find(name)
		if !ok {
			plan.missing = append(plan.missing, name)
			continue
		}

		plan.entries = append(plan.entries, entry)
	}

	return plan, nil
}

// resolveGlob returns all entries whose path matches pattern, in decode order.
func (r *Reader) resolveGlob(pattern string, caseMode GlobCase) ([]EntryInfo, error) {
	matcher, err := compileGlob(pattern, caseMode)
	if err != nil {
		return nil, err
	}

	var out []EntryInfo
	for _, entry := range r.entries {
		if matcher.match(entry.Path) {
			out = append(out, entry)
		}
	}

	return out, nil
}

// resolveRules returns all entries included by rules, in decode order.
func (r *Reader) resolveRules(rules []pathrules.Rule, opts pathrules.MatcherOptions) ([]EntryInfo, error) {
	matcher, err := newRuleMatcher(rules, opts)
	if err != nil {
		return nil, err
	}

	var out []EntryInfo
	for _, entry := range r.entries {
		if matcher.Match(entry.Path) {
			out = append(out, entry)
		}
	}

	return out, nil
}

// globMatcher is a compiled glob with its case policy.
// A nil g matches nothing.
type globMatcher struct {
	g    glob.Glob
	fold bool
}

// compileGlob compiles a shell-style pattern with fnmatch semantics and without
// path separators, so "*" and "?" also match "/".
func compileGlob(pattern string, caseMode GlobCase) (*globMatcher, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}

	fold := foldGlobCase(caseMode)
	if fold {
		pattern = strings.ToLower(pattern)
	}

	translated, matchable, err := fnmatchToGlob(pattern)
	if err != nil {
		return nil, err
	}

	if !matchable {
		return &globMatcher{fold: fold}, nil
	}

	g, err := glob.Compile(translated)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, pattern, err)
	}

	return &globMatcher{g: g, fold: fold}, nil
}

// match reports whether logical path matches.
func (m *globMatcher) match(p string) bool {
	if m.g == nil {
		return false
	}

	if m.fold {
		p = strings.ToLower(p)
	}

	return m.g.Match(p)
}

// foldGlobCase resolves case policy for the current host.
func foldGlobCase(caseMode GlobCase) bool {
	switch caseMode {
	case GlobCaseSensitive:
		return false
	case GlobCaseInsensitive:
		return true
	default:
		return runtime.GOOS == "windows"
	}
}

// ruleMatcher holds compiled include/exclude rules.
type ruleMatcher struct {
	matcher *pathrules.Matcher
}

// newRuleMatcher compiles selection path rules.
func newRuleMatcher(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*ruleMatcher, error) {
	rules = normalizeRules(rules)
	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: no rules given", ErrInvalidRules)
	}

	if opts.DefaultAction == pathrules.ActionUnknown {
		opts.DefaultAction = pathrules.ActionExclude
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidRules, err)
	}

	return &ruleMatcher{matcher: matcher}, nil
}

// normalizeRules normalizes rule patterns and drops empty patterns.
func normalizeRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := normalizePathForMatching(rule.Pattern)
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// Match reports whether path is included by the rules.
func (m *ruleMatcher) Match(p string) bool {
	if m == nil || m.matcher == nil {
		return false
	}

	candidate := NormalizePath(p)
	if candidate == "" {
		return false
	}

	return m.matcher.Included(candidate, false)
}
