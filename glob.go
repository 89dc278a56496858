// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lp2c

package lp2c

import (
	"fmt"
	"strings"
)

// maxGlobClassRunes limits how many runes a mixed bracket class may expand to.
const maxGlobClassRunes = 1024

// globLiteralSpecials are runes gobwas treats as syntax outside bracket classes.
const globLiteralSpecials = `*?\[]{},`

// runeRange is one inclusive item of a bracket class; single runes have lo == hi.
type runeRange struct {
	lo rune
	hi rune
}

// fnmatchToGlob rewrites a shell pattern with fnmatch semantics into gobwas syntax.
// Only "*", "?" and closed bracket classes ("[...]", "[!...]") are special;
// every other rune, including an unclosed "[", matches itself.
// The flag is false when a class can match no rune at all.
func fnmatchToGlob(pattern string) (string, bool, error) {
	src := []rune(pattern)

	var b strings.Builder
	b.Grow(len(pattern) + 8)
	matchable := true

	for i := 0; i < len(src); i++ {
		switch c := src[i]; c {
		case '*', '?':
			b.WriteRune(c)
		case '[':
			end := classEnd(src, i)
			if end < 0 {
				writeGlobLiteral(&b, c)
				continue
			}

			ok, err := writeGlobClass(&b, src[i+1:end])
			if err != nil {
				return "", false, err
			}

			matchable = matchable && ok
			i = end
		default:
			writeGlobLiteral(&b, c)
		}
	}

	return b.String(), matchable, nil
}

// classEnd returns the index of "]" closing the class opened at src[open], or -1.
// A "]" right after "[" or "[!" belongs to the class.
func classEnd(src []rune, open int) int {
	j := open + 1
	if j < len(src) && src[j] == '!' {
		j++
	}
	if j < len(src) && src[j] == ']' {
		j++
	}

	for ; j < len(src); j++ {
		if src[j] == ']' {
			return j
		}
	}

	return -1
}

// writeGlobLiteral writes one rune that must match itself.
func writeGlobLiteral(b *strings.Builder, c rune) {
	if strings.ContainsRune(globLiteralSpecials, c) {
		b.WriteByte('\\')
	}

	b.WriteRune(c)
}

// writeGlobClass writes one bracket class body and reports whether it can match anything.
func writeGlobClass(b *strings.Builder, body []rune) (bool, error) {
	negate := len(body) > 0 && body[0] == '!'
	if negate {
		body = body[1:]
	}

	ranges := parseClassRanges(body)
	if len(ranges) == 0 {
		if negate {
			b.WriteByte('?')
			return true, nil
		}

		return false, nil
	}

	// gobwas reads "!" right after "[" as negation, so a positive range cannot start with it.
	if len(ranges) == 1 && ranges[0].lo < ranges[0].hi && (negate || ranges[0].lo != '!') {
		b.WriteByte('[')
		if negate {
			b.WriteByte('!')
		}
		b.WriteRune(ranges[0].lo)
		b.WriteByte('-')
		b.WriteRune(ranges[0].hi)
		b.WriteByte(']')
		return true, nil
	}

	if chars, ok := expandClassRanges(ranges, maxGlobClassRunes); ok {
		writeGlobCharList(b, chars, negate)
		return true, nil
	}

	if negate {
		return false, fmt.Errorf("%w: negated class %q is too wide", ErrInvalidPattern, "[!"+string(body)+"]")
	}

	writeGlobAlternation(b, ranges)
	return true, nil
}

// parseClassRanges splits a class body into runes and "a-z" ranges.
// A "-" first or last is literal; reversed ranges are empty and dropped.
func parseClassRanges(body []rune) []runeRange {
	ranges := make([]runeRange, 0, len(body))
	for i := 0; i < len(body); {
		if i+2 < len(body) && body[i+1] == '-' {
			if body[i] <= body[i+2] {
				ranges = append(ranges, runeRange{lo: body[i], hi: body[i+2]})
			}
			i += 3
			continue
		}

		ranges = append(ranges, runeRange{lo: body[i], hi: body[i]})
		i++
	}

	return ranges
}

// expandClassRanges lists every rune of ranges once, in order, up to limit runes.
func expandClassRanges(ranges []runeRange, limit int) ([]rune, bool) {
	seen := make(map[rune]struct{})
	out := make([]rune, 0, len(ranges))
	for _, r := range ranges {
		if int(r.hi-r.lo)+1 > limit-len(out) {
			return nil, false
		}

		for c := r.lo; c <= r.hi; c++ {
			if _, ok := seen[c]; ok {
				continue
			}

			seen[c] = struct{}{}
			out = append(out, c)
		}
	}

	return out, true
}

// writeGlobCharList writes "[...]" or "[!...]" over explicit runes.
// A "-" goes first so gobwas never reads the list as a range.
func writeGlobCharList(b *strings.Builder, chars []rune, negate bool) {
	b.WriteByte('[')
	if negate {
		b.WriteByte('!')
	}

	for _, c := range chars {
		if c == '-' {
			b.WriteByte('-')
			break
		}
	}

	for _, c := range chars {
		switch c {
		case '-':
			continue
		case '\\', ']', '!':
			b.WriteByte('\\')
		}

		b.WriteRune(c)
	}

	b.WriteByte(']')
}

// writeGlobAlternation writes a wide positive class as "{a,[b-z],...}".
func writeGlobAlternation(b *strings.Builder, ranges []runeRange) {
	b.WriteByte('{')
	for i, r := range ranges {
		if i > 0 {
			b.WriteByte(',')
		}

		lo := r.lo
		if lo == '!' && r.hi > lo {
			b.WriteString(`\!,`)
			lo++
		}

		if lo == r.hi {
			writeGlobLiteral(b, lo)
			continue
		}

		b.WriteByte('[')
		b.WriteRune(lo)
		b.WriteByte('-')
		b.WriteRune(r.hi)
		b.WriteByte(']')
	}
	b.WriteByte('}')
}
