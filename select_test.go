// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lp2c

package lp2c

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/pathrules"
)

func TestSelect_All(t *testing.T) {
	t.Parallel()

	r, _ := openSound(t)

	entries, err := r.Select(SelectAll())
	require.NoError(t, err)
	assert.Equal(t, soundPaths, entryPaths(entries))

	entries, err = r.Select(Selection{})
	require.NoError(t, err)
	assert.Equal(t, soundPaths, entryPaths(entries))
}

func TestSelect_Glob(t *testing.T) {
	t.Parallel()

	r, _ := openSound(t)

	testCases := []struct {
		name    string
		pattern string
		want    []string
	}{
		{name: "star crosses separators", pattern: "Sound/*.ogg", want: []string{
			"Sound/music/intro.ogg", "Sound/music/loops/l1.ogg", "Sound/voice/intro.ogg",
		}},
		{name: "leading star", pattern: "*intro*", want: []string{"Sound/music/intro.ogg", "Sound/voice/intro.ogg"}},
		{name: "question mark", pattern: "Sound/?.txt", want: []string{"Sound/a.txt"}},
		{name: "class", pattern: "Sound/[ab].*", want: []string{"Sound/a.txt", "Sound/b.wav"}},
		{name: "negated class", pattern: "Sound/[!a].*", want: []string{"Sound/b.wav"}},
		{name: "exact", pattern: "Sound/voice/hello.wav", want: []string{"Sound/voice/hello.wav"}},
		{name: "no match", pattern: "*.mp3", want: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			sel := SelectGlob(tc.pattern)
			sel.GlobCase = GlobCaseSensitive

			entries, err := r.Select(sel)
			require.NoError(t, err)
			if tc.want == nil {
				assert.Empty(t, entries)
				return
			}
			assert.Equal(t, tc.want, entryPaths(entries))
		})
	}
}

func TestSelect_GlobCase(t *testing.T) {
	t.Parallel()

	r, _ := openSound(t)

	sel := SelectGlob("SOUND/*.WAV")
	sel.GlobCase = GlobCaseSensitive
	entries, err := r.Select(sel)
	require.NoError(t, err)
	assert.Empty(t, entries)

	sel.GlobCase = GlobCaseInsensitive
	entries, err = r.Select(sel)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sound/b.wav", "Sound/voice/hello.wav"}, entryPaths(entries))
}

func TestSelect_InvalidGlob(t *testing.T) {
	t.Parallel()

	r, _ := openSound(t)

	_, err := r.Select(SelectGlob(""))
	require.ErrorIs(t, err, ErrInvalidPattern)

	_, err = r.Select(SelectGlob("Sound/[!a\u0100-\U0010ffff]"))
	require.ErrorIs(t, err, ErrInvalidPattern)

	entries, err := r.Select(SelectGlob("Sound/[a"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSelect_GlobLiteralSyntax(t *testing.T) {
	t.Parallel()

	data := buildArchive(t, fixtureDir{files: []fixtureFile{
		{name: "a{1}.txt", data: []byte("1")},
		{name: "b[.txt", data: []byte("2")},
		{name: `c\d.txt`, data: []byte("3")},
		{name: "d,e.txt", data: []byte("4")},
		{name: "[x].txt", data: []byte("5")},
	}})
	r, err := NewReaderFromReaderAtWithOptions(bytes.NewReader(data), int64(len(data)), ReaderOptions{RootName: "R"})
	require.NoError(t, err)

	testCases := []struct {
		name    string
		pattern string
		want    []string
	}{
		{name: "braces", pattern: "R/a{1}.txt", want: []string{"R/a{1}.txt"}},
		{name: "unclosed bracket", pattern: "R/b[.txt", want: []string{"R/b[.txt"}},
		{name: "backslash", pattern: `R/c\d.txt`, want: []string{`R/c\d.txt`}},
		{name: "comma", pattern: "R/d,e.txt", want: []string{"R/d,e.txt"}},
		{name: "class holding bracket", pattern: "R/[[]x].txt", want: []string{"R/[x].txt"}},
		{name: "mixed class", pattern: "R/[a-c_]{1}.txt", want: []string{"R/a{1}.txt"}},
		{name: "negated mixed class", pattern: "R/[!ab-c]*", want: []string{"R/d,e.txt", "R/[x].txt"}},
		{name: "wide negated range", pattern: "R/[!\u0100-\U0010ffff]{1}.txt", want: []string{"R/a{1}.txt"}},
		{name: "star before brace", pattern: "*{*", want: []string{"R/a{1}.txt"}},
		{name: "reversed range", pattern: "R/[b-a]*", want: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			sel := SelectGlob(tc.pattern)
			sel.GlobCase = GlobCaseSensitive

			entries, err := r.Select(sel)
			require.NoError(t, err)
			if tc.want == nil {
				assert.Empty(t, entries)
				return
			}
			assert.Equal(t, tc.want, entryPaths(entries))
		})
	}
}

func TestSelect_Names(t *testing.T) {
	t.Parallel()

	r, _ := openSound(t)

	entries, err := r.Select(SelectNames("Sound/voice/intro.ogg", "Sound/a.txt"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sound/voice/intro.ogg", "Sound/a.txt"}, entryPaths(entries))

	entries, err = r.Select(SelectNames("Sound/a.txt", "Sound/nope.txt", "Sound/b.wav"))
	require.ErrorIs(t, err, ErrEntryNotFound)
	assert.Contains(t, err.Error(), "Sound/nope.txt")
	assert.Equal(t, []string{"Sound/a.txt", "Sound/b.wav"}, entryPaths(entries))

	_, err = r.Select(SelectNames())
	require.ErrorIs(t, err, ErrInvalidSelection)
}

func TestSelect_Rules(t *testing.T) {
	t.Parallel()

	r, _ := openSound(t)

	entries, err := r.Select(SelectRules([]pathrules.Rule{
		{Action: pathrules.ActionInclude, Pattern: "*.ogg"},
		{Action: pathrules.ActionExclude, Pattern: "voice/"},
	}, pathrules.MatcherOptions{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sound/music/intro.ogg", "Sound/music/loops/l1.ogg"}, entryPaths(entries))

	_, err = r.Select(SelectRules(nil, pathrules.MatcherOptions{}))
	require.ErrorIs(t, err, ErrInvalidRules)
}

func TestSelect_UnknownMode(t *testing.T) {
	t.Parallel()

	r, _ := openSound(t)

	_, err := r.Select(Selection{Mode: "regex"})
	require.ErrorIs(t, err, ErrInvalidSelection)
}
