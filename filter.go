// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lp2c

package lp2c

import "strings"

// applyEntryFilters applies reader option filters in a fixed order.
func applyEntryFilters(entries []EntryInfo, opts ReaderOptions) []EntryInfo {
	entries = filterEntriesByPrefix(entries, opts.EntryPathPrefix)
	entries = filterEntriesBySize(entries, opts.MinEntrySize)
	if opts.FilterASCIIOnly {
		entries = filterEntriesByASCIIOnly(entries)
	}

	return entries
}

// filterEntriesBySize keeps entries with payload of at least minSize bytes.
func filterEntriesBySize(entries []EntryInfo, minSize uint32) []EntryInfo {
	if minSize == 0 {
		return entries
	}

	out := make([]EntryInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.Size < minSize {
			continue
		}

		out = append(out, entry)
	}

	return out
}

// filterEntriesByASCIIOnly keeps entries whose raw path contains only ASCII bytes.
func filterEntriesByASCIIOnly(entries []EntryInfo) []EntryInfo {
	out := make([]EntryInfo, 0, len(entries))
	for _, entry := range entries {
		if !isASCIIOnly(entry.RawPath) {
			continue
		}

		out = append(out, entry)
	}

	return out
}

// isASCIIOnly reports whether b contains only ASCII bytes.
func isASCIIOnly(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}

	return true
}

// filterEntriesByPrefix keeps entries under prefix (or exact match if it points to a file).
func filterEntriesByPrefix(entries []EntryInfo, prefix string) []EntryInfo {
	prefix = NormalizePath(prefix)
	if prefix == "" {
		return entries
	}

	withSlash := prefix + "/"
	out := make([]EntryInfo, 0, len(entries))
	for _, entry := range entries {
		entryPath := NormalizePath(entry.Path)
		if entryPath == prefix || strings.HasPrefix(entryPath, withSlash) {
			out = append(out, entry)
		}
	}

	return out
}

// NonZeroFlagEntries returns entries whose ZeroFlag field is set.
// Known archives always store zero there; anything else is worth a look.
func (r *Reader) NonZeroFlagEntries() []EntryInfo {
	if r == nil {
		return nil
	}

	var out []EntryInfo
	for _, entry := range r.entries {
		if entry.ZeroFlag != 0 {
			out = append(out, entry)
		}
	}

	return out
}

// OutOfBoundsEntries returns entries whose payload range reaches past the end of the archive.
// Their extraction fails with ErrShortRead.
func (r *Reader) OutOfBoundsEntries() []EntryInfo {
	if r == nil {
		return nil
	}

	var out []EntryInfo
	for _, entry := range r.entries {
		if entry.End() > r.size {
			out = append(out, entry)
		}
	}

	return out
}
