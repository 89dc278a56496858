// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lp2c

package lp2c

import (
	"path"
	"path/filepath"
	"strings"
)

// RootName derives the synthetic top path segment from an archive file path:
// base name with extension stripped ("data/Sound.vfs" -> "Sound").
func RootName(archivePath string) string {
	base := filepath.Base(archivePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return defaultRootName
	}

	return base
}

// NormalizePath converts a logical path to normalized slash-separated form.
// It trims spaces, accepts both "/" and "\", removes leading "./" and "/", and cleans "." segments.
func NormalizePath(raw string) string {
	raw = normalizePathForMatching(raw)
	raw = strings.TrimPrefix(raw, "/")
	raw = path.Clean("/" + raw)
	raw = strings.TrimPrefix(raw, "/")
	if raw == "." {
		return ""
	}

	return strings.TrimSuffix(raw, "/")
}

// normalizePathForMatching normalizes user/input paths for matcher use.
func normalizePathForMatching(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, `\`, `/`)
	p = strings.TrimPrefix(p, "./")
	return p
}

// joinSegments appends one name to a logical parent path.
// Names are taken verbatim, so a name holding separators or dot segments stays as is.
func joinSegments(parent, name string) string {
	if parent == "" {
		return name
	}

	return parent + pathSeparator + name
}

// joinRawSegments is joinSegments over raw name bytes; the result never aliases its inputs.
func joinRawSegments(parent, name []byte) []byte {
	if len(parent) == 0 {
		return append([]byte(nil), name...)
	}

	out := make([]byte, 0, len(parent)+len(pathSeparator)+len(name))
	out = append(out, parent...)
	out = append(out, pathSeparator...)
	return append(out, name...)
}
