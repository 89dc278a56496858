// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lp2c

package lp2c

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// NameEncoding selects how raw entry name bytes are turned into text.
// Names stay opaque bytes during decode (EntryInfo.RawPath); the encoding only
// applies to EntryInfo.Path used for display, exact-name lookup and matching.
type NameEncoding string

// Supported name encodings.
const (
	// NameEncodingRaw keeps name bytes verbatim in a Go string.
	NameEncodingRaw NameEncoding = "raw"
	// NameEncodingUTF8 treats names as UTF-8 and replaces invalid sequences with U+FFFD.
	NameEncodingUTF8 NameEncoding = "utf-8"
	// NameEncodingWindows1252 is the Western single-byte codepage used by known archives.
	NameEncodingWindows1252 NameEncoding = "windows-1252"
	// NameEncodingWindows1251 is the Cyrillic single-byte codepage.
	NameEncodingWindows1251 NameEncoding = "windows-1251"
	// NameEncodingISO88591 is Latin-1.
	NameEncodingISO88591 NameEncoding = "iso-8859-1"
	// NameEncodingCP437 is the original IBM PC codepage.
	NameEncodingCP437 NameEncoding = "cp437"
)

// DefaultNameEncoding is applied when ReaderOptions.NameEncoding is empty.
const DefaultNameEncoding = NameEncodingWindows1252

// nameCharmaps maps single-byte encodings to their charmap tables.
var nameCharmaps = map[NameEncoding]*charmap.Charmap{
	NameEncodingWindows1252: charmap.Windows1252,
	NameEncodingWindows1251: charmap.Windows1251,
	NameEncodingISO88591:    charmap.ISO8859_1,
	NameEncodingCP437:       charmap.CodePage437,
}

// ParseNameEncoding resolves a user supplied encoding label.
func ParseNameEncoding(label string) (NameEncoding, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	switch label {
	case "":
		return DefaultNameEncoding, nil
	case "raw", "bytes":
		return NameEncodingRaw, nil
	case "utf-8", "utf8":
		return NameEncodingUTF8, nil
	case "windows-1252", "cp1252", "1252":
		return NameEncodingWindows1252, nil
	case "windows-1251", "cp1251", "1251":
		return NameEncodingWindows1251, nil
	case "iso-8859-1", "latin1", "latin-1":
		return NameEncodingISO88591, nil
	case "cp437", "ibm437", "437":
		return NameEncodingCP437, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
	}
}

// nameDecoder converts raw name bytes to text for one encoding.
type nameDecoder struct {
	dec  *encoding.Decoder
	kind NameEncoding
}

// newNameDecoder returns a decoder for the given encoding.
func newNameDecoder(kind NameEncoding) (*nameDecoder, error) {
	switch kind {
	case NameEncodingRaw, NameEncodingUTF8:
		return &nameDecoder{kind: kind}, nil
	}

	cm, ok := nameCharmaps[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, kind)
	}

	return &nameDecoder{kind: kind, dec: cm.NewDecoder()}, nil
}

// decode converts raw name bytes to text.
func (d *nameDecoder) decode(raw []byte) string {
	switch {
	case d.kind == NameEncodingRaw:
		return string(raw)
	case d.kind == NameEncodingUTF8:
		if utf8.Valid(raw) {
			return string(raw)
		}

		return strings.ToValidUTF8(string(raw), "\uFFFD")
	}

	// Single-byte charmaps map every byte; keep the fallback for symmetry with utf-8.
	out, err := d.dec.Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), "\uFFFD")
	}

	return string(out)
}
