// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lp2c

package lp2c

import (
	"errors"
	"log/slog"
)

// Internal binary layout and format limits.
const (
	magicSize       = 4  // "LP2C" signature
	headerSize      = 12 // magic + root dir count + root file count
	fileFieldsSize  = 24 // six u32 fields after a file name
	dirFieldsSize   = 8  // two u32 counts after a directory name
	pathSeparator   = "/"
	defaultRootName = "archive"
)

// Magic is the 4-byte signature at the start of every VFS archive.
const Magic = "LP2C"

// MaxArchiveSize is the largest archive addressable by 32-bit offset and size fields (4 GiB).
// Bytes beyond it can never be referenced by an entry.
const MaxArchiveSize = 1 << 32

// EntryInfo describes a single packed file inside a VFS archive.
type EntryInfo struct {
	// Path is the logical path rooted at the archive base name, decoded with the reader name encoding.
	Path string `json:"path" yaml:"path"`
	// RawPath is the same path built from raw name bytes as stored in archive.
	RawPath []byte `json:"-" yaml:"-"`
	// Offset is absolute byte offset of entry payload.
	Offset uint32 `json:"offset" yaml:"offset"`
	// Size is payload size in bytes.
	Size uint32 `json:"size" yaml:"size"`
	// ReservedA is the opaque u32 stored between size and offset.
	ReservedA uint32 `json:"reserved_a,omitempty" yaml:"reserved_a,omitempty"`
	// ZeroFlag is the u32 stored after offset, observed as zero in known archives.
	ZeroFlag uint32 `json:"zero_flag,omitempty" yaml:"zero_flag,omitempty"`
	// ReservedB is the first opaque u32 after ZeroFlag.
	ReservedB uint32 `json:"reserved_b,omitempty" yaml:"reserved_b,omitempty"`
	// ReservedC is the last opaque u32 of the file record.
	ReservedC uint32 `json:"reserved_c,omitempty" yaml:"reserved_c,omitempty"`
}

// End returns the exclusive end offset of entry payload.
func (e *EntryInfo) End() int64 {
	return int64(e.Offset) + int64(e.Size)
}

// ReaderOptions configures archive decoding and the visible entry list.
type ReaderOptions struct {
	// Logger receives decode diagnostics; nil discards them.
	Logger *slog.Logger `json:"-" yaml:"-"`
	// RootName is the synthetic top path segment.
	// Open derives it from the archive file name without extension when empty.
	RootName string `json:"root_name,omitempty" yaml:"root_name,omitempty"`
	// NameEncoding is the codepage of raw name bytes. Default is windows-1252.
	NameEncoding NameEncoding `json:"name_encoding,omitempty" yaml:"name_encoding,omitempty"`
	// EntryPathPrefix keeps only entries under this logical path prefix.
	EntryPathPrefix string `json:"entry_path_prefix,omitempty" yaml:"entry_path_prefix,omitempty"`
	// MinEntrySize drops entries with payload smaller than this size.
	MinEntrySize uint32 `json:"min_entry_size,omitempty" yaml:"min_entry_size,omitempty"`
	// FilterASCIIOnly drops entries with non-ASCII bytes in logical path.
	FilterASCIIOnly bool `json:"filter_ascii_only,omitempty" yaml:"filter_ascii_only,omitempty"`
}

// ExtractOptions configures the extraction engine.
type ExtractOptions struct {
	// Logger receives per-entry progress and failures; nil discards them.
	Logger *slog.Logger `json:"-" yaml:"-"`
	// OnEntryDone is called after one entry is fully handed to the sink.
	OnEntryDone func(entry EntryInfo, written int64) `json:"-" yaml:"-"`
}

// ExtractResult summarizes one extraction run.
type ExtractResult struct {
	// Extracted lists entries written to the sink, in decode order.
	Extracted []EntryInfo `json:"extracted,omitempty" yaml:"extracted,omitempty"`
	// Failed lists entries that could not be read or written.
	Failed []*EntryError `json:"-" yaml:"-"`
	// Missing lists requested names without a matching entry.
	Missing []string `json:"missing,omitempty" yaml:"missing,omitempty"`
	// Bytes is total payload bytes written.
	Bytes int64 `json:"bytes" yaml:"bytes"`
}

// Err joins all per-entry failures; nil when every requested entry was extracted.
func (res *ExtractResult) Err() error {
	if res == nil {
		return nil
	}

	errs := make([]error, 0, len(res.Missing)+len(res.Failed))
	for _, name := range res.Missing {
		errs = append(errs, &EntryError{Path: name, Err: ErrEntryNotFound})
	}
	for _, failed := range res.Failed {
		errs = append(errs, failed)
	}

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}

// ExtractFileMode controls output file open behavior of DirSink.
type ExtractFileMode string

// Output file creation policies for extraction.
const (
	// ExtractFileModeAuto first tries create-only, then falls back to truncate for existing files.
	ExtractFileModeAuto ExtractFileMode = "auto"
	// ExtractFileModeTruncate opens existing files with truncate and creates missing files.
	ExtractFileModeTruncate ExtractFileMode = "truncate"
	// ExtractFileModeCreateOnly creates files only when absent and fails on existing files.
	ExtractFileModeCreateOnly ExtractFileMode = "create_only"
)

// applyDefaults fills zero-valued reader options with defaults.
func (opts *ReaderOptions) applyDefaults() {
	if opts.NameEncoding == "" {
		opts.NameEncoding = DefaultNameEncoding
	}

	if opts.RootName == "" {
		opts.RootName = defaultRootName
	}

	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
}

// applyDefaults fills zero-valued extract options with defaults.
func (opts *ExtractOptions) applyDefaults() {
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
}

// discardLogger returns a logger that drops every record.
func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
