// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lp2c

package lp2c

import (
	"errors"
	"fmt"
)

// Sentinel errors for VFS operations. Use errors.Is in callers.
var (
	// ErrInvalidArchive is the parent of all decode (format) errors.
	ErrInvalidArchive = errors.New("invalid VFS archive")
	// ErrBadMagic means the first 4 bytes are not the "LP2C" signature.
	ErrBadMagic = fmt.Errorf("%w: bad magic", ErrInvalidArchive)
	// ErrTruncated means the directory tree ended mid-record or the framing drifted past end of file.
	ErrTruncated = fmt.Errorf("%w: truncated directory tree", ErrInvalidArchive)
	// ErrEntryNotFound means no entry has the requested logical path.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrShortRead means an entry payload range reaches past the end of the archive.
	ErrShortRead = errors.New("short read of entry payload")
	// ErrNilReader means the reader is nil.
	ErrNilReader = errors.New("reader is nil")
	// ErrNilSink means extraction was started without an output sink.
	ErrNilSink = errors.New("sink is nil")
	// ErrClosed means the reader or resource is already closed.
	ErrClosed = errors.New("reader or resource already closed")
	// ErrInvalidPattern means a glob pattern failed to compile.
	ErrInvalidPattern = errors.New("invalid glob pattern")
	// ErrInvalidRules means one or more selection rules are invalid.
	ErrInvalidRules = errors.New("invalid selection rules")
	// ErrInvalidSelection means the selection mode is unknown or incomplete.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrUnknownEncoding means the name encoding is not supported.
	ErrUnknownEncoding = errors.New("unknown name encoding")
	// ErrInvalidExtractPath means archive entry path is invalid for extraction destination.
	ErrInvalidExtractPath = errors.New("invalid extract path")
	// ErrExtractPathOutsideRoot means resolved extraction path escapes destination root.
	ErrExtractPathOutsideRoot = errors.New("extract path escapes destination root")
)

// EntryError reports a failure bound to one entry or requested name.
type EntryError struct {
	// Path is the logical entry path or the requested name.
	Path string
	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *EntryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *EntryError) Unwrap() error {
	return e.Err
}
