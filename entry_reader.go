// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lp2c

package lp2c

import (
	"errors"
	"fmt"
	"io"
)

// checkReadable returns an error when payload reads are not possible.
func (r *Reader) checkReadable() error {
	if r == nil || r.ra == nil {
		return ErrNilReader
	}

	if r.isClosed() {
		return ErrClosed
	}

	return nil
}

// checkEntryBounds verifies that entry payload lies inside the archive.
func (r *Reader) checkEntryBounds(info *EntryInfo) error {
	if info.End() > r.size {
		return &EntryError{
			Path: info.Path,
			Err: fmt.Errorf("%w: range [%d, %d) exceeds archive size %d",
				ErrShortRead, info.Offset, info.End(), r.size),
		}
	}

	return nil
}

// Find returns the first entry, in decode order, whose logical path equals name.
func (r *Reader) Find(name string) (EntryInfo, bool) {
	if r == nil {
		return EntryInfo{}, false
	}

	for i := range r.entries {
		if r.entries[i].Path == name {
			return r.entries[i], true
		}
	}

	return EntryInfo{}, false
}

// OpenEntry returns a bounded stream over entry payload.
// The range is checked against archive size before any byte is read.
func (r *Reader) OpenEntry(info EntryInfo) (*io.SectionReader, error) {
	if err := r.checkReadable(); err != nil {
		return nil, err
	}

	if err := r.checkEntryBounds(&info); err != nil {
		return nil, err
	}

	return io.NewSectionReader(r.ra, int64(info.Offset), int64(info.Size)), nil
}

// ReadEntry reads the full payload of entry: exactly Size bytes at Offset.
// A range past end of archive, or a source returning fewer bytes, fails with ErrShortRead.
func (r *Reader) ReadEntry(info EntryInfo) ([]byte, error) {
	if err := r.checkReadable(); err != nil {
		return nil, err
	}

	if err := r.checkEntryBounds(&info); err != nil {
		return nil, err
	}

	data := make([]byte, info.Size)
	n, err := r.ra.ReadAt(data, int64(info.Offset))
	if n == len(data) {
		return data, nil
	}

	if err == nil || errors.Is(err, io.EOF) {
		return nil, &EntryError{
			Path: info.Path,
			Err:  fmt.Errorf("%w: got %d of %d bytes at offset %d", ErrShortRead, n, info.Size, info.Offset),
		}
	}

	return nil, &EntryError{Path: info.Path, Err: fmt.Errorf("read payload: %w", err)}
}

// ReadEntryByName reads the payload of the first entry whose logical path equals name.
func (r *Reader) ReadEntryByName(name string) ([]byte, error) {
	info, ok := r.Find(name)
	if !ok {
		return nil, &EntryError{Path: name, Err: ErrEntryNotFound}
	}

	return r.ReadEntry(info)
}
