// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lp2c

package lp2c

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Extract resolves sel and hands each selected payload to sink, one entry at a time
// in selection order. Only one payload is held in memory at once.
//
// Missing names and unreadable or unwritable entries do not stop the run: they are
// recorded in the result and joined into the returned error, so errors.Is with
// ErrEntryNotFound or ErrShortRead tells partial failure apart. When sel names exactly
// one entry, that entry's error is returned as is. Decode-level problems (nil reader,
// closed reader, nil sink, invalid selection) and context cancellation abort the run.
func (r *Reader) Extract(ctx context.Context, sel Selection, sink Sink, opts ExtractOptions) (ExtractResult, error) {
	var res ExtractResult
	if err := r.checkReadable(); err != nil {
		return res, err
	}

	if sink == nil {
		return res, ErrNilSink
	}

	opts.applyDefaults()

	plan, err := r.resolve(sel)
	if err != nil {
		return res, err
	}

	res.Missing = plan.missing
	for _, name := range plan.missing {
		opts.Logger.Warn("entry not found", slog.String("name", name))
	}

	res.Extracted = make([]EntryInfo, 0, len(plan.entries))
	for _, entry := range plan.entries {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("extract canceled: %w", err)
		}

		written, err := r.extractOne(entry, sink)
		if err != nil {
			res.Failed = append(res.Failed, asEntryError(entry.Path, err))
			opts.Logger.Error("extract entry failed",
				slog.String("path", entry.Path),
				slog.Any("error", err))
			continue
		}

		res.Extracted = append(res.Extracted, entry)
		res.Bytes += written
		opts.Logger.Info("extracted",
			slog.String("path", entry.Path),
			slog.Uint64("size", uint64(entry.Size)))

		if opts.OnEntryDone != nil {
			opts.OnEntryDone(entry, written)
		}
	}

	return res, res.Err()
}

// ExtractAll extracts every entry in decode order to sink.
func (r *Reader) ExtractAll(ctx context.Context, sink Sink, opts ExtractOptions) (ExtractResult, error) {
	return r.Extract(ctx, SelectAll(), sink, opts)
}

// ExtractToDir extracts selected entries to files under dstDir.
func (r *Reader) ExtractToDir(
	ctx context.Context,
	dstDir string,
	sel Selection,
	sinkOpts DirSinkOptions,
	opts ExtractOptions,
) (ExtractResult, error) {
	if err := r.checkReadable(); err != nil {
		return ExtractResult{}, err
	}

	sink, err := NewDirSink(dstDir, sinkOpts)
	if err != nil {
		return ExtractResult{}, err
	}

	return r.Extract(ctx, sel, sink, opts)
}

// extractOne reads one payload and passes it to sink.
func (r *Reader) extractOne(entry EntryInfo, sink Sink) (int64, error) {
	data, err := r.ReadEntry(entry)
	if err != nil {
		return 0, err
	}

	if err := sink.WriteEntry(entry, data); err != nil {
		return 0, err
	}

	return int64(len(data)), nil
}

// asEntryError wraps err in *EntryError unless it already is one for the same path.
func asEntryError(path string, err error) *EntryError {
	var ee *EntryError
	if errors.As(err, &ee) && ee.Path == path {
		return ee
	}

	return &EntryError{Path: path, Err: err}
}
