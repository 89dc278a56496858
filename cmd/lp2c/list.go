// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lp2c

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/woozymasta/lp2c"
)

// runList prints the selection, one entry per line, in selection order.
func runList(r *lp2c.Reader, sel lp2c.Selection, cfg config, stdout, stderr io.Writer) int {
	entries, selErr := r.Select(sel)
	if selErr != nil && !errors.Is(selErr, lp2c.ErrEntryNotFound) {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", selErr)
		return exitUsage
	}

	w := bufio.NewWriter(stdout)
	code := exitOK
	for _, entry := range entries {
		if err := writeListLine(w, r, entry, cfg); err != nil {
			_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
			code = exitPartial
		}
	}

	if err := w.Flush(); err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	if selErr != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", selErr)
		code = exitPartial
	}

	return code
}

// writeListLine renders one entry: offset, size, human size, optional fields, path.
func writeListLine(w io.Writer, r *lp2c.Reader, entry lp2c.EntryInfo, cfg config) error {
	if _, err := fmt.Fprintf(w, "%10d  %10d  %9s  ", entry.Offset, entry.Size, humanize.IBytes(uint64(entry.Size))); err != nil {
		return err
	}

	if cfg.long {
		if _, err := fmt.Fprintf(w, "%2d %10d %10d %10d  ",
			entry.ZeroFlag, entry.ReservedA, entry.ReservedB, entry.ReservedC); err != nil {
			return err
		}
	}

	if cfg.digest {
		d, err := r.EntryDigest(entry)
		if err != nil {
			_, _ = fmt.Fprintf(w, "%-71s  %s\n", "-", entry.Path)
			return err
		}

		if _, err := fmt.Fprintf(w, "%-71s  ", d); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%s\n", entry.Path)
	return err
}
