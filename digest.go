// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lp2c

package lp2c

import (
	_ "crypto/sha256" // registers digest.Canonical
	"fmt"

	"github.com/opencontainers/go-digest"
)

// EntryDigest computes a content digest of entry payload by streaming it once.
// Useful to spot duplicate payloads stored under different names.
func (r *Reader) EntryDigest(info EntryInfo) (digest.Digest, error) {
	sr, err := r.OpenEntry(info)
	if err != nil {
		return "", err
	}

	d, err := digest.Canonical.FromReader(sr)
	if err != nil {
		return "", &EntryError{Path: info.Path, Err: fmt.Errorf("digest payload: %w", err)}
	}

	return d, nil
}
