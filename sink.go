// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lp2c

package lp2c

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Sink receives extracted payloads. The engine decides which bytes, the sink decides where they go.
type Sink interface {
	// WriteEntry stores one entry payload. data is only valid during the call.
	WriteEntry(entry EntryInfo, data []byte) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(entry EntryInfo, data []byte) error

// WriteEntry calls f.
func (f SinkFunc) WriteEntry(entry EntryInfo, data []byte) error {
	return f(entry, data)
}

// WriterSink concatenates all payloads into one stream, e.g. stdout.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink returns a sink writing every payload to w in extraction order.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// WriteEntry appends data to the stream.
func (s *WriterSink) WriteEntry(_ EntryInfo, data []byte) error {
	if s == nil || s.w == nil {
		return ErrNilSink
	}

	n, err := s.w.Write(data)
	if err != nil {
		return err
	}

	if n != len(data) {
		return io.ErrShortWrite
	}

	return nil
}

// DirSinkOptions configures DirSink.
type DirSinkOptions struct {
	// FileMode controls output file creation policy. Default is ExtractFileModeAuto.
	FileMode ExtractFileMode `json:"file_mode,omitempty" yaml:"file_mode,omitempty"`
	// RawNames disables path sanitization. Traversal and absolute paths are still rejected.
	RawNames bool `json:"raw_names,omitempty" yaml:"raw_names,omitempty"`
}

// DirSink writes each payload to its own file under a root directory,
// at the entry logical path. Parent directories are created on demand.
type DirSink struct {
	used       map[string]struct{}
	nextSuffix map[string]int
	dirs       map[string]struct{}
	root       string
	opts       DirSinkOptions
}

// NewDirSink creates root (if missing) and returns a sink writing under it.
func NewDirSink(root string, opts DirSinkOptions) (*DirSink, error) {
	if opts.FileMode == "" {
		opts.FileMode = ExtractFileModeAuto
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve output dir: %w", err)
	}

	if err := os.MkdirAll(rootAbs, 0o750); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	return &DirSink{
		used:       make(map[string]struct{}),
		nextSuffix: make(map[string]int),
		dirs:       make(map[string]struct{}),
		root:       rootAbs,
		opts:       opts,
	}, nil
}

// Root returns the absolute output root.
func (s *DirSink) Root() string {
	return s.root
}

// WriteEntry writes data to the entry output file.
// A failed write removes the partial file.
func (s *DirSink) WriteEntry(entry EntryInfo, data []byte) error {
	if s == nil {
		return ErrNilSink
	}

	outPath, err := s.outputPath(entry)
	if err != nil {
		return err
	}

	if err := s.ensureDir(filepath.Dir(outPath)); err != nil {
		return err
	}

	file, err := openExtractFile(outPath, s.opts.FileMode)
	if err != nil {
		return fmt.Errorf("open %s: %w", outPath, err)
	}

	n, writeErr := file.Write(data)
	if writeErr == nil && n != len(data) {
		writeErr = io.ErrShortWrite
	}

	closeErr := file.Close()
	if writeErr != nil {
		_ = os.Remove(outPath)
		return fmt.Errorf("write %s: %w", outPath, writeErr)
	}

	if closeErr != nil {
		return fmt.Errorf("close %s: %w", outPath, closeErr)
	}

	return nil
}

// outputPath resolves the absolute output file path for entry.
func (s *DirSink) outputPath(entry EntryInfo) (string, error) {
	var (
		rel string
		err error
	)
	if s.opts.RawNames {
		rel, err = normalizeExtractEntryPath(entry.Path)
	} else {
		rel, err = sanitizeEntryPath(entry.Path, s.used, s.nextSuffix)
	}
	if err != nil {
		return "", fmt.Errorf("output path for %q: %w", entry.Path, err)
	}

	outPath := filepath.Join(s.root, filepath.FromSlash(rel))
	within, err := filepath.Rel(s.root, outPath)
	if err != nil || within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrExtractPathOutsideRoot, entry.Path)
	}

	return outPath, nil
}

// ensureDir creates dir once per sink.
func (s *DirSink) ensureDir(dir string) error {
	if _, ok := s.dirs[dir]; ok {
		return nil
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}

	s.dirs[dir] = struct{}{}
	return nil
}

// openExtractFile opens output path according to selected extract file mode.
func openExtractFile(path string, mode ExtractFileMode) (*os.File, error) {
	switch mode {
	case ExtractFileModeAuto:
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			return file, nil
		}

		if !os.IsExist(err) {
			return nil, err
		}

		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	case ExtractFileModeTruncate:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	case ExtractFileModeCreateOnly:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	default:
		return nil, fmt.Errorf("unknown extract file mode %q", mode)
	}
}

// ParseExtractFileMode resolves a user supplied file mode label.
func ParseExtractFileMode(label string) (ExtractFileMode, error) {
	switch mode := ExtractFileMode(strings.ToLower(strings.TrimSpace(label))); mode {
	case "":
		return ExtractFileModeAuto, nil
	case ExtractFileModeAuto, ExtractFileModeTruncate, ExtractFileModeCreateOnly:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown extract file mode %q", label)
	}
}

// normalizeExtractEntryPath normalizes entry path and rejects absolute/traversal inputs.
func normalizeExtractEntryPath(entryPath string) (string, error) {
	raw := strings.TrimSpace(entryPath)
	if raw == "" {
		return "", ErrInvalidExtractPath
	}
	if strings.ContainsRune(raw, 0) {
		return "", ErrInvalidExtractPath
	}
	if strings.HasPrefix(raw, `/`) || strings.HasPrefix(raw, `\`) {
		return "", ErrInvalidExtractPath
	}

	raw = strings.ReplaceAll(raw, `\`, `/`)
	if hasWindowsAbsDrivePrefix(raw) {
		return "", ErrInvalidExtractPath
	}

	parts := strings.Split(raw, `/`)
	cleanParts := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", ErrInvalidExtractPath
		default:
			cleanParts = append(cleanParts, part)
		}
	}
	if len(cleanParts) == 0 {
		return "", ErrInvalidExtractPath
	}

	return strings.Join(cleanParts, `/`), nil
}

// hasWindowsAbsDrivePrefix reports whether path starts with drive-root prefix like C:/.
func hasWindowsAbsDrivePrefix(path string) bool {
	if len(path) < 3 {
		return false
	}

	return isASCIIAlpha(path[0]) && path[1] == ':' && path[2] == '/'
}

// isASCIIAlpha reports whether byte is ASCII latin letter.
func isASCIIAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
