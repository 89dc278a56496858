// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lp2c

package lp2c

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// readerTreeBufferSize is a sequential read buffer for directory tree parsing.
const readerTreeBufferSize = 64 * 1024

var (
	// treeReaderPool reuses buffered readers for sequential tree parsing.
	treeReaderPool = sync.Pool{
		New: func() any {
			return bufio.NewReaderSize(bytes.NewReader(nil), readerTreeBufferSize)
		},
	}
)

// Reader provides read-only access to a decoded VFS archive.
type Reader struct {
	// ra is the underlying random-access reader used for payload reads.
	ra io.ReaderAt
	// file is set when Reader owns an *os.File opened via Open.
	file *os.File
	// logger receives decode and read diagnostics.
	logger *slog.Logger
	// rootName is the synthetic top path segment.
	rootName string
	// entries stores decoded immutable entry metadata in decode order.
	entries []EntryInfo
	// size is total source size in bytes.
	size int64
	// treeEnd is absolute offset just past the directory tree.
	treeEnd int64
	// mu guards closed state and close operation.
	mu sync.Mutex
	// closed reports whether Close was already called.
	closed bool
}

// Open opens a VFS archive by path and decodes its directory tree.
// Entries are rooted under the file name without extension.
func Open(path string) (*Reader, error) {
	return OpenWithOptions(path, ReaderOptions{})
}

// OpenWithOptions opens a VFS archive by path and decodes its directory tree using explicit reader options.
func OpenWithOptions(path string, opts ReaderOptions) (*Reader, error) {
	if opts.RootName == "" {
		opts.RootName = RootName(path)
	}

	f, size, err := openFileWithSize(path)
	if err != nil {
		return nil, err
	}

	r, err := NewReaderFromReaderAtWithOptions(f, size, opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	r.file = f
	return r, nil
}

// NewReaderFromReaderAt decodes a VFS archive from existing ReaderAt and known size.
func NewReaderFromReaderAt(ra io.ReaderAt, size int64) (*Reader, error) {
	return NewReaderFromReaderAtWithOptions(ra, size, ReaderOptions{})
}

// NewReaderFromReaderAtWithOptions decodes a VFS archive from existing ReaderAt and known size using explicit reader options.
func NewReaderFromReaderAtWithOptions(ra io.ReaderAt, size int64, opts ReaderOptions) (*Reader, error) {
	if ra == nil {
		return nil, ErrNilReader
	}

	opts.applyDefaults()

	r := &Reader{
		ra:       ra,
		size:     size,
		rootName: opts.RootName,
		logger:   opts.Logger,
	}
	if err := r.parse(opts); err != nil {
		return nil, err
	}

	return r, nil
}

// Entries returns a copy of decoded entries in decode order.
func (r *Reader) Entries() []EntryInfo {
	if r == nil {
		return nil
	}

	entries := make([]EntryInfo, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// Len returns number of visible entries.
func (r *Reader) Len() int {
	if r == nil {
		return 0
	}

	return len(r.entries)
}

// Size returns total archive size in bytes.
func (r *Reader) Size() int64 {
	if r == nil {
		return 0
	}

	return r.size
}

// RootName returns the synthetic top path segment of all entries.
func (r *Reader) RootName() string {
	if r == nil {
		return ""
	}

	return r.rootName
}

// TreeSize returns the number of bytes occupied by header and directory tree.
func (r *Reader) TreeSize() int64 {
	if r == nil {
		return 0
	}

	return r.treeEnd
}

// Close closes the underlying file if reader owns one.
func (r *Reader) Close() error {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	r.closed = true
	if r.file != nil {
		return r.file.Close()
	}

	return nil
}

// isClosed reports whether Close was called.
func (r *Reader) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.closed
}

// parse validates the header, decodes the tree and applies entry filters.
func (r *Reader) parse(opts ReaderOptions) error {
	names, err := newNameDecoder(opts.NameEncoding)
	if err != nil {
		return err
	}

	rootDirs, rootFiles, err := parseHeader(r.ra, r.size)
	if err != nil {
		return err
	}

	if r.size > MaxArchiveSize {
		r.logger.Warn("archive exceeds 4 GiB, bytes past the limit are unreachable",
			slog.Int64("size", r.size))
	}

	br := acquireTreeReader(io.NewSectionReader(r.ra, headerSize, max(r.size-headerSize, 0)))
	defer releaseTreeReader(br)

	td := &treeDecoder{
		br:      br,
		off:     headerSize,
		names:   names,
		logger:  r.logger,
		entries: make([]EntryInfo, 0, estimateEntryCapacity(r.size)),
	}
	if err := td.decode([]byte(r.rootName), r.rootName, rootDirs, rootFiles); err != nil {
		return err
	}

	r.treeEnd = td.off
	r.entries = applyEntryFilters(td.entries, opts)
	r.logger.Debug("decoded archive",
		slog.String("root", r.rootName),
		slog.Int("entries", len(td.entries)),
		slog.Int("visible", len(r.entries)),
		slog.Int64("tree_end", td.off))

	return nil
}

// acquireTreeReader takes a pooled buffered reader positioned over src.
func acquireTreeReader(src io.Reader) *bufio.Reader {
	br := treeReaderPool.Get().(*bufio.Reader) //nolint:forcetypeassert // pool contains only *bufio.Reader
	br.Reset(src)
	return br
}

// releaseTreeReader detaches br from its source and returns it to the pool,
// so pooled readers never keep an archive reachable.
func releaseTreeReader(br *bufio.Reader) {
	br.Reset(nil)
	treeReaderPool.Put(br)
}

// parseHeader validates magic and returns root directory and file counts.
func parseHeader(ra io.ReaderAt, size int64) (uint32, uint32, error) {
	var header [headerSize]byte

	n, err := ra.ReadAt(header[:], 0)
	if n < magicSize || !bytes.Equal(header[:magicSize], []byte(Magic)) {
		if n < magicSize && err != nil && !errors.Is(err, io.EOF) {
			return 0, 0, fmt.Errorf("read header: %w", err)
		}

		return 0, 0, fmt.Errorf("%w: got %q, want %q", ErrBadMagic, header[:min(n, magicSize)], Magic)
	}

	if n < headerSize || size < headerSize {
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, 0, fmt.Errorf("read header: %w", err)
		}

		return 0, 0, fmt.Errorf("%w: short header (%d bytes)", ErrTruncated, n)
	}

	rootDirs := binary.LittleEndian.Uint32(header[4:8])
	rootFiles := binary.LittleEndian.Uint32(header[8:12])
	return rootDirs, rootFiles, nil
}

// dirFrame is one pending directory level of the tree worklist.
type dirFrame struct {
	// rawPath is the level path built from raw name bytes.
	rawPath []byte
	// path is the level path built from decoded names.
	path string
	// dirsLeft is number of child directory records not yet consumed.
	dirsLeft uint32
}

// treeDecoder walks the directory tree with an explicit stack.
type treeDecoder struct {
	br      *bufio.Reader
	names   *nameDecoder
	logger  *slog.Logger
	entries []EntryInfo
	stack   []dirFrame
	nameBuf [255]byte
	off     int64
}

// decode consumes the tree depth-first, files before subdirectories at every level.
func (td *treeDecoder) decode(rootRaw []byte, root string, dirCount, fileCount uint32) error {
	if err := td.readFiles(rootRaw, root, fileCount); err != nil {
		return err
	}

	td.stack = append(td.stack[:0], dirFrame{rawPath: rootRaw, path: root, dirsLeft: dirCount})
	for len(td.stack) > 0 {
		top := &td.stack[len(td.stack)-1]
		if top.dirsLeft == 0 {
			td.stack = td.stack[:len(td.stack)-1]
			continue
		}
		top.dirsLeft--

		recordOff := td.off
		rawName, err := td.readName()
		if err != nil {
			return td.recordError("directory", recordOff, err)
		}

		var fields [dirFieldsSize]byte
		if err := td.readFull(fields[:]); err != nil {
			return td.recordError("directory", recordOff, err)
		}

		childDirs := binary.LittleEndian.Uint32(fields[0:4])
		childFiles := binary.LittleEndian.Uint32(fields[4:8])

		rawPath := joinRawSegments(top.rawPath, rawName)
		path := joinSegments(top.path, td.names.decode(rawName))
		td.logger.Debug("directory",
			slog.String("path", path),
			slog.Uint64("dirs", uint64(childDirs)),
			slog.Uint64("files", uint64(childFiles)),
			slog.Int64("offset", recordOff))

		if err := td.readFiles(rawPath, path, childFiles); err != nil {
			return err
		}

		td.stack = append(td.stack, dirFrame{rawPath: rawPath, path: path, dirsLeft: childDirs})
	}

	return nil
}

// readFiles consumes count file records under parent path.
func (td *treeDecoder) readFiles(parentRaw []byte, parent string, count uint32) error {
	for range count {
		recordOff := td.off
		rawName, err := td.readName()
		if err != nil {
			return td.recordError("file", recordOff, err)
		}

		var fields [fileFieldsSize]byte
		if err := td.readFull(fields[:]); err != nil {
			return td.recordError("file", recordOff, err)
		}

		entry := EntryInfo{
			RawPath:   joinRawSegments(parentRaw, rawName),
			Path:      joinSegments(parent, td.names.decode(rawName)),
			Size:      binary.LittleEndian.Uint32(fields[0:4]),
			ReservedA: binary.LittleEndian.Uint32(fields[4:8]),
			Offset:    binary.LittleEndian.Uint32(fields[8:12]),
			ZeroFlag:  binary.LittleEndian.Uint32(fields[12:16]),
			ReservedB: binary.LittleEndian.Uint32(fields[16:20]),
			ReservedC: binary.LittleEndian.Uint32(fields[20:24]),
		}
		if entry.ZeroFlag != 0 {
			td.logger.Warn("file record has non-zero flag field",
				slog.String("path", entry.Path),
				slog.Uint64("zero_flag", uint64(entry.ZeroFlag)),
				slog.Int64("offset", recordOff))
		}

		td.entries = append(td.entries, entry)
	}

	return nil
}

// readName reads one u8 length-prefixed name and returns a fresh copy of its bytes.
func (td *treeDecoder) readName() ([]byte, error) {
	n, err := td.br.ReadByte()
	if err != nil {
		return nil, err
	}
	td.off++

	name := td.nameBuf[:n]
	if err := td.readFull(name); err != nil {
		return nil, err
	}

	return bytes.Clone(name), nil
}

// readFull fills buf from the tree stream and advances offset.
func (td *treeDecoder) readFull(buf []byte) error {
	n, err := io.ReadFull(td.br, buf)
	td.off += int64(n)
	return err
}

// recordError classifies a record read failure as truncation or I/O error.
func (td *treeDecoder) recordError(kind string, recordOff int64, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s record at offset %d", ErrTruncated, kind, recordOff)
	}

	return fmt.Errorf("read %s record at offset %d: %w", kind, recordOff, err)
}

// estimateEntryCapacity returns a conservative initial capacity for decoded entry metadata.
func estimateEntryCapacity(size int64) int {
	const (
		minCap = 64
		maxCap = 8192
		// size includes payload region, so keep estimate intentionally conservative.
		avgEntryBytes = 4096
	)

	return int(min(max(size/avgEntryBytes, minCap), maxCap))
}

// openFileWithSize opens file and returns it with its size.
func openFileWithSize(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open VFS: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("stat: %w", err)
	}

	return f, fi.Size(), nil
}
