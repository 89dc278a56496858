// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lp2c

package lp2c

import (
	"bytes"
	"encoding/binary"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixtureFile is one file record of a test archive.
// With fixedRange set, offset and size are written verbatim and no payload is stored.
type fixtureFile struct {
	name       string
	data       []byte
	offset     uint32
	size       uint32
	reservedA  uint32
	zeroFlag   uint32
	reservedB  uint32
	reservedC  uint32
	fixedRange bool
}

// fixtureDir is one directory level of a test archive.
type fixtureDir struct {
	name  string
	files []fixtureFile
	dirs  []fixtureDir
}

// buildArchive encodes root level as a complete archive: header, tree, then payloads in decode order.
func buildArchive(t testing.TB, root fixtureDir) []byte {
	t.Helper()

	treeLen := headerSize + fixtureLevelSize(root)
	next := uint32(treeLen) //nolint:gosec // test fixtures are small

	var tree bytes.Buffer
	var payload []byte
	tree.WriteString(Magic)
	writeU32(&tree, uint32(len(root.dirs)))  //nolint:gosec // test fixtures are small
	writeU32(&tree, uint32(len(root.files))) //nolint:gosec // test fixtures are small
	writeFixtureLevel(&tree, root, &next, &payload)
	require.Equal(t, treeLen, tree.Len(), "fixture tree size")

	return append(tree.Bytes(), payload...)
}

// fixtureLevelSize returns encoded size of all records below d.
func fixtureLevelSize(d fixtureDir) int {
	n := 0
	for _, f := range d.files {
		n += 1 + len(f.name) + fileFieldsSize
	}
	for _, sub := range d.dirs {
		n += 1 + len(sub.name) + dirFieldsSize + fixtureLevelSize(sub)
	}

	return n
}

// writeFixtureLevel writes file records, then directory records with their children.
func writeFixtureLevel(buf *bytes.Buffer, d fixtureDir, next *uint32, payload *[]byte) {
	for _, f := range d.files {
		offset, size := *next, uint32(len(f.data)) //nolint:gosec // test fixtures are small
		if f.fixedRange {
			offset, size = f.offset, f.size
		} else {
			*payload = append(*payload, f.data...)
			*next += size
		}

		buf.WriteByte(byte(len(f.name)))
		buf.WriteString(f.name)
		writeU32(buf, size)
		writeU32(buf, f.reservedA)
		writeU32(buf, offset)
		writeU32(buf, f.zeroFlag)
		writeU32(buf, f.reservedB)
		writeU32(buf, f.reservedC)
	}

	for _, sub := range d.dirs {
		buf.WriteByte(byte(len(sub.name)))
		buf.WriteString(sub.name)
		writeU32(buf, uint32(len(sub.dirs)))  //nolint:gosec // test fixtures are small
		writeU32(buf, uint32(len(sub.files))) //nolint:gosec // test fixtures are small
		writeFixtureLevel(buf, sub, next, payload)
	}
}

// writeU32 appends little-endian u32.
func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

// writeArchiveFile stores archive bytes under name in a temp dir and returns the path.
func writeArchiveFile(t testing.TB, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// soundTree is a small nested archive used across tests.
// Decode order:
//
//	Sound/a.txt
//	Sound/b.wav
//	Sound/music/intro.ogg
//	Sound/music/loops/l1.ogg
//	Sound/voice/hello.wav
//	Sound/voice/intro.ogg
func soundTree() fixtureDir {
	return fixtureDir{
		files: []fixtureFile{
			{name: "a.txt", data: []byte("AAA")},
			{name: "b.wav", data: []byte("bbbb")},
		},
		dirs: []fixtureDir{
			{
				name:  "music",
				files: []fixtureFile{{name: "intro.ogg", data: []byte("intro")}},
				dirs: []fixtureDir{
					{name: "loops", files: []fixtureFile{{name: "l1.ogg", data: []byte("L1")}}},
				},
			},
			{
				name: "voice",
				files: []fixtureFile{
					{name: "hello.wav", data: []byte("hi")},
					{name: "intro.ogg", data: []byte("v")},
				},
			},
		},
	}
}

// soundPaths lists soundTree logical paths in decode order.
var soundPaths = []string{
	"Sound/a.txt",
	"Sound/b.wav",
	"Sound/music/intro.ogg",
	"Sound/music/loops/l1.ogg",
	"Sound/voice/hello.wav",
	"Sound/voice/intro.ogg",
}

// openSound writes soundTree to Sound.vfs and opens it.
func openSound(t testing.TB) (*Reader, []byte) {
	t.Helper()

	data := buildArchive(t, soundTree())
	r, err := Open(writeArchiveFile(t, "Sound.vfs", data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	return r, data
}

// entryPaths extracts logical paths.
func entryPaths(entries []EntryInfo) []string {
	out := make([]string, len(entries))
	for i := range entries {
		out[i] = entries[i].Path
	}

	return out
}

// newTestLogger returns a debug-level text logger writing to w.
func newTestLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
