// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lp2c

package lp2c

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memorySink records payloads in call order.
type memorySink struct {
	paths []string
	data  [][]byte
}

func (s *memorySink) WriteEntry(entry EntryInfo, data []byte) error {
	s.paths = append(s.paths, entry.Path)
	s.data = append(s.data, bytes.Clone(data))
	return nil
}

func TestExtractToDir_RoundTrip(t *testing.T) {
	t.Parallel()

	r, data := openSound(t)
	dst := t.TempDir()

	var done []string
	res, err := r.ExtractToDir(context.Background(), dst, SelectAll(), DirSinkOptions{}, ExtractOptions{
		OnEntryDone: func(entry EntryInfo, written int64) {
			done = append(done, entry.Path)
			assert.Equal(t, int64(entry.Size), written)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, soundPaths, entryPaths(res.Extracted))
	assert.Equal(t, soundPaths, done)
	assert.Equal(t, int64(3+4+5+2+2+1), res.Bytes)

	for _, entry := range r.Entries() {
		got, err := os.ReadFile(filepath.Join(dst, filepath.FromSlash(entry.Path)))
		require.NoError(t, err, entry.Path)
		assert.Equal(t, data[entry.Offset:entry.End()], got, entry.Path)
	}
}

func TestExtract_NamesWithMissing(t *testing.T) {
	t.Parallel()

	r, _ := openSound(t)
	sink := &memorySink{}

	res, err := r.Extract(context.Background(),
		SelectNames("Sound/a.txt", "Sound/missing.txt", "Sound/voice/hello.wav"),
		sink, ExtractOptions{})
	require.ErrorIs(t, err, ErrEntryNotFound)
	assert.Equal(t, []string{"Sound/a.txt", "Sound/voice/hello.wav"}, sink.paths)
	assert.Equal(t, [][]byte{[]byte("AAA"), []byte("hi")}, sink.data)
	assert.Equal(t, []string{"Sound/missing.txt"}, res.Missing)
	assert.Empty(t, res.Failed)

	var entryErr *EntryError
	require.ErrorAs(t, err, &entryErr)
	assert.Equal(t, "Sound/missing.txt", entryErr.Path)
}

func TestExtract_AllContinuesAfterShortRead(t *testing.T) {
	t.Parallel()

	data := buildArchive(t, fixtureDir{files: []fixtureFile{
		{name: "ok1", data: []byte("one")},
		{name: "broken", offset: 1 << 20, size: 10, fixedRange: true},
		{name: "ok2", data: []byte("two")},
	}})

	var logs bytes.Buffer
	r, err := NewReaderFromReaderAtWithOptions(bytes.NewReader(data), int64(len(data)), ReaderOptions{RootName: "R"})
	require.NoError(t, err)

	sink := &memorySink{}
	res, err := r.ExtractAll(context.Background(), sink, ExtractOptions{Logger: newTestLogger(&logs)})
	require.ErrorIs(t, err, ErrShortRead)
	assert.Equal(t, []string{"R/ok1", "R/ok2"}, sink.paths)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "R/broken", res.Failed[0].Path)
	assert.Contains(t, logs.String(), "extract entry failed")
}

func TestExtract_SingleNameErrorIsSoleOutcome(t *testing.T) {
	t.Parallel()

	data := buildArchive(t, fixtureDir{files: []fixtureFile{
		{name: "broken", offset: 500, size: 10, fixedRange: true},
	}})
	r, err := NewReaderFromReaderAtWithOptions(bytes.NewReader(data), int64(len(data)), ReaderOptions{RootName: "R"})
	require.NoError(t, err)

	_, err = r.Extract(context.Background(), SelectNames("R/broken"), &memorySink{}, ExtractOptions{})
	var entryErr *EntryError
	require.ErrorAs(t, err, &entryErr)
	assert.Equal(t, "R/broken", entryErr.Path)
	require.ErrorIs(t, err, ErrShortRead)
	assert.NotContains(t, err.Error(), "\n")
}

func TestExtract_GlobNoMatchIsNotError(t *testing.T) {
	t.Parallel()

	r, _ := openSound(t)
	sink := &memorySink{}

	res, err := r.Extract(context.Background(), SelectGlob("*.mp3"), sink, ExtractOptions{})
	require.NoError(t, err)
	assert.Empty(t, res.Extracted)
	assert.Empty(t, sink.paths)
}

func TestExtract_WriterSinkConcatenates(t *testing.T) {
	t.Parallel()

	r, _ := openSound(t)

	var out bytes.Buffer
	_, err := r.Extract(context.Background(), SelectGlob("Sound/*.ogg"), NewWriterSink(&out), ExtractOptions{})
	require.NoError(t, err)
	assert.Equal(t, "introL1v", out.String())
}

func TestExtract_SinkErrorIsPerEntry(t *testing.T) {
	t.Parallel()

	r, _ := openSound(t)
	errBoom := errors.New("boom")

	var written []string
	sink := SinkFunc(func(entry EntryInfo, _ []byte) error {
		if entry.Path == "Sound/b.wav" {
			return errBoom
		}
		written = append(written, entry.Path)
		return nil
	})

	res, err := r.ExtractAll(context.Background(), sink, ExtractOptions{})
	require.ErrorIs(t, err, errBoom)
	assert.Len(t, written, len(soundPaths)-1)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "Sound/b.wav", res.Failed[0].Path)
}

func TestExtract_Canceled(t *testing.T) {
	t.Parallel()

	r, _ := openSound(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &memorySink{}
	_, err := r.ExtractAll(ctx, sink, ExtractOptions{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sink.paths)
}

func TestExtract_Guards(t *testing.T) {
	t.Parallel()

	r, _ := openSound(t)

	_, err := r.Extract(context.Background(), SelectAll(), nil, ExtractOptions{})
	require.ErrorIs(t, err, ErrNilSink)

	_, err = r.Extract(context.Background(), SelectGlob("[x"), &memorySink{}, ExtractOptions{})
	require.ErrorIs(t, err, ErrInvalidPattern)

	var nilReader *Reader
	_, err = nilReader.ExtractAll(context.Background(), &memorySink{}, ExtractOptions{})
	require.ErrorIs(t, err, ErrNilReader)
}

func TestExtractResult_Err(t *testing.T) {
	t.Parallel()

	var res ExtractResult
	require.NoError(t, res.Err())

	res.Missing = []string{"a", "b"}
	err := res.Err()
	require.ErrorIs(t, err, ErrEntryNotFound)
	assert.Contains(t, err.Error(), "a: entry not found")
	assert.Contains(t, err.Error(), "b: entry not found")
}
