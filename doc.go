// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lp2c

/*
Package lp2c reads "LP2C" VFS archives: a single file holding a nested
directory tree of named byte ranges followed by raw payload. It decodes the
tree into a flat, ordered entry list and extracts payloads by seeking into the
archive, without loading the archive into memory.

Wire format (little-endian):

	header:    "LP2C" | u32 root dir count | u32 root file count
	file:      u8 name len | name | u32 size | u32 reserved A | u32 offset |
	           u32 zero flag | u32 reserved B | u32 reserved C
	directory: u8 name len | name | u32 child dir count | u32 child file count

At every level file records come first, then directory records, each directory
followed immediately by its own children. There is no end marker and no
checksum; a mis-framed tree shows up as ErrTruncated at best. Offsets and sizes
are 32-bit, so nothing past 4 GiB (MaxArchiveSize) is addressable.

Payload bytes are opaque: they are copied out, never interpreted.

# Reading

Open an archive and list entries. Logical paths are rooted at the archive base
name, so "Sound.vfs" yields paths like "Sound/music/intro.ogg":

	r, err := lp2c.Open("Sound.vfs")
	if err != nil {
	    return err
	}
	defer r.Close()
	for _, e := range r.Entries() {
	    fmt.Println(e.Offset, e.Size, e.Path)
	}

Name bytes are decoded as windows-1252 by default; pick another codepage or
keep bytes verbatim with ReaderOptions.NameEncoding. EntryInfo.RawPath always
holds the undecoded bytes.

# Selecting

	entries, err := r.Select(lp2c.SelectGlob("Sound/music/*.ogg"))
	entries, err = r.Select(lp2c.SelectNames("Sound/a.wav", "Sound/b.wav"))

Globs follow fnmatch: only "*", "?" and "[...]" classes are special, and
"*" also matches "/". Exact names take the first match in decode order;
duplicate paths are legal. Rule based selection uses
github.com/woozymasta/pathrules:

	entries, err = r.Select(lp2c.SelectRules([]pathrules.Rule{
	    {Action: pathrules.ActionInclude, Pattern: "*.ogg"},
	    {Action: pathrules.ActionExclude, Pattern: "Sound/voice/"},
	}, pathrules.MatcherOptions{}))

# Extracting

Extract to a directory (one file per entry, parents created on demand):

	res, err := r.ExtractToDir(ctx, "out/", lp2c.SelectAll(), lp2c.DirSinkOptions{}, lp2c.ExtractOptions{})
	if err != nil {
	    // res still lists everything that was written
	}

Or concatenate payloads into one stream:

	_, err = r.Extract(ctx, lp2c.SelectNames("Sound/a.wav"), lp2c.NewWriterSink(os.Stdout), lp2c.ExtractOptions{})

A missing name or an entry whose range runs past end of file does not stop the
run; the returned error joins one *EntryError per failure.
*/
package lp2c
