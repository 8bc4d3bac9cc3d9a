/*
 * files.go, part of dockprep.
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package chem

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/edsrzf/mmap-go"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression extensions understood by OpenFile and CreateFile.
const (
	gzipExt = ".gz"
	zstdExt = ".zst"
)

// Structure file formats.
const (
	FormatUnknown = iota
	FormatPDB
	FormatSDF
)

// FileFormat returns the structure format of a file, according to its
// extension. Compression extensions are ignored.
func FileFormat(name string) int {
	name = strings.ToLower(name)
	name = strings.TrimSuffix(strings.TrimSuffix(name, gzipExt), zstdExt)
	switch filepath.Ext(name) {
	case ".pdb", ".ent":
		return FormatPDB
	case ".sdf", ".sd", ".mol":
		return FormatSDF
	}
	return FormatUnknown
}

// mappedFile is a read-only memory map of a plain file.
type mappedFile struct {
	*bytes.Reader
	m mmap.MMap
	f *os.File
}

func (M *mappedFile) Close() error {
	var err error
	if M.m != nil {
		err = M.m.Unmap()
		M.m = nil
	}
	if M.f != nil {
		if err2 := M.f.Close(); err == nil {
			err = err2
		}
		M.f = nil
	}
	return err
}

// closes both the decompressor and the underlying file.
type decompressor struct {
	io.Reader
	closers []io.Closer
}

func (D *decompressor) Close() error {
	var err error
	for _, c := range D.closers {
		if err2 := c.Close(); err == nil {
			err = err2
		}
	}
	return err
}

// the zstd decoder's Close method doesn't return an error.
type zstdCloser struct{ *zstd.Decoder }

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// OpenFile opens the file name for reading. Files ending in .gz and .zst
// are decompressed on the fly. Other files are memory-mapped read-only.
// The caller must close the returned ReadCloser.
func OpenFile(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, newCError("OpenFile", err, "opening %s", name)
	}
	lname := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lname, gzipExt):
		r, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, newCError("OpenFile", err, "reading gzip header of %s", name)
		}
		return &decompressor{Reader: r, closers: []io.Closer{r, f}}, nil
	case strings.HasSuffix(lname, zstdExt):
		r, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, newCError("OpenFile", err, "starting zstd decoder for %s", name)
		}
		return &decompressor{Reader: r, closers: []io.Closer{zstdCloser{r}, f}}, nil
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, newCError("OpenFile", err, "getting information on %s", name)
	}
	if info.Size() == 0 {
		//An empty file can't be mapped.
		return &mappedFile{Reader: bytes.NewReader(nil), f: f}, nil
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, newCError("OpenFile", err, "mapping %s", name)
	}
	return &mappedFile{Reader: bytes.NewReader(m), m: m, f: f}, nil
}

// closes the compressor, which flushes it, and then the file.
type compressor struct {
	io.WriteCloser
	f *os.File
}

func (C *compressor) Close() error {
	err := C.WriteCloser.Close()
	if err2 := C.f.Close(); err == nil {
		err = err2
	}
	return err
}

// CreateFile creates (or truncates) the file name for writing. Files ending in .gz and .zst
// are compressed with gzip and zstd, respectively. The caller must close the
// returned WriteCloser to get a complete file.
func CreateFile(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, newCError("CreateFile", err, "creating %s", name)
	}
	lname := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lname, gzipExt):
		w, err := gzip.NewWriterLevel(f, gzip.BestCompression)
		if err != nil {
			f.Close()
			return nil, newCError("CreateFile", err, "starting gzip compressor for %s", name)
		}
		return &compressor{WriteCloser: w, f: f}, nil
	case strings.HasSuffix(lname, zstdExt):
		w, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			f.Close()
			return nil, newCError("CreateFile", err, "starting zstd compressor for %s", name)
		}
		return &compressor{WriteCloser: w, f: f}, nil
	}
	return f, nil
}

// ReadFile reads all the structures in the file name. PDB files give one molecule,
// with one coordinate frame per model. SD files give one molecule per entry.
func ReadFile(name string) ([]*Molecule, error) {
	switch FileFormat(name) {
	case FormatPDB:
		mol, err := PDBFileRead(name)
		if err != nil {
			return nil, errDecorate(err, "ReadFile")
		}
		return []*Molecule{mol}, nil
	case FormatSDF:
		mols, err := SDFFileRead(name)
		if err != nil {
			return nil, errDecorate(err, "ReadFile")
		}
		return mols, nil
	}
	return nil, newCError("ReadFile", nil, "unknown structure format for %s", name)
}

// WriteFile writes mols to the file name, in the format given by the file extension.
// Only one molecule can be written to a PDB file, and only its first frame is written.
func WriteFile(name string, mols ...*Molecule) error {
	switch FileFormat(name) {
	case FormatPDB:
		if len(mols) != 1 {
			return newCError("WriteFile", nil, "%d molecules given for the PDB file %s, 1 expected", len(mols), name)
		}
		err := PDBFileWrite(name, mols[0].Coords[0], mols[0], mols[0].Bfactors[0])
		return errDecorate(err, "WriteFile")
	case FormatSDF:
		return errDecorate(SDFFileWrite(name, mols...), "WriteFile")
	}
	return newCError("WriteFile", nil, "unknown structure format for %s", name)
}

// ReplaceFile writes mols like WriteFile, but first to a temporary file in the same directory, which
// is then renamed to name. If anything fails, an existing file called name is left untouched.
// The permissions of an existing file are kept.
func ReplaceFile(name string, mols ...*Molecule) error {
	dir, base := filepath.Split(name)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*-"+base)
	if err != nil {
		return newCError("ReplaceFile", err, "creating a temporary file for %s", name)
	}
	tmpname := tmp.Name()
	tmp.Close()
	if err = WriteFile(tmpname, mols...); err != nil {
		os.Remove(tmpname)
		return errDecorate(err, "ReplaceFile")
	}
	if info, err := os.Stat(name); err == nil {
		os.Chmod(tmpname, info.Mode().Perm())
	}
	if err = os.Rename(tmpname, name); err != nil {
		os.Remove(tmpname)
		return newCError("ReplaceFile", err, "renaming %s to %s", tmpname, name)
	}
	return nil
}
