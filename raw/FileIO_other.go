//go:build !unix

/*
Copyright 2011-2025 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package raw

import (
	"io"
	"os"

	layerio "github.com/layerio/layerio"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// FileIO a raw stream over an operating system file.
// There is no buffering: every call is one system call.
type FileIO struct {
	f        *os.File
	name     string
	mode     Mode
	closefd  bool
	closed   bool
	seekable int // -1 unknown
	logger   *zap.Logger
}

// Open opens the file at path with the provided mode ("r", "w", "a", "x",
// optionally followed by '+'). Non blocking mode is not available on this platform.
func Open(path, mode string, opts ...Option) (*FileIO, error) {
	m, err := ParseMode(mode)

	if err != nil {
		return nil, err
	}

	o := newOptions(opts)

	if o.nonBlocking == true {
		return nil, errors.Wrap(layerio.ErrUnsupported, "non blocking files")
	}

	f, err := os.OpenFile(path, m.Flags(), o.perm)

	if err != nil {
		return nil, errors.Wrapf(err, "Cannot open file %s", path)
	}

	if fi, err := f.Stat(); err == nil && fi.IsDir() == true {
		f.Close()
		return nil, errors.Errorf("Cannot open file %s: is a directory", path)
	}

	if m.Appending == true {
		f.Seek(0, io.SeekEnd)
	}

	o.logger.Debug("raw file opened", zap.String("name", path), zap.String("mode", m.String()))
	return &FileIO{f: f, name: path, mode: m, closefd: true, seekable: -1, logger: o.logger}, nil
}

// NewFileIO wraps an existing file descriptor. If closefd is false, Close
// leaves the descriptor open.
func NewFileIO(fd int, mode string, closefd bool, opts ...Option) (*FileIO, error) {
	if fd < 0 {
		return nil, layerio.NewIOError("Negative file descriptor", layerio.ERR_INVALID_PARAM)
	}

	m, err := ParseMode(mode)

	if err != nil {
		return nil, err
	}

	o := newOptions(opts)

	if o.nonBlocking == true {
		return nil, errors.Wrap(layerio.ErrUnsupported, "non blocking files")
	}

	f := os.NewFile(uintptr(fd), "")
	return &FileIO{f: f, mode: m, closefd: closefd, seekable: -1, logger: o.logger}, nil
}

// Read reads up to len(p) bytes into p with a single system call.
// Returns (0, io.EOF) at the end of the file.
func (this *FileIO) Read(p []byte) (int, error) {
	if err := layerio.CheckReadable(this); err != nil {
		return 0, err
	}

	if len(p) == 0 {
		return 0, nil
	}

	n, err := this.f.Read(p)

	if n > 0 {
		return n, nil
	}

	if err == io.EOF {
		return 0, io.EOF
	}

	return 0, errors.Wrap(err, "read")
}

// ReadAll reads until the end of the file
func (this *FileIO) ReadAll() ([]byte, error) {
	if err := layerio.CheckReadable(this); err != nil {
		return nil, err
	}

	return io.ReadAll(this.f)
}

// Write writes p with a single system call
func (this *FileIO) Write(p []byte) (int, error) {
	if err := layerio.CheckWritable(this); err != nil {
		return 0, err
	}

	n, err := this.f.Write(p)

	if err != nil {
		return n, errors.Wrap(err, "write")
	}

	return n, nil
}

// Seek sets the offset for the next Read or Write
func (this *FileIO) Seek(offset int64, whence int) (int64, error) {
	if this.closed == true {
		return 0, layerio.ErrClosed
	}

	if whence < io.SeekStart || whence > io.SeekEnd {
		return 0, layerio.NewIOError("Invalid whence value", layerio.ERR_INVALID_PARAM)
	}

	pos, err := this.f.Seek(offset, whence)

	if err != nil {
		return 0, errors.Wrap(layerio.ErrUnsupported, err.Error())
	}

	return pos, nil
}

// Tell returns the current offset
func (this *FileIO) Tell() (int64, error) {
	return this.Seek(0, io.SeekCurrent)
}

// Truncate resizes the file. The position is not changed.
func (this *FileIO) Truncate(size int64) (int64, error) {
	if err := layerio.CheckWritable(this); err != nil {
		return 0, err
	}

	if size < 0 {
		return 0, layerio.NewIOError("Negative size value", layerio.ERR_INVALID_PARAM)
	}

	if err := this.f.Truncate(size); err != nil {
		return 0, errors.Wrap(err, "truncate")
	}

	return size, nil
}

// Close closes the file unless the instance does not own it
func (this *FileIO) Close() error {
	if this.closed == true {
		return nil
	}

	this.closed = true
	this.logger.Debug("raw file closed", zap.String("name", this.name))

	if this.closefd == false {
		return nil
	}

	return this.f.Close()
}

// Closed returns true once Close has been called
func (this *FileIO) Closed() bool {
	return this.closed
}

// Readable returns true if the file was opened for reading
func (this *FileIO) Readable() bool {
	return this.mode.Readable
}

// Writable returns true if the file was opened for writing
func (this *FileIO) Writable() bool {
	return this.mode.Writable
}

// Seekable returns true if the file supports seeking (probed once)
func (this *FileIO) Seekable() bool {
	if this.closed == true {
		return false
	}

	if this.seekable < 0 {
		if _, err := this.f.Seek(0, io.SeekCurrent); err != nil {
			this.seekable = 0
		} else {
			this.seekable = 1
		}
	}

	return this.seekable == 1
}

// Flush does nothing: a raw file has no buffer
func (this *FileIO) Flush() error {
	if this.closed == true {
		return layerio.ErrClosed
	}

	return nil
}

// Fileno returns the file descriptor
func (this *FileIO) Fileno() (int, error) {
	if this.closed == true {
		return -1, layerio.ErrClosed
	}

	return int(this.f.Fd()), nil
}

// IsATTY returns true if the file is a terminal
func (this *FileIO) IsATTY() (bool, error) {
	if this.closed == true {
		return false, layerio.ErrClosed
	}

	return term.IsTerminal(int(this.f.Fd())), nil
}

// Name returns the path of the file (empty for a wrapped descriptor)
func (this *FileIO) Name() string {
	return this.name
}

// Mode returns the access mode
func (this *FileIO) Mode() Mode {
	return this.mode
}
