//go:build unix

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

	layerio "github.com/layerio/layerio"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// FileIO a raw stream over an operating system file descriptor.
// There is no buffering: every call is one system call.
type FileIO struct {
	fd       int
	name     string
	mode     Mode
	closefd  bool
	closed   bool
	seekable int // -1 unknown
	logger   *zap.Logger
}

// Open opens the file at path with the provided mode ("r", "w", "a", "x",
// optionally followed by '+').
func Open(path, mode string, opts ...Option) (*FileIO, error) {
	m, err := ParseMode(mode)

	if err != nil {
		return nil, err
	}

	o := newOptions(opts)
	flags := m.Flags() | unix.O_CLOEXEC

	if o.nonBlocking == true {
		flags |= unix.O_NONBLOCK
	}

	var fd int

	for {
		fd, err = unix.Open(path, flags, uint32(o.perm.Perm()))

		if err != unix.EINTR {
			break
		}
	}

	if err != nil {
		return nil, errors.Wrapf(err, "Cannot open file %s", path)
	}

	var st unix.Stat_t

	if err = unix.Fstat(fd, &st); err == nil && st.Mode&unix.S_IFMT == unix.S_IFDIR {
		unix.Close(fd)
		return nil, errors.Wrapf(unix.EISDIR, "Cannot open file %s", path)
	}

	this := &FileIO{fd: fd, name: path, mode: m, closefd: true, seekable: -1, logger: o.logger}

	if m.Appending == true {
		// Position at the end so that Tell reports the real offset
		unix.Seek(fd, 0, io.SeekEnd)
	}

	this.logger.Debug("raw file opened", zap.String("name", path), zap.String("mode", m.String()),
		zap.Int("fd", fd), zap.Bool("nonBlocking", o.nonBlocking))
	return this, nil
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
		if err := unix.SetNonblock(fd, true); err != nil {
			return nil, errors.Wrap(err, "Cannot set non blocking mode")
		}
	}

	return &FileIO{fd: fd, name: "", mode: m, closefd: closefd, seekable: -1, logger: o.logger}, nil
}

func mapErrno(err error, op string) error {
	switch err {
	case nil:
		return nil

	case unix.EAGAIN:
		return layerio.ErrWouldBlock

	case unix.EINTR:
		return layerio.ErrInterrupted

	case unix.ESPIPE:
		return errors.Wrap(layerio.ErrUnsupported, op)
	}

	return errors.Wrap(err, op)
}

// Read reads up to len(p) bytes into p with a single system call.
// Returns (0, io.EOF) at the end of the file and (0, ErrWouldBlock) if the
// descriptor is non blocking and no data is available.
func (this *FileIO) Read(p []byte) (int, error) {
	if err := layerio.CheckReadable(this); err != nil {
		return 0, err
	}

	if len(p) == 0 {
		return 0, nil
	}

	n, err := unix.Read(this.fd, p)

	if err != nil {
		return 0, mapErrno(err, "read")
	}

	if n == 0 {
		return 0, io.EOF
	}

	return n, nil
}

// ReadAll reads until the end of the file
func (this *FileIO) ReadAll() ([]byte, error) {
	if err := layerio.CheckReadable(this); err != nil {
		return nil, err
	}

	bufSize := layerio.DEFAULT_BUFFER_SIZE
	var st unix.Stat_t

	if err := unix.Fstat(this.fd, &st); err == nil && st.Size > 0 {
		if pos, err := unix.Seek(this.fd, 0, io.SeekCurrent); err == nil && st.Size >= pos {
			bufSize = int(st.Size-pos) + 1
		}
	}

	res := make([]byte, 0, bufSize)

	for {
		if len(res) == cap(res) {
			res = append(res, 0)[:len(res)]
		}

		n, err := this.Read(res[len(res):cap(res)])
		res = res[:len(res)+n]

		if err == io.EOF {
			return res, nil
		}

		if layerio.IsInterrupted(err) == true {
			continue
		}

		if err != nil {
			if layerio.IsWouldBlock(err) == true && len(res) > 0 {
				return res, nil
			}

			return res, err
		}
	}
}

// Write writes p with a single system call. A non blocking descriptor may
// accept fewer bytes, in which case (n, ErrWouldBlock) is returned.
// A blocking descriptor may also return a short count with a nil error.
func (this *FileIO) Write(p []byte) (int, error) {
	if err := layerio.CheckWritable(this); err != nil {
		return 0, err
	}

	n, err := unix.Write(this.fd, p)

	if n < 0 {
		n = 0
	}

	if err != nil {
		return n, mapErrno(err, "write")
	}

	if n < len(p) && this.isNonBlocking() == true {
		return n, layerio.ErrWouldBlock
	}

	return n, nil
}

func (this *FileIO) isNonBlocking() bool {
	flags, err := unix.FcntlInt(uintptr(this.fd), unix.F_GETFL, 0)
	return err == nil && flags&unix.O_NONBLOCK != 0
}

// Seek sets the offset for the next Read or Write
func (this *FileIO) Seek(offset int64, whence int) (int64, error) {
	if this.closed == true {
		return 0, layerio.ErrClosed
	}

	if whence < io.SeekStart || whence > io.SeekEnd {
		return 0, layerio.NewIOError("Invalid whence value", layerio.ERR_INVALID_PARAM)
	}

	pos, err := unix.Seek(this.fd, offset, whence)
	return pos, mapErrno(err, "seek")
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

	for {
		err := unix.Ftruncate(this.fd, size)

		if err == unix.EINTR {
			continue
		}

		if err != nil {
			return 0, mapErrno(err, "truncate")
		}

		return size, nil
	}
}

// Close closes the descriptor unless the instance does not own it
func (this *FileIO) Close() error {
	if this.closed == true {
		return nil
	}

	this.closed = true
	this.logger.Debug("raw file closed", zap.String("name", this.name), zap.Int("fd", this.fd))

	if this.closefd == false {
		return nil
	}

	return mapErrno(unix.Close(this.fd), "close")
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

// Seekable returns true if the descriptor supports seeking (probed once)
func (this *FileIO) Seekable() bool {
	if this.closed == true {
		return false
	}

	if this.seekable < 0 {
		if _, err := unix.Seek(this.fd, 0, io.SeekCurrent); err != nil {
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

	return this.fd, nil
}

// IsATTY returns true if the descriptor is a terminal
func (this *FileIO) IsATTY() (bool, error) {
	if this.closed == true {
		return false, layerio.ErrClosed
	}

	return term.IsTerminal(this.fd), nil
}

// Name returns the path of the file (empty for a wrapped descriptor)
func (this *FileIO) Name() string {
	return this.name
}

// Mode returns the access mode
func (this *FileIO) Mode() Mode {
	return this.mode
}
