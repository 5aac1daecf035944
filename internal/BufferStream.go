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

package internal

import (
	"io"

	layerio "github.com/layerio/layerio"
)

// BufferStream a closable, seekable raw stream of bytes backed by a slice.
// It counts the raw calls so that tests can check how often buffered
// streams reach the raw layer.
type BufferStream struct {
	buf      []byte
	pos      int64
	closed   bool
	readable bool
	writable bool
	seekable bool
	maxRead  int
	Reads    int
	Writes   int
	Seeks    int
}

// NewBufferStream creates a new readable, writable and seekable instance
// of BufferStream with optional initial content.
func NewBufferStream(args ...[]byte) *BufferStream {
	this := &BufferStream{readable: true, writable: true, seekable: true}

	if len(args) == 1 {
		this.buf = append([]byte(nil), args[0]...)
	} else {
		this.buf = make([]byte, 0)
	}

	return this
}

// SetCapabilities changes the capability flags of the stream
func (this *BufferStream) SetCapabilities(readable, writable, seekable bool) *BufferStream {
	this.readable = readable
	this.writable = writable
	this.seekable = seekable
	return this
}

// SetMaxRead limits the number of bytes returned by each Read (0 means no limit)
func (this *BufferStream) SetMaxRead(n int) *BufferStream {
	this.maxRead = n
	return this
}

// Write returns an error if the stream is closed, otherwise writes the given
// data at the current position, padding with zeros if the position is past
// the end. Returns the number of bytes written.
func (this *BufferStream) Write(b []byte) (int, error) {
	if err := layerio.CheckWritable(this); err != nil {
		return 0, err
	}

	this.Writes++
	end := this.pos + int64(len(b))

	for int64(len(this.buf)) < end {
		this.buf = append(this.buf, 0)
	}

	copy(this.buf[this.pos:], b)
	this.pos = end
	return len(b), nil
}

// Read returns an error if the stream is closed, otherwise reads data from
// the internal buffer at the current position.
// Returns the number of bytes read or (0, io.EOF) when no more data remains.
func (this *BufferStream) Read(b []byte) (int, error) {
	if err := layerio.CheckReadable(this); err != nil {
		return 0, err
	}

	this.Reads++

	if len(b) == 0 {
		return 0, nil
	}

	if this.pos >= int64(len(this.buf)) {
		return 0, io.EOF
	}

	if this.maxRead > 0 && len(b) > this.maxRead {
		b = b[:this.maxRead]
	}

	n := copy(b, this.buf[this.pos:])
	this.pos += int64(n)
	return n, nil
}

// Seek moves the position
func (this *BufferStream) Seek(offset int64, whence int) (int64, error) {
	if err := layerio.CheckSeekable(this); err != nil {
		return 0, err
	}

	this.Seeks++

	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset += this.pos
	case io.SeekEnd:
		offset += int64(len(this.buf))
	default:
		return 0, layerio.NewIOError("Invalid whence value", layerio.ERR_INVALID_PARAM)
	}

	if offset < 0 {
		return 0, layerio.NewIOError("Negative seek position", layerio.ERR_INVALID_PARAM)
	}

	this.pos = offset
	return offset, nil
}

// Tell returns the position
func (this *BufferStream) Tell() (int64, error) {
	if this.closed == true {
		return 0, layerio.ErrClosed
	}

	return this.pos, nil
}

// Truncate resizes the stream, padding with zeros if needed
func (this *BufferStream) Truncate(size int64) (int64, error) {
	if err := layerio.CheckWritable(this); err != nil {
		return 0, err
	}

	for int64(len(this.buf)) < size {
		this.buf = append(this.buf, 0)
	}

	this.buf = this.buf[:size]
	return size, nil
}

// Close makes the stream unavailable for future reads or writes.
func (this *BufferStream) Close() error {
	this.closed = true
	return nil
}

// Closed returns true once Close has been called
func (this *BufferStream) Closed() bool {
	return this.closed
}

// Readable returns the readable capability
func (this *BufferStream) Readable() bool {
	return this.readable
}

// Writable returns the writable capability
func (this *BufferStream) Writable() bool {
	return this.writable
}

// Seekable returns the seekable capability
func (this *BufferStream) Seekable() bool {
	return this.seekable
}

// Flush does nothing
func (this *BufferStream) Flush() error {
	if this.closed == true {
		return layerio.ErrClosed
	}

	return nil
}

// Fileno is not supported
func (this *BufferStream) Fileno() (int, error) {
	return -1, layerio.ErrUnsupported
}

// IsATTY always returns false
func (this *BufferStream) IsATTY() (bool, error) {
	return false, nil
}

// Bytes returns the content of the stream
func (this *BufferStream) Bytes() []byte {
	return this.buf
}

// Len returns the size of the stream
func (this *BufferStream) Len() int {
	return len(this.buf)
}
