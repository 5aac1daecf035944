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

// Package memio provides in-memory streams: BytesIO, a binary stream over
// a growable byte slice and StringIO, a text stream over a BytesIO.
package memio

import (
	"bytes"
	"io"

	layerio "github.com/layerio/layerio"
	"github.com/pkg/errors"
)

// BytesIO a readable, writable and seekable in-memory binary stream.
// The position may go past the end of the data: a write there pads the
// gap with zeros. A BytesIO is not safe for concurrent use.
type BytesIO struct {
	buf    []byte
	pos    int64
	closed bool
}

// NewBytesIO creates a new instance of BytesIO holding a copy of initial
func NewBytesIO(initial []byte) *BytesIO {
	return &BytesIO{buf: append([]byte{}, initial...)}
}

func (this *BytesIO) check() error {
	if this.closed == true {
		return layerio.ErrClosed
	}

	return nil
}

// GetValue returns a copy of the whole content
func (this *BytesIO) GetValue() ([]byte, error) {
	if err := this.check(); err != nil {
		return nil, err
	}

	return append([]byte{}, this.buf...), nil
}

// Len returns the size of the content
func (this *BytesIO) Len() int {
	return len(this.buf)
}

// ReadN returns at most n bytes (all the remaining bytes if n is negative).
// Returns (empty, io.EOF) at or after the end of the data.
func (this *BytesIO) ReadN(n int) ([]byte, error) {
	if err := this.check(); err != nil {
		return nil, err
	}

	if n == 0 {
		return []byte{}, nil
	}

	if this.pos >= int64(len(this.buf)) {
		return []byte{}, io.EOF
	}

	end := int64(len(this.buf))

	if n > 0 && this.pos+int64(n) < end {
		end = this.pos + int64(n)
	}

	res := append([]byte{}, this.buf[this.pos:end]...)
	this.pos = end
	return res, nil
}

// Read1 is ReadN: the data is always available
func (this *BytesIO) Read1(n int) ([]byte, error) {
	return this.ReadN(n)
}

// Read copies up to len(p) bytes into p
func (this *BytesIO) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, this.check()
	}

	data, err := this.ReadN(len(p))
	return copy(p, data), err
}

// Peek returns up to n bytes without advancing the position
func (this *BytesIO) Peek(n int) ([]byte, error) {
	if err := this.check(); err != nil {
		return nil, err
	}

	if this.pos >= int64(len(this.buf)) {
		return []byte{}, io.EOF
	}

	end := int64(len(this.buf))

	if n >= 0 && this.pos+int64(n) < end {
		end = this.pos + int64(n)
	}

	return this.buf[this.pos:end:end], nil
}

// ReadLine returns the bytes up to and including the next "\n" (at most
// limit bytes if limit is positive or zero)
func (this *BytesIO) ReadLine(limit int) ([]byte, error) {
	if err := this.check(); err != nil {
		return nil, err
	}

	if this.pos >= int64(len(this.buf)) {
		return []byte{}, io.EOF
	}

	rest := this.buf[this.pos:]
	n := len(rest)

	if idx := bytes.IndexByte(rest, '\n'); idx >= 0 {
		n = idx + 1
	}

	if limit >= 0 && n > limit {
		n = limit
	}

	this.pos += int64(n)
	return append([]byte{}, rest[:n]...), nil
}

// Write writes p at the current position and returns len(p)
func (this *BytesIO) Write(p []byte) (int, error) {
	if err := this.check(); err != nil {
		return 0, err
	}

	if len(p) == 0 {
		return 0, nil
	}

	if pad := this.pos - int64(len(this.buf)); pad > 0 {
		this.buf = append(this.buf, make([]byte, pad)...)
	}

	end := this.pos + int64(len(p))

	if end > int64(len(this.buf)) {
		this.buf = append(this.buf[:this.pos], p...)
	} else {
		copy(this.buf[this.pos:], p)
	}

	this.pos = end
	return len(p), nil
}

// WriteString writes s at the current position
func (this *BytesIO) WriteString(s string) (int, error) {
	return this.Write([]byte(s))
}

// Seek changes the position. Positions past the end are allowed, negative
// absolute positions are not. Relative positions are clamped at 0.
func (this *BytesIO) Seek(offset int64, whence int) (int64, error) {
	if err := this.check(); err != nil {
		return 0, err
	}

	switch whence {
	case layerio.SEEK_SET:
		if offset < 0 {
			return 0, layerio.NewIOError("Negative seek position", layerio.ERR_INVALID_PARAM)
		}

		this.pos = offset

	case layerio.SEEK_CUR:
		this.pos = max(0, this.pos+offset)

	case layerio.SEEK_END:
		this.pos = max(0, int64(len(this.buf))+offset)

	default:
		return 0, layerio.NewIOError("Invalid whence value", layerio.ERR_INVALID_PARAM)
	}

	return this.pos, nil
}

// Tell returns the current position
func (this *BytesIO) Tell() (int64, error) {
	if err := this.check(); err != nil {
		return 0, err
	}

	return this.pos, nil
}

// Truncate drops the data after size (the current position if size is
// negative). The position is unchanged and the data is never extended.
func (this *BytesIO) Truncate(size int64) (int64, error) {
	if err := this.check(); err != nil {
		return 0, err
	}

	if size < 0 {
		size = this.pos
	}

	if size < int64(len(this.buf)) {
		this.buf = this.buf[:size]
	}

	return size, nil
}

// Flush does nothing on an open stream
func (this *BytesIO) Flush() error {
	return this.check()
}

// Close releases the content
func (this *BytesIO) Close() error {
	this.closed = true
	this.buf = nil
	return nil
}

func (this *BytesIO) Closed() bool {
	return this.closed
}

func (this *BytesIO) Readable() bool {
	return this.closed == false
}

func (this *BytesIO) Writable() bool {
	return this.closed == false
}

func (this *BytesIO) Seekable() bool {
	return this.closed == false
}

func (this *BytesIO) Fileno() (int, error) {
	if err := this.check(); err != nil {
		return -1, err
	}

	return -1, errors.Wrap(layerio.ErrUnsupported, "in-memory stream has no file descriptor")
}

func (this *BytesIO) IsATTY() (bool, error) {
	return false, this.check()
}
