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

// Package layerio defines the top level interfaces of a layered stream engine:
// raw byte streams, buffered byte streams and text streams.
//
// The implementations of these interfaces are available in sub-folders.
// The raw package talks to the operating system, the buffered package
// provides read-ahead and write coalescing on top of a raw stream, the text
// package decodes and encodes characters with universal newline support and
// the memio package provides in-memory byte and text buffers.
package layerio

import (
	"io"
)

const (
	// DEFAULT_BUFFER_SIZE is the buffer size used by buffered streams when
	// the caller does not provide one.
	DEFAULT_BUFFER_SIZE = 8192

	SEEK_SET = io.SeekStart
	SEEK_CUR = io.SeekCurrent
	SEEK_END = io.SeekEnd
)

// Stream is the capability contract shared by all the streams.
type Stream interface {
	// Close flushes the stream (if writable) then releases the underlying
	// resource. Calling Close on a closed stream is a no-op.
	Close() error

	// Closed returns true once Close has been called
	Closed() bool

	// Readable returns true if the stream supports reading
	Readable() bool

	// Writable returns true if the stream supports writing
	Writable() bool

	// Seekable returns true if the stream supports Seek, Tell and Truncate
	Seekable() bool

	// Flush writes any pending data to the underlying stream
	Flush() error

	// Fileno returns the underlying file descriptor if there is one
	Fileno() (int, error)

	// IsATTY returns true if the stream is connected to a terminal
	IsATTY() (bool, error)
}

// RawStream is an unbuffered byte stream. Every call is a direct operation
// on the underlying handle.
//
// Read follows the readinto contract: it returns (0, io.EOF) at the end of
// the stream and (0, ErrWouldBlock) when no data is available without
// blocking. Write may accept fewer bytes than requested when the handle is
// in non blocking mode, in which case it returns (n, ErrWouldBlock).
// ErrInterrupted reports a transient interrupted system call.
type RawStream interface {
	Stream
	io.Reader
	io.Writer
	io.Seeker

	// Tell returns the current position
	Tell() (int64, error)

	// Truncate resizes the stream to the given size (the position is unchanged).
	// Returns the new size.
	Truncate(size int64) (int64, error)
}

// Peeker is implemented by streams able to return buffered bytes without
// advancing the position.
type Peeker interface {
	Peek(n int) ([]byte, error)
}

// Reader1 is implemented by streams able to serve a read with at most one
// call to the underlying raw stream.
type Reader1 interface {
	Read1(n int) ([]byte, error)
}

// BufferedStream is the byte stream contract consumed by the text layer.
// Optional capabilities (Peeker, Reader1) are detected once, when the
// consumer is created.
type BufferedStream interface {
	Stream
	io.Writer

	// ReadN returns at most n bytes (all the remaining bytes if n is negative).
	// Returns (empty, io.EOF) when no data remains.
	ReadN(n int) ([]byte, error)

	// Seek changes the stream position and returns the new absolute position
	Seek(offset int64, whence int) (int64, error)

	// Tell returns the current logical position
	Tell() (int64, error)

	// Truncate resizes the stream. Returns the new size.
	Truncate(size int64) (int64, error)
}

// LineReader is implemented by streams able to return one line at a time.
// An empty line with io.EOF signals the end of the stream.
type LineReader interface {
	ReadLine(limit int) ([]byte, error)
}

// Lines calls fn for each line returned by r until the end of the stream,
// fn returning false or an error occurring.
func Lines(r LineReader, fn func(line []byte) bool) error {
	for {
		line, err := r.ReadLine(-1)

		if len(line) > 0 {
			if fn(line) == false {
				return nil
			}
		}

		if err == io.EOF {
			return nil
		}

		if err != nil {
			return err
		}

		if len(line) == 0 {
			return nil
		}
	}
}

// CheckReadable returns an unsupported operation error if the stream
// is not readable and a closed stream error if it is closed.
func CheckReadable(s Stream) error {
	if s.Closed() == true {
		return ErrClosed
	}

	if s.Readable() == false {
		return NewIOError("File or stream is not readable", ERR_UNSUPPORTED)
	}

	return nil
}

// CheckWritable returns an unsupported operation error if the stream
// is not writable and a closed stream error if it is closed.
func CheckWritable(s Stream) error {
	if s.Closed() == true {
		return ErrClosed
	}

	if s.Writable() == false {
		return NewIOError("File or stream is not writable", ERR_UNSUPPORTED)
	}

	return nil
}

// CheckSeekable returns an unsupported operation error if the stream
// is not seekable and a closed stream error if it is closed.
func CheckSeekable(s Stream) error {
	if s.Closed() == true {
		return ErrClosed
	}

	if s.Seekable() == false {
		return NewIOError("File or stream is not seekable", ERR_UNSUPPORTED)
	}

	return nil
}
