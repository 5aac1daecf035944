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

package buffered

import (
	layerio "github.com/layerio/layerio"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// BufferedRWPair a buffered reader and a buffered writer over two distinct
// raw streams (for instance both ends of a pipe or socket pair).
// It is not seekable.
type BufferedRWPair struct {
	reader *BufferedReader
	writer *BufferedWriter
}

// NewBufferedRWPair creates a new instance of BufferedRWPair
func NewBufferedRWPair(reader, writer layerio.RawStream, bufferSize int, opts ...Option) (*BufferedRWPair, error) {
	r, err := NewBufferedReader(reader, bufferSize, opts...)

	if err != nil {
		return nil, err
	}

	w, err := NewBufferedWriter(writer, bufferSize, opts...)

	if err != nil {
		return nil, err
	}

	return &BufferedRWPair{reader: r, writer: w}, nil
}

// ReadN reads up to n bytes from the reader
func (this *BufferedRWPair) ReadN(n int) ([]byte, error) {
	return this.reader.ReadN(n)
}

// Read reads up to len(p) bytes from the reader
func (this *BufferedRWPair) Read(p []byte) (int, error) {
	return this.reader.Read(p)
}

// Peek returns buffered bytes of the reader without advancing
func (this *BufferedRWPair) Peek(n int) ([]byte, error) {
	return this.reader.Peek(n)
}

// Read1 reads up to n bytes from the reader with at most one raw read
func (this *BufferedRWPair) Read1(n int) ([]byte, error) {
	return this.reader.Read1(n)
}

// ReadLine reads one line from the reader
func (this *BufferedRWPair) ReadLine(limit int) ([]byte, error) {
	return this.reader.ReadLine(limit)
}

// Write buffers p in the writer
func (this *BufferedRWPair) Write(p []byte) (int, error) {
	return this.writer.Write(p)
}

// Flush flushes the writer
func (this *BufferedRWPair) Flush() error {
	return this.writer.Flush()
}

// Seek is not supported
func (this *BufferedRWPair) Seek(pos int64, whence int) (int64, error) {
	return 0, errors.Wrap(layerio.ErrUnsupported, "seek")
}

// Tell is not supported
func (this *BufferedRWPair) Tell() (int64, error) {
	return 0, errors.Wrap(layerio.ErrUnsupported, "tell")
}

// Truncate is not supported
func (this *BufferedRWPair) Truncate(size int64) (int64, error) {
	return 0, errors.Wrap(layerio.ErrUnsupported, "truncate")
}

// Close closes the writer (flushing it) then the reader
func (this *BufferedRWPair) Close() error {
	return multierr.Append(this.writer.Close(), this.reader.Close())
}

// Closed returns true once the writer is closed
func (this *BufferedRWPair) Closed() bool {
	return this.writer.Closed()
}

// Readable returns true if the reader is readable
func (this *BufferedRWPair) Readable() bool {
	return this.reader.Readable()
}

// Writable returns true if the writer is writable
func (this *BufferedRWPair) Writable() bool {
	return this.writer.Writable()
}

// Seekable returns false
func (this *BufferedRWPair) Seekable() bool {
	return false
}

// Fileno is not supported: the pair has two descriptors
func (this *BufferedRWPair) Fileno() (int, error) {
	return -1, errors.Wrap(layerio.ErrUnsupported, "fileno")
}

// IsATTY returns true if either side is a terminal
func (this *BufferedRWPair) IsATTY() (bool, error) {
	if tty, err := this.writer.IsATTY(); err != nil || tty == true {
		return tty, err
	}

	return this.reader.IsATTY()
}
