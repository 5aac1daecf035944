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
)

// BufferedRandom a buffered stream over a seekable raw stream, readable and
// writable. It holds one BufferedReader and one BufferedWriter sharing the
// raw stream and keeps both views consistent: pending writes are flushed
// before any read and unconsumed read-ahead is undone before any write.
type BufferedRandom struct {
	raw    layerio.RawStream
	reader *BufferedReader
	writer *BufferedWriter
	cfg    *config
}

// NewBufferedRandom creates a new instance of BufferedRandom. The raw stream
// must be readable, writable and seekable.
func NewBufferedRandom(raw layerio.RawStream, bufferSize int, opts ...Option) (*BufferedRandom, error) {
	if raw == nil {
		return nil, layerio.NewIOError("Invalid null raw stream parameter", layerio.ERR_INVALID_PARAM)
	}

	if raw.Seekable() == false {
		return nil, errors.Wrap(layerio.ErrUnsupported, "raw stream must be seekable")
	}

	if raw.Readable() == false || raw.Writable() == false {
		return nil, errors.Wrap(layerio.ErrUnsupported, "raw stream must be readable and writable")
	}

	cfg := newConfig(raw, opts)
	reader, err := newBufferedReader(raw, bufferSize, cfg)

	if err != nil {
		return nil, err
	}

	writer, err := newBufferedWriter(raw, bufferSize, cfg)

	if err != nil {
		return nil, err
	}

	return &BufferedRandom{raw: raw, reader: reader, writer: writer, cfg: cfg}, nil
}

func (this *BufferedRandom) check() error {
	if this.raw == nil {
		return layerio.ErrDetached
	}

	if this.raw.Closed() == true {
		return layerio.ErrClosed
	}

	return nil
}

// undoReadAhead rewinds the raw stream by the unconsumed read-ahead and
// drops the read buffer
func (this *BufferedRandom) undoReadAhead() error {
	r := this.reader
	r.lock.Lock()
	defer r.lock.Unlock()

	if len(r.readBuf) == 0 {
		return nil
	}

	if _, err := this.raw.Seek(int64(r.readPos-len(r.readBuf)), layerio.SEEK_CUR); err != nil {
		return err
	}

	r.resetReadBuf()
	return nil
}

// ReadN flushes pending writes then reads up to n bytes
func (this *BufferedRandom) ReadN(n int) ([]byte, error) {
	if err := this.Flush(); err != nil {
		return nil, err
	}

	return this.reader.ReadN(n)
}

// ReadAll flushes pending writes then reads all the remaining bytes
func (this *BufferedRandom) ReadAll() ([]byte, error) {
	if err := this.Flush(); err != nil {
		return nil, err
	}

	return this.reader.ReadAll()
}

// Read flushes pending writes then reads up to len(p) bytes into p
func (this *BufferedRandom) Read(p []byte) (int, error) {
	if err := this.Flush(); err != nil {
		return 0, err
	}

	return this.reader.Read(p)
}

// Peek flushes pending writes then returns buffered bytes without
// advancing the position
func (this *BufferedRandom) Peek(n int) ([]byte, error) {
	if err := this.Flush(); err != nil {
		return nil, err
	}

	return this.reader.Peek(n)
}

// Read1 flushes pending writes then reads up to n bytes with at most one raw read
func (this *BufferedRandom) Read1(n int) ([]byte, error) {
	if err := this.Flush(); err != nil {
		return nil, err
	}

	return this.reader.Read1(n)
}

// ReadLine flushes pending writes then reads one line
func (this *BufferedRandom) ReadLine(limit int) ([]byte, error) {
	if err := this.Flush(); err != nil {
		return nil, err
	}

	return this.reader.ReadLine(limit)
}

// Write undoes the read-ahead then buffers p
func (this *BufferedRandom) Write(p []byte) (int, error) {
	if err := this.check(); err != nil {
		return 0, err
	}

	if err := this.undoReadAhead(); err != nil {
		return 0, err
	}

	return this.writer.Write(p)
}

// Flush writes the pending data to the raw stream
func (this *BufferedRandom) Flush() error {
	if err := this.check(); err != nil {
		return err
	}

	return this.writer.Flush()
}

// Seek flushes pending writes then repositions the raw stream, accounting
// for the read-ahead. Both buffers are empty afterwards. On failure the
// position and the read-ahead are unchanged.
func (this *BufferedRandom) Seek(pos int64, whence int) (int64, error) {
	if err := checkWhence(whence); err != nil {
		return 0, err
	}

	if err := this.Flush(); err != nil {
		return 0, err
	}

	r := this.reader
	r.lock.Lock()
	defer r.lock.Unlock()

	// One raw seek: the read buffer is only dropped once it succeeded
	if whence == layerio.SEEK_CUR {
		pos -= int64(len(r.readBuf) - r.readPos)
	}

	newPos, err := this.raw.Seek(pos, whence)

	if err != nil {
		return 0, err
	}

	r.resetReadBuf()

	if newPos < 0 {
		return 0, layerio.NewIOError("Seek returned an invalid position", layerio.ERR_INVALID_RESULT)
	}

	this.cfg.notify(layerio.EVT_SEEK, 0, newPos)
	return newPos, nil
}

// Tell returns the logical position
func (this *BufferedRandom) Tell() (int64, error) {
	if err := this.check(); err != nil {
		return 0, err
	}

	w := this.writer
	w.lock.Lock()

	if len(w.writeBuf) > 0 {
		defer w.lock.Unlock()
		return w.tellUnlocked()
	}

	w.lock.Unlock()
	return this.reader.Tell()
}

// Truncate resizes the stream. A negative size means 'current position'.
// The position is not changed.
func (this *BufferedRandom) Truncate(size int64) (int64, error) {
	if err := this.check(); err != nil {
		return 0, err
	}

	if size < 0 {
		var err error

		if size, err = this.Tell(); err != nil {
			return 0, err
		}
	}

	if err := this.Flush(); err != nil {
		return 0, err
	}

	if err := this.undoReadAhead(); err != nil {
		return 0, err
	}

	return this.writer.Truncate(size)
}

// Close flushes pending writes then closes the raw stream
func (this *BufferedRandom) Close() error {
	if this.raw == nil {
		return nil
	}

	err := this.writer.Close()
	this.reader.lock.Lock()
	this.reader.resetReadBuf()
	this.reader.lock.Unlock()
	return err
}

// Detach flushes pending writes, undoes the read-ahead and returns the raw
// stream. The buffered stream is unusable afterwards.
func (this *BufferedRandom) Detach() (layerio.RawStream, error) {
	if err := this.Flush(); err != nil {
		return nil, err
	}

	if err := this.undoReadAhead(); err != nil {
		return nil, err
	}

	raw := this.raw
	this.reader.Detach()
	this.writer.Detach()
	this.raw = nil
	return raw, nil
}

// Raw returns the underlying raw stream (nil once detached)
func (this *BufferedRandom) Raw() layerio.RawStream {
	return this.raw
}

// Closed returns true once the raw stream is closed
func (this *BufferedRandom) Closed() bool {
	return this.raw != nil && this.raw.Closed()
}

// Readable returns true
func (this *BufferedRandom) Readable() bool {
	return this.raw != nil && this.raw.Readable()
}

// Writable returns true
func (this *BufferedRandom) Writable() bool {
	return this.raw != nil && this.raw.Writable()
}

// Seekable returns true
func (this *BufferedRandom) Seekable() bool {
	return this.raw != nil && this.raw.Seekable()
}

// Fileno delegates to the raw stream
func (this *BufferedRandom) Fileno() (int, error) {
	if err := this.check(); err != nil {
		return -1, err
	}

	return this.raw.Fileno()
}

// IsATTY delegates to the raw stream
func (this *BufferedRandom) IsATTY() (bool, error) {
	if err := this.check(); err != nil {
		return false, err
	}

	return this.raw.IsATTY()
}

// Name returns the name of the stream
func (this *BufferedRandom) Name() string {
	return this.cfg.name
}

// AddListener adds an event listener to this stream.
// Returns true if the listener has been added.
func (this *BufferedRandom) AddListener(bl layerio.Listener) bool {
	return this.cfg.listeners.AddListener(bl)
}

// RemoveListener removes an event listener from this stream.
// Returns true if the listener has been removed.
func (this *BufferedRandom) RemoveListener(bl layerio.Listener) bool {
	return this.cfg.listeners.RemoveListener(bl)
}
