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
	"sync"

	layerio "github.com/layerio/layerio"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// BufferedWriter a buffered stream over a writable raw stream.
// Writes are accumulated in an internal buffer and pushed to the raw stream
// when the buffer exceeds its size, on Flush, on Close or before a Seek.
type BufferedWriter struct {
	raw        layerio.RawStream
	bufferSize int
	writeBuf   []byte
	lock       sync.Mutex
	cfg        *config
}

// NewBufferedWriter creates a new instance of BufferedWriter with a buffer
// of bufferSize bytes (layerio.DEFAULT_BUFFER_SIZE if 0).
func NewBufferedWriter(raw layerio.RawStream, bufferSize int, opts ...Option) (*BufferedWriter, error) {
	if raw == nil {
		return nil, layerio.NewIOError("Invalid null raw stream parameter", layerio.ERR_INVALID_PARAM)
	}

	if raw.Writable() == false {
		return nil, errors.Wrap(layerio.ErrUnsupported, "raw stream must be writable")
	}

	return newBufferedWriter(raw, bufferSize, newConfig(raw, opts))
}

func newBufferedWriter(raw layerio.RawStream, bufferSize int, cfg *config) (*BufferedWriter, error) {
	if bufferSize == 0 {
		bufferSize = layerio.DEFAULT_BUFFER_SIZE
	}

	if bufferSize < 0 {
		return nil, layerio.NewIOError("Invalid buffer size", layerio.ERR_INVALID_PARAM)
	}

	this := &BufferedWriter{raw: raw, bufferSize: bufferSize, cfg: cfg}
	this.writeBuf = make([]byte, 0, bufferSize)
	return this, nil
}

func (this *BufferedWriter) check() error {
	if this.raw == nil {
		return layerio.ErrDetached
	}

	if this.raw.Closed() == true {
		return layerio.ErrClosed
	}

	return nil
}

// Write appends p to the internal buffer, flushing when the buffer size is
// exceeded. If the raw stream cannot accept the data without blocking, the
// buffer is cut back to its size and a *layerio.BlockingIOError reports how
// many bytes of p were accepted. Accepted bytes are kept for the next flush.
// If the flush fails for another reason, p stays buffered and the error is
// returned with len(p).
func (this *BufferedWriter) Write(p []byte) (int, error) {
	if err := this.check(); err != nil {
		return 0, err
	}

	this.lock.Lock()
	defer this.lock.Unlock()

	if len(this.writeBuf) > this.bufferSize {
		// We're full, so let's pre-flush the buffer (this may return a
		// BlockingIOError with 0 bytes written)
		if err := this.flushUnlocked(); err != nil {
			return 0, err
		}
	}

	this.writeBuf = append(this.writeBuf, p...)
	written := len(p)

	if len(this.writeBuf) > this.bufferSize {
		err := this.flushUnlocked()
		var blocking *layerio.BlockingIOError

		if errors.As(err, &blocking) == true {
			if len(this.writeBuf) > this.bufferSize {
				// We've hit the buffer size. We have to accept a partial
				// write and cut back our buffer.
				overage := len(this.writeBuf) - this.bufferSize
				written -= overage
				this.writeBuf = this.writeBuf[:this.bufferSize]
				this.cfg.notify(layerio.EVT_PARTIAL_WRITE, int64(written), -1)
				this.cfg.trace("partial write", zap.Int("requested", len(p)), zap.Int("accepted", written))
				return written, &layerio.BlockingIOError{Written: written}
			}
		} else if err != nil {
			return written, err
		}
	}

	return written, nil
}

// Flush writes the whole internal buffer to the raw stream
func (this *BufferedWriter) Flush() error {
	if err := this.check(); err != nil {
		return err
	}

	this.lock.Lock()
	defer this.lock.Unlock()
	return this.flushUnlocked()
}

func (this *BufferedWriter) flushUnlocked() error {
	for len(this.writeBuf) > 0 {
		n, err := this.raw.Write(this.writeBuf)
		var blocking *layerio.BlockingIOError

		if errors.As(err, &blocking) == true {
			// A raw stream never reports a partial write this way
			return errors.Wrap(layerio.ErrContract, "raw stream returned a BlockingIOError")
		}

		if n < 0 || n > len(this.writeBuf) {
			return errors.Wrapf(layerio.NewIOError("Raw write returned an invalid length", layerio.ERR_INVALID_RESULT),
				"%d bytes written out of %d", n, len(this.writeBuf))
		}

		if n > 0 {
			this.writeBuf = this.writeBuf[n:]
			this.cfg.notify(layerio.EVT_FLUSH, int64(n), -1)
			this.cfg.trace("raw write", zap.Int("written", n), zap.Int("pending", len(this.writeBuf)))
		}

		if err == nil {
			continue
		}

		if layerio.IsInterrupted(err) == true {
			this.cfg.notify(layerio.EVT_RETRY, 0, -1)
			continue
		}

		if layerio.IsWouldBlock(err) == true {
			this.cfg.notify(layerio.EVT_PARTIAL_WRITE, int64(n), -1)
			return &layerio.BlockingIOError{Written: 0}
		}

		return err
	}

	if cap(this.writeBuf) < this.bufferSize {
		this.writeBuf = make([]byte, 0, this.bufferSize)
	} else {
		this.writeBuf = this.writeBuf[:0]
	}

	return nil
}

// Pending returns the number of bytes buffered and not written yet
func (this *BufferedWriter) Pending() int {
	this.lock.Lock()
	defer this.lock.Unlock()
	return len(this.writeBuf)
}

// Tell returns the raw position plus the buffered data
func (this *BufferedWriter) Tell() (int64, error) {
	if err := this.check(); err != nil {
		return 0, err
	}

	this.lock.Lock()
	defer this.lock.Unlock()
	return this.tellUnlocked()
}

func (this *BufferedWriter) tellUnlocked() (int64, error) {
	pos, err := this.raw.Tell()

	if err != nil {
		return 0, err
	}

	if pos < 0 {
		return 0, layerio.NewIOError("Tell returned an invalid position", layerio.ERR_INVALID_RESULT)
	}

	return pos + int64(len(this.writeBuf)), nil
}

// Seek flushes the buffered data then repositions the raw stream
func (this *BufferedWriter) Seek(pos int64, whence int) (int64, error) {
	if err := checkWhence(whence); err != nil {
		return 0, err
	}

	if err := this.check(); err != nil {
		return 0, err
	}

	this.lock.Lock()
	defer this.lock.Unlock()

	if err := this.flushUnlocked(); err != nil {
		return 0, err
	}

	newPos, err := this.raw.Seek(pos, whence)

	if err != nil {
		return 0, err
	}

	if newPos < 0 {
		return 0, layerio.NewIOError("Seek returned an invalid position", layerio.ERR_INVALID_RESULT)
	}

	this.cfg.notify(layerio.EVT_SEEK, 0, newPos)
	return newPos, nil
}

// Truncate flushes the buffered data then resizes the raw stream.
// A negative size means 'current position'.
func (this *BufferedWriter) Truncate(size int64) (int64, error) {
	if err := this.check(); err != nil {
		return 0, err
	}

	this.lock.Lock()
	defer this.lock.Unlock()

	if err := this.flushUnlocked(); err != nil {
		return 0, err
	}

	if size < 0 {
		var err error

		if size, err = this.raw.Tell(); err != nil {
			return 0, err
		}
	}

	res, err := this.raw.Truncate(size)

	if err == nil {
		this.cfg.notify(layerio.EVT_TRUNCATE, res, -1)
	}

	return res, err
}

// Close flushes the buffered data then closes the raw stream. The raw
// stream is closed even if the flush fails. Calling Close twice is a no-op.
func (this *BufferedWriter) Close() error {
	this.lock.Lock()

	if this.raw == nil || this.raw.Closed() == true {
		this.lock.Unlock()
		return nil
	}

	this.lock.Unlock()
	err := this.Flush()

	this.lock.Lock()
	defer this.lock.Unlock()
	this.cfg.notify(layerio.EVT_CLOSE, 0, -1)

	if err != nil {
		this.cfg.logger.Warn("flush failed while closing", zap.String("stream", this.cfg.name), zap.Error(err))
	}

	return multierr.Append(err, this.raw.Close())
}

// Detach flushes the buffered data, separates the raw stream from the
// buffer and returns it. The buffered writer is unusable afterwards.
func (this *BufferedWriter) Detach() (layerio.RawStream, error) {
	if err := this.Flush(); err != nil {
		return nil, err
	}

	this.lock.Lock()
	defer this.lock.Unlock()
	raw := this.raw
	this.raw = nil
	return raw, nil
}

// Raw returns the underlying raw stream (nil once detached)
func (this *BufferedWriter) Raw() layerio.RawStream {
	return this.raw
}

// Closed returns true once the raw stream is closed
func (this *BufferedWriter) Closed() bool {
	return this.raw != nil && this.raw.Closed()
}

// Readable returns false
func (this *BufferedWriter) Readable() bool {
	return false
}

// Writable returns true
func (this *BufferedWriter) Writable() bool {
	return this.raw != nil && this.raw.Writable()
}

// Read is not supported by a writer
func (this *BufferedWriter) Read(p []byte) (int, error) {
	if err := this.check(); err != nil {
		return 0, err
	}

	return 0, errors.Wrap(layerio.ErrUnsupported, "read")
}

// ReadN is not supported by a writer
func (this *BufferedWriter) ReadN(n int) ([]byte, error) {
	_, err := this.Read(nil)
	return nil, err
}

// Read1 is not supported by a writer
func (this *BufferedWriter) Read1(n int) ([]byte, error) {
	_, err := this.Read(nil)
	return nil, err
}

// Seekable delegates to the raw stream
func (this *BufferedWriter) Seekable() bool {
	return this.raw != nil && this.raw.Seekable()
}

// Fileno delegates to the raw stream
func (this *BufferedWriter) Fileno() (int, error) {
	if err := this.check(); err != nil {
		return -1, err
	}

	return this.raw.Fileno()
}

// IsATTY delegates to the raw stream
func (this *BufferedWriter) IsATTY() (bool, error) {
	if err := this.check(); err != nil {
		return false, err
	}

	return this.raw.IsATTY()
}

// BufferSize returns the size of the internal buffer
func (this *BufferedWriter) BufferSize() int {
	return this.bufferSize
}

// Name returns the name of the stream
func (this *BufferedWriter) Name() string {
	return this.cfg.name
}

// AddListener adds an event listener to this writer.
// Returns true if the listener has been added.
func (this *BufferedWriter) AddListener(bl layerio.Listener) bool {
	return this.cfg.listeners.AddListener(bl)
}

// RemoveListener removes an event listener from this writer.
// Returns true if the listener has been removed.
func (this *BufferedWriter) RemoveListener(bl layerio.Listener) bool {
	return this.cfg.listeners.RemoveListener(bl)
}
