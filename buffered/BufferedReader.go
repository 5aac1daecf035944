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
	"bytes"
	"io"
	"sync"

	layerio "github.com/layerio/layerio"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// BufferedReader a buffered stream over a readable raw stream.
// Requests are served from an internal buffer refilled from the raw stream
// on underrun. All the entry points are serialized by one mutex.
type BufferedReader struct {
	raw        layerio.RawStream
	bufferSize int
	readBuf    []byte
	readPos    int // 0 <= readPos <= len(readBuf)
	lock       sync.Mutex
	cfg        *config
}

// NewBufferedReader creates a new instance of BufferedReader with a buffer
// of bufferSize bytes (layerio.DEFAULT_BUFFER_SIZE if 0).
func NewBufferedReader(raw layerio.RawStream, bufferSize int, opts ...Option) (*BufferedReader, error) {
	if raw == nil {
		return nil, layerio.NewIOError("Invalid null raw stream parameter", layerio.ERR_INVALID_PARAM)
	}

	if raw.Readable() == false {
		return nil, errors.Wrap(layerio.ErrUnsupported, "raw stream must be readable")
	}

	return newBufferedReader(raw, bufferSize, newConfig(raw, opts))
}

func newBufferedReader(raw layerio.RawStream, bufferSize int, cfg *config) (*BufferedReader, error) {
	if bufferSize == 0 {
		bufferSize = layerio.DEFAULT_BUFFER_SIZE
	}

	if bufferSize < 0 {
		return nil, layerio.NewIOError("Invalid buffer size", layerio.ERR_INVALID_PARAM)
	}

	this := &BufferedReader{raw: raw, bufferSize: bufferSize, cfg: cfg}
	this.resetReadBuf()
	return this, nil
}

func (this *BufferedReader) resetReadBuf() {
	this.readBuf = nil
	this.readPos = 0
}

func (this *BufferedReader) check() error {
	if this.raw == nil {
		return layerio.ErrDetached
	}

	if this.raw.Closed() == true {
		return layerio.ErrClosed
	}

	return nil
}

// rawRead performs one raw read into p, retrying interrupted calls
func (this *BufferedReader) rawRead(p []byte) (int, error) {
	for {
		n, err := this.raw.Read(p)

		if layerio.IsInterrupted(err) == true {
			this.cfg.notify(layerio.EVT_RETRY, 0, -1)
			continue
		}

		if n > 0 {
			this.cfg.notify(layerio.EVT_REFILL, int64(n), -1)
			this.cfg.trace("raw read", zap.Int("requested", len(p)), zap.Int("read", n))
		}

		return n, err
	}
}

// ReadN returns up to n bytes. If n is negative, the raw stream is read until
// the end of file (or until it would block) and all the data is returned.
// Otherwise raw reads of max(bufferSize, n) bytes are issued until n bytes
// are available or the raw stream signals the end of file.
// Returns (empty, io.EOF) when no data remains and (empty, ErrWouldBlock)
// when no data is available without blocking.
func (this *BufferedReader) ReadN(n int) ([]byte, error) {
	if err := this.check(); err != nil {
		return nil, err
	}

	this.lock.Lock()
	defer this.lock.Unlock()
	return this.readUnlocked(n)
}

// ReadAll returns all the remaining bytes
func (this *BufferedReader) ReadAll() ([]byte, error) {
	res, err := this.ReadN(-1)

	if err == io.EOF {
		return res, nil
	}

	return res, err
}

func (this *BufferedReader) readUnlocked(n int) ([]byte, error) {
	buf := this.readBuf
	pos := this.readPos

	if n < 0 {
		res := make([]byte, 0, len(buf)-pos+this.bufferSize)
		res = append(res, buf[pos:]...)
		this.resetReadBuf()
		var nodata error = io.EOF

		for {
			if cap(res)-len(res) < this.bufferSize {
				res = append(res, make([]byte, this.bufferSize)...)[:len(res)]
			}

			k, err := this.rawRead(res[len(res):cap(res)])
			res = res[:len(res)+k]

			if err == nil {
				continue
			}

			if err == io.EOF {
				break
			}

			if layerio.IsWouldBlock(err) == true {
				nodata = layerio.ErrWouldBlock
				break
			}

			// Keep what was read for the next call
			this.readBuf = res
			return nil, err
		}

		if len(res) == 0 {
			return res, nodata
		}

		return res, nil
	}

	avail := len(buf) - pos

	if n <= avail {
		// Fast path: the data to read is fully buffered
		this.readPos += n
		return buf[pos : pos+n : pos+n], nil
	}

	// Slow path: read from the raw stream until enough bytes are available,
	// or until an end of file occurs or until the read would block
	wanted := this.bufferSize

	if n > wanted {
		wanted = n
	}

	out := make([]byte, avail, avail+wanted)
	copy(out, buf[pos:])
	var nodata error = io.EOF

	for avail < n {
		if cap(out)-len(out) < wanted {
			out = append(out, make([]byte, wanted)...)[:len(out)]
		}

		k, err := this.rawRead(out[len(out) : len(out)+wanted])
		out = out[:len(out)+k]
		avail += k

		if err == nil {
			continue
		}

		if err == io.EOF {
			break
		}

		if layerio.IsWouldBlock(err) == true {
			nodata = layerio.ErrWouldBlock
			break
		}

		this.readBuf = out
		this.readPos = 0
		return nil, err
	}

	// n is more than avail only when an end of file occurred or when
	// the read would have blocked
	if n > avail {
		n = avail
	}

	this.readBuf = out[n:]
	this.readPos = 0

	if len(out) == 0 {
		return out, nodata
	}

	return out[:n:n], nil
}

// Read reads up to len(p) bytes into p (readinto semantics: the raw stream
// is read until p is full or the end of file is reached).
func (this *BufferedReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, this.check()
	}

	data, err := this.ReadN(len(p))
	return copy(p, data), err
}

// Peek returns buffered bytes without advancing the position. At most one
// raw read is performed to top up the buffer and the result never holds
// more than one buffer worth of data beyond what was already buffered.
func (this *BufferedReader) Peek(n int) ([]byte, error) {
	if err := this.check(); err != nil {
		return nil, err
	}

	this.lock.Lock()
	defer this.lock.Unlock()
	return this.peekUnlocked(n)
}

func (this *BufferedReader) peekUnlocked(n int) ([]byte, error) {
	want := n

	if want > this.bufferSize {
		want = this.bufferSize
	}

	have := len(this.readBuf) - this.readPos
	var rerr error

	if have < want || have <= 0 {
		toRead := this.bufferSize - have

		if toRead > 0 {
			buf := make([]byte, have, have+toRead)
			copy(buf, this.readBuf[this.readPos:])
			k, err := this.rawRead(buf[have : have+toRead])

			if k > 0 {
				this.readBuf = buf[:have+k]
				this.readPos = 0
			}

			rerr = err
		}
	}

	res := this.readBuf[this.readPos:len(this.readBuf):len(this.readBuf)]

	if rerr != nil && rerr != io.EOF && layerio.IsWouldBlock(rerr) == false {
		return res, rerr
	}

	if len(res) == 0 && rerr != nil {
		return res, rerr
	}

	return res, nil
}

// Read1 returns up to n bytes with at most one raw read
func (this *BufferedReader) Read1(n int) ([]byte, error) {
	if n < 0 {
		return nil, layerio.NewIOError("Number of bytes to read must be positive", layerio.ERR_INVALID_PARAM)
	}

	if err := this.check(); err != nil {
		return nil, err
	}

	if n == 0 {
		return []byte{}, nil
	}

	this.lock.Lock()
	defer this.lock.Unlock()

	if _, err := this.peekUnlocked(1); err != nil {
		return nil, err
	}

	avail := len(this.readBuf) - this.readPos

	if n > avail {
		n = avail
	}

	return this.readUnlocked(n)
}

// ReadLine reads up to and including the next '\n'. If limit is not
// negative, at most limit bytes are returned.
// Returns (empty, io.EOF) at the end of the stream.
func (this *BufferedReader) ReadLine(limit int) ([]byte, error) {
	if err := this.check(); err != nil {
		return nil, err
	}

	this.lock.Lock()
	defer this.lock.Unlock()
	var res []byte

	for limit < 0 || len(res) < limit {
		readahead, err := this.peekUnlocked(1)

		if len(readahead) == 0 {
			if len(res) == 0 && err != nil {
				return []byte{}, err
			}

			if err != nil && err != io.EOF && layerio.IsWouldBlock(err) == false {
				return res, err
			}

			break
		}

		k := bytes.IndexByte(readahead, '\n') + 1

		if k == 0 {
			k = len(readahead)
		}

		if limit >= 0 && k > limit-len(res) {
			k = limit - len(res)
		}

		b, _ := this.readUnlocked(k)
		res = append(res, b...)

		if len(res) > 0 && res[len(res)-1] == '\n' {
			break
		}
	}

	if res == nil {
		res = []byte{}
	}

	return res, nil
}

// Seek repositions the stream and discards the read-ahead. Relative seeks
// account for the buffered data not consumed yet.
func (this *BufferedReader) Seek(pos int64, whence int) (int64, error) {
	if err := checkWhence(whence); err != nil {
		return 0, err
	}

	if err := this.check(); err != nil {
		return 0, err
	}

	this.lock.Lock()
	defer this.lock.Unlock()

	if whence == layerio.SEEK_CUR {
		pos -= int64(len(this.readBuf) - this.readPos)
	}

	newPos, err := this.raw.Seek(pos, whence)

	if err != nil {
		return 0, err
	}

	if newPos < 0 {
		return 0, layerio.NewIOError("Seek returned an invalid position", layerio.ERR_INVALID_RESULT)
	}

	this.resetReadBuf()
	this.cfg.notify(layerio.EVT_SEEK, 0, newPos)
	return newPos, nil
}

// Tell returns the logical position: the raw position minus the buffered
// data not consumed yet.
func (this *BufferedReader) Tell() (int64, error) {
	if err := this.check(); err != nil {
		return 0, err
	}

	this.lock.Lock()
	defer this.lock.Unlock()
	return this.tellUnlocked()
}

func (this *BufferedReader) tellUnlocked() (int64, error) {
	pos, err := this.raw.Tell()

	if err != nil {
		return 0, err
	}

	if pos < 0 {
		return 0, layerio.NewIOError("Tell returned an invalid position", layerio.ERR_INVALID_RESULT)
	}

	pos -= int64(len(this.readBuf) - this.readPos)

	if pos < 0 {
		pos = 0
	}

	return pos, nil
}

// Truncate delegates to the raw stream. A negative size means 'current position'.
func (this *BufferedReader) Truncate(size int64) (int64, error) {
	if err := this.check(); err != nil {
		return 0, err
	}

	if size < 0 {
		var err error

		if size, err = this.Tell(); err != nil {
			return 0, err
		}
	}

	res, err := this.raw.Truncate(size)

	if err == nil {
		this.cfg.notify(layerio.EVT_TRUNCATE, res, -1)
	}

	return res, err
}

// Flush delegates to the raw stream
func (this *BufferedReader) Flush() error {
	if err := this.check(); err != nil {
		return err
	}

	return this.raw.Flush()
}

// Close closes the raw stream. Calling Close twice is a no-op.
func (this *BufferedReader) Close() error {
	if this.raw == nil || this.raw.Closed() == true {
		return nil
	}

	this.lock.Lock()
	defer this.lock.Unlock()
	this.resetReadBuf()
	this.cfg.notify(layerio.EVT_CLOSE, 0, -1)
	return this.raw.Close()
}

// Detach separates the raw stream from the buffer and returns it.
// The buffered reader is unusable afterwards.
func (this *BufferedReader) Detach() (layerio.RawStream, error) {
	if this.raw == nil {
		return nil, layerio.ErrDetached
	}

	this.lock.Lock()
	defer this.lock.Unlock()
	raw := this.raw
	this.raw = nil
	this.resetReadBuf()
	return raw, nil
}

// Raw returns the underlying raw stream (nil once detached)
func (this *BufferedReader) Raw() layerio.RawStream {
	return this.raw
}

// Closed returns true once the raw stream is closed
func (this *BufferedReader) Closed() bool {
	return this.raw != nil && this.raw.Closed()
}

// Readable returns true
func (this *BufferedReader) Readable() bool {
	return this.raw != nil && this.raw.Readable()
}

// Writable returns false
func (this *BufferedReader) Writable() bool {
	return false
}

// Write is not supported by a reader
func (this *BufferedReader) Write(p []byte) (int, error) {
	if err := this.check(); err != nil {
		return 0, err
	}

	return 0, errors.Wrap(layerio.ErrUnsupported, "write")
}

// Seekable delegates to the raw stream
func (this *BufferedReader) Seekable() bool {
	return this.raw != nil && this.raw.Seekable()
}

// Fileno delegates to the raw stream
func (this *BufferedReader) Fileno() (int, error) {
	if err := this.check(); err != nil {
		return -1, err
	}

	return this.raw.Fileno()
}

// IsATTY delegates to the raw stream
func (this *BufferedReader) IsATTY() (bool, error) {
	if err := this.check(); err != nil {
		return false, err
	}

	return this.raw.IsATTY()
}

// BufferSize returns the size of the internal buffer
func (this *BufferedReader) BufferSize() int {
	return this.bufferSize
}

// Name returns the name of the stream
func (this *BufferedReader) Name() string {
	return this.cfg.name
}

// AddListener adds an event listener to this reader.
// Returns true if the listener has been added.
func (this *BufferedReader) AddListener(bl layerio.Listener) bool {
	return this.cfg.listeners.AddListener(bl)
}

// RemoveListener removes an event listener from this reader.
// Returns true if the listener has been removed.
func (this *BufferedReader) RemoveListener(bl layerio.Listener) bool {
	return this.cfg.listeners.RemoveListener(bl)
}
