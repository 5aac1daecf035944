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
)

type truncater interface {
	Truncate(size int64) error
}

type fder interface {
	Fd() uintptr
}

// Adapter exposes any combination of io.Reader, io.Writer, io.Seeker and
// io.Closer as a raw stream. The capabilities are derived once from the
// interfaces implemented by the wrapped value.
type Adapter struct {
	r      io.Reader
	w      io.Writer
	s      io.Seeker
	c      io.Closer
	t      truncater
	f      fder
	name   string
	closed bool
}

// Wrap creates a raw stream adapter over v
func Wrap(v any, name string) *Adapter {
	this := &Adapter{name: name}
	this.r, _ = v.(io.Reader)
	this.w, _ = v.(io.Writer)
	this.s, _ = v.(io.Seeker)
	this.c, _ = v.(io.Closer)
	this.t, _ = v.(truncater)
	this.f, _ = v.(fder)
	return this
}

// Read performs one read on the wrapped reader. Data returned together with
// io.EOF is served first and the end of stream is reported on the next call.
// A (0, nil) result of the wrapped reader is reported as ErrWouldBlock.
func (this *Adapter) Read(p []byte) (int, error) {
	if err := layerio.CheckReadable(this); err != nil {
		return 0, err
	}

	if len(p) == 0 {
		return 0, nil
	}

	n, err := this.r.Read(p)

	if n > 0 {
		return n, nil
	}

	if err == nil {
		return 0, layerio.ErrWouldBlock
	}

	return 0, err
}

// Write performs one write on the wrapped writer
func (this *Adapter) Write(p []byte) (int, error) {
	if err := layerio.CheckWritable(this); err != nil {
		return 0, err
	}

	return this.w.Write(p)
}

// Seek delegates to the wrapped seeker
func (this *Adapter) Seek(offset int64, whence int) (int64, error) {
	if err := layerio.CheckSeekable(this); err != nil {
		return 0, err
	}

	return this.s.Seek(offset, whence)
}

// Tell returns the current offset of the wrapped seeker
func (this *Adapter) Tell() (int64, error) {
	return this.Seek(0, io.SeekCurrent)
}

// Truncate delegates to the wrapped value if it has a Truncate(int64) error method
func (this *Adapter) Truncate(size int64) (int64, error) {
	if err := layerio.CheckWritable(this); err != nil {
		return 0, err
	}

	if this.t == nil {
		return 0, errors.Wrap(layerio.ErrUnsupported, "truncate")
	}

	if err := this.t.Truncate(size); err != nil {
		return 0, err
	}

	return size, nil
}

// Close closes the wrapped value if it is an io.Closer
func (this *Adapter) Close() error {
	if this.closed == true {
		return nil
	}

	this.closed = true

	if this.c != nil {
		return this.c.Close()
	}

	return nil
}

// Closed returns true once Close has been called
func (this *Adapter) Closed() bool {
	return this.closed
}

// Readable returns true if the wrapped value is an io.Reader
func (this *Adapter) Readable() bool {
	return this.r != nil
}

// Writable returns true if the wrapped value is an io.Writer
func (this *Adapter) Writable() bool {
	return this.w != nil
}

// Seekable returns true if the wrapped value is an io.Seeker
func (this *Adapter) Seekable() bool {
	return this.s != nil
}

// Flush does nothing
func (this *Adapter) Flush() error {
	if this.closed == true {
		return layerio.ErrClosed
	}

	return nil
}

// Fileno returns the descriptor of the wrapped value if it has a Fd() method
func (this *Adapter) Fileno() (int, error) {
	if this.closed == true {
		return -1, layerio.ErrClosed
	}

	if this.f == nil {
		return -1, errors.Wrap(layerio.ErrUnsupported, "fileno")
	}

	return int(this.f.Fd()), nil
}

// IsATTY always returns false
func (this *Adapter) IsATTY() (bool, error) {
	if this.closed == true {
		return false, layerio.ErrClosed
	}

	return false, nil
}

// Name returns the name given at creation
func (this *Adapter) Name() string {
	return this.name
}
