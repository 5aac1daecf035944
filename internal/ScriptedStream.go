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

// ReadStep one scripted result of a raw read. A step with no data and no
// error is a would-block.
type ReadStep struct {
	Data []byte
	Err  error
}

// WriteStep one scripted result of a raw write. Accept is the maximum number
// of bytes accepted by the call (negative means everything). Err, if set,
// is returned instead.
type WriteStep struct {
	Accept int
	Err    error
}

// ScriptedStream a non seekable raw stream replaying scripted results.
// Once the read script is exhausted, reads return io.EOF. Once the write
// script is exhausted, writes accept everything.
type ScriptedStream struct {
	reads      []ReadStep
	writes     []WriteStep
	closed     bool
	Written    []byte
	ReadCalls  int
	WriteCalls int
}

// NewScriptedStream creates a new instance of ScriptedStream
func NewScriptedStream(reads []ReadStep, writes []WriteStep) *ScriptedStream {
	return &ScriptedStream{reads: reads, writes: writes}
}

// Chunks builds a read script returning each chunk in turn. A nil chunk
// is a would-block.
func Chunks(chunks ...[]byte) []ReadStep {
	res := make([]ReadStep, len(chunks))

	for i := range chunks {
		res[i] = ReadStep{Data: chunks[i]}
	}

	return res
}

// Read replays the next read step
func (this *ScriptedStream) Read(p []byte) (int, error) {
	if this.closed == true {
		return 0, layerio.ErrClosed
	}

	this.ReadCalls++

	if len(this.reads) == 0 {
		return 0, io.EOF
	}

	step := &this.reads[0]

	if step.Err != nil {
		err := step.Err
		this.reads = this.reads[1:]
		return 0, err
	}

	if step.Data == nil {
		this.reads = this.reads[1:]
		return 0, layerio.ErrWouldBlock
	}

	n := copy(p, step.Data)
	step.Data = step.Data[n:]

	if len(step.Data) == 0 {
		this.reads = this.reads[1:]
	}

	return n, nil
}

// Write replays the next write step
func (this *ScriptedStream) Write(p []byte) (int, error) {
	if this.closed == true {
		return 0, layerio.ErrClosed
	}

	this.WriteCalls++
	n := len(p)

	if len(this.writes) > 0 {
		step := this.writes[0]
		this.writes = this.writes[1:]

		if step.Err != nil {
			return 0, step.Err
		}

		if step.Accept >= 0 && step.Accept < n {
			this.Written = append(this.Written, p[:step.Accept]...)
			return step.Accept, layerio.ErrWouldBlock
		}
	}

	this.Written = append(this.Written, p...)
	return n, nil
}

// Seek is not supported
func (this *ScriptedStream) Seek(offset int64, whence int) (int64, error) {
	return 0, layerio.ErrUnsupported
}

// Tell is not supported
func (this *ScriptedStream) Tell() (int64, error) {
	return 0, layerio.ErrUnsupported
}

// Truncate is not supported
func (this *ScriptedStream) Truncate(size int64) (int64, error) {
	return 0, layerio.ErrUnsupported
}

// Close marks the stream closed
func (this *ScriptedStream) Close() error {
	this.closed = true
	return nil
}

// Closed returns true once Close has been called
func (this *ScriptedStream) Closed() bool {
	return this.closed
}

// Readable returns true
func (this *ScriptedStream) Readable() bool {
	return true
}

// Writable returns true
func (this *ScriptedStream) Writable() bool {
	return true
}

// Seekable returns false
func (this *ScriptedStream) Seekable() bool {
	return false
}

// Flush does nothing
func (this *ScriptedStream) Flush() error {
	return nil
}

// Fileno is not supported
func (this *ScriptedStream) Fileno() (int, error) {
	return -1, layerio.ErrUnsupported
}

// IsATTY always returns false
func (this *ScriptedStream) IsATTY() (bool, error) {
	return false, nil
}
