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

package layerio

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	ERR_UNSUPPORTED    = 1
	ERR_CLOSED         = 2
	ERR_WOULD_BLOCK    = 3
	ERR_INTERRUPTED    = 4
	ERR_DECODE         = 5
	ERR_ENCODE         = 6
	ERR_POSITION       = 7
	ERR_LOGIC          = 8
	ERR_INVALID_PARAM  = 9
	ERR_TELL_DISABLED  = 10
	ERR_NOT_TEXT       = 11
	ERR_INVALID_RESULT = 12
	ERR_DETACHED       = 13
	ERR_UNKNOWN        = 127
)

var (
	// ErrUnsupported is returned when a capability was not requested at open time
	ErrUnsupported = NewIOError("Unsupported operation", ERR_UNSUPPORTED)

	// ErrClosed is returned by any operation on a closed stream
	ErrClosed = NewIOError("I/O operation on closed stream", ERR_CLOSED)

	// ErrWouldBlock is returned by a non blocking raw stream when the operation
	// cannot make progress without waiting. It is not a failure: retry later.
	ErrWouldBlock = NewIOError("Operation would block", ERR_WOULD_BLOCK)

	// ErrInterrupted reports a transient interrupted system call. Buffered
	// streams retry it transparently.
	ErrInterrupted = NewIOError("Interrupted system call", ERR_INTERRUPTED)

	// ErrContract reports a raw stream breaking the raw stream contract
	ErrContract = NewIOError("Raw stream contract violation", ERR_LOGIC)

	// ErrTellDisabled is returned by a text stream position request made
	// while iterating by line
	ErrTellDisabled = NewIOError("Telling position disabled by Next() call", ERR_TELL_DISABLED)

	// ErrPositionLost is returned when a text position cannot be reconstructed
	ErrPositionLost = NewIOError("Cannot reconstruct logical file position", ERR_POSITION)

	// ErrDetached is returned by streams whose underlying stream was detached
	ErrDetached = NewIOError("Underlying stream has been detached", ERR_DETACHED)

	// ErrNotText is returned when bytes that are not valid character data
	// are written to a text stream
	ErrNotText = NewIOError("Text stream requires character data (valid UTF-8)", ERR_NOT_TEXT)
)

// IOError an extended error containing a message and a code value
type IOError struct {
	msg  string
	code int
}

// NewIOError creates a new instance of IOError
func NewIOError(msg string, code int) *IOError {
	return &IOError{msg: msg, code: code}
}

// Error returns the underlying error
func (this IOError) Error() string {
	return fmt.Sprintf("%v (code %v)", this.msg, this.code)
}

// Message returns the message string associated with the error
func (this IOError) Message() string {
	return this.msg
}

// ErrorCode returns the code value associated with the error
func (this IOError) ErrorCode() int {
	return this.code
}

// Is makes errors.Is match any IOError carrying the same code
func (this *IOError) Is(target error) bool {
	if t, ok := target.(*IOError); ok == true {
		return t.code == this.code
	}

	return false
}

// BlockingIOError is returned by a buffered writer when data could not be
// written without blocking. Written is the exact number of bytes of the
// caller's data that were accepted (buffered or written).
type BlockingIOError struct {
	Written int
}

// Error returns the underlying error
func (this *BlockingIOError) Error() string {
	return fmt.Sprintf("Write could not complete without blocking (%d bytes written) (code %v)",
		this.Written, ERR_WOULD_BLOCK)
}

// Is makes errors.Is(err, ErrWouldBlock) true for a BlockingIOError
func (this *BlockingIOError) Is(target error) bool {
	if t, ok := target.(*IOError); ok == true {
		return t.code == ERR_WOULD_BLOCK
	}

	return false
}

// ErrorCode returns ERR_WOULD_BLOCK
func (this *BlockingIOError) ErrorCode() int {
	return ERR_WOULD_BLOCK
}

// ErrorCode extracts the code of an error produced by this module.
// Returns ERR_UNKNOWN for foreign errors and 0 for nil.
func ErrorCode(err error) int {
	if err == nil {
		return 0
	}

	var coded interface{ ErrorCode() int }

	if errors.As(err, &coded) == true {
		return coded.ErrorCode()
	}

	return ERR_UNKNOWN
}

// IsInterrupted returns true for a transient interrupted system call
func IsInterrupted(err error) bool {
	return err != nil && errors.Is(err, ErrInterrupted)
}

// IsWouldBlock returns true when err signals a would-block condition
func IsWouldBlock(err error) bool {
	return err != nil && errors.Is(err, ErrWouldBlock)
}
