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
	"os"
	"strings"

	layerio "github.com/layerio/layerio"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Mode the access mode of a raw file, parsed from a mode string made of one
// of 'r', 'w', 'a', 'x', optionally followed by '+' and 'b'.
type Mode struct {
	Readable  bool
	Writable  bool
	Appending bool
	Created   bool
	Truncated bool
}

// ParseMode parses a mode string such as "r", "wb", "a+" or "x"
func ParseMode(mode string) (Mode, error) {
	var m Mode
	rwax := 0
	plus := false

	for _, c := range mode {
		switch c {
		case 'r':
			rwax++
			m.Readable = true

		case 'w':
			rwax++
			m.Writable = true
			m.Truncated = true

		case 'a':
			rwax++
			m.Writable = true
			m.Appending = true

		case 'x':
			rwax++
			m.Writable = true
			m.Created = true

		case '+':
			if plus == true {
				return m, invalidMode(mode)
			}

			plus = true
			m.Readable = true
			m.Writable = true

		case 'b':
			// Raw files are always binary

		default:
			return m, invalidMode(mode)
		}
	}

	if rwax != 1 || strings.Count(mode, "b") > 1 {
		return m, invalidMode(mode)
	}

	return m, nil
}

func invalidMode(mode string) error {
	return errors.Wrapf(layerio.NewIOError("Invalid mode", layerio.ERR_INVALID_PARAM),
		"mode %q must have exactly one of r/w/a/x and at most one '+'", mode)
}

// Flags returns the os.OpenFile flags matching the mode
func (this Mode) Flags() int {
	var flags int

	if this.Readable == true && this.Writable == true {
		flags = os.O_RDWR
	} else if this.Readable == true {
		flags = os.O_RDONLY
	} else {
		flags = os.O_WRONLY
	}

	if this.Truncated == true {
		flags |= os.O_CREATE | os.O_TRUNC
	}

	if this.Appending == true {
		flags |= os.O_APPEND | os.O_CREATE
	}

	if this.Created == true {
		flags |= os.O_EXCL | os.O_CREATE
	}

	return flags
}

// String returns the canonical mode string ("rb", "wb", "ab", "xb", "rb+" ...)
func (this Mode) String() string {
	if this.Created == true {
		if this.Readable == true {
			return "xb+"
		}

		return "xb"
	}

	if this.Appending == true {
		if this.Readable == true {
			return "ab+"
		}

		return "ab"
	}

	if this.Readable == true {
		if this.Writable == true {
			if this.Truncated == true {
				return "wb+"
			}

			return "rb+"
		}

		return "rb"
	}

	return "wb"
}

// Option a functional option applied when opening a raw file
type Option func(*options)

type options struct {
	nonBlocking bool
	perm        os.FileMode
	logger      *zap.Logger
}

func newOptions(opts []Option) *options {
	o := &options{perm: 0666, logger: zap.NewNop()}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// WithNonBlocking puts the file descriptor in non blocking mode
func WithNonBlocking() Option {
	return func(o *options) {
		o.nonBlocking = true
	}
}

// WithPerm sets the permission bits used when a file is created
func WithPerm(perm os.FileMode) Option {
	return func(o *options) {
		o.perm = perm
	}
}

// WithLogger sets the logger used to report open and close operations
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
