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

package memio

import (
	"github.com/layerio/layerio/text"
)

// StringIO an in-memory text stream: a TextWrapper encoding to UTF-8 into
// a BytesIO
type StringIO struct {
	*text.TextWrapper
	bytes *BytesIO
}

// NewStringIO creates a new instance of StringIO holding initial, the
// position being set to the start. The newline mode is one of the
// text.NEWLINE_* values (text.NEWLINE_LF is the usual choice).
// In universal mode, "\n" is not translated on output.
func NewStringIO(initial string, newline int) (*StringIO, error) {
	b := NewBytesIO(nil)
	cfg := text.TextConfig{
		Encoding:         "utf-8",
		Errors:           text.ERRORS_STRICT,
		Newline:          newline,
		NoWriteTranslate: newline == text.NEWLINE_UNIVERSAL,
	}

	tw, err := text.NewTextWrapper(b, cfg)

	if err != nil {
		return nil, err
	}

	this := &StringIO{TextWrapper: tw, bytes: b}

	if len(initial) > 0 {
		if _, err := this.WriteString(initial); err != nil {
			return nil, err
		}

		if _, err := this.Seek(text.Cookie{}, 0); err != nil {
			return nil, err
		}
	}

	return this, nil
}

// GetValue returns the whole content of the stream, whatever the position
func (this *StringIO) GetValue() (string, error) {
	if err := this.Flush(); err != nil {
		return "", err
	}

	data, err := this.bytes.GetValue()

	if err != nil {
		return "", err
	}

	return this.DecodeAll(data)
}
