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

// Package text provides character streams over buffered byte streams:
// a codec registry with incremental decoders and encoders, an incremental
// newline decoder and a text stream wrapper with universal newline support
// and opaque position cookies.
package text

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	layerio "github.com/layerio/layerio"
)

const (
	ERRORS_STRICT            = "strict"
	ERRORS_IGNORE            = "ignore"
	ERRORS_REPLACE           = "replace"
	ERRORS_BACKSLASHREPLACE  = "backslashreplace"
	ERRORS_XMLCHARREFREPLACE = "xmlcharrefreplace"

	DEFAULT_ENCODING = "utf-8"
)

// Decoder an incremental decoder. Bytes that do not form a complete
// character are kept pending until the next call (or until final is true).
type Decoder interface {
	// Decode converts input (appended to the pending bytes) to text.
	// When final is true, no input is kept pending.
	Decode(input []byte, final bool) (string, error)

	// State returns a copy of the pending bytes and the decoder flags
	State() ([]byte, uint64)

	// SetState restores a state returned by State
	SetState(pending []byte, flags uint64)

	// Reset clears the pending bytes and the flags
	Reset()
}

// Encoder an incremental encoder
type Encoder interface {
	// Encode converts s to bytes
	Encode(s string, final bool) ([]byte, error)

	// Reset restores the initial state (a BOM will be emitted again by
	// encoders emitting one)
	Reset()

	// SetState sets the encoder flags. Zero means 'already started'.
	SetState(flags uint64)
}

// Codec a named character encoding
type Codec interface {
	Name() string
	NewDecoder(errors string) (Decoder, error)
	NewEncoder(errors string) (Encoder, error)
}

// UnicodeError a decoding or encoding failure. Start and End are byte
// offsets into the data handed to the codec in the failing call (for
// encoding, offsets into the UTF-8 representation of the text).
type UnicodeError struct {
	Encoding string
	Decoding bool
	Object   []byte // the offending bytes
	Start    int
	End      int
	Reason   string
}

// Error returns the underlying error
func (this *UnicodeError) Error() string {
	op := "encode"

	if this.Decoding == true {
		op = "decode"
	}

	if this.End-this.Start == 1 {
		return fmt.Sprintf("'%s' codec can't %s byte 0x%02x in position %d: %s (code %v)",
			this.Encoding, op, this.Object[0], this.Start, this.Reason, this.ErrorCode())
	}

	return fmt.Sprintf("'%s' codec can't %s bytes in position %d-%d: %s (code %v)",
		this.Encoding, op, this.Start, this.End-1, this.Reason, this.ErrorCode())
}

// ErrorCode returns ERR_DECODE or ERR_ENCODE
func (this *UnicodeError) ErrorCode() int {
	if this.Decoding == true {
		return layerio.ERR_DECODE
	}

	return layerio.ERR_ENCODE
}

// Is makes errors.Is match a layerio.IOError carrying the same code
func (this *UnicodeError) Is(target error) bool {
	if t, ok := target.(*layerio.IOError); ok == true {
		return t.ErrorCode() == this.ErrorCode()
	}

	return false
}

// ErrorHandler returns the replacement text for the bad data described by
// uerr, or an error to abort the operation. For an encoding, the replacement
// must be encodable by the codec.
type ErrorHandler func(uerr *UnicodeError) (string, error)

var (
	handlersLock sync.RWMutex
	handlers     = map[string]ErrorHandler{
		ERRORS_STRICT:            strictErrors,
		ERRORS_IGNORE:            ignoreErrors,
		ERRORS_REPLACE:           replaceErrors,
		ERRORS_BACKSLASHREPLACE:  backslashReplaceErrors,
		ERRORS_XMLCHARREFREPLACE: xmlCharRefReplaceErrors,
	}
)

// RegisterErrorHandler registers a named error policy
func RegisterErrorHandler(name string, handler ErrorHandler) error {
	if len(name) == 0 || handler == nil {
		return layerio.NewIOError("Invalid error handler registration", layerio.ERR_INVALID_PARAM)
	}

	handlersLock.Lock()
	handlers[name] = handler
	handlersLock.Unlock()
	return nil
}

// LookupErrorHandler returns the error policy registered under name
// (strict if name is empty)
func LookupErrorHandler(name string) (ErrorHandler, error) {
	if len(name) == 0 {
		name = ERRORS_STRICT
	}

	handlersLock.RLock()
	h, ok := handlers[name]
	handlersLock.RUnlock()

	if ok == false {
		return nil, layerio.NewIOError(fmt.Sprintf("Unknown error handler name '%s'", name), layerio.ERR_INVALID_PARAM)
	}

	return h, nil
}

func strictErrors(uerr *UnicodeError) (string, error) {
	return "", uerr
}

func ignoreErrors(uerr *UnicodeError) (string, error) {
	return "", nil
}

func replaceErrors(uerr *UnicodeError) (string, error) {
	if uerr.Decoding == true {
		return "\uFFFD", nil
	}

	return strings.Repeat("?", utf8.RuneCount(uerr.Object)), nil
}

func backslashReplaceErrors(uerr *UnicodeError) (string, error) {
	var sb strings.Builder

	if uerr.Decoding == true {
		for _, b := range uerr.Object {
			fmt.Fprintf(&sb, "\\x%02x", b)
		}

		return sb.String(), nil
	}

	for i := 0; i < len(uerr.Object); {
		r, size := utf8.DecodeRune(uerr.Object[i:])

		if r == utf8.RuneError && size == 1 {
			r = rune(uerr.Object[i])
		}

		i += size

		switch {
		case r < 0x100:
			fmt.Fprintf(&sb, "\\x%02x", r)
		case r < 0x10000:
			fmt.Fprintf(&sb, "\\u%04x", r)
		default:
			fmt.Fprintf(&sb, "\\U%08x", r)
		}
	}

	return sb.String(), nil
}

func xmlCharRefReplaceErrors(uerr *UnicodeError) (string, error) {
	if uerr.Decoding == true {
		return "", layerio.NewIOError("Error handler 'xmlcharrefreplace' cannot be used for decoding",
			layerio.ERR_INVALID_PARAM)
	}

	var sb strings.Builder

	for _, r := range string(uerr.Object) {
		fmt.Fprintf(&sb, "&#%d;", r)
	}

	return sb.String(), nil
}

// NormalizeEncoding returns the canonical form of an encoding name:
// lower case with '_' and ' ' replaced by '-'.
func NormalizeEncoding(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("_", "-", " ", "-").Replace(name)
}

// LookupCodec returns the codec registered under name (or one of its aliases).
// An empty name selects DEFAULT_ENCODING.
func LookupCodec(name string) (Codec, error) {
	if len(name) == 0 {
		name = DEFAULT_ENCODING
	}

	key := NormalizeEncoding(name)

	if c := lookupUnicodeCodec(key); c != nil {
		return c, nil
	}

	if c, err := lookupLegacyCodec(key); c != nil || err != nil {
		return c, err
	}

	return nil, layerio.NewIOError(fmt.Sprintf("Unknown encoding: %s", name), layerio.ERR_INVALID_PARAM)
}

// decodeError applies an error policy to bad input bytes
func decodeError(h ErrorHandler, enc string, data []byte, start, end int, reason string) (string, error) {
	return h(&UnicodeError{Encoding: enc, Decoding: true, Object: append([]byte(nil), data[start:end]...),
		Start: start, End: end, Reason: reason})
}

// encodeError applies an error policy to unencodable text. s[start:end]
// holds the offending characters.
func encodeError(h ErrorHandler, enc string, s string, start, end int, reason string) (string, error) {
	return h(&UnicodeError{Encoding: enc, Decoding: false, Object: []byte(s[start:end]),
		Start: start, End: end, Reason: reason})
}
