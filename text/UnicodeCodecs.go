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

package text

import (
	"bytes"
	"encoding/binary"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

const (
	_ORDER_DETECT = 0
	_ORDER_LE     = 1
	_ORDER_BE     = 2
)

type unicodeCodec struct {
	name       string
	newDecoder func(name string, h ErrorHandler) Decoder
	newEncoder func(name string, h ErrorHandler) Encoder
}

func (this *unicodeCodec) Name() string {
	return this.name
}

func (this *unicodeCodec) NewDecoder(errors string) (Decoder, error) {
	h, err := LookupErrorHandler(errors)

	if err != nil {
		return nil, err
	}

	return this.newDecoder(this.name, h), nil
}

func (this *unicodeCodec) NewEncoder(errors string) (Encoder, error) {
	h, err := LookupErrorHandler(errors)

	if err != nil {
		return nil, err
	}

	return this.newEncoder(this.name, h), nil
}

var unicodeCodecs = map[string]*unicodeCodec{
	"utf-8": {
		name:       "utf-8",
		newDecoder: func(n string, h ErrorHandler) Decoder { return &utf8Decoder{name: n, handler: h} },
		newEncoder: func(n string, h ErrorHandler) Encoder { return &utf8Encoder{name: n, handler: h} },
	},
	"utf-8-sig": {
		name: "utf-8-sig",
		newDecoder: func(n string, h ErrorHandler) Decoder {
			return &utf8Decoder{name: n, handler: h, sig: true, first: true}
		},
		newEncoder: func(n string, h ErrorHandler) Encoder {
			return &utf8Encoder{name: n, handler: h, sig: true, first: true}
		},
	},
	"utf-16": {
		name:       "utf-16",
		newDecoder: func(n string, h ErrorHandler) Decoder { return newUTF16Decoder(n, h, _ORDER_DETECT) },
		newEncoder: func(n string, h ErrorHandler) Encoder { return newUTF16Encoder(n, h, _ORDER_DETECT) },
	},
	"utf-16-le": {
		name:       "utf-16-le",
		newDecoder: func(n string, h ErrorHandler) Decoder { return newUTF16Decoder(n, h, _ORDER_LE) },
		newEncoder: func(n string, h ErrorHandler) Encoder { return newUTF16Encoder(n, h, _ORDER_LE) },
	},
	"utf-16-be": {
		name:       "utf-16-be",
		newDecoder: func(n string, h ErrorHandler) Decoder { return newUTF16Decoder(n, h, _ORDER_BE) },
		newEncoder: func(n string, h ErrorHandler) Encoder { return newUTF16Encoder(n, h, _ORDER_BE) },
	},
	"utf-32-le": {
		name:       "utf-32-le",
		newDecoder: func(n string, h ErrorHandler) Decoder { return &utf32Decoder{name: n, handler: h} },
		newEncoder: func(n string, h ErrorHandler) Encoder { return &utf32Encoder{name: n, handler: h} },
	},
	"utf-32-be": {
		name:       "utf-32-be",
		newDecoder: func(n string, h ErrorHandler) Decoder { return &utf32Decoder{name: n, handler: h, bigEndian: true} },
		newEncoder: func(n string, h ErrorHandler) Encoder { return &utf32Encoder{name: n, handler: h, bigEndian: true} },
	},
	"ascii": {
		name:       "ascii",
		newDecoder: func(n string, h ErrorHandler) Decoder { return &asciiDecoder{name: n, handler: h} },
		newEncoder: func(n string, h ErrorHandler) Encoder { return &asciiEncoder{name: n, handler: h} },
	},
}

var unicodeAliases = map[string]string{
	"utf8":     "utf-8",
	"u8":       "utf-8",
	"utf":      "utf-8",
	"cp65001":  "utf-8",
	"utf8-sig": "utf-8-sig",
	"utf16":    "utf-16",
	"u16":      "utf-16",
	"utf-16le": "utf-16-le",
	"utf16le":  "utf-16-le",
	"utf-16be": "utf-16-be",
	"utf16be":  "utf-16-be",
	"utf-32le": "utf-32-le",
	"utf32le":  "utf-32-le",
	"utf-32be": "utf-32-be",
	"utf32be":  "utf-32-be",
	"us-ascii": "ascii",
	"us":       "ascii",
	"646":      "ascii",
}

func lookupUnicodeCodec(key string) Codec {
	if alias, ok := unicodeAliases[key]; ok == true {
		key = alias
	}

	if c, ok := unicodeCodecs[key]; ok == true {
		return c
	}

	return nil
}

// join returns pending+input without modifying either slice
func join(pending, input []byte) []byte {
	if len(pending) == 0 {
		return input
	}

	res := make([]byte, 0, len(pending)+len(input))
	res = append(res, pending...)
	return append(res, input...)
}

// encodeRunes appends the encoding of s to dst. The encode function returns
// false (and dst unchanged) for characters the codec cannot represent.
func encodeRunes(dst []byte, s string, encode func([]byte, rune) ([]byte, bool),
	h ErrorHandler, name string) ([]byte, error) {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		var repl string
		var err error
		j := i + size

		if r == utf8.RuneError && size == 1 {
			repl, err = encodeError(h, name, s, i, j, "invalid UTF-8 data")
		} else if out, ok := encode(dst, r); ok == true {
			dst = out
			i = j
			continue
		} else {
			// Report the whole run of unencodable characters
			for j < len(s) {
				r2, sz := utf8.DecodeRuneInString(s[j:])

				if r2 == utf8.RuneError && sz == 1 {
					break
				}

				if _, ok := encode(nil, r2); ok == true {
					break
				}

				j += sz
			}

			repl, err = encodeError(h, name, s, i, j, "character maps to <undefined>")
		}

		if err != nil {
			return nil, err
		}

		for _, rr := range repl {
			out, ok := encode(dst, rr)

			if ok == false {
				return nil, &UnicodeError{Encoding: name, Object: []byte(s[i:j]), Start: i, End: j,
					Reason: "replacement character cannot be encoded"}
			}

			dst = out
		}

		i = j
	}

	return dst, nil
}

// utf8Decoder decodes UTF-8, optionally skipping a leading BOM (utf-8-sig)
type utf8Decoder struct {
	name    string
	handler ErrorHandler
	pending []byte
	sig     bool
	first   bool // BOM not checked yet
}

func (this *utf8Decoder) Decode(input []byte, final bool) (string, error) {
	data := join(this.pending, input)
	this.pending = nil

	if this.first == true {
		if len(data) < len(utf8BOM) && final == false && bytes.HasPrefix(utf8BOM, data) == true {
			this.pending = append([]byte(nil), data...)
			return "", nil
		}

		this.first = false
		data = bytes.TrimPrefix(data, utf8BOM)
	}

	if utf8.Valid(data) == true {
		return string(data), nil
	}

	var sb strings.Builder
	sb.Grow(len(data))
	i := 0

	for i < len(data) {
		r, size := utf8.DecodeRune(data[i:])

		if r != utf8.RuneError || size > 1 {
			sb.Write(data[i : i+size])
			i += size
			continue
		}

		end := i + 1
		reason := "invalid start byte"

		if utf8.FullRune(data[i:]) == false {
			if final == false {
				this.pending = append([]byte(nil), data[i:]...)
				break
			}

			end = len(data)
			reason = "unexpected end of data"
		} else if data[i] >= 0xC0 {
			reason = "invalid continuation byte"
		}

		repl, err := decodeError(this.handler, this.name, data, i, end, reason)

		if err != nil {
			return "", err
		}

		sb.WriteString(repl)
		i = end
	}

	return sb.String(), nil
}

func (this *utf8Decoder) State() ([]byte, uint64) {
	flags := uint64(0)

	if this.first == true {
		flags = 1
	}

	return append([]byte(nil), this.pending...), flags
}

func (this *utf8Decoder) SetState(pending []byte, flags uint64) {
	this.pending = append([]byte(nil), pending...)
	this.first = this.sig && flags != 0
}

func (this *utf8Decoder) Reset() {
	this.pending = nil
	this.first = this.sig
}

type utf8Encoder struct {
	name    string
	handler ErrorHandler
	sig     bool
	first   bool // BOM not emitted yet
}

func appendUTF8(dst []byte, r rune) ([]byte, bool) {
	return utf8.AppendRune(dst, r), true
}

func (this *utf8Encoder) Encode(s string, final bool) ([]byte, error) {
	var res []byte

	if this.first == true {
		res = append(res, utf8BOM...)
		this.first = false
	}

	if utf8.ValidString(s) == true {
		return append(res, s...), nil
	}

	return encodeRunes(res, s, appendUTF8, this.handler, this.name)
}

func (this *utf8Encoder) Reset() {
	this.first = this.sig
}

func (this *utf8Encoder) SetState(flags uint64) {
	this.first = this.sig && flags != 0
}

// utf16Decoder decodes UTF-16 with a fixed byte order or a byte order
// detected from a BOM (little endian without BOM).
type utf16Decoder struct {
	name    string
	handler ErrorHandler
	pending []byte
	detect  bool
	order   int
}

func newUTF16Decoder(name string, h ErrorHandler, order int) *utf16Decoder {
	return &utf16Decoder{name: name, handler: h, detect: order == _ORDER_DETECT, order: order}
}

func (this *utf16Decoder) unit(data []byte, i int) uint16 {
	if this.order == _ORDER_BE {
		return binary.BigEndian.Uint16(data[i:])
	}

	return binary.LittleEndian.Uint16(data[i:])
}

func (this *utf16Decoder) Decode(input []byte, final bool) (string, error) {
	data := join(this.pending, input)
	this.pending = nil

	if this.order == _ORDER_DETECT {
		if len(data) == 0 {
			return "", nil
		}

		if len(data) < 2 && final == false {
			this.pending = append([]byte(nil), data...)
			return "", nil
		}

		if bytes.HasPrefix(data, utf16LEBOM) == true {
			this.order = _ORDER_LE
			data = data[2:]
		} else if bytes.HasPrefix(data, utf16BEBOM) == true {
			this.order = _ORDER_BE
			data = data[2:]
		} else {
			this.order = _ORDER_LE
		}
	}

	var sb strings.Builder
	sb.Grow(len(data))
	i := 0

	for i+1 < len(data) {
		u := this.unit(data, i)

		if utf16.IsSurrogate(rune(u)) == false {
			sb.WriteRune(rune(u))
			i += 2
			continue
		}

		end := i + 2
		reason := "illegal encoding"

		if u < 0xDC00 {
			if i+3 >= len(data) {
				if final == false {
					break
				}

				end = len(data)
				reason = "unexpected end of data"
			} else if u2 := this.unit(data, i+2); u2 >= 0xDC00 && u2 <= 0xDFFF {
				sb.WriteRune(utf16.DecodeRune(rune(u), rune(u2)))
				i += 4
				continue
			} else {
				reason = "illegal UTF-16 surrogate"
			}
		}

		repl, err := decodeError(this.handler, this.name, data, i, end, reason)

		if err != nil {
			return "", err
		}

		sb.WriteString(repl)
		i = end
	}

	if i < len(data) {
		if final == false {
			this.pending = append([]byte(nil), data[i:]...)
		} else {
			repl, err := decodeError(this.handler, this.name, data, i, len(data), "truncated data")

			if err != nil {
				return "", err
			}

			sb.WriteString(repl)
		}
	}

	return sb.String(), nil
}

// State returns the pending bytes and, for the BOM sniffing decoder, the
// byte order (0 = undecided, 1 = little endian, 2 = big endian)
func (this *utf16Decoder) State() ([]byte, uint64) {
	flags := uint64(0)

	if this.detect == true {
		flags = uint64(this.order)
	}

	return append([]byte(nil), this.pending...), flags
}

func (this *utf16Decoder) SetState(pending []byte, flags uint64) {
	this.pending = append([]byte(nil), pending...)

	if this.detect == true {
		this.order = int(flags & 3)
	}
}

func (this *utf16Decoder) Reset() {
	this.pending = nil

	if this.detect == true {
		this.order = _ORDER_DETECT
	}
}

type utf16Encoder struct {
	name    string
	handler ErrorHandler
	bom     bool
	started bool
	order   int
}

func newUTF16Encoder(name string, h ErrorHandler, order int) *utf16Encoder {
	if order == _ORDER_DETECT {
		return &utf16Encoder{name: name, handler: h, bom: true, order: _ORDER_LE}
	}

	return &utf16Encoder{name: name, handler: h, order: order}
}

func (this *utf16Encoder) appendUnit(dst []byte, u uint16) []byte {
	if this.order == _ORDER_BE {
		return binary.BigEndian.AppendUint16(dst, u)
	}

	return binary.LittleEndian.AppendUint16(dst, u)
}

func (this *utf16Encoder) appendRune(dst []byte, r rune) ([]byte, bool) {
	if r >= 0x10000 {
		r1, r2 := utf16.EncodeRune(r)
		dst = this.appendUnit(dst, uint16(r1))
		return this.appendUnit(dst, uint16(r2)), true
	}

	return this.appendUnit(dst, uint16(r)), true
}

func (this *utf16Encoder) Encode(s string, final bool) ([]byte, error) {
	res := make([]byte, 0, 2*len(s)+2)

	if this.bom == true && this.started == false {
		res = this.appendUnit(res, 0xFEFF)
	}

	this.started = true
	return encodeRunes(res, s, this.appendRune, this.handler, this.name)
}

func (this *utf16Encoder) Reset() {
	this.started = false
}

func (this *utf16Encoder) SetState(flags uint64) {
	this.started = flags == 0
}

type utf32Decoder struct {
	name      string
	handler   ErrorHandler
	pending   []byte
	bigEndian bool
}

func (this *utf32Decoder) Decode(input []byte, final bool) (string, error) {
	data := join(this.pending, input)
	this.pending = nil
	var sb strings.Builder
	sb.Grow(len(data))
	i := 0

	for i+3 < len(data) {
		var u uint32

		if this.bigEndian == true {
			u = binary.BigEndian.Uint32(data[i:])
		} else {
			u = binary.LittleEndian.Uint32(data[i:])
		}

		if u > utf8.MaxRune || utf16.IsSurrogate(rune(u)) == true {
			repl, err := decodeError(this.handler, this.name, data, i, i+4, "code point not in range")

			if err != nil {
				return "", err
			}

			sb.WriteString(repl)
		} else {
			sb.WriteRune(rune(u))
		}

		i += 4
	}

	if i < len(data) {
		if final == false {
			this.pending = append([]byte(nil), data[i:]...)
		} else {
			repl, err := decodeError(this.handler, this.name, data, i, len(data), "truncated data")

			if err != nil {
				return "", err
			}

			sb.WriteString(repl)
		}
	}

	return sb.String(), nil
}

func (this *utf32Decoder) State() ([]byte, uint64) {
	return append([]byte(nil), this.pending...), 0
}

func (this *utf32Decoder) SetState(pending []byte, flags uint64) {
	this.pending = append([]byte(nil), pending...)
}

func (this *utf32Decoder) Reset() {
	this.pending = nil
}

type utf32Encoder struct {
	name      string
	handler   ErrorHandler
	bigEndian bool
}

func (this *utf32Encoder) appendRune(dst []byte, r rune) ([]byte, bool) {
	if this.bigEndian == true {
		return binary.BigEndian.AppendUint32(dst, uint32(r)), true
	}

	return binary.LittleEndian.AppendUint32(dst, uint32(r)), true
}

func (this *utf32Encoder) Encode(s string, final bool) ([]byte, error) {
	return encodeRunes(make([]byte, 0, 4*len(s)), s, this.appendRune, this.handler, this.name)
}

func (this *utf32Encoder) Reset() {
}

func (this *utf32Encoder) SetState(flags uint64) {
}

type asciiDecoder struct {
	name    string
	handler ErrorHandler
}

func (this *asciiDecoder) Decode(input []byte, final bool) (string, error) {
	var sb strings.Builder
	sb.Grow(len(input))

	for i, b := range input {
		if b < utf8.RuneSelf {
			sb.WriteByte(b)
			continue
		}

		repl, err := decodeError(this.handler, this.name, input, i, i+1, "ordinal not in range(128)")

		if err != nil {
			return "", err
		}

		sb.WriteString(repl)
	}

	return sb.String(), nil
}

func (this *asciiDecoder) State() ([]byte, uint64) {
	return nil, 0
}

func (this *asciiDecoder) SetState(pending []byte, flags uint64) {
}

func (this *asciiDecoder) Reset() {
}

type asciiEncoder struct {
	name    string
	handler ErrorHandler
}

func appendASCII(dst []byte, r rune) ([]byte, bool) {
	if r >= utf8.RuneSelf {
		return dst, false
	}

	return append(dst, byte(r)), true
}

func (this *asciiEncoder) Encode(s string, final bool) ([]byte, error) {
	return encodeRunes(make([]byte, 0, len(s)), s, appendASCII, this.handler, this.name)
}

func (this *asciiEncoder) Reset() {
}

func (this *asciiEncoder) SetState(flags uint64) {
}
