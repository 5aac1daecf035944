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
	"fmt"
	"strings"
	"unicode/utf8"

	layerio "github.com/layerio/layerio"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"
)

const _TRANSFORM_BUFFER_SIZE = 4096

var replacementUTF8 = []byte("\uFFFD")

var legacyEncodings = map[string]encoding.Encoding{
	"latin-1":      charmap.ISO8859_1,
	"iso-8859-2":   charmap.ISO8859_2,
	"iso-8859-3":   charmap.ISO8859_3,
	"iso-8859-4":   charmap.ISO8859_4,
	"iso-8859-5":   charmap.ISO8859_5,
	"iso-8859-6":   charmap.ISO8859_6,
	"iso-8859-7":   charmap.ISO8859_7,
	"iso-8859-8":   charmap.ISO8859_8,
	"iso-8859-9":   charmap.ISO8859_9,
	"iso-8859-10":  charmap.ISO8859_10,
	"iso-8859-13":  charmap.ISO8859_13,
	"iso-8859-14":  charmap.ISO8859_14,
	"iso-8859-15":  charmap.ISO8859_15,
	"iso-8859-16":  charmap.ISO8859_16,
	"cp437":        charmap.CodePage437,
	"cp850":        charmap.CodePage850,
	"cp866":        charmap.CodePage866,
	"cp1250":       charmap.Windows1250,
	"cp1251":       charmap.Windows1251,
	"cp1252":       charmap.Windows1252,
	"cp1253":       charmap.Windows1253,
	"cp1254":       charmap.Windows1254,
	"cp1255":       charmap.Windows1255,
	"cp1256":       charmap.Windows1256,
	"cp1257":       charmap.Windows1257,
	"cp1258":       charmap.Windows1258,
	"koi8-r":       charmap.KOI8R,
	"koi8-u":       charmap.KOI8U,
	"mac-roman":    charmap.Macintosh,
	"shift-jis":    japanese.ShiftJIS,
	"euc-jp":       japanese.EUCJP,
	"gbk":          simplifiedchinese.GBK,
	"gb18030":      simplifiedchinese.GB18030,
	"euc-kr":       korean.EUCKR,
	"big5":         traditionalchinese.Big5,
	"iso-2022-jp":  nil, // stateful, rejected
	"hz-gb-2312":   nil,
	"iso-2022-kr":  nil,
	"iso-2022-cn":  nil,
}

var legacyAliases = map[string]string{
	"latin1":       "latin-1",
	"l1":           "latin-1",
	"iso-8859-1":   "latin-1",
	"iso8859-1":    "latin-1",
	"8859":         "latin-1",
	"cp819":        "latin-1",
	"windows-1250": "cp1250",
	"windows-1251": "cp1251",
	"windows-1252": "cp1252",
	"windows-1253": "cp1253",
	"windows-1254": "cp1254",
	"windows-1255": "cp1255",
	"windows-1256": "cp1256",
	"windows-1257": "cp1257",
	"windows-1258": "cp1258",
	"ibm437":       "cp437",
	"437":          "cp437",
	"ibm850":       "cp850",
	"ibm866":       "cp866",
	"macroman":     "mac-roman",
	"macintosh":    "mac-roman",
	"shift_jis":    "shift-jis",
	"sjis":         "shift-jis",
	"s-jis":        "shift-jis",
	"cp932":        "shift-jis",
	"ms932":        "shift-jis",
	"eucjp":        "euc-jp",
	"ujis":         "euc-jp",
	"cp936":        "gbk",
	"ms936":        "gbk",
	"gb2312":       "gbk",
	"euc-cn":       "gbk",
	"euckr":        "euc-kr",
	"cp949":        "euc-kr",
	"big5-tw":      "big5",
	"cp950":        "big5",
	"hz":           "hz-gb-2312",
	"csiso2022jp":  "iso-2022-jp",
}

func init() {
	// iso8859-N aliases
	for i := 2; i <= 16; i++ {
		name := fmt.Sprintf("iso8859-%d", i)

		if _, ok := legacyEncodings[fmt.Sprintf("iso-8859-%d", i)]; ok == true {
			legacyAliases[name] = fmt.Sprintf("iso-8859-%d", i)
		}
	}
}

func isStateful(name string) bool {
	enc, ok := legacyEncodings[name]
	return ok == true && enc == nil
}

// lookupLegacyCodec returns a codec backed by golang.org/x/text for the
// single and multi byte encodings. Returns (nil, nil) for unknown names.
func lookupLegacyCodec(key string) (Codec, error) {
	if alias, ok := legacyAliases[key]; ok == true {
		key = alias
	}

	enc, ok := legacyEncodings[key]

	if ok == false {
		// Fall back to the WHATWG encoding names
		e, err := htmlindex.Get(key)

		if err != nil {
			return nil, nil
		}

		canonical, err := htmlindex.Name(e)

		if err != nil {
			return nil, nil
		}

		if c := lookupUnicodeCodec(canonical); c != nil {
			return c, nil
		}

		key = canonical
		enc, ok = legacyEncodings[key]

		if ok == false {
			enc = e
		}
	}

	if enc == nil || isStateful(key) == true || enc == encoding.Replacement {
		return nil, layerio.NewIOError(fmt.Sprintf("Stateful or unsupported encoding: %s", key),
			layerio.ERR_INVALID_PARAM)
	}

	c := &legacyCodec{name: key, enc: enc}

	// Some encodings map a byte sequence to U+FFFD: it is valid input
	if b, err := enc.NewEncoder().Bytes(replacementUTF8); err == nil && len(b) > 0 {
		c.replacement = b
	}

	if cm, ok := enc.(*charmap.Charmap); ok == true {
		c.cm = cm
	}

	return c, nil
}

type legacyCodec struct {
	name        string
	enc         encoding.Encoding
	cm          *charmap.Charmap
	replacement []byte
}

func (this *legacyCodec) Name() string {
	return this.name
}

func (this *legacyCodec) NewDecoder(errors string) (Decoder, error) {
	h, err := LookupErrorHandler(errors)

	if err != nil {
		return nil, err
	}

	if this.cm != nil {
		return &charmapDecoder{name: this.name, handler: h, cm: this.cm}, nil
	}

	return &transformDecoder{name: this.name, handler: h, t: this.enc.NewDecoder(), replacement: this.replacement}, nil
}

func (this *legacyCodec) NewEncoder(errors string) (Encoder, error) {
	h, err := LookupErrorHandler(errors)

	if err != nil {
		return nil, err
	}

	if this.cm != nil {
		cm := this.cm
		encode := func(dst []byte, r rune) ([]byte, bool) {
			b, ok := cm.EncodeRune(r)

			if ok == false {
				return dst, false
			}

			return append(dst, b), true
		}

		return &charmapEncoder{name: this.name, handler: h, encode: encode}, nil
	}

	return &transformEncoder{name: this.name, handler: h, enc: this.enc, t: this.enc.NewEncoder()}, nil
}

// charmapDecoder decodes a single byte encoding, one byte per character
type charmapDecoder struct {
	name    string
	handler ErrorHandler
	cm      *charmap.Charmap
}

func (this *charmapDecoder) Decode(input []byte, final bool) (string, error) {
	var sb strings.Builder
	sb.Grow(len(input))

	for i, b := range input {
		r := this.cm.DecodeByte(b)

		if r != utf8.RuneError {
			sb.WriteRune(r)
			continue
		}

		repl, err := decodeError(this.handler, this.name, input, i, i+1, "character maps to <undefined>")

		if err != nil {
			return "", err
		}

		sb.WriteString(repl)
	}

	return sb.String(), nil
}

func (this *charmapDecoder) State() ([]byte, uint64) {
	return nil, 0
}

func (this *charmapDecoder) SetState(pending []byte, flags uint64) {
}

func (this *charmapDecoder) Reset() {
}

type charmapEncoder struct {
	name    string
	handler ErrorHandler
	encode  func([]byte, rune) ([]byte, bool)
}

func (this *charmapEncoder) Encode(s string, final bool) ([]byte, error) {
	return encodeRunes(make([]byte, 0, len(s)), s, this.encode, this.handler, this.name)
}

func (this *charmapEncoder) Reset() {
}

func (this *charmapEncoder) SetState(flags uint64) {
}

// transformDecoder decodes a multi byte encoding with a x/text transformer.
// Incomplete trailing sequences are kept pending. The transformers replace
// invalid input with U+FFFD: when one shows up, the input is decoded again
// one character at a time to locate the bad bytes.
type transformDecoder struct {
	name        string
	handler     ErrorHandler
	t           transform.Transformer
	pending     []byte
	replacement []byte // encoded U+FFFD, nil if the encoding has none
}

func (this *transformDecoder) Decode(input []byte, final bool) (string, error) {
	data := join(this.pending, input)
	this.pending = nil
	out, n, err := runTransform(this.t, data, final)

	if err != nil {
		return "", errors.Wrapf(err, "'%s' codec failure", this.name)
	}

	if n < len(data) {
		this.pending = append([]byte(nil), data[n:]...)
	}

	if bytes.Contains(out, replacementUTF8) == false {
		return string(out), nil
	}

	return this.decodeByChar(data[:n], final)
}

func (this *transformDecoder) decodeByChar(data []byte, final bool) (string, error) {
	var sb strings.Builder
	var dst [utf8.UTFMax]byte
	this.t.Reset()

	for i := 0; i < len(data); {
		nDst, nSrc := 0, 0
		var err error

		// The smallest destination able to hold the next character yields
		// exactly one character
		for size := 1; size <= len(dst); size++ {
			nDst, nSrc, err = this.t.Transform(dst[:size], data[i:], final)

			if nDst > 0 || err != transform.ErrShortDst {
				break
			}
		}

		if nSrc == 0 {
			break
		}

		if r, _ := utf8.DecodeRune(dst[:nDst]); r == utf8.RuneError && this.isReplacement(data[i:i+nSrc]) == false {
			repl, err := decodeError(this.handler, this.name, data, i, i+nSrc, "illegal multibyte sequence")

			if err != nil {
				return "", err
			}

			sb.WriteString(repl)
		} else {
			sb.Write(dst[:nDst])
		}

		i += nSrc
	}

	return sb.String(), nil
}

func (this *transformDecoder) isReplacement(src []byte) bool {
	return len(this.replacement) > 0 && bytes.Equal(src, this.replacement)
}

func (this *transformDecoder) State() ([]byte, uint64) {
	return append([]byte(nil), this.pending...), 0
}

func (this *transformDecoder) SetState(pending []byte, flags uint64) {
	this.pending = append([]byte(nil), pending...)
	this.t.Reset()
}

func (this *transformDecoder) Reset() {
	this.pending = nil
	this.t.Reset()
}

type transformEncoder struct {
	name    string
	handler ErrorHandler
	enc     encoding.Encoding
	t       transform.Transformer
}

func (this *transformEncoder) Encode(s string, final bool) ([]byte, error) {
	src := []byte(s)
	res := make([]byte, 0, len(src)+16)
	dst := make([]byte, _TRANSFORM_BUFFER_SIZE)
	this.t.Reset()

	for i := 0; i < len(src); {
		nDst, nSrc, err := this.t.Transform(dst, src[i:], true)
		res = append(res, dst[:nDst]...)
		i += nSrc

		if err == nil {
			break
		}

		if err == transform.ErrShortDst {
			if nDst == 0 && nSrc == 0 {
				dst = make([]byte, 2*len(dst))
			}

			continue
		}

		// The character at i cannot be encoded
		r, size := utf8.DecodeRune(src[i:])
		reason := "character maps to <undefined>"

		if r == utf8.RuneError && size <= 1 {
			size = 1
			reason = "invalid UTF-8 data"
		}

		repl, err := encodeError(this.handler, this.name, s, i, i+size, reason)

		if err != nil {
			return nil, err
		}

		if len(repl) > 0 {
			b, err := this.enc.NewEncoder().Bytes([]byte(repl))

			if err != nil {
				return nil, &UnicodeError{Encoding: this.name, Object: src[i : i+size], Start: i, End: i + size,
					Reason: "replacement character cannot be encoded"}
			}

			res = append(res, b...)
		}

		i += size
		this.t.Reset()
	}

	return res, nil
}

func (this *transformEncoder) Reset() {
	this.t.Reset()
}

func (this *transformEncoder) SetState(flags uint64) {
}

// runTransform applies t to src. Returns the output and the number of bytes
// of src consumed (less than len(src) only when atEOF is false and src ends
// with an incomplete sequence).
func runTransform(t transform.Transformer, src []byte, atEOF bool) ([]byte, int, error) {
	t.Reset()
	size := 2*len(src) + 16

	if size > _TRANSFORM_BUFFER_SIZE {
		size = _TRANSFORM_BUFFER_SIZE
	}

	dst := make([]byte, size)
	res := make([]byte, 0, len(src)+len(src)/2)
	consumed := 0

	for {
		nDst, nSrc, err := t.Transform(dst, src[consumed:], atEOF)
		res = append(res, dst[:nDst]...)
		consumed += nSrc

		if err == transform.ErrShortDst {
			if nDst == 0 && nSrc == 0 {
				dst = make([]byte, 2*len(dst))
			}

			continue
		}

		if err == transform.ErrShortSrc && atEOF == false {
			return res, consumed, nil
		}

		return res, consumed, err
	}
}
