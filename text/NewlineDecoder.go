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
	"strings"
)

const (
	NL_LF   = 1
	NL_CR   = 2
	NL_CRLF = 4
)

// IncrementalNewlineDecoder wraps a decoder and records (and optionally
// translates to "\n") the line endings of the decoded text. A "\r" ending
// a chunk is held back until the next chunk so that "\r\n" is never split.
type IncrementalNewlineDecoder struct {
	decoder   Decoder
	translate bool
	pendingCR bool
	seenNL    int
}

// NewIncrementalNewlineDecoder creates a new instance of IncrementalNewlineDecoder.
// The decoder may be nil, in which case the input is expected to be UTF-8 text.
func NewIncrementalNewlineDecoder(decoder Decoder, translate bool) *IncrementalNewlineDecoder {
	return &IncrementalNewlineDecoder{decoder: decoder, translate: translate}
}

// Decode decodes input with the wrapped decoder and processes the line endings
func (this *IncrementalNewlineDecoder) Decode(input []byte, final bool) (string, error) {
	if this.decoder == nil {
		return this.DecodeText(string(input), final), nil
	}

	output, err := this.decoder.Decode(input, final)

	if err != nil {
		return "", err
	}

	return this.DecodeText(output, final), nil
}

// DecodeText processes the line endings of already decoded text
func (this *IncrementalNewlineDecoder) DecodeText(output string, final bool) string {
	if this.pendingCR == true && (len(output) > 0 || final == true) {
		output = "\r" + output
		this.pendingCR = false
	}

	if final == false && strings.HasSuffix(output, "\r") == true {
		output = output[:len(output)-1]
		this.pendingCR = true
	}

	crlf := strings.Count(output, "\r\n")
	cr := strings.Count(output, "\r") - crlf
	lf := strings.Count(output, "\n") - crlf

	if lf > 0 {
		this.seenNL |= NL_LF
	}

	if cr > 0 {
		this.seenNL |= NL_CR
	}

	if crlf > 0 {
		this.seenNL |= NL_CRLF
	}

	if this.translate == true {
		if crlf > 0 {
			output = strings.ReplaceAll(output, "\r\n", "\n")
		}

		if cr > 0 {
			output = strings.ReplaceAll(output, "\r", "\n")
		}
	}

	return output
}

// State returns the pending bytes of the wrapped decoder and its flags
// shifted left by one, bit 0 recording a held back "\r".
func (this *IncrementalNewlineDecoder) State() ([]byte, uint64) {
	var pending []byte
	flags := uint64(0)

	if this.decoder != nil {
		pending, flags = this.decoder.State()
	}

	flags <<= 1

	if this.pendingCR == true {
		flags |= 1
	}

	return pending, flags
}

// SetState restores a state returned by State
func (this *IncrementalNewlineDecoder) SetState(pending []byte, flags uint64) {
	this.pendingCR = flags&1 != 0

	if this.decoder != nil {
		this.decoder.SetState(pending, flags>>1)
	}
}

// Reset clears the state and the seen line endings
func (this *IncrementalNewlineDecoder) Reset() {
	this.seenNL = 0
	this.pendingCR = false

	if this.decoder != nil {
		this.decoder.Reset()
	}
}

// Newlines returns the kinds of line endings seen so far
func (this *IncrementalNewlineDecoder) Newlines() []string {
	res := make([]string, 0, 3)

	if this.seenNL&NL_CR != 0 {
		res = append(res, "\r")
	}

	if this.seenNL&NL_LF != 0 {
		res = append(res, "\n")
	}

	if this.seenNL&NL_CRLF != 0 {
		res = append(res, "\r\n")
	}

	return res
}
