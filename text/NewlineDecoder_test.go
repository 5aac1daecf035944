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

package text_test

import (
	"github.com/layerio/layerio/text"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("IncrementalNewlineDecoder", func() {
	It("never splits CRLF across chunks", func() {
		d := text.NewIncrementalNewlineDecoder(nil, true)
		s, err := d.Decode([]byte("abc\r"), false)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal("abc"))

		s, err = d.Decode([]byte("\ndef"), false)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal("\ndef"))
		Expect(d.Newlines()).To(Equal([]string{"\r\n"}))
	})

	It("releases a held back CR at the end of input", func() {
		d := text.NewIncrementalNewlineDecoder(nil, true)
		s, _ := d.Decode([]byte("x\r"), false)
		Expect(s).To(Equal("x"))
		s, _ = d.Decode(nil, true)
		Expect(s).To(Equal("\n"))
		Expect(d.Newlines()).To(Equal([]string{"\r"}))
	})

	It("records the kinds of line endings without translating", func() {
		d := text.NewIncrementalNewlineDecoder(nil, false)
		s, _ := d.Decode([]byte("a\rb\nc\r\nd"), true)
		Expect(s).To(Equal("a\rb\nc\r\nd"))
		Expect(d.Newlines()).To(Equal([]string{"\r", "\n", "\r\n"}))

		d.Reset()
		Expect(d.Newlines()).To(BeEmpty())
	})

	It("saves and restores its state", func() {
		d := text.NewIncrementalNewlineDecoder(decoder("utf-8", text.ERRORS_STRICT), true)
		s, err := d.Decode([]byte("a\r\xc3"), false)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal("a"))

		pending, flags := d.State()
		Expect(pending).To(Equal([]byte{0xC3}))
		Expect(flags & 1).To(Equal(uint64(1)))

		d2 := text.NewIncrementalNewlineDecoder(decoder("utf-8", text.ERRORS_STRICT), true)
		d2.SetState(pending, flags)
		s, err = d2.Decode([]byte{0xA9}, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal("\né"))
	})
})
