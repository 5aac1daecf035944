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
	"errors"

	layerio "github.com/layerio/layerio"
	"github.com/layerio/layerio/text"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func decoder(encoding, policy string) text.Decoder {
	codec, err := text.LookupCodec(encoding)
	Expect(err).NotTo(HaveOccurred())
	dec, err := codec.NewDecoder(policy)
	Expect(err).NotTo(HaveOccurred())
	return dec
}

func encoder(encoding, policy string) text.Encoder {
	codec, err := text.LookupCodec(encoding)
	Expect(err).NotTo(HaveOccurred())
	enc, err := codec.NewEncoder(policy)
	Expect(err).NotTo(HaveOccurred())
	return enc
}

var _ = Describe("Codecs", func() {
	It("finds codecs by normalized name or alias", func() {
		for name, expected := range map[string]string{
			"":             "utf-8",
			"UTF_8":        "utf-8",
			"utf8":         "utf-8",
			"Latin1":       "latin-1",
			"ISO-8859-1":   "latin-1",
			"windows-1252": "cp1252",
			"UTF-16LE":     "utf-16-le",
			"Shift_JIS":    "shift-jis",
			"US-ASCII":     "ascii",
		} {
			codec, err := text.LookupCodec(name)
			Expect(err).NotTo(HaveOccurred(), name)
			Expect(codec.Name()).To(Equal(expected), name)
		}
	})

	It("rejects unknown and stateful encodings", func() {
		_, err := text.LookupCodec("no-such-encoding")
		Expect(layerio.ErrorCode(err)).To(Equal(layerio.ERR_INVALID_PARAM))

		_, err = text.LookupCodec("iso-2022-jp")
		Expect(layerio.ErrorCode(err)).To(Equal(layerio.ERR_INVALID_PARAM))

		_, err = text.LookupErrorHandler("no-such-policy")
		Expect(layerio.ErrorCode(err)).To(Equal(layerio.ERR_INVALID_PARAM))
	})

	DescribeTable("decoding errors",
		func(policy string, expected string) {
			s, err := decoder("ascii", policy).Decode([]byte("a\xffb"), true)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal(expected))
		},
		Entry("ignore", text.ERRORS_IGNORE, "ab"),
		Entry("replace", text.ERRORS_REPLACE, "a\uFFFDb"),
		Entry("backslashreplace", text.ERRORS_BACKSLASHREPLACE, `a\xffb`),
	)

	DescribeTable("encoding errors",
		func(policy string, expected string) {
			b, err := encoder("ascii", policy).Encode("aéb", true)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(b)).To(Equal(expected))
		},
		Entry("ignore", text.ERRORS_IGNORE, "ab"),
		Entry("replace", text.ERRORS_REPLACE, "a?b"),
		Entry("backslashreplace", text.ERRORS_BACKSLASHREPLACE, `a\xe9b`),
		Entry("xmlcharrefreplace", text.ERRORS_XMLCHARREFREPLACE, "a&#233;b"),
	)

	It("reports strict failures as unicode errors", func() {
		_, err := decoder("ascii", text.ERRORS_STRICT).Decode([]byte("ab\xff"), true)
		var uerr *text.UnicodeError
		Expect(errors.As(err, &uerr)).To(BeTrue())
		Expect(uerr.Decoding).To(BeTrue())
		Expect(uerr.Start).To(Equal(2))
		Expect(uerr.End).To(Equal(3))
		Expect(layerio.ErrorCode(err)).To(Equal(layerio.ERR_DECODE))

		_, err = encoder("latin-1", text.ERRORS_STRICT).Encode("x€y", true)
		Expect(errors.As(err, &uerr)).To(BeTrue())
		Expect(uerr.Decoding).To(BeFalse())
		Expect(string(uerr.Object)).To(Equal("€"))
		Expect(layerio.ErrorCode(err)).To(Equal(layerio.ERR_ENCODE))
		Expect(err.Error()).To(ContainSubstring("'latin-1' codec can't encode"))
	})

	It("supports registered error handlers", func() {
		Expect(text.RegisterErrorHandler("question", func(uerr *text.UnicodeError) (string, error) {
			return "?", nil
		})).To(Succeed())

		s, err := decoder("utf-8", "question").Decode([]byte("x\xc3(y"), true)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal("x?(y"))

		Expect(text.RegisterErrorHandler("", nil)).NotTo(Succeed())
	})

	It("keeps incomplete UTF-8 sequences pending", func() {
		dec := decoder("utf-8", text.ERRORS_STRICT)
		s, err := dec.Decode([]byte{0xE2}, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(BeEmpty())

		pending, _ := dec.State()
		Expect(pending).To(Equal([]byte{0xE2}))

		s, err = dec.Decode([]byte{0x82, 0xAC, 'x'}, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal("€x"))

		_, err = dec.Decode([]byte{0xE2, 0x82}, false)
		Expect(err).NotTo(HaveOccurred())
		_, err = dec.Decode(nil, true)
		var uerr *text.UnicodeError
		Expect(errors.As(err, &uerr)).To(BeTrue())
		Expect(uerr.Reason).To(Equal("unexpected end of data"))
	})

	It("handles the UTF-8 signature", func() {
		dec := decoder("utf-8-sig", text.ERRORS_STRICT)
		s, err := dec.Decode([]byte{0xEF, 0xBB}, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(BeEmpty())
		s, err = dec.Decode([]byte{0xBF, 'h', 'i'}, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal("hi"))

		enc := encoder("utf-8-sig", text.ERRORS_STRICT)
		b, _ := enc.Encode("a", false)
		Expect(b).To(Equal([]byte{0xEF, 0xBB, 0xBF, 'a'}))
		b, _ = enc.Encode("b", false)
		Expect(b).To(Equal([]byte{'b'}))
	})

	It("writes and detects the UTF-16 byte order mark", func() {
		enc := encoder("utf-16", text.ERRORS_STRICT)
		b, _ := enc.Encode("hi", false)
		Expect(b).To(Equal([]byte{0xFF, 0xFE, 'h', 0, 'i', 0}))
		b, _ = enc.Encode("!", false)
		Expect(b).To(Equal([]byte{'!', 0}))
		enc.Reset()
		b, _ = enc.Encode("", false)
		Expect(b).To(Equal([]byte{0xFF, 0xFE}))

		dec := decoder("utf-16", text.ERRORS_STRICT)
		s, err := dec.Decode([]byte{0xFE, 0xFF, 0, 'h', 0xD8}, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal("h"))

		// Surrogate pair split across calls
		s, err = dec.Decode([]byte{0x34, 0xDD, 0x1E}, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal("𝄞"))

		_, flags := dec.State()
		Expect(flags).To(Equal(uint64(2)))
	})

	It("decodes fixed width UTF-32", func() {
		s, err := decoder("utf-32-be", text.ERRORS_STRICT).Decode([]byte{0, 0, 0, 'a', 0, 1, 0xD1, 0x1E}, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal("a𝄞"))

		b, err := encoder("utf-32-le", text.ERRORS_STRICT).Encode("a", true)
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(Equal([]byte{'a', 0, 0, 0}))
	})

	It("uses single byte legacy encodings", func() {
		b, err := encoder("latin-1", text.ERRORS_STRICT).Encode("café", true)
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(Equal([]byte{'c', 'a', 'f', 0xE9}))

		s, err := decoder("latin-1", text.ERRORS_STRICT).Decode(b, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal("café"))

		b, err = encoder("cp1252", text.ERRORS_STRICT).Encode("€", true)
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(Equal([]byte{0x80}))
	})

	It("keeps incomplete multi byte sequences pending", func() {
		dec := decoder("shift-jis", text.ERRORS_STRICT)
		s, err := dec.Decode([]byte{0x93}, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(BeEmpty())

		s, err = dec.Decode([]byte{0xFA, 0x96, 0x7B}, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal("日本"))

		b, err := encoder("shift-jis", text.ERRORS_STRICT).Encode("日本", true)
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(Equal([]byte{0x93, 0xFA, 0x96, 0x7B}))
	})

	It("decodes an encoded replacement character as valid data", func() {
		data := []byte{0x61, 0x84, 0x31, 0xA4, 0x37, 0x62}

		for _, policy := range []string{text.ERRORS_STRICT, text.ERRORS_IGNORE} {
			s, err := decoder("gb18030", policy).Decode(data, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal("a\uFFFDb"))
		}

		b, err := encoder("gb18030", text.ERRORS_STRICT).Encode("a\uFFFDb", true)
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(Equal(data))

		// Invalid bytes are still reported
		_, err = decoder("gb18030", text.ERRORS_STRICT).Decode([]byte{0x61, 0xFF, 0x62}, true)
		Expect(layerio.ErrorCode(err)).To(Equal(layerio.ERR_DECODE))

		s, err := decoder("gb18030", text.ERRORS_IGNORE).Decode([]byte{0x61, 0xFF, 0x62}, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal("ab"))
	})
})
