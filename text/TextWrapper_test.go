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
	"io"
	"runtime"
	"strings"
	"unicode/utf8"

	layerio "github.com/layerio/layerio"
	"github.com/layerio/layerio/buffered"
	"github.com/layerio/layerio/internal"
	"github.com/layerio/layerio/text"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// checkCookies reads k characters for every k, takes a cookie and checks
// that seeking to the cookie (on the same stream and on a fresh one)
// yields the same remaining text
func checkCookies(data []byte, cfg text.TextConfig, expected string) {
	total := utf8.RuneCountInString(expected)

	for k := 0; k <= total; k++ {
		tw, _ := newRandomText(data, cfg)
		prefix := ""

		for i := 0; i < k; i++ {
			s, err := tw.Read(1)
			Expect(err).NotTo(HaveOccurred())
			prefix += s
		}

		cookie, err := tw.Tell()
		Expect(err).NotTo(HaveOccurred(), "position %d", k)

		tail, err := tw.Read(-1)
		Expect(err).NotTo(HaveOccurred())
		Expect(prefix+tail).To(Equal(expected))

		res, err := tw.Seek(cookie, layerio.SEEK_SET)
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal(cookie))
		again, err := tw.Read(-1)
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(Equal(tail), "position %d, cookie %#v", k, cookie)

		unpacked, err := text.UnpackCookie(cookie.Pack())
		Expect(err).NotTo(HaveOccurred())
		fresh, _ := newRandomText(data, cfg)
		_, err = fresh.Seek(unpacked, layerio.SEEK_SET)
		Expect(err).NotTo(HaveOccurred())
		again, err = fresh.Read(-1)
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(Equal(tail), "position %d, cookie %#v", k, cookie)
	}
}

var _ = Describe("TextWrapper", func() {
	const mixed = "line one\r\nline two\rline three\n"

	Context("reading", func() {
		It("translates universal line endings", func() {
			tw, _ := newRandomText([]byte(mixed), text.TextConfig{})

			for _, expected := range []string{"line one\n", "line two\n", "line three\n"} {
				line, err := tw.ReadLine(-1)
				Expect(err).NotTo(HaveOccurred())
				Expect(line).To(Equal(expected))
			}

			line, err := tw.ReadLine(-1)
			Expect(err).To(Equal(io.EOF))
			Expect(line).To(BeEmpty())
			Expect(tw.Newlines()).To(Equal([]string{"\r", "\n", "\r\n"}))
		})

		It("splits untranslated universal line endings", func() {
			tw, _ := newRandomText([]byte(mixed), text.TextConfig{Newline: text.NEWLINE_UNTRANSLATED, ChunkSize: 3})
			lines, err := tw.ReadLines(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(lines).To(Equal([]string{"line one\r\n", "line two\r", "line three\n"}))
		})

		It("only splits on the configured line ending", func() {
			tw, _ := newRandomText([]byte("a\r\nb\rc\nd"), text.TextConfig{Newline: text.NEWLINE_CRLF, ChunkSize: 2})
			lines, err := tw.ReadLines(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(lines).To(Equal([]string{"a\r\n", "b\rc\nd"}))
			Expect(tw.Newlines()).To(BeNil())

			tw, _ = newRandomText([]byte("a\r\nb\rc"), text.TextConfig{Newline: text.NEWLINE_CR})
			lines, err = tw.ReadLines(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(lines).To(Equal([]string{"a\r", "\nb\r", "c"}))
		})

		It("limits lines and line lists", func() {
			tw, _ := newRandomText([]byte("abcdef\nxy\nz\n"), text.TextConfig{ChunkSize: 4})
			line, err := tw.ReadLine(3)
			Expect(err).NotTo(HaveOccurred())
			Expect(line).To(Equal("abc"))
			line, err = tw.ReadLine(10)
			Expect(err).NotTo(HaveOccurred())
			Expect(line).To(Equal("def\n"))

			lines, err := tw.ReadLines(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(lines).To(Equal([]string{"xy\n"}))
		})

		It("reads characters, not bytes", func() {
			tw, _ := newRandomText([]byte("h€llo 𝄞"), text.TextConfig{ChunkSize: 2})
			s, err := tw.Read(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal("h€"))

			s, err = tw.Read(100)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal("llo 𝄞"))

			s, err = tw.Read(1)
			Expect(err).To(Equal(io.EOF))
			Expect(s).To(BeEmpty())

			s, err = tw.Read(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(BeEmpty())
		})

		It("returns the data read before a would-block", func() {
			raw := internal.NewScriptedStream(internal.Chunks([]byte("ab"), nil, []byte("cd")), nil)
			br, err := buffered.NewBufferedReader(raw, 16)
			Expect(err).NotTo(HaveOccurred())
			tw, err := text.NewTextWrapper(br, text.TextConfig{})
			Expect(err).NotTo(HaveOccurred())

			s, err := tw.Read(4)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal("ab"))

			s, err = tw.Read(4)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal("cd"))

			_, err = tw.Read(4)
			Expect(err).To(Equal(io.EOF))

			_, err = tw.Tell()
			Expect(err).To(MatchError(layerio.ErrUnsupported))
		})

		It("decodes with a fresh decoder", func() {
			tw, _ := newRandomText(nil, text.TextConfig{})
			s, err := tw.DecodeAll([]byte("a\r\nb\r"))
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal("a\nb\n"))
		})
	})

	Context("positioning", func() {
		It("restores every position of UTF-8 text", func() {
			s := "héllo wörld\n€uro 𝄞 end\r\nlast"
			checkCookies([]byte(s), text.TextConfig{ChunkSize: 3}, strings.ReplaceAll(s, "\r\n", "\n"))
		})

		It("restores every position of UTF-16 text with a byte order mark", func() {
			s := "héllo\n𝄞 wörld\nend"
			data := encode("utf-16", s)
			Expect(data[:2]).To(Equal([]byte{0xFF, 0xFE}))
			checkCookies(data, text.TextConfig{Encoding: "utf-16", ChunkSize: 5}, s)
		})

		It("restores every position of multi byte legacy text", func() {
			s := "日本語 text\n終わり"
			checkCookies(encode("euc-jp", s), text.TextConfig{Encoding: "euc-jp", ChunkSize: 3}, s)
		})

		It("disables Tell while iterating by line", func() {
			data := []byte("a\nb\nc\n")
			tw, _ := newRandomText(data, text.TextConfig{})
			line, err := tw.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(line).To(Equal("a\n"))

			_, err = tw.Tell()
			Expect(err).To(MatchError(layerio.ErrTellDisabled))

			count := 1

			for {
				_, err = tw.Next()

				if err == io.EOF {
					break
				}

				Expect(err).NotTo(HaveOccurred())
				count++
			}

			Expect(count).To(Equal(3))
			cookie, err := tw.Tell()
			Expect(err).NotTo(HaveOccurred())
			Expect(cookie).To(Equal(text.Cookie{Position: int64(len(data))}))
		})

		It("validates seek requests", func() {
			tw, _ := newRandomText([]byte("0123456789"), text.TextConfig{})
			_, err := tw.Seek(text.Cookie{Position: 1}, layerio.SEEK_CUR)
			Expect(layerio.ErrorCode(err)).To(Equal(layerio.ERR_UNSUPPORTED))
			_, err = tw.Seek(text.Cookie{Position: 1}, layerio.SEEK_END)
			Expect(layerio.ErrorCode(err)).To(Equal(layerio.ERR_UNSUPPORTED))
			_, err = tw.Seek(text.Cookie{}, 9)
			Expect(layerio.ErrorCode(err)).To(Equal(layerio.ERR_INVALID_PARAM))
			_, err = tw.Seek(text.Cookie{Position: -1}, layerio.SEEK_SET)
			Expect(layerio.ErrorCode(err)).To(Equal(layerio.ERR_INVALID_PARAM))

			end, err := tw.Seek(text.Cookie{}, layerio.SEEK_END)
			Expect(err).NotTo(HaveOccurred())
			Expect(end).To(Equal(text.Cookie{Position: 10}))

			s, err := tw.Read(3)
			Expect(err).To(Equal(io.EOF))
			Expect(s).To(BeEmpty())

			_, err = tw.Seek(text.Cookie{}, layerio.SEEK_SET)
			Expect(err).NotTo(HaveOccurred())
			s, _ = tw.Read(3)
			Expect(s).To(Equal("012"))

			cur, err := tw.Seek(text.Cookie{}, layerio.SEEK_CUR)
			Expect(err).NotTo(HaveOccurred())
			Expect(cur).To(Equal(text.Cookie{Position: 3}))
			s, _ = tw.Read(3)
			Expect(s).To(Equal("345"))
		})

		It("keeps a zero width no-break space found after the start", func() {
			data := append([]byte{0xEF, 0xBB, 0xBF, 'a'}, encode("utf-8", "\uFEFFb")...)
			tw, _ := newRandomText(data, text.TextConfig{Encoding: "utf-8-sig"})

			_, err := tw.Seek(text.Cookie{Position: 4}, layerio.SEEK_SET)
			Expect(err).NotTo(HaveOccurred())
			s, err := tw.Read(-1)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal("\uFEFFb"))

			_, err = tw.Seek(text.Cookie{}, layerio.SEEK_SET)
			Expect(err).NotTo(HaveOccurred())
			s, err = tw.Read(-1)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal("a\uFEFFb"))
		})
	})

	Context("writing", func() {
		newWriterText := func(cfg text.TextConfig) (*text.TextWrapper, *internal.BufferStream) {
			raw := internal.NewBufferStream().SetCapabilities(false, true, false)
			bw, err := buffered.NewBufferedWriter(raw, 16)
			Expect(err).NotTo(HaveOccurred())
			tw, err := text.NewTextWrapper(bw, cfg)
			Expect(err).NotTo(HaveOccurred())
			return tw, raw
		}

		universalNL := "\n"

		if runtime.GOOS == "windows" {
			universalNL = "\r\n"
		}

		DescribeTable("translates line endings on output",
			func(newline int, expected string) {
				tw, raw := newWriterText(text.TextConfig{Newline: newline})
				n, err := tw.WriteString("a\nb\n")
				Expect(err).NotTo(HaveOccurred())
				Expect(n).To(Equal(4))
				Expect(tw.Close()).To(Succeed())
				Expect(string(raw.Bytes())).To(Equal(expected))

				// Universal reading restores the text whatever the line ending
				br, err := buffered.NewBufferedReader(internal.NewBufferStream(raw.Bytes()), 16)
				Expect(err).NotTo(HaveOccurred())
				back, err := text.NewTextWrapper(br, text.TextConfig{})
				Expect(err).NotTo(HaveOccurred())
				s, err := back.Read(-1)
				Expect(err).NotTo(HaveOccurred())
				Expect(s).To(Equal("a\nb\n"))
			},
			Entry("universal", text.NEWLINE_UNIVERSAL, "a"+universalNL+"b"+universalNL),
			Entry("untranslated", text.NEWLINE_UNTRANSLATED, "a\nb\n"),
			Entry("lf", text.NEWLINE_LF, "a\nb\n"),
			Entry("cr", text.NEWLINE_CR, "a\rb\r"),
			Entry("crlf", text.NEWLINE_CRLF, "a\r\nb\r\n"),
		)

		It("counts characters and encodes them", func() {
			tw, raw := newWriterText(text.TextConfig{Encoding: "latin-1", Newline: text.NEWLINE_LF})
			n, err := tw.WriteString("héllo")
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(5))

			n, err = tw.Write([]byte("ü"))
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(2))
			Expect(tw.Flush()).To(Succeed())
			Expect(raw.Bytes()).To(Equal([]byte{'h', 0xE9, 'l', 'l', 'o', 0xFC}))

			_, err = tw.Write([]byte{0xFF})
			Expect(err).To(MatchError(layerio.ErrNotText))

			_, err = tw.WriteString("€")
			Expect(layerio.ErrorCode(err)).To(Equal(layerio.ERR_ENCODE))

			_, err = tw.ReadLine(-1)
			Expect(layerio.ErrorCode(err)).To(Equal(layerio.ERR_UNSUPPORTED))
		})

		It("flushes complete lines when line buffered", func() {
			tw, raw := newWriterText(text.TextConfig{LineBuffering: true, Newline: text.NEWLINE_LF})
			Expect(tw.LineBuffering()).To(BeTrue())
			_, err := tw.WriteString("abc")
			Expect(err).NotTo(HaveOccurred())
			Expect(raw.Len()).To(Equal(0))

			_, err = tw.WriteString("d\n")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(raw.Bytes())).To(Equal("abcd\n"))
		})

		It("flushes every write in write through mode", func() {
			tw, raw := newWriterText(text.TextConfig{WriteThrough: true})
			_, err := tw.WriteString("x")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(raw.Bytes())).To(Equal("x"))
		})

		It("writes a byte order mark at the start of the stream only", func() {
			tw, raw := newRandomText(nil, text.TextConfig{Encoding: "utf-16"})
			_, err := tw.WriteString("a")
			Expect(err).NotTo(HaveOccurred())
			Expect(tw.Flush()).To(Succeed())
			Expect(raw.Bytes()).To(Equal([]byte{0xFF, 0xFE, 'a', 0}))

			_, err = tw.Seek(text.Cookie{}, layerio.SEEK_SET)
			Expect(err).NotTo(HaveOccurred())
			_, err = tw.WriteString("b")
			Expect(err).NotTo(HaveOccurred())

			_, err = tw.Seek(text.Cookie{}, layerio.SEEK_END)
			Expect(err).NotTo(HaveOccurred())
			_, err = tw.WriteString("c")
			Expect(err).NotTo(HaveOccurred())
			Expect(tw.Close()).To(Succeed())
			Expect(raw.Bytes()).To(Equal([]byte{0xFF, 0xFE, 'b', 0, 'c', 0}))

			// Appending to an existing stream
			raw = internal.NewBufferStream([]byte{0xFF, 0xFE, 'h', 0})
			_, err = raw.Seek(0, layerio.SEEK_END)
			Expect(err).NotTo(HaveOccurred())
			br, err := buffered.NewBufferedRandom(raw, 16)
			Expect(err).NotTo(HaveOccurred())
			tw, err = text.NewTextWrapper(br, text.TextConfig{Encoding: "utf-16"})
			Expect(err).NotTo(HaveOccurred())
			_, err = tw.WriteString("i")
			Expect(err).NotTo(HaveOccurred())
			Expect(tw.Close()).To(Succeed())
			Expect(raw.Bytes()).To(Equal([]byte{0xFF, 0xFE, 'h', 0, 'i', 0}))
		})

		It("writes at a position returned by Tell", func() {
			tw, raw := newRandomText([]byte("line1\nline2\n"), text.TextConfig{})
			line, err := tw.ReadLine(-1)
			Expect(err).NotTo(HaveOccurred())
			Expect(line).To(Equal("line1\n"))

			cookie, err := tw.Tell()
			Expect(err).NotTo(HaveOccurred())
			Expect(cookie).To(Equal(text.Cookie{Position: 6}))

			_, err = tw.Seek(cookie, layerio.SEEK_SET)
			Expect(err).NotTo(HaveOccurred())
			_, err = tw.WriteString("LINE2\n")
			Expect(err).NotTo(HaveOccurred())

			_, err = tw.Seek(text.Cookie{}, layerio.SEEK_SET)
			Expect(err).NotTo(HaveOccurred())
			s, err := tw.Read(-1)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal("line1\nLINE2\n"))
			Expect(string(raw.Bytes())).To(Equal("line1\nLINE2\n"))
		})

		It("truncates at the current position", func() {
			tw, raw := newRandomText([]byte("line1\nline2\n"), text.TextConfig{})
			_, err := tw.ReadLine(-1)
			Expect(err).NotTo(HaveOccurred())

			size, err := tw.Truncate(-1)
			Expect(err).NotTo(HaveOccurred())
			Expect(size).To(Equal(int64(6)))
			Expect(string(raw.Bytes())).To(Equal("line1\n"))
		})
	})

	Context("lifecycle", func() {
		It("rejects invalid configurations", func() {
			br, _ := buffered.NewBufferedRandom(internal.NewBufferStream(), 16)
			_, err := text.NewTextWrapper(br, text.TextConfig{Newline: 7})
			Expect(layerio.ErrorCode(err)).To(Equal(layerio.ERR_INVALID_PARAM))
			_, err = text.NewTextWrapper(br, text.TextConfig{Encoding: "klingon"})
			Expect(layerio.ErrorCode(err)).To(Equal(layerio.ERR_INVALID_PARAM))
			_, err = text.NewTextWrapper(br, text.TextConfig{Errors: "shout"})
			Expect(layerio.ErrorCode(err)).To(Equal(layerio.ERR_INVALID_PARAM))
			_, err = text.NewTextWrapper(nil, text.TextConfig{})
			Expect(layerio.ErrorCode(err)).To(Equal(layerio.ERR_INVALID_PARAM))
		})

		It("reports its configuration", func() {
			tw, _ := newRandomText(nil, text.TextConfig{Encoding: "Latin1", Errors: text.ERRORS_REPLACE})
			Expect(tw.Encoding()).To(Equal("latin-1"))
			Expect(tw.Errors()).To(Equal(text.ERRORS_REPLACE))
			Expect(tw.Readable()).To(BeTrue())
			Expect(tw.Writable()).To(BeTrue())
			Expect(tw.Seekable()).To(BeTrue())
			tty, err := tw.IsATTY()
			Expect(err).NotTo(HaveOccurred())
			Expect(tty).To(BeFalse())
			_, err = tw.Fileno()
			Expect(err).To(MatchError(layerio.ErrUnsupported))
		})

		It("closes and detaches", func() {
			counter := &eventCounter{counts: make(map[int]int)}
			tw, raw := newRandomText([]byte("abc"), text.TextConfig{})
			Expect(tw.AddListener(counter)).To(BeTrue())

			_, err := tw.Read(-1)
			Expect(err).NotTo(HaveOccurred())
			_, err = tw.Read(1)
			Expect(err).To(Equal(io.EOF))
			Expect(counter.counts[layerio.EVT_DECODE_CHUNK]).To(BeNumerically(">=", 1))

			Expect(tw.Close()).To(Succeed())
			Expect(tw.Close()).To(Succeed())
			Expect(tw.Closed()).To(BeTrue())
			Expect(raw.Closed()).To(BeTrue())
			Expect(counter.counts[layerio.EVT_CLOSE]).To(Equal(1))

			_, err = tw.ReadLine(-1)
			Expect(err).To(MatchError(layerio.ErrClosed))

			tw, _ = newRandomText([]byte("abc"), text.TextConfig{})
			buffer, err := tw.Detach()
			Expect(err).NotTo(HaveOccurred())
			Expect(buffer.Closed()).To(BeFalse())
			Expect(tw.Buffer()).To(BeNil())

			_, err = tw.Read(1)
			Expect(err).To(MatchError(layerio.ErrDetached))
			_, err = tw.Detach()
			Expect(err).To(MatchError(layerio.ErrDetached))
		})
	})
})
