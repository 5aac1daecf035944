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
	"io"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	layerio "github.com/layerio/layerio"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	// NEWLINE_UNIVERSAL: "\n", "\r" and "\r\n" end lines and are translated to
	// "\n" on input, "\n" is translated to the platform line separator on output
	NEWLINE_UNIVERSAL = 0
	// NEWLINE_UNTRANSLATED: universal line endings on input returned as is,
	// no translation on output
	NEWLINE_UNTRANSLATED = 1
	NEWLINE_LF           = 2
	NEWLINE_CR           = 3
	NEWLINE_CRLF         = 4

	DEFAULT_CHUNK_SIZE = 8192
)

// TextConfig the parameters of a TextWrapper
type TextConfig struct {
	Encoding      string // DEFAULT_ENCODING if empty
	Errors        string // ERRORS_STRICT if empty
	Newline       int
	LineBuffering bool // flush when a written string contains "\n" or "\r"
	WriteThrough  bool // flush after every write
	// NoWriteTranslate disables the output translation of NEWLINE_UNIVERSAL
	NoWriteTranslate bool
	ChunkSize        int // DEFAULT_CHUNK_SIZE if 0
	Logger           *zap.Logger
}

type snapshot struct {
	decFlags  uint64
	nextInput []byte // decoder pending bytes followed by the last chunk read
}

// TextWrapper a character stream over a buffered byte stream.
// Input is decoded chunk by chunk. Positions are opaque cookies that
// capture the decoder state needed to restart decoding.
// A TextWrapper is not safe for concurrent use.
type TextWrapper struct {
	buffer         layerio.BufferedStream
	read1          layerio.Reader1
	codec          Codec
	errors         string
	newline        int
	lineBuffering  bool
	writeThrough   bool
	chunkSize      int
	readUniversal  bool
	readTranslate  bool
	readNL         []rune
	writeTranslate bool
	writeNL        string
	decoder        Decoder
	newlines       *IncrementalNewlineDecoder
	encoder        Encoder
	decodedChars   []rune
	decodedUsed    int
	snapshot       *snapshot
	seekable       bool
	telling        bool
	b2cratio       float64
	name           string
	logger         *zap.Logger
	listeners      layerio.Listeners
}

// NewTextWrapper creates a new instance of TextWrapper over buffer
func NewTextWrapper(buffer layerio.BufferedStream, cfg TextConfig) (*TextWrapper, error) {
	if buffer == nil {
		return nil, layerio.NewIOError("Invalid null buffer parameter", layerio.ERR_INVALID_PARAM)
	}

	if cfg.Newline < NEWLINE_UNIVERSAL || cfg.Newline > NEWLINE_CRLF {
		return nil, layerio.NewIOError("Illegal newline value", layerio.ERR_INVALID_PARAM)
	}

	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = DEFAULT_CHUNK_SIZE
	}

	if cfg.ChunkSize < 0 {
		return nil, layerio.NewIOError("Invalid chunk size", layerio.ERR_INVALID_PARAM)
	}

	if len(cfg.Errors) == 0 {
		cfg.Errors = ERRORS_STRICT
	}

	if _, err := LookupErrorHandler(cfg.Errors); err != nil {
		return nil, err
	}

	codec, err := LookupCodec(cfg.Encoding)

	if err != nil {
		return nil, err
	}

	this := &TextWrapper{
		buffer:        buffer,
		codec:         codec,
		errors:        cfg.Errors,
		newline:       cfg.Newline,
		lineBuffering: cfg.LineBuffering,
		writeThrough:  cfg.WriteThrough,
		chunkSize:     cfg.ChunkSize,
		logger:        cfg.Logger,
	}

	if this.logger == nil {
		this.logger = zap.NewNop()
	}

	if named, ok := buffer.(interface{ Name() string }); ok == true {
		this.name = named.Name()
	}

	if r1, ok := buffer.(layerio.Reader1); ok == true {
		this.read1 = r1
	}

	this.readUniversal = cfg.Newline == NEWLINE_UNIVERSAL || cfg.Newline == NEWLINE_UNTRANSLATED
	this.readTranslate = cfg.Newline == NEWLINE_UNIVERSAL
	this.writeTranslate = cfg.Newline != NEWLINE_UNTRANSLATED && cfg.NoWriteTranslate == false

	switch cfg.Newline {
	case NEWLINE_UNIVERSAL:
		this.writeNL = "\n"

		if runtime.GOOS == "windows" {
			this.writeNL = "\r\n"
		}

	case NEWLINE_LF:
		this.writeNL = "\n"

	case NEWLINE_CR:
		this.writeNL = "\r"

	case NEWLINE_CRLF:
		this.writeNL = "\r\n"
	}

	this.readNL = []rune(this.writeNL)
	this.seekable = buffer.Seekable()
	this.telling = this.seekable

	if this.seekable == true && buffer.Writable() == true {
		position, err := buffer.Tell()

		if err != nil {
			return nil, err
		}

		if position != 0 {
			// Appending: no BOM in the middle of the stream
			encoder, err := this.getEncoder()

			if err != nil {
				return nil, err
			}

			encoder.SetState(0)
		}
	}

	return this, nil
}

func (this *TextWrapper) checkClosed() error {
	if this.buffer == nil {
		return layerio.ErrDetached
	}

	if this.buffer.Closed() == true {
		return layerio.ErrClosed
	}

	return nil
}

func (this *TextWrapper) getDecoder() (Decoder, error) {
	if this.decoder != nil {
		return this.decoder, nil
	}

	decoder, err := this.newDecoder()

	if err != nil {
		return nil, err
	}

	if nld, ok := decoder.(*IncrementalNewlineDecoder); ok == true {
		this.newlines = nld
	}

	this.decoder = decoder
	return decoder, nil
}

func (this *TextWrapper) newDecoder() (Decoder, error) {
	decoder, err := this.codec.NewDecoder(this.errors)

	if err != nil {
		return nil, err
	}

	if this.readUniversal == true {
		return NewIncrementalNewlineDecoder(decoder, this.readTranslate), nil
	}

	return decoder, nil
}

func (this *TextWrapper) getEncoder() (Encoder, error) {
	if this.encoder != nil {
		return this.encoder, nil
	}

	encoder, err := this.codec.NewEncoder(this.errors)

	if err != nil {
		return nil, err
	}

	this.encoder = encoder
	return encoder, nil
}

func (this *TextWrapper) setDecodedChars(s string) {
	this.decodedChars = []rune(s)
	this.decodedUsed = 0
}

// getDecodedChars consumes up to n decoded characters (all if n is negative)
func (this *TextWrapper) getDecodedChars(n int) []rune {
	avail := len(this.decodedChars) - this.decodedUsed

	if n < 0 || n > avail {
		n = avail
	}

	chars := this.decodedChars[this.decodedUsed : this.decodedUsed+n]
	this.decodedUsed += n
	return chars
}

func (this *TextWrapper) rewindDecodedChars(n int) error {
	if this.decodedUsed < n {
		return layerio.NewIOError("Rewind of decoded characters out of bounds", layerio.ERR_LOGIC)
	}

	this.decodedUsed -= n
	return nil
}

// readChunk reads and decodes the next chunk of input. When telling, the
// decoder state before the read is saved along with the chunk so that any
// position inside the chunk can be reconstructed.
// Returns false at the end of the stream.
func (this *TextWrapper) readChunk() (bool, error) {
	if this.decoder == nil {
		return false, layerio.NewIOError("No decoder", layerio.ERR_LOGIC)
	}

	var decPending []byte
	var decFlags uint64

	if this.telling == true {
		decPending, decFlags = this.decoder.State()
	}

	var input []byte
	var err error

	if this.read1 != nil {
		input, err = this.read1.Read1(this.chunkSize)
	} else {
		input, err = this.buffer.ReadN(this.chunkSize)
	}

	if err != nil && err != io.EOF {
		return false, err
	}

	eof := len(input) == 0
	decoded, err := this.decoder.Decode(input, eof)

	if err != nil {
		return false, err
	}

	this.setDecodedChars(decoded)

	if len(this.decodedChars) > 0 {
		this.b2cratio = float64(len(input)) / float64(len(this.decodedChars))
	} else {
		this.b2cratio = 0
	}

	if this.telling == true {
		next := make([]byte, 0, len(decPending)+len(input))
		next = append(next, decPending...)
		this.snapshot = &snapshot{decFlags: decFlags, nextInput: append(next, input...)}
	}

	if ce := this.logger.Check(zap.DebugLevel, "decoded chunk"); ce != nil {
		ce.Write(zap.String("stream", this.name), zap.Int("bytes", len(input)),
			zap.Int("chars", len(this.decodedChars)))
	}

	this.notify(layerio.EVT_DECODE_CHUNK, int64(len(input)))
	return eof == false, nil
}

func (this *TextWrapper) notify(evtType int, size int64) {
	if this.listeners.HasListeners() == false {
		return
	}

	this.listeners.Notify(layerio.NewEvent(evtType, this.name, size, -1, time.Time{}))
}

// Read returns at most n characters. If n is negative, the rest of the
// stream is decoded and returned. Returns ("", io.EOF) at the end of the
// stream when n is positive.
func (this *TextWrapper) Read(n int) (string, error) {
	if err := this.checkClosed(); err != nil {
		return "", err
	}

	if err := layerio.CheckReadable(this.buffer); err != nil {
		return "", err
	}

	decoder, err := this.getDecoder()

	if err != nil {
		return "", err
	}

	if n < 0 {
		data, err := this.buffer.ReadN(-1)

		if err != nil && err != io.EOF {
			return "", err
		}

		decoded, err := decoder.Decode(data, true)

		if err != nil {
			return "", err
		}

		res := string(this.getDecodedChars(-1)) + decoded
		this.setDecodedChars("")
		this.snapshot = nil
		return res, nil
	}

	if n == 0 {
		return "", nil
	}

	res := append([]rune(nil), this.getDecodedChars(n)...)
	eof := false

	for len(res) < n && eof == false {
		more, err := this.readChunk()

		if err != nil {
			if len(res) > 0 && layerio.IsWouldBlock(err) == true {
				break
			}

			return string(res), err
		}

		eof = more == false
		res = append(res, this.getDecodedChars(n-len(res))...)
	}

	if len(res) == 0 {
		return "", io.EOF
	}

	return string(res), nil
}

func indexRune(line []rune, r rune, start int) int {
	for i := start; i < len(line); i++ {
		if line[i] == r {
			return i
		}
	}

	return -1
}

func indexRunes(line []rune, sep []rune, start int) int {
	for i := start; i+len(sep) <= len(line); i++ {
		j := 0

		for j < len(sep) && line[i+j] == sep[j] {
			j++
		}

		if j == len(sep) {
			return i
		}
	}

	return -1
}

// ReadLine returns the next line, line ending included. At most limit
// characters are returned if limit is positive or zero.
// Returns ("", io.EOF) at the end of the stream.
func (this *TextWrapper) ReadLine(limit int) (string, error) {
	if err := this.checkClosed(); err != nil {
		return "", err
	}

	if err := layerio.CheckReadable(this.buffer); err != nil {
		return "", err
	}

	if _, err := this.getDecoder(); err != nil {
		return "", err
	}

	line := append([]rune(nil), this.getDecodedChars(-1)...)
	start := 0
	endpos := -1

	for {
		if this.readTranslate == true {
			// Newlines already translated to "\n"
			if pos := indexRune(line, '\n', start); pos >= 0 {
				endpos = pos + 1
				break
			}

			start = len(line)
		} else if this.readUniversal == true {
			// Any of "\r", "\r\n", "\n". The decoder never splits "\r\n".
			nlpos := indexRune(line, '\n', start)
			crpos := indexRune(line, '\r', start)

			if crpos < 0 {
				if nlpos >= 0 {
					endpos = nlpos + 1
					break
				}

				start = len(line)
			} else if nlpos < 0 || crpos < nlpos-1 {
				endpos = crpos + 1
				break
			} else if nlpos < crpos {
				endpos = nlpos + 1
				break
			} else {
				// "\r\n"
				endpos = crpos + 2
				break
			}
		} else {
			if pos := indexRunes(line, this.readNL, start); pos >= 0 {
				endpos = pos + len(this.readNL)
				break
			}

			start = len(line) - len(this.readNL) + 1

			if start < 0 {
				start = 0
			}
		}

		if limit >= 0 && len(line) >= limit {
			endpos = limit
			break
		}

		// No line ending seen yet: get more data
		var err error
		more := true

		for more == true {
			if more, err = this.readChunk(); err != nil {
				return string(line), err
			}

			if len(this.decodedChars) > 0 {
				break
			}
		}

		if len(this.decodedChars) == 0 {
			// End of file
			this.setDecodedChars("")
			this.snapshot = nil

			if len(line) == 0 {
				return "", io.EOF
			}

			return string(line), nil
		}

		line = append(line, this.getDecodedChars(-1)...)
	}

	if limit >= 0 && endpos > limit {
		endpos = limit
	}

	// Give back the characters after the end of line
	if err := this.rewindDecodedChars(len(line) - endpos); err != nil {
		return "", err
	}

	return string(line[:endpos]), nil
}

// Next returns the next line during an iteration by line. The position
// cannot be requested until the iteration reaches the end of the stream.
// Returns ("", io.EOF) at the end of the stream.
func (this *TextWrapper) Next() (string, error) {
	this.telling = false
	line, err := this.ReadLine(-1)

	if len(line) == 0 && (err == nil || err == io.EOF) {
		this.snapshot = nil
		this.telling = this.seekable
		return "", io.EOF
	}

	return line, err
}

// ReadLines returns the remaining lines. If hint is positive, no more lines
// are read once hint characters have been returned.
func (this *TextWrapper) ReadLines(hint int) ([]string, error) {
	res := make([]string, 0)
	total := 0

	for {
		line, err := this.ReadLine(-1)

		if len(line) > 0 {
			res = append(res, line)
			total += utf8.RuneCountInString(line)
		}

		if err == io.EOF {
			return res, nil
		}

		if err != nil {
			return res, err
		}

		if hint > 0 && total >= hint {
			return res, nil
		}
	}
}

// WriteString writes s and returns the number of characters written
func (this *TextWrapper) WriteString(s string) (int, error) {
	if err := this.checkClosed(); err != nil {
		return 0, err
	}

	if err := layerio.CheckWritable(this.buffer); err != nil {
		return 0, err
	}

	length := utf8.RuneCountInString(s)
	haslf := (this.writeTranslate == true || this.lineBuffering == true) && strings.Contains(s, "\n")

	if haslf == true && this.writeTranslate == true && this.writeNL != "\n" {
		s = strings.ReplaceAll(s, "\n", this.writeNL)
	}

	encoder, err := this.getEncoder()

	if err != nil {
		return 0, err
	}

	b, err := encoder.Encode(s, false)

	if err != nil {
		return 0, err
	}

	if _, err := this.buffer.Write(b); err != nil {
		return 0, err
	}

	this.setDecodedChars("")
	this.snapshot = nil

	if this.decoder != nil {
		this.decoder.Reset()
	}

	if this.writeThrough == true || (this.lineBuffering == true && (haslf == true || strings.Contains(s, "\r"))) {
		if err := this.Flush(); err != nil {
			return length, err
		}
	}

	return length, nil
}

// Write writes p (which must be valid UTF-8) and returns len(p)
func (this *TextWrapper) Write(p []byte) (int, error) {
	if utf8.Valid(p) == false {
		return 0, layerio.ErrNotText
	}

	if _, err := this.WriteString(string(p)); err != nil {
		return 0, err
	}

	return len(p), nil
}

// Tell returns the cookie of the current position
func (this *TextWrapper) Tell() (Cookie, error) {
	if err := this.checkClosed(); err != nil {
		return Cookie{}, err
	}

	if this.seekable == false {
		return Cookie{}, errors.Wrap(layerio.ErrUnsupported, "underlying stream is not seekable")
	}

	if this.telling == false {
		return Cookie{}, layerio.ErrTellDisabled
	}

	if err := this.Flush(); err != nil {
		return Cookie{}, err
	}

	position, err := this.buffer.Tell()

	if err != nil {
		return Cookie{}, err
	}

	decoder := this.decoder

	if decoder == nil || this.snapshot == nil {
		if this.decodedUsed < len(this.decodedChars) {
			return Cookie{}, layerio.NewIOError("Pending decoded text", layerio.ERR_LOGIC)
		}

		return Cookie{Position: position}, nil
	}

	// Skip backward to the snapshot point
	decFlags := this.snapshot.decFlags
	nextInput := this.snapshot.nextInput
	position -= int64(len(nextInput))

	// How many decoded characters have been used up since the snapshot?
	charsToSkip := this.decodedUsed

	if charsToSkip == 0 {
		return Cookie{Position: position, DecFlags: decFlags}, nil
	}

	savedPending, savedFlags := decoder.State()
	defer decoder.SetState(savedPending, savedFlags)
	return this.reconstruct(decoder, position, decFlags, nextInput, charsToSkip)
}

// reconstruct finds a cookie for the position charsToSkip characters after
// the snapshot point. The decoder state is modified.
func (this *TextWrapper) reconstruct(decoder Decoder, position int64, decFlags uint64,
	nextInput []byte, charsToSkip int) (Cookie, error) {
	// Fast search for a start point close to the current position.
	// Exactly one decode call for fixed size codecs.
	skipBytes := int(this.b2cratio * float64(charsToSkip))

	if skipBytes > len(nextInput) {
		skipBytes = len(nextInput)
	}

	skipBack := 1
	found := false

	for skipBytes > 0 {
		decoder.SetState(nil, decFlags)
		s, err := decoder.Decode(nextInput[:skipBytes], false)

		if err != nil {
			return Cookie{}, errors.Wrap(layerio.ErrPositionLost, err.Error())
		}

		n := utf8.RuneCountInString(s)

		if n <= charsToSkip {
			pending, flags := decoder.State()

			if len(pending) == 0 {
				// Before the position and nothing buffered in the decoder
				decFlags = flags
				charsToSkip -= n
				found = true
				break
			}

			// Skip back by the buffered amount and reset the heuristic
			skipBytes -= len(pending)
			skipBack = 1
		} else {
			// Too far ahead, skip back a bit
			skipBytes -= skipBack
			skipBack *= 2
		}
	}

	if found == false {
		skipBytes = 0
		decoder.SetState(nil, decFlags)
	}

	startPos := position + int64(skipBytes)
	startFlags := decFlags

	if charsToSkip == 0 {
		return Cookie{Position: startPos, DecFlags: startFlags}, nil
	}

	// Feed the decoder one byte at a time, noting the nearest safe start
	// point (nothing pending in the decoder) before the position
	bytesFed := 0
	charsDecoded := 0
	needEOF := false
	reached := false

	for i := skipBytes; i < len(nextInput); i++ {
		bytesFed++
		s, err := decoder.Decode(nextInput[i:i+1], false)

		if err != nil {
			return Cookie{}, errors.Wrap(layerio.ErrPositionLost, err.Error())
		}

		charsDecoded += utf8.RuneCountInString(s)
		pending, flags := decoder.State()

		if len(pending) == 0 && charsDecoded <= charsToSkip {
			startPos += int64(bytesFed)
			charsToSkip -= charsDecoded
			startFlags, bytesFed, charsDecoded = flags, 0, 0
		}

		if charsDecoded >= charsToSkip {
			reached = true
			break
		}
	}

	if reached == false {
		// Not enough decoded data: signal the end of input to get more
		s, err := decoder.Decode(nil, true)

		if err != nil {
			return Cookie{}, errors.Wrap(layerio.ErrPositionLost, err.Error())
		}

		charsDecoded += utf8.RuneCountInString(s)
		needEOF = true

		if charsDecoded < charsToSkip {
			return Cookie{}, layerio.ErrPositionLost
		}
	}

	return Cookie{Position: startPos, DecFlags: startFlags, BytesToFeed: bytesFed,
		NeedEOF: needEOF, CharsToSkip: charsToSkip}, nil
}

// Seek moves to a position returned by Tell (whence SEEK_SET), to the
// current position or to the end of the stream (whence SEEK_CUR or SEEK_END,
// zero cookie only). Returns the cookie of the new position.
func (this *TextWrapper) Seek(cookie Cookie, whence int) (Cookie, error) {
	if err := this.checkClosed(); err != nil {
		return Cookie{}, err
	}

	if this.seekable == false {
		return Cookie{}, errors.Wrap(layerio.ErrUnsupported, "underlying stream is not seekable")
	}

	switch whence {
	case layerio.SEEK_CUR:
		if cookie.IsZero() == false {
			return Cookie{}, layerio.NewIOError("Cannot do nonzero cur-relative seeks", layerio.ERR_UNSUPPORTED)
		}

		// Seeking to the current position may require decoding again
		c, err := this.Tell()

		if err != nil {
			return Cookie{}, err
		}

		cookie = c

	case layerio.SEEK_END:
		if cookie.IsZero() == false {
			return Cookie{}, layerio.NewIOError("Cannot do nonzero end-relative seeks", layerio.ERR_UNSUPPORTED)
		}

		if err := this.Flush(); err != nil {
			return Cookie{}, err
		}

		position, err := this.buffer.Seek(0, layerio.SEEK_END)

		if err != nil {
			return Cookie{}, err
		}

		this.setDecodedChars("")
		this.snapshot = nil

		if this.decoder != nil {
			this.decoder.Reset()
		}

		res := Cookie{Position: position}
		this.resetEncoder(res)
		this.notify(layerio.EVT_SEEK, 0)
		return res, nil

	case layerio.SEEK_SET:

	default:
		return Cookie{}, layerio.NewIOError("Invalid whence value", layerio.ERR_INVALID_PARAM)
	}

	if cookie.Position < 0 {
		return Cookie{}, layerio.NewIOError("Negative seek position", layerio.ERR_INVALID_PARAM)
	}

	if err := this.Flush(); err != nil {
		return Cookie{}, err
	}

	// Seek back to the safe start point
	if _, err := this.buffer.Seek(cookie.Position, layerio.SEEK_SET); err != nil {
		return Cookie{}, err
	}

	this.setDecodedChars("")
	this.snapshot = nil

	// Restore the decoder to its state from the safe start point
	if cookie.IsZero() == true {
		if this.decoder != nil {
			this.decoder.Reset()
		}
	} else {
		decoder, err := this.getDecoder()

		if err != nil {
			return Cookie{}, err
		}

		decoder.SetState(nil, cookie.DecFlags)
		this.snapshot = &snapshot{decFlags: cookie.DecFlags}
	}

	if cookie.CharsToSkip > 0 {
		// Just like readChunk, feed the decoder and save a snapshot
		input, err := this.buffer.ReadN(cookie.BytesToFeed)

		if err != nil && err != io.EOF {
			return Cookie{}, err
		}

		decoded, err := this.decoder.Decode(input, cookie.NeedEOF)

		if err != nil {
			return Cookie{}, err
		}

		this.setDecodedChars(decoded)
		this.snapshot = &snapshot{decFlags: cookie.DecFlags, nextInput: append([]byte(nil), input...)}

		// Skip chars_to_skip of the decoded characters
		if len(this.decodedChars) < cookie.CharsToSkip {
			return Cookie{}, layerio.ErrPositionLost
		}

		this.decodedUsed = cookie.CharsToSkip
	}

	this.resetEncoder(cookie)
	this.notify(layerio.EVT_SEEK, 0)
	return cookie, nil
}

func (this *TextWrapper) resetEncoder(cookie Cookie) {
	if this.encoder == nil && this.buffer.Writable() == false {
		return
	}

	encoder, err := this.getEncoder()

	if err != nil {
		return
	}

	if cookie.IsZero() == true {
		encoder.Reset()
	} else {
		encoder.SetState(0)
	}
}

// Truncate flushes the stream then resizes the underlying buffer. A negative
// size means the current position.
func (this *TextWrapper) Truncate(size int64) (int64, error) {
	if err := this.Flush(); err != nil {
		return 0, err
	}

	if size < 0 {
		cookie, err := this.Tell()

		if err != nil {
			return 0, err
		}

		if cookie.BytesToFeed != 0 || cookie.CharsToSkip != 0 || cookie.NeedEOF == true {
			return 0, layerio.NewIOError("Cannot truncate inside a decoded chunk", layerio.ERR_POSITION)
		}

		size = cookie.Position
	}

	return this.buffer.Truncate(size)
}

// Flush flushes the underlying buffer and enables telling
func (this *TextWrapper) Flush() error {
	if err := this.checkClosed(); err != nil {
		return err
	}

	if err := this.buffer.Flush(); err != nil {
		return err
	}

	this.telling = this.seekable
	return nil
}

// Close flushes the stream then closes the underlying buffer, even if the
// flush failed. Calling Close on a closed stream is a no-op.
func (this *TextWrapper) Close() error {
	if this.buffer == nil || this.buffer.Closed() == true {
		return nil
	}

	err := this.Flush()

	if err != nil {
		this.logger.Warn("flush failed on close", zap.String("stream", this.name), zap.Error(err))
	}

	err = multierr.Append(err, this.buffer.Close())
	this.notify(layerio.EVT_CLOSE, 0)
	return err
}

// Detach flushes the stream and separates it from the underlying buffer,
// which is returned. The TextWrapper is unusable afterwards.
func (this *TextWrapper) Detach() (layerio.BufferedStream, error) {
	if this.buffer == nil {
		return nil, layerio.ErrDetached
	}

	if err := this.Flush(); err != nil {
		return nil, err
	}

	buffer := this.buffer
	this.buffer = nil
	this.read1 = nil
	return buffer, nil
}

// DecodeAll decodes data with a fresh decoder configured like the one of
// the stream (encoding, error policy and newline translation)
func (this *TextWrapper) DecodeAll(data []byte) (string, error) {
	decoder, err := this.newDecoder()

	if err != nil {
		return "", err
	}

	return decoder.Decode(data, true)
}

// Buffer returns the underlying buffer (nil once detached)
func (this *TextWrapper) Buffer() layerio.BufferedStream {
	return this.buffer
}

// Encoding returns the name of the codec
func (this *TextWrapper) Encoding() string {
	return this.codec.Name()
}

// Errors returns the name of the error policy
func (this *TextWrapper) Errors() string {
	return this.errors
}

// LineBuffering returns true if the stream flushes on line endings
func (this *TextWrapper) LineBuffering() bool {
	return this.lineBuffering
}

// Newlines returns the kinds of line endings read so far (universal
// newline modes only)
func (this *TextWrapper) Newlines() []string {
	if this.newlines == nil {
		return nil
	}

	return this.newlines.Newlines()
}

// Name returns the name of the underlying buffer
func (this *TextWrapper) Name() string {
	return this.name
}

func (this *TextWrapper) Closed() bool {
	return this.buffer == nil || this.buffer.Closed()
}

func (this *TextWrapper) Readable() bool {
	return this.buffer != nil && this.buffer.Readable()
}

func (this *TextWrapper) Writable() bool {
	return this.buffer != nil && this.buffer.Writable()
}

func (this *TextWrapper) Seekable() bool {
	return this.buffer != nil && this.seekable
}

func (this *TextWrapper) Fileno() (int, error) {
	if err := this.checkClosed(); err != nil {
		return -1, err
	}

	return this.buffer.Fileno()
}

func (this *TextWrapper) IsATTY() (bool, error) {
	if err := this.checkClosed(); err != nil {
		return false, err
	}

	return this.buffer.IsATTY()
}

// AddListener adds an event listener
func (this *TextWrapper) AddListener(bl layerio.Listener) bool {
	return this.listeners.AddListener(bl)
}

// RemoveListener removes an event listener
func (this *TextWrapper) RemoveListener(bl layerio.Listener) bool {
	return this.listeners.RemoveListener(bl)
}
