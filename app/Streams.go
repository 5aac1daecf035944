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

package main

import (
	"io"
	"os"
	"unicode/utf8"

	layerio "github.com/layerio/layerio"
	"github.com/layerio/layerio/buffered"
	"github.com/layerio/layerio/raw"
	"github.com/layerio/layerio/text"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const STDIO_NAME = "-"

// stack the layers of an open text stream
type stack struct {
	raw    layerio.RawStream
	buffer layerio.BufferedStream
	text   *text.TextWrapper
}

// openRaw opens a file, or the standard input / output for "-"
func (this *application) openRaw(path, mode string) (layerio.RawStream, error) {
	if path != STDIO_NAME {
		return raw.Open(path, mode, raw.WithLogger(this.logger))
	}

	m, err := raw.ParseMode(mode)

	if err != nil {
		return nil, err
	}

	if m.Readable == true {
		return raw.NewFileIO(int(os.Stdin.Fd()), "r", false, raw.WithLogger(this.logger))
	}

	return raw.NewFileIO(int(os.Stdout.Fd()), "w", false, raw.WithLogger(this.logger))
}

// newBuffer selects the buffered stream matching the capabilities of r
func (this *application) newBuffer(r layerio.RawStream) (layerio.BufferedStream, error) {
	opts := []buffered.Option{buffered.WithLogger(this.logger), buffered.WithListener(this.events)}

	switch {
	case r.Readable() == true && r.Writable() == true && r.Seekable() == true:
		return buffered.NewBufferedRandom(r, this.cfg.bufferSize, opts...)

	case r.Writable() == true:
		return buffered.NewBufferedWriter(r, this.cfg.bufferSize, opts...)

	default:
		return buffered.NewBufferedReader(r, this.cfg.bufferSize, opts...)
	}
}

// openText builds the raw, buffered and text layers over a file
func (this *application) openText(path, mode string, cfg text.TextConfig) (*stack, error) {
	r, err := this.openRaw(path, mode)

	if err != nil {
		return nil, errors.Wrapf(err, "cannot open '%s'", path)
	}

	return this.wrapText(r, cfg)
}

// wrapText builds the buffered and text layers over a raw stream
func (this *application) wrapText(r layerio.RawStream, cfg text.TextConfig) (*stack, error) {
	buf, err := this.newBuffer(r)

	if err != nil {
		r.Close()
		return nil, err
	}

	tw, err := text.NewTextWrapper(buf, cfg)

	if err != nil {
		buf.Close()
		return nil, err
	}

	tw.AddListener(this.events)
	return &stack{raw: r, buffer: buf, text: tw}, nil
}

// outputText wraps a writer (usually the command output) in a text stream
func (this *application) outputText(w io.Writer, cfg text.TextConfig) (*stack, error) {
	if f, ok := w.(*os.File); ok == true && term.IsTerminal(int(f.Fd())) == true {
		cfg.LineBuffering = true
	}

	// Only expose the writer: the output is never read, seeked or closed
	return this.wrapText(raw.Wrap(struct{ io.Writer }{w}, "<output>"), cfg)
}

// copyText copies all the characters of src to dst (if not nil) and sink
// (if not nil), chunk by chunk. Returns the number of characters copied.
func copyText(dst, src *text.TextWrapper, sink io.Writer) (int64, error) {
	total := int64(0)

	for {
		s, err := src.Read(text.DEFAULT_CHUNK_SIZE)

		if len(s) > 0 {
			if sink != nil {
				io.WriteString(sink, s)
			}

			if dst == nil {
				total += int64(utf8.RuneCountInString(s))
			} else if n, werr := dst.WriteString(s); werr != nil {
				return total + int64(n), werr
			} else {
				total += int64(n)
			}
		}

		if err == io.EOF {
			return total, nil
		}

		if err != nil {
			return total, err
		}
	}
}

func closeQuietly(logger *zap.Logger, s layerio.Stream) {
	if err := s.Close(); err != nil {
		logger.Warn("close failed", zap.Error(err))
	}
}
