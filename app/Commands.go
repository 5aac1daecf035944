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
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	layerio "github.com/layerio/layerio"
	"github.com/layerio/layerio/hash"
	"github.com/layerio/layerio/text"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const _VERIFY_SEED = 0x4C415952

func newCatCommand(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "cat FILE...",
		Short: "Decode files and print their text as UTF-8",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.cat(cmd.OutOrStdout(), args)
		},
	}
}

func newCopyCommand(app *application) *cobra.Command {
	var fromEncoding, toEncoding string
	var verify bool

	cmd := &cobra.Command{
		Use:   "copy SRC DST",
		Short: "Copy a text file, converting its encoding and line endings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.copy(cmd.OutOrStdout(), args[0], args[1], fromEncoding, toEncoding, verify)
		},
	}

	cmd.Flags().StringVar(&fromEncoding, "from-encoding", "", "encoding of the source (default: --encoding)")
	cmd.Flags().StringVar(&toEncoding, "to-encoding", "", "encoding of the destination (default: --encoding)")
	cmd.Flags().BoolVar(&verify, "verify", false, "read the destination back and compare the text checksums")
	return cmd
}

func newLinesCommand(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "lines FILE",
		Short: "Print the numbered lines of a file and the kinds of line endings found",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.lines(cmd.OutOrStdout(), args[0])
		},
	}
}

func newInfoCommand(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Print the capabilities, size and text positions of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.info(cmd.OutOrStdout(), args[0])
		},
	}
}

func (this *application) utf8Output(w io.Writer) (*stack, error) {
	return this.outputText(w, text.TextConfig{Encoding: "utf-8", Newline: text.NEWLINE_LF, Logger: this.logger})
}

func (this *application) cat(w io.Writer, paths []string) error {
	inCfg, err := this.cfg.textConfig("", this.cfg.newline, this.logger)

	if err != nil {
		return err
	}

	out, err := this.utf8Output(w)

	if err != nil {
		return err
	}

	for _, path := range paths {
		in, err := this.openText(path, "r", inCfg)

		if err != nil {
			out.text.Flush()
			return err
		}

		_, err = copyText(out.text, in.text, nil)
		closeQuietly(this.logger, in.text)

		if err != nil {
			out.text.Flush()
			return errors.Wrapf(err, "cat '%s'", path)
		}
	}

	return out.text.Flush()
}

func (this *application) copy(w io.Writer, src, dst, fromEncoding, toEncoding string, verify bool) error {
	inCfg, err := this.cfg.textConfig(fromEncoding, "universal", this.logger)

	if err != nil {
		return err
	}

	outCfg, err := this.cfg.textConfig(toEncoding, this.cfg.newline, this.logger)

	if err != nil {
		return err
	}

	in, err := this.openText(src, "r", inCfg)

	if err != nil {
		return err
	}

	defer closeQuietly(this.logger, in.text)
	out, err := this.openText(dst, "w", outCfg)

	if err != nil {
		return err
	}

	var digest *hash.XXHash32
	var sink io.Writer

	if verify == true {
		digest = hash.NewXXHash32(_VERIFY_SEED)
		sink = digest
	}

	n, err := copyText(out.text, in.text, sink)

	if err != nil {
		closeQuietly(this.logger, out.text)
		return errors.Wrapf(err, "copy '%s' to '%s'", src, dst)
	}

	if err := out.text.Close(); err != nil {
		return errors.Wrapf(err, "copy '%s' to '%s'", src, dst)
	}

	this.logger.Info("copy done", zap.String("src", src), zap.String("dst", dst), zap.Int64("chars", n))
	fmt.Fprintf(w, "%d characters copied from %s (%s) to %s (%s)\n", n, src, in.text.Encoding(),
		dst, out.text.Encoding())

	if verify == false {
		return nil
	}

	checkCfg, err := this.cfg.textConfig(toEncoding, "universal", this.logger)

	if err != nil {
		return err
	}

	back, err := this.openText(dst, "r", checkCfg)

	if err != nil {
		return err
	}

	defer closeQuietly(this.logger, back.text)
	check := hash.NewXXHash32(_VERIFY_SEED)

	if _, err := copyText(nil, back.text, check); err != nil {
		return errors.Wrapf(err, "verify '%s'", dst)
	}

	if digest.Sum32() != check.Sum32() {
		return layerio.NewIOError(fmt.Sprintf("Verification failed: source %08x, destination %08x",
			digest.Sum32(), check.Sum32()), layerio.ERR_INVALID_RESULT)
	}

	fmt.Fprintf(w, "verified: xxhash32 %08x\n", digest.Sum32())
	return nil
}

func formatNewlines(nl []string) string {
	if len(nl) == 0 {
		return "none"
	}

	quoted := make([]string, len(nl))

	for i := range nl {
		quoted[i] = strconv.Quote(nl[i])
	}

	return strings.Join(quoted, ", ")
}

func (this *application) lines(w io.Writer, path string) error {
	inCfg, err := this.cfg.textConfig("", this.cfg.newline, this.logger)

	if err != nil {
		return err
	}

	in, err := this.openText(path, "r", inCfg)

	if err != nil {
		return err
	}

	defer closeQuietly(this.logger, in.text)
	out, err := this.utf8Output(w)

	if err != nil {
		return err
	}

	count := 0

	for {
		line, err := in.text.Next()

		if err == io.EOF {
			break
		}

		if err != nil {
			out.text.Flush()
			return errors.Wrapf(err, "lines '%s'", path)
		}

		count++
		fmt.Fprintf(out.text, "%6d\t%s\n", count, strings.TrimRight(line, "\r\n"))
	}

	fmt.Fprintf(out.text, "%d lines, newlines: %s\n", count, formatNewlines(in.text.Newlines()))
	return out.text.Flush()
}

func (this *application) info(w io.Writer, path string) error {
	inCfg, err := this.cfg.textConfig("", this.cfg.newline, this.logger)

	if err != nil {
		return err
	}

	r, err := this.openRaw(path, "r")

	if err != nil {
		return errors.Wrapf(err, "cannot open '%s'", path)
	}

	size := int64(-1)

	if r.Seekable() == true {
		if size, err = r.Seek(0, layerio.SEEK_END); err == nil {
			_, err = r.Seek(0, layerio.SEEK_SET)
		}

		if err != nil {
			r.Close()
			return err
		}
	}

	fileno, _ := r.Fileno()
	tty, _ := r.IsATTY()
	in, err := this.wrapText(r, inCfg)

	if err != nil {
		return err
	}

	defer closeQuietly(this.logger, in.text)
	out, err := this.utf8Output(w)

	if err != nil {
		return err
	}

	fmt.Fprintf(out.text, "name:     %s\n", in.text.Name())
	fmt.Fprintf(out.text, "size:     %d bytes\n", size)
	fmt.Fprintf(out.text, "fileno:   %d (tty: %v)\n", fileno, tty)
	fmt.Fprintf(out.text, "access:   readable=%v writable=%v seekable=%v\n",
		in.text.Readable(), in.text.Writable(), in.text.Seekable())
	fmt.Fprintf(out.text, "encoding: %s (errors: %s)\n", in.text.Encoding(), in.text.Errors())
	first, err := in.text.ReadLine(-1)

	if err != nil && err != io.EOF {
		out.text.Flush()
		return err
	}

	if in.text.Seekable() == true {
		cookie, err := in.text.Tell()

		if err != nil {
			out.text.Flush()
			return err
		}

		fmt.Fprintf(out.text, "line 1:   %d chars, ends at cookie %s (%#v)\n",
			utf8.RuneCountInString(first), cookie, cookie)
	}

	rest, err := in.text.Read(-1)

	if err != nil {
		out.text.Flush()
		return err
	}

	fmt.Fprintf(out.text, "text:     %d chars, newlines: %s\n",
		utf8.RuneCountInString(first)+utf8.RuneCountInString(rest), formatNewlines(in.text.Newlines()))
	return out.text.Flush()
}
