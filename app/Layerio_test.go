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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	layerio "github.com/layerio/layerio"
	"github.com/layerio/layerio/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setDefaultEnv(t *testing.T) {
	t.Setenv("LAYERIO_BUFFER_SIZE", "16")
	t.Setenv("LAYERIO_ENCODING", "utf-8")
	t.Setenv("LAYERIO_ERRORS", "strict")
	t.Setenv("LAYERIO_NEWLINE", "universal")
	t.Setenv("LAYERIO_VERBOSE", "false")
}

func runCommand(t *testing.T, args ...string) (string, error) {
	setDefaultEnv(t)
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name string, data []byte) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestCatCommand(t *testing.T) {
	first := writeFile(t, "first.txt", []byte("a\r\nb\rc\n"))
	second := writeFile(t, "second.txt", []byte("h\xe9t\xe9\n"))

	out, err := runCommand(t, "cat", first)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", out)

	out, err = runCommand(t, "-e", "latin-1", "cat", second, second)
	require.NoError(t, err)
	assert.Equal(t, "hété\nhété\n", out)

	// Invalid UTF-8 under the strict policy
	_, err = runCommand(t, "cat", second)
	require.Error(t, err)
	assert.Equal(t, layerio.ERR_DECODE, layerio.ErrorCode(err))

	out, err = runCommand(t, "--errors", "replace", "cat", second)
	require.NoError(t, err)
	assert.Equal(t, "h\uFFFDt\uFFFD\n", out)
}

func TestCopyCommand(t *testing.T) {
	src := writeFile(t, "src.txt", []byte("héllo\nwörld\n"))
	dst := filepath.Join(t.TempDir(), "dst.txt")

	out, err := runCommand(t, "-n", "crlf", "copy", "--to-encoding", "latin-1", "--verify", src, dst)
	require.NoError(t, err)
	assert.Contains(t, out, "12 characters copied from "+src)
	assert.Contains(t, out, "verified: xxhash32 ")

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("h\xe9llo\r\nw\xf6rld\r\n"), data)

	// Back to UTF-8 with Unix line endings
	back := filepath.Join(t.TempDir(), "back.txt")
	_, err = runCommand(t, "-n", "lf", "copy", "--from-encoding", "latin-1", dst, back)
	require.NoError(t, err)

	data, err = os.ReadFile(back)
	require.NoError(t, err)
	assert.Equal(t, "héllo\nwörld\n", string(data))

	// Characters that latin-1 cannot encode
	src = writeFile(t, "euro.txt", []byte("10 €\n"))
	_, err = runCommand(t, "copy", "--to-encoding", "latin-1", src, dst)
	require.Error(t, err)
	assert.Equal(t, layerio.ERR_ENCODE, layerio.ErrorCode(err))
}

func TestLinesCommand(t *testing.T) {
	path := writeFile(t, "lines.txt", []byte("one\r\ntwo\nthree"))

	out, err := runCommand(t, "lines", path)
	require.NoError(t, err)
	assert.Equal(t, "     1\tone\n     2\ttwo\n     3\tthree\n3 lines, newlines: \"\\n\", \"\\r\\n\"\n", out)

	empty := writeFile(t, "empty.txt", nil)
	out, err = runCommand(t, "lines", empty)
	require.NoError(t, err)
	assert.Equal(t, "0 lines, newlines: none\n", out)
}

func TestInfoCommand(t *testing.T) {
	path := writeFile(t, "info.txt", []byte("first\nsecond\r\n"))

	out, err := runCommand(t, "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "name:     "+path+"\n")
	assert.Contains(t, out, "size:     14 bytes\n")
	assert.Contains(t, out, "access:   readable=true writable=false seekable=true\n")
	assert.Contains(t, out, "line 1:   6 chars, ends at cookie 6 ")
	assert.Contains(t, out, "text:     13 chars, newlines: \"\\n\", \"\\r\\n\"\n")
}

func TestCommandErrors(t *testing.T) {
	_, err := runCommand(t, "-n", "lfcr", "cat", "whatever")
	require.Error(t, err)
	assert.Equal(t, layerio.ERR_INVALID_PARAM, exitCode(err))

	_, err = runCommand(t, "cat", filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.txt")

	_, err = runCommand(t, "copy", "only-one-arg")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
	assert.Equal(t, 1, exitCode(os.ErrNotExist))
}

func TestConfig(t *testing.T) {
	setDefaultEnv(t)
	t.Setenv("LAYERIO_BUFFER_SIZE", "64")
	t.Setenv("LAYERIO_ENCODING", "utf-16")
	t.Setenv("LAYERIO_VERBOSE", "true")

	cfg := defaultConfig()
	assert.Equal(t, 64, cfg.bufferSize)
	assert.Equal(t, "utf-16", cfg.encoding)
	assert.True(t, cfg.verbose)

	tc, err := cfg.textConfig("", "CRLF", nil)
	require.NoError(t, err)
	assert.Equal(t, "utf-16", tc.Encoding)
	assert.Equal(t, text.NEWLINE_CRLF, tc.Newline)

	tc, err = cfg.textConfig("cp1252", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "cp1252", tc.Encoding)
	assert.Equal(t, text.NEWLINE_UNIVERSAL, tc.Newline)

	modes := map[string]int{
		"universal":    text.NEWLINE_UNIVERSAL,
		"untranslated": text.NEWLINE_UNTRANSLATED,
		"none":         text.NEWLINE_UNTRANSLATED,
		"lf":           text.NEWLINE_LF,
		"\\r":          text.NEWLINE_CR,
		"CrLf":         text.NEWLINE_CRLF,
	}

	for s, expected := range modes {
		nl, err := parseNewline(s)
		require.NoError(t, err, s)
		assert.Equal(t, expected, nl, s)
	}

	_, err = parseNewline("\n\r")
	assert.Equal(t, layerio.ERR_INVALID_PARAM, layerio.ErrorCode(err))
}
