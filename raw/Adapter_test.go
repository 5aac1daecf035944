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

package raw

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	layerio "github.com/layerio/layerio"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type dataThenEOF struct {
	data []byte
}

func (this *dataThenEOF) Read(p []byte) (int, error) {
	n := copy(p, this.data)
	this.data = this.data[n:]

	if len(this.data) == 0 {
		return n, io.EOF
	}

	return n, nil
}

type idleReader struct{}

func (this idleReader) Read(p []byte) (int, error) {
	return 0, nil
}

func TestAdapterCapabilities(t *testing.T) {
	a := Wrap(strings.NewReader("abc"), "reader")
	require.True(t, a.Readable())
	require.False(t, a.Writable())
	require.True(t, a.Seekable())
	require.Equal(t, "reader", a.Name())

	var buf bytes.Buffer
	a = Wrap(&buf, "buffer")
	require.True(t, a.Readable())
	require.True(t, a.Writable())
	require.False(t, a.Seekable())

	_, err := a.Seek(0, io.SeekStart)
	require.ErrorIs(t, err, layerio.ErrUnsupported)
	_, err = a.Truncate(0)
	require.ErrorIs(t, err, layerio.ErrUnsupported)
	_, err = a.Fileno()
	require.ErrorIs(t, err, layerio.ErrUnsupported)

	w := Wrap(struct{ io.Writer }{&buf}, "writer")
	require.False(t, w.Readable())
	_, err = w.Read(make([]byte, 1))
	require.Equal(t, layerio.ERR_UNSUPPORTED, layerio.ErrorCode(err))

	n, err := w.Write([]byte("xyz"))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, "xyz", buf.String())
}

func TestAdapterReadContract(t *testing.T) {
	a := Wrap(&dataThenEOF{data: []byte("abc")}, "")
	buf := make([]byte, 8)

	// Data returned along with io.EOF comes first
	n, err := a.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "abc", string(buf[:n]))

	n, err = a.Read(buf)
	require.Equal(t, 0, n)
	require.Equal(t, io.EOF, err)

	a = Wrap(idleReader{}, "")
	_, err = a.Read(buf)
	require.ErrorIs(t, err, layerio.ErrWouldBlock)
}

func TestAdapterSeekTell(t *testing.T) {
	a := Wrap(strings.NewReader("0123456789"), "")
	pos, err := a.Seek(4, io.SeekStart)
	require.NoError(t, err)
	require.Equal(t, int64(4), pos)

	buf := make([]byte, 2)
	_, err = a.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "45", string(buf))

	pos, err = a.Tell()
	require.NoError(t, err)
	require.Equal(t, int64(6), pos)

	require.NoError(t, a.Close())
	require.True(t, a.Closed())
	_, err = a.Read(buf)
	require.ErrorIs(t, err, layerio.ErrClosed)
	require.ErrorIs(t, a.Flush(), layerio.ErrClosed)
}

func TestAdapterFileno(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "adapter.bin"))
	require.NoError(t, err)

	a := Wrap(f, f.Name())
	fd, err := a.Fileno()
	require.NoError(t, err)
	require.Equal(t, int(f.Fd()), fd)

	tty, err := a.IsATTY()
	require.NoError(t, err)
	require.False(t, tty)

	require.NoError(t, a.Close())
	_, err = a.Fileno()
	require.ErrorIs(t, err, layerio.ErrClosed)
	_, err = a.IsATTY()
	require.ErrorIs(t, err, layerio.ErrClosed)
}

func TestOptions(t *testing.T) {
	logger := zap.NewExample()
	o := newOptions([]Option{WithNonBlocking(), WithPerm(0600), WithLogger(logger), WithLogger(nil)})
	require.True(t, o.nonBlocking)
	require.Equal(t, 0600, int(o.perm))
	require.Same(t, logger, o.logger)
}
