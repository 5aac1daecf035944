//go:build unix

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
	"testing"

	layerio "github.com/layerio/layerio"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestFileIONonBlockingPipe(t *testing.T) {
	var fds [2]int
	require.NoError(t, unix.Pipe(fds[:]))

	r, err := NewFileIO(fds[0], "r", true, WithNonBlocking())
	require.NoError(t, err)
	defer r.Close()

	w, err := NewFileIO(fds[1], "w", true)
	require.NoError(t, err)
	defer w.Close()

	require.False(t, r.Seekable())
	_, err = r.Tell()
	require.ErrorIs(t, err, layerio.ErrUnsupported)

	buf := make([]byte, 16)
	n, err := r.Read(buf)
	require.Equal(t, 0, n)
	require.ErrorIs(t, err, layerio.ErrWouldBlock)

	_, err = w.Write([]byte("ping"))
	require.NoError(t, err)

	n, err = r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "ping", string(buf[:n]))

	_, err = NewFileIO(-1, "r", false)
	require.Equal(t, layerio.ERR_INVALID_PARAM, layerio.ErrorCode(err))
}

func TestFileIOKeepsForeignDescriptor(t *testing.T) {
	var fds [2]int
	require.NoError(t, unix.Pipe(fds[:]))
	defer unix.Close(fds[0])
	defer unix.Close(fds[1])

	w, err := NewFileIO(fds[1], "w", false)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// The descriptor is still usable after Close
	_, err = unix.Write(fds[1], []byte("x"))
	require.NoError(t, err)
}
