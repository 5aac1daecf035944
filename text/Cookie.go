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
	"fmt"
	"math/big"

	layerio "github.com/layerio/layerio"
)

// Cookie an opaque text stream position: the byte position of a point where
// the decoder had no pending input, the decoder flags at that point, the
// number of bytes to feed from there, whether the decoder must be flushed
// (end of input) and the number of characters to skip after decoding.
type Cookie struct {
	Position    int64
	DecFlags    uint64
	BytesToFeed int
	NeedEOF     bool
	CharsToSkip int
}

var mask64 = new(big.Int).SetUint64(^uint64(0))

// IsZero returns true for the cookie of the start of the stream
func (this Cookie) IsZero() bool {
	return this == Cookie{}
}

// Pack returns the integer representation of the cookie:
// Position | DecFlags<<64 | BytesToFeed<<128 | CharsToSkip<<192 | NeedEOF<<256
func (this Cookie) Pack() *big.Int {
	res := new(big.Int).SetUint64(uint64(this.Position))
	res.Or(res, new(big.Int).Lsh(new(big.Int).SetUint64(this.DecFlags), 64))
	res.Or(res, new(big.Int).Lsh(new(big.Int).SetUint64(uint64(this.BytesToFeed)), 128))
	res.Or(res, new(big.Int).Lsh(new(big.Int).SetUint64(uint64(this.CharsToSkip)), 192))

	if this.NeedEOF == true {
		res.SetBit(res, 256, 1)
	}

	return res
}

// UnpackCookie is the inverse of Cookie.Pack
func UnpackCookie(v *big.Int) (Cookie, error) {
	if v == nil || v.Sign() < 0 || v.BitLen() > 257 {
		return Cookie{}, layerio.NewIOError("Invalid position cookie", layerio.ERR_INVALID_PARAM)
	}

	field := func(shift uint) uint64 {
		return new(big.Int).And(new(big.Int).Rsh(v, shift), mask64).Uint64()
	}

	c := Cookie{
		Position:    int64(field(0)),
		DecFlags:    field(64),
		BytesToFeed: int(field(128)),
		CharsToSkip: int(field(192)),
		NeedEOF:     v.Bit(256) == 1,
	}

	if c.Position < 0 || c.BytesToFeed < 0 || c.CharsToSkip < 0 {
		return Cookie{}, layerio.NewIOError("Invalid position cookie", layerio.ERR_INVALID_PARAM)
	}

	return c, nil
}

// String returns the decimal representation of the packed cookie
func (this Cookie) String() string {
	return this.Pack().String()
}

// GoString returns the field by field representation of the cookie
func (this Cookie) GoString() string {
	return fmt.Sprintf("text.Cookie{Position:%d, DecFlags:%d, BytesToFeed:%d, NeedEOF:%v, CharsToSkip:%d}",
		this.Position, this.DecFlags, this.BytesToFeed, this.NeedEOF, this.CharsToSkip)
}
