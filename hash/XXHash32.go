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

// Package hash provides the content checksum used to verify copies made
// through the stream stack.
package hash

import (
	"encoding/binary"
	"math/bits"
)

// XXHash32 is an extremely fast hash algorithm. It was written by Yann Collet.
// See https://github.com/Cyan4973/xxHash

const (
	_XXHASH_PRIME32_1 = uint32(2654435761)
	_XXHASH_PRIME32_2 = uint32(2246822519)
	_XXHASH_PRIME32_3 = uint32(3266489917)
	_XXHASH_PRIME32_4 = uint32(668265263)
	_XXHASH_PRIME32_5 = uint32(374761393)

	_XXHASH_STRIPE = 16
)

// XXHash32 a streaming XXHash32 digest. It implements hash.Hash32 so that
// data can be hashed as it flows through an io.Writer.
type XXHash32 struct {
	seed  uint32
	v     [4]uint32
	total uint64
	mem   [_XXHASH_STRIPE]byte
	used  int
}

// NewXXHash32 creates a new instance of XXHash32
func NewXXHash32(seed uint32) *XXHash32 {
	this := &XXHash32{seed: seed}
	this.Reset()
	return this
}

// SetSeed sets the hash seed and resets the digest
func (this *XXHash32) SetSeed(seed uint32) {
	this.seed = seed
	this.Reset()
}

// Reset restores the initial state
func (this *XXHash32) Reset() {
	this.v[0] = this.seed + _XXHASH_PRIME32_1 + _XXHASH_PRIME32_2
	this.v[1] = this.seed + _XXHASH_PRIME32_2
	this.v[2] = this.seed
	this.v[3] = this.seed - _XXHASH_PRIME32_1
	this.total = 0
	this.used = 0
}

// Size returns the number of bytes Sum appends
func (this *XXHash32) Size() int {
	return 4
}

// BlockSize returns the stripe size
func (this *XXHash32) BlockSize() int {
	return _XXHASH_STRIPE
}

// Write adds data to the digest. It never fails.
func (this *XXHash32) Write(data []byte) (int, error) {
	n := len(data)
	this.total += uint64(n)

	if this.used > 0 {
		k := copy(this.mem[this.used:], data)
		this.used += k
		data = data[k:]

		if this.used < _XXHASH_STRIPE {
			return n, nil
		}

		this.stripe(this.mem[:])
		this.used = 0
	}

	for len(data) >= _XXHASH_STRIPE {
		this.stripe(data[:_XXHASH_STRIPE])
		data = data[_XXHASH_STRIPE:]
	}

	this.used = copy(this.mem[:], data)
	return n, nil
}

func (this *XXHash32) stripe(buf []byte) {
	this.v[0] = xxHash32Round(this.v[0], binary.LittleEndian.Uint32(buf[0:4]))
	this.v[1] = xxHash32Round(this.v[1], binary.LittleEndian.Uint32(buf[4:8]))
	this.v[2] = xxHash32Round(this.v[2], binary.LittleEndian.Uint32(buf[8:12]))
	this.v[3] = xxHash32Round(this.v[3], binary.LittleEndian.Uint32(buf[12:16]))
}

// Sum32 returns the hash of the data written so far
func (this *XXHash32) Sum32() uint32 {
	var h32 uint32

	if this.total >= _XXHASH_STRIPE {
		h32 = bits.RotateLeft32(this.v[0], 1) + bits.RotateLeft32(this.v[1], 7) +
			bits.RotateLeft32(this.v[2], 12) + bits.RotateLeft32(this.v[3], 18)
	} else {
		h32 = this.seed + _XXHASH_PRIME32_5
	}

	h32 += uint32(this.total)
	tail := this.mem[:this.used]

	for len(tail) >= 4 {
		h32 += binary.LittleEndian.Uint32(tail) * _XXHASH_PRIME32_3
		h32 = bits.RotateLeft32(h32, 17) * _XXHASH_PRIME32_4
		tail = tail[4:]
	}

	for _, b := range tail {
		h32 += uint32(b) * _XXHASH_PRIME32_5
		h32 = bits.RotateLeft32(h32, 11) * _XXHASH_PRIME32_1
	}

	h32 ^= h32 >> 15
	h32 *= _XXHASH_PRIME32_2
	h32 ^= h32 >> 13
	h32 *= _XXHASH_PRIME32_3
	return h32 ^ (h32 >> 16)
}

// Sum appends the big endian hash to b
func (this *XXHash32) Sum(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, this.Sum32())
}

// Hash returns the hash of data, independently of the streaming state
func (this *XXHash32) Hash(data []byte) uint32 {
	h := NewXXHash32(this.seed)
	h.Write(data)
	return h.Sum32()
}

func xxHash32Round(acc, val uint32) uint32 {
	acc += val * _XXHASH_PRIME32_2
	return bits.RotateLeft32(acc, 13) * _XXHASH_PRIME32_1
}
