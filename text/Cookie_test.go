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
	"math/big"

	layerio "github.com/layerio/layerio"
	"github.com/layerio/layerio/text"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Cookie", func() {
	It("packs every field into one integer", func() {
		c := text.Cookie{Position: 123, DecFlags: 5, BytesToFeed: 3, NeedEOF: true, CharsToSkip: 2}
		v := c.Pack()
		Expect(v.BitLen()).To(Equal(257))

		res, err := text.UnpackCookie(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal(c))

		parsed, ok := new(big.Int).SetString(c.String(), 10)
		Expect(ok).To(BeTrue())
		Expect(parsed.Cmp(v)).To(Equal(0))
	})

	It("packs a plain position as itself", func() {
		Expect(text.Cookie{}.String()).To(Equal("0"))
		Expect(text.Cookie{}.IsZero()).To(BeTrue())
		Expect(text.Cookie{Position: 42}.String()).To(Equal("42"))
		Expect(text.Cookie{Position: 42}.IsZero()).To(BeFalse())
	})

	It("rejects invalid integers", func() {
		_, err := text.UnpackCookie(big.NewInt(-1))
		Expect(layerio.ErrorCode(err)).To(Equal(layerio.ERR_INVALID_PARAM))

		_, err = text.UnpackCookie(new(big.Int).Lsh(big.NewInt(1), 300))
		Expect(layerio.ErrorCode(err)).To(Equal(layerio.ERR_INVALID_PARAM))

		_, err = text.UnpackCookie(nil)
		Expect(err).To(HaveOccurred())
	})
})
