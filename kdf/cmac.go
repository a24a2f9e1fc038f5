// Copyright (C) 2023 SUBKEY
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package kdf

import (
	"crypto/aes"
	"crypto/cipher"
)

const cmacBlockSize = 16

// CMACPRF implements PRFInterface using AES-CMAC as specified by NIST
// SP 800-38B. Initialize accepts AES-128, AES-192, and AES-256 keys.
type CMACPRF struct {
	block cipher.Block
	k1    [cmacBlockSize]byte
	k2    [cmacBlockSize]byte

	x   [cmacBlockSize]byte
	buf [cmacBlockSize]byte
	n   int
}

// NewCMACPRF creates a CMACPRF. The PRF is unkeyed until Initialize is called.
func NewCMACPRF() *CMACPRF {
	return &CMACPRF{}
}

func (p *CMACPRF) Initialize(key []byte) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	p.block = block

	var l [cmacBlockSize]byte
	block.Encrypt(l[:], l[:])
	dbl(&p.k1, &l)
	dbl(&p.k2, &p.k1)

	p.reset()
	return nil
}

func (p *CMACPRF) Update(data []byte) {
	for len(data) > 0 {
		// A full block is only chained once more input arrives; the final
		// block needs the subkey treatment in Finalize.
		if p.n == cmacBlockSize {
			p.chain()
		}
		n := copy(p.buf[p.n:], data)
		p.n += n
		data = data[n:]
	}
}

func (p *CMACPRF) Finalize(out []byte) []byte {
	var last [cmacBlockSize]byte
	if p.n == cmacBlockSize {
		for i := range last {
			last[i] = p.buf[i] ^ p.k1[i]
		}
	} else {
		copy(last[:], p.buf[:p.n])
		last[p.n] = 0x80
		for i := range last {
			last[i] ^= p.k2[i]
		}
	}
	for i := range last {
		last[i] ^= p.x[i]
	}
	p.block.Encrypt(last[:], last[:])

	p.reset()
	return append(out, last[:]...)
}

func (p *CMACPRF) Size() int {
	return cmacBlockSize
}

func (p *CMACPRF) reset() {
	p.x = [cmacBlockSize]byte{}
	p.n = 0
}

func (p *CMACPRF) chain() {
	for i := range p.x {
		p.x[i] ^= p.buf[i]
	}
	p.block.Encrypt(p.x[:], p.x[:])
	p.n = 0
}

// dbl doubles an element of GF(2^128), the SP 800-38B subkey derivation step.
func dbl(dst, src *[cmacBlockSize]byte) {
	carry := byte(0)
	for i := cmacBlockSize - 1; i >= 0; i-- {
		b := src[i]
		dst[i] = b<<1 | carry
		carry = b >> 7
	}
	if carry != 0 {
		dst[cmacBlockSize-1] ^= 0x87
	}
}
