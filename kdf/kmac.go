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
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// Rates of the underlying cSHAKE instances.
const (
	cshake128Rate = 168
	cshake256Rate = 136
)

// KMAC implements the KMAC keyed hash (NIST SP 800-185) on top of cSHAKE.
type KMAC struct {
	initial sha3.ShakeHash // keyed state, cloned for each message
	shake   sha3.ShakeHash
	size    int
}

// NewKMAC128 creates a KMAC128 instance with the given key, output size in
// bytes, and customization string.
func NewKMAC128(key []byte, size int, customization []byte) *KMAC {
	return newKMAC(sha3.NewCShake128, cshake128Rate, key, size, customization)
}

// NewKMAC256 creates a KMAC256 instance with the given key, output size in
// bytes, and customization string.
func NewKMAC256(key []byte, size int, customization []byte) *KMAC {
	return newKMAC(sha3.NewCShake256, cshake256Rate, key, size, customization)
}

func newKMAC(newCShake func(n, s []byte) sha3.ShakeHash, rate int, key []byte, size int, customization []byte) *KMAC {
	shake := newCShake([]byte("KMAC"), customization)
	shake.Write(bytepad(encodeString(key), rate))
	return &KMAC{
		initial: shake,
		shake:   shake.Clone(),
		size:    size,
	}
}

func (k *KMAC) Write(data []byte) (int, error) {
	return k.shake.Write(data)
}

// Sum appends the KMAC output to `b` and returns the resulting slice. It
// does not change the underlying state, so more data can be written
// afterwards.
func (k *KMAC) Sum(b []byte) []byte {
	shake := k.shake.Clone()
	shake.Write(rightEncode(uint64(k.size) * 8))
	out := make([]byte, k.size)
	shake.Read(out)
	return append(b, out...)
}

// Reset restores the keyed initial state, discarding any written data.
func (k *KMAC) Reset() {
	k.shake = k.initial.Clone()
}

func (k *KMAC) Size() int {
	return k.size
}

// KMACKDF uses KMAC to derive a `size`-byte cryptographic key from a key
// initialization key (`kik`), a `label`, and a `context`. Implemented according to:
// * https://nvlpubs.nist.gov/nistpubs/SpecialPublications/NIST.SP.800-185.pdf section 4: KMAC
// * https://nvlpubs.nist.gov/nistpubs/SpecialPublications/NIST.SP.800-108r1.pdf section 5.4: KDF Using KMAC
func KMACKDF(size int, kik, label []byte, context ...[]byte) []byte {
	K := NewKMAC256(kik, size, label)
	for _, c := range context {
		K.Write(c)
	}
	return K.Sum(nil)
}

// KMACPRF implements PRFInterface using KMAC256 with a fixed output size.
type KMACPRF struct {
	size          int
	customization []byte
	mac           *KMAC
}

// NewKMAC256PRF creates a KMACPRF producing `size`-byte output blocks. The
// PRF is unkeyed until Initialize is called.
func NewKMAC256PRF(size int, customization []byte) *KMACPRF {
	return &KMACPRF{size: size, customization: copyBytes(customization)}
}

func (p *KMACPRF) Initialize(key []byte) error {
	p.mac = NewKMAC256(key, p.size, p.customization)
	return nil
}

func (p *KMACPRF) Update(data []byte) {
	p.mac.Write(data)
}

func (p *KMACPRF) Finalize(out []byte) []byte {
	out = p.mac.Sum(out)
	p.mac.Reset()
	return out
}

func (p *KMACPRF) Size() int {
	return p.size
}

// leftEncode and rightEncode are the integer encodings of SP 800-185: the
// minimal big-endian representation with the byte count prepended or
// appended.
func leftEncode(v uint64) []byte {
	var b [9]byte
	binary.BigEndian.PutUint64(b[1:], v)
	i := 1
	for i < 8 && b[i] == 0 {
		i++
	}
	b[i-1] = byte(9 - i)
	return b[i-1:]
}

func rightEncode(v uint64) []byte {
	var b [9]byte
	binary.BigEndian.PutUint64(b[:8], v)
	i := 0
	for i < 7 && b[i] == 0 {
		i++
	}
	b[8] = byte(8 - i)
	return b[i:]
}

func encodeString(s []byte) []byte {
	return append(leftEncode(uint64(len(s))*8), s...)
}

func bytepad(input []byte, w int) []byte {
	out := append(leftEncode(uint64(w)), input...)
	if rem := len(out) % w; rem != 0 {
		out = append(out, make([]byte, w-rem)...)
	}
	return out
}
