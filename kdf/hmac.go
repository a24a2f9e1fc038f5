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
	"crypto/hmac"
	"hash"
)

// HMACPRF implements PRFInterface using HMAC over the given hash function.
type HMACPRF struct {
	newHash func() hash.Hash
	mac     hash.Hash
}

// NewHMACPRF creates an HMACPRF over the given hash function, e.g.
// sha256.New or sha3.New512. The PRF is unkeyed until Initialize is called.
func NewHMACPRF(newHash func() hash.Hash) *HMACPRF {
	return &HMACPRF{newHash: newHash}
}

func (p *HMACPRF) Initialize(key []byte) error {
	p.mac = hmac.New(p.newHash, key)
	return nil
}

func (p *HMACPRF) Update(data []byte) {
	p.mac.Write(data)
}

func (p *HMACPRF) Finalize(out []byte) []byte {
	out = p.mac.Sum(out)
	// Reset restores the keyed initial state, so the PRF is immediately
	// ready for the next message.
	p.mac.Reset()
	return out
}

func (p *HMACPRF) Size() int {
	if p.mac != nil {
		return p.mac.Size()
	}
	return p.newHash().Size()
}
