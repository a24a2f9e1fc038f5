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

package kbkdf

import (
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/sha3"

	"github.com/subkey-io/kbkdf-lib/kdf"
)

const seedLength = 32
const saltLength = 8
const iterationCount = 10000

// NewRandomSeed generates a fresh random seed key.
func NewRandomSeed() ([]byte, error) {
	random := &kdf.NativeRandom{}
	return random.GetBytes(seedLength)
}

// NewSalt generates a fresh random salt for NewPasswordSeed.
func NewSalt() ([]byte, error) {
	random := &kdf.NativeRandom{}
	return random.GetBytes(saltLength)
}

// NewPasswordSeed stretches a password into seed key material using pbkdf2.
// The same password and salt always produce the same seed.
func NewPasswordSeed(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, iterationCount, seedLength, sha3.New256)
}
