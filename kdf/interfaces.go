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

// Package kdf implements the counter mode key derivation function specified
// by NIST SP 800-108, generic over the underlying keyed pseudorandom
// function, plus the one-step KMAC based derivation of SP 800-108r1
// section 5.4 (KMACKDF).
package kdf

// PRFInterface represents a keyed pseudorandom function (a MAC). The counter
// mode generator relies only on this contract, making concrete PRFs
// interchangeable.
type PRFInterface interface {
	// Initialize keys the PRF, discarding any state from a previous key.
	Initialize(key []byte) error

	// Update feeds input into the PRF. It may be called any number of times
	// before Finalize.
	Update(data []byte)

	// Finalize appends the PRF output block to `out` and returns the
	// resulting slice. It must leave the PRF ready for a new Update/Finalize
	// cycle under the same key, without residual state from the finished
	// message.
	Finalize(out []byte) []byte

	// Size returns the PRF output length in bytes.
	Size() int
}

// RandomInterface provides an API for getting cryptographically secure random bytes.
type RandomInterface interface {
	// GetBytes generates the requested number of random bytes.
	GetBytes(n uint) ([]byte, error)
}
