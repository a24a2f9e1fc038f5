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

// Package key contains the definition of the Key Provider, as well as various
// implementations of the concept.
package key

// Keys contains a full set of working keys for a service, each derived for a
// single purpose. All keys must be 32 bytes.
type Keys struct {
	// Key Encryption Key used for wrapping data keys.
	KEK []byte

	// Data Encryption Key used for encrypting payloads.
	DEK []byte

	// Message Authentication Key used for integrity tags.
	MAK []byte

	// Token Key used for signing bearer tokens.
	TK []byte
}

// Provider is the interface a Key Provider must implement to serve keys.
type Provider interface {
	// GetKeys returns a set of keys.
	GetKeys() (Keys, error)
}
