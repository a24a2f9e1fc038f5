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

package key

import (
	kbkdf "github.com/subkey-io/kbkdf-lib"
	"github.com/subkey-io/kbkdf-lib/kdf"
)

// KeyLength is the length of each derived key in bytes.
const KeyLength = 32

// Derived implements a Key Provider which derives the key set from a master
// seed in counter mode, one labeled derivation per key. The optional context
// separates key sets derived from the same seed, e.g. per tenant or per
// deployment.
type Derived struct {
	deriver kbkdf.Deriver
	context []byte
}

// NewDerived creates a new Derived key provider on top of the given master
// seed and PRF.
func NewDerived(seed []byte, prf kdf.PRFInterface, context []byte) (Derived, error) {
	deriver, err := kbkdf.New(seed, prf)
	if err != nil {
		return Derived{}, err
	}

	contextCopy := make([]byte, len(context))
	copy(contextCopy, context)

	return Derived{deriver: deriver, context: contextCopy}, nil
}

// GetKeys derives and returns the set of keys.
func (d *Derived) GetKeys() (Keys, error) {
	kek, err := d.deriver.DeriveKey(KeyLength, []byte("kek"), d.context)
	if err != nil {
		return Keys{}, err
	}
	dek, err := d.deriver.DeriveKey(KeyLength, []byte("dek"), d.context)
	if err != nil {
		return Keys{}, err
	}
	mak, err := d.deriver.DeriveKey(KeyLength, []byte("mak"), d.context)
	if err != nil {
		return Keys{}, err
	}
	tk, err := d.deriver.DeriveKey(KeyLength, []byte("tk"), d.context)
	if err != nil {
		return Keys{}, err
	}

	return Keys{KEK: kek, DEK: dek, MAK: mak, TK: tk}, nil
}
