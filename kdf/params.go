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

import "errors"

// Error returned if parameters are constructed without a seed key.
var ErrMissingSeed = errors.New("missing seed key")

// Error returned if the counter width is not one of 8, 16, 24, or 32 bits.
var ErrInvalidCounterWidth = errors.New("invalid counter width, accepted widths are 8, 16, 24, and 32 bits")

// Params bundles the inputs to a counter mode derivation session: the seed
// key (KI), the fixed input data split into the parts before and after the
// counter, and the width of the counter field in bits. All byte parameters
// are copied on construction and on every accessor call, so a Params value
// cannot be mutated through outside references once created.
type Params struct {
	seed        []byte
	prefix      []byte
	suffix      []byte
	counterBits int
}

// NewParams creates Params from a seed key, the fixed input data before and
// after the counter, and the counter width. `prefix` and `suffix` may be nil
// and default to empty. `counterBits` must be one of 8, 16, 24, or 32.
func NewParams(seed, prefix, suffix []byte, counterBits int) (Params, error) {
	if seed == nil {
		return Params{}, ErrMissingSeed
	}
	switch counterBits {
	case 8, 16, 24, 32:
	default:
		return Params{}, ErrInvalidCounterWidth
	}

	return Params{
		seed:        copyBytes(seed),
		prefix:      copyBytes(prefix),
		suffix:      copyBytes(suffix),
		counterBits: counterBits,
	}, nil
}

// NewParamsNoPrefix creates Params with an empty prefix, i.e. the counter
// comes first and all fixed input data follows it.
func NewParamsNoPrefix(seed, fixedInput []byte, counterBits int) (Params, error) {
	return NewParams(seed, nil, fixedInput, counterBits)
}

// Seed returns a copy of the seed key.
func (p *Params) Seed() []byte {
	return copyBytes(p.seed)
}

// Prefix returns a copy of the fixed input data placed before the counter.
func (p *Params) Prefix() []byte {
	return copyBytes(p.prefix)
}

// Suffix returns a copy of the fixed input data placed after the counter.
func (p *Params) Suffix() []byte {
	return copyBytes(p.suffix)
}

// CounterBits returns the width of the counter field in bits.
func (p *Params) CounterBits() int {
	return p.counterBits
}

func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
