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
	"errors"
	"math"
)

// Error returned if bytes are read from a generator before Init.
var ErrNotInitialized = errors.New("generator not initialized")

// Error returned if a derivation session would exceed the total output
// length supported by the counter width. The session cannot produce more
// bytes; a fresh Init with a wider counter is required.
var ErrLimitExceeded = errors.New("requested output exceeds the limit for the counter width")

// CounterGenerator derives an arbitrarily long pseudorandom byte stream from
// a seed key in KDF counter mode. Block K(i) is the PRF of
// prefix || [i] || suffix under the seed key, with [i] the big-endian block
// index sized to the counter width, and the stream is K(1) || K(2) || ...
//
// Output is buffered internally, so the stream may be read in chunks of any
// size: block boundaries are tracked by the number of bytes produced so far,
// never by call boundaries. A generator is not safe for concurrent use.
type CounterGenerator struct {
	prf       PRFInterface
	blockSize int

	prefix  []byte
	suffix  []byte
	counter []byte

	maxSizeExcl int64
	generated   int64
	block       []byte
}

// NewCounterGenerator creates a CounterGenerator on top of the given PRF.
// Init must be called before the generator can produce bytes.
func NewCounterGenerator(prf PRFInterface) *CounterGenerator {
	return &CounterGenerator{prf: prf}
}

// Init starts a derivation session with the given parameters, keying the
// PRF with the seed. Calling Init on a generator that has already produced
// bytes starts a fresh, independent session with the counter back at 1.
func (g *CounterGenerator) Init(params Params) error {
	if params.seed == nil {
		return ErrMissingSeed
	}
	if err := g.prf.Initialize(params.Seed()); err != nil {
		return err
	}

	g.blockSize = g.prf.Size()
	g.prefix = params.Prefix()
	g.suffix = params.Suffix()
	g.counter = make([]byte, params.counterBits/8)

	// 2^r blocks of h bytes each, computed wide before narrowing.
	maxSize := uint64(g.blockSize) << uint(params.counterBits)
	if maxSize > math.MaxInt64 {
		maxSize = math.MaxInt64
	}
	g.maxSizeExcl = int64(maxSize)
	g.generated = 0
	g.block = make([]byte, 0, g.blockSize)

	return nil
}

// Read fills `out` with the next len(out) bytes of the derived stream. On
// success it always returns len(out). If the cumulative output would reach
// the limit implied by the counter width, it returns ErrLimitExceeded and
// produces nothing.
func (g *CounterGenerator) Read(out []byte) (int, error) {
	if g.block == nil {
		return 0, ErrNotInitialized
	}
	if int64(len(out)) >= g.maxSizeExcl-g.generated {
		return 0, ErrLimitExceeded
	}

	for off := 0; off < len(out); {
		pos := int(g.generated % int64(g.blockSize))
		if pos == 0 {
			g.nextBlock()
		}
		n := copy(out[off:], g.block[pos:])
		off += n
		g.generated += int64(n)
	}

	return len(out), nil
}

// nextBlock computes K(i) for the block the output cursor sits in, feeding
// the PRF with prefix || [i] || suffix.
func (g *CounterGenerator) nextBlock() {
	if len(g.counter) < 1 || len(g.counter) > 4 {
		panic("kdf: unsupported counter width")
	}

	// Big-endian block index, truncated to the counter width. There is no
	// K(0), the first block is K(1).
	i := uint64(g.generated/int64(g.blockSize)) + 1
	for j := len(g.counter) - 1; j >= 0; j-- {
		g.counter[j] = byte(i)
		i >>= 8
	}

	g.prf.Update(g.prefix)
	g.prf.Update(g.counter)
	g.prf.Update(g.suffix)
	g.block = g.prf.Finalize(g.block[:0])
}
