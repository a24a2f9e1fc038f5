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

/*
Package kbkdf is a library for key based key derivation: it stretches one
master seed key into any number of named subkeys using the counter mode key
derivation function specified by NIST SP 800-108, on top of an
interchangeable pseudorandom function.
*/
package kbkdf

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/gofrs/uuid"
	json "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"github.com/subkey-io/kbkdf-lib/kdf"
	"github.com/subkey-io/kbkdf-lib/log"
)

// DefaultCounterWidth is the counter width used by New, in bits.
const DefaultCounterWidth = 32

// Error returned if a Deriver is created without a PRF.
var ErrMissingPRF = errors.New("missing PRF")

// Error returned if the requested subkey size is non-positive or too large
// for the 32 bit length field of the PRF input.
var ErrInvalidSize = errors.New("invalid subkey size")

// Deriver is the entry point to the library. It binds a master seed key to a
// PRF and derives labeled subkeys from it. Every derivation is an
// independent counter mode session, so the same label and context always
// yield the same subkey. A Deriver is not safe for concurrent use, as the
// bound PRF is stateful.
type Deriver struct {
	seed        []byte
	prf         kdf.PRFInterface
	counterBits int
	logger      zerolog.Logger
}

// New creates a Deriver that stretches `seed` with the given PRF, using the
// default 32 bit counter.
func New(seed []byte, prf kdf.PRFInterface) (Deriver, error) {
	return NewWithCounterWidth(seed, prf, DefaultCounterWidth)
}

// NewWithCounterWidth creates a Deriver with an explicit counter width. The
// width bounds the length of each derived subkey at 2^counterBits blocks of
// PRF output.
func NewWithCounterWidth(seed []byte, prf kdf.PRFInterface, counterBits int) (Deriver, error) {
	if prf == nil {
		return Deriver{}, ErrMissingPRF
	}
	// Validated through Params so the Deriver rejects exactly the inputs the
	// generator would.
	params, err := kdf.NewParams(seed, nil, nil, counterBits)
	if err != nil {
		return Deriver{}, err
	}

	return Deriver{
		seed:        params.Seed(),
		prf:         prf,
		counterBits: counterBits,
		logger:      zerolog.Nop(),
	}, nil
}

// SetLogger configures a logger for the Deriver. By default nothing is logged.
func (d *Deriver) SetLogger(logger zerolog.Logger) {
	d.logger = logger
}

// DeriveKey derives a `size`-byte subkey identified by `label` and an
// optional `context`. The PRF input is laid out as
// counter || label || 0x00 || context || [L]_2, with L the subkey length in
// bits as a 32 bit big-endian integer, so subkeys of different sizes are
// independent even under the same label.
func (d *Deriver) DeriveKey(size int, label []byte, context ...[]byte) ([]byte, error) {
	l := d.sessionLogger("DeriveKey", label)

	generator, err := d.newSession(size, label, context...)
	if err != nil {
		l.Debug().Err(err).Msg("derivation rejected")
		return nil, err
	}

	subkey := make([]byte, size)
	if _, err := generator.Read(subkey); err != nil {
		l.Debug().Err(err).Msg("derivation failed")
		return nil, err
	}

	l.Debug().Int("size", size).Msg("subkey derived")
	return subkey, nil
}

// DeriveKeyObject is like DeriveKey but accepts a structured context which
// is serialized before derivation. The context must serialize
// deterministically for the subkey to be reproducible.
func (d *Deriver) DeriveKeyObject(size int, label []byte, context interface{}) ([]byte, error) {
	contextBytes, err := json.Marshal(context)
	if err != nil {
		return nil, err
	}
	return d.DeriveKey(size, label, contextBytes)
}

// Reader starts a derivation session for a `size`-byte subkey and returns
// the generator producing it, allowing the subkey material to be read
// incrementally in chunks of any size. The chunking does not affect the
// produced bytes: reading `size` bytes yields exactly
// DeriveKey(size, label, context...).
func (d *Deriver) Reader(size int, label []byte, context ...[]byte) (*kdf.CounterGenerator, error) {
	l := d.sessionLogger("Reader", label)

	generator, err := d.newSession(size, label, context...)
	if err != nil {
		l.Debug().Err(err).Msg("derivation rejected")
		return nil, err
	}

	l.Debug().Int("size", size).Msg("derivation session started")
	return generator, nil
}

func (d *Deriver) newSession(size int, label []byte, context ...[]byte) (*kdf.CounterGenerator, error) {
	// The [L]_2 field holds the subkey length in bits as a 32 bit integer.
	if size <= 0 || size > math.MaxUint32/8 {
		return nil, ErrInvalidSize
	}

	n := len(label) + 1 + 4
	for _, c := range context {
		n += len(c)
	}
	fixedInput := make([]byte, 0, n)
	fixedInput = append(fixedInput, label...)
	fixedInput = append(fixedInput, 0)
	for _, c := range context {
		fixedInput = append(fixedInput, c...)
	}
	fixedInput = binary.BigEndian.AppendUint32(fixedInput, uint32(size)*8)

	params, err := kdf.NewParamsNoPrefix(d.seed, fixedInput, d.counterBits)
	if err != nil {
		return nil, err
	}

	generator := kdf.NewCounterGenerator(d.prf)
	if err := generator.Init(params); err != nil {
		return nil, err
	}
	return generator, nil
}

func (d *Deriver) sessionLogger(method string, label []byte) zerolog.Logger {
	l := d.logger.With().Logger()
	log.WithMethod(&l, method)
	log.WithLabel(&l, string(label))
	if sid, err := uuid.NewV4(); err == nil {
		log.WithSession(&l, sid)
	}
	return l
}
