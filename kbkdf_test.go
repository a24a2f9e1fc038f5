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
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/subkey-io/kbkdf-lib/kdf"
)

var testSeed = func() []byte {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i)
	}
	return seed
}()

const derivedKeyHex = "0d4aa9e2d0342048ec5a56fb9bbc5d22b6ad9f3ed82d9a9ba7669a6af4fe29b0"

func newTestDeriver(t *testing.T) Deriver {
	t.Helper()
	deriver, err := New(testSeed, kdf.NewHMACPRF(sha256.New))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return deriver
}

func TestDeriveKeyKnownAnswer(t *testing.T) {
	deriver := newTestDeriver(t)
	subkey, err := deriver.DeriveKey(32, []byte("object-encryption"), []byte("tenant-42"))
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	if hex.EncodeToString(subkey) != derivedKeyHex {
		t.Fatalf("subkey doesn't match:\n%s\n%s\n", derivedKeyHex, hex.EncodeToString(subkey))
	}
}

func TestDeriveKeyMatchesGenerator(t *testing.T) {
	deriver := newTestDeriver(t)
	subkey, err := deriver.DeriveKey(48, []byte("label"), []byte("context"))
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}

	// The fixed input layout is label || 0x00 || context || [L]_2.
	fixedInput := append([]byte("label"), 0)
	fixedInput = append(fixedInput, []byte("context")...)
	fixedInput = binary.BigEndian.AppendUint32(fixedInput, 48*8)

	params, err := kdf.NewParamsNoPrefix(testSeed, fixedInput, 32)
	if err != nil {
		t.Fatalf("NewParamsNoPrefix failed: %v", err)
	}
	generator := kdf.NewCounterGenerator(kdf.NewHMACPRF(sha256.New))
	if err := generator.Init(params); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	expected := make([]byte, 48)
	if _, err := generator.Read(expected); err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if !bytes.Equal(subkey, expected) {
		t.Fatal("DeriveKey doesn't match the counter mode generator")
	}
}

func TestDeriveKeySeparation(t *testing.T) {
	deriver := newTestDeriver(t)

	key1, err := deriver.DeriveKey(32, []byte("label-1"), []byte("context"))
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	key2, err := deriver.DeriveKey(32, []byte("label-2"), []byte("context"))
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	if bytes.Equal(key1, key2) {
		t.Fatal("different labels produce the same subkey")
	}

	key3, err := deriver.DeriveKey(32, []byte("label-1"), []byte("other"))
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	if bytes.Equal(key1, key3) {
		t.Fatal("different contexts produce the same subkey")
	}

	// The requested length is part of the PRF input, so a shorter subkey is
	// not a prefix of a longer one.
	key4, err := deriver.DeriveKey(16, []byte("label-1"), []byte("context"))
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	if bytes.Equal(key1[:16], key4) {
		t.Fatal("subkeys of different sizes are related")
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	deriver := newTestDeriver(t)
	key1, err := deriver.DeriveKey(32, []byte("label"), []byte("context"))
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	key2, err := deriver.DeriveKey(32, []byte("label"), []byte("context"))
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	if !bytes.Equal(key1, key2) {
		t.Fatal("derivation is not deterministic")
	}
}

func TestDeriveKeyObject(t *testing.T) {
	type keyContext struct {
		Tenant string `json:"tenant"`
		Region string `json:"region"`
	}

	deriver := newTestDeriver(t)
	key1, err := deriver.DeriveKeyObject(32, []byte("label"), keyContext{Tenant: "42", Region: "eu"})
	if err != nil {
		t.Fatalf("DeriveKeyObject failed: %v", err)
	}
	key2, err := deriver.DeriveKey(32, []byte("label"), []byte(`{"tenant":"42","region":"eu"}`))
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	if !bytes.Equal(key1, key2) {
		t.Fatal("DeriveKeyObject doesn't match derivation from the serialized context")
	}
}

func TestReader(t *testing.T) {
	deriver := newTestDeriver(t)
	oneShot, err := deriver.DeriveKey(64, []byte("label"), []byte("context"))
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}

	generator, err := deriver.Reader(64, []byte("label"), []byte("context"))
	if err != nil {
		t.Fatalf("Reader failed: %v", err)
	}
	chunked := make([]byte, 64)
	for off := 0; off < len(chunked); off += 8 {
		if _, err := generator.Read(chunked[off : off+8]); err != nil {
			t.Fatalf("Read failed: %v", err)
		}
	}

	if !bytes.Equal(oneShot, chunked) {
		t.Fatal("incremental reads don't match DeriveKey")
	}
}

func TestNewInvalidArguments(t *testing.T) {
	if _, err := New(nil, kdf.NewHMACPRF(sha256.New)); err != kdf.ErrMissingSeed {
		t.Fatal("missing seed accepted")
	}
	if _, err := New(testSeed, nil); err != ErrMissingPRF {
		t.Fatal("missing PRF accepted")
	}
	if _, err := NewWithCounterWidth(testSeed, kdf.NewHMACPRF(sha256.New), 12); err != kdf.ErrInvalidCounterWidth {
		t.Fatal("invalid counter width accepted")
	}
}

func TestDeriveKeyInvalidSize(t *testing.T) {
	deriver := newTestDeriver(t)
	// 2^29 bytes is 2^32 bits, which overflows the 32 bit length field.
	for _, size := range []int{0, -1, 1 << 29, math.MaxInt32} {
		if _, err := deriver.DeriveKey(size, []byte("label")); err != ErrInvalidSize {
			t.Fatalf("size %d accepted", size)
		}
		if _, err := deriver.Reader(size, []byte("label")); err != ErrInvalidSize {
			t.Fatalf("Reader accepted size %d", size)
		}
	}
}

func TestDeriveKeyCounterWidthLimit(t *testing.T) {
	deriver, err := NewWithCounterWidth(testSeed, kdf.NewHMACPRF(sha256.New), 8)
	if err != nil {
		t.Fatalf("NewWithCounterWidth failed: %v", err)
	}

	// An 8 bit counter with a 32 byte PRF bounds each subkey at 8192 bytes.
	if _, err := deriver.DeriveKey(256*32, []byte("label")); err != kdf.ErrLimitExceeded {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
	if _, err := deriver.DeriveKey(256*32-1, []byte("label")); err != nil {
		t.Fatalf("DeriveKey of maximum - 1 bytes failed: %v", err)
	}
}

func TestDeriveKeyWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	deriver := newTestDeriver(t)
	silent, err := deriver.DeriveKey(32, []byte("label"))
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}

	deriver.SetLogger(logger)
	logged, err := deriver.DeriveKey(32, []byte("label"))
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}

	if !bytes.Equal(silent, logged) {
		t.Fatal("logging changes the derived subkey")
	}
	if !bytes.Contains(buf.Bytes(), []byte("subkey derived")) {
		t.Fatal("expected a log entry")
	}
}
