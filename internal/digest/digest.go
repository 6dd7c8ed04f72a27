// Package digest computes whole-file digests reported alongside a database header.
package digest

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Algorithm names a supported digest
type Algorithm string

const (
	SHA1       Algorithm = "sha1"
	SHA256     Algorithm = "sha256"
	SHA512     Algorithm = "sha512"
	BLAKE2b256 Algorithm = "blake2b-256"
)

// Default is the digest set printed when none is configured
var Default = []Algorithm{SHA1, SHA256, SHA512}

var constructors = map[Algorithm]func() (hash.Hash, error){
	SHA1:       func() (hash.Hash, error) { return sha1.New(), nil },
	SHA256:     func() (hash.Hash, error) { return sha256.New(), nil },
	SHA512:     func() (hash.Hash, error) { return sha512.New(), nil },
	BLAKE2b256: func() (hash.Hash, error) { return blake2b.New256(nil) },
}

// ParseAlgorithm resolves a case-insensitive algorithm name
func ParseAlgorithm(name string) (Algorithm, error) {
	alg := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := constructors[alg]; !ok {
		return "", fmt.Errorf("unknown digest algorithm %q", name)
	}
	return alg, nil
}

// ParseAlgorithms resolves every name, failing on the first unknown one
func ParseAlgorithms(names []string) ([]Algorithm, error) {
	result := make([]Algorithm, 0, len(names))
	for _, name := range names {
		alg, err := ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		result = append(result, alg)
	}
	return result, nil
}

// Digest is a single computed sum
type Digest struct {
	Algorithm Algorithm
	Sum       []byte
}

func (d Digest) Hex() string {
	return hex.EncodeToString(d.Sum)
}

// Set holds digests in the order they were requested
type Set []Digest

// Get returns the sum for alg
func (s Set) Get(alg Algorithm) ([]byte, bool) {
	for _, d := range s {
		if d.Algorithm == alg {
			return d.Sum, true
		}
	}
	return nil, false
}

// Compute reads r to the end, feeding every requested hash in a single pass
//
// it returns the digests and the number of bytes read
func Compute(r io.Reader, algs ...Algorithm) (Set, int64, error) {
	hashes := make([]hash.Hash, 0, len(algs))
	writers := make([]io.Writer, 0, len(algs))
	for _, alg := range algs {
		ctor, ok := constructors[alg]
		if !ok {
			return nil, 0, fmt.Errorf("unknown digest algorithm %q", alg)
		}
		h, err := ctor()
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", alg, err)
		}
		hashes = append(hashes, h)
		writers = append(writers, h)
	}
	n, err := io.Copy(io.MultiWriter(writers...), r)
	if err != nil {
		return nil, n, fmt.Errorf("failed to read input: %w", err)
	}
	result := make(Set, 0, len(algs))
	for i, h := range hashes {
		result = append(result, Digest{Algorithm: algs[i], Sum: h.Sum(nil)})
	}
	return result, n, nil
}

// Sum computes the digests of an in-memory buffer
func Sum(data []byte, algs ...Algorithm) (Set, error) {
	result, _, err := Compute(bytes.NewReader(data), algs...)
	return result, err
}
