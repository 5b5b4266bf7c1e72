// Package cas computes the content digests used to identify transliteration
// tables and batch outputs.
//
// Every digest pairs SHA-256 with BLAKE3 so that a report can be matched
// against either hash.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"

	"github.com/zeebo/blake3"
)

// HashResult contains both SHA-256 and BLAKE3 hashes of a blob.
type HashResult struct {
	SHA256 string `json:"sha256"`
	BLAKE3 string `json:"blake3"`
}

// Hash computes the SHA-256 hash of the given data.
func Hash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Blake3Hash computes the BLAKE3 hash of the given data.
func Blake3Hash(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Sum returns both hashes of data.
func Sum(data []byte) HashResult {
	return HashResult{SHA256: Hash(data), BLAKE3: Blake3Hash(data)}
}

// Hasher is an io.Writer that hashes everything written through it.
type Hasher struct {
	sha   hash.Hash
	b3    *blake3.Hasher
	w     io.Writer
	count int64
}

// NewHasher returns a Hasher that forwards writes to w. A nil w only hashes.
func NewHasher(w io.Writer) *Hasher {
	return &Hasher{sha: sha256.New(), b3: blake3.New(), w: w}
}

func (h *Hasher) Write(p []byte) (int, error) {
	if h.w != nil {
		n, err := h.w.Write(p)
		h.sha.Write(p[:n])
		h.b3.Write(p[:n])
		h.count += int64(n)
		return n, err
	}
	h.sha.Write(p)
	h.b3.Write(p)
	h.count += int64(len(p))
	return len(p), nil
}

// Size reports the number of bytes hashed so far.
func (h *Hasher) Size() int64 {
	return h.count
}

// Result returns the digests of everything written so far.
func (h *Hasher) Result() HashResult {
	return HashResult{
		SHA256: hex.EncodeToString(h.sha.Sum(nil)),
		BLAKE3: hex.EncodeToString(h.b3.Sum(nil)),
	}
}
