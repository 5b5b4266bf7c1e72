package cas

import (
	"bytes"
	"testing"
)

func TestHash(t *testing.T) {
	// SHA-256 of the empty string.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Hash(nil); got != want {
		t.Errorf("Hash(nil) = %s, want %s", got, want)
	}
}

func TestBlake3Hash(t *testing.T) {
	// BLAKE3 of the empty string.
	want := "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"
	if got := Blake3Hash(nil); got != want {
		t.Errorf("Blake3Hash(nil) = %s, want %s", got, want)
	}
	if Blake3Hash([]byte("hbo")) == Blake3Hash([]byte("grc")) {
		t.Error("distinct inputs produced the same hash")
	}
}

func TestHasherMatchesSum(t *testing.T) {
	data := []byte("bərēʼshiyt bārāʼ\nʼĕlōhiym\n")
	var out bytes.Buffer
	h := NewHasher(&out)
	if _, err := h.Write(data[:7]); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Write(data[7:]); err != nil {
		t.Fatal(err)
	}
	if got, want := h.Result(), Sum(data); got != want {
		t.Errorf("Result() = %+v, want %+v", got, want)
	}
	if !bytes.Equal(out.Bytes(), data) {
		t.Error("Hasher did not forward writes")
	}
	if h.Size() != int64(len(data)) {
		t.Errorf("Size() = %d, want %d", h.Size(), len(data))
	}
}

func TestHasherWithoutWriter(t *testing.T) {
	h := NewHasher(nil)
	h.Write([]byte("abc"))
	if got := h.Result().SHA256; got != Hash([]byte("abc")) {
		t.Errorf("SHA256 = %s", got)
	}
}
