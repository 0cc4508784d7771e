/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package crypto

import (
	"bytes"
	"testing"
)

func TestAESGCMRoundTrip(t *testing.T) {
	executor, err := NewAESGCMCipher("changeit", "casflow")
	if err != nil {
		t.Fatal(err)
	}
	if !executor.Enabled() {
		t.Error("AES-GCM cipher must report enabled")
	}

	plaintext := []byte(`{"ticketId":"TGT-1","principal":"casuser"}`)
	encoded, err := executor.Encode(plaintext)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(encoded, []byte("casuser")) {
		t.Error("ciphertext must not leak the plaintext")
	}

	decoded, err := executor.Decode(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(plaintext, decoded) {
		t.Errorf("round trip mismatch: %q", decoded)
	}

	// nonces are random, two encodings of the same payload differ
	again, err := executor.Encode(plaintext)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(encoded, again) {
		t.Error("expected a fresh nonce per encoding")
	}
}

func TestDecodeRejectsTampering(t *testing.T) {
	executor, err := NewAESGCMCipher("changeit", "casflow")
	if err != nil {
		t.Fatal(err)
	}
	encoded, err := executor.Encode([]byte("payload"))
	if err != nil {
		t.Fatal(err)
	}

	encoded[len(encoded)-1] ^= 0xff
	if _, err := executor.Decode(encoded); err == nil {
		t.Error("tampered ciphertext must not decode")
	}

	if _, err := executor.Decode([]byte("short")); err == nil {
		t.Error("truncated ciphertext must not decode")
	}
}

func TestDecodeRequiresSameSecret(t *testing.T) {
	first, err := NewAESGCMCipher("changeit", "casflow")
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewAESGCMCipher("different", "casflow")
	if err != nil {
		t.Fatal(err)
	}

	encoded, err := first.Encode([]byte("payload"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := second.Decode(encoded); err == nil {
		t.Error("another key must not decode the payload")
	}
}

func TestNewAESGCMCipherRequiresSecret(t *testing.T) {
	if _, err := NewAESGCMCipher("", "casflow"); err == nil {
		t.Error("expected an error for an empty secret")
	}
}

func TestNoOpCipher(t *testing.T) {
	executor := NewNoOpCipher()
	if executor.Enabled() {
		t.Error("no-op cipher must report disabled")
	}
	payload := []byte("as-is")
	if encoded, _ := executor.Encode(payload); !bytes.Equal(encoded, payload) {
		t.Error("no-op Encode must pass through")
	}
	if decoded, _ := executor.Decode(payload); !bytes.Equal(decoded, payload) {
		t.Error("no-op Decode must pass through")
	}
}

func TestDigestID(t *testing.T) {
	first := DigestID("TGT-1")
	second := DigestID("TGT-1")
	if first != second {
		t.Error("digest must be deterministic")
	}
	if first == DigestID("TGT-2") {
		t.Error("distinct ids must digest differently")
	}
	if len(first) != 64 {
		t.Errorf("expected a 64 character hex digest, got %d", len(first))
	}
}
