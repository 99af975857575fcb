// Package airq pkg/airq/codec.go implements the air-Q envelope codec.

package airq

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

const (
	keySize = 32
	ivSize  = aes.BlockSize
)

// Codec decrypts vendor envelopes into decoded sensor fields. The key
// is derived once from the device password; a Codec is safe for
// concurrent use.
type Codec struct {
	key []byte
}

func NewCodec(password string) *Codec {
	return &Codec{key: deriveKey(password)}
}

// deriveKey builds the 32-byte AES key from the device password:
// UTF-8 bytes, right-padded with '0' or truncated to exactly 32 bytes.
func deriveKey(password string) []byte {
	key := []byte(password)
	if len(key) >= keySize {
		return key[:keySize]
	}

	padded := make([]byte, keySize)
	copy(padded, key)

	for i := len(key); i < keySize; i++ {
		padded[i] = '0'
	}

	return padded
}

// Decode decrypts one base64 envelope and parses the plaintext as a
// JSON object of metric fields. All failures are reported as a
// *DecodeError; retry policy is the caller's concern.
func (c *Codec) Decode(msgb64 string) (map[string]any, error) {
	raw, err := base64.StdEncoding.DecodeString(msgb64)
	if err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("%w: %w", ErrMalformedBase64, err)}
	}

	envelope, err := parseEnvelope(raw)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("%w: %w", ErrCipherFailure, err)}
	}

	plaintext := make([]byte, len(envelope.Ciphertext))
	cipher.NewCBCDecrypter(block, envelope.IV).CryptBlocks(plaintext, envelope.Ciphertext)

	plaintext, err = unpad(plaintext)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	var fields map[string]any
	if err := json.Unmarshal(plaintext, &fields); err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("%w: %w", ErrInvalidJSON, err)}
	}

	return fields, nil
}

// parseEnvelope splits the raw envelope into IV and ciphertext. The
// ciphertext must be a non-empty multiple of the block size.
func parseEnvelope(raw []byte) (Envelope, error) {
	if len(raw) <= ivSize || (len(raw)-ivSize)%aes.BlockSize != 0 {
		return Envelope{}, fmt.Errorf("%w: envelope length %d", ErrCipherFailure, len(raw))
	}

	return Envelope{IV: raw[:ivSize], Ciphertext: raw[ivSize:]}, nil
}

// unpad strips the trailing padding: the last byte holds the padding
// length. A length of 0, more than one block, or more than the buffer
// is invalid.
func unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty plaintext", ErrInvalidPadding)
	}

	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, fmt.Errorf("%w: pad byte %d for %d-byte buffer", ErrInvalidPadding, n, len(data))
	}

	return data[:len(data)-n], nil
}
