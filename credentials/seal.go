package credentials

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
)

var errIncompleteSession = errors.New("session is missing token or identity")

const (
	pbkdf2Iterations = 100_000
	sealKeyLength    = 32
	sealSaltLength   = 32
)

// sealedRecord is the on-disk envelope for an encrypted session record.
// The salt is regenerated on every write, so two saves of the same session
// never produce the same ciphertext.
type sealedRecord struct {
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

// sealer encrypts and decrypts the session record with AES-256-GCM under a
// PBKDF2-derived key.
type sealer struct {
	passphrase string
}

func newSealer(passphrase string) *sealer {
	return &sealer{passphrase: passphrase}
}

func (s *sealer) seal(plaintext []byte) ([]byte, error) {
	salt := make([]byte, sealSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "[sealer.seal] generate salt")
	}

	aead, err := s.aead(salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.Wrap(err, "[sealer.seal] generate nonce")
	}

	record := sealedRecord{
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(aead.Seal(nil, nonce, plaintext, nil)),
	}
	return json.Marshal(record)
}

func (s *sealer) open(data []byte) ([]byte, error) {
	var record sealedRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.Wrap(err, "[sealer.open] parse sealed record")
	}

	salt, err := base64.StdEncoding.DecodeString(record.Salt)
	if err != nil {
		return nil, errors.Wrap(err, "[sealer.open] decode salt")
	}
	nonce, err := base64.StdEncoding.DecodeString(record.Nonce)
	if err != nil {
		return nil, errors.Wrap(err, "[sealer.open] decode nonce")
	}
	ciphertext, err := base64.StdEncoding.DecodeString(record.Ciphertext)
	if err != nil {
		return nil, errors.Wrap(err, "[sealer.open] decode ciphertext")
	}

	aead, err := s.aead(salt)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[sealer.open] decrypt")
	}
	return plaintext, nil
}

func (s *sealer) aead(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(s.passphrase), salt, pbkdf2Iterations, sealKeyLength, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "[sealer.aead] create cipher")
	}
	return cipher.NewGCM(block)
}
