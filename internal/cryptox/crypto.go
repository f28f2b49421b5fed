// Package cryptox implements the vault's crypto engine: password-based
// encryption of secret fields and whole-vault documents, and a deterministic
// hash for master-password verification.
//
// One Encrypt/Decrypt pair serves both small string secrets and the full
// sync blob. The ciphertext is a single self-contained base64 token
// (salt || nonce || AES-256-GCM ciphertext), so everything sensitive can be
// stored as TEXT and a field value is structurally interchangeable with a
// backup blob.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/harinadareddy11/account-vault/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltSize  = 16
	nonceSize = 12
)

// hashSalt is a fixed, name-spaced salt for HashPassword. The hash must be
// deterministic across devices; it is used only for equality verification,
// never as key material. Encryption keys always use per-token random salts.
var hashSalt = []byte("account-vault/master-password-hash/v1")

func deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
}

// Encrypt encrypts value under a key derived from password. Strings are
// encrypted verbatim; any other value is serialized to JSON first. The
// returned token embeds the salt and nonce, so the caller stores only the
// returned string.
func Encrypt(value any, password string) (string, error) {
	var plaintext []byte
	switch v := value.(type) {
	case string:
		plaintext = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to serialize payload: %w", err)
		}
		plaintext = b
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	block, err := aes.NewCipher(deriveKey(password, salt))
	if err != nil {
		return "", err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	sealed := aesgcm.Seal(nil, nonce, plaintext, nil)

	token := make([]byte, 0, saltSize+nonceSize+len(sealed))
	token = append(token, salt...)
	token = append(token, nonce...)
	token = append(token, sealed...)

	return base64.StdEncoding.EncodeToString(token), nil
}

func open(token, password string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed token", common.ErrDecryptionFailed)
	}
	if len(raw) < saltSize+nonceSize {
		return nil, fmt.Errorf("%w: token too short", common.ErrDecryptionFailed)
	}

	salt := raw[:saltSize]
	nonce := raw[saltSize : saltSize+nonceSize]
	sealed := raw[saltSize+nonceSize:]

	block, err := aes.NewCipher(deriveKey(password, salt))
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesgcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: wrong password or corrupted data", common.ErrDecryptionFailed)
	}
	if !utf8.Valid(plaintext) {
		return nil, fmt.Errorf("%w: plaintext is not valid UTF-8", common.ErrDecryptionFailed)
	}
	return plaintext, nil
}

// Decrypt reverses Encrypt. If the plaintext looks structured (after
// trimming, it starts with '{' or '['), Decrypt attempts a JSON decode and
// returns the structured value; otherwise it returns the plaintext string
// verbatim. A plain string that happens to be valid JSON therefore comes
// back structured; callers that need the literal text use DecryptString.
//
// Any failure (wrong password, corrupted or truncated token, non-UTF-8
// plaintext) returns an error wrapping common.ErrDecryptionFailed.
func Decrypt(token, password string) (any, error) {
	plaintext, err := open(token, password)
	if err != nil {
		return nil, err
	}

	s := string(plaintext)
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var v any
		if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
			return v, nil
		}
	}
	return s, nil
}

// DecryptString is the lenient field-display path: it returns the decrypted
// plaintext as a string, or "" on any failure. Callers that must tell
// "nothing stored" from "unreadable" use Decrypt or DecryptInto instead.
func DecryptString(token, password string) string {
	plaintext, err := open(token, password)
	if err != nil {
		return ""
	}
	return string(plaintext)
}

// DecryptInto decrypts token and JSON-decodes the plaintext into v. This is
// the hard-failure path used by sync restore, where decrypting garbage must
// abort rather than overwrite local state.
func DecryptInto(token, password string, v any) error {
	plaintext, err := open(token, password)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(plaintext, v); err != nil {
		return fmt.Errorf("%w: unexpected payload shape: %v", common.ErrDecryptionFailed, err)
	}
	return nil
}

// Reencrypt decrypts token under oldPassword and encrypts the exact
// plaintext bytes under newPassword. Used by the master-password rekey; any
// decryption failure aborts so a half-rekeyed vault cannot be produced.
func Reencrypt(token, oldPassword, newPassword string) (string, error) {
	plaintext, err := open(token, oldPassword)
	if err != nil {
		return "", err
	}
	return Encrypt(string(plaintext), newPassword)
}

// HashPassword returns a deterministic one-way digest of password for
// equality-based verification.
func HashPassword(password string) string {
	derived := argon2.IDKey([]byte(password), hashSalt, 1, 64*1024, 4, 32)
	sum := sha256.Sum256(derived)
	return hex.EncodeToString(sum[:])
}
