package cryptox

import (
	"errors"
	"strings"
	"testing"

	"github.com/harinadareddy11/account-vault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt_StringRoundTrip(t *testing.T) {
	for _, s := range []string{"secret123", "", "с кириллицей", "line1\nline2", "123456"} {
		token, err := Encrypt(s, "correcthorse")
		require.NoError(t, err)
		assert.NotEqual(t, s, token)

		got, err := Decrypt(token, "correcthorse")
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestEncrypt_TokensDifferForSameInput(t *testing.T) {
	t1, err := Encrypt("same", "pw")
	require.NoError(t, err)
	t2, err := Encrypt("same", "pw")
	require.NoError(t, err)
	// fresh salt and nonce every time
	assert.NotEqual(t, t1, t2)
}

func TestDecrypt_WrongPassword(t *testing.T) {
	token, err := Encrypt("secret123", "password-one")
	require.NoError(t, err)

	got, err := Decrypt(token, "password-two")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDecryptionFailed))
	assert.Nil(t, got)
}

func TestDecrypt_CorruptedToken(t *testing.T) {
	_, err := Decrypt("not base64!!!", "pw")
	assert.True(t, errors.Is(err, common.ErrDecryptionFailed))

	_, err = Decrypt("c2hvcnQ=", "pw") // valid base64, too short for salt+nonce
	assert.True(t, errors.Is(err, common.ErrDecryptionFailed))
}

func TestDecrypt_StructuredRoundTrip(t *testing.T) {
	doc := map[string]any{
		"accounts": []any{map[string]any{"id": "a1", "serviceName": "GitHub"}},
		"count":    float64(1),
	}

	token, err := Encrypt(doc, "pw")
	require.NoError(t, err)

	got, err := Decrypt(token, "pw")
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestDecrypt_JSONLookingStringComesBackStructured(t *testing.T) {
	// Documented sniffing edge case: a plain string that parses as JSON is
	// returned structured by Decrypt; DecryptString preserves the literal.
	literal := `{"a":1}`
	token, err := Encrypt(literal, "pw")
	require.NoError(t, err)

	got, err := Decrypt(token, "pw")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, got)

	assert.Equal(t, literal, DecryptString(token, "pw"))
}

func TestDecrypt_InvalidJSONWithStructuralPrefixFallsBackToString(t *testing.T) {
	s := "{not json at all"
	token, err := Encrypt(s, "pw")
	require.NoError(t, err)

	got, err := Decrypt(token, "pw")
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestDecryptString_LenientOnFailure(t *testing.T) {
	token, err := Encrypt("secret", "right")
	require.NoError(t, err)

	assert.Equal(t, "", DecryptString(token, "wrong"))
	assert.Equal(t, "", DecryptString("garbage", "right"))
	assert.Equal(t, "secret", DecryptString(token, "right"))
}

func TestDecryptInto_TypedDocument(t *testing.T) {
	type doc struct {
		Accounts []string `json:"accounts"`
		SyncedAt string   `json:"syncedAt"`
	}

	token, err := Encrypt(doc{Accounts: []string{"a", "b"}, SyncedAt: "2026-01-02"}, "pw")
	require.NoError(t, err)

	var got doc
	require.NoError(t, DecryptInto(token, "pw", &got))
	assert.Equal(t, []string{"a", "b"}, got.Accounts)

	var bad doc
	err = DecryptInto(token, "wrong", &bad)
	assert.True(t, errors.Is(err, common.ErrDecryptionFailed))
}

func TestEncrypt_LargePayload(t *testing.T) {
	// whole-vault exports can be large; the mode must not care
	big := strings.Repeat("0123456789abcdef", 64*1024)
	token, err := Encrypt(big, "pw")
	require.NoError(t, err)

	got, err := Decrypt(token, "pw")
	require.NoError(t, err)
	assert.Equal(t, big, got)
}

func TestHashPassword_DeterministicAndDistinct(t *testing.T) {
	h1 := HashPassword("correcthorse")
	h2 := HashPassword("correcthorse")
	h3 := HashPassword("correcthorsf")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64) // hex sha256
	assert.NotContains(t, h1, "correcthorse")
}

func TestReencrypt(t *testing.T) {
	token, err := Encrypt("hunter2", "old-pass")
	require.NoError(t, err)

	fresh, err := Reencrypt(token, "old-pass", "new-pass")
	require.NoError(t, err)
	assert.NotEqual(t, token, fresh)
	assert.Equal(t, "hunter2", DecryptString(fresh, "new-pass"))
	assert.Empty(t, DecryptString(fresh, "old-pass"))

	_, err = Reencrypt(token, "wrong", "new-pass")
	assert.True(t, errors.Is(err, common.ErrDecryptionFailed))
}
