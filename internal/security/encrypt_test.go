package security_test

import (
	"testing"

	"github.com/fernet/fernet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmchat/internal/domain"
	"dmchat/internal/security"
)

func TestEncryptorRoundTrip(t *testing.T) {
	enc, err := security.NewEncryptor([]byte("a secret of any length"), nil)
	require.NoError(t, err)

	for _, plain := range []string{"hi", "Hello world", "ünïcödé ✓ 🔥", " ", "line\nbreak"} {
		ct, err := enc.Encrypt(plain)
		require.NoError(t, err)
		assert.NotEqual(t, plain, ct)

		got, err := enc.Decrypt(ct)
		require.NoError(t, err)
		assert.Equal(t, plain, got)
	}
}

func TestEncryptorEmptyIsNoop(t *testing.T) {
	enc, err := security.NewEncryptor([]byte("k"), nil)
	require.NoError(t, err)

	ct, err := enc.Encrypt("")
	require.NoError(t, err)
	assert.Equal(t, "", ct)

	plain, err := enc.Decrypt("")
	require.NoError(t, err)
	assert.Equal(t, "", plain)
}

func TestEncryptorNonceMakesCiphertextDiffer(t *testing.T) {
	enc, err := security.NewEncryptor([]byte("k"), nil)
	require.NoError(t, err)

	a, _ := enc.Encrypt("same")
	b, _ := enc.Encrypt("same")
	assert.NotEqual(t, a, b)
}

func TestEncryptorRejectsMalformed(t *testing.T) {
	enc, err := security.NewEncryptor([]byte("k"), nil)
	require.NoError(t, err)

	for _, bad := range []string{"not base64 at all!!", "c2hvcnQ=", "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"} {
		_, err := enc.Decrypt(bad)
		assert.ErrorIs(t, err, domain.ErrCrypto, bad)
	}
}

func TestEncryptorRejectsOtherKey(t *testing.T) {
	a, _ := security.NewEncryptor([]byte("key-a"), nil)
	b, _ := security.NewEncryptor([]byte("key-b"), nil)

	ct, err := a.Encrypt("secret")
	require.NoError(t, err)

	_, err = b.Decrypt(ct)
	assert.ErrorIs(t, err, domain.ErrCrypto)
}

func TestEncryptorLegacyFernet(t *testing.T) {
	var legacy fernet.Key
	require.NoError(t, legacy.Generate())
	tok, err := fernet.EncryptAndSign([]byte("from the old days"), &legacy)
	require.NoError(t, err)

	enc, err := security.NewEncryptor([]byte("new-key"), []string{legacy.Encode()})
	require.NoError(t, err)

	got, err := enc.Decrypt(string(tok))
	require.NoError(t, err)
	assert.Equal(t, "from the old days", got)
}

func TestNewEncryptorEmptyKey(t *testing.T) {
	_, err := security.NewEncryptor(nil, nil)
	assert.Error(t, err)
}
