package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conformitia/conformitia-api/pkg/token"
)

const testSecret = "secret-de-test-pour-unitaires"

func TestReset_GenerateEtParse(t *testing.T) {
	tok, err := token.GenerateReset(testSecret, "u-1", "audit@exemple.fr", 30)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, email, err := token.ParseReset(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "audit@exemple.fr", email)
}

func TestReset_JetonExpireRetourneErreur(t *testing.T) {
	// Expiration -1 minute : déjà expiré
	tok, err := token.GenerateReset(testSecret, "u-1", "audit@exemple.fr", -1)
	require.NoError(t, err)

	_, _, err = token.ParseReset(testSecret, tok)
	assert.Error(t, err, "un jeton expiré doit être rejeté")
}

func TestReset_SecretIncorrectRetourneErreur(t *testing.T) {
	tok, err := token.GenerateReset(testSecret, "u-1", "audit@exemple.fr", 30)
	require.NoError(t, err)

	_, _, err = token.ParseReset("un-autre-secret", tok)
	assert.Error(t, err, "un secret différent doit invalider la signature")
}
