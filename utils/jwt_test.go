package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "customer")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "customer", claims.Role)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 13.75, Round2(4.50*2+2.25+2.50), 0.0001)
	assert.InDelta(t, 2.50, Round2(2.5), 0.0001)
	assert.InDelta(t, 0.00, Round2(0.004), 0.0001)
	assert.Equal(t, "13.70", FormatAmount(13.7))
}
