//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"eropoppin-booking/internal/pkg/jwt"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GenerateAndValidate(t *testing.T) {
	m := jwt.NewManager("test-secret")
	userID := uuid.New()

	token, err := m.Generate(userID, "provider", time.Hour)
	require.NoError(t, err)

	gotID, gotRole, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, "provider", gotRole)
}

func TestManager_Validate_Errors(t *testing.T) {
	m := jwt.NewManager("test-secret")
	userID := uuid.New()

	t.Run("expired token", func(t *testing.T) {
		token, err := m.Generate(userID, "client", -time.Minute)
		require.NoError(t, err)

		_, _, err = m.Validate(token)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := jwt.NewManager("other-secret").Generate(userID, "client", time.Hour)
		require.NoError(t, err)

		_, _, err = m.Validate(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, _, err := m.Validate("not.a.token")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("subject is not a uuid", func(t *testing.T) {
		raw := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
			"sub":  "not-a-uuid",
			"role": "client",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		signed, err := raw.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, _, err = m.Validate(signed)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
