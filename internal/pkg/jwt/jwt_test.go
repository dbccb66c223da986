package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-engine/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", time.Hour)
	actor := user.Actor{UserID: "u-1", EmployeeID: "e-1", Role: user.RoleManager}

	token, expiresAt, err := svc.GenerateAccessToken(actor, "manager@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	assert.True(t, IsAccessToken(claims))
	got, err := ActorFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, actor, got)
}

func TestGenerateAccessToken_RejectsUnknownRole(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	_, _, err := svc.GenerateAccessToken(user.Actor{UserID: "u-1", Role: "pending"}, "x@example.com")
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestDecode_RejectsOtherSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Hour)
	verifier := NewJWTService("secret-b", time.Hour)

	token, _, err := issuer.GenerateAccessToken(user.Actor{UserID: "u-1", Role: user.RoleEmployee}, "e@example.com")
	require.NoError(t, err)

	_, err = verifier.JWTAuth().Decode(token)
	assert.Error(t, err)
}

func TestActorFromClaims(t *testing.T) {
	tests := []struct {
		name    string
		claims  map[string]interface{}
		want    user.Actor
		wantErr bool
	}{
		{
			name:   "employee without profile",
			claims: map[string]interface{}{"user_id": "u-1", "role": "owner"},
			want:   user.Actor{UserID: "u-1", Role: user.RoleOwner},
		},
		{
			name:    "missing user id",
			claims:  map[string]interface{}{"role": "hr"},
			wantErr: true,
		},
		{
			name:    "unknown role",
			claims:  map[string]interface{}{"user_id": "u-1", "role": "admin"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ActorFromClaims(tt.claims)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidClaims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsAccessToken(t *testing.T) {
	assert.False(t, IsAccessToken(map[string]interface{}{"type": "refresh"}))
	assert.False(t, IsAccessToken(map[string]interface{}{}))
}
