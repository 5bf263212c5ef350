package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHMACKeyProvider(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		secret    string
		wantErr   bool
	}{
		{
			name:      "valid HS256",
			algorithm: "HS256",
			secret:    strings.Repeat("k", 32),
			wantErr:   false,
		},
		{
			name:      "valid HS512",
			algorithm: "HS512",
			secret:    strings.Repeat("k", 64),
			wantErr:   false,
		},
		{
			name:      "empty secret",
			algorithm: "HS256",
			secret:    "",
			wantErr:   true,
		},
		{
			name:      "short secret",
			algorithm: "HS256",
			secret:    "tooshort",
			wantErr:   true,
		},
		{
			name:      "placeholder secret",
			algorithm: "HS256",
			secret:    "changeme",
			wantErr:   true,
		},
		{
			name:      "unsupported algorithm",
			algorithm: "ROT13",
			secret:    strings.Repeat("k", 32),
			wantErr:   true,
		},
		{
			name:      "asymmetric algorithm via HMAC constructor",
			algorithm: "RS256",
			secret:    strings.Repeat("k", 32),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kp, err := NewHMACKeyProvider(tt.algorithm, []byte(tt.secret))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.algorithm, kp.Algorithm())
			assert.True(t, kp.CanSign())
		})
	}
}

func TestNewRSAKeyProvider(t *testing.T) {
	t.Run("rejects missing public key", func(t *testing.T) {
		_, err := NewRSAKeyProvider(nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects garbage PEM", func(t *testing.T) {
		_, err := NewRSAKeyProvider(nil, []byte("not a key"))
		assert.Error(t, err)
	})
}
