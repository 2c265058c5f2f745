package sheets

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/opyta/sistema-financeiro/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		errMsg  string
		config  Config
		wantErr bool
	}{
		{
			name: "valid oauth config",
			config: Config{
				ClientID:      "test-client",
				ClientSecret:  "test-secret",
				RefreshToken:  "test-token",
				SpreadsheetID: "sheet-id",
				RetryAttempts: 3,
				RetryDelay:    time.Second,
			},
		},
		{
			name: "valid service account config",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
				SpreadsheetID:      "sheet-id",
				RetryAttempts:      3,
				RetryDelay:         time.Second,
			},
		},
		{
			name: "partial oauth credentials",
			config: Config{
				ClientID:      "test-client",
				RefreshToken:  "test-token",
				SpreadsheetID: "sheet-id",
			},
			wantErr: true,
			errMsg:  "no authentication method configured",
		},
		{
			name: "multiple auth methods",
			config: Config{
				ClientID:           "test-client",
				ClientSecret:       "test-secret",
				RefreshToken:       "test-token",
				ServiceAccountPath: "/path/to/key.json",
				SpreadsheetID:      "sheet-id",
			},
			wantErr: true,
			errMsg:  "multiple authentication methods configured",
		},
		{
			name: "missing spreadsheet id",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
			},
			wantErr: true,
			errMsg:  "spreadsheet id is required",
		},
		{
			name: "negative retry attempts",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
				SpreadsheetID:      "sheet-id",
				RetryAttempts:      -1,
			},
			wantErr: true,
			errMsg:  "retry attempts cannot be negative",
		},
		{
			name: "negative retry delay",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
				SpreadsheetID:      "sheet-id",
				RetryDelay:         -1 * time.Second,
			},
			wantErr: true,
			errMsg:  "retry delay cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")

	require.NoError(t, SaveToken(path, &oauth2.Token{RefreshToken: "refresh", TokenType: "Bearer"}))

	token, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "refresh", token.RefreshToken)
}
