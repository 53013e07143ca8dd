package config

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/reqcheck/internal/constants"
	"github.com/oshokin/reqcheck/pkg/requests"
)

// TestLoadConfig tests the LoadConfig function.
func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		configFilename string
		configContent  string
		expectError    bool
		expectedError  string
	}{
		{
			name:           "valid config file",
			configFilename: "valid_config.yaml",
			configContent: `
base_url: "https://api.example.net"
hint: "billing"
method: "post"
headers:
  - "Accept: application/json"
  - "X-Tenant: 42"
json_body: '{"ping": true}'
expected_status: "2xx"
check_mode: "require"
logging_policy: "no-headers"
max_inline_size: "4KiB"
debug_report: false
attachments_path: "/tmp/attachments"
report_path: "/tmp/report.yaml"
timeout: "10s"
user_agent: "smoke/1.0"
requests_per_second: 2.5
log_level: "debug"
`,
			expectError: false,
		},
		{
			name:           "non-existent file",
			configFilename: "non_existent.yaml",
			expectError:    true,
			expectedError:  "failed to read config from file",
		},
		{
			name:           "invalid yaml",
			configFilename: "invalid.yaml",
			configContent: `
invalid: yaml: content: [unclosed
`,
			expectError:   true,
			expectedError: "failed to read config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			configPath := filepath.Join(t.TempDir(), tt.configFilename)

			if tt.configContent != "" {
				err := os.WriteFile(configPath, []byte(tt.configContent), constants.DefaultFilePermissions)
				require.NoError(t, err)
			}

			cfg, err := LoadConfig(configPath)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, cfg)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "https://api.example.net", cfg.BaseURL)
			assert.Equal(t, "billing", cfg.Hint)
			assert.Equal(t, []string{"Accept: application/json", "X-Tenant: 42"}, cfg.Headers)
			assert.Equal(t, "require", cfg.CheckMode)
			assert.InDelta(t, 2.5, cfg.RequestsPerSecond, 0.0001)

			require.NoError(t, ValidateConfig(cfg))
			assert.Equal(t, http.MethodPost, cfg.Method)
			assert.Equal(t, zapcore.DebugLevel, cfg.ParsedLogLevel)
			assert.Equal(t, CheckModeRequire, cfg.ParsedCheckMode)
			assert.Equal(t, 10*time.Second, cfg.ParsedTimeout)
			assert.Equal(t, 4096, cfg.ParsedPolicy.MaxInlineSize)
			assert.False(t, cfg.ParsedPolicy.RequestHeadersLogging)
			assert.Equal(t, "42", cfg.ParsedHeaders.Get("X-Tenant"))
			assert.Equal(t, map[string]any{"ping": true}, cfg.ParsedJSONBody)
			assert.Equal(t, "to be 2xx", cfg.ParsedExpectedStatus.Description())
		})
	}
}

// TestValidateConfig_Defaults tests the derived fields of an empty configuration.
func TestValidateConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, http.MethodGet, cfg.Method)
	assert.Equal(t, zapcore.InfoLevel, cfg.ParsedLogLevel)
	assert.Equal(t, requests.PolicyOn(), cfg.ParsedPolicy)
	assert.Equal(t, CheckModeCheck, cfg.ParsedCheckMode)
	assert.Equal(t, DefaultTimeout, cfg.ParsedTimeout)
	assert.Equal(t, DefaultAttachmentsPath, cfg.AttachmentsPath)
	assert.Empty(t, cfg.ParsedHeaders)
	assert.Nil(t, cfg.ParsedJSONBody)
	assert.True(t, cfg.ParsedExpectedStatus.Match(204).Passed)
}

// TestValidateConfig tests the ValidateConfig function.
func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		config      *Config
		expectedErr error
		errorMsg    string
	}{
		{
			name:     "unknown log level",
			config:   &Config{LogLevel: "loud"},
			errorMsg: "unknown log level",
		},
		{
			name:        "unknown logging policy",
			config:      &Config{LoggingPolicy: "verbose"},
			expectedErr: requests.ErrUnknownPolicy,
		},
		{
			name:     "bad max inline size",
			config:   &Config{MaxInlineSize: "lots"},
			errorMsg: "failed to parse max inline size",
		},
		{
			name:        "bad expected status",
			config:      &Config{ExpectedStatus: "9xx"},
			expectedErr: requests.ErrInvalidStatusExpectation,
		},
		{
			name:        "unknown check mode",
			config:      &Config{CheckMode: "maybe"},
			expectedErr: ErrUnknownCheckMode,
		},
		{
			name:     "bad timeout",
			config:   &Config{Timeout: "soon"},
			errorMsg: "failed to parse timeout",
		},
		{
			name:        "negative timeout",
			config:      &Config{Timeout: "-1s"},
			expectedErr: ErrInvalidTimeout,
		},
		{
			name:        "negative rate",
			config:      &Config{RequestsPerSecond: -1},
			expectedErr: ErrInvalidRequestsPerSecond,
		},
		{
			name:        "bad header",
			config:      &Config{Headers: []string{"no colon"}},
			expectedErr: ErrInvalidHeader,
		},
		{
			name:        "both bodies",
			config:      &Config{Body: "raw", JSONBody: `{}`},
			expectedErr: ErrConflictingBodies,
		},
		{
			name:     "bad json body",
			config:   &Config{JSONBody: `{`},
			errorMsg: "failed to parse json body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateConfig(tt.config)
			require.Error(t, err)

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
			}

			if tt.errorMsg != "" {
				assert.Contains(t, err.Error(), tt.errorMsg)
			}
		})
	}
}

// TestValidateConfig_PolicyFlags tests that inline size and debug are applied to the parsed policy.
func TestValidateConfig_PolicyFlags(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		LoggingPolicy: "no-response-body",
		MaxInlineSize: "0",
		DebugReport:   true,
	}

	require.NoError(t, ValidateConfig(cfg))
	assert.False(t, cfg.ParsedPolicy.ResponseBodyLogging)
	assert.Zero(t, cfg.ParsedPolicy.MaxInlineSize)
	assert.True(t, cfg.ParsedPolicy.Debug)
}

// TestSaveConfigValue tests that values are updated in place or appended.
func TestSaveConfigValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		key      string
		value    string
		expected string
	}{
		{
			name:     "missing file is created",
			key:      "base_url",
			value:    "https://api.example.net",
			expected: "base_url: https://api.example.net\n",
		},
		{
			name:     "existing key keeps order",
			content:  "hint: smoke\nbase_url: http://old\nlog_level: info\n",
			key:      "base_url",
			value:    "https://new.example.net",
			expected: "hint: smoke\nbase_url: \"https://new.example.net\"\nlog_level: info\n",
		},
		{
			name:     "absent key is appended",
			content:  "hint: smoke",
			key:      "base_url",
			value:    "https://api.example.net",
			expected: "hint: smoke\nbase_url: https://api.example.net\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			configPath := filepath.Join(t.TempDir(), DefaultConfigFilename)

			if tt.content != "" {
				require.NoError(t, os.WriteFile(configPath, []byte(tt.content), constants.DefaultFilePermissions))
			}

			require.NoError(t, SaveConfigValue(configPath, tt.key, tt.value))

			content, err := os.ReadFile(configPath)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(content))

			cfg, err := LoadConfig(configPath)
			require.NoError(t, err)
			assert.Equal(t, tt.value, cfg.BaseURL)
		})
	}
}

// TestLoadConfig_MissingFile tests that only an explicitly named config file is required.
func TestLoadConfig_MissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config from file")
	assert.Nil(t, cfg)
}

// TestLoadConfig_Environment tests that REQCHECK_* variables override the file.
//
//nolint:paralleltest // t.Setenv cannot be used in parallel tests.
func TestLoadConfig_Environment(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "env.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("base_url: \"https://file.example.net\"\nhint: \"file\"\n"),
		constants.DefaultFilePermissions))

	t.Setenv("REQCHECK_BASE_URL", "https://env.example.net")
	t.Setenv("REQCHECK_CHECK_MODE", "raise")

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.net", cfg.BaseURL)
	assert.Equal(t, "file", cfg.Hint)
	assert.Equal(t, "raise", cfg.CheckMode)
}

// TestIsKnownKey tests the IsKnownKey function.
func TestIsKnownKey(t *testing.T) {
	t.Parallel()

	assert.True(t, IsKnownKey("base_url"))
	assert.True(t, IsKnownKey("requests_per_second"))
	assert.False(t, IsKnownKey("auth_token"))
	assert.False(t, IsKnownKey("BASE_URL"))
}
