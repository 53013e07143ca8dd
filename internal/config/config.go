package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/reqcheck/internal/constants"
	"github.com/oshokin/reqcheck/internal/logger"
	"github.com/oshokin/reqcheck/internal/utils"
	"github.com/oshokin/reqcheck/pkg/matcher"
	"github.com/oshokin/reqcheck/pkg/requests"
)

// CheckMode tells how the expected status is applied to each probe response.
type CheckMode string

// Supported check modes.
const (
	// CheckModeCheck records the check and carries on.
	CheckModeCheck CheckMode = "check"
	// CheckModeRequire records the check and aborts the probe on failure.
	CheckModeRequire CheckMode = "require"
	// CheckModeAssert aborts the probe on failure without recording successes.
	CheckModeAssert CheckMode = "assert"
	// CheckModeRaise returns a status code error without recording anything.
	CheckModeRaise CheckMode = "raise"
)

// Config holds all configuration settings.
type Config struct {
	// BaseURL is prefixed to every probed path.
	BaseURL string `mapstructure:"base_url"`
	// Hint labels every report entry.
	Hint string `mapstructure:"hint"`
	// Method is the HTTP method used for probes.
	Method string `mapstructure:"method"`
	// Headers are extra request headers in "Name: value" form.
	Headers []string `mapstructure:"headers"`
	// Body is sent as a raw request body.
	Body string `mapstructure:"body"`
	// JSONBody is a JSON document sent as the request JSON payload.
	JSONBody string `mapstructure:"json_body"`
	// ExpectedStatus is the status expectation ("2xx", "201", "200-204", "200,404").
	ExpectedStatus string `mapstructure:"expected_status"`
	// CheckMode is one of check, require, assert or raise.
	CheckMode string `mapstructure:"check_mode"`
	// LoggingPolicy is one of on, off, no-headers or no-response-body.
	LoggingPolicy string `mapstructure:"logging_policy"`
	// MaxInlineSize is the body size above which bodies become attachments (e.g. "2KiB", "0" to disable).
	MaxInlineSize string `mapstructure:"max_inline_size"`
	// DebugReport sends every report entry to the debug channel.
	DebugReport bool `mapstructure:"debug_report"`
	// AttachmentsPath is the directory where diverted bodies are written.
	AttachmentsPath string `mapstructure:"attachments_path"`
	// ReportPath is the YAML report file; empty disables it.
	ReportPath string `mapstructure:"report_path"`
	// Timeout is the per-request timeout (e.g. "30s").
	Timeout string `mapstructure:"timeout"`
	// UserAgent overrides the User-Agent sent with probes.
	UserAgent string `mapstructure:"user_agent"`
	// RequestsPerSecond paces probes; 0 disables pacing.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedPolicy is the session logging policy.
	ParsedPolicy *requests.Policy
	// ParsedExpectedStatus is the status code matcher.
	ParsedExpectedStatus matcher.Matcher
	// ParsedCheckMode is the validated check mode.
	ParsedCheckMode CheckMode
	// ParsedTimeout is the parsed request timeout.
	ParsedTimeout time.Duration
	// ParsedHeaders are the parsed extra headers.
	ParsedHeaders http.Header
	// ParsedJSONBody is the decoded JSON payload, nil when JSONBody is empty.
	ParsedJSONBody any
}

const (
	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".reqcheck.yaml"

	// DefaultTimeout is used when no timeout is configured.
	DefaultTimeout = 30 * time.Second

	// DefaultAttachmentsPath is used when no attachments path is configured.
	DefaultAttachmentsPath = "reqcheck-attachments"

	// DefaultLogLevel is used when no log level is configured.
	DefaultLogLevel = "info"
)

// Static error definitions for better error handling.
var (
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrUnknownCheckMode indicates that the check mode is not recognized.
	ErrUnknownCheckMode = errors.New("unknown check mode")
	// ErrInvalidTimeout indicates that the timeout is not positive.
	ErrInvalidTimeout = errors.New("timeout must be positive")
	// ErrInvalidRequestsPerSecond indicates a negative pacing rate.
	ErrInvalidRequestsPerSecond = errors.New("requests_per_second cannot be negative")
	// ErrInvalidHeader indicates a header that is not in "Name: value" form.
	ErrInvalidHeader = errors.New("header must be in 'Name: value' form")
	// ErrConflictingBodies indicates that both body and json_body are set.
	ErrConflictingBodies = errors.New("body and json_body cannot be used together")
)

// configKeys lists the keys that can be set through REQCHECK_* environment variables.
//
//nolint:gochecknoglobals // Immutable list used as a constant.
var configKeys = []string{
	"base_url", "hint", "method", "headers", "body", "json_body", "expected_status",
	"check_mode", "logging_policy", "max_inline_size", "debug_report", "attachments_path",
	"report_path", "timeout", "user_agent", "requests_per_second", "log_level",
}

// IsKnownKey reports whether key is a configuration file key.
func IsKnownKey(key string) bool {
	return slices.Contains(configKeys, key)
}

// LoadConfig loads configuration settings from a YAML file.
func LoadConfig(configFilename string) (*Config, error) {
	// The default file is optional, an explicitly named one is not.
	isDefaultFilename := configFilename == ""
	if isDefaultFilename {
		configFilename = DefaultConfigFilename
	}

	v := viper.New()
	v.SetConfigFile(configFilename)
	v.SetEnvPrefix("REQCHECK")
	v.AutomaticEnv()

	for _, key := range configKeys {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		if !isDefaultFilename || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateConfig checks the configuration for validity and sets derived fields.
//
//nolint:funlen,cyclop // Validation functions naturally have high complexity and length due to sequential checks.
func ValidateConfig(cfg *Config) error {
	var err error

	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	cfg.Method = strings.ToUpper(strings.TrimSpace(cfg.Method))
	if cfg.Method == "" {
		cfg.Method = http.MethodGet
	}

	cfg.ParsedPolicy, err = requests.ParsePolicy(cfg.LoggingPolicy)
	if err != nil {
		return fmt.Errorf("failed to parse logging policy: %w", err)
	}

	if maxInlineSize := strings.TrimSpace(cfg.MaxInlineSize); maxInlineSize != "" {
		var parsedMaxInlineSize uint64

		parsedMaxInlineSize, err = humanize.ParseBytes(maxInlineSize)
		if err != nil {
			return fmt.Errorf("failed to parse max inline size: %w", err)
		}

		cfg.ParsedPolicy.MaxInlineSize = utils.SafeUint64ToInt(parsedMaxInlineSize)
	}

	cfg.ParsedPolicy.Debug = cfg.DebugReport

	cfg.ParsedExpectedStatus, err = requests.ParseStatusExpectation(cfg.ExpectedStatus)
	if err != nil {
		return fmt.Errorf("failed to parse expected status: %w", err)
	}

	cfg.ParsedCheckMode, err = parseCheckMode(cfg.CheckMode)
	if err != nil {
		return err
	}

	cfg.ParsedTimeout = DefaultTimeout

	if timeout := strings.TrimSpace(cfg.Timeout); timeout != "" {
		cfg.ParsedTimeout, err = time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("failed to parse timeout: %w", err)
		}

		if cfg.ParsedTimeout <= 0 {
			return ErrInvalidTimeout
		}
	}

	if cfg.RequestsPerSecond < 0 {
		return ErrInvalidRequestsPerSecond
	}

	cfg.ParsedHeaders = make(http.Header, len(cfg.Headers))

	for _, header := range cfg.Headers {
		name, value, ok := utils.SplitHeader(header)
		if !ok {
			return fmt.Errorf("%w: '%s'", ErrInvalidHeader, header)
		}

		cfg.ParsedHeaders.Add(name, value)
	}

	if strings.TrimSpace(cfg.JSONBody) != "" {
		if cfg.Body != "" {
			return ErrConflictingBodies
		}

		if err = json.Unmarshal([]byte(cfg.JSONBody), &cfg.ParsedJSONBody); err != nil {
			return fmt.Errorf("failed to parse json body: %w", err)
		}
	}

	if strings.TrimSpace(cfg.AttachmentsPath) == "" {
		cfg.AttachmentsPath = DefaultAttachmentsPath
	}

	return nil
}

func parseCheckMode(value string) (CheckMode, error) {
	mode := CheckMode(strings.ToLower(strings.TrimSpace(value)))

	switch mode {
	case "":
		return CheckModeCheck, nil
	case CheckModeCheck, CheckModeRequire, CheckModeAssert, CheckModeRaise:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: '%s'", ErrUnknownCheckMode, value)
	}
}

// SaveConfigValue sets key to value in the configuration file while preserving the original format and order.
// The file is created when it does not exist.
func SaveConfigValue(configFilename, key, value string) error {
	if configFilename == "" {
		configFilename = DefaultConfigFilename
	}

	// Read the original file content.
	originalContent, err := os.ReadFile(configFilename)
	if err != nil {
		return handleMissingConfigFile(configFilename, key, value, err)
	}

	// Parse YAML while preserving order using yaml.Node.
	var node yaml.Node
	if err = yaml.Unmarshal(originalContent, &node); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	if !updateValueInNode(&node, key, value) {
		return writeConfigValues(configFilename, originalContent, key, value)
	}

	// Marshal back to YAML (preserves order).
	newContent, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err = os.WriteFile(configFilename, newContent, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// handleMissingConfigFile creates a new config file if it doesn't exist.
func handleMissingConfigFile(configFilename, key, value string, err error) error {
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return writeConfigValues(configFilename, nil, key, value)
}

// writeConfigValues appends a key to the existing content and writes the file.
func writeConfigValues(configFilename string, content []byte, key, value string) error {
	line, err := yaml.Marshal(map[string]string{key: value})
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if len(content) > 0 && content[len(content)-1] != '\n' {
		content = append(content, '\n')
	}

	content = append(content, line...)

	if err = os.WriteFile(configFilename, content, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// updateValueInNode updates the value of key in the YAML node tree. It reports whether the key was found.
func updateValueInNode(node *yaml.Node, key, value string) bool {
	// The root node is a document node, content[0] is the actual map.
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return false
	}

	mapNode := node.Content[0]

	// Iterate through key-value pairs (stored as alternating nodes).
	for i := 0; i+1 < len(mapNode.Content); i += 2 {
		keyNode := mapNode.Content[i]
		valueNode := mapNode.Content[i+1]

		if keyNode.Value != key {
			continue
		}

		valueNode.Kind = yaml.ScalarNode
		valueNode.Content = nil
		valueNode.Tag = "!!str"
		valueNode.Value = value

		// Ensure it's quoted if it contains special characters.
		if valueNode.Style == 0 {
			valueNode.Style = yaml.DoubleQuotedStyle
		}

		return true
	}

	return false
}
