package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/reqcheck/internal/config"
)

// ErrUnknownConfigKey indicates a key that the configuration file does not support.
var ErrUnknownConfigKey = errors.New("unknown configuration key")

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Configuration file management commands",
		Long: fmt.Sprintf(`Manage the configuration file.

Use 'config set' to change one value without touching the rest of the file.
The file is '%s' unless --config is given.`, config.DefaultConfigFilename),
		// The file may be missing or invalid, it is edited without loading.
		PersistentPreRun: func(*cobra.Command, []string) {},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	configSetCmd = &cobra.Command{
		Use:   "set {key} {value}",
		Short: "Set a configuration value",
		Long: `Sets a value in the configuration file, creating the file when needed.

Comments and key order are kept, for example:
reqcheck config set base_url https://api.example.net
reqcheck config set expected_status 200-204`,
		Args: cobra.ExactArgs(2), //nolint:mnd // Key and value.
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd, configFilenameFromFlag, args[0], args[1])
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	configCmd.AddCommand(configSetCmd)
}

func setConfigValue(cmd *cobra.Command, configFilename, key, value string) error {
	if !config.IsKnownKey(key) {
		return fmt.Errorf("%w: '%s'", ErrUnknownConfigKey, key)
	}

	if err := config.SaveConfigValue(configFilename, key, value); err != nil {
		return err
	}

	if configFilename == "" {
		configFilename = config.DefaultConfigFilename
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set '%s' in '%s'\n", key, configFilename)

	return nil
}
