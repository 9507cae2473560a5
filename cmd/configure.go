package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type ConfigFile struct {
	AtPath       string `json:"EXECIN-AT-PATH,omitempty"`
	SchtasksPath string `json:"EXECIN-SCHTASKS-PATH,omitempty"`
	Minutes      int    `json:"EXECIN-MINUTES,omitempty"`
	Log          string `json:"EXECIN-LOG,omitempty"`
	SentryDSN    string `json:"EXECIN-SENTRY-DSN,omitempty"`
}

// configureCmd represents the configure command
var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Write the current settings to the selected config file.",
	Long: `
Saves the effective settings, including any flags given on this command line, so later runs use them.

Example:
  $ execin configure --in 10 --at-path /usr/local/bin/at`,
	PreRun: func(cmd *cobra.Command, args []string) {
		bindMinutesFlag(cmd.Flags())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFilePath()
		if err := writeConfigFile(path, currentConfig(viper.GetViper())); err != nil {
			return err
		}

		printSuccessText(cmd.OutOrStdout(), fmt.Sprintf("✔ Configuration written to %s", path))
		return nil
	},
}

// currentConfig keeps only settings that were given somewhere; flag defaults are left out so
// later releases can change them.
func currentConfig(v *viper.Viper) ConfigFile {
	configData := ConfigFile{}
	if v.IsSet(varAtPath) {
		configData.AtPath = v.GetString(varAtPath)
	}
	if v.IsSet(varSchtasksPath) {
		configData.SchtasksPath = v.GetString(varSchtasksPath)
	}
	if v.IsSet(varMinutes) {
		configData.Minutes = v.GetInt(varMinutes)
	}
	if v.IsSet(varLog) {
		configData.Log = v.GetString(varLog)
	}
	if v.IsSet(varSentryDSN) {
		configData.SentryDSN = v.GetString(varSentryDSN)
	}

	return configData
}

func writeConfigFile(path string, configData ConfigFile) error {
	b, err := json.MarshalIndent(configData, "", "    ")
	if err != nil {
		return errors.Wrap(err, "could not encode configuration")
	}

	if err := os.WriteFile(path, b, 0644); err != nil {
		return errors.Wrapf(err, "the configuration file at %s could not be written; check permissions and try again", path)
	}

	return nil
}

func configFilePath() string {
	viperConfig := viper.ConfigFileUsed()
	if len(viperConfig) > 0 {
		return viperConfig
	}

	defaultConfig, _ := homedir.Expand("~/.execin.json")
	return defaultConfig
}

func init() {
	RootCmd.AddCommand(configureCmd)
	configureCmd.Flags().IntP("in", "m", 1, "Default minutes from now for 'schedule'")
}
