package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cronitorio/execin/lib"
	"github.com/getsentry/raven-go"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var version = "0.1.0"
var cfgFile string

// Flags that are either global or used in multiple commands
var debugLog string
var verbose bool

// Viper keys, settable from flags, the config file or EXECIN_* environment variables
var varAtPath = "EXECIN-AT-PATH"
var varSchtasksPath = "EXECIN-SCHTASKS-PATH"
var varMinutes = "EXECIN-MINUTES"
var varLog = "EXECIN-LOG"
var varSentryDSN = "EXECIN-SENTRY-DSN"

var logger = zerolog.Nop()

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "execin",
	Short: fmt.Sprintf("Run a command in x minutes using the OS scheduler, version %s", version),
	Long: `
Hands a command to at(1) on Linux and macOS, or to schtasks on Windows, to be run
once after a delay. The command is not tracked after it has been scheduled.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		reportError(err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", cfgFile, "Config file (default: ~/.execin.json)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", verbose, "Verbose output")
	RootCmd.PersistentFlags().String("at-path", lib.DefaultAtPath, "Path to the at utility")
	RootCmd.PersistentFlags().String("schtasks-path", lib.DefaultSchtasksPath, "Path to the schtasks utility")
	RootCmd.PersistentFlags().String("sentry-dsn", "", "Report errors to this Sentry DSN")

	RootCmd.PersistentFlags().StringVar(&debugLog, "log", debugLog, "Write debug logs to supplied file")
	RootCmd.PersistentFlags().MarkHidden("log")

	viper.BindPFlag(varAtPath, RootCmd.PersistentFlags().Lookup("at-path"))
	viper.BindPFlag(varSchtasksPath, RootCmd.PersistentFlags().Lookup("schtasks-path"))
	viper.BindPFlag(varSentryDSN, RootCmd.PersistentFlags().Lookup("sentry-dsn"))
	viper.BindPFlag(varLog, RootCmd.PersistentFlags().Lookup("log"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(".execin")
		viper.SetConfigType("json")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	configErr := viper.ReadInConfig()
	logger = newLogger(verbose, viper.GetString(varLog))
	if configErr == nil {
		logger.Debug().Str("file", viper.ConfigFileUsed()).Msg("read config")
	}

	if dsn := viper.GetString(varSentryDSN); len(dsn) > 0 {
		if err := raven.SetDSN(dsn); err != nil {
			logger.Warn().Err(err).Msg("invalid sentry dsn, errors will not be reported")
		}
	}
}

// newLogger writes to stderr when verbose and appends to logFile when one is given.
func newLogger(verbose bool, logFile string) zerolog.Logger {
	var writers []io.Writer
	if verbose {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if len(logFile) > 0 {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not open log file %s: %v\n", logFile, err)
		} else {
			writers = append(writers, f)
		}
	}

	if len(writers) == 0 {
		return zerolog.Nop()
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()
}

func newSubmitter() lib.Submitter {
	return lib.NewSubmitter(lib.Config{
		AtPath:       viper.GetString(varAtPath),
		SchtasksPath: viper.GetString(varSchtasksPath),
		Logger:       &logger,
	})
}

// bindMinutesFlag points EXECIN-MINUTES at the --in flag of the command being run.
func bindMinutesFlag(flags *pflag.FlagSet) {
	viper.BindPFlag(varMinutes, flags.Lookup("in"))
}

func reportError(err error) {
	if len(viper.GetString(varSentryDSN)) > 0 {
		raven.CaptureErrorAndWait(err, map[string]string{"version": version})
	}
}
