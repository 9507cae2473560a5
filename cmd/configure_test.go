package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestWriteConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".execin.json")
	config := ConfigFile{AtPath: "/usr/local/bin/at", Minutes: 10}

	if err := writeConfigFile(path, config); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Could not read config file: %v", err)
	}

	written := map[string]interface{}{}
	if err := json.Unmarshal(contents, &written); err != nil {
		t.Fatalf("Config file is not JSON: %v", err)
	}

	expected := map[string]interface{}{
		"EXECIN-AT-PATH": "/usr/local/bin/at",
		"EXECIN-MINUTES": float64(10),
	}
	if diff := cmp.Diff(expected, written); diff != "" {
		t.Errorf("Unexpected config file contents (-want +got):\n%s", diff)
	}
}

func TestWriteConfigFileUnwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", ".execin.json")

	if err := writeConfigFile(path, ConfigFile{}); err == nil {
		t.Error("Expected an error writing into a missing directory")
	}
}

func TestCurrentConfigSkipsFlagDefaults(t *testing.T) {
	flags := pflag.NewFlagSet("configure", pflag.ContinueOnError)
	flags.String("at-path", "at", "")
	flags.String("schtasks-path", "schtasks", "")
	flags.Int("in", 1, "")

	v := viper.New()
	v.BindPFlag(varAtPath, flags.Lookup("at-path"))
	v.BindPFlag(varSchtasksPath, flags.Lookup("schtasks-path"))
	v.BindPFlag(varMinutes, flags.Lookup("in"))

	if diff := cmp.Diff(ConfigFile{}, currentConfig(v)); diff != "" {
		t.Errorf("Expected flag defaults to be left out (-want +got):\n%s", diff)
	}

	if err := flags.Parse([]string{"--in", "10"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	v.Set(varSentryDSN, "https://public@sentry.example.com/1")

	expected := ConfigFile{Minutes: 10, SentryDSN: "https://public@sentry.example.com/1"}
	if diff := cmp.Diff(expected, currentConfig(v)); diff != "" {
		t.Errorf("Unexpected config (-want +got):\n%s", diff)
	}
}
