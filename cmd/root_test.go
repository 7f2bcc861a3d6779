package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/rubymark/internal/config"
)

// sandbox runs the test in an empty working directory with an empty home, so no
// real config file is picked up. Returns the working directory.
func sandbox(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	return dir
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfgUsed = ""
	t.Cleanup(func() { teardown(nil, nil) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadConfig_Defaults(t *testing.T) {
	sandbox(t)
	c, err := loadConfig(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, config.Defaults(), c)
}

func TestLoadConfig_LocalFile(t *testing.T) {
	sandbox(t)
	writeConfig(t, localConfigPath, "render:\n  format: fallback\nterminal:\n  width: 60\n")

	c, err := loadConfig(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, config.FormatFallback, c.Render.Format)
	require.Equal(t, 60, c.Terminal.Width)
	require.True(t, c.Render.GFM, "unset keys keep their defaults")
}

func TestLoadConfig_UserFile(t *testing.T) {
	sandbox(t)
	writeConfig(t, config.DefaultConfigPath(), "terminal:\n  style: light\n")

	c, err := loadConfig(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, "light", c.Terminal.Style)
}

func TestLoadConfig_LocalBeatsUser(t *testing.T) {
	sandbox(t)
	writeConfig(t, config.DefaultConfigPath(), "terminal:\n  style: light\n")
	writeConfig(t, localConfigPath, "terminal:\n  style: notty\n")

	c, err := loadConfig(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, "notty", c.Terminal.Style)
}

func TestLoadConfig_Env(t *testing.T) {
	sandbox(t)
	writeConfig(t, localConfigPath, "render:\n  format: fallback\n")
	t.Setenv("RUBYMARK_RENDER_FORMAT", "terminal")
	t.Setenv("RUBYMARK_WATCH_DEBOUNCE", "2s")

	c, err := loadConfig(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, config.FormatTerminal, c.Render.Format)
	require.Equal(t, "2s", c.Watch.Debounce.String())
}

func TestLoadConfig_ExplicitMissingFile(t *testing.T) {
	dir := sandbox(t)
	_, err := loadConfig(viper.New(), filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading config")
}

func TestLoadConfig_Invalid(t *testing.T) {
	sandbox(t)
	writeConfig(t, localConfigPath, "render:\n  format: pdf\n")

	_, err := loadConfig(viper.New(), "")
	require.ErrorIs(t, err, config.ErrInvalidFormat)
}

func TestRoot_ConfigFlag(t *testing.T) {
	dir := sandbox(t)
	path := filepath.Join(dir, "custom.yaml")
	writeConfig(t, path, "render:\n  format: fallback\n")

	out, err := execute(t, "漢字《かんじ》", "--config", path, "render")
	require.NoError(t, err)
	require.Equal(t, "漢字（かんじ）", out)
}

func TestRoot_InvalidConfigFails(t *testing.T) {
	sandbox(t)
	writeConfig(t, localConfigPath, "terminal:\n  width: -3\n")

	_, err := execute(t, "", "render")
	require.Error(t, err)
	require.Contains(t, err.Error(), "terminal.width")
}

func TestRoot_DebugLog(t *testing.T) {
	dir := sandbox(t)
	logPath := filepath.Join(dir, "rubymark.log")

	_, err := execute(t, "漢字《かんじ》", "--debug", "--log-file", logPath, "render")
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "[INFO] [config] rubymark starting")
	require.Contains(t, string(data), "[DEBUG] [render] ruby transform")
}

func TestRoot_DebugEnv(t *testing.T) {
	dir := sandbox(t)
	t.Setenv("RUBYMARK_DEBUG", "1")

	_, err := execute(t, "", "version")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "debug.log"))
}

func TestVersion(t *testing.T) {
	sandbox(t)
	SetVersion("1.2.3")
	t.Cleanup(func() { SetVersion("dev") })

	out, err := execute(t, "", "version")
	require.NoError(t, err)
	require.Equal(t, "rubymark 1.2.3\n", out)
}
