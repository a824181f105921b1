package cmd

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "cruft", configBaseName)
	assert.Equal(t, "cruft.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "CRUFT", envPrefix)
	assert.Equal(t, "scan.jobs", scanJobsConfigKey)
	assert.Equal(t, "output.reporter", reporterConfigKey)
	assert.Equal(t, "pool.size", poolSizeConfigKey)
	assert.Equal(t, ".cruft.log", defaultLogFilename)
}

func TestConfigDefaults(t *testing.T) {
	newTestRootCmd(newScanCmd())

	assert.Equal(t, currentConfigVersion, viper.GetInt(configVersionKey))
	assert.Equal(t, defaultReporter, viper.GetString(reporterConfigKey))
	assert.Equal(t, defaultPoolSize, viper.GetInt(poolSizeConfigKey))
	assert.Equal(t, defaultLogMaxBackups, viper.GetInt(logMaxBackupsKey))
}

func TestConfigEnvOverride(t *testing.T) {
	t.Setenv("CRUFT_SCAN_JOBS", "7")
	t.Setenv("CRUFT_OUTPUT_FORMAT", "{cpv}")

	// Rebind the keys to flags that were never set.
	newTestRootCmd(newScanCmd())

	assert.Equal(t, uint(7), viper.GetUint(scanJobsConfigKey))
	assert.Equal(t, "{cpv}", viper.GetString(formatConfigKey))
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{value: "", want: slog.LevelInfo},
		{value: "debug", want: slog.LevelDebug},
		{value: " WARNING ", want: slog.LevelWarn},
		{value: "error", want: slog.LevelError},
		{value: "-4", want: slog.LevelDebug},
		{value: "loud", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelInfo))
		})
	}
}

func TestConfigureLogger(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	path := filepath.Join(t.TempDir(), "cruft.log")

	configureLogger(path, true)
	require.NotNil(t, globalLogger)
	assert.True(t, globalLogger.Enabled(t.Context(), slog.LevelDebug))

	configureLogger(path, false)
	assert.False(t, globalLogger.Enabled(t.Context(), slog.LevelDebug))
	assert.True(t, globalLogger.Enabled(t.Context(), slog.LevelInfo))
}

func TestRootCmd_ConfiguresLogger(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	mockWorkflow := useMockWorkflow(t)
	mockWorkflow.EXPECT().Show(mock.Anything, mock.Anything).Return(nil)

	logPath := filepath.Join(t.TempDir(), "cruft.log")

	cmd, _ := newTestRootCmd(newShowCmd())
	cmd.SetArgs([]string{"--verbose", "--log-file", logPath, "show", "reports"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, logPath, viper.GetString(logFilenameKey))
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))
}
