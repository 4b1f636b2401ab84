package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	m "k6lint.dev/pkg/k6lint/internal/model"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "k6lint"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName         = "output"
	excludeFlagName        = "exclude"
	disableFlagName        = "disable"
	verboseFlagName        = "verbose"
	scanParallelFlagName   = "parallel"
	scanFormatFlagName     = "format"
	failOnFindingsFlagName = "fail-on-findings"
	scanWatchFlagName      = "watch"

	excludeConfigKey           = "paths.exclude"
	scanParallelConfigKey      = "scan.parallel"
	scanFormatsConfigKey       = "scan.formats"
	failOnFindingsConfigKey    = "scan.fail_on_findings"
	scanWatchConfigKey         = "scan.watch"
	scanWatchDebounceConfigKey = "scan.watch_debounce"
	disabledConfigKey          = "detectors.disabled"

	checkModuleKey       = "rules.check.module"
	checkNamesKey        = "rules.check.names"
	networkModuleKey     = "rules.network.module"
	networkNamespacesKey = "rules.network.namespaces"
	networkFunctionsKey  = "rules.network.functions"
	networkHelpersKey    = "rules.network.helpers"
	initFactoriesKey     = "rules.init.factories"

	defaultReportsDir     = ".k6lint-reports"
	defaultScanParallel   = 0
	defaultFailOnFindings = false
	defaultWatchDebounce  = "200ms"

	envPrefix = "K6LINT"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".k6lint.log"
	defaultLogLevel      = "info"
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

func setDefaults() {
	rules := m.DefaultRuleSettings()

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputFlagName, defaultReportsDir)
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(scanParallelConfigKey, defaultScanParallel)
	viper.SetDefault(scanWatchConfigKey, false)
	viper.SetDefault(scanWatchDebounceConfigKey, defaultWatchDebounce)
	viper.SetDefault(scanFormatsConfigKey, []string{string(m.FormatJSON)})
	viper.SetDefault(failOnFindingsConfigKey, defaultFailOnFindings)
	viper.SetDefault(disabledConfigKey, []string{})

	viper.SetDefault(checkModuleKey, rules.ValidationModule)
	viper.SetDefault(checkNamesKey, rules.ValidationFunctions)
	viper.SetDefault(networkModuleKey, rules.NetworkModule)
	viper.SetDefault(networkNamespacesKey, rules.NetworkNamespaces)
	viper.SetDefault(networkFunctionsKey, rules.NetworkFunctions)
	viper.SetDefault(networkHelpersKey, rules.NetworkHelpers)
	viper.SetDefault(initFactoriesKey, rules.SharedDataFactories)

	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)
}

// ruleSettings reads the names that drive call classification. Empty
// entries fall back to the built-in defaults.
func ruleSettings() m.RuleSettings {
	s := m.DefaultRuleSettings()

	stringOr(&s.ValidationModule, checkModuleKey)
	sliceOr(&s.ValidationFunctions, checkNamesKey)
	stringOr(&s.NetworkModule, networkModuleKey)
	sliceOr(&s.NetworkNamespaces, networkNamespacesKey)
	sliceOr(&s.NetworkFunctions, networkFunctionsKey)
	sliceOr(&s.NetworkHelpers, networkHelpersKey)
	sliceOr(&s.SharedDataFactories, initFactoriesKey)

	return s
}

func stringOr(dst *string, key string) {
	if v := strings.TrimSpace(viper.GetString(key)); v != "" {
		*dst = v
	}
}

func sliceOr(dst *[]string, key string) {
	if v := viper.GetStringSlice(key); len(v) > 0 {
		*dst = v
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Numeric slog levels, e.g. -4 for debug.
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger installs the global slog logger writing to a rotated file.
// It logs at the configured level, or at Debug when verbose is set.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
