package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/workcopy/cmd/cli/workspace"
	"github.com/temirov/workcopy/internal/utils"
)

const (
	applicationNameConstant                 = "workcopy"
	applicationShortDescriptionConstant     = "Command-line interface for repository working-copy management"
	applicationLongDescriptionConstant      = "workcopy opens, clones, refreshes, and maintains git working copies, including large-file-storage support."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant               = "WORKCOPY"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	defaultConfigurationSearchPathConstant  = "."
	toolsConfigurationKeyConstant           = "tools"
	workspaceConfigurationKeyConstant       = toolsConfigurationKeyConstant + ".workspace"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationToolsConfiguration holds configuration for CLI subcommands grouped by tool family.
type ApplicationToolsConfiguration struct {
	Workspace workspace.Configuration `mapstructure:"workspace"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
		embeddedDefaultConfigurationContent,
	)

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	loggerProvider := func() *zap.Logger {
		return application.logger
	}
	workspaceConfigurationProvider := func() workspace.Configuration {
		return application.configuration.Tools.Workspace
	}
	humanReadableLoggingProvider := func() bool {
		return application.humanReadableLoggingEnabled()
	}

	openBuilder := workspace.OpenCommandBuilder{
		LoggerProvider:               loggerProvider,
		ConfigurationProvider:        workspaceConfigurationProvider,
		HumanReadableLoggingProvider: humanReadableLoggingProvider,
	}
	if openCommand, openBuildError := openBuilder.Build(); openBuildError == nil {
		cobraCommand.AddCommand(openCommand)
	}

	cloneBuilder := workspace.CloneCommandBuilder{
		LoggerProvider:               loggerProvider,
		ConfigurationProvider:        workspaceConfigurationProvider,
		HumanReadableLoggingProvider: humanReadableLoggingProvider,
	}
	if cloneCommand, cloneBuildError := cloneBuilder.Build(); cloneBuildError == nil {
		cobraCommand.AddCommand(cloneCommand)
	}

	lfsBuilder := workspace.LfsCommandGroupBuilder{
		LoggerProvider:               loggerProvider,
		ConfigurationProvider:        workspaceConfigurationProvider,
		HumanReadableLoggingProvider: humanReadableLoggingProvider,
	}
	if lfsCommand, lfsBuildError := lfsBuilder.Build(); lfsBuildError == nil {
		cobraCommand.AddCommand(lfsCommand)
	}

	signatureBuilder := workspace.SignatureCommandBuilder{
		LoggerProvider:               loggerProvider,
		ConfigurationProvider:        workspaceConfigurationProvider,
		HumanReadableLoggingProvider: humanReadableLoggingProvider,
	}
	if signatureCommand, signatureBuildError := signatureBuilder.Build(); signatureBuildError == nil {
		cobraCommand.AddCommand(signatureCommand)
	}

	maintainBuilder := workspace.MaintainCommandBuilder{
		LoggerProvider:               loggerProvider,
		ConfigurationProvider:        workspaceConfigurationProvider,
		HumanReadableLoggingProvider: humanReadableLoggingProvider,
	}
	if maintainCommand, maintainBuildError := maintainBuilder.Build(); maintainBuildError == nil {
		cobraCommand.AddCommand(maintainCommand)
	}

	recentBuilder := workspace.RecentCommandBuilder{
		LoggerProvider:        loggerProvider,
		ConfigurationProvider: workspaceConfigurationProvider,
	}
	if recentCommand, recentBuildError := recentBuilder.Build(); recentBuildError == nil {
		cobraCommand.AddCommand(recentCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}
	for configurationKey, configurationValue := range workspace.DefaultConfigurationValues(workspaceConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	resolvedLogLevel, logLevelError := utils.ParseLogLevel(application.configuration.Common.LogLevel)
	if logLevelError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, logLevelError)
	}
	resolvedLogFormat, logFormatError := utils.ParseLogFormat(application.configuration.Common.LogFormat)
	if logFormatError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, logFormatError)
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(resolvedLogLevel, resolvedLogFormat)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, string(resolvedLogLevel)),
		zap.String(configurationLogFormatFieldConstant, string(resolvedLogFormat)),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	return strings.EqualFold(application.configuration.Common.LogFormat, string(utils.LogFormatConsole))
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
