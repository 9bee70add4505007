package workspace

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/workcopy/internal/lifecycle"
)

const (
	lfsGroupUseConstant        = "lfs"
	lfsGroupShortDescription   = "Manage large-file-storage support for a repository"
	lfsGroupLongDescription    = "lfs groups subcommands that enable or disable large-file-storage support."
	lfsEnableUseConstant       = "enable <repository-path>"
	lfsEnableShortDescription  = "Enable large-file-storage support"
	lfsEnableLongDescription   = "enable installs large-file-storage hooks, provisions the attributes file, and optionally tracks the configured default patterns."
	lfsDisableUseConstant      = "disable <repository-path>"
	lfsDisableShortDescription = "Disable large-file-storage support"
	lfsDisableLongDescription  = "disable untracks all patterns, uninstalls hooks, and removes the storage directory."

	lfsTrackDefaultsFlagName           = "track-defaults"
	lfsTrackDefaultsFlagDescription    = "Track the configured default glob patterns"
	lfsRewriteHistoryFlagName          = "rewrite-history"
	lfsRewriteHistoryFlagDescription   = "Reserved; history rewriting is not performed"
	lfsEnabledSummaryMessageConstant   = "Large-file-storage support enabled\n"
	lfsDisabledSummaryMessageConstant  = "Large-file-storage support disabled\n"
	lfsUnchangedSummaryMessageConstant = "Large-file-storage support unchanged\n"
)

type commandContext struct {
	context context.Context
	manager *lifecycle.Manager
}

type lfsTransition func(commandContext) (bool, error)

// LfsCommandGroupBuilder assembles the lfs command hierarchy.
type LfsCommandGroupBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	ManagerFactory               ManagerFactory
	HumanReadableLoggingProvider HumanReadableLoggingProvider
}

// Build constructs the lfs command group.
func (builder *LfsCommandGroupBuilder) Build() (*cobra.Command, error) {
	groupCommand := &cobra.Command{
		Use:   lfsGroupUseConstant,
		Short: lfsGroupShortDescription,
		Long:  lfsGroupLongDescription,
	}

	enableCommand := &cobra.Command{
		Use:   lfsEnableUseConstant,
		Short: lfsEnableShortDescription,
		Long:  lfsEnableLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.runEnable,
	}
	enableCommand.Flags().Bool(lfsTrackDefaultsFlagName, true, lfsTrackDefaultsFlagDescription)
	groupCommand.AddCommand(enableCommand)

	disableCommand := &cobra.Command{
		Use:   lfsDisableUseConstant,
		Short: lfsDisableShortDescription,
		Long:  lfsDisableLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.runDisable,
	}
	disableCommand.Flags().Bool(lfsRewriteHistoryFlagName, false, lfsRewriteHistoryFlagDescription)
	groupCommand.AddCommand(disableCommand)

	return groupCommand, nil
}

func (builder *LfsCommandGroupBuilder) runEnable(command *cobra.Command, arguments []string) error {
	trackDefaults, _ := command.Flags().GetBool(lfsTrackDefaultsFlagName)
	return builder.runTransition(command, arguments, func(executionContext commandContext) (bool, error) {
		return executionContext.manager.AddLfsSupport(executionContext.context, trackDefaults)
	}, lfsEnabledSummaryMessageConstant)
}

func (builder *LfsCommandGroupBuilder) runDisable(command *cobra.Command, arguments []string) error {
	rewriteHistory, _ := command.Flags().GetBool(lfsRewriteHistoryFlagName)
	return builder.runTransition(command, arguments, func(executionContext commandContext) (bool, error) {
		return executionContext.manager.RemoveLfsSupport(executionContext.context, rewriteHistory)
	}, lfsDisabledSummaryMessageConstant)
}

func (builder *LfsCommandGroupBuilder) runTransition(command *cobra.Command, arguments []string, transition lfsTransition, changedMessage string) error {
	repositoryPath, pathError := requireRepositoryPathArgument(command, arguments)
	if pathError != nil {
		return pathError
	}

	logger := resolveLogger(builder.LoggerProvider)
	configuration := resolveConfiguration(builder.ConfigurationProvider)
	manager, managerError := resolveManager(builder.ManagerFactory, logger, configuration, resolveHumanReadableLogging(builder.HumanReadableLoggingProvider))
	if managerError != nil {
		return managerError
	}

	if _, openError := manager.Open(command.Context(), repositoryPath, false); openError != nil {
		return openError
	}

	changed, transitionError := transition(commandContext{context: command.Context(), manager: manager})
	if transitionError != nil {
		return transitionError
	}
	if changed {
		fmt.Fprint(command.OutOrStdout(), changedMessage)
	} else {
		fmt.Fprint(command.OutOrStdout(), lfsUnchangedSummaryMessageConstant)
	}
	return nil
}
