package workspace

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

const (
	openUseConstant                     = "open <repository-path>"
	openShortDescription                = "Open a repository working copy and refresh its state"
	openLongDescription                 = "open establishes a handle on the repository, provisions marker files, and refreshes branch and working tree state."
	openVerifySettingsFlagName          = "verify-settings"
	openVerifySettingsFlagDescription   = "Warn when the commit signature is incomplete"
	openRefreshFailedErrorMessage       = "repository state could not be refreshed"
	openSummaryTemplateConstant         = "Opened %s\n"
	openLfsSummaryTemplateConstant      = "Large-file-storage support: %t\n"
	openSignatureTemplateConstant       = "Commit signature: %s <%s>\n"
	openSignatureMissingMessageConstant = "Commit signature: not configured\n"
)

// OpenCommandBuilder assembles the open command.
type OpenCommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	ManagerFactory               ManagerFactory
	HumanReadableLoggingProvider HumanReadableLoggingProvider
}

// Build constructs the open command.
func (builder *OpenCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   openUseConstant,
		Short: openShortDescription,
		Long:  openLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().Bool(openVerifySettingsFlagName, true, openVerifySettingsFlagDescription)

	return command, nil
}

func (builder *OpenCommandBuilder) run(command *cobra.Command, arguments []string) error {
	repositoryPath, pathError := requireRepositoryPathArgument(command, arguments)
	if pathError != nil {
		return pathError
	}
	verifySettings, _ := command.Flags().GetBool(openVerifySettingsFlagName)

	logger := resolveLogger(builder.LoggerProvider)
	configuration := resolveConfiguration(builder.ConfigurationProvider)
	manager, managerError := resolveManager(builder.ManagerFactory, logger, configuration, resolveHumanReadableLogging(builder.HumanReadableLoggingProvider))
	if managerError != nil {
		return managerError
	}

	refreshed, openError := manager.Open(command.Context(), repositoryPath, verifySettings)
	if openError != nil {
		return openError
	}
	if !refreshed {
		return errors.New(openRefreshFailedErrorMessage)
	}

	fmt.Fprintf(command.OutOrStdout(), openSummaryTemplateConstant, manager.RepositoryPath())
	fmt.Fprintf(command.OutOrStdout(), openLfsSummaryTemplateConstant, manager.LfsEnabled())
	cachedSignature := manager.CachedSignature()
	if cachedSignature.IsComplete() {
		fmt.Fprintf(command.OutOrStdout(), openSignatureTemplateConstant, cachedSignature.Name, cachedSignature.Email)
	} else {
		fmt.Fprint(command.OutOrStdout(), openSignatureMissingMessageConstant)
	}
	return nil
}
