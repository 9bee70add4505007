package workspace

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

const (
	maintainUseConstant                  = "maintain <repository-path>"
	maintainShortDescription             = "Report unpacked objects and optionally optimize storage"
	maintainLongDescription              = "maintain reports the repository's unpacked object count and size, and runs storage optimization when requested."
	maintainOptimizeFlagName             = "optimize"
	maintainOptimizeFlagDescription      = "Run storage optimization after reporting"
	maintainObjectsTemplateConstant      = "Unpacked objects: %d (%s)\n"
	maintainObjectsUnknownMessage        = "Unpacked objects: unavailable\n"
	maintainOptimizedMessageConstant     = "Repository storage optimized\n"
	maintainOptimizeFailedMessageBrief   = "repository storage optimization failed"
	maintainEmptySizePlaceholderConstant = "0 KiB"
)

// MaintainCommandBuilder assembles the maintain command.
type MaintainCommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	ManagerFactory               ManagerFactory
	HumanReadableLoggingProvider HumanReadableLoggingProvider
}

// Build constructs the maintain command.
func (builder *MaintainCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   maintainUseConstant,
		Short: maintainShortDescription,
		Long:  maintainLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().Bool(maintainOptimizeFlagName, false, maintainOptimizeFlagDescription)

	return command, nil
}

func (builder *MaintainCommandBuilder) run(command *cobra.Command, arguments []string) error {
	repositoryPath, pathError := requireRepositoryPathArgument(command, arguments)
	if pathError != nil {
		return pathError
	}
	runOptimization, _ := command.Flags().GetBool(maintainOptimizeFlagName)

	logger := resolveLogger(builder.LoggerProvider)
	configuration := resolveConfiguration(builder.ConfigurationProvider)
	manager, managerError := resolveManager(builder.ManagerFactory, logger, configuration, resolveHumanReadableLogging(builder.HumanReadableLoggingProvider))
	if managerError != nil {
		return managerError
	}

	if _, openError := manager.Open(command.Context(), repositoryPath, false); openError != nil {
		return openError
	}

	objectCount, humanSize := manager.UnpackedObjectCount(command.Context())
	if objectCount < 0 {
		fmt.Fprint(command.OutOrStdout(), maintainObjectsUnknownMessage)
	} else {
		if len(humanSize) == 0 {
			humanSize = maintainEmptySizePlaceholderConstant
		}
		fmt.Fprintf(command.OutOrStdout(), maintainObjectsTemplateConstant, objectCount, humanSize)
	}

	if runOptimization {
		if !manager.Optimize(command.Context()) {
			return errors.New(maintainOptimizeFailedMessageBrief)
		}
		fmt.Fprint(command.OutOrStdout(), maintainOptimizedMessageConstant)
	}
	return nil
}
