package workspace

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/workcopy/internal/history"
)

const (
	recentUseConstant             = "recent"
	recentShortDescription        = "List recently opened repositories"
	recentLongDescription         = "recent prints the most-recently-used repository list, newest first."
	recentEmptyMessageConstant    = "No repositories have been opened yet\n"
	recentEntryTemplateConstant   = "%d. %s\n"
	recentHistoryDisabledMessage  = "repository history is not available"
	recentFirstEntryOrdinalOffset = 1
)

// RecentCommandBuilder assembles the recent command.
type RecentCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
}

// Build constructs the recent command.
func (builder *RecentCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   recentUseConstant,
		Short: recentShortDescription,
		Long:  recentLongDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	return command, nil
}

func (builder *RecentCommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := resolveConfiguration(builder.ConfigurationProvider)
	historyFilePath := resolveHistoryFilePath(configuration)
	if len(historyFilePath) == 0 {
		return errors.New(recentHistoryDisabledMessage)
	}
	historyStore, storeError := history.NewStore(historyFilePath, configuration.HistoryLimit, nil)
	if storeError != nil {
		return storeError
	}

	recordedPaths, loadError := historyStore.Load()
	if loadError != nil {
		return loadError
	}
	if len(recordedPaths) == 0 {
		fmt.Fprint(command.OutOrStdout(), recentEmptyMessageConstant)
		return nil
	}
	for entryIndex, recordedPath := range recordedPaths {
		fmt.Fprintf(command.OutOrStdout(), recentEntryTemplateConstant, entryIndex+recentFirstEntryOrdinalOffset, recordedPath)
	}
	return nil
}
