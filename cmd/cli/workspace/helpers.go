package workspace

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/workcopy/internal/execshell"
	"github.com/temirov/workcopy/internal/gitrepo"
	"github.com/temirov/workcopy/internal/history"
	"github.com/temirov/workcopy/internal/lifecycle"
	"github.com/temirov/workcopy/internal/markers"
	"github.com/temirov/workcopy/internal/ui"
)

const (
	missingRepositoryPathErrorMessageConstant = "no repository path provided"
	historyDirectoryNameConstant              = "workcopy"
	historyFileNameConstant                   = "history.yaml"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider yields the resolved workspace configuration.
type ConfigurationProvider func() Configuration

// ManagerFactory builds the lifecycle manager used by a command. Commands fall
// back to the production wiring when no factory is supplied.
type ManagerFactory func(logger *zap.Logger, configuration Configuration) (*lifecycle.Manager, error)

// HumanReadableLoggingProvider reports whether console-formatted command event
// logging is active.
type HumanReadableLoggingProvider func() bool

func resolveHumanReadableLogging(provider HumanReadableLoggingProvider) bool {
	if provider == nil {
		return false
	}
	return provider()
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func resolveConfiguration(provider ConfigurationProvider) Configuration {
	if provider == nil {
		return DefaultConfiguration()
	}
	return provider().sanitize()
}

func resolveManager(factory ManagerFactory, logger *zap.Logger, configuration Configuration, humanReadableLogging bool) (*lifecycle.Manager, error) {
	if factory != nil {
		return factory(logger, configuration)
	}
	return buildDefaultManager(logger, configuration, humanReadableLogging)
}

func buildDefaultManager(logger *zap.Logger, configuration Configuration, humanReadableLogging bool) (*lifecycle.Manager, error) {
	var shellExecutor *execshell.ShellExecutor
	var executorError error
	if humanReadableLogging {
		shellExecutor, executorError = execshell.NewShellExecutorWithObserver(logger, execshell.NewOSCommandRunner(), ui.NewConsoleCommandEventLogger(logger))
	} else {
		shellExecutor, executorError = execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	}
	if executorError != nil {
		return nil, executorError
	}
	repositoryManager, managerError := gitrepo.NewRepositoryManager(shellExecutor)
	if managerError != nil {
		return nil, managerError
	}
	branchRefresher, branchRefresherError := gitrepo.NewBranchStateRefresher(repositoryManager)
	if branchRefresherError != nil {
		return nil, branchRefresherError
	}
	worktreeRefresher, worktreeRefresherError := gitrepo.NewWorktreeStateRefresher(repositoryManager)
	if worktreeRefresherError != nil {
		return nil, worktreeRefresherError
	}
	return lifecycle.NewManager(
		lifecycle.Dependencies{
			Logger:               logger,
			Adapter:              repositoryManager,
			Probe:                markers.NewProbe(nil),
			BranchRefresher:      branchRefresher,
			WorktreeRefresher:    worktreeRefresher,
			HistoryRecorder:      resolveHistoryRecorder(configuration),
			ShellCommandExecutor: shellExecutor,
		},
		lifecycle.Configuration{
			MergeToolName:           configuration.MergeTool,
			DefaultTrackingPatterns: configuration.LfsPatterns,
			HistoryToolName:         configuration.HistoryTool,
		},
	)
}

func resolveHistoryFilePath(configuration Configuration) string {
	if len(configuration.HistoryFile) > 0 {
		return configuration.HistoryFile
	}
	userConfigDirectory, configDirectoryError := os.UserConfigDir()
	if configDirectoryError != nil {
		return ""
	}
	return filepath.Join(userConfigDirectory, historyDirectoryNameConstant, historyFileNameConstant)
}

func resolveHistoryRecorder(configuration Configuration) lifecycle.RepositoryHistoryRecorder {
	historyFilePath := resolveHistoryFilePath(configuration)
	if len(historyFilePath) == 0 {
		return nil
	}
	historyStore, storeError := history.NewStore(historyFilePath, configuration.HistoryLimit, nil)
	if storeError != nil {
		return nil
	}
	return historyStore
}

func requireRepositoryPathArgument(command *cobra.Command, arguments []string) (string, error) {
	if len(arguments) == 1 && len(arguments[0]) > 0 {
		return arguments[0], nil
	}
	if command != nil {
		_ = command.Help()
	}
	return "", errors.New(missingRepositoryPathErrorMessageConstant)
}
