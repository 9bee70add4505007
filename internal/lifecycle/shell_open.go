package lifecycle

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"

	"github.com/temirov/workcopy/internal/execshell"
)

const (
	shellCommandExecutorNotConfiguredMessageConstant = "shell command executor not configured"

	defaultHistoryToolNameConstant = "gitk"

	darwinPlatformNameConstant  = "darwin"
	linuxPlatformNameConstant   = "linux"
	windowsPlatformNameConstant = "windows"

	darwinOpenerNameConstant  = "open"
	linuxOpenerNameConstant   = "xdg-open"
	windowsOpenerNameConstant = "explorer"

	darwinRevealFlagConstant  = "-R"
	windowsSelectFlagConstant = "/select,"

	historyToolFailureLogMessageConstant        = "History tool exited with an error"
	platformOpenerUnavailableLogMessageConstant = "No file opener is available on this platform"
	fileOpenFailureLogMessageConstant           = "Unable to open file with the platform opener"
)

// ErrShellCommandExecutorNotConfigured reports a platform open operation
// without a configured shell command executor.
var ErrShellCommandExecutorNotConfigured = errors.New(shellCommandExecutorNotConfiguredMessageConstant)

// OpenHistoryTool launches the configured history tool in the open repository,
// waits for it to exit, and refreshes the repository afterwards.
func (manager *Manager) OpenHistoryTool(executionContext context.Context) error {
	if manager.repositoryPath == "" {
		return ErrNoRepositoryOpen
	}
	if manager.shellCommandExecutor == nil {
		return ErrShellCommandExecutorNotConfigured
	}
	historyToolName := manager.configuration.HistoryToolName
	if historyToolName == "" {
		historyToolName = defaultHistoryToolNameConstant
	}
	historyCommand := execshell.ShellCommand{
		Name: execshell.CommandName(historyToolName),
		Details: execshell.CommandDetails{
			WorkingDirectory: manager.repositoryPath,
		},
	}
	if _, executionError := manager.shellCommandExecutor.Execute(executionContext, historyCommand); executionError != nil {
		manager.logger.Warn(historyToolFailureLogMessageConstant, zap.String(toolNameFieldNameConstant, historyToolName), zap.Error(executionError))
	}
	<-manager.Refresh(executionContext, false)
	return nil
}

// OpenFile opens filePath with the platform file opener. An unsupported
// platform logs a warning and reports false.
func (manager *Manager) OpenFile(executionContext context.Context, filePath string) bool {
	openerName, openerArguments := manager.platformOpenCommand(filePath)
	if openerName == "" {
		return false
	}
	return manager.runOpener(executionContext, openerName, openerArguments, filePath)
}

// OpenFileLocation reveals filePath in the platform file browser. An
// unsupported platform logs a warning and reports false.
func (manager *Manager) OpenFileLocation(executionContext context.Context, filePath string) bool {
	openerName, openerArguments := manager.platformRevealCommand(filePath)
	if openerName == "" {
		return false
	}
	return manager.runOpener(executionContext, openerName, openerArguments, filePath)
}

func (manager *Manager) platformOpenCommand(filePath string) (string, []string) {
	if manager.configuration.FileOpenerName != "" {
		return manager.configuration.FileOpenerName, []string{filePath}
	}
	switch runtime.GOOS {
	case darwinPlatformNameConstant:
		return darwinOpenerNameConstant, []string{filePath}
	case linuxPlatformNameConstant:
		return linuxOpenerNameConstant, []string{filePath}
	case windowsPlatformNameConstant:
		return windowsOpenerNameConstant, []string{filePath}
	default:
		manager.logger.Warn(platformOpenerUnavailableLogMessageConstant, zap.String(platformFieldNameConstant, runtime.GOOS))
		return "", nil
	}
}

func (manager *Manager) platformRevealCommand(filePath string) (string, []string) {
	if manager.configuration.FileOpenerName != "" {
		return manager.configuration.FileOpenerName, []string{filepath.Dir(filePath)}
	}
	switch runtime.GOOS {
	case darwinPlatformNameConstant:
		return darwinOpenerNameConstant, []string{darwinRevealFlagConstant, filePath}
	case linuxPlatformNameConstant:
		return linuxOpenerNameConstant, []string{filepath.Dir(filePath)}
	case windowsPlatformNameConstant:
		return windowsOpenerNameConstant, []string{windowsSelectFlagConstant + filePath}
	default:
		manager.logger.Warn(platformOpenerUnavailableLogMessageConstant, zap.String(platformFieldNameConstant, runtime.GOOS))
		return "", nil
	}
}

func (manager *Manager) runOpener(executionContext context.Context, openerName string, openerArguments []string, filePath string) bool {
	if manager.shellCommandExecutor == nil {
		manager.logger.Warn(fileOpenFailureLogMessageConstant, zap.String(filePathFieldNameConstant, filePath), zap.Error(ErrShellCommandExecutorNotConfigured))
		return false
	}
	openCommand := execshell.ShellCommand{
		Name: execshell.CommandName(openerName),
		Details: execshell.CommandDetails{
			Arguments: openerArguments,
		},
	}
	if _, executionError := manager.shellCommandExecutor.Execute(executionContext, openCommand); executionError != nil {
		manager.logger.Warn(fileOpenFailureLogMessageConstant, zap.String(filePathFieldNameConstant, filePath), zap.Error(executionError))
		return false
	}
	return true
}
