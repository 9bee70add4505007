package ui

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/workcopy/internal/execshell"
)

const (
	commandStartedMessageTemplateConstant          = "Running %s"
	commandCompletedMessageTemplateConstant        = "Completed %s"
	commandFailedExitCodeMessageTemplateConstant   = "%s failed with exit code %d"
	commandExecutionFailureMessageTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant         = " (in %s)"
	standardErrorSuffixTemplateConstant            = ": %s"
	commandArgumentsJoinSeparatorConstant          = " "
	unknownFailureMessageConstant                  = "unknown error"
)

// ConsoleCommandEventLogger renders command lifecycle events using a zap logger configured for human-readable output.
type ConsoleCommandEventLogger struct {
	logger *zap.Logger
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger}
}

// CommandStarted implements execshell.CommandEventObserver by logging command start notifications.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(fmt.Sprintf(commandStartedMessageTemplateConstant, formatCommandLabel(command)))
}

// CommandCompleted implements execshell.CommandEventObserver by logging command completion notifications.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		eventLogger.logger.Info(fmt.Sprintf(commandCompletedMessageTemplateConstant, formatCommandLabel(command)))
		return
	}
	failureMessage := fmt.Sprintf(commandFailedExitCodeMessageTemplateConstant, formatCommandLabel(command), result.ExitCode)
	trimmedStandardError := strings.TrimSpace(result.StandardError)
	if len(trimmedStandardError) > 0 {
		failureMessage += fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
	}
	eventLogger.logger.Warn(failureMessage)
}

// CommandExecutionFailed implements execshell.CommandEventObserver by logging unexpected execution failures.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	eventLogger.logger.Error(fmt.Sprintf(commandExecutionFailureMessageTemplateConstant, formatCommandLabel(command), failureMessage))
}

func formatCommandLabel(command execshell.ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) > 0 {
		commandLabel += fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
	}
	return commandLabel
}
