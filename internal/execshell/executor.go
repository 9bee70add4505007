package execshell

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

const (
	loggerNotConfiguredMessageConstant        = "logger not configured"
	commandRunnerNotConfiguredMessageConstant = "command runner not configured"
)

// CommandName identifies an executable orchestrated by the executor.
type CommandName string

// Supported executables.
const (
	// CommandGit invokes the primary version-control tool.
	CommandGit CommandName = "git"
	// CommandGitLFS invokes the large-file-storage extension binary.
	CommandGitLFS CommandName = "git-lfs"
)

// CommandDetails describes a single process invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand pairs a command name with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outcome of a completed process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner abstracts process execution for testability.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandEventObserver receives notifications as commands start, complete, or
// fail to launch. Observers run synchronously on the executing goroutine.
type CommandEventObserver interface {
	CommandStarted(command ShellCommand)
	CommandCompleted(command ShellCommand, result ExecutionResult)
	CommandExecutionFailed(command ShellCommand, failure error)
}

type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}

// ErrLoggerNotConfigured indicates the executor was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates the executor was constructed without a runner.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)

// CommandFailedError reports a command that completed with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failure including exit code and standard error output.
func (failure CommandFailedError) Error() string {
	formatter := CommandMessageFormatter{}
	return formatter.BuildFailureMessage(failure.Command, failure.Result)
}

// CommandExecutionError reports a command that could not be executed at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	formatter := CommandMessageFormatter{}
	return formatter.BuildExecutionFailureMessage(failure.Command, failure.Cause)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ShellExecutor coordinates process execution with structured logging and event fan-out.
type ShellExecutor struct {
	logger           *zap.Logger
	commandRunner    CommandRunner
	eventObserver    CommandEventObserver
	messageFormatter CommandMessageFormatter
}

// NewShellExecutor constructs a ShellExecutor that discards command events.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner) (*ShellExecutor, error) {
	return NewShellExecutorWithObserver(logger, commandRunner, noopCommandEventObserver{})
}

// NewShellExecutorWithObserver constructs a ShellExecutor delivering command events to the supplied observer.
func NewShellExecutorWithObserver(logger *zap.Logger, commandRunner CommandRunner, eventObserver CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	resolvedObserver := eventObserver
	if resolvedObserver == nil {
		resolvedObserver = noopCommandEventObserver{}
	}
	return &ShellExecutor{
		logger:           logger,
		commandRunner:    commandRunner,
		eventObserver:    resolvedObserver,
		messageFormatter: CommandMessageFormatter{},
	}, nil
}

// ExecuteGit runs the version-control tool with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// ExecuteGitLFS runs the large-file-storage extension with the provided details.
func (executor *ShellExecutor) ExecuteGitLFS(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGitLFS, Details: details})
}

// Execute runs an arbitrary shell command and converts non-zero exits into typed errors.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.logger.Info(executor.messageFormatter.BuildStartedMessage(command))
	executor.eventObserver.CommandStarted(command)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		executionError := CommandExecutionError{Command: command, Cause: runError}
		executor.logger.Error(executor.messageFormatter.BuildExecutionFailureMessage(command, runError))
		executor.eventObserver.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, executionError
	}

	executor.eventObserver.CommandCompleted(command, executionResult)
	if executionResult.ExitCode != 0 {
		executor.logger.Warn(executor.messageFormatter.BuildFailureMessage(command, executionResult))
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Info(executor.messageFormatter.BuildSuccessMessage(command))
	return executionResult, nil
}
