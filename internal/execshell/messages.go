package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitCloneSubcommandNameConstant        = "clone"
	gitConfigSubcommandNameConstant       = "config"
	gitConfigGetFlagConstant              = "--get"
	gitConfigGlobalFlagConstant           = "--global"
	gitStatusSubcommandNameConstant       = "status"
	gitBranchSubcommandNameConstant       = "branch"
	gitRevParseSubcommandNameConstant     = "rev-parse"
	gitWorkTreeFlagConstant               = "--is-inside-work-tree"
	gitGarbageCollectSubcommandConstant   = "gc"
	gitCountObjectsSubcommandNameConstant = "count-objects"
	lfsInstallSubcommandNameConstant      = "install"
	lfsUninstallSubcommandNameConstant    = "uninstall"
	lfsTrackSubcommandNameConstant        = "track"
	lfsUntrackSubcommandNameConstant      = "untrack"
)

const (
	gitCloneStartTemplateConstant                   = "Cloning %s into %s"
	gitCloneSuccessTemplateConstant                 = "Cloned %s into %s"
	gitCloneFailureTemplateConstant                 = "Failed to clone %s into %s (exit code %d%s)"
	gitCloneExecutionFailureTemplateConstant        = "Unable to clone %s into %s: %s"
	gitConfigReadStartTemplateConstant              = "Reading %s configuration value %s in %s"
	gitConfigReadSuccessTemplateConstant            = "Read %s configuration value %s in %s"
	gitConfigReadFailureTemplateConstant            = "Failed to read %s configuration value %s in %s (exit code %d%s)"
	gitConfigReadExecutionFailureTemplateConstant   = "Unable to read %s configuration value %s in %s: %s"
	gitConfigWriteStartTemplateConstant             = "Setting %s configuration value %s in %s"
	gitConfigWriteSuccessTemplateConstant           = "Set %s configuration value %s in %s"
	gitConfigWriteFailureTemplateConstant           = "Failed to set %s configuration value %s in %s (exit code %d%s)"
	gitConfigWriteExecutionFailureTemplateConstant  = "Unable to set %s configuration value %s in %s: %s"
	gitWorkTreeStartTemplateConstant                = "Analyzing repository at %s"
	gitWorkTreeSuccessTemplateConstant              = "%s is a Git repository"
	gitWorkTreeFailureTemplateConstant              = "Could not confirm %s is a Git repository (exit code %d%s)"
	gitWorkTreeExecutionFailureTemplateConstant     = "Could not analyze %s: %s"
	gitStatusStartTemplateConstant                  = "Reviewing working tree status in %s"
	gitStatusSuccessTemplateConstant                = "Collected working tree status for %s"
	gitStatusFailureTemplateConstant                = "Failed to review working tree status in %s (exit code %d%s)"
	gitStatusExecutionFailureTemplateConstant       = "Unable to review working tree status in %s: %s"
	gitBranchListStartTemplateConstant              = "Listing branches in %s"
	gitBranchListSuccessTemplateConstant            = "Listed branches in %s"
	gitBranchListFailureTemplateConstant            = "Failed to list branches in %s (exit code %d%s)"
	gitBranchListExecutionFailureTemplateConstant   = "Unable to list branches in %s: %s"
	gitGarbageCollectStartTemplateConstant          = "Optimizing repository storage in %s"
	gitGarbageCollectSuccessTemplateConstant        = "Optimized repository storage in %s"
	gitGarbageCollectFailureTemplateConstant        = "Failed to optimize repository storage in %s (exit code %d%s)"
	gitGarbageCollectExecutionFailureTemplate       = "Unable to optimize repository storage in %s: %s"
	gitCountObjectsStartTemplateConstant            = "Counting unpacked objects in %s"
	gitCountObjectsSuccessTemplateConstant          = "Counted unpacked objects in %s"
	gitCountObjectsFailureTemplateConstant          = "Failed to count unpacked objects in %s (exit code %d%s)"
	gitCountObjectsExecutionFailureTemplateConstant = "Unable to count unpacked objects in %s: %s"
	lfsInstallStartTemplateConstant                 = "Installing large-file-storage hooks in %s"
	lfsInstallSuccessTemplateConstant               = "Installed large-file-storage hooks in %s"
	lfsInstallFailureTemplateConstant               = "Failed to install large-file-storage hooks in %s (exit code %d%s)"
	lfsInstallExecutionFailureTemplateConstant      = "Unable to install large-file-storage hooks in %s: %s"
	lfsUninstallStartTemplateConstant               = "Removing large-file-storage hooks in %s"
	lfsUninstallSuccessTemplateConstant             = "Removed large-file-storage hooks in %s"
	lfsUninstallFailureTemplateConstant             = "Failed to remove large-file-storage hooks in %s (exit code %d%s)"
	lfsUninstallExecutionFailureTemplateConstant    = "Unable to remove large-file-storage hooks in %s: %s"
	lfsTrackStartTemplateConstant                   = "Tracking pattern %s with large-file-storage in %s"
	lfsTrackSuccessTemplateConstant                 = "Tracked pattern %s with large-file-storage in %s"
	lfsTrackFailureTemplateConstant                 = "Failed to track pattern %s with large-file-storage in %s (exit code %d%s)"
	lfsTrackExecutionFailureTemplateConstant        = "Unable to track pattern %s with large-file-storage in %s: %s"
	lfsUntrackStartTemplateConstant                 = "Untracking pattern %s from large-file-storage in %s"
	lfsUntrackSuccessTemplateConstant               = "Untracked pattern %s from large-file-storage in %s"
	lfsUntrackFailureTemplateConstant               = "Failed to untrack pattern %s from large-file-storage in %s (exit code %d%s)"
	lfsUntrackExecutionFailureTemplateConstant      = "Unable to untrack pattern %s from large-file-storage in %s: %s"
	globalConfigurationScopeLabelConstant           = "global"
	localConfigurationScopeLabelConstant            = "local"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	case CommandGitLFS:
		return formatter.describeLFSMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case gitCloneSubcommandNameConstant:
		return formatter.describeGitCloneMessage(command, result, failure, stage)
	case gitConfigSubcommandNameConstant:
		return formatter.describeGitConfigMessage(command, result, failure, stage)
	case gitRevParseSubcommandNameConstant:
		return formatter.describeGitRevParseMessage(command, result, failure, stage)
	case gitStatusSubcommandNameConstant:
		return formatter.describeByWorkingDirectory(command, result, failure, stage,
			gitStatusStartTemplateConstant, gitStatusSuccessTemplateConstant,
			gitStatusFailureTemplateConstant, gitStatusExecutionFailureTemplateConstant)
	case gitBranchSubcommandNameConstant:
		return formatter.describeByWorkingDirectory(command, result, failure, stage,
			gitBranchListStartTemplateConstant, gitBranchListSuccessTemplateConstant,
			gitBranchListFailureTemplateConstant, gitBranchListExecutionFailureTemplateConstant)
	case gitGarbageCollectSubcommandConstant:
		return formatter.describeByWorkingDirectory(command, result, failure, stage,
			gitGarbageCollectStartTemplateConstant, gitGarbageCollectSuccessTemplateConstant,
			gitGarbageCollectFailureTemplateConstant, gitGarbageCollectExecutionFailureTemplate)
	case gitCountObjectsSubcommandNameConstant:
		return formatter.describeByWorkingDirectory(command, result, failure, stage,
			gitCountObjectsStartTemplateConstant, gitCountObjectsSuccessTemplateConstant,
			gitCountObjectsFailureTemplateConstant, gitCountObjectsExecutionFailureTemplateConstant)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeLFSMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case lfsInstallSubcommandNameConstant:
		return formatter.describeByWorkingDirectory(command, result, failure, stage,
			lfsInstallStartTemplateConstant, lfsInstallSuccessTemplateConstant,
			lfsInstallFailureTemplateConstant, lfsInstallExecutionFailureTemplateConstant)
	case lfsUninstallSubcommandNameConstant:
		return formatter.describeByWorkingDirectory(command, result, failure, stage,
			lfsUninstallStartTemplateConstant, lfsUninstallSuccessTemplateConstant,
			lfsUninstallFailureTemplateConstant, lfsUninstallExecutionFailureTemplateConstant)
	case lfsTrackSubcommandNameConstant:
		pattern := formatter.ensureValue(formatter.extractFirstNonFlagArgument(command.Details.Arguments[1:]))
		return formatter.describeWithLeadingValue(pattern, workingDirectory, result, failure, stage,
			lfsTrackStartTemplateConstant, lfsTrackSuccessTemplateConstant,
			lfsTrackFailureTemplateConstant, lfsTrackExecutionFailureTemplateConstant)
	case lfsUntrackSubcommandNameConstant:
		pattern := formatter.ensureValue(formatter.extractFirstNonFlagArgument(command.Details.Arguments[1:]))
		return formatter.describeWithLeadingValue(pattern, workingDirectory, result, failure, stage,
			lfsUntrackStartTemplateConstant, lfsUntrackSuccessTemplateConstant,
			lfsUntrackFailureTemplateConstant, lfsUntrackExecutionFailureTemplateConstant)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCloneMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments[1:]
	remoteURL := formatter.ensureValue(formatter.extractFirstNonFlagArgument(arguments))
	destination := formatter.ensureValue(formatter.extractLastNonFlagArgument(arguments, remoteURL))
	return formatter.describeWithLeadingValue(remoteURL, destination, result, failure, stage,
		gitCloneStartTemplateConstant, gitCloneSuccessTemplateConstant,
		gitCloneFailureTemplateConstant, gitCloneExecutionFailureTemplateConstant)
}

func (formatter CommandMessageFormatter) describeGitConfigMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	scopeLabel := localConfigurationScopeLabelConstant
	if containsArgument(arguments, gitConfigGlobalFlagConstant) {
		scopeLabel = globalConfigurationScopeLabelConstant
	}
	configurationKey := formatter.ensureValue(formatter.extractFirstNonFlagArgument(arguments[1:]))
	isRead := containsArgument(arguments, gitConfigGetFlagConstant)

	switch stage {
	case messageStageStart:
		if isRead {
			return fmt.Sprintf(gitConfigReadStartTemplateConstant, scopeLabel, configurationKey, workingDirectory)
		}
		return fmt.Sprintf(gitConfigWriteStartTemplateConstant, scopeLabel, configurationKey, workingDirectory)
	case messageStageSuccess:
		if isRead {
			return fmt.Sprintf(gitConfigReadSuccessTemplateConstant, scopeLabel, configurationKey, workingDirectory)
		}
		return fmt.Sprintf(gitConfigWriteSuccessTemplateConstant, scopeLabel, configurationKey, workingDirectory)
	case messageStageFailure:
		if isRead {
			return fmt.Sprintf(gitConfigReadFailureTemplateConstant, scopeLabel, configurationKey, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		}
		return fmt.Sprintf(gitConfigWriteFailureTemplateConstant, scopeLabel, configurationKey, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		if isRead {
			return fmt.Sprintf(gitConfigReadExecutionFailureTemplateConstant, scopeLabel, configurationKey, workingDirectory, formatter.describeFailure(failure))
		}
		return fmt.Sprintf(gitConfigWriteExecutionFailureTemplateConstant, scopeLabel, configurationKey, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitRevParseMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if !containsArgument(command.Details.Arguments, gitWorkTreeFlagConstant) {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
	return formatter.describeByWorkingDirectory(command, result, failure, stage,
		gitWorkTreeStartTemplateConstant, gitWorkTreeSuccessTemplateConstant,
		gitWorkTreeFailureTemplateConstant, gitWorkTreeExecutionFailureTemplateConstant)
}

func (formatter CommandMessageFormatter) describeByWorkingDirectory(command ShellCommand, result ExecutionResult, failure error, stage messageStage, startTemplate string, successTemplate string, failureTemplate string, executionFailureTemplate string) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(startTemplate, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(successTemplate, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(failureTemplate, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(executionFailureTemplate, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeWithLeadingValue(leadingValue string, trailingValue string, result ExecutionResult, failure error, stage messageStage, startTemplate string, successTemplate string, failureTemplate string, executionFailureTemplate string) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(startTemplate, leadingValue, trailingValue)
	case messageStageSuccess:
		return fmt.Sprintf(successTemplate, leadingValue, trailingValue)
	case messageStageFailure:
		return fmt.Sprintf(failureTemplate, leadingValue, trailingValue, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(executionFailureTemplate, leadingValue, trailingValue, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) extractFirstNonFlagArgument(arguments []string) string {
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, "-") {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) extractLastNonFlagArgument(arguments []string, excludedValue string) string {
	for index := len(arguments) - 1; index >= 0; index-- {
		trimmed := strings.TrimSpace(arguments[index])
		if len(trimmed) == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, "-") {
			continue
		}
		if trimmed == excludedValue {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}
