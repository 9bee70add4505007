package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/workcopy/internal/execshell"
)

const (
	gitExecutorMissingMessageConstant           = "git executor not configured"
	remoteURLRequiredMessageConstant            = "remote url must be provided"
	repositoryPathRequiredMessageConstant       = "repository path must be provided"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	gitCloneSubcommandConstant                  = "clone"
	gitConfigSubcommandConstant                 = "config"
	gitConfigGetFlagConstant                    = "--get"
	gitConfigGlobalFlagConstant                 = "--global"
	gitRevParseSubcommandConstant               = "rev-parse"
	gitWorkTreeFlagConstant                     = "--is-inside-work-tree"
	gitStatusSubcommandConstant                 = "status"
	gitStatusPorcelainFlagConstant              = "--porcelain"
	gitBranchSubcommandConstant                 = "branch"
	gitBranchListFlagConstant                   = "--list"
	gitBranchFormatFlagConstant                 = "--format=%(refname:short)"
	gitGarbageCollectSubcommandConstant         = "gc"
	gitCountObjectsSubcommandConstant           = "count-objects"
	gitCountObjectsVerboseFlagConstant          = "-v"
	lfsInstallSubcommandConstant                = "install"
	lfsInstallLocalFlagConstant                 = "--local"
	lfsUninstallSubcommandConstant              = "uninstall"
	lfsTrackSubcommandConstant                  = "track"
	lfsUntrackSubcommandConstant                = "untrack"
	userNameConfigurationKeyConstant            = "user.name"
	userEmailConfigurationKeyConstant           = "user.email"
	countObjectsCountFieldConstant              = "count"
	countObjectsSizeFieldConstant               = "size"
	countObjectsFieldSeparatorConstant          = ":"
	countObjectsSizeUnitConstant                = "KiB"
	workTreeConfirmationOutputConstant          = "true"
	missingConfigurationValueExitCodeConstant   = 1
	credentialResponseSeparatorConstant         = "\n"
)

// ErrGitExecutorNotConfigured indicates the repository manager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrRemoteURLRequired indicates a clone was requested without a remote URL.
var ErrRemoteURLRequired = errors.New(remoteURLRequiredMessageConstant)

// ErrRepositoryPathRequired indicates an operation was requested without a repository path.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// GitExecutor exposes the subset of shell execution used by the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteGitLFS(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ConfigurationScope selects which configuration store a read or write targets.
type ConfigurationScope string

// Supported configuration scopes.
const (
	ConfigurationScopeLocal  ConfigurationScope = "local"
	ConfigurationScopeGlobal ConfigurationScope = "global"
)

// Signature carries the author identity used for committing.
type Signature struct {
	Name  string
	Email string
}

// IsComplete reports whether both identity fields are populated.
func (signature Signature) IsComplete() bool {
	return len(strings.TrimSpace(signature.Name)) > 0 && len(strings.TrimSpace(signature.Email)) > 0
}

// UnpackedObjects reports loose object statistics for a repository.
type UnpackedObjects struct {
	Count     int64
	HumanSize string
}

// CredentialPrompter supplies credential responses when the external tool prompts interactively.
type CredentialPrompter interface {
	PromptUsername() (string, error)
	PromptPassword() (string, error)
}

// CloneOptions configures a repository clone.
type CloneOptions struct {
	RemoteURL          string
	ParentDirectory    string
	CredentialPrompter CredentialPrompter
}

// RepositoryManager issues version-control commands against a working copy.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager around the provided executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// IsWorkingTree reports whether the path belongs to a git working tree.
func (manager *RepositoryManager) IsWorkingTree(executionContext context.Context, repositoryPath string) (bool, error) {
	if len(strings.TrimSpace(repositoryPath)) == 0 {
		return false, ErrRepositoryPathRequired
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitWorkTreeFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		failedCommand := execshell.CommandFailedError{}
		if errors.As(executionError, &failedCommand) {
			return false, nil
		}
		return false, executionError
	}

	return strings.TrimSpace(executionResult.StandardOutput) == workTreeConfirmationOutputConstant, nil
}

// CloneRepository clones the remote URL underneath the parent directory.
//
// Credential responses are streamed to the child process only when a prompter
// is supplied; the manager never parses or retains the values. Without a
// prompter, terminal prompts are disabled so the external tool fails fast
// instead of hanging.
func (manager *RepositoryManager) CloneRepository(executionContext context.Context, options CloneOptions) error {
	trimmedRemoteURL := strings.TrimSpace(options.RemoteURL)
	if len(trimmedRemoteURL) == 0 {
		return ErrRemoteURLRequired
	}

	commandDetails := execshell.CommandDetails{
		Arguments:        []string{gitCloneSubcommandConstant, trimmedRemoteURL},
		WorkingDirectory: options.ParentDirectory,
	}

	if options.CredentialPrompter != nil {
		credentialInput, promptError := collectCredentialResponses(options.CredentialPrompter)
		if promptError != nil {
			return promptError
		}
		commandDetails.StandardInput = credentialInput
	} else {
		commandDetails.EnvironmentVariables = map[string]string{
			gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant,
		}
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, commandDetails)
	return executionError
}

// GetConfigurationValue reads a configuration key within the requested scope.
//
// A missing key is reported as an empty value, not an error.
func (manager *RepositoryManager) GetConfigurationValue(executionContext context.Context, repositoryPath string, scope ConfigurationScope, configurationKey string) (string, error) {
	commandArguments := []string{gitConfigSubcommandConstant}
	if scope == ConfigurationScopeGlobal {
		commandArguments = append(commandArguments, gitConfigGlobalFlagConstant)
	}
	commandArguments = append(commandArguments, gitConfigGetFlagConstant, configurationKey)

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        commandArguments,
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		failedCommand := execshell.CommandFailedError{}
		if errors.As(executionError, &failedCommand) && failedCommand.Result.ExitCode == missingConfigurationValueExitCodeConstant {
			return "", nil
		}
		return "", executionError
	}

	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// SetConfigurationValue writes a configuration key within the requested scope.
func (manager *RepositoryManager) SetConfigurationValue(executionContext context.Context, repositoryPath string, scope ConfigurationScope, configurationKey string, configurationValue string) error {
	commandArguments := []string{gitConfigSubcommandConstant}
	if scope == ConfigurationScopeGlobal {
		commandArguments = append(commandArguments, gitConfigGlobalFlagConstant)
	}
	commandArguments = append(commandArguments, configurationKey, configurationValue)

	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        commandArguments,
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// ReadSignature reads the author identity from the requested configuration scope.
func (manager *RepositoryManager) ReadSignature(executionContext context.Context, repositoryPath string, scope ConfigurationScope) (Signature, error) {
	signatureName, nameError := manager.GetConfigurationValue(executionContext, repositoryPath, scope, userNameConfigurationKeyConstant)
	if nameError != nil {
		return Signature{}, nameError
	}
	signatureEmail, emailError := manager.GetConfigurationValue(executionContext, repositoryPath, scope, userEmailConfigurationKeyConstant)
	if emailError != nil {
		return Signature{}, emailError
	}
	return Signature{Name: signatureName, Email: signatureEmail}, nil
}

// WriteSignature stores the author identity in the requested configuration scope.
func (manager *RepositoryManager) WriteSignature(executionContext context.Context, repositoryPath string, scope ConfigurationScope, signature Signature) error {
	if nameError := manager.SetConfigurationValue(executionContext, repositoryPath, scope, userNameConfigurationKeyConstant, signature.Name); nameError != nil {
		return nameError
	}
	return manager.SetConfigurationValue(executionContext, repositoryPath, scope, userEmailConfigurationKeyConstant, signature.Email)
}

// InstallLfsHooks installs the large-file-storage hooks into the repository.
func (manager *RepositoryManager) InstallLfsHooks(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.executor.ExecuteGitLFS(executionContext, execshell.CommandDetails{
		Arguments:        []string{lfsInstallSubcommandConstant, lfsInstallLocalFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// UninstallLfsHooks removes the large-file-storage hooks from the repository.
func (manager *RepositoryManager) UninstallLfsHooks(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.executor.ExecuteGitLFS(executionContext, execshell.CommandDetails{
		Arguments:        []string{lfsUninstallSubcommandConstant},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// TrackPattern registers a glob pattern with the large-file-storage tracker.
func (manager *RepositoryManager) TrackPattern(executionContext context.Context, repositoryPath string, pattern string) error {
	_, executionError := manager.executor.ExecuteGitLFS(executionContext, execshell.CommandDetails{
		Arguments:        []string{lfsTrackSubcommandConstant, pattern},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// UntrackPattern removes a glob pattern from the large-file-storage tracker.
func (manager *RepositoryManager) UntrackPattern(executionContext context.Context, repositoryPath string, pattern string) error {
	_, executionError := manager.executor.ExecuteGitLFS(executionContext, execshell.CommandDetails{
		Arguments:        []string{lfsUntrackSubcommandConstant, pattern},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// GarbageCollect compacts repository storage.
func (manager *RepositoryManager) GarbageCollect(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitGarbageCollectSubcommandConstant},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// CountUnpackedObjects reports loose object statistics for the repository.
func (manager *RepositoryManager) CountUnpackedObjects(executionContext context.Context, repositoryPath string) (UnpackedObjects, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCountObjectsSubcommandConstant, gitCountObjectsVerboseFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return UnpackedObjects{}, executionError
	}
	return parseUnpackedObjects(executionResult.StandardOutput), nil
}

// ListBranches returns the short names of local branches.
func (manager *RepositoryManager) ListBranches(executionContext context.Context, repositoryPath string) ([]string, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitBranchSubcommandConstant, gitBranchListFlagConstant, gitBranchFormatFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return nil, executionError
	}
	return splitNonEmptyLines(executionResult.StandardOutput), nil
}

// ListWorktreeChanges returns the porcelain status lines for the working tree.
func (manager *RepositoryManager) ListWorktreeChanges(executionContext context.Context, repositoryPath string) ([]string, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitStatusSubcommandConstant, gitStatusPorcelainFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return nil, executionError
	}
	return splitNonEmptyLines(executionResult.StandardOutput), nil
}

func collectCredentialResponses(prompter CredentialPrompter) ([]byte, error) {
	usernameResponse, usernameError := prompter.PromptUsername()
	if usernameError != nil {
		return nil, usernameError
	}
	passwordResponse, passwordError := prompter.PromptPassword()
	if passwordError != nil {
		return nil, passwordError
	}
	combinedResponses := usernameResponse + credentialResponseSeparatorConstant + passwordResponse + credentialResponseSeparatorConstant
	return []byte(combinedResponses), nil
}

func parseUnpackedObjects(commandOutput string) UnpackedObjects {
	statistics := UnpackedObjects{}
	for _, outputLine := range splitNonEmptyLines(commandOutput) {
		fieldName, fieldValue, separatorFound := strings.Cut(outputLine, countObjectsFieldSeparatorConstant)
		if !separatorFound {
			continue
		}
		trimmedValue := strings.TrimSpace(fieldValue)
		switch strings.TrimSpace(fieldName) {
		case countObjectsCountFieldConstant:
			parsedCount, parseError := strconv.ParseInt(trimmedValue, 10, 64)
			if parseError == nil {
				statistics.Count = parsedCount
			}
		case countObjectsSizeFieldConstant:
			statistics.HumanSize = fmt.Sprintf("%s %s", trimmedValue, countObjectsSizeUnitConstant)
		}
	}
	return statistics
}

func splitNonEmptyLines(commandOutput string) []string {
	var nonEmptyLines []string
	for _, outputLine := range strings.Split(commandOutput, "\n") {
		trimmedLine := strings.TrimSpace(outputLine)
		if len(trimmedLine) == 0 {
			continue
		}
		nonEmptyLines = append(nonEmptyLines, trimmedLine)
	}
	return nonEmptyLines
}
