package gitrepo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/workcopy/internal/execshell"
	"github.com/temirov/workcopy/internal/gitrepo"
)

const (
	testRepositoryPathConstant  = "/repos/demo"
	testRemoteURLConstant       = "https://example.com/team/demo.git"
	testCountObjectsOutput      = "count: 42\nsize: 168\nin-pack: 7\npacks: 1\n"
	testBranchListOutput        = "main\nfeature/lfs\n"
	testMissingConfigurationKey = "user.name"
)

type scriptedExecution struct {
	result execshell.ExecutionResult
	err    error
}

type scriptedGitExecutor struct {
	executions       []scriptedExecution
	recordedCommands []execshell.ShellCommand
}

func (executor *scriptedGitExecutor) execute(name execshell.CommandName, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, execshell.ShellCommand{Name: name, Details: details})
	if len(executor.executions) == 0 {
		return execshell.ExecutionResult{}, nil
	}
	nextExecution := executor.executions[0]
	executor.executions = executor.executions[1:]
	return nextExecution.result, nextExecution.err
}

func (executor *scriptedGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return executor.execute(execshell.CommandGit, details)
}

func (executor *scriptedGitExecutor) ExecuteGitLFS(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return executor.execute(execshell.CommandGitLFS, details)
}

type staticCredentialPrompter struct {
	username string
	password string
}

func (prompter staticCredentialPrompter) PromptUsername() (string, error) {
	return prompter.username, nil
}

func (prompter staticCredentialPrompter) PromptPassword() (string, error) {
	return prompter.password, nil
}

func TestNewRepositoryManagerValidatesExecutor(testInstance *testing.T) {
	manager, creationError := gitrepo.NewRepositoryManager(nil)
	require.ErrorIs(testInstance, creationError, gitrepo.ErrGitExecutorNotConfigured)
	require.Nil(testInstance, manager)
}

func TestIsWorkingTree(testInstance *testing.T) {
	testCases := []struct {
		name           string
		execution      scriptedExecution
		expectedResult bool
	}{
		{
			name:           "inside_work_tree",
			execution:      scriptedExecution{result: execshell.ExecutionResult{StandardOutput: "true\n"}},
			expectedResult: true,
		},
		{
			name: "not_a_repository",
			execution: scriptedExecution{err: execshell.CommandFailedError{
				Result: execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: not a git repository"},
			}},
			expectedResult: false,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &scriptedGitExecutor{executions: []scriptedExecution{testCase.execution}}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			isWorkingTree, checkError := manager.IsWorkingTree(context.Background(), testRepositoryPathConstant)
			require.NoError(testInstance, checkError)
			require.Equal(testInstance, testCase.expectedResult, isWorkingTree)
		})
	}
}

func TestGetConfigurationValueTreatsMissingKeyAsEmpty(testInstance *testing.T) {
	executor := &scriptedGitExecutor{executions: []scriptedExecution{
		{err: execshell.CommandFailedError{Result: execshell.ExecutionResult{ExitCode: 1}}},
	}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	configurationValue, readError := manager.GetConfigurationValue(context.Background(), testRepositoryPathConstant, gitrepo.ConfigurationScopeLocal, testMissingConfigurationKey)
	require.NoError(testInstance, readError)
	require.Empty(testInstance, configurationValue)
}

func TestReadSignatureCombinesNameAndEmail(testInstance *testing.T) {
	executor := &scriptedGitExecutor{executions: []scriptedExecution{
		{result: execshell.ExecutionResult{StandardOutput: "Jordan Example\n"}},
		{result: execshell.ExecutionResult{StandardOutput: "jordan@example.com\n"}},
	}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	signature, readError := manager.ReadSignature(context.Background(), testRepositoryPathConstant, gitrepo.ConfigurationScopeLocal)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, gitrepo.Signature{Name: "Jordan Example", Email: "jordan@example.com"}, signature)
	require.True(testInstance, signature.IsComplete())
}

func TestWriteSignatureTargetsGlobalScope(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	writeError := manager.WriteSignature(context.Background(), testRepositoryPathConstant, gitrepo.ConfigurationScopeGlobal, gitrepo.Signature{Name: "Jordan Example", Email: "jordan@example.com"})
	require.NoError(testInstance, writeError)
	require.Len(testInstance, executor.recordedCommands, 2)
	for _, recordedCommand := range executor.recordedCommands {
		require.Contains(testInstance, recordedCommand.Details.Arguments, "--global")
	}
}

func TestCloneRepositoryWithoutPrompterDisablesTerminalPrompts(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	cloneError := manager.CloneRepository(context.Background(), gitrepo.CloneOptions{RemoteURL: testRemoteURLConstant, ParentDirectory: "/tmp"})
	require.NoError(testInstance, cloneError)
	require.Len(testInstance, executor.recordedCommands, 1)
	recordedCommand := executor.recordedCommands[0]
	require.Equal(testInstance, "0", recordedCommand.Details.EnvironmentVariables["GIT_TERMINAL_PROMPT"])
	require.Empty(testInstance, recordedCommand.Details.StandardInput)
}

func TestCloneRepositoryStreamsCredentialResponses(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	cloneError := manager.CloneRepository(context.Background(), gitrepo.CloneOptions{
		RemoteURL:          testRemoteURLConstant,
		ParentDirectory:    "/tmp",
		CredentialPrompter: staticCredentialPrompter{username: "jordan", password: "secret"},
	})
	require.NoError(testInstance, cloneError)
	require.Len(testInstance, executor.recordedCommands, 1)
	require.Equal(testInstance, []byte("jordan\nsecret\n"), executor.recordedCommands[0].Details.StandardInput)
}

func TestCountUnpackedObjectsParsesVerboseOutput(testInstance *testing.T) {
	executor := &scriptedGitExecutor{executions: []scriptedExecution{
		{result: execshell.ExecutionResult{StandardOutput: testCountObjectsOutput}},
	}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	statistics, countError := manager.CountUnpackedObjects(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, countError)
	require.Equal(testInstance, int64(42), statistics.Count)
	require.Equal(testInstance, "168 KiB", statistics.HumanSize)
}

func TestListBranchesSplitsLines(testInstance *testing.T) {
	executor := &scriptedGitExecutor{executions: []scriptedExecution{
		{result: execshell.ExecutionResult{StandardOutput: testBranchListOutput}},
	}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	branchNames, listError := manager.ListBranches(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, listError)
	require.Equal(testInstance, []string{"main", "feature/lfs"}, branchNames)
}
