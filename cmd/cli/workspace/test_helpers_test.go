package workspace

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/workcopy/internal/gitrepo"
	"github.com/temirov/workcopy/internal/lifecycle"
)

type commandStubAdapter struct {
	probe           *commandStubProbe
	workingTree     bool
	signature       gitrepo.Signature
	cloneError      error
	unpackedObjects gitrepo.UnpackedObjects

	clonedRemoteURLs  []string
	trackedPatterns   []string
	untrackedPatterns []string
}

func (adapter *commandStubAdapter) IsWorkingTree(context.Context, string) (bool, error) {
	return adapter.workingTree, nil
}

func (adapter *commandStubAdapter) CloneRepository(_ context.Context, options gitrepo.CloneOptions) error {
	if adapter.cloneError != nil {
		return adapter.cloneError
	}
	adapter.clonedRemoteURLs = append(adapter.clonedRemoteURLs, options.RemoteURL)
	return nil
}

func (adapter *commandStubAdapter) ReadSignature(context.Context, string, gitrepo.ConfigurationScope) (gitrepo.Signature, error) {
	return adapter.signature, nil
}

func (adapter *commandStubAdapter) WriteSignature(_ context.Context, _ string, _ gitrepo.ConfigurationScope, signature gitrepo.Signature) error {
	adapter.signature = signature
	return nil
}

func (adapter *commandStubAdapter) InstallLfsHooks(context.Context, string) error {
	if adapter.probe != nil {
		adapter.probe.lfsDirectoryPresent = true
	}
	return nil
}

func (adapter *commandStubAdapter) UninstallLfsHooks(context.Context, string) error {
	return nil
}

func (adapter *commandStubAdapter) TrackPattern(_ context.Context, _ string, pattern string) error {
	adapter.trackedPatterns = append(adapter.trackedPatterns, pattern)
	return nil
}

func (adapter *commandStubAdapter) UntrackPattern(_ context.Context, _ string, pattern string) error {
	adapter.untrackedPatterns = append(adapter.untrackedPatterns, pattern)
	return nil
}

func (adapter *commandStubAdapter) GarbageCollect(context.Context, string) error {
	return nil
}

func (adapter *commandStubAdapter) CountUnpackedObjects(context.Context, string) (gitrepo.UnpackedObjects, error) {
	return adapter.unpackedObjects, nil
}

type commandStubProbe struct {
	attributesPresent       bool
	lfsDirectoryPresent     bool
	hookPresent             bool
	hookContainsMarker      bool
	attributesDeclareFilter bool
	trackedPatterns         []string
}

func (probe *commandStubProbe) HasAttributesFile(string) bool {
	return probe.attributesPresent
}

func (probe *commandStubProbe) HasPrePushHook(string) bool {
	return probe.hookPresent
}

func (probe *commandStubProbe) HasLfsDirectory(string) bool {
	return probe.lfsDirectoryPresent
}

func (probe *commandStubProbe) EnsureIgnoreFile(string) (bool, error) {
	return false, nil
}

func (probe *commandStubProbe) EnsureAttributesFile(string) (bool, error) {
	created := !probe.attributesPresent
	probe.attributesPresent = true
	return created, nil
}

func (probe *commandStubProbe) PrePushHookContainsLfsMarker(string) (bool, error) {
	return probe.hookContainsMarker, nil
}

func (probe *commandStubProbe) AttributesDeclaresLfsFilter(string) (bool, error) {
	return probe.attributesDeclareFilter, nil
}

func (probe *commandStubProbe) LfsTrackedPatterns(string) ([]string, error) {
	return probe.trackedPatterns, nil
}

func (probe *commandStubProbe) RemovePrePushHook(string) error {
	return nil
}

func (probe *commandStubProbe) RemoveLfsDirectory(string) error {
	return nil
}

type commandFixture struct {
	adapter        *commandStubAdapter
	probe          *commandStubProbe
	managerFactory ManagerFactory
}

func newCommandFixture(testInstance *testing.T) *commandFixture {
	testInstance.Helper()
	probe := &commandStubProbe{}
	adapter := &commandStubAdapter{probe: probe, workingTree: true}
	managerFactory := func(logger *zap.Logger, configuration Configuration) (*lifecycle.Manager, error) {
		return lifecycle.NewManager(
			lifecycle.Dependencies{
				Logger:  logger,
				Adapter: adapter,
				Probe:   probe,
			},
			lifecycle.Configuration{
				MergeToolName:           configuration.MergeTool,
				DefaultTrackingPatterns: configuration.LfsPatterns,
				HistoryToolName:         configuration.HistoryTool,
			},
		)
	}
	return &commandFixture{adapter: adapter, probe: probe, managerFactory: managerFactory}
}

func executeCommand(testInstance *testing.T, command *cobra.Command, arguments ...string) (string, error) {
	testInstance.Helper()
	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetArgs(arguments)
	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func requireNoExecutionError(testInstance *testing.T, executionError error) {
	testInstance.Helper()
	require.NoError(testInstance, executionError)
}
