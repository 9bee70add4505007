package lifecycle

import (
	"context"

	"go.uber.org/zap"
)

const (
	lfsStepHookInstallationConstant   = "hook installation"
	lfsStepAttributeProvisionConstant = "attribute provisioning"
	lfsStepPatternTrackingConstant    = "pattern tracking"
	lfsStepPatternDiscoveryConstant   = "pattern discovery"
	lfsStepPatternUntrackingConstant  = "pattern untracking"
	lfsStepHookRemovalConstant        = "hook removal"
	lfsStepStorageRemovalConstant     = "storage removal"

	lfsAlreadyEnabledLogMessageConstant     = "Large-file-storage support is already enabled"
	lfsAlreadyDisabledLogMessageConstant    = "Large-file-storage support is already disabled"
	lfsRewriteUnsupportedLogMessageConstant = "History rewrite during large-file-storage removal is not supported; continuing without it"
)

// AddLfsSupport enables large-file-storage support for the open repository.
// When includeDefaultPatterns is true the configured default glob patterns are
// registered for tracking. Enabling an already enabled repository is a warning
// no-op. A FatalLfsError leaves the repository in an undefined state; callers
// should stop using the handle.
func (manager *Manager) AddLfsSupport(executionContext context.Context, includeDefaultPatterns bool) (bool, error) {
	if manager.repositoryPath == "" {
		return false, ErrNoRepositoryOpen
	}
	if manager.lfsEnabled {
		manager.logger.Warn(lfsAlreadyEnabledLogMessageConstant, zap.String(repositoryPathFieldNameConstant, manager.repositoryPath))
		return false, nil
	}
	repositoryPath := manager.repositoryPath
	if !manager.probe.HasLfsDirectory(repositoryPath) {
		if installError := manager.adapter.InstallLfsHooks(executionContext, repositoryPath); installError != nil {
			return false, FatalLfsError{Step: lfsStepHookInstallationConstant, Cause: installError}
		}
		if !manager.probe.HasLfsDirectory(repositoryPath) {
			return false, FatalLfsError{Step: lfsStepHookInstallationConstant}
		}
	}
	if _, ensureError := manager.probe.EnsureAttributesFile(repositoryPath); ensureError != nil {
		return false, FatalLfsError{Step: lfsStepAttributeProvisionConstant, Cause: ensureError}
	}
	if includeDefaultPatterns {
		for _, trackingPattern := range manager.configuration.DefaultTrackingPatterns {
			if trackError := manager.adapter.TrackPattern(executionContext, repositoryPath, trackingPattern); trackError != nil {
				return false, FatalLfsError{Step: lfsStepPatternTrackingConstant, Cause: trackError}
			}
		}
	}
	manager.lfsEnabled = true
	return true, nil
}

// RemoveLfsSupport disables large-file-storage support for the open
// repository: tracked patterns are untracked, hooks are uninstalled, and the
// storage directory is removed. The rewriteHistory flag is reserved; passing
// true logs a warning and the removal proceeds without rewriting history.
// Disabling an already disabled repository is a warning no-op.
func (manager *Manager) RemoveLfsSupport(executionContext context.Context, rewriteHistory bool) (bool, error) {
	if manager.repositoryPath == "" {
		return false, ErrNoRepositoryOpen
	}
	if !manager.lfsEnabled {
		manager.logger.Warn(lfsAlreadyDisabledLogMessageConstant, zap.String(repositoryPathFieldNameConstant, manager.repositoryPath))
		return false, nil
	}
	if rewriteHistory {
		manager.logger.Warn(lfsRewriteUnsupportedLogMessageConstant, zap.String(repositoryPathFieldNameConstant, manager.repositoryPath))
	}
	repositoryPath := manager.repositoryPath
	trackedPatterns, patternsError := manager.probe.LfsTrackedPatterns(repositoryPath)
	if patternsError != nil {
		return false, FatalLfsError{Step: lfsStepPatternDiscoveryConstant, Cause: patternsError}
	}
	for _, trackedPattern := range trackedPatterns {
		if untrackError := manager.adapter.UntrackPattern(executionContext, repositoryPath, trackedPattern); untrackError != nil {
			return false, FatalLfsError{Step: lfsStepPatternUntrackingConstant, Cause: untrackError}
		}
	}
	if uninstallError := manager.adapter.UninstallLfsHooks(executionContext, repositoryPath); uninstallError != nil {
		return false, FatalLfsError{Step: lfsStepHookRemovalConstant, Cause: uninstallError}
	}
	if hookRemovalError := manager.probe.RemovePrePushHook(repositoryPath); hookRemovalError != nil {
		return false, FatalLfsError{Step: lfsStepHookRemovalConstant, Cause: hookRemovalError}
	}
	if storageRemovalError := manager.probe.RemoveLfsDirectory(repositoryPath); storageRemovalError != nil {
		return false, FatalLfsError{Step: lfsStepStorageRemovalConstant, Cause: storageRemovalError}
	}
	manager.lfsEnabled = false
	return true, nil
}

// IsLfsRepo inspects the open repository's marker files and reports whether
// large-file-storage support is active. In repair mode only the attributes
// file is consulted, which tolerates repositories whose hooks were lost.
// Outside repair mode a pre-push hook that exists without the expected marker
// resets the cached flag to false.
func (manager *Manager) IsLfsRepo(repairMode bool) bool {
	return manager.detectLfsState(manager.repositoryPath, repairMode)
}

func (manager *Manager) detectLfsState(repositoryPath string, repairMode bool) bool {
	if repositoryPath == "" {
		return false
	}
	if repairMode {
		if !manager.probe.HasAttributesFile(repositoryPath) {
			return false
		}
		declaresFilter, probeError := manager.probe.AttributesDeclaresLfsFilter(repositoryPath)
		if probeError != nil {
			manager.logger.Warn(markerProbeFailureLogMessageConstant, zap.String(repositoryPathFieldNameConstant, repositoryPath), zap.Error(probeError))
			return false
		}
		return declaresFilter
	}
	if !manager.probe.HasAttributesFile(repositoryPath) || !manager.probe.HasLfsDirectory(repositoryPath) {
		return false
	}
	if !manager.probe.HasPrePushHook(repositoryPath) {
		return false
	}
	containsMarker, probeError := manager.probe.PrePushHookContainsLfsMarker(repositoryPath)
	if probeError != nil {
		manager.logger.Warn(markerProbeFailureLogMessageConstant, zap.String(repositoryPathFieldNameConstant, repositoryPath), zap.Error(probeError))
		return false
	}
	if !containsMarker {
		manager.lfsEnabled = false
		return false
	}
	return true
}
