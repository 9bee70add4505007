package lifecycle

import (
	"errors"
	"fmt"
)

const (
	versionControlAdapterNotConfiguredMessageConstant = "version control adapter not configured"
	markerProbeNotConfiguredMessageConstant           = "marker probe not configured"
	noRepositoryOpenMessageConstant                   = "no repository is open"
	mergeToolNotInstalledMessageTemplateConstant      = "required merge tool %q is not installed"
	openFailureMessageTemplateConstant                = "unable to open repository at %s: %v"
	cloneFailureMessageTemplateConstant               = "unable to clone %s: %v"
	signatureFailureMessageTemplateConstant           = "unable to persist commit signature: %v"
	fatalLfsFailureMessageTemplateConstant            = "large-file-storage %s failed"
)

// ErrVersionControlAdapterNotConfigured reports a missing version control adapter dependency.
var ErrVersionControlAdapterNotConfigured = errors.New(versionControlAdapterNotConfiguredMessageConstant)

// ErrMarkerProbeNotConfigured reports a missing marker probe dependency.
var ErrMarkerProbeNotConfigured = errors.New(markerProbeNotConfiguredMessageConstant)

// ErrNoRepositoryOpen reports an operation that requires an open repository handle.
var ErrNoRepositoryOpen = errors.New(noRepositoryOpenMessageConstant)

// MergeToolNotInstalledError reports that the configured merge tool could not be located.
type MergeToolNotInstalledError struct {
	ToolName string
}

// Error describes the missing merge tool.
func (installError MergeToolNotInstalledError) Error() string {
	return fmt.Sprintf(mergeToolNotInstalledMessageTemplateConstant, installError.ToolName)
}

// OpenError reports a failed attempt to open a repository handle.
type OpenError struct {
	RepositoryPath string
	Cause          error
}

// Error describes the open failure.
func (openError OpenError) Error() string {
	return fmt.Sprintf(openFailureMessageTemplateConstant, openError.RepositoryPath, openError.Cause)
}

// Unwrap exposes the underlying cause.
func (openError OpenError) Unwrap() error {
	return openError.Cause
}

// CloneError reports a failed repository clone.
type CloneError struct {
	RemoteURL string
	Cause     error
}

// Error describes the clone failure.
func (cloneError CloneError) Error() string {
	return fmt.Sprintf(cloneFailureMessageTemplateConstant, cloneError.RemoteURL, cloneError.Cause)
}

// Unwrap exposes the underlying cause.
func (cloneError CloneError) Unwrap() error {
	return cloneError.Cause
}

// SignatureError reports a failed commit signature update.
type SignatureError struct {
	Cause error
}

// Error describes the signature failure.
func (signatureError SignatureError) Error() string {
	return fmt.Sprintf(signatureFailureMessageTemplateConstant, signatureError.Cause)
}

// Unwrap exposes the underlying cause.
func (signatureError SignatureError) Unwrap() error {
	return signatureError.Cause
}

// FatalLfsError reports an unrecoverable large-file-storage transition failure.
// The repository may be left in an inconsistent state and should not be used further.
type FatalLfsError struct {
	Step  string
	Cause error
}

// Error describes the failed transition step.
func (fatalError FatalLfsError) Error() string {
	message := fmt.Sprintf(fatalLfsFailureMessageTemplateConstant, fatalError.Step)
	if fatalError.Cause != nil {
		message = fmt.Sprintf("%s: %v", message, fatalError.Cause)
	}
	return message
}

// Unwrap exposes the underlying cause when one exists.
func (fatalError FatalLfsError) Unwrap() error {
	return fatalError.Cause
}
