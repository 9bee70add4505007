package workspace

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/workcopy/internal/gitrepo"
)

const (
	signatureUseConstant              = "signature <repository-path>"
	signatureShortDescription         = "Show or update the commit signature"
	signatureLongDescription          = "signature shows the cached commit signature, or persists a new one globally when --name and --email are provided."
	signatureNameFlagName             = "name"
	signatureNameFlagDescription      = "Commit author name to persist"
	signatureEmailFlagName            = "email"
	signatureEmailFlagDescription     = "Commit author email to persist"
	signatureUpdatedTemplateConstant  = "Commit signature updated: %s <%s>\n"
	signatureCurrentTemplateConstant  = "Commit signature: %s <%s>\n"
	signatureMissingMessageConstant   = "Commit signature: not configured\n"
	signaturePartialFlagsErrorMessage = "both --name and --email are required to update the signature"
)

// SignatureCommandBuilder assembles the signature command.
type SignatureCommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	ManagerFactory               ManagerFactory
	HumanReadableLoggingProvider HumanReadableLoggingProvider
}

// Build constructs the signature command.
func (builder *SignatureCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   signatureUseConstant,
		Short: signatureShortDescription,
		Long:  signatureLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().String(signatureNameFlagName, "", signatureNameFlagDescription)
	command.Flags().String(signatureEmailFlagName, "", signatureEmailFlagDescription)

	return command, nil
}

func (builder *SignatureCommandBuilder) run(command *cobra.Command, arguments []string) error {
	repositoryPath, pathError := requireRepositoryPathArgument(command, arguments)
	if pathError != nil {
		return pathError
	}
	signatureName, _ := command.Flags().GetString(signatureNameFlagName)
	signatureEmail, _ := command.Flags().GetString(signatureEmailFlagName)
	signatureName = strings.TrimSpace(signatureName)
	signatureEmail = strings.TrimSpace(signatureEmail)

	logger := resolveLogger(builder.LoggerProvider)
	configuration := resolveConfiguration(builder.ConfigurationProvider)
	manager, managerError := resolveManager(builder.ManagerFactory, logger, configuration, resolveHumanReadableLogging(builder.HumanReadableLoggingProvider))
	if managerError != nil {
		return managerError
	}

	if _, openError := manager.Open(command.Context(), repositoryPath, false); openError != nil {
		return openError
	}

	if len(signatureName) == 0 && len(signatureEmail) == 0 {
		cachedSignature := manager.CachedSignature()
		if cachedSignature.IsComplete() {
			fmt.Fprintf(command.OutOrStdout(), signatureCurrentTemplateConstant, cachedSignature.Name, cachedSignature.Email)
		} else {
			fmt.Fprint(command.OutOrStdout(), signatureMissingMessageConstant)
		}
		return nil
	}

	if len(signatureName) == 0 || len(signatureEmail) == 0 {
		return errors.New(signaturePartialFlagsErrorMessage)
	}

	updatedSignature := gitrepo.Signature{Name: signatureName, Email: signatureEmail}
	if updateError := manager.UpdateSignature(command.Context(), updatedSignature); updateError != nil {
		return updateError
	}
	fmt.Fprintf(command.OutOrStdout(), signatureUpdatedTemplateConstant, updatedSignature.Name, updatedSignature.Email)
	return nil
}
