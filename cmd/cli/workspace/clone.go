package workspace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/workcopy/internal/gitrepo"
)

const (
	cloneUseConstant                       = "clone <remote-url>"
	cloneShortDescription                  = "Clone a remote repository beneath a parent directory"
	cloneLongDescription                   = "clone fetches the remote repository into a directory named after it and reports the resulting path."
	cloneDirectoryFlagName                 = "directory"
	cloneDirectoryFlagDescription          = "Parent directory receiving the cloned repository"
	cloneOpenFlagName                      = "open"
	cloneOpenFlagDescription               = "Open the repository after cloning"
	clonePromptCredentialsFlagName         = "prompt-credentials"
	clonePromptCredentialsFlagDescription  = "Prompt for a username and password when the remote requires them"
	cloneDefaultParentDirectoryConstant    = "."
	cloneMissingRemoteErrorMessageConstant = "no remote URL provided"
	cloneSummaryTemplateConstant           = "Cloned %s into %s\n"
	cloneUsernamePromptConstant            = "Username: "
	clonePasswordPromptConstant            = "Password: "
)

// CloneCommandBuilder assembles the clone command.
type CloneCommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	ManagerFactory               ManagerFactory
	HumanReadableLoggingProvider HumanReadableLoggingProvider
}

// Build constructs the clone command.
func (builder *CloneCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   cloneUseConstant,
		Short: cloneShortDescription,
		Long:  cloneLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().String(cloneDirectoryFlagName, cloneDefaultParentDirectoryConstant, cloneDirectoryFlagDescription)
	command.Flags().Bool(cloneOpenFlagName, false, cloneOpenFlagDescription)
	command.Flags().Bool(clonePromptCredentialsFlagName, false, clonePromptCredentialsFlagDescription)

	return command, nil
}

func (builder *CloneCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 || len(strings.TrimSpace(arguments[0])) == 0 {
		_ = command.Help()
		return errors.New(cloneMissingRemoteErrorMessageConstant)
	}
	remoteURL := strings.TrimSpace(arguments[0])
	parentDirectory, _ := command.Flags().GetString(cloneDirectoryFlagName)
	openAfterClone, _ := command.Flags().GetBool(cloneOpenFlagName)
	promptCredentials, _ := command.Flags().GetBool(clonePromptCredentialsFlagName)

	logger := resolveLogger(builder.LoggerProvider)
	configuration := resolveConfiguration(builder.ConfigurationProvider)
	manager, managerError := resolveManager(builder.ManagerFactory, logger, configuration, resolveHumanReadableLogging(builder.HumanReadableLoggingProvider))
	if managerError != nil {
		return managerError
	}

	var credentialPrompter gitrepo.CredentialPrompter
	if promptCredentials {
		credentialPrompter = newIOCredentialPrompter(command.InOrStdin(), command.OutOrStdout())
	}

	clonedPath, cloneError := manager.Clone(command.Context(), remoteURL, parentDirectory, credentialPrompter)
	if cloneError != nil {
		return cloneError
	}

	fmt.Fprintf(command.OutOrStdout(), cloneSummaryTemplateConstant, remoteURL, clonedPath)

	if openAfterClone {
		if _, openError := manager.Open(command.Context(), clonedPath, true); openError != nil {
			return openError
		}
	}
	return nil
}

// ioCredentialPrompter reads credential responses from an input stream. The
// responses are handed to the clone process and never retained.
type ioCredentialPrompter struct {
	reader *bufio.Reader
	output io.Writer
}

func newIOCredentialPrompter(input io.Reader, output io.Writer) *ioCredentialPrompter {
	return &ioCredentialPrompter{reader: bufio.NewReader(input), output: output}
}

// PromptUsername asks for and returns the remote username.
func (prompter *ioCredentialPrompter) PromptUsername() (string, error) {
	return prompter.promptLine(cloneUsernamePromptConstant)
}

// PromptPassword asks for and returns the remote password.
func (prompter *ioCredentialPrompter) PromptPassword() (string, error) {
	return prompter.promptLine(clonePasswordPromptConstant)
}

func (prompter *ioCredentialPrompter) promptLine(promptText string) (string, error) {
	if _, writeError := fmt.Fprint(prompter.output, promptText); writeError != nil {
		return "", writeError
	}
	responseLine, readError := prompter.reader.ReadString('\n')
	if readError != nil && len(responseLine) == 0 {
		return "", readError
	}
	return strings.TrimRight(responseLine, "\r\n"), nil
}
