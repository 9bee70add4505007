package workspace

import "strings"

const (
	configurationMergeToolKeyConstant    = "merge_tool"
	configurationHistoryToolKeyConstant  = "history_tool"
	configurationHistoryFileKeyConstant  = "history_file"
	configurationHistoryLimitKeyConstant = "history_limit"
	configurationLfsPatternsKeyConstant  = "lfs_patterns"

	defaultHistoryToolConstant  = "gitk"
	defaultHistoryLimitConstant = 10
)

// defaultLfsPatterns lists the glob patterns tracked when enabling
// large-file-storage with defaults.
var defaultLfsPatterns = []string{"*.bin", "*.iso", "*.zip"}

// Configuration captures the workspace command settings.
type Configuration struct {
	MergeTool    string   `mapstructure:"merge_tool"`
	HistoryTool  string   `mapstructure:"history_tool"`
	HistoryFile  string   `mapstructure:"history_file"`
	HistoryLimit int      `mapstructure:"history_limit"`
	LfsPatterns  []string `mapstructure:"lfs_patterns"`
}

// DefaultConfiguration returns baseline workspace settings.
func DefaultConfiguration() Configuration {
	return Configuration{
		MergeTool:    "",
		HistoryTool:  defaultHistoryToolConstant,
		HistoryFile:  "",
		HistoryLimit: defaultHistoryLimitConstant,
		LfsPatterns:  append([]string{}, defaultLfsPatterns...),
	}
}

// DefaultConfigurationValues produces Viper defaults for workspace commands.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		rootKey + "." + configurationMergeToolKeyConstant:    defaults.MergeTool,
		rootKey + "." + configurationHistoryToolKeyConstant:  defaults.HistoryTool,
		rootKey + "." + configurationHistoryFileKeyConstant:  defaults.HistoryFile,
		rootKey + "." + configurationHistoryLimitKeyConstant: defaults.HistoryLimit,
		rootKey + "." + configurationLfsPatternsKeyConstant:  defaults.LfsPatterns,
	}
}

// sanitize normalizes workspace configuration values.
func (configuration Configuration) sanitize() Configuration {
	sanitized := configuration
	sanitized.MergeTool = strings.TrimSpace(configuration.MergeTool)
	sanitized.HistoryTool = strings.TrimSpace(configuration.HistoryTool)
	if len(sanitized.HistoryTool) == 0 {
		sanitized.HistoryTool = defaultHistoryToolConstant
	}
	sanitized.HistoryFile = strings.TrimSpace(configuration.HistoryFile)
	if sanitized.HistoryLimit <= 0 {
		sanitized.HistoryLimit = defaultHistoryLimitConstant
	}
	trimmedPatterns := make([]string, 0, len(configuration.LfsPatterns))
	for _, candidatePattern := range configuration.LfsPatterns {
		trimmedPattern := strings.TrimSpace(candidatePattern)
		if len(trimmedPattern) == 0 {
			continue
		}
		trimmedPatterns = append(trimmedPatterns, trimmedPattern)
	}
	if len(trimmedPatterns) == 0 {
		trimmedPatterns = append([]string{}, defaultLfsPatterns...)
	}
	sanitized.LfsPatterns = trimmedPatterns
	return sanitized
}
