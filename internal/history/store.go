package history

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/workcopy/internal/filesystem"
)

const (
	historyFilePathNotConfiguredMessageConstant = "history file path not configured"

	defaultMaximumEntryCountConstant = 10

	historyDirectoryPermissionsConstant = fs.FileMode(0o755)
	historyFilePermissionsConstant      = fs.FileMode(0o644)
)

// ErrFilePathNotConfigured reports a history store built without a file path.
var ErrFilePathNotConfigured = errors.New(historyFilePathNotConfiguredMessageConstant)

// Store persists a most-recently-used list of repository paths to a YAML file.
type Store struct {
	filePath          string
	fileSystem        filesystem.FileSystem
	maximumEntryCount int
}

type historyDocument struct {
	Repositories []string `yaml:"repositories"`
}

// NewStore builds a Store writing to filePath. A non-positive
// maximumEntryCount selects the default of ten entries. A nil fileSystem
// selects the operating system implementation.
func NewStore(filePath string, maximumEntryCount int, fileSystem filesystem.FileSystem) (*Store, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, ErrFilePathNotConfigured
	}
	if maximumEntryCount <= 0 {
		maximumEntryCount = defaultMaximumEntryCountConstant
	}
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}
	return &Store{
		filePath:          filePath,
		fileSystem:        fileSystem,
		maximumEntryCount: maximumEntryCount,
	}, nil
}

// Load returns the recorded repository paths, most recent first. A missing
// history file yields an empty list.
func (store *Store) Load() ([]string, error) {
	fileContents, readError := store.fileSystem.ReadFile(store.filePath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, readError
	}
	var document historyDocument
	if unmarshalError := yaml.Unmarshal(fileContents, &document); unmarshalError != nil {
		return nil, unmarshalError
	}
	return document.Repositories, nil
}

// Record moves repositoryPath to the front of the history, dropping any
// earlier occurrence and trimming the list to the configured maximum.
func (store *Store) Record(repositoryPath string) error {
	trimmedPath := strings.TrimSpace(repositoryPath)
	if trimmedPath == "" {
		return nil
	}
	existingEntries, loadError := store.Load()
	if loadError != nil {
		return loadError
	}
	updatedEntries := make([]string, 0, len(existingEntries)+1)
	updatedEntries = append(updatedEntries, trimmedPath)
	for _, existingEntry := range existingEntries {
		if existingEntry == trimmedPath {
			continue
		}
		updatedEntries = append(updatedEntries, existingEntry)
	}
	if len(updatedEntries) > store.maximumEntryCount {
		updatedEntries = updatedEntries[:store.maximumEntryCount]
	}
	return store.write(historyDocument{Repositories: updatedEntries})
}

func (store *Store) write(document historyDocument) error {
	documentContents, marshalError := yaml.Marshal(document)
	if marshalError != nil {
		return marshalError
	}
	historyDirectory := filepath.Dir(store.filePath)
	if directoryError := store.fileSystem.MkdirAll(historyDirectory, historyDirectoryPermissionsConstant); directoryError != nil {
		return directoryError
	}
	return store.fileSystem.WriteFile(store.filePath, documentContents, historyFilePermissionsConstant)
}
