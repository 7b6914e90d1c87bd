package upload

import (
	"strings"

	pathutils "github.com/joysoftware/pyship/internal/utils/path"
)

var uploadConfigurationHomeDirectoryExpander = pathutils.NewHomeExpander()

const (
	defaultWorkingDirectoryConstant     = "."
	defaultOutputDirectoryConstant      = "dist"
	defaultUsernameSourceValueConstant  = "env:PYSHIP_USERNAME"
	defaultPasswordSourceValueConstant  = "env:PYSHIP_PASSWORD"
	workingDirectoryConfigurationSuffix = ".working_directory"
	outputDirectoryConfigurationSuffix  = ".output_directory"
	repositoryURLConfigurationSuffix    = ".repository_url"
	usernameSourceConfigurationSuffix   = ".username_source"
	passwordSourceConfigurationSuffix   = ".password_source"
	skipExistingConfigurationSuffix     = ".skip_existing"
)

// Configuration stores options for the upload command.
type Configuration struct {
	WorkingDirectory string `mapstructure:"working_directory"`
	OutputDirectory  string `mapstructure:"output_directory"`
	RepositoryURL    string `mapstructure:"repository_url"`
	UsernameSource   string `mapstructure:"username_source"`
	PasswordSource   string `mapstructure:"password_source"`
	SkipExisting     bool   `mapstructure:"skip_existing"`
}

// DefaultConfiguration supplies baseline values for the upload command.
func DefaultConfiguration() Configuration {
	return Configuration{
		WorkingDirectory: defaultWorkingDirectoryConstant,
		OutputDirectory:  defaultOutputDirectoryConstant,
		UsernameSource:   defaultUsernameSourceValueConstant,
		PasswordSource:   defaultPasswordSourceValueConstant,
	}
}

// DefaultConfigurationValues exposes defaults keyed for the configuration loader.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + workingDirectoryConfigurationSuffix: defaultWorkingDirectoryConstant,
		configurationKeyPrefix + outputDirectoryConfigurationSuffix:  defaultOutputDirectoryConstant,
		configurationKeyPrefix + repositoryURLConfigurationSuffix:    "",
		configurationKeyPrefix + usernameSourceConfigurationSuffix:   defaultUsernameSourceValueConstant,
		configurationKeyPrefix + passwordSourceConfigurationSuffix:   defaultPasswordSourceValueConstant,
		configurationKeyPrefix + skipExistingConfigurationSuffix:     false,
	}
}

// Sanitize trims configured values, expands the home directory, and restores defaults for empty entries.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration

	sanitized.WorkingDirectory = sanitizeConfiguredPath(configuration.WorkingDirectory, defaultWorkingDirectoryConstant)
	sanitized.OutputDirectory = sanitizeConfiguredPath(configuration.OutputDirectory, defaultOutputDirectoryConstant)
	sanitized.RepositoryURL = strings.TrimSpace(configuration.RepositoryURL)
	sanitized.UsernameSource = sanitizeConfiguredValue(configuration.UsernameSource, defaultUsernameSourceValueConstant)
	sanitized.PasswordSource = sanitizeConfiguredValue(configuration.PasswordSource, defaultPasswordSourceValueConstant)

	return sanitized
}

func sanitizeConfiguredPath(candidateValue string, fallbackValue string) string {
	trimmedValue := strings.TrimSpace(candidateValue)
	if len(trimmedValue) == 0 {
		return fallbackValue
	}
	return uploadConfigurationHomeDirectoryExpander.Expand(trimmedValue)
}

func sanitizeConfiguredValue(candidateValue string, fallbackValue string) string {
	trimmedValue := strings.TrimSpace(candidateValue)
	if len(trimmedValue) == 0 {
		return fallbackValue
	}
	return trimmedValue
}
