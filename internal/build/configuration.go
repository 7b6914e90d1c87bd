package build

import (
	"strings"

	pathutils "github.com/joysoftware/pyship/internal/utils/path"
)

var buildConfigurationHomeDirectoryExpander = pathutils.NewHomeExpander()

const (
	defaultWorkingDirectoryConstant     = "."
	defaultDescriptorPathConstant       = "setup.py"
	defaultOutputDirectoryConstant      = "dist"
	workingDirectoryConfigurationSuffix = ".working_directory"
	descriptorConfigurationSuffix       = ".descriptor"
	outputDirectoryConfigurationSuffix  = ".output_directory"
	argumentsConfigurationSuffix        = ".arguments"
)

var defaultBuildArguments = []string{"setup.py", "sdist", "bdist_wheel"}

// Configuration stores options for the build command.
type Configuration struct {
	WorkingDirectory string   `mapstructure:"working_directory"`
	DescriptorPath   string   `mapstructure:"descriptor"`
	OutputDirectory  string   `mapstructure:"output_directory"`
	Arguments        []string `mapstructure:"arguments"`
}

// DefaultConfiguration supplies baseline values for the build command.
func DefaultConfiguration() Configuration {
	return Configuration{
		WorkingDirectory: defaultWorkingDirectoryConstant,
		DescriptorPath:   defaultDescriptorPathConstant,
		OutputDirectory:  defaultOutputDirectoryConstant,
		Arguments:        append([]string{}, defaultBuildArguments...),
	}
}

// DefaultConfigurationValues exposes defaults keyed for the configuration loader.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + workingDirectoryConfigurationSuffix: defaultWorkingDirectoryConstant,
		configurationKeyPrefix + descriptorConfigurationSuffix:       defaultDescriptorPathConstant,
		configurationKeyPrefix + outputDirectoryConfigurationSuffix:  defaultOutputDirectoryConstant,
		configurationKeyPrefix + argumentsConfigurationSuffix:        append([]string{}, defaultBuildArguments...),
	}
}

// Sanitize trims configured values, expands the home directory, and restores defaults for empty entries.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration

	sanitized.WorkingDirectory = sanitizePathValue(configuration.WorkingDirectory, defaultWorkingDirectoryConstant)
	sanitized.DescriptorPath = sanitizePathValue(configuration.DescriptorPath, defaultDescriptorPathConstant)
	sanitized.OutputDirectory = sanitizePathValue(configuration.OutputDirectory, defaultOutputDirectoryConstant)

	sanitizedArguments := make([]string, 0, len(configuration.Arguments))
	for _, argumentCandidate := range configuration.Arguments {
		trimmedArgument := strings.TrimSpace(argumentCandidate)
		if len(trimmedArgument) == 0 {
			continue
		}
		sanitizedArguments = append(sanitizedArguments, trimmedArgument)
	}
	if len(sanitizedArguments) == 0 {
		sanitizedArguments = append([]string{}, defaultBuildArguments...)
	}
	sanitized.Arguments = sanitizedArguments

	return sanitized
}

func sanitizePathValue(candidateValue string, fallbackValue string) string {
	trimmedValue := strings.TrimSpace(candidateValue)
	if len(trimmedValue) == 0 {
		return fallbackValue
	}
	return buildConfigurationHomeDirectoryExpander.Expand(trimmedValue)
}
