package utils

import "context"

type contextValueKey int

const configurationFilePathContextValueKey contextValueKey = iota

// CommandContextAccessor reads and writes values shared through cobra command contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath returns a context carrying the resolved configuration file path.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFilePathContextValueKey, configurationFilePath)
}

// ConfigurationFilePath reports the configuration file path stored in the context, if any.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	storedValue, valueIsString := executionContext.Value(configurationFilePathContextValueKey).(string)
	return storedValue, valueIsString
}
