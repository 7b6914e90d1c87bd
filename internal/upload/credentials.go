package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	credentialSourceSeparatorConstant           = ":"
	environmentCredentialSourceTypeConstant     = "env"
	fileCredentialSourceTypeConstant            = "file"
	credentialSourceMissingErrorMessageConstant = "credential source must be provided"
	environmentNameMissingErrorMessageConstant  = "environment variable name must be provided"
	filePathMissingErrorMessageConstant         = "credential file path must be provided"
	environmentLookupNilErrorMessageConstant    = "environment lookup function not configured"
	fileReaderNilErrorMessageConstant           = "file reader function not configured"
	environmentValueMissingTemplateConstant     = "environment variable %s is not set"
	fileReadErrorTemplateConstant               = "unable to read credential file %s: %w"
	fileValueEmptyErrorTemplateConstant         = "credential file %s is empty"
	unsupportedCredentialSourceTemplateConstant = "unsupported credential source type %q"
)

// CredentialSourceType enumerates the supported credential retrieval mechanisms.
type CredentialSourceType string

// Credential source type enumerations.
const (
	CredentialSourceTypeEnvironment CredentialSourceType = CredentialSourceType(environmentCredentialSourceTypeConstant)
	CredentialSourceTypeFile        CredentialSourceType = CredentialSourceType(fileCredentialSourceTypeConstant)
)

// CredentialSourceConfiguration specifies how to locate a credential value.
type CredentialSourceConfiguration struct {
	Type      CredentialSourceType
	Reference string
}

// CredentialResolver retrieves credential values from configured sources.
type CredentialResolver interface {
	ResolveCredential(resolutionContext context.Context, source CredentialSourceConfiguration) (string, error)
}

// EnvironmentLookup obtains an environment variable value.
type EnvironmentLookup func(key string) (string, bool)

// FileReader reads the contents of a file path.
type FileReader func(path string) ([]byte, error)

// NewCredentialResolver creates a credential resolver with optional dependency overrides.
func NewCredentialResolver(environmentLookup EnvironmentLookup, fileReader FileReader) CredentialResolver {
	resolvedEnvironmentLookup := environmentLookup
	if resolvedEnvironmentLookup == nil {
		resolvedEnvironmentLookup = os.LookupEnv
	}

	resolvedFileReader := fileReader
	if resolvedFileReader == nil {
		resolvedFileReader = os.ReadFile
	}

	return &credentialResolver{
		environmentLookup: resolvedEnvironmentLookup,
		fileReader:        resolvedFileReader,
	}
}

// ParseCredentialSource interprets textual credential source declarations.
//
// A bare value without a type prefix is treated as an environment variable
// name.
func ParseCredentialSource(sourceValue string) (CredentialSourceConfiguration, error) {
	trimmedValue := strings.TrimSpace(sourceValue)
	if len(trimmedValue) == 0 {
		return CredentialSourceConfiguration{}, errors.New(credentialSourceMissingErrorMessageConstant)
	}

	components := strings.SplitN(trimmedValue, credentialSourceSeparatorConstant, 2)
	if len(components) == 1 {
		return CredentialSourceConfiguration{
			Type:      CredentialSourceTypeEnvironment,
			Reference: trimmedValue,
		}, nil
	}

	sourceType := strings.ToLower(strings.TrimSpace(components[0]))
	reference := strings.TrimSpace(components[1])

	switch sourceType {
	case environmentCredentialSourceTypeConstant:
		if len(reference) == 0 {
			return CredentialSourceConfiguration{}, errors.New(environmentNameMissingErrorMessageConstant)
		}
		return CredentialSourceConfiguration{Type: CredentialSourceTypeEnvironment, Reference: reference}, nil
	case fileCredentialSourceTypeConstant:
		if len(reference) == 0 {
			return CredentialSourceConfiguration{}, errors.New(filePathMissingErrorMessageConstant)
		}
		return CredentialSourceConfiguration{Type: CredentialSourceTypeFile, Reference: reference}, nil
	default:
		return CredentialSourceConfiguration{}, fmt.Errorf(unsupportedCredentialSourceTemplateConstant, sourceType)
	}
}

type credentialResolver struct {
	environmentLookup EnvironmentLookup
	fileReader        FileReader
}

func (resolver *credentialResolver) ResolveCredential(resolutionContext context.Context, source CredentialSourceConfiguration) (string, error) {
	_ = resolutionContext
	switch source.Type {
	case CredentialSourceTypeEnvironment:
		if resolver.environmentLookup == nil {
			return "", errors.New(environmentLookupNilErrorMessageConstant)
		}
		value, found := resolver.environmentLookup(source.Reference)
		if !found {
			return "", fmt.Errorf(environmentValueMissingTemplateConstant, source.Reference)
		}
		trimmedValue := strings.TrimSpace(value)
		if len(trimmedValue) == 0 {
			return "", fmt.Errorf(environmentValueMissingTemplateConstant, source.Reference)
		}
		return trimmedValue, nil
	case CredentialSourceTypeFile:
		if resolver.fileReader == nil {
			return "", errors.New(fileReaderNilErrorMessageConstant)
		}
		contents, readError := resolver.fileReader(source.Reference)
		if readError != nil {
			return "", fmt.Errorf(fileReadErrorTemplateConstant, source.Reference, readError)
		}
		trimmedValue := strings.TrimSpace(string(contents))
		if len(trimmedValue) == 0 {
			return "", fmt.Errorf(fileValueEmptyErrorTemplateConstant, source.Reference)
		}
		return trimmedValue, nil
	default:
		return "", fmt.Errorf(unsupportedCredentialSourceTemplateConstant, source.Type)
	}
}
