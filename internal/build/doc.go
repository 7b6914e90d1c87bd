// Package build invokes the external package build tool against a package descriptor.
//
// It provides CommandBuilder for wiring the Cobra command, Service for
// executing the build and verifying that artifacts landed in the output
// directory, and configuration helpers shared with the CLI entrypoint.
package build
