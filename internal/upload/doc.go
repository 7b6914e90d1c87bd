// Package upload publishes built artifacts to a remote package index.
//
// It provides CommandBuilder for wiring the Cobra command, Service for
// enumerating artifacts and invoking the external upload tool
// non-interactively, and credential resolution utilities that source the
// index username and password from the environment or files.
package upload
