// Package cli assembles the pyship command hierarchy.
//
// It wires the Cobra root command, the Viper-backed configuration loader,
// dotenv preloading, and the zap logger shared by the build and upload
// commands.
package cli
