// Package ui renders command lifecycle events for human consumption.
package ui
