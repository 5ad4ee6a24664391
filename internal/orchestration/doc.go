// Package orchestration turns textual conversion requests into numfmt calls
// and runs batches of them concurrently. It decouples the conversion layer
// from presentation via the ProgressReporter interface.
package orchestration
