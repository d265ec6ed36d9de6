// Package parallel provides the worker pool the software backend uses to
// spread the rows of a slice across CPU cores.
package parallel
