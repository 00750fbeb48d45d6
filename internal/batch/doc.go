// Package batch runs groups of trace jobs: YAML scenarios, parameter
// sweeps over a library field, and seed clouds around a base seed.
package batch
