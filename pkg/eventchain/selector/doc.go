// Package selector provides ready-made eventchain.Router implementations.
//
//   - Single always chooses the same successor.
//   - Weighted picks a successor at random, proportionally to its weight.
//   - Conditional picks the first rule whose condition matches the step.
//
// All selectors are immutable after construction and safe for concurrent
// use. Each implements eventchain.Targeted so that Graph.Validate can check
// its targets against a directory before a run starts.
//
// FromDefinition builds one selector per event from a parsed chain config.
package selector
