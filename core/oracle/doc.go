// Package oracle defines the planning oracle contract consumed by the
// scheduling stages, the JSON recovery adapter for loosely formatted
// proposals, and the built-in rule-based planner.
package oracle
