// Package sched implements the production scheduling pipeline: location
// optimization with approximate tour routing, crew and equipment allocation
// with union rule checks, day-by-day schedule generation with date
// normalization, and the coordinator orchestrating the three stages.
//
// Each stage delegates its planning decision to an oracle.Oracle and applies
// deterministic post-processing on top. Oracle failures never propagate past
// the stage boundary: every stage carries a conservative fallback plan,
// flagged as such in its result.
package sched
