// Package source reads diagram descriptions into [diagram.Input].
//
// Three formats are supported:
//
//   - JSON (.json): the [diagram.Input] structure as-is.
//   - TOML (.toml): the same structure with [[regions]] and [[statements]]
//     tables.
//   - DSL (.rmap, .txt): a line-oriented text format:
//
//	# comments run to the end of the line
//	grid 4 5
//	region A "Label" rect (0,0) (2,2)
//	region B "Other" as "shared-name" poly (0,0) (4,0) (4,2) (0,2)
//	statement s1 "Some text" at (1,1) in A
//
// Readers only decode; validation happens in [diagram.New].
package source
