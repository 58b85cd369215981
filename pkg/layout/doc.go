// Package layout resolves boundary margins, line gaps, row heights and the
// final pixel placement of a diagram.
//
// # Pipeline
//
// Every stage is a function of explicit inputs:
//
//  1. [Intervals] projects each region boundary edge onto its grid line.
//  2. [ResolveMargins] raises margins until no two intervals of the same side
//     on the same line with intersecting spans share a margin, honoring the
//     header band reservation when headers are shown.
//  3. [ResolveGaps] widens row and column lines so nested margins stay
//     visible and opposite margins never collide.
//  4. [CellHeights] sizes each row for its wrapped statement text.
//  5. [Place] converts grid coordinates into pixels.
//
// [Compute] runs all stages for a [diagram.Diagram] and writes the resolved
// margins back onto its regions.
//
// # Coordinates
//
// Region shapes use grid line coordinates and statements use cell
// coordinates. Row line y sits above cell row y; column line x sits left of
// cell column x. Rows grow downward.
package layout
