// Package diagram holds the region and statement model that the layout and
// color stages operate on.
//
// A [Diagram] is built from an [Input] descriptor with [New]. Construction
// validates identifiers and shapes, derives which regions each statement
// belongs to (declared membership plus every region whose shape contains the
// statement's cell) and computes the singleton rule:
//
//	singleton = at most one statement and not part of a duplicate-name group
//
// Regions that share a Name are visual copies of one logical entity. They form
// a group; see [Diagram.Groups]. Distance and overlap computations consult the
// groups so that all instances of an entity behave as one.
//
// [Diagram.MergeDuplicates] folds regions that carry the identical statement
// set and the identical shape into the earliest such region, appending their
// headers. Layout state (margins, colors) lives on [Region] and is mutated
// only by the layout and color packages.
package diagram
