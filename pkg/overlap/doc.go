// Package overlap builds the undirected overlap graph of a diagram.
//
// Two regions are adjacent when their shapes share at least one grid point,
// touching edges and corners included. When duplicate-name groups are given,
// adjacency is lifted to groups: every instance of a group is adjacent to
// every region that touches any instance, and instances of one group are
// never adjacent to each other.
//
// The graph is built once and is read-only afterwards. The margin resolver
// uses it to decide which intervals can conflict; the color strategies use it
// for neighbor exclusion and ordering.
package overlap
