// Package color assigns palette colors to regions so that overlapping
// regions stay distinguishable.
//
// Colors are chosen by a [Strategy]. Two are built in:
//
//   - "balanced" excludes colors already used by overlapping neighbors and
//     picks the least used remaining palette entry.
//   - "perceptual" picks the entry that is perceptually farthest (CIEDE2000
//     plus a hue term) from the colors of nearby regions.
//
// Both visit regions by descending overlap degree and are deterministic for a
// fixed graph and palette. When no palette entry is admissible, the region
// gets [Fallback], is marked degraded and a warning is logged; coloring never
// fails.
//
// Regions carrying several headers after merging need one color per header;
// see [Input.Slots]. Instances of a duplicate-name group share the colors of
// the first instance colored.
package color
