package overlap_test

import (
	"fmt"

	"github.com/matzehuels/regionmap/pkg/geom"
	"github.com/matzehuels/regionmap/pkg/overlap"
)

func ExampleBuild() {
	shapes := []geom.Polygon{
		geom.Rect(0, 0, 2, 2),
		geom.Rect(1, 1, 3, 3),
		geom.Rect(5, 5, 6, 6),
	}
	g := overlap.Build(shapes)

	fmt.Println("edges:", g.Edges())
	fmt.Println("components:", g.Components())
	// Output:
	// edges: [{0 1}]
	// components: [[0 1] [2]]
}
