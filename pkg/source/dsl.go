package source

import (
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/matzehuels/regionmap/pkg/diagram"
	"github.com/matzehuels/regionmap/pkg/errors"
	"github.com/matzehuels/regionmap/pkg/geom"
)

// dslLexer tokenizes the text format. Keywords are plain identifiers.
var dslLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s]+`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Int", Pattern: `-?\d+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.\-]*`},
	{Name: "Punct", Pattern: `[(),]`},
})

type dslFile struct {
	Grid  *dslGrid   `@@`
	Decls []*dslDecl `@@*`
}

type dslGrid struct {
	Width  int `"grid" @Int`
	Height int `@Int`
}

type dslDecl struct {
	Region    *dslRegion    `  @@`
	Statement *dslStatement `| @@`
}

type dslRegion struct {
	ID         string    `"region" @(Ident | String)`
	Label      string    `@String?`
	Name       string    `( "as" @(Ident | String) )?`
	Shape      *dslShape `@@`
	Statements []string  `( "with" @(Ident | String) ( "," @(Ident | String) )* )?`
}

type dslShape struct {
	Rect    *dslRect    `  "rect" @@`
	Polygon []*dslPoint `| "poly" @@+`
}

type dslRect struct {
	From *dslPoint `@@`
	To   *dslPoint `@@`
}

type dslPoint struct {
	X int `"(" @Int`
	Y int `"," @Int ")"`
}

type dslStatement struct {
	ID      string    `"statement" @(Ident | String)`
	Text    string    `@String`
	At      *dslPoint `"at" @@`
	Regions []string  `( "in" @(Ident | String) ( "," @(Ident | String) )* )?`
}

var dslParser = participle.MustBuild[dslFile](
	participle.Lexer(dslLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

func readDSL(r io.Reader) (diagram.Input, error) {
	file, err := dslParser.Parse("", r)
	if err != nil {
		return diagram.Input{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse dsl")
	}
	return file.input(), nil
}

// ParseDSL parses the text format from a string.
func ParseDSL(s string) (diagram.Input, error) {
	file, err := dslParser.ParseString("", s)
	if err != nil {
		return diagram.Input{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse dsl")
	}
	return file.input(), nil
}

func (f *dslFile) input() diagram.Input {
	in := diagram.Input{Width: f.Grid.Width, Height: f.Grid.Height}
	for _, d := range f.Decls {
		switch {
		case d.Region != nil:
			in.Regions = append(in.Regions, d.Region.spec())
		case d.Statement != nil:
			s := d.Statement
			in.Statements = append(in.Statements, diagram.StatementSpec{
				ID:      s.ID,
				Text:    s.Text,
				X:       s.At.X,
				Y:       s.At.Y,
				Regions: s.Regions,
			})
		}
	}
	return in
}

func (r *dslRegion) spec() diagram.RegionSpec {
	spec := diagram.RegionSpec{
		ID:         r.ID,
		Label:      r.Label,
		Name:       r.Name,
		Statements: r.Statements,
	}
	if rect := r.Shape.Rect; rect != nil {
		spec.Rect = []int{rect.From.X, rect.From.Y, rect.To.X, rect.To.Y}
	}
	for _, p := range r.Shape.Polygon {
		spec.Polygon = append(spec.Polygon, geom.Point{X: p.X, Y: p.Y})
	}
	return spec
}
