package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/compiler/load"
)

// schemaFile builds the schemas of the package and the graph built from
// them at init time.
func (g *Generator) schemaFile() *jen.File {
	f := g.w.newFile()
	var (
		schemas []jen.Code
		types   []jen.Code
	)
	for _, t := range g.graph.Nodes {
		schemaType(f, t)
		schemas = append(schemas, jen.Id(t.schemaName()).Values())
		types = append(types, jen.Id(t.TypeVar()).Op("=").Id("mustType").Call(jen.Lit(t.Name)))
	}
	f.Comment("Graph holds the descriptors of the entities of the package.")
	f.Var().Id("Graph").Op("=").Qual(graphPkg, "MustNew").Call(schemas...)
	f.Line()
	f.Comment("Descriptors of each entity.")
	f.Var().Defs(types...)
	f.Line()
	f.Func().Id("mustType").Params(jen.Id("name").String()).Op("*").Qual(graphPkg, "Type").Block(
		jen.List(jen.Id("t"), jen.Id("ok")).Op(":=").Id("Graph").Dot("Lookup").Call(jen.Id("name")),
		jen.If(jen.Op("!").Id("ok")).Block(
			jen.Panic(jen.Lit(g.graph.Package+": unknown entity ").Op("+").Id("name")),
		),
		jen.Return(jen.Id("t")),
	)
	return f
}

// multiline renders a composite literal with one element per line.
var multiline = jen.Options{Open: "{", Close: "}", Separator: ",", Multi: true}

func schemaType(f *jen.File, t *Type) {
	name := t.schemaName()
	base := "Schema"
	if t.View {
		base = "View"
	}
	recv := func() jen.Code { return jen.Id(name) }
	f.Commentf("%s defines the %s entity.", name, t.Name)
	f.Type().Id(name).Struct(jen.Qual(crudgenPkg, base))
	f.Line()
	f.Func().Params(recv()).Id("Name").Params().String().Block(jen.Return(jen.Lit(t.Name)))
	f.Line()

	s := t.Schema
	if s.Table != "" || s.PrimaryKey != "" {
		cfg := jen.Dict{}
		if s.Table != "" {
			cfg[jen.Id("Table")] = jen.Lit(s.Table)
		}
		if s.PrimaryKey != "" {
			cfg[jen.Id("PrimaryKey")] = jen.Lit(s.PrimaryKey)
		}
		f.Func().Params(recv()).Id("Config").Params().Qual(crudgenPkg, "Config").Block(
			jen.Return(jen.Qual(crudgenPkg, "Config").Values(cfg)),
		)
		f.Line()
	}

	if len(s.Mixin) > 0 {
		var mixins []jen.Code
		for _, m := range s.Mixin {
			mixins = append(mixins, jen.Qual(mixinPkg, load.Mixins[m].Type).Values())
		}
		f.Func().Params(recv()).Id("Mixin").Params().Index().Qual(crudgenPkg, "Mixin").Block(
			jen.Return(jen.Index().Qual(crudgenPkg, "Mixin").Custom(multiline, mixins...)),
		)
		f.Line()
	}

	if len(s.Fields) > 0 {
		f.Func().Params(recv()).Id("Fields").Params().Index().Qual(crudgenPkg, "Field").Block(
			jen.Return(jen.Index().Qual(crudgenPkg, "Field").CustomFunc(multiline, func(g *jen.Group) {
				for _, fd := range s.Fields {
					g.Add(fieldBuilder(fd))
				}
			})),
		)
		f.Line()
	}
}

// fieldBuilder renders the schema/field builder chain of fd.
func fieldBuilder(fd *load.Field) jen.Code {
	typ, _ := fd.FieldType()
	s := jen.Qual(fieldPkg, builders[typ]).Call(jen.Lit(fd.Name))
	if len(fd.Values) > 0 {
		s.Dot("Values").CallFunc(func(g *jen.Group) {
			for _, v := range fd.Values {
				g.Lit(v)
			}
		})
	}
	for _, m := range fd.Flags() {
		s.Dot(m).Call()
	}
	for _, d := range []struct{ method, name string }{
		{"Default", fd.Default},
		{"UpdateDefault", fd.UpdateDefault},
	} {
		if vg, ok := load.Generators[d.name]; ok {
			s.Dot(d.method).Call(jen.Qual(vg.Path, vg.Func))
		}
	}
	if fd.Comment != "" {
		s.Dot("Comment").Call(jen.Lit(fd.Comment))
	}
	return s
}
