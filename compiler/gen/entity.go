package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/graph"
)

// entityFile builds the file of one entity: the model struct, its record
// conversions, the filter types and the client.
func (g *Generator) entityFile(t *Type) *jen.File {
	f := g.w.newFile()
	entityStruct(f, t)
	records(f, t)
	findTypes(f, t)
	listTypes(f, t)
	clientType(f, t)
	return f
}

func entityStruct(f *jen.File, t *Type) {
	if t.Schema.Comment != "" {
		f.Comment(t.Name + " " + t.Schema.Comment)
	} else {
		f.Commentf("%s is the model entity of the %q table.", t.Name, t.Table)
	}
	var fields []jen.Code
	for _, fd := range t.Fields() {
		if fd.Comment != "" {
			fields = append(fields, jen.Comment(fd.VariantName()+" "+fd.Comment))
		}
		fields = append(fields, jen.Id(fd.VariantName()).Add(goType(fd.Type)).Tag(map[string]string{"json": fd.Name}))
	}
	f.Type().Id(t.Name).Struct(fields...)
	f.Line()

	// Constructor from a normalized record.
	body := []jen.Code{jen.Id("e").Op(":=").Op("&").Id(t.Name).Values()}
	for _, fd := range t.Fields() {
		body = append(body,
			jen.List(jen.Id("e").Dot(fd.VariantName()), jen.Id("_")).Op("=").
				Qual(crudPkg, "Value").Index(goType(fd.Type)).Call(jen.Id("r"), jen.Lit(fd.Name)),
		)
	}
	body = append(body, jen.Return(jen.Id("e")))
	f.Func().Id(t.constructor()).Params(jen.Id("r").Qual(queryPkg, "Record")).Op("*").Id(t.Name).Block(body...)
}

func member(name string) func() *jen.Statement {
	return func() *jen.Statement { return jen.Id("e").Dot(name) }
}

func records(f *jen.File, t *Type) {
	if !t.Mutable() {
		return
	}
	if fields := t.InsertFields(); len(fields) > 0 {
		dict := jen.Dict{}
		var opt []jen.Code
		for _, fd := range fields {
			x := member(fd.VariantName())
			if fd.Default != nil {
				opt = append(opt, jen.If(nonZero(fd.Type, x)).Block(
					jen.Id("r").Index(jen.Lit(fd.Name)).Op("=").Add(x()),
				))
				continue
			}
			dict[jen.Lit(fd.Name)] = x()
		}
		body := []jen.Code{jen.Id("r").Op(":=").Qual(queryPkg, "Record").Values(dict)}
		body = append(body, opt...)
		body = append(body, jen.Return(jen.Id("r")))
		f.Line()
		f.Comment("insertRecord returns the inserted columns of e. Zero values of fields")
		f.Comment("with a default are left to the default.")
		f.Func().Params(jen.Id("e").Op("*").Id(t.Name)).Id("insertRecord").Params().Qual(queryPkg, "Record").Block(body...)
	}
	if fields := t.UpdateFields(); len(fields) > 0 {
		dict := jen.Dict{jen.Lit(t.ID.Name): member(t.ID.VariantName())()}
		for _, fd := range fields {
			if fd.UpdateDefault == nil {
				dict[jen.Lit(fd.Name)] = member(fd.VariantName())()
			}
		}
		f.Line()
		f.Comment("updateRecord returns the updated columns of e, keyed by its primary key.")
		f.Func().Params(jen.Id("e").Op("*").Id(t.Name)).Id("updateRecord").Params().Qual(queryPkg, "Record").Block(
			jen.Return(jen.Qual(queryPkg, "Record").Values(dict)),
		)
	}
}

// findTypes builds the sealed selector of find and the find filter.
func findTypes(f *jen.File, t *Type) {
	if !t.HasFind() {
		return
	}
	by := t.FindByFields()
	if len(by) > 0 {
		f.Line()
		f.Commentf("%s selects the row found by %s.Find.", t.FindByName(), t.ClientName())
		f.Type().Id(t.FindByName()).Interface(
			jen.Id(t.selector()).Params().Params(jen.String(), jen.Any()),
		)
		for _, fd := range by {
			name := t.FindByVariant(fd)
			f.Line()
			f.Commentf("%s finds a %s by its %q field.", name, t.Name, fd.Name)
			f.Type().Id(name).Struct(jen.Id(fd.VariantName()).Add(goType(fd.Type)))
			f.Line()
			f.Func().Params(jen.Id("b").Id(name)).Id(t.selector()).Params().Params(jen.String(), jen.Any()).Block(
				jen.Return(jen.Lit(fd.Name), jen.Id("b").Dot(fd.VariantName())),
			)
		}
	}

	var members []jen.Code
	if len(by) > 0 {
		members = append(members, jen.Id("By").Id(t.FindByName()))
	}
	members = append(members, optionalMembers(t.FindOptFields(), t.FindOptBetweenFields())...)
	f.Line()
	f.Commentf("%s filters %s.Find. Nil members are not applied.", t.FindFilterName(), t.ClientName())
	f.Type().Id(t.FindFilterName()).Struct(members...)

	body := []jen.Code{
		jen.Id("ff").Op(":=").Qual(queryPkg, "FindFilter").Values(jen.Dict{
			jen.Id("Opt"):     jen.Map(jen.String()).Any().Values(),
			jen.Id("Between"): jen.Map(jen.String()).Qual(queryPkg, "Range").Values(),
		}),
	}
	if len(by) > 0 {
		body = append(body, jen.If(jen.Id("f").Dot("By").Op("!=").Nil()).Block(
			jen.List(jen.Id("name"), jen.Id("v")).Op(":=").Id("f").Dot("By").Dot(t.selector()).Call(),
			jen.List(jen.Id("by"), jen.Err()).Op(":=").Id("op").Dot("By").Call(jen.Id("name"), jen.Id("v")),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Id("ff"), jen.Err())),
			jen.Id("ff").Dot("By").Op("=").Op("&").Id("by"),
		))
	}
	body = append(body, optionalFilters("ff", t.FindOptFields(), t.FindOptBetweenFields())...)
	body = append(body, jen.Return(jen.Id("ff"), jen.Nil()))
	f.Line()
	f.Func().Params(jen.Id("f").Id(t.FindFilterName())).Id("filter").
		Params(jen.Id("op").Op("*").Qual(queryPkg, "FindOp")).
		Params(jen.Qual(queryPkg, "FindFilter"), jen.Error()).
		Block(body...)
}

// listTypes builds the list and list-all filters.
func listTypes(f *jen.File, t *Type) {
	for _, kind := range []struct {
		name, filter, head string
		lead               []jen.Code
		init               jen.Dict
	}{
		{
			name:   t.ListFilterName(),
			filter: "ListFilter",
			head:   "filters %s.List. Nil optional members are not applied.",
			lead: []jen.Code{
				jen.Qual(queryPkg, "Pagination"),
				jen.Id("Order").String(),
			},
			init: jen.Dict{
				jen.Id("Pagination"): jen.Id("f").Dot("Pagination"),
				jen.Id("Order"):      jen.Id("f").Dot("Order"),
			},
		},
		{
			name:   t.ListAllFilterName(),
			filter: "ListAllFilter",
			head:   "filters %s.ListAll. Nil optional members are not applied.",
			lead: []jen.Code{
				jen.Id("Limit").Int(),
				jen.Id("Order").String(),
			},
			init: jen.Dict{
				jen.Id("Limit"): jen.Id("f").Dot("Limit"),
				jen.Id("Order"): jen.Id("f").Dot("Order"),
			},
		},
	} {
		members := kind.lead
		for _, fd := range t.ListFields() {
			members = append(members, jen.Id(fd.VariantName()).Add(goType(fd.Type)))
		}
		members = append(members, optionalMembers(t.ListOptFields(), t.ListOptBetweenFields())...)
		f.Line()
		f.Commentf("%s "+kind.head, kind.name, t.ClientName())
		f.Type().Id(kind.name).Struct(members...)

		kind.init[jen.Id("Required")] = jen.Map(jen.String()).Any().Values()
		kind.init[jen.Id("Opt")] = jen.Map(jen.String()).Any().Values()
		kind.init[jen.Id("Between")] = jen.Map(jen.String()).Qual(queryPkg, "Range").Values()
		body := []jen.Code{jen.Id("lf").Op(":=").Qual(queryPkg, kind.filter).Values(kind.init)}
		for _, fd := range t.ListFields() {
			body = append(body, jen.Id("lf").Dot("Required").Index(jen.Lit(fd.Name)).Op("=").Id("f").Dot(fd.VariantName()))
		}
		body = append(body, optionalFilters("lf", t.ListOptFields(), t.ListOptBetweenFields())...)
		body = append(body, jen.Return(jen.Id("lf")))
		f.Line()
		f.Func().Params(jen.Id("f").Id(kind.name)).Id("filter").Params().Qual(queryPkg, kind.filter).Block(body...)
	}
}

// optionalMembers returns pointer members for optional filters and range
// members for range filters.
func optionalMembers(opt, between []*graph.Field) []jen.Code {
	var members []jen.Code
	for _, fd := range opt {
		members = append(members, jen.Id(fd.VariantName()).Op("*").Add(goType(fd.Type)))
	}
	for _, fd := range between {
		members = append(members, jen.Id(fd.VariantName()).Op("*").Qual(queryPkg, "Between").Index(goType(fd.Type)))
	}
	return members
}

// optionalFilters copies the set optional members of f into the untyped
// filter named v.
func optionalFilters(v string, opt, between []*graph.Field) []jen.Code {
	var stmts []jen.Code
	for _, fd := range opt {
		x := jen.Id("f").Dot(fd.VariantName())
		stmts = append(stmts, jen.If(x.Clone().Op("!=").Nil()).Block(
			jen.Id(v).Dot("Opt").Index(jen.Lit(fd.Name)).Op("=").Op("*").Add(x.Clone()),
		))
	}
	for _, fd := range between {
		x := jen.Id("f").Dot(fd.VariantName())
		stmts = append(stmts, jen.If(x.Clone().Op("!=").Nil()).Block(
			jen.Id(v).Dot("Between").Index(jen.Lit(fd.Name)).Op("=").Add(x.Clone()).Dot("Range").Call(),
		))
	}
	return stmts
}
