package gen

import (
	"github.com/dave/jennifer/jen"
)

// clientType builds the client of one entity. Tables get a crud.Table,
// views a crud.Reader and no mutating methods.
func clientType(f *jen.File, t *Type) {
	name := t.ClientName()
	store, storeType, ctor := "table", "Table", "NewTable"
	if !t.Mutable() {
		store, storeType, ctor = "reader", "Reader", "NewReader"
	}
	recv := func() jen.Code { return jen.Id("c").Op("*").Id(name) }
	c := func() *jen.Statement { return jen.Id("c").Dot(store) }
	pk := func() *jen.Statement { return goType(t.ID.Type) }
	ctx := func() jen.Code { return jen.Id("ctx").Qual("context", "Context") }

	f.Line()
	f.Commentf("%s runs the operations of %s.", name, t.Name)
	f.Type().Id(name).Struct(jen.Id(store).Op("*").Qual(crudPkg, storeType))

	f.Line()
	f.Commentf("New%s returns the client of %s over drv.", name, t.Name)
	f.Func().Id("New"+name).
		Params(jen.Id("drv").Qual(dialectPkg, "Driver"), jen.Id("opts").Op("...").Qual(crudPkg, "Option")).
		Params(jen.Op("*").Id(name), jen.Error()).
		Block(
			jen.List(jen.Id("s"), jen.Err()).Op(":=").Qual(crudPkg, ctor).Call(jen.Id("drv"), jen.Id(t.TypeVar()), jen.Id("opts").Op("...")),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
			jen.Return(jen.Op("&").Id(name).Values(jen.Dict{jen.Id(store): jen.Id("s")}), jen.Nil()),
		)

	f.Line()
	f.Comment("Tx returns a copy of the client that runs its statements in tx.")
	f.Func().Params(recv()).Id("Tx").Params(jen.Id("tx").Qual(dialectPkg, "Tx")).Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values(jen.Dict{jen.Id(store): c().Dot("Tx").Call(jen.Id("tx"))})),
	)

	if t.Mutable() {
		mutations(f, t, recv, c, pk, ctx)
	}

	for _, fd := range t.ExistsFields() {
		method := fd.VariantName() + "IsExists"
		f.Line()
		f.Commentf("%s reports whether a %s other than exclude holds v in %q.", method, t.Name, fd.Name)
		f.Comment("A nil exclude checks every row.")
		f.Func().Params(recv()).Id(method).
			Params(ctx(), jen.Id("v").Add(goType(fd.Type)), jen.Id("exclude").Op("*").Add(pk())).
			Params(jen.Bool(), jen.Error()).
			Block(
				jen.Var().Id("pk").Any(),
				jen.If(jen.Id("exclude").Op("!=").Nil()).Block(jen.Id("pk").Op("=").Op("*").Id("exclude")),
				jen.Return(c().Dot("Exists").Call(jen.Id("ctx"), jen.Lit(fd.Name), jen.Id("v"), jen.Id("pk"))),
			)
	}

	if t.HasFind() {
		f.Line()
		f.Commentf("Find returns the %s matching f, or nil when no row matches.", t.Name)
		f.Func().Params(recv()).Id("Find").
			Params(ctx(), jen.Id("f").Id(t.FindFilterName())).
			Params(jen.Op("*").Id(t.Name), jen.Error()).
			Block(
				jen.List(jen.Id("filter"), jen.Err()).Op(":=").Id("f").Dot("filter").Call(c().Dot("Generator").Call().Dot("Find").Call()),
				jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
				jen.List(jen.Id("r"), jen.Err()).Op(":=").Add(c()).Dot("Find").Call(jen.Id("ctx"), jen.Id("filter")),
				jen.If(jen.Err().Op("!=").Nil().Op("||").Id("r").Op("==").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
				jen.Return(jen.Id(t.constructor()).Call(jen.Id("r")), jen.Nil()),
			)
	}

	f.Line()
	f.Commentf("List returns one page of the %s rows matching f.", t.Name)
	f.Func().Params(recv()).Id("List").
		Params(ctx(), jen.Id("f").Id(t.ListFilterName())).
		Params(jen.Op("*").Qual(queryPkg, "Paginate").Index(jen.Op("*").Id(t.Name)), jen.Error()).
		Block(
			jen.List(jen.Id("p"), jen.Err()).Op(":=").Add(c()).Dot("List").Call(jen.Id("ctx"), jen.Id("f").Dot("filter").Call()),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
			jen.Return(jen.Qual(queryPkg, "MapPaginate").Call(jen.Id("p"), jen.Id(t.constructor())), jen.Nil()),
		)

	f.Line()
	f.Commentf("ListAll returns the %s rows matching f, up to its limit.", t.Name)
	f.Func().Params(recv()).Id("ListAll").
		Params(ctx(), jen.Id("f").Id(t.ListAllFilterName())).
		Params(jen.Index().Op("*").Id(t.Name), jen.Error()).
		Block(
			jen.List(jen.Id("rs"), jen.Err()).Op(":=").Add(c()).Dot("ListAll").Call(jen.Id("ctx"), jen.Id("f").Dot("filter").Call()),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
			jen.Id("es").Op(":=").Make(jen.Index().Op("*").Id(t.Name), jen.Len(jen.Id("rs"))),
			jen.For(jen.List(jen.Id("i"), jen.Id("r")).Op(":=").Range().Id("rs")).Block(
				jen.Id("es").Index(jen.Id("i")).Op("=").Id(t.constructor()).Call(jen.Id("r")),
			),
			jen.Return(jen.Id("es"), jen.Nil()),
		)
}

// mutations builds insert, update, self-update and the delete methods.
func mutations(f *jen.File, t *Type, recv func() jen.Code, c, pk func() *jen.Statement, ctx func() jen.Code) {
	if len(t.InsertFields()) > 0 {
		f.Line()
		f.Comment("Insert inserts e and returns its primary key, which is also set on e.")
		f.Func().Params(recv()).Id("Insert").
			Params(ctx(), jen.Id("e").Op("*").Id(t.Name)).
			Params(jen.Id("id").Add(pk()), jen.Err().Error()).
			Block(
				jen.List(jen.Id("v"), jen.Err()).Op(":=").Add(c()).Dot("Insert").Call(jen.Id("ctx"), jen.Id("e").Dot("insertRecord").Call()),
				jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Id("id"), jen.Err())),
				jen.If(
					jen.List(jen.Id("id"), jen.Err()).Op("=").Qual(crudPkg, "Key").Index(pk()).Call(jen.Id("v")),
					jen.Err().Op("==").Nil(),
				).Block(
					jen.Id("e").Dot(t.ID.VariantName()).Op("=").Id("id"),
				),
				jen.Return(jen.Id("id"), jen.Err()),
			)
	}

	if fields := t.UpdateFields(); len(fields) > 0 {
		f.Line()
		f.Comment("Update writes the updatable fields of e to the row with its primary key")
		f.Comment("and returns the number of affected rows.")
		f.Func().Params(recv()).Id("Update").
			Params(ctx(), jen.Id("e").Op("*").Id(t.Name)).
			Params(jen.Int64(), jen.Error()).
			Block(jen.Return(c().Dot("Update").Call(jen.Id("ctx"), jen.Id("e").Dot("updateRecord").Call())))

		for _, fd := range t.SelfUpdateFields() {
			method := "Update" + fd.VariantName()
			f.Line()
			f.Commentf("%s sets the %q field of the row with primary key pk.", method, fd.Name)
			f.Func().Params(recv()).Id(method).
				Params(ctx(), jen.Id("v").Add(goType(fd.Type)), jen.Id("pk").Add(pk())).
				Params(jen.Int64(), jen.Error()).
				Block(jen.Return(c().Dot("UpdateField").Call(jen.Id("ctx"), jen.Lit(fd.Name), jen.Id("v"), jen.Id("pk"))))
		}
	}

	keyOp := func(method, call, doc string) {
		f.Line()
		f.Comment(doc)
		f.Func().Params(recv()).Id(method).
			Params(ctx(), jen.Id("pk").Add(pk())).
			Params(jen.Int64(), jen.Error()).
			Block(jen.Return(c().Dot(call).Call(jen.Id("ctx"), jen.Id("pk"))))
	}
	if t.SoftDelete != nil {
		keyOp("Del", "Delete", "Del marks the row with primary key pk as deleted.")
		keyOp("Restore", "Restore", "Restore clears the deleted mark of the row with primary key pk.")
	} else {
		keyOp("Del", "Delete", "Del deletes the row with primary key pk.")
	}
	keyOp("RealDel", "RealDelete", "RealDel removes the row with primary key pk.")
}

// clientFile builds the client bundling every entity client.
func (g *Generator) clientFile() *jen.File {
	f := g.w.newFile()
	var (
		members []jen.Code
		inits   []jen.Code
		txs     = jen.Dict{}
	)
	inits = append(inits,
		jen.Id("c").Op(":=").Op("&").Id("Client").Values(),
		jen.Var().Err().Error(),
	)
	for _, t := range g.graph.Nodes {
		members = append(members, jen.Id(t.Name).Op("*").Id(t.ClientName()))
		inits = append(inits, jen.If(
			jen.List(jen.Id("c").Dot(t.Name), jen.Err()).Op("=").Id("New"+t.ClientName()).Call(jen.Id("drv"), jen.Id("opts").Op("...")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Nil(), jen.Err())))
		txs[jen.Id(t.Name)] = jen.Id("c").Dot(t.Name).Dot("Tx").Call(jen.Id("tx"))
	}
	inits = append(inits, jen.Return(jen.Id("c"), jen.Nil()))

	f.Comment("Client holds the clients of every entity.")
	f.Type().Id("Client").Struct(members...)
	f.Line()
	f.Comment("NewClient returns the clients of every entity over drv.")
	f.Func().Id("NewClient").
		Params(jen.Id("drv").Qual(dialectPkg, "Driver"), jen.Id("opts").Op("...").Qual(crudPkg, "Option")).
		Params(jen.Op("*").Id("Client"), jen.Error()).
		Block(inits...)
	f.Line()
	f.Comment("Tx returns a copy of the client whose entity clients run in tx.")
	f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id("Tx").Params(jen.Id("tx").Qual(dialectPkg, "Tx")).Op("*").Id("Client").Block(
		jen.Return(jen.Op("&").Id("Client").Values(txs)),
	)
	return f
}
