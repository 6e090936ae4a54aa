package graphscript

// Program is a sequence of declarations:
//
//	input x: Tensor1 = [1.0, 2.0]
//	input y: Tensor1 = [10.0, 20.0]
//	node z = add(x, y)
//	node w = neg_inplace(z) destroy(0)
//	output w
type Program struct {
	Decls []*Decl `@@*`
}

type Decl struct {
	Input  *InputDecl  `  @@`
	Node   *NodeDecl   `| @@`
	Output *OutputDecl `| @@`
}

type InputDecl struct {
	Name    string   `"input" @Ident ":"`
	Type    string   `@Ident`
	Literal *Literal `[ "=" @@ ]`
}

type Literal struct {
	Values []float64 `"[" @Number { "," @Number } "]"`
}

type NodeDecl struct {
	Name    string     `"node" @Ident "="`
	Op      string     `@Ident "("`
	Args    []string   `[ @Ident { "," @Ident } ] ")"`
	Destroy *MapClause `[ @@ ]`
	View    *MapClause `[ @@ ]`
}

// MapClause captures a destroy(...) or view(...) clause naming the
// input indices the node's sole output may mutate or alias.
type MapClause struct {
	Kind    string `@("destroy" | "view") "("`
	Indices []int  `[ @Number { "," @Number } ] ")"`
}

type OutputDecl struct {
	Name string `"output" @Ident`
}
