package events

import "dbgengine/graph"

// unionFind is a disjoint-set forest over *graph.Variable. Classes are
// monotone: union only ever merges, and a variable once added is never
// removed, even after the node that produced it is pruned — a pruned
// variable's equivalence class is exactly what the bad-optimization
// checks (§4.F) need to compare against its replacement's class.
type unionFind struct {
	parent map[*graph.Variable]*graph.Variable
	rank   map[*graph.Variable]int
}

func newUnionFind() *unionFind {
	return &unionFind{
		parent: make(map[*graph.Variable]*graph.Variable),
		rank:   make(map[*graph.Variable]int),
	}
}

// add registers v as a singleton class if it is not already known.
func (u *unionFind) add(v *graph.Variable) {
	if _, ok := u.parent[v]; !ok {
		u.parent[v] = v
		u.rank[v] = 0
	}
}

// find returns the representative of v's class, path-compressing along
// the way. v must already be known to the union-find.
func (u *unionFind) find(v *graph.Variable) *graph.Variable {
	root := v
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for v != root {
		next := u.parent[v]
		u.parent[v] = root
		v = next
	}
	return root
}

// union merges the classes of a and b, adding either that is not yet
// known.
func (u *unionFind) union(a, b *graph.Variable) {
	u.add(a)
	u.add(b)
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
}

// equivalent reports whether a and b are in the same class. Either side
// not yet known is treated as its own singleton class.
func (u *unionFind) equivalent(a, b *graph.Variable) bool {
	if a == b {
		return true
	}
	u.add(a)
	u.add(b)
	return u.find(a) == u.find(b)
}
