// Package graph implements the dataflow graph model of §3: variables,
// nodes (operator applications), clients, and the graph that owns them.
//
// Identity is by address throughout this package — a *Variable or *Node
// is never meaningfully compared across two independent graphs, except
// through the event/equivalence machinery in package events, which is
// deliberately identity-agnostic for that purpose.
package graph

import "dbgengine/values"

// Operator identifies the operator an application node invokes. The
// operator's actual reference/compiled implementations are an external
// collaborator (§6) consumed by package linker via an operator table
// keyed by Name — graph itself only needs enough to label nodes and
// compare them across independent optimizer runs (§3's event equality
// compares "operator handles" by this Name, not by Go identity).
type Operator interface {
	Name() string
}

// Variable is an abstract value produced by either a graph input or a
// node's output. Its Type supplies validity, approximate equality, deep
// copy, and aliasing (package values). Producer is nil for graph inputs.
type Variable struct {
	Name     string
	Type     values.Type
	Producer *Node
}

// Client is a (node, input-index) pair that consumes a Variable, or a
// designated-output pseudo-client when Node is nil.
type Client struct {
	Node       *Node
	InputIndex int
}

// IsOutput reports whether this client represents the graph treating the
// variable as one of its designated outputs, rather than a real operator
// input.
func (c Client) IsOutput() bool { return c.Node == nil }

// Node is one operator application: an ordered list of input variables,
// an ordered list of output variables, and the optional destroy/view
// declarations of §3.
//
// DestroyMap maps an output index to the input indices the operator may
// mutate in place to produce that output. ViewMap maps an output index
// to the input indices the output may alias. Both are nil/empty when the
// operator is pure.
type Node struct {
	Op         Operator
	Inputs     []*Variable
	Outputs    []*Variable
	DestroyMap map[int][]int
	ViewMap    map[int][]int
}

// DestroyedInputs returns the flattened set of input indices this node
// may mutate in place, across every declared output.
func (n *Node) DestroyedInputs() map[int]bool {
	out := make(map[int]bool)
	for _, idxs := range n.DestroyMap {
		for _, i := range idxs {
			out[i] = true
		}
	}
	return out
}

// Graph is a set of nodes plus designated input and output variables.
// Every variable is either a graph input or owned by exactly one node as
// its output (enforced by NewNode, which stamps Producer on each of its
// outputs).
type Graph struct {
	Inputs  []*Variable
	Outputs []*Variable

	nodes     []*Node
	clients   map[*Variable][]Client
	observers []Observer
}

// New creates a graph over the given designated inputs and outputs. The
// outputs are immediately registered as pseudo-clients of their
// variables, per §3.
func New(inputs, outputs []*Variable) *Graph {
	g := &Graph{
		Inputs:  inputs,
		Outputs: outputs,
		clients: make(map[*Variable][]Client),
	}
	for _, o := range outputs {
		g.clients[o] = append(g.clients[o], Client{Node: nil, InputIndex: -1})
	}
	return g
}

// NewNode constructs a node, stamping Producer on each output variable.
// The node is not yet part of any Graph, and its inputs are not yet
// registered as clients, until Import is called.
func NewNode(op Operator, inputs, outputs []*Variable, destroyMap, viewMap map[int][]int) *Node {
	n := &Node{Op: op, Inputs: inputs, Outputs: outputs, DestroyMap: destroyMap, ViewMap: viewMap}
	for _, o := range outputs {
		o.Producer = n
	}
	return n
}

// Nodes returns the graph's currently active nodes, in no particular
// order (use Topo for an evaluation order).
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Clients returns the clients of a variable: the (node, input-index)
// pairs among currently-active nodes that consume it, plus a pseudo
// client for each designated graph output it backs.
func (g *Graph) Clients(v *Variable) []Client {
	return append([]Client(nil), g.clients[v]...)
}
