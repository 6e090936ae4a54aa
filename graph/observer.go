package graph

// Observer is the capability a graph exposes to anything that wants to
// react to rewrite events while the graph holds it only through this
// interface — the equivalence tracker in package events registers itself this
// way, avoiding the ownership cycle a tracker-owns-graph-owns-tracker
// design would create (see DESIGN.md, "cyclic observer wiring").
type Observer interface {
	OnImport(node *Node)
	OnPrune(node *Node)
	OnRewire(node *Node, inputIndex int, old, new *Variable, reason string)
}

// AddObserver registers an observer to be notified of subsequent
// Import/Prune/Rewire calls. Observers are not notified retroactively.
func (g *Graph) AddObserver(o Observer) {
	g.observers = append(g.observers, o)
}

// Import activates a node: it becomes part of the graph's active node
// set, its inputs are registered as clients, and every observer is
// notified. Importing a node that is already active is a no-op beyond
// the observer notification, matching Theano's re-import-on-undo path.
func (g *Graph) Import(node *Node) {
	active := false
	for _, n := range g.nodes {
		if n == node {
			active = true
			break
		}
	}
	if !active {
		for i, in := range node.Inputs {
			g.clients[in] = append(g.clients[in], Client{Node: node, InputIndex: i})
		}
		g.nodes = append(g.nodes, node)
	}
	for _, o := range g.observers {
		o.OnImport(node)
	}
}

// Prune deactivates a node. Its outputs remain exactly as they are —
// still reachable through Variable.Producer, still members of whatever
// equivalence class they were in — only the graph's active node set and
// client bookkeeping forget about it.
func (g *Graph) Prune(node *Node) {
	idx := -1
	for i, n := range g.nodes {
		if n == node {
			idx = i
			break
		}
	}
	if idx >= 0 {
		g.nodes = append(g.nodes[:idx], g.nodes[idx+1:]...)
	}
	for _, in := range node.Inputs {
		g.removeAllClients(in, node)
	}
	for _, o := range g.observers {
		o.OnPrune(node)
	}
}

// Rewire replaces the input at inputIndex of node with newVar, recording
// reason as the justification for the replacement. Client bookkeeping is
// updated for both the old and new variable, and every observer is
// notified so that the equivalence tracker can union old/new's classes
// and append to the reason chain.
func (g *Graph) Rewire(node *Node, inputIndex int, newVar *Variable, reason string) {
	old := node.Inputs[inputIndex]
	node.Inputs[inputIndex] = newVar
	g.removeClientAt(old, node, inputIndex)
	g.clients[newVar] = append(g.clients[newVar], Client{Node: node, InputIndex: inputIndex})
	for _, o := range g.observers {
		o.OnRewire(node, inputIndex, old, newVar, reason)
	}
}

// ReplaceOutput retargets every designated-output slot currently pointing
// at old to new. Rewriters that replace a node feeding a graph output
// call this alongside Rewire for old's remaining real clients, since a
// designated output is a pseudo-client (Client.Node == nil) and is not
// reachable through Rewire, which only ever touches a node's Inputs.
func (g *Graph) ReplaceOutput(old, new *Variable) {
	for i, o := range g.Outputs {
		if o == old {
			g.Outputs[i] = new
		}
	}
	g.removeAllClients(old, nil)
	g.clients[new] = append(g.clients[new], Client{Node: nil, InputIndex: -1})
}

// removeAllClients drops every (node, *) entry for v, used when a node is
// pruned entirely and may have consumed v on more than one input index.
func (g *Graph) removeAllClients(v *Variable, node *Node) {
	cs := g.clients[v]
	kept := cs[:0]
	for _, c := range cs {
		if c.Node != node {
			kept = append(kept, c)
		}
	}
	g.clients[v] = kept
}

// removeClientAt drops exactly the (node, inputIndex) entry for v,
// leaving any other input of node that also still consumes v untouched.
func (g *Graph) removeClientAt(v *Variable, node *Node, inputIndex int) {
	cs := g.clients[v]
	for i, c := range cs {
		if c.Node == node && c.InputIndex == inputIndex {
			g.clients[v] = append(cs[:i], cs[i+1:]...)
			return
		}
	}
}
