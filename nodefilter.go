package gltfext

// NodeFilter represents a collection of Nodes, typically gathered from a hierarchy through Node.Children(),
// Node.ChildrenRecursive() or Node.SearchTree(). The filtering functions return new NodeFilters, so they can be chained.
type NodeFilter []INode

// ByType returns a NodeFilter containing only the Nodes that satisfy the given NodeType category.
func (nf NodeFilter) ByType(nodeType NodeType) NodeFilter {
	out := make(NodeFilter, 0, len(nf))
	for _, node := range nf {
		if node.Type().Is(nodeType) {
			out = append(out, node)
		}
	}
	return out
}

// ByName returns a NodeFilter containing only the Nodes with the given name.
func (nf NodeFilter) ByName(name string) NodeFilter {
	out := make(NodeFilter, 0, len(nf))
	for _, node := range nf {
		if node.Name() == name {
			out = append(out, node)
		}
	}
	return out
}

// ByFunc returns a NodeFilter containing only the Nodes for which filter returns true.
func (nf NodeFilter) ByFunc(filter func(node INode) bool) NodeFilter {
	out := make(NodeFilter, 0, len(nf))
	for _, node := range nf {
		if filter(node) {
			out = append(out, node)
		}
	}
	return out
}

// First returns the first Node in the NodeFilter, or nil if it's empty.
func (nf NodeFilter) First() INode {
	if len(nf) == 0 {
		return nil
	}
	return nf[0]
}

// Last returns the last Node in the NodeFilter, or nil if it's empty.
func (nf NodeFilter) Last() INode {
	if len(nf) == 0 {
		return nil
	}
	return nf[len(nf)-1]
}

// Index returns the index of the given Node in the NodeFilter, or -1 if it's not present.
func (nf NodeFilter) Index(node INode) int {
	for i, n := range nf {
		if n == node {
			return i
		}
	}
	return -1
}

// Contains returns true if the NodeFilter contains the given Node.
func (nf NodeFilter) Contains(node INode) bool {
	return nf.Index(node) >= 0
}

// ForEach runs forEach on each Node in the NodeFilter, stopping early if forEach returns false.
func (nf NodeFilter) ForEach(forEach func(node INode) bool) {
	for _, node := range nf {
		if !forEach(node) {
			return
		}
	}
}

// LODs returns all LOD containers in the NodeFilter.
func (nf NodeFilter) LODs() []*LOD {
	out := []*LOD{}
	for _, node := range nf {
		if lod, ok := node.(*LOD); ok {
			out = append(out, lod)
		}
	}
	return out
}

// Models returns all Models in the NodeFilter.
func (nf NodeFilter) Models() []*Model {
	out := []*Model{}
	for _, node := range nf {
		if model, ok := node.(*Model); ok {
			out = append(out, model)
		}
	}
	return out
}
