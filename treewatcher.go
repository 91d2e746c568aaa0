package gltfext

// TreeWatcher watches the tree underneath a root node for nodes being added or removed. It's polled rather than notified,
// so it sees the tree the way a render loop does: for example, the level occupants an LOD swapped in since the last frame.
type TreeWatcher struct {
	rootNode INode
	previous map[INode]struct{}
	// WatchFilter filters which nodes to watch. It's called for each node in the tree; if it returns true, the node is watched.
	WatchFilter func(node INode) bool
	// OnChange is called for every watched node that was added to (added is true) or removed from the tree since the last Update.
	OnChange func(node INode, added bool)
}

// NewTreeWatcher creates a new TreeWatcher for the tree underneath rootNode. The nodes in the tree when the first Update
// runs are reported as added.
func NewTreeWatcher(rootNode INode, onChange func(node INode, added bool)) *TreeWatcher {
	return &TreeWatcher{
		rootNode: rootNode,
		previous: map[INode]struct{}{},
		OnChange: onChange,
	}
}

// Update compares the tree with the one seen by the previous Update, reporting the differences through OnChange.
// It should be run once every frame.
func (watch *TreeWatcher) Update() {

	current := map[INode]struct{}{}

	if watch.rootNode != nil {
		watch.rootNode.SearchTree().ForEach(func(node INode) bool {
			if watch.WatchFilter == nil || watch.WatchFilter(node) {
				current[node] = struct{}{}
			}
			return true
		})
	}

	if watch.OnChange != nil {
		for node := range current {
			if _, existed := watch.previous[node]; !existed {
				watch.OnChange(node, true)
			}
		}
		for node := range watch.previous {
			if _, exists := current[node]; !exists {
				watch.OnChange(node, false)
			}
		}
	}

	watch.previous = current

}

// SetRoot sets the root Node to be watched. Nodes of the previous tree are reported as removed on the next Update.
func (watch *TreeWatcher) SetRoot(rootNode INode) {
	watch.rootNode = rootNode
}
