package gltfext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTreeWatcher(t *testing.T) {
	root := NewNode("root")
	lod := newTestLOD(0, 4)
	root.AddChildren(lod)

	added, removed := []string{}, []string{}
	watcher := NewTreeWatcher(root, func(node INode, isAdded bool) {
		if isAdded {
			added = append(added, node.Name())
		} else {
			removed = append(removed, node.Name())
		}
	})
	watcher.WatchFilter = func(node INode) bool {
		return node.Parent() == INode(lod)
	}

	watcher.Update()
	assert.ElementsMatch(t, []string{"level0", "level1"}, added)

	added = added[:0]
	lod.ReplaceLevel(1, NewNode("swapped"))
	watcher.Update()

	assert.Equal(t, []string{"swapped"}, added)
	assert.Equal(t, []string{"level1"}, removed)

	added, removed = added[:0], removed[:0]
	watcher.Update()
	assert.Empty(t, added)
	assert.Empty(t, removed)

	watcher.SetRoot(nil)
	watcher.Update()
	assert.ElementsMatch(t, []string{"level0", "swapped"}, removed)
}
