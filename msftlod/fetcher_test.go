package msftlod

import (
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"github.com/solarlune/gltfext"
)

var errBoom = errors.New("boom")

// testFetcher builds a Model named after the key's mesh for every request. Requests for a mesh can be made to fail or to
// block until released.
type testFetcher struct {
	mu        sync.Mutex
	calls     map[int]int
	failures  map[int]error
	gates     map[int]chan struct{}
	returned  map[int]gltfext.INode
	finalized int
}

func newTestFetcher() *testFetcher {
	return &testFetcher{
		calls:    map[int]int{},
		failures: map[int]error{},
		gates:    map[int]chan struct{}{},
		returned: map[int]gltfext.INode{},
	}
}

func (f *testFetcher) GetLevelContent(key gltfext.ContentKey) (gltfext.INode, error) {

	f.mu.Lock()
	f.calls[key.Mesh]++
	gate := f.gates[key.Mesh]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failures[key.Mesh]; err != nil {
		return nil, err
	}

	name := "mesh" + strconv.Itoa(key.Mesh)
	content := gltfext.NewModel(gltfext.NewMesh(name), "content"+strconv.Itoa(key.Mesh))
	f.returned[key.Mesh] = content
	return content, nil

}

func (f *testFetcher) FinalizeContent(content gltfext.INode) gltfext.INode {
	f.mu.Lock()
	f.finalized++
	f.mu.Unlock()
	return content
}

func (f *testFetcher) block(mesh int) {
	f.mu.Lock()
	f.gates[mesh] = make(chan struct{})
	f.mu.Unlock()
}

func (f *testFetcher) release(mesh int) {
	f.mu.Lock()
	close(f.gates[mesh])
	f.mu.Unlock()
}

func (f *testFetcher) fail(mesh int, err error) {
	f.mu.Lock()
	f.failures[mesh] = err
	f.mu.Unlock()
}

func (f *testFetcher) callCount(mesh int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[mesh]
}

func (f *testFetcher) content(mesh int) gltfext.INode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.returned[mesh]
}

// testPlan returns a node-level plan whose level i fetches mesh i. Levels listed in placeholders have no content.
func testPlan(levels int, placeholders ...int) *LevelPlan {
	plan := &LevelPlan{
		Name:        "test",
		Source:      SourceNode,
		NodeIndex:   0,
		MeshIndex:   -1,
		LowestLevel: levels - 1,
	}
	for i := 0; i < levels; i++ {
		key := gltfext.NewContentKey()
		key.Node = i
		key.Mesh = i
		for _, p := range placeholders {
			if p == i {
				key.Mesh = -1
			}
		}
		plan.Levels = append(plan.Levels, Level{Index: i, Async: key.HasMesh(), Key: key})
	}
	return plan
}

// meshName returns the name of the mesh instanced by the object occupying the given level.
func meshName(lod *gltfext.LOD, level int) string {
	if model, ok := lod.Level(level).Object.(*gltfext.Model); ok {
		return model.Mesh.Name
	}
	return ""
}
