package gltfext

import (
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// LODLevel is a single level of an LOD: the object shown for it and the viewing distance from which it's selected.
type LODLevel struct {
	Distance float64
	Object   INode
}

// orderLevels returns a new slice holding the levels ordered by ascending distance. Levels with equal distances keep
// their relative order. The input slice is not modified.
func orderLevels(levels []LODLevel) []LODLevel {
	out := append(make([]LODLevel, 0, len(levels)), levels...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})
	return out
}

// LODController drives what occupies an LOD's levels over time (i.e. fetching higher detail content on demand).
type LODController interface {
	// CloneLOD returns a copy of the controller's LOD driven by a new, independent controller. copyLOD builds the copy
	// (levels and other children, no controller); CloneLOD must call it while its own state can't change, so the copied
	// occupants and the new controller's state agree.
	CloneLOD(copyLOD func() *LOD) *LOD
}

type activateHandler struct {
	level int
	fn    func(level int)
}

// LOD is a grouping Node holding one child object per level of detail. Given a viewing distance, it selects exactly one of
// those levels to be visible. Level objects can be swapped while a render loop is calling Update; each swap happens
// atomically with respect to selection, so no level is ever observed with zero or two objects.
type LOD struct {
	*Node

	mu            sync.RWMutex
	levels        []LODLevel
	current       int
	handlers      map[uint64]activateHandler
	nextHandlerID uint64
	controller    LODController

	// AutoUpdate indicates whether a render loop should call Update on this LOD every frame.
	AutoUpdate bool
}

// NewLOD creates a new, empty LOD container.
func NewLOD(name string) *LOD {
	return &LOD{
		Node:       NewNode(name),
		handlers:   map[uint64]activateHandler{},
		AutoUpdate: true,
	}
}

// Type returns the NodeType for this object.
func (lod *LOD) Type() NodeType {
	return NodeTypeLOD
}

// AddLevel adds an object as a new level, shown from the given viewing distance on. Levels are kept ordered by distance,
// so the index of the new level depends on its distance. The object is parented to the LOD.
func (lod *LOD) AddLevel(object INode, distance float64) {

	// Unparenting must happen before locking, as the object's parent may be this LOD.
	unparent(object)

	lod.mu.Lock()
	defer lod.mu.Unlock()

	lod.levels = orderLevels(append(lod.levels, LODLevel{Distance: distance, Object: object}))
	lod.Node.addChildren(lod, object)
	object.SetVisible(lod.levels[lod.current].Object == object, false)

}

// ReplaceLevel swaps the object occupying the given level for a new one, returning the previous object. The new object takes
// the old one's place in the LOD's children and inherits its visibility, in one step. If level is out of range, ReplaceLevel
// does nothing and returns nil.
func (lod *LOD) ReplaceLevel(level int, object INode) INode {

	unparent(object)

	lod.mu.Lock()
	defer lod.mu.Unlock()

	if level < 0 || level >= len(lod.levels) {
		return nil
	}

	old := lod.levels[level].Object
	if old == object {
		return old
	}

	if !lod.Node.replaceChild(lod, old, object) {
		lod.Node.addChildren(lod, object)
	}

	object.SetVisible(old.Visible(), false)
	lod.levels[level].Object = object

	return old

}

// Levels returns a copy of the LOD's levels, ordered by distance.
func (lod *LOD) Levels() []LODLevel {
	lod.mu.RLock()
	defer lod.mu.RUnlock()
	return append(make([]LODLevel, 0, len(lod.levels)), lod.levels...)
}

// Level returns the level at the given index. If the index is out of range, the returned level has a nil Object.
func (lod *LOD) Level(index int) LODLevel {
	lod.mu.RLock()
	defer lod.mu.RUnlock()
	if index < 0 || index >= len(lod.levels) {
		return LODLevel{}
	}
	return lod.levels[index]
}

// LevelCount returns the number of levels in the LOD.
func (lod *LOD) LevelCount() int {
	lod.mu.RLock()
	defer lod.mu.RUnlock()
	return len(lod.levels)
}

// CurrentLevel returns the index of the level selected by the last call to Update.
func (lod *LOD) CurrentLevel() int {
	lod.mu.RLock()
	defer lod.mu.RUnlock()
	return lod.current
}

// LevelForDistance returns the index of the level that would be selected for the given viewing distance: the last level
// whose distance is less than or equal to it. It returns -1 if the LOD has no levels.
func (lod *LOD) LevelForDistance(distance float64) int {
	lod.mu.RLock()
	defer lod.mu.RUnlock()
	return selectLevel(lod.levels, distance)
}

func selectLevel(levels []LODLevel, distance float64) int {
	if len(levels) == 0 {
		return -1
	}
	selected := 0
	for i := 1; i < len(levels); i++ {
		if distance >= levels[i].Distance {
			selected = i
		} else {
			break
		}
	}
	return selected
}

// Update selects the level to show for the given viewing distance, hides every other level, and then notifies the
// handlers subscribed to the selected level through OnActivate. Handlers are called after the LOD's internal lock is
// released, so they may modify the LOD.
func (lod *LOD) Update(distance float64) {

	lod.mu.Lock()

	selected := selectLevel(lod.levels, distance)
	if selected < 0 {
		lod.mu.Unlock()
		return
	}

	for i, level := range lod.levels {
		level.Object.SetVisible(i == selected, false)
	}

	lod.current = selected

	// Handlers are sorted by subscription order so they're called deterministically.
	ids := make([]uint64, 0, len(lod.handlers))
	for id, h := range lod.handlers {
		if h.level == selected {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(int), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, lod.handlers[id].fn)
	}

	lod.mu.Unlock()

	for _, fn := range fns {
		fn(selected)
	}

}

// UpdateFrom selects the level to show for a viewer at the given world position.
func (lod *LOD) UpdateFrom(viewPosition mgl64.Vec3) {
	lod.Update(viewPosition.Sub(lod.WorldPosition()).Len())
}

// OnActivate registers fn to be called whenever Update selects the given level. The returned function cancels the
// subscription; calling it more than once is harmless.
func (lod *LOD) OnActivate(level int, fn func(level int)) (cancel func()) {

	lod.mu.Lock()
	defer lod.mu.Unlock()

	id := lod.nextHandlerID
	lod.nextHandlerID++
	lod.handlers[id] = activateHandler{level: level, fn: fn}

	return func() {
		lod.mu.Lock()
		delete(lod.handlers, id)
		lod.mu.Unlock()
	}

}

// Controller returns the LODController driving this LOD, if any.
func (lod *LOD) Controller() LODController {
	lod.mu.RLock()
	defer lod.mu.RUnlock()
	return lod.controller
}

// SetController sets the LODController driving this LOD.
func (lod *LOD) SetController(controller LODController) {
	lod.mu.Lock()
	defer lod.mu.Unlock()
	lod.controller = controller
}

// Clone returns a new LOD holding clones of every level object and every other child. If the LOD has a controller, the clone
// gets its own, independent controller.
func (lod *LOD) Clone() INode {
	if controller := lod.Controller(); controller != nil {
		return controller.CloneLOD(lod.duplicate)
	}
	return lod.duplicate()
}

func (lod *LOD) duplicate() *LOD {

	lod.mu.RLock()
	defer lod.mu.RUnlock()

	newLOD := NewLOD(lod.name)
	lod.Node.copyBase(newLOD.Node)
	newLOD.AutoUpdate = lod.AutoUpdate
	newLOD.current = lod.current

	levelObjects := map[INode]bool{}
	for _, level := range lod.levels {
		levelObjects[level.Object] = true
		object := level.Object.Clone()
		newLOD.levels = append(newLOD.levels, LODLevel{Distance: level.Distance, Object: object})
		newLOD.Node.addChildren(newLOD, object)
	}

	for _, child := range lod.children {
		if !levelObjects[child] {
			newLOD.Node.addChildren(newLOD, child.Clone())
		}
	}

	return newLOD

}

// AddChildren parents the provided children Nodes to the LOD without making them levels.
func (lod *LOD) AddChildren(children ...INode) {
	for _, child := range children {
		unparent(child)
	}
	lod.mu.Lock()
	defer lod.mu.Unlock()
	lod.Node.addChildren(lod, children...)
}

// RemoveChildren removes the provided children from the LOD. Level objects can't be removed this way, as every level
// must always be occupied; use ReplaceLevel to swap them instead.
func (lod *LOD) RemoveChildren(children ...INode) {

	lod.mu.Lock()

	removed := []INode{}

	for _, child := range children {
		isLevel := false
		for _, level := range lod.levels {
			if level.Object == child {
				isLevel = true
				break
			}
		}
		if isLevel {
			LogWarn("cannot remove level object from LOD; use ReplaceLevel", "lod", lod.name, "object", child.Name())
			continue
		}
		removed = append(removed, child)
	}

	lod.Node.RemoveChildren(removed...)

	lod.mu.Unlock()

}

// Children returns the LOD's children, level objects included.
func (lod *LOD) Children() NodeFilter {
	lod.mu.RLock()
	defer lod.mu.RUnlock()
	return lod.Node.Children()
}

// ChildrenRecursive returns the LOD's recursive children.
func (lod *LOD) ChildrenRecursive() NodeFilter {
	out := lod.Children()
	for _, child := range lod.Children() {
		out = append(out, child.ChildrenRecursive()...)
	}
	return out
}

// SearchTree returns every node underneath the LOD.
func (lod *LOD) SearchTree() NodeFilter {
	return lod.ChildrenRecursive()
}

// Name returns the LOD's name.
func (lod *LOD) Name() string {
	lod.mu.RLock()
	defer lod.mu.RUnlock()
	return lod.name
}

// SetName sets the LOD's name.
func (lod *LOD) SetName(name string) {
	lod.mu.Lock()
	defer lod.mu.Unlock()
	lod.name = name
}

// The transform setters, setParent and dirtyTransform walk the LOD's children, so they hold the lock the same way level
// swaps do.

// SetLocalPosition sets the LOD's position relative to its parent.
func (lod *LOD) SetLocalPosition(x, y, z float64) {
	lod.mu.Lock()
	defer lod.mu.Unlock()
	lod.Node.SetLocalPosition(x, y, z)
}

// SetLocalRotation sets the LOD's rotation relative to its parent.
func (lod *LOD) SetLocalRotation(rotation mgl64.Quat) {
	lod.mu.Lock()
	defer lod.mu.Unlock()
	lod.Node.SetLocalRotation(rotation)
}

// SetLocalScale sets the LOD's scale relative to its parent.
func (lod *LOD) SetLocalScale(x, y, z float64) {
	lod.mu.Lock()
	defer lod.mu.Unlock()
	lod.Node.SetLocalScale(x, y, z)
}

func (lod *LOD) setParent(parent INode) {
	lod.mu.Lock()
	defer lod.mu.Unlock()
	lod.Node.setParent(parent)
}

func (lod *LOD) dirtyTransform() {
	lod.mu.Lock()
	defer lod.mu.Unlock()
	lod.Node.dirtyTransform()
}

// SetVisible sets the LOD's visibility. When recursive, only the LOD's non-level children are affected, as level
// visibility is controlled by Update.
func (lod *LOD) SetVisible(visible, recursive bool) {
	lod.visible = visible
	if !recursive {
		return
	}
	lod.mu.RLock()
	levelObjects := map[INode]bool{}
	for _, level := range lod.levels {
		levelObjects[level.Object] = true
	}
	children := lod.Node.Children()
	lod.mu.RUnlock()
	for _, child := range children {
		if !levelObjects[child] {
			child.SetVisible(visible, true)
		}
	}
}

// Unparent unparents the LOD from its parent, removing it from the scenegraph.
func (lod *LOD) Unparent() {
	unparent(lod)
}

// Get searches the LOD's hierarchy for the node at the given path.
func (lod *LOD) Get(path string) INode {
	return getPath(lod, path)
}

// HierarchyAsString returns a string displaying the hierarchy of this LOD, and all recursive children.
func (lod *LOD) HierarchyAsString() string {
	return hierarchyAsString(lod)
}
