package gltfext

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
)

// NodeType represents a Node's type. Node types are categorized, and can be said to extend or "be of" more general types.
// For example, an LOD has a type of NodeTypeLOD, which can also be said to be NodeTypeNode (because every LOD is a Node).
type NodeType string

const (
	NodeTypeNode  NodeType = "Node"      // NodeTypeNode represents any generic node
	NodeTypeModel NodeType = "NodeModel" // NodeTypeModel represents specifically a Model
	NodeTypeLOD   NodeType = "NodeLOD"   // NodeTypeLOD represents specifically an LOD container
)

// Is returns true if a NodeType satisfies another NodeType category. A specific node type can be said to
// contain a more general one, but not vice-versa.
func (nt NodeType) Is(other NodeType) bool {
	if nt == other {
		return true
	}
	return strings.Contains(string(nt), string(other))
}

// INode represents an object that exists in 3D space and can be positioned relative to an origin point.
// Nodes can be parented to other Nodes to make their transforms successive. Models and LODs implement
// INode by means of embedding Node.
type INode interface {
	// Name returns the object's name.
	Name() string
	// ID returns the object's unique ID.
	ID() uint64
	// SetName sets the object's name.
	SetName(name string)
	// Clone returns a clone of the specified INode implementer.
	Clone() INode
	// Type returns the NodeType for this object.
	Type() NodeType

	setParent(INode)

	// Parent returns the Node's parent. If the Node has no parent, this will return nil.
	Parent() INode
	// Unparent unparents the Node from its parent, removing it from the scenegraph.
	Unparent()
	// Root returns the top-most node in this tree by recursively traversing this node's hierarchy of parents upwards.
	Root() INode
	// Index returns the index of the Node in its parent's children list, or -1 if it has no parent.
	Index() int

	// Children returns the Node's children as a NodeFilter.
	Children() NodeFilter
	// ChildrenRecursive returns the Node's recursive children (i.e. children, grandchildren, etc) as a NodeFilter.
	ChildrenRecursive() NodeFilter
	// SearchTree returns every node underneath this one, for filtering.
	SearchTree() NodeFilter
	// AddChildren parents the provided children Nodes to the calling Node. If the children are already
	// parented to other Nodes, they are unparented before doing so.
	AddChildren(...INode)
	// RemoveChildren removes the provided children from this object.
	RemoveChildren(...INode)

	dirtyTransform()

	// LocalPosition returns the object's position relative to its parent.
	LocalPosition() mgl64.Vec3
	// SetLocalPosition sets the object's position relative to its parent.
	SetLocalPosition(x, y, z float64)
	// LocalRotation returns the object's rotation relative to its parent.
	LocalRotation() mgl64.Quat
	// SetLocalRotation sets the object's rotation relative to its parent.
	SetLocalRotation(rotation mgl64.Quat)
	// LocalScale returns the object's scale relative to its parent.
	LocalScale() mgl64.Vec3
	// SetLocalScale sets the object's scale relative to its parent.
	SetLocalScale(x, y, z float64)
	// Transform returns the object's world transform, taking all parents into account.
	Transform() mgl64.Mat4
	// WorldPosition returns the node's world position, taking into account its parenting hierarchy.
	WorldPosition() mgl64.Vec3

	// Visible returns whether the Object is visible.
	Visible() bool
	// SetVisible sets the object's visibility. If recursive is true, all recursive children of this Node will have their visibility set the same way.
	SetVisible(visible, recursive bool)

	// Get searches a node's hierarchy using a slash-separated path of node names ("Room/Desk/Cup"); ".." goes up one level.
	Get(path string) INode
	// HierarchyAsString returns a string displaying the hierarchy of this Node, and all recursive children.
	HierarchyAsString() string

	// Properties returns this object's Properties, loaded from the glTF extras of the node it was built from.
	Properties() *Properties
}

var nodeID atomic.Uint64

// Node represents a minimal struct that fully implements the INode interface. Model and LOD embed Node
// into their structs to easily implement INode.
type Node struct {
	id               uint64
	name             string
	position         mgl64.Vec3
	scale            mgl64.Vec3
	rotation         mgl64.Quat
	visible          bool
	children         []INode
	parent           INode
	cachedTransform  mgl64.Mat4
	isTransformDirty bool
	props            *Properties
}

// NewNode returns a new Node.
func NewNode(name string) *Node {
	return &Node{
		id:               nodeID.Add(1),
		name:             name,
		scale:            mgl64.Vec3{1, 1, 1},
		rotation:         mgl64.QuatIdent(),
		children:         []INode{},
		visible:          true,
		isTransformDirty: true,
		props:            NewProperties(),
		cachedTransform:  mgl64.Ident4(),
	}
}

// ID returns the object's unique ID.
func (node *Node) ID() uint64 {
	return node.id
}

// Name returns the object's name.
func (node *Node) Name() string {
	return node.name
}

// SetName sets the object's name.
func (node *Node) SetName(name string) {
	node.name = name
}

// Type returns the NodeType for this object.
func (node *Node) Type() NodeType {
	return NodeTypeNode
}

// copyBase copies the transform, visibility and properties of the node into the destination.
// Children are not copied.
func (node *Node) copyBase(dst *Node) {
	dst.position = node.position
	dst.scale = node.scale
	dst.rotation = node.rotation
	dst.visible = node.visible
	dst.props = node.props.Clone()
	dst.isTransformDirty = true
}

// Clone returns a new Node with cloned children.
func (node *Node) Clone() INode {
	newNode := NewNode(node.name)
	node.copyBase(newNode)
	for _, child := range node.children {
		childClone := child.Clone()
		childClone.setParent(newNode)
		newNode.children = append(newNode.children, childClone)
	}
	return newNode
}

// Transform returns a Matrix4 indicating the global position, rotation, and scale of the object, transforming it by any parents'.
// If there's no change between the previous Transform() call and this one, Transform() will return a cached version of the
// transform for efficiency.
func (node *Node) Transform() mgl64.Mat4 {

	if !node.isTransformDirty {
		return node.cachedTransform
	}

	// T * R * S
	transform := mgl64.Translate3D(node.position.X(), node.position.Y(), node.position.Z())
	transform = transform.Mul4(node.rotation.Mat4())
	transform = transform.Mul4(mgl64.Scale3D(node.scale.X(), node.scale.Y(), node.scale.Z()))

	if node.parent != nil {
		transform = node.parent.Transform().Mul4(transform)
	}

	node.cachedTransform = transform
	node.isTransformDirty = false

	return transform

}

// dirtyTransform sets this Node and all recursive children's isTransformDirty flags to be true, indicating that they need to be
// rebuilt.
func (node *Node) dirtyTransform() {
	for _, child := range node.children {
		child.dirtyTransform()
	}
	node.isTransformDirty = true
}

// LocalPosition returns the object's position relative to its parent. If this object has no parent, the position is
// relative to world origin (0, 0, 0).
func (node *Node) LocalPosition() mgl64.Vec3 {
	return node.position
}

// SetLocalPosition sets the object's local position (position relative to its parent).
func (node *Node) SetLocalPosition(x, y, z float64) {
	node.position = mgl64.Vec3{x, y, z}
	node.dirtyTransform()
}

// LocalRotation returns the object's local rotation.
func (node *Node) LocalRotation() mgl64.Quat {
	return node.rotation
}

// SetLocalRotation sets the object's local rotation (relative to any parent).
func (node *Node) SetLocalRotation(rotation mgl64.Quat) {
	node.rotation = rotation.Normalize()
	node.dirtyTransform()
}

// LocalScale returns the object's local scale (scale relative to its parent).
func (node *Node) LocalScale() mgl64.Vec3 {
	return node.scale
}

// SetLocalScale sets the object's local scale (scale relative to its parent).
func (node *Node) SetLocalScale(x, y, z float64) {
	node.scale = mgl64.Vec3{x, y, z}
	node.dirtyTransform()
}

// WorldPosition returns the node's world position, taking into account its parenting hierarchy.
func (node *Node) WorldPosition() mgl64.Vec3 {
	return node.Transform().Col(3).Vec3()
}

// Parent returns the Node's parent. If the Node has no parent, this will return nil.
func (node *Node) Parent() INode {
	return node.parent
}

func (node *Node) setParent(parent INode) {
	node.parent = parent
	node.dirtyTransform()
}

// Root returns the top-most node in the tree by recursively traversing this node's hierarchy of parents upwards.
// If the node has no parent, Root returns nil; call it on a child to find the tree the child belongs to.
func (node *Node) Root() INode {
	if node.parent == nil {
		return nil
	}
	root := node.parent
	for root.Parent() != nil {
		root = root.Parent()
	}
	return root
}

// unparent removes child from whichever Node it is currently parented to.
func unparent(child INode) {
	if parent := child.Parent(); parent != nil {
		parent.RemoveChildren(child)
	}
}

// addChildren adds the children to the node, but sets their parent to be the parent node passed. This is done so children have the
// correct, specific Node as parent (i.e. the Model or LOD embedding this Node, rather than the Node itself).
func (node *Node) addChildren(parent INode, children ...INode) {
	for _, child := range children {
		unparent(child)
		child.setParent(parent)
		node.children = append(node.children, child)
	}
}

// AddChildren parents the provided children Nodes to the passed parent Node, inheriting its transformations and being under it in the scenegraph
// hierarchy. If the children are already parented to other Nodes, they are unparented before doing so.
func (node *Node) AddChildren(children ...INode) {
	node.addChildren(node, children...)
}

// RemoveChildren removes the provided children from this object.
func (node *Node) RemoveChildren(children ...INode) {
	for _, child := range children {
		for i, c := range node.children {
			if c == child {
				child.setParent(nil)
				node.children[i] = nil
				node.children = append(node.children[:i], node.children[i+1:]...)
				break
			}
		}
	}
}

// replaceChild swaps old for replacement at the same position in the children slice. It returns false if old isn't a child.
func (node *Node) replaceChild(parent INode, old, replacement INode) bool {
	for i, c := range node.children {
		if c == old {
			unparent(replacement)
			replacement.setParent(parent)
			node.children[i] = replacement
			old.setParent(nil)
			return true
		}
	}
	return false
}

// Unparent unparents the Node from its parent, removing it from the scenegraph. Types embedding Node override this
// so the parent removes the embedding type rather than the embedded Node.
func (node *Node) Unparent() {
	if node.parent != nil {
		node.parent.RemoveChildren(node)
	}
}

// Index returns the index of the Node in its parent's children list.
// If the node doesn't have a parent, its index will be -1.
func (node *Node) Index() int {
	if node.parent != nil {
		for i, c := range node.parent.Children() {
			if c.ID() == node.id {
				return i
			}
		}
	}
	return -1
}

// Children returns the Node's children.
func (node *Node) Children() NodeFilter {
	return append(make(NodeFilter, 0, len(node.children)), node.children...)
}

// ChildrenRecursive returns the Node's recursive children (i.e. children, grandchildren, etc)
// as a NodeFilter.
func (node *Node) ChildrenRecursive() NodeFilter {
	out := node.Children()
	for _, child := range node.children {
		out = append(out, child.ChildrenRecursive()...)
	}
	return out
}

// SearchTree returns a NodeFilter of every node underneath this one, ready to be narrowed down.
func (node *Node) SearchTree() NodeFilter {
	return node.ChildrenRecursive()
}

// Visible returns whether the Object is visible.
func (node *Node) Visible() bool {
	return node.visible
}

// SetVisible sets the object's visibility. If recursive is true, all recursive children of this Node will have their visibility set the same way.
func (node *Node) SetVisible(visible bool, recursive bool) {
	if recursive {
		for _, child := range node.ChildrenRecursive() {
			child.SetVisible(visible, false)
		}
	}
	node.visible = visible
}

// Properties returns the object's Properties.
func (node *Node) Properties() *Properties {
	return node.props
}

// HierarchyAsString returns a string displaying the hierarchy of this Node, and all recursive children.
// Every Node except the top-level one shows its type by means of a prefix ("MODEL" for Models, for example).
func (node *Node) HierarchyAsString() string {
	return hierarchyAsString(node)
}

func hierarchyAsString(start INode) string {

	var printNode func(node INode, level int) string

	printNode = func(node INode, level int) string {

		prefix := "ROOT"

		if level > 0 {
			nodeType := node.Type()
			if nodeType.Is(NodeTypeLOD) {
				prefix = "LOD"
			} else if nodeType.Is(NodeTypeModel) {
				prefix = "MODEL"
			} else {
				prefix = "NODE"
			}
		}

		str := ""

		for i := 0; i < level; i++ {
			str += "    |"
		}

		wp := node.WorldPosition()
		wpStr := "[" + strconv.FormatFloat(wp.X(), 'f', 2, 64) + ", " + strconv.FormatFloat(wp.Y(), 'f', 2, 64) + ", " + strconv.FormatFloat(wp.Z(), 'f', 2, 64) + "]"

		if level > 0 {
			str += "-"
		}
		str += " [" + prefix + "] " + node.Name() + " : " + wpStr + "\n"

		for _, child := range node.Children() {
			str += printNode(child, level+1)
		}

		return str
	}

	return printNode(start, 0)

}

// Get searches a node's hierarchy using a string to find a specified node. The path is in the format of names of nodes, separated by forward
// slashes ('/'), and is relative to the node you use to call Get. Note also that you can use "../" to
// "go up one" in the hierarchy.
func (node *Node) Get(path string) INode {
	return getPath(node, path)
}

func getPath(start INode, path string) INode {

	split := []string{}

	for _, s := range strings.Split(path, `/`) {
		if len(strings.TrimSpace(s)) > 0 {
			split = append(split, strings.TrimSpace(s))
		}
	}

	var search func(node INode) INode

	search = func(node INode) INode {

		if node == nil {
			return nil
		} else if len(split) == 0 {
			return node
		}

		if split[0] == ".." {
			split = split[1:]
			return search(node.Parent())
		}

		for _, child := range node.Children() {
			if child.Name() == split[0] {
				split = split[1:]
				return search(child)
			}
		}

		return nil

	}

	return search(start)

}
