package gltfext

// GLTFPlugin is an extension to the glTF loader. Plugins hook into loading by additionally implementing any of the
// extension-point interfaces below; the loader checks for each of them through type assertions.
type GLTFPlugin interface {
	// Name returns the name of the glTF extension the plugin handles (i.e. "MSFT_lod").
	Name() string
}

// NodeMeshCreator is implemented by plugins that may construct the object for a node themselves.
// CreateNodeMesh returns a nil INode (and nil error) when the plugin doesn't apply to the node. When it returns an error,
// the loader logs it and builds the node the default way.
type NodeMeshCreator interface {
	CreateNodeMesh(parser *Parser, nodeIndex int) (INode, error)
}

// RootFinalizer is implemented by plugins that need to run once every scene of the document has been built.
type RootFinalizer interface {
	AfterRoot(parser *Parser, library *Library) error
}

// ContentKey identifies a piece of level content the host can build: the Mesh to instantiate, an optional Material
// to use for every part of it, and an optional Node whose definition supplies morph weights. Unused fields are -1.
type ContentKey struct {
	Node     int
	Mesh     int
	Material int
}

// NewContentKey returns a ContentKey with every field unset.
func NewContentKey() ContentKey {
	return ContentKey{Node: -1, Mesh: -1, Material: -1}
}

// HasMesh returns true if the key references a Mesh, i.e. if there's content to fetch for it.
func (key ContentKey) HasMesh() bool {
	return key.Mesh >= 0
}
