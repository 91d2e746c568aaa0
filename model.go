package gltfext

// Model represents a singular visual instantiation of a Mesh. A Mesh contains the vertex information (what to draw); a Model references
// the Mesh to place it with a specific position, rotation, and/or scale and a specific set of Materials (where and how to draw).
type Model struct {
	*Node
	Mesh         *Mesh
	Materials    []*Material // Materials holds one Material per part of the Mesh.
	MorphWeights []float64   // MorphWeights are the morph target influences of this instance of the Mesh.
}

// NewModel creates a new Model (or instance) of the Mesh and Name provided. Each part of the Mesh starts with no Material.
func NewModel(mesh *Mesh, name string) *Model {

	model := &Model{
		Node: NewNode(name),
		Mesh: mesh,
	}

	if mesh != nil {
		model.Materials = make([]*Material, len(mesh.Parts))
		if len(mesh.Weights) > 0 {
			model.MorphWeights = append([]float64{}, mesh.Weights...)
		}
	}

	return model

}

// Clone creates a clone of the Model. The Mesh is shared between the original and the clone; the Materials slice is not.
func (model *Model) Clone() INode {
	newModel := NewModel(model.Mesh, model.name)
	model.Node.copyBase(newModel.Node)
	newModel.Materials = append([]*Material{}, model.Materials...)
	newModel.MorphWeights = append([]float64(nil), model.MorphWeights...)
	for _, child := range model.children {
		newModel.AddChildren(child.Clone())
	}
	return newModel
}

// SetMaterial sets the Material used for every part of the Model's Mesh.
func (model *Model) SetMaterial(material *Material) {
	for i := range model.Materials {
		model.Materials[i] = material
	}
}

// AddChildren parents the provided children Nodes to the Model.
func (model *Model) AddChildren(children ...INode) {
	// We do this manually so that addChildren() parents the children to the Model, rather than to the Model.Node.
	model.addChildren(model, children...)
}

// Unparent unparents the Model from its parent, removing it from the scenegraph.
func (model *Model) Unparent() {
	unparent(model)
}

// Get searches the Model's hierarchy for the node at the given path.
func (model *Model) Get(path string) INode {
	return getPath(model, path)
}

// HierarchyAsString returns a string displaying the hierarchy of this Model, and all recursive children.
func (model *Model) HierarchyAsString() string {
	return hierarchyAsString(model)
}

// Type returns the NodeType for this object.
func (model *Model) Type() NodeType {
	return NodeTypeModel
}
