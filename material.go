package gltfext

// Material represents the surface description of a glTF material. Only the data the loader and its plugins need
// is kept; textures are not decoded.
type Material struct {
	library     *Library    // library is a reference to the Library that this Material came from.
	Index       int         // Index is the material's index in the glTF document, or -1 if it was created through code.
	Name        string      // Name is the name of the Material.
	Color       Color       // Color is the base color factor of the Material.
	DoubleSided bool        // If DoubleSided is false, faces turned away from the camera aren't rendered.
	Properties  *Properties // Properties holds the glTF extras of the material definition.
}

// NewMaterial creates a new Material with the name given.
func NewMaterial(name string) *Material {
	return &Material{
		Index:      -1,
		Name:       name,
		Color:      NewColor(1, 1, 1, 1),
		Properties: NewProperties(),
	}
}

// Clone creates a clone of the specified Material.
func (material *Material) Clone() *Material {
	newMat := NewMaterial(material.Name)
	newMat.library = material.library
	newMat.Index = material.Index
	newMat.Color = material.Color
	newMat.DoubleSided = material.DoubleSided
	newMat.Properties = material.Properties.Clone()
	return newMat
}

// Library returns the Library from which this Material was loaded. If it was created through code, this function will return nil.
func (material *Material) Library() *Library {
	return material.library
}
