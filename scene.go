package gltfext

import "github.com/go-gl/mathgl/mgl64"

// Scene represents a glTF scene: a named root Node under which the scene's top-level nodes are parented.
type Scene struct {
	Name    string
	Root    *Node
	library *Library
}

// NewScene creates a new, empty Scene.
func NewScene(name string) *Scene {
	return &Scene{
		Name: name,
		Root: NewNode("Root"),
	}
}

// Library returns the Library from which this Scene was loaded. If it was created through code, this will be nil.
func (scene *Scene) Library() *Library {
	return scene.library
}

// LODs returns every LOD container in the Scene.
func (scene *Scene) LODs() []*LOD {
	return scene.Root.SearchTree().LODs()
}

// UpdateLODs selects the level of every auto-updating LOD in the Scene for a viewer at the given world position.
func (scene *Scene) UpdateLODs(viewX, viewY, viewZ float64) {
	for _, lod := range scene.LODs() {
		if lod.AutoUpdate {
			lod.UpdateFrom(mgl64.Vec3{viewX, viewY, viewZ})
		}
	}
}
