package gltfext

import "github.com/qmuntal/gltf"

// Library represents the result of loading a glTF document: its Scenes, along with the Nodes, Meshes and Materials they were
// built from, indexed the way the document indexes them.
type Library struct {
	Scenes        []*Scene      // A slice of Scenes
	ExportedScene *Scene        // The scene the document marks as its default scene, if any
	Nodes         []INode       // Nodes by glTF node index; nodes not reachable from any scene are nil
	Meshes        map[int]*Mesh // Meshes by glTF mesh index
	Materials     []*Material   // Materials by glTF material index
	LODs          []*LOD        // LOD containers created by plugins while loading
	Document      *gltf.Document
}

// NewLibrary creates a new Library.
func NewLibrary() *Library {
	return &Library{
		Scenes: []*Scene{},
		Meshes: map[int]*Mesh{},
	}
}

// FindScene searches all scenes in a Library to find the one with the provided name. If a scene with the given name isn't found,
// FindScene will return nil.
func (lib *Library) FindScene(name string) *Scene {
	for _, scene := range lib.Scenes {
		if scene.Name == name {
			return scene
		}
	}
	return nil
}

// FindNode allows you to find a node by name by searching through each of a Library's scenes. If the Node with the given name isn't found,
// FindNode will return nil.
func (lib *Library) FindNode(objectName string) INode {
	for _, scene := range lib.Scenes {
		if n := scene.Root.SearchTree().ByName(objectName).First(); n != nil {
			return n
		}
	}
	return nil
}

// Node returns the Node built for the given glTF node index, or nil if there's none.
func (lib *Library) Node(index int) INode {
	if index < 0 || index >= len(lib.Nodes) {
		return nil
	}
	return lib.Nodes[index]
}
