package gltfext

import (
	"bytes"
	"strconv"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

type GLTFLoadOptions struct {
	// Plugins are the glTF extension plugins consulted while loading, in order. The first NodeMeshCreator returning an object
	// for a node wins.
	Plugins []GLTFPlugin
	// OnFinalize is called on every piece of content the loader builds for a mesh (including level content fetched later on by
	// plugins), after the loader's own post-processing. The returned node is used in place of the given one.
	OnFinalize func(content INode) INode
}

// DefaultGLTFLoadOptions creates an instance of GLTFLoadOptions with some sensible defaults.
func DefaultGLTFLoadOptions() *GLTFLoadOptions {
	return &GLTFLoadOptions{
		Plugins: []GLTFPlugin{},
	}
}

// LoadGLTFFile loads a .gltf or .glb file from the filepath given, using a provided GLTFLoadOptions struct to alter how the file is loaded.
// Passing nil for loadOptions will load the file using default load options. External buffers are resolved relative to the file.
func LoadGLTFFile(path string, loadOptions *GLTFLoadOptions) (*Library, error) {

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open glTF file %q", path)
	}

	return LoadGLTFDocument(doc, loadOptions)

}

// LoadGLTFData loads a .gltf or .glb file from the byte data given, using a provided GLTFLoadOptions struct to alter how the file is loaded.
// Passing nil for loadOptions will load the file using default load options.
func LoadGLTFData(data []byte, loadOptions *GLTFLoadOptions) (*Library, error) {

	decoder := gltf.NewDecoder(bytes.NewReader(data))

	doc := new(gltf.Document)

	if err := decoder.Decode(doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode glTF data")
	}

	return LoadGLTFDocument(doc, loadOptions)

}

// LoadGLTFDocument builds a Library out of an already decoded glTF document.
func LoadGLTFDocument(doc *gltf.Document, loadOptions *GLTFLoadOptions) (*Library, error) {

	if doc == nil {
		return nil, ErrNilDocument
	}

	if loadOptions == nil {
		loadOptions = DefaultGLTFLoadOptions()
	}

	return newParser(doc, loadOptions).parse()

}

// Parser is the host side of the glTF extension-point protocol: it builds scene graph objects out of a glTF document and lets
// plugins take over the construction of specific nodes. Plugins use it to fetch level content; its content accessors are safe
// to call from multiple goroutines, including after loading has finished.
type Parser struct {
	doc     *gltf.Document
	options *GLTFLoadOptions
	library *Library

	mu              sync.Mutex
	meshes          map[int]*Mesh
	materials       map[int]*Material
	defaultMaterial *Material

	building map[int]bool
}

func newParser(doc *gltf.Document, options *GLTFLoadOptions) *Parser {
	library := NewLibrary()
	library.Document = doc
	return &Parser{
		doc:             doc,
		options:         options,
		library:         library,
		meshes:          map[int]*Mesh{},
		materials:       map[int]*Material{},
		defaultMaterial: NewMaterial("Default"),
		building:        map[int]bool{},
	}
}

// Document returns the glTF document being loaded. It must be treated as read-only.
func (p *Parser) Document() *gltf.Document {
	return p.doc
}

// Library returns the Library being built.
func (p *Parser) Library() *Library {
	return p.library
}

func (p *Parser) parse() (*Library, error) {

	doc := p.doc
	library := p.library

	library.Materials = make([]*Material, len(doc.Materials))
	for i := range doc.Materials {
		mat, err := p.Material(i)
		if err != nil {
			return nil, err
		}
		library.Materials[i] = mat
	}

	library.Nodes = make([]INode, len(doc.Nodes))

	for sceneIndex, gltfScene := range doc.Scenes {

		name := gltfScene.Name
		if name == "" {
			name = "Scene" + strconv.Itoa(sceneIndex)
		}

		scene := NewScene(name)
		scene.library = library
		scene.Root.Properties().LoadExtras(gltfScene.Extras)

		for _, nodeIndex := range gltfScene.Nodes {
			obj, err := p.buildNode(nodeIndex)
			if err != nil {
				return nil, err
			}
			scene.Root.AddChildren(obj)
		}

		library.Scenes = append(library.Scenes, scene)

	}

	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(library.Scenes) {
		library.ExportedScene = library.Scenes[*doc.Scene]
	} else if len(library.Scenes) > 0 {
		library.ExportedScene = library.Scenes[0]
	}

	for _, plugin := range p.options.Plugins {
		if finalizer, ok := plugin.(RootFinalizer); ok {
			if err := finalizer.AfterRoot(p, library); err != nil {
				return nil, errors.Wrapf(err, "plugin %s failed after root", plugin.Name())
			}
		}
	}

	p.mu.Lock()
	for index, mesh := range p.meshes {
		library.Meshes[index] = mesh
	}
	p.mu.Unlock()

	return library, nil

}

func (p *Parser) buildNode(index int) (INode, error) {

	if index < 0 || index >= len(p.doc.Nodes) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "node %d", index)
	}

	if p.building[index] || p.library.Nodes[index] != nil {
		return nil, errors.Errorf("node %d is referenced more than once in the scene hierarchy", index)
	}
	p.building[index] = true
	defer delete(p.building, index)

	def := p.doc.Nodes[index]

	var obj INode

	for _, plugin := range p.options.Plugins {
		creator, ok := plugin.(NodeMeshCreator)
		if !ok {
			continue
		}
		created, err := creator.CreateNodeMesh(p, index)
		if err != nil {
			LogWarn("plugin failed to create node; using default construction", "plugin", plugin.Name(), "node", index, "err", err)
			continue
		}
		if created != nil {
			obj = created
			break
		}
	}

	if obj == nil {
		var err error
		if obj, err = p.defaultNode(index); err != nil {
			return nil, err
		}
	}

	name := def.Name
	if name == "" {
		name = "Node" + strconv.Itoa(index)
	}
	obj.SetName(name)
	obj.Properties().LoadExtras(def.Extras)
	applyTransform(obj, def)

	p.library.Nodes[index] = obj

	for _, childIndex := range def.Children {
		child, err := p.buildNode(childIndex)
		if err != nil {
			return nil, err
		}
		obj.AddChildren(child)
	}

	return obj, nil

}

func (p *Parser) defaultNode(index int) (INode, error) {

	def := p.doc.Nodes[index]

	if def.Mesh == nil {
		return NewNode(def.Name), nil
	}

	content, err := p.GetLevelContent(ContentKey{Node: index, Mesh: *def.Mesh, Material: -1})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build node %d", index)
	}

	return p.FinalizeContent(content), nil

}

func applyTransform(obj INode, def *gltf.Node) {

	if def.Matrix != gltf.DefaultMatrix && def.Matrix != [16]float64{} {

		m := mgl64.Mat4(def.Matrix)
		translation := m.Col(3).Vec3()
		scale := mgl64.Vec3{m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()}

		rotation := mgl64.Ident4()
		for col := 0; col < 3; col++ {
			if scale[col] == 0 {
				continue
			}
			rotation.SetCol(col, m.Col(col).Mul(1/scale[col]))
		}
		rotation.SetCol(3, mgl64.Vec4{0, 0, 0, 1})

		obj.SetLocalPosition(translation.X(), translation.Y(), translation.Z())
		obj.SetLocalScale(scale.X(), scale.Y(), scale.Z())
		obj.SetLocalRotation(mgl64.Mat4ToQuat(rotation))
		return

	}

	t := def.TranslationOrDefault()
	obj.SetLocalPosition(t[0], t[1], t[2])

	s := def.ScaleOrDefault()
	obj.SetLocalScale(s[0], s[1], s[2])

	// glTF stores rotations as (x, y, z, w).
	r := def.RotationOrDefault()
	obj.SetLocalRotation(mgl64.Quat{W: r[3], V: mgl64.Vec3{r[0], r[1], r[2]}})

}

// GetLevelContent builds the content for the given key: a Model instantiating the key's Mesh, with every part using the key's
// Material if one is set, and the morph weights of the key's Node if it has any. Meshes and Materials are built once and
// shared by every Model referencing them.
func (p *Parser) GetLevelContent(key ContentKey) (INode, error) {

	if !key.HasMesh() {
		return nil, ErrNoMesh
	}

	mesh, err := p.Mesh(key.Mesh)
	if err != nil {
		return nil, err
	}

	model := NewModel(mesh, mesh.Name)

	for i, part := range mesh.Parts {
		if part.MaterialIndex < 0 {
			continue
		}
		if model.Materials[i], err = p.Material(part.MaterialIndex); err != nil {
			return nil, err
		}
	}

	if key.Material >= 0 {
		mat, err := p.Material(key.Material)
		if err != nil {
			return nil, err
		}
		model.SetMaterial(mat)
	}

	if key.Node >= 0 && key.Node < len(p.doc.Nodes) {
		if weights := p.doc.Nodes[key.Node].Weights; len(weights) > 0 {
			model.MorphWeights = append([]float64{}, weights...)
		}
	}

	return model, nil

}

// FinalizeContent post-processes content built by GetLevelContent before it's attached to the scene: every Model part without
// a Material gets the default Material, and then the OnFinalize load option is applied.
func (p *Parser) FinalizeContent(content INode) INode {

	if content == nil {
		return nil
	}

	models := append(NodeFilter{content}, content.ChildrenRecursive()...).Models()
	for _, model := range models {
		for i, mat := range model.Materials {
			if mat == nil {
				model.Materials[i] = p.defaultMaterial
			}
		}
	}

	if p.options.OnFinalize != nil {
		if finalized := p.options.OnFinalize(content); finalized != nil {
			return finalized
		}
	}

	return content

}

// Material returns the Material built for the given glTF material index.
func (p *Parser) Material(index int) (*Material, error) {

	if index < 0 || index >= len(p.doc.Materials) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "material %d", index)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if mat, exists := p.materials[index]; exists {
		return mat, nil
	}

	def := p.doc.Materials[index]

	mat := NewMaterial(def.Name)
	mat.library = p.library
	mat.Index = index
	mat.DoubleSided = def.DoubleSided
	mat.Properties.LoadExtras(def.Extras)

	if pbr := def.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		mat.Color = NewColorFromFactor(*pbr.BaseColorFactor)
	}

	p.materials[index] = mat

	return mat, nil

}

// Mesh returns the Mesh built for the given glTF mesh index, reading its vertex data on first use.
func (p *Parser) Mesh(index int) (*Mesh, error) {

	if index < 0 || index >= len(p.doc.Meshes) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "mesh %d", index)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if mesh, exists := p.meshes[index]; exists {
		return mesh, nil
	}

	def := p.doc.Meshes[index]

	name := def.Name
	if name == "" {
		name = "Mesh" + strconv.Itoa(index)
	}

	mesh := NewMesh(name)
	mesh.library = p.library
	mesh.Index = index
	mesh.Weights = append([]float64(nil), def.Weights...)
	mesh.Properties.LoadExtras(def.Extras)

	for primIndex, prim := range def.Primitives {
		part, err := p.readPrimitive(prim)
		if err != nil {
			return nil, errors.Wrapf(err, "mesh %d primitive %d", index, primIndex)
		}
		mesh.Parts = append(mesh.Parts, part)
	}

	mesh.UpdateBounds()

	p.meshes[index] = mesh

	return mesh, nil

}

func (p *Parser) accessor(index int) (*gltf.Accessor, error) {
	if index < 0 || index >= len(p.doc.Accessors) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "accessor %d", index)
	}
	return p.doc.Accessors[index], nil
}

func (p *Parser) readPrimitive(prim *gltf.Primitive) (*MeshPart, error) {

	part := &MeshPart{MaterialIndex: -1}

	if prim.Material != nil {
		part.MaterialIndex = *prim.Material
	}

	if index, exists := prim.Attributes[gltf.POSITION]; exists {
		acr, err := p.accessor(index)
		if err != nil {
			return nil, err
		}
		if part.Positions, err = modeler.ReadPosition(p.doc, acr, nil); err != nil {
			return nil, errors.Wrap(err, "failed to read positions")
		}
	}

	if index, exists := prim.Attributes[gltf.NORMAL]; exists {
		acr, err := p.accessor(index)
		if err != nil {
			return nil, err
		}
		if part.Normals, err = modeler.ReadNormal(p.doc, acr, nil); err != nil {
			return nil, errors.Wrap(err, "failed to read normals")
		}
	}

	if index, exists := prim.Attributes[gltf.TEXCOORD_0]; exists {
		acr, err := p.accessor(index)
		if err != nil {
			return nil, err
		}
		if part.TexCoords, err = modeler.ReadTextureCoord(p.doc, acr, nil); err != nil {
			return nil, errors.Wrap(err, "failed to read texture coordinates")
		}
	}

	if prim.Indices != nil {
		acr, err := p.accessor(*prim.Indices)
		if err != nil {
			return nil, err
		}
		if part.Indices, err = modeler.ReadIndices(p.doc, acr, nil); err != nil {
			return nil, errors.Wrap(err, "failed to read indices")
		}
	}

	return part, nil

}
