package gltfext

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Dimensions represents the minimum and maximum spatial dimensions of a Mesh.
type Dimensions [2]mgl64.Vec3

// Max returns the maximum value from all of the axes in the Dimensions. For example, if the Dimensions have a min of [-1, -2, -2],
// and a max of [6, 1.5, 1], Max() will return 7, as it's the largest distance between all axes.
func (dim Dimensions) Max() float64 {
	return math.Max(math.Max(dim.Width(), dim.Height()), dim.Depth())
}

// Center returns the center point inbetween the two corners of the dimension set.
func (dim Dimensions) Center() mgl64.Vec3 {
	return dim[0].Add(dim[1]).Mul(0.5)
}

func (dim Dimensions) Width() float64 {
	return dim[1].X() - dim[0].X()
}

func (dim Dimensions) Height() float64 {
	return dim[1].Y() - dim[0].Y()
}

func (dim Dimensions) Depth() float64 {
	return dim[1].Z() - dim[0].Z()
}

// MeshPart holds the vertex data of a single glTF primitive.
type MeshPart struct {
	Positions     [][3]float32
	Normals       [][3]float32
	TexCoords     [][2]float32
	Indices       []uint32
	MaterialIndex int // MaterialIndex is the index of the material the primitive references, or -1 if it references none.
}

// Mesh represents the vertex information of a glTF mesh; Models reference Meshes to place them in the scene.
// Meshes are shared (not copied) between Model clones.
type Mesh struct {
	library    *Library
	Index      int // Index is the mesh's index in the glTF document, or -1 if it was created through code.
	Name       string
	Parts      []*MeshPart
	Weights    []float64 // Weights are the default morph target weights of the mesh.
	Dimensions Dimensions
	Properties *Properties
}

// NewMesh creates a new Mesh with the given name and parts.
func NewMesh(name string, parts ...*MeshPart) *Mesh {
	mesh := &Mesh{
		Index:      -1,
		Name:       name,
		Parts:      parts,
		Properties: NewProperties(),
	}
	mesh.UpdateBounds()
	return mesh
}

// UpdateBounds recalculates the Dimensions of the Mesh from the positions of all of its parts.
func (mesh *Mesh) UpdateBounds() {

	first := true

	for _, part := range mesh.Parts {
		for _, p := range part.Positions {
			v := mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
			if first {
				mesh.Dimensions = Dimensions{v, v}
				first = false
				continue
			}
			for axis := 0; axis < 3; axis++ {
				mesh.Dimensions[0][axis] = math.Min(mesh.Dimensions[0][axis], v[axis])
				mesh.Dimensions[1][axis] = math.Max(mesh.Dimensions[1][axis], v[axis])
			}
		}
	}

	if first {
		mesh.Dimensions = Dimensions{}
	}

}

// VertexCount returns the total number of vertices across all parts of the Mesh.
func (mesh *Mesh) VertexCount() int {
	count := 0
	for _, part := range mesh.Parts {
		count += len(part.Positions)
	}
	return count
}

// Library returns the Library from which this Mesh was loaded. If it was created through code, this function will return nil.
func (mesh *Mesh) Library() *Library {
	return mesh.library
}
