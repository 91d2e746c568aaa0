package msftlod

import (
	"strconv"

	"github.com/qmuntal/gltf"
	"github.com/solarlune/gltfext"
)

// Source indicates where the MSFT_lod extension of a LevelPlan was found.
type Source int

const (
	// SourceNode plans switch between the contents of several nodes.
	SourceNode Source = iota
	// SourceMaterial plans switch between instances of a single mesh using different materials.
	SourceMaterial
)

func (s Source) String() string {
	switch s {
	case SourceNode:
		return "node"
	case SourceMaterial:
		return "material"
	}
	return "unknown"
}

// Level is a single level of a LevelPlan.
type Level struct {
	Index int                // Index is the level's index, 0 being the highest detail.
	Async bool               // Async is true if the level's content has to be fetched; false for empty placeholders.
	Key   gltfext.ContentKey // Key identifies the level's content for the host.
}

// LevelPlan describes the levels of an LOD, from highest to lowest detail, as declared in the document.
type LevelPlan struct {
	Name        string
	Source      Source
	NodeIndex   int // NodeIndex is the index of the node bearing the LOD, or -1 for plans resolved from a mesh.
	MeshIndex   int // MeshIndex is the index of the mesh whose materials hold the extension, or -1 for node plans.
	Levels      []Level
	LowestLevel int
	Hints       []float64 // Hints are the screen coverage values declared for the levels, if any.
}

// Distances returns the distance of every level of the plan, computed with calc (ComputeDistance if nil).
func (plan *LevelPlan) Distances(calc DistanceFunc) []float64 {
	return levelDistances(plan, calc)
}

func (plan *LevelPlan) valid() bool {
	return plan != nil && len(plan.Levels) > 0 && plan.LowestLevel == len(plan.Levels)-1
}

// ResolveLevelsForNode returns the LevelPlan of the given node, or nil if LOD doesn't apply to it. Material-level LOD on the
// node's mesh takes precedence over node-level LOD; if that mesh has several primitives, material-level LOD is unsupported
// and no plan is returned at all.
func ResolveLevelsForNode(doc *gltf.Document, nodeIndex int) *LevelPlan {

	if doc == nil || nodeIndex < 0 || nodeIndex >= len(doc.Nodes) {
		return nil
	}

	nodeDef := doc.Nodes[nodeIndex]

	if nodeDef.Mesh != nil {
		plan, applies := resolveMaterialLevels(doc, *nodeDef.Mesh)
		if applies {
			if plan == nil {
				return nil
			}
			plan.NodeIndex = nodeIndex
			if nodeDef.Name != "" {
				plan.Name = nodeDef.Name
			}
			for i := range plan.Levels {
				plan.Levels[i].Key.Node = nodeIndex
			}
			return plan
		}
	}

	ext, exists := definition(nodeDef.Extensions)
	if !exists {
		return nil
	}

	indices := append([]int{nodeIndex}, ext.IDs...)

	plan := &LevelPlan{
		Name:        nodeDef.Name,
		Source:      SourceNode,
		NodeIndex:   nodeIndex,
		MeshIndex:   -1,
		LowestLevel: len(indices) - 1,
		Hints:       screenCoverage(nodeDef.Extras),
	}

	if plan.Name == "" {
		plan.Name = "LOD" + strconv.Itoa(nodeIndex)
	}

	hasMesh := false

	for level, index := range indices {

		if index < 0 || index >= len(doc.Nodes) {
			gltfext.LogDebug("ignoring "+ExtensionName+" with an out of range node", "node", nodeIndex, "id", index)
			return nil
		}

		key := gltfext.NewContentKey()
		key.Node = index

		levelDef := doc.Nodes[index]
		if levelDef.Mesh != nil {
			key.Mesh = *levelDef.Mesh
			hasMesh = true
		}

		plan.Levels = append(plan.Levels, Level{Index: level, Async: key.HasMesh(), Key: key})

	}

	if !hasMesh {
		gltfext.LogDebug("ignoring "+ExtensionName+" without any mesh", "node", nodeIndex)
		return nil
	}

	return plan

}

// ResolveLevelsForMesh returns the material-level LevelPlan of the given mesh, or nil if no material of the mesh bears the
// extension or if the mesh has more than one primitive.
func ResolveLevelsForMesh(doc *gltf.Document, meshIndex int) *LevelPlan {
	plan, _ := resolveMaterialLevels(doc, meshIndex)
	return plan
}

// resolveMaterialLevels also reports whether material-level LOD applies to the mesh at all, so callers can tell an
// unsupported mesh apart from a mesh without the extension.
func resolveMaterialLevels(doc *gltf.Document, meshIndex int) (*LevelPlan, bool) {

	if doc == nil || meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, false
	}

	meshDef := doc.Meshes[meshIndex]

	materialIndex := -1
	var ext *ExtensionDef

	for _, prim := range meshDef.Primitives {
		if prim.Material == nil || *prim.Material < 0 || *prim.Material >= len(doc.Materials) {
			continue
		}
		if def, exists := definition(doc.Materials[*prim.Material].Extensions); exists {
			materialIndex = *prim.Material
			ext = def
			break
		}
	}

	if ext == nil {
		return nil, false
	}

	if len(meshDef.Primitives) != 1 {
		gltfext.LogDebug("material "+ExtensionName+" is unsupported on meshes with several primitives", "mesh", meshIndex, "primitives", len(meshDef.Primitives))
		return nil, true
	}

	indices := append([]int{materialIndex}, ext.IDs...)

	plan := &LevelPlan{
		Name:        meshDef.Name,
		Source:      SourceMaterial,
		NodeIndex:   -1,
		MeshIndex:   meshIndex,
		LowestLevel: len(indices) - 1,
		Hints:       screenCoverage(doc.Materials[materialIndex].Extras),
	}

	if plan.Name == "" {
		plan.Name = "LOD" + strconv.Itoa(meshIndex)
	}

	for level, index := range indices {
		if index < 0 || index >= len(doc.Materials) {
			gltfext.LogDebug("ignoring "+ExtensionName+" with an out of range material", "material", materialIndex, "id", index)
			return nil, true
		}
		key := gltfext.NewContentKey()
		key.Mesh = meshIndex
		key.Material = index
		plan.Levels = append(plan.Levels, Level{Index: level, Async: true, Key: key})
	}

	return plan, true

}

func screenCoverage(extras any) []float64 {
	props := gltfext.NewPropertiesFromExtras(extras)
	if !props.Has(ScreenCoverageExtra) || !props.Get(ScreenCoverageExtra).IsFloat64Slice() {
		return nil
	}
	return props.Get(ScreenCoverageExtra).AsFloat64Slice()
}
