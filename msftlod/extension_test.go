package msftlod

import (
	"testing"
	"time"

	"github.com/qmuntal/gltf"
	"github.com/solarlune/gltfext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFile = "../testdata/lod.gltf"

func loadTestFile(t *testing.T, options *Options) *gltfext.Library {
	t.Helper()
	loadOptions := gltfext.DefaultGLTFLoadOptions()
	loadOptions.Plugins = []gltfext.GLTFPlugin{New(options)}
	library, err := gltfext.LoadGLTFFile(testFile, loadOptions)
	require.NoError(t, err)
	return library
}

func materialName(lod *gltfext.LOD, level int) string {
	if model, ok := lod.Level(level).Object.(*gltfext.Model); ok && model.Materials[0] != nil {
		return model.Materials[0].Name
	}
	return ""
}

func TestExtensionDecodesPayload(t *testing.T) {
	doc, err := gltf.Open(testFile)
	require.NoError(t, err)

	def, ok := doc.Nodes[0].Extensions[ExtensionName].(*ExtensionDef)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, def.IDs)

	assert.Equal(t, ExtensionName, New(nil).Name())
}

func TestExtensionProgressive(t *testing.T) {
	library := loadTestFile(t, nil)

	require.Len(t, library.LODs, 2)

	torus, ok := library.Node(0).(*gltfext.LOD)
	require.True(t, ok)
	assert.Equal(t, "Torus", torus.Name())
	assert.Equal(t, -5.0, torus.LocalPosition().Z())
	assert.Equal(t, []float64{0, 2, 5}, []float64{torus.Level(0).Distance, torus.Level(1).Distance, torus.Level(2).Distance})

	torusController := torus.Controller().(*Progressive)
	assert.Equal(t, []State{NotStarted, NotStarted, Complete}, torusController.States())
	for level := 0; level < 3; level++ {
		assert.Equal(t, "TorusLow", meshName(torus, level))
	}

	crate, ok := library.Node(4).(*gltfext.LOD)
	require.True(t, ok)
	assert.Equal(t, 2.0, crate.LocalScale().X())
	crateController := crate.Controller().(*Progressive)
	assert.Equal(t, SourceMaterial, crateController.Plan().Source)
	for level := 0; level < 3; level++ {
		assert.Equal(t, "CrateMesh", meshName(crate, level))
		assert.Equal(t, "CrateLow", materialName(crate, level))
	}

	_, isModel := library.FindNode("Plain").(*gltfext.Model)
	assert.True(t, isModel)

	// The torus is right at the viewer; the crate is 5 units away, past its lowest level's distance.
	library.ExportedScene.UpdateLODs(0, 0, -5)
	torusController.Wait()
	crateController.Wait()

	assert.Equal(t, 0, torus.CurrentLevel())
	assert.Equal(t, 2, crate.CurrentLevel())
	assert.Equal(t, []State{Complete, NotStarted, Complete}, torusController.States())
	assert.Equal(t, "TorusHigh", meshName(torus, 0))
	assert.Equal(t, "TorusHigh", meshName(torus, 1))
	assert.Equal(t, []State{NotStarted, NotStarted, Complete}, crateController.States())

	library.ExportedScene.UpdateLODs(0, 0, 0)
	crateController.Wait()

	assert.Equal(t, Complete, crateController.State(0))
	assert.Equal(t, "CrateHigh", materialName(crate, 0))
	assert.Equal(t, "CrateHigh", materialName(crate, 1))
	assert.Equal(t, "CrateLow", materialName(crate, 2))
}

func TestExtensionEagerAll(t *testing.T) {
	options := DefaultOptions()
	options.LoadingMode = LoadingModeAll
	library := loadTestFile(t, options)

	torus := library.Node(0).(*gltfext.LOD)
	assert.Nil(t, torus.Controller())
	assert.Equal(t, "TorusHigh", meshName(torus, 0))
	assert.Equal(t, "TorusMid", meshName(torus, 1))
	assert.Equal(t, "TorusLow", meshName(torus, 2))

	crate := library.Node(4).(*gltfext.LOD)
	assert.Equal(t, "CrateHigh", materialName(crate, 0))
	assert.Equal(t, "CrateMid", materialName(crate, 1))
	assert.Equal(t, "CrateLow", materialName(crate, 2))
}

func TestExtensionEagerAny(t *testing.T) {
	options := DefaultOptions()
	options.LoadingMode = LoadingModeAny
	library := loadTestFile(t, options)

	require.Len(t, library.LODs, 2)
	for _, lod := range library.LODs {
		assert.Eventually(t, func() bool {
			return lod.LevelCount() == 3
		}, time.Second, 5*time.Millisecond)
	}
}

func TestExtensionFallsBackWhenLowestLevelFails(t *testing.T) {
	doc, err := gltf.Open(testFile)
	require.NoError(t, err)
	doc.Nodes[2].Mesh = index(99)

	loadOptions := gltfext.DefaultGLTFLoadOptions()
	loadOptions.Plugins = []gltfext.GLTFPlugin{New(nil)}

	library, err := gltfext.LoadGLTFDocument(doc, loadOptions)
	require.NoError(t, err)

	torus, ok := library.Node(0).(*gltfext.Model)
	require.True(t, ok, "the node is built the default way")
	assert.Equal(t, "TorusHigh", torus.Mesh.Name)
	assert.Len(t, library.LODs, 1)
}
