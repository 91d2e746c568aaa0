// Package msftlod implements the MSFT_lod glTF extension as a plugin for the gltfext loader. Nodes (or the materials of their
// meshes) carrying the extension are loaded as gltfext.LOD containers, either progressively (lowest detail first, higher
// details fetched once a level is first selected for display) or eagerly.
package msftlod

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

const (
	// ExtensionName is the name of the extension in glTF documents.
	ExtensionName = "MSFT_lod"
	// ScreenCoverageExtra is the extras key holding the screen coverage of each level of a node or material.
	ScreenCoverageExtra = "MSFT_screencoverage"
)

// ExtensionDef is the MSFT_lod payload of a node or material: the indices of the lower detail nodes or materials, from
// higher to lower detail.
type ExtensionDef struct {
	IDs []int `json:"ids"`
}

func init() {
	gltf.RegisterExtension(ExtensionName, Unmarshal)
}

// Unmarshal decodes the extension payload. It's registered with the glTF decoder for ExtensionName.
func Unmarshal(data []byte) (any, error) {
	def := new(ExtensionDef)
	if err := json.Unmarshal(data, def); err != nil {
		return nil, errors.Wrap(err, "failed to decode "+ExtensionName)
	}
	return def, nil
}

// definition returns the extension payload found in the given extensions, whatever form it was decoded (or built) in.
func definition(extensions gltf.Extensions) (*ExtensionDef, bool) {

	raw, exists := extensions[ExtensionName]
	if !exists || raw == nil {
		return nil, false
	}

	switch v := raw.(type) {
	case *ExtensionDef:
		return v, v != nil
	case ExtensionDef:
		return &v, true
	case json.RawMessage:
		return decodeDefinition(v)
	case []byte:
		return decodeDefinition(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, false
		}
		return decodeDefinition(data)
	}

}

func decodeDefinition(data []byte) (*ExtensionDef, bool) {
	def, err := Unmarshal(data)
	if err != nil {
		return nil, false
	}
	return def.(*ExtensionDef), true
}
