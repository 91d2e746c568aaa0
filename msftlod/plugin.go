package msftlod

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/solarlune/gltfext"
)

// Extension is the MSFT_lod plugin for the gltfext loader. Add it to GLTFLoadOptions.Plugins; nodes bearing the extension
// (or whose mesh uses materials bearing it) are then loaded as LODs and collected in Library.LODs.
type Extension struct {
	Options *Options

	mu      sync.Mutex
	created []*gltfext.LOD
}

// New creates a new Extension. Passing nil for options uses DefaultOptions().
func New(options *Options) *Extension {
	if options == nil {
		options = DefaultOptions()
	}
	return &Extension{Options: options}
}

// Name returns ExtensionName.
func (ext *Extension) Name() string {
	return ExtensionName
}

// ResolveLevelsForNode returns the LevelPlan of the given node of the document being parsed, or nil if LOD doesn't apply.
func (ext *Extension) ResolveLevelsForNode(parser *gltfext.Parser, nodeIndex int) *LevelPlan {
	return ResolveLevelsForNode(parser.Document(), nodeIndex)
}

// ResolveLevelsForMesh returns the material-level LevelPlan of the given mesh of the document being parsed, or nil.
func (ext *Extension) ResolveLevelsForMesh(parser *gltfext.Parser, meshIndex int) *LevelPlan {
	return ResolveLevelsForMesh(parser.Document(), meshIndex)
}

// CreateNodeMesh builds the LOD for the given node if the extension applies to it, using the configured loading mode.
func (ext *Extension) CreateNodeMesh(parser *gltfext.Parser, nodeIndex int) (gltfext.INode, error) {

	plan := ext.ResolveLevelsForNode(parser, nodeIndex)
	if plan == nil {
		return nil, nil
	}

	var lod *gltfext.LOD
	var err error

	switch ext.Options.LoadingMode {
	case LoadingModeProgressive:
		lod, err = NewProgressive(plan, parser, ext.Options).Initialize()
	default:
		lod, err = LoadAll(plan, parser, ext.Options.LoadingMode, ext.Options)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s of node %d", ExtensionName, nodeIndex)
	}

	ext.mu.Lock()
	ext.created = append(ext.created, lod)
	ext.mu.Unlock()

	gltfext.LogDebug("created LOD", "node", nodeIndex, "source", plan.Source, "levels", len(plan.Levels), "mode", ext.Options.LoadingMode)

	return lod, nil

}

// AfterRoot adds the LODs created while parsing to the library.
func (ext *Extension) AfterRoot(parser *gltfext.Parser, library *gltfext.Library) error {
	ext.mu.Lock()
	defer ext.mu.Unlock()
	library.LODs = append(library.LODs, ext.created...)
	ext.created = nil
	return nil
}
