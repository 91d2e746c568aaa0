package msftlod

import (
	"github.com/pkg/errors"
	"github.com/solarlune/gltfext"
)

var (
	ErrNoLevels         = errors.New("level plan has no levels")
	ErrNoFetcher        = errors.New("no fetcher to load level content with")
	ErrAllFetchesFailed = errors.New("every level failed to load")
)

// Fetcher provides the content of LOD levels. *gltfext.Parser implements it.
type Fetcher interface {
	// GetLevelContent builds the content identified by the key. It may be called from several goroutines at once.
	GetLevelContent(key gltfext.ContentKey) (gltfext.INode, error)
	// FinalizeContent post-processes fetched content before it's attached.
	FinalizeContent(content gltfext.INode) gltfext.INode
}

// placeholderName is the name of the empty nodes standing for levels without content.
const placeholderName = "LODPlaceholder"

// fetchLevel builds the content of a level of the plan: an empty node for placeholder levels, or the finalized content
// fetched for the level's key, passed through the OnLoadContent hook.
func fetchLevel(fetcher Fetcher, plan *LevelPlan, options *Options, lod *gltfext.LOD, level int) (gltfext.INode, error) {

	lvl := plan.Levels[level]

	if !lvl.Async {
		return gltfext.NewNode(placeholderName), nil
	}

	if fetcher == nil {
		return nil, ErrNoFetcher
	}

	content, err := fetcher.GetLevelContent(lvl.Key)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch level %d of %s (node %d, mesh %d, material %d)", level, plan.Name, lvl.Key.Node, lvl.Key.Mesh, lvl.Key.Material)
	}

	if content == nil {
		return nil, errors.Errorf("no content for level %d of %s", level, plan.Name)
	}

	if finalized := fetcher.FinalizeContent(content); finalized != nil {
		content = finalized
	}

	if options.OnLoadContent != nil {
		if out := options.OnLoadContent(lod, content, level, plan.LowestLevel); out != nil {
			content = out
		}
	}

	return content, nil

}
