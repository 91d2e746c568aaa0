package msftlod

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/solarlune/gltfext"
)

// LoadingMode selects how the levels of an LOD are loaded.
type LoadingMode int

const (
	// LoadingModeProgressive loads the lowest detail level first, fills every other level with a stand-in clone of it, and
	// fetches a level's own content the first time the LOD selects it.
	LoadingModeProgressive LoadingMode = iota
	// LoadingModeAll fetches every level concurrently and waits until all of them are loaded.
	LoadingModeAll
	// LoadingModeAny fetches every level concurrently and returns as soon as one of them is loaded; the others are attached
	// when they land.
	LoadingModeAny
)

func (mode LoadingMode) String() string {
	switch mode {
	case LoadingModeProgressive:
		return "progressive"
	case LoadingModeAll:
		return "all"
	case LoadingModeAny:
		return "any"
	}
	return "unknown"
}

// ParseLoadingMode returns the LoadingMode by the given name ("progressive", "all" or "any"; case insensitive).
func ParseLoadingMode(name string) (LoadingMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "progressive":
		return LoadingModeProgressive, nil
	case "all":
		return LoadingModeAll, nil
	case "any":
		return LoadingModeAny, nil
	}
	return LoadingModeProgressive, errors.Errorf("unknown loading mode %q", name)
}

// UpdateEvent describes a change to the levels of an LOD: content attached to (or replacing the content of) a level,
// or a failed fetch.
type UpdateEvent struct {
	LOD      *gltfext.LOD
	Level    int
	Object   gltfext.INode // Object is the content now occupying the level. It's nil for failed fetches.
	Replaced gltfext.INode // Replaced is the content that previously occupied the level, if any.
	Err      error         // Err is set if fetching the level's content failed.
}

type Options struct {
	LoadingMode LoadingMode

	// CalculateDistance replaces ComputeDistance if set. Its results are used as returned, except that a level's distance
	// is raised to the previous level's when it's lower (or NaN), so levels stay ordered by distance.
	CalculateDistance DistanceFunc

	// OnLoadContent is called with the content of each level after it's been fetched and finalized by the host, before
	// it's attached. If it returns a non-nil node, that node is attached instead.
	OnLoadContent func(lod *gltfext.LOD, content gltfext.INode, level, lowestLevel int) gltfext.INode

	// OnUpdate is called after every level attach or replacement, and for every failed fetch. It's never called while
	// internal locks are held, so it may freely use the LOD.
	OnUpdate func(event UpdateEvent)
}

// DefaultOptions returns Options loading LODs progressively with the default distance calculation.
func DefaultOptions() *Options {
	return &Options{
		LoadingMode: LoadingModeProgressive,
	}
}

func (options *Options) distanceFunc() DistanceFunc {
	if options.CalculateDistance != nil {
		return options.CalculateDistance
	}
	return ComputeDistance
}

func (options *Options) emit(events ...UpdateEvent) {
	if options.OnUpdate == nil {
		return
	}
	for _, event := range events {
		options.OnUpdate(event)
	}
}
