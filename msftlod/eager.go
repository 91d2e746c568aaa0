package msftlod

import (
	"github.com/pkg/errors"
	"github.com/solarlune/gltfext"
	"golang.org/x/sync/errgroup"
)

// LoadAll loads every level of the plan up front, concurrently, and returns the resulting LOD. Placeholder levels are
// attached immediately. With LoadingModeAll, LoadAll blocks until every level is loaded and fails if any of them fails.
// With LoadingModeAny, it returns as soon as one level is loaded; the remaining levels are attached when they land, and
// LoadAll only fails if every level fails. Levels are requested from the lowest detail up.
func LoadAll(plan *LevelPlan, fetcher Fetcher, mode LoadingMode, options *Options) (*gltfext.LOD, error) {

	if options == nil {
		options = DefaultOptions()
	}

	if !plan.valid() {
		return nil, ErrNoLevels
	}

	loader := &eagerLoader{
		plan:      plan,
		fetcher:   fetcher,
		options:   options,
		lod:       gltfext.NewLOD(plan.Name),
		distances: levelDistances(plan, options.distanceFunc()),
	}

	for level := plan.LowestLevel; level >= 0; level-- {
		if plan.Levels[level].Async {
			loader.pending = append(loader.pending, level)
		} else {
			loader.attach(level, gltfext.NewNode(placeholderName))
		}
	}

	switch mode {
	case LoadingModeAll:
		return loader.all()
	case LoadingModeAny:
		return loader.any()
	}

	return nil, errors.Errorf("LoadAll does not support loading mode %s", mode)

}

type eagerLoader struct {
	plan      *LevelPlan
	fetcher   Fetcher
	options   *Options
	lod       *gltfext.LOD
	distances []float64
	pending   []int
}

func (loader *eagerLoader) attach(level int, content gltfext.INode) {
	loader.lod.AddLevel(content, loader.distances[level])
	loader.options.emit(UpdateEvent{LOD: loader.lod, Level: level, Object: content})
}

func (loader *eagerLoader) fetch(level int) (gltfext.INode, error) {
	return fetchLevel(loader.fetcher, loader.plan, loader.options, loader.lod, level)
}

func (loader *eagerLoader) all() (*gltfext.LOD, error) {

	contents := make([]gltfext.INode, len(loader.plan.Levels))

	var group errgroup.Group

	for _, level := range loader.pending {
		group.Go(func() error {
			content, err := loader.fetch(level)
			if err != nil {
				return err
			}
			contents[level] = content
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, errors.Wrapf(err, "failed to load every level of %s", loader.plan.Name)
	}

	for _, level := range loader.pending {
		loader.attach(level, contents[level])
	}

	return loader.lod, nil

}

type fetchResult struct {
	level int
	err   error
}

func (loader *eagerLoader) any() (*gltfext.LOD, error) {

	if len(loader.pending) == 0 {
		return loader.lod, nil
	}

	// Buffered so fetches finishing after the first success never block.
	results := make(chan fetchResult, len(loader.pending))

	for _, level := range loader.pending {
		go func() {
			content, err := loader.fetch(level)
			if err == nil {
				loader.attach(level, content)
			} else {
				gltfext.LogWarn("failed to fetch level", "lod", loader.plan.Name, "level", level, "err", err)
				loader.options.emit(UpdateEvent{LOD: loader.lod, Level: level, Err: err})
			}
			results <- fetchResult{level: level, err: err}
		}()
	}

	var lastErr error

	for range loader.pending {
		result := <-results
		if result.err == nil {
			return loader.lod, nil
		}
		lastErr = result.err
	}

	return nil, errors.Wrapf(ErrAllFetchesFailed, "%s: %v", loader.plan.Name, lastErr)

}
