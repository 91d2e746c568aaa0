package msftlod

import (
	"sync"
	"testing"
	"time"

	"github.com/solarlune/gltfext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initProgressive(t *testing.T, plan *LevelPlan, fetcher Fetcher, options *Options) (*Progressive, *gltfext.LOD) {
	t.Helper()
	p := NewProgressive(plan, fetcher, options)
	lod, err := p.Initialize()
	require.NoError(t, err)
	require.NotNil(t, lod)
	return p, lod
}

func TestProgressiveInitialize(t *testing.T) {
	fetcher := newTestFetcher()
	p, lod := initProgressive(t, testPlan(3), fetcher, nil)

	assert.Equal(t, 3, lod.LevelCount())
	assert.Len(t, lod.Children(), 3)
	assert.Equal(t, []State{NotStarted, NotStarted, Complete}, p.States())
	assert.Equal(t, []float64{0, 4, 16}, []float64{lod.Level(0).Distance, lod.Level(1).Distance, lod.Level(2).Distance})

	// Only the lowest level is fetched; the others hold clones of it.
	assert.Equal(t, 1, fetcher.callCount(2))
	assert.Equal(t, 0, fetcher.callCount(0))
	assert.Equal(t, 0, fetcher.callCount(1))
	assert.Same(t, fetcher.content(2), lod.Level(2).Object)
	for _, level := range []int{0, 1} {
		assert.Equal(t, "mesh2", meshName(lod, level))
		assert.NotSame(t, lod.Level(2).Object, lod.Level(level).Object)
	}

	assert.Equal(t, gltfext.LODController(p), lod.Controller())
	assert.Same(t, lod, p.LOD())
	assert.Same(t, lod, mustInitialize(t, p), "initializing again returns the same LOD")
}

func mustInitialize(t *testing.T, p *Progressive) *gltfext.LOD {
	lod, err := p.Initialize()
	require.NoError(t, err)
	return lod
}

func TestProgressiveActivateReplacesStandIns(t *testing.T) {
	fetcher := newTestFetcher()
	p, lod := initProgressive(t, testPlan(3), fetcher, nil)

	lod.Update(0)
	p.Wait()

	assert.Equal(t, []State{Complete, NotStarted, Complete}, p.States())
	assert.Same(t, fetcher.content(0), lod.Level(0).Object)

	// Level 1 hasn't been selected, but its stand-in is now a clone of the better level 0 content.
	assert.Equal(t, "mesh0", meshName(lod, 1))
	assert.NotSame(t, lod.Level(0).Object, lod.Level(1).Object)
	assert.Len(t, lod.Children(), 3)
}

func TestProgressiveStandInsOnlyImprove(t *testing.T) {
	fetcher := newTestFetcher()
	p, lod := initProgressive(t, testPlan(4), fetcher, nil)

	lod.Update(4)
	p.Wait()
	assert.Equal(t, "mesh1", meshName(lod, 0))

	lod.Update(16)
	p.Wait()
	assert.Equal(t, []State{NotStarted, Complete, Complete, Complete}, p.States())
	assert.Equal(t, "mesh1", meshName(lod, 0), "a lower detail level never replaces a better stand-in")
	assert.Equal(t, "mesh2", meshName(lod, 2))
}

func TestProgressiveActivateIsIdempotent(t *testing.T) {
	fetcher := newTestFetcher()
	fetcher.block(0)
	p, lod := initProgressive(t, testPlan(3), fetcher, nil)

	assert.True(t, p.Activate(0))
	assert.False(t, p.Activate(0))
	lod.Update(0)
	lod.Update(0)

	assert.Equal(t, Loading, p.State(0))

	fetcher.release(0)
	p.Wait()

	assert.Equal(t, 1, fetcher.callCount(0))
	assert.Equal(t, Complete, p.State(0))
	assert.False(t, p.Activate(0))
	assert.False(t, p.Activate(2), "the lowest level is never fetched again")
	assert.False(t, p.Activate(9))
	assert.Equal(t, 1, fetcher.callCount(2))
}

func TestProgressiveConcurrentActivation(t *testing.T) {
	fetcher := newTestFetcher()
	fetcher.block(1)
	p, lod := initProgressive(t, testPlan(3), fetcher, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Activate(1)
		}()
	}
	wg.Wait()

	fetcher.release(1)
	p.Wait()

	assert.Equal(t, 1, fetcher.callCount(1))
	assert.Same(t, fetcher.content(1), lod.Level(1).Object)
}

func TestProgressiveOneOccupantPerLevel(t *testing.T) {
	fetcher := newTestFetcher()
	fetcher.block(0)
	p, lod := initProgressive(t, testPlan(3), fetcher, nil)

	lod.Update(0)
	require.Equal(t, Loading, p.State(0))
	assert.Len(t, lod.Children(), 3)

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()

	fetcher.release(0)

	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		assert.Len(t, lod.Children(), 3)
		for _, level := range lod.Levels() {
			assert.NotNil(t, level.Object)
		}
	}

	assert.Len(t, lod.Children(), 3)
	assert.Same(t, fetcher.content(0), lod.Level(0).Object)
}

func TestProgressiveFailureIsRetried(t *testing.T) {
	fetcher := newTestFetcher()
	fetcher.fail(1, errBoom)

	var mu sync.Mutex
	events := []UpdateEvent{}
	options := DefaultOptions()
	options.OnUpdate = func(event UpdateEvent) {
		mu.Lock()
		events = append(events, event)
		mu.Unlock()
	}

	p, lod := initProgressive(t, testPlan(3), fetcher, options)

	lod.Update(5)
	p.Wait()

	assert.Equal(t, NotStarted, p.State(1))
	assert.Equal(t, "mesh2", meshName(lod, 1), "the stand-in stays in place")

	mu.Lock()
	require.Len(t, events, 4)
	last := events[3]
	mu.Unlock()
	assert.Equal(t, 1, last.Level)
	assert.ErrorIs(t, last.Err, errBoom)
	assert.Nil(t, last.Object)

	fetcher.fail(1, nil)
	lod.Update(5)
	p.Wait()

	assert.Equal(t, 2, fetcher.callCount(1))
	assert.Equal(t, Complete, p.State(1))
	assert.Same(t, fetcher.content(1), lod.Level(1).Object)
}

func TestProgressiveLowestLevelFailure(t *testing.T) {
	fetcher := newTestFetcher()
	fetcher.fail(2, errBoom)

	p := NewProgressive(testPlan(3), fetcher, nil)
	lod, err := p.Initialize()

	assert.ErrorIs(t, err, errBoom)
	assert.Nil(t, lod)
	assert.Nil(t, p.LOD())
}

func TestProgressiveInvalidPlan(t *testing.T) {
	_, err := NewProgressive(nil, newTestFetcher(), nil).Initialize()
	assert.ErrorIs(t, err, ErrNoLevels)

	_, err = NewProgressive(&LevelPlan{}, newTestFetcher(), nil).Initialize()
	assert.ErrorIs(t, err, ErrNoLevels)

	_, err = NewProgressive(testPlan(2), nil, nil).Initialize()
	assert.ErrorIs(t, err, ErrNoFetcher)
}

func TestProgressivePlaceholders(t *testing.T) {
	fetcher := newTestFetcher()
	p, lod := initProgressive(t, testPlan(3, 1), fetcher, nil)

	assert.Equal(t, []State{NotStarted, Complete, Complete}, p.States())
	assert.Equal(t, placeholderName, lod.Level(1).Object.Name())
	assert.Equal(t, gltfext.NodeTypeNode, lod.Level(1).Object.Type())
	assert.False(t, p.Activate(1))
	assert.Equal(t, 0, fetcher.callCount(-1))
}

func TestProgressiveHooks(t *testing.T) {
	fetcher := newTestFetcher()

	options := DefaultOptions()
	options.CalculateDistance = func(level, lowestLevel int, hints []float64) float64 {
		return []float64{3, 10, 5}[level]
	}
	options.OnLoadContent = func(lod *gltfext.LOD, content gltfext.INode, level, lowestLevel int) gltfext.INode {
		assert.Equal(t, 2, lowestLevel)
		content.Properties().Get("level").Set(level)
		return nil
	}

	updates := 0
	options.OnUpdate = func(event UpdateEvent) {
		updates++
	}

	_, lod := initProgressive(t, testPlan(3), fetcher, options)

	assert.Equal(t, []float64{3, 10, 10}, []float64{lod.Level(0).Distance, lod.Level(1).Distance, lod.Level(2).Distance})
	assert.Equal(t, 2, lod.Level(2).Object.Properties().Get("level").Value)
	assert.Equal(t, 3, updates)
	assert.Equal(t, 1, fetcher.finalized)
}

func TestProgressiveClone(t *testing.T) {
	fetcher := newTestFetcher()
	fetcher.block(1)
	p, lod := initProgressive(t, testPlan(3), fetcher, nil)

	require.True(t, p.Activate(1))

	clone := lod.Clone().(*gltfext.LOD)
	cloned, ok := clone.Controller().(*Progressive)
	require.True(t, ok)

	assert.NotEqual(t, p.ID(), cloned.ID())
	assert.Same(t, clone, cloned.LOD())
	assert.Equal(t, []State{NotStarted, NotStarted, Complete}, cloned.States(), "in-flight fetches aren't cloned")
	assert.Equal(t, Loading, p.State(1))

	clone.Update(0)
	cloned.Wait()

	assert.Equal(t, Complete, cloned.State(0))
	assert.Equal(t, NotStarted, p.State(0))
	assert.Equal(t, "mesh0", meshName(clone, 0))
	assert.Equal(t, "mesh0", meshName(clone, 1))
	assert.Equal(t, "mesh2", meshName(lod, 0))

	fetcher.release(1)
	p.Wait()

	assert.Equal(t, Complete, p.State(1))
	assert.Equal(t, NotStarted, cloned.State(1))
	assert.Equal(t, "mesh1", meshName(lod, 0))
	assert.Equal(t, "mesh0", meshName(clone, 1), "the original's fetch doesn't touch the clone")
}

func TestProgressiveCloneWhileFetching(t *testing.T) {
	fetcher := newTestFetcher()
	fetcher.block(1)
	p, lod := initProgressive(t, testPlan(3), fetcher, nil)

	require.True(t, p.Activate(1))

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()

	fetcher.release(1)

	check := func() State {
		clone := lod.Clone().(*gltfext.LOD)
		state := clone.Controller().(*Progressive).State(1)
		if state == Complete {
			assert.Equal(t, "mesh1", meshName(clone, 1), "a Complete level holds its own content")
		} else {
			assert.Equal(t, NotStarted, state)
			assert.Equal(t, "mesh2", meshName(clone, 1))
		}
		return state
	}

	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		check()
	}

	assert.Equal(t, Complete, check())
}

func TestProgressiveConcurrentInitialize(t *testing.T) {
	fetcher := newTestFetcher()
	fetcher.block(2)
	p := NewProgressive(testPlan(3), fetcher, nil)

	lods := make([]*gltfext.LOD, 8)

	var wg sync.WaitGroup
	for i := range lods {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lod, err := p.Initialize()
			assert.NoError(t, err)
			lods[i] = lod
		}()
	}

	assert.Eventually(t, func() bool {
		return fetcher.callCount(2) == 1
	}, time.Second, time.Millisecond)

	fetcher.release(2)
	wg.Wait()

	assert.Equal(t, 1, fetcher.callCount(2), "the lowest level is fetched once")
	require.NotNil(t, lods[0])
	for _, lod := range lods {
		assert.Same(t, lods[0], lod)
	}
}

func TestProgressiveMoveDuringSwap(t *testing.T) {
	fetcher := newTestFetcher()
	fetcher.block(0)
	p, lod := initProgressive(t, testPlan(3), fetcher, nil)

	lod.Update(0)
	require.Equal(t, Loading, p.State(0))

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()

	fetcher.release(0)

	x := 0.0
	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		x++
		lod.SetLocalPosition(x, 0, 0)
		lod.SetLocalScale(1, 1, 1)
		lod.SetName("moving")
	}

	assert.Same(t, fetcher.content(0), lod.Level(0).Object)
	for _, level := range lod.Levels() {
		assert.Equal(t, gltfext.INode(lod), level.Object.Parent())
		assert.Equal(t, x, level.Object.WorldPosition().X(), "level objects follow the LOD")
	}
}
