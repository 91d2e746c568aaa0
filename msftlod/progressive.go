package msftlod

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/solarlune/gltfext"
)

// State is the loading state of a level of a progressively loaded LOD.
type State int

const (
	NotStarted State = iota
	Loading
	Complete
)

func (state State) String() string {
	switch state {
	case NotStarted:
		return "not started"
	case Loading:
		return "loading"
	case Complete:
		return "complete"
	}
	return "unknown"
}

type slot struct {
	state State
	// standIn is the level whose content the slot's occupant is a clone of, until the slot is Complete.
	standIn int
	cancel  func()
}

// Progressive loads the levels of an LOD on demand. Initialize attaches the lowest detail level to every level of the LOD;
// afterwards, the first time the LOD selects a level, the level's own content is fetched in the background and swapped in.
// A Progressive is the LODController of the LOD it initializes.
type Progressive struct {
	id      uuid.UUID
	plan    *LevelPlan
	fetcher Fetcher
	options *Options
	logger  *log.Logger

	initMu sync.Mutex

	mu    sync.Mutex
	lod   *gltfext.LOD
	slots []slot
	wg    sync.WaitGroup
}

// NewProgressive creates a Progressive for the given plan. Passing nil for options uses DefaultOptions().
func NewProgressive(plan *LevelPlan, fetcher Fetcher, options *Options) *Progressive {

	if options == nil {
		options = DefaultOptions()
	}

	id := uuid.New()

	name := ""
	if plan != nil {
		name = plan.Name
	}

	return &Progressive{
		id:      id,
		plan:    plan,
		fetcher: fetcher,
		options: options,
		logger:  gltfext.Logger().With("lod", name, "controller", id.String()),
	}

}

// ID returns the controller's unique ID.
func (p *Progressive) ID() uuid.UUID {
	return p.id
}

// Initialize fetches the lowest detail level, blocking until it's loaded, and returns the LOD with every level occupied:
// the lowest level by its content, placeholder levels by empty nodes, and every other level by a clone of the lowest
// level's content. If the lowest level can't be fetched, no LOD is returned. Calling Initialize again returns the
// same LOD.
func (p *Progressive) Initialize() (*gltfext.LOD, error) {

	if !p.plan.valid() {
		return nil, ErrNoLevels
	}

	// Concurrent calls wait for the first one, so the lowest level is only fetched once.
	p.initMu.Lock()
	defer p.initMu.Unlock()

	if lod := p.LOD(); lod != nil {
		return lod, nil
	}

	lowest := p.plan.LowestLevel
	distances := levelDistances(p.plan, p.options.distanceFunc())

	lod := gltfext.NewLOD(p.plan.Name)

	content, err := fetchLevel(p.fetcher, p.plan, p.options, lod, lowest)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to initialize %s", p.plan.Name)
	}

	slots := make([]slot, len(p.plan.Levels))
	events := make([]UpdateEvent, 0, len(slots))

	for i := range slots {

		var object gltfext.INode

		switch {
		case i == lowest:
			object = content
			slots[i].state = Complete
		case !p.plan.Levels[i].Async:
			object = gltfext.NewNode(placeholderName)
			slots[i].state = Complete
		default:
			object = content.Clone()
			slots[i].state = NotStarted
		}

		slots[i].standIn = lowest
		lod.AddLevel(object, distances[i])
		events = append(events, UpdateEvent{LOD: lod, Level: i, Object: object})

	}

	p.mu.Lock()

	p.lod = lod
	p.slots = slots
	for i := range p.slots {
		if p.slots[i].state == NotStarted {
			p.subscribe(i)
		}
	}

	p.mu.Unlock()

	lod.SetController(p)

	p.logger.Debug("initialized", "levels", len(slots), "distances", distances)

	p.options.emit(events...)

	return lod, nil

}

// subscribe arranges for the level to be fetched the first time the LOD selects it. p.mu must be held.
func (p *Progressive) subscribe(level int) {
	p.slots[level].cancel = p.lod.OnActivate(level, func(level int) {
		p.Activate(level)
	})
}

// Activate starts fetching the given level's content if it hasn't been fetched (or started being fetched) yet, returning
// true if it did. The level is marked Loading before Activate returns, so a level is never fetched twice at once.
// Activate is called automatically when the LOD selects a level.
func (p *Progressive) Activate(level int) bool {

	p.mu.Lock()

	if p.lod == nil || level < 0 || level >= len(p.slots) || p.slots[level].state != NotStarted {
		p.mu.Unlock()
		return false
	}

	p.slots[level].state = Loading
	if cancel := p.slots[level].cancel; cancel != nil {
		cancel()
		p.slots[level].cancel = nil
	}

	lod := p.lod
	p.wg.Add(1)

	p.mu.Unlock()

	p.logger.Debug("fetching level", "level", level)

	go p.load(lod, level)

	return true

}

func (p *Progressive) load(lod *gltfext.LOD, level int) {

	defer p.wg.Done()

	content, err := fetchLevel(p.fetcher, p.plan, p.options, lod, level)

	if err != nil {

		p.mu.Lock()
		if p.slots[level].state == Loading {
			p.slots[level].state = NotStarted
			p.subscribe(level)
		}
		p.mu.Unlock()

		p.logger.Warn("failed to fetch level; it will be retried when selected again", "level", level, "err", err)
		p.options.emit(UpdateEvent{LOD: lod, Level: level, Err: err})
		return

	}

	p.mu.Lock()

	// Stand-ins are cloned before the content is attached, as the render loop may touch it from then on.
	upgrades := map[int]gltfext.INode{}
	for j := range p.slots {
		if j != level && p.slots[j].state == NotStarted && p.slots[j].standIn > level {
			upgrades[j] = content.Clone()
		}
	}

	p.slots[level].state = Complete
	p.slots[level].standIn = level
	events := []UpdateEvent{{LOD: lod, Level: level, Object: content, Replaced: lod.ReplaceLevel(level, content)}}

	for j := range p.slots {
		clone, exists := upgrades[j]
		if !exists {
			continue
		}
		p.slots[j].standIn = level
		events = append(events, UpdateEvent{LOD: lod, Level: j, Object: clone, Replaced: lod.ReplaceLevel(j, clone)})
	}

	p.mu.Unlock()

	p.logger.Debug("level loaded", "level", level, "standInsUpgraded", len(upgrades))

	p.options.emit(events...)

}

// State returns the loading state of the given level. Out of range levels report NotStarted.
func (p *Progressive) State(level int) State {
	p.mu.Lock()
	defer p.mu.Unlock()
	if level < 0 || level >= len(p.slots) {
		return NotStarted
	}
	return p.slots[level].state
}

// States returns the loading state of every level.
func (p *Progressive) States() []State {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]State, len(p.slots))
	for i, s := range p.slots {
		out[i] = s.state
	}
	return out
}

// Wait blocks until every fetch started so far has finished.
func (p *Progressive) Wait() {
	p.wg.Wait()
}

// LOD returns the LOD driven by the controller, or nil before Initialize.
func (p *Progressive) LOD() *gltfext.LOD {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lod
}

// Plan returns the LevelPlan the controller loads.
func (p *Progressive) Plan() *LevelPlan {
	return p.plan
}

// CloneLOD returns a clone of the controller's LOD driven by a new Progressive. The clone is made while the controller's
// state is locked, so Complete levels hold their own content in the clone too; levels being fetched are NotStarted in the
// clone, as the fetch belongs to the original.
func (p *Progressive) CloneLOD(copyLOD func() *gltfext.LOD) *gltfext.LOD {

	p.mu.Lock()
	clone := copyLOD()
	slots := make([]slot, len(p.slots))
	for i, s := range p.slots {
		slots[i] = slot{state: s.state, standIn: s.standIn}
		if s.state == Loading {
			slots[i].state = NotStarted
		}
	}
	p.mu.Unlock()

	id := uuid.New()

	c := &Progressive{
		id:      id,
		plan:    p.plan,
		fetcher: p.fetcher,
		options: p.options,
		logger:  gltfext.Logger().With("lod", clone.Name(), "controller", id.String()),
		lod:     clone,
		slots:   slots,
	}

	c.mu.Lock()
	for i := range c.slots {
		if c.slots[i].state == NotStarted {
			c.subscribe(i)
		}
	}
	c.mu.Unlock()

	clone.SetController(c)

	return clone

}
