package engine

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/polarchain/core"
	"github.com/lixenwraith/polarchain/engine/fsm"
	"github.com/lixenwraith/polarchain/parameter"
)

// Scheduler drives the choreography and the simulation on a fixed tick
// Every mutation of the context happens on the scheduler goroutine or under RunSafe
type Scheduler struct {
	ctx  *Context
	fsm  *fsm.Machine[*Context]
	time TimeProvider

	tickInterval time.Duration
	lastTick     time.Time

	events  chan Event
	onFrame func()

	mu        sync.Mutex
	tickCount atomic.Uint64

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// NewScheduler creates a scheduler over ctx; tp defaults to the monotonic clock
func NewScheduler(ctx *Context, tickInterval time.Duration, tp TimeProvider) *Scheduler {
	if tp == nil {
		tp = NewMonotonicTimeProvider()
	}
	if tickInterval <= 0 {
		tickInterval = parameter.FrameUpdateInterval
	}
	return &Scheduler{
		ctx:          ctx,
		fsm:          fsm.NewMachine[*Context](),
		time:         tp,
		tickInterval: tickInterval,
		events:       make(chan Event, parameter.EventQueueSize),
		stopChan:     make(chan struct{}),
	}
}

// LoadScript registers the action vocabulary, compiles the choreography and enters initial states
// customPath overrides the embedded script when non-empty; must be called before Start()
func (s *Scheduler) LoadScript(customPath, embedded string) error {
	RegisterActions(s.fsm, s.ctx)
	s.fsm.OnTransition = s.recordTransition

	if err := fsm.LoadConfigAuto(s.fsm, customPath, embedded); err != nil {
		return fmt.Errorf("failed to load choreography: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fsm.Init(s.ctx); err != nil {
		return fmt.Errorf("failed to init choreography: %w", err)
	}
	s.ctx.publishField(s.ctx.World.ForceField())
	return nil
}

func (s *Scheduler) recordTransition(region, from, to string) {
	s.ctx.Status.Strings.Get("fsm." + region).Store(to)
	if from == "" {
		log.Printf("Region '%s' entered %s", region, to)
		return
	}
	log.Printf("Region '%s': %s -> %s", region, from, to)
}

// Machine exposes the choreography for inspection
func (s *Scheduler) Machine() *fsm.Machine[*Context] {
	return s.fsm
}

// Context returns the simulation context
func (s *Scheduler) Context() *Context {
	return s.ctx
}

// SetFrameHandler installs a callback invoked after every tick, must be called before Start()
func (s *Scheduler) SetFrameHandler(fn func()) {
	s.onFrame = fn
}

// Dispatch queues an event for the next tick without blocking
// Returns false if the queue is full and the event was dropped
func (s *Scheduler) Dispatch(ev Event) bool {
	select {
	case s.events <- ev:
		return true
	default:
		s.ctx.Status.Ints.Get("engine.dropped").Add(1)
		return false
	}
}

// RunSafe executes fn while holding the tick lock
func (s *Scheduler) RunSafe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// Tick advances one cycle by dt: events, choreography, then physics
func (s *Scheduler) Tick(dt time.Duration) {
	s.mu.Lock()
	s.drainEvents()
	s.fsm.Update(s.ctx, dt)
	s.ctx.World.Step(dt)
	s.updateMetrics()
	s.mu.Unlock()

	s.tickCount.Add(1)
	if s.onFrame != nil {
		s.onFrame()
	}
}

// Ticks returns the number of completed ticks
func (s *Scheduler) Ticks() uint64 {
	return s.tickCount.Load()
}

func (s *Scheduler) drainEvents() {
	for {
		select {
		case ev := <-s.events:
			s.handleEvent(ev)
		default:
			return
		}
	}
}

func (s *Scheduler) handleEvent(ev Event) {
	mouse := s.ctx.World.Mouse()
	switch ev.Kind {
	case EventTrigger:
		if !s.fsm.HandleEvent(s.ctx, ev.Name) {
			log.Printf("Event '%s' ignored: no region accepts it", ev.Name)
		}
	case EventMouseDown:
		mouse.Press(ev.Point)
	case EventMouseMove:
		mouse.Move(ev.Point)
	case EventMouseUp:
		mouse.Release()
	}
}

func (s *Scheduler) updateMetrics() {
	reg := s.ctx.Status
	w := s.ctx.World
	reg.Ints.Get("sim.steps").Store(int64(w.Steps()))
	reg.Ints.Get("sim.bodies").Store(int64(len(w.Bodies())))
	reg.Ints.Get("sim.constraints").Store(int64(len(w.Constraints())))
	for _, name := range s.ctx.ChainNames() {
		ch, _ := s.ctx.Chain(name)
		reg.Ints.Get("chain." + name + ".active").Store(int64(ch.ActiveCount()))
	}
	for _, region := range s.fsm.Regions() {
		reg.Ints.Get("fsm." + region + ".ms").Store(s.fsm.RegionTimeInState(region).Milliseconds())
	}
}

// Start begins the scheduler loop
func (s *Scheduler) Start() {
	if s.running.CompareAndSwap(false, true) {
		s.wg.Add(1)
		core.Go(s.loop)
	}
}

// Stop halts the scheduler loop and waits for the in-flight tick
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		if s.running.CompareAndSwap(true, false) {
			close(s.stopChan)
			s.wg.Wait()
		}
	})
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	s.lastTick = s.time.Now()
	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			now := s.time.Now()
			dt := frameDelta(s.lastTick, now, parameter.MaxFrameDelta)
			s.lastTick = now
			s.Tick(dt)
		}
	}
}
