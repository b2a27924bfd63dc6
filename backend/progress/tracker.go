package progress

import (
	"fmt"
	"sync"
)

// Snapshot is the presentation-facing view of one (user, roadmap) progress
// record after an engine operation or read.
type Snapshot struct {
	UserID             uint    `json:"user_id"`
	RoadmapID          uint    `json:"roadmap_id"`
	Completed          []uint  `json:"completed"`
	CurrentModuleID    *uint   `json:"current_module_id"`
	CurrentModuleTitle string  `json:"current_module_title,omitempty"`
	TotalModules       int     `json:"total_modules"`
	CompletionRate     float64 `json:"completion_rate"`
}

type lockKey struct {
	userID    uint
	roadmapID uint
}

// Tracker owns progress-record mutation. CompleteModule calls for the same
// (user, roadmap) are serialized with a keyed mutex so back-to-back
// completions are applied in the order initiated.
type Tracker struct {
	Enrollment EnrollmentStore
	Store      ProgressStore
	Broadcast  *Broadcaster

	mu    sync.Mutex
	locks map[lockKey]*sync.Mutex
}

func NewTracker(enrollment EnrollmentStore, store ProgressStore, broadcast *Broadcaster) *Tracker {
	return &Tracker{
		Enrollment: enrollment,
		Store:      store,
		Broadcast:  broadcast,
		locks:      make(map[lockKey]*sync.Mutex),
	}
}

func (t *Tracker) lock(userID, roadmapID uint) func() {
	key := lockKey{userID: userID, roadmapID: roadmapID}
	t.mu.Lock()
	l, ok := t.locks[key]
	if !ok {
		l = &sync.Mutex{}
		t.locks[key] = l
	}
	t.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// StartRoadmap creates the progress record for a new enrollment: empty
// completed set, pointer at the lowest-order module. Re-enrolling is a
// no-op that returns the existing record.
func (t *Tracker) StartRoadmap(userID, roadmapID uint) (*Snapshot, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	defer t.lock(userID, roadmapID)()

	modules := t.Enrollment.ListModules(roadmapID)
	if len(modules) == 0 {
		return nil, fmt.Errorf("roadmap %d has no modules: %w", roadmapID, ErrNotFound)
	}

	record, err := t.Store.Get(userID, roadmapID)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return t.snapshot(userID, roadmapID, modules, record.Completed), nil
	}

	current := nextModule(modules, nil)
	if err := t.Store.Put(userID, roadmapID, []uint{}, current); err != nil {
		return nil, err
	}

	snap := t.snapshot(userID, roadmapID, modules, nil)
	t.publish(snap)
	return snap, nil
}

// CompleteModule marks a module complete and recomputes the current-module
// pointer. Re-completing an already-completed module leaves the set
// unchanged but still re-derives and persists the pointer.
func (t *Tracker) CompleteModule(userID, roadmapID, moduleID uint) (*Snapshot, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	defer t.lock(userID, roadmapID)()

	modules := t.Enrollment.ListModules(roadmapID)
	if !containsModule(modules, moduleID) {
		return nil, fmt.Errorf("module %d in roadmap %d: %w", moduleID, roadmapID, ErrNotFound)
	}

	record, err := t.Store.Get(userID, roadmapID)
	if err != nil {
		return nil, err
	}

	var completed []uint
	if record != nil {
		completed = record.Completed
	}

	done := toSet(completed)
	if !done[moduleID] {
		completed = append(completed, moduleID)
		done[moduleID] = true
	}

	current := nextModule(modules, done)
	if err := t.Store.Put(userID, roadmapID, completed, current); err != nil {
		return nil, err
	}

	snap := t.snapshot(userID, roadmapID, modules, completed)
	t.publish(snap)
	return snap, nil
}

// Progress returns the current snapshot without mutating anything. A missing
// record reads as an empty completed set.
func (t *Tracker) Progress(userID, roadmapID uint) (*Snapshot, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	modules := t.Enrollment.ListModules(roadmapID)
	record, err := t.Store.Get(userID, roadmapID)
	if err != nil {
		return nil, err
	}

	var completed []uint
	if record != nil {
		completed = record.Completed
	}
	return t.snapshot(userID, roadmapID, modules, completed), nil
}

func (t *Tracker) snapshot(userID, roadmapID uint, modules []ModuleRef, completed []uint) *Snapshot {
	if completed == nil {
		completed = []uint{}
	}
	current := nextModule(modules, toSet(completed))

	snap := &Snapshot{
		UserID:          userID,
		RoadmapID:       roadmapID,
		Completed:       completed,
		CurrentModuleID: current,
		TotalModules:    len(modules),
	}
	if current != nil {
		snap.CurrentModuleTitle = t.Enrollment.ModuleTitle(roadmapID, *current)
	}
	if len(modules) > 0 {
		snap.CompletionRate = float64(len(completed)) / float64(len(modules)) * 100
	}
	return snap
}

func (t *Tracker) publish(snap *Snapshot) {
	if t.Broadcast != nil {
		t.Broadcast.Publish(snap.UserID, Event{Progress: snap})
	}
}

// nextModule returns the ID of the lowest-order module not in done, or nil
// when every module is completed. The module list is already ordered.
func nextModule(modules []ModuleRef, done map[uint]bool) *uint {
	for _, m := range modules {
		if !done[m.ID] {
			id := m.ID
			return &id
		}
	}
	return nil
}

func containsModule(modules []ModuleRef, moduleID uint) bool {
	for _, m := range modules {
		if m.ID == moduleID {
			return true
		}
	}
	return false
}

func toSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
