package inventory

import "sync"

// Registry owns the coordinators, one per (train, date).  The schedule
// loader populates it at startup; lookups after that vastly outnumber
// writes, hence the RWMutex.  Handing out coordinators through the registry
// keeps the shared inventory behind owned, lock-guarded objects instead of
// ambient globals.
type Registry struct {
	mu     sync.RWMutex
	trains map[registryKey]*Coordinator
}

type registryKey struct {
	TrainNo string
	Date    string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{trains: make(map[registryKey]*Coordinator)}
}

// Put registers a coordinator, replacing any previous one for the same
// train and date.
func (r *Registry) Put(co *Coordinator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trains[registryKey{TrainNo: co.TrainNo(), Date: co.Date()}] = co
}

// Get returns the coordinator for a train and date, or ErrTrainNotFound.
func (r *Registry) Get(trainNo, date string) (*Coordinator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	co, ok := r.trains[registryKey{TrainNo: trainNo, Date: date}]
	if !ok {
		return nil, ErrTrainNotFound
	}
	return co, nil
}

// Len reports how many train/date inventories are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.trains)
}
