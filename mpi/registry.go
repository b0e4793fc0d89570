// Package mpi is the SMPI-style deployment layer (§6 "MPI deployment
// layer"): a registry of named instances, each a group of actors
// sharing a communicator, tracked by the core only through the
// contract this package exposes — register/register_process/
// unregister_process/comm_world/universe_size.
package mpi

import (
	"fmt"
	"sort"
	"sync"

	"github.com/simkernel-go/simkernel/kernel"
)

// CommWorld is the communicator shared by every process of one
// instance: a fixed-size, rank-addressable view over the instance's
// actors (§6 "an instance is a named group of actors sharing a
// communicator").
type CommWorld struct {
	instanceID string
	size       int

	mu      sync.Mutex
	ranks   map[int]*kernel.Actor
}

// Size returns the communicator's fixed process count.
func (c *CommWorld) Size() int { return c.size }

// Rank returns the actor registered at rank r, or nil if that rank
// hasn't joined (or has already left) the communicator.
func (c *CommWorld) Rank(r int) *kernel.Actor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ranks[r]
}

// Ranks returns the currently-present rank numbers, sorted.
func (c *CommWorld) Ranks() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int, 0, len(c.ranks))
	for r := range c.ranks {
		out = append(out, r)
	}
	sort.Ints(out)
	return out
}

func (c *CommWorld) set(r int, a *kernel.Actor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ranks[r] = a
}

func (c *CommWorld) clear(r int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ranks, r)
}

// instance is one named deployment: the entry point every process of
// this instance runs, the number of processes the instance was
// registered for, its comm_world, and a finalization counter (§6
// "destroys comm_world when finalized_ranks == size").
type instance struct {
	name          string
	entry         kernel.ActorCode
	numProcesses  int
	comm          *CommWorld
	finalized     int
}

// Registry tracks every registered MPI instance for one simulation run
// (§6 MPI contract).
type Registry struct {
	mu        sync.Mutex
	instances map[string]*instance
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{instances: make(map[string]*instance)}
}

// Register declares a new named instance of numProcesses processes,
// each running entry. Fails if the name is already in use.
func (r *Registry) Register(name string, entry kernel.ActorCode, numProcesses int) error {
	if numProcesses <= 0 {
		return fmt.Errorf("mpi: %s: num_processes must be positive, got %d", name, numProcesses)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.instances[name]; exists {
		return fmt.Errorf("mpi: instance %q already registered", name)
	}
	r.instances[name] = &instance{
		name:         name,
		entry:        entry,
		numProcesses: numProcesses,
		comm:         &CommWorld{instanceID: name, size: numProcesses, ranks: make(map[int]*kernel.Actor)},
	}
	return nil
}

// RegisterProcess joins actor to instance's comm_world at rank,
// failing if the instance is unknown, the rank is out of range, or
// already occupied.
func (r *Registry) RegisterProcess(instanceID string, rank int, a *kernel.Actor) error {
	inst, err := r.lookup(instanceID)
	if err != nil {
		return err
	}
	if rank < 0 || rank >= inst.numProcesses {
		return fmt.Errorf("mpi: %s: rank %d out of range [0,%d)", instanceID, rank, inst.numProcesses)
	}
	if existing := inst.comm.Rank(rank); existing != nil {
		return fmt.Errorf("mpi: %s: rank %d already occupied by pid=%d", instanceID, rank, existing.PID())
	}
	inst.comm.set(rank, a)
	return nil
}

// UnregisterProcess removes actor's rank from instance's comm_world
// and bumps the finalization counter; once every process has
// finalized, comm_world is destroyed (§6).
func (r *Registry) UnregisterProcess(instanceID string, rank int) error {
	inst, err := r.lookup(instanceID)
	if err != nil {
		return err
	}
	inst.comm.clear(rank)

	r.mu.Lock()
	defer r.mu.Unlock()
	inst.finalized++
	if inst.finalized >= inst.numProcesses {
		delete(r.instances, instanceID)
	}
	return nil
}

// CommWorld returns instanceID's communicator, or nil if unregistered
// or already fully finalized.
func (r *Registry) CommWorld(instanceID string) *CommWorld {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[instanceID]
	if !ok {
		return nil
	}
	return inst.comm
}

// Entry returns the registered entry point for instanceID, so the
// deployment driver can spawn each rank's actor.
func (r *Registry) Entry(instanceID string) (kernel.ActorCode, int, error) {
	inst, err := r.lookup(instanceID)
	if err != nil {
		return nil, 0, err
	}
	return inst.entry, inst.numProcesses, nil
}

// UniverseSize returns the total process count across every currently
// registered instance (§6 universe_size()).
func (r *Registry) UniverseSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, inst := range r.instances {
		total += inst.numProcesses
	}
	return total
}

func (r *Registry) lookup(instanceID string) (*instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[instanceID]
	if !ok {
		return nil, fmt.Errorf("mpi: unknown instance %q", instanceID)
	}
	return inst, nil
}
