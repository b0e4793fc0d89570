package liveness

import (
	"fmt"
	"strings"

	"github.com/simkernel-go/simkernel/state"
)

// Move identifies one member of the interleave set at a given point:
// the actor whose pending simcall maestro would next answer, rendered
// for trace output (§4.5: "the simcall queue as the transition
// space"). Invisible activities (the placeholder Exec backing a bare
// suspend(), per §9 Open Question #2) must never appear here.
type Move struct {
	ActorPID uint64
	Simcall  string
}

func (m Move) String() string {
	return fmt.Sprintf("pid=%d %s", m.ActorPID, m.Simcall)
}

// Session is the checked application's state-transition interface:
// the checker drives it entirely from maestro's natural hand-off
// points (§4.5).
type Session interface {
	// RestoreInitialState resets the application (and the maestro it
	// wraps) to t=0, ready for a fresh Observe/Execute sequence.
	RestoreInitialState() error
	// Observe captures the current state without advancing it: used
	// once, to seed the root Pair.
	Observe() (snap state.Snapshot, props map[string]bool, err error)
	// Enabled returns the current interleave set.
	Enabled() []Move
	// Execute advances the application by exactly the chosen Move and
	// returns the resulting snapshot and propositions vector.
	Execute(m Move) (snap state.Snapshot, props map[string]bool, err error)
}

// Checkpointer is an optional Session capability: when present, the
// checker snapshots app memory at a configurable interval so
// backtracking can restore directly instead of always replaying from
// the root (§4.5 "Replay").
type Checkpointer interface {
	Checkpoint() (any, error)
	Restore(ckpt any) error
}

// CounterExample is the textual/structural report emitted on a
// detected acceptance cycle (§4.5 "Counter-example reporting").
type CounterExample struct {
	Depth int
	Trail []Move // the full record path from the root
	Cycle []Move // the path from the revisited pair back to itself
}

// Trace renders one line per executed move, per §4.5's "textual trace
// (each pair's executed simcall rendered with its arguments)".
func (ce *CounterExample) Trace() string {
	var b strings.Builder
	fmt.Fprintf(&b, "liveness violation at depth %d\n", ce.Depth)
	for i, m := range ce.Trail {
		fmt.Fprintf(&b, "  [%d] %s\n", i, m)
	}
	if len(ce.Cycle) > 0 {
		b.WriteString("acceptance cycle:\n")
		for i, m := range ce.Cycle {
			fmt.Fprintf(&b, "  (%d) %s\n", i, m)
		}
	}
	return b.String()
}

// Checker implements the §4.5 nested-DFS liveness algorithm over the
// product of application states and a Büchi property automaton.
type Checker struct {
	session   Session
	automaton *Automaton

	visited    *pairSet
	acceptance *pairSet

	maxVisited         int
	checkpointInterval int

	nextNum     int
	trail       []Move
	checkpoints map[int]any // Pair.Num -> Session.Checkpoint(), for pairs taken at the checkpoint interval
	ckpt        Checkpointer

	dot *dotRecorder
}

// Option configures a Checker.
type Option func(*Checker)

// WithMaxVisitedStates bounds the visited-pair set; oldest pairs are
// evicted once exceeded (§4.5 "Visited-pair bound").
func WithMaxVisitedStates(n int) Option {
	return func(c *Checker) { c.maxVisited = n }
}

// WithCheckpointInterval enables direct-snapshot restore (instead of
// always replaying from the root) every n pairs along the current
// path, provided the Session implements Checkpointer.
func WithCheckpointInterval(n int) Option {
	return func(c *Checker) { c.checkpointInterval = n }
}

// WithDotOutput enables GraphViz dot-file rendering of the explored
// product graph, per §6's "optional dot-output file" CLI contract.
func WithDotOutput() Option {
	return func(c *Checker) { c.dot = newDotRecorder() }
}

// NewChecker creates a Checker over session, exploring automaton.
func NewChecker(session Session, automaton *Automaton, opts ...Option) *Checker {
	c := &Checker{
		session:     session,
		automaton:   automaton,
		visited:     newPairSet(0),
		acceptance:  newPairSet(0),
		checkpoints: make(map[int]any),
	}
	for _, o := range opts {
		o(c)
	}
	c.visited.maxSize = c.maxVisited
	if ckpt, ok := session.(Checkpointer); ok {
		c.ckpt = ckpt
	}
	return c
}

// Run executes the nested DFS to completion, returning the first
// counter-example found (nil, nil on a clean exploration).
func (c *Checker) Run() (*CounterExample, error) {
	if err := c.session.RestoreInitialState(); err != nil {
		return nil, err
	}
	snap, props, err := c.session.Observe()
	if err != nil {
		return nil, err
	}
	root := c.newPair(nil, Move{}, snap, props, c.automaton.Initial().ID)
	root.SearchCycle = c.automaton.State(root.AutomatonState).Accepting()

	return c.explore(root)
}

// DotGraph renders the explored product graph as GraphViz dot source,
// or "" if WithDotOutput was not supplied.
func (c *Checker) DotGraph() string {
	if c.dot == nil {
		return ""
	}
	return c.dot.render()
}

func (c *Checker) newPair(parent *Pair, mv Move, snap state.Snapshot, props map[string]bool, automatonState int) *Pair {
	c.nextNum++
	depth := 0
	if parent != nil {
		depth = parent.Depth + 1
	}
	return &Pair{
		Num:            c.nextNum,
		AutomatonState: automatonState,
		Propositions:   c.propsSlice(props),
		Snapshot:       snap,
		Parent:         parent,
		Move:           mv,
		Depth:          depth,
	}
}

func (c *Checker) propsSlice(m map[string]bool) []bool {
	out := make([]bool, len(c.automaton.Propositions))
	for i, name := range c.automaton.Propositions {
		out[i] = m[name]
	}
	return out
}

// explore runs the §4.5 per-outer-step algorithm for p, recursing for
// each child pair reached by executing one of p's enabled moves. The
// recursion plays the role of the spec's explicit stack: p sits "on
// top" of it for the duration of this call, and returning is the
// backtrack step.
//
// Invariant: whenever explore(p) returns with a nil CounterExample and
// nil error, the session is repositioned at exactly p's own state —
// callers (p's parent, or the automaton-sibling loop below) rely on
// this to avoid re-deriving where the session ended up after an
// arbitrarily deep recursive excursion.
func (c *Checker) explore(p *Pair) (*CounterExample, error) {
	if c.automaton.State(p.AutomatonState).Accepting() {
		if existing, found := c.acceptance.insert(p); found && p.SearchCycle {
			return c.reportCycle(p, existing), nil
		}
	}
	if _, found := c.visited.insert(p); found {
		return nil, nil // already visited: P.requests=0, backtrack immediately
	}

	p.pendingMoves = c.session.Enabled()
	p.Requests = len(p.pendingMoves)
	p.ExplorationStarted = true

	if c.checkpointInterval > 0 && c.ckpt != nil && p.Depth%c.checkpointInterval == 0 {
		if snap, err := c.ckpt.Checkpoint(); err == nil {
			c.checkpoints[p.Num] = snap
		}
	}

	if c.dot != nil {
		c.dot.recordNode(p)
	}

	for p.Requests > 0 {
		mv := p.pendingMoves[len(p.pendingMoves)-p.Requests]
		p.Requests--

		snap, props, err := c.session.Execute(mv)
		if err != nil {
			return nil, err
		}
		c.trail = append(c.trail, mv)

		enabledAutomatonMoves, err := c.automaton.Enabled(p.AutomatonState, props)
		if err != nil {
			return nil, err
		}

		for _, at := range enabledAutomatonMoves {
			// Every automaton-labeled child of the same executed move
			// shares the same post-move application state, and by this
			// function's own invariant explore() leaves the session
			// there each time it returns — so no re-positioning is
			// needed between siblings.
			child := c.newPair(p, mv, snap, props, at.To)
			child.SearchCycle = p.SearchCycle || c.automaton.State(at.To).Accepting()

			if c.dot != nil {
				c.dot.recordEdge(p, child)
			}

			if ce, err := c.explore(child); ce != nil || err != nil {
				return ce, err
			}
		}

		// Undo mv: get back to p's own state before trying its next
		// move (or, on the last iteration, before this call returns —
		// maintaining the invariant above).
		if err := c.restoreTo(p); err != nil {
			return nil, err
		}
	}

	c.maybeRemoveAcceptance(p)
	return nil, nil
}

func (c *Checker) maybeRemoveAcceptance(p *Pair) {
	if c.automaton.State(p.AutomatonState).Accepting() {
		c.acceptance.remove(p)
	}
}

// reportCycle builds the CounterExample once the DFS detects p
// re-entering an acceptance pair already on the search-cycle path.
func (c *Checker) reportCycle(p, existing *Pair) *CounterExample {
	trail := make([]Move, len(c.trail))
	copy(trail, c.trail)

	var cycle []Move
	for cur := p; cur != nil && cur != existing; cur = cur.Parent {
		cycle = append([]Move{cur.Move}, cycle...)
	}
	return &CounterExample{Depth: p.Depth, Trail: trail, Cycle: cycle}
}

// restoreTo repositions the session at exactly p's state, so the next
// untried move from p executes against the right app memory. Prefers
// a direct checkpoint restore; falls back to full replay from the
// root through the recorded trail (§4.5 "Replay").
func (c *Checker) restoreTo(p *Pair) error {
	if c.ckpt != nil {
		if snap, ok := c.checkpoints[p.Num]; ok {
			if err := c.ckpt.Restore(snap); err != nil {
				return err
			}
			c.trail = c.trail[:p.Depth]
			return nil
		}
	}
	if err := c.session.RestoreInitialState(); err != nil {
		return err
	}
	path := replayPath(p)
	for _, mv := range path {
		if _, _, err := c.session.Execute(mv); err != nil {
			return err
		}
	}
	c.trail = append(c.trail[:0], path...)
	return nil
}

// replayPath walks p's Parent chain back to the root, returning the
// sequence of moves that reaches p from the initial state.
func replayPath(p *Pair) []Move {
	var rev []Move
	for cur := p; cur != nil && cur.Parent != nil; cur = cur.Parent {
		rev = append(rev, cur.Move)
	}
	out := make([]Move, len(rev))
	for i, mv := range rev {
		out[len(rev)-1-i] = mv
	}
	return out
}
