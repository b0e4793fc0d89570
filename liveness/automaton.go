// Package liveness implements the §4.5 model checker: a nested
// depth-first search over the product of application states and a
// Büchi property automaton, reporting acceptance cycles as liveness
// counter-examples.
package liveness

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"gopkg.in/yaml.v3"
)

// StateKind tags a Büchi automaton state, per §6's "states of types
// {initial=-1, normal=0, accepting=1}".
type StateKind int

const (
	KindInitial   StateKind = -1
	KindNormal    StateKind = 0
	KindAccepting StateKind = 1
)

// AutomatonState is one node of the property automaton.
type AutomatonState struct {
	ID   int       `yaml:"id"`
	Kind StateKind `yaml:"kind"`
}

func (s AutomatonState) Accepting() bool { return s.Kind == KindAccepting }

// automatonTransitionDoc is the YAML wire form of a transition: Label
// is a boolean expression over the automaton's declared propositional
// symbols, compiled once at load time.
type automatonTransitionDoc struct {
	From  int    `yaml:"from"`
	To    int    `yaml:"to"`
	Label string `yaml:"label"`
}

type automatonDoc struct {
	States       []AutomatonState         `yaml:"states"`
	Transitions  []automatonTransitionDoc `yaml:"transitions"`
	Propositions []string                 `yaml:"propositions"`
}

// Transition is a compiled outgoing edge of the property automaton:
// From/To state ids plus a compiled boolean-expression program
// evaluated against the current propositions vector.
type Transition struct {
	From, To int
	Label    string
	program  *vm.Program
}

// Automaton is a loaded, compiled Büchi property automaton: a set of
// states (exactly one of Kind KindInitial), outgoing transitions per
// state, and the declared propositional symbol names whose order
// matches the Propositions vector produced by the checked Session.
type Automaton struct {
	States       []AutomatonState
	Propositions []string
	initial      int
	outgoing     map[int][]*Transition
}

// LoadAutomatonYAML parses and compiles an automaton description (§6
// property-layer contract: states, transitions with label expressions,
// propositional symbols).
func LoadAutomatonYAML(data []byte) (*Automaton, error) {
	var doc automatonDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, InvalidAutomatonError(fmt.Sprintf("parsing yaml: %v", err))
	}
	if len(doc.States) == 0 {
		return nil, InvalidAutomatonError("automaton declares no states")
	}

	a := &Automaton{
		States:       doc.States,
		Propositions: doc.Propositions,
		initial:      -1,
		outgoing:     make(map[int][]*Transition, len(doc.States)),
	}

	env := make(map[string]any, len(doc.Propositions))
	for _, p := range doc.Propositions {
		env[p] = false
	}

	for _, s := range doc.States {
		if s.Kind == KindInitial {
			if a.initial != -1 {
				return nil, InvalidAutomatonError("automaton declares more than one initial state")
			}
			a.initial = s.ID
		}
	}
	if a.initial == -1 {
		return nil, InvalidAutomatonError("automaton declares no initial state")
	}

	for _, t := range doc.Transitions {
		program, err := expr.Compile(t.Label, expr.Env(env), expr.AsBool())
		if err != nil {
			return nil, InvalidAutomatonError(fmt.Sprintf("compiling label %q: %v", t.Label, err))
		}
		a.outgoing[t.From] = append(a.outgoing[t.From], &Transition{
			From: t.From, To: t.To, Label: t.Label, program: program,
		})
	}
	return a, nil
}

// Initial returns the automaton's single initial state.
func (a *Automaton) Initial() AutomatonState {
	return a.State(a.initial)
}

// State looks up a state by id.
func (a *Automaton) State(id int) AutomatonState {
	for _, s := range a.States {
		if s.ID == id {
			return s
		}
	}
	return AutomatonState{ID: id, Kind: KindNormal}
}

// Enabled evaluates every outgoing transition of from against props
// (keyed by the automaton's declared proposition names), returning the
// transitions whose label holds.
func (a *Automaton) Enabled(from int, props map[string]bool) ([]*Transition, error) {
	env := make(map[string]any, len(props))
	for k, v := range props {
		env[k] = v
	}
	var out []*Transition
	for _, t := range a.outgoing[from] {
		ok, err := expr.Run(t.program, env)
		if err != nil {
			return nil, InvalidAutomatonError(fmt.Sprintf("evaluating label %q: %v", t.Label, err))
		}
		b, _ := ok.(bool)
		if b {
			out = append(out, t)
		}
	}
	return out, nil
}
