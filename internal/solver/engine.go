// Package solver provides the default optimization engine behind the
// optimize.Engine contract.
package solver

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/adamistheanswer/pokebay/internal/optimize"
)

// BranchBound is an exact branch-and-bound engine for partitioning
// programs: binary programs whose constraints are exactly-one groups
// (sum of distinct variables == 1) plus implication links
// (x - y <= 0). This is precisely the shape optimize.BuildProgram
// emits, and the instances are small (tens of variables), so full
// enumeration with pruning is both exact and fast.
//
// Programs with any other constraint shape produce StatusError.
type BranchBound struct{}

// New creates a new BranchBound engine.
func New() *BranchBound {
	return &BranchBound{}
}

// internal search state, one per Solve call.
type search struct {
	prog         *optimize.Program
	groups       [][]int         // exactly-one groups, by variable handle
	implications map[int][]int   // x -> vars forced to 1 when x = 1
	groupMin     []float64       // cheapest objective coefficient per group
	suffixMin    []float64       // suffixMin[i] = sum of groupMin[i:]
	forcedCount  []int           // how many chosen vars currently force each var
	value        []float64       // working assignment
	best         []float64       // incumbent assignment
	bestCost     float64
	found        bool
	ctx          context.Context
	nodes        int
}

// Solve runs the search. Infeasibility can only arise from a degenerate
// exactly-one group with no members; ordinary programs always admit an
// assignment. A context deadline or cancellation maps to StatusError.
func (e *BranchBound) Solve(ctx context.Context, p *optimize.Program) (optimize.Result, error) {
	s := &search{
		prog:         p,
		implications: make(map[int][]int),
		forcedCount:  make([]int, p.NumVars()),
		value:        make([]float64, p.NumVars()),
		bestCost:     math.Inf(1),
		ctx:          ctx,
	}

	if err := s.classify(); err != nil {
		return optimize.Result{Status: optimize.StatusError}, fmt.Errorf("unsupported program: %w", err)
	}
	for _, g := range s.groups {
		if len(g) == 0 {
			return optimize.Result{Status: optimize.StatusInfeasible}, nil
		}
	}

	s.prepareBounds()
	if err := s.branch(0, 0); err != nil {
		return optimize.Result{Status: optimize.StatusError}, err
	}
	if !s.found {
		return optimize.Result{Status: optimize.StatusInfeasible}, nil
	}

	return optimize.Result{
		Status:     optimize.StatusOptimal,
		Assignment: s.best,
		Objective:  s.bestCost,
	}, nil
}

// classify splits the program's constraints into exactly-one groups and
// implication links, rejecting anything else.
func (s *search) classify() error {
	inGroup := make([]bool, s.prog.NumVars())
	for i, c := range s.prog.Constraints {
		switch {
		case c.Sense == optimize.SenseEQ && c.RHS == 1 && allUnitTerms(c.Terms):
			group := make([]int, 0, len(c.Terms))
			for _, t := range c.Terms {
				if inGroup[t.Var] {
					return fmt.Errorf("constraint %d: variable %d in two exactly-one groups", i, t.Var)
				}
				inGroup[t.Var] = true
				group = append(group, t.Var)
			}
			s.groups = append(s.groups, group)
		case c.Sense == optimize.SenseLE && c.RHS == 0 && isImplication(c.Terms):
			x, y := c.Terms[0].Var, c.Terms[1].Var
			if c.Terms[0].Coeff < 0 {
				x, y = y, x
			}
			s.implications[x] = append(s.implications[x], y)
		default:
			return fmt.Errorf("constraint %d is neither an exactly-one group nor an implication", i)
		}
	}
	return nil
}

func allUnitTerms(terms []optimize.Term) bool {
	for _, t := range terms {
		if t.Coeff != 1 {
			return false
		}
	}
	return true
}

func isImplication(terms []optimize.Term) bool {
	if len(terms) != 2 {
		return false
	}
	a, b := terms[0].Coeff, terms[1].Coeff
	return (a == 1 && b == -1) || (a == -1 && b == 1)
}

// prepareBounds orders groups cheapest-first and precomputes the
// admissible lower bound per suffix: implied costs are non-negative, so
// the sum of each remaining group's cheapest member never overestimates.
func (s *search) prepareBounds() {
	obj := s.prog.Objective
	s.groupMin = make([]float64, len(s.groups))
	for i, g := range s.groups {
		m := math.Inf(1)
		for _, v := range g {
			if obj[v] < m {
				m = obj[v]
			}
		}
		s.groupMin[i] = m
	}

	order := make([]int, len(s.groups))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return len(s.groups[order[a]]) < len(s.groups[order[b]])
	})
	groups := make([][]int, len(s.groups))
	mins := make([]float64, len(s.groups))
	for i, o := range order {
		groups[i] = s.groups[o]
		mins[i] = s.groupMin[o]
	}
	s.groups, s.groupMin = groups, mins

	s.suffixMin = make([]float64, len(s.groups)+1)
	for i := len(s.groups) - 1; i >= 0; i-- {
		s.suffixMin[i] = s.suffixMin[i+1] + s.groupMin[i]
	}
}

// branch assigns one member of group i and recurses. cost carries the
// objective of everything chosen or forced so far.
func (s *search) branch(i int, cost float64) error {
	s.nodes++
	if s.nodes&0x3ff == 0 {
		if err := s.ctx.Err(); err != nil {
			return err
		}
	}

	if cost+s.suffixMin[i] >= s.bestCost {
		return nil
	}
	if i == len(s.groups) {
		s.found = true
		s.bestCost = cost
		s.best = append([]float64(nil), s.value...)
		return nil
	}

	for _, v := range s.groups[i] {
		added := s.turnOn(v)
		if err := s.branch(i+1, cost+added); err != nil {
			return err
		}
		s.turnOff(v)
	}
	return nil
}

// turnOn sets v to 1, applies its implications, and returns the
// objective cost added by v and any newly forced variables.
func (s *search) turnOn(v int) float64 {
	obj := s.prog.Objective
	added := obj[v]
	s.value[v] = 1
	for _, y := range s.implications[v] {
		s.forcedCount[y]++
		if s.forcedCount[y] == 1 && s.value[y] == 0 {
			s.value[y] = 1
			added += obj[y]
		}
	}
	return added
}

// turnOff undoes turnOn.
func (s *search) turnOff(v int) {
	s.value[v] = 0
	for _, y := range s.implications[v] {
		s.forcedCount[y]--
		if s.forcedCount[y] == 0 {
			s.value[y] = 0
		}
	}
}
