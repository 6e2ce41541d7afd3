package xdsm

import (
	"strings"

	"github.com/matzehuels/xdsm/pkg/errors"
)

// Join is the TikZ style used to link two consecutive process steps.
type Join string

const (
	JoinNone    Join = ""
	JoinHV      Join = "ProcessHV"
	JoinHVArrow Join = "ProcessHVA"
	JoinTip     Join = "ProcessTip"
	JoinTipA    Join = "ProcessTipA"
)

// ChainLink is one step of a resolved process chain.
type ChainLink struct {
	Node string
	Join Join // JoinNone for the first step
}

// String renders the link as a \chainin statement.
func (l ChainLink) String() string {
	if l.Join == JoinNone {
		return `\chainin (` + l.Node + `);`
	}
	return `\chainin (` + l.Node + `) [join=by ` + string(l.Join) + `];`
}

// Chains resolves every process into a list of links.
//
// The first step of a chain has no join. A later step joins with a tip style
// when the step is a marker, or when it is the second step of a chain that
// starts at a marker; every other step uses the horizontal-then-vertical
// style. Arrowed processes use the arrow variants of both styles.
//
// A step that names neither a system nor a marker fails with
// ErrCodeUnknownReference.
func (d *Diagram) Chains() ([][]ChainLink, error) {
	systems := make(map[string]bool, len(d.systems))
	for _, s := range d.systems {
		systems[s.Name] = true
	}
	markers := make(map[string]bool)
	for _, m := range d.markers() {
		markers[m.NodeName()] = true
	}

	chains := make([][]ChainLink, 0, len(d.processes))
	for _, p := range d.processes {
		links := make([]ChainLink, 0, len(p.Steps))
		startsAtMarker := false
		for i, step := range p.Steps {
			if !systems[step] && !markers[step] {
				return nil, errors.New(errors.ErrCodeUnknownReference,
					"process includes a system named %q but no system with that name exists", step)
			}
			if i == 0 {
				startsAtMarker = markers[step]
				links = append(links, ChainLink{Node: step})
				continue
			}
			tip := markers[step] || (i == 1 && startsAtMarker)
			links = append(links, ChainLink{Node: step, Join: joinStyle(tip, p.Arrow)})
		}
		chains = append(chains, links)
	}
	return chains, nil
}

func joinStyle(tip, arrow bool) Join {
	switch {
	case tip && arrow:
		return JoinTipA
	case tip:
		return JoinTip
	case arrow:
		return JoinHVArrow
	default:
		return JoinHV
	}
}

// ProcessChains renders every process as its own chain on the process layer.
func (d *Diagram) ProcessChains() (string, error) {
	chains, err := d.Chains()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, links := range chains {
		b.WriteString("{ [start chain=process]\n \\begin{pgfonlayer}{process} \n")
		for _, l := range links {
			b.WriteString(l.String())
			b.WriteString("\n")
		}
		b.WriteString("\\end{pgfonlayer}\n}")
	}
	return b.String(), nil
}
