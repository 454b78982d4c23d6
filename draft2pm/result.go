package draft2pm

import (
	"fmt"

	"github.com/jorres/draft2pm/draft"
	"github.com/jorres/draft2pm/pm"
)

// Outcome tells the converter what a block resolver did.
type Outcome int

const (
	// OutcomeNotMatched means the resolver did not recognise the block.
	OutcomeNotMatched Outcome = iota
	// OutcomeMatched means the resolver built a node for the document root.
	OutcomeMatched
	// OutcomeHandled means the resolver placed its output itself.
	OutcomeHandled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeHandled:
		return "handled"
	default:
		return "not matched"
	}
}

// Result is returned by block resolvers.
type Result struct {
	Outcome Outcome
	Node    *pm.Node
}

// Matched wraps a node to be appended to the document root. A nil node is
// treated as not matched.
func Matched(n *pm.Node) Result {
	if n == nil {
		return NotMatched()
	}
	return Result{Outcome: OutcomeMatched, Node: n}
}

// NotMatched reports that the block was not converted.
func NotMatched() Result { return Result{Outcome: OutcomeNotMatched} }

// Handled reports that the resolver already appended its output (and moved
// the cursor if needed).
func Handled() Result { return Result{Outcome: OutcomeHandled} }

// Unmatched collects the content no resolver claimed during one conversion.
type Unmatched struct {
	Blocks       []draft.Block                     `json:"blocks"`
	Entities     map[draft.EntityKey]*draft.Entity `json:"entities"`
	InlineStyles []draft.InlineStyleRange          `json:"inlineStyles"`
}

func newUnmatched() *Unmatched {
	return &Unmatched{
		Blocks:       []draft.Block{},
		Entities:     map[draft.EntityKey]*draft.Entity{},
		InlineStyles: []draft.InlineStyleRange{},
	}
}

// Empty reports whether everything was converted.
func (u *Unmatched) Empty() bool {
	return u == nil || len(u.Blocks) == 0 && len(u.Entities) == 0 && len(u.InlineStyles) == 0
}

// Summary is a short human readable account of unmatched content.
func (u *Unmatched) Summary() string {
	if u == nil {
		return "nothing"
	}
	return fmt.Sprintf("%d block(s), %d entity(ies), %d inline style(s)", len(u.Blocks), len(u.Entities), len(u.InlineStyles))
}

// Conversion is the output of Converter.Convert.
type Conversion struct {
	Doc       *pm.Node   `json:"doc"`
	Unmatched *Unmatched `json:"unmatched"`
}
