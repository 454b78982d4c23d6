// Package draft2pm converts Draft.js raw content into a ProseMirror document.
//
// Conversion is driven by four resolvers which can be replaced independently:
// block to node, inline style to mark, entity to mark and entity to node.
// Anything a resolver does not claim ends up in the Unmatched report instead
// of failing the conversion.
package draft2pm

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/jorres/draft2pm/draft"
	"github.com/jorres/draft2pm/pm"
)

// BlockToNodeFunc converts the block under the cursor.
type BlockToNodeFunc func(ctx *BlockContext) (Result, error)

// InlineStyleToMarkFunc converts one inline style range to a mark. A nil mark
// means the style is not supported.
type InlineStyleToMarkFunc func(ctx *StyleContext) (*pm.Mark, error)

// EntityToMarkFunc converts one entity range to a mark.
type EntityToMarkFunc func(ctx *EntityContext) (*pm.Mark, error)

// EntityToNodeFunc converts one entity range to a node.
type EntityToNodeFunc func(ctx *EntityContext) (*pm.Node, error)

// Converter turns raw content into documents. It is safe to reuse and to
// call from several goroutines: every call keeps its own state.
type Converter struct {
	blockToNode       BlockToNodeFunc
	inlineStyleToMark InlineStyleToMarkFunc
	entityToMark      EntityToMarkFunc
	entityToNode      EntityToNodeFunc
	log               *zap.Logger

	last atomic.Pointer[Unmatched]
}

// Option configures a Converter.
type Option func(*Converter)

// WithBlockToNode replaces the block resolver.
func WithBlockToNode(fn BlockToNodeFunc) Option {
	return func(c *Converter) {
		if fn != nil {
			c.blockToNode = fn
		}
	}
}

// WithInlineStyleToMark replaces the inline style resolver.
func WithInlineStyleToMark(fn InlineStyleToMarkFunc) Option {
	return func(c *Converter) {
		if fn != nil {
			c.inlineStyleToMark = fn
		}
	}
}

// WithEntityToMark replaces the entity to mark resolver.
func WithEntityToMark(fn EntityToMarkFunc) Option {
	return func(c *Converter) {
		if fn != nil {
			c.entityToMark = fn
		}
	}
}

// WithEntityToNode replaces the entity to node resolver.
func WithEntityToNode(fn EntityToNodeFunc) Option {
	return func(c *Converter) {
		if fn != nil {
			c.entityToNode = fn
		}
	}
}

// WithLogger sets the logger resolver faults and unmatched content are
// reported to.
func WithLogger(log *zap.Logger) Option {
	return func(c *Converter) {
		if log != nil {
			c.log = log
		}
	}
}

// NewConverter returns a converter using the default mappings for every
// resolver not overridden by opts.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		blockToNode:       DefaultBlockToNode,
		inlineStyleToMark: DefaultInlineStyleToMark,
		entityToMark:      DefaultEntityToMark,
		entityToNode:      DefaultEntityToNode,
		log:               zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LastUnmatched returns the report of the most recent completed conversion.
func (c *Converter) LastUnmatched() *Unmatched {
	return c.last.Load()
}

// Convert builds a document from raw content. It never fails: content that
// cannot be converted is left out of the document and listed in the
// Unmatched report of the result.
func (c *Converter) Convert(raw *draft.RawContent) *Conversion {
	if raw == nil {
		raw = &draft.RawContent{}
	}
	run := &conversion{
		conv:      c,
		entityMap: raw.EntityMap,
		doc:       pm.NewDocument(),
		unmatched: newUnmatched(),
		log:       c.log,
	}

	cur := NewCursor(raw.Blocks)
	for ; !cur.Done(); cur.Advance() {
		ctx := &BlockContext{
			Cursor:    cur,
			Converter: c,
			EntityMap: raw.EntityMap,
			Doc:       run.doc,
			run:       run,
		}
		if res := run.mapBlock(ctx); res.Outcome == OutcomeMatched {
			pm.AppendChild(run.doc, res.Node)
		}
	}

	if !run.unmatched.Empty() {
		c.log.Debug("Conversion left unmatched content", zap.String("unmatched", run.unmatched.Summary()))
	}
	c.last.Store(run.unmatched)
	return &Conversion{Doc: run.doc, Unmatched: run.unmatched}
}

// conversion is the state of a single Convert call.
type conversion struct {
	conv      *Converter
	entityMap draft.EntityMap
	doc       *pm.Node
	unmatched *Unmatched
	log       *zap.Logger
}

// BlockContext is handed to block resolvers. The embedded cursor points at
// the block to convert.
type BlockContext struct {
	*Cursor
	Converter *Converter
	EntityMap draft.EntityMap
	Doc       *pm.Node

	run *conversion
}

// SplitText partitions the block text into marked text runs.
func (ctx *BlockContext) SplitText(block *draft.Block) []*pm.Node {
	return ctx.run.splitText(block)
}

// Paragraph returns a paragraph holding the partitioned block text.
func (ctx *BlockContext) Paragraph(block *draft.Block) *pm.Node {
	return pm.AppendChild(pm.NewNode(pm.NodeParagraph, nil), ctx.SplitText(block)...)
}

// EntityToNode resolves an entity range of block to a node, recording it as
// unmatched when nothing claims it.
func (ctx *BlockContext) EntityToNode(block *draft.Block, r draft.EntityRange) *pm.Node {
	return ctx.run.entityNode(block, r)
}

// EntityToMark resolves an entity range of block to a mark, recording it as
// unmatched when nothing claims it.
func (ctx *BlockContext) EntityToMark(block *draft.Block, r draft.EntityRange) *pm.Mark {
	return ctx.run.entityMark(block, r)
}

// Logger returns the converter logger.
func (ctx *BlockContext) Logger() *zap.Logger { return ctx.run.log }

// StyleContext is handed to inline style resolvers.
type StyleContext struct {
	Range     draft.InlineStyleRange
	Block     *draft.Block
	Doc       *pm.Node
	Converter *Converter
}

// EntityContext is handed to entity resolvers.
type EntityContext struct {
	Range     draft.EntityRange
	EntityMap draft.EntityMap
	Block     *draft.Block
	Doc       *pm.Node
	Converter *Converter
}

// Entity returns the entity the range points at, nil when it is missing from
// the entity map.
func (ctx *EntityContext) Entity() *draft.Entity {
	return ctx.EntityMap.Lookup(ctx.Range.Key)
}

func (run *conversion) mapBlock(ctx *BlockContext) Result {
	start := ctx.Index()
	block := *ctx.Block()
	fields := []zap.Field{zap.String("block", block.Key), zap.String("type", block.Type), zap.Int("index", start)}

	res, ok := guard(run.log, "block", fields, func() (Result, error) {
		return run.conv.blockToNode(ctx)
	})
	if ok && res.Outcome == OutcomeMatched && res.Node == nil {
		res = NotMatched()
	}
	if !ok || res.Outcome == OutcomeNotMatched {
		ctx.SetIndex(start)
		run.unmatched.Blocks = append(run.unmatched.Blocks, block)
		run.log.Debug("Block not matched", fields...)
		return NotMatched()
	}
	if ctx.Index() < start {
		// resolvers may only consume blocks, never give back ones already walked
		run.log.Warn("Block resolver moved cursor backwards", append(fields, zap.Int("moved_to", ctx.Index()))...)
		ctx.SetIndex(start)
	}
	return res
}

func (run *conversion) styleMark(block *draft.Block, r draft.InlineStyleRange) *pm.Mark {
	fields := []zap.Field{zap.String("block", block.Key), zap.String("style", r.Style), zap.Int("offset", r.Offset), zap.Int("length", r.Length)}
	mark, ok := guard(run.log, "inline style", fields, func() (*pm.Mark, error) {
		return run.conv.inlineStyleToMark(&StyleContext{Range: r, Block: block, Doc: run.doc, Converter: run.conv})
	})
	if ok && mark != nil {
		return mark
	}
	run.unmatched.InlineStyles = append(run.unmatched.InlineStyles, r)
	run.log.Debug("Inline style not matched", fields...)
	return nil
}

func (run *conversion) entityMark(block *draft.Block, r draft.EntityRange) *pm.Mark {
	fields := entityFields(block, r)
	mark, ok := guard(run.log, "entity to mark", fields, func() (*pm.Mark, error) {
		return run.conv.entityToMark(run.entityContext(block, r))
	})
	if ok && mark != nil {
		return mark
	}
	run.unmatchedEntity(r, fields)
	return nil
}

func (run *conversion) entityNode(block *draft.Block, r draft.EntityRange) *pm.Node {
	fields := entityFields(block, r)
	node, ok := guard(run.log, "entity to node", fields, func() (*pm.Node, error) {
		return run.conv.entityToNode(run.entityContext(block, r))
	})
	if ok && node != nil {
		return node
	}
	run.unmatchedEntity(r, fields)
	return nil
}

func (run *conversion) entityContext(block *draft.Block, r draft.EntityRange) *EntityContext {
	return &EntityContext{Range: r, EntityMap: run.entityMap, Block: block, Doc: run.doc, Converter: run.conv}
}

func (run *conversion) unmatchedEntity(r draft.EntityRange, fields []zap.Field) {
	entity := run.entityMap.Lookup(r.Key)
	if entity == nil {
		fields = append(fields, zap.Bool("missing", true))
	}
	run.unmatched.Entities[r.Key] = entity
	run.log.Debug("Entity not matched", fields...)
}

func entityFields(block *draft.Block, r draft.EntityRange) []zap.Field {
	return []zap.Field{zap.String("block", block.Key), zap.String("entity", string(r.Key)), zap.Int("offset", r.Offset), zap.Int("length", r.Length)}
}

// guard runs a resolver, turning a returned error or a panic into a logged
// "not matched".
func guard[T any](log *zap.Logger, what string, fields []zap.Field, fn func() (T, error)) (res T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Resolver panicked", append(fields, zap.String("resolver", what), zap.String("panic", fmt.Sprint(r)))...)
			var zero T
			res, ok = zero, false
		}
	}()

	res, err := fn()
	if err != nil {
		log.Error("Resolver failed", append(fields, zap.String("resolver", what), zap.Error(err))...)
		var zero T
		return zero, false
	}
	return res, true
}
