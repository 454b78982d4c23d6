package draft2pm

import (
	"strings"

	"github.com/jorres/draft2pm/draft"
	"github.com/jorres/draft2pm/pm"
)

// Draft inline style names.
const (
	StyleBold          = "BOLD"
	StyleCode          = "CODE"
	StyleKeyboard      = "KEYBOARD"
	StyleItalic        = "ITALIC"
	StyleStrikethrough = "STRIKETHROUGH"
	StyleUnderline     = "UNDERLINE"
	StyleSubscript     = "SUBSCRIPT"
	StyleSuperscript   = "SUPERSCRIPT"
	StyleHighlight     = "HIGHLIGHT"

	bgColorPrefix    = "bgcolor-"
	fontFamilyPrefix = "fontfamily-"
)

var inlineStyleToMarkMapping = map[string]pm.MarkType{
	StyleBold:          pm.MarkBold,
	StyleCode:          pm.MarkCode,
	StyleKeyboard:      pm.MarkCode,
	StyleItalic:        pm.MarkItalic,
	StyleStrikethrough: pm.MarkStrike,
	StyleUnderline:     pm.MarkUnderline,
	StyleSubscript:     pm.MarkSubscript,
	StyleSuperscript:   pm.MarkSuperscript,
	StyleHighlight:     pm.MarkHighlight,
}

// DefaultInlineStyleToMark maps the standard Draft styles, "bgcolor-<color>"
// to a highlight and "fontfamily-<name>" to a text style. Anything else is
// not matched.
func DefaultInlineStyleToMark(ctx *StyleContext) (*pm.Mark, error) {
	return InlineStyleMark(ctx.Range.Style), nil
}

// InlineStyleMark returns a fresh mark for a style name or nil.
func InlineStyleMark(style string) *pm.Mark {
	if t, ok := inlineStyleToMarkMapping[style]; ok {
		return pm.NewMark(t, nil)
	}
	if color, ok := strings.CutPrefix(style, bgColorPrefix); ok {
		return pm.NewMark(pm.MarkHighlight, map[string]any{"color": color})
	}
	if family, ok := strings.CutPrefix(style, fontFamilyPrefix); ok {
		return pm.NewMark(pm.MarkTextStyle, map[string]any{"fontFamily": family})
	}
	return nil
}

var entityToMarkMapping = map[string]func(*draft.Entity) *pm.Mark{
	draft.EntityLink: func(e *draft.Entity) *pm.Mark {
		attrs := map[string]any{"href": e.Data["url"]}
		if target, ok := e.Data["target"]; ok {
			attrs["target"] = target
		}
		return pm.NewMark(pm.MarkLink, attrs)
	},
}

// DefaultEntityToMark turns LINK entities into link marks.
func DefaultEntityToMark(ctx *EntityContext) (*pm.Mark, error) {
	entity := ctx.Entity()
	if entity == nil {
		return nil, nil
	}
	if fn, ok := entityToMarkMapping[entity.Type]; ok {
		return fn(entity), nil
	}
	return nil, nil
}

var entityToNodeMapping = map[string]func(*draft.Entity) *pm.Node{
	draft.EntityHorizontalRule: func(*draft.Entity) *pm.Node {
		return pm.NewNode(pm.NodeHorizontalRule, nil)
	},
	draft.EntityImage: func(e *draft.Entity) *pm.Node {
		attrs := map[string]any{"src": e.Data["src"]}
		if alt, ok := e.Data["alt"]; ok {
			attrs["alt"] = alt
		}
		return pm.NewNode(pm.NodeImage, attrs)
	},
}

// DefaultEntityToNode turns HORIZONTAL_RULE and IMAGE entities into nodes.
func DefaultEntityToNode(ctx *EntityContext) (*pm.Node, error) {
	entity := ctx.Entity()
	if entity == nil {
		return nil, nil
	}
	if fn, ok := entityToNodeMapping[entity.Type]; ok {
		return fn(entity), nil
	}
	return nil, nil
}
