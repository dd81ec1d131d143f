package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/polarchain/anchor"
	"github.com/lixenwraith/polarchain/chain"
	"github.com/lixenwraith/polarchain/parameter"
	"github.com/lixenwraith/polarchain/physics"
)

// RGB color definitions by body role
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbAnchor     = tcell.NewRGBColor(70, 72, 90)    // Dim gray, anchors recede
	RgbCore       = tcell.NewRGBColor(220, 220, 220) // Near white
	RgbNorth      = tcell.NewRGBColor(255, 90, 90)   // Red
	RgbSouth      = tcell.NewRGBColor(100, 150, 255) // Blue
	RgbOther      = tcell.NewRGBColor(255, 200, 0)   // Yellow for untagged bodies
	RgbStatusBar  = tcell.NewRGBColor(255, 255, 255)
	RgbStatusBg   = tcell.NewRGBColor(40, 42, 58)
)

// glyph returns the rune and style drawn for a body tag
func glyph(tag physics.Tag) (rune, tcell.Style) {
	base := tcell.StyleDefault.Background(RgbBackground)
	switch tag {
	case anchor.TagAnchor:
		return parameter.GlyphAnchor, base.Foreground(RgbAnchor)
	case chain.TagCore:
		return parameter.GlyphCore, base.Foreground(RgbCore).Bold(true)
	case chain.TagNorth:
		return parameter.GlyphNorth, base.Foreground(RgbNorth)
	case chain.TagSouth:
		return parameter.GlyphSouth, base.Foreground(RgbSouth)
	default:
		return parameter.GlyphOther, base.Foreground(RgbOther)
	}
}

// drawPriority orders overlapping glyphs in one cell; higher wins
func drawPriority(tag physics.Tag) int {
	switch tag {
	case anchor.TagAnchor:
		return 0
	case chain.TagNorth, chain.TagSouth:
		return 1
	case chain.TagCore:
		return 2
	default:
		return 3
	}
}
