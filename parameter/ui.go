package parameter

// Layout
const (
	// BottomMargin reserves the status bar row
	BottomMargin = 1
)

// Glyphs by body role
const (
	GlyphAnchor = '·'
	GlyphCore   = 'o'
	GlyphNorth  = '+'
	GlyphSouth  = '-'
	GlyphOther  = '*'
)
