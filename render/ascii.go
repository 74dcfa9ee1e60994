package render

import (
	"fmt"
	"strings"

	"github.com/lguibr/blammo/game"
)

type rgb struct{ R, G, B uint8 }

var kindColors = map[game.PieceKind]rgb{
	game.Solid:     {160, 160, 160},
	game.Breakable: {80, 200, 120},
	game.Bomb:      {230, 80, 40},
	game.Triangle:  {200, 200, 90},
	game.OneWay:    {90, 140, 230},
	game.NoEntry:   {180, 60, 180},
}

var (
	iceColor  = rgb{120, 220, 255}
	fireColor = rgb{255, 60, 30}
)

var triangleGlyphs = map[game.TriangleOrientation]string{
	game.UpperLeft:  "◤",
	game.UpperRight: "◥",
	game.LowerLeft:  "◣",
	game.LowerRight: "◢",
}

var oneWayGlyphs = map[game.Side]string{
	game.SideLeft:   "<",
	game.SideBottom: "v",
	game.SideRight:  ">",
	game.SideTop:    "^",
}

// Glyph is the single character drawn for a piece.
func Glyph(p game.Piece) string {
	switch p.Kind {
	case game.Solid:
		return "#"
	case game.Breakable:
		if p.Life > 9 {
			return "+"
		}
		return fmt.Sprint(p.Life)
	case game.Bomb:
		return "*"
	case game.Triangle:
		return triangleGlyphs[p.Orientation]
	case game.OneWay:
		return oneWayGlyphs[p.Direction]
	case game.NoEntry:
		return "x"
	default:
		return " "
	}
}

func colorOf(p game.Piece) (rgb, bool) {
	switch {
	case p.HasStatus(game.IceCube):
		return iceColor, true
	case p.HasStatus(game.OnFire):
		return fireColor, true
	}
	c, ok := kindColors[p.Kind]
	return c, ok
}

// rgbToAnsi converts a color to the ANSI escape code selecting it as foreground.
func rgbToAnsi(c rgb) string {
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", c.R, c.G, c.B)
}

// Level draws the level top row first, two characters per piece so cells look
// roughly square in a terminal. With colored set every glyph is wrapped in an
// ANSI color.
func Level(l *game.Level, colored bool) string {
	var ascii strings.Builder
	for row := l.Rows() - 1; row >= 0; row-- {
		for col := 0; col < l.Cols(); col++ {
			id, _ := l.PieceAt(col, row)
			p := l.Piece(id)
			glyph := Glyph(p)
			cell := glyph + glyph
			if c, ok := colorOf(p); colored && ok {
				cell = rgbToAnsi(c) + cell + "\033[0m"
			}
			ascii.WriteString(cell)
		}
		ascii.WriteString("\n")
	}
	return ascii.String()
}
