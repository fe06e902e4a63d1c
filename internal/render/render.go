// Package render draws boards as SVG images.
package render

import (
	"fmt"
	"io"

	"chessrules/internal/board"
	"chessrules/internal/core"

	svg "github.com/ajstarks/svgo"
)

const (
	defaultSquareSize = 45
	lightColor        = "#f0d9b5"
	darkColor         = "#b58863"
	markColor         = "#cdd26a"
	checkColor        = "#e06c6c"
)

var glyphs = map[core.PieceType][2]string{
	core.King:   {"♔", "♚"},
	core.Queen:  {"♕", "♛"},
	core.Rook:   {"♖", "♜"},
	core.Bishop: {"♗", "♝"},
	core.Knight: {"♘", "♞"},
	core.Pawn:   {"♙", "♟"},
}

type options struct {
	squareSize  int
	perspective core.Color
	marked      map[core.Square]bool
	check       *core.Square
	coordinates bool
}

// Option configures SVG output
type Option func(*options)

// SquareSize sets the edge length of one square in pixels
func SquareSize(px int) Option {
	return func(o *options) {
		if px > 0 {
			o.squareSize = px
		}
	}
}

// Perspective puts the given color at the bottom of the image
func Perspective(c core.Color) Option {
	return func(o *options) {
		o.perspective = c
	}
}

// MarkSquares highlights squares, typically the legal destinations of a piece
func MarkSquares(squares ...core.Square) Option {
	return func(o *options) {
		for _, sq := range squares {
			o.marked[sq] = true
		}
	}
}

// MarkCheck tints the square of a king in check
func MarkCheck(sq core.Square) Option {
	return func(o *options) {
		o.check = &sq
	}
}

// Coordinates toggles file and rank labels
func Coordinates(on bool) Option {
	return func(o *options) {
		o.coordinates = on
	}
}

// SVG writes an image of b to w
func SVG(w io.Writer, b *board.Board, opts ...Option) error {
	o := options{
		squareSize:  defaultSquareSize,
		perspective: core.ColorWhite,
		marked:      make(map[core.Square]bool),
		coordinates: true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	ew := &errWriter{w: w}
	size := o.squareSize
	canvas := svg.New(ew)
	canvas.Start(8*size, 8*size)

	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			sq := core.Square{Rank: rank, File: file}
			x, y := o.origin(sq)

			canvas.Rect(x, y, size, size, "fill:"+o.fill(sq))

			if o.coordinates {
				o.label(canvas, sq, x, y)
			}

			p := b.PieceAt(sq)
			if p.IsEmpty() {
				continue
			}
			canvas.Text(x+size/2, y+size*4/5, glyph(p),
				fmt.Sprintf("font-size:%dpx;text-anchor:middle;fill:#000", size*4/5))
		}
	}

	canvas.End()
	return ew.err
}

// origin returns the top-left pixel of sq for the configured perspective
func (o *options) origin(sq core.Square) (int, int) {
	row, col := sq.Rank, sq.File
	if o.perspective == core.ColorBlack {
		row, col = 7-row, 7-col
	}
	return col * o.squareSize, row * o.squareSize
}

func (o *options) fill(sq core.Square) string {
	switch {
	case o.check != nil && *o.check == sq:
		return checkColor
	case o.marked[sq]:
		return markColor
	case (sq.Rank+sq.File)%2 == 0:
		return lightColor
	default:
		return darkColor
	}
}

// label writes the file letter along the bottom edge and the rank digit
// along the left edge
func (o *options) label(canvas *svg.SVG, sq core.Square, x, y int) {
	size := o.squareSize
	style := fmt.Sprintf("font-size:%dpx;fill:#444", size/5)
	bottom, left := 7, 0
	if o.perspective == core.ColorBlack {
		bottom, left = 0, 7
	}
	if sq.Rank == bottom {
		canvas.Text(x+size-size/5, y+size-2, string(rune('a'+sq.File)), style)
	}
	if sq.File == left {
		canvas.Text(x+2, y+size/5+2, string(rune('8'-sq.Rank)), style)
	}
}

func glyph(p core.Piece) string {
	g, ok := glyphs[p.Type]
	if !ok {
		return "?"
	}
	if p.Color == core.ColorBlack {
		return g[1]
	}
	return g[0]
}

// errWriter keeps the first write error, svgo does not report them
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
