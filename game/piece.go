// File: game/piece.go
package game

import (
	"fmt"

	"github.com/lguibr/blammo/utils"
)

// PieceID is a piece's stable index in the level arena.
type PieceID int

type PieceKind int

const (
	Empty PieceKind = iota
	Solid
	Breakable
	Bomb
	Triangle
	OneWay
	NoEntry
	pieceKindCount
)

var pieceKindNames = [pieceKindCount]string{"empty", "solid", "breakable", "bomb", "triangle", "oneWay", "noEntry"}

func (k PieceKind) String() string {
	if k < 0 || k >= pieceKindCount {
		return fmt.Sprintf("PieceKind(%d)", int(k))
	}
	return pieceKindNames[k]
}

func (k PieceKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *PieceKind) UnmarshalText(text []byte) error {
	for i, name := range pieceKindNames {
		if name == string(text) {
			*k = PieceKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown piece kind %q", text)
}

// TriangleOrientation names the corner holding the triangle's right angle.
type TriangleOrientation int

const (
	UpperLeft TriangleOrientation = iota
	UpperRight
	LowerLeft
	LowerRight
)

func (o TriangleOrientation) isRight() bool { return o == UpperRight || o == LowerRight }
func (o TriangleOrientation) isLower() bool { return o == LowerLeft || o == LowerRight }

// Side of a rectangular piece. The order matches the order bounds are built in.
type Side int

const (
	SideLeft Side = iota
	SideBottom
	SideRight
	SideTop
)

var sideOffsets = [4][2]int{{-1, 0}, {0, -1}, {1, 0}, {0, 1}}

func (s Side) Opposite() Side { return (s + 2) % 4 }

func (s Side) Normal() utils.Vector2D {
	return utils.Vector2D{X: float64(sideOffsets[s][0]), Y: float64(sideOffsets[s][1])}
}

// PieceStatus is a bit set of transient effects on a piece.
type PieceStatus uint8

const (
	IceCube PieceStatus = 1 << iota
	OnFire
)

// PieceSpec is what a layout stores for one cell.
type PieceSpec struct {
	Kind        PieceKind           `json:"kind" yaml:"kind"`
	Life        int                 `json:"life,omitempty" yaml:"life,omitempty"`
	Orientation TriangleOrientation `json:"orientation,omitempty" yaml:"orientation,omitempty"`
	Direction   Side                `json:"direction,omitempty" yaml:"direction,omitempty"` // Travel direction a one way piece lets through
}

func NewPieceSpec(kind PieceKind, life int) PieceSpec {
	if kind == Breakable && life <= 0 {
		life = 1
	}
	if kind != Breakable {
		life = 0
	}
	return PieceSpec{Kind: kind, Life: life}
}

// Piece is one cell of the level. Bounds are in level space.
type Piece struct {
	ID     PieceID        `json:"id"`
	Col    int            `json:"col"`
	Row    int            `json:"row"`
	Center utils.Vector2D `json:"center"`
	Status PieceStatus    `json:"status"`
	PieceSpec
	Bounds BoundingLines `json:"-"`
}

func (p Piece) HasStatus(status PieceStatus) bool { return p.Status&status == status }

// closesSide reports whether p fills its own side s completely, so a neighbour
// across s needs no boundary there.
func (p *Piece) closesSide(s Side) bool {
	if p.HasStatus(IceCube) {
		return false
	}
	switch p.Kind {
	case Solid, Breakable, Bomb:
		return true
	case Triangle:
		return triangleLegs(p.Orientation)[s]
	}
	return false
}

// BallPassesThrough reports whether a ball moving with velocity ignores p.
func (p *Piece) BallPassesThrough(velocity utils.Vector2D) bool {
	switch p.Kind {
	case Empty, NoEntry:
		return true
	case OneWay:
		return velocity.Dot(p.Direction.Normal()) > 0
	}
	return false
}

// neighbours holds the piece across each side, nil at the level edge.
type neighbours [4]*Piece

type boundsBuilder func(p *Piece, n neighbours, halfWidth, halfHeight float64) BoundingLines

var boundsBuilders = [pieceKindCount]boundsBuilder{
	Empty:     func(*Piece, neighbours, float64, float64) BoundingLines { return BoundingLines{} },
	Solid:     solidBounds,
	Breakable: solidBounds,
	Bomb:      solidBounds,
	Triangle:  triangleBounds,
	OneWay:    oneWayBounds,
	NoEntry:   noEntryBounds,
}

func rectSide(center utils.Vector2D, s Side, halfWidth, halfHeight float64) LineSeg {
	tl := center.Add(utils.Vector2D{X: -halfWidth, Y: halfHeight})
	bl := center.Add(utils.Vector2D{X: -halfWidth, Y: -halfHeight})
	br := center.Add(utils.Vector2D{X: halfWidth, Y: -halfHeight})
	tr := center.Add(utils.Vector2D{X: halfWidth, Y: halfHeight})
	switch s {
	case SideLeft:
		return NewLineSeg(tl, bl)
	case SideBottom:
		return NewLineSeg(bl, br)
	case SideRight:
		return NewLineSeg(br, tr)
	default:
		return NewLineSeg(tr, tl)
	}
}

// sideFavoursInside marks sides whose neighbour is not a real wall, so an outer
// side wins ties against them.
func sideFavoursInside(s Side, neighbour *Piece) bool {
	if neighbour == nil {
		return true
	}
	if neighbour.HasStatus(IceCube) {
		return true
	}
	if s == SideTop && neighbour.HasStatus(OnFire) {
		return true
	}
	return neighbour.Kind == OneWay || neighbour.Kind == NoEntry
}

func solidBounds(p *Piece, n neighbours, halfWidth, halfHeight float64) BoundingLines {
	var b BoundingLines
	for s := SideLeft; s <= SideTop; s++ {
		if n[s] != nil && n[s].closesSide(s.Opposite()) {
			continue
		}
		b.AddBound(rectSide(p.Center, s, halfWidth, halfHeight), s.Normal(), sideFavoursInside(s, n[s]))
	}
	return b
}

// oneWayBounds has no sides along the level edge or against other walls.
func oneWayBounds(p *Piece, n neighbours, halfWidth, halfHeight float64) BoundingLines {
	var b BoundingLines
	for s := SideLeft; s <= SideTop; s++ {
		if n[s] == nil {
			continue
		}
		if !n[s].HasStatus(IceCube) && (n[s].Kind == Solid || n[s].Kind == OneWay || n[s].Kind == Breakable) {
			continue
		}
		b.AddBound(rectSide(p.Center, s, halfWidth, halfHeight), s.Normal(), false)
	}
	return b
}

func noEntryBounds(p *Piece, n neighbours, halfWidth, halfHeight float64) BoundingLines {
	var b BoundingLines
	for s := SideLeft; s <= SideTop; s++ {
		if n[s] != nil && (n[s].Kind == Solid || n[s].Kind == NoEntry) {
			continue
		}
		b.AddBound(rectSide(p.Center, s, halfWidth, halfHeight), s.Normal(), false)
	}
	return b
}

// triangleLegs lists the rectangle sides covered by a triangle's legs.
func triangleLegs(o TriangleOrientation) [4]bool {
	var legs [4]bool
	if o.isRight() {
		legs[SideRight] = true
	} else {
		legs[SideLeft] = true
	}
	if o.isLower() {
		legs[SideBottom] = true
	} else {
		legs[SideTop] = true
	}
	return legs
}

// triangleBounds builds the upper left triangle around the origin, mirrors it
// into the piece's orientation and moves it onto the piece.
func triangleBounds(p *Piece, n neighbours, halfWidth, halfHeight float64) BoundingLines {
	vertical, horizontal := SideLeft, SideTop
	if p.Orientation.isRight() {
		vertical = SideRight
	}
	if p.Orientation.isLower() {
		horizontal = SideBottom
	}

	topLeft := utils.Vector2D{X: -halfWidth, Y: halfHeight}
	topRight := utils.Vector2D{X: halfWidth, Y: halfHeight}
	bottomLeft := utils.Vector2D{X: -halfWidth, Y: -halfHeight}

	var b BoundingLines
	if n[vertical] == nil || !n[vertical].closesSide(vertical.Opposite()) {
		b.AddBound(NewLineSeg(topLeft, bottomLeft), utils.Vector2D{X: -1}, sideFavoursInside(vertical, n[vertical]))
	}
	if n[horizontal] == nil || !n[horizontal].closesSide(horizontal.Opposite()) {
		b.AddBound(NewLineSeg(topRight, topLeft), utils.Vector2D{Y: 1}, sideFavoursInside(horizontal, n[horizontal]))
	}
	b.AddBound(NewLineSeg(bottomLeft, topRight), utils.Vector2D{X: halfHeight, Y: -halfWidth}, false)

	if p.Orientation.isRight() {
		b.ReflectX()
	}
	if p.Orientation.isLower() {
		b.Transform(utils.NewScaleMatrix(1, -1))
	}
	b.Translate(p.Center)
	return b
}

// HitOutcome describes what a ball hit did to a piece.
type HitOutcome struct {
	ID      PieceID   `json:"id"`
	Before  PieceKind `json:"before"`
	After   PieceKind `json:"after"`
	Life    int       `json:"life"`
	Changed []PieceID `json:"changed,omitempty"` // Pieces whose bounds were rebuilt
}

type hitReaction func(spec PieceSpec) PieceSpec

var hitReactions = [pieceKindCount]hitReaction{
	Breakable: func(spec PieceSpec) PieceSpec {
		spec.Life--
		if spec.Life <= 0 {
			return NewPieceSpec(Empty, 0)
		}
		return spec
	},
	Bomb: func(PieceSpec) PieceSpec { return NewPieceSpec(Empty, 0) },
}

// react returns the piece after a ball hit. Frozen pieces only lose their ice.
func react(p Piece) (PieceSpec, PieceStatus) {
	if p.HasStatus(IceCube) {
		return p.PieceSpec, p.Status &^ IceCube
	}
	if reaction := hitReactions[p.Kind]; reaction != nil {
		return reaction(p.PieceSpec), p.Status
	}
	return p.PieceSpec, p.Status
}
