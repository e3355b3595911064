package engine

// Rect is an axis-aligned box given by its top-left corner and size in pixels
type Rect struct {
	X, Y, W, H int
}

// SquareAt returns the size x size square centred on p
func SquareAt(p Position, size int) Rect {
	return Rect{X: p.X - size/2, Y: p.Y - size/2, W: size, H: size}
}

// Overlaps reports strict overlap; rectangles that only share an edge do not overlap
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Contains reports whether the point lies inside r
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// CollisionKind tells a scoring overlap from a penalty overlap
type CollisionKind string

const (
	CollisionMatch    CollisionKind = "match"
	CollisionMismatch CollisionKind = "mismatch"
)

// CollisionEvent records one zone resolved during a pass
type CollisionEvent struct {
	ZoneID     string        `json:"zone_id"`
	ZoneColor  Color         `json:"zone_color"`
	Kind       CollisionKind `json:"kind"`
	Segment    int           `json:"segment"`
	ScoreDelta int           `json:"score_delta"`
	Position   Position      `json:"position"`
}

// Scoring holds the per-collision point values
type Scoring struct {
	Match      int `json:"match"`
	Mismatch   int `json:"mismatch_penalty"`
	LevelBonus int `json:"level_bonus"`
}

// Resolver tests the creature against every active goal zone.
//
// A matching zone scores and is removed. A mismatching zone charges its penalty
// once per engagement: it re-arms only after no segment overlaps it any more, so
// resolving repeatedly without movement never double-charges.
type Resolver struct {
	tileSize int
	zoneSize int
	scoring  Scoring
	engaged  map[string]bool
}

// NewResolver creates a resolver for the given footprint sizes
func NewResolver(tileSize, zoneSize int, scoring Scoring) *Resolver {
	return &Resolver{
		tileSize: tileSize,
		zoneSize: zoneSize,
		scoring:  scoring,
		engaged:  make(map[string]bool),
	}
}

// Reset forgets every engagement, used when a level starts
func (r *Resolver) Reset() {
	r.engaged = make(map[string]bool)
}

// Resolve runs one pass and returns the new score with the events applied.
// Every zone is evaluated against the color the creature had when the pass
// started; after a match, a creature whose color no longer appears among the
// remaining zones takes the color of the first remaining zone.
func (r *Resolver) Resolve(creature *Creature, goals *GoalRegistry, score int) (int, []CollisionEvent) {
	var events []CollisionEvent
	color := creature.Color()
	segments := creature.Segments()
	matched := false

	for _, zone := range goals.Zones() {
		seg := r.firstOverlap(segments, zone)
		if seg < 0 {
			delete(r.engaged, zone.ID)
			continue
		}

		if zone.Color == color {
			score += r.scoring.Match
			goals.Remove(zone.ID)
			delete(r.engaged, zone.ID)
			matched = true
			events = append(events, CollisionEvent{
				ZoneID:     zone.ID,
				ZoneColor:  zone.Color,
				Kind:       CollisionMatch,
				Segment:    seg,
				ScoreDelta: r.scoring.Match,
				Position:   zone.Position,
			})
			continue
		}

		if r.engaged[zone.ID] {
			continue
		}
		r.engaged[zone.ID] = true
		next := score - r.scoring.Mismatch
		if next < 0 {
			next = 0
		}
		events = append(events, CollisionEvent{
			ZoneID:     zone.ID,
			ZoneColor:  zone.Color,
			Kind:       CollisionMismatch,
			Segment:    seg,
			ScoreDelta: next - score,
			Position:   zone.Position,
		})
		score = next
	}

	if matched && !goals.HasColor(color) {
		if next, ok := goals.NextColor(); ok {
			creature.SetColor(next)
		}
	}
	return score, events
}

func (r *Resolver) firstOverlap(segments []Position, zone GoalZone) int {
	zoneRect := SquareAt(zone.Position, r.zoneSize)
	for i, p := range segments {
		if SquareAt(p, r.tileSize).Overlaps(zoneRect) {
			return i
		}
	}
	return -1
}
