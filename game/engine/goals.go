package engine

import "fmt"

// GoalRegistry holds the goal zones of the current level.
// Removal is irreversible; a level ends when no active zone remains.
type GoalRegistry struct {
	zones []GoalZone
}

// NewGoalRegistry creates a registry from zone specs, assigning ids in order
func NewGoalRegistry(specs []ZoneSpec) *GoalRegistry {
	zones := make([]GoalZone, 0, len(specs))
	for i, spec := range specs {
		zones = append(zones, GoalZone{
			ID:       zoneID(i),
			Position: Position{X: spec.X, Y: spec.Y},
			Color:    spec.Color,
			Active:   true,
		})
	}
	return &GoalRegistry{zones: zones}
}

// Zones returns copies of the active zones in id order
func (r *GoalRegistry) Zones() []GoalZone {
	active := make([]GoalZone, 0, len(r.zones))
	for _, z := range r.zones {
		if z.Active {
			active = append(active, z)
		}
	}
	return active
}

// Remove deactivates the zone with the given id. It reports whether an active zone was removed.
func (r *GoalRegistry) Remove(id string) bool {
	for i := range r.zones {
		if r.zones[i].ID == id && r.zones[i].Active {
			r.zones[i].Active = false
			return true
		}
	}
	return false
}

// IsEmpty reports whether every zone has been removed
func (r *GoalRegistry) IsEmpty() bool {
	return r.Len() == 0
}

// Len returns the number of active zones
func (r *GoalRegistry) Len() int {
	n := 0
	for _, z := range r.zones {
		if z.Active {
			n++
		}
	}
	return n
}

// Total returns the number of zones the level started with
func (r *GoalRegistry) Total() int {
	return len(r.zones)
}

// HasColor reports whether an active zone has color c
func (r *GoalRegistry) HasColor(c Color) bool {
	for _, z := range r.zones {
		if z.Active && z.Color == c {
			return true
		}
	}
	return false
}

// NextColor returns the color of the first active zone
func (r *GoalRegistry) NextColor() (Color, bool) {
	for _, z := range r.zones {
		if z.Active {
			return z.Color, true
		}
	}
	return "", false
}

func zoneID(i int) string {
	return fmt.Sprintf("zone_%d", i)
}
