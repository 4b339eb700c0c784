// Package scene holds the objects a hand can act on: virtual 3D objects,
// real desktop windows (through the windowctl collaborator), and radial
// context menus. Intents flow in; grab, drag, hover, and menu state flow
// out. Everything works in normalized [0,1] coordinates with z as depth
// (0 near the camera, 1 far).
package scene

import (
	"math"
	"sort"
)

// State of an object within the scene.
type State string

const (
	StateIdle     State = "idle"
	StateHovered  State = "hovered"
	StateGrabbed  State = "grabbed"
	StateSelected State = "selected"
)

// Object is a virtual object positioned in normalized 3D space.
type Object struct {
	ID   string
	Name string
	Type string

	X float64
	Y float64
	Z float64

	// Size is the object's edge length in normalized space.
	Size      float64
	State     State
	HoverGlow bool

	Metadata map[string]string

	grabOffset [3]float64
	hasOffset  bool
}

// NewObject creates an idle object at the center of the scene at the
// default depth.
func NewObject(id, name, objType string) *Object {
	return &Object{
		ID:    id,
		Name:  name,
		Type:  objType,
		X:     0.5,
		Y:     0.5,
		Z:     0.3,
		Size:  0.1,
		State: StateIdle,
	}
}

// SetPosition moves the object in the 2D plane, clamped to [0,1].
func (o *Object) SetPosition(x, y float64) {
	o.X = clamp01(x)
	o.Y = clamp01(y)
}

// SetDepth sets the object's depth, clamped to [0,1].
func (o *Object) SetDepth(z float64) {
	o.Z = clamp01(z)
}

// Position returns the object's position in 3D space.
func (o *Object) Position() (float64, float64, float64) {
	return o.X, o.Y, o.Z
}

// DistanceTo returns the 3D distance from the object to a point.
func (o *Object) DistanceTo(x, y, z float64) float64 {
	dx := o.X - x
	dy := o.Y - y
	dz := o.Z - z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Contains reports whether a 2D point falls inside the object's bounds.
// Depth is ignored; containment is a square of edge Size around the
// object center.
func (o *Object) Contains(x, y float64) bool {
	half := o.Size / 2
	return math.Abs(x-o.X) < half && math.Abs(y-o.Y) < half
}

// SetState transitions the object and keeps the hover glow in step.
func (o *Object) SetState(s State) {
	o.State = s
	o.HoverGlow = s == StateHovered || s == StateGrabbed
}

// SetGrabOffset records where inside the object the hand took hold, so
// dragging keeps the grab point fixed instead of snapping the center to
// the hand.
func (o *Object) SetGrabOffset(handX, handY, handZ float64) {
	o.grabOffset = [3]float64{handX - o.X, handY - o.Y, handZ - o.Z}
	o.hasOffset = true
}

// ClearGrabOffset forgets the grab point.
func (o *Object) ClearGrabOffset() {
	o.grabOffset = [3]float64{}
	o.hasOffset = false
}

// UpdateFromHand moves a grabbed object to follow the hand, offset by
// the grab point and clamped to the scene.
func (o *Object) UpdateFromHand(handX, handY, handZ float64) {
	if !o.hasOffset {
		return
	}
	o.X = clamp01(handX - o.grabOffset[0])
	o.Y = clamp01(handY - o.grabOffset[1])
	o.Z = clamp01(handZ - o.grabOffset[2])
}

// Manager tracks a set of virtual objects and enforces the scene
// invariants: at most one object grabbed, at most one hovered.
type Manager struct {
	objects  []*Object
	grabbed  *Object
	selected *Object
}

// NewManager creates an empty scene.
func NewManager() *Manager {
	return &Manager{}
}

// Add puts an object into the scene.
func (m *Manager) Add(obj *Object) {
	m.objects = append(m.objects, obj)
}

// Remove deletes an object by id, clearing any grab or selection on it.
func (m *Manager) Remove(id string) {
	kept := m.objects[:0]
	for _, obj := range m.objects {
		if obj.ID != id {
			kept = append(kept, obj)
		}
	}
	m.objects = kept
	if m.selected != nil && m.selected.ID == id {
		m.selected = nil
	}
	if m.grabbed != nil && m.grabbed.ID == id {
		m.grabbed = nil
	}
}

// Nearest returns the object closest to the point in 3D, or nil when
// none lies strictly within maxDistance.
func (m *Manager) Nearest(x, y, z, maxDistance float64) *Object {
	var nearest *Object
	minDistance := maxDistance
	for _, obj := range m.objects {
		if d := obj.DistanceTo(x, y, z); d < minDistance {
			minDistance = d
			nearest = obj
		}
	}
	return nearest
}

// ObjectAt returns the front-most object containing the 2D point, or
// nil. Overlapping objects resolve front to back by depth.
func (m *Manager) ObjectAt(x, y float64) *Object {
	sorted := make([]*Object, len(m.objects))
	copy(sorted, m.objects)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Z < sorted[j].Z })

	for _, obj := range sorted {
		if obj.Contains(x, y) {
			return obj
		}
	}
	return nil
}

// Grab takes hold of obj at the hand position. A previously grabbed
// object is released first so at most one object is ever grabbed.
func (m *Manager) Grab(obj *Object, handX, handY, handZ float64) {
	if m.grabbed != nil && m.grabbed != obj {
		m.grabbed.SetState(StateIdle)
		m.grabbed.ClearGrabOffset()
	}
	m.grabbed = obj
	obj.SetState(StateGrabbed)
	obj.SetGrabOffset(handX, handY, handZ)
}

// Release lets go of the grabbed object. Releasing with nothing grabbed
// is a no-op.
func (m *Manager) Release() {
	if m.grabbed == nil {
		return
	}
	m.grabbed.SetState(StateIdle)
	m.grabbed.ClearGrabOffset()
	m.grabbed = nil
}

// UpdateHover marks the object under the hand as hovered. All other
// hover flags are cleared first, and nothing hovers while a grab is in
// progress.
func (m *Manager) UpdateHover(handX, handY float64) {
	for _, obj := range m.objects {
		if obj.State == StateHovered {
			obj.SetState(StateIdle)
		}
	}
	if m.grabbed != nil {
		return
	}
	if hovered := m.ObjectAt(handX, handY); hovered != nil {
		hovered.SetState(StateHovered)
	}
}

// UpdateGrabbed moves the grabbed object to follow the hand.
func (m *Manager) UpdateGrabbed(handX, handY, handZ float64) {
	if m.grabbed != nil {
		m.grabbed.UpdateFromHand(handX, handY, handZ)
	}
}

// Grabbed returns the grabbed object, or nil.
func (m *Manager) Grabbed() *Object {
	return m.grabbed
}

// Objects returns the objects in insertion order.
func (m *Manager) Objects() []*Object {
	out := make([]*Object, len(m.objects))
	copy(out, m.objects)
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
