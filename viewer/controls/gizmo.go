package controls

import (
	"github.com/loupe3d/loupe/viewer/core"
	"github.com/loupe3d/loupe/viewer/scene"
)

type GizmoMode uint8

const (
	GizmoTranslate GizmoMode = iota
	GizmoRotate
	GizmoScale
)

func (m GizmoMode) String() string {
	switch m {
	case GizmoTranslate:
		return "translate"
	case GizmoRotate:
		return "rotate"
	case GizmoScale:
		return "scale"
	}
	return "unknown"
}

const (
	gizmoTranslateSpeed float32 = 0.01
	gizmoRotateSpeed    float32 = 0.01
	gizmoScaleSpeed     float32 = 0.01
)

// TransformGizmo applies translate/rotate/scale drags to the attached
// node. Drag state changes are broadcast so the orbit controller can be
// suspended while dragging.
type TransformGizmo struct {
	mode     GizmoMode
	attached scene.Node
	dragging bool
}

func NewTransformGizmo() *TransformGizmo {
	return &TransformGizmo{}
}

func (g *TransformGizmo) Attach(node scene.Node) {
	g.attached = node
}

func (g *TransformGizmo) Detach() {
	if g.dragging {
		g.EndDrag()
	}
	g.attached = nil
}

func (g *TransformGizmo) Attached() scene.Node { return g.attached }

func (g *TransformGizmo) SetMode(mode GizmoMode) {
	g.mode = mode
}

func (g *TransformGizmo) Mode() GizmoMode { return g.mode }

func (g *TransformGizmo) Dragging() bool { return g.dragging }

func (g *TransformGizmo) BeginDrag() {
	if g.attached == nil || g.dragging {
		return
	}
	g.dragging = true
	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_GIZMO_DRAG_CHANGED,
		Data: true,
	})
}

func (g *TransformGizmo) EndDrag() {
	if !g.dragging {
		return
	}
	g.dragging = false
	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_GIZMO_DRAG_CHANGED,
		Data: false,
	})
}

// Drag applies screen-space deltas to the attached transform according to
// the current mode.
func (g *TransformGizmo) Drag(dx, dy float32) {
	if !g.dragging || g.attached == nil {
		return
	}
	t := g.attached.Transform()
	switch g.mode {
	case GizmoTranslate:
		t.Position.X += dx * gizmoTranslateSpeed
		t.Position.Y -= dy * gizmoTranslateSpeed
	case GizmoRotate:
		t.Rotation.Y += dx * gizmoRotateSpeed
		t.Rotation.X += dy * gizmoRotateSpeed
	case GizmoScale:
		factor := 1.0 + dx*gizmoScaleSpeed
		if factor < 0.01 {
			factor = 0.01
		}
		t.Scale = t.Scale.MulScalar(factor)
	}
}
