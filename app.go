package main

import (
	"context"
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/korpus/pkg/collide"
	"github.com/chazu/korpus/pkg/geom"
	"github.com/chazu/korpus/pkg/history"
	"github.com/chazu/korpus/pkg/kernel"
	"github.com/chazu/korpus/pkg/kernel/sdfx"
	"github.com/chazu/korpus/pkg/room"
	"github.com/chazu/korpus/pkg/scene"
	"github.com/chazu/korpus/pkg/script"
	"github.com/chazu/korpus/pkg/session"
	"github.com/chazu/korpus/pkg/snap"
	"github.com/chazu/korpus/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It owns the scene, the edit session, the
// history, and the scripting console, and exposes methods to the
// frontend via bindings.
type App struct {
	ctx     context.Context
	store   *scene.Store
	hist    *history.Manager
	sess    *session.Session
	console *script.Console
	kernel  kernel.Kernel
	cfg     snap.Config
	room    room.Room

	selected scene.CabinetID

	// Dependent geometry (counter tops, legs) keyed by cabinet,
	// regenerated after every committed gesture.
	features map[scene.CabinetID][]*kernel.Mesh
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// PoseData is a part pose sent to the frontend during a drag.
type PoseData struct {
	PartID   string     `json:"partId"`
	Position [3]float64 `json:"position"`
	Rotation [3]float64 `json:"rotation"`
}

// IndicatorData describes one snap indicator for overlay rendering.
type IndicatorData struct {
	Kind     string     `json:"kind"`
	TargetID string     `json:"targetId"`
	Point    [3]float64 `json:"point"`
}

// AnnotationData is a distance annotation for overlay rendering.
type AnnotationData struct {
	Start    [3]float64 `json:"start"`
	End      [3]float64 `json:"end"`
	Axis     string     `json:"axis"`
	Distance float64    `json:"distance"`
}

// PreviewData bundles the per-frame drag feedback.
type PreviewData struct {
	Poses       []PoseData       `json:"poses"`
	Indicators  []IndicatorData  `json:"indicators"`
	Annotations []AnnotationData `json:"annotations"`
	Pivot       [3]float64       `json:"pivot"`
}

// CommitData reports how a gesture ended.
type CommitData struct {
	NoOp     bool `json:"noOp"`
	Collided bool `json:"collided"`
}

// ValidationData is a JSON-serializable validation finding.
type ValidationData struct {
	PartID    string `json:"partId"`
	CabinetID string `json:"cabinetId"`
	Message   string `json:"message"`
	Warning   bool   `json:"warning"`
}

// ScriptErrorData is a JSON-serializable script error.
type ScriptErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// ScriptResult is returned to the frontend after a console run.
type ScriptResult struct {
	Errors []ScriptErrorData `json:"errors"`
}

// NewApp creates an App with the sdfx kernel, the default room, and
// snap configuration loaded from snap.yaml / room.yaml when present.
func NewApp() *App {
	cfg, err := snap.LoadConfig("snap.yaml")
	if err != nil {
		log.Printf("snap config: %v (using defaults)", err)
		cfg = snap.DefaultConfig()
	}
	r, err := room.Load("room.yaml")
	if err != nil {
		log.Printf("room config: %v (using defaults)", err)
		r = room.Default()
	}

	a := &App{
		store:    scene.NewStore(),
		kernel:   sdfx.New(),
		cfg:      cfg,
		room:     r,
		features: make(map[scene.CabinetID][]*kernel.Mesh),
	}
	a.hist = history.NewManager(a.applySnapshot)
	a.sess = session.New(a.store, a.hist, cfg, r)
	a.sess.SetRegenHook(a.regenFeatures)
	a.console = script.NewConsole(a)
	return a
}

// applySnapshot is the history apply callback: undo/redo payloads are
// scene snapshots, restored atomically, with dependent geometry
// rebuilt afterwards.
func (a *App) applySnapshot(payload any) {
	sn := payload.(scene.Snapshot)
	a.store.ApplySnapshot(sn)
	for id := range sn.Cabinets {
		a.regenFeatures(id)
	}
}

// regenFeatures rebuilds the dependent geometry for one cabinet.
func (a *App) regenFeatures(id scene.CabinetID) {
	meshes, err := tessellate.CabinetFeatures(a.store, a.kernel, id)
	if err != nil {
		log.Printf("regenerate features for %s: %v", id, err)
		return
	}
	a.features[id] = meshes
}

// startup is called by Wails on app startup. The context is saved so
// Wails runtime methods can be called later.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// ---------------------------------------------------------------------------
// Frontend bindings
// ---------------------------------------------------------------------------

// StartDrag opens a gesture on a cabinet by name. gesture is
// "translate" or "rotate"; pivot is "centroid" or "bounds"; axes
// constrains translation ("x", "y", "z"), empty means unconstrained.
func (a *App) StartDrag(cabinet, gesture, pivot string, axes []string) error {
	if err := a.SelectCabinet(cabinet); err != nil {
		return err
	}
	kind, err := parseGesture(gesture)
	if err != nil {
		return err
	}
	mode, err := parsePivot(pivot)
	if err != nil {
		return err
	}
	parsed, err := parseAxes(axes)
	if err != nil {
		return err
	}
	return a.BeginDrag(kind, mode, parsed)
}

// Drag feeds an incremental delta into the open gesture. Translation
// in mm, rotation in degrees.
func (a *App) Drag(dx, dy, dz, rx, ry, rz float64) error {
	return a.UpdateDrag(session.Delta{
		Translation: mgl64.Vec3{dx, dy, dz},
		Rotation:    geom.Euler{X: rx, Y: ry, Z: rz},
	})
}

// EndDrag commits the open gesture.
func (a *App) EndDrag() (CommitData, error) {
	res, err := a.CommitDrag()
	if err != nil {
		return CommitData{}, err
	}
	return CommitData{NoOp: res.NoOp, Collided: res.Collided}, nil
}

// Preview returns the current drag feedback: previewed poses, snap
// indicators, and distance annotations.
func (a *App) Preview() PreviewData {
	out := PreviewData{
		Poses:       []PoseData{},
		Indicators:  []IndicatorData{},
		Annotations: []AnnotationData{},
	}
	pivot := a.sess.Pivot()
	out.Pivot = [3]float64{pivot.X(), pivot.Y(), pivot.Z()}

	for id, pose := range a.sess.Preview() {
		out.Poses = append(out.Poses, PoseData{
			PartID:   string(id),
			Position: [3]float64{pose.Position.X(), pose.Position.Y(), pose.Position.Z()},
			Rotation: [3]float64{pose.Rotation.X, pose.Rotation.Y, pose.Rotation.Z},
		})
	}
	for _, c := range a.sess.Indicators() {
		out.Indicators = append(out.Indicators, IndicatorData{
			Kind:     c.Kind.String(),
			TargetID: c.TargetID,
			Point:    [3]float64{c.Point.X(), c.Point.Y(), c.Point.Z()},
		})
	}
	for _, an := range a.sess.Annotations() {
		out.Annotations = append(out.Annotations, AnnotationData{
			Start:    [3]float64{an.Start.X(), an.Start.Y(), an.Start.Z()},
			End:      [3]float64{an.End.X(), an.End.Y(), an.End.Z()},
			Axis:     an.Axis.String(),
			Distance: an.Distance,
		})
	}
	return out
}

// Meshes tessellates the whole scene, including regenerated dependent
// geometry, into frontend mesh data.
func (a *App) Meshes() ([]MeshData, error) {
	meshes, err := tessellate.Tessellate(a.store, a.kernel)
	if err != nil {
		log.Printf("tessellate: %v", err)
		return nil, err
	}
	out := make([]MeshData, 0, len(meshes))
	for i, m := range meshes {
		out = append(out, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	return out, nil
}

// AddCabinet builds a simple carcass cabinet (two sides, bottom, top,
// back) at the given floor position and registers it under name.
// Dimensions are outer mm; panelThickness defaults to 18 when zero.
func (a *App) AddCabinet(name string, x, z, width, height, depth, panelThickness float64, counterTop bool) error {
	t := panelThickness
	if t <= 0 {
		t = 18
	}
	if width <= 2*t || height <= 2*t || depth <= t {
		return fmt.Errorf("cabinet %q: dimensions too small for %vmm panels", name, t)
	}
	cy := height / 2

	mk := func(suffix string, dims, pos mgl64.Vec3, grain geom.Axis) (*scene.Part, error) {
		p := &scene.Part{
			ID:         scene.NewPartID(),
			Name:       name + "/" + suffix,
			Dimensions: dims,
			Position:   pos,
			Grain:      grain,
		}
		if err := a.store.AddPart(p); err != nil {
			return nil, fmt.Errorf("cabinet %q: %s: %w", name, suffix, err)
		}
		return p, nil
	}

	inner := width - 2*t
	specs := []struct {
		suffix string
		dims   mgl64.Vec3
		pos    mgl64.Vec3
		grain  geom.Axis
	}{
		{"side-left", mgl64.Vec3{t, height, depth}, mgl64.Vec3{x - (width-t)/2, cy, z}, geom.AxisY},
		{"side-right", mgl64.Vec3{t, height, depth}, mgl64.Vec3{x + (width-t)/2, cy, z}, geom.AxisY},
		{"bottom", mgl64.Vec3{inner, t, depth}, mgl64.Vec3{x, t / 2, z}, geom.AxisX},
		{"top", mgl64.Vec3{inner, t, depth}, mgl64.Vec3{x, height - t/2, z}, geom.AxisX},
		{"back", mgl64.Vec3{width, height, t}, mgl64.Vec3{x, cy, z - (depth-t)/2}, geom.AxisY},
	}

	members := make([]scene.PartID, 0, len(specs))
	for _, sp := range specs {
		p, err := mk(sp.suffix, sp.dims, sp.pos, sp.grain)
		if err != nil {
			return err
		}
		members = append(members, p.ID)
	}

	cab := &scene.Cabinet{
		ID:         scene.NewCabinetID(),
		Name:       name,
		Members:    members,
		Position:   mgl64.Vec3{x, 0, z},
		CounterTop: counterTop,
	}
	if counterTop {
		cab.TopThickness = scene.DefaultTopThickness
	}
	if err := a.store.AddCabinet(cab); err != nil {
		return fmt.Errorf("cabinet %q: %w", name, err)
	}
	a.regenFeatures(cab.ID)
	return nil
}

// Validate runs scene validation and returns the findings.
func (a *App) Validate() []ValidationData {
	out := []ValidationData{}
	for _, e := range a.store.Validate() {
		out = append(out, ValidationData{
			PartID:    string(e.PartID),
			CabinetID: string(e.CabinetID),
			Message:   e.Message,
			Warning:   e.Severity == scene.SeverityWarning,
		})
	}
	return out
}

// Collisions reports whether the named cabinet currently intersects
// any other cabinet.
func (a *App) Collisions(cabinet string) (bool, error) {
	c := a.store.CabinetByName(cabinet)
	if c == nil {
		return false, fmt.Errorf("unknown cabinet %q", cabinet)
	}
	return collide.Cabinet(a.store, c.ID)
}

// RunScript evaluates console Lisp source against the editor.
func (a *App) RunScript(source string) ScriptResult {
	result := ScriptResult{Errors: []ScriptErrorData{}}
	evalErrs, err := a.console.Run(source)
	if err != nil {
		log.Printf("script fatal error: %v", err)
		result.Errors = append(result.Errors, ScriptErrorData{Message: err.Error()})
		return result
	}
	for _, e := range evalErrs {
		result.Errors = append(result.Errors, ScriptErrorData{
			Line: e.Line, Col: e.Col, Message: e.Message,
		})
	}
	return result
}

// ---------------------------------------------------------------------------
// script.Editor implementation
// ---------------------------------------------------------------------------

// SelectCabinet makes the named cabinet the target of subsequent
// gestures.
func (a *App) SelectCabinet(name string) error {
	c := a.store.CabinetByName(name)
	if c == nil {
		return fmt.Errorf("unknown cabinet %q", name)
	}
	a.selected = c.ID
	return nil
}

// BeginDrag opens a gesture on the selected cabinet.
func (a *App) BeginDrag(kind session.GestureKind, mode session.PivotMode, axes []geom.Axis) error {
	if a.selected == "" {
		return fmt.Errorf("no cabinet selected")
	}
	return a.sess.Start(a.selected, kind, mode, axes)
}

// UpdateDrag feeds a delta into the open gesture.
func (a *App) UpdateDrag(d session.Delta) error {
	return a.sess.Drag(d)
}

// CommitDrag finalizes the open gesture.
func (a *App) CommitDrag() (session.CommitResult, error) {
	return a.sess.Commit()
}

// CancelDrag discards the open gesture.
func (a *App) CancelDrag() {
	a.sess.Cancel()
}

// Undo reverts the most recent committed edit.
func (a *App) Undo() bool { return a.hist.Undo() }

// Redo reapplies the most recently undone edit.
func (a *App) Redo() bool { return a.hist.Redo() }

// SetSnapEnabled toggles snapping globally.
func (a *App) SetSnapEnabled(on bool) {
	a.cfg.Enabled = on
	a.sess.SetSnapConfig(a.cfg)
}

// SetSnapKind toggles one snap category by name.
func (a *App) SetSnapKind(name string, on bool) error {
	switch name {
	case "contact":
		a.cfg.Kinds.Contact = on
	case "align":
		a.cfg.Kinds.Align = on
	case "t-joint":
		a.cfg.Kinds.TJoint = on
	case "wall":
		a.cfg.Kinds.Wall = on
	case "corner":
		a.cfg.Kinds.Corner = on
	default:
		return fmt.Errorf("unknown snap kind %q", name)
	}
	a.sess.SetSnapConfig(a.cfg)
	return nil
}

// ---------------------------------------------------------------------------
// Parse helpers for string-typed frontend arguments
// ---------------------------------------------------------------------------

func parseGesture(s string) (session.GestureKind, error) {
	switch s {
	case "translate", "":
		return session.GestureTranslate, nil
	case "rotate":
		return session.GestureRotate, nil
	}
	return 0, fmt.Errorf("invalid gesture %q", s)
}

func parsePivot(s string) (session.PivotMode, error) {
	switch s {
	case "centroid", "":
		return session.PivotCentroid, nil
	case "bounds":
		return session.PivotBounds, nil
	}
	return 0, fmt.Errorf("invalid pivot %q", s)
}

func parseAxes(names []string) ([]geom.Axis, error) {
	if len(names) == 0 {
		return nil, nil
	}
	axes := make([]geom.Axis, 0, len(names))
	for _, n := range names {
		switch n {
		case "x":
			axes = append(axes, geom.AxisX)
		case "y":
			axes = append(axes, geom.AxisY)
		case "z":
			axes = append(axes, geom.AxisZ)
		default:
			return nil, fmt.Errorf("invalid axis %q", n)
		}
	}
	return axes, nil
}
