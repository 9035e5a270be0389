package script

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/korpus/pkg/geom"
	"github.com/chazu/korpus/pkg/session"
)

// Editor is the surface the script console drives. The application
// binds it to the live scene, edit session, and history.
type Editor interface {
	// SelectCabinet makes the named cabinet the target of subsequent
	// gesture commands.
	SelectCabinet(name string) error

	// BeginDrag opens a gesture on the selected cabinet. axes
	// constrains translation; nil means unconstrained.
	BeginDrag(kind session.GestureKind, mode session.PivotMode, axes []geom.Axis) error
	// UpdateDrag feeds an incremental delta into the open gesture.
	UpdateDrag(d session.Delta) error
	// CommitDrag finalizes the open gesture.
	CommitDrag() (session.CommitResult, error)
	// CancelDrag discards the open gesture.
	CancelDrag()

	Undo() bool
	Redo() bool

	// SetSnapEnabled toggles snapping globally.
	SetSnapEnabled(on bool)
	// SetSnapKind toggles one snap category by name
	// (contact, align, t-joint, wall, corner).
	SetSnapKind(name string, on bool) error
}

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource transforms console Lisp source before passing it to
// zygomys:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal),
//     so keywords need no global symbol registration.
//  2. Kebab-case to underscore: t-joint -> t_joint, since zygomys reads
//     a hyphen between identifiers as subtraction.
//  3. ; line comments become // comments, which is what zygomys reads.
//
// All three respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Pass double-quoted string literals through untouched.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Same for backtick-quoted literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				for _, c := range b[i+1 : j] {
					if c == '-' {
						c = '_'
					}
					result = append(result, c)
				}
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Hyphen between identifier characters is part of a kebab name,
		// not a minus operator.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string, returning the
// keyword name without the prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		if name, ok := isKW(args[i]); ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString accepts a preprocessed keyword (__kw_z) or a plain
// string ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

func toAxis(s zygo.Sexp) (geom.Axis, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected axis keyword (:x, :y, :z): %w", err)
	}
	switch name {
	case "x":
		return geom.AxisX, nil
	case "y":
		return geom.AxisY, nil
	case "z":
		return geom.AxisZ, nil
	}
	return 0, fmt.Errorf("invalid axis %q, expected x, y, or z", name)
}

func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toAxes converts a Lisp list of axis keywords to a geom.Axis slice.
func toAxes(s zygo.Sexp) ([]geom.Axis, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	axes := make([]geom.Axis, 0, len(items))
	for _, it := range items {
		a, err := toAxis(it)
		if err != nil {
			return nil, err
		}
		axes = append(axes, a)
	}
	return axes, nil
}

func toPivotMode(s zygo.Sexp) (session.PivotMode, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected pivot keyword (:centroid, :bounds): %w", err)
	}
	switch name {
	case "centroid":
		return session.PivotCentroid, nil
	case "bounds":
		return session.PivotBounds, nil
	}
	return 0, fmt.Errorf("invalid pivot %q, expected centroid or bounds", name)
}

// deltaFromArgs builds a session.Delta from :x/:y/:z translation and
// :rx/:ry/:rz rotation keyword arguments.
func deltaFromArgs(pa kwArgs) (session.Delta, error) {
	var d session.Delta
	var t mgl64.Vec3
	for i, key := range []string{"x", "y", "z"} {
		if v, ok := pa.kw[key]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return d, fmt.Errorf("%s: %w", key, err)
			}
			t[i] = f
		}
	}
	d.Translation = t
	for _, spec := range []struct {
		key string
		dst *float64
	}{
		{"rx", &d.Rotation.X},
		{"ry", &d.Rotation.Y},
		{"rz", &d.Rotation.Z},
	} {
		if v, ok := pa.kw[spec.key]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return d, fmt.Errorf("%s: %w", spec.key, err)
			}
			*spec.dst = f
		}
	}
	return d, nil
}

// translationAxes lists the axes a delta's translation actually uses,
// so one-shot moves constrain themselves to the axes they name.
func translationAxes(pa kwArgs) []geom.Axis {
	var axes []geom.Axis
	for i, key := range []string{"x", "y", "z"} {
		if _, ok := pa.kw[key]; ok {
			axes = append(axes, geom.Axis(i))
		}
	}
	return axes
}

// commitString renders a commit result for the console.
func commitString(res session.CommitResult) string {
	switch {
	case res.NoOp:
		return "no-op"
	case res.Collided:
		return "committed (collision)"
	default:
		return "committed"
	}
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// newSandbox creates a fresh sandboxed zygomys environment with all
// editor builtins registered against ed.
func newSandbox(ed Editor) *zygo.Zlisp {
	env := zygo.NewZlispSandbox()
	registerBuiltins(env, ed)
	return env
}

// registerBuiltins installs the console command set. Source must be
// preprocessed with preprocessSource so :keyword tokens are
// recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, ed Editor) {

	// (select "base-left")
	env.AddFunction("select", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("select: expected cabinet name")
		}
		cab, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("select: %w", err)
		}
		if err := ed.SelectCabinet(cab); err != nil {
			return zygo.SexpNull, fmt.Errorf("select: %w", err)
		}
		return &zygo.SexpStr{S: cab}, nil
	})

	// (move :x 100 :z -50 :pivot :bounds)
	// One-shot translate gesture: begin, drag, commit.
	env.AddFunction("move", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		d, err := deltaFromArgs(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move: %w", err)
		}
		mode := session.PivotCentroid
		if v, ok := pa.kw["pivot"]; ok {
			if mode, err = toPivotMode(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("move: %w", err)
			}
		}
		if err := ed.BeginDrag(session.GestureTranslate, mode, translationAxes(pa)); err != nil {
			return zygo.SexpNull, fmt.Errorf("move: %w", err)
		}
		if err := ed.UpdateDrag(d); err != nil {
			ed.CancelDrag()
			return zygo.SexpNull, fmt.Errorf("move: %w", err)
		}
		res, err := ed.CommitDrag()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move: %w", err)
		}
		return &zygo.SexpStr{S: commitString(res)}, nil
	})

	// (rotate :ry 90 :pivot :centroid)
	// One-shot rotate gesture.
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		d, err := deltaFromArgs(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		mode := session.PivotCentroid
		if v, ok := pa.kw["pivot"]; ok {
			if mode, err = toPivotMode(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
			}
		}
		if err := ed.BeginDrag(session.GestureRotate, mode, nil); err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		if err := ed.UpdateDrag(d); err != nil {
			ed.CancelDrag()
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		res, err := ed.CommitDrag()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		return &zygo.SexpStr{S: commitString(res)}, nil
	})

	// (begin-drag :gesture :translate :pivot :bounds :axes [:x :z])
	env.AddFunction("begin_drag", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		kind := session.GestureTranslate
		if v, ok := pa.kw["gesture"]; ok {
			g, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("begin-drag: %w", err)
			}
			switch g {
			case "translate":
				kind = session.GestureTranslate
			case "rotate":
				kind = session.GestureRotate
			default:
				return zygo.SexpNull, fmt.Errorf("begin-drag: invalid gesture %q", g)
			}
		}
		mode := session.PivotCentroid
		if v, ok := pa.kw["pivot"]; ok {
			m, err := toPivotMode(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("begin-drag: %w", err)
			}
			mode = m
		}
		var axes []geom.Axis
		if v, ok := pa.kw["axes"]; ok {
			a, err := toAxes(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("begin-drag: %w", err)
			}
			axes = a
		}
		if err := ed.BeginDrag(kind, mode, axes); err != nil {
			return zygo.SexpNull, fmt.Errorf("begin-drag: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// (drag :x 10 :ry 5)
	env.AddFunction("drag", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		d, err := deltaFromArgs(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("drag: %w", err)
		}
		if err := ed.UpdateDrag(d); err != nil {
			return zygo.SexpNull, fmt.Errorf("drag: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// (commit)
	env.AddFunction("commit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		res, err := ed.CommitDrag()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("commit: %w", err)
		}
		return &zygo.SexpStr{S: commitString(res)}, nil
	})

	// (cancel)
	env.AddFunction("cancel", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ed.CancelDrag()
		return zygo.SexpNull, nil
	})

	// (undo) / (redo)
	env.AddFunction("undo", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpBool{Val: ed.Undo()}, nil
	})
	env.AddFunction("redo", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpBool{Val: ed.Redo()}, nil
	})

	// (snap :enabled false) or (snap :contact false :corner true)
	env.AddFunction("snap", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		for key, v := range pa.kw {
			on, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("snap: %s: %w", key, err)
			}
			if key == "enabled" {
				ed.SetSnapEnabled(on)
				continue
			}
			// preprocessSource rewrites :t-joint to t_joint.
			kind := strings.ReplaceAll(key, "_", "-")
			if err := ed.SetSnapKind(kind, on); err != nil {
				return zygo.SexpNull, fmt.Errorf("snap: %w", err)
			}
		}
		return zygo.SexpNull, nil
	})
}
