package script

import (
	"fmt"
	"strings"
	"testing"

	"github.com/chazu/korpus/pkg/geom"
	"github.com/chazu/korpus/pkg/session"
)

// fakeEditor records every call so tests can assert on the command
// stream a script produced.
type fakeEditor struct {
	calls     []string
	selectErr error
	commitRes session.CommitResult
}

func (f *fakeEditor) SelectCabinet(name string) error {
	f.calls = append(f.calls, "select "+name)
	return f.selectErr
}

func (f *fakeEditor) BeginDrag(kind session.GestureKind, mode session.PivotMode, axes []geom.Axis) error {
	names := make([]string, len(axes))
	for i, a := range axes {
		names[i] = a.String()
	}
	f.calls = append(f.calls, fmt.Sprintf("begin %d %d [%s]", kind, mode, strings.Join(names, " ")))
	return nil
}

func (f *fakeEditor) UpdateDrag(d session.Delta) error {
	f.calls = append(f.calls, fmt.Sprintf("drag t=(%g %g %g) r=(%g %g %g)",
		d.Translation.X(), d.Translation.Y(), d.Translation.Z(),
		d.Rotation.X, d.Rotation.Y, d.Rotation.Z))
	return nil
}

func (f *fakeEditor) CommitDrag() (session.CommitResult, error) {
	f.calls = append(f.calls, "commit")
	return f.commitRes, nil
}

func (f *fakeEditor) CancelDrag() {
	f.calls = append(f.calls, "cancel")
}

func (f *fakeEditor) Undo() bool {
	f.calls = append(f.calls, "undo")
	return true
}

func (f *fakeEditor) Redo() bool {
	f.calls = append(f.calls, "redo")
	return false
}

func (f *fakeEditor) SetSnapEnabled(on bool) {
	f.calls = append(f.calls, fmt.Sprintf("snap-enabled %v", on))
}

func (f *fakeEditor) SetSnapKind(name string, on bool) error {
	f.calls = append(f.calls, fmt.Sprintf("snap-kind %s %v", name, on))
	return nil
}

func runScript(t *testing.T, ed Editor, source string) []EvalError {
	t.Helper()
	errs, err := NewConsole(ed).Run(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	return errs
}

func assertCalls(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d calls %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"keyword", `(move :x 100)`, `(move "__kw_x" 100)`},
		{"kebab keyword", `(snap :t-joint false)`, `(snap "__kw_t_joint" false)`},
		{"kebab identifier", `(begin-drag)`, `(begin_drag)`},
		{"minus stays minus", `(move :x (- 10 3))`, `(move "__kw_x" (- 10 3))`},
		{"negative literal", `(move :z -50)`, `(move "__kw_z" -50)`},
		{"semicolon comment", "(undo) ; note\n(redo)", "(undo) // note\n(redo)"},
		{"string untouched", `(select "base-left:main")`, `(select "base-left:main")`},
		{"escaped quote", `(select "a\"b-c")`, `(select "a\"b-c")`},
		{"assignment preserved", `(def x := 1)`, `(def x := 1)`},
		{"backtick untouched", "(p `a-b :x`)", "(p `a-b :x`)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preprocessSource(tt.in); got != tt.want {
				t.Errorf("preprocessSource(%q)\n got %q\nwant %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRunEmptySourceIsNoOp(t *testing.T) {
	ed := &fakeEditor{}
	if errs := runScript(t, ed, "  \n\t"); errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(ed.calls) != 0 {
		t.Errorf("empty source made calls: %v", ed.calls)
	}
}

func TestSelectAndMove(t *testing.T) {
	ed := &fakeEditor{}
	errs := runScript(t, ed, `(select "base-1") (move :x 100 :z -50 :pivot :bounds)`)
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	assertCalls(t, ed.calls, []string{
		"select base-1",
		fmt.Sprintf("begin %d %d [x z]", session.GestureTranslate, session.PivotBounds),
		"drag t=(100 0 -50) r=(0 0 0)",
		"commit",
	})
}

func TestRotateOneShot(t *testing.T) {
	ed := &fakeEditor{}
	errs := runScript(t, ed, `(rotate :ry 90)`)
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	assertCalls(t, ed.calls, []string{
		fmt.Sprintf("begin %d %d []", session.GestureRotate, session.PivotCentroid),
		"drag t=(0 0 0) r=(0 90 0)",
		"commit",
	})
}

func TestManualGesture(t *testing.T) {
	ed := &fakeEditor{}
	source := `
(begin-drag :gesture :translate :pivot :bounds :axes [:x])
(drag :x 25)
(drag :x 25)
(commit)`
	if errs := runScript(t, ed, source); errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	assertCalls(t, ed.calls, []string{
		fmt.Sprintf("begin %d %d [x]", session.GestureTranslate, session.PivotBounds),
		"drag t=(25 0 0) r=(0 0 0)",
		"drag t=(25 0 0) r=(0 0 0)",
		"commit",
	})
}

func TestCancelUndoRedo(t *testing.T) {
	ed := &fakeEditor{}
	if errs := runScript(t, ed, `(cancel) (undo) (redo)`); errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	assertCalls(t, ed.calls, []string{"cancel", "undo", "redo"})
}

func TestSnapToggles(t *testing.T) {
	ed := &fakeEditor{}
	source := `(snap :enabled false) (snap :t-joint false) (snap :corner true)`
	if errs := runScript(t, ed, source); errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	assertCalls(t, ed.calls, []string{
		"snap-enabled false",
		"snap-kind t-joint false",
		"snap-kind corner true",
	})
}

func TestEditorErrorBecomesEvalError(t *testing.T) {
	ed := &fakeEditor{selectErr: fmt.Errorf("no cabinet named %q", "ghost")}
	errs := runScript(t, ed, `(select "ghost")`)
	if len(errs) == 0 {
		t.Fatal("expected an eval error")
	}
	if !strings.Contains(errs[0].Message, "ghost") {
		t.Errorf("message = %q", errs[0].Message)
	}
}

func TestParseErrorIsNotFatal(t *testing.T) {
	ed := &fakeEditor{}
	errs := runScript(t, ed, `(select "base-1"`)
	if len(errs) == 0 {
		t.Fatal("expected a parse error")
	}
	if len(ed.calls) != 0 {
		t.Errorf("broken script still made calls: %v", ed.calls)
	}
}

func TestParseZygomysErrorExtractsLine(t *testing.T) {
	tests := []struct {
		msg  string
		line int
		rest string
	}{
		{"Error on line 3: undefined symbol `frob`", 3, "undefined symbol `frob`"},
		{"line 12: unexpected end of input", 12, "unexpected end of input"},
		{"something went wrong", 0, "something went wrong"},
	}
	for _, tt := range tests {
		got := parseZygomysError(fmt.Errorf("%s", tt.msg))
		if len(got) != 1 {
			t.Fatalf("%q: got %d errors", tt.msg, len(got))
		}
		if got[0].Line != tt.line || got[0].Message != tt.rest {
			t.Errorf("%q: got line=%d msg=%q, want line=%d msg=%q",
				tt.msg, got[0].Line, got[0].Message, tt.line, tt.rest)
		}
	}
}
