// Package script provides the Lisp scripting console for Korpus.
// It wraps zygomys in a sandboxed environment and exposes editor
// commands (select, move, rotate, undo, snap configuration) as Lisp
// builtins, so placements can be scripted and replayed.
package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Console wraps the zygomys interpreter for editor scripting.
// It is safe for concurrent use; each call to Run creates a fresh
// sandboxed environment so scripts cannot leak state into each other.
type Console struct {
	mu         sync.Mutex
	generation uint64
	editor     Editor
}

// NewConsole creates a console bound to an editor.
func NewConsole(editor Editor) *Console {
	return &Console{editor: editor}
}

// Run evaluates Lisp source against the editor.
//
// Return semantics:
//   - On success: nil errors + nil error
//   - On parse/eval failure: eval errors + nil error
//   - On fatal failure (timeout, panic): nil + error
func (c *Console) Run(source string) ([]EvalError, error) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		evalErrs, err := c.run(source)
		ch <- evalResult{errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &c.mu, &c.generation)
}

func (c *Console) run(source string) ([]EvalError, error) {
	// An empty script is a valid no-op.
	if strings.TrimSpace(source) == "" {
		return nil, nil
	}

	env := newSandbox(c.editor)
	defer env.Stop()

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return parseZygomysError(err), nil
	}
	return nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError
// values, extracting line number information where the message carries it.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
