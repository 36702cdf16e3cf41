package buildenv

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/goplus/cmsispp/pkgs/board"
)

// Well-known construction variables understood by the host build tool.
const (
	LDScriptPath = "LDSCRIPT_PATH"
	CPPPath      = "CPPPATH"
	LibPath      = "LIBPATH"
	Libs         = "LIBS"
	SrcFilter    = "SRC_FILTER"
)

// Env captures what a framework builder may do to the host build environment.
// It mirrors the environment object a build-tool extension script receives.
type Env interface {
	// Board returns the configuration of the board being built.
	Board() *board.Config

	// Variable mutation.
	Replace(key string, vals ...string)
	Append(key string, vals ...string)
	Get(key string) []string

	// Compile units, kept apart from the link libraries in LIBS.
	AddSrcFilter(rules ...string)
	AddSources(paths ...string)

	// Exit aborts the build. The returned error must be propagated unchanged.
	Exit(err error) error
}

// AbortError is returned by Exit; it stops the whole build.
type AbortError struct {
	Msg string
	Err error
}

func (e *AbortError) Error() string {
	return e.Msg
}

func (e *AbortError) Unwrap() error {
	return e.Err
}

// Environment is an in-memory Env whose contents can be exported once
// configuration finishes.
type Environment struct {
	board    *board.Config
	keys     []string
	vars     map[string][]string
	replaced map[string]bool
	sources  []string
}

var _ Env = (*Environment)(nil)

// New creates an empty environment for the given board.
func New(b *board.Config) *Environment {
	return &Environment{
		board:    b,
		vars:     map[string][]string{},
		replaced: map[string]bool{},
	}
}

func (e *Environment) Board() *board.Config {
	return e.board
}

func (e *Environment) Replace(key string, vals ...string) {
	e.touch(key)
	e.vars[key] = slices.Clone(vals)
	e.replaced[key] = true
}

func (e *Environment) Append(key string, vals ...string) {
	e.touch(key)
	e.vars[key] = append(e.vars[key], vals...)
}

func (e *Environment) Get(key string) []string {
	return slices.Clone(e.vars[key])
}

func (e *Environment) AddSrcFilter(rules ...string) {
	e.Append(SrcFilter, rules...)
}

func (e *Environment) AddSources(paths ...string) {
	e.sources = append(e.sources, paths...)
}

// Sources returns the accumulated compile units.
func (e *Environment) Sources() []string {
	return slices.Clone(e.sources)
}

func (e *Environment) Exit(err error) error {
	return &AbortError{Msg: "Error: " + err.Error(), Err: err}
}

// Keys returns variable names in the order they were first set.
func (e *Environment) Keys() []string {
	return slices.Clone(e.keys)
}

func (e *Environment) touch(key string) {
	if _, ok := e.vars[key]; !ok {
		e.keys = append(e.keys, key)
		e.vars[key] = nil
	}
}

// Snapshot is the exported form of an Environment.
type Snapshot struct {
	Board   string              `json:"board,omitempty"`
	MCU     string              `json:"mcu,omitempty"`
	Vars    map[string][]string `json:"vars"`
	Sources []string            `json:"sources"`
}

// Snapshot returns a copy of the environment contents.
func (e *Environment) Snapshot() Snapshot {
	s := Snapshot{
		Vars:    make(map[string][]string, len(e.vars)),
		Sources: e.Sources(),
	}
	if e.board != nil {
		s.Board = e.board.ID
		s.MCU = e.board.MCU()
	}
	if s.Sources == nil {
		s.Sources = []string{}
	}
	for k, v := range e.vars {
		s.Vars[k] = slices.Clone(v)
	}
	return s
}

// WriteJSON writes the environment snapshot as indented JSON.
func (e *Environment) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(e.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteSCons writes one assignment per line: "KEY=value" for replaced
// variables and "KEY+=value" for appended ones. Compile units are written
// as "SOURCES+=path".
func (e *Environment) WriteSCons(w io.Writer) error {
	for _, key := range e.keys {
		op := "+="
		if e.replaced[key] {
			op = "="
		}
		for _, v := range e.vars[key] {
			if _, err := fmt.Fprintf(w, "%s%s%s\n", key, op, v); err != nil {
				return err
			}
		}
	}
	for _, src := range e.sources {
		if _, err := fmt.Fprintf(w, "SOURCES+=%s\n", src); err != nil {
			return err
		}
	}
	return nil
}
