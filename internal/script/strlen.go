package script

import (
	"fmt"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/charlimit/internal/logging"
	"github.com/dshills/charlimit/internal/measure"
)

// Strlen is a length measure backed by a Lua function.
//
// The underlying Lua state is not goroutine-safe; calls are serialized.
type Strlen struct {
	mu     sync.Mutex
	L      *lua.LState
	fn     *lua.LFunction
	name   string
	closed bool

	fallback measure.Func
	logger   logging.Logger
	lastErr  error
}

// Option configures a Strlen.
type Option func(*Strlen)

// WithFallback sets the measure used when the script fails. The default is
// measure.UTF16.
func WithFallback(fn measure.Func) Option {
	return func(s *Strlen) {
		if fn != nil {
			s.fallback = fn
		}
	}
}

// WithLogger sets the logger for script failures.
func WithLogger(l logging.Logger) Option {
	return func(s *Strlen) {
		s.logger = logging.OrNop(l)
	}
}

// LoadFile loads the script at path.
func LoadFile(path string, opts ...Option) (*Strlen, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w", path, err)
	}
	return Load(path, string(code), opts...)
}

// Load compiles code, runs it once to define its globals, and looks up
// strlen. name is used in error messages.
func Load(name, code string, opts ...Option) (*Strlen, error) {
	s := &Strlen{
		name:     name,
		fallback: measure.UTF16,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	registerMeasures(L)

	fn, err := L.LoadString(code)
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("compiling %s: %w", name, err)
	}
	L.Push(fn)
	if err := L.PCall(0, 0, nil); err != nil {
		L.Close()
		return nil, fmt.Errorf("running %s: %w", name, err)
	}

	strlen, ok := L.GetGlobal("strlen").(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("%s: %w", name, ErrNoStrlen)
	}
	s.L, s.fn = L, strlen
	return s, nil
}

// openSafeLibraries opens the base, table, string and math libraries and
// removes the functions that load code from files or strings.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// registerMeasures exposes the built-in measures as the charlimit table.
func registerMeasures(L *lua.LState) {
	wrap := func(fn measure.Func) lua.LGFunction {
		return func(L *lua.LState) int {
			L.Push(lua.LNumber(fn(L.CheckString(1))))
			return 1
		}
	}
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		measure.NameUTF16:      wrap(measure.UTF16),
		measure.NameCodePoints: wrap(measure.CodePoints),
		measure.NameGraphemes:  wrap(measure.Graphemes),
		measure.NameBytes:      wrap(measure.Bytes),
	})
	L.SetGlobal("charlimit", mod)
}

// Measure returns the length of text according to the script.
func (s *Strlen) Measure(text string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	if err := s.L.CallByParam(lua.P{Fn: s.fn, NRet: 1, Protect: true}, lua.LString(text)); err != nil {
		return 0, fmt.Errorf("%s: strlen: %w", s.name, err)
	}
	ret := s.L.Get(-1)
	s.L.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok || n < 0 {
		return 0, fmt.Errorf("%s: %w, got %s", s.name, ErrBadResult, ret.Type())
	}
	return int(n), nil
}

// Len is Measure as a measure.Func. A failing call logs the error once,
// records it for Err and falls back to the fallback measure.
func (s *Strlen) Len(text string) int {
	n, err := s.Measure(text)
	if err == nil {
		return n
	}

	s.mu.Lock()
	first := s.lastErr == nil
	s.lastErr = err
	s.mu.Unlock()
	if first {
		s.logger.Warn("strlen script failed, using fallback", "script", s.name, "error", err)
	}
	return s.fallback(text)
}

// Func returns s.Len as a measure.Func.
func (s *Strlen) Func() measure.Func { return s.Len }

// Err returns the most recent error seen by Len.
func (s *Strlen) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close releases the Lua state.
func (s *Strlen) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.L.Close()
}
