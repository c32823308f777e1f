package script

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single predicate evaluation.
const DefaultTimeout = 100 * time.Millisecond

// ValueGlobal is the Lua global holding the field value.
const ValueGlobal = "value"

var hasReturn = regexp.MustCompile(`\breturn\b`)

// Predicate is a compiled Lua expression over a field value.
//
// gopher-lua states are not goroutine-safe; a Predicate serializes its
// evaluations.
type Predicate struct {
	source  string
	timeout time.Duration

	mu     sync.Mutex
	L      *lua.LState
	fn     *lua.LFunction
	closed bool
}

// Option configures a Predicate.
type Option func(*Predicate)

// WithTimeout sets the evaluation timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(p *Predicate) {
		p.timeout = d
	}
}

// Compile parses src into a predicate.
func Compile(src string, opts ...Option) (*Predicate, error) {
	p := &Predicate{
		source:  src,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}

	body := src
	if !hasReturn.MatchString(src) {
		body = "return (" + src + ")"
	}

	L := newSandboxedState()
	fn, err := L.LoadString(body)
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("%w: %q: %v", ErrCompile, src, err)
	}

	p.L = L
	p.fn = fn
	return p, nil
}

// MustCompile is Compile for sources known to be valid. It panics on error.
func MustCompile(src string, opts ...Option) *Predicate {
	p, err := Compile(src, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Source returns the predicate source as written.
func (p *Predicate) Source() string {
	return p.source
}

// Eval runs the predicate with value bound to v.
func (p *Predicate) Eval(v any) (ok bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return false, ErrClosed
	}

	if p.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		p.L.SetContext(ctx)
		defer p.L.RemoveContext()
	}

	defer func() {
		if r := recover(); r != nil {
			ok, err = false, fmt.Errorf("%w: %q: %v", ErrEval, p.source, r)
		}
	}()

	p.L.SetGlobal(ValueGlobal, toLua(p.L, v))
	top := p.L.GetTop()
	p.L.Push(p.fn)
	if err := p.L.PCall(0, 1, nil); err != nil {
		p.L.SetTop(top)
		return false, fmt.Errorf("%w: %q: %v", ErrEval, p.source, err)
	}
	ret := p.L.Get(-1)
	p.L.SetTop(top)

	return lua.LVAsBool(ret), nil
}

// Func adapts the predicate to a rule test. Evaluation errors fail the value.
func (p *Predicate) Func() func(v any) bool {
	return func(v any) bool {
		ok, err := p.Eval(v)
		return err == nil && ok
	}
}

// Close releases the Lua state.
func (p *Predicate) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.L.Close()
}
