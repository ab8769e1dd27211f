package intercept

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/chief111elf/proxymetrics/core/stats"
)

// entry pairs a method's signature string with its running aggregate.
// Entries are created at construction and never removed.
type entry struct {
	sig   string
	stats *stats.RunningStats
}

// Interceptor times calls to a wrapped target and aggregates per-method
// statistics. The entry map is built fully before New returns; afterwards its
// key set never changes, so concurrent calls read the map without locking and
// only the per-entry aggregates mutate.
//
// Failure policy: errors returned by the target are propagated to the caller
// unchanged and their timing is recorded like any other call. Swallowing
// failures is deliberately not offered, not even behind an option — a
// diagnostic wrapper must not change the wrapped contract's semantics.
type Interceptor struct {
	target  reflect.Value
	marker  any
	log     *slog.Logger
	metrics InterceptMetrics

	// keyed by bare method name. A Go method set has unique names, so a
	// method declared by several contracts maps to a single entry (first
	// contract's signature wins).
	entries map[string]*entry
}

// New wraps target under the capability contract T (an interface type).
// Additional contracts can be attached with [WithContract]. Every declared
// method gets a zeroed aggregate before the Interceptor is returned.
func New[T any](target T, opts ...Option) (*Interceptor, error) {
	cfg := options{metrics: NopInterceptMetrics()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = slog.Default()
	}

	tv := reflect.ValueOf(target)
	if !tv.IsValid() {
		return nil, ErrNilTarget
	}

	ic := &Interceptor{
		target:  tv,
		log:     cfg.log,
		metrics: cfg.metrics,
		entries: make(map[string]*entry),
	}

	contracts := append([]Contract{ContractFor[T]()}, cfg.contracts...)
	for _, c := range contracts {
		if c.typ == nil || c.typ.Kind() != reflect.Interface {
			return nil, fmt.Errorf("%w: %v", ErrNotInterface, c.typ)
		}
		if !tv.Type().Implements(c.typ) {
			return nil, fmt.Errorf("%w: %s does not implement %s", ErrTargetMismatch, tv.Type(), c.name)
		}
		for _, m := range c.methods {
			if _, ok := ic.entries[m.Name]; ok {
				continue
			}
			ic.entries[m.Name] = &entry{sig: m.Signature, stats: stats.NewRunning()}
		}
	}

	return ic, nil
}

// Target returns the wrapped object.
func (ic *Interceptor) Target() any { return ic.target.Interface() }

// Marker returns the registry marker this Interceptor was wrapped with, or
// nil if it was constructed directly via New.
func (ic *Interceptor) Marker() any { return ic.marker }

// Observe times one call to the named method. This is the forwarding path:
// a hand-written wrapper invokes the target inside call and delegates timing
// here. The elapsed duration is always recorded, also when call fails, and
// the error is returned unchanged. An unknown method name drops the
// observation but still runs call.
func (ic *Interceptor) Observe(method string, call func() error) error {
	tm := ic.metrics.CallDuration(method)
	start := time.Now()
	err := call()
	elapsed := time.Since(start)
	tm.ObserveDuration()

	if e, ok := ic.entries[method]; ok {
		e.stats.Observe(elapsed, err != nil)
	}
	ic.metrics.CallProcessed(method, err == nil)

	return err
}

// Observe1 is Observe for calls returning one value and an error.
func Observe1[R any](ic *Interceptor, method string, call func() (R, error)) (R, error) {
	var out R
	err := ic.Observe(method, func() error {
		var callErr error
		out, callErr = call()
		return callErr
	})
	return out, err
}

var errType = reflect.TypeFor[error]()

// Call dispatches method on the target reflectively, timing it like Observe.
// Results are returned as a slice; when the method's last result is declared
// as error it is split off and returned separately. Argument values are
// converted to the parameter types where possible.
func (ic *Interceptor) Call(method string, args ...any) ([]any, error) {
	m := ic.target.MethodByName(method)
	if !m.IsValid() {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownMethod, ic.target.Type(), method)
	}

	in, err := buildArgs(m.Type(), args)
	if err != nil {
		return nil, err
	}

	mt := m.Type()
	splitErr := mt.NumOut() > 0 && mt.Out(mt.NumOut()-1) == errType

	var outs []reflect.Value
	callErr := ic.Observe(method, func() error {
		outs = m.Call(in)
		if splitErr {
			last := outs[len(outs)-1]
			outs = outs[:len(outs)-1]
			if e, _ := last.Interface().(error); e != nil {
				return e
			}
		}
		return nil
	})

	results := make([]any, len(outs))
	for i, v := range outs {
		results[i] = v.Interface()
	}
	return results, callErr
}

func buildArgs(fn reflect.Type, args []any) ([]reflect.Value, error) {
	fixed := fn.NumIn()
	if fn.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, fmt.Errorf("%w: got %d, want at least %d", ErrInvalidArgs, len(args), fixed)
		}
	} else if len(args) != fixed {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidArgs, len(args), fixed)
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var want reflect.Type
		if fn.IsVariadic() && i >= fixed {
			want = fn.In(fn.NumIn() - 1).Elem()
		} else {
			want = fn.In(i)
		}
		v, err := coerceArg(a, want)
		if err != nil {
			return nil, fmt.Errorf("%w: arg %d: %v", ErrInvalidArgs, i, err)
		}
		in[i] = v
	}
	return in, nil
}

func coerceArg(a any, want reflect.Type) (reflect.Value, error) {
	if a == nil {
		switch want.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
			return reflect.Zero(want), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not assignable to %s", want)
	}
	v := reflect.ValueOf(a)
	if v.Type().AssignableTo(want) {
		return v, nil
	}
	if v.Type().ConvertibleTo(want) {
		return v.Convert(want), nil
	}
	return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", v.Type(), want)
}

// MethodStats pairs a method's signature string with a snapshot of its
// aggregate.
type MethodStats struct {
	Signature string         `json:"signature"`
	Stats     stats.Snapshot `json:"stats"`
}

// StatsForMethod returns snapshots for methods whose bare name matches name:
// exact equality, or containment when substring is set. With stopOnFirst the
// scan ends after the first hit. Entries are visited in map order, which is
// unspecified.
func (ic *Interceptor) StatsForMethod(name string, substring, stopOnFirst bool) []MethodStats {
	var out []MethodStats
	for mname, e := range ic.entries {
		hit := mname == name
		if substring {
			hit = strings.Contains(mname, name)
		}
		if !hit {
			continue
		}
		out = append(out, MethodStats{Signature: e.sig, Stats: e.stats.Snapshot()})
		if stopOnFirst {
			break
		}
	}
	return out
}

// AllStats returns snapshots for every registered method.
func (ic *Interceptor) AllStats() []MethodStats {
	out := make([]MethodStats, 0, len(ic.entries))
	for _, e := range ic.entries {
		out = append(out, MethodStats{Signature: e.sig, Stats: e.stats.Snapshot()})
	}
	return out
}
