package intercept

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// === Fixtures ===

type Greeter interface {
	Greet(name string) string
}

type Calculator interface {
	Add(a, b int) int
	Div(a, b int) (int, error)
	Reset()
}

type sleepyGreeter struct {
	delay time.Duration
}

func (g sleepyGreeter) Greet(name string) string {
	time.Sleep(g.delay)
	return "hi " + name
}

var errDivByZero = errors.New("division by zero")

type calc struct{}

func (calc) Add(a, b int) int { return a + b }
func (calc) Div(a, b int) (int, error) {
	if b == 0 {
		return 0, errDivByZero
	}
	return a / b, nil
}
func (calc) Reset() {}

// === Construction ===

func TestNew_PrepopulatesAllMethods(t *testing.T) {
	ic, err := New[Calculator](calc{})
	require.NoError(t, err)

	all := ic.AllStats()
	require.Len(t, all, 3)
	for _, ms := range all {
		assert.Equal(t, int64(0), ms.Stats.Count, ms.Signature)
	}
}

func TestNew_ExtraContract(t *testing.T) {
	type target struct {
		sleepyGreeter
		calc
	}

	ic, err := New[Greeter](target{}, WithContract(ContractFor[Calculator]()))
	require.NoError(t, err)
	assert.Len(t, ic.AllStats(), 4)
}

func TestNew_NotInterface(t *testing.T) {
	_, err := New[calc](calc{})
	require.ErrorIs(t, err, ErrNotInterface)
}

func TestNew_TargetMissingContract(t *testing.T) {
	_, err := New[Greeter](sleepyGreeter{}, WithContract(ContractFor[Calculator]()))
	require.ErrorIs(t, err, ErrTargetMismatch)
}

func TestNew_NilTarget(t *testing.T) {
	_, err := New[Greeter](nil)
	require.ErrorIs(t, err, ErrNilTarget)
}

// === Observation ===

func TestObserve_RecordsTiming(t *testing.T) {
	ic, err := New[Calculator](calc{})
	require.NoError(t, err)

	err = ic.Observe("Add", func() error { return nil })
	require.NoError(t, err)

	ms := ic.StatsForMethod("Add", false, false)
	require.Len(t, ms, 1)
	assert.Equal(t, int64(1), ms[0].Stats.Count)
}

func TestObserve_ErrorPropagatesAndIsTimed(t *testing.T) {
	ic, err := New[Calculator](calc{})
	require.NoError(t, err)

	target := calc{}
	_, callErr := Observe1(ic, "Div", func() (int, error) {
		return target.Div(1, 0)
	})
	require.ErrorIs(t, callErr, errDivByZero)

	// The failed call is still one full observation.
	ms := ic.StatsForMethod("Div", false, false)
	require.Len(t, ms, 1)
	assert.Equal(t, int64(1), ms[0].Stats.Count)
	assert.Equal(t, int64(1), ms[0].Stats.Failures)
}

func TestObserve_UnknownMethodStillRuns(t *testing.T) {
	ic, err := New[Calculator](calc{})
	require.NoError(t, err)

	ran := false
	err = ic.Observe("NotDeclared", func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Empty(t, ic.StatsForMethod("NotDeclared", false, false))
}

// === Reflective dispatch ===

func TestCall_Dispatch(t *testing.T) {
	ic, err := New[Calculator](calc{})
	require.NoError(t, err)

	out, err := ic.Call("Add", 1, 2)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 3, out[0])

	ms := ic.StatsForMethod("Add", false, false)
	require.Len(t, ms, 1)
	assert.Equal(t, int64(1), ms[0].Stats.Count)
}

func TestCall_SplitsTrailingError(t *testing.T) {
	ic, err := New[Calculator](calc{})
	require.NoError(t, err)

	out, err := ic.Call("Div", 6, 3)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0])

	_, err = ic.Call("Div", 1, 0)
	require.ErrorIs(t, err, errDivByZero)

	// Both the success and the failure were observed.
	ms := ic.StatsForMethod("Div", false, false)
	require.Len(t, ms, 1)
	assert.Equal(t, int64(2), ms[0].Stats.Count)
	assert.Equal(t, int64(1), ms[0].Stats.Failures)
}

func TestCall_UnknownMethod(t *testing.T) {
	ic, err := New[Calculator](calc{})
	require.NoError(t, err)

	_, err = ic.Call("Nope")
	require.ErrorIs(t, err, ErrUnknownMethod)
}

func TestCall_ArgumentMismatch(t *testing.T) {
	ic, err := New[Calculator](calc{})
	require.NoError(t, err)

	_, err = ic.Call("Add", 1)
	require.ErrorIs(t, err, ErrInvalidArgs)

	_, err = ic.Call("Add", 1, "two")
	require.ErrorIs(t, err, ErrInvalidArgs)
}

// === Queries ===

type matcher interface {
	Foo()
	Foobar()
	Baz()
}

type matcherImpl struct{}

func (matcherImpl) Foo()    {}
func (matcherImpl) Foobar() {}
func (matcherImpl) Baz()    {}

func TestStatsForMethod_ExactStopsOnFirst(t *testing.T) {
	ic, err := New[matcher](matcherImpl{})
	require.NoError(t, err)

	ms := ic.StatsForMethod("Foo", false, true)
	require.Len(t, ms, 1)
	assert.Equal(t, "intercept.matcher.Foo()", ms[0].Signature)
}

func TestStatsForMethod_Substring(t *testing.T) {
	ic, err := New[matcher](matcherImpl{})
	require.NoError(t, err)

	ms := ic.StatsForMethod("oo", true, false)
	require.Len(t, ms, 2)

	sigs := []string{ms[0].Signature, ms[1].Signature}
	assert.Contains(t, sigs, "intercept.matcher.Foo()")
	assert.Contains(t, sigs, "intercept.matcher.Foobar()")
}

func TestStatsForMethod_NoMatch(t *testing.T) {
	ic, err := New[matcher](matcherImpl{})
	require.NoError(t, err)

	assert.Empty(t, ic.StatsForMethod("Qux", false, false))
	assert.Empty(t, ic.StatsForMethod("qux", true, false))
}

// === Concurrency ===

func TestObserve_ConcurrentCallsExactCount(t *testing.T) {
	const callers = 50

	ic, err := New[Calculator](calc{})
	require.NoError(t, err)

	target := calc{}
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = Observe1(ic, "Add", func() (int, error) {
				return target.Add(1, 2), nil
			})
		}()
	}
	wg.Wait()

	ms := ic.StatsForMethod("Add", false, false)
	require.Len(t, ms, 1)
	assert.Equal(t, int64(callers), ms[0].Stats.Count)

	avg := ms[0].Stats.Avg()
	assert.GreaterOrEqual(t, avg, ms[0].Stats.Min)
	assert.LessOrEqual(t, avg, ms[0].Stats.Max)
}

// === End to end ===

func TestGreeter_EndToEnd(t *testing.T) {
	target := sleepyGreeter{delay: 10 * time.Millisecond}
	ic, err := New[Greeter](target)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		out, err := Observe1(ic, "Greet", func() (string, error) {
			return target.Greet("bob"), nil
		})
		require.NoError(t, err)
		assert.Equal(t, "hi bob", out)
	}

	ms := ic.StatsForMethod("Greet", false, false)
	require.Len(t, ms, 1)
	assert.Equal(t, int64(5), ms[0].Stats.Count)
	assert.GreaterOrEqual(t, ms[0].Stats.Min, 10*time.Millisecond)
	assert.GreaterOrEqual(t, ms[0].Stats.Max, ms[0].Stats.Min)
}
