package intercept

import (
	"fmt"
	"reflect"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// The process-wide marker registry. Entries are created by Wrap and live
// until Unregister or process teardown.
var (
	regMu      sync.RWMutex
	registered = make(map[any]*Interceptor)
)

// Wrap constructs an Interceptor for target under contract T and registers
// it under marker so its statistics can be retrieved later via [Lookup]
// without holding the Interceptor itself.
//
// The first registration for an equal marker wins: a later Wrap with the same
// marker still returns its fresh Interceptor, but that instance is not
// reachable via Lookup. Marker equality must stay stable for the marker's
// lifetime, or its entry becomes permanently unreachable. A nil marker gets
// a generated one, readable via [Interceptor.Marker].
func Wrap[T any](target T, marker any, opts ...Option) (*Interceptor, error) {
	if marker == nil {
		marker = "proxy-" + gonanoid.Must(8)
	} else if !reflect.TypeOf(marker).Comparable() {
		return nil, fmt.Errorf("%w: %T", ErrMarkerNotComparable, marker)
	}

	ic, err := New(target, opts...)
	if err != nil {
		return nil, err
	}
	ic.marker = marker

	regMu.Lock()
	if _, exists := registered[marker]; !exists {
		registered[marker] = ic
	}
	regMu.Unlock()

	return ic, nil
}

// Lookup returns the Interceptor registered under marker. The second result
// is false when the marker was never registered; a missing marker is never
// an error.
func Lookup(marker any) (*Interceptor, bool) {
	if marker == nil || !reflect.TypeOf(marker).Comparable() {
		return nil, false
	}
	regMu.RLock()
	ic, ok := registered[marker]
	regMu.RUnlock()
	return ic, ok
}

// Unregister drops the registry entry for marker, making the marker reusable.
// The Interceptor itself stays valid for anyone still holding it.
func Unregister(marker any) {
	if marker == nil || !reflect.TypeOf(marker).Comparable() {
		return
	}
	regMu.Lock()
	delete(registered, marker)
	regMu.Unlock()
}
