// File: expirator/expirator.go
// Package expirator implements the deadline-indexed key/value store described
// by the networking core: three interchangeable variants (Heap, Wheel,
// LockFree) behind one capability set, api.Expirator[K, V].
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package expirator

import (
	"fmt"

	"github.com/momentics/hioload-ws/api"
)

// ExpiryHandler and ExpiratorErrorHandler are local aliases of the api
// package's callback types, so implementation files in this package don't
// need to qualify every signature with api.
type ExpiryHandler[K comparable, V any] = api.ExpiryHandler[K, V]
type ExpiratorErrorHandler = api.ExpiratorErrorHandler

// panicToError turns a recovered panic value into an error, for the
// "callback exceptions are caught and reported" contract.
func panicToError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("expirator: callback panicked: %w", err)
	}
	return fmt.Errorf("expirator: callback panicked: %v", r)
}

var (
	_ api.Expirator[string, int] = (*Heap[string, int])(nil)
	_ api.Expirator[string, int] = (*Wheel[string, int])(nil)
	_ api.Expirator[string, int] = (*LockFree[string, int])(nil)
)
