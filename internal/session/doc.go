// Package session
// Author: momentics <momentics@gmail.com>
//
// Context store used by adapters.ContextAdapter: a mutex-guarded,
// cloneable key/value map whose entries carry a propagation flag and an
// optional TTL. Session objects themselves live in the session package.

package session
