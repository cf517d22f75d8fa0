// Package context detaches background work from the request that started it.
package context

import (
	"context"
	"time"
)

// detached keeps the values of its parent but never expires.
type detached struct {
	parent context.Context
}

// Detach returns a context carrying the values of ctx that is not cancelled when ctx
// is. Used for work that outlives the HTTP request, such as mailing a report.
func Detach(ctx context.Context) context.Context {
	return detached{parent: ctx}
}

func (d detached) Deadline() (time.Time, bool) { return time.Time{}, false }

func (d detached) Done() <-chan struct{} { return nil }

func (d detached) Err() error { return nil }

func (d detached) Value(key any) any { return d.parent.Value(key) }
