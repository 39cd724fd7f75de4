package archive

import (
	"context"

	"github.com/vmunix/ytarchive/internal/events"
)

// Publisher receives progress events. *events.Bus implements it.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// publish sends e when p is set. Progress reporting never affects the run,
// so errors are dropped.
func publish(ctx context.Context, p Publisher, e events.Event) {
	if p == nil {
		return
	}
	_ = p.Publish(context.WithoutCancel(ctx), e)
}
