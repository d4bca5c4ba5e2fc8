package middleware

import (
	"context"
	"sync"

	"github.com/heartmarshall/transcribe-dashboard/pkg/ctxutil"
)

type recorderKey struct{}

// identityRecorder lets Auth report the resolved identity to outer middleware.
type identityRecorder struct {
	mu  sync.Mutex
	id  ctxutil.Identity
	set bool
}

func (r *identityRecorder) record(id ctxutil.Identity) {
	r.mu.Lock()
	r.id, r.set = id, true
	r.mu.Unlock()
}

func (r *identityRecorder) get() (ctxutil.Identity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id, r.set
}

func withIdentityRecorder(ctx context.Context, r *identityRecorder) context.Context {
	return context.WithValue(ctx, recorderKey{}, r)
}

func recordIdentity(ctx context.Context, id ctxutil.Identity) {
	if r, ok := ctx.Value(recorderKey{}).(*identityRecorder); ok {
		r.record(id)
	}
}
