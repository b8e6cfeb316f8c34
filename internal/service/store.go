package service

import (
	"context"
	"time"
)

// storeTimeout bounds every repository call so a hung database surfaces as
// ErrStoreUnavailable instead of stalling the request. A var so tests can
// shorten it.
var storeTimeout = 5 * time.Second

// storeCtx derives the bounded context used for all store access
func storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, storeTimeout)
}
