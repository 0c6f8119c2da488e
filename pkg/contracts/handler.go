package contracts

import (
	"context"

	"github.com/julienschmidt/httprouter"
)

type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// Pinger is anything the readiness check can ping, usually the store.
type Pinger interface {
	Ping(ctx context.Context) error
}
