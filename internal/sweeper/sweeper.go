package sweeper

import (
	"context"
)

// Sweeper is a periodic background job owned by a cmd
type Sweeper interface {
	// Start runs cycles until ctx is canceled or Stop is called
	Start(ctx context.Context) error

	// Stop signals the loop and waits for the running cycle to finish or ctx to expire
	Stop(ctx context.Context) error

	// Name identifies the sweeper in logs and metrics
	Name() string
}
