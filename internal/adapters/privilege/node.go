package privilege

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lesscache/internal/core/ports"
)

// NodeID is the unique identifier for the authorizer Graft node.
const NodeID graft.ID = "adapter.authorizer"

func init() {
	graft.Register(graft.Node[ports.Authorizer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Authorizer, error) {
			return New(false), nil
		},
	})
}
