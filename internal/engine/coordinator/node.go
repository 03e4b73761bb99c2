package coordinator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lesscache/internal/adapters/cas"                //nolint:depguard // Wired in engine wiring
	"go.trai.ch/lesscache/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/lesscache/internal/adapters/lessc"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/lesscache/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/lesscache/internal/adapters/privilege"          //nolint:depguard // Wired in engine wiring
	"go.trai.ch/lesscache/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/lesscache/internal/core/ports"
)

// NodeID is the unique identifier for the coordinator Graft node.
const NodeID graft.ID = "engine.coordinator"

func init() {
	graft.Register(graft.Node[*Coordinator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			lessc.NodeID,
			cas.NodeID,
			fs.ScannerNodeID,
			fs.HasherNodeID,
			privilege.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Coordinator, error) {
			compiler, err := graft.Dep[ports.Compiler](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.BuildInfoStore](ctx)
			if err != nil {
				return nil, err
			}

			scanner, err := graft.Dep[ports.Scanner](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			authorizer, err := graft.Dep[ports.Authorizer](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[*logger.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(compiler, store, scanner, hasher, authorizer, telemetry, log), nil
		},
	})
}
