// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/lesscache/internal/adapters/cas"
	_ "go.trai.ch/lesscache/internal/adapters/config"
	_ "go.trai.ch/lesscache/internal/adapters/fs"
	_ "go.trai.ch/lesscache/internal/adapters/lessc"
	_ "go.trai.ch/lesscache/internal/adapters/logger"
	_ "go.trai.ch/lesscache/internal/adapters/privilege"
	_ "go.trai.ch/lesscache/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/lesscache/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/lesscache/internal/app"
	_ "go.trai.ch/lesscache/internal/engine/coordinator"
	_ "go.trai.ch/lesscache/internal/engine/scheduler"
)
