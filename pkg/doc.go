// Package pkg provides the core libraries of tablistplus, a tab list layout
// engine for Minecraft proxies.
//
// # Overview
//
// A tab list is a grid of up to 80 slots filled column by column on the
// client and row by row here. Server owners describe it as a tree of
// components; tablistplus builds one instance of the tree per player,
// solves how many slots every component gets and renders the result. The
// pkg directory is organized into these areas:
//
//  1. [layout] - The layout engine (bounds, the list solver, column splits)
//  2. [tablist] - Tab list elements, the config builder and per-player views
//  3. [player] - Connected players and the hidden set
//  4. [store] - Hidden-player persistence (memory, file, Redis, MongoDB)
//  5. [scheduler] - The send queue and the periodic refresher
//  6. [server] - The admin HTTP API
//
// # Architecture
//
// The data flow of one refresh:
//
//	config file
//	     ↓
//	[config] package (decode and validate)
//	     ↓
//	[tablist] package (build the component template)
//	     ↓
//	[layout] package (bounds bottom-up, placements top-down)
//	     ↓
//	layout.Grid → Sink (proxy, log or memory)
//
// # Quick Start
//
// Lay out the default tab list for one player:
//
//	import (
//	    "github.com/matzehuels/tablistplus/pkg/config"
//	    "github.com/matzehuels/tablistplus/pkg/player"
//	    "github.com/matzehuels/tablistplus/pkg/tablist"
//	)
//
//	cfg := config.Default()
//	reg := player.NewRegistry()
//	root, _ := tablist.Build(cfg.TabList, reg)
//
//	sink := tablist.NewMemorySink()
//	mgr := tablist.NewManager(reg, root, tablist.WithSink(sink))
//	p, _ := mgr.Join(player.Player{Name: "Notch", Server: "lobby"})
//	_ = mgr.Refresh(ctx, p.ID)
//	grid, _ := sink.Last(p.ID)
//
// # Supporting Packages
//
// [errors] - Error codes shared by all packages, with validation helpers.
//
// [observability] - Hooks for refreshes, the send queue and store calls.
//
// [buildinfo] - Version information injected at build time.
//
// [render/treeviz] - Graphviz diagrams of a player's layout tree.
//
// [layout]: github.com/matzehuels/tablistplus/pkg/layout
// [tablist]: github.com/matzehuels/tablistplus/pkg/tablist
// [player]: github.com/matzehuels/tablistplus/pkg/player
// [store]: github.com/matzehuels/tablistplus/pkg/store
// [scheduler]: github.com/matzehuels/tablistplus/pkg/scheduler
// [server]: github.com/matzehuels/tablistplus/pkg/server
// [config]: github.com/matzehuels/tablistplus/pkg/config
// [errors]: github.com/matzehuels/tablistplus/pkg/errors
// [observability]: github.com/matzehuels/tablistplus/pkg/observability
// [buildinfo]: github.com/matzehuels/tablistplus/pkg/buildinfo
// [render/treeviz]: github.com/matzehuels/tablistplus/pkg/render/treeviz
package pkg
