// Package cmd implements the command-line interface of dProps. It provides a
// hierarchical command structure for running the server and talking to it as
// a client.
//
// The package is organized into several subpackages:
//
//   - props: Guarded property operations (get, set, del, getall, setall, cleanup)
//   - lease: Raw lease operations (acquire, release, sweep) and a contention benchmark
//   - serve: Starting and configuring the dProps server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set through an environment variable DPROPS_<FLAG>, with
// dashes replaced by underscores. Variables are read from .env and .env.local too.
//
// See dprops -help for a list of all commands.
package cmd
