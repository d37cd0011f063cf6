// Package main hosts the cloudproxy CLI entrypoint and command graph.
//
// Invoked without a subcommand, cloudproxy runs exactly one adaptation cycle
// for the request described by flags and environment, and exits with the
// cycle's outcome code. The remaining commands are operator tooling: config
// scaffolding, preflight checks, the cycle journal, staging maintenance and a
// loopback adaptation service for exercising a gateway locally.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
