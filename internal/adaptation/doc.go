// Package adaptation talks to the remote content-adaptation service.
//
// Client is the capability the orchestrator depends on: Connect, a single
// bounded Request, and Close. Two transports implement it. HTTPClient posts a
// JSON request to the service's REST endpoint; RPCClient speaks JSON-RPC over
// a Unix domain socket. Both honour context cancellation so a cycle deadline
// interrupts an in-flight request, and both remain closable afterwards.
//
// Server is the matching JSON-RPC endpoint. It hosts any Processor and is used
// by the loopback command and by tests that need a real socket peer.
package adaptation
