// Package timeouts defines shared timeout constants for kniffel servers.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second

// Request caps a single game operation issued by a transport adapter.
const Request = 3 * time.Second
