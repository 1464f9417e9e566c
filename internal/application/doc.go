// Package application wires storage, the packer, handlers, routers and the
// HTTP server together so the main package only deals with CLI parsing and
// shutdown.
package application
