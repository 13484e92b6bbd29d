// Package driving defines the inbound ports of the core: the
// operations the command-line surface (or any future transport) invokes.
package driving
