// Package library is the client for the downstream Nomad media server.
// It owns the password login and the single rescan trigger fired after a
// batch lands at least one file in the library tree.
package library
