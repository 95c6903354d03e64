// Package source adapts streaming token producers (model providers, files,
// test fixtures) to a common TokenSource interface, and pumps their
// fragments into a synchronization engine as growing content snapshots.
package source
