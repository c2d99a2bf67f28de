// Package aggregates contains infrastructure implementations of domain aggregate contracts.
//
// Implementations compose table-level repos from internal/data/repos and own
// the transaction boundary of every invariant-critical write: document
// version numbering and pinning, and the proposal accept/reject transition.
package aggregates
