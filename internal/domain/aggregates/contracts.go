package aggregates

import "slices"

// RepoGuard names repo writes that only the owning aggregate may issue.
// When Columns is set, a Methods call is guarded only if its update map
// touches one of them.
type RepoGuard struct {
	Repo    string
	Methods []string
	Columns []string
}

// Contract lists the tables an aggregate owns, the repo writes reserved to
// it and the write methods that run in their own transaction.
type Contract struct {
	Name   string
	Tables []string
	Guards []RepoGuard
	Writes []string
}

// Aggregate is implemented by every aggregate.
type Aggregate interface {
	Contract() Contract
}

// Contracts returns every registered aggregate contract.
func Contracts() []Contract {
	return []Contract{DocumentVersionAggregateContract, ProposalAggregateContract}
}

// Bypasses reports whether repo.method, writing the given columns, skips
// this aggregate. columns is nil when the update map is not known.
func (c Contract) Bypasses(repo, method string, columns []string) bool {
	for _, g := range c.Guards {
		if g.Repo != repo || !slices.Contains(g.Methods, method) {
			continue
		}
		if len(g.Columns) == 0 || columns == nil {
			return true
		}
		for _, col := range columns {
			if slices.Contains(g.Columns, col) {
				return true
			}
		}
	}
	return false
}

// Owns reports whether the contract reserves any write on repo.
func (c Contract) Owns(repo string) bool {
	return slices.ContainsFunc(c.Guards, func(g RepoGuard) bool { return g.Repo == repo })
}
