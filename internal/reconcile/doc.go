// Package reconcile keeps a remote suite congruent with one local test file.
//
// An import pass is a small state machine:
//
//	Init -> SuiteResolved -> SectionResolved -> CasesDiffed -> CasesApplied -> OrderApplied -> Persisted
//
// with Failed reachable from every non-terminal state. The pass never
// retries. The mapping is written once, after the reorder succeeded, unless
// Options.PersistIncrementally asks for a save after every case creation and
// deletion. When a pass fails before persisting, remote cases created during
// that pass are unknown to the mapping and will be created again by the next
// pass.
//
// Local and remote state are joined exclusively on the composite identity
// (owning file, scenario name, row); remote titles are never matched.
package reconcile
