// Package blackboard provides the shared keyed artifact store that a single
// Quill workflow run reads and writes through. Every pipeline step consumes
// zero or more named slots and produces exactly one; the blackboard is the
// only channel data flows through between steps.
//
// Two Store implementations are provided: an in-process MemoryStore (the
// default, scoped to the run's lifetime) and a RedisStore whose keys are
// namespaced by run ID so artifacts from a run can be inspected after the
// process exits.
package blackboard
