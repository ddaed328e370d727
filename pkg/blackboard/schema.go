package blackboard

import "fmt"

// Redis key pattern helpers
//
// All Redis keys are namespaced by run ID so that artifacts from different
// workflow runs can coexist on a single Redis server without interfering.
//
// Key pattern: quill:{run_id}:{entity}

// SlotKey returns the Redis key for a slot's current value.
// Pattern: quill:{run_id}:slot:{slot}
func SlotKey(runID string, slot Slot) string {
	return fmt.Sprintf("quill:%s:slot:%s", runID, slot)
}

// HistoryKey returns the Redis key for the run's write-history list.
// Pattern: quill:{run_id}:history
func HistoryKey(runID string) string {
	return fmt.Sprintf("quill:%s:history", runID)
}
