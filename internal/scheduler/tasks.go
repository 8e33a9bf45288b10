// Package scheduler runs background jobs over asynq.
package scheduler

import (
	"github.com/hibiken/asynq"
)

// TaskFollowUpScan triggers a scan for leads with a follow-up due today.
const TaskFollowUpScan = "leads.followup.scan"

// NewFollowUpScanTask creates the daily follow-up scan task. The scan
// derives its window from the clock, so the task carries no payload.
func NewFollowUpScanTask() *asynq.Task {
	return asynq.NewTask(TaskFollowUpScan, nil)
}
