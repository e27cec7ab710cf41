// Package scheduler runs the engine's background jobs on asynq: periodic
// benchmark recomputation and on-demand bulk rescores.
package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskBenchmarkRecompute = "scoring.benchmark.recompute"

const TaskRescoreAll = "scoring.rescore.all"

type RescoreAllPayload struct {
	RequestedAt time.Time `json:"requestedAt"`
}

func NewBenchmarkRecomputeTask() *asynq.Task {
	return asynq.NewTask(TaskBenchmarkRecompute, nil)
}

func NewRescoreAllTask(payload RescoreAllPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRescoreAll, data), nil
}

func ParseRescoreAllPayload(task *asynq.Task) (RescoreAllPayload, error) {
	var payload RescoreAllPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RescoreAllPayload{}, err
	}
	return payload, nil
}
