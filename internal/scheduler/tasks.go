package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskClearNeed = "matching.clear_need"

const TaskFeatureScore = "matching.feature_score"

type ClearNeedPayload struct {
	NeedID string `json:"needId"`
}

type FeatureScorePayload struct {
	MatchID string `json:"matchId"`
}

func NewClearNeedTask(payload ClearNeedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskClearNeed, data), nil
}

func ParseClearNeedPayload(task *asynq.Task) (ClearNeedPayload, error) {
	var payload ClearNeedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ClearNeedPayload{}, err
	}
	return payload, nil
}

func NewFeatureScoreTask(payload FeatureScorePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFeatureScore, data), nil
}

func ParseFeatureScorePayload(task *asynq.Task) (FeatureScorePayload, error) {
	var payload FeatureScorePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FeatureScorePayload{}, err
	}
	return payload, nil
}
