package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"backoffice/internal/services"
)

// TaskSendEmail routes rendered emails to handleSendEmailTask.
const TaskSendEmail = "email:send"

func NewSendEmailTask(msg services.EmailMessage) (*asynq.Task, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskSendEmail,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
