package cron

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"salonbook/config"
	requestsRepo "salonbook/database/repository/requests"
	"salonbook/models"
	"salonbook/services/tasks"
)

// InitArchiveWorker runs the async worker that removes terminal booking
// requests after their retention window.
func InitArchiveWorker(requests requestsRepo.Repository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeArchiveRequest, handleArchiveTask(requests))

	// Start async worker with retry logic
	go func() {
		log.Println("[ArchiveWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ArchiveWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ArchiveWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleArchiveTask(requests requestsRepo.Repository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.ArchiveRequestPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ArchiveWorker] invalid payload: %v", err)
			return err
		}

		req, err := requests.GetByID(ctx, p.RequestID)
		var notFound *models.NotFoundError
		if errors.As(err, &notFound) {
			return nil // already gone
		}
		if err != nil {
			return err
		}

		// Never archive a request an admin has not handled yet, however old
		// the task is.
		if !req.Status.Terminal() {
			return nil
		}

		if err := requests.Delete(ctx, p.RequestID); err != nil {
			if errors.As(err, &notFound) {
				return nil
			}
			return err
		}
		log.Printf("[ArchiveWorker] archived request %s (%s)", p.RequestID, req.Status)
		return nil
	}
}
