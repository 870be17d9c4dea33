package worker

import (
	"context"
	"errors"
	"log"
	"time"

	"courseboard/internal/domain/repository"
	"courseboard/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

// NotificationWorker drains the submission-notification queue and flips
// each submission's notified flag once the downstream notification has
// fired. Marking is idempotent per submission, so a crash between
// delivery and marking only causes a duplicate notification, never a
// lost one.
type NotificationWorker struct {
	rdb            *redis.Client
	submissionRepo repository.SubmissionRepository
}

func NewNotificationWorker(rdb *redis.Client, submissionRepo repository.SubmissionRepository) *NotificationWorker {
	return &NotificationWorker{
		rdb:            rdb,
		submissionRepo: submissionRepo,
	}
}

func (w *NotificationWorker) Start(ctx context.Context) {
	log.Println("Notification worker started, listening to queue:", config.AppConfig.NotificationQueueName)
	for {
		select {
		case <-ctx.Done():
			log.Println("Notification worker stopping...")
			return
		default:
			// Blocking pop from Redis queue
			popped, err := w.rdb.BRPop(ctx, 0*time.Second, config.AppConfig.NotificationQueueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					log.Printf("Worker BRPop exiting or timed out: %v", err)
					time.Sleep(1 * time.Second) // Avoid busy-looping on certain errors
					continue
				}
				log.Printf("ERROR: Failed to BRPop from Redis queue '%s': %v", config.AppConfig.NotificationQueueName, err)
				time.Sleep(5 * time.Second) // Wait before retrying on other errors
				continue
			}

			// popped is an array: [queueName, value]
			if len(popped) < 2 || popped[1] == "" {
				log.Println("WARN: BRPop returned empty submission ID.")
				continue
			}
			w.notify(ctx, popped[1])
		}
	}
}

func (w *NotificationWorker) notify(ctx context.Context, submissionID string) {
	submission, err := w.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		log.Printf("ERROR: Failed to fetch submission %s: %v", submissionID, err)
		return
	}
	if submission.Notified {
		log.Printf("INFO: Submission %s already notified, skipping.", submission.ID)
		return
	}

	// Delivery transport lives outside the core; the hand-off is logged
	// and the flag records that it happened.
	log.Printf("INFO: Notifying owner of assignment %s: submission %s by %s",
		submission.AssignmentID, submission.ID, submission.StudentName)

	if err := w.submissionRepo.MarkNotified(ctx, submission.ID); err != nil {
		log.Printf("ERROR: Failed to mark submission %s notified: %v", submission.ID, err)
		w.requeue(ctx, submission.ID)
	}
}

func (w *NotificationWorker) requeue(ctx context.Context, submissionID string) {
	if err := w.rdb.RPush(ctx, config.AppConfig.NotificationQueueName, submissionID).Err(); err != nil {
		log.Printf("ERROR: Failed to re-queue submission %s: %v", submissionID, err)
	} else {
		log.Printf("INFO: Submission %s re-queued.", submissionID)
	}
}
