package cron

import (
	"context"
	"log"
	"time"

	"cutesalon/config"
	"cutesalon/services/booking"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

const TypeBookingPurge = "booking:purge"

// purgeRetention keeps finished bookings around for a month before the
// archival purge removes them, matching the operator's reporting window.
const purgeRetention = 30 * 24 * time.Hour

// NewPurgeTask builds the archival purge task enqueued by the maintenance
// endpoint.
func NewPurgeTask() *asynq.Task {
	return asynq.NewTask(TypeBookingPurge, nil)
}

// InitPurgeWorker runs the async worker in background.
func InitPurgeWorker(svc booking.BookingService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingPurge, handlePurgeTask(svc))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[PurgeWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[PurgeWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[PurgeWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handlePurgeTask(svc booking.BookingService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		deleted, err := svc.PurgeFinished(purgeRetention)
		if err != nil {
			log.Printf("[PurgeHandler] Failed to purge old bookings: %v", err)
			return err
		}
		log.Printf("[PurgeHandler] Deleted %d bookings older than one month from their end date", deleted)
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[PurgeWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
