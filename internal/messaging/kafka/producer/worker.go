package producer

import (
	"context"
	"time"

	"go-gaji/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const drainBatchSize = 50

func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer *kafkago.Writer,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if err := drainPending(ctx, repo, writer, log); err != nil {
				log.Error("drain outbox failed", zap.Error(err))
			}
		}
	}
}

func drainPending(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer *kafkago.Writer,
	logger *zap.Logger,
) error {
	events, err := repo.ListPending(ctx, drainBatchSize)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	var sent, failed int
	for _, event := range events {
		if err := publishEvent(ctx, writer, event); err != nil {
			failed++
			logger.Error("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.String("topic", event.Topic),
				zap.Error(err),
			)
			_ = repo.MarkFailed(ctx, event.ID, err.Error())
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			// Event sudah terkirim; akan terkirim ulang di poll berikutnya,
			// consumer wajib idempotent terhadap duplikat.
			logger.Error("mark outbox sent failed",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	logger.Info("outbox batch drained",
		zap.Int("pending", len(events)),
		zap.Int("sent", sent),
		zap.Int("failed", failed),
	)
	return nil
}
