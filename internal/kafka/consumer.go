package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-storefront/internal/logger"
)

// Handler returns nil only when the message is fully processed and its offset may be committed.
type Handler func(ctx context.Context, m kafka.Message) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	r          messageReader
	workers    int
	backoff    time.Duration
	maxBackoff time.Duration
	log        *logger.Logger
}

func NewConsumer(brokers []string, group, topic string, workers int, log *logger.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit
	})
	if log == nil {
		log = logger.Nop()
	}
	return newConsumer(r, workers, log.With("component", "kafka-consumer", "topic", topic, "group", group))
}

func newConsumer(r messageReader, workers int, log *logger.Logger) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{r: r, workers: workers, backoff: 200 * time.Millisecond, maxBackoff: 10 * time.Second, log: log}
}

// Start dispatches messages to per-partition lanes until ctx is done. Each lane
// handles its partitions in offset order and retries a failed message until it
// succeeds, so no commit ever moves past an unprocessed offset.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	lanes := make([]chan kafka.Message, c.workers)
	var wg sync.WaitGroup
	for i := range lanes {
		lanes[i] = make(chan kafka.Message, 64)
		wg.Add(1)
		go func(in <-chan kafka.Message) {
			defer wg.Done()
			for m := range in {
				if !c.process(ctx, h, m) {
					return
				}
			}
		}(lanes[i])
	}
	stop := func() {
		for _, l := range lanes {
			close(l)
		}
		wg.Wait()
	}

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			stop()
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		select {
		case lanes[m.Partition%c.workers] <- m:
		case <-ctx.Done():
			stop()
			return nil
		}
	}
}

// process handles and commits m, backing off between attempts. It returns false
// when ctx ends first; m then stays uncommitted and is redelivered.
func (c *Consumer) process(ctx context.Context, h Handler, m kafka.Message) bool {
	wait := c.backoff
	handled := false
	for attempt := 1; ; attempt++ {
		var err error
		if !handled {
			if err = h(ctx, m); err == nil {
				handled = true
			}
		}
		if handled {
			if err = c.r.CommitMessages(ctx, m); err == nil {
				return true
			}
		}
		c.log.Warn("message not committed, retrying",
			"partition", m.Partition, "offset", m.Offset, "attempt", attempt, "handled", handled, "err", err)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(wait):
		}
		wait = min(wait*2, c.maxBackoff)
	}
}
