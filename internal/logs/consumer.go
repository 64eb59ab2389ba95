// Package logs provides the bounded-FIFO, single-consumer job log writer:
// actions enqueue messages without blocking on disk I/O, and one goroutine
// per running job drains the queue into that job's log file.
package logs

import (
	"context"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ovcarj/appeer/internal/common"
)

// Level mirrors the handful of severities a job log line can carry.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Message is one log line destined for a job's log file.
type Message struct {
	Level Level
	Text  string
}

// Consumer drains a bounded channel of Messages into a job-scoped logger.
// Exactly one Consumer exists per running job; Start launches its
// goroutine and Stop drains the remainder before returning.
type Consumer struct {
	logger  arbor.ILogger
	channel chan Message
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// NewConsumer creates a Consumer bound to logger with a fixed-depth queue,
// matching the bounded-channel depth used elsewhere in the corpus for
// producer/consumer log pipelines.
func NewConsumer(logger arbor.ILogger) *Consumer {
	return &Consumer{
		logger:  logger,
		channel: make(chan Message, 64),
	}
}

// Enqueue submits a message without blocking the caller beyond channel
// backpressure. Safe to call concurrently; appeer never does, since one
// job drives its actions sequentially, but the channel itself is safe.
func (c *Consumer) Enqueue(level Level, text string) {
	c.channel <- Message{Level: level, Text: text}
}

// Start launches the consumer goroutine with panic recovery.
func (c *Consumer) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.wg.Add(1)
	common.SafeGoWithContext(ctx, c.logger, "logs.Consumer", func() {
		defer c.wg.Done()
		c.run(ctx)
	})
}

// Stop signals the consumer to finish draining and waits for it to exit.
func (c *Consumer) Stop() {
	close(c.channel)
	c.wg.Wait()
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Consumer) run(ctx context.Context) {
	for msg := range c.channel {
		switch msg.Level {
		case LevelWarn:
			c.logger.Warn().Msg(msg.Text)
		case LevelError:
			c.logger.Error().Msg(msg.Text)
		default:
			c.logger.Info().Msg(msg.Text)
		}
	}
}
