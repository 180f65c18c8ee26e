package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nguyentranbao-ct/merch-api/pkg/logger"
	"github.com/nguyentranbao-ct/merch-api/pkg/util"
)

type Handler func(ctx context.Context, msg kafka.Message) error

type consumerOptions struct {
	sd             fx.Shutdowner
	lc             fx.Lifecycle
	readerConf     kafka.ReaderConfig
	maxWorkers     int
	consumeTimeout time.Duration
	handler        Handler
}

type consumer struct {
	reader         *kafka.Reader
	metrics        *prometheus.HistogramVec
	pool           *workerpool.WorkerPool
	consumeTimeout time.Duration
	handler        Handler
	groupID        string
}

// startKafkaConsumer reads in the background between fx start and stop.
// Messages are handled concurrently on a bounded worker pool.
func startKafkaConsumer(opts consumerOptions) error {
	metrics, err := util.GetHistogramVec("kafka_messages_consumed", "status", "topic", "group")
	if err != nil {
		return fmt.Errorf("get histogram vec: %w", err)
	}

	c := &consumer{
		reader:         kafka.NewReader(opts.readerConf),
		metrics:        metrics,
		pool:           workerpool.New(max(opts.maxWorkers, 1)),
		consumeTimeout: opts.consumeTimeout,
		handler:        opts.handler,
		groupID:        opts.readerConf.GroupID,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	opts.lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				if err := c.run(ctx); err != nil {
					logger.Errorw(ctx, "kafka consumer stopped", "error", err)
					_ = opts.sd.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			c.pool.StopWait()
			return c.reader.Close()
		},
	})
	return nil
}

func (c *consumer) run(ctx context.Context) error {
	logger.Infow(ctx, "starting kafka consumer", "topic", c.reader.Config().Topic, "group", c.groupID)
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			if errors.Is(err, io.EOF) {
				// reader closed
				return nil
			}
			logger.Errorw(ctx, "error reading message", "error", err)
			continue
		}

		c.pool.Submit(func() {
			c.processMessage(ctx, msg)
		})
	}
}

func (c *consumer) processMessage(ctx context.Context, msg kafka.Message) {
	duration, err := c.handle(ctx, msg)

	code := getCode(err)
	content := "success"
	if err != nil {
		content = err.Error()
	}

	logger.Logw(ctx, getLogLevel(code), content,
		"code", code,
		"duration_ms", duration.Milliseconds(),
		"lag_ms", time.Since(msg.Time).Milliseconds(),
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
	)

	c.metrics.
		WithLabelValues(code.String(), msg.Topic, c.groupID).
		Observe(duration.Seconds())
}

func (c *consumer) handle(msgCtx context.Context, msg kafka.Message) (duration time.Duration, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PANIC RECOVER: %+v", r)
		}
		duration = time.Since(start)
	}()

	ctx, cancel := context.WithTimeout(msgCtx, c.consumeTimeout)
	defer cancel()

	return 0, c.handler(ctx, msg)
}

func getCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return codes.DeadlineExceeded
	}
	if errors.Is(err, context.Canceled) {
		return codes.Canceled
	}
	return status.Code(err)
}

func getLogLevel(code codes.Code) logger.Level {
	switch code {
	case codes.OK:
		return logger.InfoLevel
	case codes.Canceled,
		codes.InvalidArgument,
		codes.NotFound,
		codes.AlreadyExists,
		codes.PermissionDenied,
		codes.Unauthenticated,
		codes.ResourceExhausted,
		codes.FailedPrecondition,
		codes.Aborted,
		codes.Unimplemented,
		codes.OutOfRange:
		return logger.WarnLevel
	default:
		return logger.ErrorLevel
	}
}
