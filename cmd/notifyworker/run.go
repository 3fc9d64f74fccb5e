package notifyworker

import (
	"context"
	"fmt"
	"time"

	service "github.com/pedidozap/notifier/internal/app/notifyworker"
	"github.com/pedidozap/notifier/internal/shared/config"
	"github.com/pedidozap/notifier/internal/shared/gateway"
	"github.com/pedidozap/notifier/internal/shared/logger"
	pg "github.com/pedidozap/notifier/internal/shared/postgres"
	"github.com/pedidozap/notifier/internal/shared/rabbitmq"
)

// One in-flight job at a time. This is a correctness choice, not a throughput
// knob: it is what guarantees "created" and "status updated" notifications
// for the same order reach the gateway in dispatch order.
const prefetch = 1

func Run(ctx context.Context, workerName, envFile string) error {
	// set up a new logger for the notify worker with a static request ID for startup logs
	logger := logger.NewLogger("notify-worker")
	ctx = logger.WithRequestID(ctx, "startup-001")

	// load config from the environment (plus optional .env file)
	cfg, err := config.Load(envFile)
	if err != nil {
		logger.Error(ctx, "config_load_failed", "Failed to load configuration", err)
		return err
	}

	// set up a Postgres connection pool
	pool, err := pg.NewPool(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "db_connection_failed", "Failed to initialize Postgres pool", err)
		return err
	}
	defer pool.Close()

	rmq, err := rabbitmq.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "rabbitmq_connection_failed", "Failed to connect to RabbitMQ", err)
		return err
	}
	defer rmq.Close()

	// set up repositories and the gateway façade
	workersRepo := pg.NewWorkersRepo(pool)
	attemptsRepo := pg.NewAttemptsRepo(pool)
	gw := gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Gateway.Timeout)

	// set up services with their dependencies
	workerSvc := service.NewWorkerService(workersRepo, logger)
	processor := service.NewProcessor(gw, attemptsRepo, logger,
		service.UniformDelay(cfg.Worker.NotReadyDelayMin, cfg.Worker.NotReadyDelayMax))

	// register (or exit if duplicate)
	ok, err := workerSvc.RegisterOrExit(ctx, workerName)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("worker %q is already online", workerName)
	}

	// log startup details
	logger.Info(ctx, "service_started", "Notify worker started", map[string]any{
		"name":         workerName,
		"prefetch":     prefetch,
		"max_attempts": cfg.Worker.MaxAttempts,
	})

	// define a ticker for heartbeats
	hb := time.NewTicker(cfg.Worker.HeartbeatInterval)
	defer hb.Stop()

	// set up a heartbeat loop in a background goroutine
	heartbeatErrCh := make(chan error, 1)
	go func() {
		for {
			select {
			case <-hb.C:
				if err := workerSvc.Heartbeat(ctx, workerName); err != nil {
					heartbeatErrCh <- err
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	handler := &deliveryHandler{
		logger:       logger,
		rmq:          rmq,
		processor:    processor,
		workers:      workerSvc,
		workerName:   workerName,
		maxAttempts:  cfg.Worker.MaxAttempts,
		retryBackoff: cfg.Worker.RetryBackoff,
	}

	// set up a consumer loop in a background goroutine
	go func() {
		// backoff parameters
		backoff := time.Second
		for {
			if ctx.Err() != nil {
				return
			}

			ch, err := rmq.NewConsumerChannel(prefetch)
			if err != nil {
				logger.Error(ctx, "rabbitmq_channel_failed", "Failed to open consumer channel", err)
				time.Sleep(backoff)
				if backoff < 30*time.Second {
					backoff *= 2
				}
				continue
			}

			consumerTag := fmt.Sprintf("notify-%s", workerName)
			deliveries, err := ch.Consume(
				rabbitmq.QueueNotify,
				consumerTag,
				false, // manual ack
				false,
				false,
				false,
				nil,
			)
			if err != nil {
				_ = ch.Close()
				logger.Error(ctx, "rabbitmq_consume_failed", "Failed to start consuming", err)
				time.Sleep(backoff)
				if backoff < 30*time.Second {
					backoff *= 2
				}
				continue
			}

			// reset backoff after a successful subscribe
			backoff = time.Second

		readLoop:
			for {
				select {
				case <-ctx.Done():
					// stop taking new jobs; the in-flight attempt finishes naturally
					_ = ch.Cancel(consumerTag, false)
					_ = ch.Close()
					return
				case d, ok := <-deliveries:
					if !ok {
						// channel closed (connection lost or server-side cancel) -> resubscribe
						_ = ch.Close()
						time.Sleep(backoff)
						if backoff < 30*time.Second {
							backoff *= 2
						}
						break readLoop
					}
					// the attempt runs on a context decoupled from the shutdown
					// signal: a SIGTERM must let the in-flight gateway calls
					// finish or fail naturally, never abort them mid-send. The
					// gateway client's transport timeout bounds the drain.
					handler.handle(context.WithoutCancel(ctx), d)
				}
			}
		}
	}()

	// wait for termination (context cancel or heartbeat failure)
	var retErr error
	select {
	case <-ctx.Done():
	case err := <-heartbeatErrCh:
		logger.Error(ctx, "heartbeat_loop_stopped", "Heartbeat loop stopped", err)
		retErr = err
	}

	// attempt graceful offline mark
	graceCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := workerSvc.GracefulOffline(graceCtx, workerName); err != nil {
		logger.Error(ctx, "graceful_offline_failed", "Failed to mark offline during shutdown", err)
	} else {
		logger.Info(ctx, "graceful_shutdown", "Worker shutdown completed", map[string]any{
			"name": workerName,
		})
	}

	return retErr
}
