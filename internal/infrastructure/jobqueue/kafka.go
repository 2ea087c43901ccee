package jobqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/domain/shared"
	"github.com/binovo/connector-prestashop/internal/infrastructure/telemetry"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Message headers set on published jobs
const (
	HeaderJobName  = "job_name"
	HeaderPriority = "priority"
)

const defaultFetchBackoff = time.Second

// KafkaConfig holds the Kafka transport settings
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher is a connector.JobQueue that publishes jobs to a topic.
// Jobs of one backend share a partition key.
type KafkaPublisher struct {
	writer     messageWriter
	topic      string
	identities shared.IdempotencyStore
	ttl        time.Duration
	logger     *zap.Logger
}

// NewKafkaPublisher creates a publisher writing to cfg.Topic
func NewKafkaPublisher(cfg KafkaConfig, identities shared.IdempotencyStore, ttl time.Duration, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(writer, cfg.Topic, identities, ttl, logger)
}

func newKafkaPublisher(writer messageWriter, topic string, identities shared.IdempotencyStore, ttl time.Duration, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer:     writer,
		topic:      topic,
		identities: identities,
		ttl:        ttl,
		logger:     logger,
	}
}

// Enqueue publishes the job. It returns false when the identity key is taken.
func (p *KafkaPublisher) Enqueue(ctx context.Context, job *connector.Job) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "kafka.publish",
		telemetry.WithAttribute(telemetry.SpanAttrJobName, string(job.Name)),
		telemetry.WithAttribute(telemetry.SpanAttrJobID, job.ID.String()),
	)
	defer span.End()

	accepted, err := claimIdentity(ctx, p.identities, job, p.ttl)
	if err != nil || !accepted {
		return false, err
	}

	msg, err := encodeJob(p.topic, job)
	if err != nil {
		releaseIdentity(ctx, p.identities, job, p.logger)
		return false, err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		releaseIdentity(ctx, p.identities, job, p.logger)
		telemetry.RecordError(span, err)
		return false, fmt.Errorf("publish %s: %w", job.Name, err)
	}

	p.logger.Debug("Published job",
		zap.String("job_id", job.ID.String()),
		zap.String("job_name", string(job.Name)),
	)
	return true, nil
}

// Close closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ connector.JobQueue = (*KafkaPublisher)(nil)

// KafkaConsumer reads published jobs and runs them. A message is committed
// once its job completed, failed permanently or exhausted its retries.
type KafkaConsumer struct {
	reader     messageReader
	exec       *executor
	identities shared.IdempotencyStore
	logger     *zap.Logger

	// pause after a failed fetch
	fetchBackoff time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewKafkaConsumer creates a consumer in cfg.GroupID
func NewKafkaConsumer(cfg KafkaConfig, workerCfg Config, runner Runner, identities shared.IdempotencyStore, logger *zap.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        500 * time.Millisecond,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: 0,
	})
	return newKafkaConsumer(reader, workerCfg, runner, identities, logger)
}

func newKafkaConsumer(reader messageReader, workerCfg Config, runner Runner, identities shared.IdempotencyStore, logger *zap.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		reader:       reader,
		exec:         &executor{runner: runner, cfg: workerCfg, logger: logger},
		identities:   identities,
		logger:       logger,
		fetchBackoff: defaultFetchBackoff,
	}
}

// Start begins consuming
func (c *KafkaConsumer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go c.consumeLoop(ctx)
	c.logger.Info("Kafka job consumer started")
	return nil
}

// Stop stops consuming and closes the reader
func (c *KafkaConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	return c.reader.Close()
}

func (c *KafkaConsumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) || ctx.Err() != nil {
				return
			}
			c.logger.Error("Failed to fetch job message", zap.Error(err), zap.Duration("retry_in", c.fetchBackoff))
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.fetchBackoff):
			}
			continue
		}
		c.handle(ctx, msg)
	}
}

func (c *KafkaConsumer) handle(ctx context.Context, msg kafka.Message) {
	log := c.logger.With(
		zap.Int("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
	)

	job, err := decodeJob(msg)
	if err != nil {
		// unreadable messages are committed so they do not block the partition
		log.Error("Dropping malformed job message", zap.Error(err))
		c.commit(ctx, msg, log)
		return
	}

	outcome, _ := c.exec.execute(ctx, job)
	if outcome == OutcomeCanceled {
		// redelivered after restart
		return
	}
	settleIdentity(context.WithoutCancel(ctx), c.identities, job, outcome, log)
	c.commit(ctx, msg, log)
}

func (c *KafkaConsumer) commit(ctx context.Context, msg kafka.Message, log *zap.Logger) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		log.Error("Failed to commit job message", zap.Error(err))
	}
}

func encodeJob(topic string, job *connector.Job) (kafka.Message, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode job %s: %w", job.ID, err)
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(job.BackendID.String()),
		Value: data,
		Headers: []kafka.Header{
			{Key: HeaderJobName, Value: []byte(job.Name)},
			{Key: HeaderPriority, Value: []byte(fmt.Sprint(job.Priority))},
		},
	}, nil
}

func decodeJob(msg kafka.Message) (*connector.Job, error) {
	var job connector.Job
	if err := json.Unmarshal(msg.Value, &job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	if job.Name == "" {
		return nil, errors.New("decode job: missing name")
	}
	return &job, nil
}
