package consumer

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/internal/config"
	"github.com/nakelabs/kasa-alert-connect/internal/domain"
	"github.com/nakelabs/kasa-alert-connect/internal/queue"
	"github.com/nakelabs/kasa-alert-connect/internal/repository"
)

const stageBufferSize = 100

// Consumer orchestrates a pipeline of stages to process SQS messages
type Consumer[T any] struct {
	receiver *Receiver
	parser   *ParserStage[T]
	sink     Sink[T]
}

// NewConsumer wires a receiver and parser for queueConsumer in front of sink
func NewConsumer[T any](cfg config.Consumer, queueConsumer queue.QueueConsumer, parser MessageParser[T], sink Sink[T], log *zap.Logger) *Consumer[T] {
	receiver := NewReceiver(queueConsumer, ReceiverConfig{
		MaxMessages:     cfg.MaxMessages,
		WaitTimeSeconds: cfg.WaitTimeSeconds,
		BufferSize:      stageBufferSize,
	}, log)

	return &Consumer[T]{
		receiver: receiver,
		parser:   NewParserStage[T](queueConsumer, parser, cfg.RetryDelaySec, log),
		sink:     sink,
	}
}

// NewLedgerConsumer builds the pipeline that drains the delivery-events queue into the ledger
func NewLedgerConsumer(cfg config.Consumer, queueConsumer queue.QueueConsumer, applier EventApplier, history repository.HistoryRepository, log *zap.Logger) *Consumer[*domain.DeliveryEvent] {
	writer := NewLedgerWriter(applier, history, LedgerWriterConfig{
		MaxBatchSize: cfg.BatchSizeMax,
		FlushTimeout: time.Duration(cfg.BatchTimeoutSec) * time.Second,
	}, log)

	return NewConsumer[*domain.DeliveryEvent](cfg, queueConsumer, NewDeliveryEventParser(), writer, log)
}

// Start runs the pipeline until ctx is cancelled and every stage has drained
func (c *Consumer[T]) Start(ctx context.Context) error {
	messageChan := make(chan types.Message, stageBufferSize)
	envelopeChan := make(chan *Envelope[T], stageBufferSize)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		c.receiver.Start(ctx, messageChan)
	}()

	go func() {
		defer wg.Done()
		c.parser.Start(ctx, messageChan, envelopeChan)
	}()

	go func() {
		defer wg.Done()
		c.sink.Start(ctx, envelopeChan)
	}()

	wg.Wait()
	return nil
}
