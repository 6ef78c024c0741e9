// Package worker adapts the Kafka consumer to the enrichment service: event
// envelopes in, risk envelopes out.
package worker

import (
	"context"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/event"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/risk"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

const sourceService = "riskradar-worker"

// Processor analyzes a batch of events.  riskradar.Service implements it.
type Processor interface {
	Process(ctx context.Context, events []event.Event) ([]risk.Risk, error)
}

// Publisher writes messages.  kafka.Producer implements it.
type Publisher interface {
	PublishBatch(ctx context.Context, msgs []*kafka.ProducerMessage) error
}

// EventHandler turns consumed event batches into published risks.
type EventHandler struct {
	processor  Processor
	publisher  Publisher
	risksTopic string
	logger     logging.Logger
	metrics    *prometheus.AppMetrics
}

// NewEventHandler creates an EventHandler publishing to risksTopic.
func NewEventHandler(p Processor, pub Publisher, risksTopic string, logger logging.Logger, metrics *prometheus.AppMetrics) *EventHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if risksTopic == "" {
		risksTopic = kafka.TopicRisks
	}
	return &EventHandler{
		processor:  p,
		publisher:  pub,
		risksTopic: risksTopic,
		logger:     logger.Named("worker"),
		metrics:    metrics,
	}
}

// Handle is a kafka.BatchHandler.  Undecodable messages are skipped and
// logged; they cannot succeed on retry.  Processing or publish failures are
// returned so the consumer retries the batch and eventually dead-letters it.
func (h *EventHandler) Handle(ctx context.Context, msgs []*kafka.Message) error {
	events := make([]event.Event, 0, len(msgs))
	for _, msg := range msgs {
		ev, err := decodeEvent(msg)
		if err != nil {
			h.logger.Warn("skipping undecodable event message",
				logging.String("topic", msg.Topic),
				logging.Int64("offset", msg.Offset),
				logging.Err(err))
			prometheus.RecordError(h.metrics, "worker", string(errors.GetCode(err)))
			continue
		}
		events = append(events, ev)
	}
	if len(events) == 0 {
		return nil
	}

	risks, err := h.processor.Process(ctx, events)
	if err != nil {
		return err
	}
	if len(risks) == 0 {
		h.logger.Info("batch produced no actionable risks", logging.Int("events", len(events)))
		return nil
	}

	out := make([]*kafka.ProducerMessage, 0, len(risks))
	for _, r := range risks {
		env, err := kafka.NewEventEnvelope(kafka.EventTypeAssessed, sourceService, r)
		if err != nil {
			return err
		}
		msg, err := env.ToMessage(h.risksTopic, r.Location)
		if err != nil {
			return err
		}
		out = append(out, msg)
	}
	if err := h.publisher.PublishBatch(ctx, out); err != nil {
		return err
	}
	h.logger.Info("risks published",
		logging.Int("events", len(events)),
		logging.Int("risks", len(risks)),
		logging.String("topic", h.risksTopic))
	return nil
}

func decodeEvent(msg *kafka.Message) (event.Event, error) {
	var ev event.Event
	env, err := kafka.DecodeEnvelope(msg)
	if err != nil {
		return ev, err
	}
	if err := env.DecodePayload(&ev); err != nil {
		return ev, err
	}
	if ev.Headline == "" || ev.Location == "" {
		return ev, errors.New(errors.ErrCodeValidation, "event requires headline and location")
	}
	if ev.ID == "" {
		ev.ID = env.EventID
	}
	return ev, nil
}

//Personal.AI order the ending
