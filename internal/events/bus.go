package events

import (
	"fmt"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
	"github.com/sushilldhakal/tourmarket/internal/tracing"
)

const consumerGroupPrefix = "svc-tourmarket."

var marshaler = cqrs.JSONMarshaler{GenerateName: cqrs.StructName}

func topicFor(eventName string) string {
	return "events." + eventName
}

// SubscriberFactory returns a subscriber for one handler's consumer group.
type SubscriberFactory func(handlerName string) (message.Subscriber, error)

func NewRedisPublisher(rdb *redis.Client, logger watermill.LoggerAdapter) (message.Publisher, error) {
	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: rdb,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("could not create redis publisher: %w", err)
	}
	return tracing.PublisherDecorator{Publisher: publisher}, nil
}

func NewRedisSubscriberFactory(rdb *redis.Client, logger watermill.LoggerAdapter) SubscriberFactory {
	return func(handlerName string) (message.Subscriber, error) {
		return redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        rdb,
			ConsumerGroup: consumerGroupPrefix + handlerName,
		}, logger)
	}
}

// NewEventBus returns a bus that publishes every event on its own topic. *cqrs.EventBus satisfies
// ports.EventPublisher.
func NewEventBus(pub message.Publisher, logger watermill.LoggerAdapter) (*cqrs.EventBus, error) {
	return cqrs.NewEventBusWithConfig(pub, cqrs.EventBusConfig{
		GeneratePublishTopic: func(params cqrs.GenerateEventPublishTopicParams) (string, error) {
			return topicFor(params.EventName), nil
		},
		Marshaler: marshaler,
		Logger:    logger,
	})
}

func RegisterEventHandlers(
	router *message.Router,
	subscribers SubscriberFactory,
	handlers []cqrs.EventHandler,
	logger watermill.LoggerAdapter,
) error {
	ep, err := cqrs.NewEventProcessorWithConfig(
		router,
		cqrs.EventProcessorConfig{
			SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
				return subscribers(params.HandlerName)
			},
			GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
				return topicFor(params.EventName), nil
			},
			Marshaler: marshaler,
			Logger:    logger,
		})
	if err != nil {
		return fmt.Errorf("could not create event processor: %w", err)
	}

	if err := ep.AddHandlers(handlers...); err != nil {
		return fmt.Errorf("could not add handlers to event processor: %w", err)
	}
	return nil
}
