package kafka

// EventType определяет тип события.
type EventType string

const (
	EventTypeOrderCreated EventType = "order.created"
)

// Topics для Kafka.
const (
	TopicOrderEvents     = "storefront.order.events"
	TopicDeadLetterQueue = "storefront.dlq"
)
