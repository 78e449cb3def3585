package rabbitmq

// LedgerExchange - обменник событий журнала.
const LedgerExchange = "ledger"

// MaterializedRoutingKey - ключ маршрутизации события о созданной планировщиком записи.
const MaterializedRoutingKey = "entry.materialized"

// MaterializedQueue - очередь, из которой API сбрасывает кэш списков шаблонов.
const MaterializedQueue = "ledger.entry.materialized"

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

func GetLedgerQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: MaterializedQueue, RoutingKey: MaterializedRoutingKey},
	}
}
