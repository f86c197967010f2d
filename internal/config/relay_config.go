package config

// RelayConfig holds configuration for the outbox relay service.
// This is a minimal config that only includes what the relay needs.
type RelayConfig struct {
	DatabaseURL string
	RabbitMQURL string
	QueueName   string
	HealthAddr  string
	Log         LogConfig
}

func LoadRelayConfig() *RelayConfig {
	v := newViper()
	v.SetDefault("rabbitmq.queue", "request_events")
	v.SetDefault("relay.health_addr", ":8090")
	v.SetDefault("log.level", "info")
	_ = v.BindEnv("database.url", "DB_CONNECTION_STRING")
	_ = v.BindEnv("rabbitmq.url", "RABBITMQ_URL")
	_ = v.BindEnv("rabbitmq.queue", "REQUEST_EVENTS_QUEUE")
	_ = v.ReadInConfig()

	dbURL := v.GetString("database.url")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	rabbitURL := v.GetString("rabbitmq.url")
	if rabbitURL == "" {
		panic("RABBITMQ_URL environment variable is required")
	}

	return &RelayConfig{
		DatabaseURL: dbURL,
		RabbitMQURL: rabbitURL,
		QueueName:   v.GetString("rabbitmq.queue"),
		HealthAddr:  v.GetString("relay.health_addr"),
		Log: LogConfig{
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
		},
	}
}
