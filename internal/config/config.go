package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// CapabilityMap maps device type ids to capability names.
type CapabilityMap map[string]string

type Config struct {
	ListenAddr    string
	LogLevel      string
	DatabaseDSN   string `json:"-"`
	AutoMigrate   bool
	InternalToken string `json:"-"`
	JWTSecret     string `json:"-"`
	Capabilities  CapabilityMap

	BrokerKind      string // nats | mqtt
	NATSURL         string
	MQTTBroker      string
	MQTTClientID    string
	MQTTUsername    string
	MQTTPassword    string `json:"-"`
	CommandExchange string
	PublishTimeout  time.Duration

	AlertSubject   string
	AlertQueueSize int
	AlertWorkers   int

	MailKind       string // smtp | http | log
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string `json:"-"`
	MailFrom       string
	MailRelayURL   string
	MailRelayToken string `json:"-"`
	MailTimeout    time.Duration

	RedisAddr          string
	RedisPassword      string `json:"-"`
	RedisDB            int
	DeadLetterStream   string
	DeadLetterInterval time.Duration

	capsErr error
}

// MustLoad loads the required settings for the system to operate
func MustLoad() Config {
	caps := make(CapabilityMap)
	var capsErr error
	if err := json.Unmarshal([]byte(getenv("DEVICE_TYPE_CAPABILITIES_JSON", `{"1":"RELAY_CONTROL","2":"INFRARED_EMITTER"}`)), &caps); err != nil {
		capsErr = fmt.Errorf("DEVICE_TYPE_CAPABILITIES_JSON: %w", err)
	}

	return Config{
		ListenAddr:    getenv("LISTEN_ADDR", ":9090"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		DatabaseDSN:   getenv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=iot port=5432 sslmode=disable"),
		AutoMigrate:   getbool("DB_AUTO_MIGRATE", true),
		InternalToken: getenv("INTERNAL_TOKEN", ""),
		JWTSecret:     getenv("JWT_SECRET", ""),
		Capabilities:  caps,

		BrokerKind:      getenv("BROKER_KIND", "nats"),
		NATSURL:         getenv("NATS_URL", "nats://localhost:4222"),
		MQTTBroker:      getenv("MQTT_BROKER", "tcp://localhost:1883"),
		MQTTClientID:    getenv("MQTT_CLIENT_ID", ""),
		MQTTUsername:    getenv("MQTT_USERNAME", ""),
		MQTTPassword:    getenv("MQTT_PASSWORD", ""),
		CommandExchange: getenv("COMMAND_EXCHANGE", "iot_commands"),
		PublishTimeout:  getseconds("PUBLISH_TIMEOUT_SEC", 5),

		AlertSubject:   getenv("ALERT_SUBJECT", "alerts.>"),
		AlertQueueSize: getint("ALERT_QUEUE_SIZE", 256),
		AlertWorkers:   getint("ALERT_WORKERS", 4),

		MailKind:       getenv("MAIL_KIND", "log"),
		SMTPHost:       getenv("SMTP_HOST", "localhost"),
		SMTPPort:       getint("SMTP_PORT", 587),
		SMTPUsername:   getenv("SMTP_USERNAME", ""),
		SMTPPassword:   getenv("SMTP_PASSWORD", ""),
		MailFrom:       getenv("MAIL_FROM", "alerts@localhost"),
		MailRelayURL:   getenv("MAIL_RELAY_URL", ""),
		MailRelayToken: getenv("MAIL_RELAY_TOKEN", ""),
		MailTimeout:    getseconds("MAIL_TIMEOUT_SEC", 10),

		RedisAddr:          getenv("REDIS_ADDR", ""),
		RedisPassword:      getenv("REDIS_PASSWORD", ""),
		RedisDB:            getint("REDIS_DB", 0),
		DeadLetterStream:   getenv("DEADLETTER_STREAM", "alerts:deadletter"),
		DeadLetterInterval: getseconds("DEADLETTER_INTERVAL_SEC", 60),

		capsErr: capsErr,
	}
}

// Validate reports settings the service cannot start with. The capability
// map gates every command, so an unreadable or empty one is fatal.
func (c Config) Validate() error {
	if c.capsErr != nil {
		return c.capsErr
	}
	if len(c.Capabilities) == 0 {
		return errors.New("DEVICE_TYPE_CAPABILITIES_JSON: no device types configured")
	}
	return nil
}

// getenv fetches the env variables for the application to run
func getenv(k, d string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return d
}

func getint(k string, d int) int {
	n, err := strconv.Atoi(getenv(k, strconv.Itoa(d)))
	if err != nil {
		return d
	}
	return n
}

func getbool(k string, d bool) bool {
	b, err := strconv.ParseBool(getenv(k, strconv.FormatBool(d)))
	if err != nil {
		return d
	}
	return b
}

func getseconds(k string, d int) time.Duration {
	return time.Duration(getint(k, d)) * time.Second
}
