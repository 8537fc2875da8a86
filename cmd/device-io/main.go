package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "device-io/docs"
	gormrepo "device-io/internal/adapters/gorm"
	"device-io/internal/adapters/mail"
	"device-io/internal/adapters/mqtt"
	natsad "device-io/internal/adapters/nats"
	redisad "device-io/internal/adapters/redis"
	"device-io/internal/config"
	"device-io/internal/core/alerts"
	"device-io/internal/core/broker"
	"device-io/internal/core/commands"
	"device-io/internal/core/devices"
	api "device-io/internal/delivery/http"
	"device-io/internal/delivery/subscriber"
	"device-io/internal/metrics"

	"github.com/rs/zerolog"
)

// @title           device-io API
// @version         1.0
// @description     Device command dispatch and alert ingestion.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().
		Str("svc", "device-io").Logger()

	cfg := config.MustLoad()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(lvl)
	}
	log.Info().Interface("cfg", cfg).Msg("boot")
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	registry, err := devices.ParseRegistry(cfg.Capabilities)
	if err != nil {
		log.Fatal().Err(err).Msg("capability registry")
	}

	db, err := gormrepo.New(cfg.DatabaseDSN, cfg.AutoMigrate, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	devRepo := gormrepo.NewDeviceRepository(db)
	userRepo := gormrepo.NewUserRepository(db)
	notifRepo := gormrepo.NewNotificationRepository(db)

	m := metrics.New()

	// command path
	mqttCfg := mqtt.Config{
		Broker:   cfg.MQTTBroker,
		ClientID: cfg.MQTTClientID,
		Username: cfg.MQTTUsername,
		Password: cfg.MQTTPassword,
		QoS:      1,
	}
	var dial broker.Dialer
	switch cfg.BrokerKind {
	case "mqtt":
		dial = mqtt.CommandDialer(mqttCfg, log)
	default:
		dial = natsad.CommandDialer(cfg.NATSURL, cfg.CommandExchange, commands.SubjectPatterns(), log)
	}
	pub := broker.NewPublisher(dial, cfg.PublishTimeout, log)
	dispatcher := commands.NewDispatcher(commands.NewAuthorizer(devRepo, registry), pub, cfg.CommandExchange, m, log)

	// alert path
	var mailer alerts.Mailer
	switch cfg.MailKind {
	case "smtp":
		mailer = mail.NewSMTP(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
			Timeout:  cfg.MailTimeout,
		})
	case "http":
		mailer = mail.NewRelay(cfg.MailRelayURL, cfg.MailRelayToken, cfg.MailFrom, cfg.MailTimeout)
	default:
		mailer = mail.NewLog(log)
	}
	svc := alerts.NewService(devRepo, userRepo, notifRepo, mailer,
		alerts.Config{MailTimeout: cfg.MailTimeout}, m, log)

	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var dlq alerts.DeadLetterSink
	if cfg.RedisAddr != "" {
		rdb := redisad.NewClient(redisad.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer rdb.Close()
		host, _ := os.Hostname()
		letters := redisad.NewDeadLetters(rdb, cfg.DeadLetterStream, "device-io-"+host, log)
		if err := letters.Ensure(ctx); err != nil {
			log.Fatal().Err(err).Msg("dead-letter stream")
		}
		dlq = letters
		go alerts.NewRedeliverer(letters, mailer, cfg.MailTimeout, m, log).Run(ctx, cfg.DeadLetterInterval)
	}

	queue := alerts.NewQueue(svc, cfg.AlertQueueSize, cfg.AlertWorkers, dlq, m, log)
	queue.Start()

	unsubscribe, closeSrc := func() error { return nil }, func() error { return nil }
	if cfg.AlertSubject != "" {
		unsubscribe, closeSrc = subscribeAlerts(ctx, cfg, mqttCfg, queue, log)
	}

	handler := api.New(api.Deps{
		Commands:      dispatcher,
		Alerts:        svc,
		Queue:         queue,
		Notifications: notifRepo,
		Broker:        pub,
		Auth:          api.NewAuthenticator(cfg.JWTSecret),
		InternalToken: cfg.InternalToken,
		Metrics:       m,
	}, log)
	srv := &http.Server{Addr: cfg.ListenAddr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		log.Info().Str("listen", cfg.ListenAddr).Msg("HTTP up")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http")
		}
	}()

	<-ctx.Done()
	shutdown, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdown)
	_ = unsubscribe()
	_ = closeSrc()
	if err := queue.Stop(shutdown); err != nil {
		log.Warn().Err(err).Msg("alert queue drain")
	}
	_ = pub.Close()
	log.Info().Msg("bye")
}

// subscribeAlerts feeds broker-published alerts into the queue. A broker
// that cannot be reached only disables this path; the webhook still works.
func subscribeAlerts(ctx context.Context, cfg config.Config, mqttCfg mqtt.Config, q *alerts.Queue, log zerolog.Logger) (func() error, func() error) {
	noop := func() error { return nil }

	var (
		src    subscriber.Source
		closer func() error
	)
	switch cfg.BrokerKind {
	case "mqtt":
		if mqttCfg.ClientID != "" {
			mqttCfg.ClientID += "-alerts"
		}
		c, err := mqtt.Dial(ctx, mqttCfg, log)
		if err != nil {
			log.Error().Err(err).Msg("alert subscription disabled")
			return noop, noop
		}
		src, closer = c, c.Close
	default:
		c, err := natsad.New(cfg.NATSURL, "device-io-alerts", log)
		if err != nil {
			log.Error().Err(err).Msg("alert subscription disabled")
			return noop, noop
		}
		src, closer = c, c.Close
	}

	unsubscribe, err := subscriber.Alerts(src, cfg.AlertSubject, q, log)
	if err != nil {
		log.Error().Err(err).Msg("alert subscription disabled")
		_ = closer()
		return noop, noop
	}
	return unsubscribe, closer
}
