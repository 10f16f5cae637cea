package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yourorg/presence-gateway/internal/auth"
	"github.com/yourorg/presence-gateway/internal/config"
	"github.com/yourorg/presence-gateway/internal/directory"
	"github.com/yourorg/presence-gateway/internal/events"
	"github.com/yourorg/presence-gateway/internal/gateway"
	"github.com/yourorg/presence-gateway/internal/logger"
	"github.com/yourorg/presence-gateway/internal/registry"
	"github.com/yourorg/presence-gateway/internal/server"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	lg, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	verifier, err := auth.NewVerifier(cfg.App.JWTSecret)
	if err != nil {
		lg.Fatalw("verifier init", "error", err)
	}

	var dir *directory.Directory
	var mongoClient *mongo.Client
	if cfg.Mongo.URI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		cancel()
		if err != nil {
			lg.Fatalw("mongo connect", "error", err)
		}
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		err = mongoClient.Ping(ctx, nil)
		cancel()
		if err != nil {
			lg.Fatalw("mongo ping", "error", err)
		}
		dir = directory.NewDirectory(mongoClient.Database(cfg.Mongo.Database), cfg.Mongo.UsersCollection)
	}

	var mirror *directory.Mirror
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		mirror = directory.NewMirror(redisClient, cfg.Redis.Prefix)
	}

	sink := directory.NewSync(dir, mirror, lg)
	reg := registry.New()

	var gwEvents gateway.MessageEventSink
	var producer *events.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicMessageSent, lg)
		gwEvents = producer
	}

	gw := gateway.New(verifier, reg, sink, gwEvents, gateway.Options{
		PingInterval:   cfg.PingInterval,
		PongWait:       cfg.PongWait,
		WriteDeadline:  cfg.WriteDeadline,
		MaxMessageSize: cfg.WS.MaxMessageSizeBytes,
		SendQueueSize:  cfg.WS.SendQueueSize,
	}, lg)

	app := server.New(gw, reg)

	errs := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		lg.Infow("starting presence gateway", "addr", addr)
		errs <- app.Listen(addr)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case e := <-errs:
		lg.Fatalw("server error", "error", e)
	case s := <-sig:
		lg.Infow("signal received", "signal", s.String())
	}

	if err := app.Shutdown(); err != nil {
		lg.Warnw("server shutdown", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			lg.Warnw("event producer close", "error", err)
		}
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = mongoClient.Disconnect(ctx)
		cancel()
	}
	lg.Infow("shut down")
}
