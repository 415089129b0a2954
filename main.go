package main

import (
	"SafetyAgents/ai/gpt"
	"SafetyAgents/bot"
	"SafetyAgents/coshh/reference"
	"SafetyAgents/impl/core"
	"SafetyAgents/internal/config"
	"SafetyAgents/internal/database"
	"SafetyAgents/internal/database/memory"
	"SafetyAgents/internal/database/sqlite"
	"SafetyAgents/internal/http-server/api"
	"SafetyAgents/internal/lib/logger"
	"SafetyAgents/internal/lib/sl"
	"SafetyAgents/internal/ws"
	"SafetyAgents/workflow"
	"SafetyAgents/workflow/coshh"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// storage is what the service needs from a database backend.
type storage interface {
	core.Repository
	coshh.AssessmentRepository
	workflow.StateStore
}

type mongoStorage struct {
	*repository.MongoDB
	*repository.StateStore
}

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listeners := workflow.Listeners{}

	var tgBot *bot.TgBot
	if conf.Telegram.Enabled {
		var err error
		tgBot, err = bot.NewTgBot(conf.Telegram.BotName, conf.Telegram.ApiKey, conf.Telegram.AdminId, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", sl.Err(err))
		} else {
			lg = logger.SetupTelegramHandler(lg, tgBot, slog.LevelError)
			listeners = append(listeners, tgBot)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")

			go func() {
				if err := tgBot.Start(); err != nil {
					lg.Error("telegram bot error", sl.Err(err))
				}
			}()
		}
	}

	lg.Info("starting safety agents", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	var db storage
	if conf.Mongo.Enabled {
		mongo, err := repository.NewMongoClient(conf, lg)
		if err != nil {
			lg.Error("mongo client", sl.Err(err))
			return
		}
		if err = mongo.EnsureIndexes(ctx); err != nil {
			lg.Error("mongo indexes", sl.Err(err))
		}
		db = mongoStorage{MongoDB: mongo, StateStore: mongo.States()}
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	} else {
		if !conf.SQLite.Enabled {
			lg.Warn("no database enabled, using sqlite", slog.String("path", conf.SQLite.Path))
		}
		lite, err := sqlite.New(conf.SQLite.Path, lg)
		if err != nil {
			lg.Error("sqlite", sl.Err(err))
			return
		}
		defer func() { _ = lite.Close() }()
		go lite.Run(ctx, conf.Workflow.SweepInterval)
		db = lite
		lg.With(slog.String("path", conf.SQLite.Path)).Info("sqlite initialized")
	}

	var states workflow.StateStore = db
	if conf.Workflow.StateStore == "memory" {
		mem := memory.NewStateStore()
		go mem.Run(ctx, conf.Workflow.SweepInterval)
		states = mem
		lg.Info("workflow states kept in memory")
	}

	advisor := gpt.NewAdvisor(conf, lg)
	lg.With(
		sl.Secret("openai_key", conf.OpenAI.ApiKey),
		slog.String("model", conf.OpenAI.Model),
		slog.String("vision_model", conf.OpenAI.VisionModel),
	).Info("advisor initialized")

	catalog := reference.DefaultCatalog()

	hub := ws.NewHub(lg)
	go hub.Run(ctx)
	listeners = append(listeners, hub)

	engine := workflow.NewEngine(states, conf.Workflow.StateTTL, lg)
	engine.SetLockTimeout(conf.Workflow.LockTimeout)
	engine.SetListener(listeners)
	engine.RegisterWorkflow(coshh.New(coshh.Dependencies{
		Extractor:   advisor,
		Estimator:   advisor,
		Catalog:     catalog,
		Assessments: db,
		Timeout:     conf.Workflow.CollaboratorTimeout,
	}, lg))

	handler := core.New(lg)
	handler.SetAuthKey(conf.Listen.ApiKey)
	handler.SetRepository(db)
	handler.SetEngine(engine)
	handler.SetCatalog(catalog)
	handler.SetFiles(conf.Files.Secret, conf.Files.UrlTTL)

	// *** blocking start with http server ***
	err := api.New(ctx, conf, lg, handler, hub)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Info("service stopped")
}
