package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `yaml:"env" env:"ENV" env-default:"local"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
		AdminId int64  `yaml:"admin_id" env:"TELEGRAM_ADMIN_ID" env-default:"0"`
		BotName string `yaml:"bot_name" env-default:"SafetyAgentsBot"`
		Enabled bool   `yaml:"enabled" env-default:"false"`
	} `yaml:"telegram"`
	OpenAI struct {
		ApiKey      string        `yaml:"api_key" env:"OPENAI_API_KEY" env-default:""`
		Model       string        `yaml:"model" env-default:"gpt-4o-mini"`
		VisionModel string        `yaml:"vision_model" env-default:"gpt-4o"`
		Timeout     time.Duration `yaml:"timeout" env-default:"60s"`
	} `yaml:"openai"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:"admin"`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:"pass"`
		Database string `yaml:"database" env-default:"safety_agents"`
	} `yaml:"mongo"`
	SQLite struct {
		Enabled bool   `yaml:"enabled" env-default:"false"`
		Path    string `yaml:"path" env-default:"./data/safety-agents.db"`
	} `yaml:"sqlite"`
	Workflow struct {
		StateStore          string        `yaml:"state_store" env-default:"db"`
		StateTTL            time.Duration `yaml:"state_ttl" env-default:"72h"`
		LockTimeout         time.Duration `yaml:"lock_timeout" env-default:"10s"`
		SweepInterval       time.Duration `yaml:"sweep_interval" env-default:"10m"`
		CollaboratorTimeout time.Duration `yaml:"collaborator_timeout" env-default:"45s"`
	} `yaml:"workflow"`
	Files struct {
		Secret string        `yaml:"secret" env:"FILES_SECRET" env-default:""`
		UrlTTL time.Duration `yaml:"url_ttl" env-default:"15m"`
	} `yaml:"files"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env-default:"9100"`
		ApiKey string `yaml:"key" env:"API_KEY" env-default:""`
	} `yaml:"listen"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		// optional: secrets may come from a local .env
		_ = godotenv.Load()

		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
