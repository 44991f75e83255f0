package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Redis struct {
		Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Telegram struct {
		BotToken string  `env:"BOT_TOKEN,required"`
		AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

		// Init data older than this is rejected. Zero disables the check.
		InitDataTTL int `env:"INIT_DATA_TTL" envDefault:"0"`
	}

	App struct {
		// Defaults used until an admin saves settings explicitly.
		DailyAdLimit       int    `env:"DAILY_AD_LIMIT" envDefault:"50"`
		MinimumWithdrawal  string `env:"MINIMUM_WITHDRAWAL" envDefault:"0.5"`
		AdReward           string `env:"AD_REWARD" envDefault:"0.0002"`
		CommunityChatLink  string `env:"COMMUNITY_CHAT_LINK" envDefault:"https://t.me/PaidAdsCommunity"`
	}
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// Ignore a missing .env file; in production the variables
		// are expected to be set directly.
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
