package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	MaxPlayersPerRoom int `env:"MAX_PLAYERS_PER_ROOM" envDefault:"12"`
	MinPlayersToStart int `env:"MIN_PLAYERS_TO_START" envDefault:"3"`

	RoomIdleTTL     time.Duration `env:"ROOM_IDLE_TTL" envDefault:"30m"`
	JanitorInterval time.Duration `env:"JANITOR_INTERVAL" envDefault:"1m"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
