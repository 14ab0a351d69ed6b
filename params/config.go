package params

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Engine struct {
	// Partitions is the number of independent matching workers. A book id is
	// pinned to one partition for the process lifetime, so changing this
	// between runs changes book placement but never per-book ordering.
	Partitions int

	// QueueCapacity bounds each partition's request queue. Producers block
	// once a partition falls this far behind.
	QueueCapacity int
}

type Config struct {
	Engine Engine
}

func Default() Config {
	return Config{
		Engine: Engine{
			Partitions:    4,
			QueueCapacity: 4096,
		},
	}
}

// LoadFromEnv loads configuration from .env file (if exists) and environment variables
// Priority: ENV > .env file > defaults
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	// Try to load .env file (optional - won't fail if not exists)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // loads .env from current directory
	}

	if v := os.Getenv("MATCH_PARTITIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Engine.Partitions = n
		}
	}

	if v := os.Getenv("MATCH_QUEUE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Engine.QueueCapacity = n
		}
	}

	return cfg
}
