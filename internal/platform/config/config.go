package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	// MaxAgentLocks caps active record locks per agent.
	MaxAgentLocks int
	// PTPSweepSchedule is the cron expression for the overdue-promise sweep.
	PTPSweepSchedule string
	// AdminUnlockers lists agent ids carrying the force-release capability
	// until the role service integration lands.
	AdminUnlockers []string
}

func Load() (Config, error) {
	// Missing .env is fine in containerized deployments.
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "kolekta"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	schedule := os.Getenv("PTP_SWEEP_SCHEDULE")
	if schedule == "" {
		schedule = "15 0 * * *"
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		MaxAgentLocks:    envInt("MAX_AGENT_LOCKS", 30),
		PTPSweepSchedule: schedule,
		AdminUnlockers:   envList("ADMIN_UNLOCKERS"),
	}, nil
}

func envList(name string) []string {
	var values []string
	for _, value := range strings.Split(os.Getenv(name), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			values = append(values, value)
		}
	}
	return values
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
