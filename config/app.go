package config

import "time"

type App struct {
	Port        string `env:"APP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	Env         string `env:"APP_ENV" envDefault:"dev"`
	Timezone    string `env:"APP_TIMEZONE" envDefault:"Asia/Jakarta"`

	// Completion worker. MaxRuntime 0 means run until shutdown.
	WorkerEnabled      bool          `env:"WORKER_ENABLED" envDefault:"true"`
	WorkerPollInterval time.Duration `env:"WORKER_POLL_INTERVAL" envDefault:"900s"`
	WorkerHoursBuffer  int           `env:"WORKER_HOURS_BUFFER" envDefault:"0"`
	WorkerMaxRuntime   time.Duration `env:"WORKER_MAX_RUNTIME" envDefault:"0"`

	// Bookable slot grid for the public availability view.
	SlotWindowStart string        `env:"SLOT_WINDOW_START" envDefault:"08:00"`
	SlotWindowEnd   string        `env:"SLOT_WINDOW_END" envDefault:"17:00"`
	SlotDuration    time.Duration `env:"SLOT_DURATION" envDefault:"1h"`
}
