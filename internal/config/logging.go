package config

// Logging holds log output settings. Levels are slog level names.
type Logging struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error" yaml:"level"`
	Format string `env:"LOG_FORMAT" validate:"omitempty,oneof=json verbose" yaml:"format"`

	// Handlers selects outputs: console (stdout) and file.
	Handlers []string `env:"LOG_HANDLERS" envDefault:"console" validate:"min=1,dive,oneof=console file" yaml:"handlers"`

	File           string `env:"LOG_FILE" envDefault:"logs/app.log" yaml:"file"`
	FileMaxSizeMB  int    `env:"LOG_FILE_MAX_SIZE_MB" envDefault:"100" validate:"gt=0" yaml:"file_max_size_mb"`
	FileMaxBackups int    `env:"LOG_FILE_MAX_BACKUPS" envDefault:"3" validate:"gte=0" yaml:"file_max_backups"`
	FileMaxAgeDays int    `env:"LOG_FILE_MAX_AGE_DAYS" envDefault:"28" validate:"gte=0" yaml:"file_max_age_days"`
	FileCompress   bool   `env:"LOG_FILE_COMPRESS" envDefault:"false" yaml:"file_compress"`

	// Loggers overrides the level of named loggers.
	Loggers map[string]string `env:"LOG_LOGGERS" envDefault:"app:debug,http.request:info,db:warn,autoreload:warn" validate:"dive,keys,required,endkeys,oneof=debug info warn error" yaml:"loggers"`
}

// The format follows the environment unless LOG_FORMAT is set: readable
// lines locally, JSON everywhere else.
func (l *Logging) finalize(e Environment) {
	if l.Format == "" {
		if e == Local {
			l.Format = "verbose"
		} else {
			l.Format = "json"
		}
	}
	l.Handlers = trimAll(l.Handlers)
}
