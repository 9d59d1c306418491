package config

type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
)

type Config struct {
	Host      string `envconfig:"HOST"`
	Port      string `envconfig:"PORT"`
	Prefix    string `envconfig:"PREFIX"`
	Mode      Mode   `envconfig:"MODE"`
	Mysql     Mysql
	Log       Log       `mapstructure:"Log"`
	Dashboard Dashboard `mapstructure:"Dashboard"`
}

type Mysql struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USERNAME"`
	Password string `envconfig:"PASSWORD"`
	DBName   string `envconfig:"DB_NAME"`
}

type Log struct {
	FilePath   string `envconfig:"LOG_FILE_PATH" mapstructure:"file_path"`     // log file path (release mode)
	Level      string `envconfig:"LOG_LEVEL" mapstructure:"level"`             // debug, info, warn, error
	MaxSize    int    `envconfig:"LOG_MAX_SIZE" mapstructure:"max_size"`       // max file size in MB
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" mapstructure:"max_backups"` // rotated files kept
	MaxAge     int    `envconfig:"LOG_MAX_AGE" mapstructure:"max_age"`         // days kept
	Compress   bool   `envconfig:"LOG_COMPRESS" mapstructure:"compress"`
}

// Dashboard holds the business vocabulary consumed by the importer and the
// metrics engine. Status values come from the uploaded workbooks and are
// free text, so the recognized literals are configuration, not enums.
type Dashboard struct {
	ActiveStatus    string `envconfig:"ACTIVE_STATUS" mapstructure:"active_status"`       // status counted as "in progress"
	DefaultStatus   string `envconfig:"DEFAULT_STATUS" mapstructure:"default_status"`     // applied when the status cell is blank
	UnassignedLabel string `envconfig:"UNASSIGNED_LABEL" mapstructure:"unassigned_label"` // sentinel for missing champion/strategy
	BlankStatus     string `envconfig:"BLANK_STATUS" mapstructure:"blank_status"`         // display label for an empty status
}
