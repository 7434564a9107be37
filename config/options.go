package config //import "github.com/hondana-dev/hondana/config"

const (
	defaultLogFile           = "hondana.log"
	defaultLogLevel          = "info"
	defaultLogFileMaxSize    = 20
	defaultLogFileMaxBackups = 3
	defaultLogFileMaxAge     = 28
	defaultLogCompress       = false
	defaultPort              = 8080
	defaultHost              = "127.0.0.1"
	defaultData              = "/var/opt/hondana"
	defaultDSN               = defaultData + "/hondana.db"
	defaultCatalogBaseURL    = "https://www.googleapis.com/books/v1"
	defaultCatalogRPS        = 2
	defaultCatalogRetries    = 3
	defaultCacheTTL          = 60
	defaultUndoDepth         = 10
	defaultUndoWindow        = 300
	defaultWorkerPoolSize    = 4
)

var Opts *Options

// Viper unmarshals with mapstructure, so the field tags here are
// mapstructure tags, not json.
// see: https://pkg.go.dev/github.com/mitchellh/mapstructure#hdr-Field_Tags
type Options struct {
	// LogFile is the file to write logs to
	LogFile string `mapstructure:"log_file"`
	// LogLevel is the level of logging to show
	LogLevel string `mapstructure:"log_level"`
	// LogFileMaxSize is the maximum size of the log file before it is rotated
	LogFileMaxSize int `mapstructure:"log_file_max_size"`
	// LogFileMaxBackups is the maximum number of log files to keep
	LogFileMaxBackups int `mapstructure:"log_file_max_backups"`
	// LogFileMaxAge is the maximum number of days to keep a log file
	LogFileMaxAge int `mapstructure:"log_file_max_age"`
	// LogCompress is whether or not to compress the log files
	LogCompress bool `mapstructure:"log_compress"`
	// DSN is the path of the sqlite collection database
	DSN string `mapstructure:"dsn_uri"`
	// Port is the port to listen on
	Port int `mapstructure:"port"`
	// Host is the host to listen on
	Host string `mapstructure:"host"`
	// Data is the directory to store data
	Data string `mapstructure:"data"`
	// CatalogBaseURL is the endpoint of the external book catalog
	CatalogBaseURL string `mapstructure:"catalog_base_url"`
	// CatalogRPS caps outgoing catalog requests per second
	CatalogRPS int `mapstructure:"catalog_rps"`
	// CatalogRetries is the retry cap for transient catalog failures
	CatalogRetries int `mapstructure:"catalog_retries"`
	// CacheTTL is the freshness window of cached views, in seconds
	CacheTTL int `mapstructure:"cache_ttl"`
	// UndoDepth is the number of deletions kept undoable
	UndoDepth int `mapstructure:"undo_depth"`
	// UndoWindow is the validity window of an undo entry, in seconds
	UndoWindow int `mapstructure:"undo_window"`
	// WorkerPoolSize is the number of background cache-refresh workers
	WorkerPoolSize int `mapstructure:"worker_pool_size"`
}

func GetDefaultOptions() *Options {
	Opts = &Options{
		LogFile:           defaultLogFile,
		LogLevel:          defaultLogLevel,
		LogFileMaxSize:    defaultLogFileMaxSize,
		LogFileMaxBackups: defaultLogFileMaxBackups,
		LogFileMaxAge:     defaultLogFileMaxAge,
		LogCompress:       defaultLogCompress,
		DSN:               defaultDSN,
		Port:              defaultPort,
		Host:              defaultHost,
		Data:              defaultData,
		CatalogBaseURL:    defaultCatalogBaseURL,
		CatalogRPS:        defaultCatalogRPS,
		CatalogRetries:    defaultCatalogRetries,
		CacheTTL:          defaultCacheTTL,
		UndoDepth:         defaultUndoDepth,
		UndoWindow:        defaultUndoWindow,
		WorkerPoolSize:    defaultWorkerPoolSize,
	}
	return Opts
}
