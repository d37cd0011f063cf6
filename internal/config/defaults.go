package config

const (
	defaultConfigPath            = "~/.config/cloudproxy/config.toml"
	defaultOriginalStore         = "/var/lib/cloudproxy/original"
	defaultRebuiltStore          = "/var/lib/cloudproxy/rebuilt"
	defaultLockDir               = "~/.local/share/cloudproxy/locks"
	defaultJournalPath           = "~/.local/share/cloudproxy/journal.db"
	defaultJournalRetentionDays  = 30
	defaultProcessingTimeout     = 60
	defaultTransport             = TransportHTTP
	defaultAdaptationURL         = "http://127.0.0.1:8080"
	defaultAdaptationSocket      = "/run/adaptation/adaptation.sock"
	defaultConnectTimeoutSeconds = 5
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultLogRetentionDays      = 14

	maxTimeoutSeconds = 24 * 60 * 60
	maxRetentionDays  = 100 * 365
)

// Supported adaptation transports.
const (
	TransportHTTP = "http"
	TransportRPC  = "rpc"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OriginalStore: defaultOriginalStore,
			RebuiltStore:  defaultRebuiltStore,
			LockDir:       defaultLockDir,
		},
		Processing: Processing{
			TimeoutSeconds: defaultProcessingTimeout,
		},
		Adaptation: Adaptation{
			Transport:             defaultTransport,
			URL:                   defaultAdaptationURL,
			Socket:                defaultAdaptationSocket,
			ConnectTimeoutSeconds: defaultConnectTimeoutSeconds,
		},
		Journal: Journal{
			Enabled:       true,
			Path:          defaultJournalPath,
			RetentionDays: defaultJournalRetentionDays,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
