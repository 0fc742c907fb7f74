package config

const (
	defaultDownloadDir            = "~/Downloads/sculptor"
	defaultLogDir                 = "~/.local/share/sculptor/logs"
	defaultServiceBaseURL         = "http://localhost:8000"
	defaultServiceUserID          = 1
	defaultServiceTimeoutSeconds  = 30
	defaultMaxClips               = 10
	defaultPollIntervalSeconds    = 2
	defaultNavigationDelaySeconds = 2
	defaultStaggerMilliseconds    = 300
	defaultMinFreeMB              = 500
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
			LogDir:      defaultLogDir,
		},
		Service: Service{
			BaseURL:        defaultServiceBaseURL,
			UserID:         defaultServiceUserID,
			TimeoutSeconds: defaultServiceTimeoutSeconds,
		},
		Submission: Submission{
			MaxClips:               defaultMaxClips,
			PollIntervalSeconds:    defaultPollIntervalSeconds,
			NavigationDelaySeconds: defaultNavigationDelaySeconds,
		},
		Downloads: Downloads{
			StaggerMilliseconds: defaultStaggerMilliseconds,
			MinFreeMB:           defaultMinFreeMB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
