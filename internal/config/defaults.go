package config

const (
	defaultStagingDir            = "~/.local/share/nomadtool/staging"
	defaultLogDir                = "~/.local/share/nomadtool/logs"
	defaultOMDBBaseURL           = "https://www.omdbapi.com/"
	defaultOMDBTimeoutSeconds    = 10
	defaultLibraryTimeoutSeconds = 30
	defaultTranscoderBinary      = "ffmpeg"
	defaultTranscoderContainer   = "mp4"
	defaultTranscodeTimeoutHours = 6
	defaultCopyBufferBytes       = 1 << 20
	defaultCopyRetries           = 3
	defaultRetryBackoffSeconds   = 2
	defaultFreeSpacePercent      = 10.0
	defaultMetadataWorkers       = 4
	defaultSimilarityThreshold   = 0.70
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		OMDB: OMDB{
			BaseURL:        defaultOMDBBaseURL,
			TimeoutSeconds: defaultOMDBTimeoutSeconds,
		},
		Library: Library{
			Enabled:        false,
			TimeoutSeconds: defaultLibraryTimeoutSeconds,
		},
		Transcoder: Transcoder{
			Binary:       defaultTranscoderBinary,
			Container:    defaultTranscoderContainer,
			TimeoutHours: defaultTranscodeTimeoutHours,
		},
		Transfer: Transfer{
			BufferBytes:         defaultCopyBufferBytes,
			Retries:             defaultCopyRetries,
			RetryBackoffSeconds: defaultRetryBackoffSeconds,
			FreeSpacePercent:    defaultFreeSpacePercent,
			DeleteSource:        false,
		},
		Metadata: Metadata{
			Enabled:             true,
			Workers:             defaultMetadataWorkers,
			SimilarityThreshold: defaultSimilarityThreshold,
			Posters:             true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
