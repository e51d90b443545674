package config

// DefaultConfig returns the configuration used when no config file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			IP:          "0.0.0.0",
			Port:        8080,
			EnablePprof: false,
		},
		Log: LogConfig{
			Level: "INFO",
			Dir:   "data/logs",
			File:  "server.log",
		},
		Web: WebConfig{
			Enabled:   true,
			StaticDir: "./web",
		},
		Processing: ProcessingConfig{
			MaxFileSize:    10 * 1024 * 1024,
			MaxWidth:       8192,
			MaxHeight:      8192,
			MaxPixels:      16777216,
			AllowedFormats: []string{"jpeg", "jpg", "png", "gif", "webp", "bmp"},
			BlurRadius:     5,
			DenoisePasses:  3,
			DenoiseWindow:  3,
			JPEGQuality:    85,
		},
	}
}
