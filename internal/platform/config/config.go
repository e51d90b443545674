package config

// Config is the process-wide configuration. It is loaded once during
// bootstrap and treated as read-only afterwards.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Web        WebConfig        `yaml:"web"`
	Processing ProcessingConfig `yaml:"processing"`
}

type ServerConfig struct {
	IP   string `yaml:"ip"`
	Port int    `yaml:"port"`
	// EnablePprof mounts the Go runtime profiler under /debug/pprof.
	EnablePprof bool `yaml:"enable_pprof"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

type WebConfig struct {
	Enabled   bool   `yaml:"enabled"`
	StaticDir string `yaml:"static_dir"`
}

// ProcessingConfig bounds and tunes the image transform pipeline.
type ProcessingConfig struct {
	MaxFileSize    int64    `yaml:"max_file_size"`
	MaxWidth       int      `yaml:"max_width"`
	MaxHeight      int      `yaml:"max_height"`
	MaxPixels      int64    `yaml:"max_pixels"`
	AllowedFormats []string `yaml:"allowed_formats"`
	BlurRadius     int      `yaml:"blur_radius"`
	DenoisePasses  int      `yaml:"denoise_passes"`
	DenoiseWindow  int      `yaml:"denoise_window"`
	JPEGQuality    int      `yaml:"jpeg_quality"`
}
