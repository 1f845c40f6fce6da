package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	appdefaults "github.com/saker-ai/debugwire/config"

	"github.com/saker-ai/debugwire/internal/logger"
	"github.com/saker-ai/debugwire/internal/paths"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "debugwire"
	rootDirEnv     = "DEBUGWIRE_ROOT_DIR"
	configName     = "debugwire"
	configFileName = configName + ".yaml"
)

// ProtocolConfig shapes command payloads.
type ProtocolConfig struct {
	MaxIOMessageSize   int    `mapstructure:"max_io_msg_size"`
	IOTruncationMarker string `mapstructure:"io_truncation_marker"`
	VersionString      string `mapstructure:"version_string"`
	MaxTraceDepth      int    `mapstructure:"max_trace_depth"`
}

// MarkerConfig identifies the debugger frame a suspended thread waits in.
type MarkerConfig struct {
	Func string `mapstructure:"func"`
	File string `mapstructure:"file"`
}

// StackConfig controls stack walks.
type StackConfig struct {
	MaxFrames          int          `mapstructure:"max_frames"`
	FilesystemEncoding string       `mapstructure:"filesystem_encoding"`
	Marker             MarkerConfig `mapstructure:"marker"`
}

// PathsConfig maps server paths to client paths.
type PathsConfig struct {
	Mappings []paths.Mapping `mapstructure:"mappings"`
}

// SkipListConfig adds debugger files to the built-in skip list. File is a
// YAML skip list merged over the built-in one.
type SkipListConfig struct {
	Files []string `mapstructure:"files"`
	File  string   `mapstructure:"file"`
}

// DebugConfig mirrors the debugger's own trace level.
type DebugConfig struct {
	TraceLevel int `mapstructure:"trace_level"`
}

// Config represents a config.
type Config struct {
	RootDir  string         `mapstructure:"-"`
	Protocol ProtocolConfig `mapstructure:"protocol"`
	Stack    StackConfig    `mapstructure:"stack"`
	Paths    PathsConfig    `mapstructure:"paths"`
	SkipList SkipListConfig `mapstructure:"skip_list"`
	Debug    DebugConfig    `mapstructure:"debug"`
	Log      logger.Config  `mapstructure:"log"`
}

// Load reads the embedded defaults, then debugwire.yaml from the root
// directory when present, then DEBUGWIRE_* environment variables.
func Load() (Config, error) {
	rootDir, err := resolveRootDir()
	if err != nil {
		return Config{}, err
	}

	v, err := newViper()
	if err != nil {
		return Config{}, err
	}
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(rootDir)

	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}
	return decode(v, rootDir)
}

// LoadConfig loads configPath over the defaults. An empty path falls back to
// Load.
func LoadConfig(configPath string) (Config, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		return Load()
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return Config{}, err
	}

	rootDir := strings.TrimSpace(os.Getenv(rootDirEnv))
	if rootDir == "" {
		rootDir = filepath.Dir(absPath)
	}

	v, err := newViper()
	if err != nil {
		return Config{}, err
	}
	v.SetConfigFile(absPath)
	if err := v.MergeInConfig(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", absPath, err)
	}
	return decode(v, rootDir)
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(appdefaults.Default)); err != nil {
		return nil, fmt.Errorf("load embedded config: %w", err)
	}

	v.SetDefault("protocol.max_io_msg_size", 1000)
	v.SetDefault("protocol.io_truncation_marker", "...")
	v.SetDefault("protocol.version_string", "1.1")
	v.SetDefault("protocol.max_trace_depth", 1000)
	v.SetDefault("stack.max_frames", 10000)
	v.SetDefault("stack.marker.func", "do_wait_suspend")
	v.SetDefault("stack.marker.file", "pydevd.py")
	v.SetDefault("debug.trace_level", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file.name", "debugwire.log")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

func decode(v *viper.Viper, rootDir string) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.RootDir = rootDir
	derivePaths(&cfg)
	return cfg, nil
}

func resolveRootDir() (string, error) {
	if root := strings.TrimSpace(os.Getenv(rootDirEnv)); root != "" {
		return filepath.Abs(root)
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := wd
	for i := 0; i < 6; i++ {
		if fileExists(filepath.Join(dir, configFileName)) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return wd, nil
}

func derivePaths(cfg *Config) {
	if strings.TrimSpace(cfg.SkipList.File) != "" {
		cfg.SkipList.File = resolvePath(cfg.RootDir, cfg.SkipList.File, "")
	}
	if cfg.Log.File.Enabled {
		cfg.Log.File.Path = resolvePath(cfg.RootDir, cfg.Log.File.Path, "logs")
	}
}

func resolvePath(rootDir string, configured string, fallback string) string {
	path := strings.TrimSpace(configured)
	if path == "" {
		path = fallback
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(rootDir, path)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
