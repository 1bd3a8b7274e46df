package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/remix-go/remix/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "remix.json"

	// DefaultPort is the default development server port.
	DefaultPort = 3000

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultBuildDir is the default browser build output directory.
	DefaultBuildDir = "public/build"

	// DefaultPublicPath is the default URL prefix browser bundles are
	// served under.
	DefaultPublicPath = "/build/"

	// ManifestFileName is the name of the browser build manifest inside
	// the build directory.
	ManifestFileName = "manifest.json"
)

// Config represents the complete remix.json configuration.
type Config struct {
	// Name is the application name.
	Name string `json:"name,omitempty"`

	// PublicPath is the URL prefix browser bundles are served under.
	PublicPath string `json:"publicPath,omitempty"`

	// BuildDir is the directory the browser build is written to. The
	// build manifest is expected at <BuildDir>/manifest.json.
	BuildDir string `json:"buildDir,omitempty"`

	// Static contains static file serving configuration.
	Static StaticConfig `json:"static,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	// Deploy contains artifact deployment configuration.
	Deploy DeployConfig `json:"deploy,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// StaticConfig contains static file serving configuration.
type StaticConfig struct {
	// Dir is the directory containing static files.
	Dir string `json:"dir,omitempty"`

	// Prefix is the URL prefix for static files (default: "/").
	Prefix string `json:"prefix,omitempty"`
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Port is the port to run the dev server on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Command is the command used to run the application server
	// (default: "go run .").
	Command string `json:"command,omitempty"`

	// Watch contains paths to watch for changes.
	Watch []string `json:"watch,omitempty"`

	// Ignore contains patterns to ignore during watch.
	Ignore []string `json:"ignore,omitempty"`
}

// DeployConfig contains artifact deployment settings.
type DeployConfig struct {
	// Bucket is the S3 bucket browser bundles are uploaded to.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the object key prefix inside the bucket.
	Prefix string `json:"prefix,omitempty"`

	// Region is the AWS region of the bucket.
	Region string `json:"region,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		PublicPath: DefaultPublicPath,
		BuildDir:   DefaultBuildDir,
		Static: StaticConfig{
			Dir:    "public",
			Prefix: "/",
		},
		Dev: DevConfig{
			Port:    DefaultPort,
			Host:    DefaultHost,
			Command: "go run .",
			Watch:   []string{"app", "public"},
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for remix.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("R100").
				WithDetail("No remix.json found in " + filepath.Dir(path)).
				WithSuggestion("Create remix.json at the project root")
		}
		return nil, errors.New("R101").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("R101").
			WithDetail("Failed to parse remix.json: " + err.Error()).
			WithSuggestion("Check that remix.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.PublicPath == "" {
		c.PublicPath = DefaultPublicPath
	}
	if c.BuildDir == "" {
		c.BuildDir = DefaultBuildDir
	}
	if c.Static.Dir == "" {
		c.Static.Dir = "public"
	}
	if c.Static.Prefix == "" {
		c.Static.Prefix = "/"
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.Command == "" {
		c.Dev.Command = "go run ."
	}
	if c.Dev.Watch == nil {
		c.Dev.Watch = []string{"app", "public"}
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return errors.New("R102").
			WithDetail("Port must be between 0 and 65535, got " + strconv.Itoa(c.Dev.Port))
	}
	return nil
}

// BuildPath returns the absolute path to the browser build directory.
func (c *Config) BuildPath() string {
	if filepath.IsAbs(c.BuildDir) {
		return c.BuildDir
	}
	return filepath.Join(c.Dir(), c.BuildDir)
}

// ManifestPath returns the absolute path to the browser build manifest.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.BuildPath(), ManifestFileName)
}

// StaticPath returns the absolute path to the static files directory.
func (c *Config) StaticPath() string {
	if filepath.IsAbs(c.Static.Dir) {
		return c.Static.Dir
	}
	return filepath.Join(c.Dir(), c.Static.Dir)
}

// DevAddress returns the address string for the dev server.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + strconv.Itoa(c.Dev.Port)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing remix.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("R100").
				WithDetail("No remix.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
