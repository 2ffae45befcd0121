package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".docproof.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// RunnerFile is the runner section of the configuration file.
type RunnerFile struct {
	Command       []string          `yaml:"command,omitempty"`
	Env           map[string]string `yaml:"env,omitempty"`
	IsolatedEnv   *bool             `yaml:"isolatedEnv,omitempty"`
	WarningPrefix string            `yaml:"warningPrefix,omitempty"`
	Timeout       time.Duration     `yaml:"timeout,omitempty"`
	Concurrency   int               `yaml:"concurrency,omitempty"`
	SandboxDir    string            `yaml:"sandboxDir,omitempty"`
}

// ExamplesFile is the example materialization section of the configuration file.
type ExamplesFile struct {
	RootIdentifier string `yaml:"rootIdentifier,omitempty"`
	EntryModule    string `yaml:"entryModule,omitempty"`
	ImportTemplate string `yaml:"importTemplate,omitempty"`
	Extension      string `yaml:"extension,omitempty"`
	WarningCapture string `yaml:"warningCapture,omitempty"`
}

// File represents the structure of the .docproof.yaml configuration file.
// Zero values leave the corresponding Config field untouched.
type File struct {
	Project      string       `yaml:"project,omitempty"`
	Output       string       `yaml:"output,omitempty"`
	DocsURL      string       `yaml:"docsURL,omitempty"`
	APIRoot      string       `yaml:"apiRoot,omitempty"`
	CallPrefix   string       `yaml:"callPrefix,omitempty"`
	DBDir        string       `yaml:"dbDir,omitempty"`
	SaveBaseline *bool        `yaml:"saveBaseline,omitempty"`
	Examples     ExamplesFile `yaml:"examples,omitempty"`
	Runner       RunnerFile   `yaml:"runner,omitempty"`
}

// Apply copies every value set in the file onto cfg. Relative paths are
// resolved against base, the directory holding the file.
func (f *File) Apply(cfg *Config, base string) {
	setString(&cfg.ProjectFile, resolve(base, f.Project))
	setString(&cfg.OutputDir, resolve(base, f.Output))
	setString(&cfg.DocsBaseURL, f.DocsURL)
	setString(&cfg.APIRoot, f.APIRoot)
	setString(&cfg.CallPrefix, f.CallPrefix)
	setString(&cfg.DBDir, resolve(base, f.DBDir))
	if f.SaveBaseline != nil {
		cfg.SaveBaseline = *f.SaveBaseline
	}

	setString(&cfg.RootIdentifier, f.Examples.RootIdentifier)
	setString(&cfg.EntryModule, f.Examples.EntryModule)
	setString(&cfg.ImportTemplate, f.Examples.ImportTemplate)
	setString(&cfg.Extension, f.Examples.Extension)
	setString(&cfg.WarningCapture, f.Examples.WarningCapture)

	if len(f.Runner.Command) > 0 {
		cfg.RunnerCommand = append([]string(nil), f.Runner.Command...)
	}
	if len(f.Runner.Env) > 0 {
		if cfg.RunnerEnv == nil {
			cfg.RunnerEnv = make(map[string]string, len(f.Runner.Env))
		}
		for k, v := range f.Runner.Env {
			cfg.RunnerEnv[k] = v
		}
	}
	if f.Runner.IsolatedEnv != nil {
		cfg.IsolatedEnv = *f.Runner.IsolatedEnv
	}
	setString(&cfg.WarningPrefix, f.Runner.WarningPrefix)
	if f.Runner.Timeout != 0 {
		cfg.ExecTimeout = f.Runner.Timeout
	}
	if f.Runner.Concurrency != 0 {
		cfg.Concurrency = f.Runner.Concurrency
	}
	setString(&cfg.SandboxDir, resolve(base, f.Runner.SandboxDir))
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func resolve(base, p string) string {
	if p == "" || base == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// LoadConfigFile loads the YAML configuration file at path.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .docproof.yaml in the current directory
// 3. Look for .docproof.yaml in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Load builds a Config from defaults and the configuration file found by
// FindConfigFile(configPath). An explicit configPath that does not exist
// is an error; a missing implicit file is not.
func Load(configPath string) (*Config, error) {
	cfg := NewConfig()
	cfg.ConfigFilePath = configPath

	path := FindConfigFile(configPath)
	if path == "" {
		if configPath != "" {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return cfg, nil
	}

	cf, err := LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	cf.Apply(cfg, filepath.Dir(path))
	cfg.ConfigFilePath = path
	return cfg, nil
}
