package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/docproof/internal/example"
	"github.com/nao1215/docproof/internal/harness"
	"github.com/nao1215/docproof/internal/reference"
	"github.com/nao1215/docproof/internal/signature"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "docproof"

	// DefaultOutputDir is where the documentation site expects its artifacts.
	DefaultOutputDir = "docs/public"

	// DefaultConcurrency bounds the number of callables verified at once.
	// Each worker may hold one example subprocess.
	DefaultConcurrency = 8

	// DefaultExecTimeout bounds a single example execution.
	DefaultExecTimeout = harness.DefaultExecTimeout

	// DefaultSandboxDir places the sandbox two levels below the library
	// root, matching DefaultEntryModule.
	DefaultSandboxDir = "."

	// DefaultServeAddr is the listen address of the preview server.
	DefaultServeAddr = "127.0.0.1:5173"
)

// DefaultRunnerCommand executes one materialized example. {file} is
// replaced with the path of the example unit.
func DefaultRunnerCommand() []string {
	return []string{"npx", "tsx", harness.PlaceholderFile}
}

// Config holds every option of a docproof run. It is populated from
// defaults, then the config file, then CLI flags.
type Config struct {
	// ProjectFile is the reflected API dump (JSON or YAML).
	ProjectFile string

	// OutputDir receives the index files and rendered pages.
	OutputDir string

	// DocsBaseURL is the public origin of the documentation site. Absolute
	// links under it are treated as internal links.
	DocsBaseURL string

	// APIRoot is the path prefix of API pages on the site.
	APIRoot string

	// CallPrefix prefixes every call-form reference, e.g. "faker.".
	CallPrefix string

	// RootIdentifier is the identifier family examples import from.
	RootIdentifier string

	// EntryModule is the import specifier of the library entry point as
	// seen from a materialized example.
	EntryModule string

	// ImportTemplate renders the import line of an example unit.
	ImportTemplate string

	// Extension is the file extension of example units.
	Extension string

	// RunnerCommand runs one example unit.
	RunnerCommand []string

	// RunnerEnv is added to the environment of every example process.
	RunnerEnv map[string]string

	// IsolatedEnv starts example processes from an empty environment
	// instead of inheriting the current one.
	IsolatedEnv bool

	// WarningCapture is prepended to the deprecation unit of an example and
	// makes each console.warn call write one WarningPrefix line to stderr.
	WarningCapture string

	// WarningPrefix marks warning lines: only stderr lines starting with it
	// count as warnings.
	WarningPrefix string

	// ExecTimeout bounds a single example execution.
	ExecTimeout time.Duration

	// Concurrency is the number of callables verified in parallel.
	Concurrency int

	// SandboxDir is the parent of the per-run example sandbox. Relative
	// entry modules resolve from <SandboxDir>/<sandbox>/<module>/, so the
	// default is the working directory. Empty uses the system temp dir.
	SandboxDir string

	// DBDir stores the baseline database. Empty disables persistence.
	DBDir string

	// SaveBaseline records the generated diff index in the database.
	SaveBaseline bool

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the explicit path of the config file, if any.
	ConfigFilePath string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		OutputDir:      DefaultOutputDir,
		DocsBaseURL:    reference.DefaultDocsURL,
		APIRoot:        reference.DefaultAPIRoot,
		CallPrefix:     signature.DefaultCallPrefix,
		RootIdentifier: example.DefaultRootIdentifier,
		EntryModule:    example.DefaultEntryModule,
		ImportTemplate: example.DefaultImportTemplate,
		Extension:      harness.DefaultExtension,
		WarningCapture: example.DefaultWarningCapture,
		WarningPrefix:  example.DefaultWarningMarker,
		RunnerCommand:  DefaultRunnerCommand(),
		ExecTimeout:    DefaultExecTimeout,
		Concurrency:    DefaultConcurrency,
		SandboxDir:     DefaultSandboxDir,
		DBDir:          XDGDataDir(),
		SaveBaseline:   true,
	}
}

// XDGDataDir returns the XDG data directory for docproof.
// On Linux: ~/.local/share/docproof
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for docproof. It is the
// suggested sandbox parent for long-lived CI runners.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is usable for a run and returns
// the first problem found.
func (c *Config) Validate() error {
	if c.ProjectFile == "" {
		return ErrNoProjectFile
	}
	return c.ValidateVerify()
}

// ValidateVerify checks the options shared by every command that loads a
// project. The project file itself is checked by Validate.
func (c *Config) ValidateVerify() error {
	if c.OutputDir == "" {
		return ErrNoOutputDir
	}
	if c.ExecTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if len(c.RunnerCommand) == 0 || strings.TrimSpace(c.RunnerCommand[0]) == "" {
		return ErrNoRunnerCommand
	}
	if !strings.HasPrefix(c.APIRoot, "/") || !strings.HasSuffix(c.APIRoot, "/") {
		return ErrInvalidAPIRoot
	}
	if !strings.HasPrefix(c.Extension, ".") {
		return ErrInvalidExtension
	}
	u, err := url.Parse(c.DocsBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidDocsURL
	}
	return nil
}
