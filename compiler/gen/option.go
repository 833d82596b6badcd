package gen

import (
	"errors"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"
)

// DefaultHeader is the header comment of generated files.
const DefaultHeader = "Code generated by crudgen. DO NOT EDIT."

// Config holds the configuration of code generation.
type Config struct {
	// Target is the output directory.
	Target string
	// Package is the name of the generated package. Defaults to the base
	// name of Target.
	Package string
	// Header is the comment at the top of each generated file.
	Header string
	// Workers bounds the number of files rendered concurrently. Defaults to
	// the number of CPUs.
	Workers int
	// Force allows overwriting files in Target that were not generated.
	Force bool
	// Fs is the file system the files are written to. Defaults to the OS
	// file system.
	Fs afero.Fs
}

// Option configures code generation.
type Option func(*Config) error

// NewConfig returns a configuration with defaults, modified by opts.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{Header: DefaultHeader}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// WithHeader sets the file header comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPackage sets the name of the generated package.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithWorkers sets the number of files rendered concurrently.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithForce allows overwriting files that were not generated.
func WithForce(force bool) Option {
	return func(c *Config) error {
		c.Force = force
		return nil
	}
}

// WithFs sets the file system generated files are written to.
func WithFs(fs afero.Fs) Option {
	return func(c *Config) error {
		if fs == nil {
			return NewConfigError("Fs", nil, "file system cannot be nil")
		}
		c.Fs = fs
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// check fills the defaults of c and reports missing settings.
func (c *Config) check() error {
	if c.Target == "" {
		return NewConfigError("Target", nil, "target directory is required")
	}
	if c.Package == "" {
		c.Package = filepath.Base(c.Target)
	}
	if !validPackage(c.Package) {
		return NewConfigError("Package", c.Package, "invalid package name")
	}
	if c.Header == "" {
		c.Header = DefaultHeader
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}
	return nil
}

func validPackage(name string) bool {
	if name == "" || name == "." || name == "/" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r == '_':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
