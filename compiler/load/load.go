// Package load reads entity schemas from YAML schema files.
//
//	package: entity
//	entities:
//	  - name: Tag
//	    mixin: [id, soft_delete]
//	    fields:
//	      - name: name
//	        type: string
//	        find: true
//	        list_opt_like: true
//	        exists: true
package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/syssam/crudgen"
	"github.com/syssam/crudgen/graph"
)

// File is a loaded schema file.
type File struct {
	// Package is the name of the package generated from the file.
	Package  string    `yaml:"package,omitempty"`
	Entities []*Schema `yaml:"entities"`
}

// Config holds the configuration for loading a schema file.
type Config struct {
	// Path is the path of the schema file.
	Path string
	// Fs is the file system the file is read from. Defaults to the OS
	// file system.
	Fs afero.Fs
}

// Load loads the schema file at the configured path.
func (c *Config) Load() (*File, error) {
	if c.Path == "" {
		return nil, errors.New("load: missing schema path")
	}
	fs := c.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	b, err := afero.ReadFile(fs, c.Path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	f, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("load: %s: %w", c.Path, err)
	}
	return f, nil
}

// Parse decodes and validates a schema file. Unknown keys are errors.
func Parse(b []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	f := &File{}
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Marshal encodes the file back to YAML.
func (f *File) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks the parts of the file that are not checked by the
// descriptor builder: entity and field names, mixins and value generators.
func (f *File) Validate() error {
	var errs []error
	if len(f.Entities) == 0 {
		errs = append(errs, errors.New("no entities"))
	}
	for i, s := range f.Entities {
		if s == nil || s.Name == "" {
			errs = append(errs, fmt.Errorf("entities[%d]: missing name", i))
			continue
		}
		for _, m := range s.Mixin {
			if _, ok := Mixins[m]; !ok {
				errs = append(errs, fmt.Errorf("%s: unknown mixin %q (expect one of %s)", s.Name, m, keys(Mixins)))
			}
		}
		for j, fd := range s.Fields {
			switch {
			case fd == nil || fd.Name == "":
				errs = append(errs, fmt.Errorf("%s: fields[%d]: missing name", s.Name, j))
				continue
			case fd.Type == "":
				errs = append(errs, fmt.Errorf("%s.%s: missing type", s.Name, fd.Name))
			}
			for _, g := range []string{fd.Default, fd.UpdateDefault} {
				if _, ok := Generators[g]; g != "" && !ok {
					errs = append(errs, fmt.Errorf("%s.%s: unknown generator %q (expect one of %s)", s.Name, fd.Name, g, keys(Generators)))
				}
			}
		}
	}
	return crudgen.NewAggregateError(errs...)
}

// Schemas returns the entities of the file as schema interfaces.
func (f *File) Schemas() []crudgen.Interface {
	schemas := make([]crudgen.Interface, len(f.Entities))
	for i, s := range f.Entities {
		schemas[i] = s.Interface()
	}
	return schemas
}

// Graph builds the descriptors of every entity in the file.
func (f *File) Graph() (*graph.Graph, error) {
	return graph.New(f.Schemas()...)
}

func keys[V any](m map[string]V) string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
