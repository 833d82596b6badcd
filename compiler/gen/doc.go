// Package gen generates typed clients for the entities of a schema file.
//
// The generation pipeline:
//
//	schema file (crudgen.yaml)
//	        ↓
//	   load.File
//	        ↓
//	   Graph (descriptors + the schemas they were built from)
//	        ↓
//	   Generator (one jennifer file per entity, rendered in parallel)
//	        ↓
//	   generated package (entity/)
//
// Each entity gets a file holding its model struct, its find, list and
// list-all filter types and a client whose methods wrap crud.Table (or
// crud.Reader for views). The package also gets a schema.go that rebuilds
// the descriptors at init time and a client.go bundling every client.
//
// Example:
//
//	f, err := (&load.Config{Path: "crudgen.yaml"}).Load()
//	if err != nil {
//		return err
//	}
//	cfg, err := gen.NewConfig(gen.WithTarget("./entity"))
//	if err != nil {
//		return err
//	}
//	return gen.Generate(ctx, cfg, f.Entities...)
//
// Errors are ConfigError or GenerationError values. errors.Is matches them
// against ErrMissingConfig and ErrGenerationFailed.
package gen
