package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"modelica-dae/adapters/store"
	"modelica-dae/core/engine"
	"modelica-dae/core/grammar"
	"modelica-dae/core/ir"
	"modelica-dae/internal/config"
	"modelica-dae/internal/errors"
	"modelica-dae/internal/logging"
)

// loadStoredDefinition reads the JSON-encoded grammar.StoredDefinition at
// path. This is the driver's "source path" per the driver contract: the
// concrete parser generator that would produce this tree from Modelica text
// is an external collaborator, so the CLI consumes its already-parsed
// output directly.
func loadStoredDefinition(path string) (*grammar.StoredDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeMalformedInput, fmt.Sprintf("failed to read source %s", path), err)
	}
	var sd grammar.StoredDefinition
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, errors.Wrap(errors.TypeMalformedInput, fmt.Sprintf("failed to parse source %s", path), err)
	}
	return &sd, nil
}

// openStore returns the configured artifact store, or nil when caching is
// disabled. The caller owns closing it.
func openStore(ctx context.Context) (store.Store, error) {
	cfg := config.Get()
	if !cfg.Store.Enabled {
		return nil, nil
	}
	s, err := store.NewPostgresStore(ctx, cfg.Store.DSN)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// runPipeline loads the source and runs the pipeline up to the requested
// phase, with no cache involvement; used by the flatten subcommand and by
// compile's --emit lowered/flat modes, which need the intermediate
// artifacts the Postgres cache doesn't store.
func runPipeline(ctx context.Context, sourcePath, classPath string, last engine.Phase) (*engine.Result, error) {
	sd, err := loadStoredDefinition(sourcePath)
	if err != nil {
		return nil, err
	}

	p := engine.NewPipeline(logging.Logger)
	result, err := p.RunTo(ctx, &engine.Request{StoredDefinition: sd, ModelClassPath: classPath}, last)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// sourceCacheKey is the struct hashed to form the artifact store's cache
// key: the parsed source tree together with the requested class path,
// since the same source file can compile several different model classes.
type sourceCacheKey struct {
	Source *grammar.StoredDefinition `json:"source"`
	Class  string                    `json:"class"`
}

// runCompile runs the full pipeline to produce a Dae, serving the request
// from the Postgres artifact cache when one is configured and warm, and
// filling it on a miss.
func runCompile(ctx context.Context, sourcePath, classPath string) (*engine.Result, error) {
	s, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	if s != nil {
		defer s.Close()
	}

	sd, err := loadStoredDefinition(sourcePath)
	if err != nil {
		return nil, err
	}

	var hash ir.ContentHash
	if s != nil {
		hash, err = ir.Hash(sourceCacheKey{Source: sd, Class: classPath})
		if err != nil {
			return nil, errors.Internal("failed to hash source for cache lookup", err)
		}
		if artifact, hit, err := s.Get(ctx, hash); err != nil {
			return nil, err
		} else if hit {
			logging.Info("served compiled artifact from cache", zap.String("class", classPath))
			return &engine.Result{Dae: artifact.Dae}, nil
		}
	}

	p := engine.NewPipeline(logging.Logger)
	result, err := p.Run(ctx, &engine.Request{StoredDefinition: sd, ModelClassPath: classPath})
	if err != nil {
		return nil, err
	}

	if s != nil {
		if err := s.Put(ctx, &store.Artifact{Hash: hash, ModelClassPath: classPath, Dae: result.Dae}); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// emitJSON writes v to stdout, honoring the configured indent setting.
func emitJSON(v interface{}) error {
	cfg := config.Get()
	var data []byte
	var err error
	if cfg.Output.Indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return errors.Internal("failed to marshal output", err)
	}
	fmt.Println(string(data))
	return nil
}

// diagnostic renders err as the single-line message the driver emits on
// failure: typed *errors.Error prints its kind, everything else falls
// back to its own Error() text.
func diagnostic(err error) string {
	return fmt.Sprintf("modc: %v", err)
}
