package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/comp-forecast/internal/ai"
	"github.com/spigell/comp-forecast/internal/ai/cache"
	"github.com/spigell/comp-forecast/internal/ai/gemini"
	"github.com/spigell/comp-forecast/internal/analytics"
	"github.com/spigell/comp-forecast/internal/projection"
	"github.com/spigell/comp-forecast/internal/records"
	"github.com/spigell/comp-forecast/internal/secrets"
	"github.com/spigell/comp-forecast/internal/store"
)

// newAdvisor builds the configured advisor. It returns nil when AI is disabled; callers then use
// the deterministic assumptions.
func newAdvisor(ctx context.Context, config *Config, logger *zap.Logger) (ai.Advisor, error) {
	cfg := config.AI
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	gcfg := cfg.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  gcfg.APIKeyFile,
		Value: gcfg.APIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, gcfg.Model, logger)
	if err != nil {
		return nil, err
	}

	var advisor ai.Advisor = gemini.NewAdvisor(generator, gcfg.MaxLogLength, logger)

	if config.Cache == nil || !config.Cache.Enabled {
		return advisor, nil
	}

	client, err := cache.NewClient(ctx, cache.Config{
		Address:  config.Cache.Address,
		Password: config.Cache.Password,
		DB:       config.Cache.DB,
	})
	if err != nil {
		logger.Warn("suggestion cache is unavailable; continuing without it", zap.Error(err))
		return advisor, nil
	}

	return cache.New(advisor, client, config.Cache.TTL, logger), nil
}

// advisorOrNil logs why AI is unavailable instead of failing the command.
func advisorOrNil(ctx context.Context, config *Config, logger *zap.Logger) ai.Advisor {
	advisor, err := newAdvisor(ctx, config, logger)
	if err != nil {
		logger.Warn("ai advisor is unavailable; using fallback assumptions", zap.Error(err))
		return nil
	}
	return advisor
}

// loadBenchmarks merges the benchmarks file and the inline table; inline entries win.
func loadBenchmarks(config *Config) (analytics.Benchmarks, error) {
	out := analytics.Benchmarks{}

	if path := strings.TrimSpace(config.BenchmarksFile); path != "" {
		doc, err := store.ReadDocument(path)
		if err != nil {
			return nil, err
		}
		var fromFile analytics.Benchmarks
		if err := mapstructure.WeakDecode(doc, &fromFile); err != nil {
			return nil, fmt.Errorf("decode benchmarks from %s: %w", path, err)
		}
		for k, v := range fromFile {
			out[k] = v
		}
	}

	for k, v := range config.Benchmarks {
		out[k] = v
	}

	if len(out) == 0 {
		return analytics.DefaultBenchmarks, nil
	}
	return out, nil
}

// readProjectionFiles reads the jobs file and the optional inputs file. A jobs file may also hold
// a whole request object with "jobs" and "inputs".
func readProjectionFiles(jobsPath, inputsPath string) ([]records.JobRecord, projection.Inputs, error) {
	var inputs projection.Inputs

	doc, err := store.ReadDocument(jobsPath)
	if err != nil {
		return nil, inputs, err
	}

	rawJobs := doc
	if obj, ok := doc.(map[string]any); ok {
		rawJobs = obj["jobs"]
		inputs = projection.DecodeInputs(obj["inputs"])
	}

	jobs, err := records.DecodeAny(rawJobs)
	if err != nil {
		return nil, inputs, fmt.Errorf("decode jobs from %s: %w", jobsPath, err)
	}

	if inputsPath != "" {
		rawInputs, err := store.ReadDocument(inputsPath)
		if err != nil {
			return nil, inputs, err
		}
		inputs = projection.DecodeInputs(rawInputs)
	}

	return jobs, inputs, nil
}

func loadDSN(config *Config) (string, error) {
	db := config.Database
	if db == nil {
		db = &DatabaseConfig{}
	}
	return secrets.Load(secrets.Source{
		Name:  "database dsn",
		File:  db.DSNFile,
		Value: db.DSN,
		Env:   "COMP_FORECAST_DB_DSN",
	})
}

// newSource prefers a jobs file and falls back to postgres. The closer is non-nil whenever err is nil.
func newSource(ctx context.Context, config *Config, jobsPath string, logger *zap.Logger) (store.Source, io.Closer, error) {
	if jobsPath != "" {
		return store.NewFileStore(jobsPath), nopCloser{}, nil
	}

	dsn, err := loadDSN(config)
	if err != nil {
		if errors.Is(err, secrets.ErrNotConfigured) {
			return nil, nil, fmt.Errorf("either --jobs or a database dsn is required: %w", err)
		}
		return nil, nil, err
	}

	pg, err := store.Connect(ctx, dsn, logger)
	if err != nil {
		return nil, nil, err
	}
	return pg, pg, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// dumpToTmpFile writes v as indented JSON to a new temporary file and returns its name.
func dumpToTmpFile(pattern string, v any) (string, error) {
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := writeJSON(file, v); err != nil {
		return "", err
	}
	return file.Name(), nil
}
