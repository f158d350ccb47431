package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/cognicore/codemix/pkg/codemix/cmi"
	"github.com/cognicore/codemix/pkg/codemix/corpus"
	"github.com/cognicore/codemix/pkg/codemix/ngram"
	"github.com/cognicore/codemix/pkg/codemix/store"
	"github.com/cognicore/codemix/pkg/codemix/store/memstore"
	"github.com/cognicore/codemix/pkg/codemix/store/sqlite"
	"github.com/cognicore/codemix/pkg/codemix/textprep"
)

// Loader loads the configuration file and constructs components
type Loader struct {
	ConfigPath string // optional; defaults apply when empty
	StorePath  string // overrides store.path and implies the sqlite driver
}

// Components holds all loaded configuration components
type Components struct {
	Config    *Config
	Catalog   []corpus.Entry
	CMI       cmi.Options
	Smoothing ngram.Smoothing
	Prep      *textprep.Preparer
	Store     store.Store // nil when persistence is disabled
}

// Load reads the configuration and returns initialized components
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	cfg := &Config{}
	if l.ConfigPath != "" {
		var err error
		cfg, err = Load(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if l.StorePath != "" {
		cfg.Store = StoreConfig{Driver: "sqlite", Path: l.StorePath}
	}

	comp := &Components{Config: cfg, CMI: cfg.CMIOptions()}

	cat, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	comp.Catalog = cat

	if comp.Smoothing, err = cfg.Smoothing(); err != nil {
		return nil, err
	}
	if comp.Prep, err = textprep.New(cfg.TextOptions()); err != nil {
		return nil, fmt.Errorf("text options: %w", err)
	}

	switch strings.ToLower(cfg.Store.Driver) {
	case "sqlite":
		st, err := sqlite.OpenSQLite(ctx, cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		comp.Store = st
	case "memory":
		comp.Store = memstore.New()
	}

	return comp, nil
}

// Close releases the store, if any.
func (c *Components) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}
