package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/codemix/pkg/codemix/cmi"
	"github.com/cognicore/codemix/pkg/codemix/corpus"
	"github.com/cognicore/codemix/pkg/codemix/internalerr"
	"github.com/cognicore/codemix/pkg/codemix/ngram"
	"github.com/cognicore/codemix/pkg/codemix/tagset"
	"github.com/cognicore/codemix/pkg/codemix/textprep"
)

// Config is the YAML configuration shared by the command-line tools.
type Config struct {
	CorpusDir string         `yaml:"corpus_dir"`
	Corpora   []CorpusConfig `yaml:"corpora"`
	CMI       CMIConfig      `yaml:"cmi"`
	Ngram     NgramConfig    `yaml:"ngram"`
	Store     StoreConfig    `yaml:"store"`
}

// CorpusConfig adds a corpus to the catalog or overrides a built-in one
// with the same id.
type CorpusConfig struct {
	ID        string `yaml:"id"`
	File      string `yaml:"file"`
	Format    string `yaml:"format"`
	Separator string `yaml:"separator"`
	Encoding  string `yaml:"encoding"`
	Tagset    string `yaml:"tagset"`
}

// CMIConfig controls utterance processing.
type CMIConfig struct {
	StrictSecondary bool `yaml:"strict_secondary"`
	KeepUtterances  bool `yaml:"keep_utterances"`
}

// NgramConfig controls perplexity evaluation. Unset text options keep
// their textprep defaults.
type NgramConfig struct {
	Smoothing    string `yaml:"smoothing"`
	Language     string `yaml:"language"`
	Lowercase    *bool  `yaml:"lowercase"`
	Stem         *bool  `yaml:"stem"`
	DropMentions *bool  `yaml:"drop_mentions"`
	StripHTML    *bool  `yaml:"strip_html"`
	WordsOnly    *bool  `yaml:"words_only"`
}

// StoreConfig selects report persistence: "sqlite", "memory" or "none".
type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates YAML configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated values without touching the filesystem.
func (c *Config) Validate() error {
	if _, err := ngram.ParseSmoothing(c.Ngram.Smoothing); err != nil {
		return fmt.Errorf("%w: ngram.smoothing %q", internalerr.ErrInvalidConfig, c.Ngram.Smoothing)
	}
	switch strings.ToLower(c.Store.Driver) {
	case "", "none", "memory":
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("%w: store.path is required for sqlite", internalerr.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: store.driver %q", internalerr.ErrInvalidConfig, c.Store.Driver)
	}
	for i, cc := range c.Corpora {
		if cc.ID == "" {
			return fmt.Errorf("%w: corpora[%d] has no id", internalerr.ErrInvalidConfig, i)
		}
		if _, err := cc.entry(""); err != nil {
			return fmt.Errorf("corpora[%d] %s: %w", i, cc.ID, err)
		}
	}
	return nil
}

func (cc CorpusConfig) entry(dir string) (corpus.Entry, error) {
	format, err := corpus.ParseFormat(cc.Format)
	if err != nil {
		return corpus.Entry{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	enc, err := corpus.ParseEncoding(cc.Encoding)
	if err != nil {
		return corpus.Entry{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	ts, err := tagset.Lookup(cc.Tagset)
	if err != nil {
		return corpus.Entry{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	return corpus.Entry{
		ID:      cc.ID,
		File:    resolve(dir, cc.File),
		Options: corpus.Options{Format: format, Separator: cc.Separator, Encoding: enc},
		Tagset:  ts.ID(),
	}, nil
}

func resolve(dir, file string) string {
	if dir == "" || file == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}

// Catalog returns the built-in corpora followed by configured ones. A
// configured id replaces the built-in entry in place. Relative file names
// are resolved against CorpusDir.
func (c *Config) Catalog() ([]corpus.Entry, error) {
	cat := corpus.DefaultCatalog()
	for i := range cat {
		cat[i].File = resolve(c.CorpusDir, cat[i].File)
	}
	for _, cc := range c.Corpora {
		e, err := cc.entry(c.CorpusDir)
		if err != nil {
			return nil, fmt.Errorf("corpus %s: %w", cc.ID, err)
		}
		replaced := false
		for i := range cat {
			if cat[i].ID == e.ID {
				cat[i] = e
				replaced = true
				break
			}
		}
		if !replaced {
			cat = append(cat, e)
		}
	}
	return cat, nil
}

// CMIOptions returns the processor options.
func (c *Config) CMIOptions() cmi.Options {
	return cmi.Options{StrictSecondary: c.CMI.StrictSecondary}
}

// Smoothing returns the n-gram smoothing policy.
func (c *Config) Smoothing() (ngram.Smoothing, error) {
	return ngram.ParseSmoothing(c.Ngram.Smoothing)
}

// TextOptions overlays the configured preprocessing switches on
// textprep.Defaults.
func (c *Config) TextOptions() textprep.Options {
	opts := textprep.Defaults()
	n := c.Ngram
	if n.Language != "" {
		opts.Language = n.Language
	}
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	set(&opts.Lowercase, n.Lowercase)
	set(&opts.Stem, n.Stem)
	set(&opts.DropMentions, n.DropMentions)
	set(&opts.StripHTML, n.StripHTML)
	set(&opts.WordsOnly, n.WordsOnly)
	return opts
}
