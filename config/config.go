// Package config loads the parlana TOML configuration.
//
//	[engine]
//	kind = "udpipe"
//	url = "https://lindat.mff.cuni.cz/services/udpipe/api"
//	model = "romanian-rrt-ud-2.12-230717"
//	requests_per_second = 2.0
//
//	[corpus]
//	dir = "corpus"
//	root_file = "ParlaMint-RO.xml"
//
//	[entities]
//	NORP = "MISC"
//
//	[store]
//	path = "parlana.db"
//
//	[log]
//	level = "info"
//	format = "text"
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/revelaction/parlana/logging"
	"github.com/revelaction/parlana/stat"
)

const (
	EngineCommand = "command"
	EngineUDPipe  = "udpipe"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Engine   Engine            `toml:"engine"`
	Corpus   Corpus            `toml:"corpus"`
	Entities map[string]string `toml:"entities"`
	Store    Store             `toml:"store"`
	Log      Log               `toml:"log"`
}

type Engine struct {
	Kind string `toml:"kind"`

	// command engine
	Command string   `toml:"command"`
	Args    []string `toml:"args"`

	// udpipe engine
	URL               string  `toml:"url"`
	Model             string  `toml:"model"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
}

type Corpus struct {
	Dir        string   `toml:"dir"`
	RootFile   string   `toml:"root_file"`
	Taxonomies []string `toml:"taxonomies"`

	// taxonomy files copied into Dir before annotating
	TaxonomySources []string `toml:"taxonomy_sources"`

	Tags []string `toml:"tags"`

	Applications []Application `toml:"applications"`
}

// Application is one entry of the appInfo block of the annotated root file.
type Application struct {
	Ident   string `toml:"ident"`
	Version string `toml:"version"`
	Label   string `toml:"label"`
	Ref     string `toml:"ref"`
	Desc    string `toml:"desc"`
}

type Store struct {
	// a .db path selects the sqlite store, anything else a JSON directory
	Path string `toml:"path"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultTaxonomies are the taxonomy files of a ParlaMint corpus directory.
var DefaultTaxonomies = []string{
	"ParlaMint-taxonomy-NER.ana.xml",
	"ParlaMint-taxonomy-parla.legislature.xml",
	"ParlaMint-taxonomy-politicalOrientation.xml",
	"ParlaMint-taxonomy-speaker_types.xml",
	"ParlaMint-taxonomy-subcorpus.xml",
	"ParlaMint-taxonomy-UD-SYN.ana.xml",
}

func Default() Config {
	return Config{
		Engine: Engine{
			Kind:              EngineUDPipe,
			URL:               "https://lindat.mff.cuni.cz/services/udpipe/api",
			RequestsPerSecond: 2,
			Burst:             1,
			TimeoutSeconds:    60,
		},
		Corpus: Corpus{
			Dir:        "corpus",
			RootFile:   "ParlaMint-RO.xml",
			Taxonomies: append([]string(nil), DefaultTaxonomies...),
			TaxonomySources: []string{
				"data/templates/ParlaMint-taxonomy-UD-SYN.ana.xml",
				"data/templates/ParlaMint-taxonomy-NER.ana.xml",
			},
			Tags: append([]string(nil), stat.DefaultTags...),
		},
		Entities: map[string]string{},
		Log:      Log{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Engine.Kind {
	case EngineCommand:
		if c.Engine.Command == "" {
			return fmt.Errorf("%w: engine command is empty", ErrInvalid)
		}
	case EngineUDPipe:
		if c.Engine.URL == "" {
			return fmt.Errorf("%w: engine url is empty", ErrInvalid)
		}
		if c.Engine.RequestsPerSecond < 0 {
			return fmt.Errorf("%w: negative requests_per_second", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown engine kind %q", ErrInvalid, c.Engine.Kind)
	}

	if c.Corpus.RootFile == "" {
		return fmt.Errorf("%w: corpus root_file is empty", ErrInvalid)
	}

	for label, code := range c.Entities {
		if label == "" || code == "" {
			return fmt.Errorf("%w: empty entity mapping %q = %q", ErrInvalid, label, code)
		}
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return nil
}
