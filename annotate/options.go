package annotate

import (
	"log/slog"

	"github.com/revelaction/parlana/entity"
)

// Option configures a Splicer.
type Option func(*config)

type config struct {
	logger *slog.Logger
	mapper *entity.Mapper
}

func defaultConfig() config {
	return config{
		logger: slog.Default(),
		mapper: entity.NewMapper(nil),
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMapper sets the entity label table (default: entity.DefaultLabels).
func WithMapper(m *entity.Mapper) Option {
	return func(c *config) {
		if m != nil {
			c.mapper = m
		}
	}
}
