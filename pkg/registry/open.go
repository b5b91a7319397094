package registry

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/molcanon/pkg/config"
	"github.com/matzehuels/molcanon/pkg/errors"
	"github.com/matzehuels/molcanon/pkg/observability"
)

// Open creates the configured backend, wrapped with observability hooks.
func Open(ctx context.Context, cfg config.Registry, logger *log.Logger) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case config.RegistryMemory:
		s = NewMemoryStore()
	case config.RegistryBadger:
		s, err = openBadger(cfg.Path, logger)
	case config.RegistryMongo:
		s, err = openMongo(ctx, cfg)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown registry backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Debug("registry opened", "backend", cfg.Backend)
	}
	return Instrument(s, cfg.Backend), nil
}

// openBadger and openMongo avoid storing a typed nil in the Store interface.
func openBadger(path string, logger *log.Logger) (Store, error) {
	s, err := NewBadgerStore(BadgerConfig{Path: path, Logger: logger})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openMongo(ctx context.Context, cfg config.Registry) (Store, error) {
	s, err := NewMongoStore(ctx, MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Instrument reports Put and Get outcomes to observability.Registry().
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

type instrumented struct {
	Store
	backend string
}

func (s *instrumented) Put(ctx context.Context, e Entry) (Entry, bool, error) {
	out, created, err := s.Store.Put(ctx, e)
	if err == nil {
		observability.Registry().OnRegister(ctx, s.backend, created)
	}
	return out, created, err
}

func (s *instrumented) Get(ctx context.Context, k string) (Entry, error) {
	e, err := s.Store.Get(ctx, k)
	if err == nil || errors.Is(err, errors.ErrCodeNotFound) {
		observability.Registry().OnLookup(ctx, s.backend, err == nil)
	}
	return e, err
}
