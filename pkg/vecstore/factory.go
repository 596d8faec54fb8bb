package vecstore

import (
	"fmt"

	"go.uber.org/zap"
)

// Options carries the per-provider configuration sections. Only the section
// for the provider being opened needs to be set.
type Options struct {
	Qdrant  *QdrantConfig
	Chromem *ChromemConfig
}

// Open resolves name in the registry (case-insensitively) and constructs the
// provider. A nil logger is replaced with a no-op logger.
func Open(reg *Registry, name string, opts Options, logger *zap.Logger) (Provider, error) {
	open, err := reg.Provider(name)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return open(opts, logger)
}

func openQdrant(opts Options, logger *zap.Logger) (Provider, error) {
	if opts.Qdrant == nil {
		return nil, fmt.Errorf("%w: qdrant config required", ErrConfiguration)
	}
	return NewQdrantProvider(*opts.Qdrant, logger)
}

func openChromem(opts Options, logger *zap.Logger) (Provider, error) {
	if opts.Chromem == nil {
		return nil, fmt.Errorf("%w: chromem config required", ErrConfiguration)
	}
	return NewChromemProvider(*opts.Chromem, logger)
}
