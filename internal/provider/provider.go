// Package provider supplies market snapshots to the pricing service. Providers are
// injected into the calling layer; pricing algorithms never call them.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/akashjainn/propsage-sub000/internal/models"
)

// QuoteProvider fetches the markets to price, with their book quotes
type QuoteProvider interface {
	// FetchMarkets returns every market currently on offer
	FetchMarkets(ctx context.Context) ([]*models.MarketRequest, error)

	// Name returns the name of the provider
	Name() string
}

// FeatureProvider fetches model features for a player
type FeatureProvider interface {
	FetchFeatures(ctx context.Context, playerID string, sport models.Sport) (*models.PlayerFeatures, error)
}

// EvidenceProvider fetches news evidence and priors for a player
type EvidenceProvider interface {
	FetchEvidence(ctx context.Context, playerID string) ([]models.NewsEvidence, error)
	FetchPrior(ctx context.Context, playerID string, market models.Market) (*models.PlayerPrior, error)
}

// Source serves markets together with their features, priors and evidence
type Source interface {
	QuoteProvider
	FeatureProvider
	EvidenceProvider
}

// Open returns an HTTPSource for http(s) URLs and a FileSource otherwise
func Open(location string, log *logrus.Logger) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(DefaultHTTPSourceConfig(location), log)
	}
	return NewFileSource(location, log)
}

// Error codes
const (
	ErrCodeNotFound    = "not_found"
	ErrCodeInvalidData = "invalid_data"
	ErrCodeReadFailed  = "read_failed"
)

// Common errors
var (
	ErrNotFound    = errors.New("data not found")
	ErrInvalidData = errors.New("invalid data format")
)

// ProviderError reports a failure from a named provider
type ProviderError struct {
	Source  string
	Code    string
	Message string
	Err     error
}

func (e ProviderError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a new provider error
func NewProviderError(source, code, message string, err error) ProviderError {
	return ProviderError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Assemble fetches markets and fills in features, priors and evidence that the quote
// feed left empty. A player with no features or prior is priced without them; any other
// provider failure aborts.
func Assemble(ctx context.Context, quotes QuoteProvider, features FeatureProvider, evidence EvidenceProvider) ([]*models.MarketRequest, error) {
	markets, err := quotes.FetchMarkets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch markets from %s: %w", quotes.Name(), err)
	}

	for _, m := range markets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if features != nil && m.Features == nil {
			f, err := features.FetchFeatures(ctx, m.PlayerID, m.Sport)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("failed to fetch features for %s: %w", m.PlayerID, err)
			}
			m.Features = f
		}
		if evidence == nil {
			continue
		}
		if m.Prior == nil {
			p, err := evidence.FetchPrior(ctx, m.PlayerID, m.Market)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("failed to fetch prior for %s: %w", m.PlayerID, err)
			}
			m.Prior = p
		}
		if len(m.Evidence) == 0 {
			ev, err := evidence.FetchEvidence(ctx, m.PlayerID)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("failed to fetch evidence for %s: %w", m.PlayerID, err)
			}
			m.Evidence = ev
		}
	}
	return markets, nil
}
