package provider

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/akashjainn/propsage-sub000/internal/models"
)

// Snapshot is the market feed document. Features, priors and evidence are keyed by
// player ID; priors additionally by market.
type Snapshot struct {
	GeneratedAt time.Time                                       `json:"generated_at"`
	Markets     []*models.MarketRequest                         `json:"markets"`
	Features    map[string]*models.PlayerFeatures               `json:"features,omitempty"`
	Priors      map[string]map[models.Market]models.PlayerPrior `json:"priors,omitempty"`
	Evidence    map[string][]models.NewsEvidence                `json:"evidence,omitempty"`
}

// DecodeSnapshot parses a snapshot document
func DecodeSnapshot(source string, data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, NewProviderError(source, ErrCodeInvalidData, "failed to decode snapshot", fmt.Errorf("%w: %v", ErrInvalidData, err))
	}
	for i, m := range snap.Markets {
		if m == nil {
			return nil, NewProviderError(source, ErrCodeInvalidData, fmt.Sprintf("market %d is null", i), ErrInvalidData)
		}
	}
	return &snap, nil
}

// snapshotStore holds the last fetched snapshot and answers per-player lookups from it
type snapshotStore struct {
	mu       sync.RWMutex
	snapshot *Snapshot
}

func (s *snapshotStore) set(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
}

func (s *snapshotStore) get() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (snap *Snapshot) features(source, playerID string) (*models.PlayerFeatures, error) {
	feat, ok := snap.Features[playerID]
	if !ok {
		return nil, NewProviderError(source, ErrCodeNotFound, "no features for "+playerID, ErrNotFound)
	}
	return feat, nil
}

func (snap *Snapshot) prior(source, playerID string, market models.Market) (*models.PlayerPrior, error) {
	prior, ok := snap.Priors[playerID][market]
	if !ok {
		return nil, NewProviderError(source, ErrCodeNotFound, fmt.Sprintf("no %s prior for %s", market, playerID), ErrNotFound)
	}
	prior.PlayerID = playerID
	prior.Market = market
	return &prior, nil
}

func (snap *Snapshot) evidence(source, playerID string) ([]models.NewsEvidence, error) {
	ev, ok := snap.Evidence[playerID]
	if !ok {
		return nil, NewProviderError(source, ErrCodeNotFound, "no evidence for "+playerID, ErrNotFound)
	}
	return ev, nil
}
