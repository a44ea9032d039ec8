package provider

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/akashjainn/propsage-sub000/internal/models"
)

// FileSource serves a JSON snapshot from disk. The file is re-read on every
// FetchMarkets so a running watch picks up edits.
type FileSource struct {
	path   string
	logger *logrus.Entry
	store  snapshotStore
}

// NewFileSource creates a provider over the snapshot at path
func NewFileSource(path string, log *logrus.Logger) *FileSource {
	return &FileSource{
		path:   path,
		logger: log.WithFields(logrus.Fields{"component": "provider", "source": path}),
	}
}

// Name returns the name of the provider
func (f *FileSource) Name() string {
	return "file:" + f.path
}

// Load reads and decodes the snapshot file
func (f *FileSource) Load() (*Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, NewProviderError(f.Name(), ErrCodeReadFailed, "failed to read snapshot", err)
	}
	snap, err := DecodeSnapshot(f.Name(), data)
	if err != nil {
		return nil, err
	}

	f.store.set(snap)
	f.logger.WithFields(logrus.Fields{
		"markets":      len(snap.Markets),
		"generated_at": snap.GeneratedAt,
	}).Debug("Loaded snapshot")
	return snap, nil
}

// FetchMarkets reloads the snapshot and returns its markets
func (f *FileSource) FetchMarkets(ctx context.Context) ([]*models.MarketRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := f.Load()
	if err != nil {
		return nil, err
	}
	return snap.Markets, nil
}

// FetchFeatures returns the player's features from the last loaded snapshot
func (f *FileSource) FetchFeatures(ctx context.Context, playerID string, sport models.Sport) (*models.PlayerFeatures, error) {
	snap, err := f.current()
	if err != nil {
		return nil, err
	}
	return snap.features(f.Name(), playerID)
}

// FetchPrior returns the player's prior for market from the last loaded snapshot
func (f *FileSource) FetchPrior(ctx context.Context, playerID string, market models.Market) (*models.PlayerPrior, error) {
	snap, err := f.current()
	if err != nil {
		return nil, err
	}
	return snap.prior(f.Name(), playerID, market)
}

// FetchEvidence returns the player's evidence from the last loaded snapshot
func (f *FileSource) FetchEvidence(ctx context.Context, playerID string) ([]models.NewsEvidence, error) {
	snap, err := f.current()
	if err != nil {
		return nil, err
	}
	return snap.evidence(f.Name(), playerID)
}

func (f *FileSource) current() (*Snapshot, error) {
	if snap := f.store.get(); snap != nil {
		return snap, nil
	}
	return f.Load()
}
