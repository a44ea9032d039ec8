package service

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/akashjainn/propsage-sub000/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func ladderQuotes() []models.BookQuote {
	return []models.BookQuote{
		{Book: "draftkings", Line: 24.5, OverPrice: -110, UnderPrice: -110},
		{Book: "fanduel", Line: 24.5, OverPrice: -105, UnderPrice: -115},
		{Book: "betmgm", Line: 25.5, OverPrice: 110, UnderPrice: -130},
		{Book: "caesars", Line: 23.5, OverPrice: -130, UnderPrice: 110},
	}
}

func pointsRequest() *models.MarketRequest {
	return &models.MarketRequest{
		ID:         "nba-p1-points",
		PlayerID:   "p1",
		PlayerName: "Test Guard",
		Sport:      models.SportBasketball,
		Market:     models.MarketPoints,
		Quotes:     ladderQuotes(),
	}
}
