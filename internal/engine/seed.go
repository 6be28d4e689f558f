package engine

import (
	"log/slog"

	"github.com/teamfortytwo/atlas/internal/domain"
)

// LoadFixtures populates the engine with the demo data set: four validator
// listings (one on sale singly, two grouped into the "Atlas" bundle), three
// standing buy orders, and the known user profiles. The buy orders do not
// cross the seeded sell side, so the demo starts with an empty ledger.
func (e *Engine) LoadFixtures() domain.MarketView {
	e.mu.Lock()
	defer e.mu.Unlock()

	atlasBundle := e.newBundle()
	bid := atlasBundle

	e.listings = []domain.Listing{
		{
			ID:          1,
			Name:        "Validator 1692397",
			Price:       32.5,
			Yield:       2.3,
			Address:     "0x456...7e8",
			Description: "A high-performance validator with an excellent history",
			Owner:       "crypto_whale",
			Seller:      "crypto_whale",
			ForSale:     true,
			Platform:    "Kiln",
			CommissionDate: "2024-01-15",
			History: []domain.PricePoint{
				{Date: "2024-01", Price: 30.2},
				{Date: "2024-02", Price: 31.5},
				{Date: "2024-03", Price: 32.5},
			},
		},
		{
			ID:          2,
			Name:        "Validator 1456930",
			Price:       31.8,
			Yield:       2.1,
			Address:     "0x789...9a0",
			Description: "A stable validator with good performance",
			Owner:       "eth_master",
			Seller:      "eth_master",
			Platform:    "Kiln",
			CommissionDate: "2024-01-20",
			History: []domain.PricePoint{
				{Date: "2024-01", Price: 29.8},
				{Date: "2024-02", Price: 30.9},
				{Date: "2024-03", Price: 31.8},
			},
		},
		{
			ID:          3,
			Name:        "Validator 1442398",
			Price:       33.5,
			Yield:       2.2,
			Address:     "0xabc...def",
			Description: "First validator in the bundle",
			Owner:       "eth_master",
			Seller:      "eth_master",
			ForSale:     true,
			BundleID:    &bid,
			Platform:    "Kiln",
			CommissionDate: "2024-01-25",
			History: []domain.PricePoint{
				{Date: "2024-01", Price: 31.5},
				{Date: "2024-02", Price: 32.5},
				{Date: "2024-03", Price: 33.5},
			},
		},
		{
			ID:          4,
			Name:        "Validator 1442399",
			Price:       34.0,
			Yield:       2.4,
			Address:     "0xdef...123",
			Description: "Second validator in the bundle",
			Owner:       "eth_master",
			Seller:      "eth_master",
			ForSale:     true,
			BundleID:    &bid,
			Platform:    "Kiln",
			CommissionDate: "2024-01-28",
			History: []domain.PricePoint{
				{Date: "2024-01", Price: 32.0},
				{Date: "2024-02", Price: 33.0},
				{Date: "2024-03", Price: 34.0},
			},
		},
	}
	e.nextListingID = 5

	e.buy = []domain.BuyOrder{
		{ID: 1, Price: 32.0, Amount: 1, Total: 32.0, Address: "0x789...abc", MinYield: 2.5, CreatedAt: e.now()},
		{ID: 2, Price: 31.5, Amount: 1, Total: 31.5, Address: "0x891...2d5", MinYield: 2.2, CreatedAt: e.now()},
		{ID: 3, Price: 31.2, Amount: 1, Total: 31.2, Address: "0x123...4f6", MinYield: 2.0, CreatedAt: e.now()},
	}
	e.nextOrderID = 4

	e.users = map[string]domain.UserProfile{
		"Team42": {
			Username:          "Team42",
			Reputation:        5.0,
			TotalTransactions: 487,
			MemberSince:       "2023-01",
			Description:       "Official platform team. Quality and reliability guaranteed.",
		},
		"crypto_whale": {
			Username:          "crypto_whale",
			Reputation:        4.7,
			TotalTransactions: 312,
			MemberSince:       "2023-03",
			Description:       "Major cryptocurrency investor, specialized in ETH validators",
		},
		"eth_master": {
			Username:          "eth_master",
			Reputation:        4.9,
			TotalTransactions: 243,
			MemberSince:       "2023-02",
			Description:       "Ethereum staking expert, focused on performance and stability",
		},
	}

	e.logger.Info("fixtures loaded",
		slog.Int("listings", len(e.listings)),
		slog.Int("buy_orders", len(e.buy)),
	)

	return e.finish(e.react())
}
