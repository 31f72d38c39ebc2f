package service

import (
	"log/slog"

	"github.com/AnTengye/contractmock/model"
)

// SeedContracts returns the sample records every fresh process starts with.
func SeedContracts() []model.Contract {
	return []model.Contract{
		{
			ContractID:    "d290f1ee-6c54-4b01-90e6-d701748f0851",
			CustomerID:    "cust_12345",
			PolicyType:    "Auto",
			StartDate:     "2024-01-01",
			EndDate:       "2024-12-31",
			PremiumAmount: 1200.5,
			Status:        model.StatusActive,
		},
		{
			ContractID:    "f7c3bc1d-808e-4c7b-9b1a-2a1d6e3f5c42",
			CustomerID:    "cust_67890",
			PolicyType:    "Home",
			StartDate:     "2023-03-15",
			EndDate:       "2024-03-14",
			PremiumAmount: 850,
			Status:        model.StatusExpired,
		},
	}
}

// Seed inserts the sample records.
func (s *ContractStore) Seed() {
	for _, c := range SeedContracts() {
		s.Insert(c)
	}
	slog.Info("contract store seeded", "contracts", s.Count())
}
