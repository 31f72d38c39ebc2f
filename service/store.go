package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/AnTengye/contractmock/model"
)

var (
	ErrContractNotFound = errors.New("contract not found")
	ErrInvalidPatch     = errors.New("invalid contract patch")
	ErrInvalidStatus    = errors.New("invalid contract status")
)

// ContractStore is an in-memory, insertion-ordered store for contracts.
// Records are never removed; cancellation is a status change.
type ContractStore struct {
	mu           sync.RWMutex
	contracts    []model.Contract
	strictStatus bool
}

// StoreOption configures a ContractStore.
type StoreOption func(*ContractStore)

// WithStrictStatus rejects updates that write a status outside the known lifecycle states.
func WithStrictStatus(strict bool) StoreOption {
	return func(s *ContractStore) { s.strictStatus = strict }
}

// NewContractStore creates an empty store.
func NewContractStore(opts ...StoreOption) *ContractStore {
	s := &ContractStore{
		contracts: make([]model.Contract, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns a copy of all contracts in insertion order.
func (s *ContractStore) List() []model.Contract {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Contract, len(s.contracts))
	copy(result, s.contracts)
	return result
}

// Insert appends a fully formed contract. The caller owns id uniqueness.
func (s *ContractStore) Insert(contract model.Contract) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contracts = append(s.contracts, contract)
}

func (s *ContractStore) FindByID(id string) (model.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Contract{}, ErrContractNotFound
	}
	return s.contracts[i], nil
}

// ReplaceByID shallow-merges patch into the stored contract and returns the result.
func (s *ContractStore) ReplaceByID(id string, patch model.Fields) (model.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Contract{}, ErrContractNotFound
	}

	merged, err := s.contracts[i].Merge(patch)
	if err != nil {
		return model.Contract{}, fmt.Errorf("%w: %w", ErrInvalidPatch, err)
	}
	if merged.Status == "" || (s.strictStatus && !model.IsValidStatus(merged.Status)) {
		return model.Contract{}, fmt.Errorf("%w: %q", ErrInvalidStatus, merged.Status)
	}

	s.contracts[i] = merged
	return merged, nil
}

// CancelByID marks the contract cancelled. Cancelling twice is not an error.
func (s *ContractStore) CancelByID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrContractNotFound
	}
	if s.contracts[i].Status != model.StatusCancelled {
		slog.Debug("contract cancelled", "contract_id", id, "previous_status", s.contracts[i].Status)
	}
	s.contracts[i].Status = model.StatusCancelled
	return nil
}

// Count returns the number of contracts in the store
func (s *ContractStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contracts)
}

// indexOf must be called with the lock held.
func (s *ContractStore) indexOf(id string) int {
	for i := range s.contracts {
		if s.contracts[i].ContractID == id {
			return i
		}
	}
	return -1
}
