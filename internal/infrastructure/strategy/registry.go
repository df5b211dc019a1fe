package strategy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/NataliPereb/sales-bonus/internal/domain/shared"
	"github.com/NataliPereb/sales-bonus/internal/domain/shared/strategy"
)

// StrategyRegistry manages strategy registrations
type StrategyRegistry struct {
	mu                sync.RWMutex
	revenueStrategies map[string]strategy.RevenueStrategy
	bonusStrategies   map[string]strategy.BonusStrategy
	defaults          map[strategy.StrategyType]string
}

// NewStrategyRegistry creates a new strategy registry
func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{
		revenueStrategies: make(map[string]strategy.RevenueStrategy),
		bonusStrategies:   make(map[string]strategy.BonusStrategy),
		defaults:          make(map[strategy.StrategyType]string),
	}
}

// RegisterRevenueStrategy registers a revenue strategy
func (r *StrategyRegistry) RegisterRevenueStrategy(s strategy.RevenueStrategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.revenueStrategies[name]; exists {
		return fmt.Errorf("%w: revenue strategy '%s' already registered", shared.ErrAlreadyExists, name)
	}
	r.revenueStrategies[name] = s
	return nil
}

// GetRevenueStrategy returns a revenue strategy by name, or the default if name is empty
func (r *StrategyRegistry) GetRevenueStrategy(name string) (strategy.RevenueStrategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.defaults[strategy.StrategyTypeRevenue]
		if name == "" {
			return nil, fmt.Errorf("%w: no default revenue strategy set", shared.ErrNotFound)
		}
	}

	s, exists := r.revenueStrategies[name]
	if !exists {
		return nil, fmt.Errorf("%w: revenue strategy '%s' not found", shared.ErrNotFound, name)
	}
	return s, nil
}

// GetRevenueStrategyOrDefault returns a revenue strategy by name, or the default if not found
func (r *StrategyRegistry) GetRevenueStrategyOrDefault(name string) strategy.RevenueStrategy {
	s, err := r.GetRevenueStrategy(name)
	if err != nil {
		s, _ = r.GetRevenueStrategy("")
	}
	return s
}

// ListRevenueStrategies returns all registered revenue strategy names
func (r *StrategyRegistry) ListRevenueStrategies() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.revenueStrategies))
	for name := range r.revenueStrategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnregisterRevenueStrategy removes a revenue strategy
func (r *StrategyRegistry) UnregisterRevenueStrategy(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.revenueStrategies[name]; !exists {
		return fmt.Errorf("%w: revenue strategy '%s' not found", shared.ErrNotFound, name)
	}
	delete(r.revenueStrategies, name)
	if r.defaults[strategy.StrategyTypeRevenue] == name {
		delete(r.defaults, strategy.StrategyTypeRevenue)
	}
	return nil
}

// RegisterBonusStrategy registers a bonus strategy
func (r *StrategyRegistry) RegisterBonusStrategy(s strategy.BonusStrategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.bonusStrategies[name]; exists {
		return fmt.Errorf("%w: bonus strategy '%s' already registered", shared.ErrAlreadyExists, name)
	}
	r.bonusStrategies[name] = s
	return nil
}

// GetBonusStrategy returns a bonus strategy by name, or the default if name is empty
func (r *StrategyRegistry) GetBonusStrategy(name string) (strategy.BonusStrategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.defaults[strategy.StrategyTypeBonus]
		if name == "" {
			return nil, fmt.Errorf("%w: no default bonus strategy set", shared.ErrNotFound)
		}
	}

	s, exists := r.bonusStrategies[name]
	if !exists {
		return nil, fmt.Errorf("%w: bonus strategy '%s' not found", shared.ErrNotFound, name)
	}
	return s, nil
}

// GetBonusStrategyOrDefault returns a bonus strategy by name, or the default if not found
func (r *StrategyRegistry) GetBonusStrategyOrDefault(name string) strategy.BonusStrategy {
	s, err := r.GetBonusStrategy(name)
	if err != nil {
		s, _ = r.GetBonusStrategy("")
	}
	return s
}

// ListBonusStrategies returns all registered bonus strategy names
func (r *StrategyRegistry) ListBonusStrategies() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.bonusStrategies))
	for name := range r.bonusStrategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnregisterBonusStrategy removes a bonus strategy
func (r *StrategyRegistry) UnregisterBonusStrategy(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bonusStrategies[name]; !exists {
		return fmt.Errorf("%w: bonus strategy '%s' not found", shared.ErrNotFound, name)
	}
	delete(r.bonusStrategies, name)
	if r.defaults[strategy.StrategyTypeBonus] == name {
		delete(r.defaults, strategy.StrategyTypeBonus)
	}
	return nil
}

// SetDefault sets the default strategy for a strategy type
func (r *StrategyRegistry) SetDefault(strategyType strategy.StrategyType, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRegisteredLocked(strategyType, name) {
		return fmt.Errorf("%w: strategy '%s' of type '%s' not found", shared.ErrNotFound, name, strategyType)
	}

	r.defaults[strategyType] = name
	return nil
}

// GetDefault returns the default strategy name for a strategy type
func (r *StrategyRegistry) GetDefault(strategyType strategy.StrategyType) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaults[strategyType]
}

// HasDefault returns true if a default is set for the strategy type
func (r *StrategyRegistry) HasDefault(strategyType strategy.StrategyType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaults[strategyType] != ""
}

// IsRegistered returns true if a strategy with the given name is registered for the type
func (r *StrategyRegistry) IsRegistered(strategyType strategy.StrategyType, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isRegisteredLocked(strategyType, name)
}

// isRegisteredLocked checks registration without locking (caller must hold lock)
func (r *StrategyRegistry) isRegisteredLocked(strategyType strategy.StrategyType, name string) bool {
	switch strategyType {
	case strategy.StrategyTypeRevenue:
		_, exists := r.revenueStrategies[name]
		return exists
	case strategy.StrategyTypeBonus:
		_, exists := r.bonusStrategies[name]
		return exists
	default:
		return false
	}
}

// Stats returns registration counts for each strategy type
func (r *StrategyRegistry) Stats() map[strategy.StrategyType]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return map[strategy.StrategyType]int{
		strategy.StrategyTypeRevenue: len(r.revenueStrategies),
		strategy.StrategyTypeBonus:   len(r.bonusStrategies),
	}
}
