// Package iocache persists fetched responses and analysis results.
package iocache

import (
	"sync"

	"github.com/huangsam/utilstudy/internal/contract"
)

// StoreManager holds the response cache and the results store.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	responses    contract.CacheStore
	results      contract.ResultsStore
}

var _ contract.CacheManager = &StoreManager{} // Compile-time check

// GetResponseStore returns the response CacheStore.
func (mgr *StoreManager) GetResponseStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.responses
}

// GetResultsStore returns the ResultsStore.
func (mgr *StoreManager) GetResultsStore() contract.ResultsStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.results
}
