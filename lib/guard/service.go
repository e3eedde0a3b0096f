package guard

import (
	"errors"
	"fmt"

	"github.com/ValentinKolb/dProps/lib/lease"
	"github.com/ValentinKolb/dProps/lib/props"
)

// ErrSaveFailed is returned by SaveProperties when a batch could not be written.
var ErrSaveFailed = errors.New("failed to save")

// Service exposes the guarded property API over both scopes. Each scope has its own
// store, lease manager and sweeper; leases never cross scopes.
type Service struct {
	accessors map[props.Scope]*Accessor
	sweepers  map[props.Scope]*lease.Sweeper
}

// NewService binds one accessor to the installation store and one to the principal store.
// leaseOpts configures both lease managers and sweepers (nil for defaults). The lease key
// prefix and, if cfg has none, the clock are taken from leaseOpts.
func NewService(installation, principal props.IPropertyStore, cfg *Config, leaseOpts *lease.Options) *Service {
	c := cfg.withDefaults()
	c.LeaseKeyPrefix = leaseOpts.LockKey("")
	if (cfg == nil || cfg.Clock == nil) && leaseOpts != nil && leaseOpts.Clock != nil {
		c.Clock = leaseOpts.Clock
	}

	s := &Service{
		accessors: make(map[props.Scope]*Accessor, len(props.Scopes)),
		sweepers:  make(map[props.Scope]*lease.Sweeper, len(props.Scopes)),
	}
	stores := map[props.Scope]props.IPropertyStore{
		props.ScopeInstallation: installation,
		props.ScopePrincipal:    principal,
	}
	for scope, store := range stores {
		s.accessors[scope] = NewAccessor(store, lease.NewLeaseManager(store, leaseOpts), &c)
		s.sweepers[scope] = lease.NewSweeper(store, leaseOpts)
	}
	return s
}

// Accessor returns the accessor bound to scope. An invalid scope panics.
func (s *Service) Accessor(scope props.Scope) *Accessor {
	a, ok := s.accessors[scope]
	if !ok {
		panic(fmt.Sprintf("guard: invalid scope %s", scope))
	}
	return a
}

func (s *Service) GetProperty(key string, scope props.Scope) (string, bool) {
	return s.Accessor(scope).Get(key)
}

func (s *Service) SetProperty(key, value string, scope props.Scope) bool {
	return s.Accessor(scope).Set(key, value)
}

func (s *Service) DeleteProperty(key string, scope props.Scope) bool {
	return s.Accessor(scope).Delete(key)
}

func (s *Service) GetAllProperties(scope props.Scope) map[string]string {
	return s.Accessor(scope).GetAll()
}

func (s *Service) SetProperties(updates map[string]string, scope props.Scope) bool {
	return s.Accessor(scope).SetAll(updates)
}

// SaveProperties is SetProperties for callers that must not lose the write, such as a
// settings form. A failed batch is returned as ErrSaveFailed.
func (s *Service) SaveProperties(updates map[string]string, scope props.Scope) error {
	if !s.SetProperties(updates, scope) {
		return fmt.Errorf("%w: %s properties", ErrSaveFailed, scope)
	}
	return nil
}

// CleanupExpiredLocks sweeps dead lease records from both scopes and returns the total
// number removed.
func (s *Service) CleanupExpiredLocks() int {
	total := 0
	for _, scope := range props.Scopes {
		total += s.sweepers[scope].SweepExpiredLeases()
	}
	return total
}
