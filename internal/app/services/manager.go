package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/fraudknight/hsproxy/internal/logger"
)

var ErrCircularDependency = errors.New("circular service dependency")

// ManagedService is one piece of the proxy with a start/stop lifecycle.
// Dependencies name the services that must be running first.
type ManagedService interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Dependencies() []string
}

// ServiceManager starts services in dependency order and stops them in
// reverse. A failed start unwinds whatever already started.
type ServiceManager struct {
	services map[string]ManagedService
	registry *ServiceRegistry
	logger   logger.StyledLogger
	running  []string
	mu       sync.RWMutex
}

func NewServiceManager(logger logger.StyledLogger) *ServiceManager {
	return &ServiceManager{
		services: make(map[string]ManagedService),
		registry: NewServiceRegistry(),
		logger:   logger,
	}
}

func (sm *ServiceManager) Register(service ManagedService) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	name := service.Name()
	if _, dup := sm.services[name]; dup {
		return fmt.Errorf("service %s already registered", name)
	}

	sm.services[name] = service
	sm.registry.Register(name, service)
	sm.logger.Debug("Service registered", "name", name)
	return nil
}

// startOrder is a topological sort with dependencies first. Ready services
// are taken in name order so the result does not depend on map iteration.
func (sm *ServiceManager) startOrder() ([]string, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	pending := make(map[string]int, len(sm.services))
	dependents := make(map[string][]string)
	for name, svc := range sm.services {
		deps := svc.Dependencies()
		for _, dep := range deps {
			if _, ok := sm.services[dep]; !ok {
				return nil, fmt.Errorf("service %s depends on unregistered %s", name, dep)
			}
			dependents[dep] = append(dependents[dep], name)
		}
		pending[name] = len(deps)
	}

	var ready []string
	for name, n := range pending {
		if n == 0 {
			ready = append(ready, name)
		}
	}

	order := make([]string, 0, len(pending))
	for len(ready) > 0 {
		slices.Sort(ready)
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		for _, d := range dependents[next] {
			if pending[d]--; pending[d] == 0 {
				ready = append(ready, d)
			}
		}
	}

	if len(order) != len(pending) {
		return nil, ErrCircularDependency
	}
	return order, nil
}

// Start brings services up in dependency order. On failure the ones already
// started are stopped, newest first, before the error is returned.
func (sm *ServiceManager) Start(ctx context.Context) error {
	order, err := sm.startOrder()
	if err != nil {
		return fmt.Errorf("failed to resolve dependencies: %w", err)
	}

	sm.logger.Debug("Starting services", "order", order)

	for i, name := range order {
		svc := sm.services[name]
		if err := svc.Start(ctx); err != nil {
			sm.logger.Error("Failed to start service", "name", name, "error", err)
			_ = sm.stopAll(ctx, reversed(order[:i]))
			return fmt.Errorf("failed to start service %s: %w", name, err)
		}
		sm.logger.Debug("Service started", "name", name)
	}

	sm.mu.Lock()
	sm.running = order
	sm.mu.Unlock()
	return nil
}

// Stop shuts down what Start brought up, in reverse. Every service is asked
// to stop; the first error is returned.
func (sm *ServiceManager) Stop(ctx context.Context) error {
	sm.mu.Lock()
	order := reversed(sm.running)
	sm.running = nil
	sm.mu.Unlock()

	sm.logger.Debug("Stopping services", "order", order)
	return sm.stopAll(ctx, order)
}

func (sm *ServiceManager) stopAll(ctx context.Context, names []string) error {
	var firstErr error
	for _, name := range names {
		if err := sm.services[name].Stop(ctx); err != nil {
			sm.logger.Error("Failed to stop service", "name", name, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		sm.logger.Debug("Service stopped", "name", name)
	}
	return firstErr
}

func reversed(names []string) []string {
	out := slices.Clone(names)
	slices.Reverse(out)
	return out
}

func (sm *ServiceManager) Get(name string) (ManagedService, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	svc, ok := sm.services[name]
	return svc, ok
}

func (sm *ServiceManager) GetRegistry() *ServiceRegistry {
	return sm.registry
}
