package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"echo-server/internal/config"
	"echo-server/internal/logger"
	"echo-server/internal/middleware"
	"echo-server/internal/models"
)

/**
 * Manager of the active echo listeners
 * @description
 * - One ListenerInstance per activated service definition
 * - Listeners are independent, a failing one doesn't stop the others
 */
type ServiceManager struct {
	opts      ListenerOptions
	mu        sync.RWMutex
	listeners []*ListenerInstance
}

/**
 * Create service manager from application configuration
 * @param {*config.AppConfig} cfg - Application configuration
 * @returns {*ServiceManager} Manager with default echo/write handlers
 */
func NewServiceManager(cfg *config.AppConfig) *ServiceManager {
	return &ServiceManager{
		opts: ListenerOptions{
			Host: cfg.Server.Host,
			Body: middleware.BodyConfig{
				TempDir:   cfg.Upload.TempDir,
				BodyLimit: cfg.Upload.BodyLimit,
				Recorder:  Recorder,
			},
			Handlers: DefaultHandlers(cfg.Persist.Dir),
		},
	}
}

// SetHandler replaces the handler bound to action for listeners started afterwards.
func (sm *ServiceManager) SetHandler(action models.Action, h Handler) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	handlers := make(map[models.Action]Handler, len(sm.opts.Handlers)+1)
	for k, v := range sm.opts.Handlers {
		handlers[k] = v
	}
	handlers[action] = h
	sm.opts.Handlers = handlers
}

/**
 * Activate and start every qualifying service
 * @param {context.Context} ctx - Cancels the remaining activations
 * @param {[]models.ServiceDefinition} registry - All declared services
 * @param {[]models.Profile} active - Active profiles
 * @returns {error} Joined per-service failures, nil if all started
 * @description
 * - Filters the registry with ActiveServices
 * - Builds and binds each listener independently
 * - Failed services are kept with status error for the admin API
 */
func (sm *ServiceManager) StartAll(ctx context.Context, registry []models.ServiceDefinition, active []models.Profile) error {
	var errs []error
	for _, def := range ActiveServices(registry, active) {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := sm.StartService(def); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// StartService builds and starts the listener of a single definition.
func (sm *ServiceManager) StartService(def models.ServiceDefinition) error {
	sm.mu.RLock()
	opts := sm.opts
	sm.mu.RUnlock()

	inst, err := NewListener(def, opts)
	if err != nil {
		logger.Errorf("Build echo server for port %d failed: %v", def.Port, err)
		inst = &ListenerInstance{Def: def, host: opts.Host}
		inst.fail(err)
		sm.add(inst)
		return fmt.Errorf("service %s: %w", def.Name, err)
	}
	sm.add(inst)
	if err := inst.Start(); err != nil {
		logger.Errorf("Start echo server on %s failed: %v", inst.Address(), err)
		return fmt.Errorf("service %s: %w", def.Name, err)
	}
	return nil
}

func (sm *ServiceManager) add(inst *ListenerInstance) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.listeners = append(sm.listeners, inst)
}

// GetInstances returns the listeners in activation order.
func (sm *ServiceManager) GetInstances() []*ListenerInstance {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return append([]*ListenerInstance(nil), sm.listeners...)
}

func (sm *ServiceManager) GetInstance(name string) *ListenerInstance {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	for _, l := range sm.listeners {
		if l.Def.Name == name {
			return l
		}
	}
	return nil
}

// RunningCount 返回运行中的监听数量
func (sm *ServiceManager) RunningCount() int {
	n := 0
	for _, l := range sm.GetInstances() {
		if l.Status() == models.StatusRunning {
			n++
		}
	}
	return n
}

// StopAll gracefully shuts every listener down.
func (sm *ServiceManager) StopAll(ctx context.Context) error {
	var errs []error
	for _, l := range sm.GetInstances() {
		if err := l.Shutdown(ctx); err != nil {
			logger.Errorf("Stop echo server on port %d failed: %v", l.Def.Port, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
