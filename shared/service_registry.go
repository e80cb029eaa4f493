// Package shared holds process-lifecycle infrastructure shared by every
// long-lived component of the validator client: a minimal service registry
// that starts, stops, and health-checks each registered Service in
// registration order.
package shared

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "shared")

// Service is anything with a start/stop lifecycle and a health status.
// The prometheus service implements it directly; the attestation and
// block services take a context in Start, so validator/node registers
// them through small adapters that do.
type Service interface {
	Start()
	Stop() error
	Status() error
}

// ServiceRegistry tracks the lifecycle of every long running component of
// the process so Start/Stop can be driven uniformly from node.go.
type ServiceRegistry struct {
	lock     sync.RWMutex
	services map[reflect.Type]Service
	order    []reflect.Type
}

// NewServiceRegistry starts a new registry instance.
func NewServiceRegistry() *ServiceRegistry {
	return &ServiceRegistry{
		services: make(map[reflect.Type]Service),
	}
}

// RegisterService appends a service keyed by its concrete type. Registering
// the same type twice is an error since StartAll/StopAll assume uniqueness.
func (r *ServiceRegistry) RegisterService(service Service) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	kind := reflect.TypeOf(service)
	if _, exists := r.services[kind]; exists {
		return fmt.Errorf("service already registered: %v", kind)
	}
	r.services[kind] = service
	r.order = append(r.order, kind)
	return nil
}

// StartAll starts every registered service in registration order.
func (r *ServiceRegistry) StartAll() {
	r.lock.RLock()
	defer r.lock.RUnlock()
	log.Infof("Starting %d services", len(r.order))
	for _, kind := range r.order {
		log.Debugf("Starting service %v", kind)
		r.services[kind].Start()
	}
}

// StopAll stops every registered service in reverse registration order.
func (r *ServiceRegistry) StopAll() {
	r.lock.RLock()
	defer r.lock.RUnlock()
	for i := len(r.order) - 1; i >= 0; i-- {
		kind := r.order[i]
		if err := r.services[kind].Stop(); err != nil {
			log.Errorf("Could not stop service %v: %v", kind, err)
		}
	}
}

// Statuses returns the status error, if any, of every registered service
// keyed by a human-readable type name.
func (r *ServiceRegistry) Statuses() map[string]error {
	r.lock.RLock()
	defer r.lock.RUnlock()
	statuses := make(map[string]error, len(r.order))
	for _, kind := range r.order {
		statuses[kind.String()] = r.services[kind].Status()
	}
	return statuses
}
