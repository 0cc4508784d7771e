/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package services

import (
	"sort"

	"k8s.io/klog/v2"

	"casflow.io/casflow/pkg/apiserver/authentication"
)

// Manager is the directory of registered services.
type Manager interface {
	// FindServiceBy returns the first registration matching the inbound
	// service in evaluation order, nil if none match.
	FindServiceBy(service *authentication.Service) *RegisteredService

	// FindServiceByID returns the registration with the given numeric id.
	FindServiceByID(id int64) *RegisteredService

	// List returns all registrations in evaluation order.
	List() []*RegisteredService
}

type inMemoryManager struct {
	services []*RegisteredService
}

// NewInMemoryManager builds a Manager over a fixed registration list,
// typically loaded from configuration at startup.
func NewInMemoryManager(services ...*RegisteredService) Manager {
	sorted := append([]*RegisteredService(nil), services...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EvaluationOrder < sorted[j].EvaluationOrder
	})
	return &inMemoryManager{services: sorted}
}

func (m *inMemoryManager) FindServiceBy(service *authentication.Service) *RegisteredService {
	if service == nil {
		return nil
	}
	for _, rs := range m.services {
		if rs.Matches(service) {
			klog.V(4).Infof("service %s matched registration %q", service.ID, rs.Name)
			return rs
		}
	}
	klog.V(4).Infof("no registration matches service %s", service.ID)
	return nil
}

func (m *inMemoryManager) FindServiceByID(id int64) *RegisteredService {
	for _, rs := range m.services {
		if rs.ID == id {
			return rs
		}
	}
	return nil
}

func (m *inMemoryManager) List() []*RegisteredService {
	return append([]*RegisteredService(nil), m.services...)
}
