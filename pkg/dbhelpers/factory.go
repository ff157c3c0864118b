package dbhelpers

import (
	"sort"
	"strings"
	"sync"
)

// Registry - реестр движков баз данных.
// Управляет регистрацией и поиском Helper по типу БД.
type Registry struct {
	helpers map[string]Helper
	mu      sync.RWMutex
}

// NewRegistry создает пустой реестр движков.
func NewRegistry() *Registry {
	return &Registry{
		helpers: make(map[string]Helper),
	}
}

// Register регистрирует Helper для определенного типа БД.
// Обычно вызывается из init() подпакета движка:
//
//	func init() {
//	    dbhelpers.Register("sqlite", &Helper{})
//	}
func (r *Registry) Register(dbType string, h Helper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.helpers[strings.ToLower(dbType)] = h
}

// IsRegistered проверяет, зарегистрирован ли движок для данного типа БД.
func (r *Registry) IsRegistered(dbType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.helpers[strings.ToLower(dbType)]
	return ok
}

// RegisteredTypes возвращает отсортированный список зарегистрированных
// типов БД.
func (r *Registry) RegisteredTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.helpers))
	for dbType := range r.helpers {
		types = append(types, dbType)
	}
	sort.Strings(types)
	return types
}

// FromDBType возвращает Helper по типу БД.
func (r *Registry) FromDBType(dbType string) (Helper, error) {
	r.mu.RLock()
	h, ok := r.helpers[strings.ToLower(dbType)]
	r.mu.RUnlock()

	if !ok {
		return nil, &HelperError{DBType: dbType, Registered: r.RegisteredTypes()}
	}
	return h, nil
}

// ========== Global Registry ==========

var globalRegistry = NewRegistry()

// Register регистрирует движок в глобальном реестре.
func Register(dbType string, h Helper) {
	globalRegistry.Register(dbType, h)
}

// IsRegistered проверяет регистрацию в глобальном реестре.
func IsRegistered(dbType string) bool {
	return globalRegistry.IsRegistered(dbType)
}

// RegisteredTypes возвращает типы из глобального реестра.
func RegisteredTypes() []string {
	return globalRegistry.RegisteredTypes()
}

// FromDBType возвращает Helper из глобального реестра.
// Это основной способ получения движка в приложении.
func FromDBType(dbType string) (Helper, error) {
	return globalRegistry.FromDBType(dbType)
}
