// Package saloon defines the saloon entity, its embedded services,
// the payloads used to create and edit them, and the errors the
// store reports to callers.
package saloon

// Saloon is the root entity of the store. It is keyed by ID and
// owns its services; services have no identity of their own.
type Saloon struct {
	ID        uint64          `json:"id"`
	Owner     string          `json:"owner"`
	Name      string          `json:"name"`
	Location  string          `json:"location"`
	SaloonURL string          `json:"saloon_url"`
	Services  []SaloonService `json:"services"`
	CreatedAt uint64          `json:"created_at"`
	// UpdatedAt is nil until the first mutation after creation
	UpdatedAt *uint64 `json:"updated_at"`
}

// SaloonService is an offering embedded in a Saloon. Services are
// appended and removed wholesale, so UpdatedAt is never set today.
type SaloonService struct {
	ServiceName        string  `json:"service_name"`
	ServiceDescription string  `json:"service_description"`
	CreatedAt          uint64  `json:"created_at"`
	UpdatedAt          *uint64 `json:"updated_at"`
}

// SaloonPayload carries the editable fields of a Saloon
type SaloonPayload struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	SaloonURL string `json:"saloon_url"`
}

// ServicePayload carries the fields of a new SaloonService
type ServicePayload struct {
	ServiceName        string `json:"service_name"`
	ServiceDescription string `json:"service_description"`
}

// RemoveServices drops every service called name, keeping the
// relative order of the rest. It returns how many were removed.
func (s *Saloon) RemoveServices(name string) int {
	kept := make([]SaloonService, 0, len(s.Services))

	for _, service := range s.Services {
		if service.ServiceName != name {
			kept = append(kept, service)
		}
	}

	removed := len(s.Services) - len(kept)
	s.Services = kept

	return removed
}

// Timestamp returns a pointer to t for use in optional fields
func Timestamp(t uint64) *uint64 {
	return &t
}
