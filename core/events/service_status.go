package events

// KindServiceStatusUpdated identifies backend service connectivity updates.
const KindServiceStatusUpdated Kind = "service_status.updated"

// ServiceStatusUpdated carries connectivity for one named backend service.
type ServiceStatusUpdated struct {
	Base
	Service   string
	Connected bool
}

// NewServiceStatusUpdated creates a service status updated event.
func NewServiceStatusUpdated(service string, connected bool) ServiceStatusUpdated {
	return ServiceStatusUpdated{Base: NewBase(KindServiceStatusUpdated), Service: service, Connected: connected}
}
