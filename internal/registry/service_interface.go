package registry

// Service is the interface for all long running agent services
type Service interface {
	Start() error
	Stop() error
}
