package fetcher

import (
	container "github.com/thehyperflames/dicontainer-go"
)

const FETCHER_SERVICE = "fetcher-service"

// Service is the DI-managed Fetcher instance the rest of the
// container wires against. It holds an in-memory Fetcher: resolving
// pool and tick-array accounts from chain is an external collaborator's
// job (see the package doc), so Start/Stop have nothing to do.
type Service struct {
	container.BaseDIInstance

	*Memory
}

func (svc *Service) ID() string {
	return FETCHER_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	svc.Memory = NewMemory()
	return nil
}

func (svc *Service) Start() error {
	return nil
}

func (svc *Service) Stop() error {
	return nil
}
