// Package handlers wires HTTP requests to the simulator's services.
// Every response uses the shared {ok, data, error} envelope.
package handlers

import (
	"github.com/adesokan/walletcore/services"
)

type Handlers struct {
	services *services.Services
}

func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{services: svcs}
}
