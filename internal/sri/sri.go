// Package sri talks to the tax authority's authorization service. The only
// implementation is a simulator that stands in for the remote endpoint.
package sri

import (
	"context"
	"time"

	"github.com/MrJamesThe3rd/contable/internal/accesskey"
)

const (
	MessageAuthorized = "Factura autorizada correctamente"
	MessageRejected   = "Error en la autorización. Verifique los datos de la factura."
)

// Request asks for the authorization of one invoice. When AccessKey is empty the
// authorizer derives one from Key.
type Request struct {
	AccessKey string
	Key       accesskey.Params
}

// Result is the authorizer's answer. A rejection is a Result with Authorized false,
// not an error; errors are reserved for transport failures and cancellation.
type Result struct {
	Authorized          bool
	AuthorizationNumber string
	AuthorizationDate   time.Time
	AccessKey           string
	Message             string
}

//go:generate mockgen -source=sri.go -destination=authorizer_mock.go -package=sri
type Authorizer interface {
	Authorize(ctx context.Context, req Request) (*Result, error)
}
