package auth

import "context"

// Verifier valida un bearer token contra el identity provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}
