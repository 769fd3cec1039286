package port

import "context"

// SecondFactorStore keeps issued second-factor codes and supports a
// single-consumer claim.
type SecondFactorStore interface {
	Issue(ctx context.Context, credentialID, code string) error
	// Claim atomically consumes the code when it matches. It returns false
	// when the code is absent or different; at most one concurrent caller can
	// observe true for the same code.
	Claim(ctx context.Context, credentialID, code string) (bool, error)
}
