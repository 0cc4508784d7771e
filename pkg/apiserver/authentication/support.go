/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package authentication

import (
	"context"
)

// SystemSupport drives authentication transactions against the configured
// handlers. The webflow core consumes it as an opaque collaborator; it only
// inspects whether the resulting builder carries an initial authentication.
type SystemSupport interface {
	// HandleInitialAuthenticationTransaction performs the primary-factor
	// transaction for the given credentials.
	HandleInitialAuthenticationTransaction(ctx context.Context, service *Service, credentials ...Credential) (*Builder, error)

	// HandleAuthenticationTransaction folds another credential (e.g. an
	// MFA response) into an in-flight transaction.
	HandleAuthenticationTransaction(ctx context.Context, service *Service, builder *Builder, credentials ...Credential) (*Builder, error)

	// EstablishAuthenticationContextFromInitial seeds a transaction from
	// an existing single sign-on authentication.
	EstablishAuthenticationContextFromInitial(authn *Authentication, credential Credential) (*Builder, error)

	// FinalizeAuthenticationTransaction runs a complete transaction and
	// returns its finalized result.
	FinalizeAuthenticationTransaction(ctx context.Context, service *Service, credentials ...Credential) (*Result, error)
}

// TicketRegistrySupport exposes the single lookup the webflow needs from the
// ticket layer: the authentication owned by a ticket-granting ticket.
type TicketRegistrySupport interface {
	// AuthenticationFrom returns the authentication attached to the given
	// ticket-granting ticket id, nil if the ticket is absent or expired.
	AuthenticationFrom(tgtID string) (*Authentication, error)
}
