package gate

import (
	"context"
	"log"

	"storefront/internal/domain"
)

// Decision is the result of one protected view activation.
type Decision int

const (
	Checking Decision = iota
	DeniedUnauthenticated
	DeniedUnauthorized
	Allowed
)

func (d Decision) String() string {
	switch d {
	case DeniedUnauthenticated:
		return "denied_unauthenticated"
	case DeniedUnauthorized:
		return "denied_unauthorized"
	case Allowed:
		return "allowed"
	default:
		return "checking"
	}
}

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Outcome carries the decision, the server verified identity (Allowed and
// DeniedUnauthorized only) and where to send a denied visitor.
type Outcome struct {
	Decision Decision
	Identity *domain.Identity
	Redirect string
}

// IdentityVerifier resolves a credential to the identity the server knows.
type IdentityVerifier interface {
	WhoAmI(ctx context.Context, credential string) (domain.Identity, error)
}

// Session is the part of the session store the gate reads and repairs.
type Session interface {
	Credential() (string, bool)
	SyncIdentity(ctx context.Context, identity domain.Identity) error
	Logout(ctx context.Context) error
}

// Recorder counts decisions.
type Recorder interface {
	GateDecision(decision string)
}

type Gate struct {
	verifier IdentityVerifier
	recorder Recorder
	logger   *log.Logger
}

func New(verifier IdentityVerifier, recorder Recorder, logger *log.Logger) *Gate {
	return &Gate{verifier: verifier, recorder: recorder, logger: logger}
}

// Check decides whether the session may see a view requiring role required.
// The cached identity is never trusted: every call revalidates with the server.
func (g *Gate) Check(ctx context.Context, sess Session, required domain.Role) Outcome {
	out := g.check(ctx, sess, required)
	if g.recorder != nil {
		g.recorder.GateDecision(out.Decision.String())
	}
	return out
}

func (g *Gate) check(ctx context.Context, sess Session, required domain.Role) Outcome {
	credential, ok := sess.Credential()
	if !ok {
		return Outcome{Decision: DeniedUnauthenticated, Redirect: LoginPath}
	}

	identity, err := g.verifier.WhoAmI(ctx, credential)
	if err != nil {
		g.logf("identity check failed, clearing session: %v", err)
		if logoutErr := sess.Logout(ctx); logoutErr != nil {
			g.logf("logout after failed identity check: %v", logoutErr)
		}
		return Outcome{Decision: DeniedUnauthenticated, Redirect: LoginPath}
	}

	if err := sess.SyncIdentity(ctx, identity); err != nil {
		g.logf("persist verified identity: %v", err)
	}
	if !identity.Role.Satisfies(required) {
		return Outcome{Decision: DeniedUnauthorized, Identity: &identity, Redirect: HomePath}
	}
	return Outcome{Decision: Allowed, Identity: &identity}
}

func (g *Gate) logf(format string, args ...any) {
	if g.logger != nil {
		g.logger.Printf("gate: "+format, args...)
	}
}
