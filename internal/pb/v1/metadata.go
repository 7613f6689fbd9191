package pb

import (
	"context"

	"google.golang.org/grpc/metadata"

	domain "github.com/oshokin/morse-beacon/internal/domain/device"
)

// Metadata keys carrying the caller's identity.
const (
	ActorHostnameKey = "x-morse-actor-hostname"
	ActorUsernameKey = "x-morse-actor-username"
)

// WithActor attaches actor to the outgoing call metadata.
func WithActor(ctx context.Context, actor *domain.Actor) context.Context {
	if actor == nil {
		return ctx
	}

	return metadata.AppendToOutgoingContext(ctx,
		ActorHostnameKey, actor.Hostname,
		ActorUsernameKey, actor.Username,
	)
}

// ActorFromIncoming extracts the caller identity set by WithActor.
// It returns nil when the caller sent none.
func ActorFromIncoming(ctx context.Context) *domain.Actor {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil
	}

	var (
		hostnames = md.Get(ActorHostnameKey)
		usernames = md.Get(ActorUsernameKey)
	)

	if len(hostnames) == 0 && len(usernames) == 0 {
		return nil
	}

	actor := new(domain.Actor)

	if len(hostnames) > 0 {
		actor.Hostname = hostnames[0]
	}

	if len(usernames) > 0 {
		actor.Username = usernames[0]
	}

	return actor
}
