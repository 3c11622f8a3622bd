package gate

import (
	"context"

	"codeberg.org/aigram/server/aigram/accounts"
	"codeberg.org/aigram/server/internal/apperrors"
	"codeberg.org/aigram/server/internal/logger"
)

// answers whether a user currently belongs to a channel
type MembershipOracle interface {
	IsMember(ctx context.Context, channel string, userID int64) (bool, error)
}

// supplies the configured required-channel set
type ChannelSource interface {
	List(ctx context.Context) ([]string, error)
}

// supplies current-day account snapshots
type AccountSource interface {
	GetOrCreate(ctx context.Context, userID int64) (*accounts.Account, error)
}

// the entitlement decision
type Entitler interface {
	Allowed(ctx context.Context, acct *accounts.Account) (bool, error)
}

type Reason int

const (
	ReasonAllowed Reason = iota
	ReasonNotSubscribed
	ReasonQuotaExceeded
)

// outcome of the gate check for one request
type Decision struct {
	Allow  bool
	Reason Reason

	// full required list, populated on a NotSubscribed denial
	RequiredChannels []string
}

// runs membership checks before the entitlement engine, so a non-member is
// never charged against quota and never causes a provider call
type Pipeline struct {
	channels ChannelSource
	oracle   MembershipOracle
	accounts AccountSource
	engine   Entitler
}

// creates a gate pipeline
func NewPipeline(channels ChannelSource, oracle MembershipOracle, accts AccountSource, engine Entitler) *Pipeline {
	return &Pipeline{
		channels: channels,
		oracle:   oracle,
		accounts: accts,
		engine:   engine,
	}
}

// decides whether the user may generate now
func (p *Pipeline) Check(ctx context.Context, userID int64) (Decision, error) {
	ok, required, err := p.MembershipOK(ctx, userID)
	if err != nil {
		return Decision{}, err
	}

	if !ok {
		return Decision{Reason: ReasonNotSubscribed, RequiredChannels: required}, nil
	}

	acct, err := p.accounts.GetOrCreate(ctx, userID)
	if err != nil {
		return Decision{}, err
	}

	allowed, err := p.engine.Allowed(ctx, acct)
	if err != nil {
		return Decision{}, err
	}

	if !allowed {
		return Decision{Reason: ReasonQuotaExceeded}, nil
	}

	return Decision{Allow: true, Reason: ReasonAllowed}, nil
}

// verifies every required channel; an empty requirement set always passes
//
// oracle failures count as non-membership (fail closed), so an unreachable
// oracle can never be used to bypass the gate
func (p *Pipeline) MembershipOK(ctx context.Context, userID int64) (bool, []string, error) {
	required, err := p.channels.List(ctx)
	if err != nil {
		return false, nil, err
	}

	for _, channel := range required {
		member, err := p.oracle.IsMember(ctx, channel, userID)
		if err != nil {
			checkErr := &apperrors.MembershipCheckError{Channel: channel, Err: err}
			logger.Warn("membership check failed, treating as non-member",
				"channel", channel,
				"user_id", userID,
				"error", checkErr,
			)
			return false, required, nil
		}

		if !member {
			return false, required, nil
		}
	}

	return true, required, nil
}
