package gate

import (
	"context"
	"errors"
	"testing"

	"codeberg.org/aigram/server/aigram/accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannels struct {
	list []string
	err  error
}

func (f *fakeChannels) List(context.Context) ([]string, error) { return f.list, f.err }

type fakeOracle struct {
	members map[string]bool
	errOn   string
	calls   int
}

func (f *fakeOracle) IsMember(_ context.Context, channel string, _ int64) (bool, error) {
	f.calls++

	if channel == f.errOn {
		return false, errors.New("oracle unreachable")
	}

	return f.members[channel], nil
}

type fakeAccounts struct {
	acct  *accounts.Account
	calls int
}

func (f *fakeAccounts) GetOrCreate(context.Context, int64) (*accounts.Account, error) {
	f.calls++
	return f.acct, nil
}

type fakeEntitler struct {
	allowed bool
	err     error
	calls   int
}

func (f *fakeEntitler) Allowed(context.Context, *accounts.Account) (bool, error) {
	f.calls++
	return f.allowed, f.err
}

func TestCheck_NonMemberDeniedBeforeQuota(t *testing.T) {
	oracle := &fakeOracle{members: map[string]bool{"@a": true, "@b": false}}
	accts := &fakeAccounts{acct: &accounts.Account{UserID: 7}}
	engine := &fakeEntitler{allowed: true}

	p := NewPipeline(&fakeChannels{list: []string{"@a", "@b"}}, oracle, accts, engine)

	decision, err := p.Check(context.Background(), 7)

	require.NoError(t, err)
	assert.False(t, decision.Allow)
	assert.Equal(t, ReasonNotSubscribed, decision.Reason)
	assert.Equal(t, []string{"@a", "@b"}, decision.RequiredChannels, "denial carries the full required list")
	assert.Zero(t, accts.calls, "a non-member never reaches the account store")
	assert.Zero(t, engine.calls, "a non-member is never charged against quota")
}

func TestCheck_OracleErrorFailsClosed(t *testing.T) {
	oracle := &fakeOracle{errOn: "@a"}
	engine := &fakeEntitler{allowed: true}

	p := NewPipeline(&fakeChannels{list: []string{"@a"}}, oracle, &fakeAccounts{}, engine)

	decision, err := p.Check(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, ReasonNotSubscribed, decision.Reason, "an unreachable oracle counts as non-membership")
	assert.Zero(t, engine.calls)
}

func TestCheck_EmptyRequirementSetPasses(t *testing.T) {
	oracle := &fakeOracle{}
	engine := &fakeEntitler{allowed: true}

	p := NewPipeline(&fakeChannels{}, oracle, &fakeAccounts{acct: &accounts.Account{UserID: 7}}, engine)

	decision, err := p.Check(context.Background(), 7)

	require.NoError(t, err)
	assert.True(t, decision.Allow)
	assert.Zero(t, oracle.calls)
	assert.Equal(t, 1, engine.calls)
}

func TestCheck_QuotaDenial(t *testing.T) {
	p := NewPipeline(
		&fakeChannels{},
		&fakeOracle{},
		&fakeAccounts{acct: &accounts.Account{UserID: 7, UsedToday: 5}},
		&fakeEntitler{allowed: false},
	)

	decision, err := p.Check(context.Background(), 7)

	require.NoError(t, err)
	assert.False(t, decision.Allow)
	assert.Equal(t, ReasonQuotaExceeded, decision.Reason)
}

func TestCheck_ChannelListFailurePropagates(t *testing.T) {
	p := NewPipeline(
		&fakeChannels{err: errors.New("store down")},
		&fakeOracle{},
		&fakeAccounts{},
		&fakeEntitler{},
	)

	_, err := p.Check(context.Background(), 7)

	assert.Error(t, err, "a store failure fails the request instead of deciding blind")
}

func TestMembershipOK_AllMembers(t *testing.T) {
	oracle := &fakeOracle{members: map[string]bool{"@a": true, "@b": true}}

	p := NewPipeline(&fakeChannels{list: []string{"@a", "@b"}}, oracle, &fakeAccounts{}, &fakeEntitler{})

	ok, required, err := p.MembershipOK(context.Background(), 7)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"@a", "@b"}, required)
	assert.Equal(t, 2, oracle.calls)
}
