package entitlement

import "sync"

const lockShards = 64

// serializes request handling per user so a user cannot double-spend the
// same day's quota with concurrent requests
//
// sharded rather than per-user to keep memory bounded for a large user
// pool; users mapping to the same shard serialize with each other, which
// only costs latency, never correctness
type UserLocks struct {
	shards [lockShards]sync.Mutex
}

func NewUserLocks() *UserLocks {
	return &UserLocks{}
}

func (l *UserLocks) Lock(userID int64) {
	l.shards[shardFor(userID)].Lock()
}

func (l *UserLocks) Unlock(userID int64) {
	l.shards[shardFor(userID)].Unlock()
}

func shardFor(userID int64) uint64 {
	return uint64(userID) % lockShards
}
