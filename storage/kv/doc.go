// Package kv provides an interface for implementing
// kv drivers that the entity store is built on.
//
// A kv plugin is a factory for stores. A store contains zero or more
// buckets and each bucket is a sorted map from byte keys to byte values
// plus a durable sequence counter. All reads and writes happen inside a
// transaction:
//
//  - Store
//    - Bucket "saloon_ids"  (sequence: 3)
//    - Bucket "saloons"
//      - 0x0000000000000001: <value>
//      - 0x0000000000000003: <value>
//
// Read-write transactions are strictly serializable: a transaction that
// begins after another one commits observes all of its effects, and a
// transaction that is rolled back leaves no trace, including any sequence
// numbers it drew. A committed read-write transaction is durable, meaning
// it survives closing and reopening the store at the same location
// (drivers that are ephemeral by nature, like the memory driver, say so).
//
// Consumers should not hold more than one transaction per goroutine at a
// time. Some drivers only allow a single open transaction and Begin will
// block until the previous one is committed or rolled back.
package kv
