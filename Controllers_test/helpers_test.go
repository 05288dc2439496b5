package Controllers_test

import "sync/atomic"

// dbSeq keeps every test on its own in-memory database so unique
// constraints on seeded rows never collide across tests.
var dbSeq atomic.Int64
