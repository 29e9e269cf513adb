// Package rwlock provides a writer-preferring reader-writer lock whose blocking
// acquisitions honour context cancellation.
//
// A [FairRWLock] admits either any number of concurrent readers or a single
// exclusive writer. A writer announces its intent as soon as it calls
// [FairRWLock.Lock]; from that moment no new reader is admitted until every
// pending writer has been served. Under a continuous stream of readers a
// writer is therefore never starved. Readers may starve while writers keep
// arriving; callers that need the opposite trade-off should use sync.RWMutex.
//
// # Cancellation
//
// RLock and Lock take a context. If the context is done before the lock is
// granted the call returns an error matching [errors.ErrCanceled] and the
// context's own error, and the lock's counters are exactly what they were
// before the call. A cancelled writer withdraws its pending registration and
// wakes any readers it was holding back.
//
// # Basic Usage
//
//	lock := rwlock.New()
//
//	if err := lock.RLock(ctx); err != nil {
//	    return err
//	}
//	defer lock.RUnlock()
//
// Or with scoped helpers that always release:
//
//	err := lock.WithWrite(ctx, func() error {
//	    return save(records)
//	})
//
// # Thread Safety
//
// All methods are safe for concurrent use. The zero value is an unlocked
// lock ready for use. A FairRWLock must not be copied after first use.
package rwlock
