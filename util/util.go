package util

// AsyncNotify sends on ch without blocking, dropping the notification
// if a signal is already pending. Used for single-slot "something
// changed" channels such as a timer's fire signal, where coalescing
// redundant wakeups is correct.
func AsyncNotify(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
