// Package transfer moves finished files onto their destination: share
// reachability probing and reconnection, the once-per-batch free-space
// failover decision, and a buffered progress-reporting copy with bounded
// retries and safe source deletion.
package transfer
