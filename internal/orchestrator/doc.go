// Package orchestrator runs a batch end to end: classify the dropped
// paths, fan out metadata enrichment, settle the destination once (share
// reachability plus the free-space failover), then process items
// sequentially through duplicate check, transcode, transfer, and poster
// placement. It owns batch and item state transitions, cooperative
// cancellation, temp file cleanup, and the final library rescan trigger.
package orchestrator
