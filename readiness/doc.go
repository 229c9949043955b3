// Package readiness drives the startup sequence against a search cluster:
// probe connectivity, poll cluster health for the target index, create the
// index when it does not exist yet, and report red/yellow/green transitions
// through a status sink until the index is green.
//
//	poller, err := readiness.New(readiness.Config{Index: "events"}, client, sink, log)
//	if err != nil {
//		return err
//	}
//	if err := poller.Run(ctx); err != nil {
//		return err
//	}
//
// For lifecycle-managed hosts, NewComponentWithRecorder wires the poller,
// a status recorder, and a log sink into a component.Component.
package readiness
