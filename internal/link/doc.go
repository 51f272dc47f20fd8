// Package link owns the wireless connectivity of both device roles.
//
// Followers use Supervisor: Connect performs one bounded join attempt against
// the coordinator's network and Maintain keeps retrying on a fixed interval
// for the life of the process. Connect never returns an error — driver faults
// are logged and become a false result, with the radio forced off in every
// failure path so the next attempt starts clean.
//
// The coordinator uses HostNetwork, which configures the hosted network with
// static addressing and blocks until the driver reports it active.
package link
