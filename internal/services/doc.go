// Package services wires httplog's runtime dependencies.
//
// Register builds the chain every outgoing call travels through:
//
//	logging.Logger -> hostlog.Sink -> hostlog.Adapter -> httplog.Transport -> *http.Transport
//
// and returns a Registry holding each piece. Commands take what they need
// from the Registry instead of constructing dependencies themselves.
package services
