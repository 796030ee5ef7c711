// Package media speaks the Linux media controller protocol
// (/dev/media*). It enumerates the processing graph a driver exposes,
// entities connected by links between pads, reconfigures links, and
// allocates request objects for batched configuration.
//
// A media.Device shares the descriptor Handle abstraction with the
// v4l2 package; the two are otherwise independent. Associating a
// capture device with its owning media controller is left to the
// caller.
package media
