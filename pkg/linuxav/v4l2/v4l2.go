//go:build linux

// Package v4l2 provides pure Go bindings to the Video4Linux2 (V4L2)
// control plane: capability queries, control description/query/set,
// input and output selection, and format enumeration.
//
// This package does not use cgo, enabling simple cross-compilation for
// different Linux architectures (amd64, arm64, arm).
//
// # Devices
//
// Open a capture device by index or path:
//
//	dev, err := v4l2.Open(0)                  // /dev/video0
//	dev, err := v4l2.OpenPath("/dev/video2")
//	defer dev.Close()
//
// # Controls
//
// Enumerate the controls a device exposes and read or change them:
//
//	descs, _ := dev.QueryControls()
//	for _, d := range descs {
//	    ctrl, _ := dev.Control(&d)
//	    fmt.Printf("%s = %v\n", d.Name, ctrl.Value)
//	}
//	dev.SetControl(v4l2.Control{ID: id, Value: v4l2.Integer(128)})
//
// Controls set in one SetControls call are applied atomically by the
// driver and must all belong to the same control class.
//
// # Enumeration
//
// Every listing call follows the kernel convention of probing until the
// driver answers EINVAL. That sentinel is absorbed as "no more items";
// any other errno aborts the listing and is returned.
package v4l2
