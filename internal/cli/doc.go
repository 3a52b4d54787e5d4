// Package cli implements the interactive FakEye shell: scan commands over
// the mocked detectors, history and community management, account handling
// and manual extension sync, wired over the shared store.
package cli
