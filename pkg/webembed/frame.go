package webembed

import (
	"sync"

	"toolhaven/pkg/errs"
)

type FrameState int

const (
	FrameLoading FrameState = iota
	FrameLoaded
	FrameFailed
)

func (s FrameState) String() string {
	switch s {
	case FrameLoading:
		return "loading"
	case FrameLoaded:
		return "loaded"
	case FrameFailed:
		return "failed"
	}
	return "unknown"
}

// Frame tracks one embed attempt's lifecycle: loading -> {loaded, failed}.
// Each refresh bumps the attempt id; settlements for earlier attempts are
// ignored, which makes Refresh re-entrant while a load is still in flight.
type Frame struct {
	mu      sync.Mutex
	url     string
	policy  Policy
	state   FrameState
	attempt int
	err     error
}

func NewFrame(url string, policy Policy) *Frame {
	return &Frame{url: url, policy: policy, state: FrameLoading, attempt: 1}
}

// Refresh resets the frame to loading and returns the new attempt id.
// Calling it while already loading is safe: the stale attempt is simply
// orphaned.
func (f *Frame) Refresh() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempt++
	f.state = FrameLoading
	f.err = nil
	return f.attempt
}

// SettleLoaded marks the attempt as loaded. It reports whether the
// settlement applied; settlements for superseded attempts are dropped.
func (f *Frame) SettleLoaded(attempt int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if attempt != f.attempt || f.state != FrameLoading {
		return false
	}
	f.state = FrameLoaded
	return true
}

// SettleFailed marks the attempt as failed with an embed-load error.
func (f *Frame) SettleFailed(attempt int, cause error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if attempt != f.attempt || f.state != FrameLoading {
		return false
	}
	f.state = FrameFailed
	f.err = errs.Wrap(errs.KindEmbedLoadFailure, "embed failed to load", cause)
	return true
}

func (f *Frame) State() FrameState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Frame) Attempt() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempt
}

func (f *Frame) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// FallbackURL is the escape hatch offered alongside retry when the frame
// fails: open the tool in a new top-level browsing context instead.
func (f *Frame) FallbackURL() string { return f.url }

// SandboxAttr exposes the frame's rendered sandbox attribute.
func (f *Frame) SandboxAttr() string { return f.policy.SandboxAttr() }

// AllowAttr exposes the frame's rendered allow attribute.
func (f *Frame) AllowAttr() string { return f.policy.AllowAttr() }
