// Package webembed models the isolated-frame launcher for third-party
// tools: a per-tool capability allow-list applied verbatim to the frame, and
// the frame's load lifecycle with retry and external-fallback actions.
package webembed

import (
	"strings"

	"toolhaven/pkg/errs"
)

// The full set of sandbox flags and permission grants a tool entry may
// request. Anything outside these sets is rejected at write time, so a
// stored policy can always be rendered verbatim.
var (
	allowedSandboxFlags = map[string]struct{}{
		"allow-scripts":      {},
		"allow-same-origin":  {},
		"allow-forms":        {},
		"allow-popups":       {},
		"allow-modals":       {},
		"allow-downloads":    {},
		"allow-presentation": {},
	}
	allowedPermissions = map[string]struct{}{
		"camera":          {},
		"microphone":      {},
		"geolocation":     {},
		"fullscreen":      {},
		"autoplay":        {},
		"clipboard-read":  {},
		"clipboard-write": {},
	}
)

// Policy is a tool's explicit frame capability allow-list.
type Policy struct {
	Sandbox     []string
	Permissions []string
}

// Validate rejects any flag or permission outside the allowed sets.
func (p Policy) Validate() error {
	for _, f := range p.Sandbox {
		if _, ok := allowedSandboxFlags[f]; !ok {
			return errs.New(errs.KindValidation, "unknown sandbox flag: "+f)
		}
	}
	for _, perm := range p.Permissions {
		if _, ok := allowedPermissions[perm]; !ok {
			return errs.New(errs.KindValidation, "unknown permission: "+perm)
		}
	}
	return nil
}

// SandboxAttr renders the iframe sandbox attribute value, flags verbatim in
// stored order.
func (p Policy) SandboxAttr() string {
	return strings.Join(p.Sandbox, " ")
}

// AllowAttr renders the iframe allow attribute value.
func (p Policy) AllowAttr() string {
	return strings.Join(p.Permissions, "; ")
}
