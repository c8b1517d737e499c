package webembed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"toolhaven/pkg/errs"
)

func TestPolicyValidate(t *testing.T) {
	ok := Policy{
		Sandbox:     []string{"allow-scripts", "allow-same-origin", "allow-forms"},
		Permissions: []string{"microphone", "clipboard-write"},
	}
	assert.NoError(t, ok.Validate())

	badFlag := Policy{Sandbox: []string{"allow-scripts", "allow-top-navigation"}}
	err := badFlag.Validate()
	assert.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))

	badPerm := Policy{Permissions: []string{"usb"}}
	err = badPerm.Validate()
	assert.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
}

func TestPolicyAttrsRenderedVerbatim(t *testing.T) {
	p := Policy{
		Sandbox:     []string{"allow-scripts", "allow-same-origin"},
		Permissions: []string{"camera", "microphone"},
	}
	assert.Equal(t, "allow-scripts allow-same-origin", p.SandboxAttr())
	assert.Equal(t, "camera; microphone", p.AllowAttr())

	empty := Policy{}
	assert.Equal(t, "", empty.SandboxAttr())
	assert.Equal(t, "", empty.AllowAttr())
}
