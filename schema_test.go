package smpp34

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefineOptionalParamIdempotent(t *testing.T) {
	err := DefineOptionalParam(SUBMIT_SM, ParamInteger, 0x1500, "vendor_custom_ref", 1)
	require.NoError(t, err)

	err = DefineOptionalParam(SUBMIT_SM, ParamInteger, 0x1500, "vendor_custom_ref", 1)
	require.NoError(t, err)
}

func TestDefineOptionalParamConflictingRedefinition(t *testing.T) {
	err := DefineOptionalParam(DELIVER_SM, ParamInteger, 0x1501, "vendor_custom_flag", 1)
	require.NoError(t, err)

	err = DefineOptionalParam(DELIVER_SM, ParamInteger, 0x1501, "vendor_custom_flag", 2)
	require.Error(t, err)
	var regErr *RegistrationError
	require.ErrorAs(t, err, &regErr)
}

func TestDefineOptionalParamUnknownCommand(t *testing.T) {
	err := DefineOptionalParam(0x00009999, ParamInteger, 0x1502, "whatever", 1)
	require.Error(t, err)
	var regErr *RegistrationError
	require.ErrorAs(t, err, &regErr)
}

func TestLookupSchemaKnownAndUnknown(t *testing.T) {
	s, ok := lookupSchema(SUBMIT_SM)
	require.True(t, ok)
	require.Equal(t, "submit_sm", s.Name)

	_, ok = lookupSchema(0xdeadbeef)
	require.False(t, ok)
}
