package radmin_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zkiln/radmin/radmin"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		assertion string
		codes     []radmin.FunctionCode
		group     radmin.FunctionGroup
	}{
		{
			"user and group updates",
			[]radmin.FunctionCode{radmin.AddUser, radmin.DeleteUser, radmin.AlterUser, radmin.ListUser,
				radmin.AddGroup, radmin.DeleteGroup, radmin.AlterGroup, radmin.ListGroup},
			radmin.GroupUpdate,
		},
		{
			"resource updates",
			[]radmin.FunctionCode{radmin.Connect, radmin.Remove, radmin.AddGeneralResource,
				radmin.DeleteGeneralResource, radmin.AlterGeneralResource, radmin.ListGeneralResource,
				radmin.AddDataset, radmin.DeleteDataset, radmin.AlterDataset, radmin.ListDataset,
				radmin.Permit, radmin.AlterSetropts},
			radmin.GroupUpdate,
		},
		{
			"profile extracts",
			[]radmin.FunctionCode{radmin.ExtractUser, radmin.ExtractNextUser, radmin.ExtractGroup,
				radmin.ExtractNextGroup, radmin.ExtractConnect, radmin.ExtractResource, radmin.ExtractNextResource},
			radmin.GroupProfileExtract,
		},
		{"password envelope", []radmin.FunctionCode{radmin.ExtractPasswordEnvelope}, radmin.GroupPasswordExtract},
		{"passphrase envelope", []radmin.FunctionCode{radmin.ExtractPassphraseEnvelope}, radmin.GroupPassphraseExtract},
		{"setropts extract", []radmin.FunctionCode{radmin.ExtractSetropts}, radmin.GroupSetroptsExtract},
		{"setropts unload", []radmin.FunctionCode{radmin.UnloadSetropts}, radmin.GroupSetroptsUnload},
		{"command", []radmin.FunctionCode{radmin.RunCommand}, radmin.GroupCommandRun},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			for _, code := range c.codes {
				group, err := radmin.Classify(code)
				require.NoError(t, err, code.String())
				require.Equal(t, c.group, group, code.String())
			}
		})
	}

	t.Run("unknown codes", func(t *testing.T) {
		for _, code := range []radmin.FunctionCode{0, 0x21, 0xff} {
			_, err := radmin.Classify(code)
			require.True(t, errors.Is(err, radmin.UnknownFunctionError{}))
		}
	})
}

func TestFunctionCodes(t *testing.T) {
	require.Equal(t, radmin.FunctionCode(25), radmin.ExtractUser)
	require.Equal(t, radmin.FunctionCode(0x1f), radmin.ExtractResource)
	require.Equal(t, "XTR_USER", radmin.ExtractUser.String())
	require.Equal(t, "FUNCTION(99)", radmin.FunctionCode(99).String())

	require.True(t, radmin.ExtractNextGroup.IsNext())
	require.False(t, radmin.ExtractGroup.IsNext())

	require.Equal(t, "USER", radmin.ExtractNextUser.DefaultClass())
	require.Equal(t, "GROUP", radmin.ExtractGroup.DefaultClass())
	require.Equal(t, "CONNECT", radmin.ExtractConnect.DefaultClass())
	require.Empty(t, radmin.ExtractResource.DefaultClass())
}
