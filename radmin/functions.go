package radmin

import "fmt"

/*
Package radmin runs directory-service administration requests. A request is
a JSON document naming a function code under "racf.func_type"; the runner
builds the function's parameter list, calls the service, and renders the
record it returns as JSON.
*/

////////////////////////////////////////////////////////////////////////////////

// FunctionCode identifies an administration function.
type FunctionCode uint8

const (
	AddUser FunctionCode = iota + 1
	DeleteUser
	AlterUser
	ListUser
	RunCommand
	AddGroup
	DeleteGroup
	AlterGroup
	ListGroup
	Connect
	Remove
	AddGeneralResource
	DeleteGeneralResource
	AlterGeneralResource
	ListGeneralResource
	AddDataset
	DeleteDataset
	AlterDataset
	ListDataset
	Permit
	AlterSetropts
	ExtractSetropts
	UnloadSetropts
	ExtractPasswordEnvelope
	ExtractUser
	ExtractNextUser
	ExtractGroup
	ExtractNextGroup
	ExtractConnect
	ExtractPassphraseEnvelope
	ExtractResource
	ExtractNextResource
)

var functionNames = map[FunctionCode]string{
	AddUser:                   "ADD_USER",
	DeleteUser:                "DEL_USER",
	AlterUser:                 "ALT_USER",
	ListUser:                  "LST_USER",
	RunCommand:                "RUN_CMD",
	AddGroup:                  "ADD_GROUP",
	DeleteGroup:               "DEL_GROUP",
	AlterGroup:                "ALT_GROUP",
	ListGroup:                 "LST_GROUP",
	Connect:                   "CONNECT",
	Remove:                    "REMOVE",
	AddGeneralResource:        "ADD_GENRES",
	DeleteGeneralResource:     "DEL_GENRES",
	AlterGeneralResource:      "ALT_GENRES",
	ListGeneralResource:       "LST_GENRES",
	AddDataset:                "ADD_DS",
	DeleteDataset:             "DEL_DS",
	AlterDataset:              "ALT_DS",
	ListDataset:               "LST_DS",
	Permit:                    "PERMIT",
	AlterSetropts:             "ALT_SETR",
	ExtractSetropts:           "XTR_SETR",
	UnloadSetropts:            "UNL_SETR",
	ExtractPasswordEnvelope:   "XTR_PWENV",
	ExtractUser:               "XTR_USER",
	ExtractNextUser:           "XTR_NEXT_USER",
	ExtractGroup:              "XTR_GROUP",
	ExtractNextGroup:          "XTR_NEXT_GROUP",
	ExtractConnect:            "XTR_CONNECT",
	ExtractPassphraseEnvelope: "XTR_PPENV",
	ExtractResource:           "XTR_RESOURCE",
	ExtractNextResource:       "XTR_NEXT_RESOURCE",
}

func (c FunctionCode) String() string {
	if name, ok := functionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("FUNCTION(%d)", uint8(c))
}

// FunctionGroup is the family of functions sharing a parameter list and
// result format.
type FunctionGroup uint8

const (
	GroupUpdate FunctionGroup = iota + 1
	GroupProfileExtract
	GroupPasswordExtract
	GroupPassphraseExtract
	GroupSetroptsExtract
	GroupSetroptsUnload
	GroupCommandRun
)

func (g FunctionGroup) String() string {
	switch g {
	case GroupUpdate:
		return "update"
	case GroupProfileExtract:
		return "profile extract"
	case GroupPasswordExtract:
		return "password envelope extract"
	case GroupPassphraseExtract:
		return "passphrase envelope extract"
	case GroupSetroptsExtract:
		return "setropts extract"
	case GroupSetroptsUnload:
		return "setropts unload"
	case GroupCommandRun:
		return "command run"
	default:
		return fmt.Sprintf("group(%d)", uint8(g))
	}
}

// Classify returns the group a function belongs to.
func Classify(code FunctionCode) (FunctionGroup, error) {
	switch {
	case code >= AddUser && code <= ListUser, code >= AddGroup && code <= AlterSetropts:
		return GroupUpdate, nil
	case code >= ExtractUser && code <= ExtractConnect, code == ExtractResource, code == ExtractNextResource:
		return GroupProfileExtract, nil
	case code == ExtractPasswordEnvelope:
		return GroupPasswordExtract, nil
	case code == ExtractPassphraseEnvelope:
		return GroupPassphraseExtract, nil
	case code == ExtractSetropts:
		return GroupSetroptsExtract, nil
	case code == UnloadSetropts:
		return GroupSetroptsUnload, nil
	case code == RunCommand:
		return GroupCommandRun, nil
	default:
		return 0, UnknownFunctionError{Code: int(code)}
	}
}

// IsNext reports whether the function extracts the profile following the
// one named in its request.
func (c FunctionCode) IsNext() bool {
	return c == ExtractNextUser || c == ExtractNextGroup || c == ExtractNextResource
}

// DefaultClass returns the class implied by a profile extract function, or
// "" for functions whose requests must name a class.
func (c FunctionCode) DefaultClass() string {
	switch c {
	case ExtractUser, ExtractNextUser:
		return "USER"
	case ExtractGroup, ExtractNextGroup:
		return "GROUP"
	case ExtractConnect:
		return "CONNECT"
	default:
		return ""
	}
}
