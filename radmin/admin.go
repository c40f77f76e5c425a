package radmin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zkiln/radmin/kv"
	"github.com/zkiln/radmin/kvjson"
	"github.com/zkiln/radmin/pxtr"
	"github.com/zkiln/radmin/util/log"
)

// Admin runs requests against a directory service.
type Admin struct {
	service Service
	flags   uint32
}

// AdminOption configures an Admin.
type AdminOption func(*Admin)

// WithExtractFlags sets the parameter list flags sent with profile extract
// requests.
func WithExtractFlags(flags uint32) AdminOption {
	return func(a *Admin) {
		a.flags = flags
	}
}

// NewAdmin returns a runner calling service.
func NewAdmin(service Service, opts ...AdminOption) *Admin {
	a := &Admin{service: service}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run parses a JSON request, performs it, and returns the result as JSON.
// Requests are logged under the id tagged on ctx by the caller.
func (a *Admin) Run(ctx context.Context, request []byte) ([]byte, error) {
	start := time.Now()
	tree, err := kvjson.Parse(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	result, err := a.Execute(ctx, tree)
	if err != nil {
		return nil, err
	}
	out, err := kvjson.Generate(result)
	if err != nil {
		return nil, fmt.Errorf("failed to generate result: %w", err)
	}
	log.Infow(ctx, "request complete", "bytes", len(out), "elapsed", time.Since(start))
	return out, nil
}

// Execute performs the request held in tree and returns the result tree.
func (a *Admin) Execute(ctx context.Context, tree *kv.Tree) (*kv.Tree, error) {
	code, err := RequestFunction(tree)
	if err != nil {
		logMissing(ctx, err)
		return nil, err
	}
	ctx = log.AddTags(ctx, "func", code.String())
	group, err := Classify(code)
	if err != nil {
		return nil, err
	}
	if group != GroupProfileExtract {
		log.Warnw(ctx, "function not supported", "group", group.String())
		return nil, UnsupportedFunctionError{Code: code, Group: group}
	}
	parms, err := a.extractParms(tree, code)
	if err != nil {
		logMissing(ctx, err)
		return nil, err
	}
	log.Debugw(ctx, "calling directory service", "parms", len(parms))
	result, err := a.service.Call(ctx, code, parms)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", code, err)
	}
	if !result.Status.OK() {
		log.Debugw(ctx, "directory service call failed",
			"saf_rc", result.Status.SAFRC,
			"racf_rc", result.Status.RACFRC,
			"racf_rsn", result.Status.RACFRsn,
		)
		return nil, ServiceError{Code: code, Status: result.Status}
	}
	out, err := pxtr.Decode(ctx, result.Record)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s result: %w", code, err)
	}
	return out, nil
}

// RequestFunction reads the function code from the "func_type" member of the
// "racf" object.
func RequestFunction(tree *kv.Tree) (FunctionCode, error) {
	racf, err := tree.Find(nil, "racf", 1, true)
	if err != nil {
		return 0, err
	}
	if racf.Shape != kv.ShapeNested {
		return 0, InvalidRequestError{Key: "racf", Reason: "expected an object"}
	}
	node := member(tree, racf, "func_type")
	if node == nil {
		return 0, kv.RequiredKeyMissingError{Key: "func_type", Occurrence: 1}
	}
	value := node.Scalar(kv.KindNumber)
	if value == nil {
		return 0, InvalidRequestError{Key: "func_type", Reason: "expected a number"}
	}
	code, err := strconv.Atoi(value.Text)
	if err != nil {
		return 0, InvalidRequestError{Key: "func_type", Reason: "expected an integer"}
	}
	if code < 1 || code > 0xff {
		return 0, UnknownFunctionError{Code: code}
	}
	return FunctionCode(code), nil
}

// member returns the first direct member of parent named key.
func member(tree *kv.Tree, parent *kv.Node, key string) *kv.Node {
	for _, n := range tree.Children(parent) {
		if strings.EqualFold(n.Key, key) {
			return n
		}
	}
	return nil
}

// extractParms builds the profile extract parameter list from the request's
// "prof_name" and optional "class" members.
func (a *Admin) extractParms(tree *kv.Tree, code FunctionCode) ([]byte, error) {
	name, err := requestText(tree, "prof_name", true)
	if err != nil {
		return nil, err
	}
	class, err := requestText(tree, "class", false)
	if err != nil {
		return nil, err
	}
	if class == "" {
		class = code.DefaultClass()
	}
	if class == "" {
		return nil, InvalidRequestError{Key: "class", Reason: fmt.Sprintf("required for %s", code)}
	}
	parms, err := pxtr.EncodeParms(pxtr.Parms{
		Class:       class,
		ProfileName: name,
		Flags:       a.flags,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build parameter list: %w", err)
	}
	return parms, nil
}

func requestText(tree *kv.Tree, key string, required bool) (string, error) {
	node, err := tree.Find(nil, key, 1, required)
	if err != nil || node == nil {
		return "", err
	}
	value := node.Scalar(kv.KindText)
	if value == nil {
		return "", InvalidRequestError{Key: key, Reason: "expected a string"}
	}
	text, err := value.Unescaped()
	if err != nil {
		return "", InvalidRequestError{Key: key, Reason: err.Error()}
	}
	return text, nil
}

func logMissing(ctx context.Context, err error) {
	var missing kv.RequiredKeyMissingError
	if errors.As(err, &missing) {
		log.Warnw(ctx, "required key missing", "key", missing.Key)
	}
}
