package normalize

import (
	"context"
	"fmt"
	"time"

	"github.com/itchyny/gojq"
)

// jqTimeout bounds the execution time of a single jq rule. Vendor objects
// are small; a rule that runs longer than this is stuck.
const jqTimeout = 1 * time.Second

// JQ returns a rule that evaluates a jq expression against the source
// document. The expression is compiled once; JQ panics on a syntax error,
// so rule tables fail fast at package init the same way regexp.MustCompile
// does. Runtime evaluation errors omit the field.
func JQ(expr string) Rule {
	query, err := gojq.Parse(expr)
	if err != nil {
		panic(fmt.Sprintf("normalize: invalid jq expression %q: %v", expr, err))
	}
	code, err := gojq.Compile(query)
	if err != nil {
		panic(fmt.Sprintf("normalize: cannot compile jq expression %q: %v", expr, err))
	}
	return &jqRule{code: code}
}

type jqRule struct {
	code *gojq.Code
}

func (r *jqRule) resolve(source any) (any, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), jqTimeout)
	defer cancel()

	iter := r.code.RunWithContext(ctx, source)
	v, ok := iter.Next()
	if !ok {
		return nil, false
	}
	if _, isErr := v.(error); isErr {
		return nil, false
	}
	return v, v != nil
}
