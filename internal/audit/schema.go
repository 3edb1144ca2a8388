package audit

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

// schema is the compiled collection schema. A cue.Context is not safe for
// concurrent use, so every compile and unify goes through mu.
type schema struct {
	mu   sync.Mutex
	ctx  *cue.Context
	root cue.Value
}

var (
	loadOnce sync.Once
	loaded   *schema
	loadErr  error
)

func loadSchema() (*schema, error) {
	loadOnce.Do(func() {
		ctx := cuecontext.New()
		root := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
		if err := root.Err(); err != nil {
			loadErr = fmt.Errorf("compile audit schema: %w", err)
			return
		}
		loaded = &schema{ctx: ctx, root: root}
	})
	return loaded, loadErr
}

// validate checks raw JSON stored under key. It returns one message per CUE
// error; nil means the value conforms.
func (s *schema) validate(key, raw string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	def := s.root.LookupPath(cue.MakePath(cue.Str("collections"), cue.Str(key)))
	if !def.Exists() {
		return nil
	}

	data := s.ctx.CompileString(raw, cue.Filename(key))
	if err := data.Err(); err != nil {
		return messages(err)
	}
	if err := def.Unify(data).Validate(cue.Concrete(true)); err != nil {
		return messages(err)
	}
	return nil
}

func messages(err error) []string {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}
