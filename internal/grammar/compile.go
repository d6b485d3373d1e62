package grammar

import (
	"fmt"
	"unicode/utf8"

	"cuelang.org/go/cue"

	"github.com/roach88/strparse/internal/engine"
)

var ruleFields = map[string]bool{
	"on": true, "prev": true, "next": true, "first": true, "last": true,
	"clear": true, "emit": true, "advance": true, "stop": true, "goto": true,
	"fail": true, "code": true, "position": true,
}

// CompileAll compiles every grammar declared under the top-level "grammar"
// field of v, in declaration order.
func CompileAll(v cue.Value) ([]*Grammar, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	gv := v.LookupPath(cue.ParsePath("grammar"))
	if !gv.Exists() {
		return nil, &CompileError{
			Field:   "grammar",
			Message: "no grammar declared",
			Pos:     v.Pos(),
		}
	}

	iter, err := gv.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var grammars []*Grammar
	for iter.Next() {
		g, err := Compile(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		grammars = append(grammars, g)
	}
	return grammars, nil
}

// Compile compiles a single grammar value.
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(src)
//	g, err := Compile("quoted", v.LookupPath(cue.ParsePath("grammar.quoted")))
func Compile(name string, v cue.Value) (*Grammar, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	g := &Grammar{Name: name}

	desc, _, err := optString(v, "description")
	if err != nil {
		return nil, err
	}
	g.Description = desc

	stateVal := v.LookupPath(cue.ParsePath("state"))
	if !stateVal.Exists() {
		return nil, &CompileError{
			Field:   "state",
			Message: "at least one state is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := stateVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	ids := make(map[engine.State]string)
	for iter.Next() {
		st, err := compileState(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		if other, dup := ids[st.ID]; dup {
			return nil, &CompileError{
				Field:   "state." + st.Name + ".id",
				Message: fmt.Sprintf("id %d already used by state %s", st.ID, other),
				Pos:     iter.Value().Pos(),
			}
		}
		ids[st.ID] = st.Name
		g.States = append(g.States, st)
	}

	if len(g.States) == 0 {
		return nil, &CompileError{
			Field:   "state",
			Message: "at least one state is required",
			Pos:     stateVal.Pos(),
		}
	}

	if err := resolveGotos(g, stateVal); err != nil {
		return nil, err
	}
	return g, nil
}

func compileState(name string, v cue.Value) (State, error) {
	st := State{Name: name}
	field := "state." + name

	idVal := v.LookupPath(cue.ParsePath("id"))
	if !idVal.Exists() {
		return st, &CompileError{Field: field + ".id", Message: "id is required", Pos: v.Pos()}
	}
	id, err := idVal.Int64()
	if err != nil {
		return st, formatCUEError(err)
	}
	if id < 0 {
		return st, &CompileError{Field: field + ".id", Message: "id must be non-negative", Pos: idVal.Pos()}
	}
	st.ID = engine.State(id)

	rulesVal := v.LookupPath(cue.ParsePath("rule"))
	if !rulesVal.Exists() {
		return st, &CompileError{Field: field + ".rule", Message: "at least one rule is required", Pos: v.Pos()}
	}
	list, err := rulesVal.List()
	if err != nil {
		return st, formatCUEError(err)
	}

	for i := 0; list.Next(); i++ {
		r, err := compileRule(fmt.Sprintf("%s.rule[%d]", field, i), list.Value())
		if err != nil {
			return st, err
		}
		st.Rules = append(st.Rules, r)
	}
	if len(st.Rules) == 0 {
		return st, &CompileError{Field: field + ".rule", Message: "at least one rule is required", Pos: rulesVal.Pos()}
	}
	return st, nil
}

func compileRule(field string, v cue.Value) (Rule, error) {
	var r Rule

	iter, err := v.Fields()
	if err != nil {
		return r, formatCUEError(err)
	}
	for iter.Next() {
		if !ruleFields[iter.Label()] {
			return r, &CompileError{
				Field:   field + "." + iter.Label(),
				Message: "unknown rule field",
				Pos:     iter.Value().Pos(),
			}
		}
	}

	for _, c := range []struct {
		name string
		dst  **string
	}{{"on", &r.On}, {"prev", &r.Prev}, {"next", &r.Next}} {
		s, ok, err := optString(v, c.name)
		if err != nil {
			return r, err
		}
		if !ok {
			continue
		}
		if utf8.RuneCountInString(s) != 1 {
			return r, &CompileError{
				Field:   field + "." + c.name,
				Message: fmt.Sprintf("must be a single character, got %q", s),
				Pos:     v.LookupPath(cue.ParsePath(c.name)).Pos(),
			}
		}
		*c.dst = &s
	}

	for _, c := range []struct {
		name string
		dst  **bool
	}{{"first", &r.First}, {"last", &r.Last}} {
		b, ok, err := optBool(v, c.name)
		if err != nil {
			return r, err
		}
		if ok {
			*c.dst = &b
		}
	}

	for _, c := range []struct {
		name string
		dst  *bool
	}{{"clear", &r.Clear}, {"emit", &r.Emit}, {"advance", &r.Advance}, {"stop", &r.Stop}, {"position", &r.Position}} {
		b, _, err := optBool(v, c.name)
		if err != nil {
			return r, err
		}
		*c.dst = b
	}

	if r.Goto, _, err = optString(v, "goto"); err != nil {
		return r, err
	}
	if r.Fail, _, err = optString(v, "fail"); err != nil {
		return r, err
	}

	codeVal := v.LookupPath(cue.ParsePath("code"))
	if codeVal.Exists() {
		code, err := codeVal.Int64()
		if err != nil {
			return r, formatCUEError(err)
		}
		r.Code = int(code)
	}

	if r.Fail != "" && (r.Emit || r.Advance || r.Stop || r.Clear || r.Goto != "") {
		return r, &CompileError{
			Field:   field + ".fail",
			Message: "a failing rule cannot also have effects",
			Pos:     v.Pos(),
		}
	}
	return r, nil
}

// resolveGotos checks every goto target and records its state id.
func resolveGotos(g *Grammar, stateVal cue.Value) error {
	byName := make(map[string]engine.State, len(g.States))
	for _, st := range g.States {
		byName[st.Name] = st.ID
	}

	for si := range g.States {
		st := &g.States[si]
		for ri := range st.Rules {
			r := &st.Rules[ri]
			if r.Goto == "" {
				continue
			}
			id, ok := byName[r.Goto]
			if !ok {
				return &CompileError{
					Field:   fmt.Sprintf("state.%s.rule[%d].goto", st.Name, ri),
					Message: fmt.Sprintf("undefined state %q", r.Goto),
					Pos:     stateVal.LookupPath(cue.MakePath(cue.Str(st.Name))).Pos(),
				}
			}
			r.gotoID = id
		}
	}
	return nil
}

func optString(v cue.Value, field string) (string, bool, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return "", false, nil
	}
	s, err := f.String()
	if err != nil {
		return "", false, formatCUEError(err)
	}
	return s, true, nil
}

func optBool(v cue.Value, field string) (bool, bool, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return false, false, nil
	}
	b, err := f.Bool()
	if err != nil {
		return false, false, formatCUEError(err)
	}
	return b, true, nil
}
