// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package types

// Unify computes a substitution which makes exp and act equal. exp is the type required by the
// context (a declared parameter, an annotation); act is the type provided.
//
// Kinds recorded against variables bound during unification are checked against the types the
// variables are bound to, or moved to the variables they are linked with. If unification fails,
// kinds is left unchanged.
func Unify(exp, act MonoType, kinds TvarKinds, fresher *Fresher) (Substitution, error) {
	u := unifier{sub: make(Substitution), kinds: kinds, fresher: fresher}
	if err := u.unify(exp, act); err != nil {
		u.rollback()
		return nil, err
	}
	return u.sub.Normalize(), nil
}

type unifier struct {
	sub     Substitution
	kinds   TvarKinds
	fresher *Fresher
	// copy of kinds taken before the first modification
	saved TvarKinds
}

func (u *unifier) saveKinds() {
	if u.saved == nil {
		u.saved = u.kinds.Clone()
	}
}

func (u *unifier) rollback() {
	if u.saved == nil {
		return
	}
	for tv := range u.kinds {
		delete(u.kinds, tv)
	}
	for tv, ks := range u.saved {
		u.kinds[tv] = ks
	}
}

func (u *unifier) bind(tv Tvar, t MonoType) error {
	if v, ok := t.(*Var); ok && v.Tvar == tv {
		return nil
	}
	if Occurs(tv, t) {
		return &TypeError{Reason: OccursCheck, Expected: &Var{Tvar: tv}, Found: t}
	}
	u.sub[tv] = t
	ks, ok := u.kinds[tv]
	if !ok {
		return nil
	}
	u.saveKinds()
	delete(u.kinds, tv)
	for _, k := range ks {
		if err := Constrain(t, k, u.kinds); err != nil {
			return err
		}
	}
	return nil
}

func (u *unifier) unify(exp, act MonoType) error {
	exp, act = u.sub.resolve(exp), u.sub.resolve(act)

	if IsError(exp) || IsError(act) {
		return nil
	}
	if v, ok := exp.(*Var); ok {
		return u.bind(v.Tvar, act)
	}
	if v, ok := act.(*Var); ok {
		return u.bind(v.Tvar, exp)
	}

	switch exp := exp.(type) {
	case *BoundVar:
		if b, ok := act.(*BoundVar); ok && b.Tvar == exp.Tvar {
			return nil
		}

	case *Builtin:
		switch act := act.(type) {
		case *Builtin:
			if act.Name == exp.Name {
				return nil
			}
		case *Label:
			if exp.Name == StringName {
				return nil
			}
		}

	case *Label:
		switch act := act.(type) {
		case *Label:
			if act.Name == exp.Name {
				return nil
			}
		case *Builtin:
			if act.Name == StringName {
				return nil
			}
		}

	case *Collection:
		if act, ok := act.(*Collection); ok {
			if act.Kind != exp.Kind {
				return &TypeError{Reason: CollectionKindMismatch, Expected: exp, Found: act}
			}
			return u.unify(exp.Elem, act.Elem)
		}

	case *Dict:
		if act, ok := act.(*Dict); ok {
			if err := u.unify(exp.Key, act.Key); err != nil {
				return err
			}
			return u.unify(exp.Val, act.Val)
		}

	case RecordEmpty:
		switch act.(type) {
		case RecordEmpty:
			return nil
		case *RecordExtend:
			return u.unifyRecords(exp, act)
		}

	case *RecordExtend:
		if IsRecord(act) {
			return u.unifyRecords(exp, act)
		}

	case *Function:
		if act, ok := act.(*Function); ok {
			return u.unifyFunctions(exp, act)
		}
	}

	return mismatch(exp, act)
}

// Returns extra types in exp and act, respectively, if the lengths do not match.
// Lists are unified from higher indexes to lower indexes, starting at the highest index of each list.
// Higher indexes hold outer fields, so the extra types are the innermost fields:
//
//	exp: [0: a, 1: b, 2: c, 3: d] ==> extra types in exp: [0: a]
//	act:       [0: b, 1: c, 2: d] ==> extra types in act: []
func (u *unifier) unifyLists(exp, act TypeList) (extraExp, extraAct TypeList, err error) {
	le, la := exp.Len(), act.Len()
	// common case for unscoped labels:
	if le == 1 && la == 1 {
		return EmptyTypeList, EmptyTypeList, u.unify(exp.Get(0), act.Get(0))
	}
	n := le
	if la < n {
		n = la
	}
	for i := 0; i < n; i++ {
		if err := u.unify(exp.Get(le-n+i), act.Get(la-n+i)); err != nil {
			return EmptyTypeList, EmptyTypeList, err
		}
	}
	return exp.Slice(0, le-n), act.Slice(0, la-n), nil
}

func (u *unifier) unifyRecords(exp, act MonoType) error {
	labelsExp, tailExp := CollectRecord(exp)
	labelsAct, tailAct := CollectRecord(act)

	// labels required by exp which act does not provide, and labels provided by act which
	// exp does not mention:
	var missing, extra TypeMapBuilder
	var err error
	labelsExp.Range(func(label string, ets TypeList) bool {
		ats, ok := labelsAct.Get(label)
		if !ok {
			missing.EnsureInitialized()
			missing.Set(label, ets)
			return true
		}
		var extraExp, extraAct TypeList
		extraExp, extraAct, err = u.unifyLists(ets, ats)
		if err != nil {
			return false
		}
		if extraExp.Len() > 0 {
			missing.EnsureInitialized()
			missing.Set(label, extraExp)
		}
		if extraAct.Len() > 0 {
			extra.EnsureInitialized()
			extra.Set(label, extraAct)
		}
		return true
	})
	if err != nil {
		return err
	}
	labelsAct.Range(func(label string, ats TypeList) bool {
		if _, ok := labelsExp.Get(label); !ok {
			extra.EnsureInitialized()
			extra.Set(label, ats)
		}
		return true
	})

	if tailExp == nil {
		tailExp = RecordEmpty{}
	}
	if tailAct == nil {
		tailAct = RecordEmpty{}
	}
	tailExp, tailAct = u.sub.resolve(tailExp), u.sub.resolve(tailAct)
	if IsError(tailExp) || IsError(tailAct) {
		return nil
	}
	_, extExp := tailExp.(*RecordExtend)
	_, extAct := tailAct.(*RecordExtend)
	if extExp || extAct {
		// a tail was bound while unifying fields; unify the remaining fields again
		return u.unify(ExtendRecord(missing.Build(), tailExp), ExtendRecord(extra.Build(), tailAct))
	}

	zm, ze := missing.Len() == 0, extra.Len() == 0
	switch {
	case zm && ze: // all labels match
		return u.unifyTails(tailExp, tailAct)

	case !zm && ze: // act must extend its tail with the missing labels
		if _, ok := tailAct.(*Var); !ok {
			return labelError(MissingLabel, exp, act, missing.Build())
		}
		return u.unify(ExtendRecord(missing.Build(), tailExp), tailAct)

	case zm && !ze: // exp must extend its tail with the extra labels
		if _, ok := tailExp.(*Var); !ok {
			return labelError(ExtraLabel, exp, act, extra.Build())
		}
		return u.unify(tailExp, ExtendRecord(extra.Build(), tailAct))

	default: // labels missing on both sides
		ve, okExp := tailExp.(*Var)
		va, okAct := tailAct.(*Var)
		switch {
		case !okAct:
			return labelError(MissingLabel, exp, act, missing.Build())
		case !okExp:
			return labelError(ExtraLabel, exp, act, extra.Build())
		case ve.Tvar == va.Tvar:
			return &TypeError{Reason: RecordTail, Expected: exp, Found: act}
		}
		rest := u.fresher.FreshVar()
		if err := u.unify(tailExp, ExtendRecord(extra.Build(), rest)); err != nil {
			return err
		}
		return u.unify(ExtendRecord(missing.Build(), rest), tailAct)
	}
}

// labelParams returns the names of required and optional parameters of f whose types are
// variables of kind Label.
func (u *unifier) labelParams(f *Function) []string {
	var names []string
	isLabel := func(t MonoType) bool {
		v, ok := u.sub.resolve(t).(*Var)
		if !ok {
			return false
		}
		for _, k := range u.kinds[v.Tvar] {
			if k == LabelKind {
				return true
			}
		}
		return false
	}
	for _, name := range f.ReqNames() {
		if isLabel(f.Req[name]) {
			names = append(names, name)
		}
	}
	for _, name := range f.OptNames() {
		if isLabel(f.Opt[name].Type) {
			names = append(names, name)
		}
	}
	return names
}

func (u *unifier) unifyTails(exp, act MonoType) error {
	if _, ok := exp.(RecordEmpty); ok {
		if _, ok := act.(RecordEmpty); ok {
			return nil
		}
	}
	err := u.unify(exp, act)
	if te, ok := err.(*TypeError); ok && te.Reason == Mismatch {
		te.Reason = RecordTail
	}
	return err
}

func labelError(reason Reason, exp, act MonoType, labels TypeMap) *TypeError {
	key, _ := labels.First()
	return &TypeError{Reason: reason, Expected: exp, Found: act, Name: LabelString(LabelFromKey(key))}
}

// Functions are unified as a declared signature (exp) against a provided one (act):
//
//   - every required parameter of exp must be provided by act, as a required or optional parameter;
//   - optional parameters of exp unify with same-named parameters of act, including default types;
//   - every required parameter of act must be a parameter of exp, or name the pipe parameter of exp;
//   - pipe parameters unify by type, regardless of name;
//   - return types are unified last.
//
// Label-kinded parameters are unified first, so record types which use them as field labels
// see the bound labels regardless of parameter names.
func (u *unifier) unifyFunctions(exp, act *Function) error {
	for _, name := range u.labelParams(exp) {
		et, _ := exp.Param(name)
		at, ok := act.Param(name)
		if !ok {
			continue
		}
		if err := u.unify(et, at); err != nil {
			return err
		}
	}

	for _, name := range exp.ReqNames() {
		et := exp.Req[name]
		if at, ok := act.Req[name]; ok {
			if err := u.unify(et, at); err != nil {
				return err
			}
			continue
		}
		if aa, ok := act.Opt[name]; ok {
			if err := u.unify(et, aa.Type); err != nil {
				return err
			}
			continue
		}
		return &TypeError{Reason: MissingArgument, Expected: exp, Found: act, Name: name}
	}

	for _, name := range exp.OptNames() {
		ea := exp.Opt[name]
		if at, ok := act.Req[name]; ok {
			if err := u.unify(ea.Type, at); err != nil {
				return err
			}
			continue
		}
		if aa, ok := act.Opt[name]; ok {
			if err := u.unify(ea.Type, aa.Type); err != nil {
				return err
			}
			if ea.Default != nil && aa.Default != nil {
				if err := u.unify(ea.Default, aa.Default); err != nil {
					return err
				}
			}
		}
	}

	pipeByName := false
	for _, name := range act.ReqNames() {
		if _, ok := exp.Req[name]; ok {
			continue
		}
		if _, ok := exp.Opt[name]; ok {
			continue
		}
		if exp.Pipe != nil && act.Pipe == nil && exp.Pipe.Name == name {
			if err := u.unify(exp.Pipe.Type, act.Req[name]); err != nil {
				return err
			}
			pipeByName = true
			continue
		}
		return &TypeError{Reason: ExtraArgument, Expected: exp, Found: act, Name: name}
	}

	switch {
	case exp.Pipe != nil && act.Pipe != nil:
		if err := u.unify(exp.Pipe.Type, act.Pipe.Type); err != nil {
			return err
		}
	case exp.Pipe != nil && !pipeByName:
		return &TypeError{Reason: MissingPipeArgument, Expected: exp, Found: act, Name: exp.Pipe.Name}
	case exp.Pipe == nil && act.Pipe != nil:
		return &TypeError{Reason: UnexpectedPipeArgument, Expected: exp, Found: act, Name: act.Pipe.Name}
	}

	return u.unify(exp.Retn, act.Retn)
}
