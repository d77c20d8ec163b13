package staged

import (
	"errors"
	"testing"
)

func traceEqual(got, want []int) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// The scenario behind this test: var1 is bound before the partial
// evaluation, var2 only afterwards. The bound half must fold (its map
// function runs once, during folding), the unbound half must stay
// symbolic (its map function runs on every evaluation of the residual).
func TestPartialFoldsBoundPrefixDefersUnbound(t *testing.T) {
	st := NewStage()
	var1, err := NewSlot[float64](st, "var1")
	if err != nil {
		t.Fatalf("new slot var1: %v", err)
	}
	var2, err := NewSlot[float64](st, "var2")
	if err != nil {
		t.Fatalf("new slot var2: %v", err)
	}

	var trace []int
	f1 := Map(var1, func(v float64) float64 { trace = append(trace, 1); return v })
	f2 := Map(var2, func(v float64) float64 { trace = append(trace, 2); return v })
	sum := Add(f1, f2)

	if err := BindValue(st, "var1", 1.5); err != nil {
		t.Fatalf("bind var1: %v", err)
	}
	residual, err := Partial(st, sum)
	if err != nil {
		t.Fatalf("partial: %v", err)
	}
	if !traceEqual(trace, []int{1}) {
		t.Fatalf("trace after partial = %v, want [1]", trace)
	}

	if err := BindValue(st, "var2", -0.5); err != nil {
		t.Fatalf("bind var2: %v", err)
	}

	v, err := Eval(st, residual)
	if err != nil {
		t.Fatalf("first eval of residual: %v", err)
	}
	if v != 1.0 {
		t.Errorf("first eval of residual = %v, want 1.0", v)
	}
	if !traceEqual(trace, []int{1, 2}) {
		t.Errorf("trace after first eval = %v, want [1 2]", trace)
	}

	v, err = Eval(st, residual)
	if err != nil {
		t.Fatalf("second eval of residual: %v", err)
	}
	if v != 1.0 {
		t.Errorf("second eval of residual = %v, want 1.0", v)
	}
	if !traceEqual(trace, []int{1, 2, 2}) {
		t.Errorf("trace after second eval = %v, want [1 2 2]", trace)
	}
}

func TestPartialUnboundSlotStaysSymbolic(t *testing.T) {
	st := NewStage()
	slot, err := NewSlot[int](st, "later")
	if err != nil {
		t.Fatalf("new slot: %v", err)
	}

	residual, err := Partial[int](st, slot)
	if err != nil {
		t.Fatalf("partial of unbound slot: %v", err)
	}
	if _, err := Eval(st, residual); !errors.Is(err, ErrEvaluation) {
		t.Fatalf("residual eval before binding: %v, want unbound failure", err)
	}

	// The residual re-checks the slot's cell on every evaluation.
	if err := BindValue(st, "later", 11); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if v, err := Eval(st, residual); err != nil || v != 11 {
		t.Errorf("residual eval after binding = %d, %v, want 11", v, err)
	}
	if err := BindValue(st, "later", 12); err != nil {
		t.Fatalf("rebind: %v", err)
	}
	if v, err := Eval(st, residual); err != nil || v != 12 {
		t.Errorf("residual eval after rebinding = %d, %v, want 12", v, err)
	}
}

func TestPartialConstantBindingSurvivesRebind(t *testing.T) {
	st := NewStage()
	slot, err := NewSlot[string](st, "greeting")
	if err != nil {
		t.Fatalf("new slot: %v", err)
	}
	if err := BindValue(st, "greeting", "A"); err != nil {
		t.Fatalf("bind: %v", err)
	}

	residual, err := Partial[string](st, slot)
	if err != nil {
		t.Fatalf("partial: %v", err)
	}
	if _, ok := residual.(*Constant[string]); !ok {
		t.Fatalf("residual of constant-bound slot = %s, want a constant", residual.Describe())
	}

	if err := BindValue(st, "greeting", "B"); err != nil {
		t.Fatalf("rebind: %v", err)
	}
	if v, _ := Eval(st, residual); v != "A" {
		t.Errorf("folded residual after rebind = %q, want %q", v, "A")
	}
	if v, _ := Eval[string](st, slot); v != "B" {
		t.Errorf("slot after rebind = %q, want %q", v, "B")
	}
}

func TestPartialTransformFoldRunsFunctionOnce(t *testing.T) {
	st := NewStage()
	slot, err := NewSlot[int](st, "n")
	if err != nil {
		t.Fatalf("new slot: %v", err)
	}
	if err := BindValue(st, "n", 10); err != nil {
		t.Fatalf("bind: %v", err)
	}

	calls := 0
	doubled := Map(slot, func(v int) int { calls++; return v * 2 })

	residual, err := Partial(st, doubled)
	if err != nil {
		t.Fatalf("partial: %v", err)
	}
	if calls != 1 {
		t.Fatalf("transform ran %d times during folding, want 1", calls)
	}
	for i := 0; i < 3; i++ {
		if v, err := Eval(st, residual); err != nil || v != 20 {
			t.Fatalf("residual eval = %d, %v, want 20", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("transform ran %d times in total, want 1", calls)
	}
}

func TestPartialDoesNotFoldAcrossFlatMap(t *testing.T) {
	st := NewStage()
	calls := 0
	n := FlatMap(Lift(2), func(v int) Node[int] {
		calls++
		return Lift(v * 3)
	})

	residual, err := Partial(st, n)
	if err != nil {
		t.Fatalf("partial: %v", err)
	}
	if calls != 0 {
		t.Fatalf("flat-map function ran %d times during partial, want 0", calls)
	}
	if _, ok := residual.(*Constant[int]); ok {
		t.Fatal("partial folded across the flat-map boundary")
	}

	for i := 1; i <= 2; i++ {
		if v, err := Eval(st, residual); err != nil || v != 6 {
			t.Fatalf("residual eval = %d, %v, want 6", v, err)
		}
		if calls != i {
			t.Fatalf("flat-map function ran %d times after %d evals", calls, i)
		}
	}
}

func TestFlatMapChoosesBranchFromBinding(t *testing.T) {
	st := NewStage()
	pick, err := NewSlot[bool](st, "pick")
	if err != nil {
		t.Fatalf("new slot pick: %v", err)
	}
	left, err := NewSlot[string](st, "left")
	if err != nil {
		t.Fatalf("new slot left: %v", err)
	}
	right, err := NewSlot[string](st, "right")
	if err != nil {
		t.Fatalf("new slot right: %v", err)
	}

	choice := FlatMap(pick, func(b bool) Node[string] {
		if b {
			return left
		}
		return right
	})

	// Only the chosen branch needs a binding.
	if err := BindValue(st, "pick", true); err != nil {
		t.Fatalf("bind pick: %v", err)
	}
	if err := BindValue(st, "left", "taken"); err != nil {
		t.Fatalf("bind left: %v", err)
	}
	if v, err := Eval(st, choice); err != nil || v != "taken" {
		t.Errorf("eval with left branch = %q, %v", v, err)
	}

	if err := BindValue(st, "pick", false); err != nil {
		t.Fatalf("rebind pick: %v", err)
	}
	if _, err := Eval(st, choice); !errors.Is(err, ErrEvaluation) {
		t.Errorf("eval with unbound right branch: %v, want unbound failure", err)
	}
}

func TestPartialIsStable(t *testing.T) {
	st := NewStage()
	slot, err := NewSlot[int](st, "n")
	if err != nil {
		t.Fatalf("new slot: %v", err)
	}
	expr := Map(slot, func(v int) int { return v + 1 })

	first, err := Partial(st, expr)
	if err != nil {
		t.Fatalf("first partial: %v", err)
	}
	second, err := Partial(st, first)
	if err != nil {
		t.Fatalf("second partial: %v", err)
	}

	if err := BindValue(st, "n", 1); err != nil {
		t.Fatalf("bind: %v", err)
	}
	v1, err1 := Eval(st, first)
	v2, err2 := Eval(st, second)
	if err1 != nil || err2 != nil || v1 != 2 || v2 != 2 {
		t.Errorf("residuals disagree: %d/%v vs %d/%v", v1, err1, v2, err2)
	}
}
