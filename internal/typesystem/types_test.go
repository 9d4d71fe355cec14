package typesystem

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTypeStrings(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"primitive", Int, "int"},
		{"variable", TVar{ID: 7}, "t7"},
		{"function", TFunc{Arg: Int, Ret: Bool}, "(int -> bool)"},
		{
			"curried function",
			MakeFunc([]Type{Int, Int}, Bool),
			"(int -> (int -> bool))",
		},
		{
			"higher order",
			TFunc{Arg: TFunc{Arg: Int, Ret: Bool}, Ret: String},
			"((int -> bool) -> string)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	s := Subst{0: Int}

	tests := []struct {
		name string
		typ  Type
		want Type
	}{
		{"primitive unchanged", Bool, Bool},
		{"bound variable", TVar{ID: 0}, Int},
		{"unbound variable", TVar{ID: 1}, TVar{ID: 1}},
		{
			"function recurses",
			TFunc{Arg: TVar{ID: 0}, Ret: TVar{ID: 1}},
			TFunc{Arg: Int, Ret: TVar{ID: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.typ.Apply(s)); diff != "" {
				t.Errorf("Apply mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyIsSingleStep(t *testing.T) {
	// Apply replaces without chasing chains; normalization is the
	// unifier's job.
	s := Subst{0: TVar{ID: 1}, 1: Int}
	got := TVar{ID: 0}.Apply(s)
	if diff := cmp.Diff(Type(TVar{ID: 1}), got); diff != "" {
		t.Errorf("Apply chased the chain (-want +got):\n%s", diff)
	}
}

func TestApplyIsNonDestructive(t *testing.T) {
	original := TFunc{Arg: TVar{ID: 0}, Ret: TVar{ID: 0}}
	original.Apply(Subst{0: Int})
	if diff := cmp.Diff(TFunc{Arg: TVar{ID: 0}, Ret: TVar{ID: 0}}, original); diff != "" {
		t.Errorf("Apply mutated its receiver (-want +got):\n%s", diff)
	}
}

func TestFreeTypeVars(t *testing.T) {
	typ := TFunc{
		Arg: TVar{ID: 2},
		Ret: TFunc{Arg: Int, Ret: TVar{ID: 5}},
	}

	for _, id := range []int{2, 5} {
		if !OccursIn(id, typ) {
			t.Errorf("OccursIn(%d) = false, want true", id)
		}
	}
	if OccursIn(3, typ) {
		t.Errorf("OccursIn(3) = true, want false")
	}
	if len(Int.FreeTypeVars()) != 0 {
		t.Errorf("primitive has free vars: %v", Int.FreeTypeVars())
	}
}

func TestPrimitiveRoundTrip(t *testing.T) {
	// to_string of a primitive re-parses to the same primitive.
	for _, p := range []TCon{Int, Bool, String} {
		parsed, _, err := ParseTypeExpr(p.String(), NewInferenceContext())
		if err != nil {
			t.Fatalf("ParseTypeExpr(%q): %v", p.String(), err)
		}
		if diff := cmp.Diff(Type(p), parsed); diff != "" {
			t.Errorf("round trip of %s (-want +got):\n%s", p, diff)
		}
	}
}
