package objmodel

import "testing"

func TestTypeOf(t *testing.T) {
	type myInt int
	tests := []struct {
		v    any
		want Tag
	}{
		{nil, TagUndefined},
		{true, TagBoolean},
		{1, TagNumber},
		{uint8(1), TagNumber},
		{2.5, TagNumber},
		{myInt(3), TagNumber},
		{"s", TagString},
		{NewSymbol("id"), TagSymbol},
		{MethodFunc(nil), TagFunction},
		{func() {}, TagFunction},
		{map[string]any{}, TagObject},
		{[]any{}, TagObject},
		{&Instance{}, TagObject},
	}
	for _, tt := range tests {
		if got := TypeOf(tt.v); got != tt.want {
			t.Errorf("TypeOf(%#v) = %s, want %s", tt.v, got, tt.want)
		}
	}
}

func TestSameValue(t *testing.T) {
	sym := NewSymbol("a")
	tests := []struct {
		a, b any
		want bool
	}{
		{1, 1.0, true},
		{int64(2), uint(2), true},
		{1, "1", false},
		{"a", "a", true},
		{nil, nil, true},
		{nil, 0, false},
		{sym, sym, true},
		{sym, NewSymbol("a"), false},
		{[]any{1}, []any{1}, false},
	}
	for _, tt := range tests {
		if got := sameValue(tt.a, tt.b); got != tt.want {
			t.Errorf("sameValue(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCloneValue(t *testing.T) {
	orig := map[string]any{"list": []any{map[string]any{"k": 1}}}
	c := cloneValue(orig).(map[string]any)
	c["list"].([]any)[0].(map[string]any)["k"] = 2
	if orig["list"].([]any)[0].(map[string]any)["k"] != 1 {
		t.Error("expected deep copy")
	}
}

func TestEnum_Contains(t *testing.T) {
	reg := NewRegistry()
	e, err := reg.DeclareEnum("Level", 1, 2, "max")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.Contains(2.0) || !e.Contains("max") {
		t.Error("expected members to be contained")
	}
	if e.Contains(3) || e.Contains(nil) {
		t.Error("expected non-members to be rejected")
	}
	vals := e.Values()
	vals[0] = 99
	if !e.Contains(1) {
		t.Error("expected Values to return a copy")
	}
}
