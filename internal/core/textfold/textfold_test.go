package textfold

import "testing"

func TestFold(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"already lower", "already lower"},
		{"Contas A Pagar", "contas a pagar"},
		{"FORÇA TÁTICA", "força tática"},
		{"bad\xffbyte", "badbyte"},
	}
	for _, c := range cases {
		if got := Fold(c.in); got != c.want {
			t.Fatalf("Fold(%q) = %q want %q", c.in, got, c.want)
		}
	}
}

func TestFold_ComposesDecomposedInput(t *testing.T) {
	decomposed := "Conciliac\u0327a\u0303o"
	if Fold(decomposed) != Fold("Concilia\u00e7\u00e3o") {
		t.Fatalf("NFC should unify composed and decomposed forms")
	}
}

func TestContainsAndTerm(t *testing.T) {
	term := Term("  PAGAR ")
	if term != "pagar" {
		t.Fatalf("Term = %q", term)
	}
	if !Contains("Contas a Pagar", term) {
		t.Fatalf("expected match")
	}
	if Contains("Conciliação", term) {
		t.Fatalf("unexpected match")
	}
	if !Contains("anything", "") {
		t.Fatalf("empty term matches everything")
	}
}

func TestEqual(t *testing.T) {
	if !Equal("Contas_A_Pagar", "contas_a_pagar") {
		t.Fatalf("Equal should ignore case")
	}
	if Equal("força", "forca") {
		t.Fatalf("accents are significant")
	}
}
