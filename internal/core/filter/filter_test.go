package filter

import (
	"strings"
	"testing"

	"bluebird/internal/core/occurrence"
)

func sample() []occurrence.Occurrence {
	return []occurrence.Occurrence{
		{ID: 1, Description: "Pagamento em atraso", ChatName: "Financeiro ACME", Keywords: "boleto,atraso", Category: "Contas a Pagar", ClientName: "ACME", Status: "aberto", Squad: occurrence.SquadEliteDoFluxo},
		{ID: 2, Description: "Conciliação divergente", ChatName: "Grupo Beta", Keywords: "extrato", Category: "conciliacao", ClientName: "Beta", Status: "resolvido", Squad: occurrence.SquadForcaTaticaFinanceira},
		{ID: 3, Description: "Cobrança indevida", ChatName: "Gama Suporte", Keywords: "PIX", Category: "contas a receber", ClientName: "Gama", Status: "aberto", Squad: occurrence.SquadForcaTaticaFinanceira},
		{ID: 4, Description: "", ChatName: "", Keywords: "", Category: "", ClientName: "", Status: "", Squad: ""},
	}
}

func ids(items []occurrence.Occurrence) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestApply_DefaultIsIdentity(t *testing.T) {
	in := sample()
	got := Apply(in, Default())
	if len(got) != len(in) {
		t.Fatalf("identity broken: %v", ids(got))
	}
	for i := range in {
		if got[i].ID != in[i].ID {
			t.Fatalf("order changed: %v", ids(got))
		}
	}
}

func TestApply_SearchMatchesAnyField(t *testing.T) {
	cases := []struct {
		term string
		want []int64
	}{
		{"acme", []int64{1}},
		{"  PIX ", []int64{3}},
		{"contas", []int64{1, 3}},
		{"beta", []int64{2}},
		{"nada disso", []int64{}},
	}
	for _, c := range cases {
		st, _ := Default().With(KeySearch, c.term)
		got := ids(Apply(sample(), st))
		if len(got) != len(c.want) {
			t.Fatalf("search %q = %v want %v", c.term, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("search %q = %v want %v", c.term, got, c.want)
			}
		}
	}
}

func TestApply_SearchSoundAndComplete(t *testing.T) {
	st, _ := Default().With(KeySearch, "a")
	term := "a"
	got := Apply(sample(), st)
	in := map[int64]bool{}
	for _, o := range got {
		in[o.ID] = true
		if !containsAny(o, term) {
			t.Fatalf("result %d does not contain %q", o.ID, term)
		}
	}
	for _, o := range sample() {
		if !in[o.ID] && containsAny(o, term) {
			t.Fatalf("record %d contains %q but was excluded", o.ID, term)
		}
	}
}

func containsAny(o occurrence.Occurrence, term string) bool {
	for _, f := range SearchFields(o) {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func TestApply_EqualityFiltersAreANDed(t *testing.T) {
	st := Default()
	st, _ = st.With(KeyStatus, "aberto")
	st, _ = st.With(KeyChatType, occurrence.SquadForcaTaticaFinanceira)
	if got := ids(Apply(sample(), st)); len(got) != 1 || got[0] != 3 {
		t.Fatalf("status+squad = %v want [3]", got)
	}

	cat, _ := Default().With(KeyCategory, "CONTAS A PAGAR")
	if got := ids(Apply(sample(), cat)); len(got) != 1 || got[0] != 1 {
		t.Fatalf("category should compare case-insensitively, got %v", got)
	}

	status, _ := Default().With(KeyStatus, "ABERTO")
	if got := Apply(sample(), status); len(got) != 0 {
		t.Fatalf("status compares exactly, got %v", ids(got))
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := sample()
	st, _ := Default().With(KeyStatus, "resolvido")
	_ = Apply(in, st)
	if len(in) != 4 || in[0].ID != 1 {
		t.Fatalf("input mutated")
	}
}

func TestHasActiveFilters(t *testing.T) {
	if HasActiveFilters(Default()) {
		t.Fatalf("default state must be inactive")
	}
	for _, key := range []string{KeySearch, KeyStatus, KeyCategory, KeyChatType} {
		st, err := Default().With(key, "x")
		if err != nil {
			t.Fatalf("With(%s): %v", key, err)
		}
		if !HasActiveFilters(st) {
			t.Fatalf("%s change should be active", key)
		}
		if HasActiveFilters(st.Clear()) {
			t.Fatalf("Clear should restore defaults")
		}
	}
}

func TestWith_UnknownKeyAndBlankValues(t *testing.T) {
	if _, err := Default().With("priority", "x"); err == nil {
		t.Fatalf("unknown key should error")
	}
	st, _ := Default().With(KeyStatus, "")
	if st.Status != All {
		t.Fatalf("blank equality filter should fall back to all")
	}
}

func TestRun_Counts(t *testing.T) {
	st, _ := Default().With(KeyStatus, "aberto")
	res := Run(sample(), st)
	if res.TotalCount != 4 || res.FilteredCount != 2 || !res.HasActiveFilters {
		t.Fatalf("Run = %+v", res)
	}
	empty := Run(nil, Default())
	if empty.Items == nil || empty.TotalCount != 0 {
		t.Fatalf("Run(nil) = %+v", empty)
	}
}
