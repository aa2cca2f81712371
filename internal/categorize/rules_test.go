package categorize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsheet/internal/core"
)

func TestClassify_DefaultRules(t *testing.T) {
	rs := NewRuleSet(DefaultRules())

	tests := []struct {
		desc string
		want core.Category
	}{
		{"TESCO STORES 3301", core.CategoryGroceries},
		{"Tesco Food Hall", core.CategoryGroceries},
		{"NANDOS LONDON", core.CategoryFoodDining},
		{"UBER TRAVEL 1234", core.CategoryFoodDining},
		{"TFL TRAVEL CHARGE", core.CategoryTransport},
		{"BRITISH GAS", core.CategoryBills},
		{"LB CAMDEN COUNCIL TAX", core.CategoryRentHousing},
		{"AMAZON.CO.UK", core.CategoryLeisure},
		{"SKYSCANNER LTD", core.CategorySalary},
		{"salary payment", core.CategoryOther},
		{"", core.CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, rs.Classify(tt.desc))
		})
	}
}

func TestClassify_FirstRuleWins(t *testing.T) {
	rs := NewRuleSet([]Rule{
		{Category: core.CategoryGroceries, Keywords: []string{"market"}},
		{Category: core.CategoryFoodDining, Keywords: []string{"market hall"}},
	})

	assert.Equal(t, core.CategoryGroceries, rs.Classify("Market Hall Victoria"))
}

func TestNewRuleSet_LowercasesKeywords(t *testing.T) {
	rs := NewRuleSet([]Rule{{Category: core.CategoryLeisure, Keywords: []string{"UniQLO", ""}}})

	assert.Equal(t, []Rule{{Category: core.CategoryLeisure, Keywords: []string{"uniqlo"}}}, rs.Rules())
	assert.Equal(t, core.CategoryLeisure, rs.Classify("uniqlo oxford st"))
}

func TestLabel_PreservesOrderAndFields(t *testing.T) {
	rs := NewRuleSet(DefaultRules())
	txs := []core.Transaction{
		{Date: "01/03/2024", Description: "WAITROSE", Amount: "-12.00"},
		{Date: "02/03/2024", Description: "UNKNOWN SHOP", Amount: "-1.00"},
	}

	got := rs.Label(txs)

	require.Len(t, got, 2)
	assert.Equal(t, txs[0], got[0].Transaction)
	assert.Equal(t, core.CategoryGroceries, got[0].Category)
	assert.Equal(t, txs[1], got[1].Transaction)
	assert.Equal(t, core.CategoryOther, got[1].Category)
}

func TestValidate(t *testing.T) {
	classic := []core.Category{
		core.CategorySalary, core.CategoryFoodDining, core.CategoryTransport, core.CategoryGroceries,
		core.CategoryBills, core.CategoryRentHousing, core.CategoryLeisure, core.CategoryOther,
	}

	require.NoError(t, NewRuleSet(DefaultRules()).Validate(classic))

	err := NewRuleSet(InvestmentRules()).Validate(classic)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Investment")
}

func TestInvestmentRules(t *testing.T) {
	rules := InvestmentRules()
	rs := NewRuleSet(rules)

	assert.Len(t, rules, len(DefaultRules())+1)
	assert.Equal(t, core.CategorySalary, rules[len(rules)-1].Category)
	assert.Equal(t, core.CategoryInvestment, rs.Classify("VANGUARD ISA"))
	assert.Equal(t, core.CategoryGroceries, rs.Classify("TESCO"))
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `rules:
  - category: Groceries
    keywords: [lidl, aldi]
  - category: Transport
    keywords:
      - Lime
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, core.CategoryGroceries, rules[0].Category)
	assert.Equal(t, []string{"lidl", "aldi"}, rules[0].Keywords)

	rs := NewRuleSet(rules)
	assert.Equal(t, core.CategoryTransport, rs.Classify("LIME*RIDE"))
}

func TestLoadRules_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadRules(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("rules: []\n"), 0o644))
	_, err = LoadRules(empty)
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("rules: [\n"), 0o644))
	_, err = LoadRules(bad)
	assert.Error(t, err)
}
