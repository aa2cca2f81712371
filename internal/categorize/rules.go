// Package categorize assigns spending categories to statement descriptions
// with ordered keyword rules.
package categorize

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"finsheet/internal/core"
)

// Rule maps a category to the keywords that select it.
type Rule struct {
	Category core.Category `yaml:"category"`
	Keywords []string      `yaml:"keywords"`
}

// RuleSet is an immutable, ordered list of rules. The first rule with a
// matching keyword wins, so overlapping keywords resolve by position rather
// than by specificity: "uber" under Food & Dining shadows "uber travel"
// under Transport. Existing ledgers were labeled this way; keep the order.
type RuleSet struct {
	rules []Rule
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// NewRuleSet copies rules and lower-cases their keywords.
func NewRuleSet(rules []Rule) RuleSet {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		kws := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = strings.ToLower(k); k != "" {
				kws = append(kws, k)
			}
		}
		out = append(out, Rule{Category: r.Category, Keywords: kws})
	}
	return RuleSet{rules: out}
}

// Rules returns a copy of the rules in precedence order.
func (s RuleSet) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	for i, r := range s.rules {
		out[i] = Rule{Category: r.Category, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Validate checks that every rule targets one of the allowed categories so
// labels always have a column in the summary.
func (s RuleSet) Validate(allowed []core.Category) error {
	for i, r := range s.rules {
		if !core.ContainsCategory(allowed, r.Category) {
			return fmt.Errorf("rule %d: category %q is not part of %v", i+1, r.Category, allowed)
		}
	}
	return nil
}

// LoadRules reads a YAML rule file of the form
//
//	rules:
//	  - category: Groceries
//	    keywords: [tesco, waitrose]
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("parsing rules: %s defines no rules", path)
	}
	return f.Rules, nil
}

// DefaultRules is the built-in rule set, in precedence order.
func DefaultRules() []Rule {
	return []Rule{
		{Category: core.CategoryGroceries, Keywords: []string{"tesco", "waitrose", "sainsburys", "zapp", "tian tian"}},
		{Category: core.CategoryFoodDining, Keywords: []string{
			"nandos", "just eat", "uber", "watchhouse", "food", "tea", "dumpling", "restaurant", "market hall",
		}},
		{Category: core.CategoryTransport, Keywords: []string{"tfl", "national rail", "uber travel"}},
		{Category: core.CategoryBills, Keywords: []string{
			"ee", "housekeep", "communityfibre", "british gas", "telegram", "discord",
		}},
		{Category: core.CategoryRentHousing, Keywords: []string{"gateway", "council tax"}},
		{Category: core.CategoryLeisure, Keywords: []string{"uniqlo", "dsm", "paypal", "threatre", "amazon"}},
		{Category: core.CategorySalary, Keywords: []string{"skyscanner"}},
	}
}

// InvestmentRules extends DefaultRules with brokerage keywords, ahead of the
// salary rule.
func InvestmentRules() []Rule {
	rules := DefaultRules()
	inv := Rule{Category: core.CategoryInvestment, Keywords: []string{"vanguard", "trading 212", "freetrade", "hargreaves lansdown"}}
	last := len(rules) - 1
	return append(rules[:last], inv, rules[last])
}
