package categorize

import (
	"strings"

	"finsheet/internal/core"
)

// Classify returns the category of the first rule with a keyword contained
// in the lower-cased description, or core.CategoryOther. Keywords match as
// substrings, not whole words.
func (s RuleSet) Classify(description string) core.Category {
	d := strings.ToLower(description)
	for _, r := range s.rules {
		for _, k := range r.Keywords {
			if strings.Contains(d, k) {
				return r.Category
			}
		}
	}
	return core.CategoryOther
}

// Label classifies every transaction, keeping input order.
func (s RuleSet) Label(txs []core.Transaction) []core.LabeledTransaction {
	out := make([]core.LabeledTransaction, len(txs))
	for i, tx := range txs {
		out[i] = core.LabeledTransaction{Transaction: tx, Category: s.Classify(tx.Description)}
	}
	return out
}
