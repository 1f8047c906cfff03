package scoring

// Category identifies one of the four scoring dimensions.
type Category string

const (
	CategoryFundamentals Category = "fundamentals"
	CategoryTechnicals   Category = "technicals"
	CategorySentiment    Category = "sentiment"
	CategorySmartMoney   Category = "smart_money"
)

// Categories lists all scoring categories in canonical order. The order is
// load-bearing: reasoning ties are broken by the first category encountered.
var Categories = []Category{
	CategoryFundamentals,
	CategoryTechnicals,
	CategorySentiment,
	CategorySmartMoney,
}

// RuleTable holds the category weights that govern how component scores
// combine into the ensemble grade. It is loaded once and treated as read-only
// for the lifetime of the engine; a reload replaces the whole table.
type RuleTable struct {
	Weights map[Category]float64 `json:"weights" yaml:"weights"`
}

// DefaultRuleTable returns equal weighting across all four categories.
func DefaultRuleTable() RuleTable {
	return RuleTable{
		Weights: map[Category]float64{
			CategoryFundamentals: 0.25,
			CategoryTechnicals:   0.25,
			CategorySentiment:    0.25,
			CategorySmartMoney:   0.25,
		},
	}
}

// Weight returns the weight for a category, defaulting to 0.25 when the
// table has no entry for it.
func (rt RuleTable) Weight(c Category) float64 {
	if rt.Weights == nil {
		return 0.25
	}
	w, ok := rt.Weights[c]
	if !ok {
		return 0.25
	}
	return w
}
