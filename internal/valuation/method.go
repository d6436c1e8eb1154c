package valuation

// Method identifies one of the four valuation strategies. The set is closed:
// registry models carrying any other algorithm name are rejected at
// construction time rather than at call time.
type Method string

const (
	MethodMarket   Method = "market_comparison"
	MethodIncome   Method = "income_capitalization"
	MethodCost     Method = "cost_replacement"
	MethodCombined Method = "combined"
)

// Methods lists every supported valuation method.
func Methods() []Method {
	return []Method{MethodMarket, MethodIncome, MethodCost, MethodCombined}
}

// ParseMethod resolves a method name strictly. The bool is false for names
// outside the closed set.
func ParseMethod(name string) (Method, bool) {
	switch Method(name) {
	case MethodMarket, MethodIncome, MethodCost, MethodCombined:
		return Method(name), true
	}
	return "", false
}

// MethodOrDefault resolves a method name leniently: empty or unrecognized
// names fall back to market comparison, which is the default strategy for
// ad-hoc valuation calls.
func MethodOrDefault(name string) Method {
	if m, ok := ParseMethod(name); ok {
		return m
	}
	return MethodMarket
}
