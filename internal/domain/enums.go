// Package domain – enumerated field values.
//
// Enumerated fields (coffee varieties, roaster business types,
// subscription tiers) are validated against the fixed sets below before
// any store call. The sets are intentionally closed; extending them is a
// schema change, not runtime configuration.
package domain

// Coffee varieties a farmer may list.
const (
	CoffeeArabica  = "arabica"
	CoffeeRobusta  = "robusta"
	CoffeeLiberica = "liberica"
	CoffeeExcelsa  = "excelsa"
	CoffeeBlend    = "blend"
)

// Roaster business types.
const (
	BusinessIndependent = "independent"
	BusinessChain       = "chain"
	BusinessCooperative = "cooperative"
	BusinessOnline      = "online"
)

// Roaster subscription tiers.
const (
	TierFree       = "free"
	TierBasic      = "basic"
	TierPremium    = "premium"
	TierEnterprise = "enterprise"
)

var coffeeTypes = map[string]struct{}{
	CoffeeArabica:  {},
	CoffeeRobusta:  {},
	CoffeeLiberica: {},
	CoffeeExcelsa:  {},
	CoffeeBlend:    {},
}

var businessTypes = map[string]struct{}{
	BusinessIndependent: {},
	BusinessChain:       {},
	BusinessCooperative: {},
	BusinessOnline:      {},
}

var subscriptionTiers = map[string]struct{}{
	TierFree:       {},
	TierBasic:      {},
	TierPremium:    {},
	TierEnterprise: {},
}

// ValidCoffeeType reports whether v is one of the allowed coffee
// varieties.
func ValidCoffeeType(v string) bool { _, ok := coffeeTypes[v]; return ok }

// ValidBusinessType reports whether v is one of the allowed roaster
// business types.
func ValidBusinessType(v string) bool { _, ok := businessTypes[v]; return ok }

// ValidSubscriptionTier reports whether v is one of the allowed
// subscription tiers.
func ValidSubscriptionTier(v string) bool { _, ok := subscriptionTiers[v]; return ok }

// SubscriptionTiers returns the allowed tier values (for error messages
// and documentation).
func SubscriptionTiers() []string {
	return []string{TierFree, TierBasic, TierPremium, TierEnterprise}
}
