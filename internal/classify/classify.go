// Package classify maps a service and one of its fee plans to the gazette
// form category the applicant must complete.
package classify

import (
	"strings"

	"egazette/pkg/types"
)

type Category string

const (
	Personal  Category = "personal"
	Corporate Category = "corporate"
	Marriage  Category = "marriage"
	Unknown   Category = "unknown"
)

// signals is the normalized input the cascade matches against: the raw plan
// type code, the lower-cased plan category, and the lower-cased concatenation
// of service id, plan name and description.
type signals struct {
	planType string
	category string
	text     string
}

type rule struct {
	name     string
	category Category
	match    func(sig signals) bool
}

func typeCode(code string) func(signals) bool {
	return func(sig signals) bool { return sig.planType == code }
}

func categoryContains(sub string) func(signals) bool {
	return func(sig signals) bool { return strings.Contains(sig.category, sub) }
}

func anyKeyword(words ...string) func(signals) bool {
	return func(sig signals) bool {
		for _, w := range words {
			if strings.Contains(sig.text, w) {
				return true
			}
		}
		return false
	}
}

// cascade is evaluated in order, first match wins. Explicit plan type codes
// outrank the category string, which outranks keyword heuristics, so a
// corporate plan whose description mentions "marriage hall rental" still
// classifies as corporate.
var cascade = []rule{
	{"plan-type-personal", Personal, typeCode("64")},
	{"plan-type-corporate", Corporate, typeCode("65")},
	{"plan-type-marriage", Marriage, typeCode("66")},

	{"category-premium-plus", Personal, categoryContains("premium plus")},
	{"category-premium-gazette", Corporate, categoryContains("premium gazette")},
	{"category-regular-gazette", Marriage, categoryContains("regular gazette")},
	{"category-personal", Personal, categoryContains("personal")},
	{"category-corporate", Corporate, categoryContains("corporate")},
	{"category-marriage", Marriage, categoryContains("marriage")},
	{"category-religious", Marriage, categoryContains("religious")},

	{"keyword-personal", Personal, anyKeyword("name", "birth", "personal")},
	{"keyword-corporate", Corporate, anyKeyword("company", "incorporation", "school", "hospital", "corporate", "business")},
	{"keyword-marriage", Marriage, anyKeyword("marriage", "officer", "worship", "religious", "church", "mosque")},
}

// Classify is pure and total: it always returns a category, defaulting to
// Unknown when no rule matches. Unknown is a valid terminal outcome the
// caller handles by offering manual form selection.
func Classify(serviceID string, plan types.Plan) Category {
	sig := signals{
		planType: strings.TrimSpace(plan.PaymentPlanType),
		category: strings.ToLower(plan.PaymentPlanCategory),
		text:     strings.ToLower(serviceID + " " + plan.Name + " " + plan.Description),
	}

	for _, r := range cascade {
		if r.match(sig) {
			return r.category
		}
	}

	return Unknown
}
