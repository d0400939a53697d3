package llm

import "strings"

// The deterministic tier classifies queries with an ordered rule table:
// the first matching category wins, so precedence is explicit and testable
// in isolation.

type answerCategory struct {
	name   string
	match  func(q, visual string, snippets []string) bool
	render func(visual string, snippets []string) string
}

var answerCategories = []answerCategory{
	{
		name: "visual-problem",
		match: func(q, visual string, snippets []string) bool {
			return visual != "" && containsAny(q, "disease", "pest")
		},
		render: func(visual string, snippets []string) string {
			base := "Based on the uploaded image showing " + visual + ", I can see potential issues that may require attention. "
			if len(snippets) > 0 {
				return base + joinFirst(snippets, 2)
			}
			return base + "Please consult with a local agricultural expert for proper diagnosis and treatment recommendations."
		},
	},
	{
		name: "visual-generic",
		match: func(q, visual string, snippets []string) bool {
			return visual != ""
		},
		render: func(visual string, snippets []string) string {
			base := "From the uploaded image of " + visual + ", "
			if len(snippets) > 0 {
				return base + joinFirst(snippets, 2)
			}
			return base + "this appears to be a healthy crop. Continue with regular care and monitoring."
		},
	},
	{
		name:  "irrigation",
		match: keywordMatch("irrigate", "water", "rain", "weather"),
		render: templated(
			"For irrigation timing, consider soil moisture, weather conditions, and crop growth stage.",
			"Check soil moisture at 6-inch depth and irrigate when it feels dry.",
		),
	},
	{
		name:  "pest",
		match: keywordMatch("pest", "disease", "insect", "fungus"),
		render: templated(
			"For pest and disease management, early identification and integrated pest management are key.",
			"Monitor crops regularly and consult local agricultural extension services for specific treatments.",
		),
	},
	{
		name:  "planting",
		match: keywordMatch("plant", "sow", "seed", "timing"),
		render: templated(
			"Planting timing depends on local climate, soil conditions, and crop variety.",
			"Consult your local agricultural calendar and weather forecasts for optimal timing.",
		),
	},
	{
		name:  "market",
		match: keywordMatch("price", "market", "sell", "buy"),
		render: templated(
			"Market prices fluctuate based on supply, demand, and seasonal factors.",
			"Check local mandi prices and consider storage options during peak harvest.",
		),
	},
	{
		name: "evidence",
		match: func(q, visual string, snippets []string) bool {
			return len(snippets) > 0
		},
		render: func(visual string, snippets []string) string {
			return "Based on agricultural best practices: " + joinFirst(snippets, 2)
		},
	},
	{
		name: "referral",
		match: func(q, visual string, snippets []string) bool {
			return true
		},
		render: func(visual string, snippets []string) string {
			return "For specific agricultural advice, I recommend consulting with your local Krishi Vigyan Kendra (KVK) or agricultural extension officer who can provide guidance tailored to your local conditions and crops."
		},
	},
}

func keywordMatch(words ...string) func(string, string, []string) bool {
	return func(q, visual string, snippets []string) bool {
		return containsAny(q, words...)
	}
}

// templated builds a renderer that appends the highest-priority snippet to
// the base sentence, or a fixed tail when no evidence is available.
func templated(base, noSnippetTail string) func(string, []string) string {
	return func(visual string, snippets []string) string {
		if len(snippets) > 0 {
			return base + " " + snippets[0]
		}
		return base + " " + noSnippetTail
	}
}

func contextualAnswer(query string, snippets []string, visual string) string {
	q := strings.ToLower(query)
	for _, cat := range answerCategories {
		if cat.match(q, visual, snippets) {
			return cat.render(visual, snippets)
		}
	}
	// The referral category always matches; this is unreachable.
	return answerCategories[len(answerCategories)-1].render(visual, snippets)
}

type actionCategory struct {
	match   func(q, visual string) bool
	actions []string
}

// Action categories accumulate in check order and are truncated to three
// total, independently of the answer classification above.
var actionCategories = []actionCategory{
	{
		match: func(q, visual string) bool {
			return visual != "" || containsAny(q, "disease", "pest", "problem")
		},
		actions: []string{
			"Consult local KVK for expert diagnosis",
			"Monitor crop daily for changes",
			"Consider soil testing if needed",
		},
	},
	{
		match: func(q, visual string) bool {
			return containsAny(q, "irrigate", "water")
		},
		actions: []string{
			"Check soil moisture levels",
			"Monitor weather forecast",
			"Adjust irrigation schedule accordingly",
		},
	},
	{
		match: func(q, visual string) bool {
			return containsAny(q, "plant", "sow", "seed")
		},
		actions: []string{
			"Check local weather conditions",
			"Prepare soil with proper nutrients",
			"Source quality seeds from certified dealers",
		},
	},
	{
		match: func(q, visual string) bool {
			return containsAny(q, "market", "price", "sell")
		},
		actions: []string{
			"Check current mandi prices",
			"Consider storage options",
			"Plan harvest timing strategically",
		},
	},
}

var defaultActions = []string{
	"Consult local agricultural expert",
	"Monitor crop conditions regularly",
	"Keep records of farming activities",
}

func answerActions(query, visual string) []string {
	q := strings.ToLower(query)

	var actions []string
	for _, cat := range actionCategories {
		if cat.match(q, visual) {
			actions = append(actions, cat.actions...)
		}
	}
	if len(actions) == 0 {
		actions = append(actions, defaultActions...)
	}
	if len(actions) > 3 {
		actions = actions[:3]
	}
	return actions
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func joinFirst(parts []string, n int) string {
	if len(parts) > n {
		parts = parts[:n]
	}
	return strings.Join(parts, " ")
}
