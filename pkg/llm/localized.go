package llm

import (
	"strings"

	"github.com/Sundramrai3691/Farm-Guru/internal/models"
)

// localizedTemplates is the per-language template set used by the routing
// layer when synthesis produced nothing usable. Unrecognized language codes
// fall back to English.

type localizedSet struct {
	greeting      string
	generalAdvice string
	categories    []localizedCategory
	generalAnswer string
	generalAction []string
	sourceTitle   string
	sourceSnippet string
	imagePrefix   func(visual, answer string) string
}

type localizedCategory struct {
	keywords []string
	answer   string
	actions  []string
}

var localizedSets = map[string]localizedSet{
	"en": {
		greeting:      "I'm here to help with your farming questions.",
		generalAdvice: "Here are some general farming tips that might be useful for your situation:",
		categories: []localizedCategory{
			{
				keywords: []string{"irrigate", "water", "rain", "drought"},
				answer:   "For irrigation, check soil moisture levels and monitor weather forecasts.",
				actions:  []string{"Check soil moisture levels", "Monitor weather forecasts", "Plan irrigation timing"},
			},
			{
				keywords: []string{"pest", "disease", "insect", "fungus"},
				answer:   "For pest and disease management, regular monitoring and integrated pest management are essential.",
				actions:  []string{"Monitor crops regularly", "Consult local agricultural experts", "Use biological control methods"},
			},
			{
				keywords: []string{"plant", "sow", "seed", "timing"},
				answer:   "Planting timing depends on local climate and soil conditions.",
				actions:  []string{"Check local agricultural calendar", "Monitor weather forecasts", "Select quality seeds"},
			},
			{
				keywords: []string{"price", "market", "sell", "buy"},
				answer:   "Market prices depend on supply, demand, and seasonal factors.",
				actions:  []string{"Check local mandi prices", "Consider storage options", "Plan selling timing"},
			},
		},
		generalAnswer: "Regular soil testing, balanced fertilization, and integrated pest management.",
		generalAction: []string{"Conduct soil testing", "Use balanced fertilizers", "Consult local KVK"},
		sourceTitle:   "ICAR Guidelines",
		sourceSnippet: "Comprehensive agricultural guidance and best practices",
		imagePrefix: func(visual, answer string) string {
			return "Based on the uploaded image (" + visual + "): " + answer
		},
	},
	"hi": {
		greeting:      "मैं आपकी कृषि संबंधी सहायता के लिए यहाँ हूँ।",
		generalAdvice: "यहाँ कुछ सामान्य कृषि सुझाव हैं जो आपके लिए उपयोगी हो सकते हैं:",
		categories: []localizedCategory{
			{
				keywords: []string{"irrigate", "water", "rain", "drought"},
				answer:   "सिंचाई के लिए मिट्टी की नमी की जांच करें और मौसम पूर्वानुमान देखें।",
				actions:  []string{"मिट्टी की नमी की जांच करें", "मौसम पूर्वानुमान देखें", "सिंचाई का समय निर्धारित करें"},
			},
			{
				keywords: []string{"pest", "disease", "insect", "fungus"},
				answer:   "कीट और रोग प्रबंधन के लिए नियमित निगरानी और एकीकृत कीट प्रबंधन अपनाएं।",
				actions:  []string{"फसल की नियमित जांच करें", "स्थानीय कृषि विशेषज्ञ से सलाह लें", "जैविक नियंत्रण विधियों का उपयोग करें"},
			},
			{
				keywords: []string{"plant", "sow", "seed", "timing"},
				answer:   "बुवाई का समय स्थानीय जलवायु और मिट्टी की स्थिति पर निर्भर करता है।",
				actions:  []string{"स्थानीय कृषि कैलेंडर देखें", "मौसम पूर्वानुमान की जांच करें", "गुणवत्तापूर्ण बीज का चयन करें"},
			},
			{
				keywords: []string{"price", "market", "sell", "buy"},
				answer:   "बाजार की कीमतें मांग, आपूर्ति और मौसमी कारकों पर निर्भर करती हैं।",
				actions:  []string{"स्थानीय मंडी की कीमतें देखें", "भंडारण विकल्पों पर विचार करें", "बिक्री का समय निर्धारित करें"},
			},
		},
		generalAnswer: "नियमित मिट्टी परीक्षण, संतुलित उर्वरक उपयोग, और एकीकृत कीट प्रबंधन अपनाएं।",
		generalAction: []string{"मिट्टी परीक्षण कराएं", "संतुलित उर्वरक का उपयोग करें", "स्थानीय KVK से सलाह लें"},
		sourceTitle:   "ICAR दिशानिर्देश",
		sourceSnippet: "व्यापक कृषि मार्गदर्शन और सर्वोत्तम प्रथाएं",
		imagePrefix: func(visual, answer string) string {
			return "अपलोड की गई तस्वीर के आधार पर (" + visual + "): " + answer
		},
	},
}

// LocalizedFallback builds a deterministic, language-specific response for
// the routing layer. It is used when synthesis yields an empty answer and
// cannot itself fail.
func LocalizedFallback(query, lang, visualContext string) models.AnswerResponse {
	set, ok := localizedSets[lang]
	if !ok {
		lang = "en"
		set = localizedSets["en"]
	}

	q := strings.ToLower(query)

	answer := set.greeting + " " + set.generalAdvice + " " + set.generalAnswer
	actions := set.generalAction
	for _, cat := range set.categories {
		if containsAny(q, cat.keywords...) {
			answer = set.greeting + " " + cat.answer
			actions = cat.actions
			break
		}
	}

	if visualContext != "" {
		answer = set.imagePrefix(visualContext, answer)
	}

	return models.AnswerResponse{
		Answer:     answer,
		Confidence: 0.6,
		Actions:    actions,
		Sources: []models.Source{
			{
				Title:   set.sourceTitle,
				URL:     "https://icar.org.in",
				Snippet: set.sourceSnippet,
			},
		},
		Meta: map[string]interface{}{
			"mode":            models.ModeFallback,
			"language":        lang,
			"has_image":       visualContext != "",
			"fallback_reason": "Enhanced offline guidance",
		},
	}
}
