package answer

import "github.com/Sundramrai3691/Farm-Guru/internal/models"

// Emergency is the last line of defense: a static response returned when
// every pipeline stage has failed. It only assembles literals and cannot
// itself fail.
func Emergency(lang string) models.AnswerResponse {
	answer := "Farm-Guru cannot process your query right now. Here are some safe general suggestions:"
	actions := []string{
		"Check soil moisture regularly",
		"Avoid overuse of chemical fertilizers",
		"Use mulching to retain soil moisture",
	}
	sourceTitle := "General Agricultural Knowledge"
	sourceSnippet := "Basic farming principles and safety guidelines"

	if lang == "hi" {
		answer = "Farm-Guru अभी आपके प्रश्न को संसाधित नहीं कर सकता। यहाँ कुछ सुरक्षित सामान्य सुझाव हैं:"
		actions = []string{
			"मिट्टी की नमी की नियमित जांच करें",
			"रासायनिक उर्वरकों का अधिक उपयोग न करें",
			"मल्चिंग का उपयोग करें",
		}
		sourceTitle = "सामान्य कृषि ज्ञान"
		sourceSnippet = "बुनियादी कृषि सिद्धांत और सुरक्षा दिशानिर्देश"
	}

	return models.AnswerResponse{
		Answer:     answer,
		Confidence: 0.4,
		Actions:    actions,
		Sources: []models.Source{
			{Title: sourceTitle, URL: "", Snippet: sourceSnippet},
		},
		Meta: map[string]interface{}{
			"mode":  models.ModeEmergency,
			"error": "System temporarily unavailable",
		},
	}
}
