package retriever

import "github.com/Sundramrai3691/Farm-Guru/internal/models"

// DefaultKnowledgeBase returns the built-in agricultural reference corpus.
// It seeds the retriever when no document store is reachable and is also
// used to populate a fresh store.
func DefaultKnowledgeBase() []models.Document {
	return []models.Document{
		{
			ID:      "1",
			Title:   "Wheat Irrigation Guidelines",
			Content: "Wheat requires irrigation at critical growth stages: crown root initiation (20-25 days after sowing), tillering (40-45 days), jointing (60-65 days), flowering (80-85 days), and grain filling (95-100 days). Apply 5-6 cm of water per irrigation. Avoid waterlogging as it can cause root rot and reduce yield.",
			Snippet: "Wheat requires irrigation at critical growth stages with 5-6 cm water per irrigation.",
			URL:     "https://icar.org.in/wheat-irrigation",
		},
		{
			ID:      "2",
			Title:   "Tomato Pest Management",
			Content: "Common tomato pests include whitefly, aphids, and fruit borer. Use integrated pest management: yellow sticky traps for whitefly, neem oil spray for aphids, and pheromone traps for fruit borer. Avoid excessive pesticide use which can harm beneficial insects.",
			Snippet: "Tomato pest management using IPM techniques including sticky traps and neem oil.",
			URL:     "https://icar.org.in/tomato-pests",
		},
		{
			ID:      "3",
			Title:   "Rice Planting Calendar",
			Content: "Rice planting time varies by region: Kharif season (June-July) for monsoon crop, Rabi season (November-December) for winter crop in areas with irrigation. Nursery preparation should start 25-30 days before transplanting. Maintain 2-3 cm water level in fields.",
			Snippet: "Rice planting calendar for Kharif and Rabi seasons with water management tips.",
			URL:     "https://icar.org.in/rice-calendar",
		},
		{
			ID:      "4",
			Title:   "Soil Health Management",
			Content: "Healthy soil is the foundation of good farming. Test soil pH annually - most crops prefer 6.0-7.5 pH. Add organic matter through compost or farmyard manure. Practice crop rotation to maintain soil fertility. Avoid excessive use of chemical fertilizers.",
			Snippet: "Soil health management through pH testing, organic matter, and crop rotation.",
			URL:     "https://icar.org.in/soil-health",
		},
		{
			ID:      "5",
			Title:   "Crop Disease Identification",
			Content: "Early disease detection saves crops. Look for symptoms: yellowing leaves (nutrient deficiency or disease), spots on leaves (fungal/bacterial infection), wilting (water stress or root problems). Take photos and consult agricultural experts for proper diagnosis.",
			Snippet: "Guide to identifying common crop diseases through visual symptoms.",
			URL:     "https://icar.org.in/disease-identification",
		},
		{
			ID:      "6",
			Title:   "Organic Farming Practices",
			Content: "Organic farming improves soil health and reduces input costs. Use compost, vermicompost, and green manure. Practice biological pest control with beneficial insects. Crop diversification reduces disease risk. Organic certification can fetch premium prices.",
			Snippet: "Organic farming practices for sustainable agriculture and premium pricing.",
			URL:     "https://icar.org.in/organic-farming",
		},
		{
			ID:      "7",
			Title:   "Water Conservation Techniques",
			Content: "Water conservation is crucial for sustainable farming. Use drip irrigation to save 30-50% water. Mulching reduces evaporation. Rainwater harvesting stores monsoon water. Check soil moisture before irrigation to avoid overwatering.",
			Snippet: "Water conservation techniques including drip irrigation and mulching.",
			URL:     "https://icar.org.in/water-conservation",
		},
		{
			ID:      "8",
			Title:   "Post-Harvest Management",
			Content: "Proper post-harvest handling reduces losses. Harvest at right maturity stage. Dry grains to 12-14% moisture content. Store in clean, dry places with pest control. Use hermetic storage bags for small quantities. Monitor stored grain regularly.",
			Snippet: "Post-harvest management to reduce losses and maintain grain quality.",
			URL:     "https://icar.org.in/post-harvest",
		},
	}
}
