package install

import "event-manager-backend/model"

// DefaultTerms are seeded per taxonomy on first install.
var DefaultTerms = map[string][]string{
	model.TaxonomyEventType: {
		"Appearance or Signing",
		"Attraction",
		"Camp, Trip, or Retreat",
		"Class, Training, or Workshop",
		"Concert or Performance",
		"Conference",
		"Convention",
		"Dinner or Gala",
		"Festival or Fair",
		"Game or Competition",
		"Meeting or Networking Event",
		"Other",
		"Party or Social Gathering",
		"Race or Endurance Event",
		"Rally",
		"Screening",
		"Seminar or Talk",
		"Tour",
		"Tournament",
		"Tradeshow, Consumer Show or Expo",
	},
	model.TaxonomyCategory: {
		"House",
		"Techno",
		"Trance",
		"Drum & Bass",
		"Dubstep",
		"Electro House",
		"Tech House",
		"Deep House",
		"Progressive House",
		"Hardstyle",
		"Hardcore",
		"Minimal Techno",
		"Acid House",
		"UK Garage",
		"Bass House",
		"Future House",
		"Tropical House",
		"Ambient",
		"Downtempo",
		"Electronica",
		"Wave",
		"Vaporwave",
		"Glitch Hop",
		"Psytrance",
		"Hardcore Techno",
		"Big Room House",
		"Jungle",
		"Gqom",
		"Eurodance",
		"Hyperpop",
	},
}
