package catalog

type TourPackage struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Duration    string `json:"duration"`
	Special     bool   `json:"special"`
}

var packages = []TourPackage{
	{
		ID:          "south-coast-adventure",
		Title:       "South Coast Adventure",
		Subtitle:    "Beaches, culture & heritage",
		Description: "Explore stunning beaches, historical sites, and vibrant culture on Sri Lanka's south coast. Visit Galle Fort, Mirissa, and Tangalle.",
		Price:       "LKR 15,000",
		Duration:    "3 Days / 2 Nights",
	},
	{
		ID:          "cultural-triangle-tour",
		Title:       "Cultural Triangle Tour",
		Subtitle:    "Ancient cities & UNESCO wonders",
		Description: "Visit UNESCO World Heritage sites like Sigiriya, Dambulla, and Anuradhapura where history and spirituality meet.",
		Price:       "LKR 20,000",
		Duration:    "4 Days / 3 Nights",
	},
	{
		ID:          "hill-country-escape",
		Title:       "Hill Country Escape",
		Subtitle:    "Tea, mist & mountain views",
		Description: "Enjoy scenic tea plantations, waterfalls, and cool mountain air in Sri Lanka's hill country. Ella, Nuwara Eliya, and Bandarawela await.",
		Price:       "LKR 18,000",
		Duration:    "3 Days / 2 Nights",
	},
	{
		ID:          "yala-wildlife-safari",
		Title:       "Wildlife Safari at Yala",
		Subtitle:    "Experience the wild side of Sri Lanka",
		Description: "Embark on an unforgettable wildlife safari at Yala National Park. Spot leopards, elephants, and a variety of bird species in their natural habitat.",
		Price:       "LKR 22,000",
		Duration:    "3 Days / 2 Nights",
	},
	{
		ID:          "udawalawe-elephant-safari",
		Title:       "Udawalawe Elephant Safari",
		Subtitle:    "Experience the gentle giants of Sri Lanka",
		Description: "Get up close with herds of wild elephants in their natural habitat. Udawalawe offers breathtaking scenery, abundant wildlife, and unforgettable safari adventures.",
		Price:       "LKR 18,000",
		Duration:    "3 Days / 2 Nights",
	},
	{
		ID:          "arugam-bay-surf-escape",
		Title:       "Arugam Bay Surf Escape",
		Subtitle:    "Surf, sun & sand",
		Description: "Catch the perfect wave at Arugam Bay, one of the top surf destinations in the world. Enjoy sun-soaked days and vibrant nightlife.",
		Price:       "LKR 18,000",
		Duration:    "3 Days / 2 Nights",
	},
	{
		ID:          "secret-shores",
		Title:       "Secret Shores of Sri Lanka",
		Subtitle:    "Hidden Paradise Awaits",
		Description: "Discover the untouched beaches and hidden coves of Sri Lanka's stunning coastline. Perfect for travelers seeking tranquility away from the crowds.",
		Price:       "LKR 45,000",
		Duration:    "5 Days / 4 Nights",
		Special:     true,
	},
	{
		ID:          "yala-wildlife-special",
		Title:       "Wildlife Safari at Yala",
		Subtitle:    "Where Wild Meets Wonder",
		Description: "Embark on an unforgettable wildlife safari at Yala National Park. Spot leopards, elephants, and exotic birds in their natural habitat.",
		Price:       "LKR 38,000",
		Duration:    "4 Days / 3 Nights",
		Special:     true,
	},
	{
		ID:          "ancient-kingdoms-heritage",
		Title:       "Ancient Kingdoms Heritage",
		Subtitle:    "Journey Through Time",
		Description: "Explore the magnificent ancient kingdoms and UNESCO World Heritage sites that tell the story of Sri Lanka's rich cultural heritage.",
		Price:       "LKR 52,000",
		Duration:    "6 Days / 5 Nights",
		Special:     true,
	},
}

// Packages lists tour packages; with specialOnly set only the special offers
// are returned.
func Packages(specialOnly bool) []TourPackage {
	out := make([]TourPackage, 0, len(packages))
	for _, p := range packages {
		if specialOnly && !p.Special {
			continue
		}
		out = append(out, p)
	}
	return out
}

func LookupPackage(id string) (TourPackage, bool) {
	for _, p := range packages {
		if p.ID == id {
			return p, true
		}
	}
	return TourPackage{}, false
}
