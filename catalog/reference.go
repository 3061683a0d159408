package catalog

var reference = MustNew(
	Entry{Keyword: CategoryBeach, Destinations: []Destination{
		{Name: "Unawatuna Beach", Description: "Golden sandy beach perfect for swimming"},
		{Name: "Mirissa Beach", Description: "Whale watching and stunning sunsets"},
		{Name: "Arugam Bay", Description: "World-class surfing destination"},
		{Name: "Bentota Beach", Description: "Water sports and luxury resorts"},
		{Name: "Hikkaduwa Beach", Description: "Coral reefs and vibrant nightlife"},
	}},
	Entry{Keyword: CategoryWildlife, Destinations: []Destination{
		{Name: "Yala National Park", Description: "Famous for leopard sightings"},
		{Name: "Wilpattu National Park", Description: "Largest national park with diverse wildlife"},
		{Name: "Udawalawe National Park", Description: "Best place to see wild elephants"},
		{Name: "Sinharaja Forest Reserve", Description: "UNESCO World Heritage rainforest"},
	}},
	Entry{Keyword: CategoryMountain, Destinations: []Destination{
		{Name: "Ella Rock", Description: "Spectacular hiking with panoramic views"},
		{Name: "Nuwara Eliya", Description: "Cool climate and tea plantations"},
		{Name: "Haputale", Description: "Breathtaking mountain vistas"},
		{Name: "Adams Peak", Description: "Sacred pilgrimage site with sunrise views"},
	}},
	Entry{Keyword: CategoryTea, Destinations: []Destination{
		{Name: "Nuwara Eliya Tea Estates", Description: "Historic tea plantations and factories"},
		{Name: "Pedro Tea Estate", Description: "High-altitude premium tea experience"},
		{Name: "Dambatenne Tea Factory", Description: "Founded by Sir Thomas Lipton"},
	}},
	Entry{Keyword: CategoryCultural, Destinations: []Destination{
		{Name: "Sigiriya Rock Fortress", Description: "Ancient rock fortress and frescoes"},
		{Name: "Temple of the Tooth", Description: "Sacred Buddhist temple in Kandy"},
		{Name: "Dambulla Cave Temple", Description: "Ancient cave paintings and statues"},
		{Name: "Galle Dutch Fort", Description: "Colonial architecture by the sea"},
	}},
	Entry{Keyword: CategoryAdventure, Destinations: []Destination{
		{Name: "Kitulgala White Water Rafting", Description: "Thrilling river rafting experience"},
		{Name: "Zip-lining in Ella", Description: "Soar through tea plantations"},
		{Name: "Hot Air Ballooning", Description: "Aerial views of Sri Lankan landscape"},
	}},
)

// Reference returns the destination catalog served by the site.
func Reference() *Catalog {
	return reference
}
