package external

import "github.com/shenikar/disaster_response_system/internal/models"

// Курируемая лента новостей о бедствиях. Фиксированный набор, всегда доступен.
var newsFeed = []models.NewsArticle{
	{
		ID:       "1",
		Title:    "El Niño Preparedness: County Govts urged to clear drainage systems",
		Source:   "Daily Nation",
		TimeAgo:  "2h ago",
		Category: "Preparedness",
		ImageURL: "https://images.unsplash.com/photo-1541960071727-c531398e7494?auto=format&fit=crop&q=80&w=400",
		URL:      "https://nation.africa/kenya/news",
	},
	{
		ID:       "2",
		Title:    "Traffic Alert: Heavy fog reported along Limuru Road",
		Source:   "Ma3Route",
		TimeAgo:  "45m ago",
		Category: "Road Safety",
		ImageURL: "https://images.unsplash.com/photo-1485732431145-c0490bb62d64?auto=format&fit=crop&q=80&w=400",
		URL:      "https://twitter.com/Ma3Route",
	},
	{
		ID:       "3",
		Title:    "Drought Alarm: NDMA flags 5 counties in Coast region",
		Source:   "The Standard",
		TimeAgo:  "5h ago",
		Category: "Drought",
		ImageURL: "https://images.unsplash.com/photo-1505562130589-324d9d1be6ce?auto=format&fit=crop&q=80&w=400",
		URL:      "https://www.standardmedia.co.ke/topic/drought",
	},
	{
		ID:       "4",
		Title:    "Red Cross launches emergency response app for rural areas",
		Source:   "Kenya News Agency",
		TimeAgo:  "1d ago",
		Category: "Technology",
		ImageURL: "https://images.unsplash.com/photo-1576091160550-217358c7e618?auto=format&fit=crop&q=80&w=400",
		URL:      "https://www.redcross.or.ke/",
	},
}

// FetchNews возвращает ленту новостей о бедствиях
func (c *Client) FetchNews() []models.NewsArticle {
	feed := make([]models.NewsArticle, len(newsFeed))
	copy(feed, newsFeed)
	return feed
}
