package images

import "strings"

// Placeholder is a well-known catalog asset addressed by id.
type Placeholder struct {
	ID   string
	URL  string
	Hint string
}

var defaultPlaceholders = []Placeholder{
	{ID: "veg-thali", URL: "https://images.unsplash.com/photo-1546833999-b9f581a1996d", Hint: "indian thali"},
	{ID: "chicken-biryani", URL: "https://images.unsplash.com/photo-1563379091339-03b21ab4a4f8", Hint: "biryani"},
	{ID: "masala-dosa", URL: "https://images.unsplash.com/photo-1668236543090-82eba5ee5976", Hint: "dosa"},
	{ID: "samosa", URL: "https://images.unsplash.com/photo-1601050690597-df0568f70950", Hint: "samosa"},
	{ID: "vada-pav", URL: "https://images.unsplash.com/photo-1606491956689-2ea866880c84", Hint: "vada pav"},
	{ID: "veg-puff", URL: "https://images.unsplash.com/photo-1509440159596-0249088772ff", Hint: "pastry"},
	{ID: "masala-chai", URL: "https://images.unsplash.com/photo-1561336313-0bd5e0b27ec8", Hint: "tea"},
	{ID: "filter-coffee", URL: "https://images.unsplash.com/photo-1509042239860-f550ce710b93", Hint: "coffee"},
	{ID: "lime-soda", URL: "https://images.unsplash.com/photo-1621263764928-df1444c5e859", Hint: "lime soda"},
}

const defaultHint = "food"

type Resolver struct {
	byID map[string]Placeholder
}

func NewResolver(placeholders []Placeholder) *Resolver {
	r := &Resolver{byID: make(map[string]Placeholder, len(placeholders))}
	for _, p := range placeholders {
		r.byID[p.ID] = p
	}
	return r
}

func NewDefaultResolver() *Resolver {
	return NewResolver(defaultPlaceholders)
}

// Resolve returns a displayable address. Direct uploads pass through, known
// ids map to their asset, anything else falls back to the raw url.
func (r *Resolver) Resolve(imageID, imageURL string) string {
	if isDirect(imageURL) {
		return imageURL
	}
	if p, ok := r.byID[imageID]; ok {
		return p.URL
	}
	return imageURL
}

func (r *Resolver) Hint(imageID string) string {
	if p, ok := r.byID[imageID]; ok {
		return p.Hint
	}
	return defaultHint
}

func isDirect(u string) bool {
	for _, prefix := range []string{"blob:", "data:", "http://", "https://"} {
		if strings.HasPrefix(u, prefix) {
			return true
		}
	}
	return false
}
