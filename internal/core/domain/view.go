package domain

// Структуры представления: то, что отрисовщик (браузер или консоль) получает целиком.
// Теги json нужны потому, что эти структуры уходят в SSE-поток без промежуточных DTO.

type PropertyCard struct {
	ID         PropertyID `json:"id"`
	TypeLabel  string     `json:"type_label"`
	Name       string     `json:"name"`
	PriceLabel string     `json:"price_label"`
	Address    string     `json:"address"`
	Area       float64    `json:"area"`
	Bedrooms   int        `json:"bedrooms"`
	Bathrooms  int        `json:"bathrooms"`
	Selected   bool       `json:"selected"`
}

type MapMarker struct {
	ID         PropertyID `json:"id"`
	Name       string     `json:"name"`
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	Geohash    string     `json:"geohash"`
	PriceLabel string     `json:"price_label"`
	DetailPath string     `json:"detail_path"`
	Selected   bool       `json:"selected"`
}

// MarkerCluster - несколько меток в одной ячейке geohash.
type MarkerCluster struct {
	Geohash   string       `json:"geohash"`
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	IDs       []PropertyID `json:"ids"`
}

type PendingMarker struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Label     string  `json:"label"`
}

type ViewportView struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      int     `json:"zoom"`
}

type FormView struct {
	Title     string            `json:"title"`
	Editing   bool              `json:"editing"`
	EditingID *PropertyID       `json:"editing_id,omitempty"`
	Fields    map[string]string `json:"fields"`
	ImageURLs []string          `json:"image_urls"`
}

// SessionView - снимок всего экрана.
type SessionView struct {
	Mode         Mode              `json:"mode"`
	SelectedID   *PropertyID       `json:"selected_id,omitempty"`
	Viewport     ViewportView      `json:"viewport"`
	Cards        []PropertyCard    `json:"cards"`
	EmptyMessage string            `json:"empty_message,omitempty"`
	Markers      []MapMarker       `json:"markers"`
	Clusters     []MarkerCluster   `json:"clusters"`
	Pending      *PendingMarker    `json:"pending,omitempty"`
	Form         *FormView         `json:"form,omitempty"`
	Filter       map[string]string `json:"filter"`
	Busy         bool              `json:"busy"`
	Error        string            `json:"error,omitempty"`
	CurrentPage  int               `json:"current_page"`
	TotalPages   int               `json:"total_pages"`
}
