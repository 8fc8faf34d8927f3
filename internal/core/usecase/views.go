package usecase

import (
	"fmt"
	"math"
	"property-map/internal/core/domain"
	"strconv"

	"github.com/mmcloughlin/geohash"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	EmptyListMessage = "No properties found"

	// Точность ячейки geohash для группировки меток (~150 м).
	MarkerCellPrecision uint = 7
)

var priceLocale = language.MustParse("es-CO")

// PriceLabel - цена в песо без дробной части, с разделителями es-CO.
// Цены вне диапазона int64 печатаются как float без дробной части.
func PriceLabel(price float64) string {
	p := message.NewPrinter(priceLocale)
	r := math.Round(price)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		r = 0
	}
	if r < math.MinInt64 || r >= math.MaxInt64 {
		return p.Sprintf("$ %.0f", r)
	}
	return p.Sprintf("$ %d", int64(r))
}

// TypeLabel - бейдж типа: первая буква заглавная, остальное как есть.
// Caser хранит состояние, поэтому создается на каждый вызов.
func TypeLabel(t domain.PropertyType) string {
	caser := cases.Title(language.Und, cases.NoLower)
	return caser.String(string(t))
}

// PendingLabel - подпись временной метки.
func PendingLabel(at domain.GeoPoint) string {
	return fmt.Sprintf("Lat: %.6f Lng: %.6f", at.Latitude, at.Longitude)
}

// DetailPath - путь страницы объекта, куда ведет кнопка во всплывающем окне метки.
func DetailPath(id domain.PropertyID) string {
	return "/property/" + string(id)
}

func buildCards(properties []domain.Property, selected *domain.PropertyID) []domain.PropertyCard {
	cards := make([]domain.PropertyCard, 0, len(properties))
	for _, p := range properties {
		cards = append(cards, domain.PropertyCard{
			ID:         p.ID,
			TypeLabel:  TypeLabel(p.Type),
			Name:       p.Name,
			PriceLabel: PriceLabel(p.Price),
			Address:    p.Address,
			Area:       p.Area,
			Bedrooms:   p.Bedrooms,
			Bathrooms:  p.Bathrooms,
			Selected:   isSelected(p.ID, selected),
		})
	}
	return cards
}

// buildMarkers строит метки и группирует в кластеры те, что попали в одну ячейку geohash.
// Кластеры идут в порядке первого появления ячейки.
func buildMarkers(properties []domain.Property, selected *domain.PropertyID) ([]domain.MapMarker, []domain.MarkerCluster) {
	markers := make([]domain.MapMarker, 0, len(properties))
	cells := make(map[string][]domain.PropertyID)
	var order []string

	for _, p := range properties {
		cell := geohash.EncodeWithPrecision(p.Latitude, p.Longitude, MarkerCellPrecision)
		markers = append(markers, domain.MapMarker{
			ID:         p.ID,
			Name:       p.Name,
			Latitude:   p.Latitude,
			Longitude:  p.Longitude,
			Geohash:    cell,
			PriceLabel: PriceLabel(p.Price),
			DetailPath: DetailPath(p.ID),
			Selected:   isSelected(p.ID, selected),
		})
		if _, seen := cells[cell]; !seen {
			order = append(order, cell)
		}
		cells[cell] = append(cells[cell], p.ID)
	}

	clusters := []domain.MarkerCluster{}
	for _, cell := range order {
		ids := cells[cell]
		if len(ids) < 2 {
			continue
		}
		lat, lng := geohash.DecodeCenter(cell)
		clusters = append(clusters, domain.MarkerCluster{
			Geohash:   cell,
			Latitude:  lat,
			Longitude: lng,
			IDs:       ids,
		})
	}
	return markers, clusters
}

func buildPending(state domain.SelectionState) *domain.PendingMarker {
	if state.PendingLocation == nil {
		return nil
	}
	at := *state.PendingLocation
	return &domain.PendingMarker{
		Latitude:  at.Latitude,
		Longitude: at.Longitude,
		Label:     PendingLabel(at),
	}
}

func buildForm(form *PropertyFormModel) *domain.FormView {
	if form == nil {
		return nil
	}
	d := form.Draft()
	view := &domain.FormView{
		Title:     "New Property",
		EditingID: form.EditingID(),
		Fields:    DraftFields(d),
		ImageURLs: d.ImageURLs,
	}
	if view.EditingID != nil {
		view.Title = "Edit Property"
		view.Editing = true
	}
	return view
}

// DraftFields - черновик формы в виде "имя поля -> значение".
func DraftFields(d domain.PropertyDraft) map[string]string {
	return map[string]string{
		string(domain.FormName):          d.Name,
		string(domain.FormDescription):   d.Description,
		string(domain.FormType):          d.Type,
		string(domain.FormPrice):         d.Price,
		string(domain.FormArea):          d.Area,
		string(domain.FormLatitude):      d.Latitude,
		string(domain.FormLongitude):     d.Longitude,
		string(domain.FormAddress):       d.Address,
		string(domain.FormBedrooms):      d.Bedrooms,
		string(domain.FormBathrooms):     d.Bathrooms,
		string(domain.FormParkingSpaces): d.ParkingSpaces,
		string(domain.FormMainImageURL):  d.MainImageURL,
	}
}

func filterFields(d domain.FilterDraft) map[string]string {
	out := make(map[string]string, len(domain.FilterFields))
	for _, f := range domain.FilterFields {
		out[string(f)] = d.Get(f)
	}
	return out
}

func isSelected(id domain.PropertyID, selected *domain.PropertyID) bool {
	return selected != nil && *selected == id
}

// describeSelection - короткое описание выбора для логов.
func describeSelection(state domain.SelectionState) string {
	if state.SelectedID == nil {
		return "none"
	}
	return strconv.Quote(string(*state.SelectedID))
}
