package domain

// Mode - режим экрана.
type Mode string

const (
	ModeBrowsing        Mode = "browsing"
	ModePlacingProperty Mode = "placing_property"
	ModeEditingExisting Mode = "editing_existing"
)

// Viewport - видимая область карты.
type Viewport struct {
	Center GeoPoint
	Zoom   int
}

// SelectionState - что выбрано и в каком режиме находится экран.
type SelectionState struct {
	Mode            Mode
	SelectedID      *PropertyID // слабая ссылка на объект в PropertyStore
	PendingLocation *GeoPoint   // точка для нового объекта
}

// IsAddingProperty - режим установки новой метки.
func (s SelectionState) IsAddingProperty() bool {
	return s.Mode == ModePlacingProperty
}
