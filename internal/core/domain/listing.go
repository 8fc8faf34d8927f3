package domain

// ListingShape - форма ответа сервера со списком объектов.
type ListingShape string

const (
	ShapeList  ListingShape = "list"  // голый массив
	ShapeItems ListingShape = "items" // {"items": [...], "total": n}
	// ShapeKeyed - объект, значения которого похожи на записи (есть поле id).
	// Запасной путь для нестандартных ответов.
	ShapeKeyed ListingShape = "keyed"
)

// ListingResponse - ответ на запрос списка или поиска.
type ListingResponse struct {
	Shape ListingShape
	Items []Property
	Total *int64
}
