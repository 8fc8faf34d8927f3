package usecase

import (
	"context"
	"fmt"
	"property-map/internal/core/domain"
	"property-map/internal/core/port"
	"sync"
)

// fakeBackend - репозиторий в памяти, ведет себя как настоящий REST-бэкенд.
type fakeBackend struct {
	mu     sync.Mutex
	items  []domain.Property
	nextID int
	total  *int64

	listErr   error
	searchErr error
	createErr error
	updateErr error
	deleteErr error

	listCalls     int
	searchCalls   int
	lastCriteria  domain.FilterCriteria
	createdInputs []domain.PropertyInput
	updatedIDs    []domain.PropertyID
	updatedInputs []domain.PropertyInput
	deletedIDs    []domain.PropertyID
}

func newFakeBackend(items ...domain.Property) *fakeBackend {
	return &fakeBackend{items: items, nextID: 100}
}

func (b *fakeBackend) List(ctx context.Context) (*domain.ListingResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listCalls++
	if b.listErr != nil {
		return nil, b.listErr
	}
	return &domain.ListingResponse{Shape: domain.ShapeList, Items: append([]domain.Property{}, b.items...)}, nil
}

func (b *fakeBackend) Search(ctx context.Context, criteria domain.FilterCriteria) (*domain.ListingResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.searchCalls++
	b.lastCriteria = criteria
	if b.searchErr != nil {
		return nil, b.searchErr
	}
	var found []domain.Property
	for _, p := range b.items {
		if criteria.Type != nil && p.Type != *criteria.Type {
			continue
		}
		if criteria.MinPrice != nil && p.Price < *criteria.MinPrice {
			continue
		}
		found = append(found, p)
	}
	return &domain.ListingResponse{Shape: domain.ShapeItems, Items: found, Total: b.total}, nil
}

func (b *fakeBackend) Create(ctx context.Context, input domain.PropertyInput) (*domain.Property, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.createdInputs = append(b.createdInputs, input)
	if b.createErr != nil {
		return nil, b.createErr
	}
	b.nextID++
	p := propertyFromInput(domain.PropertyID(fmt.Sprintf("srv-%d", b.nextID)), input)
	b.items = append(b.items, p)
	return &p, nil
}

func (b *fakeBackend) Update(ctx context.Context, id domain.PropertyID, input domain.PropertyInput) (*domain.Property, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updatedIDs = append(b.updatedIDs, id)
	b.updatedInputs = append(b.updatedInputs, input)
	if b.updateErr != nil {
		return nil, b.updateErr
	}
	for i, p := range b.items {
		if p.ID == id {
			b.items[i] = propertyFromInput(id, input)
			updated := b.items[i]
			return &updated, nil
		}
	}
	return nil, fmt.Errorf("%w: 404", domain.ErrNetworkFailure)
}

func (b *fakeBackend) Delete(ctx context.Context, id domain.PropertyID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deletedIDs = append(b.deletedIDs, id)
	if b.deleteErr != nil {
		return b.deleteErr
	}
	kept := b.items[:0]
	for _, p := range b.items {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	b.items = kept
	return nil
}

func (b *fakeBackend) calls() (list, search int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.listCalls, b.searchCalls
}

func propertyFromInput(id domain.PropertyID, in domain.PropertyInput) domain.Property {
	return domain.Property{
		ID:            id,
		Name:          in.Name,
		Type:          in.Type,
		Price:         in.Price,
		Area:          in.Area,
		Bedrooms:      in.Bedrooms,
		Bathrooms:     in.Bathrooms,
		ParkingSpaces: in.ParkingSpaces,
		Address:       in.Address,
		Description:   in.Description,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		MainImageURL:  in.MainImageURL,
		ImageURLs:     in.ImageURLs,
	}
}

type fakeConfirmer struct {
	mu      sync.Mutex
	answer  bool
	prompts []string
}

func (c *fakeConfirmer) Confirm(ctx context.Context, prompt string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)
	return c.answer
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []port.StateEvent
}

func (n *recordingNotifier) Notify(ctx context.Context, event port.StateEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) last() (port.StateEvent, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.events) == 0 {
		return port.StateEvent{}, false
	}
	return n.events[len(n.events)-1], true
}

func (n *recordingNotifier) reasons() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.Reason
	}
	return out
}

func sampleProperties() []domain.Property {
	return []domain.Property{
		{ID: "1", Name: "Casa Norte", Type: "house", Price: 300000, Area: 120, Bedrooms: 3, Bathrooms: 2, Address: "Calle 100", Latitude: 4.68, Longitude: -74.05},
		{ID: "2", Name: "Apto Centro", Type: "apartment", Price: 150000, Area: 60, Bedrooms: 2, Bathrooms: 1, Address: "Carrera 7", Latitude: 4.60, Longitude: -74.07},
		{ID: "3", Name: "Oficina 93", Type: "office", Price: 500000, Area: 200, Address: "Calle 93", Latitude: 4.676, Longitude: -74.048},
	}
}

func ids(properties []domain.Property) []domain.PropertyID {
	out := make([]domain.PropertyID, len(properties))
	for i, p := range properties {
		out[i] = p.ID
	}
	return out
}

func ptr[T any](v T) *T { return &v }
