package ports

import (
	"context"
	"io"

	"github.com/autochef0332/autochef/internal/core/domain"
)

// RestaurantService owns the restaurant profile of an owner and its secret key.
type RestaurantService interface {
	Get(ctx context.Context, ownerID string) (*domain.Restaurant, error)
	Create(ctx context.Context, ownerID string, fields domain.RestaurantFields) (*domain.Restaurant, error)
	Update(ctx context.Context, ownerID string, patch domain.RestaurantPatch) (*domain.Restaurant, error)
	ResetSecretKey(ctx context.Context, ownerID string) (*domain.Restaurant, error)
	SecretKeyQR(ctx context.Context, ownerID string) ([]byte, error)
	ResolveByKey(ctx context.Context, key string) (*domain.Restaurant, error)
}

// SessionService resolves the route guard state of a caller. An empty owner id is anonymous.
type SessionService interface {
	State(ctx context.Context, ownerID string) (domain.SessionState, error)
}

type SectionService interface {
	List(ctx context.Context, ownerID string) ([]domain.MenuSection, error)
	Create(ctx context.Context, ownerID string, fields domain.SectionFields) (*domain.MenuSection, error)
	Update(ctx context.Context, ownerID, sectionID string, patch domain.SectionPatch) (*domain.MenuSection, error)
	Delete(ctx context.Context, ownerID, sectionID string) error
	Reorder(ctx context.Context, ownerID string, ids []string) ([]domain.MenuSection, error)
	Move(ctx context.Context, ownerID, sectionID string, index int) ([]domain.MenuSection, error)
}

type ItemService interface {
	List(ctx context.Context, ownerID, sectionID string) ([]domain.MenuItem, error)
	ListAll(ctx context.Context, ownerID string) ([]domain.MenuItem, error)
	Create(ctx context.Context, ownerID, sectionID string, fields domain.ItemFields) (*domain.MenuItem, error)
	Update(ctx context.Context, ownerID, sectionID, itemID string, patch domain.ItemPatch) (*domain.MenuItem, error)
	SetAvailability(ctx context.Context, ownerID, sectionID, itemID string, available bool) (*domain.MenuItem, error)
	Delete(ctx context.Context, ownerID, sectionID, itemID string) error
	Reorder(ctx context.Context, ownerID, sectionID string, ids []string) ([]domain.MenuItem, error)
	Move(ctx context.Context, ownerID, sectionID, itemID string, index int) ([]domain.MenuItem, error)
}

// ImageUpload is an image received from a client, before validation.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type MediaService interface {
	UploadImage(ctx context.Context, ownerID string, in ImageUpload) (string, error)
	// DeleteImage is best effort: failures are logged, never returned.
	DeleteImage(ctx context.Context, ownerID, url string)
}

// SectionWithItems is one section of a menu snapshot.
type SectionWithItems struct {
	domain.MenuSection
	Items []domain.MenuItem `json:"items"`
}

// MenuSnapshot is the full ordered menu of a restaurant.
type MenuSnapshot struct {
	Restaurant domain.Restaurant  `json:"restaurant"`
	Sections   []SectionWithItems `json:"sections"`
}

type MenuService interface {
	Snapshot(ctx context.Context, key string) (*MenuSnapshot, error)
}
