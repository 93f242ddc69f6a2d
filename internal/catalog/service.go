package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"

	"swiftbites.app/storefront/pkg/global"
	"swiftbites.app/storefront/pkg/models"
	"swiftbites.app/storefront/pkg/mongo"
)

type Store interface {
	List(ctx context.Context) ([]models.MenuItem, error)
	Get(ctx context.Context, id bson.ObjectID) (*models.MenuItem, error)
	Create(ctx context.Context, item *models.MenuItem) error
	Update(ctx context.Context, item *models.MenuItem) error
	Delete(ctx context.Context, id bson.ObjectID) error
}

// Images stores item pictures. Delete never fails; missing objects are ignored.
type Images interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, imageURL string)
}

type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Input carries a create or update from the admin menu editor.
type Input struct {
	Name       string
	Price      decimal.Decimal
	Image      *Upload
	ClearImage bool
}

type Service struct {
	store  Store
	images Images
	log    *slog.Logger
}

func NewService(store Store, images Images, log *slog.Logger) *Service {
	return &Service{store: store, images: images, log: log}
}

func (s *Service) List(ctx context.Context) ([]models.MenuItem, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		s.log.Error("failed to list menu items", "error", err)
		return nil, global.Persistence("Failed to fetch menu items", err)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id bson.ObjectID) (*models.MenuItem, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, s.storeError("Failed to fetch menu item", err)
	}
	return item, nil
}

// Create adds a menu item with its picture. The uploaded object is removed
// again if the item cannot be saved.
func (s *Service) Create(ctx context.Context, in Input) (*models.MenuItem, error) {
	fields := validate(in)
	if in.Image == nil {
		fields = append(fields, global.Required("imageFile"))
	}
	if len(fields) > 0 {
		return nil, global.Validation("Invalid menu item", fields...)
	}

	imageURL, err := s.upload(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	item := &models.MenuItem{Name: strings.TrimSpace(in.Name), Price: in.Price, Image: imageURL}
	if err := s.store.Create(ctx, item); err != nil {
		s.images.Delete(ctx, imageURL)
		return nil, s.storeError("Failed to add menu item", err)
	}

	s.log.Info("menu item created", "id", item.ID.Hex(), "name", item.Name)
	return item, nil
}

// Update changes name and price and optionally replaces or clears the
// picture. The previous picture is deleted only once the new state is saved;
// a failed save deletes the freshly uploaded picture instead.
func (s *Service) Update(ctx context.Context, id bson.ObjectID, in Input) (*models.MenuItem, error) {
	if fields := validate(in); len(fields) > 0 {
		return nil, global.Validation("Invalid menu item", fields...)
	}

	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, s.storeError("Failed to fetch menu item", err)
	}

	updated := *current
	updated.Name = strings.TrimSpace(in.Name)
	updated.Price = in.Price

	var uploaded string
	switch {
	case in.Image != nil:
		if uploaded, err = s.upload(ctx, in.Image); err != nil {
			return nil, err
		}
		updated.Image = uploaded
	case in.ClearImage:
		updated.Image = ""
	}

	if err := s.store.Update(ctx, &updated); err != nil {
		if uploaded != "" {
			s.images.Delete(ctx, uploaded)
		}
		return nil, s.storeError("Failed to update menu item", err)
	}

	if current.Image != "" && current.Image != updated.Image {
		s.images.Delete(ctx, current.Image)
	}

	s.log.Info("menu item updated", "id", id.Hex(), "name", updated.Name)
	return &updated, nil
}

// Delete removes the item, then its picture.
func (s *Service) Delete(ctx context.Context, id bson.ObjectID) error {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return s.storeError("Failed to fetch menu item", err)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return s.storeError("Failed to delete menu item", err)
	}
	s.images.Delete(ctx, item.Image)

	s.log.Info("menu item deleted", "id", id.Hex(), "name", item.Name)
	return nil
}

func (s *Service) upload(ctx context.Context, up *Upload) (string, error) {
	imageURL, err := s.images.Upload(ctx, up.Filename, up.ContentType, up.Body)
	if err != nil {
		s.log.Error("failed to upload image", "filename", up.Filename, "error", err)
		return "", global.Upstream("Failed to upload image", err)
	}
	return imageURL, nil
}

func (s *Service) storeError(message string, err error) error {
	switch {
	case errors.Is(err, global.ErrNotFound):
		return global.NotFound("Menu item not found")
	case errors.Is(err, mongo.ErrDuplicateName):
		return global.Validation("A menu item with this name already exists",
			global.ValidationError{Field: "name", Message: "name already exists", Code: "unique"})
	}
	s.log.Error(message, "error", err)
	return global.Persistence(message, err)
}

func validate(in Input) []global.ValidationError {
	var fields []global.ValidationError
	if strings.TrimSpace(in.Name) == "" {
		fields = append(fields, global.Required("name"))
	}
	if !in.Price.IsPositive() {
		fields = append(fields, global.ValidationError{Field: "price", Message: "price must be greater than zero", Code: "min"})
	}
	return fields
}
