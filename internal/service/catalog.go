// File: internal/service/catalog.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"sweet-shop/internal/apperror"
	"sweet-shop/internal/database"
	"sweet-shop/internal/events"
	"sweet-shop/internal/model"
	"sweet-shop/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	msgSweetNotFound        = "Sweet not found"
	msgInvalidPurchase      = "Invalid purchase quantity"
	msgInsufficientQuantity = "Insufficient quantity"
	msgInvalidRestock       = "Invalid restock quantity"
	msgQuantityTooLarge     = "Quantity is too large"
	msgValueOutOfRange      = "Value out of range"
	pgNumericOutOfRange     = "22003"
	pgCheckViolation        = "23514"
)

var (
	createSweet   = store.CreateSweet
	listSweets    = store.ListSweets
	getSweetByID  = store.GetSweetByID
	searchSweets  = store.SearchSweets
	updateSweet   = store.UpdateSweet
	purchaseSweet = store.PurchaseSweet
	restockSweet  = store.RestockSweet
	deleteSweet   = store.DeleteSweet
	timeNow       = time.Now
)

// NewSweet is the input for Create.
type NewSweet struct {
	Name        string
	Category    string
	Price       decimal.Decimal
	Quantity    int
	Description *string
	ImageURL    *string
}

type CatalogService struct {
	db     database.DB
	events events.Emitter
	log    *zap.Logger
}

// NewCatalogService wires the catalog use cases. emitter may be nil.
func NewCatalogService(db database.DB, emitter events.Emitter, log *zap.Logger) *CatalogService {
	if emitter == nil {
		emitter = events.Emitters{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{db: db, events: emitter, log: log}
}

func (s *CatalogService) Create(ctx context.Context, actorID int, in NewSweet) (*model.Sweet, error) {
	sw := model.Sweet{
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		Price:       in.Price,
		Quantity:    in.Quantity,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}
	if err := ValidateSweet(sw); err != nil {
		return nil, err
	}
	created, err := createSweet(ctx, s.db, &sw)
	if err != nil {
		return nil, s.internal("create sweet", err)
	}
	s.emit(events.SweetCreated, actorID, created, 0)
	return created, nil
}

func (s *CatalogService) List(ctx context.Context) ([]model.Sweet, error) {
	list, err := listSweets(ctx, s.db)
	if err != nil {
		return nil, s.internal("list sweets", err)
	}
	return list, nil
}

func (s *CatalogService) Get(ctx context.Context, id int) (*model.Sweet, error) {
	sw, err := getSweetByID(ctx, s.db, id)
	if err != nil {
		return nil, s.lookupErr("get sweet", err)
	}
	return sw, nil
}

// Search ANDs the given filters. An empty filter behaves like List.
func (s *CatalogService) Search(ctx context.Context, f model.SweetFilter) ([]model.Sweet, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Category = strings.TrimSpace(f.Category)
	if f.Empty() {
		return s.List(ctx)
	}
	list, err := searchSweets(ctx, s.db, f)
	if err != nil {
		return nil, s.internal("search sweets", err)
	}
	return list, nil
}

// Update merges patch onto the stored sweet and persists the result.
func (s *CatalogService) Update(ctx context.Context, actorID, id int, patch SweetPatch) (*model.Sweet, error) {
	current, err := getSweetByID(ctx, s.db, id)
	if err != nil {
		return nil, s.lookupErr("get sweet", err)
	}
	merged, err := patch.Merge(*current)
	if err != nil {
		return nil, err
	}
	updated, err := updateSweet(ctx, s.db, id, patch.Changes(merged))
	if err != nil {
		return nil, s.writeErr("update sweet", msgValueOutOfRange, err)
	}
	delta := 0
	if patch.Quantity != nil {
		delta = merged.Quantity - current.Quantity
	}
	s.emit(events.SweetUpdated, actorID, updated, delta)
	return updated, nil
}

// Purchase takes qty units out of stock. Stock never goes negative: the
// decrement only applies when enough units remain.
func (s *CatalogService) Purchase(ctx context.Context, actorID, id, qty int) (*model.Sweet, error) {
	if qty <= 0 {
		return nil, apperror.Validation(msgInvalidPurchase)
	}
	sw, err := purchaseSweet(ctx, s.db, id, qty)
	if err == nil {
		s.emit(events.SweetPurchased, actorID, sw, -qty)
		return sw, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, s.internal("purchase sweet", err)
	}
	// No row matched: either the id is unknown or stock is short.
	if _, err := getSweetByID(ctx, s.db, id); err != nil {
		return nil, s.lookupErr("get sweet", err)
	}
	return nil, apperror.Conflict(msgInsufficientQuantity)
}

func (s *CatalogService) Restock(ctx context.Context, actorID, id, qty int) (*model.Sweet, error) {
	if qty <= 0 {
		return nil, apperror.Validation(msgInvalidRestock)
	}
	sw, err := restockSweet(ctx, s.db, id, qty)
	if err != nil {
		return nil, s.writeErr("restock sweet", msgQuantityTooLarge, err)
	}
	s.emit(events.SweetRestocked, actorID, sw, qty)
	return sw, nil
}

func (s *CatalogService) Delete(ctx context.Context, actorID, id int) error {
	deleted, err := deleteSweet(ctx, s.db, id)
	if err != nil {
		return s.internal("delete sweet", err)
	}
	if !deleted {
		return apperror.NotFound(msgSweetNotFound)
	}
	s.events.Emit(events.InventoryEvent{
		Type:       events.SweetDeleted,
		SweetID:    id,
		ActorID:    actorID,
		OccurredAt: timeNow().UTC(),
	})
	return nil
}

func (s *CatalogService) emit(t events.Type, actorID int, sw *model.Sweet, delta int) {
	s.events.Emit(events.InventoryEvent{
		Type:       t,
		SweetID:    sw.ID,
		Name:       sw.Name,
		Quantity:   sw.Quantity,
		Delta:      delta,
		ActorID:    actorID,
		OccurredAt: timeNow().UTC(),
	})
}

// lookupErr maps a missing row to NotFound and anything else to Internal.
func (s *CatalogService) lookupErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound(msgSweetNotFound)
	}
	return s.internal(op, err)
}

// writeErr reports a value the column cannot hold as Validation with msg.
// Other errors go through lookupErr.
func (s *CatalogService) writeErr(op, msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == pgNumericOutOfRange || pgErr.Code == pgCheckViolation) {
		return apperror.Validation(msg)
	}
	return s.lookupErr(op, err)
}

func (s *CatalogService) internal(op string, err error) error {
	s.log.Error(op, zap.Error(err))
	return apperror.Internal(err)
}
