package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/openshophq/openshop-backend/pkg/db"
	"github.com/openshophq/openshop-backend/pkg/db/models"
	"github.com/openshophq/openshop-backend/pkg/enums"
	pkgerrors "github.com/openshophq/openshop-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Business{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn))
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func seedProduct(t *testing.T, conn *gorm.DB, name string, price int64) models.Product {
	t.Helper()
	product := models.Product{
		ID:         uuid.New(),
		BusinessID: uuid.New(),
		Name:       name,
		ProductNo:  "SKU-" + name,
		Category:   enums.ProductCategoryRandom,
		Quantity:   100,
		Price:      decimal.NewFromInt(price),
		Status:     enums.ProductStatusAvailable,
	}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestAddItemsCreatesCartLazily(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	product := seedProduct(t, conn, "Rice", 500)
	userID := uuid.New()

	dto, err := svc.AddItems(context.Background(), userID, enums.UserTypeCustomer, AddItemsRequest{
		Items: []AddItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("add items: %v", err)
	}
	if dto.Code == "" {
		t.Fatalf("expected generated cart code")
	}
	if len(dto.Items) != 1 || dto.Items[0].Quantity != 2 {
		t.Fatalf("unexpected cart lines %+v", dto.Items)
	}
	if !dto.Subtotal.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected subtotal 1000, got %s", dto.Subtotal)
	}
}

func TestAddItemsOverwritesQuantityOnMerge(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	product := seedProduct(t, conn, "Rice", 500)
	userID := uuid.New()

	mustAdd := func(qty int) *CartDTO {
		dto, err := svc.AddItems(context.Background(), userID, enums.UserTypeCustomer, AddItemsRequest{
			Items: []AddItemInput{{ProductID: product.ID, Quantity: qty}},
		})
		if err != nil {
			t.Fatalf("add items: %v", err)
		}
		return dto
	}

	mustAdd(2)
	dto := mustAdd(5)

	// Quantity is overwritten, not summed.
	if len(dto.Items) != 1 || dto.Items[0].Quantity != 5 {
		t.Fatalf("expected single line with quantity 5, got %+v", dto.Items)
	}

	var count int64
	if err := conn.Model(&models.CartItem{}).Count(&count).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one cart item row, got %d", count)
	}
}

func TestAddItemsRelinksLineToCurrentCart(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	product := seedProduct(t, conn, "Rice", 500)

	firstUser := uuid.New()
	if _, err := svc.AddItems(context.Background(), firstUser, enums.UserTypeCustomer, AddItemsRequest{
		Items: []AddItemInput{{ProductID: product.ID, Quantity: 2}},
	}); err != nil {
		t.Fatalf("first user add: %v", err)
	}

	secondUser := uuid.New()
	dto, err := svc.AddItems(context.Background(), secondUser, enums.UserTypeCustomer, AddItemsRequest{
		Items: []AddItemInput{{ProductID: product.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("second user add: %v", err)
	}
	if len(dto.Items) != 1 || dto.Items[0].Quantity != 3 {
		t.Fatalf("expected relinked line with quantity 3, got %+v", dto.Items)
	}

	// The first user's cart no longer holds the line.
	first, err := svc.Get(context.Background(), firstUser)
	if err != nil {
		t.Fatalf("get first cart: %v", err)
	}
	if len(first.Items) != 0 {
		t.Fatalf("expected first cart to be empty, got %+v", first.Items)
	}
}

func TestAddItemsForbidsNonCustomers(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.AddItems(context.Background(), uuid.New(), enums.UserTypeShopOwner, AddItemsRequest{
		Items: []AddItemInput{{ProductID: uuid.New(), Quantity: 1}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAddItemsUnknownProductRollsBack(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	product := seedProduct(t, conn, "Rice", 500)
	userID := uuid.New()

	_, err := svc.AddItems(context.Background(), userID, enums.UserTypeCustomer, AddItemsRequest{
		Items: []AddItemInput{
			{ProductID: product.ID, Quantity: 1},
			{ProductID: uuid.New(), Quantity: 1},
		},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	var count int64
	if err := conn.Model(&models.CartItem{}).Count(&count).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback to remove staged lines, got %d rows", count)
	}
}

func TestGetWithoutCartNotFound(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteItemsScopedToOwnCart(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	riceID := seedProduct(t, conn, "Rice", 500).ID
	beansID := seedProduct(t, conn, "Beans", 300).ID

	owner := uuid.New()
	ownerCart, err := svc.AddItems(context.Background(), owner, enums.UserTypeCustomer, AddItemsRequest{
		Items: []AddItemInput{{ProductID: riceID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("owner add: %v", err)
	}

	other := uuid.New()
	otherCart, err := svc.AddItems(context.Background(), other, enums.UserTypeCustomer, AddItemsRequest{
		Items: []AddItemInput{{ProductID: beansID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("other add: %v", err)
	}

	// Deleting with a foreign line id removes nothing from the other cart.
	deleted, err := svc.DeleteItems(context.Background(), owner, DeleteItemsRequest{
		IDs: []uuid.UUID{ownerCart.Items[0].ID, otherCart.Items[0].ID},
	})
	if err != nil {
		t.Fatalf("delete items: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected exactly 1 deleted row, got %d", deleted)
	}

	remaining, err := svc.Get(context.Background(), other)
	if err != nil {
		t.Fatalf("get other cart: %v", err)
	}
	if len(remaining.Items) != 1 {
		t.Fatalf("expected other cart untouched, got %+v", remaining.Items)
	}
}
