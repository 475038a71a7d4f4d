package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ericleon/storefront/internal/domain"
	"github.com/ericleon/storefront/internal/service/catalog"
	"github.com/ericleon/storefront/internal/storage/memory"
)

func TestService_Create_OK(t *testing.T) {
	svc := catalog.NewService(memory.NewProductRepository(memory.NewStore()), nil)

	product, err := svc.Create(context.Background(), catalog.CreateInput{
		Name:       "  Wireless Mouse ",
		SKU:        "MOU-001",
		PriceCents: 2999,
		StockQty:   100,
	})
	require.NoError(t, err)
	require.NotZero(t, product.ID)
	require.Equal(t, "Wireless Mouse", product.Name)
	require.False(t, product.CreatedAt.IsZero())
}

func TestService_Create_ValidationErrors(t *testing.T) {
	svc := catalog.NewService(memory.NewProductRepository(memory.NewStore()), nil)

	_, err := svc.Create(context.Background(), catalog.CreateInput{PriceCents: -1})
	require.Error(t, err)
	require.True(t, domain.IsValidation(err))
	require.Contains(t, err.Error(), "name")
	require.Contains(t, err.Error(), "sku")
}

func TestService_Create_DuplicateSKU(t *testing.T) {
	svc := catalog.NewService(memory.NewProductRepository(memory.NewStore()), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, catalog.CreateInput{Name: "A", SKU: "DUP-001", PriceCents: 1})
	require.NoError(t, err)

	_, err = svc.Create(ctx, catalog.CreateInput{Name: "B", SKU: "DUP-001", PriceCents: 2})
	require.True(t, domain.IsAlreadyExists(err), "expected duplicate sku error, got %v", err)
}

func TestService_Update_PatchAndNotFound(t *testing.T) {
	svc := catalog.NewService(memory.NewProductRepository(memory.NewStore()), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, catalog.CreateInput{Name: "Desk Lamp LED", SKU: "LMP-001", PriceCents: 3499, StockQty: 80})
	require.NoError(t, err)

	stock := int32(75)
	updated, err := svc.Update(ctx, created.ID, domain.ProductPatch{StockQty: &stock})
	require.NoError(t, err)
	require.Equal(t, int32(75), updated.StockQty)
	require.Equal(t, int64(3499), updated.PriceCents)

	_, err = svc.Update(ctx, 424242, domain.ProductPatch{StockQty: &stock})
	require.True(t, domain.IsNotFound(err))

	negative := int64(-5)
	_, err = svc.Update(ctx, created.ID, domain.ProductPatch{PriceCents: &negative})
	require.True(t, domain.IsValidation(err))
}

func TestService_List_SortWhitelist(t *testing.T) {
	svc := catalog.NewService(memory.NewProductRepository(memory.NewStore()), nil)
	ctx := context.Background()

	_, err := svc.List(ctx, catalog.ListQuery{Sort: "stock_qty"})
	require.True(t, domain.IsValidation(err), "unexpected sort fields must be rejected")

	_, err = svc.List(ctx, catalog.ListQuery{Direction: "sideways"})
	require.True(t, domain.IsValidation(err))

	_, err = svc.List(ctx, catalog.ListQuery{Sort: "price_cents", Direction: "DESC"})
	require.NoError(t, err, "direction must be case-insensitive")
}

func TestService_List_DefaultsToNameAsc(t *testing.T) {
	store := memory.NewStore()
	svc := catalog.NewService(memory.NewProductRepository(store), nil)
	ctx := context.Background()

	for _, input := range []catalog.CreateInput{
		{Name: "Zeta", SKU: "Z-1", PriceCents: 1},
		{Name: "Alpha", SKU: "A-1", PriceCents: 2},
	} {
		_, err := svc.Create(ctx, input)
		require.NoError(t, err)
	}

	products, err := svc.List(ctx, catalog.ListQuery{})
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, "Alpha", products[0].Name)
}
