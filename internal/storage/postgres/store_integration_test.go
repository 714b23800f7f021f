//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"api_sales/internal/products"
	"api_sales/internal/sales"
	"api_sales/internal/storage/postgres"
)

type StoreSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *sql.DB
	sales     *postgres.SalesStore
	products  *postgres.ProductStore
}

func TestStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupSuite() {
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("sales"),
		tcpostgres.WithUsername("sales"),
		tcpostgres.WithPassword("sales"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.db, err = postgres.Open(ctx, dsn)
	s.Require().NoError(err)
	s.Require().NoError(postgres.Migrate(ctx, s.db))

	s.sales = postgres.NewSalesStore(s.db)
	s.products = postgres.NewProductStore(s.db)
}

func (s *StoreSuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *StoreSuite) SetupTest() {
	_, err := s.db.ExecContext(context.Background(), `TRUNCATE sale_items, sales, products`)
	s.Require().NoError(err)
}

func (s *StoreSuite) newSale(number string, date time.Time, items ...sales.ItemInput) *sales.Sale {
	sale, err := sales.NewSale(number, date, uuid.New(), uuid.New(), items)
	s.Require().NoError(err)
	return sale
}

func (s *StoreSuite) TestAddAndRead() {
	ctx := context.Background()
	sale := s.newSale("PG-1", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		sales.ItemInput{ProductID: uuid.New(), Quantity: 5, UnitPrice: decimal.RequireFromString("10.01")},
		sales.ItemInput{ProductID: uuid.New(), Quantity: 2, UnitPrice: decimal.NewFromInt(7)},
	)
	s.Require().NoError(s.sales.Add(ctx, sale))

	got, err := s.sales.Read(ctx, sale.ID())
	s.Require().NoError(err)
	s.Equal("PG-1", got.SaleNumber())
	s.True(got.TotalAmount().Equal(sale.TotalAmount()))
	s.Require().Len(got.Items(), 2)
	s.True(got.Items()[0].TaxAmount().Equal(decimal.RequireFromString("5.005")))
	s.Empty(got.PendingEvents())

	exists, err := s.sales.ExistsBySaleNumber(ctx, "PG-1")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StoreSuite) TestDuplicateSaleNumber() {
	ctx := context.Background()
	date := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s.Require().NoError(s.sales.Add(ctx, s.newSale("DUP", date)))

	err := s.sales.Add(ctx, s.newSale("DUP", date))
	s.ErrorIs(err, sales.ErrDuplicateSaleNumber)
}

func (s *StoreSuite) TestSaveReportsChanges() {
	ctx := context.Background()
	sale := s.newSale("PG-2", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		sales.ItemInput{ProductID: uuid.New(), Quantity: 4, UnitPrice: decimal.NewFromInt(3)},
	)
	s.Require().NoError(s.sales.Add(ctx, sale))

	changed, err := s.sales.Save(ctx, sale)
	s.Require().NoError(err)
	s.False(changed)

	sale.CancelSale()
	changed, err = s.sales.Save(ctx, sale)
	s.Require().NoError(err)
	s.True(changed)

	got, err := s.sales.Read(ctx, sale.ID())
	s.Require().NoError(err)
	s.True(got.Cancelled())
	s.True(got.TotalAmount().IsZero())

	_, err = s.sales.Save(ctx, s.newSale("NEVER-ADDED", time.Now()))
	s.ErrorIs(err, sales.ErrNotFound)
}

func (s *StoreSuite) TestSaveKeepsFirstCancellation() {
	ctx := context.Background()
	sale := s.newSale("PG-RACE", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		sales.ItemInput{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(8)},
	)
	s.Require().NoError(s.sales.Add(ctx, sale))

	first, err := s.sales.Read(ctx, sale.ID())
	s.Require().NoError(err)
	second, err := s.sales.Read(ctx, sale.ID())
	s.Require().NoError(err)

	first.CancelSale()
	changed, err := s.sales.Save(ctx, first)
	s.Require().NoError(err)
	s.True(changed)

	time.Sleep(5 * time.Millisecond)
	second.CancelSale()
	changed, err = s.sales.Save(ctx, second)
	s.Require().NoError(err)
	s.False(changed)

	got, err := s.sales.Read(ctx, sale.ID())
	s.Require().NoError(err)
	s.WithinDuration(first.SaleDate(), got.SaleDate(), time.Millisecond)
}

func (s *StoreSuite) TestGetAllNewestFirst() {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, number := range []string{"A", "B", "C"} {
		s.Require().NoError(s.sales.Add(ctx, s.newSale(number, base.Add(time.Duration(i)*time.Hour))))
	}

	all, err := s.sales.GetAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("C", all[0].SaleNumber())
	s.Equal("A", all[2].SaleNumber())
}

func (s *StoreSuite) TestReadMissing() {
	_, err := s.sales.Read(context.Background(), uuid.New())
	s.ErrorIs(err, sales.ErrNotFound)
}

func (s *StoreSuite) TestProductCatalog() {
	ctx := context.Background()
	p, err := products.NewProduct(uuid.Nil, "Cable", decimal.RequireFromString("9.99"), "usb-c", "accessories")
	s.Require().NoError(err)
	s.Require().NoError(s.products.Add(ctx, p))

	exists, err := s.products.Exists(ctx, p.ID)
	s.Require().NoError(err)
	s.True(exists)

	price, err := s.products.GetPrice(ctx, p.ID)
	s.Require().NoError(err)
	s.Require().True(price.Valid)
	s.True(price.Decimal.Equal(decimal.RequireFromString("9.99")))

	s.Require().NoError(p.UpdatePrice(decimal.NewFromInt(12)))
	s.Require().NoError(s.products.Save(ctx, p))
	got, err := s.products.Read(ctx, p.ID)
	s.Require().NoError(err)
	s.True(got.Price.Equal(decimal.NewFromInt(12)))

	missing, err := s.products.GetPrice(ctx, uuid.New())
	s.Require().NoError(err)
	s.False(missing.Valid)

	_, err = s.products.Read(ctx, uuid.New())
	s.ErrorIs(err, products.ErrNotFound)
}
