// Package demo seeds the demo dataset and the demo queries and dashboards.
package demo

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/goinsights/goinsights/internal/datasource"
	"github.com/goinsights/goinsights/internal/db/models"
	"github.com/goinsights/goinsights/internal/queue"
)

const (
	// DataSourceName is the document name of the demo data source.
	DataSourceName = "demo_data"
	// DataSourceTitle is the display title of the demo data source.
	DataSourceTitle = "Demo Data"

	customerCount = 200
	orderCount    = 1000
	seed          = 20221101
	batchSize     = 100
)

var ( //nolint:gochecknoglobals
	cities     = []string{"Mumbai", "Berlin", "Austin", "Lagos", "Osaka", "Lyon", "Toronto", "Melbourne"}
	countries  = []string{"India", "Germany", "United States", "Nigeria", "Japan", "France", "Canada", "Australia"}
	firstNames = []string{"Asha", "Jonas", "Maya", "Tunde", "Yuki", "Chloe", "Liam", "Noah", "Ravi", "Emma"}
	lastNames  = []string{"Patel", "Becker", "Jones", "Okafor", "Sato", "Martin", "Brown", "Wilson"}
	statuses   = []string{"Pending", "Shipped", "Delivered", "Cancelled"}
	products   = []Product{
		{Name: "Espresso Machine", Category: "Kitchen", Price: 249.00},
		{Name: "Pour Over Kettle", Category: "Kitchen", Price: 39.50},
		{Name: "Running Shoes", Category: "Sports", Price: 89.99},
		{Name: "Yoga Mat", Category: "Sports", Price: 24.00},
		{Name: "Noise Cancelling Headphones", Category: "Electronics", Price: 199.00},
		{Name: "Mechanical Keyboard", Category: "Electronics", Price: 119.00},
		{Name: "Desk Lamp", Category: "Home", Price: 34.90},
		{Name: "Linen Sheets", Category: "Home", Price: 79.00},
		{Name: "Backpack", Category: "Travel", Price: 64.00},
		{Name: "Packing Cubes", Category: "Travel", Price: 19.99},
	}
)

// Factory creates the demo dataset and registers it as a data source.
type Factory struct {
	db         *gorm.DB
	sqlitePath string
	queue      queue.TaskQueue
}

// NewFactory creates a demo factory writing its sqlite file below sqlitePath.
func NewFactory(db *gorm.DB, sqlitePath string, q queue.TaskQueue) *Factory {
	return &Factory{db: db, sqlitePath: sqlitePath, queue: q}
}

// File is the path of the demo sqlite database.
func (f *Factory) File() string {
	return filepath.Join(f.sqlitePath, DataSourceName+datasource.SQLiteExt)
}

// Run creates the demo dataset unless the demo data source exists already.
func (f *Factory) Run(ctx context.Context) error {
	exists, err := datasource.Exists(ctx, f.db, DataSourceName)
	if err != nil {
		return err
	}

	if exists {
		log.Debug().Msg("demo data source exists, skipping demo data")
		return nil
	}

	if err = f.writeDataset(ctx); err != nil {
		return err
	}

	ds := &models.DataSource{
		Name:         DataSourceName,
		Title:        DataSourceTitle,
		DatabaseType: models.DatabaseTypeSQLite,
		DatabaseName: DataSourceName,
	}

	if err = f.db.WithContext(ctx).Create(ds).Error; err != nil {
		return errors.Wrap(err, "failed to register demo data source")
	}

	log.Info().Str("file", f.File()).Msg("demo data created")

	if f.queue != nil {
		if err = f.queue.Enqueue(&queue.SyncTablesTask{DataSource: ds.Name}); err != nil {
			log.Error().Err(err).Str("data_source", ds.Name).Msg("failed to enqueue table sync")
		}
	}

	return nil
}

func (f *Factory) writeDataset(ctx context.Context) error {
	if err := os.MkdirAll(f.sqlitePath, 0o750); err != nil {
		return errors.Wrap(err, "failed to create sqlite directory")
	}

	file := f.File()

	// a leftover file from an interrupted run is rebuilt from scratch
	if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove stale demo database")
	}

	conn, err := gorm.Open(sqlite.Open(file), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return errors.Wrap(err, "failed to create demo database")
	}
	defer datasource.Close(conn)

	if err = conn.AutoMigrate(tables()...); err != nil {
		return errors.Wrap(err, "failed to create demo tables")
	}

	customers, catalog, orders := generate()

	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(customers, batchSize).Error; err != nil {
			return err
		}

		if err := tx.CreateInBatches(catalog, batchSize).Error; err != nil {
			return err
		}

		return tx.CreateInBatches(orders, batchSize).Error
	})
}

// generate returns the same rows on every call.
func generate() ([]Customer, []Product, []Order) {
	rnd := rand.New(rand.NewSource(seed)) //nolint:gosec
	start := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)

	customers := make([]Customer, customerCount)
	for i := range customers {
		first := firstNames[rnd.Intn(len(firstNames))]
		last := lastNames[rnd.Intn(len(lastNames))]
		place := rnd.Intn(len(cities))

		customers[i] = Customer{
			ID:        uint64(i + 1),
			Name:      first + " " + last,
			Email:     fmt.Sprintf("%s.%s%d@example.com", first, last, i+1),
			City:      cities[place],
			Country:   countries[place],
			CreatedAt: start.Add(time.Duration(rnd.Intn(365*24)) * time.Hour),
		}
	}

	catalog := make([]Product, len(products))
	for i, p := range products {
		p.ID = uint64(i + 1)
		catalog[i] = p
	}

	orders := make([]Order, orderCount)
	for i := range orders {
		o := Order{
			ID:         uint64(i + 1),
			CustomerID: uint64(rnd.Intn(customerCount) + 1),
			Status:     statuses[rnd.Intn(len(statuses))],
			OrderDate:  start.Add(time.Duration(rnd.Intn(2*365*24)) * time.Hour),
		}

		for n := rnd.Intn(4) + 1; n > 0; n-- {
			p := catalog[rnd.Intn(len(catalog))]
			item := OrderItem{ProductID: p.ID, Quantity: rnd.Intn(3) + 1, UnitPrice: p.Price}
			o.Items = append(o.Items, item)
			o.Total += float64(item.Quantity) * item.UnitPrice
		}

		o.Total = math.Round(o.Total*100) / 100
		orders[i] = o
	}

	return customers, catalog, orders
}
