package gateway

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Chinmay1190/stepup-storefront/internal/domain"
	"github.com/Chinmay1190/stepup-storefront/internal/realtime"
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// PostgresGateway implements WishlistStore and OrderStore on Postgres.
// Successful writes publish a change event on the feed so other sessions
// and instances re-fetch.
type PostgresGateway struct {
	db   *sql.DB
	feed realtime.Feed
}

func NewPostgresGateway(cred *Credentials, feed realtime.Feed) (*PostgresGateway, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &PostgresGateway{db: db, feed: feed}, nil
}

func (g *PostgresGateway) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(g.db, &postgres.Config{
		MigrationsTable: "storefront_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (g *PostgresGateway) ListWishlist(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT product_id FROM wishlist_entries WHERE owner_id = $1`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query wishlist: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan wishlist row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return ids, nil
}

func (g *PostgresGateway) AddWishlist(ctx context.Context, ownerID, productID string) error {
	_, err := g.db.ExecContext(ctx,
		`INSERT INTO wishlist_entries (owner_id, product_id) VALUES ($1, $2)`,
		ownerID, productID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("insert wishlist entry: %w", err)
	}
	g.publish(ctx, realtime.TableWishlistEntries, ownerID, realtime.OpInsert)
	return nil
}

func (g *PostgresGateway) RemoveWishlist(ctx context.Context, ownerID, productID string) error {
	_, err := g.db.ExecContext(ctx,
		`DELETE FROM wishlist_entries WHERE owner_id = $1 AND product_id = $2`,
		ownerID, productID)
	if err != nil {
		return fmt.Errorf("delete wishlist entry: %w", err)
	}
	g.publish(ctx, realtime.TableWishlistEntries, ownerID, realtime.OpDelete)
	return nil
}

func (g *PostgresGateway) CreateOrder(ctx context.Context, order *domain.Order) (string, error) {
	id := uuid.New().String()
	createdAt := order.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	query := `INSERT INTO orders (id, owner_id, status, total, street, city, state, zip, country, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := g.db.ExecContext(ctx, query,
		id,
		order.OwnerID,
		order.Status,
		order.Total,
		order.ShippingAddress.Street,
		order.ShippingAddress.City,
		order.ShippingAddress.State,
		order.ShippingAddress.Zip,
		order.ShippingAddress.Country,
		createdAt)
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	g.publish(ctx, realtime.TableOrders, order.OwnerID, realtime.OpInsert)
	return id, nil
}

func (g *PostgresGateway) CreateOrderLines(ctx context.Context, orderID string, lines []domain.OrderLine) error {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin line batch: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO order_lines (order_id, product_id, product_name, product_image, size, color, quantity, price)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, line := range lines {
		if _, err := tx.ExecContext(ctx, query,
			orderID,
			line.ProductID,
			line.Name,
			line.Image,
			line.Size,
			line.Color,
			line.Quantity,
			line.Price); err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit line batch: %w", err)
	}
	return nil
}

func (g *PostgresGateway) DeleteOrder(ctx context.Context, orderID string) error {
	_, err := g.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func (g *PostgresGateway) ListOrdersByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error) {
	query := `SELECT id, owner_id, status, total, street, city, state, zip, country, created_at
	          FROM orders WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := g.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query orders by owner: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.OwnerID,
			&order.Status,
			&order.Total,
			&order.ShippingAddress.Street,
			&order.ShippingAddress.City,
			&order.ShippingAddress.State,
			&order.ShippingAddress.Zip,
			&order.ShippingAddress.Country,
			&order.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return orders, nil
}

func (g *PostgresGateway) ListOrderLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	query := `SELECT order_id, product_id, product_name, COALESCE(product_image, ''), size, color, quantity, price
	          FROM order_lines WHERE order_id = $1`

	rows, err := g.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(
			&line.OrderID,
			&line.ProductID,
			&line.Name,
			&line.Image,
			&line.Size,
			&line.Color,
			&line.Quantity,
			&line.Price,
		); err != nil {
			return nil, fmt.Errorf("scan order line row: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return lines, nil
}

func (g *PostgresGateway) ListTracking(ctx context.Context, orderID string) ([]domain.TrackingEvent, error) {
	query := `SELECT order_id, status, description, COALESCE(location, ''), created_at
	          FROM order_tracking WHERE order_id = $1 ORDER BY created_at ASC`

	rows, err := g.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order tracking: %w", err)
	}
	defer rows.Close()

	var events []domain.TrackingEvent
	for rows.Next() {
		var ev domain.TrackingEvent
		if err := rows.Scan(&ev.OrderID, &ev.Status, &ev.Description, &ev.Location, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tracking row: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return events, nil
}

func (g *PostgresGateway) Close() error {
	return g.db.Close()
}

func (g *PostgresGateway) publish(ctx context.Context, table, ownerID string, op realtime.Op) {
	if g.feed == nil {
		return
	}
	ev := realtime.Event{Table: table, OwnerID: ownerID, Op: op}
	if err := g.feed.Publish(ctx, ev); err != nil {
		log.Printf("gateway: publish %s change for owner %s: %v", table, ownerID, err)
	}
}
