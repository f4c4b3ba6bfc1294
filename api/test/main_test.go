// Package test runs the API end to end against a disposable Postgres
// container. When no Docker daemon is reachable every test in the package
// skips, so the suite stays safe to run anywhere.
package test

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/c14230103-dot/projectcspevolene/api"
	"github.com/c14230103-dot/projectcspevolene/config"
	"github.com/c14230103-dot/projectcspevolene/core/auth"
	"github.com/c14230103-dot/projectcspevolene/core/claims"
	"github.com/c14230103-dot/projectcspevolene/core/product"
	"github.com/c14230103-dot/projectcspevolene/database"
	"github.com/c14230103-dot/projectcspevolene/validate"
	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/sirupsen/logrus"
)

var (
	dockerAvailable bool
	dbHost          string
)

func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		log.Printf("docker not available, skipping integration tests: %v", err)
		return m.Run()
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_DB=postgres",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Printf("could not start postgres container: %v", err)
		return 1
	}
	defer func() {
		if err := pool.Purge(resource); err != nil {
			log.Printf("could not purge postgres container: %v", err)
		}
	}()

	dbHost = net.JoinHostPort("localhost", resource.GetPort("5432/tcp"))

	pool.MaxWait = time.Minute
	err = pool.Retry(func() error {
		db, err := database.Open(adminDBConfig())
		if err != nil {
			return err
		}
		defer db.Close()
		return db.Ping()
	})
	if err != nil {
		log.Printf("could not connect to postgres container: %v", err)
		return 1
	}

	dockerAvailable = true
	return m.Run()
}

func adminDBConfig() config.DB {
	return config.DB{
		User:         "postgres",
		Password:     "postgres",
		Host:         dbHost,
		Name:         "postgres",
		DisableTLS:   true,
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}
}

type TestEnv struct {
	DB     *sqlx.DB
	Server *httptest.Server
	URL    string

	// UserID and UserToken identify the pre-provisioned shopper.
	UserID    string
	UserToken string
}

// NewTestEnv creates a fresh database named dbName on the shared container,
// migrates it, provisions one shopper session and serves the API over
// httptest.
func NewTestEnv(t *testing.T, dbName string) *TestEnv {
	t.Helper()

	if !dockerAvailable {
		t.Skip("docker not available")
	}

	admin, err := database.Open(adminDBConfig())
	if err != nil {
		t.Fatalf("opening admin connection: %v", err)
	}
	defer admin.Close()

	if _, err := admin.Exec(fmt.Sprintf("CREATE DATABASE %s", dbName)); err != nil {
		t.Fatalf("creating database %s: %v", dbName, err)
	}

	cfg := adminDBConfig()
	cfg.Name = dbName
	cfg.MaxOpenConns = 10

	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	srv := httptest.NewServer(api.APIMux(api.APIConfig{
		Log:      logger,
		DB:       db,
		Verifier: auth.Sessions{DB: db},
	}))
	t.Cleanup(srv.Close)

	te := &TestEnv{
		DB:     db,
		Server: srv,
		URL:    srv.URL,
	}
	te.UserID, te.UserToken = te.createSession(t)

	return te
}

// createSession provisions a verified shopper the way the external identity
// provider would, returning the user id and a live bearer token.
func (te *TestEnv) createSession(t *testing.T) (userID, token string) {
	t.Helper()

	userID = validate.GenerateID()
	token, err := auth.Token()
	if err != nil {
		t.Fatalf("generating session token: %v", err)
	}

	ctx := context.Background()
	expiry := time.Now().Add(time.Hour)
	err = database.Transaction(ctx, te.DB, func(tx sqlx.ExtContext) error {
		return auth.CreateSession(ctx, tx, userID, claims.RoleUser, token, expiry)
	})
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}

	return userID, token
}

// createProduct seeds one catalog row, acting as the external admin
// collaborator that owns product mutations outside of checkout.
func (te *TestEnv) createProduct(t *testing.T, name string, price, stock int) product.Product {
	t.Helper()

	np := product.ProductNew{
		Name:  name,
		Price: price,
		Stock: stock,
	}
	if err := validate.Check(np); err != nil {
		t.Fatalf("invalid product %s: %v", name, err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	p := np.Product(validate.GenerateID(), now)

	ctx := context.Background()
	err := database.Transaction(ctx, te.DB, func(tx sqlx.ExtContext) error {
		return product.Create(ctx, tx, p)
	})
	if err != nil {
		t.Fatalf("creating product %s: %v", name, err)
	}

	return p
}

func (te *TestEnv) stockOf(t *testing.T, productID string) int {
	t.Helper()

	var stock int
	if err := te.DB.Get(&stock, "SELECT stock FROM products WHERE product_id = $1", productID); err != nil {
		t.Fatalf("reading stock of product %s: %v", productID, err)
	}
	return stock
}

func (te *TestEnv) countOrders(t *testing.T) int {
	t.Helper()

	var n int
	if err := te.DB.Get(&n, "SELECT COUNT(*) FROM orders"); err != nil {
		t.Fatalf("counting orders: %v", err)
	}
	return n
}

// do issues an authenticated request with a JSON body.
func (te *TestEnv) do(t *testing.T, method, path, token string, body io.Reader) *http.Response {
	t.Helper()

	r, err := http.NewRequest(method, te.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w, err := te.Server.Client().Do(r)
	if err != nil {
		t.Fatal(err)
	}
	return w
}
