package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/internal/cartstore"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Store: config.StoreConfig{
			Locale:          "pt-BR",
			Currency:        "BRL",
			CurrencySymbol:  "R$",
			WhatsAppNumber:  "5511999999999",
			CheckoutBaseURL: "https://wa.me",
		},
		Storage: config.StorageConfig{SlotName: "cart"},
	}
}

func newTestApp(store cartstore.Store, input string) (*app, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &app{
		in:  strings.NewReader(input),
		out: out,
		setup: func(context.Context) (*config.Config, *logger.Logger, *cartstore.Resources, error) {
			return testConfig(), logger.Nop(), &cartstore.Resources{Store: store}, nil
		},
	}, out
}

func seed(t *testing.T, store cartstore.Store, visitorID string) {
	t.Helper()
	ctx := context.Background()
	slots := cart.NewStateStore(store, cart.SlotKey("cart", visitorID), nil, nil)
	require.NoError(t, slots.Save(ctx, []cart.Item{
		{ID: "mug", Name: "Caneca", Price: 10, Image: "https://example.com/mug.png", Quantity: 3},
	}))
}

func run(a *app, args ...string) error {
	root := newRootCmd(a)
	root.SetArgs(args)
	return root.Execute()
}

func TestShowPrintsCart(t *testing.T) {
	store := cartstore.NewMemoryStore()
	seed(t, store, "v1")
	a, out := newTestApp(store, "")

	require.NoError(t, run(a, "show", "--visitor", "v1"))
	assert.Contains(t, out.String(), "Caneca")
	assert.Contains(t, out.String(), "Total: R$ 30,00")
}

func TestShowRequiresVisitor(t *testing.T) {
	a, _ := newTestApp(cartstore.NewMemoryStore(), "")
	assert.Error(t, run(a, "show"))
}

func TestClearAsksForConfirmation(t *testing.T) {
	store := cartstore.NewMemoryStore()
	seed(t, store, "v1")

	declined, out := newTestApp(store, "n\n")
	require.NoError(t, run(declined, "clear", "--visitor", "v1"))
	assert.Contains(t, out.String(), cart.MsgConfirmClear)
	assert.Contains(t, out.String(), "cart left unchanged")

	confirmed, out := newTestApp(store, "")
	require.NoError(t, run(confirmed, "clear", "--visitor", "v1", "--yes"))
	assert.Contains(t, out.String(), cart.MsgCartCleared)

	again, out := newTestApp(store, "")
	require.NoError(t, run(again, "clear", "--visitor", "v1"))
	assert.Contains(t, out.String(), "cart already empty")
}

func TestCheckoutPrintsLinkAndEmptiesCart(t *testing.T) {
	store := cartstore.NewMemoryStore()
	seed(t, store, "v1")

	a, out := newTestApp(store, "")
	require.NoError(t, run(a, "checkout", "--visitor", "v1"))
	assert.Contains(t, out.String(), "https://wa.me/5511999999999?text=")
	assert.Contains(t, out.String(), cart.MsgOrderSent)

	empty, out := newTestApp(store, "")
	assert.Error(t, run(empty, "checkout", "--visitor", "v1"))
	assert.Contains(t, out.String(), cart.MsgEmptyCart)
}

func TestPurgeRequiresSQLBackend(t *testing.T) {
	a, _ := newTestApp(cartstore.NewMemoryStore(), "")
	assert.Error(t, run(a, "purge"))

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "slots.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.CartSlot{}))

	sqlApp, out := newTestApp(cartstore.NewSQLStore(gdb, 0), "")
	require.NoError(t, run(sqlApp, "purge"))
	assert.Contains(t, out.String(), "purged 0 expired cart(s)")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 1, exitCode(errors.New("bad flag")))
	assert.Equal(t, 1, exitCode(pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")))
	assert.Equal(t, exitTempFail, exitCode(pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("dial tcp"), "connecting redis")))
}
