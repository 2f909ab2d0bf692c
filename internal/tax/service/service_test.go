package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	taxdomain "github.com/smj9504/mj-estimate/internal/tax/domain"
	taxrepository "github.com/smj9504/mj-estimate/internal/tax/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) taxdomain.Service {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(&taxdomain.TaxRule{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(ServiceParam{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  taxrepository.NewRepository(conn),
	})
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreate_PercentageRuleWithinBounds(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	rule, err := svc.Create(ctx, taxdomain.CreateRequest{
		Name:   "State Sales Tax",
		Method: taxdomain.TaxMethodPercentage,
		Rate:   dec("8.25"),
	})
	require.NoError(t, err)
	assert.True(t, rule.IsEnabled)

	_, err = svc.Create(ctx, taxdomain.CreateRequest{
		Name:   "Over the top",
		Method: taxdomain.TaxMethodPercentage,
		Rate:   dec("101"),
	})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidTaxRate)
}

func TestCreate_UnknownMethodRejected(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Create(context.Background(), taxdomain.CreateRequest{
		Name:   "Mystery",
		Method: "flat_fee",
		Rate:   dec("5"),
	})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidTaxMethod)
}

func TestDisable_PersistsDisabledFlag(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	rule, err := svc.Create(ctx, taxdomain.CreateRequest{
		Name:   "City Tax",
		Method: taxdomain.TaxMethodSpecific,
		Rate:   dec("2.00"),
	})
	require.NoError(t, err)

	disabled, err := svc.Disable(ctx, rule.ID.String())
	require.NoError(t, err)
	assert.False(t, disabled.IsEnabled)

	reloaded, err := svc.GetByID(ctx, rule.ID.String())
	require.NoError(t, err)
	assert.False(t, reloaded.IsEnabled)
}

func TestList_FiltersByEnabled(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	active, err := svc.Create(ctx, taxdomain.CreateRequest{
		Name:   "Active",
		Method: taxdomain.TaxMethodPercentage,
		Rate:   dec("5"),
	})
	require.NoError(t, err)

	inactive, err := svc.Create(ctx, taxdomain.CreateRequest{
		Name:   "Inactive",
		Method: taxdomain.TaxMethodPercentage,
		Rate:   dec("6"),
	})
	require.NoError(t, err)
	_, err = svc.Disable(ctx, inactive.ID.String())
	require.NoError(t, err)

	enabled := true
	rules, err := svc.List(ctx, taxdomain.ListRequest{IsEnabled: &enabled})
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, active.ID, rules[0].ID)
}

func TestGetByID_InvalidID(t *testing.T) {
	svc := setupService(t)

	_, err := svc.GetByID(context.Background(), "not-a-snowflake")
	assert.ErrorIs(t, err, taxdomain.ErrInvalidID)
}
