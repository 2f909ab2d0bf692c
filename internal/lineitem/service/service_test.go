package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	lidomain "github.com/smj9504/mj-estimate/internal/lineitem/domain"
	lirepository "github.com/smj9504/mj-estimate/internal/lineitem/repository"
	taxdomain "github.com/smj9504/mj-estimate/internal/tax/domain"
	taxrepository "github.com/smj9504/mj-estimate/internal/tax/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (*Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(
		&lidomain.LineItem{},
		&taxdomain.TaxRule{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParam{
		DB:      conn,
		Log:     zap.NewNop(),
		GenID:   node,
		Repo:    lirepository.NewRepository(conn),
		TaxRepo: taxrepository.NewRepository(conn),
	})
	return svc.(*Service), conn, node
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func seedRule(t *testing.T, conn *gorm.DB, node *snowflake.Node, method taxdomain.TaxMethod, rate string) *taxdomain.TaxRule {
	t.Helper()
	rule := &taxdomain.TaxRule{
		ID:        node.Generate(),
		Name:      fmt.Sprintf("%s %s", method, rate),
		Method:    method,
		Rate:      dec(rate),
		IsEnabled: true,
	}
	require.NoError(t, conn.Create(rule).Error)
	return rule
}

func TestCreate_CatalogPriceIsDerivedNotSubmitted(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	li, err := svc.Create(ctx, lidomain.WriteRequest{
		DocumentID:       "1",
		Kind:             lidomain.LineItemKindCatalog,
		Description:      "R&R Drywall",
		Quantity:         3,
		Labor:            decPtr("40.00"),
		Material:         decPtr("100.00"),
		MarketCondition:  decPtr("5.25"),
		UntaxedUnitPrice: decPtr("1.00"), // client lies; server recomputes
	})
	require.NoError(t, err)
	assert.True(t, li.UntaxedUnitPrice.Equal(dec("145.25")), "got %s", li.UntaxedUnitPrice)
	assert.True(t, li.TaxAmount.IsZero())
}

func TestCreate_CustomPriceIsAuthoritative(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	li, err := svc.Create(ctx, lidomain.WriteRequest{
		DocumentID:       "1",
		Kind:             lidomain.LineItemKindCustom,
		Description:      "Dump fee",
		Quantity:         1,
		UntaxedUnitPrice: decPtr("75.00"),
	})
	require.NoError(t, err)
	assert.True(t, li.UntaxedUnitPrice.Equal(dec("75.00")))
}

func TestCreate_PercentageTaxUsesMaterialForCatalog(t *testing.T) {
	svc, conn, node := setupService(t)
	ctx := context.Background()

	rule := seedRule(t, conn, node, taxdomain.TaxMethodPercentage, "8.25")
	ruleID := rule.ID.String()

	li, err := svc.Create(ctx, lidomain.WriteRequest{
		DocumentID: "1",
		Kind:       lidomain.LineItemKindCatalog,
		Quantity:   1,
		Labor:      decPtr("500.00"),
		Material:   decPtr("100.00"),
		TaxRuleID:  &ruleID,
	})
	require.NoError(t, err)
	assert.True(t, li.TaxAmount.Equal(dec("8.25")), "got %s", li.TaxAmount)
}

func TestCreate_SpecificTaxChargedVerbatim(t *testing.T) {
	svc, conn, node := setupService(t)
	ctx := context.Background()

	rule := seedRule(t, conn, node, taxdomain.TaxMethodSpecific, "12.00")
	ruleID := rule.ID.String()

	li, err := svc.Create(ctx, lidomain.WriteRequest{
		DocumentID:       "1",
		Kind:             lidomain.LineItemKindCustom,
		Quantity:         2,
		UntaxedUnitPrice: decPtr("10.00"),
		TaxRuleID:        &ruleID,
	})
	require.NoError(t, err)
	assert.True(t, li.TaxAmount.Equal(dec("12.00")), "got %s", li.TaxAmount)
}

func TestCreate_UnknownTaxRuleRejected(t *testing.T) {
	svc, _, node := setupService(t)
	ctx := context.Background()

	missing := node.Generate().String()
	_, err := svc.Create(ctx, lidomain.WriteRequest{
		DocumentID:       "1",
		Kind:             lidomain.LineItemKindCustom,
		Quantity:         1,
		UntaxedUnitPrice: decPtr("10.00"),
		TaxRuleID:        &missing,
	})
	assert.ErrorIs(t, err, lidomain.ErrInvalidTaxRule)
}

func TestCreate_DisabledTaxRuleRejected(t *testing.T) {
	svc, conn, node := setupService(t)
	ctx := context.Background()

	rule := seedRule(t, conn, node, taxdomain.TaxMethodPercentage, "8.25")
	rule.IsEnabled = false
	require.NoError(t, conn.Save(rule).Error)
	ruleID := rule.ID.String()

	_, err := svc.Create(ctx, lidomain.WriteRequest{
		DocumentID:       "1",
		Kind:             lidomain.LineItemKindCustom,
		Quantity:         1,
		UntaxedUnitPrice: decPtr("10.00"),
		TaxRuleID:        &ruleID,
	})
	assert.ErrorIs(t, err, lidomain.ErrInvalidTaxRule)
}

func TestCreate_NegativeComponentNamed(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, lidomain.WriteRequest{
		DocumentID: "1",
		Kind:       lidomain.LineItemKindCatalog,
		Quantity:   1,
		Labor:      decPtr("-4.00"),
	})
	require.Error(t, err)

	verr := lidomain.AsValidationError(err)
	require.NotNil(t, verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "labor", verr.Fields[0].Field)
}

func TestUpdate_ComponentChangeReprices(t *testing.T) {
	svc, conn, node := setupService(t)
	ctx := context.Background()

	rule := seedRule(t, conn, node, taxdomain.TaxMethodPercentage, "10")
	ruleID := rule.ID.String()

	li, err := svc.Create(ctx, lidomain.WriteRequest{
		DocumentID: "1",
		Kind:       lidomain.LineItemKindCatalog,
		Quantity:   1,
		Labor:      decPtr("40.00"),
		Material:   decPtr("100.00"),
		TaxRuleID:  &ruleID,
	})
	require.NoError(t, err)
	require.True(t, li.TaxAmount.Equal(dec("10.00")))

	updated, err := svc.Update(ctx, li.ID.String(), lidomain.WriteRequest{
		DocumentID: "1",
		Kind:       lidomain.LineItemKindCatalog,
		Quantity:   1,
		Labor:      decPtr("40.00"),
		Material:   decPtr("200.00"),
		TaxRuleID:  &ruleID,
	})
	require.NoError(t, err)
	assert.True(t, updated.UntaxedUnitPrice.Equal(dec("240.00")), "got %s", updated.UntaxedUnitPrice)
	assert.True(t, updated.TaxAmount.Equal(dec("20.00")), "got %s", updated.TaxAmount)
}

func TestUpdate_DroppingTaxRuleClearsTax(t *testing.T) {
	svc, conn, node := setupService(t)
	ctx := context.Background()

	rule := seedRule(t, conn, node, taxdomain.TaxMethodSpecific, "5.00")
	ruleID := rule.ID.String()

	li, err := svc.Create(ctx, lidomain.WriteRequest{
		DocumentID:       "1",
		Kind:             lidomain.LineItemKindCustom,
		Quantity:         1,
		UntaxedUnitPrice: decPtr("50.00"),
		TaxRuleID:        &ruleID,
	})
	require.NoError(t, err)
	require.True(t, li.TaxAmount.Equal(dec("5.00")))

	updated, err := svc.Update(ctx, li.ID.String(), lidomain.WriteRequest{
		DocumentID:       "1",
		Kind:             lidomain.LineItemKindCustom,
		Quantity:         1,
		UntaxedUnitPrice: decPtr("50.00"),
	})
	require.NoError(t, err)
	assert.True(t, updated.TaxAmount.IsZero(), "got %s", updated.TaxAmount)
}

func TestListByDocument_ReturnsOnlyThatDocument(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, lidomain.WriteRequest{
			DocumentID:       "100",
			Kind:             lidomain.LineItemKindCustom,
			Quantity:         1,
			Description:      fmt.Sprintf("item %d", i),
			UntaxedUnitPrice: decPtr("1.00"),
		})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, lidomain.WriteRequest{
		DocumentID:       "200",
		Kind:             lidomain.LineItemKindCustom,
		Quantity:         1,
		UntaxedUnitPrice: decPtr("1.00"),
	})
	require.NoError(t, err)

	items, err := svc.ListByDocument(ctx, "100")
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestDelete_MissingItemIsNotFound(t *testing.T) {
	svc, _, node := setupService(t)
	ctx := context.Background()

	err := svc.Delete(ctx, node.Generate().String())
	assert.ErrorIs(t, err, lidomain.ErrNotFound)
}
