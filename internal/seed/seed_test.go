package seed

import (
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	taxdomain "github.com/smj9504/mj-estimate/internal/tax/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(&taxdomain.TaxRule{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return conn, node
}

func TestEnsureDefaultTaxRules_SeedsEmptyTableOnce(t *testing.T) {
	conn, node := setupDB(t)

	require.NoError(t, EnsureDefaultTaxRules(conn, node))

	var rules []taxdomain.TaxRule
	require.NoError(t, conn.Find(&rules).Error)
	require.Len(t, rules, 1)
	assert.Equal(t, defaultSalesTaxName, rules[0].Name)
	assert.Equal(t, taxdomain.TaxMethodPercentage, rules[0].Method)
	assert.True(t, rules[0].IsEnabled)

	// Re-running on a populated table is a no-op.
	require.NoError(t, EnsureDefaultTaxRules(conn, node))
	var count int64
	require.NoError(t, conn.Model(&taxdomain.TaxRule{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEnsureDefaultTaxRules_LeavesExistingRulesAlone(t *testing.T) {
	conn, node := setupDB(t)

	existing := &taxdomain.TaxRule{
		ID:        node.Generate(),
		Name:      "County Tax",
		Method:    taxdomain.TaxMethodSpecific,
		Rate:      decimal.NewFromFloat(1.50),
		IsEnabled: true,
	}
	require.NoError(t, conn.Create(existing).Error)

	require.NoError(t, EnsureDefaultTaxRules(conn, node))

	var rules []taxdomain.TaxRule
	require.NoError(t, conn.Find(&rules).Error)
	require.Len(t, rules, 1)
	assert.Equal(t, "County Tax", rules[0].Name)
}

func TestEnsureDefaultTaxRules_RequiresCollaborators(t *testing.T) {
	conn, node := setupDB(t)

	assert.Error(t, EnsureDefaultTaxRules(nil, node))
	assert.Error(t, EnsureDefaultTaxRules(conn, nil))
}
