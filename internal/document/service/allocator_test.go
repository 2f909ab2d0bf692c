package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smj9504/mj-estimate/internal/config"
	documentdomain "github.com/smj9504/mj-estimate/internal/document/domain"
	"github.com/smj9504/mj-estimate/internal/document/format"
	documentrepository "github.com/smj9504/mj-estimate/internal/document/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	// A single pooled connection serializes sqlite writers; goroutines in the
	// concurrency tests still interleave above the pool.
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(
		&documentdomain.Document{},
		&documentdomain.DocumentSequence{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	holder, err := config.NewNumberingConfigHolder()
	require.NoError(t, err)

	svc := NewService(ServiceParam{
		DB:        conn,
		Log:       zap.NewNop(),
		GenID:     node,
		Repo:      documentrepository.NewRepository(conn),
		Numbering: holder,
	})
	return svc.(*Service), conn
}

func TestCreate_SequenceAdvancesPerCompany(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, documentdomain.CreateRequest{
		Type:          documentdomain.DocumentTypeEstimate,
		CompanyCode:   "ABCX",
		ClientAddress: "1600 Pennsylvania Ave",
	})
	require.NoError(t, err)
	assert.Equal(t, "EST-1600-ABCX-1", first.Number)
	assert.Equal(t, 1, first.Version)
	assert.True(t, first.IsLatest)

	second, err := svc.Create(ctx, documentdomain.CreateRequest{
		Type:          documentdomain.DocumentTypeEstimate,
		CompanyCode:   "ABCX",
		ClientAddress: "1600 Pennsylvania Ave",
	})
	require.NoError(t, err)
	assert.Equal(t, "EST-1600-ABCX-2", second.Number)

	// A different company starts its own sequence.
	other, err := svc.Create(ctx, documentdomain.CreateRequest{
		Type:          documentdomain.DocumentTypeEstimate,
		CompanyCode:   "ZZ",
		ClientAddress: "742 Evergreen Terrace",
	})
	require.NoError(t, err)
	assert.Equal(t, "EST-0742-ZZ-1", other.Number)
}

func TestCreate_StreetTokenRecomputedPerCall(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, documentdomain.CreateRequest{
		Type:          documentdomain.DocumentTypeInvoice,
		CompanyCode:   "ABCX",
		ClientAddress: "5 Elm St",
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-0005-ABCX-1", first.Number)

	second, err := svc.Create(ctx, documentdomain.CreateRequest{
		Type:          documentdomain.DocumentTypeInvoice,
		CompanyCode:   "ABCX",
		ClientAddress: "Unit 12345 Main St",
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-2345-ABCX-2", second.Number)
}

func TestAllocateNumber_SeedsFromLegacyRecords(t *testing.T) {
	svc, conn := setupService(t)
	ctx := context.Background()

	// A record that predates the counter table.
	require.NoError(t, conn.Create(&documentdomain.Document{
		ID:            1,
		Type:          documentdomain.DocumentTypeEstimate,
		Number:        "EST-0001-ABCX-1",
		Version:       1,
		IsLatest:      true,
		CompanyCode:   "ABCX",
		ClientAddress: "1 First St",
		Status:        documentdomain.DocumentStatusIssued,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}).Error)

	number, err := svc.AllocateNumber(ctx, documentdomain.DocumentTypeEstimate, "1600 Pennsylvania Ave", "ABCX")
	require.NoError(t, err)
	assert.Equal(t, "EST-1600-ABCX-2", number)
}

func TestAllocateNumber_RetriesPastLegacyCollision(t *testing.T) {
	svc, conn := setupService(t)
	ctx := context.Background()

	// Legacy latest record already occupies sequence 3, and the counter
	// lags behind it.
	require.NoError(t, conn.Create(&documentdomain.Document{
		ID:            1,
		Type:          documentdomain.DocumentTypeEstimate,
		Number:        "EST-0042-ABCD-3",
		Version:       1,
		IsLatest:      true,
		CompanyCode:   "ABCD",
		ClientAddress: "42 Legacy Rd",
		Status:        documentdomain.DocumentStatusIssued,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}).Error)
	require.NoError(t, conn.Create(&documentdomain.DocumentSequence{
		DocType:     documentdomain.DocumentTypeEstimate,
		CompanyCode: "ABCD",
		NextValue:   2,
		UpdatedAt:   time.Now().UTC(),
	}).Error)

	number, err := svc.AllocateNumber(ctx, documentdomain.DocumentTypeEstimate, "42 Legacy Rd", "ABCD")
	require.NoError(t, err)
	assert.Equal(t, "EST-0042-ABCD-4", number)
}

func TestAllocateNumber_InvalidCompanyCode(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	for _, code := range []string{"", "A", "TOOLONG", "AB!X"} {
		_, err := svc.AllocateNumber(ctx, documentdomain.DocumentTypeEstimate, "1600 Pennsylvania Ave", code)
		assert.ErrorIs(t, err, documentdomain.ErrInvalidCompanyCode, "code %q", code)
	}
}

func TestCreate_UnknownTypeUsesFallbackPrefix(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	doc, err := svc.Create(ctx, documentdomain.CreateRequest{
		Type:          documentdomain.DocumentType("receipt"),
		CompanyCode:   "ABCX",
		ClientAddress: "9 Oak Ln",
	})
	require.NoError(t, err)
	assert.Equal(t, "DOC-0009-ABCX-1", doc.Number)
}

func TestCreate_ConcurrentAllocationsAreDistinct(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	// Every goroutine shares one address: prefix, street token and company
	// code are identical, so only the sequence can tell the numbers apart.
	// Two allocations observing the same counter value would collide here.
	const n = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = make(map[string]struct{}, n)
	)

	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			doc, err := svc.Create(ctx, documentdomain.CreateRequest{
				Type:          documentdomain.DocumentTypeWorkOrder,
				CompanyCode:   "ABCX",
				ClientAddress: "1600 Pennsylvania Ave",
			})
			if assert.NoError(t, err) {
				mu.Lock()
				numbers[doc.Number] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, numbers, n, "every concurrent allocation must yield a distinct number")

	// The sequences are not just distinct but exactly 1..n: the counter
	// never skips and never repeats.
	sequences := make(map[int64]struct{}, n)
	for number := range numbers {
		parts, err := format.Parse(number)
		require.NoError(t, err, "number %q", number)
		sequences[parts.Sequence] = struct{}{}
	}
	for want := int64(1); want <= n; want++ {
		assert.Contains(t, sequences, want)
	}
}
