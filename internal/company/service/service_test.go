package service

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	companydomain "github.com/smj9504/mj-estimate/internal/company/domain"
	companyrepository "github.com/smj9504/mj-estimate/internal/company/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) companydomain.Service {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&companydomain.Company{}))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	return NewService(ServiceParam{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  companyrepository.NewRepository(conn),
	})
}

func TestGenerateTempCode_Shape(t *testing.T) {
	codeRe := regexp.MustCompile(`^C[A-Z]{2}[0-9]$`)

	cases := []struct {
		name    string
		letters string
	}{
		{"Acme Builders", "AB"},
		{"Evergreen Roofing LLC", "ER"},
		{"Solo", "SO"},
	}
	for _, tc := range cases {
		code := GenerateTempCode(tc.name)
		assert.Regexp(t, codeRe, code, "name %q", tc.name)
		assert.Equal(t, tc.letters, code[1:3], "name %q", tc.name)
	}

	// Degenerate names still yield a well-formed code.
	for _, name := range []string{"", "X", "7"} {
		assert.Regexp(t, codeRe, GenerateTempCode(name), "name %q", name)
	}
}

func TestCodeFor_MissIsNotAnError(t *testing.T) {
	svc := setupService(t)

	code, ok, err := svc.CodeFor(context.Background(), "Nobody Here")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, code)
}

func TestEnsureCode_RegisteredCompanyWins(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, companydomain.CreateRequest{Name: "Acme Builders", Code: "ABCX"})
	require.NoError(t, err)

	code, err := svc.EnsureCode(ctx, "Acme Builders")
	require.NoError(t, err)
	assert.Equal(t, "ABCX", code)
}

func TestEnsureCode_RegistersAdHocCompany(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	code, err := svc.EnsureCode(ctx, "Evergreen Roofing")
	require.NoError(t, err)
	assert.Regexp(t, `^CER[0-9]$`, code)

	// The ad-hoc registration is persisted; a second call reuses it.
	again, err := svc.EnsureCode(ctx, "Evergreen Roofing")
	require.NoError(t, err)
	assert.Equal(t, code, again)

	companies, err := svc.List(ctx, companydomain.ListRequest{Name: "Evergreen Roofing"})
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.True(t, companies[0].IsAdHoc)
}

func TestCreate_RejectsBadCodes(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	for _, code := range []string{"", "A", "ABCDEF", "ab!x"} {
		_, err := svc.Create(ctx, companydomain.CreateRequest{Name: "Acme", Code: code})
		assert.ErrorIs(t, err, companydomain.ErrInvalidCode, "code %q", code)
	}

	_, err := svc.Create(ctx, companydomain.CreateRequest{Name: "Acme", Code: "ABCX"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, companydomain.CreateRequest{Name: "Other", Code: "ABCX"})
	assert.ErrorIs(t, err, companydomain.ErrCodeTaken)
}
