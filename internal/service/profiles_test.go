package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/csvlayout/internal/core"
	"github.com/JonMunkholm/csvlayout/internal/profile"
)

const legacyProfiles = `{
    "顧客": {
        "reorder": "氏名,住所",
        "merge": "",
        "extract": "",
        "remove": "",
        "add": "",
        "replace": "",
        "remove_prefecture": {"enabled": false, "column": ""},
        "get_pref_code": {"enabled": false, "source_column": "", "new_column": "都道府県コード"},
        "remove_header": false
    },
    "商品": {
        "reorder": "商品名,価格",
        "remove_header": true
    }
}`

func TestService_ProfileCRUD(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.CreateProfile(ctx, profile.New("顧客"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	_, err = svc.CreateProfile(ctx, profile.New("顧客"))
	require.ErrorIs(t, err, profile.ErrDuplicate)
	assert.Equal(t, "PRF002", MapError(err).Code)

	byName, err := svc.FindProfile(ctx, "顧客")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byID, err := svc.FindProfile(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "顧客", byID.Name)

	created.Rules.Reorder = "氏名"
	updated, err := svc.UpdateProfile(ctx, *created)
	require.NoError(t, err)
	assert.Equal(t, "氏名", updated.Rules.Reorder)

	got, err := svc.GetProfile(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "氏名", got.Rules.Reorder)

	require.NoError(t, svc.DeleteProfile(ctx, created.ID))

	_, err = svc.FindProfile(ctx, "顧客")
	require.ErrorIs(t, err, profile.ErrNotFound)

	list, err := svc.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_CreateProfileInvalid(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateProfile(context.Background(), profile.New("  "))
	require.ErrorIs(t, err, profile.ErrInvalid)
	assert.Equal(t, "PRF003", MapError(err).Code)
}

func TestService_ImportExport(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	res, err := svc.ImportProfiles(ctx, []byte(legacyProfiles), profile.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Created: 2}, *res)

	first, err := svc.FindProfile(ctx, "商品")
	require.NoError(t, err)
	assert.True(t, first.RemoveHeader)

	res, err = svc.ImportProfiles(ctx, []byte(legacyProfiles), profile.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Updated: 2}, *res)

	again, err := svc.FindProfile(ctx, "商品")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID, "re-import keeps the stored id")

	data, err := svc.ExportProfiles(ctx, profile.FormatYAML)
	require.NoError(t, err)

	exported, _, err := profile.ParseDocument(data, profile.FormatYAML)
	require.NoError(t, err)
	require.Len(t, exported, 2)
	assert.Equal(t, "商品", exported[0].Name)
	assert.Equal(t, "商品名,価格", exported[0].Rules.Reorder)
	assert.Equal(t, "顧客", exported[1].Name)
}

func TestService_ImportInvalidDocument(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ImportProfiles(context.Background(), []byte("{not json"), profile.FormatJSON)
	require.ErrorIs(t, err, profile.ErrInvalid)
}

func TestService_MatchFile(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	saveProfile(t, store, "顧客", core.RuleSet{Reorder: "氏名,住所"})
	saveProfile(t, store, "半分", core.RuleSet{Reorder: "氏名,郵便番号"})
	saveProfile(t, store, "商品", core.RuleSet{Reorder: "商品名,価格"})

	matches, err := svc.MatchFile(ctx, strings.NewReader(customersCSV), "")
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Equal(t, "顧客", matches[0].Profile.Name)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
	assert.Equal(t, "半分", matches[1].Profile.Name)
	assert.Equal(t, []string{"郵便番号"}, matches[1].Missing)

	_, err = svc.MatchFile(ctx, nil, "")
	require.ErrorIs(t, err, ErrNoFile)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"wrapped sentinel", fmt.Errorf("convert: %w", profile.ErrNotFound), "PRF001"},
		{"pattern without sentinel", fmt.Errorf("upstream said: Invalid CSV at line 3"), "FILE002"},
		{"deadline", fmt.Errorf("read: %w", context.DeadlineExceeded), "SYS001"},
		{"cancelled", context.Canceled, "SYS002"},
		{"user error keeps its message", &UserError{User: UserMessage{Code: "X1"}}, "X1"},
		{"unknown error returns default", fmt.Errorf("some random internal error"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, MapError(tt.err).Code)
		})
	}
}

func TestFormatUserError(t *testing.T) {
	assert.Equal(t, "", FormatUserError(nil))
	assert.Equal(t,
		"No file was selected (Code: FILE004). Please select a CSV file",
		FormatUserError(ErrNoFile))
}

func TestIsUserFacing(t *testing.T) {
	assert.False(t, IsUserFacing(nil))
	assert.True(t, IsUserFacing(ErrNoRules))
	assert.False(t, IsUserFacing(fmt.Errorf("boom")))
}

func TestNewUserError(t *testing.T) {
	assert.Nil(t, NewUserError(nil))

	ue := NewUserError(fmt.Errorf("lookup: %w", profile.ErrDuplicate))
	require.NotNil(t, ue)
	assert.Equal(t, "A profile with this name already exists", ue.Error())
	assert.ErrorIs(t, ue, profile.ErrDuplicate)
}
