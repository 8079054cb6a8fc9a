package dataservice_test

import (
	"context"
	"testing"

	"github.com/Veraticus/tradedash/internal/common"
	"github.com/Veraticus/tradedash/internal/dataservice"
	"github.com/Veraticus/tradedash/internal/model"
	"github.com/Veraticus/tradedash/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_ListTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	db.Seed(testutil.Trades(4)...)

	svc := dataservice.NewLocal(db.Storage, "alice")

	user, err := svc.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, db.User.ID, user.ID)

	resp, err := svc.ListTransactions(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Len(t, resp.Payload, 4)
}

func TestLocal_UnknownUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := dataservice.NewLocal(db.Storage, "nobody")

	_, err := svc.CurrentUser(context.Background())
	assert.ErrorIs(t, err, common.ErrNotFound)

	resp, err := svc.ListTransactions(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestLocal_EmptyPayloadIsNotNil(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := dataservice.NewLocal(db.Storage, "alice")

	resp, err := svc.ListTransactions(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Payload)
}

func TestStatic_ReturnsCopy(t *testing.T) {
	svc := &dataservice.Static{
		User:         model.User{Username: "demo"},
		Transactions: testutil.Trades(2),
	}

	resp, err := svc.ListTransactions(context.Background())
	require.NoError(t, err)
	resp.Payload[0].ID = "changed"

	again, err := svc.ListTransactions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "txn-000", again.Payload[0].ID)
}
