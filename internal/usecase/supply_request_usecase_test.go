package usecase

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSupplyRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending request and notifies store staff", func(t *testing.T) {
		f := newFixture(t)

		sr, err := f.requestUC.Create(ctx, actorFor(f.clerk), CreateSupplyRequestInput{
			ProductID:         f.product.ID,
			QuantityRequested: 30,
		})
		require.NoError(t, err)

		assert.Equal(t, model.RequestStatusPending, sr.Status)
		assert.Equal(t, f.clerk.ID, sr.RequestedBy)
		assert.Nil(t, sr.ResolvedBy)

		byUser := f.store.notificationsByUser()
		require.Len(t, byUser[f.admin.ID], 1)
		require.Len(t, byUser[f.merchant.ID], 1)
		assert.Empty(t, byUser[f.otherAdmin.ID])
		assert.Contains(t, byUser[f.admin.ID][0].Message, "Aoi asked for 30 x Apple")
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.requestUC.Create(ctx, actorFor(f.clerk), CreateSupplyRequestInput{
			ProductID:         f.product.ID,
			QuantityRequested: 0,
		})
		assertHTTPStatus(t, err, http.StatusBadRequest)
		assert.Empty(t, f.store.requests)
	})

	t.Run("unknown product returns 404", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.requestUC.Create(ctx, actorFor(f.clerk), CreateSupplyRequestInput{
			ProductID:         9999,
			QuantityRequested: 5,
		})
		assertHTTPStatus(t, err, http.StatusNotFound)
	})

	t.Run("clerk of another store is forbidden", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.requestUC.Create(ctx, actorFor(f.otherAdmin), CreateSupplyRequestInput{
			ProductID:         f.product.ID,
			QuantityRequested: 5,
		})
		assertHTTPStatus(t, err, http.StatusForbidden)
	})
}

func TestResolveSupplyRequest(t *testing.T) {
	ctx := context.Background()

	pendingRequest := func(t *testing.T, f *fixture) model.SupplyRequest {
		t.Helper()
		sr, err := f.requestUC.Create(ctx, actorFor(f.clerk), CreateSupplyRequestInput{
			ProductID:         f.product.ID,
			QuantityRequested: 10,
		})
		require.NoError(t, err)
		return sr
	}

	t.Run("approve notifies the requester", func(t *testing.T) {
		f := newFixture(t)
		sr := pendingRequest(t, f)

		resolved, err := f.requestUC.Resolve(ctx, actorFor(f.admin), sr.ID, ResolveSupplyRequestInput{
			Status: string(model.RequestStatusApproved),
		})
		require.NoError(t, err)

		assert.Equal(t, model.RequestStatusApproved, resolved.Status)
		require.NotNil(t, resolved.ResolvedBy)
		assert.Equal(t, f.admin.ID, *resolved.ResolvedBy)

		byUser := f.store.notificationsByUser()
		require.Len(t, byUser[f.clerk.ID], 1)
		assert.Contains(t, byUser[f.clerk.ID][0].Message, "Your supply request for Apple was approved")

		require.Len(t, f.store.auditLogs, 1)
		assert.Equal(t, model.AuditActionResolveSupplyRequest, f.store.auditLogs[0].Action)
		assert.Equal(t, model.AuditResourceSupplyRequest, f.store.auditLogs[0].ResourceType)
	})

	t.Run("decline keeps the reason and puts it in the message", func(t *testing.T) {
		f := newFixture(t)
		sr := pendingRequest(t, f)

		resolved, err := f.requestUC.Resolve(ctx, actorFor(f.admin), sr.ID, ResolveSupplyRequestInput{
			Status:        string(model.RequestStatusDeclined),
			DeclineReason: "out of stock at supplier",
		})
		require.NoError(t, err)

		assert.Equal(t, model.RequestStatusDeclined, resolved.Status)
		assert.Equal(t, "out of stock at supplier", resolved.DeclineReason)

		byUser := f.store.notificationsByUser()
		require.Len(t, byUser[f.clerk.ID], 1)
		assert.Contains(t, byUser[f.clerk.ID][0].Message, "declined: out of stock at supplier")
	})

	t.Run("decline without a reason is allowed", func(t *testing.T) {
		f := newFixture(t)
		sr := pendingRequest(t, f)

		resolved, err := f.requestUC.Resolve(ctx, actorFor(f.admin), sr.ID, ResolveSupplyRequestInput{
			Status: string(model.RequestStatusDeclined),
		})
		require.NoError(t, err)
		assert.Empty(t, resolved.DeclineReason)
	})

	t.Run("resolved requests stay resolved", func(t *testing.T) {
		f := newFixture(t)
		sr := pendingRequest(t, f)

		_, err := f.requestUC.Resolve(ctx, actorFor(f.admin), sr.ID, ResolveSupplyRequestInput{
			Status: string(model.RequestStatusApproved),
		})
		require.NoError(t, err)

		_, err = f.requestUC.Resolve(ctx, actorFor(f.admin), sr.ID, ResolveSupplyRequestInput{
			Status: string(model.RequestStatusDeclined),
		})
		assertHTTPStatus(t, err, http.StatusBadRequest)
		he, _ := AsHTTPError(err)
		assert.Equal(t, "only pending requests can be updated", he.Message)

		assert.Equal(t, model.RequestStatusApproved, f.store.requests[sr.ID].Status)
	})

	t.Run("rejects statuses outside the state machine", func(t *testing.T) {
		f := newFixture(t)
		sr := pendingRequest(t, f)

		for _, status := range []string{"", "PENDING", "CANCELLED"} {
			_, err := f.requestUC.Resolve(ctx, actorFor(f.admin), sr.ID, ResolveSupplyRequestInput{Status: status})
			assertHTTPStatus(t, err, http.StatusBadRequest)
		}
		assert.Equal(t, model.RequestStatusPending, f.store.requests[sr.ID].Status)
	})

	t.Run("unknown request returns 404", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.requestUC.Resolve(ctx, actorFor(f.admin), 9999, ResolveSupplyRequestInput{
			Status: string(model.RequestStatusApproved),
		})
		assertHTTPStatus(t, err, http.StatusNotFound)
	})

	t.Run("admin of another store is forbidden", func(t *testing.T) {
		f := newFixture(t)
		sr := pendingRequest(t, f)

		_, err := f.requestUC.Resolve(ctx, actorFor(f.otherAdmin), sr.ID, ResolveSupplyRequestInput{
			Status: string(model.RequestStatusApproved),
		})
		assertHTTPStatus(t, err, http.StatusForbidden)
	})
}

func TestListSupplyRequests(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, f *fixture) {
		t.Helper()
		otherProduct := f.store.addProduct(model.Product{StoreID: storeOther, Name: "Pear", CurrentStock: 10, MinStockLevel: 1})
		otherStoreID := storeOther
		otherClerk := f.store.addUser(model.User{StoreID: &otherStoreID, Name: "Mio", Role: model.RoleClerk})

		_, err := f.requestUC.Create(ctx, actorFor(f.clerk), CreateSupplyRequestInput{ProductID: f.product.ID, QuantityRequested: 5})
		require.NoError(t, err)
		_, err = f.requestUC.Create(ctx, actorFor(otherClerk), CreateSupplyRequestInput{ProductID: otherProduct.ID, QuantityRequested: 3})
		require.NoError(t, err)
	}

	t.Run("clerk sees only their own requests", func(t *testing.T) {
		f := newFixture(t)
		seed(t, f)

		out, err := f.requestUC.List(ctx, actorFor(f.clerk), ListSupplyRequestsInput{Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(1), out.Total)
		require.Len(t, out.Items, 1)
		assert.Equal(t, f.clerk.ID, out.Items[0].RequestedBy)
	})

	t.Run("admin sees their store, merchant sees everything", func(t *testing.T) {
		f := newFixture(t)
		seed(t, f)

		out, err := f.requestUC.List(ctx, actorFor(f.admin), ListSupplyRequestsInput{Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(1), out.Total)

		out, err = f.requestUC.List(ctx, actorFor(f.merchant), ListSupplyRequestsInput{Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(2), out.Total)
	})

	t.Run("filters by status", func(t *testing.T) {
		f := newFixture(t)
		seed(t, f)

		status := string(model.RequestStatusApproved)
		out, err := f.requestUC.List(ctx, actorFor(f.merchant), ListSupplyRequestsInput{Page: 1, Limit: 20, Status: &status})
		require.NoError(t, err)
		assert.Equal(t, int64(0), out.Total)

		bad := "CANCELLED"
		_, err = f.requestUC.List(ctx, actorFor(f.merchant), ListSupplyRequestsInput{Page: 1, Limit: 20, Status: &bad})
		assertHTTPStatus(t, err, http.StatusBadRequest)
	})
}
