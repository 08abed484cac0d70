package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zaytuna-store/go-backend/internal/domain"
	"github.com/zaytuna-store/go-backend/pkg/e"
)

func newLeadUCUnderTest(leadRepo *fakeLeadRepo, productRepo *fakeProductRepo) (*LeadUseCase, *fakeOutboxRepo, *fakeCacheRepo) {
	outbox := &fakeOutboxRepo{}
	cache := &fakeCacheRepo{}

	uc := NewLeadUC(leadRepo, productRepo, outbox, cache, fakeLinkBuilder{}, fakeDB{}, nopLogger{})
	return uc, outbox, cache
}

func TestLeadCreateDoesNotTouchStock(t *testing.T) {
	productRepo := newFakeProductRepo(&domain.Product{ID: 1, Name: "Argan Oil", Price: 2999, Stock: int64Ptr(5), IsActive: true})
	leadRepo := newFakeLeadRepo()
	uc, outbox, _ := newLeadUCUnderTest(leadRepo, productRepo)

	res, err := uc.Create(context.Background(), &CreateLeadReq{ProductID: 1, UserName: strPtr("Amina")})
	require.NoError(t, err)

	assert.Regexp(t, `^OO-\d{4}-[0-9A-Z]{6}$`, res.Reference)
	assert.Contains(t, res.WhatsAppURL, res.Reference, "ссылка содержит номер обращения")

	// Остаток бронируется только при конверсии
	assert.Equal(t, int64(5), *productRepo.stockOf(1))
	assert.Zero(t, productRepo.stockWrites)

	created := leadRepo.leads[res.LeadID]
	require.NotNil(t, created)
	assert.Equal(t, domain.LeadPending, created.Status)
	assert.Equal(t, "Argan Oil", created.ProductName)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, LeadCreated, outbox.events[0].EventType)

	var payload LeadEventPayload
	require.NoError(t, json.Unmarshal(outbox.events[0].Payload, &payload))
	assert.Equal(t, res.LeadID, payload.LeadID)
	assert.Equal(t, "pending", payload.Status)
}

func TestLeadCreateUnknownProduct(t *testing.T) {
	uc, _, _ := newLeadUCUnderTest(newFakeLeadRepo(), newFakeProductRepo())

	_, err := uc.Create(context.Background(), &CreateLeadReq{ProductID: 77})
	assert.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestLeadCreateRebuildsLinkOnCollision(t *testing.T) {
	productRepo := newFakeProductRepo(&domain.Product{ID: 1, Name: "Argan Oil", Price: 2999, IsActive: true})
	leadRepo := newFakeLeadRepo()
	leadRepo.refConflicts = 1
	uc, _, _ := newLeadUCUnderTest(leadRepo, productRepo)

	res, err := uc.Create(context.Background(), &CreateLeadReq{ProductID: 1})
	require.NoError(t, err)

	// Deep-link пересобран под итоговый номер
	assert.True(t, strings.HasSuffix(res.WhatsAppURL, res.Reference))
	assert.Equal(t, res.WhatsAppURL, leadRepo.leads[res.LeadID].WhatsAppURL)
}

func TestLeadConvertReservesOneUnit(t *testing.T) {
	productRepo := newFakeProductRepo(&domain.Product{ID: 1, Name: "Argan Oil", Price: 2999, Stock: int64Ptr(5), IsActive: true})
	leadRepo := newFakeLeadRepo(&domain.Lead{ID: 3, ProductID: int64Ptr(1), Status: domain.LeadPending, Reference: "OO-2026-AAAAAA"})
	uc, outbox, cache := newLeadUCUnderTest(leadRepo, productRepo)

	err := uc.UpdateStatus(context.Background(), adminAuth(), &UpdateLeadStatusReq{LeadID: 3, Status: "converted"})
	require.NoError(t, err)

	assert.Equal(t, int64(4), *productRepo.stockOf(1))
	assert.Equal(t, domain.LeadConverted, leadRepo.leads[3].Status)
	require.Len(t, outbox.events, 1)
	assert.Equal(t, LeadStatusChanged, outbox.events[0].EventType)
	assert.Equal(t, 1, cache.invalidations)
}

func TestLeadConvertInsufficientStock(t *testing.T) {
	productRepo := newFakeProductRepo(&domain.Product{ID: 1, Name: "Argan Oil", Price: 2999, Stock: int64Ptr(0), IsActive: true})
	leadRepo := newFakeLeadRepo(&domain.Lead{ID: 3, ProductID: int64Ptr(1), Status: domain.LeadPending, Reference: "OO-2026-AAAAAA"})
	uc, outbox, _ := newLeadUCUnderTest(leadRepo, productRepo)

	err := uc.UpdateStatus(context.Background(), adminAuth(), &UpdateLeadStatusReq{LeadID: 3, Status: "converted"})
	assert.ErrorIs(t, err, e.ErrInsufficientStock)

	assert.Equal(t, domain.LeadPending, leadRepo.leads[3].Status)
	assert.Equal(t, int64(0), *productRepo.stockOf(1))
	assert.Empty(t, outbox.events)
}

func TestLeadConvertAfterProductDeleted(t *testing.T) {
	// product_id обнулён каскадом после удаления товара: конверсия невозможна,
	// переходы без движения остатка остаются доступны
	leadRepo := newFakeLeadRepo(&domain.Lead{ID: 3, ProductID: nil, Status: domain.LeadPending, Reference: "OO-2026-AAAAAA"})
	uc, outbox, _ := newLeadUCUnderTest(leadRepo, newFakeProductRepo())

	err := uc.UpdateStatus(context.Background(), adminAuth(), &UpdateLeadStatusReq{LeadID: 3, Status: "converted"})
	assert.ErrorIs(t, err, e.ErrProductNotFound)
	assert.Equal(t, domain.LeadPending, leadRepo.leads[3].Status)
	assert.Empty(t, outbox.events)

	err = uc.UpdateStatus(context.Background(), adminAuth(), &UpdateLeadStatusReq{LeadID: 3, Status: "lost"})
	require.NoError(t, err)
	assert.Equal(t, domain.LeadLost, leadRepo.leads[3].Status)
	require.Len(t, outbox.events, 1)
	assert.Zero(t, outbox.events[0].ProductID)
}

func TestLeadUnconvertReleasesUnit(t *testing.T) {
	productRepo := newFakeProductRepo(&domain.Product{ID: 1, Name: "Argan Oil", Price: 2999, Stock: int64Ptr(4), IsActive: true})
	leadRepo := newFakeLeadRepo(&domain.Lead{ID: 3, ProductID: int64Ptr(1), Status: domain.LeadConverted, Reference: "OO-2026-AAAAAA"})
	uc, _, _ := newLeadUCUnderTest(leadRepo, productRepo)

	err := uc.UpdateStatus(context.Background(), adminAuth(), &UpdateLeadStatusReq{LeadID: 3, Status: "lost"})
	require.NoError(t, err)

	assert.Equal(t, int64(5), *productRepo.stockOf(1))
	assert.Equal(t, domain.LeadLost, leadRepo.leads[3].Status)
}

func TestLeadContactedDoesNotTouchStock(t *testing.T) {
	productRepo := newFakeProductRepo(&domain.Product{ID: 1, Name: "Argan Oil", Price: 2999, Stock: int64Ptr(5), IsActive: true})
	leadRepo := newFakeLeadRepo(&domain.Lead{ID: 3, ProductID: int64Ptr(1), Status: domain.LeadPending, Reference: "OO-2026-AAAAAA"})
	uc, _, cache := newLeadUCUnderTest(leadRepo, productRepo)

	err := uc.UpdateStatus(context.Background(), adminAuth(), &UpdateLeadStatusReq{LeadID: 3, Status: "contacted"})
	require.NoError(t, err)

	assert.Zero(t, productRepo.stockWrites)
	assert.Zero(t, cache.invalidations)
	assert.Equal(t, domain.LeadContacted, leadRepo.leads[3].Status)
}

func TestLeadConvertUntrackedStock(t *testing.T) {
	productRepo := newFakeProductRepo(&domain.Product{ID: 1, Name: "Argan Oil", Price: 2999, IsActive: true})
	leadRepo := newFakeLeadRepo(&domain.Lead{ID: 3, ProductID: int64Ptr(1), Status: domain.LeadPending, Reference: "OO-2026-AAAAAA"})
	uc, _, _ := newLeadUCUnderTest(leadRepo, productRepo)

	err := uc.UpdateStatus(context.Background(), adminAuth(), &UpdateLeadStatusReq{LeadID: 3, Status: "converted"})
	require.NoError(t, err)

	assert.Zero(t, productRepo.stockWrites)
	assert.Equal(t, domain.LeadConverted, leadRepo.leads[3].Status)
}

func TestLeadAdminGuards(t *testing.T) {
	uc, _, _ := newLeadUCUnderTest(newFakeLeadRepo(), newFakeProductRepo())
	ctx := context.Background()

	err := uc.UpdateStatus(ctx, nil, &UpdateLeadStatusReq{LeadID: 1, Status: "contacted"})
	assert.ErrorIs(t, err, e.ErrUnauthorized)

	_, err = uc.List(ctx, customerAuth(), nil)
	assert.ErrorIs(t, err, e.ErrForbidden)

	_, err = uc.Get(ctx, nil, 1)
	assert.ErrorIs(t, err, e.ErrUnauthorized)
}

func TestLeadListRejectsUnknownStatusFilter(t *testing.T) {
	uc, _, _ := newLeadUCUnderTest(newFakeLeadRepo(), newFakeProductRepo())

	_, err := uc.List(context.Background(), adminAuth(), strPtr("shipped"))
	assert.ErrorIs(t, err, e.ErrInvalidStatus)
}
