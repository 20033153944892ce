package digistore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bullpowerhubgit/digistore24-automation/app/models"
)

type fakeLister struct {
	pages map[int][]Purchase
	err   error
	calls int
}

func (f *fakeLister) ListPurchases(ctx context.Context, page, limit int) ([]Purchase, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[page], nil
}

type fakeStore struct {
	sales   map[string]*models.Sale
	failFor map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{sales: make(map[string]*models.Sale), failFor: make(map[string]bool)}
}

func (f *fakeStore) UpsertSale(sale *models.Sale) error {
	if f.failFor[sale.OrderID] {
		return errors.New("constraint violation")
	}
	copied := *sale
	f.sales[sale.OrderID] = &copied
	return nil
}

func testSyncer(client PurchaseLister, store SaleUpserter, maxPages int) *Syncer {
	s := NewSyncer(client, store)
	s.maxPages = maxPages
	s.recordLastRun = func(time.Time) {}
	return s
}

func fullPage(prefix string) []Purchase {
	page := make([]Purchase, syncPageSize)
	for i := range page {
		page[i] = Purchase{OrderID: fmt.Sprintf("%s-%d", prefix, i), Amount: 10, Status: "completed"}
	}
	return page
}

func TestSyncStopsOnShortPage(t *testing.T) {
	lister := &fakeLister{pages: map[int][]Purchase{
		1: fullPage("P1"),
		2: {{OrderID: "P2-0", Amount: 10, Status: "completed"}},
		3: fullPage("P3"),
	}}
	store := newFakeStore()

	synced, err := testSyncer(lister, store, 10).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lister.calls != 2 {
		t.Fatalf("expected paging to stop after short page, made %d calls", lister.calls)
	}
	if synced != syncPageSize+1 {
		t.Fatalf("expected %d synced, got %d", syncPageSize+1, synced)
	}
}

func TestSyncStopsOnEmptyPage(t *testing.T) {
	lister := &fakeLister{pages: map[int][]Purchase{}}
	store := newFakeStore()

	synced, err := testSyncer(lister, store, 10).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if synced != 0 || lister.calls != 1 {
		t.Fatalf("expected one empty call, got synced=%d calls=%d", synced, lister.calls)
	}
}

func TestSyncHonorsMaxPages(t *testing.T) {
	lister := &fakeLister{pages: map[int][]Purchase{
		1: fullPage("P1"),
		2: fullPage("P2"),
		3: fullPage("P3"),
	}}
	store := newFakeStore()

	_, err := testSyncer(lister, store, 2).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lister.calls != 2 {
		t.Fatalf("expected maxPages to cap at 2 calls, got %d", lister.calls)
	}
}

func TestSyncRowFailureContinues(t *testing.T) {
	lister := &fakeLister{pages: map[int][]Purchase{
		1: {
			{OrderID: "OK-1", Amount: 10, Status: "completed"},
			{OrderID: "BAD", Amount: 10, Status: "completed"},
			{OrderID: "OK-2", Amount: 10, Status: "completed"},
		},
	}}
	store := newFakeStore()
	store.failFor["BAD"] = true

	synced, err := testSyncer(lister, store, 5).Run(context.Background())
	if err != nil {
		t.Fatalf("per-row failures must not abort the run: %v", err)
	}
	if synced != 2 {
		t.Fatalf("expected 2 synced, got %d", synced)
	}
	if store.sales["OK-2"] == nil {
		t.Fatalf("expected rows after the failure to be processed")
	}
}

func TestSyncSkipsEmptyOrderID(t *testing.T) {
	lister := &fakeLister{pages: map[int][]Purchase{
		1: {
			{OrderID: "OK-1", Amount: 10, Status: "completed"},
			{OrderID: "", Amount: 10, Status: "completed"},
			{OrderID: "   ", Amount: 10, Status: "completed"},
			{OrderID: "OK-2", Amount: 10, Status: "completed"},
		},
	}}
	store := newFakeStore()

	synced, err := testSyncer(lister, store, 5).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if synced != 2 {
		t.Fatalf("expected 2 synced, got %d", synced)
	}
	if _, ok := store.sales[""]; ok {
		t.Fatalf("expected no sale row keyed by an empty order id")
	}
}

func TestSyncAPIFailureAborts(t *testing.T) {
	lister := &fakeLister{err: errors.New("api unavailable")}
	store := newFakeStore()

	if _, err := testSyncer(lister, store, 5).Run(context.Background()); err == nil {
		t.Fatalf("expected page-level failure to be returned")
	}
}

func TestSaleFromPurchase(t *testing.T) {
	p := Purchase{
		OrderID:     "ORD-1",
		ProductName: "Course",
		Amount:      49.99,
		Currency:    "",
		AffiliateID: " AFF-1 ",
		Status:      "REFUNDED",
		PaymentDate: "2026-03-01 10:30:00",
	}
	sale := saleFromPurchase(p)

	if sale.Status != models.SaleStatusRefunded {
		t.Fatalf("expected normalized status, got %q", sale.Status)
	}
	if sale.Currency != "EUR" {
		t.Fatalf("expected currency default, got %q", sale.Currency)
	}
	if sale.AffiliateID == nil || *sale.AffiliateID != "AFF-1" {
		t.Fatalf("expected trimmed affiliate id, got %v", sale.AffiliateID)
	}
	if sale.PaymentDate.Year() != 2026 {
		t.Fatalf("unexpected payment date %v", sale.PaymentDate)
	}

	unknown := saleFromPurchase(Purchase{OrderID: "O", Status: "weird"})
	if unknown.Status != models.SaleStatusCompleted {
		t.Fatalf("expected unknown status to default to completed, got %q", unknown.Status)
	}
	if unknown.AffiliateID != nil {
		t.Fatalf("expected nil affiliate id for blank input")
	}
}
