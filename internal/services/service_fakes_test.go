package services

import (
	"time"

	"restro_backend/internal/models"
	"restro_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// In-memory fakes backing the service tests. They ignore the SQLExecutor
// argument; the fake tx manager passes nil through.

type fakeTxManager struct {
	failWith error
}

func (m *fakeTxManager) WithTransaction(fn func(repositories.SQLExecutor) error) error {
	if m.failWith != nil {
		return m.failWith
	}
	return fn(nil)
}

// --- menu repository fake ---

type fakeMenuRepo struct {
	items map[int64]*models.MenuItem
}

func newFakeMenuRepo() *fakeMenuRepo {
	return &fakeMenuRepo{items: map[int64]*models.MenuItem{}}
}

func (r *fakeMenuRepo) addTrackedItem(id int64, name string, price float64, stock decimal.Decimal) {
	s := stock
	r.items[id] = &models.MenuItem{
		ID: id, Name: name, Price: price, IsAvailable: true,
		ItemType: "RETAIL", TracksStock: true, CurrentStock: &s,
	}
}

func (r *fakeMenuRepo) addUntrackedItem(id int64, name string, price float64) {
	r.items[id] = &models.MenuItem{
		ID: id, Name: name, Price: price, IsAvailable: true,
		ItemType: "SERVICE", TracksStock: false,
	}
}

func (r *fakeMenuRepo) CreateCategory(_ repositories.SQLExecutor, category *models.MenuCategory) (int64, error) {
	return category.ID, nil
}
func (r *fakeMenuRepo) GetCategoryByID(int64) (*models.MenuCategory, error) {
	return nil, repositories.ErrNotFound
}
func (r *fakeMenuRepo) GetCategories(int, int) ([]models.MenuCategory, int, error) {
	return nil, 0, nil
}
func (r *fakeMenuRepo) UpdateCategory(repositories.SQLExecutor, *models.MenuCategory) error {
	return nil
}
func (r *fakeMenuRepo) DeleteCategory(repositories.SQLExecutor, int64) error { return nil }

func (r *fakeMenuRepo) CreateItem(_ repositories.SQLExecutor, item *models.MenuItem) (int64, error) {
	r.items[item.ID] = item
	return item.ID, nil
}

func (r *fakeMenuRepo) GetItemByID(id int64) (*models.MenuItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeMenuRepo) GetItems(*int64, *string, int, int) ([]models.MenuItem, int, error) {
	return nil, 0, nil
}
func (r *fakeMenuRepo) UpdateItem(repositories.SQLExecutor, *models.MenuItem) error { return nil }
func (r *fakeMenuRepo) DeleteItem(repositories.SQLExecutor, int64) error            { return nil }

func (r *fakeMenuRepo) GetItemForUpdate(_ repositories.SQLExecutor, id int64) (*models.MenuItem, error) {
	return r.GetItemByID(id)
}

func (r *fakeMenuRepo) SetItemStock(_ repositories.SQLExecutor, itemID int64, quantity decimal.Decimal) error {
	item, ok := r.items[itemID]
	if !ok || !item.TracksStock {
		return repositories.ErrNotFound
	}
	q := quantity
	item.CurrentStock = &q
	return nil
}

func (r *fakeMenuRepo) GetItemPriceAndName(itemID int64) (float64, string, bool, bool, error) {
	item, ok := r.items[itemID]
	if !ok {
		return 0, "", false, false, repositories.ErrNotFound
	}
	return item.Price, item.Name, item.TracksStock, item.IsAvailable, nil
}

func (r *fakeMenuRepo) GetTrackedItemIDs() ([]int64, error) {
	ids := []int64{}
	for id, item := range r.items {
		if item.TracksStock {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeMenuRepo) stockOf(id int64) decimal.Decimal {
	item := r.items[id]
	if item == nil || item.CurrentStock == nil {
		return decimal.Zero
	}
	return *item.CurrentStock
}

// --- inventory repository fake ---

type snapshotKey struct {
	itemID int64
	day    string
}

type fakeInventoryRepo struct {
	entries   []models.InventoryLedgerEntry
	snapshots map[snapshotKey]*models.DailyStockSnapshot
	nextID    int64
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{snapshots: map[snapshotKey]*models.DailyStockSnapshot{}}
}

func (r *fakeInventoryRepo) AppendLedgerEntry(_ repositories.SQLExecutor, entry *models.InventoryLedgerEntry) (int64, error) {
	r.nextID++
	entry.ID = r.nextID
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return entry.ID, nil
}

func (r *fakeInventoryRepo) HasOpeningStock(_ repositories.SQLExecutor, menuItemID int64) (bool, error) {
	for _, e := range r.entries {
		if e.MenuItemID == menuItemID && e.Category == models.ActivityOpeningStock {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInventoryRepo) GetLedgerEntries(filter models.LedgerFilter) ([]models.InventoryLedgerEntry, int, error) {
	out := []models.InventoryLedgerEntry{}
	for _, e := range r.entries {
		if filter.MenuItemID != nil && e.MenuItemID != *filter.MenuItemID {
			continue
		}
		if filter.Category != nil && e.Category != *filter.Category {
			continue
		}
		out = append(out, e)
	}
	return out, len(out), nil
}

// UpsertDailySnapshot mirrors the ON CONFLICT arithmetic of the SQL
// implementation: buckets accumulate, opening is written once, closing tracks
// the live quantity and max only ratchets upward.
func (r *fakeInventoryRepo) UpsertDailySnapshot(_ repositories.SQLExecutor, params repositories.SnapshotUpsertParams) (*models.DailyStockSnapshot, error) {
	key := snapshotKey{itemID: params.MenuItemID, day: params.SnapshotDate.Format("2006-01-02")}
	snap, ok := r.snapshots[key]
	if !ok {
		snap = &models.DailyStockSnapshot{
			MenuItemID:   params.MenuItemID,
			SnapshotDate: params.SnapshotDate,
			OpeningStock: params.CurrentQuantity,
			Purchases:    params.PurchasesInc,
			Sales:        params.SalesInc,
			Adjustments:  params.AdjustmentsInc,
			ClosingStock: params.CurrentQuantity,
			MaxStock:     params.CurrentQuantity,
		}
		r.snapshots[key] = snap
	} else {
		snap.Purchases = snap.Purchases.Add(params.PurchasesInc)
		snap.Sales = snap.Sales.Add(params.SalesInc)
		snap.Adjustments = snap.Adjustments.Add(params.AdjustmentsInc)
		snap.ClosingStock = params.CurrentQuantity
		if params.CurrentQuantity.GreaterThan(snap.MaxStock) {
			snap.MaxStock = params.CurrentQuantity
		}
	}
	copied := *snap
	return &copied, nil
}

func (r *fakeInventoryRepo) GetSnapshots(filter models.SnapshotFilter) ([]models.DailyStockSnapshot, int, error) {
	out := []models.DailyStockSnapshot{}
	for _, s := range r.snapshots {
		if filter.MenuItemID != nil && s.MenuItemID != *filter.MenuItemID {
			continue
		}
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (r *fakeInventoryRepo) todaySnapshot(itemID int64) *models.DailyStockSnapshot {
	key := snapshotKey{itemID: itemID, day: time.Now().Format("2006-01-02")}
	return r.snapshots[key]
}

func (r *fakeInventoryRepo) lastEntry() *models.InventoryLedgerEntry {
	if len(r.entries) == 0 {
		return nil
	}
	return &r.entries[len(r.entries)-1]
}

// --- auth repository fake ---

type fakeAuthRepo struct {
	users  map[int64]*models.User
	roles  map[string]*models.Role
	nextID int64
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		users: map[int64]*models.User{},
		roles: map[string]*models.Role{
			"Admin":   {ID: 1, Name: "Admin"},
			"Manager": {ID: 2, Name: "Manager"},
			"Staff":   {ID: 3, Name: "Staff"},
		},
	}
}

func (r *fakeAuthRepo) CreateUser(_ repositories.SQLExecutor, user *models.User) (int64, error) {
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return 0, repositories.ErrDuplicateKey
		}
	}
	r.nextID++
	user.ID = r.nextID
	copied := *user
	r.users[user.ID] = &copied
	return user.ID, nil
}

func (r *fakeAuthRepo) GetUserByUsername(username string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeAuthRepo) GetUserByID(id int64) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeAuthRepo) GetRoleByName(name string) (*models.Role, error) {
	role, ok := r.roles[name]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return role, nil
}

func (r *fakeAuthRepo) GetUsers(int, int) ([]models.User, int, error) { return nil, 0, nil }

func (r *fakeAuthRepo) SetUserActive(_ repositories.SQLExecutor, userID int64, active bool) error {
	user, ok := r.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	user.IsActive = active
	return nil
}

// --- purchase repository fake ---

type fakePurchaseRepo struct {
	orders map[int64]*models.PurchaseOrder
	nextID int64
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{orders: map[int64]*models.PurchaseOrder{}}
}

func (r *fakePurchaseRepo) CreatePurchaseOrder(_ repositories.SQLExecutor, order *models.PurchaseOrder) (int64, error) {
	r.nextID++
	order.ID = r.nextID
	copied := *order
	r.orders[order.ID] = &copied
	return order.ID, nil
}

func (r *fakePurchaseRepo) CreatePurchaseOrderItem(_ repositories.SQLExecutor, item *models.PurchaseOrderItem) (int64, error) {
	order, ok := r.orders[item.PurchaseOrderID]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	r.nextID++
	item.ID = r.nextID
	order.Items = append(order.Items, *item)
	return item.ID, nil
}

func (r *fakePurchaseRepo) GetPurchaseOrderByID(_ repositories.SQLExecutor, id int64) (*models.PurchaseOrder, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *order
	copied.Items = append([]models.PurchaseOrderItem{}, order.Items...)
	return &copied, nil
}

func (r *fakePurchaseRepo) GetPurchaseOrderItems(_ repositories.SQLExecutor, orderID int64) ([]models.PurchaseOrderItem, error) {
	order, ok := r.orders[orderID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return order.Items, nil
}

func (r *fakePurchaseRepo) GetPurchaseOrders(models.PurchaseOrderFilters) ([]models.PurchaseOrder, int, error) {
	return nil, 0, nil
}

func (r *fakePurchaseRepo) UpdatePurchaseOrderStatus(_ repositories.SQLExecutor, id int64, status string, orderedAt, receivedAt *time.Time) error {
	order, ok := r.orders[id]
	if !ok {
		return repositories.ErrNotFound
	}
	order.Status = status
	if orderedAt != nil {
		order.OrderedAt = orderedAt
	}
	if receivedAt != nil {
		order.ReceivedAt = receivedAt
	}
	return nil
}

func (r *fakePurchaseRepo) DeletePurchaseOrder(_ repositories.SQLExecutor, id int64) error {
	if _, ok := r.orders[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

// --- order repository fake ---

type fakeOrderRepo struct {
	orders map[int64]*models.KitchenOrder
	nextID int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]*models.KitchenOrder{}}
}

func (r *fakeOrderRepo) CreateKitchenOrder(_ repositories.SQLExecutor, order *models.KitchenOrder) (int64, error) {
	r.nextID++
	order.ID = r.nextID
	copied := *order
	r.orders[order.ID] = &copied
	return order.ID, nil
}

func (r *fakeOrderRepo) CreateKitchenOrderItem(_ repositories.SQLExecutor, item *models.KitchenOrderItem) (int64, error) {
	order, ok := r.orders[item.KitchenOrderID]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	r.nextID++
	item.ID = r.nextID
	order.Items = append(order.Items, *item)
	return item.ID, nil
}

func (r *fakeOrderRepo) GetKitchenOrderByID(_ repositories.SQLExecutor, id int64) (*models.KitchenOrder, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *order
	copied.Items = append([]models.KitchenOrderItem{}, order.Items...)
	return &copied, nil
}

func (r *fakeOrderRepo) GetKitchenOrderItems(_ repositories.SQLExecutor, orderID int64) ([]models.KitchenOrderItem, error) {
	order, ok := r.orders[orderID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return order.Items, nil
}

func (r *fakeOrderRepo) GetKitchenOrders(models.KitchenOrderFilters) ([]models.KitchenOrder, int, error) {
	return nil, 0, nil
}

func (r *fakeOrderRepo) UpdateKitchenOrderStatus(_ repositories.SQLExecutor, id int64, status string) error {
	order, ok := r.orders[id]
	if !ok {
		return repositories.ErrNotFound
	}
	order.Status = status
	return nil
}

// --- invoice repository fake ---

type fakeInvoiceRepo struct {
	invoices map[int64]*models.Invoice
	payments []models.Payment
	nextID   int64
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: map[int64]*models.Invoice{}}
}

func (r *fakeInvoiceRepo) CreateInvoice(_ repositories.SQLExecutor, invoice *models.Invoice) (int64, error) {
	r.nextID++
	invoice.ID = r.nextID
	copied := *invoice
	r.invoices[invoice.ID] = &copied
	return invoice.ID, nil
}

func (r *fakeInvoiceRepo) CreateInvoiceItem(_ repositories.SQLExecutor, item *models.InvoiceItem) (int64, error) {
	invoice, ok := r.invoices[item.InvoiceID]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	r.nextID++
	item.ID = r.nextID
	invoice.Items = append(invoice.Items, *item)
	return item.ID, nil
}

func (r *fakeInvoiceRepo) GetInvoiceByID(_ repositories.SQLExecutor, id int64) (*models.Invoice, error) {
	invoice, ok := r.invoices[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *invoice
	copied.Items = append([]models.InvoiceItem{}, invoice.Items...)
	copied.AmountPaid = 0
	for _, p := range r.payments {
		if p.InvoiceID == id {
			copied.Payments = append(copied.Payments, p)
			copied.AmountPaid += p.Amount
		}
	}
	return &copied, nil
}

func (r *fakeInvoiceRepo) GetInvoiceForUpdate(executor repositories.SQLExecutor, id int64) (*models.Invoice, error) {
	return r.GetInvoiceByID(executor, id)
}

func (r *fakeInvoiceRepo) GetInvoiceItems(_ repositories.SQLExecutor, invoiceID int64) ([]models.InvoiceItem, error) {
	invoice, ok := r.invoices[invoiceID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return invoice.Items, nil
}

func (r *fakeInvoiceRepo) GetInvoices(models.InvoiceFilters) ([]models.Invoice, int, error) {
	return nil, 0, nil
}

func (r *fakeInvoiceRepo) UpdateInvoiceStatus(_ repositories.SQLExecutor, id int64, status string, confirmedAt *time.Time) error {
	invoice, ok := r.invoices[id]
	if !ok {
		return repositories.ErrNotFound
	}
	invoice.Status = status
	if confirmedAt != nil {
		invoice.ConfirmedAt = confirmedAt
	}
	return nil
}

func (r *fakeInvoiceRepo) CreatePayment(_ repositories.SQLExecutor, payment *models.Payment) (int64, error) {
	r.nextID++
	payment.ID = r.nextID
	r.payments = append(r.payments, *payment)
	return payment.ID, nil
}

func (r *fakeInvoiceRepo) GetPaymentsByInvoiceID(_ repositories.SQLExecutor, invoiceID int64) ([]models.Payment, error) {
	out := []models.Payment{}
	for _, p := range r.payments {
		if p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) GetAmountPaid(_ repositories.SQLExecutor, invoiceID int64) (float64, error) {
	total := 0.0
	for _, p := range r.payments {
		if p.InvoiceID == invoiceID {
			total += p.Amount
		}
	}
	return total, nil
}

// --- setting repository fake ---

type fakeSettingRepo struct {
	values map[string]string
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{values: map[string]string{}}
}

func (r *fakeSettingRepo) GetSetting(key string) (*models.ApplicationSetting, error) {
	value, ok := r.values[key]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &models.ApplicationSetting{SettingKey: key, SettingValue: value}, nil
}

func (r *fakeSettingRepo) GetSettings() ([]models.ApplicationSetting, error) {
	out := []models.ApplicationSetting{}
	for k, v := range r.values {
		out = append(out, models.ApplicationSetting{SettingKey: k, SettingValue: v})
	}
	return out, nil
}

func (r *fakeSettingRepo) UpsertSetting(_ repositories.SQLExecutor, key, value string) error {
	r.values[key] = value
	return nil
}
