package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "coop-loan-service/internal/domain/loan"
	paymentDomain "coop-loan-service/internal/domain/payment"
	"coop-loan-service/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schema only for tests (no ENUM) ---

type loanSQLite struct {
	ID                uint64         `gorm:"primaryKey;column:id"`
	LoanID            string         `gorm:"size:32;column:loan_id"`
	LoanNumber        uint64         `gorm:"column:loan_number"`
	ApplicantName     string         `gorm:"column:applicant_name"`
	Amount            float64        `gorm:"column:amount"`
	Salary            float64        `gorm:"column:salary"`
	PaymentTerm       int            `gorm:"column:payment_term"`
	LoanType          string         `gorm:"column:loan_type"`
	Purpose           string         `gorm:"column:purpose"`
	Remarks           string         `gorm:"column:remarks"`
	Status            string         `gorm:"type:text;column:status"` // ← no enum
	BookkeeperChecked bool           `gorm:"column:bookkeeper_checked"`
	PayrollChecked    bool           `gorm:"column:payroll_checked"`
	DenialRemarks     string         `gorm:"column:denial_remarks"`
	CreatedAt         time.Time      `gorm:"column:created_at"`
	UpdatedAt         time.Time      `gorm:"column:updated_at"`
	ReleasedAt        *time.Time     `gorm:"column:released_at"`
	DeletedAt         gorm.DeletedAt `gorm:"column:deleted_at"`
	DeletedBy         string         `gorm:"column:deleted_by"`
}

func (loanSQLite) TableName() string { return "loans" }

type paymentSQLite struct {
	ID              uint64         `gorm:"primaryKey;column:id"`
	PaymentID       string         `gorm:"size:32;column:payment_id"`
	LoanID          uint64         `gorm:"column:loan_id"`
	PaymentNumber   int            `gorm:"column:payment_number"`
	DueDate         time.Time      `gorm:"column:due_date"`
	Amount          float64        `gorm:"column:amount"`
	Principal       float64        `gorm:"column:principal"`
	Interest        float64        `gorm:"column:interest"`
	Status          string         `gorm:"type:text;column:status"` // ← no enum
	PaymentDate     *time.Time     `gorm:"column:payment_date"`
	AmountPaid      float64        `gorm:"column:amount_paid"`
	PenaltyWaived   bool           `gorm:"column:penalty_waived"`
	PenaltyDeferred bool           `gorm:"column:penalty_deferred"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (paymentSQLite) TableName() string { return "payments" }

type userSQLite struct {
	ID        uint64         `gorm:"primaryKey;column:id"`
	UserID    string         `gorm:"size:32;column:user_id"`
	Email     string         `gorm:"column:email"`
	Name      string         `gorm:"column:name"`
	Role      string         `gorm:"type:text;column:role"` // ← no enum
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (userSQLite) TableName() string { return "users" }

type settingsSQLite struct {
	ID              uint64    `gorm:"primaryKey;column:id"`
	PenaltyAmount   float64   `gorm:"column:penalty_amount"`
	GracePeriodDays int       `gorm:"column:grace_period_days"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
	UpdatedBy       string    `gorm:"column:updated_by"`
}

func (settingsSQLite) TableName() string { return "penalty_settings" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the
// sqlite-safe schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&loanSQLite{}, &paymentSQLite{}, &userSQLite{}, &settingsSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeLoan(loanID string, number uint64) *domain.Loan {
	return &domain.Loan{
		LoanID:        loanID,
		LoanNumber:    number,
		ApplicantName: "Maria Santos",
		Amount:        10_000.00,
		PaymentTerm:   6,
		LoanType:      domain.TypeCashAdvance,
		Purpose:       domain.PurposeBusinessCapital,
		Status:        domain.StatusPending,
	}
}

func TestLoanCreateAndGetByLoanID(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	loanID := id.NewID32()
	l := makeLoan(loanID, 1)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.ApplicantName != "Maria Santos" || got.Status != domain.StatusPending {
		t.Fatalf("got = %+v", got)
	}

	if _, err := repo.GetByLoanID(ctx, id.NewID32()); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("unknown id: err = %v", err)
	}
}

func TestLoanListFiltersByStatus(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	a := makeLoan(id.NewID32(), 1)
	b := makeLoan(id.NewID32(), 2)
	b.Status = domain.StatusReleased
	for _, l := range []*domain.Loan{a, b} {
		if err := repo.Create(ctx, l); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	released, err := repo.List(ctx, domain.StatusReleased)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(released) != 1 || released[0].LoanID != b.LoanID {
		t.Fatalf("released = %+v", released)
	}

	all, err := repo.List(ctx, "")
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all = %d loans", len(all))
	}
	// newest number first
	if all[0].LoanNumber != 2 {
		t.Fatalf("order: first loan number = %d", all[0].LoanNumber)
	}
}

func TestLoanNextLoanNumber(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	n, err := repo.NextLoanNumber(ctx)
	if err != nil {
		t.Fatalf("NextLoanNumber: %v", err)
	}
	if n != 1 {
		t.Fatalf("empty table: next = %d, want 1", n)
	}

	l := makeLoan(id.NewID32(), 7)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	n, err = repo.NextLoanNumber(ctx)
	if err != nil {
		t.Fatalf("NextLoanNumber: %v", err)
	}
	if n != 8 {
		t.Fatalf("next = %d, want 8", n)
	}

	// a deleted loan keeps its number reserved
	if err := repo.Delete(ctx, l, "u-admin"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	n, err = repo.NextLoanNumber(ctx)
	if err != nil {
		t.Fatalf("NextLoanNumber: %v", err)
	}
	if n != 8 {
		t.Fatalf("next after delete = %d, want 8", n)
	}
}

func TestLoanSoftDeleteRecordsActor(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	l := makeLoan(id.NewID32(), 1)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, l, "u-book"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := repo.GetByLoanID(ctx, l.LoanID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("deleted loan still visible: %v", err)
	}

	var row loanSQLite
	if err := db.Unscoped().Where("loan_id = ?", l.LoanID).First(&row).Error; err != nil {
		t.Fatalf("raw read: %v", err)
	}
	if !row.DeletedAt.Valid || row.DeletedBy != "u-book" {
		t.Fatalf("row = deletedAt %v deletedBy %q", row.DeletedAt, row.DeletedBy)
	}
}

func TestLoanListByApplicant(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	mine := makeLoan(id.NewID32(), 1)
	other := makeLoan(id.NewID32(), 2)
	other.ApplicantName = "Jose Cruz"
	for _, l := range []*domain.Loan{mine, other} {
		if err := repo.Create(ctx, l); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.ListByApplicant(ctx, "Maria Santos")
	if err != nil {
		t.Fatalf("ListByApplicant: %v", err)
	}
	if len(got) != 1 || got[0].LoanID != mine.LoanID {
		t.Fatalf("got = %+v", got)
	}
}

func seedSchedule(t *testing.T, db *gorm.DB, loanNumericID uint64, n int) []paymentDomain.Payment {
	t.Helper()
	repo := NewPaymentRepository(db)
	base := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	ps := make([]paymentDomain.Payment, 0, n)
	for i := 1; i <= n; i++ {
		ps = append(ps, paymentDomain.Payment{
			PaymentID:     id.NewID32(),
			LoanID:        loanNumericID,
			PaymentNumber: i,
			DueDate:       base.AddDate(0, i, 0),
			Amount:        1816,
			Principal:     1666,
			Interest:      150,
			Status:        paymentDomain.StatusPending,
		})
	}
	if err := repo.CreateBatch(context.Background(), ps); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	return ps
}
