package workflow

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Ragib100/LocalFix/models"
	"github.com/Ragib100/LocalFix/utils"

	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// These tests exercise the transactional invariants against a real MySQL:
// the store uses FOR UPDATE, enum columns and status-guarded updates, so an
// in-memory substitute would not prove anything. Point WORKFLOW_TEST_DSN at
// an empty throwaway database to run them, e.g.
//
//	WORKFLOW_TEST_DSN='root:secret@tcp(127.0.0.1:3306)/localfix_test?charset=utf8mb4&parseTime=True&loc=Local'
//
// Without the variable set the suite is skipped.

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("WORKFLOW_TEST_DSN")
	if dsn == "" {
		t.Skip("WORKFLOW_TEST_DSN not set")
	}

	db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("connect test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Issue{},
		&models.Application{},
		&models.Proof{},
		&models.Payment{},
		&models.Withdrawal{},
	); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	for _, table := range []string{"payments", "withdrawals", "proofs", "applications", "issues", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("clean table %s: %v", table, err)
		}
	}
	return db
}

var userSeq uint64

func seedUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	n := atomic.AddUint64(&userSeq, 1)
	u := models.User{
		Name:     fmt.Sprintf("%s %d", role, n),
		Email:    fmt.Sprintf("%s%d-%d@example.com", role, n, time.Now().UnixNano()),
		Password: "x",
		Role:     role,
		Status:   "Active",
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &u
}

func seedIssue(t *testing.T, db *gorm.DB, citizenID uint) *models.Issue {
	t.Helper()
	issue, err := CreateIssue(db, CreateIssueInput{
		CitizenID: citizenID,
		Title:     "Broken street light",
		Category:  "electrical",
		Location:  "Ward 5",
	})
	if err != nil {
		t.Fatalf("seed issue: %v", err)
	}
	return issue
}

func reloadIssue(t *testing.T, db *gorm.DB, id uint) *models.Issue {
	t.Helper()
	var issue models.Issue
	if err := db.First(&issue, id).Error; err != nil {
		t.Fatalf("reload issue: %v", err)
	}
	return &issue
}

// assignTo walks an issue through bid submission and acceptance so later
// tests can start from an assigned issue.
func assignTo(t *testing.T, db *gorm.DB, issue *models.Issue, worker *models.User) *models.Application {
	t.Helper()
	app, err := SubmitApplication(db, SubmitApplicationInput{
		IssueID:       issue.ID,
		WorkerID:      worker.ID,
		EstimatedCost: 50,
		EstimatedDays: 3,
		Proposal:      "Will fix it",
	})
	if err != nil {
		t.Fatalf("submit application: %v", err)
	}
	accepted, err := AcceptApplication(db, issue.ID, app.ID, 1, "go ahead")
	if err != nil {
		t.Fatalf("accept application: %v", err)
	}
	return accepted
}

func TestAcceptApplication_CascadeRejectsRivals(t *testing.T) {
	db := testDB(t)
	citizen := seedUser(t, db, "citizen")
	f1 := seedUser(t, db, "worker")
	f2 := seedUser(t, db, "worker")
	issue := seedIssue(t, db, citizen.ID)

	app1, err := SubmitApplication(db, SubmitApplicationInput{IssueID: issue.ID, WorkerID: f1.ID, EstimatedCost: 50, Proposal: "a"})
	if err != nil {
		t.Fatalf("first bid: %v", err)
	}
	if got := reloadIssue(t, db, issue.ID).Status; got != models.IssueApplied {
		t.Fatalf("after first bid issue is %q, want applied", got)
	}
	if _, err := SubmitApplication(db, SubmitApplicationInput{IssueID: issue.ID, WorkerID: f2.ID, EstimatedCost: 60, Proposal: "b"}); err != nil {
		t.Fatalf("second bid: %v", err)
	}

	if _, err := AcceptApplication(db, issue.ID, app1.ID, 1, "cheapest"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	got := reloadIssue(t, db, issue.ID)
	if got.Status != models.IssueAssigned {
		t.Fatalf("issue status %q, want assigned", got.Status)
	}
	if got.AssignedWorkerID == nil || *got.AssignedWorkerID != f1.ID {
		t.Fatalf("assigned worker %v, want %d", got.AssignedWorkerID, f1.ID)
	}

	var accepted, rejected int64
	db.Model(&models.Application{}).Where("issue_id = ? AND status = ?", issue.ID, models.ApplicationAccepted).Count(&accepted)
	db.Model(&models.Application{}).Where("issue_id = ? AND status = ?", issue.ID, models.ApplicationRejected).Count(&rejected)
	if accepted != 1 || rejected != 1 {
		t.Fatalf("accepted=%d rejected=%d, want 1 and 1", accepted, rejected)
	}

	var rival models.Application
	if err := db.Where("issue_id = ? AND worker_id = ?", issue.ID, f2.ID).First(&rival).Error; err != nil {
		t.Fatalf("load rival: %v", err)
	}
	if rival.Feedback == nil || *rival.Feedback != rivalFeedback {
		t.Fatalf("rival feedback %v, want %q", rival.Feedback, rivalFeedback)
	}

	// a second accept must not re-apply
	if _, err := AcceptApplication(db, issue.ID, app1.ID, 1, "again"); !errors.Is(err, ErrAlreadyAssigned) {
		t.Fatalf("second accept: got %v, want ErrAlreadyAssigned", err)
	}
}

func TestSubmitApplication_DuplicateBid(t *testing.T) {
	db := testDB(t)
	citizen := seedUser(t, db, "citizen")
	worker := seedUser(t, db, "worker")
	issue := seedIssue(t, db, citizen.ID)

	in := SubmitApplicationInput{IssueID: issue.ID, WorkerID: worker.ID, EstimatedCost: 50, Proposal: "a"}
	if _, err := SubmitApplication(db, in); err != nil {
		t.Fatalf("first bid: %v", err)
	}
	if _, err := SubmitApplication(db, in); !errors.Is(err, ErrDuplicateBid) {
		t.Fatalf("duplicate bid: got %v, want ErrDuplicateBid", err)
	}
}

func TestProofRejectionAndResubmission(t *testing.T) {
	db := testDB(t)
	citizen := seedUser(t, db, "citizen")
	worker := seedUser(t, db, "worker")
	issue := seedIssue(t, db, citizen.ID)
	assignTo(t, db, issue, worker)

	// evidence straight from assigned, no explicit work-start
	proof, err := SubmitProof(db, SubmitProofInput{IssueID: issue.ID, WorkerID: worker.ID, PhotoURL: "photos/1.jpg"})
	if err != nil {
		t.Fatalf("submit proof: %v", err)
	}
	if got := reloadIssue(t, db, issue.ID).Status; got != models.IssueUnderReview {
		t.Fatalf("issue status %q, want under_review", got)
	}

	if _, err := RejectProof(db, proof.ID, 1, "photo is too dark"); err != nil {
		t.Fatalf("reject proof: %v", err)
	}
	if got := reloadIssue(t, db, issue.ID).Status; got != models.IssueInProgress {
		t.Fatalf("after rejection issue is %q, want in_progress", got)
	}

	// resubmission reuses the single row
	again, err := SubmitProof(db, SubmitProofInput{IssueID: issue.ID, WorkerID: worker.ID, PhotoURL: "photos/2.jpg", Description: "retaken"})
	if err != nil {
		t.Fatalf("resubmit proof: %v", err)
	}
	if again.ID != proof.ID {
		t.Fatalf("resubmission created row %d, want reuse of %d", again.ID, proof.ID)
	}
	if again.Status != models.ProofPending || again.ReviewedBy != nil || again.Feedback != nil {
		t.Fatalf("resubmitted proof not reset: %+v", again)
	}
	if got := reloadIssue(t, db, issue.ID).Status; got != models.IssueUnderReview {
		t.Fatalf("after resubmission issue is %q, want under_review", got)
	}

	var count int64
	db.Model(&models.Proof{}).Where("issue_id = ?", issue.ID).Count(&count)
	if count != 1 {
		t.Fatalf("%d proof rows for issue, want 1", count)
	}

	// while pending, another submission is refused
	if _, err := SubmitProof(db, SubmitProofInput{IssueID: issue.ID, WorkerID: worker.ID, PhotoURL: "photos/3.jpg"}); !IsConflict(err) {
		t.Fatalf("submit over pending proof: got %v, want conflict", err)
	}
}

func TestPaymentAndWithdrawalLedger(t *testing.T) {
	db := testDB(t)
	citizen := seedUser(t, db, "citizen")
	worker := seedUser(t, db, "worker")
	issue := seedIssue(t, db, citizen.ID)
	assignTo(t, db, issue, worker)

	proof, err := SubmitProof(db, SubmitProofInput{IssueID: issue.ID, WorkerID: worker.ID, PhotoURL: "photos/1.jpg"})
	if err != nil {
		t.Fatalf("submit proof: %v", err)
	}
	if _, err := ApproveProof(db, proof.ID, 1, "good"); err != nil {
		t.Fatalf("approve proof: %v", err)
	}
	if got := reloadIssue(t, db, issue.ID).Status; got != models.IssueResolved {
		t.Fatalf("issue status %q, want resolved", got)
	}

	// approving twice is not re-applied
	if _, err := ApproveProof(db, proof.ID, 1, "again"); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("second approve: got %v, want ErrAlreadyProcessed", err)
	}

	payment, err := RecordPayment(db, RecordPaymentInput{IssueID: issue.ID, AdminID: 1, Amount: 50, Method: "bkash"})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if payment.Status != models.PaymentCompleted || !strings.HasPrefix(payment.TransactionID, "PAY-") {
		t.Fatalf("unexpected payment row: %+v", payment)
	}
	if got := reloadIssue(t, db, issue.ID).Status; got != models.IssueClosed {
		t.Fatalf("issue status %q, want closed", got)
	}
	if _, err := RecordPayment(db, RecordPaymentInput{IssueID: issue.ID, AdminID: 1, Amount: 50, Method: "bkash"}); !IsConflict(err) {
		t.Fatalf("second payment: got %v, want conflict", err)
	}

	balance, err := ComputeBalance(db, worker.ID)
	if err != nil || balance != 50 {
		t.Fatalf("balance %v (err %v), want 50", balance, err)
	}

	wd, err := RequestWithdrawal(db, RequestWithdrawalInput{WorkerID: worker.ID, Amount: 50, Method: "bkash", AccountNumber: "01712345678"})
	if err != nil {
		t.Fatalf("withdrawal: %v", err)
	}
	if wd.Status != models.WithdrawalProcessing {
		t.Fatalf("withdrawal status %q, want processing", wd.Status)
	}
	if balance, _ = ComputeBalance(db, worker.ID); balance != 0 {
		t.Fatalf("balance after withdrawal %v, want 0 (processing counts)", balance)
	}
	if _, err := RequestWithdrawal(db, RequestWithdrawalInput{WorkerID: worker.ID, Amount: 1, Method: "bkash", AccountNumber: "01712345678"}); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("overdraw: got %v, want ErrInsufficientBalance", err)
	}

	if _, err := ProcessWithdrawal(db, wd.ID, 1, true, ""); err != nil {
		t.Fatalf("process withdrawal: %v", err)
	}
	if _, err := ProcessWithdrawal(db, wd.ID, 1, true, ""); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("second process: got %v, want ErrAlreadyProcessed", err)
	}
	if balance, _ = ComputeBalance(db, worker.ID); balance != 0 {
		t.Fatalf("balance after settlement %v, want 0", balance)
	}
}

func TestFailedWithdrawalReturnsAmount(t *testing.T) {
	db := testDB(t)
	worker := seedUser(t, db, "worker")
	seedCompletedPayment(t, db, worker.ID, 80)

	wd, err := RequestWithdrawal(db, RequestWithdrawalInput{WorkerID: worker.ID, Amount: 30, Method: "nagad", AccountNumber: "01812345678"})
	if err != nil {
		t.Fatalf("withdrawal: %v", err)
	}
	if balance, _ := ComputeBalance(db, worker.ID); balance != 50 {
		t.Fatalf("balance %v, want 50", balance)
	}

	if _, err := ProcessWithdrawal(db, wd.ID, 1, false, "account number invalid"); err != nil {
		t.Fatalf("fail withdrawal: %v", err)
	}
	if balance, _ := ComputeBalance(db, worker.ID); balance != 80 {
		t.Fatalf("balance after failed withdrawal %v, want 80", balance)
	}
}

func TestDeleteApplication_ReopensWhenLastActiveGone(t *testing.T) {
	db := testDB(t)
	citizen := seedUser(t, db, "citizen")
	f1 := seedUser(t, db, "worker")
	f2 := seedUser(t, db, "worker")
	issue := seedIssue(t, db, citizen.ID)

	app1, err := SubmitApplication(db, SubmitApplicationInput{IssueID: issue.ID, WorkerID: f1.ID, EstimatedCost: 50, Proposal: "a"})
	if err != nil {
		t.Fatalf("first bid: %v", err)
	}
	app2, err := SubmitApplication(db, SubmitApplicationInput{IssueID: issue.ID, WorkerID: f2.ID, EstimatedCost: 60, Proposal: "b"})
	if err != nil {
		t.Fatalf("second bid: %v", err)
	}

	// only rejected bids can be withdrawn
	if err := DeleteApplication(db, issue.ID, f2.ID); !errors.Is(err, ErrNotRejected) {
		t.Fatalf("delete submitted bid: got %v, want ErrNotRejected", err)
	}

	if _, err := RejectApplication(db, issue.ID, app2.ID, 1, "too expensive"); err != nil {
		t.Fatalf("reject second bid: %v", err)
	}
	if err := DeleteApplication(db, issue.ID, f2.ID); err != nil {
		t.Fatalf("delete second bid: %v", err)
	}
	// another active bid remains, status unchanged
	if got := reloadIssue(t, db, issue.ID).Status; got != models.IssueApplied {
		t.Fatalf("issue status %q, want applied", got)
	}

	if _, err := RejectApplication(db, issue.ID, app1.ID, 1, "too slow"); err != nil {
		t.Fatalf("reject first bid: %v", err)
	}
	if err := DeleteApplication(db, issue.ID, f1.ID); err != nil {
		t.Fatalf("delete first bid: %v", err)
	}
	// last active bid gone, bidding reopens
	if got := reloadIssue(t, db, issue.ID).Status; got != models.IssueSubmitted {
		t.Fatalf("issue status %q, want submitted", got)
	}
}

func TestConcurrentWithdrawalsCannotOverdraw(t *testing.T) {
	db := testDB(t)
	worker := seedUser(t, db, "worker")
	seedCompletedPayment(t, db, worker.ID, 50)

	amounts := []float64{40, 30}
	errs := make([]error, len(amounts))
	var wg sync.WaitGroup
	for i, amount := range amounts {
		wg.Add(1)
		go func(i int, amount float64) {
			defer wg.Done()
			_, errs[i] = RequestWithdrawal(db, RequestWithdrawalInput{
				WorkerID:      worker.ID,
				Amount:        amount,
				Method:        "bkash",
				AccountNumber: "01712345678",
			})
		}(i, amount)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrInsufficientBalance):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || insufficient != 1 {
		t.Fatalf("ok=%d insufficient=%d, want exactly one of each", ok, insufficient)
	}

	balance, err := ComputeBalance(db, worker.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance < 0 {
		t.Fatalf("balance went negative: %v", balance)
	}
}

func TestConcurrentProofSubmissions_OneRow(t *testing.T) {
	db := testDB(t)
	citizen := seedUser(t, db, "citizen")
	worker := seedUser(t, db, "worker")
	issue := seedIssue(t, db, citizen.ID)
	assignTo(t, db, issue, worker)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = SubmitProof(db, SubmitProofInput{
				IssueID:  issue.ID,
				WorkerID: worker.ID,
				PhotoURL: fmt.Sprintf("photos/%d.jpg", i),
			})
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
		} else if !IsConflict(err) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("%d submissions succeeded, want exactly 1", ok)
	}

	var count int64
	db.Model(&models.Proof{}).Where("issue_id = ?", issue.ID).Count(&count)
	if count != 1 {
		t.Fatalf("%d proof rows, want 1", count)
	}
	if got := reloadIssue(t, db, issue.ID).Status; got != models.IssueUnderReview {
		t.Fatalf("issue status %q, want under_review", got)
	}
}

// seedCompletedPayment credits a worker without walking the whole lifecycle.
func seedCompletedPayment(t *testing.T, db *gorm.DB, workerID uint, amount float64) {
	t.Helper()
	citizen := seedUser(t, db, "citizen")
	issue := models.Issue{
		CitizenID: citizen.ID,
		Title:     "Seed",
		Category:  "misc",
		Location:  "Ward 1",
		Priority:  models.PriorityMedium,
		Status:    models.IssueClosed,
	}
	if err := db.Create(&issue).Error; err != nil {
		t.Fatalf("seed issue: %v", err)
	}
	payment := models.Payment{
		IssueID:       issue.ID,
		CitizenID:     citizen.ID,
		WorkerID:      workerID,
		Amount:        amount,
		Method:        "bkash",
		Status:        models.PaymentCompleted,
		TransactionID: utils.GenerateTransactionID("PAY"),
		PaidAt:        time.Now(),
	}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}
}
