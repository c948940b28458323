package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	})

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		sqlDB.Close()
		t.Fatalf("failed to open gorm DB with sqlmock: %v", err)
	}

	return gdb, mock
}

func TestUserRepositoryFindByID(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &UserRepository{db: mockDB}

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "email", "buying_power"}).
			AddRow(1, "trader@example.com", 1000.0)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
			WithArgs(1, 1).
			WillReturnRows(rows)

		user, err := repo.FindByID(context.Background(), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user == nil || user.Email != "trader@example.com" {
			t.Fatalf("unexpected user: %+v", user)
		}
	})

	t.Run("not found returns nil nil", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		user, err := repo.FindByID(context.Background(), 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user != nil {
			t.Fatalf("expected nil user, got %+v", user)
		}
	})
}

func TestUserRepositoryReserveBuyingPower(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &UserRepository{db: mockDB}

	t.Run("sufficient balance debits one row", func(t *testing.T) {
		mock.ExpectBegin()
		// The conditional SET (buying_power - ?) plus the gorm-managed
		// updated_at column; argument order is stable, column order is not,
		// so the expectation stays loose on args.
		mock.ExpectExec(`UPDATE "users" SET .* WHERE id = .* AND buying_power >= `).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		reserved, err := repo.ReserveBuyingPower(context.Background(), 1, 500)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reserved {
			t.Fatal("expected reservation to succeed")
		}
	})

	t.Run("insufficient balance affects no rows", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "users" SET .* WHERE id = .* AND buying_power >= `).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		reserved, err := repo.ReserveBuyingPower(context.Background(), 1, 500000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reserved {
			t.Fatal("expected reservation to fail")
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepositoryReleaseBuyingPower(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &UserRepository{db: mockDB}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET .* WHERE id = `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.ReleaseBuyingPower(context.Background(), 1, 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepositoryAdjustAccountBalance(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &UserRepository{db: mockDB}

	t.Run("debit is conditional on balance", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "users" SET .* WHERE id = .* AND account_balance >= `).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		ok, err := repo.AdjustAccountBalance(context.Background(), 1, -500)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Fatal("expected debit to be refused")
		}
	})

	t.Run("credit is unconditional", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "users" SET .* WHERE id = `).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		ok, err := repo.AdjustAccountBalance(context.Background(), 1, 500)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatal("expected credit to succeed")
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
