package paypolicy

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	paypolicyerrors "go-gaji/internal/paypolicy/errors"
	"go-gaji/internal/shared/apperror"
)

// fakeRepo menyimpan versi policy di memori agar invariant aktivasi
// eksklusif bisa diuji lintas operasi.
type fakeRepo struct {
	versions map[string]*PayPolicyVersion
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{versions: map[string]*PayPolicyVersion{}}
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, v *PayPolicyVersion) error {
	cp := *v
	f.versions[v.ID.String()] = &cp
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*PayPolicyVersion, error) {
	v, ok := f.versions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeRepo) FindActive(ctx context.Context) (*PayPolicyVersion, error) {
	for _, v := range f.versions {
		if v.IsActive {
			cp := *v
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindAll(ctx context.Context, limit, offset int) ([]PayPolicyVersion, error) {
	out := make([]PayPolicyVersion, 0, len(f.versions))
	for _, v := range f.versions {
		out = append(out, *v)
	}
	return out, nil
}

func (f *fakeRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(f.versions)), nil
}

func (f *fakeRepo) DeactivateAll(ctx context.Context) error {
	for _, v := range f.versions {
		v.IsActive = false
	}
	return nil
}

func (f *fakeRepo) SetActive(ctx context.Context, id string) error {
	v, ok := f.versions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.IsActive = true
	return nil
}

func (f *fakeRepo) activeCount() int {
	n := 0
	for _, v := range f.versions {
		if v.IsActive {
			n++
		}
	}
	return n
}

func validRequest() CreatePolicyVersionRequest {
	return CreatePolicyVersionRequest{
		PremiProduksi:                 20000,
		PremiStaff:                    15000,
		UangMakanProduksiWeekday:      10000,
		UangMakanProduksiWeekendShort: 20000,
		UangMakanProduksiWeekendLong:  35000,
		UangMakanStaffWeekday:         15000,
		UangMakanStaffWeekendShort:    25000,
		UangMakanStaffWeekendLong:     40000,
		LemburProduksiPerJam:          30000,
		LemburStaffPerJam:             25000,
	}
}

func TestService_CreateVersion_ExclusiveActivation(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	svc := NewService(db, repo, nil)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectCommit()
	first, err := svc.CreateVersion(ctx, validRequest())
	assert.NoError(t, err)
	assert.True(t, first.IsActive)
	assert.Equal(t, 1, repo.activeCount())

	mock.ExpectBegin()
	mock.ExpectCommit()
	second, err := svc.CreateVersion(ctx, validRequest())
	assert.NoError(t, err)
	assert.True(t, second.IsActive)
	assert.Equal(t, 1, repo.activeCount())
	assert.False(t, repo.versions[first.ID].IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CreateVersion_ListsEveryViolation(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	svc := NewService(db, repo, nil)

	req := validRequest()
	req.PremiProduksi = -1
	req.UangMakanStaffWeekendLong = -500
	req.LemburStaffPerJam = -30000

	_, err := svc.CreateVersion(context.Background(), req)
	assert.Error(t, err)

	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	fields, ok := appErr.Details.([]apperror.FieldError)
	assert.True(t, ok)
	assert.Len(t, fields, 3)

	// Tidak ada versi yang tersimpan saat validasi gagal
	assert.Empty(t, repo.versions)
}

func TestService_CreateVersion_ZeroValueAccepted(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	svc := NewService(db, repo, nil)

	req := validRequest()
	req.PremiStaff = 0

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.CreateVersion(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), resp.PremiStaff)

	// Field nol dilaporkan balik agar UI bisa minta konfirmasi operator
	assert.Len(t, resp.Warnings, 1)
	assert.Equal(t, "premi_staff", resp.Warnings[0].Field)
}

// newSQLBackedService memakai repository GORM asli di atas sqlmock, bukan
// fake, supaya urutan statement di dalam transaksi ikut teruji.
func newSQLBackedService(t *testing.T) (Service, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	return NewService(db, NewRepository(gormDB), nil), mock, db
}

func TestService_CreateVersion_DeactivateAndInsertShareOneTransaction(t *testing.T) {
	svc, mock, db := newSQLBackedService(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "pay_policy_versions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "pay_policy_versions"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	resp, err := svc.CreateVersion(context.Background(), validRequest())
	assert.NoError(t, err)
	assert.True(t, resp.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CreateVersion_FailedInsertRollsBackDeactivation(t *testing.T) {
	svc, mock, db := newSQLBackedService(t)
	defer db.Close()

	// Deactivate berjalan di transaksi yang sama dengan insert: saat insert
	// gagal, rollback mengembalikan versi lama ke keadaan aktif.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "pay_policy_versions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "pay_policy_versions"`).
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	_, err := svc.CreateVersion(context.Background(), validRequest())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Activate_UpdatesShareOneTransaction(t *testing.T) {
	svc, mock, db := newSQLBackedService(t)
	defer db.Close()

	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "pay_policy_versions" WHERE id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_active"}).AddRow(id.String(), false))
	mock.ExpectExec(`UPDATE "pay_policy_versions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "pay_policy_versions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	resp, err := svc.Activate(context.Background(), id.String())
	assert.NoError(t, err)
	assert.True(t, resp.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_RandomCreateActivate_AlwaysExactlyOneActive(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	svc := NewService(db, repo, nil)
	ctx := context.Background()

	rng := rand.New(rand.NewSource(42))
	var ids []string

	for i := 0; i < 200; i++ {
		switch {
		case len(ids) == 0 || rng.Intn(3) == 0:
			mock.ExpectBegin()
			mock.ExpectCommit()
			resp, err := svc.CreateVersion(ctx, validRequest())
			assert.NoError(t, err)
			ids = append(ids, resp.ID)
		case rng.Intn(5) == 0:
			// Aktivasi id yang tidak ada tidak boleh menyentuh versi aktif
			mock.ExpectBegin()
			mock.ExpectRollback()
			_, err := svc.Activate(ctx, uuid.NewString())
			assert.ErrorIs(t, err, paypolicyerrors.ErrPolicyNotFound)
		default:
			mock.ExpectBegin()
			mock.ExpectCommit()
			_, err := svc.Activate(ctx, ids[rng.Intn(len(ids))])
			assert.NoError(t, err)
		}

		// Tidak pernah nol, tidak pernah dua
		assert.Equal(t, 1, repo.activeCount())
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Activate_Idempotent(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	svc := NewService(db, repo, nil)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectCommit()
	created, err := svc.CreateVersion(ctx, validRequest())
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	once, err := svc.Activate(ctx, created.ID)
	assert.NoError(t, err)
	assert.True(t, once.IsActive)
	assert.Equal(t, 1, repo.activeCount())

	mock.ExpectBegin()
	mock.ExpectCommit()
	twice, err := svc.Activate(ctx, created.ID)
	assert.NoError(t, err)
	assert.True(t, twice.IsActive)
	assert.Equal(t, 1, repo.activeCount())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Activate_ReactivatesOlderVersion(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	svc := NewService(db, repo, nil)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectCommit()
	older, err := svc.CreateVersion(ctx, validRequest())
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	newer, err := svc.CreateVersion(ctx, validRequest())
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Activate(ctx, older.ID)
	assert.NoError(t, err)
	assert.True(t, resp.IsActive)
	assert.Equal(t, 1, repo.activeCount())
	assert.False(t, repo.versions[newer.ID].IsActive)
}

func TestService_Activate_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	svc := NewService(db, repo, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Activate(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, paypolicyerrors.ErrPolicyNotFound)
}

func TestService_GetActive_NoActivePolicy(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	svc := NewService(db, repo, nil)

	_, err := svc.GetActive(context.Background())
	assert.ErrorIs(t, err, paypolicyerrors.ErrNoActivePolicy)
}
