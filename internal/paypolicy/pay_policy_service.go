package paypolicy

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	paypolicyerrors "go-gaji/internal/paypolicy/errors"
	"go-gaji/internal/shared/apperror"
	"go-gaji/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const ActivePolicyKey = "paypolicy:active"

//go:generate mockgen -source=pay_policy_service.go -destination=mock/pay_policy_service_mock.go -package=mock
type Service interface {
	CreateVersion(ctx context.Context, req CreatePolicyVersionRequest) (PolicyVersionResponse, error)
	Activate(ctx context.Context, versionID string) (PolicyVersionResponse, error)
	GetActive(ctx context.Context) (PolicyVersionResponse, error)
	ListHistory(ctx context.Context, page, pageSize int) ([]PolicyVersionResponse, int64, error)
	// ActiveSnapshot mengembalikan salinan by-value versi aktif untuk satu
	// batch run; aktivasi versi baru di tengah run tidak mengubah snapshot.
	ActiveSnapshot(ctx context.Context) (PayPolicyVersion, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("paypolicy.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("paypolicy.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

// monetaryFields memasangkan nama field json dengan nilainya agar validasi
// bisa melaporkan SEMUA pelanggaran sekaligus.
func monetaryFields(req CreatePolicyVersionRequest) []struct {
	Name  string
	Value int64
} {
	return []struct {
		Name  string
		Value int64
	}{
		{"premi_produksi", req.PremiProduksi},
		{"premi_staff", req.PremiStaff},
		{"uang_makan_produksi_weekday", req.UangMakanProduksiWeekday},
		{"uang_makan_produksi_weekend_short", req.UangMakanProduksiWeekendShort},
		{"uang_makan_produksi_weekend_long", req.UangMakanProduksiWeekendLong},
		{"uang_makan_staff_weekday", req.UangMakanStaffWeekday},
		{"uang_makan_staff_weekend_short", req.UangMakanStaffWeekendShort},
		{"uang_makan_staff_weekend_long", req.UangMakanStaffWeekendLong},
		{"lembur_produksi_per_jam", req.LemburProduksiPerJam},
		{"lembur_staff_per_jam", req.LemburStaffPerJam},
	}
}

func (s *service) CreateVersion(ctx context.Context, req CreatePolicyVersionRequest) (PolicyVersionResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create policy version requested", zap.String("request_id", rid))

	var violations []apperror.FieldError
	var warnings []FieldWarning
	for _, f := range monetaryFields(req) {
		if f.Value < 0 {
			violations = append(violations, apperror.FieldError{
				Field:   f.Name,
				Message: f.Name + " must not be negative",
			})
		} else if f.Value == 0 {
			// Nol sah tapi mencurigakan; dicatat dan dikembalikan ke caller,
			// bukan ditolak.
			warnings = append(warnings, FieldWarning{
				Field:   f.Name,
				Message: f.Name + " bernilai 0",
			})
			s.logger.Warn("policy monetary field is zero",
				zap.String("request_id", rid),
				zap.String("field", f.Name),
			)
		}
	}
	if len(violations) > 0 {
		s.logger.Warn("create policy version validation failed",
			zap.String("request_id", rid),
			zap.Int("violations", len(violations)),
		)
		return PolicyVersionResponse{}, apperror.NewValidation("Input tidak valid", violations)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create policy version begin tx failed", zap.Error(err))
		return PolicyVersionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Nonaktifkan versi lama dan aktifkan versi baru dalam satu transaksi:
	// tidak pernah ada keadaan dengan nol atau dua versi aktif.
	if err := qtx.DeactivateAll(ctx); err != nil {
		s.logger.Error("deactivate previous policy versions failed", zap.Error(err))
		return PolicyVersionResponse{}, err
	}

	v := &PayPolicyVersion{
		ID:                            uuid.New(),
		PremiProduksi:                 req.PremiProduksi,
		PremiStaff:                    req.PremiStaff,
		UangMakanProduksiWeekday:      req.UangMakanProduksiWeekday,
		UangMakanProduksiWeekendShort: req.UangMakanProduksiWeekendShort,
		UangMakanProduksiWeekendLong:  req.UangMakanProduksiWeekendLong,
		UangMakanStaffWeekday:         req.UangMakanStaffWeekday,
		UangMakanStaffWeekendShort:    req.UangMakanStaffWeekendShort,
		UangMakanStaffWeekendLong:     req.UangMakanStaffWeekendLong,
		LemburProduksiPerJam:          req.LemburProduksiPerJam,
		LemburStaffPerJam:             req.LemburStaffPerJam,
		IsActive:                      true,
	}

	if err := qtx.Create(ctx, v); err != nil {
		s.logger.Error("create policy version persist failed", zap.Error(err))
		return PolicyVersionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PolicyVersionResponse{}, err
	}

	s.invalidateActiveCache(ctx)
	s.logger.Info("policy version created and activated",
		zap.String("request_id", rid),
		zap.String("version_id", v.ID.String()),
	)

	resp := mapToResponse(*v)
	resp.Warnings = warnings
	return resp, nil
}

func (s *service) Activate(ctx context.Context, versionID string) (PolicyVersionResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PolicyVersionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	v, err := qtx.FindByID(ctx, versionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PolicyVersionResponse{}, paypolicyerrors.ErrPolicyNotFound
		}
		return PolicyVersionResponse{}, err
	}

	// Idempoten: mengaktifkan versi yang sudah aktif tidak mengubah apa pun.
	if v.IsActive {
		if err := tx.Commit(); err != nil {
			return PolicyVersionResponse{}, err
		}
		return mapToResponse(*v), nil
	}

	if err := qtx.DeactivateAll(ctx); err != nil {
		return PolicyVersionResponse{}, err
	}
	if err := qtx.SetActive(ctx, versionID); err != nil {
		return PolicyVersionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PolicyVersionResponse{}, err
	}

	s.invalidateActiveCache(ctx)
	s.logger.Info("policy version activated", zap.String("version_id", versionID))

	v.IsActive = true
	return mapToResponse(*v), nil
}

func (s *service) GetActive(ctx context.Context) (PolicyVersionResponse, error) {
	v, err := s.ActiveSnapshot(ctx)
	if err != nil {
		return PolicyVersionResponse{}, err
	}
	return mapToResponse(v), nil
}

func (s *service) ActiveSnapshot(ctx context.Context) (PayPolicyVersion, error) {
	// 1. Cek Redis
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, ActivePolicyKey).Result(); err == nil {
			var v PayPolicyVersion
			if json.Unmarshal([]byte(cached), &v) == nil {
				return v, nil
			}
		}
	}

	// 2. Singleflight agar cache miss serentak hanya memukul DB sekali
	res, err, _ := s.sf.Do(ActivePolicyKey, func() (any, error) {
		v, err := s.repo.FindActive(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, paypolicyerrors.ErrNoActivePolicy
			}
			return nil, err
		}

		if s.rdb != nil {
			if payload, marshalErr := json.Marshal(v); marshalErr == nil {
				_ = s.rdb.Set(ctx, ActivePolicyKey, payload, 10*time.Minute).Err()
			}
		}
		return *v, nil
	})
	if err != nil {
		return PayPolicyVersion{}, err
	}

	return res.(PayPolicyVersion), nil
}

func (s *service) ListHistory(ctx context.Context, page, pageSize int) ([]PolicyVersionResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.repo.FindAll(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}

	res := make([]PolicyVersionResponse, len(rows))
	for i, v := range rows {
		res[i] = mapToResponse(v)
	}
	return res, total, nil
}

func (s *service) invalidateActiveCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, ActivePolicyKey).Err(); err != nil {
		s.logger.Error("failed to invalidate active policy cache",
			zap.Error(err),
			zap.String("key", ActivePolicyKey),
		)
	}
}

func mapToResponse(v PayPolicyVersion) PolicyVersionResponse {
	return PolicyVersionResponse{
		ID:                            v.ID.String(),
		PremiProduksi:                 v.PremiProduksi,
		PremiStaff:                    v.PremiStaff,
		UangMakanProduksiWeekday:      v.UangMakanProduksiWeekday,
		UangMakanProduksiWeekendShort: v.UangMakanProduksiWeekendShort,
		UangMakanProduksiWeekendLong:  v.UangMakanProduksiWeekendLong,
		UangMakanStaffWeekday:         v.UangMakanStaffWeekday,
		UangMakanStaffWeekendShort:    v.UangMakanStaffWeekendShort,
		UangMakanStaffWeekendLong:     v.UangMakanStaffWeekendLong,
		LemburProduksiPerJam:          v.LemburProduksiPerJam,
		LemburStaffPerJam:             v.LemburStaffPerJam,
		IsActive:                      v.IsActive,
		CreatedAt:                     v.CreatedAt.Format(time.RFC3339),
	}
}
