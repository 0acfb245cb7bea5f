package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/HAL94/fast-movie-reserve/internal/config"
	"github.com/HAL94/fast-movie-reserve/internal/domain/reservation"
	"github.com/HAL94/fast-movie-reserve/internal/domain/seat"
	"github.com/HAL94/fast-movie-reserve/internal/domain/showtime"
	"github.com/HAL94/fast-movie-reserve/internal/domain/task"
	"github.com/HAL94/fast-movie-reserve/internal/domain/transaction"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/logger"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/metrics"
	"github.com/HAL94/fast-movie-reserve/internal/pkg/pagination"
)

// 期限切れチェックの結果
const (
	ExpiryOutcomeExpired  = "expired"
	ExpiryOutcomeResolved = "resolved"
	ExpiryOutcomeNotFound = "not_found"
	ExpiryOutcomeError    = "error"
)

// ReservationService は予約の状態遷移を担う
//
// 状態の検証と書き込みは同じトランザクション内で行い、
// タスクインデックスと遅延タスクの操作はコミット後のベストエフォートとする。
type ReservationService struct {
	txManager       transaction.Manager
	reservationRepo reservation.Repository
	showtimeRepo    showtime.Repository
	seatRepo        seat.Repository
	scheduler       task.Scheduler
	taskIndex       reservation.TaskIndex
	cfg             config.ReservationConfig
	now             func() time.Time
}

func NewReservationService(
	txm transaction.Manager,
	rr reservation.Repository,
	str showtime.Repository,
	sr seat.Repository,
	scheduler task.Scheduler,
	taskIndex reservation.TaskIndex,
	cfg config.ReservationConfig,
) *ReservationService {
	return &ReservationService{
		txManager:       txm,
		reservationRepo: rr,
		showtimeRepo:    str,
		seatRepo:        sr,
		scheduler:       scheduler,
		taskIndex:       taskIndex,
		cfg:             cfg,
		now:             time.Now,
	}
}

type HoldSeatInput struct {
	ShowtimeID string
	SeatID     string
	UserID     string
	ReservedAt time.Time
}

// CreateHeld は座席を仮押さえし、期限切れチェックを登録する
func (s *ReservationService) CreateHeld(ctx context.Context, input HoldSeatInput) (*reservation.Detail, error) {
	res, err := s.createHeld(ctx, input)
	metrics.RecordTransition("hold", transitionResult(err))
	if err != nil {
		return nil, err
	}

	s.scheduleExpiryCheck(ctx, res)

	detail, err := s.reservationRepo.GetDetail(ctx, res.ID)
	if err != nil {
		logger.Warn("仮押さえ後の予約詳細取得に失敗", zap.String("reservation_id", res.ID), zap.Error(err))
		return &reservation.Detail{Reservation: *res}, nil
	}
	return detail, nil
}

func (s *ReservationService) createHeld(ctx context.Context, input HoldSeatInput) (*reservation.Reservation, error) {
	st, err := s.showtimeRepo.GetByID(ctx, input.ShowtimeID)
	if err != nil {
		return nil, err
	}
	// 前日以前の上映は存在しないものとして扱う
	if !st.IsBookable(s.now()) {
		return nil, showtime.ErrShowtimeNotFound
	}

	se, err := s.seatRepo.GetByID(ctx, input.SeatID)
	if err != nil {
		return nil, err
	}
	if !se.BelongsTo(st.TheatreID) {
		return nil, seat.ErrSeatNotFound
	}

	res := reservation.NewHeld(st.ID, se.ID, input.UserID, st.BaseTicketCost, input.ReservedAt)
	if err := res.Validate(); err != nil {
		return nil, err
	}

	err = transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		return s.reservationRepo.Create(ctx, tx, res)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("座席を仮押さえしました",
		zap.String("reservation_id", res.ID),
		zap.String("showtime_id", res.ShowtimeID),
		zap.String("seat_id", res.SeatID),
	)
	return res, nil
}

// scheduleExpiryCheck は失敗しても仮押さえ自体は成功として扱う
func (s *ReservationService) scheduleExpiryCheck(ctx context.Context, res *reservation.Reservation) {
	if s.scheduler == nil {
		return
	}
	runAt := s.now().Add(s.cfg.HoldExpiry)
	taskID, err := s.scheduler.Schedule(ctx, task.NameCheckIfConfirmed, task.CheckIfConfirmedPayload{ReservationID: res.ID}, runAt)
	if err != nil {
		metrics.RecordTask("schedule_failed")
		logger.Error("期限切れチェックを登録できませんでした",
			zap.String("reservation_id", res.ID),
			zap.Error(errors.Join(reservation.ErrSchedulingFailed, err)),
		)
		return
	}
	metrics.RecordTask("scheduled")

	if s.taskIndex == nil {
		return
	}
	if err := s.taskIndex.Set(ctx, res.ID, taskID, s.cfg.TaskIndexTTL); err != nil {
		logger.Warn("タスクインデックス保存エラー",
			zap.String("reservation_id", res.ID), zap.String("task_id", taskID), zap.Error(err))
	}
}

// ConfirmHeld は決済IDを確認して HELD → CONFIRMED に遷移する
func (s *ReservationService) ConfirmHeld(ctx context.Context, id, userID, paymentID string) (*reservation.Detail, error) {
	detail, err := s.transition(ctx, "confirm", id, func(r *reservation.Reservation) error {
		if err := r.Confirm(userID); err != nil {
			return err
		}
		if paymentID != s.cfg.PaymentSentinel {
			return reservation.ErrPaymentRejected
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.revokeExpiryCheck(ctx, id)
	return detail, nil
}

// MarkNoShow は CONFIRMED → NO_SHOW に遷移する（管理者操作）
func (s *ReservationService) MarkNoShow(ctx context.Context, id string) (*reservation.Detail, error) {
	return s.transition(ctx, "no_show", id, func(r *reservation.Reservation) error {
		return r.MarkNoShow()
	})
}

// Cancel は本人の CONFIRMED 予約を CANCELED に遷移する
func (s *ReservationService) Cancel(ctx context.Context, id, userID string) (*reservation.Detail, error) {
	return s.transition(ctx, "cancel", id, func(r *reservation.Reservation) error {
		return r.Cancel(userID)
	})
}

// transition は行ロックを取った予約に apply を適用し、元の状態を条件に更新する
func (s *ReservationService) transition(ctx context.Context, name, id string, apply func(*reservation.Reservation) error) (*reservation.Detail, error) {
	err := transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		res, err := s.reservationRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		from := res.Status
		if err := apply(res); err != nil {
			return err
		}
		return s.reservationRepo.UpdateStatus(ctx, tx, res, from)
	})
	metrics.RecordTransition(name, transitionResult(err))
	if err != nil {
		return nil, err
	}

	logger.Info("予約の状態を更新しました", zap.String("reservation_id", id), zap.String("transition", name))
	return s.reservationRepo.GetDetail(ctx, id)
}

// revokeExpiryCheck は不要になった期限切れチェックを取り消す
// インデックスが消えていてもチェック側が CONFIRMED を見て何もしない
func (s *ReservationService) revokeExpiryCheck(ctx context.Context, reservationID string) {
	if s.taskIndex == nil || s.scheduler == nil {
		return
	}
	taskID, err := s.taskIndex.Get(ctx, reservationID)
	if errors.Is(err, reservation.ErrTaskIndexMiss) {
		logger.Debug("タスクインデックスなし", zap.String("reservation_id", reservationID))
		return
	}
	if err != nil {
		logger.Warn("タスクインデックス取得エラー", zap.String("reservation_id", reservationID), zap.Error(err))
		return
	}

	canceled, err := s.scheduler.Cancel(ctx, taskID)
	switch {
	case err != nil:
		logger.Warn("期限切れチェックの取り消しに失敗",
			zap.String("reservation_id", reservationID), zap.String("task_id", taskID), zap.Error(err))
	case canceled:
		metrics.RecordTask("canceled")
	default:
		logger.Debug("期限切れチェックは取り消し済みまたは実行中",
			zap.String("reservation_id", reservationID), zap.String("task_id", taskID))
	}

	if err := s.taskIndex.Delete(ctx, reservationID); err != nil {
		logger.Warn("タスクインデックス削除エラー", zap.String("reservation_id", reservationID), zap.Error(err))
	}
}

// RunExpiryCheck は check_if_confirmed の本体
// まだ HELD の予約だけを削除し、削除したかを返す。何度実行しても安全
func (s *ReservationService) RunExpiryCheck(ctx context.Context, reservationID string) (bool, error) {
	outcome := ExpiryOutcomeResolved
	var deleted bool

	err := transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		res, err := s.reservationRepo.GetByIDForUpdate(ctx, tx, reservationID)
		if errors.Is(err, reservation.ErrReservationNotFound) {
			outcome = ExpiryOutcomeNotFound
			return nil
		}
		if err != nil {
			return err
		}
		if !res.IsExpirable() {
			return nil
		}
		deleted, err = s.reservationRepo.DeleteHeld(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		if deleted {
			outcome = ExpiryOutcomeExpired
		}
		return nil
	})
	if err != nil {
		metrics.RecordExpiryCheck(ExpiryOutcomeError)
		return false, fmt.Errorf("期限切れチェックに失敗: %w", err)
	}
	metrics.RecordExpiryCheck(outcome)

	if s.taskIndex != nil {
		if err := s.taskIndex.Delete(ctx, reservationID); err != nil {
			logger.Warn("タスクインデックス削除エラー", zap.String("reservation_id", reservationID), zap.Error(err))
		}
	}

	if deleted {
		logger.Info("期限切れの仮押さえを解放しました", zap.String("reservation_id", reservationID))
	}
	return deleted, nil
}

func (s *ReservationService) GetReservation(ctx context.Context, id string) (*reservation.Detail, error) {
	return s.reservationRepo.GetDetail(ctx, id)
}

// GetReservationForUser は本人の予約のみ返す。他人の予約は存在しないものとして扱う
func (s *ReservationService) GetReservationForUser(ctx context.Context, id, userID string) (*reservation.Detail, error) {
	detail, err := s.reservationRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !detail.IsOwnedBy(userID) {
		return nil, reservation.ErrReservationNotFound
	}
	return detail, nil
}

func (s *ReservationService) ListForUser(ctx context.Context, userID string, q pagination.Query) (*pagination.Page[*reservation.Detail], error) {
	items, total, err := s.reservationRepo.ListByUser(ctx, userID, q)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(q, items, total), nil
}

func (s *ReservationService) ListAll(ctx context.Context, q pagination.Query) (*pagination.Page[*reservation.Detail], error) {
	items, total, err := s.reservationRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(q, items, total), nil
}

// transitionResult はメトリクスのラベルに変換する
func transitionResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, reservation.ErrSeatAlreadyReserved):
		return "conflict"
	case errors.Is(err, reservation.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, reservation.ErrPaymentRejected):
		return "payment_rejected"
	case errors.Is(err, reservation.ErrReservationNotFound),
		errors.Is(err, showtime.ErrShowtimeNotFound),
		errors.Is(err, seat.ErrSeatNotFound):
		return "not_found"
	default:
		return "error"
	}
}
