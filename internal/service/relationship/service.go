// Package relationship implements the like/block/fake/view state machine,
// the fame counter it maintains and the notification events it emits.
package relationship

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/matcha/internal/db"
	svcErr "github.com/oggyb/matcha/internal/errors"
	"github.com/oggyb/matcha/internal/fame"
	"github.com/oggyb/matcha/internal/metrics"
)

// Locker serializes work on an unordered user pair across processes.
type Locker interface {
	LockPair(ctx context.Context, a, b uint64) (release func(), err error)
}

// LikeResult describes the outcome of SetLike.
type LikeResult struct {
	// Changed is false when the edge was already in the requested state.
	Changed bool
	// Connected is true when both like edges exist after the call.
	Connected bool
}

type Service struct {
	store  Store
	locker Locker
	log    *slog.Logger
}

// NewService builds the service. A nil locker disables pair locking, leaving
// only the per-toggle transaction.
func NewService(store Store, locker Locker, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, locker: locker, log: log}
}

// NewGormService wires a Service to the gorm repositories.
func NewGormService(database *gorm.DB, locker Locker, log *slog.Logger) *Service {
	return NewService(NewGormStore(database), locker, log)
}

// emitted collects the events a toggle wrote so they are counted only after commit.
type emitted []db.EventType

func (e *emitted) emit(ctx context.Context, tx Tx, recipient, actor uint64, typ db.EventType) error {
	if _, err := tx.Emit(ctx, recipient, actor, typ); err != nil {
		return err
	}
	*e = append(*e, typ)
	return nil
}

func (e emitted) observe() {
	for _, typ := range e {
		metrics.EventsEmitted.WithLabelValues(string(typ)).Inc()
	}
}

// SetLike turns the like edge actor -> target on or off.
//
// Behavior:
//   - Conflict when actor == target, the target is missing or not activated,
//     or (turning on) either party has no picture.
//   - On: insert edge, target's liked_count + 1, liked_me to target, and
//     connected to both when target already likes actor.
//   - Off: delete edge, liked_count - 1, disconnected to both when target
//     likes actor.
//   - Already in the requested state: no-op, no events.
//   - All writes share one transaction; any failure rolls them all back.
//
// Example:
//
//	res, err := svc.SetLike(ctx, 1, 2, true)
func (s *Service) SetLike(ctx context.Context, actorID, targetID uint64, active bool) (LikeResult, error) {
	if actorID == targetID {
		return LikeResult{}, svcErr.Conflictf("cannot like yourself")
	}

	release, err := s.lock(ctx, actorID, targetID)
	if err != nil {
		return LikeResult{}, err
	}
	defer release()

	var (
		res    LikeResult
		events emitted
	)
	err = s.store.InTx(ctx, func(tx Tx) error {
		if err := requireTarget(ctx, tx, targetID); err != nil {
			return err
		}
		if active {
			if err := requirePictures(ctx, tx, actorID, targetID); err != nil {
				return err
			}
		}

		changed, err := tx.SetLike(ctx, actorID, targetID, active)
		if err != nil {
			return err
		}
		if !changed {
			res.Connected, err = s.mutual(ctx, tx, actorID, targetID, active)
			return err
		}
		res.Changed = true

		delta := int64(-1)
		if active {
			delta = 1
		}
		if err := tx.AdjustLikedCount(ctx, targetID, delta); err != nil {
			return err
		}

		reverse, err := tx.HasLiked(ctx, targetID, actorID)
		if err != nil {
			return err
		}

		if active {
			if err := events.emit(ctx, tx, targetID, actorID, db.EventLikedMe); err != nil {
				return err
			}
		}
		if !reverse {
			return nil
		}

		typ := db.EventDisconnected
		if active {
			typ = db.EventConnected
			res.Connected = true
		}
		if err := events.emit(ctx, tx, targetID, actorID, typ); err != nil {
			return err
		}
		return events.emit(ctx, tx, actorID, targetID, typ)
	})
	if err != nil {
		return LikeResult{}, err
	}

	if res.Changed {
		metrics.ObserveToggle("like", active)
		events.observe()
		switch {
		case res.Connected:
			metrics.Matches.WithLabelValues("connected").Inc()
		case !active && len(events) > 0:
			metrics.Matches.WithLabelValues("disconnected").Inc()
		}
		s.log.Info("like toggled", "actor", actorID, "target", targetID, "active", active, "connected", res.Connected)
	}
	return res, nil
}

// mutual reports whether both edges exist given that actor's edge is in state active.
func (s *Service) mutual(ctx context.Context, tx Tx, actorID, targetID uint64, active bool) (bool, error) {
	if !active {
		return false, nil
	}
	return tx.HasLiked(ctx, targetID, actorID)
}

// SetBlock toggles the block edge actor -> target. Idempotent, no counters
// and no events. Returns whether the edge changed.
func (s *Service) SetBlock(ctx context.Context, actorID, targetID uint64, active bool) (bool, error) {
	if actorID == targetID {
		return false, svcErr.Conflictf("cannot block yourself")
	}
	return s.toggle(ctx, "block", actorID, targetID, active, func(tx Tx) (bool, error) {
		return tx.SetBlock(ctx, actorID, targetID, active)
	})
}

// SetFake toggles a fake-profile report. Idempotent, no counters and no events.
func (s *Service) SetFake(ctx context.Context, actorID, targetID uint64, active bool) (bool, error) {
	if actorID == targetID {
		return false, svcErr.Conflictf("cannot report yourself")
	}
	return s.toggle(ctx, "fake", actorID, targetID, active, func(tx Tx) (bool, error) {
		return tx.SetFake(ctx, actorID, targetID, active)
	})
}

func (s *Service) toggle(ctx context.Context, relation string, actorID, targetID uint64, active bool, apply func(tx Tx) (bool, error)) (bool, error) {
	release, err := s.lock(ctx, actorID, targetID)
	if err != nil {
		return false, err
	}
	defer release()

	var changed bool
	err = s.store.InTx(ctx, func(tx Tx) error {
		if err := requireTarget(ctx, tx, targetID); err != nil {
			return err
		}
		var err error
		changed, err = apply(tx)
		return err
	})
	if err != nil {
		return false, err
	}

	if changed {
		metrics.ObserveToggle(relation, active)
		s.log.Info(relation+" toggled", "actor", actorID, "target", targetID, "active", active)
	}
	return changed, nil
}

// View records that viewer opened target's profile and reports whether it
// was the first view. The first view emits viewed_me; repeats only refresh
// the timestamp. Self-views are ignored.
func (s *Service) View(ctx context.Context, viewerID, targetID uint64) (bool, error) {
	if viewerID == targetID {
		return false, nil
	}

	release, err := s.lock(ctx, viewerID, targetID)
	if err != nil {
		return false, err
	}
	defer release()

	var (
		first  bool
		events emitted
	)
	err = s.store.InTx(ctx, func(tx Tx) error {
		if err := requireTarget(ctx, tx, targetID); err != nil {
			return err
		}
		var err error
		if first, err = tx.RecordView(ctx, viewerID, targetID); err != nil || !first {
			return err
		}
		return events.emit(ctx, tx, targetID, viewerID, db.EventViewedMe)
	})
	if err != nil {
		return false, err
	}

	if first {
		metrics.ObserveToggle("view", true)
		events.observe()
	}
	return first, nil
}

// NotifyMessage emits new_message to recipient for a chat message from
// sender. Only connected users can message each other. While an undelivered
// new_message from sender is pending it is refreshed instead of duplicated;
// deduped reports that case.
func (s *Service) NotifyMessage(ctx context.Context, senderID, recipientID uint64) (deduped bool, err error) {
	if senderID == recipientID {
		return false, svcErr.Conflictf("cannot message yourself")
	}

	release, err := s.lock(ctx, senderID, recipientID)
	if err != nil {
		return false, err
	}
	defer release()

	err = s.store.InTx(ctx, func(tx Tx) error {
		if err := requireTarget(ctx, tx, recipientID); err != nil {
			return err
		}
		out, err := tx.HasLiked(ctx, senderID, recipientID)
		if err != nil {
			return err
		}
		in, err := tx.HasLiked(ctx, recipientID, senderID)
		if err != nil {
			return err
		}
		if !out || !in {
			return svcErr.Conflictf("users %d and %d are not connected", senderID, recipientID)
		}
		deduped, err = tx.Emit(ctx, recipientID, senderID, db.EventNewMessage)
		return err
	})
	if err != nil {
		return false, err
	}

	metrics.EventsEmitted.WithLabelValues(string(db.EventNewMessage)).Inc()
	return deduped, nil
}

// PollEvents returns the user's undelivered events, oldest first, and marks
// them delivered in the same transaction.
func (s *Service) PollEvents(ctx context.Context, userID uint64) ([]db.Event, error) {
	var events []db.Event
	err := s.store.InTx(ctx, func(tx Tx) error {
		var err error
		if events, err = tx.Undelivered(ctx, userID); err != nil || len(events) == 0 {
			return err
		}
		ids := make([]uint64, len(events))
		for i := range events {
			ids[i] = events[i].ID
			events[i].Status = db.EventStatusDelivered
		}
		return tx.MarkDelivered(ctx, ids)
	})
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []db.Event{}
	}
	return events, nil
}

// Likers lists everyone currently liking userID, newest first.
func (s *Service) Likers(ctx context.Context, userID uint64) ([]db.LikedHistory, error) {
	if err := requireUser(ctx, s.store, userID); err != nil {
		return nil, err
	}
	return s.store.LikersOf(ctx, userID)
}

// Fame returns the user's star rating against the current population.
func (s *Service) Fame(ctx context.Context, userID uint64) (fame.Rating, error) {
	if err := requireUser(ctx, s.store, userID); err != nil {
		return fame.Rating{}, err
	}
	liked, err := s.store.LikedCount(ctx, userID)
	if err != nil {
		return fame.Rating{}, err
	}
	total, err := s.store.CountFameRatings(ctx)
	if err != nil {
		return fame.Rating{}, err
	}
	return fame.NewRating(total, liked), nil
}

func (s *Service) lock(ctx context.Context, a, b uint64) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	return s.locker.LockPair(ctx, a, b)
}

// requireTarget fails with a conflict unless the user exists and is activated.
func requireTarget(ctx context.Context, tx Tx, id uint64) error {
	u, err := tx.GetUserByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.Conflictf("user %d does not exist", id)
	}
	if err != nil {
		return err
	}
	if u.Status != db.StatusActivated {
		return svcErr.Conflictf("user %d is not activated", id)
	}
	return nil
}

func requirePictures(ctx context.Context, tx Tx, ids ...uint64) error {
	for _, id := range ids {
		ok, err := tx.HasProfilePicture(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return svcErr.Conflictf("user %d has no profile picture", id)
		}
	}
	return nil
}

func requireUser(ctx context.Context, tx Tx, id uint64) error {
	_, err := tx.GetUserByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.NotFoundf("user %d not found", id)
	}
	return err
}
