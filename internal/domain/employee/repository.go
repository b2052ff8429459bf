package employee

import (
	"context"
	"time"

	"sisnompeg_admin/internal/domain/calendar"
)

// Edits marks which salary-step columns an Update carries. Unmarked columns
// keep their stored value, so a concurrent advancement is not rolled back.
type Edits struct {
	// LastStep writes kgb_terakhir.
	LastStep bool
	// DueDate writes kgb_berikutnya and clears kgb_notified.
	DueDate bool
}

// Repository defines the operations for persisting and retrieving Employee entities.
type Repository interface {
	Create(ctx context.Context, e *Employee) error
	GetByNIP(ctx context.Context, nip string) (*Employee, error)
	ListAll(ctx context.Context) ([]*Employee, error)
	// Update writes the administrative fields of the record currently keyed by
	// nip (e.NIP may carry a new key). The salary-step columns owned by the
	// advancement pass are only written when edits names them.
	Update(ctx context.Context, nip string, e *Employee, edits Edits) error
	Delete(ctx context.Context, nip string) error
	Count(ctx context.Context) (int, error)

	// LookupNames returns nip -> nama for the nips that exist.
	LookupNames(ctx context.Context, nips []string) (map[string]string, error)
	// CountByGender returns counts keyed by lower-cased jenis_kelamin.
	CountByGender(ctx context.Context) (map[string]int, error)
	// ListWithDueDate returns employees with a due date, soonest first.
	ListWithDueDate(ctx context.Context) ([]*Employee, error)

	// ListDueForAdvancement returns employees with kgb_berikutnya <= today and
	// kgb_notified = false.
	ListDueForAdvancement(ctx context.Context, today calendar.Date) ([]*Employee, error)
	// RearmAdvanced clears kgb_notified on records whose stored due date has
	// arrived by today and that were last advanced before startOfToday.
	// Returns the number of re-armed records.
	RearmAdvanced(ctx context.Context, today calendar.Date, startOfToday time.Time) (int64, error)
	// AdvanceSalaryStep applies adv only if the record still holds adv.OldDue
	// with kgb_notified = false; otherwise it returns database.ErrStaleWrite.
	AdvanceSalaryStep(ctx context.Context, adv Advancement) error
	// RevertSalaryStep undoes adv only if the record still holds adv.NewDue
	// with kgb_notified = true; otherwise it returns database.ErrStaleWrite.
	RevertSalaryStep(ctx context.Context, adv Advancement) error
}
