package jobs

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Spok95/school-gradebook/internal/ctxutil"
	"github.com/Spok95/school-gradebook/internal/db"
	"github.com/Spok95/school-gradebook/internal/observability"
)

// RecalcResult — итог прогона пересчёта.
// Updated считает только реально переписанные записи: повторный прогон
// без промежуточных правок даёт Updated == 0 (идемпотентность).
type RecalcResult struct {
	Total   int
	Updated int
	Failed  int
}

func (r RecalcResult) String() string {
	return fmt.Sprintf("total=%d updated=%d failed=%d", r.Total, r.Updated, r.Failed)
}

// RecalculateAll прогоняет пересчёт итога по всем записям журнала.
// Нужен после изменения формулы или правок в БД мимо обычного пути мутаций.
// Ошибка одной записи не прерывает прогон: логируем, считаем, идём дальше.
func RecalculateAll(ctx context.Context, database *sql.DB, log *zap.SugaredLogger) (RecalcResult, error) {
	if op, ok := ctxutil.Op(ctx); ok {
		log = log.With("op", op)
	}

	ids, err := db.ListRecordIDs(ctx, database)
	if err != nil {
		return RecalcResult{}, fmt.Errorf("list records: %w", err)
	}

	res := RecalcResult{Total: len(ids)}
	for _, id := range ids {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		changed, err := recalcOne(ctx, database, id)
		if err != nil {
			res.Failed++
			observability.CaptureErr(err)
			log.Errorw("recalc record failed", "record_id", id, "err", err)
			continue
		}
		if changed {
			res.Updated++
			log.Infow("recalc record updated", "record_id", id)
		}
	}

	recalcUpdated.Set(float64(res.Updated))
	recalcFailed.Set(float64(res.Failed))
	log.Infow("recalculation finished", "total", res.Total, "updated", res.Updated, "failed", res.Failed)
	return res, nil
}

func recalcOne(ctx context.Context, database *sql.DB, recordID int64) (bool, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	return db.RecalculateRecord(ctx, database, recordID)
}
