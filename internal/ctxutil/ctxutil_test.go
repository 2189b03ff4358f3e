package ctxutil

import (
	"context"
	"testing"
	"time"
)

func TestOp_RoundTrip(t *testing.T) {
	ctx := context.Background()
	if _, ok := Op(ctx); ok {
		t.Fatal("в пустом контексте операции быть не должно")
	}

	ctx = WithOp(ctx, "recalc_manual")
	op, ok := Op(ctx)
	if !ok || op != "recalc_manual" {
		t.Fatalf("ожидали recalc_manual, получили %q (ok=%v)", op, ok)
	}
}

func TestWithDBTimeout_UsesDefault(t *testing.T) {
	ctx, cancel := WithDBTimeout(context.Background())
	defer cancel()

	dl, ok := ctx.Deadline()
	if !ok {
		t.Fatal("дедлайн должен быть установлен")
	}
	if remain := time.Until(dl); remain > DefaultDBTimeout {
		t.Fatalf("дедлайн дальше DefaultDBTimeout: %v", remain)
	}
}

func TestWithDBTimeout_KeepsCloserParentDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	ctx, cancel2 := WithDBTimeout(parent)
	defer cancel2()

	dl, ok := ctx.Deadline()
	if !ok {
		t.Fatal("дедлайн должен быть установлен")
	}
	// У родителя дедлайн ближе стандартного таймаута — берём остаток, не продлеваем.
	if time.Until(dl) > 150*time.Millisecond {
		t.Fatalf("дедлайн не должен выходить за родительский: %v", time.Until(dl))
	}
}
