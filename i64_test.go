package tron

import (
	"math/big"
	"testing"
)

func TestSurfaceI64WithinSafeRange(t *testing.T) {
	for _, mode := range []I64Mode{I64Auto, I64Number, I64Bigint} {
		got, err := surfaceI64(mode, safeIntMax)
		if err != nil {
			t.Fatalf("mode %v: %v", mode, err)
		}
		if got != int64(safeIntMax) {
			t.Fatalf("mode %v: got %#v, want %d", mode, got, safeIntMax)
		}
	}
}

func TestSurfaceI64OutsideSafeRange(t *testing.T) {
	v := int64(safeIntMax) + 1

	got, err := surfaceI64(I64Bigint, v)
	if err != nil {
		t.Fatal(err)
	}
	bi, ok := got.(*big.Int)
	if !ok || bi.Int64() != v {
		t.Fatalf("I64Bigint: got %#v", got)
	}

	got, err = surfaceI64(I64Auto, v)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.(*big.Int); !ok {
		t.Fatalf("I64Auto: got %#v, want *big.Int", got)
	}

	_, err = surfaceI64(I64Number, v)
	if err == nil {
		t.Fatal("I64Number: expected range error")
	}
	if kind, ok := ErrorKind(err); !ok || kind != KindRange {
		t.Fatalf("error kind = %v, want range", kind)
	}
}

func TestSurfaceI64NegativeBoundary(t *testing.T) {
	got, err := surfaceI64(I64Number, safeIntMin)
	if err != nil {
		t.Fatal(err)
	}
	if got != int64(safeIntMin) {
		t.Fatalf("got %#v, want %d", got, safeIntMin)
	}
	_, err = surfaceI64(I64Number, safeIntMin-1)
	if err == nil {
		t.Fatal("expected range error just below safeIntMin")
	}
}
