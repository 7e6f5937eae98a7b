package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		wantMsg  string
	}{
		{
			name:     "order too small",
			err:      NewInvalidOrderError("New", 0, 10),
			sentinel: ErrInvalidOrder,
			wantMsg:  "scismooth: New: order must be at least 1, got 0",
		},
		{
			name:     "order too large",
			err:      NewInvalidOrderError("New", 3, 3),
			sentinel: ErrInvalidOrder,
			wantMsg:  "scismooth: New: data must be longer than the order of the smoother. Data length: 3, smoother order: 3",
		},
		{
			name:     "negative lambda",
			err:      NewInvalidLambdaError("UpdateLambda", -1),
			sentinel: ErrInvalidLambda,
			wantMsg:  "scismooth: UpdateLambda: lambda must be a finite non-negative number, got -1",
		},
		{
			name:     "length mismatch",
			err:      NewLengthMismatchError("Smooth", "y", 10, 9),
			sentinel: ErrLengthMismatch,
			wantMsg:  "scismooth: Smooth: length mismatch for y: expected 10, got 9",
		},
		{
			name:     "negative weight",
			err:      NewInvalidWeightError("UpdateWeights", 3, -0.5),
			sentinel: ErrInvalidWeight,
			wantMsg:  "scismooth: UpdateWeights: weights must be non-negative, got -0.5 at index 3",
		},
		{
			name:     "non monotonic",
			err:      NewNonMonotonicInputError("New", 2),
			sentinel: ErrNonMonotonicInput,
			wantMsg:  "scismooth: New: x input must be strictly increasing. Offending index: 2",
		},
		{
			name:     "non finite",
			err:      NewNonFiniteInputError("Smooth", "y", 4, math.NaN()),
			sentinel: ErrNonFiniteInput,
			wantMsg:  "scismooth: Smooth: non-finite value NaN in y at index 4",
		},
		{
			name:     "singular",
			err:      NewSingularSystemError("Factorize", 7, -1e-3, 0),
			sentinel: ErrSingularSystem,
			wantMsg:  "scismooth: Factorize: system is not positive definite (pivot -0.001 at row 7, lambda 0)",
		},
		{
			name:     "sample rate",
			err:      NewSampleRateError("New", 1, 1e-8),
			sentinel: ErrSampleRate,
			wantMsg:  "scismooth: New: x input needs to be spaced a minimum of 1e-06 apart, got 1e-08. Offending index: 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 基本的なエラーメッセージの確認
			if tt.err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", tt.err.Error(), tt.wantMsg)
			}

			// センチネルとの照合
			if !Is(tt.err, tt.sentinel) {
				t.Errorf("Is(%v, %v) = false", tt.err, tt.sentinel)
			}

			// ラップ後も照合できること
			wrapped := Wrap(tt.err, "in SmoothOptimal")
			if !Is(wrapped, tt.sentinel) {
				t.Error("wrapped error lost its kind")
			}

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", tt.err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}
		})
	}
}

func TestErrorKindsDoNotCrossMatch(t *testing.T) {
	err := NewInvalidLambdaError("New", -2)
	if Is(err, ErrInvalidOrder) {
		t.Error("InvalidLambdaError must not match ErrInvalidOrder")
	}

	var lengthErr *LengthMismatchError
	if As(err, &lengthErr) {
		t.Error("InvalidLambdaError must not be castable to *LengthMismatchError")
	}

	var lambdaErr *InvalidLambdaError
	if !As(err, &lambdaErr) {
		t.Fatal("Error should be castable to *InvalidLambdaError")
	}
	if lambdaErr.Lambda != -2 {
		t.Errorf("Lambda = %v, want -2", lambdaErr.Lambda)
	}
}

func TestMarshalZerologObject(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	var singular *SingularSystemError
	if !As(NewSingularSystemError("Factorize", 3, 0, 10), &singular) {
		t.Fatal("Error should be castable to *SingularSystemError")
	}
	logger.Error().Object("error", singular).Msg("factorization failed")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	obj, ok := entry["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected nested error object, got %v", entry["error"])
	}
	if obj["type"] != "SingularSystemError" || obj["row"] != 3.0 {
		t.Errorf("unexpected fields: %v", obj)
	}
}

func TestWarn(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(func(w error) {})

	Warn(NewIllConditionedWarning(1e8, 1e13))
	Warn(NewSerialCorrelationFallbackWarning(12, 5, 2))

	if len(got) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(got))
	}
	var ill *IllConditionedWarning
	if !As(got[0], &ill) || ill.Lambda != 1e8 {
		t.Errorf("unexpected first warning %v", got[0])
	}
	if !strings.Contains(got[1].Error(), "too short for order 2") {
		t.Errorf("unexpected second warning %v", got[1])
	}
}

func TestCheckFinite(t *testing.T) {
	values := []float64{1, math.NaN(), 3, math.Inf(1)}

	err := CheckFinite("Smooth", "y", values, nil)
	var nonFinite *NonFiniteInputError
	if !As(err, &nonFinite) || nonFinite.Index != 1 {
		t.Fatalf("expected NonFiniteInputError at 1, got %v", err)
	}

	// 重みゼロの位置はスキップされる
	err = CheckFinite("Smooth", "y", values, []float64{1, 0, 1, 1})
	if !As(err, &nonFinite) || nonFinite.Index != 3 {
		t.Fatalf("expected NonFiniteInputError at 3, got %v", err)
	}

	if err := CheckFinite("Smooth", "y", values, []float64{1, 0, 1, 0}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestClipValue(t *testing.T) {
	tests := []struct{ value, want float64 }{
		{-5, -2},
		{11, 8},
		{3.5, 3.5},
	}
	for _, tt := range tests {
		if got := ClipValue(tt.value, -2, 8); got != tt.want {
			t.Errorf("ClipValue(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
