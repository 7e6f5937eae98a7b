// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 平滑化エンジンの各エラー種別は型付きの構造体として定義され、cockroachdb/errors によって
// スタックトレースが付与されます。種別の判定には errors.Is をセンチネルに対して、
// 詳細の取得には errors.As を使用してください。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = defaultWarningHandler
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// デフォルトのハンドラは標準エラー出力にログを出す
func defaultWarningHandler(w error) {
	log.Printf("scismooth-Warning: %v\n", w)
}

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// nil を渡すとデフォルトのハンドラに戻ります。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	if handler == nil {
		handler = defaultWarningHandler
	}
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	センチネルエラー
//
// ===========================================================================

var (
	// ErrInvalidOrder は次数が 1 未満、またはデータ長以上の場合のエラーです。
	ErrInvalidOrder = errors.New("invalid order")

	// ErrInvalidLambda は λ が負、または有限でない場合のエラーです。
	ErrInvalidLambda = errors.New("invalid lambda")

	// ErrLengthMismatch は x / weights / y の長さが設定長と一致しない場合のエラーです。
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrNonMonotonicInput は x 座標が狭義単調増加でない場合のエラーです。
	ErrNonMonotonicInput = errors.New("non-monotonic input")

	// ErrNonFiniteInput は重みが非ゼロの位置に NaN/Inf がある場合のエラーです。
	ErrNonFiniteInput = errors.New("non-finite input")

	// ErrSingularSystem は帯行列の分解で非正のピボットが検出された場合のエラーです。
	ErrSingularSystem = errors.New("singular system")

	// ErrSampleRate は x 座標の間隔が XEpsilon より小さい場合のエラーです。
	ErrSampleRate = errors.New("sample rate too high")

	// ErrInvalidWeight は重みが負の場合のエラーです。
	ErrInvalidWeight = errors.New("invalid weight")

	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = errors.New("empty data")
)

// XEpsilon is the smallest gap allowed between consecutive x coordinates.
// Gaps are used as divisors when building the difference operator.
const XEpsilon = 1e-6

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// InvalidOrderError は次数の検証に失敗した場合のエラーです。
type InvalidOrderError struct {
	Op     string
	Order  int
	Length int
}

func (e *InvalidOrderError) Error() string {
	if e.Order < 1 {
		return fmt.Sprintf("scismooth: %s: order must be at least 1, got %d", e.Op, e.Order)
	}
	return fmt.Sprintf("scismooth: %s: data must be longer than the order of the smoother. Data length: %d, smoother order: %d",
		e.Op, e.Length, e.Order)
}

// Is reports whether target is ErrInvalidOrder.
func (e *InvalidOrderError) Is(target error) bool { return target == ErrInvalidOrder }

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidOrderError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("order", e.Order).
		Int("length", e.Length).
		Str("type", "InvalidOrderError")
}

// NewInvalidOrderError は新しいInvalidOrderErrorを作成し、スタックトレースを付与します。
func NewInvalidOrderError(op string, order, length int) error {
	return errors.WithStack(&InvalidOrderError{Op: op, Order: order, Length: length})
}

// InvalidLambdaError は λ の検証に失敗した場合のエラーです。
type InvalidLambdaError struct {
	Op     string
	Lambda float64
}

func (e *InvalidLambdaError) Error() string {
	return fmt.Sprintf("scismooth: %s: lambda must be a finite non-negative number, got %g", e.Op, e.Lambda)
}

// Is reports whether target is ErrInvalidLambda.
func (e *InvalidLambdaError) Is(target error) bool { return target == ErrInvalidLambda }

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidLambdaError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Float64("lambda", e.Lambda).
		Str("type", "InvalidLambdaError")
}

// NewInvalidLambdaError は新しいInvalidLambdaErrorを作成し、スタックトレースを付与します。
func NewInvalidLambdaError(op string, lambda float64) error {
	return errors.WithStack(&InvalidLambdaError{Op: op, Lambda: lambda})
}

// LengthMismatchError は入力の長さが期待値と異なる場合のエラーです。
type LengthMismatchError struct {
	Op       string
	Input    string // "x_input", "weights", "y"
	Expected int
	Got      int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("scismooth: %s: length mismatch for %s: expected %d, got %d", e.Op, e.Input, e.Expected, e.Got)
}

// Is reports whether target is ErrLengthMismatch.
func (e *LengthMismatchError) Is(target error) bool { return target == ErrLengthMismatch }

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *LengthMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("input", e.Input).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("type", "LengthMismatchError")
}

// NewLengthMismatchError は新しいLengthMismatchErrorを作成し、スタックトレースを付与します。
func NewLengthMismatchError(op, input string, expected, got int) error {
	return errors.WithStack(&LengthMismatchError{Op: op, Input: input, Expected: expected, Got: got})
}

// NonMonotonicInputError は x 座標が狭義単調増加でない場合のエラーです。
// Index は x[Index] >= x[Index+1] となった位置です。
type NonMonotonicInputError struct {
	Op    string
	Index int
}

func (e *NonMonotonicInputError) Error() string {
	return fmt.Sprintf("scismooth: %s: x input must be strictly increasing. Offending index: %d", e.Op, e.Index)
}

// Is reports whether target is ErrNonMonotonicInput.
func (e *NonMonotonicInputError) Is(target error) bool { return target == ErrNonMonotonicInput }

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NonMonotonicInputError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("index", e.Index).
		Str("type", "NonMonotonicInputError")
}

// NewNonMonotonicInputError は新しいNonMonotonicInputErrorを作成し、スタックトレースを付与します。
func NewNonMonotonicInputError(op string, index int) error {
	return errors.WithStack(&NonMonotonicInputError{Op: op, Index: index})
}

// InvalidWeightError は重みが負の場合のエラーです。
type InvalidWeightError struct {
	Op     string
	Index  int
	Weight float64
}

func (e *InvalidWeightError) Error() string {
	return fmt.Sprintf("scismooth: %s: weights must be non-negative, got %g at index %d", e.Op, e.Weight, e.Index)
}

// Is reports whether target is ErrInvalidWeight.
func (e *InvalidWeightError) Is(target error) bool { return target == ErrInvalidWeight }

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidWeightError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("index", e.Index).
		Float64("weight", e.Weight).
		Str("type", "InvalidWeightError")
}

// NewInvalidWeightError は新しいInvalidWeightErrorを作成し、スタックトレースを付与します。
func NewInvalidWeightError(op string, index int, weight float64) error {
	return errors.WithStack(&InvalidWeightError{Op: op, Index: index, Weight: weight})
}

// SampleRateError は x 座標の間隔が XEpsilon 未満の場合のエラーです。
type SampleRateError struct {
	Op    string
	Index int
	Gap   float64
}

func (e *SampleRateError) Error() string {
	return fmt.Sprintf("scismooth: %s: x input needs to be spaced a minimum of %g apart, got %g. Offending index: %d",
		e.Op, XEpsilon, e.Gap, e.Index)
}

// Is reports whether target is ErrSampleRate.
func (e *SampleRateError) Is(target error) bool { return target == ErrSampleRate }

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *SampleRateError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("index", e.Index).
		Float64("gap", e.Gap).
		Str("type", "SampleRateError")
}

// NewSampleRateError は新しいSampleRateErrorを作成し、スタックトレースを付与します。
func NewSampleRateError(op string, index int, gap float64) error {
	return errors.WithStack(&SampleRateError{Op: op, Index: index, Gap: gap})
}

// NonFiniteInputError は NaN/Inf が検出された場合のエラーです。
type NonFiniteInputError struct {
	Op    string
	Input string
	Index int
	Value float64
}

func (e *NonFiniteInputError) Error() string {
	return fmt.Sprintf("scismooth: %s: non-finite value %g in %s at index %d", e.Op, e.Value, e.Input, e.Index)
}

// Is reports whether target is ErrNonFiniteInput.
func (e *NonFiniteInputError) Is(target error) bool { return target == ErrNonFiniteInput }

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NonFiniteInputError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("input", e.Input).
		Int("index", e.Index).
		Str("type", "NonFiniteInputError")
}

// NewNonFiniteInputError は新しいNonFiniteInputErrorを作成し、スタックトレースを付与します。
func NewNonFiniteInputError(op, input string, index int, value float64) error {
	return errors.WithStack(&NonFiniteInputError{Op: op, Input: input, Index: index, Value: value})
}

// SingularSystemError は帯 Cholesky 分解が非正のピボットで失敗した場合のエラーです。
// 設定の不変条件が破られていることを示すため、自動的にリトライしてはいけません。
type SingularSystemError struct {
	Op     string
	Row    int
	Pivot  float64
	Lambda float64
}

func (e *SingularSystemError) Error() string {
	return fmt.Sprintf("scismooth: %s: system is not positive definite (pivot %g at row %d, lambda %g)",
		e.Op, e.Pivot, e.Row, e.Lambda)
}

// Is reports whether target is ErrSingularSystem.
func (e *SingularSystemError) Is(target error) bool { return target == ErrSingularSystem }

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *SingularSystemError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("row", e.Row).
		Float64("pivot", e.Pivot).
		Float64("lambda", e.Lambda).
		Str("type", "SingularSystemError")
}

// NewSingularSystemError は新しいSingularSystemErrorを作成し、スタックトレースを付与します。
func NewSingularSystemError(op string, row int, pivot, lambda float64) error {
	return errors.WithStack(&SingularSystemError{Op: op, Row: row, Pivot: pivot, Lambda: lambda})
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// IllConditionedWarning は分解のピボット比が大きく、解の精度が落ちる可能性がある場合の警告です。
type IllConditionedWarning struct {
	Lambda     float64
	PivotRatio float64
}

func (w *IllConditionedWarning) Error() string {
	return fmt.Sprintf("penalized system is ill-conditioned at lambda %g (pivot ratio %.3g). Results may be inaccurate.",
		w.Lambda, w.PivotRatio)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *IllConditionedWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Float64("lambda", w.Lambda).
		Float64("pivot_ratio", w.PivotRatio).
		Str("type", "IllConditionedWarning")
}

// NewIllConditionedWarning は新しいIllConditionedWarningを作成します。
func NewIllConditionedWarning(lambda, pivotRatio float64) *IllConditionedWarning {
	return &IllConditionedWarning{Lambda: lambda, PivotRatio: pivotRatio}
}

// SerialCorrelationFallbackWarning は系列が短すぎて系列相関補正を適用できない場合の警告です。
type SerialCorrelationFallbackWarning struct {
	Length int
	Stride int
	Order  int
}

func (w *SerialCorrelationFallbackWarning) Error() string {
	return fmt.Sprintf("series of length %d subsampled every %d samples is too short for order %d; using uncorrected cross validation",
		w.Length, w.Stride, w.Order)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *SerialCorrelationFallbackWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Int("length", w.Length).
		Int("stride", w.Stride).
		Int("order", w.Order).
		Str("type", "SerialCorrelationFallbackWarning")
}

// NewSerialCorrelationFallbackWarning は新しいSerialCorrelationFallbackWarningを作成します。
func NewSerialCorrelationFallbackWarning(length, stride, order int) *SerialCorrelationFallbackWarning {
	return &SerialCorrelationFallbackWarning{Length: length, Stride: stride, Order: order}
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}
