package pricing

import "context"

// Engine 定价引擎的通用契约。
// Arguments 返回可变参数的指针；Results 返回结果副本。
// Calculate 必须先校验参数、不修改参数，且对相同参数重复调用得到逐位相同的结果。
// 单个引擎实例不支持并发 Calculate，调用方负责串行化。
type Engine[A, R any] interface {
	Arguments() *A
	Results() R
	Validate() error
	Reset()
	Calculate(ctx context.Context) error
}

type validator interface {
	Validate() error
}

type resetter interface {
	Reset()
}

// GenericEngine 实现除 Calculate 之外的契约部分，供具体引擎嵌入。
type GenericEngine[A, R any] struct {
	arguments A
	results   R
}

// NewGenericEngine 以初始参数创建，结果处于未设置状态。
func NewGenericEngine[A, R any](arguments A) GenericEngine[A, R] {
	e := GenericEngine[A, R]{arguments: arguments}
	e.Reset()
	return e
}

// Arguments 返回参数指针。
func (e *GenericEngine[A, R]) Arguments() *A {
	return &e.arguments
}

// Results 返回结果副本。
func (e *GenericEngine[A, R]) Results() R {
	return e.results
}

// Validate 在参数类型实现了 Validate 时调用之。
func (e *GenericEngine[A, R]) Validate() error {
	if v, ok := any(&e.arguments).(validator); ok {
		return v.Validate()
	}
	return nil
}

// Reset 将结果恢复为未设置状态。
func (e *GenericEngine[A, R]) Reset() {
	if r, ok := any(&e.results).(resetter); ok {
		r.Reset()
		return
	}
	var zero R
	e.results = zero
}

// Publish 一次性替换结果；计算失败时不应调用，以保证不发布部分结果。
func (e *GenericEngine[A, R]) Publish(results R) {
	e.results = results
}
