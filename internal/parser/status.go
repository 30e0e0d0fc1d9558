package parser

// ============================================================================
// 解析状态
// ============================================================================
//
// 每个子解析器返回 Status（或带节点的 Result），包含两个独立的位：
//   - 错误：已报告诊断，结果可能不完整
//   - 代码补全：遇到了补全 Token，调用方应尽快停止
// 设置代码补全位时同时设置错误位，补全打断的解析不可能是完整的。
//
// ============================================================================

// Status 子解析器的结果状态
type Status uint8

const (
	statusError Status = 1 << iota
	statusCodeCompletion
)

// Success 成功状态
const Success Status = 0

func errorStatus() Status { return statusError }

func codeCompletionStatus() Status { return statusError | statusCodeCompletion }

// IsError 是否出错
func (s Status) IsError() bool { return s&statusError != 0 }

// IsSuccess 是否成功
func (s Status) IsSuccess() bool { return !s.IsError() }

// HasCodeCompletion 是否遇到代码补全 Token
func (s Status) HasCodeCompletion() bool { return s&statusCodeCompletion != 0 }

// SetError 设置错误位
func (s *Status) SetError() { *s |= statusError }

// SetCodeCompletion 设置代码补全位（同时设置错误位）
func (s *Status) SetCodeCompletion() { *s |= statusError | statusCodeCompletion }

// Merge 合并另一个状态
func (s *Status) Merge(o Status) { *s |= o }

// Result 带节点的解析结果
//
// 三种情形：成功且有节点、出错但有部分节点、出错且没有节点。
type Result[T any] struct {
	Node   T
	Status Status
	null   bool
}

func makeResult[T any](s Status, n T) Result[T] {
	return Result[T]{Node: n, Status: s}
}

func nullResult[T any](s Status) Result[T] {
	if s == Success {
		s = statusError
	}
	return Result[T]{Status: s, null: true}
}

// IsNull 是否没有节点
func (r Result[T]) IsNull() bool { return r.null }

// IsError 是否出错
func (r Result[T]) IsError() bool { return r.Status.IsError() }

// HasCodeCompletion 是否遇到代码补全 Token
func (r Result[T]) HasCodeCompletion() bool { return r.Status.HasCodeCompletion() }
