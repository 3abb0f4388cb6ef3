package reflection

import (
	"errors"
	"fmt"
)

var (
	ErrMethodNotFound    = errors.New("method not found")
	ErrSignatureMismatch = errors.New("signature mismatch")
	ErrUnresolved        = errors.New("accessor not resolved")
	ErrAlreadyResolved   = errors.New("accessor already resolved")
)

// ResolutionError 解析阶段失败：找不到方法或签名不兼容，不可恢复
type ResolutionError struct {
	Strategy Strategy
	Method   string
	Err      error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s accessor for Student.%s: %v", e.Strategy, e.Method, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// InvocationError 调用阶段失败，必须向上传播，不能吞掉
type InvocationError struct {
	Strategy Strategy
	Err      error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invoke %s accessor: %v", e.Strategy, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }
