package reflection

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/zeromicro/go-zero/core/syncx"
)

// Strategy 读取 Student.name 的四种调用机制
type Strategy int

const (
	StrategyDirect       Strategy = iota // 直接方法调用
	StrategyReflection                   // reflect.Method + Value.Call
	StrategyMethodHandle                 // 预解析的 func(Student) string
	StrategyLambda                       // 由 handle 合成的 NameGetter
)

var strategyNames = [...]string{
	StrategyDirect:       "direct",
	StrategyReflection:   "reflection",
	StrategyMethodHandle: "methodHandle",
	StrategyLambda:       "lambda",
}

func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
	return strategyNames[s]
}

// Strategies 按声明顺序返回全部策略
func Strategies() []Strategy {
	return []Strategy{StrategyDirect, StrategyReflection, StrategyMethodHandle, StrategyLambda}
}

// Accessor 一种取值策略。
//
// 状态只有两个：unresolved -> resolved。Resolve 只能成功一次，
// Access/Run 只在 resolved 状态下合法，调用本身从不触发再次解析。
type Accessor interface {
	Strategy() Strategy
	Resolve() error
	Resolved() bool
	// Resolutions 成功解析的次数，正常情况下永远不超过1
	Resolutions() int
	Access(s Student) (string, error)
	// Run 连续调用 n 次并返回最后一次的结果，循环放在实现内部，
	// 这样测量时不会多出一层接口调用
	Run(s Student, n int) (string, error)
}

// New 按策略构造一个未解析的 Accessor，method 对直接调用无意义
func New(strategy Strategy, method string) (Accessor, error) {
	switch strategy {
	case StrategyDirect:
		return NewDirectAccessor(), nil
	case StrategyReflection:
		return NewReflectionAccessor(method), nil
	case StrategyMethodHandle:
		return NewMethodHandleAccessor(method), nil
	case StrategyLambda:
		return NewLambdaAccessor(method), nil
	default:
		return nil, fmt.Errorf("unknown strategy %s", strategy)
	}
}

type lifecycle struct {
	resolved    *syncx.AtomicBool
	resolutions atomic.Int32
}

func newLifecycle() lifecycle {
	return lifecycle{resolved: syncx.NewAtomicBool()}
}

func (l *lifecycle) Resolved() bool   { return l.resolved.True() }
func (l *lifecycle) Resolutions() int { return int(l.resolutions.Load()) }

// resolve 执行一次解析，失败时保持 unresolved
func (l *lifecycle) resolve(strategy Strategy, method string, fn func() error) error {
	if l.resolved.True() {
		return ErrAlreadyResolved
	}
	if err := fn(); err != nil {
		return &ResolutionError{Strategy: strategy, Method: method, Err: err}
	}
	l.resolutions.Add(1)
	l.resolved.Set(true)
	return nil
}

var studentType = reflect.TypeOf(Student{})

func lookupMethod(name string) (reflect.Method, error) {
	m, ok := studentType.MethodByName(name)
	if !ok {
		return reflect.Method{}, ErrMethodNotFound
	}
	return m, nil
}

// ---------- 直接调用 ----------

type DirectAccessor struct {
	lifecycle
}

func NewDirectAccessor() *DirectAccessor {
	return &DirectAccessor{lifecycle: newLifecycle()}
}

func (a *DirectAccessor) Strategy() Strategy { return StrategyDirect }

func (a *DirectAccessor) Resolve() error {
	return a.resolve(StrategyDirect, NameMethod, func() error { return nil })
}

func (a *DirectAccessor) Access(s Student) (string, error) {
	if !a.Resolved() {
		return "", ErrUnresolved
	}
	return s.Name(), nil
}

func (a *DirectAccessor) Run(s Student, n int) (string, error) {
	if !a.Resolved() {
		return "", ErrUnresolved
	}
	var name string
	for range n {
		name = s.Name()
	}
	return name, nil
}

// ---------- reflect.Method ----------

// ReflectionAccessor 解析时按名字拿到 reflect.Method，每次调用都走 Value.Call，
// 参数装箱、结果再断言回 string
type ReflectionAccessor struct {
	lifecycle
	name   string
	method reflect.Method
}

func NewReflectionAccessor(method string) *ReflectionAccessor {
	return &ReflectionAccessor{lifecycle: newLifecycle(), name: method}
}

func (a *ReflectionAccessor) Strategy() Strategy { return StrategyReflection }

func (a *ReflectionAccessor) Resolve() error {
	return a.resolve(StrategyReflection, a.name, func() error {
		m, err := lookupMethod(a.name)
		if err != nil {
			return err
		}
		a.method = m
		return nil
	})
}

func (a *ReflectionAccessor) Access(s Student) (string, error) {
	if !a.Resolved() {
		return "", ErrUnresolved
	}
	return a.invoke(s)
}

func (a *ReflectionAccessor) Run(s Student, n int) (string, error) {
	if !a.Resolved() {
		return "", ErrUnresolved
	}
	var (
		name string
		err  error
	)
	for range n {
		if name, err = a.invoke(s); err != nil {
			return "", err
		}
	}
	return name, nil
}

// invoke Value.Call 的 panic（参数个数或类型不对）转成 InvocationError
func (a *ReflectionAccessor) invoke(s Student) (name string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &InvocationError{Strategy: StrategyReflection, Err: fmt.Errorf("%v", r)}
		}
	}()

	out := a.method.Func.Call([]reflect.Value{reflect.ValueOf(s)})
	if len(out) != 1 {
		return "", &InvocationError{
			Strategy: StrategyReflection,
			Err:      fmt.Errorf("Student.%s returned %d values, want 1", a.name, len(out)),
		}
	}
	name, ok := out[0].Interface().(string)
	if !ok {
		return "", &InvocationError{
			Strategy: StrategyReflection,
			Err:      fmt.Errorf("Student.%s returned %s, want string", a.name, out[0].Type()),
		}
	}
	return name, nil
}

// ---------- 预解析的 handle ----------

// MethodHandleAccessor 解析时把 reflect.Method.Func 断言成确定签名的函数，
// 之后每次调用都是普通的函数值调用
type MethodHandleAccessor struct {
	lifecycle
	name   string
	handle func(Student) string
}

func NewMethodHandleAccessor(method string) *MethodHandleAccessor {
	return &MethodHandleAccessor{lifecycle: newLifecycle(), name: method}
}

func (a *MethodHandleAccessor) Strategy() Strategy { return StrategyMethodHandle }

func (a *MethodHandleAccessor) Resolve() error {
	return a.resolve(StrategyMethodHandle, a.name, func() error {
		h, err := lookupHandle(a.name)
		if err != nil {
			return err
		}
		a.handle = h
		return nil
	})
}

func lookupHandle(name string) (func(Student) string, error) {
	m, err := lookupMethod(name)
	if err != nil {
		return nil, err
	}
	h, ok := m.Func.Interface().(func(Student) string)
	if !ok {
		return nil, fmt.Errorf("%w: Student.%s is %s, want func(Student) string", ErrSignatureMismatch, name, m.Type)
	}
	return h, nil
}

func (a *MethodHandleAccessor) Access(s Student) (string, error) {
	if !a.Resolved() {
		return "", ErrUnresolved
	}
	return a.handle(s), nil
}

func (a *MethodHandleAccessor) Run(s Student, n int) (string, error) {
	if !a.Resolved() {
		return "", ErrUnresolved
	}
	h := a.handle
	var name string
	for range n {
		name = h(s)
	}
	return name, nil
}

// ---------- 合成的 NameGetter ----------

// LambdaAccessor 解析时先拿到 handle，再由 Metafactory 合成 NameGetter；
// 间接成本只在合成时付一次，之后就是一次接口方法调用
type LambdaAccessor struct {
	lifecycle
	name   string
	getter NameGetter
}

func NewLambdaAccessor(method string) *LambdaAccessor {
	return &LambdaAccessor{lifecycle: newLifecycle(), name: method}
}

func (a *LambdaAccessor) Strategy() Strategy { return StrategyLambda }

func (a *LambdaAccessor) Resolve() error {
	return a.resolve(StrategyLambda, a.name, func() error {
		m, err := lookupMethod(a.name)
		if err != nil {
			return err
		}
		g, err := Metafactory(m.Func)
		if err != nil {
			return err
		}
		a.getter = g
		return nil
	})
}

func (a *LambdaAccessor) Access(s Student) (string, error) {
	if !a.Resolved() {
		return "", ErrUnresolved
	}
	return a.getter.GetName(s), nil
}

func (a *LambdaAccessor) Run(s Student, n int) (string, error) {
	if !a.Resolved() {
		return "", ErrUnresolved
	}
	g := a.getter
	var name string
	for range n {
		name = g.GetName(s)
	}
	return name, nil
}

// getNameType NameGetter.GetName 的签名（接口方法不含接收者）
var getNameType = func() reflect.Type {
	m, _ := reflect.TypeOf((*NameGetter)(nil)).Elem().MethodByName("GetName")
	return m.Type
}()

// Metafactory 用 handle 合成一个 NameGetter。handle 的签名必须能转换成
// GetName 的签名，否则在构造时就失败，不会留到调用时
func Metafactory(handle reflect.Value) (NameGetter, error) {
	if !handle.IsValid() || handle.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: handle is not a func", ErrSignatureMismatch)
	}
	if !handle.Type().ConvertibleTo(getNameType) {
		return nil, fmt.Errorf("%w: %s does not match NameGetter.GetName %s", ErrSignatureMismatch, handle.Type(), getNameType)
	}
	fn := handle.Convert(getNameType).Interface().(func(Student) string)
	return NameGetterFunc(fn), nil
}
