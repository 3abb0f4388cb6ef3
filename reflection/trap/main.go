package main

import (
	"errors"
	"fmt"
	"reflect"

	"reflection-benchmark/reflection"
)

// ============================================================
// 陷阱1：按名字查找不到未导出方法
// reflect 只能看到导出方法，MethodByName("name") 返回 ok=false，
// 如果不检查 ok 直接用返回的零值 Method，调用时才 panic。
// ============================================================

func trapUnexportedMethod() {
	fmt.Println("=== 陷阱1：未导出方法查找不到 ===")

	t := reflect.TypeOf(reflection.DefaultStudent())
	_, ok := t.MethodByName("name")
	fmt.Println(`MethodByName("name") ok:`, ok) // false
	_, ok = t.MethodByName("Name")
	fmt.Println(`MethodByName("Name") ok:`, ok) // true

	// 安全写法：Resolve 在测量之前就把错误报出来
	err := reflection.NewReflectionAccessor("name").Resolve()
	fmt.Println("Resolve:", err)
	fmt.Println("errors.Is(err, ErrMethodNotFound):", errors.Is(err, reflection.ErrMethodNotFound))
	fmt.Println()
}

// ============================================================
// 陷阱2：指针接收者方法不在值类型的方法集里
// 对 T 做反射看不到 (*T) 上的方法，要么对 *T 反射，要么改成值接收者。
// ============================================================

type counter struct{ n int }

func (c counter) Value() int { return c.n }
func (c *counter) Incr()     { c.n++ }

func trapPointerReceiver() {
	fmt.Println("=== 陷阱2：指针接收者方法不在值类型方法集 ===")

	_, ok := reflect.TypeOf(counter{}).MethodByName("Incr")
	fmt.Println("counter 有 Incr:", ok) // false
	_, ok = reflect.TypeOf(&counter{}).MethodByName("Incr")
	fmt.Println("*counter 有 Incr:", ok) // true
	fmt.Println("counter 方法数:", reflect.TypeOf(counter{}).NumMethod(), "*counter 方法数:", reflect.TypeOf(&counter{}).NumMethod())
	fmt.Println()
}

// ============================================================
// 陷阱3：调用零值 reflect.Value 直接 panic
// MethodByName 找不到时 Value 版本返回零值而不是 error。
// ============================================================

func trapZeroValueCall() {
	fmt.Println("=== 陷阱3：调用零值 reflect.Value ===")

	m := reflect.ValueOf(reflection.DefaultStudent()).MethodByName("FirstName")
	fmt.Println("IsValid:", m.IsValid()) // false

	func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Println("panic:", r)
			}
		}()
		m.Call(nil)
	}()
	fmt.Println()
}

// ============================================================
// 陷阱4：Type.Method 与 Value.Method 的签名不同
// Type.Method 得到的 Func 第一个参数是接收者：func(Student) string；
// Value.Method 已经绑定了接收者：func() string。
// 把后者当 handle 交给 Metafactory 会因为签名不符而失败。
// ============================================================

func trapBoundVsUnbound() {
	fmt.Println("=== 陷阱4：Type.Method 与 Value.Method ===")

	student := reflection.DefaultStudent()
	unbound, _ := reflect.TypeOf(student).MethodByName("Name")
	bound := reflect.ValueOf(student).MethodByName("Name")
	fmt.Println("Type.Method.Func:", unbound.Func.Type()) // func(reflection.Student) string
	fmt.Println("Value.MethodByName:", bound.Type())     // func() string

	if _, err := reflection.Metafactory(bound); err != nil {
		fmt.Println("bound:", err)
	}
	g, err := reflection.Metafactory(unbound.Func)
	if err != nil {
		fmt.Println("unbound:", err)
		return
	}
	fmt.Println("unbound GetName:", g.GetName(student))
	fmt.Println()
}

func main() {
	trapUnexportedMethod()
	trapPointerReceiver()
	trapZeroValueCall()
	trapBoundVsUnbound()
}
