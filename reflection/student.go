package reflection

// 默认夹具
const (
	DefaultName    = "Alexander"
	DefaultSurname = "Biryukov"

	// NameMethod 各反射策略按名字查找的访问器方法
	NameMethod = "Name"
)

// Student 被反复读取的不可变夹具，字段不导出，只能通过值接收者方法读取
type Student struct {
	name    string
	surname string
}

func NewStudent(name, surname string) Student {
	return Student{name: name, surname: surname}
}

// DefaultStudent 返回 ("Alexander", "Biryukov")
func DefaultStudent() Student {
	return NewStudent(DefaultName, DefaultSurname)
}

func (s Student) Name() string    { return s.name }
func (s Student) Surname() string { return s.surname }

// NameGetter 单方法能力：给定Student返回其name，Lambda策略在运行时合成它的实现
type NameGetter interface {
	GetName(s Student) string
}

// NameGetterFunc 让普通函数实现 NameGetter
type NameGetterFunc func(Student) string

func (f NameGetterFunc) GetName(s Student) string { return f(s) }
